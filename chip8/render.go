/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"fmt"
)

/// Palette holds the color value written for lit and unlit pixels. Both
/// must be the same length, which is the size of one pixel in bytes.
///
type Palette struct {
	On  []byte
	Off []byte
}

/// Monochrome is a one byte per pixel palette of 0xFF and 0x00.
///
var Monochrome = Palette{On: []byte{0xFF}, Off: []byte{0x00}}

/// Render converts the video memory into dst, row-major, one color value
/// from p per pixel.
///
func (vm *Machine) Render(dst []byte, p Palette) error {
	size := len(p.On)
	if size == 0 || len(p.Off) != size {
		return fmt.Errorf("invalid palette: %d/%d bytes per pixel", len(p.On), len(p.Off))
	}

	if need := len(vm.Video) * size; len(dst) < need {
		return fmt.Errorf("render buffer too small: %d bytes, need %d", len(dst), need)
	}

	for i, lit := range vm.Video {
		if lit {
			copy(dst[i*size:], p.On)
		} else {
			copy(dst[i*size:], p.Off)
		}
	}

	return nil
}
