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

package main

import (
	"strings"

	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// fontFile is a 5x7 bitmap font of the characters '!' through ']',
// each 6 pixels apart, with a magenta background.
const fontFile = "data/font.bmp"

/// loadFont loads the bitmap font texture. Without it, text is drawn
/// with the CHIP-8 hex digit sprites instead.
///
func loadFont(renderer *sdl.Renderer, logger *log.Logger) *sdl.Texture {
	surface, err := sdl.LoadBMP(fontFile)
	if err != nil {
		logger.Debug("Using CHIP-8 font for debug text", log.String("file", fontFile), log.Err(err))
		return nil
	}
	defer surface.Free()

	// get the magenta color
	mask := sdl.MapRGB(surface.Format, 255, 0, 255)

	// set the mask color key
	surface.SetColorKey(true, mask)

	font, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		logger.Error("Creating font texture failed", log.Err(err))
		return nil
	}

	return font
}

/// drawText draws s in upper case at x, y. Each character is 7 pixels
/// wide.
///
func (h *sdlHost) drawText(s string, x, y int32) {
	src := sdl.Rect{W: 5, H: 7}
	dst := sdl.Rect{X: x, Y: y, W: 5, H: 7}

	if h.font == nil {
		h.renderer.SetDrawColor(220, 224, 214, 255)
	}

	// loop over all the characters in the string
	for _, c := range strings.ToUpper(s) {
		switch {
		case h.font == nil:
			h.drawGlyph(c, dst.X, dst.Y)
		case c > 32 && c < 94:
			src.X = (c - 33) * 6

			// draw the character to the renderer
			h.renderer.Copy(h.font, &src, &dst)
		}

		// advance
		dst.X += 7
	}
}

/// drawGlyph draws a hex digit using the CHIP-8 font sprites. Any other
/// character is left blank.
///
func (h *sdlHost) drawGlyph(c rune, x, y int32) {
	var digit byte

	switch {
	case c >= '0' && c <= '9':
		digit = byte(c - '0')
	case c >= 'A' && c <= 'F':
		digit = byte(c-'A') + 10
	default:
		return
	}

	addr := chip8.FontAddress(digit) - chip8.FontStart

	for row, bits := range chip8.Font[addr : addr+5] {
		for col := int32(0); col < 4; col++ {
			if bits&(0x80>>col) != 0 {
				h.renderer.DrawPoint(x+col, y+int32(row)+1)
			}
		}
	}
}
