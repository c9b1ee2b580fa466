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
	"io"
)

/// Disassemble the instruction at an address into a line of text.
///
func (vm *Machine) Disassemble(i uint16) string {
	if int(i)+1 >= MemorySize {
		return fmt.Sprintf("%04X - ??", i)
	}

	inst := uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1])

	op, err := Decode(inst)
	if err != nil {
		// data, not an instruction
		return fmt.Sprintf("%04X - %-6s #%04X", i, "WORD", inst)
	}

	return fmt.Sprintf("%04X - %s", i, op)
}

/// Listing writes the disassembly of n bytes of memory starting at
/// address to w, one instruction per line.
///
func (vm *Machine) Listing(w io.Writer, address uint16, n int) error {
	end := int(address) + n
	if end > MemorySize {
		end = MemorySize
	}

	for a := int(address); a+1 < end; a += 2 {
		if _, err := fmt.Fprintln(w, vm.Disassemble(uint16(a))); err != nil {
			return err
		}
	}

	return nil
}
