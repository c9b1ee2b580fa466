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

/// Dump writes the registers, stack and timers in a human readable
/// form, followed by the instruction at PC.
///
func (vm *Machine) Dump(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("PC - #%04X  I  - #%04X  SP - #%02X\n", vm.PC, vm.I, vm.SP)
	ew.printf("DT - #%02X    ST - #%02X    cycles %d\n", vm.DT, vm.ST, vm.Cycles)

	// virtual registers, 4 per line
	for i := 0; i < RegisterCount; i++ {
		ew.printf("V%X - #%02X", i, vm.V[i])

		if i&3 == 3 {
			ew.printf("\n")
		} else {
			ew.printf("  ")
		}
	}

	// only the used portion of the stack
	if vm.SP == 0 {
		ew.printf("stack empty\n")
	}
	for i := int(vm.SP); i > 0; i-- {
		ew.printf("S%X - #%04X\n", i, vm.Stack[i])
	}

	ew.printf("%s\n", vm.Disassemble(vm.PC))
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
