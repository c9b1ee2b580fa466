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
	"errors"
)

/// Fetch returns the 16-bit instruction word at PC without advancing.
///
func (vm *Machine) Fetch() (uint16, error) {
	if int(vm.PC)+1 >= MemorySize {
		return 0, ErrOutOfBounds
	}

	return uint16(vm.Memory[vm.PC])<<8 | uint16(vm.Memory[vm.PC+1]), nil
}

/// Step the CHIP-8 virtual machine a single instruction. Any error is
/// a *Fault and leaves the machine as it was before the step.
///
func (vm *Machine) Step() (Result, error) {
	pc := vm.PC

	// fetch the next instruction
	inst, err := vm.Fetch()
	if err != nil {
		return Continue, vm.fault(pc, inst, err)
	}

	op, err := Decode(inst)
	if err != nil {
		return Continue, vm.fault(pc, inst, err)
	}

	// advance the program counter
	vm.PC += 2

	res, err := vm.Execute(op)
	if err != nil {
		vm.PC = pc
		return Continue, vm.fault(pc, inst, err)
	}

	// a blocked wait doesn't count as a cycle
	if res != AwaitInput {
		vm.Cycles++
	}

	return res, nil
}

func (vm *Machine) fault(pc, inst uint16, err error) *Fault {
	// keep just the sentinel, the fault already carries the word
	for _, sentinel := range []error{ErrInvalidOpcode, ErrStackOverflow, ErrStackUnderflow, ErrOutOfBounds} {
		if errors.Is(err, sentinel) {
			err = sentinel
			break
		}
	}

	return &Fault{PC: pc, Word: inst, Err: err}
}
