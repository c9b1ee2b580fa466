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
	"fmt"
)

var (
	/// ErrInvalidOpcode is returned for an instruction word that isn't
	/// part of the base CHIP-8 instruction set.
	///
	ErrInvalidOpcode = errors.New("invalid opcode")

	/// ErrStackOverflow is returned by CALL when all stack slots are used.
	///
	ErrStackOverflow = errors.New("stack overflow")

	/// ErrStackUnderflow is returned by RET with an empty stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")

	/// ErrOutOfBounds is returned when an instruction would read or
	/// write past the end of memory.
	///
	ErrOutOfBounds = errors.New("memory access out of bounds")

	/// ErrROMTooLarge is returned when loading a program that doesn't
	/// fit between 0x200 and the end of memory.
	///
	ErrROMTooLarge = errors.New("program too large to fit in memory")
)

/// Fault is an execution error raised by the instruction at PC. The
/// machine state is left exactly as it was before the instruction.
///
type Fault struct {
	/// PC is the address of the faulting instruction.
	///
	PC uint16

	/// Word is the raw instruction word.
	///
	Word uint16

	/// Err is one of the Err* sentinels.
	///
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: #%04X at #%04X", f.Err, f.Word, f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
