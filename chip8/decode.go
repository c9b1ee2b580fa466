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

/// Decode a 16-bit instruction word into an Opcode. Any bit pattern
/// outside of the base instruction set returns ErrInvalidOpcode.
///
func Decode(inst uint16) (Opcode, error) {
	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := byte(inst >> 8 & 0xF)
	y := byte(inst >> 4 & 0xF)

	switch {
	case inst == 0x00E0:
		return Cls{}, nil
	case inst == 0x00EE:
		return Ret{}, nil
	case inst&0xF000 == 0x0000:
		return Sys{Addr: a}, nil
	case inst&0xF000 == 0x1000:
		return Jump{Addr: a}, nil
	case inst&0xF000 == 0x2000:
		return Call{Addr: a}, nil
	case inst&0xF000 == 0x3000:
		return SkipEqual{X: x, KK: b}, nil
	case inst&0xF000 == 0x4000:
		return SkipNotEqual{X: x, KK: b}, nil
	case inst&0xF00F == 0x5000:
		return SkipEqualReg{X: x, Y: y}, nil
	case inst&0xF000 == 0x6000:
		return Load{X: x, KK: b}, nil
	case inst&0xF000 == 0x7000:
		return Add{X: x, KK: b}, nil
	case inst&0xF00F == 0x8000:
		return Move{X: x, Y: y}, nil
	case inst&0xF00F == 0x8001:
		return Or{X: x, Y: y}, nil
	case inst&0xF00F == 0x8002:
		return And{X: x, Y: y}, nil
	case inst&0xF00F == 0x8003:
		return Xor{X: x, Y: y}, nil
	case inst&0xF00F == 0x8004:
		return AddReg{X: x, Y: y}, nil
	case inst&0xF00F == 0x8005:
		return Sub{X: x, Y: y}, nil
	case inst&0xF00F == 0x8006:
		return ShiftRight{X: x, Y: y}, nil
	case inst&0xF00F == 0x8007:
		return SubN{X: x, Y: y}, nil
	case inst&0xF00F == 0x800E:
		return ShiftLeft{X: x, Y: y}, nil
	case inst&0xF00F == 0x9000:
		return SkipNotEqualReg{X: x, Y: y}, nil
	case inst&0xF000 == 0xA000:
		return LoadI{Addr: a}, nil
	case inst&0xF000 == 0xB000:
		return JumpV0{Addr: a}, nil
	case inst&0xF000 == 0xC000:
		return Random{X: x, KK: b}, nil
	case inst&0xF000 == 0xD000:
		return Draw{X: x, Y: y, N: n}, nil
	case inst&0xF0FF == 0xE09E:
		return SkipPressed{X: x}, nil
	case inst&0xF0FF == 0xE0A1:
		return SkipNotPressed{X: x}, nil
	case inst&0xF0FF == 0xF007:
		return LoadDelay{X: x}, nil
	case inst&0xF0FF == 0xF00A:
		return WaitKey{X: x}, nil
	case inst&0xF0FF == 0xF015:
		return SetDelay{X: x}, nil
	case inst&0xF0FF == 0xF018:
		return SetSound{X: x}, nil
	case inst&0xF0FF == 0xF01E:
		return AddI{X: x}, nil
	case inst&0xF0FF == 0xF029:
		return LoadFont{X: x}, nil
	case inst&0xF0FF == 0xF033:
		return StoreBCD{X: x}, nil
	case inst&0xF0FF == 0xF055:
		return StoreRegs{X: x}, nil
	case inst&0xF0FF == 0xF065:
		return LoadRegs{X: x}, nil
	}

	return nil, fmt.Errorf("%w: #%04X", ErrInvalidOpcode, inst)
}
