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

	"github.com/retroenv/retrogolib/log"
)

/// Execute a single decoded instruction. PC must already point past the
/// instruction, which is what Step does. If an error is returned, no
/// machine state other than PC has been modified.
///
func (vm *Machine) Execute(op Opcode) (Result, error) {
	if op == nil {
		return Continue, ErrInvalidOpcode
	}

	if sys, ok := op.(Sys); ok && sysAlias(sys.Addr) {
		return Continue, fmt.Errorf("%w: SYS #%04X", ErrInvalidOpcode, sys.Addr&0xFFF)
	}

	// round trip so operands are always in range
	op, err := Decode(op.Encode())
	if err != nil {
		return Continue, err
	}

	switch op := op.(type) {
	case Cls:
		vm.cls()
	case Ret:
		return Continue, vm.ret()
	case Sys:
		vm.sys(op.Addr)
	case Jump:
		vm.jump(op.Addr)
	case Call:
		return Continue, vm.call(op.Addr)
	case SkipEqual:
		vm.skipIf(op.X, op.KK)
	case SkipNotEqual:
		vm.skipIfNot(op.X, op.KK)
	case SkipEqualReg:
		vm.skipIfXY(op.X, op.Y)
	case Load:
		vm.loadX(op.X, op.KK)
	case Add:
		vm.addX(op.X, op.KK)
	case Move:
		vm.loadXY(op.X, op.Y)
	case Or:
		vm.or(op.X, op.Y)
	case And:
		vm.and(op.X, op.Y)
	case Xor:
		vm.xor(op.X, op.Y)
	case AddReg:
		vm.addXY(op.X, op.Y)
	case Sub:
		vm.subXY(op.X, op.Y)
	case ShiftRight:
		vm.shr(op.X, op.Y)
	case SubN:
		vm.subYX(op.X, op.Y)
	case ShiftLeft:
		vm.shl(op.X, op.Y)
	case SkipNotEqualReg:
		vm.skipIfNotXY(op.X, op.Y)
	case LoadI:
		vm.loadI(op.Addr)
	case JumpV0:
		vm.jumpV0(op.Addr)
	case Random:
		vm.rnd(op.X, op.KK)
	case Draw:
		if err := vm.drw(op.X, op.Y, op.N); err != nil {
			return Continue, err
		}
		return RedrawRequested, nil
	case SkipPressed:
		vm.skipIfPressed(op.X)
	case SkipNotPressed:
		vm.skipIfNotPressed(op.X)
	case LoadDelay:
		vm.loadXDT(op.X)
	case WaitKey:
		if !vm.loadXK(op.X) {
			return AwaitInput, nil
		}
	case SetDelay:
		vm.loadDTX(op.X)
	case SetSound:
		vm.loadSTX(op.X)
	case AddI:
		vm.addIX(op.X)
	case LoadFont:
		vm.loadF(op.X)
	case StoreBCD:
		return Continue, vm.loadB(op.X)
	case StoreRegs:
		return Continue, vm.saveRegs(op.X)
	case LoadRegs:
		return Continue, vm.loadRegs(op.X)
	default:
		return Continue, fmt.Errorf("%w: %T", ErrInvalidOpcode, op)
	}

	return Continue, nil
}

/// Clear the video display memory.
///
func (vm *Machine) cls() {
	vm.Video = [DisplayWidth * DisplayHeight]bool{}
}

/// system call a machine code routine. There is no host CPU to run it
/// on, so it is ignored.
///
func (vm *Machine) sys(address uint16) {
	vm.logger.Debug("Ignoring SYS call",
		log.Hex("pc", vm.PC-2),
		log.Hex("address", address))
}

/// call a subroutine at address.
///
func (vm *Machine) call(address uint16) error {
	if int(vm.SP) >= StackSize-1 {
		return ErrStackOverflow
	}

	// pre-increment
	vm.SP++

	// push program counter onto stack
	vm.Stack[vm.SP] = vm.PC

	// jump to address
	vm.PC = address
	return nil
}

/// return from subroutine.
///
func (vm *Machine) ret() error {
	if vm.SP == 0 {
		return ErrStackUnderflow
	}

	// restore program counter
	vm.PC = vm.Stack[vm.SP]

	// post-decrement
	vm.SP--
	return nil
}

/// jump to address.
///
func (vm *Machine) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *Machine) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *Machine) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *Machine) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *Machine) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *Machine) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *Machine) skipIfPressed(x byte) {
	if vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *Machine) skipIfNotPressed(x byte) {
	if !vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *Machine) loadX(x, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *Machine) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *Machine) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *Machine) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *Machine) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

/// load vx with the lowest key that is down. If no key is down the
/// program counter is rewound so the instruction is retried.
///
func (vm *Machine) loadXK(x byte) bool {
	for k, down := range vm.Keys {
		if down {
			vm.V[x] = byte(k)
			return true
		}
	}

	vm.PC -= 2
	return false
}

/// load address register.
///
func (vm *Machine) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *Machine) loadB(x byte) error {
	if int(vm.I)+2 >= MemorySize {
		return ErrOutOfBounds
	}

	n := vm.V[x]

	vm.Memory[vm.I+0] = n / 100
	vm.Memory[vm.I+1] = n % 100 / 10
	vm.Memory[vm.I+2] = n % 10
	return nil
}

/// load font sprite for vx into I.
///
func (vm *Machine) loadF(x byte) {
	vm.I = FontAddress(vm.V[x])
}

/// or vx with vy into vx.
///
func (vm *Machine) or(x, y byte) {
	vm.V[x] |= vm.V[y]
	vm.logicFlag()
}

/// and vx with vy into vx.
///
func (vm *Machine) and(x, y byte) {
	vm.V[x] &= vm.V[y]
	vm.logicFlag()
}

/// xor vx with vy into vx.
///
func (vm *Machine) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
	vm.logicFlag()
}

func (vm *Machine) logicFlag() {
	if vm.Quirks.LogicResetsVF {
		vm.V[0xF] = 0
	}
}

/// value shifted by shl and shr.
///
func (vm *Machine) shiftSource(x, y byte) byte {
	if vm.Quirks.ShiftUsesVY {
		return vm.V[y]
	}
	return vm.V[x]
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *Machine) shl(x, y byte) {
	v := vm.shiftSource(x, y)

	vm.V[x] = v << 1
	vm.V[0xF] = v >> 7
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *Machine) shr(x, y byte) {
	v := vm.shiftSource(x, y)

	vm.V[x] = v >> 1
	vm.V[0xF] = v & 1
}

/// add n to vx.
///
func (vm *Machine) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *Machine) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// add vx to i.
///
func (vm *Machine) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *Machine) subXY(x, y byte) {
	a, b := vm.V[x], vm.V[y]

	vm.V[x] = a - b
	vm.V[0xF] = flag(a >= b)
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *Machine) subYX(x, y byte) {
	a, b := vm.V[x], vm.V[y]

	vm.V[x] = b - a
	vm.V[0xF] = flag(b >= a)
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}

/// load a random number & n into vx.
///
func (vm *Machine) rnd(x, b byte) {
	vm.V[x] = vm.rand.RandomByte() & b
}

/// draw a sprite at I to video memory at vx, vy. Pixels that fall off
/// an edge wrap around to the other side.
///
func (vm *Machine) drw(x, y, n byte) error {
	if int(vm.I)+int(n) > MemorySize {
		return ErrOutOfBounds
	}

	// origin
	ox := int(vm.V[x])
	oy := int(vm.V[y])

	// collision flag is cleared before drawing
	vm.V[0xF] = 0

	// draw each row of the sprite
	for row, s := range vm.Memory[vm.I : vm.I+uint16(n)] {
		for col := 0; col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			i := pixelIndex(ox+col, oy+row)

			// was a pixel turned off?
			if vm.Video[i] {
				vm.V[0xF] = 1
			}

			vm.Video[i] = !vm.Video[i]
		}
	}

	return nil
}

/// save registers v0..vx to I.
///
func (vm *Machine) saveRegs(x byte) error {
	if int(vm.I)+int(x) >= MemorySize {
		return ErrOutOfBounds
	}

	copy(vm.Memory[vm.I:], vm.V[:x+1])

	if vm.Quirks.MemoryIncrementsI {
		vm.I += uint16(x) + 1
	}
	return nil
}

/// load registers v0..vx from I.
///
func (vm *Machine) loadRegs(x byte) error {
	if int(vm.I)+int(x) >= MemorySize {
		return ErrOutOfBounds
	}

	copy(vm.V[:x+1], vm.Memory[vm.I:])

	if vm.Quirks.MemoryIncrementsI {
		vm.I += uint16(x) + 1
	}
	return nil
}
