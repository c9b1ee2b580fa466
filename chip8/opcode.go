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
	"strings"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

/// Opcode is a single decoded CHIP-8 instruction. The set of opcodes is
/// closed: only the types declared in this file implement it, and each
/// carries just the operands it needs.
///
type Opcode interface {
	fmt.Stringer

	/// Encode returns the 16-bit instruction word for the opcode.
	///
	Encode() uint16

	opcode()
}

/// Cls clears the display (00E0).
///
type Cls struct{}

/// Ret returns from a subroutine (00EE).
///
type Ret struct{}

/// Sys calls a machine code routine at Addr (0nnn). Ignored.
///
type Sys struct{ Addr uint16 }

/// Jump sets PC to Addr (1nnn).
///
type Jump struct{ Addr uint16 }

/// Call pushes PC and jumps to Addr (2nnn).
///
type Call struct{ Addr uint16 }

/// SkipEqual skips the next instruction if Vx == kk (3xkk).
///
type SkipEqual struct{ X, KK byte }

/// SkipNotEqual skips the next instruction if Vx != kk (4xkk).
///
type SkipNotEqual struct{ X, KK byte }

/// SkipEqualReg skips the next instruction if Vx == Vy (5xy0).
///
type SkipEqualReg struct{ X, Y byte }

/// Load sets Vx = kk (6xkk).
///
type Load struct{ X, KK byte }

/// Add sets Vx = Vx + kk without touching VF (7xkk).
///
type Add struct{ X, KK byte }

/// Move sets Vx = Vy (8xy0).
///
type Move struct{ X, Y byte }

/// Or sets Vx = Vx | Vy (8xy1).
///
type Or struct{ X, Y byte }

/// And sets Vx = Vx & Vy (8xy2).
///
type And struct{ X, Y byte }

/// Xor sets Vx = Vx ^ Vy (8xy3).
///
type Xor struct{ X, Y byte }

/// AddReg sets Vx = Vx + Vy, VF = carry (8xy4).
///
type AddReg struct{ X, Y byte }

/// Sub sets Vx = Vx - Vy, VF = not borrow (8xy5).
///
type Sub struct{ X, Y byte }

/// ShiftRight sets Vx = Vx >> 1, VF = shifted out bit (8xy6).
///
type ShiftRight struct{ X, Y byte }

/// SubN sets Vx = Vy - Vx, VF = not borrow (8xy7).
///
type SubN struct{ X, Y byte }

/// ShiftLeft sets Vx = Vx << 1, VF = shifted out bit (8xyE).
///
type ShiftLeft struct{ X, Y byte }

/// SkipNotEqualReg skips the next instruction if Vx != Vy (9xy0).
///
type SkipNotEqualReg struct{ X, Y byte }

/// LoadI sets I = Addr (Annn).
///
type LoadI struct{ Addr uint16 }

/// JumpV0 sets PC = Addr + V0 (Bnnn).
///
type JumpV0 struct{ Addr uint16 }

/// Random sets Vx = random byte & kk (Cxkk).
///
type Random struct{ X, KK byte }

/// Draw XORs an N byte sprite at I onto the display at Vx, Vy (Dxyn).
///
type Draw struct{ X, Y, N byte }

/// SkipPressed skips the next instruction if key Vx is down (Ex9E).
///
type SkipPressed struct{ X byte }

/// SkipNotPressed skips the next instruction if key Vx is up (ExA1).
///
type SkipNotPressed struct{ X byte }

/// LoadDelay sets Vx = DT (Fx07).
///
type LoadDelay struct{ X byte }

/// WaitKey blocks until a key is down and loads it into Vx (Fx0A).
///
type WaitKey struct{ X byte }

/// SetDelay sets DT = Vx (Fx15).
///
type SetDelay struct{ X byte }

/// SetSound sets ST = Vx (Fx18).
///
type SetSound struct{ X byte }

/// AddI sets I = I + Vx (Fx1E).
///
type AddI struct{ X byte }

/// LoadFont points I at the font glyph for digit Vx (Fx29).
///
type LoadFont struct{ X byte }

/// StoreBCD writes the BCD digits of Vx to I, I+1, I+2 (Fx33).
///
type StoreBCD struct{ X byte }

/// StoreRegs writes V0..Vx to memory starting at I (Fx55).
///
type StoreRegs struct{ X byte }

/// LoadRegs reads V0..Vx from memory starting at I (Fx65).
///
type LoadRegs struct{ X byte }

// instruction word builders
func encodeAddr(family, addr uint16) uint16 { return family<<12 | addr&0xFFF }
func encodeXKK(family uint16, x, kk byte) uint16 {
	return family<<12 | uint16(x&0xF)<<8 | uint16(kk)
}
func encodeXYN(family uint16, x, y, n byte) uint16 {
	return family<<12 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

func (Cls) Encode() uint16               { return 0x00E0 }
func (Ret) Encode() uint16               { return 0x00EE }
func (op Sys) Encode() uint16            { return encodeAddr(0x0, op.Addr) }
func (op Jump) Encode() uint16           { return encodeAddr(0x1, op.Addr) }
func (op Call) Encode() uint16           { return encodeAddr(0x2, op.Addr) }
func (op SkipEqual) Encode() uint16      { return encodeXKK(0x3, op.X, op.KK) }
func (op SkipNotEqual) Encode() uint16   { return encodeXKK(0x4, op.X, op.KK) }
func (op SkipEqualReg) Encode() uint16   { return encodeXYN(0x5, op.X, op.Y, 0x0) }
func (op Load) Encode() uint16           { return encodeXKK(0x6, op.X, op.KK) }
func (op Add) Encode() uint16            { return encodeXKK(0x7, op.X, op.KK) }
func (op Move) Encode() uint16           { return encodeXYN(0x8, op.X, op.Y, 0x0) }
func (op Or) Encode() uint16             { return encodeXYN(0x8, op.X, op.Y, 0x1) }
func (op And) Encode() uint16            { return encodeXYN(0x8, op.X, op.Y, 0x2) }
func (op Xor) Encode() uint16            { return encodeXYN(0x8, op.X, op.Y, 0x3) }
func (op AddReg) Encode() uint16         { return encodeXYN(0x8, op.X, op.Y, 0x4) }
func (op Sub) Encode() uint16            { return encodeXYN(0x8, op.X, op.Y, 0x5) }
func (op ShiftRight) Encode() uint16     { return encodeXYN(0x8, op.X, op.Y, 0x6) }
func (op SubN) Encode() uint16           { return encodeXYN(0x8, op.X, op.Y, 0x7) }
func (op ShiftLeft) Encode() uint16      { return encodeXYN(0x8, op.X, op.Y, 0xE) }
func (op SkipNotEqualReg) Encode() uint16 { return encodeXYN(0x9, op.X, op.Y, 0x0) }
func (op LoadI) Encode() uint16          { return encodeAddr(0xA, op.Addr) }
func (op JumpV0) Encode() uint16         { return encodeAddr(0xB, op.Addr) }
func (op Random) Encode() uint16         { return encodeXKK(0xC, op.X, op.KK) }
func (op Draw) Encode() uint16           { return encodeXYN(0xD, op.X, op.Y, op.N) }
func (op SkipPressed) Encode() uint16    { return encodeXKK(0xE, op.X, 0x9E) }
func (op SkipNotPressed) Encode() uint16 { return encodeXKK(0xE, op.X, 0xA1) }
func (op LoadDelay) Encode() uint16      { return encodeXKK(0xF, op.X, 0x07) }
func (op WaitKey) Encode() uint16        { return encodeXKK(0xF, op.X, 0x0A) }
func (op SetDelay) Encode() uint16       { return encodeXKK(0xF, op.X, 0x15) }
func (op SetSound) Encode() uint16       { return encodeXKK(0xF, op.X, 0x18) }
func (op AddI) Encode() uint16           { return encodeXKK(0xF, op.X, 0x1E) }
func (op LoadFont) Encode() uint16       { return encodeXKK(0xF, op.X, 0x29) }
func (op StoreBCD) Encode() uint16       { return encodeXKK(0xF, op.X, 0x33) }
func (op StoreRegs) Encode() uint16      { return encodeXKK(0xF, op.X, 0x55) }
func (op LoadRegs) Encode() uint16       { return encodeXKK(0xF, op.X, 0x65) }

/// sysAlias is true for the two SYS addresses whose words are CLS and
/// RET. No Sys opcode can encode them.
///
func sysAlias(addr uint16) bool {
	addr &= 0xFFF
	return addr == 0x0E0 || addr == 0x0EE
}

/// Mnemonics come from the shared CHIP-8 instruction table so the
/// disassembly matches other retro tooling. SYS isn't in that table.
///
func mnemonic(id cpu.OpcodeID) string {
	return strings.ToUpper(cpu.OpcodeIDToName[id])
}

func disasm(id cpu.OpcodeID, operands string, args ...interface{}) string {
	return fmt.Sprintf("%-6s %s", mnemonic(id), fmt.Sprintf(operands, args...))
}

func (Cls) String() string                { return mnemonic(cpu.Cls) }
func (Ret) String() string                { return mnemonic(cpu.Ret) }
func (op Sys) String() string             { return fmt.Sprintf("%-6s #%04X", "SYS", op.Addr&0xFFF) }
func (op Jump) String() string            { return disasm(cpu.Jp, "#%04X", op.Addr&0xFFF) }
func (op Call) String() string            { return disasm(cpu.Call, "#%04X", op.Addr&0xFFF) }
func (op SkipEqual) String() string       { return disasm(cpu.Se, "V%X, #%02X", op.X&0xF, op.KK) }
func (op SkipNotEqual) String() string    { return disasm(cpu.Sne, "V%X, #%02X", op.X&0xF, op.KK) }
func (op SkipEqualReg) String() string    { return disasm(cpu.Se, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op Load) String() string            { return disasm(cpu.Ld, "V%X, #%02X", op.X&0xF, op.KK) }
func (op Add) String() string             { return disasm(cpu.Add, "V%X, #%02X", op.X&0xF, op.KK) }
func (op Move) String() string            { return disasm(cpu.Ld, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op Or) String() string              { return disasm(cpu.Or, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op And) String() string             { return disasm(cpu.And, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op Xor) String() string             { return disasm(cpu.Xor, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op AddReg) String() string          { return disasm(cpu.Add, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op Sub) String() string             { return disasm(cpu.Sub, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op ShiftRight) String() string      { return disasm(cpu.Shr, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op SubN) String() string            { return disasm(cpu.Subn, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op ShiftLeft) String() string       { return disasm(cpu.Shl, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op SkipNotEqualReg) String() string { return disasm(cpu.Sne, "V%X, V%X", op.X&0xF, op.Y&0xF) }
func (op LoadI) String() string           { return disasm(cpu.Ld, "I, #%04X", op.Addr&0xFFF) }
func (op JumpV0) String() string          { return disasm(cpu.Jp, "V0, #%04X", op.Addr&0xFFF) }
func (op Random) String() string          { return disasm(cpu.Rnd, "V%X, #%02X", op.X&0xF, op.KK) }
func (op Draw) String() string            { return disasm(cpu.Drw, "V%X, V%X, %d", op.X&0xF, op.Y&0xF, op.N&0xF) }
func (op SkipPressed) String() string     { return disasm(cpu.Skp, "V%X", op.X&0xF) }
func (op SkipNotPressed) String() string  { return disasm(cpu.Sknp, "V%X", op.X&0xF) }
func (op LoadDelay) String() string       { return disasm(cpu.Ld, "V%X, DT", op.X&0xF) }
func (op WaitKey) String() string         { return disasm(cpu.Ld, "V%X, K", op.X&0xF) }
func (op SetDelay) String() string        { return disasm(cpu.Ld, "DT, V%X", op.X&0xF) }
func (op SetSound) String() string        { return disasm(cpu.Ld, "ST, V%X", op.X&0xF) }
func (op AddI) String() string            { return disasm(cpu.Add, "I, V%X", op.X&0xF) }
func (op LoadFont) String() string        { return disasm(cpu.Ld, "F, V%X", op.X&0xF) }
func (op StoreBCD) String() string        { return disasm(cpu.Ld, "B, V%X", op.X&0xF) }
func (op StoreRegs) String() string       { return disasm(cpu.Ld, "[I], V%X", op.X&0xF) }
func (op LoadRegs) String() string        { return disasm(cpu.Ld, "V%X, [I]", op.X&0xF) }

func (Cls) opcode()             {}
func (Ret) opcode()             {}
func (Sys) opcode()             {}
func (Jump) opcode()            {}
func (Call) opcode()            {}
func (SkipEqual) opcode()       {}
func (SkipNotEqual) opcode()    {}
func (SkipEqualReg) opcode()    {}
func (Load) opcode()            {}
func (Add) opcode()             {}
func (Move) opcode()            {}
func (Or) opcode()              {}
func (And) opcode()             {}
func (Xor) opcode()             {}
func (AddReg) opcode()          {}
func (Sub) opcode()             {}
func (ShiftRight) opcode()      {}
func (SubN) opcode()            {}
func (ShiftLeft) opcode()       {}
func (SkipNotEqualReg) opcode() {}
func (LoadI) opcode()           {}
func (JumpV0) opcode()          {}
func (Random) opcode()          {}
func (Draw) opcode()            {}
func (SkipPressed) opcode()     {}
func (SkipNotPressed) opcode()  {}
func (LoadDelay) opcode()       {}
func (WaitKey) opcode()         {}
func (SetDelay) opcode()        {}
func (SetSound) opcode()        {}
func (AddI) opcode()            {}
func (LoadFont) opcode()        {}
func (StoreBCD) opcode()        {}
func (StoreRegs) opcode()       {}
func (LoadRegs) opcode()        {}
