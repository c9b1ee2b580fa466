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
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramStart.
	///
	ROM []byte

	/// Breakpoints placed in the source with BREAK.
	///
	Breakpoints []Breakpoint

	/// Label mapping.
	///
	Labels map[string]token

	/// Addresses with unresolved labels.
	///
	Unresolved map[int]string
}

/// Breakpoint is an address the driver should pause at.
///
type Breakpoint struct {
	Address uint16
	Reason  string
}

/// Assemble CHIP-8 source code. Labels start in the first column with a
/// '.', and everything else must be indented.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:         make([]byte, ProgramStart, MemorySize),
		Breakpoints: make([]Breakpoint, 0, 10),
		Labels:      make(map[string]token),
		Unresolved:  make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	reader := bytes.NewReader(bytes.ToUpper(program))
	scanner := bufio.NewScanner(reader)

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic(ErrROMTooLarge)
		}
	}

	// clear the line number as we're done with the source
	line = 0

	out.resolve()

	// drop the first 512 bytes from the rom
	out.ROM = out.ROM[ProgramStart:]

	return out, nil
}

/// Patch every forward reference now that all labels are known.
///
func (a *Assembly) resolve() {
	addresses := make([]int, 0, len(a.Unresolved))
	for address := range a.Unresolved {
		addresses = append(addresses, address)
	}

	// report the first unresolved label in source order
	sort.Ints(addresses)

	for _, address := range addresses {
		label := a.Unresolved[address]

		t, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}
		if t.typ != TOKEN_LIT {
			panic(fmt.Errorf("label does not resolve to an address: %s", label))
		}

		// every address operand is the low 12 bits of a word, and the
		// placeholder left the high nibble of the word untouched
		v := t.val.(int)

		// a SYS to a forward label mustn't turn into CLS or RET
		if a.ROM[address]&0xF0 == 0 && sysAlias(uint16(v)) {
			panic(fmt.Errorf("illegal SYS address: %s", label))
		}

		a.ROM[address] = byte(v>>8&0xF) | (a.ROM[address] & 0xF0)
		a.ROM[address+1] = byte(v & 0xFF)

		delete(a.Unresolved, address)
	}
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s)
	case TOKEN_BREAK:
		a.assembleBreakpoint(s)
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

/// Scan for a label and add it to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	// by default, the label is assigned the current address
	a.Labels[label] = token{typ: TOKEN_LIT, val: len(a.ROM)}

	t := s.scanToken()

	// if EQU or VAR, reassign the label
	if t.typ == TOKEN_EQU || t.typ == TOKEN_VAR {
		v := s.scanToken()

		// equ requires a literal, and var requires a v-register
		if (t.typ == TOKEN_EQU && v.typ == TOKEN_LIT) || (t.typ == TOKEN_VAR && v.typ == TOKEN_V) {
			a.Labels[label] = v

			// should be the final token
			if t = s.scanToken(); t.typ == TOKEN_END {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

/// Create a new breakpoint at the current address.
///
func (a *Assembly) assembleBreakpoint(s *tokenScanner) {
	reason := s.scanToEnd().val.(string)

	a.Breakpoints = append(a.Breakpoints, Breakpoint{
		Address: uint16(len(a.ROM)),
		Reason:  reason,
	})
}

/// Compile a single instruction into the assembly.
///
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	switch i {
	case "BYTE":
		a.ROM = append(a.ROM, a.assembleBYTE(tokens)...)
		return
	case "WORD":
		a.ROM = append(a.ROM, a.assembleWORD(tokens)...)
		return
	case "ALIGN":
		a.ROM = append(a.ROM, a.assembleALIGN(tokens)...)
		return
	case "PAD":
		a.ROM = append(a.ROM, a.assemblePAD(tokens)...)
		return
	}

	var op Opcode

	switch i {
	case "CLS":
		op = a.assembleNoOperands(tokens, Cls{})
	case "RET":
		op = a.assembleNoOperands(tokens, Ret{})
	case "SYS":
		op = a.assembleSYS(tokens)
	case "JP":
		op = a.assembleJP(tokens)
	case "CALL":
		op = a.assembleCALL(tokens)
	case "SE":
		op = a.assembleSE(tokens)
	case "SNE":
		op = a.assembleSNE(tokens)
	case "SKP":
		op = SkipPressed{X: a.assembleRegister(tokens)}
	case "SKNP":
		op = SkipNotPressed{X: a.assembleRegister(tokens)}
	case "OR":
		x, y := a.assembleRegisterPair(tokens)
		op = Or{X: x, Y: y}
	case "AND":
		x, y := a.assembleRegisterPair(tokens)
		op = And{X: x, Y: y}
	case "XOR":
		x, y := a.assembleRegisterPair(tokens)
		op = Xor{X: x, Y: y}
	case "SHR":
		x, y := a.assembleShift(tokens)
		op = ShiftRight{X: x, Y: y}
	case "SHL":
		x, y := a.assembleShift(tokens)
		op = ShiftLeft{X: x, Y: y}
	case "ADD":
		op = a.assembleADD(tokens)
	case "SUB":
		x, y := a.assembleRegisterPair(tokens)
		op = Sub{X: x, Y: y}
	case "SUBN":
		x, y := a.assembleRegisterPair(tokens)
		op = SubN{X: x, Y: y}
	case "RND":
		op = a.assembleRND(tokens)
	case "DRW":
		op = a.assembleDRW(tokens)
	case "LD":
		op = a.assembleLD(tokens)
	default:
		panic(fmt.Errorf("unknown instruction: %s", i))
	}

	w := op.Encode()

	a.ROM = append(a.ROM, byte(w>>8), byte(w&0xFF))
}

/// Assemble a single operand, expanding label references.
///
func (a *Assembly) assembleOperand(t token) token {
	if t.typ == TOKEN_REF {
		label := t.val.(string)
		if v, exists := a.Labels[label]; exists {
			t = v
		} else {
			t = token{typ: TOKEN_LIT, val: ProgramStart}

			// add an unresolved address
			a.Unresolved[len(a.ROM)] = label
		}
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expand labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	ops := make([]token, 0, 3)

	// the number of desired tokens should match
	if len(tokens) != len(m) {
		return nil, false
	}

	// a failed match must not leave a pending label fixup behind
	pending, hadPending := a.Unresolved[len(a.ROM)]

	// expand and compare the token types
	for i, typ := range m {
		t := a.assembleOperand(tokens[i])

		if t.typ != typ {
			if hadPending {
				a.Unresolved[len(a.ROM)] = pending
			} else {
				delete(a.Unresolved, len(a.ROM))
			}
			return nil, false
		}

		ops = append(ops, t)
	}

	return ops, true
}

func (a *Assembly) assembleNoOperands(tokens []token, op Opcode) Opcode {
	if len(tokens) == 0 {
		return op
	}

	panic("illegal instruction")
}

/// Assemble the single v-register operand of SKP and SKNP.
///
func (a *Assembly) assembleRegister(tokens []token) byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		return byte(ops[0].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble a Vx, Vy operand pair.
///
func (a *Assembly) assembleRegisterPair(tokens []token) (byte, byte) {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return byte(ops[0].val.(int)), byte(ops[1].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble the operands of SHR and SHL. With a single register the
/// register is also used as Vy.
///
func (a *Assembly) assembleShift(tokens []token) (byte, byte) {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := byte(ops[0].val.(int))

		return x, x
	}

	return a.assembleRegisterPair(tokens)
}

/// Assemble a SYS instruction.
///
func (a *Assembly) assembleSYS(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if addr := ops[0].val.(int); addr >= 0 && addr < MemorySize {
			if sysAlias(uint16(addr)) {
				panic(fmt.Errorf("illegal SYS address: #%04X", addr))
			}
			return Sys{Addr: uint16(addr)}
		}
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if addr := ops[0].val.(int); addr >= 0 && addr < MemorySize {
			return Jump{Addr: uint16(addr)}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		v := ops[0].val.(int)
		addr := ops[1].val.(int)

		if v == 0 && addr >= 0 && addr < MemorySize {
			return JumpV0{Addr: uint16(addr)}
		}
	}

	panic("illegal instruction")
}

/// Assemble a CALL instruction.
///
func (a *Assembly) assembleCALL(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if addr := ops[0].val.(int); addr >= 0 && addr < MemorySize {
			return Call{Addr: uint16(addr)}
		}
	}

	panic("illegal instruction")
}

/// Assemble a SE instruction.
///
func (a *Assembly) assembleSE(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := byteLiteral(ops[1]); ok {
			return SkipEqual{X: byte(x), KK: b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return SkipEqualReg{X: byte(ops[0].val.(int)), Y: byte(ops[1].val.(int))}
	}

	panic("illegal instruction")
}

/// Assemble a SNE instruction.
///
func (a *Assembly) assembleSNE(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := byteLiteral(ops[1]); ok {
			return SkipNotEqual{X: byte(x), KK: b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return SkipNotEqualReg{X: byte(ops[0].val.(int)), Y: byte(ops[1].val.(int))}
	}

	panic("illegal instruction")
}

/// Assemble a ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := byteLiteral(ops[1]); ok {
			return Add{X: byte(x), KK: b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return AddReg{X: byte(ops[0].val.(int)), Y: byte(ops[1].val.(int))}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		return AddI{X: byte(ops[1].val.(int))}
	}

	panic("illegal instruction")
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := byteLiteral(ops[1]); ok {
			return Random{X: byte(x), KK: b}
		}
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)
		n := ops[2].val.(int)

		if n >= 0 && n < 0x10 {
			return Draw{X: byte(x), Y: byte(y), N: byte(n)}
		}
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) Opcode {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)

		if b, ok := byteLiteral(ops[1]); ok {
			return Load{X: byte(x), KK: b}
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return Move{X: byte(ops[0].val.(int)), Y: byte(ops[1].val.(int))}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		if addr := ops[1].val.(int); addr >= 0 && addr < MemorySize {
			return LoadI{Addr: uint16(addr)}
		}
	}

	// the remaining forms all take a single v-register
	forms := []struct {
		operands []tokenType
		x        int
		op       func(x byte) Opcode
	}{
		{[]tokenType{TOKEN_V, TOKEN_DT}, 0, func(x byte) Opcode { return LoadDelay{X: x} }},
		{[]tokenType{TOKEN_V, TOKEN_K}, 0, func(x byte) Opcode { return WaitKey{X: x} }},
		{[]tokenType{TOKEN_DT, TOKEN_V}, 1, func(x byte) Opcode { return SetDelay{X: x} }},
		{[]tokenType{TOKEN_ST, TOKEN_V}, 1, func(x byte) Opcode { return SetSound{X: x} }},
		{[]tokenType{TOKEN_F, TOKEN_V}, 1, func(x byte) Opcode { return LoadFont{X: x} }},
		{[]tokenType{TOKEN_B, TOKEN_V}, 1, func(x byte) Opcode { return StoreBCD{X: x} }},
		{[]tokenType{TOKEN_EFFECTIVE_ADDRESS, TOKEN_V}, 1, func(x byte) Opcode { return StoreRegs{X: x} }},
		{[]tokenType{TOKEN_V, TOKEN_EFFECTIVE_ADDRESS}, 0, func(x byte) Opcode { return LoadRegs{X: x} }},
	}

	for _, form := range forms {
		if ops, ok := a.assembleOperands(tokens, form.operands...); ok {
			return form.op(byte(ops[form.x].val.(int)))
		}
	}

	panic("illegal instruction")
}

/// Assemble a BYTE directive.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t)

		switch op.typ {
		case TOKEN_LIT:
			v, ok := byteLiteral(op)
			if !ok {
				panic("invalid byte")
			}

			b = append(b, v)
		case TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble a WORD directive.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		// label fixups are keyed on the address being written
		if t.typ == TOKEN_REF {
			if _, exists := a.Labels[t.val.(string)]; !exists {
				a.Unresolved[len(a.ROM)+len(b)] = t.val.(string)
			}
		}

		op := t
		if t.typ == TOKEN_REF {
			if v, exists := a.Labels[t.val.(string)]; exists {
				op = v
			} else {
				op = token{typ: TOKEN_LIT, val: ProgramStart}
			}
		}

		if op.typ != TOKEN_LIT || op.val.(int) < 0 || op.val.(int) > 0xFFFF {
			panic("invalid word")
		}

		v := op.val.(int)

		// store msb first
		b = append(b, byte(v>>8&0xFF), byte(v&0xFF))
	}

	return b
}

/// Assemble an ALIGN directive.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n > 0 && n&(n-1) == 0 {
			offset := len(a.ROM) & (n - 1)
			if offset == 0 {
				return nil
			}

			// reserve pad bytes to meet alignment
			return make([]byte, n-offset)
		}
	}

	panic("illegal alignment")
}

/// Assemble a PAD directive.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n >= 0 && n <= MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}

/// byteLiteral accepts 0..255, and -128..-1 as two's complement.
///
func byteLiteral(t token) (byte, bool) {
	v := t.val.(int)

	if v < -128 || v > 0xFF {
		return 0, false
	}

	return byte(v), true
}
