package chip8

import (
	"errors"
	"testing"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		op   Opcode
		text string
	}{
		{0x00E0, Cls{}, "CLS"},
		{0x00EE, Ret{}, "RET"},
		{0x0123, Sys{Addr: 0x123}, "SYS    #0123"},
		{0x1ABC, Jump{Addr: 0xABC}, "JP     #0ABC"},
		{0x2345, Call{Addr: 0x345}, "CALL   #0345"},
		{0x3A12, SkipEqual{X: 0xA, KK: 0x12}, "SE     VA, #12"},
		{0x4B34, SkipNotEqual{X: 0xB, KK: 0x34}, "SNE    VB, #34"},
		{0x5120, SkipEqualReg{X: 1, Y: 2}, "SE     V1, V2"},
		{0x6CFF, Load{X: 0xC, KK: 0xFF}, "LD     VC, #FF"},
		{0x7D01, Add{X: 0xD, KK: 0x01}, "ADD    VD, #01"},
		{0x8120, Move{X: 1, Y: 2}, "LD     V1, V2"},
		{0x8121, Or{X: 1, Y: 2}, "OR     V1, V2"},
		{0x8122, And{X: 1, Y: 2}, "AND    V1, V2"},
		{0x8123, Xor{X: 1, Y: 2}, "XOR    V1, V2"},
		{0x8124, AddReg{X: 1, Y: 2}, "ADD    V1, V2"},
		{0x8125, Sub{X: 1, Y: 2}, "SUB    V1, V2"},
		{0x8126, ShiftRight{X: 1, Y: 2}, "SHR    V1, V2"},
		{0x8127, SubN{X: 1, Y: 2}, "SUBN   V1, V2"},
		{0x812E, ShiftLeft{X: 1, Y: 2}, "SHL    V1, V2"},
		{0x9120, SkipNotEqualReg{X: 1, Y: 2}, "SNE    V1, V2"},
		{0xA456, LoadI{Addr: 0x456}, "LD     I, #0456"},
		{0xB789, JumpV0{Addr: 0x789}, "JP     V0, #0789"},
		{0xC30F, Random{X: 3, KK: 0x0F}, "RND    V3, #0F"},
		{0xD125, Draw{X: 1, Y: 2, N: 5}, "DRW    V1, V2, 5"},
		{0xE49E, SkipPressed{X: 4}, "SKP    V4"},
		{0xE5A1, SkipNotPressed{X: 5}, "SKNP   V5"},
		{0xF607, LoadDelay{X: 6}, "LD     V6, DT"},
		{0xF70A, WaitKey{X: 7}, "LD     V7, K"},
		{0xF815, SetDelay{X: 8}, "LD     DT, V8"},
		{0xF918, SetSound{X: 9}, "LD     ST, V9"},
		{0xFA1E, AddI{X: 0xA}, "ADD    I, VA"},
		{0xFB29, LoadFont{X: 0xB}, "LD     F, VB"},
		{0xFC33, StoreBCD{X: 0xC}, "LD     B, VC"},
		{0xFD55, StoreRegs{X: 0xD}, "LD     [I], VD"},
		{0xFE65, LoadRegs{X: 0xE}, "LD     VE, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			op, err := Decode(tt.word)
			assert.NoError(t, err)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.word, op.Encode())
			assert.Equal(t, tt.text, op.String())
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	words := []uint16{
		0x5121, 0x512F, 0x8128, 0x812D, 0x812F, 0x9121,
		0xE19F, 0xE1A0, 0xE100, 0xF100, 0xF1FF, 0xF130, 0xF175,
	}

	for _, w := range words {
		op, err := Decode(w)
		assert.Nil(t, op)
		assert.True(t, errors.Is(err, ErrInvalidOpcode))
	}
}

// every word either fails to decode or survives an encode round trip
func TestDecodeRoundTrip(t *testing.T) {
	for w := 0; w <= 0xFFFF; w++ {
		op, err := Decode(uint16(w))
		if err != nil {
			assert.True(t, errors.Is(err, ErrInvalidOpcode))
			continue
		}

		again, err := Decode(op.Encode())
		assert.NoError(t, err)
		assert.Equal(t, op, again)
		assert.Equal(t, uint16(w), op.Encode())
	}
}

func TestEncodeMasksOperands(t *testing.T) {
	assert.Equal(t, uint16(0x6F12), Load{X: 0x1F, KK: 0x12}.Encode())
	assert.Equal(t, uint16(0x1FFF), Jump{Addr: 0xFFFF}.Encode())
	assert.Equal(t, uint16(0xD12F), Draw{X: 1, Y: 2, N: 0xFF}.Encode())
}

// every encodable opcode value decodes back to an equal opcode
func TestOpcodeRoundTrip(t *testing.T) {
	var ops []Opcode

	for a := uint16(0); a < MemorySize; a++ {
		if !sysAlias(a) {
			ops = append(ops, Sys{Addr: a})
		}
		ops = append(ops, Jump{Addr: a}, Call{Addr: a}, LoadI{Addr: a}, JumpV0{Addr: a})
	}

	for x := byte(0); x < RegisterCount; x++ {
		for y := byte(0); y < RegisterCount; y++ {
			ops = append(ops,
				SkipEqualReg{X: x, Y: y}, Move{X: x, Y: y}, Or{X: x, Y: y},
				And{X: x, Y: y}, Xor{X: x, Y: y}, AddReg{X: x, Y: y},
				Sub{X: x, Y: y}, ShiftRight{X: x, Y: y}, SubN{X: x, Y: y},
				ShiftLeft{X: x, Y: y}, SkipNotEqualReg{X: x, Y: y},
				Draw{X: x, Y: y, N: y})
		}

		for kk := 0; kk < 256; kk++ {
			ops = append(ops,
				SkipEqual{X: x, KK: byte(kk)}, SkipNotEqual{X: x, KK: byte(kk)},
				Load{X: x, KK: byte(kk)}, Add{X: x, KK: byte(kk)},
				Random{X: x, KK: byte(kk)})
		}

		ops = append(ops,
			SkipPressed{X: x}, SkipNotPressed{X: x}, LoadDelay{X: x},
			WaitKey{X: x}, SetDelay{X: x}, SetSound{X: x}, AddI{X: x},
			LoadFont{X: x}, StoreBCD{X: x}, StoreRegs{X: x}, LoadRegs{X: x})
	}

	ops = append(ops, Cls{}, Ret{})

	for _, op := range ops {
		again, err := Decode(op.Encode())
		assert.NoError(t, err)
		assert.Equal(t, op, again)
	}
}

func TestSysAliases(t *testing.T) {
	assert.True(t, sysAlias(0x0E0))
	assert.True(t, sysAlias(0x0EE))
	assert.True(t, sysAlias(0x10EE))
	assert.False(t, sysAlias(0x0E1))
	assert.False(t, sysAlias(0x2E0))
}

func TestMnemonics(t *testing.T) {
	tests := []struct {
		id   cpu.OpcodeID
		want string
	}{
		{cpu.Cls, "CLS"},
		{cpu.Ret, "RET"},
		{cpu.Jp, "JP"},
		{cpu.Ld, "LD"},
		{cpu.Subn, "SUBN"},
		{cpu.Sknp, "SKNP"},
		{cpu.Drw, "DRW"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mnemonic(tt.id))
	}
}
