package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAddWithCarry(t *testing.T) {
	vm := newTestMachine(t, 0x8014)
	vm.V[0] = 0x01
	vm.V[1] = 0xFF

	assert.Equal(t, Continue, step(t, vm))
	assert.Equal(t, byte(0x00), vm.V[0])
	assert.Equal(t, byte(1), vm.V[0xF])
}

func TestAddWithoutCarry(t *testing.T) {
	vm := newTestMachine(t, 0x8014)
	vm.V[0] = 0x10
	vm.V[1] = 0x20
	vm.V[0xF] = 1

	step(t, vm)
	assert.Equal(t, byte(0x30), vm.V[0])
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestAddImmediateLeavesFlag(t *testing.T) {
	vm := newTestMachine(t, 0x70FF)
	vm.V[0] = 0x02
	vm.V[0xF] = 0x55

	step(t, vm)
	assert.Equal(t, byte(0x01), vm.V[0])
	assert.Equal(t, byte(0x55), vm.V[0xF])
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name  string
		word  uint16
		vx    byte
		vy    byte
		want  byte
		carry byte
	}{
		{"sub borrow", 0x8015, 0x05, 0xC0, 0x45, 0},
		{"sub no borrow", 0x8015, 0xC0, 0x05, 0xBB, 1},
		{"sub equal", 0x8015, 0x20, 0x20, 0x00, 1},
		{"subn borrow", 0x8017, 0xC0, 0x05, 0x45, 0},
		{"subn no borrow", 0x8017, 0x05, 0xC0, 0xBB, 1},
		{"subn equal", 0x8017, 0x20, 0x20, 0x00, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestMachine(t, tt.word)
			vm.V[0] = tt.vx
			vm.V[1] = tt.vy

			step(t, vm)
			assert.Equal(t, tt.want, vm.V[0])
			assert.Equal(t, tt.carry, vm.V[0xF])
		})
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		quirks Quirks
		vx     byte
		vy     byte
		want   byte
		flag   byte
	}{
		{"shr lsb set", 0x8016, Quirks{}, 0x05, 0x00, 0x02, 1},
		{"shr lsb clear", 0x8016, Quirks{}, 0x04, 0xFF, 0x02, 0},
		{"shl msb set", 0x801E, Quirks{}, 0x81, 0x00, 0x02, 1},
		{"shl msb clear", 0x801E, Quirks{}, 0x41, 0xFF, 0x82, 0},
		{"shr from vy", 0x8016, Quirks{ShiftUsesVY: true}, 0x00, 0x05, 0x02, 1},
		{"shl from vy", 0x801E, Quirks{ShiftUsesVY: true}, 0x00, 0x81, 0x02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestMachine(t, tt.word)
			vm.Quirks = tt.quirks
			vm.V[0] = tt.vx
			vm.V[1] = tt.vy

			step(t, vm)
			assert.Equal(t, tt.want, vm.V[0])
			assert.Equal(t, tt.flag, vm.V[0xF])
		})
	}
}

// VF as the destination ends up holding the flag
func TestFlagWrittenLast(t *testing.T) {
	vm := newTestMachine(t, 0x8F04, 0x8F06)
	vm.V[0xF] = 0xFF
	vm.V[0] = 0x02

	step(t, vm)
	assert.Equal(t, byte(1), vm.V[0xF])

	vm.V[0xF] = 0x04
	step(t, vm)
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestLogic(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		quirks Quirks
		want   byte
		flag   byte
	}{
		{"or", 0x8011, Quirks{}, 0xFC, 0x07},
		{"and", 0x8012, Quirks{}, 0x30, 0x07},
		{"xor", 0x8013, Quirks{}, 0xCC, 0x07},
		{"or resets vf", 0x8011, Quirks{LogicResetsVF: true}, 0xFC, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestMachine(t, tt.word)
			vm.Quirks = tt.quirks
			vm.V[0] = 0xF0
			vm.V[1] = 0x3C
			vm.V[0xF] = 0x07

			step(t, vm)
			assert.Equal(t, tt.want, vm.V[0])
			assert.Equal(t, tt.flag, vm.V[0xF])
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		skip bool
	}{
		{"se immediate taken", 0x3012, true},
		{"se immediate not taken", 0x3013, false},
		{"sne immediate taken", 0x4013, true},
		{"sne immediate not taken", 0x4012, false},
		{"se register taken", 0x5010, true},
		{"se register not taken", 0x5020, false},
		{"sne register taken", 0x9020, true},
		{"sne register not taken", 0x9010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestMachine(t, tt.word)
			vm.V[0] = 0x12
			vm.V[1] = 0x12
			vm.V[2] = 0x34

			step(t, vm)
			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestKeySkips(t *testing.T) {
	vm := newTestMachine(t, 0xE09E, 0xE0A1, 0xE09E, 0xE0A1)
	vm.V[0] = 0x1A // only the low nibble names the key
	vm.PressKey(0xA)

	step(t, vm)
	assert.Equal(t, uint16(0x204), vm.PC)

	vm.ReleaseKey(0xA)
	vm.PC = 0x202
	step(t, vm)
	assert.Equal(t, uint16(0x206), vm.PC)
}

func TestJumps(t *testing.T) {
	vm := newTestMachine(t, 0x1300)
	step(t, vm)
	assert.Equal(t, uint16(0x300), vm.PC)

	vm = newTestMachine(t, 0xB300)
	vm.V[0] = 0x10
	step(t, vm)
	assert.Equal(t, uint16(0x310), vm.PC)
}

func TestCallReturnSymmetry(t *testing.T) {
	for sp := 0; sp < StackSize-1; sp++ {
		// CALL #0300 at 0x200, RET at 0x300
		vm := newTestMachine(t, 0x2300)
		vm.Memory[0x300] = 0x00
		vm.Memory[0x301] = 0xEE
		vm.SP = uint8(sp)

		step(t, vm)
		assert.Equal(t, uint16(0x300), vm.PC)
		assert.Equal(t, uint8(sp+1), vm.SP)

		step(t, vm)
		assert.Equal(t, uint16(0x202), vm.PC)
		assert.Equal(t, uint8(sp), vm.SP)
	}
}

func TestStackOverflow(t *testing.T) {
	vm := newTestMachine(t, 0x2300)
	vm.SP = StackSize - 1
	before := vm.Stack

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, uint8(StackSize-1), vm.SP)
	assert.Equal(t, before, vm.Stack)

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x2300), fault.Word)
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestMachine(t, 0x00EE)

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, uint8(0), vm.SP)
}

func TestClear(t *testing.T) {
	vm := newTestMachine(t, 0x00E0)
	vm.Video[0] = true
	vm.Video[len(vm.Video)-1] = true
	vm.V[0xF] = 3

	assert.Equal(t, Continue, step(t, vm))
	for _, p := range vm.Video {
		assert.False(t, p)
	}
	assert.Equal(t, byte(3), vm.V[0xF])
}

func TestDrawCollision(t *testing.T) {
	vm := newTestMachine(t, 0xD012)
	vm.I = 0x300
	vm.Memory[0x300] = 0x00
	vm.Memory[0x301] = 0x01
	vm.V[0] = 5
	vm.V[1] = 7
	vm.Video[8*DisplayWidth+12] = true

	assert.Equal(t, RedrawRequested, step(t, vm))
	assert.Equal(t, byte(1), vm.V[0xF])
	assert.False(t, vm.Pixel(12, 8))
}

func TestDrawNoCollision(t *testing.T) {
	vm := newTestMachine(t, 0xD011)
	vm.I = FontAddress(0)
	vm.V[0xF] = 1

	assert.Equal(t, RedrawRequested, step(t, vm))
	assert.Equal(t, byte(0), vm.V[0xF])

	// top row of the 0 glyph is 0xF0
	assert.True(t, vm.Pixel(0, 0))
	assert.True(t, vm.Pixel(3, 0))
	assert.False(t, vm.Pixel(4, 0))
}

func TestDrawWraps(t *testing.T) {
	vm := newTestMachine(t, 0xD012)
	vm.I = 0x300
	vm.Memory[0x300] = 0xC0
	vm.Memory[0x301] = 0xC0
	vm.V[0] = DisplayWidth - 1
	vm.V[1] = DisplayHeight - 1

	step(t, vm)
	assert.True(t, vm.Pixel(63, 31))
	assert.True(t, vm.Pixel(0, 31))
	assert.True(t, vm.Pixel(63, 0))
	assert.True(t, vm.Pixel(0, 0))
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestDrawOutOfBounds(t *testing.T) {
	vm := newTestMachine(t, 0xD01F)
	vm.I = MemorySize - 4
	vm.V[0xF] = 9

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, byte(9), vm.V[0xF])
	assert.Equal(t, uint16(0x200), vm.PC)
}

func TestWaitKey(t *testing.T) {
	vm := newTestMachine(t, 0xF30A)
	vm.V[3] = 0x42

	assert.Equal(t, AwaitInput, step(t, vm))
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, byte(0x42), vm.V[3])

	vm.PressKey(0xC)
	vm.PressKey(0x5)

	assert.Equal(t, Continue, step(t, vm))
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, byte(0x5), vm.V[3])
}

func TestTimerRegisters(t *testing.T) {
	vm := newTestMachine(t, 0xF015, 0xF118, 0xF207)
	vm.V[0] = 0x30
	vm.V[1] = 0x40

	step(t, vm)
	step(t, vm)
	assert.Equal(t, byte(0x30), vm.DT)
	assert.Equal(t, byte(0x40), vm.ST)

	vm.Tick()
	step(t, vm)
	assert.Equal(t, byte(0x2F), vm.V[2])
}

func TestIndexRegister(t *testing.T) {
	vm := newTestMachine(t, 0xA123, 0xF01E, 0xF129)
	vm.V[0] = 0x10
	vm.V[1] = 0xB

	step(t, vm)
	assert.Equal(t, uint16(0x123), vm.I)

	step(t, vm)
	assert.Equal(t, uint16(0x133), vm.I)

	step(t, vm)
	assert.Equal(t, uint16(55), vm.I)
	assert.Equal(t, Font[55:60], vm.Memory[vm.I:vm.I+5])
}

func TestFontAddressMasksDigit(t *testing.T) {
	assert.Equal(t, uint16(0), FontAddress(0x10))
	assert.Equal(t, uint16(75), FontAddress(0xFF))
}

func TestRandom(t *testing.T) {
	vm := newTestMachine(t, 0xC00F)
	vm.rand = RandomFunc(func() byte { return 0xA7 })

	step(t, vm)
	assert.Equal(t, byte(0x07), vm.V[0])
}

func TestBCD(t *testing.T) {
	vm := newTestMachine(t, 0xF033)
	vm.V[0] = 234
	vm.I = 0x300

	step(t, vm)
	assert.Equal(t, []byte{2, 3, 4}, vm.Memory[0x300:0x303])
}

func TestBCDOutOfBounds(t *testing.T) {
	vm := newTestMachine(t, 0xF033)
	vm.V[0] = 123
	vm.I = MemorySize - 2

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, byte(0), vm.Memory[MemorySize-2])
	assert.Equal(t, byte(0), vm.Memory[MemorySize-1])
}

func TestRegisterMemoryCopy(t *testing.T) {
	vm := newTestMachine(t, 0xF355, 0x6000, 0x6100, 0x6200, 0x6300, 0x6400, 0xF365)
	for i := range vm.V {
		vm.V[i] = byte(i + 1)
	}
	vm.I = 0x300

	step(t, vm)
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, vm.Memory[0x300:0x305])
	assert.Equal(t, uint16(0x300), vm.I)

	for i := 0; i < 5; i++ {
		step(t, vm)
	}
	assert.Equal(t, byte(0), vm.V[3])

	step(t, vm)
	assert.Equal(t, byte(4), vm.V[3])
	assert.Equal(t, byte(0), vm.V[4])
}

func TestRegisterMemoryCopyIncrementsI(t *testing.T) {
	vm := newTestMachine(t, 0xF255)
	vm.Quirks.MemoryIncrementsI = true
	vm.I = 0x300

	step(t, vm)
	assert.Equal(t, uint16(0x303), vm.I)
}

func TestRegisterMemoryCopyOutOfBounds(t *testing.T) {
	vm := newTestMachine(t, 0xFF55, 0xFF65)
	vm.I = MemorySize - 8

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	vm.PC = 0x202
	_, err = vm.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestSysIsIgnored(t *testing.T) {
	vm := newTestMachine(t, 0x0123)

	assert.Equal(t, Continue, step(t, vm))
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestExecuteNormalizesOperands(t *testing.T) {
	vm := newTestMachine(t)
	vm.PC = 0x202

	_, err := vm.Execute(Load{X: 0x13, KK: 0x77})
	assert.NoError(t, err)
	assert.Equal(t, byte(0x77), vm.V[3])

	_, err = vm.Execute(nil)
	assert.True(t, errors.Is(err, ErrInvalidOpcode))
}

func TestExecuteSysAliases(t *testing.T) {
	for _, addr := range []uint16{0x0E0, 0x0EE, 0xF0E0} {
		vm := newTestMachine(t)
		vm.Video[0] = true
		vm.PC = 0x202

		_, err := vm.Execute(Sys{Addr: addr})
		assert.True(t, errors.Is(err, ErrInvalidOpcode))
		assert.True(t, vm.Video[0])
		assert.Equal(t, uint16(0x202), vm.PC)
		assert.Equal(t, uint8(0), vm.SP)
	}

	// neighboring addresses are still a SYS call
	vm := newTestMachine(t)
	vm.Video[0] = true

	_, err := vm.Execute(Sys{Addr: 0x0E1})
	assert.NoError(t, err)
	assert.True(t, vm.Video[0])
}
