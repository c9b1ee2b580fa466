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
	"os"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramStart is where every CHIP-8 program is loaded and begins.
	///
	ProgramStart = 0x200

	/// MaxProgramSize is the largest program image that fits in memory.
	///
	MaxProgramSize = MemorySize - ProgramStart

	/// StackSize is the number of return address slots.
	///
	StackSize = 16

	// register file and keypad size
	RegisterCount = 16
	KeyCount      = 16

	/// DisplayWidth and DisplayHeight are the resolution in pixels.
	///
	DisplayWidth  = 64
	DisplayHeight = 32

	/// TimerStart is the value both timers hold after a reset.
	///
	TimerStart = 60
)

/// Quirks select between historical behaviors of a few instructions.
/// The zero value matches the original COSMAC VIP interpreter as
/// documented by Cowgod, except for the shift instructions.
///
type Quirks struct {
	/// ShiftUsesVY shifts VY into VX for 8xy6 and 8xyE instead of
	/// shifting VX in place.
	///
	ShiftUsesVY bool

	/// MemoryIncrementsI leaves I pointing past the last register
	/// copied by Fx55 and Fx65.
	///
	MemoryIncrementsI bool

	/// LogicResetsVF clears VF after 8xy1, 8xy2 and 8xy3.
	///
	LogicResetsVF bool
}

/// Machine is a single CHIP-8 virtual machine. It is owned by one
/// goroutine and nothing inside of it ever blocks.
///
type Machine struct {
	/// ROM is the pristine memory image (font + program) that Reset
	/// restores Memory from.
	///
	ROM [MemorySize]byte

	/// Memory is the 4K of addressable RAM. The font glyphs live at
	/// FontStart and programs begin at ProgramStart.
	///
	Memory [MemorySize]byte

	/// Video is the 64x32 display, row-major. Pixel <x,y> is at
	/// index y*DisplayWidth+x.
	///
	Video [DisplayWidth * DisplayHeight]bool

	/// PC is the program counter.
	///
	PC uint16

	/// SP is the stack pointer. Zero means the stack is empty, and the
	/// most recent return address is at Stack[SP].
	///
	SP uint8

	/// Stack holds return addresses pushed by CALL.
	///
	Stack [StackSize]uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers. VF doubles as the flag register.
	///
	V [RegisterCount]byte

	// delay and sound timers, decremented by Tick
	DT byte
	ST byte

	/// Keys hold the current state for the 16-key pad keys. A key stays
	/// down until the host releases it.
	///
	Keys [KeyCount]bool

	/// Quirks selected at construction time.
	///
	Quirks Quirks

	/// Cycles is how many instructions have been executed since reset.
	///
	Cycles int64

	rand   RandomSource
	logger *log.Logger
}

/// Option configures a Machine created by New.
///
type Option func(*Machine)

/// WithQuirks selects the instruction quirks to emulate.
///
func WithQuirks(q Quirks) Option {
	return func(vm *Machine) {
		vm.Quirks = q
	}
}

/// WithRandom sets the source of random bytes for RND.
///
func WithRandom(r RandomSource) Option {
	return func(vm *Machine) {
		vm.rand = r
	}
}

/// WithLogger sets the logger used for diagnostics.
///
func WithLogger(logger *log.Logger) Option {
	return func(vm *Machine) {
		vm.logger = logger
	}
}

/// New returns a CHIP-8 virtual machine with the font installed and no
/// program loaded.
///
func New(opts ...Option) *Machine {
	vm := &Machine{}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rand == nil {
		vm.rand = NewRandom()
	}
	if vm.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		vm.logger = log.NewWithConfig(cfg)
	}

	// copy the font into the low memory area
	copy(vm.ROM[FontStart:], Font[:])

	// reset the VM memory
	vm.Reset()

	return vm
}

/// LoadROM returns a new virtual machine with program loaded.
///
func LoadROM(program []byte, opts ...Option) (*Machine, error) {
	vm := New(opts...)

	if err := vm.Load(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadFile reads a ROM file and returns a new virtual machine.
///
func LoadFile(file string, opts ...Option) (*Machine, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file: %w", err)
	}

	return LoadROM(program, opts...)
}

/// Load copies program into memory at ProgramStart, replacing whatever
/// program was there before, and resets the machine.
///
func (vm *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes", ErrROMTooLarge, len(program))
	}

	// clear any previous program
	for i := ProgramStart; i < MemorySize; i++ {
		vm.ROM[i] = 0
	}

	copy(vm.ROM[ProgramStart:], program)

	vm.logger.Debug("Loaded program", log.Int("size", len(program)))

	vm.Reset()
	return nil
}

/// Reset the CHIP-8 virtual machine to the state right after the
/// program was loaded.
///
func (vm *Machine) Reset() {
	vm.Memory = vm.ROM

	// reset video memory
	vm.Video = [DisplayWidth * DisplayHeight]bool{}

	// reset keys
	vm.Keys = [KeyCount]bool{}

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackSize]uint16{}

	// reset address and virtual registers
	vm.I = 0
	vm.V = [RegisterCount]byte{}

	// reset timer registers
	vm.DT = TimerStart
	vm.ST = TimerStart

	vm.Cycles = 0
}

/// Resolution returns the width and height of the display.
///
func (vm *Machine) Resolution() (int, int) {
	return DisplayWidth, DisplayHeight
}

/// Pixel returns whether the pixel at <x,y> is lit. Coordinates wrap.
///
func (vm *Machine) Pixel(x, y int) bool {
	return vm.Video[pixelIndex(x, y)]
}

func pixelIndex(x, y int) int {
	x = ((x % DisplayWidth) + DisplayWidth) % DisplayWidth
	y = ((y % DisplayHeight) + DisplayHeight) % DisplayHeight

	return y*DisplayWidth + x
}
