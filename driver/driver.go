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

// Package driver runs a CHIP-8 machine at a fixed frame rate on behalf of
// a host front-end that owns the window, keyboard and rendering.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	// DefaultCyclesPerFrame is roughly 500 instructions per second at
	// 60 frames per second, close to what a COSMAC VIP managed.
	DefaultCyclesPerFrame = 9

	// DefaultFrameRate is the rate the timers count down at.
	DefaultFrameRate = 60

	// DefaultTraceSize is how many executed instructions are kept.
	DefaultTraceSize = 64
)

// Host is a front-end presenting the machine to the user.
type Host interface {
	// ProcessEvents polls for input and forwards it to the driver. It
	// returns false once the user asked to quit.
	ProcessEvents(d *Driver) bool

	// Refresh draws the display and any debug information.
	Refresh(d *Driver) error
}

// Config controls how the driver paces the machine.
type Config struct {
	CyclesPerFrame int
	FrameRate      int
	TraceSize      int
	Breakpoints    []uint16
	Paused         bool
}

// Driver owns a Machine and calls into it once per frame: executing a
// batch of instructions, then decrementing the timers.
type Driver struct {
	VM *chip8.Machine

	// Paused stops instructions from executing. Timers keep running.
	Paused bool

	// Waiting is true while the program is blocked on LD Vx, K.
	Waiting bool

	// Reason is why the driver last paused itself, if it did.
	Reason string

	cyclesPerFrame int
	frameRate      int

	breakpoints set.Set[uint16]
	reasons     map[uint16]string

	// set when resuming from a breakpoint so it isn't hit again at once
	stepOver bool

	// fault raised by Step, returned by the next Frame
	fault error

	trace  *Trace
	logger *log.Logger
}

// New creates a driver for vm.
func New(logger *log.Logger, vm *chip8.Machine, cfg Config) *Driver {
	if cfg.CyclesPerFrame <= 0 {
		cfg.CyclesPerFrame = DefaultCyclesPerFrame
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if cfg.TraceSize <= 0 {
		cfg.TraceSize = DefaultTraceSize
	}

	d := &Driver{
		VM:             vm,
		Paused:         cfg.Paused,
		cyclesPerFrame: cfg.CyclesPerFrame,
		frameRate:      cfg.FrameRate,
		breakpoints:    set.New[uint16](),
		reasons:        make(map[uint16]string),
		trace:          NewTrace(cfg.TraceSize),
		logger:         logger,
	}

	for _, address := range cfg.Breakpoints {
		d.AddBreakpoint(address, "")
	}

	return d
}

// Trace returns the recently executed instructions.
func (d *Driver) Trace() *Trace {
	return d.trace
}

// AddBreakpoint pauses the driver before the instruction at address
// executes.
func (d *Driver) AddBreakpoint(address uint16, reason string) {
	d.breakpoints.Add(address)
	d.reasons[address] = reason
}

// ClearBreakpoints removes every breakpoint.
func (d *Driver) ClearBreakpoints() {
	d.breakpoints = set.New[uint16]()
	d.reasons = make(map[uint16]string)
}

// HasBreakpoint returns true if there is a breakpoint at address.
func (d *Driver) HasBreakpoint(address uint16) bool {
	return d.breakpoints.Contains(address)
}

// TogglePause pauses or resumes execution.
func (d *Driver) TogglePause() {
	d.Paused = !d.Paused

	if d.Paused {
		d.logger.Info("Paused", log.Hex("pc", d.VM.PC))
	} else {
		d.Reason = ""
		d.stepOver = true
	}
}

// Reset the machine to its freshly loaded state.
func (d *Driver) Reset() {
	d.VM.Reset()
	d.trace.Clear()

	d.Waiting = false
	d.Reason = ""
	d.stepOver = true
	d.fault = nil

	d.logger.Info("Reset")
}

// PressKey forwards a key press to the machine.
func (d *Driver) PressKey(key uint) {
	d.VM.PressKey(key)
	d.Waiting = false
}

// ReleaseKey forwards a key release to the machine.
func (d *Driver) ReleaseKey(key uint) {
	d.VM.ReleaseKey(key)
}

// SoundActive is true while the host should be playing a tone.
func (d *Driver) SoundActive() bool {
	return d.VM.SoundActive()
}

// Step executes a single instruction, ignoring breakpoints. It is used
// to single step while paused. It returns true if the display changed.
// A fault is also returned by the next call to Frame.
func (d *Driver) Step() (bool, error) {
	if d.fault != nil {
		return false, d.fault
	}

	res, err := d.execute()
	if err != nil {
		d.fault = err
		return false, err
	}

	return res == chip8.RedrawRequested, nil
}

// Frame runs one frame worth of instructions, then ticks the timers.
// It returns true if the display changed.
func (d *Driver) Frame() (bool, error) {
	if d.fault != nil {
		return false, d.fault
	}

	redraw := false

	for i := 0; i < d.cyclesPerFrame && !d.Paused && !d.Waiting; i++ {
		if d.breakpoints.Contains(d.VM.PC) && !d.stepOver {
			d.pauseAt(d.VM.PC)
			break
		}

		d.stepOver = false

		res, err := d.execute()
		if err != nil {
			return redraw, err
		}

		switch res {
		case chip8.RedrawRequested:
			redraw = true
		case chip8.AwaitInput:
			// nothing to do until the host presses a key
			d.Waiting = true
		}
	}

	d.VM.Tick()
	return redraw, nil
}

// Run calls Frame at the frame rate until the host quits, the context
// is cancelled, or the machine faults.
func (d *Driver) Run(ctx context.Context, host Host) error {
	ticker := time.NewTicker(time.Second / time.Duration(d.frameRate))
	defer ticker.Stop()

	// show the initial state
	if err := host.Refresh(d); err != nil {
		return fmt.Errorf("refreshing display: %w", err)
	}

	waiting, sound := d.Waiting, d.SoundActive()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if !host.ProcessEvents(d) {
			return nil
		}

		redraw, err := d.Frame()
		if err != nil {
			return err
		}

		// hosts show the key wait and the tone, so edges on either refresh
		changed := d.Waiting != waiting || d.SoundActive() != sound
		waiting, sound = d.Waiting, d.SoundActive()

		// the debug view changes on every frame while paused
		if redraw || changed || d.Paused {
			if err := host.Refresh(d); err != nil {
				return fmt.Errorf("refreshing display: %w", err)
			}
		}
	}
}

// DumpState writes the machine state and the instruction trace to w.
func (d *Driver) DumpState(w io.Writer) error {
	if err := d.VM.Dump(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "recent instructions:"); err != nil {
		return err
	}

	for _, line := range d.trace.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) execute() (chip8.Result, error) {
	pc := d.VM.PC
	text := d.VM.Disassemble(pc)

	res, err := d.VM.Step()
	if err != nil {
		var fault *chip8.Fault
		if errors.As(err, &fault) {
			d.logger.Error("Machine fault",
				log.Hex("pc", fault.PC),
				log.Hex("word", fault.Word),
				log.Err(fault.Err))
		}
		return res, err
	}

	// a blocked wait retries the same instruction, only trace it once
	if res != chip8.AwaitInput || !d.Waiting {
		d.trace.Log(text)
	}

	return res, nil
}

func (d *Driver) pauseAt(address uint16) {
	d.Paused = true
	d.Reason = d.reasons[address]

	d.logger.Info("Breakpoint hit",
		log.Hex("pc", address),
		log.String("reason", d.Reason))
}
