package driver

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestDriver(t *testing.T, cfg Config, words ...uint16) *Driver {
	t.Helper()
	return newDriverWithLogger(t, log.NewTestLogger(t), cfg, words...)
}

// newFaultingDriver logs into a buffer, since the test logger fails the
// test on the error a fault logs.
func newFaultingDriver(t *testing.T, cfg Config, words ...uint16) (*Driver, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := log.NewWithConfig(log.Config{
		Level:      log.DebugLevel,
		Output:     &buf,
		TimeFormat: "-",
	})

	return newDriverWithLogger(t, logger, cfg, words...), &buf
}

func newDriverWithLogger(t *testing.T, logger *log.Logger, cfg Config, words ...uint16) *Driver {
	t.Helper()

	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}

	vm, err := chip8.LoadROM(program, chip8.WithLogger(logger))
	assert.NoError(t, err)

	return New(logger, vm, cfg)
}

// fakeHost quits after a number of frames.
type fakeHost struct {
	frames    int
	refreshes int
	keys      map[int]uint
}

func (h *fakeHost) ProcessEvents(d *Driver) bool {
	if key, ok := h.keys[h.frames]; ok {
		d.PressKey(key)
	}

	h.frames--
	return h.frames >= 0
}

func (h *fakeHost) Refresh(d *Driver) error {
	h.refreshes++
	return nil
}

func TestFrame(t *testing.T) {
	// LD V0, 0 / ADD V0, 1 / JP 0x202
	d := newTestDriver(t, Config{CyclesPerFrame: 10}, 0x6000, 0x7001, 0x1202)

	redraw, err := d.Frame()
	assert.NoError(t, err)
	assert.False(t, redraw)
	assert.Equal(t, byte(5), d.VM.V[0])
	assert.Equal(t, byte(chip8.TimerStart-1), d.VM.DT)
	assert.Len(t, d.Trace().Lines(), 10)
}

func TestFrameRedraw(t *testing.T) {
	d := newTestDriver(t, Config{CyclesPerFrame: 2}, 0xD005, 0x1202)

	redraw, err := d.Frame()
	assert.NoError(t, err)
	assert.True(t, redraw)
}

func TestFramePaused(t *testing.T) {
	d := newTestDriver(t, Config{Paused: true}, 0x7001)

	_, err := d.Frame()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200), d.VM.PC)

	// timers keep running while paused
	assert.Equal(t, byte(chip8.TimerStart-1), d.VM.ST)

	redraw, err := d.Step()
	assert.NoError(t, err)
	assert.False(t, redraw)
	assert.Equal(t, byte(1), d.VM.V[0])
}

func TestFrameWaitsForKey(t *testing.T) {
	d := newTestDriver(t, Config{CyclesPerFrame: 5}, 0xF10A, 0x7201, 0x1202)

	_, err := d.Frame()
	assert.NoError(t, err)
	assert.True(t, d.Waiting)
	assert.Equal(t, uint16(0x200), d.VM.PC)
	assert.Len(t, d.Trace().Lines(), 1)

	// still blocked, nothing runs
	_, err = d.Frame()
	assert.NoError(t, err)
	assert.Len(t, d.Trace().Lines(), 1)

	d.PressKey(0xB)
	assert.False(t, d.Waiting)

	_, err = d.Frame()
	assert.NoError(t, err)
	assert.Equal(t, byte(0xB), d.VM.V[1])
	assert.Equal(t, byte(2), d.VM.V[2])
}

func TestBreakpoint(t *testing.T) {
	d := newTestDriver(t, Config{CyclesPerFrame: 5, Breakpoints: []uint16{0x204}},
		0x7001, 0x7001, 0x7001, 0x1200)

	_, err := d.Frame()
	assert.NoError(t, err)
	assert.True(t, d.Paused)
	assert.Equal(t, uint16(0x204), d.VM.PC)
	assert.Equal(t, byte(2), d.VM.V[0])
	assert.True(t, d.HasBreakpoint(0x204))

	// resuming steps over the breakpoint
	d.TogglePause()
	_, err = d.Frame()
	assert.NoError(t, err)
	assert.True(t, d.Paused)
	assert.Equal(t, uint16(0x204), d.VM.PC)
	assert.Equal(t, byte(5), d.VM.V[0])

	d.ClearBreakpoints()
	assert.False(t, d.HasBreakpoint(0x204))
}

func TestBreakpointReason(t *testing.T) {
	d := newTestDriver(t, Config{}, 0x1200)
	d.AddBreakpoint(0x200, "top of loop")

	_, err := d.Frame()
	assert.NoError(t, err)
	assert.True(t, d.Paused)
	assert.Equal(t, "top of loop", d.Reason)
}

func TestFault(t *testing.T) {
	d, logged := newFaultingDriver(t, Config{}, 0x7001, 0x00EE)

	_, err := d.Frame()
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.Contains(t, logged.String(), "Machine fault")
	assert.Contains(t, logged.String(), "stack underflow")

	var buf bytes.Buffer
	assert.NoError(t, d.DumpState(&buf))
	assert.Contains(t, buf.String(), "PC - #0202")
	assert.Contains(t, buf.String(), "0200 - ADD    V0, #01")
}

func TestReset(t *testing.T) {
	d := newTestDriver(t, Config{}, 0x7001, 0x1200)

	_, err := d.Frame()
	assert.NoError(t, err)
	d.Reset()

	assert.Equal(t, byte(0), d.VM.V[0])
	assert.Equal(t, uint16(0x200), d.VM.PC)
	assert.Empty(t, d.Trace().Lines())
}

func TestRun(t *testing.T) {
	d := newTestDriver(t, Config{FrameRate: 1000}, 0xF00A, 0xD005, 0x1202)
	host := &fakeHost{frames: 5, keys: map[int]uint{3: 7}}

	assert.NoError(t, d.Run(context.Background(), host))
	assert.Equal(t, byte(7), d.VM.V[0])
	assert.True(t, host.refreshes > 1)
}

func TestRunRefreshesOnKeyWait(t *testing.T) {
	// LD V0, K with no key pressed never draws
	d := newTestDriver(t, Config{FrameRate: 1000}, 0xF00A, 0x1202)
	host := &fakeHost{frames: 3}

	assert.NoError(t, d.Run(context.Background(), host))
	assert.True(t, d.Waiting)
	assert.Equal(t, 2, host.refreshes)
}

func TestRunRefreshesOnSoundStop(t *testing.T) {
	// LD V0, 0 / LD ST, V0 / JP 0x204
	d := newTestDriver(t, Config{FrameRate: 1000}, 0x6000, 0xF018, 0x1204)
	host := &fakeHost{frames: 3}

	assert.True(t, d.SoundActive())
	assert.NoError(t, d.Run(context.Background(), host))
	assert.False(t, d.SoundActive())
	assert.Equal(t, 2, host.refreshes)
}

func TestRunCancelled(t *testing.T) {
	d := newTestDriver(t, Config{FrameRate: 1000}, 0x1200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx, &fakeHost{frames: 1000})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunFault(t *testing.T) {
	d, _ := newFaultingDriver(t, Config{FrameRate: 1000}, 0xFFFF)
	host := &fakeHost{frames: 10}

	err := d.Run(context.Background(), host)
	assert.True(t, errors.Is(err, chip8.ErrInvalidOpcode))

	var fault *chip8.Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0xFFFF), fault.Word)

	// the first frame faulted
	assert.Equal(t, 9, host.frames)
}

func TestStepFaultStopsFrame(t *testing.T) {
	d, _ := newFaultingDriver(t, Config{Paused: true}, 0x00EE)

	_, err := d.Step()
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))

	d.TogglePause()
	_, err = d.Frame()
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))

	// a reset clears the fault
	d.Reset()
	d.Paused = true
	_, err = d.Frame()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x200), d.VM.PC)
}
