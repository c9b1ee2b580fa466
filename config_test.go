package main

import (
	"errors"
	"testing"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		want        options
		breakpoints []uint16
	}{
		{
			name: "defaults",
			args: []string{"games/BRIX"},
			want: options{
				Input:          "games/BRIX",
				CyclesPerFrame: driver.DefaultCyclesPerFrame,
				Scale:          5,
				TraceSize:      driver.DefaultTraceSize,
			},
		},
		{
			name: "quirks and debugging",
			args: []string{"-shift-vy", "-memory-i", "-logic-vf", "-break", "0x2A0, #300,512", "-paused", "-term", "-cycles", "20", "pong.c8s"},
			want: options{
				Input:          "pong.c8s",
				CyclesPerFrame: 20,
				Scale:          5,
				Terminal:       true,
				Quirks:         chip8.Quirks{ShiftUsesVY: true, MemoryIncrementsI: true, LogicResetsVF: true},
				Paused:         true,
				TraceSize:      driver.DefaultTraceSize,
			},
			breakpoints: []uint16{0x2A0, 0x300, 0x200},
		},
		{
			name: "no file",
			args: []string{"-q", "-seed", "42"},
			want: options{
				CyclesPerFrame: driver.DefaultCyclesPerFrame,
				Scale:          5,
				Seed:           42,
				TraceSize:      driver.DefaultTraceSize,
				Quiet:          true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			assert.NoError(t, err)

			assert.Len(t, opts.Breakpoints, len(tt.breakpoints))
			for i, address := range tt.breakpoints {
				assert.Equal(t, address, opts.Breakpoints[i])
			}

			opts.Breakpoints = nil
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	var usage *usageError
	assert.True(t, errors.As(err, &usage))

	_, err = parseFlags([]string{"a.ch8", "b.ch8"})
	assert.True(t, errors.As(err, &usage))

	_, err = parseFlags([]string{"-cycles", "0"})
	assert.ErrorContains(t, err, "invalid cycles per frame")

	_, err = parseFlags([]string{"-break", "0x1000"})
	assert.ErrorContains(t, err, "invalid breakpoint address")
}
