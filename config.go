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

package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/log"
)

// options holds everything configurable from the command line.
type options struct {
	Input string

	CyclesPerFrame int
	Scale          int
	Terminal       bool
	Seed           int64

	Quirks chip8.Quirks

	Breakpoints []uint16
	Paused      bool
	TraceSize   int

	Debug bool
	Quiet bool
}

// usageError asks main to print the flag defaults.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) showUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip-8 [options] [ROM or .c8s source file]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// parseFlags reads the options from args, not including the program name.
func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chip-8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options{}
	var breakpoints string

	flags.IntVar(&opts.CyclesPerFrame, "cycles", driver.DefaultCyclesPerFrame, "instructions executed per 1/60 second frame")
	flags.IntVar(&opts.Scale, "scale", 5, "size of a CHIP-8 pixel in window pixels")
	flags.BoolVar(&opts.Terminal, "term", false, "run in the terminal instead of a window")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 uses the clock")
	flags.BoolVar(&opts.Quirks.ShiftUsesVY, "shift-vy", false, "SHR and SHL shift VY into VX")
	flags.BoolVar(&opts.Quirks.MemoryIncrementsI, "memory-i", false, "LD [I], Vx and LD Vx, [I] advance I")
	flags.BoolVar(&opts.Quirks.LogicResetsVF, "logic-vf", false, "OR, AND and XOR clear VF")
	flags.StringVar(&breakpoints, "break", "", "comma separated breakpoint addresses, e.g. 0x2A0,#300")
	flags.BoolVar(&opts.Paused, "paused", false, "start with emulation paused")
	flags.IntVar(&opts.TraceSize, "trace", driver.DefaultTraceSize, "number of executed instructions kept for the trace")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return opts, &usageError{flags: flags, msg: err.Error()}
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		opts.Input = rest[0]
	default:
		return opts, &usageError{flags: flags, msg: "only one ROM file can be run"}
	}

	if opts.CyclesPerFrame < 1 {
		return opts, fmt.Errorf("invalid cycles per frame: %d", opts.CyclesPerFrame)
	}
	if opts.Scale < 1 {
		return opts, fmt.Errorf("invalid scale: %d", opts.Scale)
	}

	var err error
	if opts.Breakpoints, err = parseAddresses(breakpoints); err != nil {
		return opts, err
	}

	return opts, nil
}

// parseAddresses parses a comma separated list of addresses. Addresses
// may be decimal, 0x hex, or # hex like the assembler.
func parseAddresses(s string) ([]uint16, error) {
	var addresses []uint16

	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		if strings.HasPrefix(field, "#") {
			field = "0x" + field[1:]
		}

		n, err := strconv.ParseUint(field, 0, 16)
		if err != nil || n >= chip8.MemorySize {
			return nil, fmt.Errorf("invalid breakpoint address: %s", field)
		}

		addresses = append(addresses, uint16(n))
	}

	return addresses, nil
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
