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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

/// frontEnd is a driver.Host that owns resources, either a window or the
/// terminal.
///
type frontEnd interface {
	driver.Host

	Close() error

	// ReportFault tells the user the machine stopped.
	ReportFault(err error)
}

func init() {
	// SDL must be called from the main thread
	runtime.LockOSThread()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		var usage *usageError
		if errors.As(err, &usage) {
			printBanner()
			usage.showUsage(os.Stderr)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logger := createLogger(opts.Debug, opts.Quiet)
	if !opts.Quiet {
		printBanner()
	}

	if err := run(app.Context(), logger, opts); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Fprintf(os.Stderr, "[------ CHIP-8 emulator ------]\n")
	fmt.Fprintf(os.Stderr, "version: %s\n\n", buildinfo.Version(version, commit, date))
}

// run loads the program and drives it until the user quits.
func run(ctx context.Context, logger *log.Logger, opts options) error {
	file := opts.Input

	if file == "" {
		if opts.Terminal {
			return errors.New("a ROM file is required in terminal mode")
		}

		var err error
		if file, err = openDialog(); err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				return nil
			}
			return fmt.Errorf("opening file dialog: %w", err)
		}
	}

	program, breakpoints, err := loadProgram(logger, file)
	if err != nil {
		return err
	}

	vmOpts := []chip8.Option{
		chip8.WithQuirks(opts.Quirks),
		chip8.WithLogger(logger),
	}
	if opts.Seed != 0 {
		vmOpts = append(vmOpts, chip8.WithRandom(chip8.NewSeededRandom(opts.Seed)))
	}

	vm, err := chip8.LoadROM(program, vmOpts...)
	if err != nil {
		return fmt.Errorf("loading %s: %w", file, err)
	}

	d := driver.New(logger, vm, driver.Config{
		CyclesPerFrame: opts.CyclesPerFrame,
		TraceSize:      opts.TraceSize,
		Breakpoints:    opts.Breakpoints,
		Paused:         opts.Paused,
	})

	for _, b := range breakpoints {
		d.AddBreakpoint(b.Address, b.Reason)
	}

	var host frontEnd
	if opts.Terminal {
		host, err = newTermHost()
	} else {
		host, err = newSDLHost(logger, opts.Scale, "CHIP-8 - "+filepath.Base(file))
	}
	if err != nil {
		return err
	}

	logger.Info("Running", log.String("file", file), log.Int("size", len(program)))

	err = d.Run(ctx, host)

	if closeErr := host.Close(); closeErr != nil {
		logger.Error("Closing front-end failed", log.Err(closeErr))
	}

	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}

	var fault *chip8.Fault
	if errors.As(err, &fault) {
		if dumpErr := d.DumpState(os.Stderr); dumpErr != nil {
			logger.Error("Dumping state failed", log.Err(dumpErr))
		}

		host.ReportFault(fault)
	}

	return err
}

// openDialog asks the user for a ROM or assembly source file.
func openDialog() (string, error) {
	return dialog.File().
		Filter("CHIP-8 ROM", "ch8", "c8").
		Filter("CHIP-8 assembly", "c8s", "asm").
		Title("Load CHIP-8 program").
		Load()
}

// loadProgram reads a ROM image, or assembles a source file, along with
// the breakpoints the source declares.
func loadProgram(logger *log.Logger, file string) ([]byte, []chip8.Breakpoint, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("reading program: %w", err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".c8s", ".asm":
	default:
		return b, nil, nil
	}

	asm, err := chip8.Assemble(b)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling %s: %w", file, err)
	}

	logger.Debug("Assembled program",
		log.String("file", file),
		log.Int("size", len(asm.ROM)),
		log.Int("breakpoints", len(asm.Breakpoints)))

	return asm.ROM, asm.Breakpoints, nil
}
