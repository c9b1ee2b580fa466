//go:build linux || darwin

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
	"bufio"
	"fmt"
	"os"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/driver"
	"golang.org/x/sys/unix"
)

// terminals only report key presses, so a key is held for this many
// frames after the last time it was typed
const termHoldFrames = 8

// termKeyMap maps typed characters to CHIP-8 keys, using the same
// layout as the window.
var termKeyMap = map[byte]uint{
	'x': 0x0,
	'1': 0x1,
	'2': 0x2,
	'3': 0x3,
	'q': 0x4,
	'w': 0x5,
	'e': 0x6,
	'a': 0x7,
	's': 0x8,
	'd': 0x9,
	'z': 0xA,
	'c': 0xB,
	'4': 0xC,
	'r': 0xD,
	'f': 0xE,
	'v': 0xF,
}

// termHost draws the display with half block characters and reads the
// keyboard from a raw mode terminal.
type termHost struct {
	fd      int
	restore unix.Termios

	out  *bufio.Writer
	in   []byte
	held [chip8.KeyCount]int

	// sound was active at the last refresh
	beeping bool
}

func newTermHost() (frontEnd, error) {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal settings: %w", err)
	}

	h := &termHost{
		fd:      fd,
		restore: *termios,
		out:     bufio.NewWriter(os.Stdout),
		in:      make([]byte, 32),
	}

	raw := *termios

	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8

	// reads return at once, even with nothing typed
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	// hide the cursor and clear the screen
	fmt.Fprint(h.out, "\x1b[?25l\x1b[2J")
	if err := h.out.Flush(); err != nil {
		_ = h.Close()
		return nil, err
	}

	return h, nil
}

// Close restores the terminal.
func (h *termHost) Close() error {
	fmt.Fprint(h.out, "\x1b[0m\x1b[?25h\n")
	if err := h.out.Flush(); err != nil {
		return err
	}

	return unix.IoctlSetTermios(h.fd, ioctlSetTermios, &h.restore)
}

// ReportFault does nothing, the state dump is written to stderr.
func (h *termHost) ReportFault(err error) {}

// ProcessEvents handles everything typed since the last frame.
func (h *termHost) ProcessEvents(d *driver.Driver) bool {
	// release keys that haven't been typed recently
	for key := range h.held {
		if h.held[key] > 0 {
			if h.held[key]--; h.held[key] == 0 {
				d.ReleaseKey(uint(key))
			}
		}
	}

	n, err := unix.Read(h.fd, h.in)
	if err != nil || n <= 0 {
		return true
	}

	for i := 0; i < n; i++ {
		c := h.in[i]

		if key, ok := termKeyMap[c|0x20]; ok {
			h.held[key] = termHoldFrames
			d.PressKey(key)
			continue
		}

		switch c {
		case 0x03:
			return false
		case 0x1B:
			// a lone escape quits, anything else is a cursor key sequence
			return n > 1
		case 0x7F, 0x08:
			d.Reset()
		case ' ', 'p', 'P':
			d.TogglePause()
		case 'n', 'N':
			if d.Paused {
				// a fault is returned again by the next frame
				_, _ = d.Step()
			}
		case 'b', 'B':
			if d.Paused {
				d.AddBreakpoint(d.VM.PC, "")
			}
		}
	}

	return true
}

// Refresh draws two rows of pixels per line of text.
func (h *termHost) Refresh(d *driver.Driver) error {
	w, ht := d.VM.Resolution()

	fmt.Fprint(h.out, "\x1b[H")

	for y := 0; y < ht; y += 2 {
		for x := 0; x < w; x++ {
			top, bottom := d.VM.Pixel(x, y), d.VM.Pixel(x, y+1)

			switch {
			case top && bottom:
				h.out.WriteString("█")
			case top:
				h.out.WriteString("▀")
			case bottom:
				h.out.WriteString("▄")
			default:
				h.out.WriteByte(' ')
			}
		}

		h.out.WriteString("\r\n")
	}

	status := "running"
	switch {
	case d.Paused && d.Reason != "":
		status = "paused: " + d.Reason
	case d.Paused:
		status = "paused"
	case d.Waiting:
		status = "waiting for key"
	}

	fmt.Fprintf(h.out, "\x1b[K%-40s %s\r\n", d.VM.Disassemble(d.VM.PC), status)

	// ring the bell when a tone starts
	if beeping := d.SoundActive(); beeping != h.beeping {
		if h.beeping = beeping; beeping {
			h.out.WriteByte('\a')
		}
	}

	return h.out.Flush()
}
