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
	"bytes"
	"fmt"

	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// helpText is logged when the user asks for help.
///
var helpText = []string{
	"Virtual keys:",
	"  1-2-3-4",
	"  Q-W-E-R",
	"  A-S-D-F",
	"  Z-X-C-V",
	"",
	"Emulation keys:",
	"  ESC        - Quit",
	"  BS         - Reset (+CTRL to reset paused)",
	"  Up/Dn/Pg   - Scroll trace",
	"  Home/End   - Trace start/end",
	"  F1/H       - Help",
	"  F3         - Load ROM",
	"  F5/Space   - Pause/resume",
	"  F8         - Dump state to log",
	"  F9         - Breakpoint at PC (paused)",
	"  F10        - Step (paused)",
}

/// debugHelp writes the help text to the log.
///
func (h *sdlHost) debugHelp() {
	for _, line := range helpText {
		h.logger.Info(line)
	}
}

/// debugAssembly renders the disassembled instructions around the
/// CHIP-8 program counter.
///
func (h *sdlHost) debugAssembly(d *driver.Driver, x, y int32) {
	pc := d.VM.PC

	// keep the window still unless PC leaves it
	if int(h.address)+2 > int(pc) || int(h.address)+30 <= int(pc) || (h.address^pc)&1 == 1 {
		h.address = pc - min(pc, 2)
	}

	for i := uint16(0); i < paneLines*2; i += 2 {
		address := h.address + i

		if address == pc {
			if d.Paused {
				h.renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				h.renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			h.renderer.FillRect(&sdl.Rect{
				X: x,
				Y: y + int32(i)*5 - 1,
				W: asmPaneWidth - 4,
				H: 10,
			})
		}

		text := d.VM.Disassemble(address)
		if d.HasBreakpoint(address) {
			text = "*" + text
		} else {
			text = " " + text
		}

		h.drawText(text, x, y+int32(i)*5)
	}
}

/// debugRegisters shows the current value of all the CHIP-8 registers.
///
func (h *sdlHost) debugRegisters(d *driver.Driver, x, y int32) {
	vm := d.VM

	for i, v := range vm.V {
		h.drawText(fmt.Sprintf("  V%X - #%02X", i, v), x, y+int32(i)*10)
	}

	// shift over for the other registers
	x += 98

	h.drawText(fmt.Sprintf("PC #%03X", vm.PC), x, y)
	h.drawText(fmt.Sprintf("SP #%02X", vm.SP), x, y+10)
	h.drawText(fmt.Sprintf("I  #%03X", vm.I), x, y+30)
	h.drawText(fmt.Sprintf("DT #%02X", vm.DT), x, y+50)
	h.drawText(fmt.Sprintf("ST #%02X", vm.ST), x, y+60)

	switch {
	case d.Paused:
		h.drawText("PAUSED", x, y+90)
	case d.Waiting:
		h.drawText("KEY?", x, y+90)
	}
}

/// debugTrace shows the recently executed instructions, preceded by the
/// reason for the last breakpoint.
///
func (h *sdlHost) debugTrace(d *driver.Driver, x, y int32, width int) {
	lines := paneLines

	if d.Paused && d.Reason != "" {
		h.drawText(truncate("BREAK: "+d.Reason, width), x, y)

		y += 10
		lines--
	}

	for _, line := range d.Trace().Window(lines) {
		h.drawText(truncate(line, width), x, y)

		// advance to the next line
		y += 10
	}
}

/// debugDump writes the machine state to the log, one line per entry.
///
func (h *sdlHost) debugDump(d *driver.Driver) {
	w := &logWriter{logger: h.logger}

	if err := d.DumpState(w); err != nil {
		h.logger.Error("Dumping state failed", log.Err(err))
	}
}

func truncate(s string, width int) string {
	if len(s) <= width || width < 3 {
		return s
	}
	return s[:width-3] + "..."
}

/// logWriter logs each complete line written to it.
///
type logWriter struct {
	logger *log.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logger.Info(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}
