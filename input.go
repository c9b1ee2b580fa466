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
	"errors"
	"path/filepath"

	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM.
///
func (h *sdlHost) ProcessEvents(d *driver.Driver) bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.WindowEvent:
			// keys released while unfocused are never seen
			if ev.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				d.VM.ReleaseKeys()
			}
		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}

			if ev.Type == sdl.KEYUP {
				if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
					d.ReleaseKey(key)
				}
				continue
			}

			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				d.PressKey(key)
			} else if !h.command(d, ev) {
				return false
			}
		}
	}

	return true
}

/// command handles an emulation key. It returns false to quit.
///
func (h *sdlHost) command(d *driver.Driver, ev *sdl.KeyboardEvent) bool {
	trace := d.Trace()

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		d.Reset()

		// holding control during reset will reboot paused
		if ev.Keysym.Mod&sdl.KMOD_CTRL != 0 {
			d.Paused = true
		}
	case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
		trace.ScrollUp()
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
		trace.ScrollDown(paneLines)
	case sdl.SCANCODE_HOME:
		trace.Home()
	case sdl.SCANCODE_END:
		trace.End()
	case sdl.SCANCODE_F1, sdl.SCANCODE_H:
		h.debugHelp()
	case sdl.SCANCODE_F3:
		h.loadDialog(d)
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		d.TogglePause()
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if d.Paused {
			// a fault is returned again by the next frame
			_, _ = d.Step()
		}
	case sdl.SCANCODE_F8:
		h.debugDump(d)
	case sdl.SCANCODE_F9:
		if d.Paused {
			d.AddBreakpoint(d.VM.PC, "")
		}
	}

	return true
}

/// loadDialog asks for a ROM to replace the running program with.
///
func (h *sdlHost) loadDialog(d *driver.Driver) {
	file, err := openDialog()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			h.logger.Error("Opening file dialog failed", log.Err(err))
		}
		return
	}

	program, breakpoints, err := loadProgram(h.logger, file)
	if err == nil {
		err = d.VM.Load(program)
	}
	if err != nil {
		h.logger.Error("Loading ROM failed", log.String("file", file), log.Err(err))
		return
	}

	d.ClearBreakpoints()
	for _, b := range breakpoints {
		d.AddBreakpoint(b.Address, b.Reason)
	}

	d.Reset()
	h.window.SetTitle("CHIP-8 - " + filepath.Base(file))
}
