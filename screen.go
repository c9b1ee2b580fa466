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
	"fmt"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/driver"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	// width of the disassembly pane
	asmPaneWidth = 204

	// width of the register pane
	regPaneWidth = 146

	// height of the register and trace panes
	lowerPaneHeight = 164

	// lines of text shown in each debug pane
	paneLines = 16
)

/// sdlHost shows the CHIP-8 display in a window, along with the
/// disassembly around PC, the registers, and the instruction trace.
///
type sdlHost struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	// render target for the CHIP-8 video memory
	screen *sdl.Texture

	// debug text font, nil if the bitmap couldn't be loaded
	font *sdl.Texture

	// size of a CHIP-8 pixel
	scale int32

	// first address shown in the disassembly pane
	address uint16

	pixels []byte
	logger *log.Logger
}

/// newSDLHost opens the window and creates the render targets.
///
func newSDLHost(logger *log.Logger, scale int, title string) (frontEnd, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	h := &sdlHost{
		scale:  int32(scale),
		pixels: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight),
		logger: logger,
	}

	w, ht := h.windowSize()

	var err error

	// create the main window and renderer
	if h.window, h.renderer, err = sdl.CreateWindowAndRenderer(w, ht, sdl.WINDOW_SHOWN); err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// set the icon
	if icon, err := sdl.LoadBMP("data/chip_8.bmp"); err == nil {
		mask := sdl.MapRGB(icon.Format, 255, 0, 255)

		// create the mask color key and set the icon
		icon.SetColorKey(true, mask)
		h.window.SetIcon(icon)
		icon.Free()
	}

	h.window.SetTitle(title)

	// create a render target for the display
	h.screen, err = h.renderer.CreateTexture(sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_TARGET, chip8.DisplayWidth, chip8.DisplayHeight)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("creating screen texture: %w", err)
	}

	h.font = loadFont(h.renderer, logger)
	return h, nil
}

/// Close destroys the window and shuts down SDL.
///
func (h *sdlHost) Close() error {
	if h.font != nil {
		h.font.Destroy()
	}
	if h.screen != nil {
		h.screen.Destroy()
	}

	h.renderer.Destroy()
	h.window.Destroy()

	sdl.Quit()
	return nil
}

/// ReportFault shows a fault in a message box, since the window may have
/// been started without a console.
///
func (h *sdlHost) ReportFault(err error) {
	dialog.Message("%s", err).Title("CHIP-8").Error()
}

/// Refresh redraws the whole window.
///
func (h *sdlHost) Refresh(d *driver.Driver) error {
	sw, sh := h.screenSize()
	top := h.upperPaneHeight()

	h.renderer.SetDrawColor(32, 42, 53, 255)
	h.renderer.Clear()

	// frame various portions of the app
	h.frame(8, 8, sw+2, sh+2)
	h.frame(sw+18, 8, asmPaneWidth, top)
	h.frame(8, top+14, regPaneWidth, lowerPaneHeight)
	h.frame(regPaneWidth+16, top+14, sw+60, lowerPaneHeight)

	// update the video screen and copy it
	if err := h.refreshScreen(d.VM); err != nil {
		return err
	}
	h.copyScreen(10, 10, sw, sh)

	// debug assembly, virtual registers and the trace
	h.debugAssembly(d, sw+22, 12)
	h.debugRegisters(d, 12, top+18)
	h.debugTrace(d, regPaneWidth+20, top+18, int(sw+52)/7)

	// show the new frame
	h.renderer.Present()
	return nil
}

/// screenSize is the size of the scaled CHIP-8 display.
///
func (h *sdlHost) screenSize() (int32, int32) {
	return chip8.DisplayWidth * h.scale, chip8.DisplayHeight * h.scale
}

/// upperPaneHeight is the height of the screen and disassembly frames,
/// which must fit the disassembly even at small scales.
///
func (h *sdlHost) upperPaneHeight() int32 {
	_, sh := h.screenSize()
	return max(sh+2, paneLines*10+2)
}

func (h *sdlHost) windowSize() (int32, int32) {
	sw, _ := h.screenSize()
	return sw + asmPaneWidth + 26, h.upperPaneHeight() + lowerPaneHeight + 22
}

/// frame draws a sunken border around a pane.
///
func (h *sdlHost) frame(x, y, w, ht int32) {
	h.renderer.SetDrawColor(0, 0, 0, 255)
	h.renderer.DrawLine(x, y, x+w, y)
	h.renderer.DrawLine(x, y, x, y+ht)

	// highlight
	h.renderer.SetDrawColor(95, 112, 120, 255)
	h.renderer.DrawLine(x+w, y, x+w, y+ht)
	h.renderer.DrawLine(x, y+ht, x+w, y+ht)
}

/// refreshScreen draws the CHIP-8 video memory to the screen texture.
///
func (h *sdlHost) refreshScreen(vm *chip8.Machine) error {
	if err := vm.Render(h.pixels, chip8.Monochrome); err != nil {
		return err
	}

	if err := h.renderer.SetRenderTarget(h.screen); err != nil {
		return fmt.Errorf("setting render target: %w", err)
	}

	// the background color for the screen
	h.renderer.SetDrawColor(143, 145, 133, 255)
	h.renderer.Clear()

	// set the pixel color
	h.renderer.SetDrawColor(17, 29, 43, 255)

	for i, p := range h.pixels {
		if p != 0 {
			h.renderer.DrawPoint(int32(i%chip8.DisplayWidth), int32(i/chip8.DisplayWidth))
		}
	}

	// restore the render target
	return h.renderer.SetRenderTarget(nil)
}

/// copyScreen stretches the screen texture into the window.
///
func (h *sdlHost) copyScreen(x, y, w, ht int32) {
	src := sdl.Rect{
		W: chip8.DisplayWidth,
		H: chip8.DisplayHeight,
	}

	h.renderer.Copy(h.screen, &src, &sdl.Rect{X: x, Y: y, W: w, H: ht})
}
