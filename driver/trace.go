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

package driver

import (
	"strings"
)

// Trace keeps the most recently executed instructions so they can be
// viewed and scrolled, or dumped after a fault.
type Trace struct {
	// buf contains each line of traced text.
	buf []string

	// size is the maximum number of lines kept.
	size int

	// pos is the current user read position within the trace.
	pos int
}

// NewTrace creates a new Trace holding up to size lines.
func NewTrace(size int) *Trace {
	if size < 1 {
		size = 1
	}

	return &Trace{
		buf:  make([]string, 0, size),
		size: size,
	}
}

// Log outputs a new line to the trace.
func (trace *Trace) Log(s ...string) {
	scroll := trace.pos == len(trace.buf)

	// drop the oldest line once full
	if len(trace.buf) == trace.size {
		copy(trace.buf, trace.buf[1:])
		trace.buf = trace.buf[:len(trace.buf)-1]

		if trace.pos > 0 && !scroll {
			trace.pos--
		}
	}

	trace.buf = append(trace.buf, strings.Join(s, " "))

	if scroll {
		trace.pos = len(trace.buf)
	}
}

// Lines returns every line in the trace, oldest first.
func (trace *Trace) Lines() []string {
	return append([]string(nil), trace.buf...)
}

// Clear empties the trace.
func (trace *Trace) Clear() {
	trace.buf = trace.buf[:0]
	trace.pos = 0
}

// Window returns a slice of the n lines ending at the read position.
func (trace *Trace) Window(n int) []string {
	start := trace.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	if start+n >= len(trace.buf) {
		return trace.buf[start:]
	}

	return trace.buf[start : start+n]
}

// Home scrolls the trace to the beginning.
func (trace *Trace) Home() {
	trace.pos = 0
}

// End scrolls the trace to the end.
func (trace *Trace) End() {
	trace.pos = len(trace.buf)
}

// ScrollUp scrolls the trace back one position.
func (trace *Trace) ScrollUp() {
	trace.pos--

	// clamp to home
	if trace.pos < 0 {
		trace.Home()
	}
}

// ScrollDown scrolls the trace forward one position.
func (trace *Trace) ScrollDown(windowSize int) {
	trace.pos++

	// if less than the window size, drop to it
	if trace.pos <= windowSize {
		trace.pos = windowSize + 1
	}

	// clamp to end
	if trace.pos >= len(trace.buf) {
		trace.End()
	}
}
