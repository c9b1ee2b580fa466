package driver

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTrace(t *testing.T) {
	trace := NewTrace(3)

	trace.Log("a")
	trace.Log("b", "c")
	assert.Equal(t, []string{"a", "b c"}, trace.Lines())

	trace.Log("d")
	trace.Log("e")
	assert.Equal(t, []string{"b c", "d", "e"}, trace.Lines())
	assert.Equal(t, []string{"d", "e"}, trace.Window(2))
}

func TestTraceScroll(t *testing.T) {
	trace := NewTrace(10)
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		trace.Log(s)
	}

	trace.ScrollUp()
	assert.Equal(t, []string{"3", "4"}, trace.Window(2))

	trace.Home()
	assert.Equal(t, []string{"1", "2"}, trace.Window(2))

	trace.ScrollDown(2)
	assert.Equal(t, []string{"2", "3"}, trace.Window(2))

	// new lines don't move a scrolled window
	trace.Log("6")
	assert.Equal(t, []string{"2", "3"}, trace.Window(2))

	trace.End()
	assert.Equal(t, []string{"5", "6"}, trace.Window(2))

	trace.Clear()
	assert.Empty(t, trace.Window(2))
}
