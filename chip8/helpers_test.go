package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestMachine loads a program made of instruction words.
func newTestMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()

	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}

	vm, err := LoadROM(program,
		WithLogger(log.NewTestLogger(t)),
		WithRandom(RandomFunc(func() byte { return 0xFF })))
	assert.NoError(t, err)
	return vm
}

// step executes one instruction and fails the test on error.
func step(t *testing.T, vm *Machine) Result {
	t.Helper()

	res, err := vm.Step()
	assert.NoError(t, err)
	return res
}
