package stackvm

import "github.com/stackvm-go/stackvm/op"

// Function is a named, immutable sequence of instructions. Names appear
// verbatim in stack traces.
type Function[T any] struct {
	Name   string
	Instrs []op.Instr[T]
}
