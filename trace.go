package stackvm

import "github.com/stackvm-go/stackvm/errz"

// buildTrace walks the frame stack bottom-to-top, recording the display
// name of each frame's function and its program counter. The stack already
// includes the current (faulting) frame as its top element, so the trace's
// last entry is always the faulting site with no special-case append
// needed at call sites.
func (vm *VM[T, S]) buildTrace(stack []*Frame[T]) errz.StackTrace {
	trace := make(errz.StackTrace, 0, len(stack))
	for _, f := range stack {
		name := "<unknown>"
		if f.FunID >= 0 && f.FunID < len(vm.funs) {
			name = vm.funs[f.FunID].Name
		}
		trace = append(trace, errz.Frame{Function: name, PC: f.PC})
	}
	return trace
}
