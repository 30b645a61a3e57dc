package stackvm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/stackvm-go/stackvm/op"
)

// Validate statically checks a VM's function table against its op table,
// reporting every Call, Branch, and Gen operand that addresses a
// function, jump target, or generic op outside the tables' bounds. It
// cannot check anything that depends on runtime state - local indices,
// coroutine indices, and DynCall's register are resolved during Run and
// fault there instead.
//
// Validate is optional: Run works correctly against an unvalidated VM, it
// simply faults lazily at the bad instruction instead of up front.
func (vm *VM[T, S]) Validate() error {
	var result *multierror.Error
	for _, fn := range vm.funs {
		for pc, instr := range fn.Instrs {
			if err := vm.validateInstr(fn.Name, pc, len(fn.Instrs), instr); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

func (vm *VM[T, S]) validateInstr(funcName string, pc, instrCount int, instr op.Instr[T]) error {
	switch instr.Code {
	case op.Call:
		if instr.FunID < 0 || instr.FunID >= len(vm.funs) {
			return fmt.Errorf("%s:%d: CALL targets unknown function %d", funcName, pc, instr.FunID)
		}
	case op.Branch:
		if instr.Target < 0 || instr.Target >= instrCount {
			return fmt.Errorf("%s:%d: BRANCH targets out-of-range instruction %d", funcName, pc, instr.Target)
		}
	case op.Gen:
		if instr.OpID < 0 || instr.OpID >= len(vm.ops) {
			return fmt.Errorf("%s:%d: GEN targets unknown op %d", funcName, pc, instr.OpID)
		}
	}
	return nil
}
