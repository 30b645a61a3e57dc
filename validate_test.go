package stackvm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackvm-go/stackvm/op"
)

func TestValidatePasses(t *testing.T) {
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.Br[int](0),
			op.Ret[int](),
		},
	}
	noop := NewLocalOp[int, int]("noop", func(locals *[]int, params []int) (*int, error) {
		return nil, nil
	})
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{noop})
	assert.NoError(t, vm.Validate())
}

func TestValidateCatchesAllIndependentProblems(t *testing.T) {
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.CallFun[int](9, nil),
			op.GenOp[int](9, nil),
			op.Br[int](99),
		},
	}
	vm := New[int, int]([]Function[int]{main}, nil)
	err := vm.Validate()
	if assert.Error(t, err) {
		msg := err.Error()
		assert.Contains(t, msg, "CALL targets unknown function 9")
		assert.Contains(t, msg, "GEN targets unknown op 9")
		assert.Contains(t, msg, "BRANCH targets out-of-range instruction 99")
	}
}
