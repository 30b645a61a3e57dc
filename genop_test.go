package stackvm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvm-go/stackvm/errz"
	"github.com/stackvm-go/stackvm/op"
)

func TestLocalOpReturningNoneLeavesReturnSlotEmpty(t *testing.T) {
	noop := NewLocalOp[int, int]("noop", func(locals *[]int, params []int) (*int, error) {
		return nil, nil
	})
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{noop})
	_, err := vm.Run(0)

	var vmErr *errz.Error
	require.True(t, errors.As(err, &vmErr))
	assert.Equal(t, errz.AccessMissingReturn, vmErr.Kind)
}

func TestLocalOpReturningValue(t *testing.T) {
	three := NewLocalOp[int, int]("three", func(locals *[]int, params []int) (*int, error) {
		v := 3
		return &v, nil
	})
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{three})
	result, err := vm.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 3, *result)
}

func TestReturnSlotMonotonicity(t *testing.T) {
	setThree := NewLocalOp[int, int]("set_three", func(locals *[]int, params []int) (*int, error) {
		v := 3
		return &v, nil
	})
	noop := NewLocalOp[int, int]("noop", func(locals *[]int, params []int) (*int, error) {
		return nil, nil
	})
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil), // sets return slot to 3
			op.GenOp[int](1, nil), // None: must not clear it
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{setThree, noop})
	result, err := vm.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 3, *result)
}

func TestGlobalOp(t *testing.T) {
	sumGlobals := NewGlobalOp[int, int]("sum_globals", func(globals *[]int, params []int) (*int, error) {
		total := 0
		for _, v := range *globals {
			total += v
		}
		return &total, nil
	})
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{sumGlobals})
	vm.WithGlobals([]int{1, 2, 3})

	result, err := vm.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 6, *result)
}

func TestFrameOpSetsBranch(t *testing.T) {
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.Br[int](4),
			op.PushImmediate[int](0),
			op.RetLocal[int](0),

			op.GenOp[int](1, []int{1}),
			op.RetLocal[int](0),
		},
	}
	push1 := NewLocalOp[int, int]("push_1", func(locals *[]int, params []int) (*int, error) {
		*locals = append(*locals, 1)
		return nil, nil
	})
	vm := New[int, int]([]Function[int]{main}, []GenOp[int, int]{setBranchOp(), push1})
	result, err := vm.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 1, *result)
}

func TestVmOpSeesCallerStack(t *testing.T) {
	depthOfCallers := NewVmOp[int, int]("depth", func(env *VmEnv[int, int], params []int) (*int, error) {
		n := len(env.Callers)
		return &n, nil
	})
	inner := Function[int]{
		Name: "inner",
		Instrs: []op.Instr[int]{
			op.GenOp[int](0, nil),
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	main := Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.CallFun[int](1, nil),
			op.PushReturn[int](),
			op.RetLocal[int](0),
		},
	}
	vm := New[int, int]([]Function[int]{main, inner}, []GenOp[int, int]{depthOfCallers})
	result, err := vm.Run(0)
	require.NoError(t, err)
	assert.Equal(t, 1, *result)
}

func TestGenOpDoesNotExist(t *testing.T) {
	main := Function[int]{
		Name:   "main",
		Instrs: []op.Instr[int]{op.GenOp[int](0, nil)},
	}
	vm := New[int, int]([]Function[int]{main}, nil)
	_, err := vm.Run(0)

	var vmErr *errz.Error
	require.True(t, errors.As(err, &vmErr))
	assert.Equal(t, errz.GenOpDoesNotExist, vmErr.Kind)
}
