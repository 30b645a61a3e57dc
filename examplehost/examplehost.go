// Package examplehost wires stackvm.VM[int, int] up as a tiny
// arithmetic scripting host: a fixed library of generic ops
// and a handful of hand-assembled programs, demonstrating the VM's
// external API end to end.
package examplehost

import (
	"github.com/stackvm-go/stackvm"
	"github.com/stackvm-go/stackvm/op"
)

// Op ids shared by the programs built in this package.
const (
	OpPushGlobal = iota
	OpAdd
	OpMul
	OpDec
	OpBranchOnZero
	OpSetDynCall
)

// Ops returns the generic-operation library every program in this package
// is built against.
func Ops() []stackvm.GenOp[int, int] {
	return []stackvm.GenOp[int, int]{
		stackvm.NewVmOp[int, int]("push_global", func(env *stackvm.VmEnv[int, int], params []int) (*int, error) {
			v := (*env.Globals)[params[0]]
			env.Current.Locals = append(env.Current.Locals, v)
			return nil, nil
		}),
		stackvm.NewLocalOp[int, int]("add", func(locals *[]int, params []int) (*int, error) {
			v := (*locals)[params[0]] + (*locals)[params[1]]
			return &v, nil
		}),
		stackvm.NewLocalOp[int, int]("mul", func(locals *[]int, params []int) (*int, error) {
			v := (*locals)[params[0]] * (*locals)[params[1]]
			return &v, nil
		}),
		stackvm.NewLocalOp[int, int]("dec", func(locals *[]int, params []int) (*int, error) {
			v := (*locals)[params[0]] - 1
			return &v, nil
		}),
		stackvm.NewFrameOp[int, int]("bz", func(frame *stackvm.Frame[int], params []int) (*int, error) {
			frame.Branch = frame.Locals[params[0]] == 0
			return nil, nil
		}),
		stackvm.NewFrameOp[int, int]("set_dyn_call", func(frame *stackvm.Frame[int], params []int) (*int, error) {
			id := frame.Locals[params[0]]
			frame.DynCall = &id
			return nil, nil
		}),
	}
}

// FunIDs for the function tables of FactorialProgram and
// DynamicDispatchProgram.
const (
	FunMain = iota
	FunFactorial
	FunOne
	FunTwo
)

// factorial computes globals[0]! by recursive Call, matching the factorial
// scenario the VM core's behavior is specified against. The base case
// triggers on n-1 == 0, so it expects n >= 1.
func factorial() stackvm.Function[int] {
	return stackvm.Function[int]{
		Name: "factorial",
		Instrs: []op.Instr[int]{
			op.GenOp[int](OpDec, []int{0}),
			op.PushReturn[int](),
			op.GenOp[int](OpBranchOnZero, []int{1}),
			op.Br[int](9),
			op.CallFun[int](FunFactorial, []int{1}),
			op.PushReturn[int](),
			op.GenOp[int](OpMul, []int{0, 2}),
			op.PushReturn[int](),
			op.RetLocal[int](3),
			op.RetLocal[int](0),
		},
	}
}

// one adds globals[0] to its argument, resolved by DynCall in
// DynamicDispatchProgram.
func one() stackvm.Function[int] {
	return stackvm.Function[int]{
		Name: "one",
		Instrs: []op.Instr[int]{
			op.GenOp[int](OpPushGlobal, []int{0}),
			op.GenOp[int](OpAdd, []int{0, 1}),
			op.PushReturn[int](),
			op.RetLocal[int](2),
		},
	}
}

// two adds globals[1] to its argument, resolved by DynCall in
// DynamicDispatchProgram.
func two() stackvm.Function[int] {
	return stackvm.Function[int]{
		Name: "two",
		Instrs: []op.Instr[int]{
			op.GenOp[int](OpPushGlobal, []int{1}),
			op.GenOp[int](OpAdd, []int{0, 1}),
			op.PushReturn[int](),
			op.RetLocal[int](2),
		},
	}
}

// FactorialProgram builds a VM that computes n! for the globals-supplied n,
// entering at FunMain.
func FactorialProgram(n int) *stackvm.VM[int, int] {
	main := stackvm.Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](OpPushGlobal, []int{0}),
			op.CallFun[int](FunFactorial, []int{0}),
			op.PushReturn[int](),
			op.RetLocal[int](1),
		},
	}
	vm := stackvm.New[int, int]([]stackvm.Function[int]{main, factorial()}, Ops())
	vm.WithGlobals([]int{n})
	return vm
}

// DynamicDispatchProgram builds a VM that calls one(globals[2]) and
// two(globals[3]) through DynCall and sums the results, resolving the
// callee ids dynamically via OpSetDynCall. The callee ids FunOne and
// FunTwo are pushed as immediates; globals[0] and globals[1] are the
// amounts one and two add to their arguments.
func DynamicDispatchProgram(globals []int) *stackvm.VM[int, int] {
	main := stackvm.Function[int]{
		Name: "main",
		Instrs: []op.Instr[int]{
			op.GenOp[int](OpPushGlobal, []int{2}), // locals: [7]
			op.GenOp[int](OpPushGlobal, []int{3}), // locals: [7, 17]
			op.PushImmediate(FunOne),              // locals: [7, 17, FunOne]
			op.GenOp[int](OpSetDynCall, []int{2}),
			op.DynCallFun[int]([]int{0}),
			op.PushReturn[int](), // locals: [7, 17, FunOne, one(7)]
			op.PushImmediate(FunTwo),
			op.GenOp[int](OpSetDynCall, []int{4}),
			op.DynCallFun[int]([]int{1}),
			op.PushReturn[int](), // locals: [..., two(17)]
			op.GenOp[int](OpAdd, []int{3, 5}),
			op.PushReturn[int](),
			op.RetLocal[int](6),
		},
	}
	vm := stackvm.New[int, int]([]stackvm.Function[int]{main, factorial(), one(), two()}, Ops())
	vm.WithGlobals(globals)
	return vm
}
