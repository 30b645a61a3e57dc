package stackvm

import (
	"github.com/stackvm-go/stackvm/errz"
	"github.com/stackvm-go/stackvm/op"
)

// Run executes the function identified by entry. It returns the value
// produced by the outermost ReturnLocal (Some), nil with a nil error if the
// outermost frame executed a plain Return (None), or a non-nil error if any
// opcode faulted. A fault leaves the VM's internal state unspecified; the
// caller should discard the VM rather than call Run again on it.
//
// Run is purely synchronous: it never blocks on anything but host
// generic-op callbacks, which themselves run to completion before dispatch
// continues. There is no preemption and no cancellation at this layer; a
// host that needs a deadline should implement it as a generic op that
// returns an error.
func (vm *VM[T, S]) Run(entry int) (*T, error) {
	runID := newRunID()
	stack := []*Frame[T]{newFrame[T](entry, nil)}

	for {
		cur := stack[len(stack)-1]

		if cur.FunID < 0 || cur.FunID >= len(vm.funs) {
			return vm.fail(runID, errz.NewFunDoesNotExist(cur.FunID, vm.buildTrace(stack)))
		}
		fn := &vm.funs[cur.FunID]

		if cur.PC < 0 || cur.PC >= len(fn.Instrs) {
			return vm.fail(runID, errz.NewInstrPointerOutOfRange(cur.PC, vm.buildTrace(stack)))
		}
		instr := fn.Instrs[cur.PC]

		switch instr.Code {

		case op.Gen:
			if instr.OpID < 0 || instr.OpID >= len(vm.ops) {
				return vm.fail(runID, errz.NewGenOpDoesNotExist(instr.OpID, vm.buildTrace(stack)))
			}
			genOp := vm.ops[instr.OpID]
			var result *T
			var err error
			switch genOp.Kind {
			case KindVm:
				env := &VmEnv[T, S]{Globals: &vm.globals, Current: cur, Callers: stack[:len(stack)-1]}
				result, err = genOp.vmOp(env, instr.Params)
			case KindGlobal:
				result, err = genOp.globalOp(&vm.globals, instr.Params)
			case KindLocal:
				result, err = genOp.localOp(&cur.Locals, instr.Params)
			case KindFrame:
				result, err = genOp.frameOp(cur, instr.Params)
			}
			if err != nil {
				return vm.fail(runID, errz.NewGenOpError(genOp.Name, err, vm.buildTrace(stack)))
			}
			if result != nil {
				cur.Return = result
			}
			cur.PC++

		case op.Call:
			callee, err := vm.prepareCall(stack, cur, instr.FunID, instr.Params)
			if err != nil {
				return vm.fail(runID, err)
			}
			cur.PC++
			stack = append(stack, callee)
			vm.observer.OnCall(runID, cur, callee)

		case op.DynCall:
			if cur.DynCall == nil {
				return vm.fail(runID, errz.NewDynFunDoesNotExist(vm.buildTrace(stack)))
			}
			callee, err := vm.prepareCall(stack, cur, *cur.DynCall, instr.Params)
			if err != nil {
				return vm.fail(runID, err)
			}
			cur.PC++
			stack = append(stack, callee)
			vm.observer.OnCall(runID, cur, callee)

		case op.ReturnLocal:
			v, remaining, ok := takeLocal(cur.Locals, instr.Index)
			if !ok {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.Index, vm.buildTrace(stack)))
			}
			cur.Locals = remaining
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				vm.observer.OnReturn(runID, cur, nil)
				return &v, nil
			}
			caller := stack[len(stack)-1]
			caller.Return = &v
			vm.observer.OnReturn(runID, cur, caller)

		case op.Return:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				vm.observer.OnReturn(runID, cur, nil)
				return nil, nil
			}
			caller := stack[len(stack)-1]
			caller.Return = nil
			vm.observer.OnReturn(runID, cur, caller)

		case op.Branch:
			if cur.Branch {
				cur.PC = instr.Target
			} else {
				cur.PC++
			}

		case op.PushRet:
			if cur.Return == nil {
				return vm.fail(runID, errz.NewAccessMissingReturn(vm.buildTrace(stack)))
			}
			cur.Locals = append(cur.Locals, *cur.Return)
			cur.Return = nil
			cur.PC++

		case op.PushLocal:
			cur.Locals = append(cur.Locals, instr.Value)
			cur.PC++

		case op.Dup:
			v, ok := cloneLocal(cur.Locals, instr.Index)
			if !ok {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.Index, vm.buildTrace(stack)))
			}
			cur.Locals = append(cur.Locals, v)
			cur.PC++

		case op.Drop:
			if instr.Index < 0 || instr.Index >= len(cur.Locals) {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.Index, vm.buildTrace(stack)))
			}
			cur.Locals = removeAt(cur.Locals, instr.Index)
			cur.PC++

		case op.Swap:
			if instr.A < 0 || instr.A >= len(cur.Locals) {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.A, vm.buildTrace(stack)))
			}
			if instr.B < 0 || instr.B >= len(cur.Locals) {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.B, vm.buildTrace(stack)))
			}
			cur.Locals[instr.A], cur.Locals[instr.B] = cur.Locals[instr.B], cur.Locals[instr.A]
			cur.PC++

		case op.CoYield:
			v, ok := cloneLocal(cur.Locals, instr.Index)
			if !ok {
				return vm.fail(runID, errz.NewAccessMissingLocal(instr.Index, vm.buildTrace(stack)))
			}
			yieldPC := cur.PC
			cur.PC++
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return vm.fail(runID, errz.NewTopLevelYield(yieldPC))
			}
			parent := stack[len(stack)-1]
			installCoroutine(parent, Coroutine[T]{state: coroActive, frame: cur})
			parent.Return = &v
			vm.observer.OnYield(runID, cur, parent)

		case op.CoFinish:
			finishPC := cur.PC
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return vm.fail(runID, errz.NewTopLevelYield(finishPC))
			}
			parent := stack[len(stack)-1]
			installCoroutine(parent, Coroutine[T]{state: coroFinished})
			parent.Return = nil
			vm.observer.OnReturn(runID, cur, parent)

		case op.CoResume:
			if instr.Index < 0 || instr.Index >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.Index, vm.buildTrace(stack)))
			}
			switch cur.Coroutines[instr.Index].state {
			case coroFinished:
				return vm.fail(runID, errz.NewResumeFinishedCoroutine(instr.Index, vm.buildTrace(stack)))
			case coroRunning:
				panic("stackvm: coroutine already running (invariant violated)")
			default:
				child := cur.Coroutines[instr.Index].frame
				cur.Coroutines[instr.Index] = Coroutine[T]{state: coroRunning}
				cur.PC++
				stack = append(stack, child)
				vm.observer.OnResume(runID, cur, child)
			}

		case op.CoFinishSetBranch:
			if instr.Index < 0 || instr.Index >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.Index, vm.buildTrace(stack)))
			}
			if cur.Coroutines[instr.Index].IsFinished() {
				cur.Branch = true
				cur.Coroutines = removeAt(cur.Coroutines, instr.Index)
			} else {
				cur.Branch = false
			}
			cur.PC++

		case op.CoDup:
			if instr.Index < 0 || instr.Index >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.Index, vm.buildTrace(stack)))
			}
			cur.Coroutines = append(cur.Coroutines, cur.Coroutines[instr.Index].clone())
			cur.PC++

		case op.CoDrop:
			if instr.Index < 0 || instr.Index >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.Index, vm.buildTrace(stack)))
			}
			cur.Coroutines = removeAt(cur.Coroutines, instr.Index)
			cur.PC++

		case op.CoSwap:
			if instr.A < 0 || instr.A >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.A, vm.buildTrace(stack)))
			}
			if instr.B < 0 || instr.B >= len(cur.Coroutines) {
				return vm.fail(runID, errz.NewAccessMissingCoroutine(instr.B, vm.buildTrace(stack)))
			}
			cur.Coroutines[instr.A], cur.Coroutines[instr.B] = cur.Coroutines[instr.B], cur.Coroutines[instr.A]
			cur.PC++

		default:
			return vm.fail(runID, errz.NewInstrPointerOutOfRange(cur.PC, vm.buildTrace(stack)))
		}
	}
}

// prepareCall validates funID and gathers the callee's initial locals by
// cloning the addressed values out of the caller's locals, in order. It
// never mutates caller or stack; the caller only advances its own PC and
// pushes the returned frame once this succeeds, so a failed call leaves
// the caller exactly as it was.
func (vm *VM[T, S]) prepareCall(stack []*Frame[T], caller *Frame[T], funID int, params []int) (*Frame[T], error) {
	if funID < 0 || funID >= len(vm.funs) {
		return nil, errz.NewFunDoesNotExist(funID, vm.buildTrace(stack))
	}
	locals := make([]T, 0, len(params))
	for _, idx := range params {
		v, ok := cloneLocal(caller.Locals, idx)
		if !ok {
			return nil, errz.NewAccessMissingLocal(idx, vm.buildTrace(stack))
		}
		locals = append(locals, v)
	}
	return newFrame(funID, locals), nil
}

// installCoroutine places a suspended (Active or Finished) coroutine into
// the slot most recently marked Running by a CoResume, preserving the
// coroutine's position in the list. If no Running slot exists - the case
// when a frame pushed by Call or DynCall executes its first CoYield or
// CoFinish - the coroutine is appended instead, which is how a new
// coroutine enters the parent's list.
func installCoroutine[T any](parent *Frame[T], c Coroutine[T]) {
	for i := range parent.Coroutines {
		if parent.Coroutines[i].state == coroRunning {
			parent.Coroutines[i] = c
			return
		}
	}
	parent.Coroutines = append(parent.Coroutines, c)
}

func (vm *VM[T, S]) fail(runID string, err error) (*T, error) {
	vm.observer.OnFault(runID, err)
	return nil, err
}
