package stackvm

// Generic ops shared by the scenario tests, each a direct port of a
// fixture op from the reference test suite this project's scenarios are
// drawn from.

func pushFromGlobalOp() GenOp[int, int] {
	return NewVmOp[int, int]("push_global", func(env *VmEnv[int, int], params []int) (*int, error) {
		v := (*env.Globals)[params[0]]
		env.Current.Locals = append(env.Current.Locals, v)
		return nil, nil
	})
}

func pushIntoGlobalOp() GenOp[int, int] {
	return NewVmOp[int, int]("push_into_global", func(env *VmEnv[int, int], params []int) (*int, error) {
		v := env.Current.Locals[params[0]]
		*env.Globals = append(*env.Globals, v)
		return nil, nil
	})
}

func addOp() GenOp[int, int] {
	return NewLocalOp[int, int]("add", func(locals *[]int, params []int) (*int, error) {
		sum := (*locals)[params[0]] + (*locals)[params[1]]
		return &sum, nil
	})
}

func mulOp() GenOp[int, int] {
	return NewLocalOp[int, int]("mul", func(locals *[]int, params []int) (*int, error) {
		product := (*locals)[params[0]] * (*locals)[params[1]]
		return &product, nil
	})
}

func decOp() GenOp[int, int] {
	return NewLocalOp[int, int]("dec", func(locals *[]int, params []int) (*int, error) {
		v := (*locals)[params[0]] - 1
		return &v, nil
	})
}

func incOp() GenOp[int, int] {
	return NewLocalOp[int, int]("inc", func(locals *[]int, params []int) (*int, error) {
		v := (*locals)[params[0]] + 1
		return &v, nil
	})
}

func bzOp() GenOp[int, int] {
	return NewFrameOp[int, int]("bz", func(frame *Frame[int], params []int) (*int, error) {
		frame.Branch = frame.Locals[params[0]] == 0
		return nil, nil
	})
}

func setBranchOp() GenOp[int, int] {
	return NewFrameOp[int, int]("set_branch", func(frame *Frame[int], params []int) (*int, error) {
		frame.Branch = true
		return nil, nil
	})
}

func unsetBranchOp() GenOp[int, int] {
	return NewFrameOp[int, int]("unset_branch", func(frame *Frame[int], params []int) (*int, error) {
		frame.Branch = false
		return nil, nil
	})
}

func setBranchOnEqualOp() GenOp[int, int] {
	return NewFrameOp[int, int]("set_branch_on_equal", func(frame *Frame[int], params []int) (*int, error) {
		frame.Branch = frame.Locals[params[0]] == frame.Locals[params[1]]
		return nil, nil
	})
}

func setDynCallOp() GenOp[int, int] {
	return NewFrameOp[int, int]("set_dyn_call", func(frame *Frame[int], params []int) (*int, error) {
		id := frame.Locals[params[0]]
		frame.DynCall = &id
		return nil, nil
	})
}

func setBranchOnFinishOp() GenOp[int, int] {
	return NewFrameOp[int, int]("set_branch_on_finish", func(frame *Frame[int], params []int) (*int, error) {
		frame.Branch = frame.Coroutines[params[0]].IsFinished()
		return nil, nil
	})
}

// fixedDynCallOp hardcodes the frame's dynamic-call register to a literal
// function id, matching a fixture that sets it without indirecting through
// a local.
func fixedDynCallOp(name string, funID int) GenOp[int, int] {
	return NewFrameOp[int, int](name, func(frame *Frame[int], params []int) (*int, error) {
		id := funID
		frame.DynCall = &id
		return nil, nil
	})
}
