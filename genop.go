package stackvm

// GenOpKind selects which subset of VM state a generic op's callback may
// touch. The four flavors are deliberately distinct function types rather
// than one do-everything environment: the signature itself documents, and
// the compiler enforces, what a given host callback can reach.
type GenOpKind uint8

const (
	// KindVm ops receive the globals, the stack of caller frames, and the
	// current frame.
	KindVm GenOpKind = iota
	// KindGlobal ops receive only the globals.
	KindGlobal
	// KindLocal ops receive only the current frame's local list.
	KindLocal
	// KindFrame ops receive the current frame in full.
	KindFrame
)

// VmEnv is the state a KindVm generic op may read and mutate: the VM-wide
// globals, the current frame, and the stack of suspended caller frames
// beneath it (bottom-most first). Callers must not retain env or any of its
// fields past the callback's return.
type VmEnv[T, S any] struct {
	Globals *[]S
	Current *Frame[T]
	Callers []*Frame[T]
}

// VmFunc is a KindVm generic op's callback. A non-nil result overwrites the
// current frame's return slot; a nil result leaves it unchanged.
type VmFunc[T, S any] func(env *VmEnv[T, S], params []int) (*T, error)

// GlobalFunc is a KindGlobal generic op's callback.
type GlobalFunc[T, S any] func(globals *[]S, params []int) (*T, error)

// LocalFunc is a KindLocal generic op's callback.
type LocalFunc[T any] func(locals *[]T, params []int) (*T, error)

// FrameFunc is a KindFrame generic op's callback.
type FrameFunc[T any] func(frame *Frame[T], params []int) (*T, error)

// GenOp is a single named host-supplied generic operation, invoked by the
// Gen opcode. Exactly one of the four callback fields is populated,
// matching Kind; construct with NewVmOp, NewGlobalOp, NewLocalOp, or
// NewFrameOp rather than the struct literal.
type GenOp[T, S any] struct {
	Name     string
	Kind     GenOpKind
	vmOp     VmFunc[T, S]
	globalOp GlobalFunc[T, S]
	localOp  LocalFunc[T]
	frameOp  FrameFunc[T]
}

// NewVmOp builds a generic op with full access to globals, the current
// frame, and the caller stack.
func NewVmOp[T, S any](name string, fn VmFunc[T, S]) GenOp[T, S] {
	return GenOp[T, S]{Name: name, Kind: KindVm, vmOp: fn}
}

// NewGlobalOp builds a generic op limited to the globals list.
func NewGlobalOp[T, S any](name string, fn GlobalFunc[T, S]) GenOp[T, S] {
	return GenOp[T, S]{Name: name, Kind: KindGlobal, globalOp: fn}
}

// NewLocalOp builds a generic op limited to the current frame's locals.
func NewLocalOp[T, S any](name string, fn LocalFunc[T]) GenOp[T, S] {
	return GenOp[T, S]{Name: name, Kind: KindLocal, localOp: fn}
}

// NewFrameOp builds a generic op with full access to the current frame,
// including its branch flag, dynamic-call register, and coroutine list.
func NewFrameOp[T, S any](name string, fn FrameFunc[T]) GenOp[T, S] {
	return GenOp[T, S]{Name: name, Kind: KindFrame, frameOp: fn}
}
