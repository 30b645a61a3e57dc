// Package stackvm implements a generic, embeddable stack-machine virtual
// machine: classical call/return over a frame stack, indirect dispatch
// through a caller-supplied table of generic operations, and first-class
// resumable coroutines owned by their parent frame.
//
// The VM is parameterized over two host-chosen types: T for locals, return
// values, and coroutine-yielded values, and S for the single VM-wide
// globals list. stackvm never inspects a T or S value itself; it only
// moves, clones, and stores them, so a host may instantiate the VM for any
// value universe it likes.
package stackvm

import (
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// VM executes programs built from a function table and a generic-operation
// table. A VM owns its function table, op table, globals, and the frame
// stack exclusively during Run; it does not support multiple concurrent
// Run calls and is not safe for concurrent use from multiple goroutines.
type VM[T, S any] struct {
	funs    []Function[T]
	ops     []GenOp[T, S]
	globals []S

	observer Observer[T, S]
	logger   zerolog.Logger
}

// Option configures a VM at construction time.
type Option[T, S any] func(*VM[T, S])

// WithObserver attaches an Observer that receives callbacks for call,
// return, coroutine, and fault events during Run.
func WithObserver[T, S any](o Observer[T, S]) Option[T, S] {
	return func(vm *VM[T, S]) { vm.observer = o }
}

// WithLogger attaches a zerolog.Logger used by the built-in LoggingObserver
// when no explicit Observer is supplied via WithObserver.
func WithLogger[T, S any](logger zerolog.Logger) Option[T, S] {
	return func(vm *VM[T, S]) { vm.logger = logger }
}

// New builds a VM from a function table and a generic-operation table. The
// function table and op table are addressed by their slice index: Call,
// DynCall, and the run entry point name functions by index into funs;
// Gen names ops by index into ops.
func New[T, S any](funs []Function[T], ops []GenOp[T, S], opts ...Option[T, S]) *VM[T, S] {
	vm := &VM[T, S]{
		funs:   funs,
		ops:    ops,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.observer == nil {
		vm.observer = NewLoggingObserver[T, S](vm.logger)
	}
	return vm
}

// WithGlobals installs a new globals list, returning whatever list was
// previously installed (empty on the first call).
func (vm *VM[T, S]) WithGlobals(globals []S) []S {
	prior := vm.globals
	vm.globals = globals
	return prior
}

// newRunID returns an id tagging a single Run invocation, for correlating
// observer/log output.
func newRunID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}
