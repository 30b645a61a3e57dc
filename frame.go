package stackvm

// coroState is the lifecycle state of a Coroutine slot.
type coroState uint8

const (
	// coroActive holds a suspended frame that can be resumed.
	coroActive coroState = iota
	// coroRunning marks the slot whose frame is currently above it on the
	// call stack, set for the duration of a CoResume. Transient: never
	// observed by a host generic op in a stable position, only ever set
	// immediately before a push and cleared immediately on the matching
	// CoYield or CoFinish.
	coroRunning
	// coroFinished is ready to be observed via CoFinishSetBranch and then
	// destroyed.
	coroFinished
)

// Coroutine is a suspended or finished child frame owned by its parent.
type Coroutine[T any] struct {
	state coroState
	frame *Frame[T] // non-nil only while state == coroActive or coroRunning
}

// IsFinished reports whether the coroutine has run to completion and is
// ready to be observed and discarded.
func (c Coroutine[T]) IsFinished() bool {
	return c.state == coroFinished
}

// IsActive reports whether the coroutine holds a suspended frame that can
// be resumed.
func (c Coroutine[T]) IsActive() bool {
	return c.state == coroActive
}

// clone deep-clones a coroutine: an Active slot's suspended frame and its
// transitive coroutine list are copied so the two coroutines share no
// mutable state; a Finished slot is trivially copied.
func (c Coroutine[T]) clone() Coroutine[T] {
	if c.frame == nil {
		return c
	}
	clonedFrame := c.frame.clone()
	return Coroutine[T]{state: c.state, frame: clonedFrame}
}

// Frame is a single function invocation's state: its program counter,
// locals, return slot, branch flag, dynamic-call register, and the
// coroutines it owns.
type Frame[T any] struct {
	FunID      int
	PC         int
	Locals     []T
	Return     *T
	Branch     bool
	DynCall    *int
	Coroutines []Coroutine[T]
}

// newFrame builds the initial frame for a Call, DynCall, or the Run entry
// point: PC 0, an empty return slot, branch flag cleared, no
// dynamic-call target, and no coroutines.
func newFrame[T any](funID int, locals []T) *Frame[T] {
	return &Frame[T]{FunID: funID, Locals: locals}
}

// clone deep-clones a frame: its locals, coroutine list (recursively), and
// scalar fields are all copied so mutating the clone never affects the
// original. Used by CoDup, whose contract requires T to be safely
// duplicable the same way locals are duplicated across Call/DynCall.
func (f *Frame[T]) clone() *Frame[T] {
	if f == nil {
		return nil
	}
	locals := append([]T(nil), f.Locals...)
	var coroutines []Coroutine[T]
	if f.Coroutines != nil {
		coroutines = make([]Coroutine[T], len(f.Coroutines))
		for i, c := range f.Coroutines {
			coroutines[i] = c.clone()
		}
	}
	clone := &Frame[T]{
		FunID:      f.FunID,
		PC:         f.PC,
		Locals:     locals,
		Branch:     f.Branch,
		Coroutines: coroutines,
	}
	if f.Return != nil {
		v := *f.Return
		clone.Return = &v
	}
	if f.DynCall != nil {
		id := *f.DynCall
		clone.DynCall = &id
	}
	return clone
}
