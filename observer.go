package stackvm

import (
	"github.com/rs/zerolog"
)

// Observer receives callbacks for VM execution events. Implementations can
// be used for tracing, debugging, or metrics without modifying the
// interpreter. All methods are called synchronously during Run and must be
// fast; none may retain the frame pointers they are given past the call.
//
// Embed NoOpObserver to implement only the callbacks of interest.
type Observer[T, S any] interface {
	// OnCall fires after a Call or DynCall pushes a new frame, before its
	// first instruction executes.
	OnCall(runID string, caller, callee *Frame[T])
	// OnReturn fires after Return, ReturnLocal, or CoFinish pops a frame,
	// once the caller (if any) is current again. When the entry frame
	// returns, caller is nil.
	OnReturn(runID string, callee *Frame[T], caller *Frame[T])
	// OnYield fires after CoYield suspends a frame into its parent's
	// coroutine list.
	OnYield(runID string, child, parent *Frame[T])
	// OnResume fires after CoResume activates a suspended coroutine.
	OnResume(runID string, parent, child *Frame[T])
	// OnFault fires once, immediately before Run returns a non-nil error.
	OnFault(runID string, err error)
}

// NoOpObserver implements Observer with no-op methods. Embed it in a
// partial Observer implementation to satisfy the interface.
type NoOpObserver[T, S any] struct{}

func (NoOpObserver[T, S]) OnCall(string, *Frame[T], *Frame[T])   {}
func (NoOpObserver[T, S]) OnReturn(string, *Frame[T], *Frame[T]) {}
func (NoOpObserver[T, S]) OnYield(string, *Frame[T], *Frame[T])  {}
func (NoOpObserver[T, S]) OnResume(string, *Frame[T], *Frame[T]) {}
func (NoOpObserver[T, S]) OnFault(string, error)                 {}

// LoggingObserver logs each execution event as a structured zerolog entry.
// It is the Observer installed by New when no explicit Observer is
// supplied via WithObserver.
type LoggingObserver[T, S any] struct {
	NoOpObserver[T, S]
	logger zerolog.Logger
}

// NewLoggingObserver builds a LoggingObserver that writes to logger.
func NewLoggingObserver[T, S any](logger zerolog.Logger) *LoggingObserver[T, S] {
	return &LoggingObserver[T, S]{logger: logger}
}

func (o *LoggingObserver[T, S]) OnCall(runID string, caller, callee *Frame[T]) {
	o.logger.Debug().
		Str("run_id", runID).
		Int("caller_fun", caller.FunID).
		Int("callee_fun", callee.FunID).
		Int("locals", len(callee.Locals)).
		Msg("call")
}

func (o *LoggingObserver[T, S]) OnReturn(runID string, callee *Frame[T], caller *Frame[T]) {
	ev := o.logger.Debug().Str("run_id", runID).Int("callee_fun", callee.FunID)
	if caller != nil {
		ev = ev.Int("caller_fun", caller.FunID)
	}
	ev.Msg("return")
}

func (o *LoggingObserver[T, S]) OnYield(runID string, child, parent *Frame[T]) {
	o.logger.Debug().
		Str("run_id", runID).
		Int("child_fun", child.FunID).
		Int("parent_fun", parent.FunID).
		Msg("yield")
}

func (o *LoggingObserver[T, S]) OnResume(runID string, parent, child *Frame[T]) {
	o.logger.Debug().
		Str("run_id", runID).
		Int("parent_fun", parent.FunID).
		Int("child_fun", child.FunID).
		Msg("resume")
}

func (o *LoggingObserver[T, S]) OnFault(runID string, err error) {
	o.logger.Error().Str("run_id", runID).Err(err).Msg("fault")
}
