package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Executor runs a single call with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs call and returns the result. A context that is already
// done skips the call.
func (e *Executor) Execute(ctx context.Context, label string, call Call) (result Result) {
	if err := ctx.Err(); err != nil {
		return Result{Err: err, Skipped: true}
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// A panicking panic handler must not escape either.
			func() {
				defer func() { _ = recover() }()
				e.panicHandler(label, r, stack)
			}()
		}
	}()

	call(ctx)
	result.Success = true
	return result
}
