package dispatch

import (
	"context"
	"time"
)

// Call is one prepared handler invocation. The bus binds the handler, the
// kind and the payload before handing it over.
type Call func(ctx context.Context)

// Dispatcher runs calls.
type Dispatcher interface {
	// Dispatch runs call and reports how it went. label identifies the
	// handler in panic reports.
	Dispatch(ctx context.Context, label string, call Call) Result
}

// Result represents the outcome of a handler invocation.
type Result struct {
	// Success is true if the call returned normally.
	Success bool

	// Err is set when the call was skipped because the context was done.
	Err error

	// Panicked is true if the call panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the call took.
	Duration time.Duration

	// Skipped is true if the call never started.
	Skipped bool
}

// IsSuccess returns true if the call ran to completion.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && !r.Skipped
}

// PanicHandler is called when a call panics. It receives the call label,
// the panic value and the stack trace.
type PanicHandler func(label string, panicValue any, stack []byte)

func defaultPanicHandler(string, any, []byte) {}
