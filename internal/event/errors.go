package event

import (
	"errors"
	"fmt"

	"github.com/dshills/lpk/internal/event/kind"
)

// Sentinel errors for the event bus. Steady-state misses such as a
// publish with no subscribers or removing a handler that is not
// subscribed are not errors.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrUnknownKind is returned when a kind outside the catalog is used.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrBusClosed is returned when subscribing to a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrHandlerPanic matches every PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// PanicError describes a handler that panicked during a publish.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Label names the handler.
	Label string

	// Kind is the kind being delivered.
	Kind kind.Kind

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler %s panicked on %s: %v", e.Label, e.Kind, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
