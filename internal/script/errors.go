package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoHandler is returned when a script listens to kinds but defines
	// no on_event function.
	ErrNoHandler = errors.New("script listens to events but defines no on_event")
)
