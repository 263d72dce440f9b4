package event

import "github.com/rs/zerolog"

// DuplicatePolicy decides what Subscribe does when the handler is already
// subscribed to the kind.
type DuplicatePolicy int

const (
	// DuplicateAllow appends the handler again; it then runs once per
	// subscription.
	DuplicateAllow DuplicatePolicy = iota

	// DuplicateIgnore returns the existing subscription unchanged.
	DuplicateIgnore
)

// PanicHandler is called when a handler panics during a publish.
type PanicHandler func(err *PanicError)

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	logger       zerolog.Logger
	panicHandler PanicHandler
	duplicates   DuplicatePolicy
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger:     zerolog.Nop(),
		duplicates: DuplicateAllow,
	}
}

// WithLogger sets the logger used for diagnostics and panic reports.
func WithLogger(l zerolog.Logger) BusOption {
	return func(c *busConfig) {
		c.logger = l
	}
}

// WithPanicHandler sets a callback for handler panics. Panics are always
// logged; the callback runs in addition.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithDuplicatePolicy sets how repeated subscriptions are treated.
func WithDuplicatePolicy(p DuplicatePolicy) BusOption {
	return func(c *busConfig) {
		c.duplicates = p
	}
}
