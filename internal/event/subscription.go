package event

import (
	"sync/atomic"

	"github.com/dshills/lpk/internal/event/kind"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been removed.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Label names the handler in logs. Defaults to the handler's type or
	// its String method.
	Label string

	// Once cancels the subscription after its first delivery.
	Once bool
}

// SubscriptionOption is a function that configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithLabel sets the label used in logs and panic reports.
func WithLabel(label string) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Label = label
	}
}

// WithOnce cancels the subscription after the first event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// Subscription is the token returned by Subscribe. It is a scoped handle:
// cancelling it detaches the handler, so an owner that keeps its tokens
// can never leave a dangling subscription behind.
type Subscription struct {
	id      string
	kind    kind.Kind
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
	reg     *Registry
}

func newSubscription(id string, k kind.Kind, h Handler, reg *Registry, opts ...SubscriptionOption) *Subscription {
	var config SubscriptionConfig
	for _, opt := range opts {
		opt(&config)
	}
	if config.Label == "" {
		config.Label = handlerLabel(h)
	}

	s := &Subscription{
		id:      id,
		kind:    k,
		handler: h,
		config:  config,
		reg:     reg,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Kind returns the subscribed kind.
func (s *Subscription) Kind() kind.Kind { return s.kind }

// Handler returns the subscribed handler.
func (s *Subscription) Handler() Handler { return s.handler }

// Label returns the handler label.
func (s *Subscription) Label() string { return s.config.Label }

// Config returns the subscription configuration.
func (s *Subscription) Config() SubscriptionConfig { return s.config }

// State returns the current subscription state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s.State() == SubscriptionStateActive
}

// Cancel detaches the subscription from its bus. It is safe to call more
// than once and from inside the handler during dispatch.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	if s.markCancelled() && s.reg != nil {
		s.reg.remove(s)
	}
}

// markCancelled flips the state and reports whether this call did it.
func (s *Subscription) markCancelled() bool {
	return s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled))
}
