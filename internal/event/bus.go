package event

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/lpk/internal/event/dispatch"
	"github.com/dshills/lpk/internal/event/kind"
)

// Bus routes published events to the handlers subscribed to their kind.
type Bus interface {
	// Subscribe appends h to the subscriber list of k.
	Subscribe(k kind.Kind, h Handler, opts ...SubscriptionOption) (*Subscription, error)

	// SubscribeFunc subscribes a function. It can only be removed through
	// the returned Subscription or Close.
	SubscribeFunc(k kind.Kind, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error)

	// SubscribeAll subscribes h to every kind of sel, in order.
	SubscribeAll(sel kind.Selection, h Handler, opts ...SubscriptionOption) ([]*Subscription, error)

	// Unsubscribe removes one subscription of h to k. It reports whether
	// anything was removed; a missing handler is not an error.
	Unsubscribe(k kind.Kind, h Handler) bool

	// UnsubscribeAll removes h from every kind and returns how many
	// subscriptions were dropped.
	UnsubscribeAll(h Handler) int

	// Publish delivers p to the handlers of every kind in sel. Kinds are
	// processed in selection order and handlers in subscription order.
	// All handlers receive the same payload pointer.
	Publish(ctx context.Context, sel kind.Selection, p *Payload)

	// PublishKind is Publish for a single kind.
	PublishKind(ctx context.Context, k kind.Kind, p *Payload)

	// Subscribers returns the number of handlers subscribed to k.
	Subscribers(k kind.Kind) int

	// Paused reports whether GamePaused was published on this bus more
	// recently than GameUnpaused. It is the single pause flag every
	// participant on the bus reads.
	Paused() bool

	// Stats returns delivery counters.
	Stats() Stats

	// Close drops every subscription. Publishing on a closed bus is a
	// no-op.
	Close()
}

// Stats holds bus counters.
type Stats struct {
	EventsPublished   uint64
	HandlersExecuted  uint64
	HandlerPanics     uint64
	EventsUnheard     uint64
	ActiveSubscribers int
	AvgDeliveryTimeNs int64
}

type bus struct {
	registry   *Registry
	dispatcher *dispatch.SyncDispatcher
	config     busConfig
	log        zerolog.Logger
	closed     atomic.Bool
	paused     atomic.Bool

	eventsPublished atomic.Uint64
	eventsUnheard   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &bus{
		registry:   NewRegistry(),
		dispatcher: dispatch.NewSyncDispatcher(),
		config:     config,
		log:        config.logger.With().Str("component", "event-bus").Logger(),
	}
}

func (b *bus) Subscribe(k kind.Kind, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !k.Valid() {
		return nil, ErrUnknownKind
	}
	if b.closed.Load() {
		return nil, ErrBusClosed
	}

	if b.config.duplicates == DuplicateIgnore {
		for _, s := range b.registry.Snapshot(k) {
			if sameHandler(s.handler, h) {
				return s, nil
			}
		}
	}

	sub := newSubscription(uuid.NewString(), k, h, b.registry, opts...)
	b.registry.Add(sub)

	b.log.Trace().
		Str("kind", k.String()).
		Str("handler", sub.Label()).
		Int("subscribers", b.registry.CountKind(k)).
		Msg("subscribed")
	return sub, nil
}

func (b *bus) SubscribeFunc(k kind.Kind, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(k, fn, opts...)
}

func (b *bus) SubscribeAll(sel kind.Selection, h Handler, opts ...SubscriptionOption) ([]*Subscription, error) {
	subs := make([]*Subscription, 0, len(sel))
	for _, k := range sel {
		sub, err := b.Subscribe(k, h, opts...)
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (b *bus) Unsubscribe(k kind.Kind, h Handler) bool {
	if h == nil || !k.Valid() {
		return false
	}
	sub := b.registry.RemoveLatest(k, h)
	if sub == nil {
		return false
	}
	sub.markCancelled()
	return true
}

func (b *bus) UnsubscribeAll(h Handler) int {
	if h == nil {
		return 0
	}
	removed := b.registry.RemoveHandler(h)
	for _, s := range removed {
		s.markCancelled()
	}
	return len(removed)
}

func (b *bus) Publish(ctx context.Context, sel kind.Selection, p *Payload) {
	if b.closed.Load() {
		return
	}
	if p == nil {
		p = &Payload{}
	}
	for _, k := range sel {
		b.trackPause(k)
		b.deliver(ctx, k, p)
	}
}

// trackPause flips the pause flag before the pause kinds are delivered, so
// their handlers and anything created afterwards see the new state.
func (b *bus) trackPause(k kind.Kind) {
	switch k {
	case kind.GamePaused:
		if !b.paused.Swap(true) {
			b.log.Debug().Msg("game paused")
		}
	case kind.GameUnpaused:
		if b.paused.Swap(false) {
			b.log.Debug().Msg("game unpaused")
		}
	}
}

func (b *bus) Paused() bool {
	return b.paused.Load()
}

func (b *bus) PublishKind(ctx context.Context, k kind.Kind, p *Payload) {
	b.Publish(ctx, kind.Selection{k}, p)
}

// deliver runs the handlers of k against a snapshot of its list. A
// subscription cancelled earlier in the same publish is skipped.
func (b *bus) deliver(ctx context.Context, k kind.Kind, p *Payload) {
	subs := b.registry.Snapshot(k)
	b.eventsPublished.Add(1)
	if len(subs) == 0 {
		b.eventsUnheard.Add(1)
		return
	}

	for _, sub := range subs {
		if !sub.Active() {
			continue
		}
		if sub.config.Once {
			sub.Cancel()
		}

		h := sub.handler
		result := b.dispatcher.Dispatch(ctx, sub.Label(), func(ctx context.Context) {
			h.HandleEvent(ctx, k, p)
		})
		if result.Skipped {
			return
		}
		if result.Panicked {
			b.reportPanic(&PanicError{
				SubscriptionID: sub.ID(),
				Label:          sub.Label(),
				Kind:           k,
				Value:          result.PanicValue,
				Stack:          string(result.PanicStack),
			})
		}
	}
}

func (b *bus) reportPanic(err *PanicError) {
	b.log.Error().
		Str("kind", err.Kind.String()).
		Str("handler", err.Label).
		Str("subscription", err.SubscriptionID).
		Interface("panic", err.Value).
		Msg("handler panicked")

	if b.config.panicHandler != nil {
		b.config.panicHandler(err)
	}
}

func (b *bus) Subscribers(k kind.Kind) int {
	return b.registry.CountKind(k)
}

func (b *bus) Stats() Stats {
	ds := b.dispatcher.Stats()
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  ds.Dispatched,
		HandlerPanics:     ds.Panicked,
		EventsUnheard:     b.eventsUnheard.Load(),
		ActiveSubscribers: b.registry.Count(),
		AvgDeliveryTimeNs: ds.AvgDuration.Nanoseconds(),
	}
}

func (b *bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	for _, s := range b.registry.Clear() {
		s.markCancelled()
	}
	b.log.Debug().Msg("event bus closed")
}
