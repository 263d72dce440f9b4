package event

import (
	"context"

	"github.com/dshills/lpk/internal/event/kind"
)

// Publisher publishes on behalf of one object. Payloads without a sender
// are stamped with it.
type Publisher struct {
	bus    Bus
	sender *Object
}

// NewPublisher creates a new Publisher wrapping the given bus.
func NewPublisher(bus Bus, sender *Object) *Publisher {
	return &Publisher{
		bus:    bus,
		sender: sender,
	}
}

// Sender returns the object the publisher speaks for.
func (p *Publisher) Sender() *Object { return p.sender }

// Bus returns the underlying bus.
func (p *Publisher) Bus() Bus { return p.bus }

// Publish sends pl to every kind of sel. A nil payload becomes an empty
// payload addressed to the sender only.
func (p *Publisher) Publish(ctx context.Context, sel kind.Selection, pl *Payload) {
	if pl == nil {
		pl = NewPayload(p.sender, Self())
	}
	if pl.Sender == nil {
		pl.Sender = p.sender
	}
	p.bus.Publish(ctx, sel, pl)
}

// Emit builds a payload for the given receivers, lets fill add slot data,
// and publishes it.
func (p *Publisher) Emit(ctx context.Context, sel kind.Selection, to Receivers, fill func(*Payload)) {
	pl := NewPayload(p.sender, to)
	if fill != nil {
		fill(pl)
	}
	p.bus.Publish(ctx, sel, pl)
}
