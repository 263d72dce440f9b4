// Package participant is the shared base of every object that takes part
// in events: it owns the participant's subscriptions, honors the bus
// pause state, and runs the receiver filter as a guard.
package participant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/filter"
	"github.com/dshills/lpk/internal/event/kind"
)

// Participant is embedded by components. The pause state it checks
// belongs to the bus, so a participant created while the game is paused
// starts out paused. It must be closed when its object goes away.
type Participant struct {
	bus     event.Bus
	pub     *event.Publisher
	subject filter.Subject
	log     zerolog.Logger
	quiet   bool

	enabled atomic.Bool

	mu     sync.Mutex
	subs   []*event.Subscription
	closed bool
}

// Option configures a Participant.
type Option func(*Participant)

// WithLogger sets the participant logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Participant) { p.log = l }
}

// WithInput restricts the participant to the given device inputs.
func WithInput(in filter.InputInterest) Option {
	return func(p *Participant) { p.subject.Input = in }
}

// WithActivators restricts which senders the participant reacts to.
func WithActivators(a filter.Activators) Option {
	return func(p *Participant) { p.subject.Activators = a }
}

// Quiet suppresses the warning for listening to reserved kinds.
func Quiet() Option {
	return func(p *Participant) { p.quiet = true }
}

// Disabled creates the participant switched off.
func Disabled() Option {
	return func(p *Participant) { p.enabled.Store(false) }
}

// ErrNoObject is returned by New when the participant has no object.
var ErrNoObject = errors.New("participant: object is required")

// New creates a participant for obj on bus.
func New(bus event.Bus, obj *event.Object, opts ...Option) (*Participant, error) {
	if obj == nil {
		return nil, ErrNoObject
	}
	p := &Participant{
		bus:     bus,
		pub:     event.NewPublisher(bus, obj),
		subject: filter.Subject{Object: obj},
		log:     zerolog.Nop(),
	}
	p.enabled.Store(true)
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("object", obj.String()).Logger()
	return p, nil
}

// Base returns p. It lets World find the participant inside a component.
func (p *Participant) Base() *Participant { return p }

// Object returns the participant's identity.
func (p *Participant) Object() *event.Object { return p.subject.Object }

// Bus returns the bus the participant is attached to.
func (p *Participant) Bus() event.Bus { return p.bus }

// Logger returns the participant logger.
func (p *Participant) Logger() *zerolog.Logger { return &p.log }

// Subject returns what the filter knows about this participant.
func (p *Participant) Subject() filter.Subject { return p.subject }

// Paused reports whether the game on p's bus is paused.
func (p *Participant) Paused() bool { return p.bus.Paused() }

// Enabled reports whether p reacts to events and ticks.
func (p *Participant) Enabled() bool { return p.enabled.Load() }

// SetEnabled switches p on or off.
func (p *Participant) SetEnabled(on bool) { p.enabled.Store(on) }

// Closed reports whether Close has run.
func (p *Participant) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Listen subscribes h to every kind of sel. Close removes it again.
// Wiring gameplay logic to pause or option manager kinds is allowed but
// logged as a warning.
func (p *Participant) Listen(sel kind.Selection, h event.Handler) error {
	if reserved := sel.Reserved(); len(reserved) > 0 && !p.quiet {
		p.log.Warn().
			Strs("kinds", reserved.Names()).
			Msg("listening to reserved kinds; these are driven by managers, not gameplay")
	}
	subs, err := p.bus.SubscribeAll(sel, h, event.WithLabel(p.subject.Object.String()))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		for _, s := range subs {
			s.Cancel()
		}
		return nil
	}
	p.subs = append(p.subs, subs...)
	return nil
}

// ShouldRespond is the guard every handler runs first. It refuses while p
// is disabled or paused and otherwise applies the receiver, input and
// activator filter.
func (p *Participant) ShouldRespond(pl *event.Payload) bool {
	if !p.enabled.Load() || p.bus.Paused() {
		return false
	}
	d := filter.Explain(p.subject, pl)
	if e := p.log.Trace(); e.Enabled() {
		e.Bool("accept", d.Accept).Str("reason", d.Reason.String()).Msg("filter")
	}
	return d.Accept
}

// ShouldRespondWhilePaused is ShouldRespond without the pause check. Only
// handlers that clear the pause state use it.
func (p *Participant) ShouldRespondWhilePaused(pl *event.Payload) bool {
	if !p.enabled.Load() {
		return false
	}
	return filter.ShouldRespond(p.subject, pl)
}

// Publish sends pl as p. A nil payload is addressed to p alone.
func (p *Participant) Publish(ctx context.Context, sel kind.Selection, pl *event.Payload) {
	if sel.Empty() {
		return
	}
	p.pub.Publish(ctx, sel, pl)
}

// Emit builds a payload from p to the given receivers and publishes it.
func (p *Participant) Emit(ctx context.Context, sel kind.Selection, to event.Receivers, fill func(*event.Payload)) {
	if sel.Empty() {
		return
	}
	p.pub.Emit(ctx, sel, to, fill)
}

// Close detaches every handler p attached. It is safe to call more than
// once.
func (p *Participant) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	removed := 0
	for _, s := range subs {
		if s.Active() {
			removed++
		}
		s.Cancel()
	}
	p.enabled.Store(false)
	p.log.Debug().Int("subscriptions", removed).Msg("participant closed")
}

// Pause publishes GamePaused to everyone.
func Pause(ctx context.Context, bus event.Bus) {
	bus.PublishKind(ctx, kind.GamePaused, event.NewPayload(nil, event.Broadcast()))
}

// Unpause publishes GameUnpaused to everyone.
func Unpause(ctx context.Context, bus event.Bus) {
	bus.PublishKind(ctx, kind.GameUnpaused, event.NewPayload(nil, event.Broadcast()))
}
