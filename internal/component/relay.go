package component

import (
	"context"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// RoleRelay addresses an EventRelay's output.
const RoleRelay = "relay"

// KillOnEvent publishes Death when triggered.
type KillOnEvent struct {
	*participant.Participant
	out emitter
}

// NewKillOnEvent creates a KillOnEvent listening to the "on" trigger.
func NewKillOnEvent(bus event.Bus, cfg Config) (*KillOnEvent, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{RoleDeath}); err != nil {
		return nil, err
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	k := &KillOnEvent{Participant: p, out: emitter{p: p, targets: cfg.Target}}
	if err := p.Listen(cfg.Trigger(RoleOn), k); err != nil {
		p.Close()
		return nil, err
	}
	return k, nil
}

func killFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	if err := cfg.Params.reader().done(); err != nil {
		return nil, err
	}
	return NewKillOnEvent(bus, cfg)
}

// HandleEvent kills on a trigger.
func (k *KillOnEvent) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !k.ShouldRespond(p) {
		return
	}
	k.Kill(ctx)
}

// Kill publishes Death.
func (k *KillOnEvent) Kill(ctx context.Context) {
	k.out.emit(ctx, kind.Death, RoleDeath, nil)
}

// EventRelay republishes a fixed selection of kinds when triggered,
// turning one event into others.
type EventRelay struct {
	*participant.Participant
	out     emitter
	relayed kind.Selection
}

// NewEventRelay creates a relay that publishes relayed on every trigger.
func NewEventRelay(bus event.Bus, cfg Config, relayed kind.Selection) (*EventRelay, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{RoleRelay}); err != nil {
		return nil, err
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	r := &EventRelay{Participant: p, out: emitter{p: p, targets: cfg.Target}, relayed: relayed}
	if err := p.Listen(cfg.Trigger(RoleOn), r); err != nil {
		p.Close()
		return nil, err
	}
	return r, nil
}

func relayFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	relayed := r.kinds("events")
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewEventRelay(bus, cfg, relayed)
}

// Relayed returns the kinds the relay publishes.
func (r *EventRelay) Relayed() kind.Selection { return r.relayed }

// HandleEvent relays on a trigger.
func (r *EventRelay) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !r.ShouldRespond(p) {
		return
	}
	r.Relay(ctx)
}

// Relay publishes every relayed kind in one payload.
func (r *EventRelay) Relay(ctx context.Context) {
	r.Emit(ctx, r.relayed, r.out.targets(RoleRelay), nil)
}
