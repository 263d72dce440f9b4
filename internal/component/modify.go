package component

import (
	"context"
	"time"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// Modifier target roles.
const (
	RoleCounter = "counter"
	RoleHealth  = "health"
)

// ModifySettings configures a Modifier.
type ModifySettings struct {
	// Set replaces the target value instead of adding to it.
	Set   bool
	Value int
	// Cooldown is the time after firing during which triggers are
	// ignored. It elapses through Tick.
	Cooldown time.Duration
}

var modifyModes = map[string]bool{"add": false, "set": true}

// Modifier publishes a Modify layout when one of its trigger kinds
// reaches it. ModifyCounter and ModifyHealth are Modifiers that differ
// only in the kind they publish.
type Modifier struct {
	*participant.Participant
	out  emitter
	kind kind.Kind
	role string

	settings ModifySettings
	cooldown time.Duration
}

// NewModifyCounter creates a Modifier that publishes CounterModify.
func NewModifyCounter(bus event.Bus, cfg Config, s ModifySettings) (*Modifier, error) {
	return newModifier(bus, cfg, s, kind.CounterModify, RoleCounter)
}

// NewModifyHealth creates a Modifier that publishes HealthModified.
func NewModifyHealth(bus event.Bus, cfg Config, s ModifySettings) (*Modifier, error) {
	return newModifier(bus, cfg, s, kind.HealthModified, RoleHealth)
}

func newModifier(bus event.Bus, cfg Config, s ModifySettings, k kind.Kind, role string) (*Modifier, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{role}); err != nil {
		return nil, err
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	m := &Modifier{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		kind:        k,
		role:        role,
		settings:    s,
	}
	if err := p.Listen(cfg.Trigger(RoleOn), m); err != nil {
		p.Close()
		return nil, err
	}
	return m, nil
}

func readModify(cfg Config) (ModifySettings, error) {
	r := cfg.Params.reader()
	s := ModifySettings{
		Value:    r.int("value", 0),
		Cooldown: r.duration("cooldown", 0),
	}
	s.Set = readEnum(r, "mode", false, modifyModes)
	return s, r.done()
}

func modifyCounterFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	s, err := readModify(cfg)
	if err != nil {
		return nil, err
	}
	return NewModifyCounter(bus, cfg, s)
}

func modifyHealthFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	s, err := readModify(cfg)
	if err != nil {
		return nil, err
	}
	return NewModifyHealth(bus, cfg, s)
}

// CoolingDown reports whether triggers are currently ignored.
func (m *Modifier) CoolingDown() bool { return m.cooldown > 0 }

// HandleEvent fires the modifier unless it is cooling down.
func (m *Modifier) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !m.ShouldRespond(p) {
		return
	}
	m.Fire(ctx)
}

// Fire publishes the modification and starts the cooldown. It returns
// false while cooling down.
func (m *Modifier) Fire(ctx context.Context) bool {
	if m.cooldown > 0 {
		return false
	}
	m.cooldown = m.settings.Cooldown
	m.out.emit(ctx, m.kind, m.role, func(p *event.Payload) {
		schema.Modify{Set: m.settings.Set, Value: m.settings.Value}.Encode(p)
	})
	return true
}

// Tick runs down the cooldown.
func (m *Modifier) Tick(_ context.Context, dt time.Duration) {
	if m.cooldown > 0 {
		m.cooldown -= dt
	}
}
