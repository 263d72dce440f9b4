package component

import (
	"context"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// RoleSwitch addresses the members an ActiveOnEvent switches.
const RoleSwitch = "switch"

// ToggleMode is what ActiveOnEvent does to its targets.
type ToggleMode int

const (
	ToggleFlip ToggleMode = iota
	ToggleOn
	ToggleOff
)

var toggleModes = map[string]ToggleMode{"toggle": ToggleFlip, "on": ToggleOn, "off": ToggleOff}

func (m ToggleMode) String() string {
	switch m {
	case ToggleOn:
		return "on"
	case ToggleOff:
		return "off"
	}
	return "toggle"
}

// ActiveOnEvent enables, disables or flips other members when triggered.
// Its "switch" target selects them by object or tag; without one it
// switches the other members of its own object. A disabled member
// refuses every event and is not ticked. The switch never switches
// itself.
type ActiveOnEvent struct {
	*participant.Participant
	world   *participant.World
	targets event.Receivers
	mode    ToggleMode
}

// NewActiveOnEvent creates a switch fired by the "on" trigger.
func NewActiveOnEvent(bus event.Bus, cfg Config, mode ToggleMode) (*ActiveOnEvent, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{RoleSwitch}); err != nil {
		return nil, err
	}
	if cfg.World == nil {
		return nil, ErrNoWorld
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	a := &ActiveOnEvent{Participant: p, world: cfg.World, targets: cfg.Target(RoleSwitch), mode: mode}
	if err := p.Listen(cfg.Trigger(RoleOn), a); err != nil {
		p.Close()
		return nil, err
	}
	return a, nil
}

func activeFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	mode := readEnum(r, "mode", ToggleFlip, toggleModes)
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewActiveOnEvent(bus, cfg, mode)
}

// HandleEvent switches the targets.
func (a *ActiveOnEvent) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !a.ShouldRespond(p) {
		return
	}
	a.Apply()
}

// Apply switches every target member now and returns how many it
// touched.
func (a *ActiveOnEvent) Apply() int {
	n := 0
	for _, m := range a.world.Members() {
		base := m.Base()
		if base == a.Participant || base.Closed() || !a.selects(base.Object()) {
			continue
		}
		switch a.mode {
		case ToggleOn:
			base.SetEnabled(true)
		case ToggleOff:
			base.SetEnabled(false)
		default:
			base.SetEnabled(!base.Enabled())
		}
		n++
	}
	a.Logger().Debug().Stringer("mode", a.mode).Int("members", n).Msg("active state changed")
	return n
}

func (a *ActiveOnEvent) selects(obj *event.Object) bool {
	if obj == nil {
		return false
	}
	for _, o := range a.targets.Objects {
		if o == obj || (o == nil && obj == a.Object()) {
			return true
		}
	}
	for _, tag := range a.targets.Tags {
		if obj.HasTag(tag) {
			return true
		}
	}
	return false
}
