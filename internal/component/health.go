package component

import (
	"context"
	"errors"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// Infinite marks a Health that ignores every modification.
const Infinite = -1

// Health output roles.
const (
	RoleDamage     = "damage"
	RoleHeal       = "heal"
	RoleDeath      = "death"
	RoleOutOfLives = "out_of_lives"
)

// HealthSettings configures a Health.
type HealthSettings struct {
	Max     int
	Current int
}

// Health tracks hit points in [0, Max]. HealthModified events carrying a
// Modify layout change it; Damaged, Healed, DisplayUpdate and Death
// report the result. Death fires every time a modification leaves the
// health at zero.
type Health struct {
	*participant.Participant
	out emitter

	max     int
	current int
}

// NewHealth creates a health pool listening for HealthModified.
func NewHealth(bus event.Bus, cfg Config, s HealthSettings) (*Health, error) {
	if err := cfg.checkRoles(nil, []string{RoleDisplay, RoleDamage, RoleHeal, RoleDeath}); err != nil {
		return nil, err
	}
	if s.Max < 0 {
		return nil, &ParamError{Key: "max", Err: errors.New("must not be negative")}
	}
	if s.Current != Infinite {
		s.Current = clamp(s.Current, 0, s.Max)
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	h := &Health{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		max:         s.Max,
		current:     s.Current,
	}
	if err := p.Listen(kind.Select(kind.HealthModified), h); err != nil {
		p.Close()
		return nil, err
	}
	return h, nil
}

func healthFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	limit := r.int("max", 10)
	s := HealthSettings{Max: limit, Current: r.int("current", limit)}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewHealth(bus, cfg, s)
}

// Current returns the remaining health, or Infinite.
func (h *Health) Current() int { return h.current }

// Max returns the health ceiling.
func (h *Health) Max() int { return h.max }

// HandleEvent applies a HealthModified.
func (h *Health) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !h.ShouldRespond(p) {
		return
	}
	m, ok := schema.DecodeModify(p)
	if !ok || h.current == Infinite {
		return
	}

	next := clamp(m.Apply(h.current), 0, h.max)
	switch {
	case next < h.current:
		h.out.emit(ctx, kind.Damaged, RoleDamage, nil)
	case next > h.current:
		h.out.emit(ctx, kind.Healed, RoleHeal, nil)
	}
	h.current = next

	h.out.emit(ctx, kind.DisplayUpdate, RoleDisplay, func(p *event.Payload) {
		schema.Display{Current: float32(h.current), Max: float32(h.max)}.Encode(p)
	})
	h.Logger().Debug().Int("health", h.current).Msg("health modified")

	if next == 0 {
		h.out.emit(ctx, kind.Death, RoleDeath, nil)
	}
}

// LivesSettings configures Lives.
type LivesSettings struct {
	Lives int
}

// Lives counts down on every Death that reaches it and publishes
// OutOfLives once none remain.
type Lives struct {
	*participant.Participant
	out emitter

	lives    int
	starting int
}

// NewLives creates a lives counter listening for Death.
func NewLives(bus event.Bus, cfg Config, s LivesSettings) (*Lives, error) {
	if err := cfg.checkRoles(nil, []string{RoleDisplay, RoleOutOfLives}); err != nil {
		return nil, err
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	l := &Lives{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		lives:       s.Lives,
		starting:    s.Lives,
	}
	if err := p.Listen(kind.Select(kind.Death), l); err != nil {
		p.Close()
		return nil, err
	}
	return l, nil
}

func livesFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	s := LivesSettings{Lives: r.int("lives", 3)}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewLives(bus, cfg, s)
}

// Remaining returns the lives left.
func (l *Lives) Remaining() int { return l.lives }

// Start publishes the initial display.
func (l *Lives) Start(ctx context.Context) { l.updateDisplay(ctx) }

// HandleEvent consumes one life.
func (l *Lives) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !l.ShouldRespond(p) {
		return
	}
	l.lives--
	l.updateDisplay(ctx)
	l.Logger().Debug().Int("lives", l.lives).Msg("life lost")

	if l.lives <= 0 {
		l.out.emit(ctx, kind.OutOfLives, RoleOutOfLives, nil)
	}
}

func (l *Lives) updateDisplay(ctx context.Context) {
	l.out.emit(ctx, kind.DisplayUpdate, RoleDisplay, func(p *event.Payload) {
		schema.Display{Current: float32(l.lives), Max: float32(l.starting)}.Encode(p)
	})
}
