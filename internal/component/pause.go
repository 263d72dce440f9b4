package component

import (
	"context"
	"time"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// PauseOnEvent trigger roles.
const (
	RolePause   = "pause"
	RoleUnpause = "unpause"
)

// PauseOnEvent pauses and unpauses the game on configured triggers. A
// pause takes effect on the next tick so the rest of the triggering
// dispatch still runs. Its unpause handler is exempt from the pause
// guard, otherwise nothing could unpause.
type PauseOnEvent struct {
	*participant.Participant
	pending bool
}

// NewPauseOnEvent creates a pause switch.
func NewPauseOnEvent(bus event.Bus, cfg Config) (*PauseOnEvent, error) {
	if err := cfg.checkRoles([]string{RolePause, RoleUnpause}, nil); err != nil {
		return nil, err
	}
	opts := append([]participant.Option{participant.Quiet()}, cfg.Options...)
	p, err := participant.New(bus, cfg.Object, opts...)
	if err != nil {
		return nil, err
	}
	s := &PauseOnEvent{Participant: p}

	err = p.Listen(cfg.Trigger(RolePause), event.HandlerFunc(func(_ context.Context, _ kind.Kind, pl *event.Payload) {
		if s.ShouldRespond(pl) {
			s.pending = true
		}
	}))
	if err == nil {
		err = p.Listen(cfg.Trigger(RoleUnpause), event.HandlerFunc(func(ctx context.Context, _ kind.Kind, pl *event.Payload) {
			if s.ShouldRespondWhilePaused(pl) {
				s.Unpause(ctx)
			}
		}))
	}
	if err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

func pauseFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	if err := cfg.Params.reader().done(); err != nil {
		return nil, err
	}
	return NewPauseOnEvent(bus, cfg)
}

// Pending reports whether a pause waits for the next tick.
func (s *PauseOnEvent) Pending() bool { return s.pending }

// Tick publishes a pending pause.
func (s *PauseOnEvent) Tick(ctx context.Context, _ time.Duration) {
	if !s.pending {
		return
	}
	s.pending = false
	s.Logger().Debug().Msg("pausing")
	participant.Pause(ctx, s.Bus())
}

// Unpause publishes GameUnpaused immediately.
func (s *PauseOnEvent) Unpause(ctx context.Context) {
	s.pending = false
	s.Logger().Debug().Msg("unpausing")
	participant.Unpause(ctx, s.Bus())
}
