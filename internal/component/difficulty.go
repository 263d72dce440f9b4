package component

import (
	"context"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// Level is a game difficulty.
type Level int

const (
	Easy Level = iota
	Medium
	Hard
)

var levels = map[string]Level{"easy": Easy, "medium": Medium, "hard": Hard}

func (l Level) String() string {
	switch l {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// DifficultyManager holds the difficulty level and broadcasts
// DifficultyLevelAdjusted, carrying the new level, whenever it changes.
// Its triggers also work while the game is paused.
type DifficultyManager struct {
	*participant.Participant
	level Level
}

// NewDifficultyManager creates a manager at level.
func NewDifficultyManager(bus event.Bus, cfg Config, level Level) (*DifficultyManager, error) {
	if err := cfg.checkRoles([]string{RoleIncrease, RoleDecrease}, nil); err != nil {
		return nil, err
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	m := &DifficultyManager{Participant: p, level: clampLevel(level)}

	err = p.Listen(cfg.Trigger(RoleIncrease), event.HandlerFunc(func(ctx context.Context, _ kind.Kind, pl *event.Payload) {
		if m.ShouldRespondWhilePaused(pl) {
			m.Increase(ctx)
		}
	}))
	if err == nil {
		err = p.Listen(cfg.Trigger(RoleDecrease), event.HandlerFunc(func(ctx context.Context, _ kind.Kind, pl *event.Payload) {
			if m.ShouldRespondWhilePaused(pl) {
				m.Decrease(ctx)
			}
		}))
	}
	if err != nil {
		p.Close()
		return nil, err
	}
	return m, nil
}

func difficultyFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	lvl := readEnum(r, "level", Medium, levels)
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewDifficultyManager(bus, cfg, lvl)
}

// Level returns the current difficulty.
func (m *DifficultyManager) Level() Level { return m.level }

// Start broadcasts the initial level so indicators pick it up.
func (m *DifficultyManager) Start(ctx context.Context) { m.Set(ctx, m.level) }

// Increase raises the difficulty one step, stopping at Hard.
func (m *DifficultyManager) Increase(ctx context.Context) { m.Set(ctx, m.level+1) }

// Decrease lowers the difficulty one step, stopping at Easy.
func (m *DifficultyManager) Decrease(ctx context.Context) { m.Set(ctx, m.level-1) }

// Set changes the difficulty and broadcasts it.
func (m *DifficultyManager) Set(ctx context.Context, l Level) {
	m.level = clampLevel(l)
	m.Logger().Debug().Stringer("level", m.level).Msg("difficulty adjusted")
	m.Emit(ctx, kind.Select(kind.DifficultyLevelAdjusted), event.Broadcast(), func(p *event.Payload) {
		schema.Difficulty{Level: int(m.level)}.Encode(p)
	})
}

func clampLevel(l Level) Level {
	if l < Easy {
		return Easy
	}
	if l > Hard {
		return Hard
	}
	return l
}

// DifficultyIndicatorSettings configures a DifficultyIndicator.
type DifficultyIndicatorSettings struct {
	// Names are the texts shown for Easy, Medium and Hard. An empty name
	// shows the level's own name.
	Names [3]string
	// Level is shown until the first DifficultyLevelAdjusted arrives.
	Level Level
	// OnChange receives every new text.
	OnChange func(string)
}

// DifficultyIndicator shows the difficulty level as text. It follows
// DifficultyLevelAdjusted, also while the game is paused.
type DifficultyIndicator struct {
	*participant.Participant
	settings DifficultyIndicatorSettings
	level    Level
	text     string
}

// NewDifficultyIndicator creates an indicator showing s.Level.
func NewDifficultyIndicator(bus event.Bus, cfg Config, s DifficultyIndicatorSettings) (*DifficultyIndicator, error) {
	if err := cfg.checkRoles(nil, nil); err != nil {
		return nil, err
	}
	opts := append([]participant.Option{participant.Quiet()}, cfg.Options...)
	p, err := participant.New(bus, cfg.Object, opts...)
	if err != nil {
		return nil, err
	}
	d := &DifficultyIndicator{Participant: p, settings: s}
	d.show(clampLevel(s.Level))
	if err := p.Listen(kind.Select(kind.DifficultyLevelAdjusted), d); err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

func difficultyIndicatorFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	s := DifficultyIndicatorSettings{
		Names: [3]string{r.string("easy", ""), r.string("medium", ""), r.string("hard", "")},
		Level: readEnum(r, "level", Medium, levels),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewDifficultyIndicator(bus, cfg, s)
}

// Level returns the level shown.
func (d *DifficultyIndicator) Level() Level { return d.level }

// Text returns the text shown.
func (d *DifficultyIndicator) Text() string { return d.text }

// HandleEvent shows the adjusted level. Levels outside Easy..Hard are
// ignored.
func (d *DifficultyIndicator) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !d.ShouldRespondWhilePaused(p) {
		return
	}
	v, ok := schema.DecodeDifficulty(p)
	if !ok || Level(v.Level) != clampLevel(Level(v.Level)) {
		return
	}
	d.show(Level(v.Level))
	if d.settings.OnChange != nil {
		d.settings.OnChange(d.text)
	}
}

func (d *DifficultyIndicator) show(l Level) {
	d.level = l
	d.text = d.settings.Names[l]
	if d.text == "" {
		d.text = l.String()
	}
}
