package component

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// TypingText target roles.
const (
	RoleUpdate   = "update"
	RoleComplete = "complete"
)

// TypingTextSettings configures a TypingText.
type TypingTextSettings struct {
	Text string
	// Active starts typing on the first tick instead of waiting for a
	// trigger.
	Active bool
	// Speed is the delay after each character.
	Speed time.Duration
	// CommaPause is added after ',' and ';'.
	CommaPause time.Duration
	// PunctuationPause is added after '.', '?', '!' and ':'.
	PunctuationPause time.Duration
	// OnChange receives the visible text after every character.
	OnChange func(string)
}

// DefaultTypingTextSettings returns the settings a TypingText starts with
// when nothing is configured.
func DefaultTypingTextSettings() TypingTextSettings {
	return TypingTextSettings{
		Active:           true,
		Speed:            150 * time.Millisecond,
		CommaPause:       50 * time.Millisecond,
		PunctuationPause: 150 * time.Millisecond,
	}
}

// TypingText reveals its text one character per step. Every character
// publishes TypingTextUpdate with the visible text; the last one also
// publishes TypingTextComplete. A trigger starts typing, or restarts it
// from the beginning once the text is complete.
type TypingText struct {
	*participant.Participant
	out      emitter
	settings TypingTextSettings
	runes    []rune

	typed  int
	wait   time.Duration
	active bool
}

// NewTypingText creates a typing effect started by the "on" trigger.
func NewTypingText(bus event.Bus, cfg Config, s TypingTextSettings) (*TypingText, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{RoleUpdate, RoleComplete}); err != nil {
		return nil, err
	}
	if s.Speed < 0 || s.CommaPause < 0 || s.PunctuationPause < 0 {
		return nil, &ParamError{Key: "speed", Err: errors.New("times must not be negative")}
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	t := &TypingText{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		settings:    s,
		runes:       []rune(s.Text),
		active:      s.Active,
	}
	if err := p.Listen(cfg.Trigger(RoleOn), t); err != nil {
		p.Close()
		return nil, err
	}
	return t, nil
}

func typingTextFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	d := DefaultTypingTextSettings()
	s := TypingTextSettings{
		Text:             r.string("text", d.Text),
		Active:           r.bool("active", d.Active),
		Speed:            r.duration("speed", d.Speed),
		CommaPause:       r.duration("comma_pause", d.CommaPause),
		PunctuationPause: r.duration("punctuation_pause", d.PunctuationPause),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewTypingText(bus, cfg, s)
}

// Visible returns the text typed so far.
func (t *TypingText) Visible() string { return string(t.runes[:t.typed]) }

// Typing reports whether characters are still being revealed.
func (t *TypingText) Typing() bool { return t.active }

// Done reports whether the whole text is visible.
func (t *TypingText) Done() bool { return t.typed == len(t.runes) }

// HandleEvent starts typing.
func (t *TypingText) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !t.ShouldRespond(p) {
		return
	}
	if t.Done() {
		t.typed = 0
		t.wait = 0
	}
	t.active = true
	t.Logger().Debug().Msg("typing started")
}

// Tick reveals the next character once the previous delay has passed.
func (t *TypingText) Tick(ctx context.Context, dt time.Duration) {
	if !t.active {
		return
	}
	if t.wait > 0 {
		t.wait -= dt
		if t.wait > 0 {
			return
		}
	}
	if t.Done() {
		t.finish(ctx)
		return
	}

	c := t.runes[t.typed]
	t.typed++
	t.wait = t.settings.Speed + t.pauseAfter(c)

	visible := t.Visible()
	t.out.emit(ctx, kind.TypingTextUpdate, RoleUpdate, func(p *event.Payload) {
		schema.Text{Value: visible}.Encode(p)
	})
	if t.settings.OnChange != nil {
		t.settings.OnChange(visible)
	}
	if t.Done() {
		t.finish(ctx)
	}
}

func (t *TypingText) finish(ctx context.Context) {
	t.active = false
	t.Logger().Debug().Int("characters", len(t.runes)).Msg("typing complete")
	t.out.emit(ctx, kind.TypingTextComplete, RoleComplete, func(p *event.Payload) {
		schema.Text{Value: string(t.runes)}.Encode(p)
	})
}

func (t *TypingText) pauseAfter(c rune) time.Duration {
	switch c {
	case ',', ';':
		return t.settings.CommaPause
	case '.', '?', '!', ':':
		return t.settings.PunctuationPause
	}
	return 0
}
