package component

import (
	"context"
	"strconv"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// DisplayMode selects how a TextDisplay renders a DisplayUpdate.
type DisplayMode int

const (
	// DisplayTimer shows min(current, max) with a fixed number of
	// decimals.
	DisplayTimer DisplayMode = iota
	// DisplayCounter shows the current value.
	DisplayCounter
	// DisplayCounterOverTotal shows "current/max".
	DisplayCounterOverTotal
)

var displayModes = map[string]DisplayMode{
	"timer":            DisplayTimer,
	"counter":          DisplayCounter,
	"counterovertotal": DisplayCounterOverTotal,
}

// TextDisplaySettings configures a TextDisplay.
type TextDisplaySettings struct {
	Prefix   string
	Mode     DisplayMode
	Decimals int
	// OnChange receives every new text.
	OnChange func(string)
}

// TextDisplay renders DisplayUpdate events into a string. Where the text
// ends up is the caller's business.
type TextDisplay struct {
	*participant.Participant
	settings TextDisplaySettings
	text     string
}

// NewTextDisplay creates a display listening for DisplayUpdate.
func NewTextDisplay(bus event.Bus, cfg Config, s TextDisplaySettings) (*TextDisplay, error) {
	if err := cfg.checkRoles(nil, nil); err != nil {
		return nil, err
	}
	if s.Decimals < 0 {
		s.Decimals = 0
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	d := &TextDisplay{Participant: p, settings: s, text: s.Prefix}
	if err := p.Listen(kind.Select(kind.DisplayUpdate), d); err != nil {
		p.Close()
		return nil, err
	}
	return d, nil
}

func textDisplayFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	s := TextDisplaySettings{
		Prefix:   r.string("prefix", ""),
		Decimals: r.int("decimals", 3),
	}
	s.Mode = readEnum(r, "mode", DisplayTimer, displayModes)
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewTextDisplay(bus, cfg, s)
}

// Text returns the last rendered text.
func (d *TextDisplay) Text() string { return d.text }

// HandleEvent renders a DisplayUpdate. Updates lacking the slots the mode
// needs are ignored.
func (d *TextDisplay) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !d.ShouldRespond(p) {
		return
	}
	v, ok := schema.DecodeDisplay(p)
	if !ok {
		return
	}
	text, ok := d.render(v)
	if !ok {
		return
	}
	d.text = text
	if d.settings.OnChange != nil {
		d.settings.OnChange(text)
	}
}

func (d *TextDisplay) render(v schema.Display) (string, bool) {
	hasMax := v.Max >= 0
	switch d.settings.Mode {
	case DisplayCounter:
		return d.settings.Prefix + formatFloat(v.Current), true
	case DisplayCounterOverTotal:
		if !hasMax {
			return "", false
		}
		return d.settings.Prefix + formatFloat(v.Current) + "/" + formatFloat(v.Max), true
	default:
		if !hasMax {
			return "", false
		}
		shown := min(v.Current, v.Max)
		if d.settings.Decimals == 0 {
			return d.settings.Prefix + strconv.Itoa(int(shown)), true
		}
		return d.settings.Prefix + strconv.FormatFloat(float64(shown), 'f', d.settings.Decimals, 32), true
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
