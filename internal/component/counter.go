package component

import (
	"context"
	"errors"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// ThresholdMode is the relation between a counter value and its
// threshold that fires CounterThreshold.
type ThresholdMode int

const (
	ThresholdNone ThresholdMode = iota
	ThresholdEqualTo
	ThresholdNotEqualTo
	ThresholdLessThan
	ThresholdLessEqual
	ThresholdGreaterThan
	ThresholdGreaterEqual
)

var thresholdModes = map[string]ThresholdMode{
	"none":         ThresholdNone,
	"equalto":      ThresholdEqualTo,
	"notequalto":   ThresholdNotEqualTo,
	"lessthan":     ThresholdLessThan,
	"lessequal":    ThresholdLessEqual,
	"greaterthan":  ThresholdGreaterThan,
	"greaterequal": ThresholdGreaterEqual,
}

// Met reports whether v stands in relation m to t.
func (m ThresholdMode) Met(v, t int) bool {
	switch m {
	case ThresholdEqualTo:
		return v == t
	case ThresholdNotEqualTo:
		return v != t
	case ThresholdLessThan:
		return v < t
	case ThresholdLessEqual:
		return v <= t
	case ThresholdGreaterThan:
		return v > t
	case ThresholdGreaterEqual:
		return v >= t
	}
	return false
}

// CounterSettings configures a Counter.
type CounterSettings struct {
	Value     int
	Min       int
	Max       int
	Mode      ThresholdMode
	Threshold int
	// Once limits CounterThreshold to the first time it is met.
	Once bool
}

// DefaultCounterSettings returns the settings a counter starts with when
// nothing is configured.
func DefaultCounterSettings() CounterSettings {
	return CounterSettings{Min: -10, Max: 10}
}

// Counter tracks a clamped integer such as a score or a collectible
// tally. It is modified by CounterModify events carrying a Modify layout
// and reports changes as CounterIncrease, CounterDecrease, CounterModify,
// DisplayUpdate and CounterThreshold.
type Counter struct {
	*participant.Participant
	out emitter

	value      int
	settings   CounterSettings
	thresholds int
}

// Counter output roles. RoleIncrease and RoleDecrease are also the
// DifficultyManager trigger roles.
const (
	RoleThreshold = "threshold"
	RoleModified  = "modified"
	RoleIncrease  = "increase"
	RoleDecrease  = "decrease"
)

// NewCounter creates a counter listening for CounterModify.
func NewCounter(bus event.Bus, cfg Config, s CounterSettings) (*Counter, error) {
	if err := cfg.checkRoles(nil,
		[]string{RoleDisplay, RoleThreshold, RoleModified, RoleIncrease, RoleDecrease}); err != nil {
		return nil, err
	}
	if s.Min > s.Max {
		return nil, &ParamError{Key: "min", Err: errors.New("min is greater than max")}
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	c := &Counter{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		value:       clamp(s.Value, s.Min, s.Max),
		settings:    s,
	}
	if err := p.Listen(kind.Select(kind.CounterModify), c); err != nil {
		p.Close()
		return nil, err
	}
	return c, nil
}

func counterFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	d := DefaultCounterSettings()
	s := CounterSettings{
		Value:     r.int("value", d.Value),
		Min:       r.int("min", d.Min),
		Max:       r.int("max", d.Max),
		Threshold: r.int("threshold", d.Threshold),
		Once:      r.bool("once", d.Once),
	}
	s.Mode = readEnum(r, "threshold_mode", d.Mode, thresholdModes)
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewCounter(bus, cfg, s)
}

// Value returns the current count.
func (c *Counter) Value() int { return c.value }

// Start publishes the initial display.
func (c *Counter) Start(ctx context.Context) { c.updateDisplay(ctx) }

// HandleEvent applies a CounterModify. Notifications without slot data,
// including the counter's own CounterModify output, are ignored.
func (c *Counter) HandleEvent(ctx context.Context, _ kind.Kind, p *event.Payload) {
	if !c.ShouldRespond(p) {
		return
	}
	m, ok := schema.DecodeModify(p)
	if !ok {
		return
	}

	prev := c.value
	c.value = clamp(m.Apply(prev), c.settings.Min, c.settings.Max)

	switch {
	case c.value > prev:
		c.out.emit(ctx, kind.CounterIncrease, RoleIncrease, nil)
	case c.value < prev:
		c.out.emit(ctx, kind.CounterDecrease, RoleDecrease, nil)
	}
	if c.value != prev {
		c.out.emit(ctx, kind.CounterModify, RoleModified, nil)
	}
	c.updateDisplay(ctx)

	if c.settings.Mode.Met(c.value, c.settings.Threshold) {
		c.dispatchThreshold(ctx)
	}
	c.Logger().Debug().Int("value", c.value).Int("previous", prev).Msg("counter modified")
}

func (c *Counter) dispatchThreshold(ctx context.Context) {
	if c.settings.Once && c.thresholds > 0 {
		return
	}
	c.thresholds++
	c.out.emit(ctx, kind.CounterThreshold, RoleThreshold, nil)
}

func (c *Counter) updateDisplay(ctx context.Context) {
	c.out.emit(ctx, kind.DisplayUpdate, RoleDisplay, func(p *event.Payload) {
		schema.Display{Current: float32(c.value), Max: float32(c.settings.Max)}.Encode(p)
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
