package component

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

// RoleCompleted addresses TimerCompleted.
const RoleCompleted = "completed"

// TimerPolicy decides what a timer does after completing.
type TimerPolicy int

const (
	// TimerStop halts until the next trigger.
	TimerStop TimerPolicy = iota
	// TimerReset starts the next period immediately.
	TimerReset
)

// CountDirection is the direction a timer counts in.
type CountDirection int

const (
	CountUp CountDirection = iota
	CountDown
)

var (
	timerPolicies   = map[string]TimerPolicy{"stop": TimerStop, "reset": TimerReset}
	countDirections = map[string]CountDirection{"up": CountUp, "countup": CountUp, "down": CountDown, "countdown": CountDown}
)

// TimerSettings configures a Timer.
type TimerSettings struct {
	// Active starts the timer on Start instead of waiting for a trigger.
	Active    bool
	Policy    TimerPolicy
	Direction CountDirection
	End       time.Duration
	// Variance shifts every period by a uniform amount in
	// [-Variance, Variance]. It may not exceed End.
	Variance   time.Duration
	StartDelay time.Duration
	// Seed fixes the variance sequence. Zero picks a random seed.
	Seed uint64
}

// DefaultTimerSettings returns the settings a timer starts with when
// nothing is configured.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{Active: true, End: 2 * time.Second}
}

// Timer counts world time up to, or down from, a goal and publishes
// TimerCompleted when it gets there. It publishes DisplayUpdate with the
// current and end time in seconds on every running tick. A trigger
// restarts it after the start delay.
type Timer struct {
	*participant.Participant
	out emitter
	rng *rand.Rand

	settings  TimerSettings
	current   time.Duration
	goal      time.Duration
	running   bool
	delaying  bool
	delayLeft time.Duration
	completed int
}

// NewTimer creates a timer restarted by the "on" trigger.
func NewTimer(bus event.Bus, cfg Config, s TimerSettings) (*Timer, error) {
	if err := cfg.checkRoles([]string{RoleOn}, []string{RoleDisplay, RoleCompleted}); err != nil {
		return nil, err
	}
	if s.End < 0 || s.Variance < 0 || s.StartDelay < 0 {
		return nil, &ParamError{Key: "end", Err: errors.New("times must not be negative")}
	}
	if s.Variance > s.End {
		return nil, &ParamError{Key: "variance", Err: fmt.Errorf("%v exceeds end %v", s.Variance, s.End)}
	}
	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	t := &Timer{
		Participant: p,
		out:         emitter{p: p, targets: cfg.Target},
		rng:         rand.New(rand.NewPCG(seed, seed>>1|1)),
		settings:    s,
	}
	if err := p.Listen(cfg.Trigger(RoleOn), t); err != nil {
		p.Close()
		return nil, err
	}
	return t, nil
}

func timerFactory(bus event.Bus, cfg Config) (participant.Member, error) {
	r := cfg.Params.reader()
	d := DefaultTimerSettings()
	s := TimerSettings{
		Active:     r.bool("active", d.Active),
		End:        r.duration("end", d.End),
		Variance:   r.duration("variance", d.Variance),
		StartDelay: r.duration("start_delay", d.StartDelay),
		Seed:       r.uint64("seed", d.Seed),
	}
	s.Policy = readEnum(r, "policy", d.Policy, timerPolicies)
	s.Direction = readEnum(r, "count", d.Direction, countDirections)
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewTimer(bus, cfg, s)
}

// Elapsed returns the timer's current reading.
func (t *Timer) Elapsed() time.Duration { return t.current }

// Running reports whether the timer advances on Tick.
func (t *Timer) Running() bool { return t.running }

// Completed returns how many periods have finished.
func (t *Timer) Completed() int { return t.completed }

// Start arms the first period and, when active, begins the start delay.
func (t *Timer) Start(context.Context) {
	t.setPeriod()
	if t.settings.Active {
		t.beginDelay()
	}
}

// HandleEvent restarts the timer.
func (t *Timer) HandleEvent(_ context.Context, _ kind.Kind, p *event.Payload) {
	if !t.ShouldRespond(p) {
		return
	}
	t.beginDelay()
	if t.settings.Direction == CountDown {
		t.setPeriod()
	}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(ctx context.Context, dt time.Duration) {
	if t.delaying {
		t.delayLeft -= dt
		if t.delayLeft <= 0 {
			t.delaying = false
			t.running = true
		}
		return
	}
	if !t.running {
		return
	}

	if t.settings.Direction == CountUp {
		t.current += dt
	} else {
		t.current -= dt
	}
	t.out.emit(ctx, kind.DisplayUpdate, RoleDisplay, func(p *event.Payload) {
		schema.Display{Current: float32(t.current.Seconds()), Max: float32(t.settings.End.Seconds())}.Encode(p)
	})

	switch {
	case t.settings.Direction == CountUp && t.current >= t.goal:
		t.complete(ctx)
	case t.settings.Direction == CountDown && t.current <= 0:
		t.complete(ctx)
	}
}

func (t *Timer) complete(ctx context.Context) {
	t.completed++
	t.Logger().Debug().Int("completed", t.completed).Msg("timer completed")
	t.out.emit(ctx, kind.TimerCompleted, RoleCompleted, nil)

	if t.settings.Policy != TimerReset {
		t.running = false
		return
	}
	if t.settings.Direction == CountUp {
		t.current = 0
	}
	t.setPeriod()
}

func (t *Timer) beginDelay() {
	if t.settings.StartDelay <= 0 {
		t.delaying = false
		t.running = true
		return
	}
	t.delaying = true
	t.delayLeft = t.settings.StartDelay
}

// setPeriod picks the next goal. Counting up moves the goal, counting
// down moves the starting reading.
func (t *Timer) setPeriod() {
	period := t.settings.End + t.jitter()
	if t.settings.Direction == CountUp {
		t.goal = period
	} else {
		t.current = period
	}
}

func (t *Timer) jitter() time.Duration {
	v := t.settings.Variance
	if v <= 0 {
		return 0
	}
	return time.Duration(t.rng.Int64N(int64(2*v)+1)) - v
}
