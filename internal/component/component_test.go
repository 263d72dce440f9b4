package component

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/event/schema"
	"github.com/dshills/lpk/internal/participant"
)

type recorded struct {
	kind    kind.Kind
	payload *event.Payload
}

// recorder captures every publish of the kinds it watches, regardless of
// receivers.
type recorder struct {
	events []recorded
}

func record(t *testing.T, bus event.Bus, kinds ...kind.Kind) *recorder {
	t.Helper()
	r := &recorder{}
	for _, k := range kinds {
		_, err := bus.SubscribeFunc(k, func(_ context.Context, k kind.Kind, p *event.Payload) {
			r.events = append(r.events, recorded{kind: k, payload: p})
		})
		require.NoError(t, err)
	}
	return r
}

func (r *recorder) count(k kind.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) last(k kind.Kind) *event.Payload {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].kind == k {
			return r.events[i].payload
		}
	}
	return nil
}

func (r *recorder) kinds() []kind.Kind {
	out := make([]kind.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.kind
	}
	return out
}

func modify(to *event.Object, set bool, v int) *event.Payload {
	return schema.Modify{Set: set, Value: v}.Encode(event.NewPayload(nil, event.ToObjects(to)))
}

func TestCounterClampsAndReportsIncrease(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	coin := event.NewObject("coin", "")
	pickup := event.NewObject("pickup", "")

	counter, err := NewCounter(bus, Config{Object: coin}, CounterSettings{Value: 10, Min: 0, Max: 12})
	require.NoError(t, err)
	_, err = NewModifyCounter(bus, Config{
		Object:   pickup,
		Triggers: map[string]kind.Selection{RoleOn: kind.Select(kind.CollisionEnter)},
		Targets:  map[string]event.Receivers{RoleCounter: event.ToObjects(coin)},
	}, ModifySettings{Value: 5})
	require.NoError(t, err)
	rec := record(t, bus, kind.CounterIncrease, kind.CounterDecrease, kind.DisplayUpdate)

	bus.PublishKind(ctx, kind.CollisionEnter, event.NewPayload(nil, event.Broadcast()))

	assert.Equal(t, 12, counter.Value())
	assert.Equal(t, 1, rec.count(kind.CounterIncrease))
	assert.Equal(t, 0, rec.count(kind.CounterDecrease))
	assert.Same(t, coin, rec.last(kind.CounterIncrease).Sender)

	display, ok := schema.DecodeDisplay(rec.last(kind.DisplayUpdate))
	require.True(t, ok)
	assert.Equal(t, schema.Display{Current: 12, Max: 12}, display)
}

func TestCounterThresholdOnce(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	obj := event.NewObject("score", "")
	counter, err := NewCounter(bus, Config{Object: obj}, CounterSettings{
		Min: -10, Max: 10, Mode: ThresholdLessEqual, Threshold: -2, Once: true,
	})
	require.NoError(t, err)
	rec := record(t, bus, kind.CounterDecrease, kind.CounterThreshold, kind.CounterModify)

	bus.PublishKind(ctx, kind.CounterModify, modify(obj, true, -3))
	bus.PublishKind(ctx, kind.CounterModify, modify(obj, false, -1))

	assert.Equal(t, -4, counter.Value())
	assert.Equal(t, 2, rec.count(kind.CounterDecrease))
	assert.Equal(t, 1, rec.count(kind.CounterThreshold))
	// two requests plus two change notifications
	assert.Equal(t, 4, rec.count(kind.CounterModify))
}

func TestCounterIgnoresMissingSlots(t *testing.T) {
	bus := event.NewBus()
	obj := event.NewObject("score", "")
	counter, err := NewCounter(bus, Config{Object: obj}, CounterSettings{Value: 3, Max: 10})
	require.NoError(t, err)
	rec := record(t, bus, kind.DisplayUpdate)

	bus.PublishKind(context.Background(), kind.CounterModify, event.NewPayload(nil, event.ToObjects(obj)).AddInt(4))

	assert.Equal(t, 3, counter.Value())
	assert.Empty(t, rec.events)
}

func TestCounterUnchangedValue(t *testing.T) {
	bus := event.NewBus()
	obj := event.NewObject("score", "")
	_, err := NewCounter(bus, Config{Object: obj}, CounterSettings{Value: 10, Max: 10})
	require.NoError(t, err)
	rec := record(t, bus, kind.CounterIncrease, kind.DisplayUpdate)

	bus.PublishKind(context.Background(), kind.CounterModify, modify(obj, false, 1))

	assert.Equal(t, 0, rec.count(kind.CounterIncrease))
	assert.Equal(t, 1, rec.count(kind.DisplayUpdate))
}

func TestCounterRejectsInvertedRange(t *testing.T) {
	_, err := NewCounter(event.NewBus(), Config{Object: event.NewObject("c", "")}, CounterSettings{Min: 5, Max: 1})
	assert.ErrorIs(t, err, ErrBadParam)
}

func TestThresholdModes(t *testing.T) {
	assert.True(t, ThresholdEqualTo.Met(3, 3))
	assert.True(t, ThresholdNotEqualTo.Met(2, 3))
	assert.True(t, ThresholdLessThan.Met(2, 3))
	assert.True(t, ThresholdGreaterEqual.Met(3, 3))
	assert.False(t, ThresholdGreaterThan.Met(3, 3))
	assert.False(t, ThresholdNone.Met(3, 3))
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	hero := event.NewObject("hero", "Player")
	health, err := NewHealth(bus, Config{Object: hero}, HealthSettings{Max: 10, Current: 5})
	require.NoError(t, err)
	rec := record(t, bus, kind.Damaged, kind.Healed, kind.Death, kind.DisplayUpdate)

	bus.PublishKind(ctx, kind.HealthModified, modify(hero, false, 20))
	assert.Equal(t, 10, health.Current())
	assert.Equal(t, 1, rec.count(kind.Healed))

	bus.PublishKind(ctx, kind.HealthModified, modify(hero, false, -3))
	assert.Equal(t, 7, health.Current())
	assert.Equal(t, 1, rec.count(kind.Damaged))

	bus.PublishKind(ctx, kind.HealthModified, modify(hero, true, 0))
	assert.Equal(t, 0, health.Current())
	assert.Equal(t, 1, rec.count(kind.Death))
	assert.Equal(t, 3, rec.count(kind.DisplayUpdate))
}

func TestInfiniteHealthIgnoresModification(t *testing.T) {
	bus := event.NewBus()
	obj := event.NewObject("wall", "")
	health, err := NewHealth(bus, Config{Object: obj}, HealthSettings{Max: 10, Current: Infinite})
	require.NoError(t, err)
	rec := record(t, bus, kind.Damaged, kind.DisplayUpdate)

	bus.PublishKind(context.Background(), kind.HealthModified, modify(obj, false, -5))

	assert.Equal(t, Infinite, health.Current())
	assert.Empty(t, rec.events)
}

func TestDeathToTagReachesOnlyTagged(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	spike := event.NewObject("spike", "Hazard")
	player := event.NewObject("player", "Player")
	enemy := event.NewObject("enemy", "Enemy")

	_, err := NewKillOnEvent(bus, Config{
		Object:   spike,
		Triggers: map[string]kind.Selection{RoleOn: kind.Select(kind.CollisionEnter)},
		Targets:  map[string]event.Receivers{RoleDeath: event.ToTags("Player")},
	})
	require.NoError(t, err)
	playerLives, err := NewLives(bus, Config{Object: player}, LivesSettings{Lives: 2})
	require.NoError(t, err)
	enemyLives, err := NewLives(bus, Config{Object: enemy}, LivesSettings{Lives: 2})
	require.NoError(t, err)
	rec := record(t, bus, kind.OutOfLives)

	touch := func() {
		bus.PublishKind(ctx, kind.CollisionEnter, event.NewPayload(player, event.ToObjects(spike)))
	}

	touch()
	assert.Equal(t, 1, playerLives.Remaining())
	assert.Equal(t, 2, enemyLives.Remaining())
	assert.Equal(t, 0, rec.count(kind.OutOfLives))

	touch()
	assert.Equal(t, 0, playerLives.Remaining())
	assert.Equal(t, 2, enemyLives.Remaining())
	require.Equal(t, 1, rec.count(kind.OutOfLives))
	assert.Same(t, player, rec.last(kind.OutOfLives).Sender)
}

func TestHealthDeathCostsALifeOnSameObject(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	hero := event.NewObject("hero", "Player")
	bullet := event.NewObject("bullet", "")

	health, err := NewHealth(bus, Config{Object: hero}, HealthSettings{Max: 1, Current: 1})
	require.NoError(t, err)
	lives, err := NewLives(bus, Config{Object: hero}, LivesSettings{Lives: 3})
	require.NoError(t, err)
	hit, err := NewModifyHealth(bus, Config{
		Object:  bullet,
		Targets: map[string]event.Receivers{RoleHealth: event.ToTags("Player")},
	}, ModifySettings{Value: -1})
	require.NoError(t, err)

	require.True(t, hit.Fire(ctx))
	assert.Equal(t, 0, health.Current())
	assert.Equal(t, 2, lives.Remaining())
}

func TestLivesStartPublishesDisplay(t *testing.T) {
	bus := event.NewBus()
	lives, err := NewLives(bus, Config{Object: event.NewObject("hero", "")}, LivesSettings{Lives: 3})
	require.NoError(t, err)
	rec := record(t, bus, kind.DisplayUpdate)

	lives.Start(context.Background())

	d, ok := schema.DecodeDisplay(rec.last(kind.DisplayUpdate))
	require.True(t, ok)
	assert.Equal(t, schema.Display{Current: 3, Max: 3}, d)
}

func TestModifierCooldown(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	m, err := NewModifyCounter(bus, Config{Object: event.NewObject("button", "")},
		ModifySettings{Value: 1, Cooldown: time.Second})
	require.NoError(t, err)
	rec := record(t, bus, kind.CounterModify)

	assert.True(t, m.Fire(ctx))
	assert.False(t, m.Fire(ctx))
	assert.True(t, m.CoolingDown())

	m.Tick(ctx, 500*time.Millisecond)
	assert.False(t, m.Fire(ctx))
	m.Tick(ctx, 600*time.Millisecond)
	assert.True(t, m.Fire(ctx))
	assert.Equal(t, 2, rec.count(kind.CounterModify))

	mod, ok := schema.DecodeModify(rec.last(kind.CounterModify))
	require.True(t, ok)
	assert.Equal(t, schema.Modify{Value: 1}, mod)
}

func TestEventRelay(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	relayObj := event.NewObject("relay", "")
	target := event.NewObject("door", "")

	_, err := NewEventRelay(bus, Config{
		Object:   relayObj,
		Triggers: map[string]kind.Selection{RoleOn: kind.Select(kind.ObjectSpawned)},
		Targets:  map[string]event.Receivers{RoleRelay: event.ToObjects(target)},
	}, kind.Select(kind.Attached, kind.Detached))
	require.NoError(t, err)
	rec := record(t, bus, kind.Attached, kind.Detached)

	bus.PublishKind(ctx, kind.ObjectSpawned, event.NewPayload(nil, event.Broadcast()))

	assert.Equal(t, []kind.Kind{kind.Attached, kind.Detached}, rec.kinds())
	assert.Same(t, rec.events[0].payload, rec.events[1].payload)
	assert.Same(t, relayObj, rec.events[0].payload.Sender)
}

func TestTimerCountUp(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	timer, err := NewTimer(bus, Config{Object: event.NewObject("clock", "")},
		TimerSettings{Active: true, End: time.Second})
	require.NoError(t, err)
	rec := record(t, bus, kind.TimerCompleted, kind.DisplayUpdate)

	timer.Start(ctx)
	require.True(t, timer.Running())

	timer.Tick(ctx, 500*time.Millisecond)
	assert.Equal(t, 0, timer.Completed())
	timer.Tick(ctx, 500*time.Millisecond)
	assert.Equal(t, 1, timer.Completed())
	assert.False(t, timer.Running())
	assert.Equal(t, 2, rec.count(kind.DisplayUpdate))

	timer.Tick(ctx, time.Second)
	assert.Equal(t, 1, rec.count(kind.TimerCompleted))
}

func TestTimerResetPolicy(t *testing.T) {
	ctx := context.Background()
	timer, err := NewTimer(event.NewBus(), Config{Object: event.NewObject("clock", "")},
		TimerSettings{Active: true, End: time.Second, Policy: TimerReset})
	require.NoError(t, err)
	timer.Start(ctx)

	for i := 0; i < 4; i++ {
		timer.Tick(ctx, 500*time.Millisecond)
	}
	assert.Equal(t, 2, timer.Completed())
	assert.True(t, timer.Running())
	assert.Equal(t, time.Duration(0), timer.Elapsed())
}

func TestTimerCountDown(t *testing.T) {
	ctx := context.Background()
	timer, err := NewTimer(event.NewBus(), Config{Object: event.NewObject("clock", "")},
		TimerSettings{Active: true, End: time.Second, Direction: CountDown})
	require.NoError(t, err)
	timer.Start(ctx)
	assert.Equal(t, time.Second, timer.Elapsed())

	timer.Tick(ctx, 600*time.Millisecond)
	assert.Equal(t, 0, timer.Completed())
	timer.Tick(ctx, 600*time.Millisecond)
	assert.Equal(t, 1, timer.Completed())
	assert.False(t, timer.Running())
}

func TestTimerStartDelayAndTrigger(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	obj := event.NewObject("clock", "")
	timer, err := NewTimer(bus, Config{
		Object:   obj,
		Triggers: map[string]kind.Selection{RoleOn: kind.Select(kind.ButtonInput)},
	}, TimerSettings{End: time.Second, StartDelay: time.Second})
	require.NoError(t, err)

	timer.Start(ctx)
	assert.False(t, timer.Running())

	bus.PublishKind(ctx, kind.ButtonInput, event.NewPayload(nil, event.Broadcast()))
	timer.Tick(ctx, 500*time.Millisecond)
	assert.False(t, timer.Running())
	timer.Tick(ctx, 500*time.Millisecond)
	assert.True(t, timer.Running())
	assert.Equal(t, time.Duration(0), timer.Elapsed())
}

func TestTimerVarianceStaysInRange(t *testing.T) {
	for seed := uint64(1); seed < 20; seed++ {
		timer, err := NewTimer(event.NewBus(), Config{Object: event.NewObject("clock", "")},
			TimerSettings{End: time.Second, Variance: 200 * time.Millisecond, Seed: seed})
		require.NoError(t, err)
		timer.Start(context.Background())
		assert.GreaterOrEqual(t, timer.goal, 800*time.Millisecond)
		assert.LessOrEqual(t, timer.goal, 1200*time.Millisecond)
	}
}

func TestTimerRejectsVarianceBeyondEnd(t *testing.T) {
	_, err := NewTimer(event.NewBus(), Config{Object: event.NewObject("clock", "")},
		TimerSettings{End: time.Second, Variance: 2 * time.Second, Policy: TimerReset})
	require.ErrorIs(t, err, ErrBadParam)
	var perr *ParamError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "variance", perr.Key)

	timer, err := NewTimer(event.NewBus(), Config{Object: event.NewObject("clock", "")},
		TimerSettings{End: time.Second, Variance: time.Second, Seed: 7})
	require.NoError(t, err)
	timer.Start(context.Background())
	assert.GreaterOrEqual(t, timer.goal, time.Duration(0))
}

func TestTextDisplay(t *testing.T) {
	tests := []struct {
		name     string
		settings TextDisplaySettings
		slots    []float32
		want     string
	}{
		{"counter", TextDisplaySettings{Prefix: "Score: ", Mode: DisplayCounter}, []float32{12, 20}, "Score: 12"},
		{"counter without max", TextDisplaySettings{Mode: DisplayCounter}, []float32{4}, "4"},
		{"over total", TextDisplaySettings{Mode: DisplayCounterOverTotal}, []float32{3, 5}, "3/5"},
		{"over total needs max", TextDisplaySettings{Prefix: "-", Mode: DisplayCounterOverTotal}, []float32{3}, "-"},
		{"timer decimals", TextDisplaySettings{Mode: DisplayTimer, Decimals: 2}, []float32{1.5, 1}, "1.00"},
		{"timer whole", TextDisplaySettings{Mode: DisplayTimer}, []float32{0.75, 2}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := event.NewBus()
			obj := event.NewObject("hud", "")
			var changes []string
			tt.settings.OnChange = func(s string) { changes = append(changes, s) }
			d, err := NewTextDisplay(bus, Config{Object: obj}, tt.settings)
			require.NoError(t, err)

			bus.PublishKind(context.Background(), kind.DisplayUpdate,
				event.NewPayload(nil, event.ToObjects(obj)).AddFloat(tt.slots...))

			assert.Equal(t, tt.want, d.Text())
			if tt.want != tt.settings.Prefix {
				assert.Equal(t, []string{tt.want}, changes)
			}
		})
	}
}

func TestCounterDrivesDisplayOnSameObject(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	obj := event.NewObject("score", "")
	other := event.NewObject("other", "")

	counter, err := NewCounter(bus, Config{Object: obj}, CounterSettings{Value: 1, Max: 10})
	require.NoError(t, err)
	d, err := NewTextDisplay(bus, Config{Object: obj}, TextDisplaySettings{Mode: DisplayCounterOverTotal})
	require.NoError(t, err)
	bystander, err := NewTextDisplay(bus, Config{Object: other}, TextDisplaySettings{Mode: DisplayCounter})
	require.NoError(t, err)

	counter.Start(ctx)
	assert.Equal(t, "1/10", d.Text())

	bus.PublishKind(ctx, kind.CounterModify, modify(obj, false, 2))
	assert.Equal(t, "3/10", d.Text())
	assert.Equal(t, "", bystander.Text())
}

func TestPauseOnEvent(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	world := participant.NewWorld(bus, zerolog.Nop())

	pauser, err := NewPauseOnEvent(bus, Config{
		Object: event.NewObject("menu", ""),
		Triggers: map[string]kind.Selection{
			RolePause:   kind.Select(kind.MouseClickThisObject),
			RoleUnpause: kind.Select(kind.KeyboardInput),
		},
	})
	require.NoError(t, err)
	score := event.NewObject("score", "")
	counter, err := NewCounter(bus, Config{Object: score}, CounterSettings{Max: 10})
	require.NoError(t, err)
	world.Add(pauser)
	world.Add(counter)

	broadcast := func() *event.Payload { return event.NewPayload(nil, event.Broadcast()) }

	bus.PublishKind(ctx, kind.MouseClickThisObject, broadcast())
	assert.True(t, pauser.Pending())
	assert.False(t, counter.Paused())

	world.Tick(ctx, time.Millisecond)
	assert.False(t, pauser.Pending())
	assert.True(t, counter.Paused())

	bus.PublishKind(ctx, kind.CounterModify, modify(score, false, 3))
	assert.Equal(t, 0, counter.Value())

	bus.PublishKind(ctx, kind.KeyboardInput, broadcast())
	assert.False(t, counter.Paused())
	bus.PublishKind(ctx, kind.CounterModify, modify(score, false, 3))
	assert.Equal(t, 3, counter.Value())
}

func TestDifficultyManager(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	m, err := NewDifficultyManager(bus, Config{
		Object:   event.NewObject("options", ""),
		Triggers: map[string]kind.Selection{RoleIncrease: kind.Select(kind.ButtonInput)},
	}, Medium)
	require.NoError(t, err)
	rec := record(t, bus, kind.DifficultyLevelAdjusted)

	bus.PublishKind(ctx, kind.ButtonInput, event.NewPayload(nil, event.Broadcast()))
	assert.Equal(t, Hard, m.Level())
	d, ok := schema.DecodeDifficulty(rec.last(kind.DifficultyLevelAdjusted))
	require.True(t, ok)
	assert.Equal(t, int(Hard), d.Level)

	m.Increase(ctx)
	assert.Equal(t, Hard, m.Level())

	m.Decrease(ctx)
	m.Decrease(ctx)
	m.Decrease(ctx)
	assert.Equal(t, Easy, m.Level())
	assert.Equal(t, 5, rec.count(kind.DifficultyLevelAdjusted))
	assert.True(t, rec.last(kind.DifficultyLevelAdjusted).Receivers.IsBroadcast())
	assert.Equal(t, "easy", m.Level().String())
}

func TestDifficultyIndicatorFollowsManager(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	m, err := NewDifficultyManager(bus, Config{
		Object:   event.NewObject("options", ""),
		Triggers: map[string]kind.Selection{RoleDecrease: kind.Select(kind.KeyboardInput)},
	}, Easy)
	require.NoError(t, err)
	var shown []string
	ind, err := NewDifficultyIndicator(bus, Config{Object: event.NewObject("label", "")}, DifficultyIndicatorSettings{
		Names:    [3]string{"Chill", "", "Brutal"},
		Level:    Medium,
		OnChange: func(s string) { shown = append(shown, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, "medium", ind.Text())

	m.Start(ctx)
	assert.Equal(t, "Chill", ind.Text())

	m.Set(ctx, Hard)
	assert.Equal(t, Hard, ind.Level())
	assert.Equal(t, "Brutal", ind.Text())

	participant.Pause(ctx, bus)
	bus.PublishKind(ctx, kind.KeyboardInput, event.NewPayload(nil, event.Broadcast()))
	assert.Equal(t, Medium, m.Level(), "option triggers work while paused")
	assert.Equal(t, "medium", ind.Text())

	bus.PublishKind(ctx, kind.DifficultyLevelAdjusted,
		schema.Difficulty{Level: 7}.Encode(event.NewPayload(nil, event.Broadcast())))
	assert.Equal(t, Medium, ind.Level())
	assert.Equal(t, []string{"Chill", "Brutal", "medium"}, shown)
}

func TestCloseDetachesComponent(t *testing.T) {
	bus := event.NewBus()
	obj := event.NewObject("score", "")
	counter, err := NewCounter(bus, Config{Object: obj}, CounterSettings{Max: 10})
	require.NoError(t, err)
	require.Equal(t, 1, bus.Subscribers(kind.CounterModify))

	counter.Close()
	assert.Equal(t, 0, bus.Subscribers(kind.CounterModify))
	assert.Equal(t, 0, bus.Subscribers(kind.GamePaused))
}

func TestRegistryBuild(t *testing.T) {
	reg := Builtin()
	bus := event.NewBus()
	obj := event.NewObject("thing", "")

	assert.Contains(t, reg.List(), "counter")
	assert.Contains(t, reg.List(), "difficulty_manager")
	assert.True(t, reg.Has("timer"))
	for _, name := range []string{"typing_text", "volume_manager", "volume_control", "difficulty_indicator", "active_on_event"} {
		assert.True(t, reg.Has(name), name)
	}

	m, err := reg.Build(bus, "typing_text", Config{
		Object: obj,
		Params: Params{"text": "hello", "speed": "50ms", "active": false},
	})
	require.NoError(t, err)
	typing := m.(*TypingText)
	assert.Equal(t, 50*time.Millisecond, typing.settings.Speed)
	assert.False(t, typing.Typing())

	m, err = reg.Build(bus, "volume_manager", Config{Object: obj, Params: Params{"master": 0.5, "step": 0.25},
		Triggers: map[string]kind.Selection{"sfx_up": kind.Select(kind.ButtonInput)}})
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), m.(*VolumeManager).Levels().Master)

	m, err = reg.Build(bus, "volume_control", Config{Object: obj, Params: Params{"channel": "Voice"}})
	require.NoError(t, err)
	assert.Equal(t, schema.ChannelVoice, m.(*VolumeControl).settings.Channel)

	m, err = reg.Build(bus, "difficulty_indicator", Config{Object: obj, Params: Params{"hard": "Nightmare", "level": "hard"}})
	require.NoError(t, err)
	assert.Equal(t, "Nightmare", m.(*DifficultyIndicator).Text())

	m, err = reg.Build(bus, "active_on_event", Config{Object: obj, Params: Params{"mode": "off"},
		World: participant.NewWorld(bus, zerolog.Nop())})
	require.NoError(t, err)
	assert.Equal(t, ToggleOff, m.(*ActiveOnEvent).mode)

	m, err = reg.Build(bus, "counter", Config{
		Object: obj,
		Params: Params{"value": "10", "max": 12.0, "threshold_mode": "greater_equal", "threshold": 11},
	})
	require.NoError(t, err)
	counter, ok := m.(*Counter)
	require.True(t, ok)
	assert.Equal(t, 10, counter.Value())
	assert.Equal(t, ThresholdGreaterEqual, counter.settings.Mode)

	m, err = reg.Build(bus, "timer", Config{
		Object: obj,
		Params: Params{"end": "1.5s", "start_delay": 2, "count": "down", "policy": "RESET"},
	})
	require.NoError(t, err)
	timer := m.(*Timer)
	assert.Equal(t, 1500*time.Millisecond, timer.settings.End)
	assert.Equal(t, 2*time.Second, timer.settings.StartDelay)
	assert.Equal(t, CountDown, timer.settings.Direction)
	assert.Equal(t, TimerReset, timer.settings.Policy)

	m, err = reg.Build(bus, "event_relay", Config{Object: obj, Params: Params{"events": []any{"Attached", "detached"}}})
	require.NoError(t, err)
	assert.Equal(t, kind.Select(kind.Attached, kind.Detached), m.(*EventRelay).Relayed())

	m, err = reg.Build(bus, "modify_health", Config{Object: obj, Params: Params{"mode": "set", "value": 4}})
	require.NoError(t, err)
	assert.Equal(t, ModifySettings{Set: true, Value: 4}, m.(*Modifier).settings)
}

func TestRegistryBuildErrors(t *testing.T) {
	reg := Builtin()
	bus := event.NewBus()
	obj := event.NewObject("thing", "")

	tests := []struct {
		name string
		typ  string
		cfg  Config
		want error
	}{
		{"unknown type", "teleporter", Config{Object: obj}, ErrUnknownType},
		{"bad int", "counter", Config{Object: obj, Params: Params{"value": "abc"}}, ErrBadParam},
		{"unknown param", "counter", Config{Object: obj, Params: Params{"valeu": 1}}, ErrBadParam},
		{"bad enum", "counter", Config{Object: obj, Params: Params{"threshold_mode": "sideways"}}, ErrBadParam},
		{"unknown kind", "event_relay", Config{Object: obj, Params: Params{"events": []string{"Bogus"}}}, event.ErrUnknownKind},
		{"unknown target role", "counter", Config{Object: obj,
			Targets: map[string]event.Receivers{"dispaly": event.Broadcast()}}, ErrUnknownRole},
		{"unknown trigger role", "kill_on_event", Config{Object: obj,
			Triggers: map[string]kind.Selection{"off": kind.Select(kind.Death)}}, ErrUnknownRole},
		{"missing object", "lives", Config{}, ErrNoObject},
		{"bad toggle mode", "active_on_event", Config{Object: obj, Params: Params{"mode": "sideways"}}, ErrBadParam},
		{"switch without world", "active_on_event", Config{Object: obj}, ErrNoWorld},
		{"unknown volume role", "volume_manager", Config{Object: obj,
			Triggers: map[string]kind.Selection{"bass_up": kind.Select(kind.Death)}}, ErrUnknownRole},
		{"variance beyond end", "timer", Config{Object: obj, Params: Params{"end": "1s", "variance": "3s"}}, ErrBadParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Build(bus, tt.typ, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestWorldStartsAndTicksComponents(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	world := participant.NewWorld(bus, zerolog.Nop())
	obj := event.NewObject("clock", "")

	timer, err := NewTimer(bus, Config{Object: obj}, TimerSettings{Active: true, End: time.Second})
	require.NoError(t, err)
	d, err := NewTextDisplay(bus, Config{Object: obj}, TextDisplaySettings{Mode: DisplayTimer, Decimals: 1})
	require.NoError(t, err)
	world.Add(timer)
	world.Add(d)

	world.Start(ctx)
	world.Tick(ctx, 300*time.Millisecond)
	assert.Equal(t, "0.3", d.Text())
	world.Tick(ctx, time.Second)
	assert.Equal(t, "1.0", d.Text())
	assert.Equal(t, 1, timer.Completed())

	world.Close()
	assert.Equal(t, 0, bus.Subscribers(kind.DisplayUpdate))
}
