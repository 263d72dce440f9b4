package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lpk/internal/component"
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

const pickupScene = `
version = "1.0"
name = "pickup"

[[objects]]
name = "coin"

  [[objects.components]]
  type = "counter"
  params = { value = 10, min = 0, max = 12 }
  targets = { display = { objects = ["hud"] } }

[[objects]]
name = "hud"

  [[objects.components]]
  type = "text_display"
  params = { mode = "counter", prefix = "coins: " }

[[objects]]
name = "pickup"
tag = "Pickup"

  [[objects.components]]
  type = "modify_counter"
  params = { value = 5 }
  triggers = { on = ["CollisionEnter"] }
  targets = { counter = { objects = ["coin"] } }

[[timeline]]
frame = 1
kinds = ["CollisionEnter"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func member[T any](t *testing.T, w *participant.World, name string) T {
	t.Helper()
	for _, m := range w.Members() {
		if v, ok := m.(T); ok && m.Base().Object().Name == name {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T on %q", zero, name)
	return zero
}

func TestLoadBuildAndRun(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "pickup.toml", pickupScene)

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pickup", sc.Name)
	require.Len(t, sc.Objects, 3)

	built, err := Build(ctx, event.NewBus(), sc)
	require.NoError(t, err)
	defer built.Close()

	counter := member[*component.Counter](t, built.World, "coin")
	hud := member[*component.TextDisplay](t, built.World, "hud")

	st, err := built.Run(ctx, 0, 16*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Stats{Frames: 2, Published: 1}, st)
	assert.Equal(t, 12, counter.Value())
	assert.Equal(t, "coins: 12", hud.Text())
}

func TestSwitchAndTypingComponents(t *testing.T) {
	ctx := context.Background()
	sc, err := Parse([]byte(`
version = "1"
name = "switch"

[[objects]]
name = "door"

  [[objects.components]]
  type = "counter"
  params = { max = 10 }

[[objects]]
name = "lever"

  [[objects.components]]
  type = "active_on_event"
  params = { mode = "off" }
  triggers = { on = ["ButtonInput"] }
  targets = { switch = { objects = ["door"] } }

[[objects]]
name = "intro"

  [[objects.components]]
  type = "typing_text"
  params = { text = "go", speed = 0 }

[[timeline]]
frame = 0
kinds = ["CounterModify"]
receivers = { objects = ["door"] }
data = { bools = [false], ints = [2] }

[[timeline]]
frame = 1
kinds = ["ButtonInput"]

[[timeline]]
frame = 2
kinds = ["CounterModify"]
receivers = { objects = ["door"] }
data = { bools = [false], ints = [5] }
`), FormatTOML)
	require.NoError(t, err)
	require.NoError(t, Validate(sc))

	built, err := Build(ctx, event.NewBus(), sc)
	require.NoError(t, err)
	defer built.Close()

	_, err = built.Run(ctx, 0, 16*time.Millisecond)
	require.NoError(t, err)
	counter := member[*component.Counter](t, built.World, "door")
	assert.False(t, counter.Enabled())
	assert.Equal(t, 2, counter.Value())
	assert.Equal(t, "go", member[*component.TypingText](t, built.World, "intro").Visible())
}

func TestYAMLSceneWithScriptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "bot.lua", `
function on_event(kind, p)
	lpk.publish("CounterModify", {bools = {false}, ints = {p.ints[1] * 2}, receivers = {"coin"}})
end
`)
	path := writeFile(t, dir, "scripted.yaml", `
version: "1.2.0"
name: scripted
objects:
  - name: coin
    components:
      - type: counter
        params: {value: 0, max: 100}
  - name: bot
    scripts:
      - file: bot.lua
        listen: [CollisionEnter]
timeline:
  - frame: 0
    kinds: [CollisionEnter]
    data: {ints: [21]}
`)

	sc, err := Load(path)
	require.NoError(t, err)

	var scriptErrs []error
	built, err := Build(ctx, event.NewBus(), sc,
		WithBaseDir(dir),
		WithScriptErrors(func(err error) { scriptErrs = append(scriptErrs, err) }))
	require.NoError(t, err)
	defer built.Close()

	_, err = built.Run(ctx, 1, time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, scriptErrs)
	assert.Equal(t, 42, member[*component.Counter](t, built.World, "coin").Value())
}

func TestActivatorsLimitSenders(t *testing.T) {
	ctx := context.Background()
	sc, err := Parse([]byte(`
version = "1"

[[objects]]
name = "player"
tag = "Player"

[[objects]]
name = "rock"

[[objects]]
name = "coin"
activators = { tags = ["Player"] }

  [[objects.components]]
  type = "modify_counter"
  params = { value = 1 }
  triggers = { on = ["CollisionEnter"] }
  targets = { counter = { objects = ["bank"] } }

[[objects]]
name = "bank"

  [[objects.components]]
  type = "counter"

[[timeline]]
frame = 0
kinds = ["CollisionEnter"]
sender = "rock"
receivers = { objects = ["coin"] }

[[timeline]]
frame = 0
kinds = ["CollisionEnter"]
sender = "player"
receivers = { objects = ["coin"] }
`), FormatTOML)
	require.NoError(t, err)
	require.NoError(t, Validate(sc))

	built, err := Build(ctx, event.NewBus(), sc)
	require.NoError(t, err)
	defer built.Close()

	_, err = built.Run(ctx, 1, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, member[*component.Counter](t, built.World, "bank").Value())
}

func TestValidateReportsEveryIssue(t *testing.T) {
	sc, err := Parse([]byte(`
version = "2.0"

[[objects]]
name = "coin"

  [[objects.components]]
  type = "counter"
  params = { min = 5, max = 1 }

  [[objects.components]]
  type = "jetpack"

  [[objects.components]]
  type = "text_display"
  targets = { display = { objects = ["ghost"] } }

[[objects]]
name = "coin"

[[objects]]
name = "self"

[[timeline]]
frame = 0
kinds = ["Explode"]
`), FormatTOML)
	require.NoError(t, err)

	err = Validate(sc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	paths := make(map[string]bool)
	for _, is := range verr.Issues {
		paths[is.Path] = true
	}
	for _, want := range []string{
		"version",
		"timeline[0].kinds[0]",
		"objects[0].components[0]",
		"objects[0].components[1].type",
		"objects[0].components[2]",
		"objects[1].name",
		"objects[2].name",
	} {
		assert.True(t, paths[want], "missing issue at %s in %v", want, verr.Issues)
	}
}

func TestScriptSourceAndFileExclusive(t *testing.T) {
	sc := &Scene{Version: "1.0", Objects: []Object{
		{Name: "a", Scripts: []ScriptSpec{{}}},
		{Name: "b", Scripts: []ScriptSpec{{Source: "x = 1", File: "b.lua"}}},
	}}
	var verr *ValidationError
	require.True(t, errors.As(Validate(sc), &verr))
	assert.Len(t, verr.Issues, 2)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version = \"1\"\ncolour = 3\n"), FormatTOML)
	assert.Error(t, err)
	_, err = Parse([]byte("version: \"1\"\ncolour: 3\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "scene.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	var perr *ParseError
	_, err = Load(writeFile(t, dir, "broken.toml", "version = "))
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, filepath.Join(dir, "broken.toml"), perr.Path)
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": FormatTOML, "b.YAML": FormatYAML, "c.yml": FormatYAML} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestTimelineOrdersByFrame(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	tl, err := NewTimeline([]Entry{
		{Frame: 2, Kinds: []string{"Death"}},
		{Frame: 0, Kinds: []string{"CharacterJump"}},
		{Frame: 2, Kinds: []string{"OutOfLives"}, Data: map[string]any{"ints": []any{1}}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tl.Len())
	assert.Equal(t, 2, tl.LastFrame())

	var got []kind.Kind
	for _, k := range []kind.Kind{kind.Death, kind.CharacterJump, kind.OutOfLives} {
		_, err := bus.SubscribeFunc(k, func(_ context.Context, k kind.Kind, p *event.Payload) {
			assert.True(t, p.Receivers.IsBroadcast())
			got = append(got, k)
		})
		require.NoError(t, err)
	}

	n, err := tl.Publish(ctx, bus, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = tl.Publish(ctx, bus, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []kind.Kind{kind.Death, kind.OutOfLives}, got)

	_, err = NewTimeline([]Entry{{Kinds: []string{"Nope"}}}, nil)
	assert.ErrorIs(t, err, event.ErrUnknownKind)
}

func TestBuildFailureClosesWorld(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()
	sc := &Scene{Version: "1", Objects: []Object{{
		Name:       "a",
		Components: []Component{{Type: "counter"}},
		Scripts:    []ScriptSpec{{Source: "x = 1", Listen: []string{"Death"}}},
	}}}

	_, err := Build(ctx, bus, sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "objects[0].scripts[0]")
	assert.Zero(t, bus.Subscribers(kind.CounterModify))
	assert.Zero(t, bus.Subscribers(kind.GamePaused))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	built, err := Build(context.Background(), event.NewBus(), &Scene{Version: "1"})
	require.NoError(t, err)
	defer built.Close()

	st, err := built.Run(ctx, 10, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Frames)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.toml", "version = \"1\"\nname = \"first\"\n")

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	names := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(sc *Scene, err error) {
			if err != nil {
				names <- "error"
				return
			}
			names <- sc.Name
		})
	}()

	wait := func(want string) {
		t.Helper()
		for {
			select {
			case got := <-names:
				if got == want {
					return
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for %q", want)
			}
		}
	}
	wait("first")

	writeFile(t, dir, "live.toml", "version = \"1\"\nname = \"second\"\n")
	wait("second")

	writeFile(t, dir, "live.toml", "version = ")
	wait("error")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.GreaterOrEqual(t, w.Reloads(), int64(3))
}
