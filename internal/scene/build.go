package scene

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/lpk/internal/component"
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/filter"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
	"github.com/dshills/lpk/internal/script"
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	registry      *component.Registry
	log           zerolog.Logger
	dir           string
	scriptTimeout time.Duration
	onScriptError func(error)
}

// WithRegistry sets the component types available to the scene. The
// default is component.Builtin().
func WithRegistry(r *component.Registry) BuildOption {
	return func(c *buildConfig) { c.registry = r }
}

// WithLogger sets the logger handed to the world and every participant.
func WithLogger(l zerolog.Logger) BuildOption {
	return func(c *buildConfig) { c.log = l }
}

// WithBaseDir sets the directory script files are read from.
func WithBaseDir(dir string) BuildOption {
	return func(c *buildConfig) { c.dir = dir }
}

// WithScriptTimeout bounds each Lua call.
func WithScriptTimeout(d time.Duration) BuildOption {
	return func(c *buildConfig) { c.scriptTimeout = d }
}

// WithScriptErrors receives every error raised by a scene script.
func WithScriptErrors(fn func(error)) BuildOption {
	return func(c *buildConfig) { c.onScriptError = fn }
}

// Built is a scene turned into live participants.
type Built struct {
	World    *participant.World
	Timeline *Timeline
}

// Build creates the objects of sc, attaches their components and scripts
// on bus, and prepares the timeline. Members are added in file order,
// which is also their start and tick order. On error everything built so
// far is closed.
func Build(ctx context.Context, bus event.Bus, sc *Scene, opts ...BuildOption) (*Built, error) {
	cfg := buildConfig{
		registry:      component.Builtin(),
		log:           zerolog.Nop(),
		scriptTimeout: script.DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	world := participant.NewWorld(bus, cfg.log)
	objects := make([]*event.Object, len(sc.Objects))
	for i, o := range sc.Objects {
		objects[i] = event.NewObject(o.Name, o.Tag)
		world.Object(objects[i])
	}

	fail := func(err error) (*Built, error) {
		world.Close()
		return nil, err
	}
	for i, o := range sc.Objects {
		path := fmt.Sprintf("objects[%d]", i)
		popts, err := o.participantOptions(world.Find)
		if err != nil {
			return fail(fmt.Errorf("%s: %w", path, err))
		}
		popts = append(popts, participant.WithLogger(cfg.log))

		for j, c := range o.Components {
			cc, err := c.config(objects[i], world.Find)
			if err != nil {
				return fail(fmt.Errorf("%s.components[%d]: %w", path, j, err))
			}
			cc.Options = popts
			cc.World = world
			m, err := cfg.registry.Build(bus, c.Type, cc)
			if err != nil {
				return fail(fmt.Errorf("%s.components[%d]: %w", path, j, err))
			}
			world.Add(m)
		}

		for j, s := range o.Scripts {
			m, err := cfg.script(ctx, bus, objects[i], s, world.Find, popts)
			if err != nil {
				return fail(fmt.Errorf("%s.scripts[%d]: %w", path, j, err))
			}
			world.Add(m)
		}
	}

	tl, err := NewTimeline(sc.Timeline, world.Find)
	if err != nil {
		return fail(err)
	}
	cfg.log.Debug().
		Str("scene", sc.Name).
		Int("objects", len(sc.Objects)).
		Int("members", len(world.Members())).
		Int("timeline", tl.Len()).
		Msg("scene built")
	return &Built{World: world, Timeline: tl}, nil
}

func (c buildConfig) script(ctx context.Context, bus event.Bus, obj *event.Object, s ScriptSpec,
	resolve event.Resolver, popts []participant.Option) (*script.Script, error) {
	src := s.Source
	if s.File != "" {
		data, err := os.ReadFile(filepath.Join(c.dir, s.File))
		if err != nil {
			return nil, err
		}
		src = string(data)
	}
	listen, unknown := kind.ParseSelection(s.Listen)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", event.ErrUnknownKind, unknown)
	}
	return script.New(ctx, bus, script.Config{
		Object:       obj,
		Source:       src,
		Listen:       listen,
		Resolve:      resolve,
		OnError:      c.onScriptError,
		StateOptions: []script.StateOption{script.WithCallTimeout(c.scriptTimeout)},
		Options:      popts,
	})
}

// Close detaches every member.
func (b *Built) Close() { b.World.Close() }

// Stats summarizes a run.
type Stats struct {
	Frames    int
	Published int
}

// Run starts the world and then, for each frame, publishes the timeline
// entries due at that frame before ticking every member by dt. A frames
// value of zero or less runs until the last timeline entry has been
// published. Run stops early when ctx is done.
func (b *Built) Run(ctx context.Context, frames int, dt time.Duration) (Stats, error) {
	var st Stats
	if frames <= 0 {
		frames = b.Timeline.LastFrame() + 1
	}
	b.World.Start(ctx)
	for f := 0; f < frames; f++ {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		n, err := b.Timeline.Publish(ctx, b.World.Bus(), f)
		st.Published += n
		if err != nil {
			return st, err
		}
		b.World.Tick(ctx, dt)
		st.Frames++
	}
	return st, nil
}

func (o Object) participantOptions(resolve event.Resolver) ([]participant.Option, error) {
	ii, err := o.Input.interest()
	if err != nil {
		return nil, err
	}
	opts := []participant.Option{participant.WithInput(ii)}

	if len(o.Activators.Objects) > 0 || len(o.Activators.Tags) > 0 {
		a := filter.Activators{Tags: o.Activators.Tags}
		for _, name := range o.Activators.Objects {
			if strings.EqualFold(name, event.SelfName) {
				a.Objects = append(a.Objects, nil)
				continue
			}
			obj, ok := resolve(name)
			if !ok {
				return nil, fmt.Errorf("activator: no object named %q", name)
			}
			a.Objects = append(a.Objects, obj)
		}
		opts = append(opts, participant.WithActivators(a))
	}
	if o.Disabled {
		opts = append(opts, participant.Disabled())
	}
	return opts, nil
}
