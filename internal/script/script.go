package script

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// Config describes a scripted participant.
type Config struct {
	Object *event.Object
	// Source is the Lua chunk, run once at construction.
	Source string
	// Listen is the selection on_event receives.
	Listen kind.Selection
	// Resolve turns object names in published payloads into objects.
	Resolve event.Resolver
	// OnError receives every error raised by script code.
	OnError func(error)

	StateOptions []StateOption
	Options      []participant.Option
}

// Script is a participant whose behavior is a Lua chunk.
type Script struct {
	*participant.Participant
	state   *State
	resolve event.Resolver
	onError func(error)
	ctx     context.Context
	errors  int
}

// New runs cfg.Source and subscribes the script to cfg.Listen.
func New(ctx context.Context, bus event.Bus, cfg Config) (*Script, error) {
	p, err := participant.New(bus, cfg.Object, cfg.Options...)
	if err != nil {
		return nil, err
	}
	s := &Script{
		Participant: p,
		state:       NewState(cfg.StateOptions...),
		resolve:     cfg.Resolve,
		onError:     cfg.OnError,
	}
	s.state.RegisterModule("lpk", map[string]lua.LGFunction{
		"publish": s.luaPublish,
		"self":    s.luaSelf,
		"log":     s.luaLog,
	})

	if err := s.run(ctx, func() error { return s.state.DoString(ctx, cfg.Source) }); err != nil {
		s.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	if !cfg.Listen.Empty() && !s.state.HasFunction("on_event") {
		s.Close()
		return nil, ErrNoHandler
	}
	if err := p.Listen(cfg.Listen, s); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Errors returns how many script errors have occurred.
func (s *Script) Errors() int { return s.errors }

// HandleEvent passes an accepted event to on_event.
func (s *Script) HandleEvent(ctx context.Context, k kind.Kind, p *event.Payload) {
	if !s.ShouldRespond(p) {
		return
	}
	s.report(s.run(ctx, func() error {
		tbl := toLuaValue(s.state.L, event.PayloadToMap(p))
		return s.state.Call(ctx, "on_event", lua.LString(k.String()), tbl)
	}))
}

// Tick calls on_tick with the frame time in seconds.
func (s *Script) Tick(ctx context.Context, dt time.Duration) {
	if !s.state.HasFunction("on_tick") {
		return
	}
	s.report(s.run(ctx, func() error {
		return s.state.Call(ctx, "on_tick", lua.LNumber(dt.Seconds()))
	}))
}

// Close detaches the script and releases its Lua state.
func (s *Script) Close() {
	s.Participant.Close()
	s.state.Close()
}

// run makes ctx visible to the lpk functions for the duration of fn.
func (s *Script) run(ctx context.Context, fn func() error) error {
	outer := s.ctx
	s.ctx = ctx
	defer func() { s.ctx = outer }()
	return fn()
}

func (s *Script) report(err error) {
	if err == nil {
		return
	}
	s.errors++
	s.Logger().Error().Err(err).Msg("script error")
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Script) context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// luaPublish implements lpk.publish(kinds, payload). kinds is a kind name
// or a list of them; payload is optional and uses the field names of
// event.PayloadFromMap.
func (s *Script) luaPublish(L *lua.LState) int {
	names, err := cast.ToStringSliceE(toGoValue(L.CheckAny(1)))
	if err != nil {
		L.ArgError(1, "expected a kind name or a list of kind names")
		return 0
	}
	sel, unknown := kind.ParseSelection(names)
	if len(unknown) > 0 {
		L.ArgError(1, fmt.Sprintf("unknown kinds %v", unknown))
		return 0
	}

	data := map[string]any{}
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		m, ok := toGoValue(L.CheckTable(2)).(map[string]any)
		if !ok {
			L.ArgError(2, "expected a table with named fields")
			return 0
		}
		data = m
	}
	pl, err := event.PayloadFromMap(data, s.resolve)
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	if _, named := data["receivers"]; !named {
		if _, tagged := data["tags"]; !tagged {
			pl.Receivers = event.Self()
		}
	}

	s.Publish(s.context(), sel, pl)
	return 0
}

// luaSelf implements lpk.self() returning {name=..., tag=..., id=...}.
func (s *Script) luaSelf(L *lua.LState) int {
	obj := s.Object()
	t := L.NewTable()
	t.RawSetString("name", lua.LString(obj.Name))
	t.RawSetString("tag", lua.LString(obj.Tag))
	t.RawSetString("id", lua.LString(obj.ID))
	L.Push(t)
	return 1
}

// luaLog implements lpk.log(msg).
func (s *Script) luaLog(L *lua.LState) int {
	s.Logger().Info().Str("source", "lua").Msg(L.CheckString(1))
	return 0
}
