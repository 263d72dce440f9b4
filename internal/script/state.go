// Package script runs participants written in Lua.
//
// A script is an ordinary participant: the receiver filter runs before
// any Lua code sees an event. The host exposes a small "lpk" module to the
// script and calls two optional globals:
//
//	function on_event(kind, payload) end  -- kind is the kind name
//	function on_tick(seconds) end
//
// Inside those, lpk.publish(kinds, payload), lpk.self() and lpk.log(msg)
// are available. The Lua state is sandboxed: only the base, table, string
// and math libraries are opened and every chunk loader is removed.
package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single call into Lua.
const DefaultCallTimeout = time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe, and the bus re-enters a
// script when it publishes to itself, so a State is used from the single
// goroutine that drives the bus and holds no lock.
type State struct {
	L *lua.LState

	callTimeout time.Duration
	closed      bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithCallTimeout bounds each call into Lua. Zero disables the bound.
func WithCallTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.callTimeout = d
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{callTimeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	installSandbox(L)
	s.L = L
	return s
}

// DoString executes a chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.withContext(ctx, func() error {
		return s.L.DoString(code)
	})
}

// HasFunction reports whether the global name is a function.
func (s *State) HasFunction(name string) bool {
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls a global Lua function and discards its results. A missing
// function is not an error.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) error {
	if s.closed {
		return ErrStateClosed
	}
	fnVal := s.L.GetGlobal(fn)
	if fnVal == lua.LNil {
		return nil
	}
	if fnVal.Type() != lua.LTFunction {
		return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	return s.withContext(ctx, func() error {
		return s.L.CallByParam(lua.P{Fn: fnVal, NRet: 0, Protect: true}, args...)
	})
}

// withContext runs fn with ctx, bounded by the call timeout, installed on
// the Lua state. A nested call from inside Lua keeps the outer context.
func (s *State) withContext(ctx context.Context, fn func() error) (err error) {
	if outer := s.L.Context(); outer != nil {
		return s.recovered(fn)
	}
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return s.recovered(fn)
}

func (s *State) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// RegisterModule installs a global table of Go functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool { return s.closed }

// Close releases the Lua state.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// openSafeLibraries opens only the libraries scripts may use. io, os,
// debug, package and channel stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes every way to load code that was not handed to
// the state by the host.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}
