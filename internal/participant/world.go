package participant

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/lpk/internal/event"
)

// Member is anything built on a Participant. Components satisfy it by
// embedding *Participant.
type Member interface {
	Base() *Participant
}

// Ticker is implemented by members with per-frame logic.
type Ticker interface {
	Tick(ctx context.Context, dt time.Duration)
}

// Starter is implemented by members that publish their initial state
// once the world is assembled.
type Starter interface {
	Start(ctx context.Context)
}

// Closer is promoted from Participant to every member. A member holding
// more than subscriptions overrides it and closes its Participant too.
type Closer interface {
	Close()
}

// World owns the members of one simulation and drives their tick. It is
// the explicit owner the bus would otherwise lack: closing the world
// detaches every member.
type World struct {
	bus event.Bus
	log zerolog.Logger

	mu      sync.Mutex
	members []Member
	objects map[string]*event.Object
	frame   uint64
}

// NewWorld creates an empty world on bus.
func NewWorld(bus event.Bus, log zerolog.Logger) *World {
	return &World{
		bus:     bus,
		log:     log.With().Str("component", "world").Logger(),
		objects: make(map[string]*event.Object),
	}
}

// Bus returns the world's bus.
func (w *World) Bus() event.Bus { return w.bus }

// Add registers m. Its object becomes resolvable by name.
func (w *World) Add(m Member) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.members = append(w.members, m)
	if obj := m.Base().Object(); obj != nil {
		if _, seen := w.objects[obj.Name]; !seen {
			w.objects[obj.Name] = obj
		}
	}
}

// Object registers obj for lookup without a member, for objects that only
// publish.
func (w *World) Object(obj *event.Object) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.objects[obj.Name]; !seen {
		w.objects[obj.Name] = obj
	}
}

// Find resolves an object by name. It matches event.Resolver.
func (w *World) Find(name string) (*event.Object, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	obj, ok := w.objects[name]
	return obj, ok
}

// Members returns a copy of the member list.
func (w *World) Members() []Member {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Member, len(w.members))
	copy(out, w.members)
	return out
}

// Frame returns the number of ticks run so far.
func (w *World) Frame() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

// Start calls Start on every member that has it, in insertion order.
func (w *World) Start(ctx context.Context) {
	for _, m := range w.Members() {
		if s, ok := m.(Starter); ok {
			s.Start(ctx)
		}
	}
}

// Tick advances every enabled, unpaused ticker by dt.
func (w *World) Tick(ctx context.Context, dt time.Duration) {
	w.mu.Lock()
	w.frame++
	members := make([]Member, len(w.members))
	copy(members, w.members)
	w.mu.Unlock()

	for _, m := range members {
		t, ok := m.(Ticker)
		if !ok {
			continue
		}
		base := m.Base()
		if !base.Enabled() || base.Paused() {
			continue
		}
		t.Tick(ctx, dt)
	}
}

// Remove closes m and forgets it.
func (w *World) Remove(m Member) {
	w.mu.Lock()
	for i, x := range w.members {
		if x == m {
			w.members = append(w.members[:i:i], w.members[i+1:]...)
			break
		}
	}
	w.mu.Unlock()
	closeMember(m)
}

// Close closes every member. Members are closed once even if Close is
// called again.
func (w *World) Close() {
	w.mu.Lock()
	members := w.members
	w.members = nil
	w.mu.Unlock()

	for _, m := range members {
		closeMember(m)
	}
	w.log.Debug().Int("members", len(members)).Msg("world closed")
}

func closeMember(m Member) {
	if c, ok := m.(Closer); ok {
		c.Close()
		return
	}
	m.Base().Close()
}
