package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// Trigger and target role names shared by several components.
const (
	RoleOn      = "on"
	RoleDisplay = "display"
)

// Config is what every component is built from.
type Config struct {
	// Object is the identity the component acts for. Components on the
	// same object share it.
	Object *event.Object

	// Params are the component's own settings.
	Params Params

	// Triggers maps a role to the kinds that fire it.
	Triggers map[string]kind.Selection

	// Targets maps an outgoing role to its receivers. Missing roles
	// address the component's own object.
	Targets map[string]event.Receivers

	// Options are passed through to participant.New.
	Options []participant.Option

	// World holds the other members. Only components that act on other
	// members need it.
	World *participant.World
}

// Trigger returns the kinds configured for role.
func (c Config) Trigger(role string) kind.Selection {
	return c.Triggers[role]
}

// Target returns the receivers configured for role.
func (c Config) Target(role string) event.Receivers {
	if to, ok := c.Targets[role]; ok {
		return to
	}
	return event.Self()
}

// checkRoles rejects trigger and target roles the component does not use.
func (c Config) checkRoles(triggers, targets []string) error {
	if c.Object == nil {
		return ErrNoObject
	}
	for role := range c.Triggers {
		if !contains(triggers, role) {
			return fmt.Errorf("%w: trigger %q", ErrUnknownRole, role)
		}
	}
	for role := range c.Targets {
		if !contains(targets, role) {
			return fmt.Errorf("%w: target %q", ErrUnknownRole, role)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// emitter publishes a component's outgoing events by role.
type emitter struct {
	p       *participant.Participant
	targets func(role string) event.Receivers
}

func (e emitter) emit(ctx context.Context, k kind.Kind, role string, fill func(*event.Payload)) {
	e.p.Emit(ctx, kind.Select(k), e.targets(role), fill)
}

// Factory builds a component from a Config.
type Factory func(bus event.Bus, cfg Config) (participant.Member, error)

// Registry maps component type names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a registry holding every component in this package.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("counter", counterFactory)
	r.Register("modify_counter", modifyCounterFactory)
	r.Register("health", healthFactory)
	r.Register("modify_health", modifyHealthFactory)
	r.Register("lives", livesFactory)
	r.Register("kill_on_event", killFactory)
	r.Register("event_relay", relayFactory)
	r.Register("timer", timerFactory)
	r.Register("text_display", textDisplayFactory)
	r.Register("pause_on_event", pauseFactory)
	r.Register("difficulty_manager", difficultyFactory)
	r.Register("difficulty_indicator", difficultyIndicatorFactory)
	r.Register("typing_text", typingTextFactory)
	r.Register("volume_manager", volumeManagerFactory)
	r.Register("volume_control", volumeControlFactory)
	r.Register("active_on_event", activeFactory)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get returns the factory for name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the registered type names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a component of type name.
func (r *Registry) Build(bus event.Bus, name string, cfg Config) (participant.Member, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	m, err := f(bus, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}
