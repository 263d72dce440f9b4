package scene

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dshills/lpk/internal/component"
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/filter"
	"github.com/dshills/lpk/internal/event/input"
	"github.com/dshills/lpk/internal/event/kind"
	"github.com/dshills/lpk/internal/participant"
)

// SupportedVersions is the range of scene versions this build reads.
const SupportedVersions = "^1"

var (
	validateOnce sync.Once
	validate     *validator.Validate
	supported    *semver.Constraints
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		c, err := semver.NewConstraint(SupportedVersions)
		if err != nil {
			panic(err)
		}
		supported = c

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
			_, ok := kind.Parse(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("scene_version", func(fl validator.FieldLevel) bool {
			ver, err := semver.NewVersion(fl.Field().String())
			return err == nil && supported.Check(ver)
		})
		validate = v
	})
	return validate
}

// Validate checks sc against the built-in component types.
func Validate(sc *Scene) error {
	return ValidateWith(sc, component.Builtin())
}

// ValidateWith checks the structure of sc, that every name it uses
// resolves, and that every component can be built from its params. All
// problems are reported together in a *ValidationError.
func ValidateWith(sc *Scene, reg *component.Registry) error {
	var issues []Issue
	if err := structValidator().Struct(sc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			issues = append(issues, Issue{Path: fieldPath(fe.Namespace()), Message: tagMessage(fe)})
		}
	}

	objects := make(map[string]*event.Object, len(sc.Objects))
	for i, o := range sc.Objects {
		path := fmt.Sprintf("objects[%d]", i)
		if strings.EqualFold(o.Name, event.SelfName) {
			issues = append(issues, Issue{Path: path + ".name", Message: fmt.Sprintf("%q is reserved", o.Name)})
			continue
		}
		if _, dup := objects[o.Name]; dup && o.Name != "" {
			issues = append(issues, Issue{Path: path + ".name", Message: fmt.Sprintf("duplicate object %q", o.Name)})
			continue
		}
		objects[o.Name] = event.NewObject(o.Name, o.Tag)
	}
	resolve := func(name string) (*event.Object, bool) {
		obj, ok := objects[name]
		return obj, ok
	}

	bus := event.NewBus()
	defer bus.Close()
	world := participant.NewWorld(bus, zerolog.Nop())
	for i, o := range sc.Objects {
		path := fmt.Sprintf("objects[%d]", i)
		obj, ok := objects[o.Name]
		if !ok {
			continue
		}
		if _, err := o.participantOptions(resolve); err != nil {
			issues = append(issues, Issue{Path: path, Message: err.Error()})
		}
		for j, c := range o.Components {
			cpath := fmt.Sprintf("%s.components[%d]", path, j)
			if !reg.Has(c.Type) {
				issues = append(issues, Issue{Path: cpath + ".type", Message: fmt.Sprintf("unknown component type %q", c.Type)})
				continue
			}
			cfg, err := c.config(obj, resolve)
			if err != nil {
				issues = append(issues, Issue{Path: cpath, Message: err.Error()})
				continue
			}
			cfg.World = world
			m, err := reg.Build(bus, c.Type, cfg)
			if err != nil {
				issues = append(issues, Issue{Path: cpath, Message: err.Error()})
				continue
			}
			m.Base().Close()
		}
	}

	for i, e := range sc.Timeline {
		if _, err := e.payload(resolve); err != nil {
			issues = append(issues, Issue{Path: fmt.Sprintf("timeline[%d]", i), Message: err.Error()})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "source or file is required"
	case "excluded_with":
		return "source and file are mutually exclusive"
	case "kind":
		return fmt.Sprintf("unknown event kind %q", fe.Value())
	case "scene_version":
		return fmt.Sprintf("version %q is not in %s", fe.Value(), SupportedVersions)
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}

// receivers resolves r. Unknown names are errors; "self" becomes the nil
// entry.
func (r Receivers) receivers(resolve event.Resolver) (event.Receivers, error) {
	pl, err := event.PayloadFromMap(map[string]any{"receivers": r.Objects, "tags": r.Tags}, resolve)
	if err != nil {
		return event.Receivers{}, err
	}
	return pl.Receivers, nil
}

// config turns a scene component into a component.Config for obj.
func (c Component) config(obj *event.Object, resolve event.Resolver) (component.Config, error) {
	cfg := component.Config{
		Object:   obj,
		Params:   component.Params(c.Params),
		Triggers: make(map[string]kind.Selection, len(c.Triggers)),
		Targets:  make(map[string]event.Receivers, len(c.Targets)),
	}
	for role, names := range c.Triggers {
		sel, unknown := kind.ParseSelection(names)
		if len(unknown) > 0 {
			return cfg, fmt.Errorf("trigger %q: unknown event kinds %v", role, unknown)
		}
		cfg.Triggers[role] = sel
	}
	for role, r := range c.Targets {
		to, err := r.receivers(resolve)
		if err != nil {
			return cfg, fmt.Errorf("target %q: %w", role, err)
		}
		cfg.Targets[role] = to
	}
	return cfg, nil
}

// payload builds a fresh payload for a timeline entry.
func (e Entry) payload(resolve event.Resolver) (*event.Payload, error) {
	data := make(map[string]any, len(e.Data)+3)
	for k, v := range e.Data {
		switch strings.ToLower(k) {
		case "sender", "receivers", "tags":
			return nil, fmt.Errorf("data field %q belongs on the entry", k)
		}
		data[k] = v
	}
	if e.Sender != "" {
		data["sender"] = e.Sender
	}
	if e.Receivers != nil {
		data["receivers"] = e.Receivers.Objects
		data["tags"] = e.Receivers.Tags
	}
	return event.PayloadFromMap(data, resolve)
}

func (in Input) interest() (ii filter.InputInterest, err error) {
	ii.Buttons = in.Buttons
	for _, k := range in.Keys {
		ii.Keys = append(ii.Keys, input.Key(k))
	}
	if ii.MouseButtons, err = parseAll(in.Mouse, input.ParseMouseButton, "mouse button"); err != nil {
		return ii, err
	}
	if ii.GamepadButtons, err = parseAll(in.Gamepad, input.ParseGamepadButton, "gamepad button"); err != nil {
		return ii, err
	}
	ii.GamepadNumbers, err = parseAll(in.GamepadNumbers, input.ParseGamepadNumber, "gamepad number")
	return ii, err
}

func parseAll[T any](names []string, parse func(string) (T, bool), what string) ([]T, error) {
	var out []T
	for _, n := range names {
		v, ok := parse(n)
		if !ok {
			return nil, fmt.Errorf("unknown %s %q", what, n)
		}
		out = append(out, v)
	}
	return out, nil
}
