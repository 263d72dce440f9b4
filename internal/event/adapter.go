package event

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/dshills/lpk/internal/event/input"
)

// Resolver looks up scene objects by name for loosely typed payloads.
type Resolver func(name string) (*Object, bool)

// SelfName is the receiver name that stands for "only the sender".
const SelfName = "self"

var errUnknownField = errors.New("unknown field")

// PayloadFromMap builds a payload from a loosely typed map, as found in
// scene files and script tables. Recognized keys:
//
//	sender            object name
//	receivers         object names; "self" or "" adds a nil entry
//	tags              receiver tags
//	ints bools floats doubles strings
//	vectors           list of [x, y, z]
//	button key mouse gamepad gamepad_number
//
// Unknown keys are rejected so typos surface early.
func PayloadFromMap(data map[string]any, resolve Resolver) (*Payload, error) {
	p := &Payload{}
	for key, raw := range data {
		if err := applyField(p, strings.ToLower(key), raw, resolve); err != nil {
			return nil, fmt.Errorf("payload field %q: %w", key, err)
		}
	}
	return p, nil
}

func applyField(p *Payload, key string, raw any, resolve Resolver) error {
	var err error
	switch key {
	case "sender":
		p.Sender, err = resolveObject(cast.ToString(raw), resolve)
	case "sender_tag":
		// informational, carried by the sender object
	case "receivers":
		var names []string
		if names, err = cast.ToStringSliceE(raw); err == nil {
			for _, n := range names {
				var obj *Object
				if obj, err = resolveObject(n, resolve); err != nil {
					return err
				}
				p.Receivers.Objects = append(p.Receivers.Objects, obj)
			}
		}
	case "tags":
		p.Receivers.Tags, err = cast.ToStringSliceE(raw)
	case "ints":
		p.Ints, err = cast.ToIntSliceE(raw)
	case "bools":
		p.Bools, err = cast.ToBoolSliceE(raw)
	case "floats":
		p.Floats, err = toFloat32s(raw)
	case "doubles":
		p.Doubles, err = toFloat64s(raw)
	case "strings":
		p.Strings, err = cast.ToStringSliceE(raw)
	case "vectors":
		p.Vectors, err = toVectors(raw)
	case "button":
		p.Input.Button, err = cast.ToStringE(raw)
	case "key":
		var s string
		s, err = cast.ToStringE(raw)
		p.Input.Key = input.Key(s)
	case "mouse":
		p.Input.MouseButton, err = parseQualifier(raw, input.ParseMouseButton)
	case "gamepad":
		p.Input.GamepadButton, err = parseQualifier(raw, input.ParseGamepadButton)
	case "gamepad_number":
		p.Input.GamepadNumber, err = parseQualifier(raw, input.ParseGamepadNumber)
	default:
		err = errUnknownField
	}
	return err
}

func resolveObject(name string, resolve Resolver) (*Object, error) {
	if name == "" || strings.EqualFold(name, SelfName) {
		return nil, nil
	}
	if resolve == nil {
		return nil, fmt.Errorf("no object named %q", name)
	}
	obj, ok := resolve(name)
	if !ok {
		return nil, fmt.Errorf("no object named %q", name)
	}
	return obj, nil
}

func parseQualifier[T any](raw any, parse func(string) (T, bool)) (T, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := parse(s)
	if !ok {
		return v, fmt.Errorf("unknown value %q", s)
	}
	return v, nil
}

// toSlice accepts any slice or array, not only []any.
func toSlice(raw any) ([]any, error) {
	if items, err := cast.ToSliceE(raw); err == nil {
		return items, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func toFloat32s(raw any) ([]float32, error) {
	items, err := toSlice(raw)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(items))
	for i, it := range items {
		if out[i], err = cast.ToFloat32E(it); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func toFloat64s(raw any) ([]float64, error) {
	items, err := toSlice(raw)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, it := range items {
		if out[i], err = cast.ToFloat64E(it); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func toVectors(raw any) ([]Vec3, error) {
	items, err := toSlice(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Vec3, len(items))
	for i, it := range items {
		comps, err := toFloat32s(it)
		if err != nil {
			return nil, err
		}
		if len(comps) != 3 {
			return nil, fmt.Errorf("vector %d has %d components, want 3", i, len(comps))
		}
		out[i] = Vec3{X: comps[0], Y: comps[1], Z: comps[2]}
	}
	return out, nil
}

// PayloadToMap flattens a payload into the shape PayloadFromMap accepts,
// plus sender_tag. Objects are reported by name; nil receivers become
// "self".
func PayloadToMap(p *Payload) map[string]any {
	m := map[string]any{}
	if p == nil {
		return m
	}
	if p.Sender != nil {
		m["sender"] = p.Sender.Name
		m["sender_tag"] = p.Sender.Tag
	}
	if len(p.Receivers.Objects) > 0 {
		names := make([]string, len(p.Receivers.Objects))
		for i, o := range p.Receivers.Objects {
			if o == nil {
				names[i] = SelfName
				continue
			}
			names[i] = o.Name
		}
		m["receivers"] = names
	}
	if len(p.Receivers.Tags) > 0 {
		m["tags"] = p.Receivers.Tags
	}
	if len(p.Ints) > 0 {
		m["ints"] = p.Ints
	}
	if len(p.Bools) > 0 {
		m["bools"] = p.Bools
	}
	if len(p.Floats) > 0 {
		m["floats"] = p.Floats
	}
	if len(p.Doubles) > 0 {
		m["doubles"] = p.Doubles
	}
	if len(p.Strings) > 0 {
		m["strings"] = p.Strings
	}
	if len(p.Vectors) > 0 {
		vs := make([][]float32, len(p.Vectors))
		for i, v := range p.Vectors {
			vs[i] = []float32{v.X, v.Y, v.Z}
		}
		m["vectors"] = vs
	}
	if p.Input.Button != "" {
		m["button"] = p.Input.Button
	}
	if p.Input.Key != input.KeyNone {
		m["key"] = string(p.Input.Key)
	}
	if p.Input.MouseButton != input.MouseAny {
		m["mouse"] = p.Input.MouseButton.String()
	}
	if p.Input.GamepadButton != input.GamepadAny {
		m["gamepad"] = p.Input.GamepadButton.String()
	}
	if p.Input.GamepadNumber != input.GamepadNumberAny {
		m["gamepad_number"] = p.Input.GamepadNumber.String()
	}
	return m
}
