package component

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned by Registry.Build for unregistered types.
	ErrUnknownType = errors.New("unknown component type")

	// ErrBadParam matches every ParamError.
	ErrBadParam = errors.New("invalid component parameter")

	// ErrUnknownRole is returned when a trigger or target role is not
	// used by the component.
	ErrUnknownRole = errors.New("unknown role")

	// ErrNoObject is returned when a component is built without an object.
	ErrNoObject = errors.New("component requires an object")

	// ErrNoWorld is returned when a component that acts on other members
	// is built without a world.
	ErrNoWorld = errors.New("component requires a world")
)

// ParamError describes one parameter that could not be decoded.
type ParamError struct {
	Key string
	Err error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Key, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// Is makes every ParamError match ErrBadParam.
func (e *ParamError) Is(target error) bool { return target == ErrBadParam }
