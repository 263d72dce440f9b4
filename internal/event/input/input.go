// Package input defines the device qualifiers an input event can carry and
// a participant can restrict itself to. Each modality has a sentinel that
// means "any" (or "none" for keys) and matches every allow-list. The
// sentinel is always the zero value.
package input

import "strings"

// Key is a keyboard key code name such as "Space" or "W". KeyNone is the
// sentinel.
type Key string

// KeyNone means the payload carries no key qualifier.
const KeyNone Key = ""

// MouseButton identifies a mouse button or wheel direction.
type MouseButton int

const (
	MouseAny MouseButton = iota
	MouseLeft
	MouseRight
	MouseMiddleClick
	MouseScrollUp
	MouseScrollDown
)

var mouseNames = map[MouseButton]string{
	MouseLeft:        "LEFT",
	MouseRight:       "RIGHT",
	MouseMiddleClick: "MIDDLE_CLICK",
	MouseScrollUp:    "MIDDLE_SCROLL_UP",
	MouseScrollDown:  "MIDDLE_SCROLL_DOWN",
	MouseAny:         "ANY",
}

func (b MouseButton) String() string {
	if n, ok := mouseNames[b]; ok {
		return n
	}
	return "UNKNOWN"
}

// ParseMouseButton resolves a mouse button by name.
func ParseMouseButton(s string) (MouseButton, bool) {
	return parseEnum(mouseNames, s)
}

// GamepadButton identifies a controller button, stick direction or trigger.
type GamepadButton int

const (
	GamepadAny GamepadButton = iota
	GamepadA
	GamepadB
	GamepadX
	GamepadY
	GamepadStart
	GamepadBack
	GamepadGuide
	GamepadLeftShoulder
	GamepadRightShoulder
	GamepadLeftStick
	GamepadRightStick
	GamepadLeftStickUp
	GamepadLeftStickDown
	GamepadLeftStickLeft
	GamepadLeftStickRight
	GamepadRightStickUp
	GamepadRightStickDown
	GamepadRightStickLeft
	GamepadRightStickRight
	GamepadLeftTrigger
	GamepadRightTrigger
	GamepadDpadUp
	GamepadDpadDown
	GamepadDpadLeft
	GamepadDpadRight
)

var gamepadNames = map[GamepadButton]string{
	GamepadA:               "A",
	GamepadB:               "B",
	GamepadX:               "X",
	GamepadY:               "Y",
	GamepadStart:           "START",
	GamepadBack:            "BACK",
	GamepadGuide:           "GUIDE",
	GamepadLeftShoulder:    "LEFT_SHOULDER",
	GamepadRightShoulder:   "RIGHT_SHOULDER",
	GamepadLeftStick:       "LEFT_STICK",
	GamepadRightStick:      "RIGHT_STICK",
	GamepadLeftStickUp:     "LEFT_STICK_UP",
	GamepadLeftStickDown:   "LEFT_STICK_DOWN",
	GamepadLeftStickLeft:   "LEFT_STICK_LEFT",
	GamepadLeftStickRight:  "LEFT_STICK_RIGHT",
	GamepadRightStickUp:    "RIGHT_STICK_UP",
	GamepadRightStickDown:  "RIGHT_STICK_DOWN",
	GamepadRightStickLeft:  "RIGHT_STICK_LEFT",
	GamepadRightStickRight: "RIGHT_STICK_RIGHT",
	GamepadLeftTrigger:     "LEFT_TRIGGER",
	GamepadRightTrigger:    "RIGHT_TRIGGER",
	GamepadDpadUp:          "DPAD_UP",
	GamepadDpadDown:        "DPAD_DOWN",
	GamepadDpadLeft:        "DPAD_LEFT",
	GamepadDpadRight:       "DPAD_RIGHT",
	GamepadAny:             "ANY",
}

func (b GamepadButton) String() string {
	if n, ok := gamepadNames[b]; ok {
		return n
	}
	return "UNKNOWN"
}

// ParseGamepadButton resolves a controller button by name.
func ParseGamepadButton(s string) (GamepadButton, bool) {
	return parseEnum(gamepadNames, s)
}

// GamepadNumber identifies which controller produced the input.
type GamepadNumber int

const (
	GamepadNumberAny GamepadNumber = iota
	GamepadOne
	GamepadTwo
	GamepadThree
	GamepadFour
)

var numberNames = map[GamepadNumber]string{
	GamepadOne:       "ONE",
	GamepadTwo:       "TWO",
	GamepadThree:     "THREE",
	GamepadFour:      "FOUR",
	GamepadNumberAny: "ANY",
}

func (n GamepadNumber) String() string {
	if s, ok := numberNames[n]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseGamepadNumber resolves a controller number by name.
func ParseGamepadNumber(s string) (GamepadNumber, bool) {
	return parseEnum(numberNames, s)
}

// Qualifiers are the device details attached to a payload. The zero value
// has every modality at its sentinel.
type Qualifiers struct {
	Button        string
	Key           Key
	MouseButton   MouseButton
	GamepadButton GamepadButton
	GamepadNumber GamepadNumber
}

// Any returns qualifiers with every modality at its sentinel.
func Any() Qualifiers {
	return Qualifiers{
		Button:        "",
		Key:           KeyNone,
		MouseButton:   MouseAny,
		GamepadButton: GamepadAny,
		GamepadNumber: GamepadNumberAny,
	}
}

func parseEnum[T comparable](names map[T]string, s string) (T, bool) {
	want := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	for v, n := range names {
		if n == want {
			return v, true
		}
	}
	var zero T
	return zero, false
}
