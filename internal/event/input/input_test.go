package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyUsesSentinels(t *testing.T) {
	q := Any()
	assert.Equal(t, "", q.Button)
	assert.Equal(t, KeyNone, q.Key)
	assert.Equal(t, MouseAny, q.MouseButton)
	assert.Equal(t, GamepadAny, q.GamepadButton)
	assert.Equal(t, GamepadNumberAny, q.GamepadNumber)
}

func TestParseEnums(t *testing.T) {
	mb, ok := ParseMouseButton("middle scroll up")
	assert.True(t, ok)
	assert.Equal(t, MouseScrollUp, mb)

	gb, ok := ParseGamepadButton("dpad_left")
	assert.True(t, ok)
	assert.Equal(t, GamepadDpadLeft, gb)

	n, ok := ParseGamepadNumber("three")
	assert.True(t, ok)
	assert.Equal(t, GamepadThree, n)

	_, ok = ParseGamepadButton("Z")
	assert.False(t, ok)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "RIGHT_TRIGGER", GamepadRightTrigger.String())
	assert.Equal(t, "ANY", MouseAny.String())
	assert.Equal(t, "UNKNOWN", GamepadNumber(42).String())
}

func TestZeroQualifiersAreAny(t *testing.T) {
	assert.Equal(t, Any(), Qualifiers{})
}
