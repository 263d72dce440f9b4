package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/input"
)

func TestExplainReceivers(t *testing.T) {
	player := event.NewObject("player", "Player")
	enemy := event.NewObject("enemy", "Enemy")
	other := event.NewObject("crate", "")

	tests := []struct {
		name   string
		self   *event.Object
		sender *event.Object
		to     event.Receivers
		want   Decision
	}{
		{"broadcast reaches everyone", enemy, player, event.Broadcast(),
			Decision{true, ReasonBroadcast}},
		{"named object", enemy, player, event.ToObjects(other, enemy),
			Decision{true, ReasonNamedObject}},
		{"named object misses others", other, player, event.ToObjects(enemy),
			Decision{false, ReasonNotAddressed}},
		{"tag match", player, nil, event.ToTags("Player"),
			Decision{true, ReasonNamedTag}},
		{"tag miss", enemy, nil, event.ToTags("Player"),
			Decision{false, ReasonNotAddressed}},
		{"empty tag entries ignored", other, nil, event.ToTags("", ""),
			Decision{false, ReasonNotAddressed}},
		{"self sent overrides non-empty list", player, player, event.ToObjects(enemy),
			Decision{true, ReasonSelfSent}},
		{"self sent overrides tag list", player, player, event.ToTags("Enemy"),
			Decision{true, ReasonSelfSent}},
		{"null entry reaches sender", player, player, event.ToObjects(nil),
			Decision{true, ReasonSelfSent}},
		{"null entry skips other participants", enemy, player, event.ToObjects(nil),
			Decision{false, ReasonNotAddressed}},
		{"null entry falls through to tags", enemy, player,
			event.Receivers{Objects: []*event.Object{nil}, Tags: []string{"Enemy"}},
			Decision{true, ReasonNamedTag}},
		{"null in the middle does not hide a match", enemy, nil,
			event.ToObjects(nil, enemy, nil),
			Decision{true, ReasonNamedObject}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := event.NewPayload(tt.sender, tt.to)
			got := Explain(Subject{Object: tt.self}, p)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Accept, ShouldRespond(Subject{Object: tt.self}, p))
		})
	}
}

func TestNullEntryWithTagsMatchesLikeTagsAlone(t *testing.T) {
	player := event.NewObject("player", "Player")
	enemy := event.NewObject("enemy", "Enemy")
	tags := []string{"Enemy"}

	for _, self := range []*event.Object{player, enemy} {
		withNull := event.NewPayload(player, event.Receivers{Objects: []*event.Object{nil}, Tags: tags})
		withoutObjects := event.NewPayload(player, event.Receivers{Tags: tags})
		assert.Equal(t,
			ShouldRespond(Subject{Object: self}, withoutObjects),
			ShouldRespond(Subject{Object: self}, withNull),
			self.Name)
	}
}

func TestNullOnlyListIsNotBroadcast(t *testing.T) {
	sender := event.NewObject("sender", "")
	bystander := event.NewObject("bystander", "")
	p := event.NewPayload(sender, event.Self())

	assert.False(t, p.Receivers.IsBroadcast())
	assert.Equal(t, Decision{true, ReasonSelfSent}, Explain(Subject{Object: sender}, p))
	assert.Equal(t, Decision{false, ReasonNotAddressed}, Explain(Subject{Object: bystander}, p))
}

func TestBroadcastIgnoresActivators(t *testing.T) {
	s := Subject{
		Object:     event.NewObject("door", ""),
		Activators: Activators{Tags: []string{"Key"}},
	}
	assert.True(t, ShouldRespond(s, event.NewPayload(nil, event.Broadcast())))
}

func TestNilPayload(t *testing.T) {
	assert.True(t, ShouldRespond(Subject{Object: event.NewObject("x", "")}, nil))
}

func TestMatchInput(t *testing.T) {
	tests := []struct {
		name     string
		interest InputInterest
		q        input.Qualifiers
		want     bool
	}{
		{"empty interest accepts key", InputInterest{}, input.Qualifiers{Key: "B"}, true},
		{"allowed key", InputInterest{Keys: []input.Key{"A"}}, input.Qualifiers{Key: "A"}, true},
		{"disallowed key", InputInterest{Keys: []input.Key{"A"}}, input.Qualifiers{Key: "B"}, false},
		{"no key pressed", InputInterest{Keys: []input.Key{"A"}}, input.Qualifiers{}, true},
		{"membership not last element", InputInterest{Keys: []input.Key{"A", "C"}}, input.Qualifiers{Key: "A"}, true},
		{"virtual button", InputInterest{Buttons: []string{"Jump"}}, input.Qualifiers{Button: "Fire"}, false},
		{"mouse", InputInterest{MouseButtons: []input.MouseButton{input.MouseRight}},
			input.Qualifiers{MouseButton: input.MouseRight}, true},
		{"gamepad button and number both checked",
			InputInterest{
				GamepadButtons: []input.GamepadButton{input.GamepadA},
				GamepadNumbers: []input.GamepadNumber{input.GamepadOne},
			},
			input.Qualifiers{GamepadButton: input.GamepadA, GamepadNumber: input.GamepadTwo}, false},
		{"independent modalities",
			InputInterest{Keys: []input.Key{"A"}, MouseButtons: []input.MouseButton{input.MouseLeft}},
			input.Qualifiers{Key: "A", MouseButton: input.MouseRight}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchInput(tt.interest, tt.q))
		})
	}
}

func TestInputRejectionOverridesReceiverMatch(t *testing.T) {
	self := event.NewObject("hero", "Player")
	s := Subject{Object: self, Input: InputInterest{Keys: []input.Key{"A"}}}

	p := event.NewPayload(nil, event.Broadcast())
	p.Input.Key = "B"
	assert.Equal(t, Decision{false, ReasonInputRejected}, Explain(s, p))

	p.Input.Key = "A"
	assert.True(t, ShouldRespond(s, p))
}

func TestMatchActivator(t *testing.T) {
	key := event.NewObject("key", "Key")
	rock := event.NewObject("rock", "")

	assert.True(t, MatchActivator(Activators{}, rock))
	assert.True(t, MatchActivator(Activators{Objects: []*event.Object{nil}, Tags: []string{""}}, rock))
	assert.True(t, MatchActivator(Activators{Objects: []*event.Object{key}}, key))
	assert.True(t, MatchActivator(Activators{Tags: []string{"Key"}}, key))
	assert.False(t, MatchActivator(Activators{Tags: []string{"Key"}}, rock))
	assert.False(t, MatchActivator(Activators{Objects: []*event.Object{key}}, rock))
	assert.False(t, MatchActivator(Activators{Tags: []string{"Key"}}, nil))
}

func TestActivatorAppliesToAddressedEvents(t *testing.T) {
	door := event.NewObject("door", "")
	key := event.NewObject("key", "Key")
	rock := event.NewObject("rock", "")
	s := Subject{Object: door, Activators: Activators{Tags: []string{"Key"}}}

	assert.True(t, ShouldRespond(s, event.NewPayload(key, event.ToObjects(door))))
	assert.Equal(t, Decision{false, ReasonActivatorRejected},
		Explain(s, event.NewPayload(rock, event.ToObjects(door))))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "self sent", ReasonSelfSent.String())
}
