package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/lpk/internal/event/input"
)

func TestNewPayloadDefaults(t *testing.T) {
	sender := NewObject("player", "Player")
	p := NewPayload(sender, Self())

	assert.Same(t, sender, p.Sender)
	assert.Equal(t, []*Object{nil}, p.Receivers.Objects)
	assert.Equal(t, input.Any(), p.Input)
	assert.Empty(t, p.Ints)
}

func TestSlotAccessorsReportMissingData(t *testing.T) {
	p := (&Payload{}).AddInt(3).AddBool(true).AddFloat(1.5).AddString("hi")

	v, ok := p.Int(0)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = p.Int(1)
	assert.False(t, ok)

	b, ok := p.Bool(0)
	assert.True(t, ok && b)

	_, ok = p.Double(0)
	assert.False(t, ok)

	s, ok := p.Text(0)
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = p.Vector(-1)
	assert.False(t, ok)

	var nilPayload *Payload
	_, ok = nilPayload.Float(0)
	assert.False(t, ok)
}

func TestObjectHasTag(t *testing.T) {
	o := NewObject("goblin", "Enemy")
	assert.True(t, o.HasTag("Enemy"))
	assert.False(t, o.HasTag(""))
	assert.False(t, o.HasTag("Player"))

	var none *Object
	assert.False(t, none.HasTag("Enemy"))
	assert.Equal(t, "<none>", none.String())
	assert.Equal(t, "goblin#Enemy", o.String())
	assert.NotEqual(t, o.ID, NewObject("goblin", "Enemy").ID)
}

func TestReceiversHelpers(t *testing.T) {
	assert.True(t, Broadcast().IsBroadcast())
	assert.False(t, Self().IsBroadcast())
	assert.False(t, ToTags("Player").IsBroadcast())
}
