// Package schema gives the positional payload slots of each kind family a
// typed shape. Producers call Encode, consumers call the matching Decode
// function; a false ok means the slots were missing and the event should
// be ignored.
package schema

import (
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
)

// Modify is the layout of CounterModify and HealthModified: Bools[0]
// selects set (true) or add (false), Ints[0] is the amount.
type Modify struct {
	Set   bool
	Value int
}

// Encode appends the modify slots to p.
func (m Modify) Encode(p *event.Payload) *event.Payload {
	return p.AddBool(m.Set).AddInt(m.Value)
}

// Apply returns the result of applying m to current.
func (m Modify) Apply(current int) int {
	if m.Set {
		return m.Value
	}
	return current + m.Value
}

// DecodeModify reads a Modify layout.
func DecodeModify(p *event.Payload) (Modify, bool) {
	set, ok := p.Bool(0)
	if !ok {
		return Modify{}, false
	}
	v, ok := p.Int(0)
	if !ok {
		return Modify{}, false
	}
	return Modify{Set: set, Value: v}, true
}

// Display is the layout of DisplayUpdate: Floats[0] current, Floats[1]
// maximum. Max may be absent for displays that only show a value; a
// negative Max means unbounded.
type Display struct {
	Current float32
	Max     float32
}

// Encode appends the display slots to p.
func (d Display) Encode(p *event.Payload) *event.Payload {
	return p.AddFloat(d.Current, d.Max)
}

// DecodeDisplay reads a Display layout. Only the current value is
// required.
func DecodeDisplay(p *event.Payload) (Display, bool) {
	cur, ok := p.Float(0)
	if !ok {
		return Display{}, false
	}
	limit, ok := p.Float(1)
	if !ok {
		limit = -1
	}
	return Display{Current: cur, Max: limit}, true
}

// AudioLevels is the layout of AudioLevelsAdjusted: Floats[0] master,
// then music, sfx and voice, each in [0, 1].
type AudioLevels struct {
	Master float32
	Music  float32
	SFX    float32
	Voice  float32
}

// Channel is one audio channel scaled by the master level.
type Channel int

const (
	ChannelSFX Channel = iota
	ChannelMusic
	ChannelVoice
)

func (c Channel) String() string {
	switch c {
	case ChannelSFX:
		return "sfx"
	case ChannelMusic:
		return "music"
	case ChannelVoice:
		return "voice"
	}
	return "unknown"
}

// Encode appends the audio slots to p.
func (a AudioLevels) Encode(p *event.Payload) *event.Payload {
	return p.AddFloat(a.Master, a.Music, a.SFX, a.Voice)
}

// Volume returns the effective volume of c: its level times master.
func (a AudioLevels) Volume(c Channel) float32 {
	switch c {
	case ChannelMusic:
		return a.Music * a.Master
	case ChannelVoice:
		return a.Voice * a.Master
	}
	return a.SFX * a.Master
}

// DecodeAudioLevels reads an AudioLevels layout.
func DecodeAudioLevels(p *event.Payload) (AudioLevels, bool) {
	if p == nil || len(p.Floats) < 4 {
		return AudioLevels{}, false
	}
	return AudioLevels{Master: p.Floats[0], Music: p.Floats[1], SFX: p.Floats[2], Voice: p.Floats[3]}, true
}

// Difficulty is the layout of DifficultyLevelAdjusted: Ints[0] level.
type Difficulty struct {
	Level int
}

// Encode appends the difficulty slot to p.
func (d Difficulty) Encode(p *event.Payload) *event.Payload {
	return p.AddInt(d.Level)
}

// DecodeDifficulty reads a Difficulty layout.
func DecodeDifficulty(p *event.Payload) (Difficulty, bool) {
	lvl, ok := p.Int(0)
	return Difficulty{Level: lvl}, ok
}

// Text is the layout of TypingTextUpdate and TypingTextComplete:
// Strings[0] is the text typed so far.
type Text struct {
	Value string
}

// Encode appends the text slot to p.
func (t Text) Encode(p *event.Payload) *event.Payload {
	return p.AddString(t.Value)
}

// DecodeText reads a Text layout.
func DecodeText(p *event.Payload) (Text, bool) {
	s, ok := p.Text(0)
	return Text{Value: s}, ok
}

// Layout documents the slots a kind carries.
type Layout struct {
	Kinds []kind.Kind
	Slots []string
}

var layouts = []Layout{
	{Kinds: []kind.Kind{kind.CounterModify, kind.HealthModified},
		Slots: []string{"bools[0] set instead of add", "ints[0] amount"}},
	{Kinds: []kind.Kind{kind.DisplayUpdate},
		Slots: []string{"floats[0] current", "floats[1] max (optional)"}},
	{Kinds: []kind.Kind{kind.AudioLevelsAdjusted},
		Slots: []string{"floats[0] master", "floats[1] music", "floats[2] sfx", "floats[3] voice"}},
	{Kinds: []kind.Kind{kind.DifficultyLevelAdjusted},
		Slots: []string{"ints[0] level"}},
	{Kinds: []kind.Kind{kind.TypingTextUpdate, kind.TypingTextComplete},
		Slots: []string{"strings[0] visible text"}},
}

// Layouts returns the documented slot layouts.
func Layouts() []Layout {
	out := make([]Layout, len(layouts))
	copy(out, layouts)
	return out
}

// For returns the documented slots of k, or nil when k carries none.
func For(k kind.Kind) []string {
	for _, l := range layouts {
		for _, x := range l.Kinds {
			if x == k {
				return l.Slots
			}
		}
	}
	return nil
}
