package event

import (
	"github.com/google/uuid"

	"github.com/dshills/lpk/internal/event/input"
)

// Object is the identity of a scene object taking part in events. Two
// objects are the same participant only when they are the same pointer; a
// nil *Object is the absent object.
type Object struct {
	ID   string
	Name string
	Tag  string
}

// NewObject creates an object with a fresh identifier.
func NewObject(name, tag string) *Object {
	return &Object{
		ID:   uuid.NewString(),
		Name: name,
		Tag:  tag,
	}
}

// HasTag reports whether o carries the non-empty tag.
func (o *Object) HasTag(tag string) bool {
	return o != nil && tag != "" && o.Tag == tag
}

func (o *Object) String() string {
	if o == nil {
		return "<none>"
	}
	if o.Tag != "" {
		return o.Name + "#" + o.Tag
	}
	return o.Name
}

// Receivers selects who an event is addressed to.
//
// Both lists empty addresses everyone. A nil entry in Objects (or an empty
// string in Tags) stands for "only the sender": a participant whose own
// object published the event accepts it when nothing else matched.
type Receivers struct {
	Objects []*Object
	Tags    []string
}

// Self is the default selector: only the sender itself.
func Self() Receivers {
	return Receivers{Objects: []*Object{nil}}
}

// Broadcast addresses every participant.
func Broadcast() Receivers {
	return Receivers{}
}

// ToObjects addresses the listed objects.
func ToObjects(objs ...*Object) Receivers {
	return Receivers{Objects: objs}
}

// ToTags addresses every participant carrying one of the tags.
func ToTags(tags ...string) Receivers {
	return Receivers{Tags: tags}
}

// IsBroadcast reports whether both lists are empty.
func (r Receivers) IsBroadcast() bool {
	return len(r.Objects) == 0 && len(r.Tags) == 0
}

// Vec3 is a three component vector.
type Vec3 struct {
	X, Y, Z float32
}

// Payload is the data record handed to every handler of a publish. The
// same pointer is given to all handlers, so writes by one handler are
// visible to the ones after it.
//
// Slot meaning is positional and agreed per kind between publisher and
// subscriber. A handler that finds a slot missing ignores the event.
type Payload struct {
	Sender    *Object
	Receivers Receivers

	Ints    []int
	Bools   []bool
	Floats  []float32
	Doubles []float64
	Strings []string
	Vectors []Vec3

	Input input.Qualifiers
}

// NewPayload creates a payload with no slot data and every input
// qualifier at its sentinel.
func NewPayload(sender *Object, to Receivers) *Payload {
	return &Payload{Sender: sender, Receivers: to}
}

func (p *Payload) AddInt(v ...int) *Payload { p.Ints = append(p.Ints, v...); return p }
func (p *Payload) AddBool(v ...bool) *Payload { p.Bools = append(p.Bools, v...); return p }
func (p *Payload) AddFloat(v ...float32) *Payload { p.Floats = append(p.Floats, v...); return p }
func (p *Payload) AddDouble(v ...float64) *Payload { p.Doubles = append(p.Doubles, v...); return p }
func (p *Payload) AddString(v ...string) *Payload { p.Strings = append(p.Strings, v...); return p }
func (p *Payload) AddVector(v ...Vec3) *Payload { p.Vectors = append(p.Vectors, v...); return p }
func (p *Payload) WithInput(q input.Qualifiers) *Payload { p.Input = q; return p }

// Int returns slot i of Ints. ok is false when the slot is missing.
func (p *Payload) Int(i int) (v int, ok bool) {
	if p == nil || i < 0 || i >= len(p.Ints) {
		return 0, false
	}
	return p.Ints[i], true
}

// Bool returns slot i of Bools.
func (p *Payload) Bool(i int) (v bool, ok bool) {
	if p == nil || i < 0 || i >= len(p.Bools) {
		return false, false
	}
	return p.Bools[i], true
}

// Float returns slot i of Floats.
func (p *Payload) Float(i int) (v float32, ok bool) {
	if p == nil || i < 0 || i >= len(p.Floats) {
		return 0, false
	}
	return p.Floats[i], true
}

// Double returns slot i of Doubles.
func (p *Payload) Double(i int) (v float64, ok bool) {
	if p == nil || i < 0 || i >= len(p.Doubles) {
		return 0, false
	}
	return p.Doubles[i], true
}

// Text returns slot i of Strings.
func (p *Payload) Text(i int) (v string, ok bool) {
	if p == nil || i < 0 || i >= len(p.Strings) {
		return "", false
	}
	return p.Strings[i], true
}

// Vector returns slot i of Vectors.
func (p *Payload) Vector(i int) (v Vec3, ok bool) {
	if p == nil || i < 0 || i >= len(p.Vectors) {
		return Vec3{}, false
	}
	return p.Vectors[i], true
}
