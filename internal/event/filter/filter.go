// Package filter decides whether a participant should act on an event it
// has already been handed by the bus.
//
// The bus calls every subscriber of a kind; addressing is checked
// afterwards, inside the handler, against the payload's receiver
// selector, its input qualifiers and the sender. All functions here are
// pure.
package filter

import (
	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/input"
)

// Subject is what the filter knows about the participant asking.
type Subject struct {
	Object     *event.Object
	Input      InputInterest
	Activators Activators
}

// Reason explains a Decision.
type Reason int

const (
	ReasonBroadcast Reason = iota
	ReasonNamedObject
	ReasonNamedTag
	ReasonSelfSent
	ReasonNotAddressed
	ReasonInputRejected
	ReasonActivatorRejected
)

var reasonNames = map[Reason]string{
	ReasonBroadcast:         "broadcast",
	ReasonNamedObject:       "named object",
	ReasonNamedTag:          "named tag",
	ReasonSelfSent:          "self sent",
	ReasonNotAddressed:      "not addressed",
	ReasonInputRejected:     "input rejected",
	ReasonActivatorRejected: "activator rejected",
}

func (r Reason) String() string { return reasonNames[r] }

// Decision is the outcome of Explain.
type Decision struct {
	Accept bool
	Reason Reason
}

// ShouldRespond reports whether s should act on p.
func ShouldRespond(s Subject, p *event.Payload) bool {
	return Explain(s, p).Accept
}

// Explain evaluates the receiver selector, input qualifiers and
// activators of p for s, in that order:
//
//  1. Both receiver lists empty is a broadcast; only the input check
//     applies.
//  2. s's object listed among the receiver objects matches.
//  3. s's tag listed among the non-empty receiver tags matches.
//  4. Otherwise s matches only when it is the sender. A list holding
//     only nil objects or empty tags therefore reaches the sender alone.
//
// A nil object entry is read as "no object named here", not as "no list":
// it falls through to the tags and then to the sender, and never turns
// the selector into a broadcast. Only genuinely empty lists broadcast.
//
// Matches from rules 2 to 4 also require the sender to pass s's
// activator list.
func Explain(s Subject, p *event.Payload) Decision {
	if p == nil {
		p = &event.Payload{}
	}
	inputOK := MatchInput(s.Input, p.Input)

	if p.Receivers.IsBroadcast() {
		return decide(ReasonBroadcast, inputOK, true)
	}

	reason, ok := MatchReceivers(s.Object, p)
	if !ok {
		return Decision{Reason: ReasonNotAddressed}
	}
	return decide(reason, inputOK, MatchActivator(s.Activators, p.Sender))
}

func decide(r Reason, inputOK, activatorOK bool) Decision {
	switch {
	case !inputOK:
		return Decision{Reason: ReasonInputRejected}
	case !activatorOK:
		return Decision{Reason: ReasonActivatorRejected}
	}
	return Decision{Accept: true, Reason: r}
}

// MatchReceivers applies the explicit receiver lists and the self-sent
// override. It does not treat empty lists as a broadcast.
func MatchReceivers(self *event.Object, p *event.Payload) (Reason, bool) {
	if self == nil || p == nil {
		return ReasonNotAddressed, false
	}
	for _, o := range p.Receivers.Objects {
		if o != nil && o == self {
			return ReasonNamedObject, true
		}
	}
	for _, tag := range p.Receivers.Tags {
		if self.HasTag(tag) {
			return ReasonNamedTag, true
		}
	}
	if p.Sender == self {
		return ReasonSelfSent, true
	}
	return ReasonNotAddressed, false
}

// InputInterest restricts a participant to specific device inputs. An
// empty list accepts anything for that modality.
type InputInterest struct {
	Buttons        []string
	Keys           []input.Key
	MouseButtons   []input.MouseButton
	GamepadButtons []input.GamepadButton
	GamepadNumbers []input.GamepadNumber
}

// MatchInput checks every modality independently; all must pass. A
// qualifier at its sentinel passes any list.
func MatchInput(in InputInterest, q input.Qualifiers) bool {
	return allowed(in.Buttons, q.Button, "") &&
		allowed(in.Keys, q.Key, input.KeyNone) &&
		allowed(in.MouseButtons, q.MouseButton, input.MouseAny) &&
		allowed(in.GamepadButtons, q.GamepadButton, input.GamepadAny) &&
		allowed(in.GamepadNumbers, q.GamepadNumber, input.GamepadNumberAny)
}

func allowed[T comparable](list []T, v, sentinel T) bool {
	if v == sentinel || len(list) == 0 {
		return true
	}
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Activators restrict which senders a participant reacts to, typically
// the other party of a collision. Lists holding only nil objects and
// empty tags accept every sender.
type Activators struct {
	Objects []*event.Object
	Tags    []string
}

// MatchActivator reports whether sender passes a.
func MatchActivator(a Activators, sender *event.Object) bool {
	for _, o := range a.Objects {
		if o == sender {
			return true
		}
	}
	for _, tag := range a.Tags {
		if sender.HasTag(tag) {
			return true
		}
	}
	for _, o := range a.Objects {
		if o != nil {
			return false
		}
	}
	for _, tag := range a.Tags {
		if tag != "" {
			return false
		}
	}
	return true
}
