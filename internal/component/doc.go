// Package component provides the engine-independent gameplay leaves that
// sit on top of the bus: counters, health, lives, timers, relays, text
// displays, typing text, pause and active-state switches, and the
// difficulty and volume option managers with their indicators.
//
// Every component embeds *participant.Participant, so it honors the bus
// pause state, runs the receiver filter as the first step of each
// handler, and detaches everything on Close. Components are
// driven by a single host goroutine; nested publishes re-enter handlers
// on the same stack, so component state is not guarded by locks.
//
// Outgoing events are addressed per role. A component declares the
// roles it publishes to (for example "display" or "death"); a role that
// is not configured addresses the component's own object, the same
// default event.Self gives.
//
// Components can be constructed directly or by type name through a
// Registry, which decodes loosely typed parameters:
//
//	reg := component.Builtin()
//	m, err := reg.Build(bus, "counter", component.Config{
//	    Object: obj,
//	    Params: component.Params{"value": 10, "max": 12},
//	})
package component
