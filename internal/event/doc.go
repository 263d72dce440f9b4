// Package event is the dispatch core of the gameplay event bus.
//
// Components never reference each other directly. A publisher fires a
// selection of kinds with a Payload; every handler subscribed to one of
// those kinds is called, synchronously and in subscription order, before
// Publish returns. Handlers may publish again from inside a handler; the
// nested publish completes before the outer one moves on.
//
// # Architecture
//
//	                 ┌─────────────────────────────────────┐
//	                 │                Bus                  │
//	                 │  - per-kind subscriber lists        │
//	                 │  - snapshot-then-iterate publish    │
//	                 │  - panic isolation (dispatch pkg)   │
//	                 └─────────────────────────────────────┘
//	                                  │
//	        ┌─────────────────────────┼─────────────────────────┐
//	        ▼                         ▼                         ▼
//	┌────────────────┐       ┌─────────────────┐       ┌─────────────────┐
//	│    Registry    │       │  Subscription   │       │   Publisher     │
//	│ copy-on-write  │       │  scoped token,  │       │  fixed sender,  │
//	│ lists by kind  │       │  Cancel()       │       │  map adapter    │
//	└────────────────┘       └─────────────────┘       └─────────────────┘
//
// The bus does not decide who an event is for. Addressing lives in the
// payload (Receivers) and each handler checks it with the filter package
// after being called.
//
// # Usage
//
//	bus := event.NewBus(event.WithLogger(log))
//	sub, _ := bus.Subscribe(kind.Death, lives)
//	defer sub.Cancel()
//
//	bus.Publish(ctx, kind.Select(kind.Death),
//	    event.NewPayload(player, event.ToTags("Player")))
//
// # Steady-state misses
//
// Publishing a kind nobody listens to and removing a handler that is not
// subscribed are silent no-ops. A handler that finds the slot data it
// expects missing ignores the event.
package event
