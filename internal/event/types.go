package event

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dshills/lpk/internal/event/kind"
)

// Handler receives events. The kind tells a handler subscribed to several
// kinds which one fired.
//
// Handlers implemented on pointer types can be removed with
// Bus.Unsubscribe and Bus.UnsubscribeAll. Function handlers cannot be
// compared; detach them through their Subscription.
type Handler interface {
	HandleEvent(ctx context.Context, k kind.Kind, p *Payload)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, k kind.Kind, p *Payload)

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, k kind.Kind, p *Payload) {
	f(ctx, k, p)
}

// sameHandler reports whether a and b are the same comparable handler.
// Non-comparable handlers never match anything.
func sameHandler(a, b Handler) (same bool) {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	// Struct handlers holding funcs pass Comparable but panic on ==.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// handlerLabel names a handler in logs.
func handlerLabel(h Handler) string {
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", h)
}
