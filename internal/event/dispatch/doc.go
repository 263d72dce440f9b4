// Package dispatch runs event handler invocations for the bus.
//
// Every invocation runs synchronously in the publisher's goroutine. The
// executor recovers handler panics so that one misbehaving handler cannot
// stop delivery to the handlers after it, and reports them through a
// PanicHandler callback together with the stack trace.
//
// A context that is already cancelled skips the invocation; the handler is
// never interrupted once it has started.
//
//	d := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(label string, v any, stack []byte) {
//	        log.Error().Str("handler", label).Interface("panic", v).Send()
//	    }),
//	)
//	res := d.Dispatch(ctx, "counter", func(ctx context.Context) { ... })
package dispatch
