package dispatch

import (
	"context"
	"sync/atomic"
	"time"
)

// SyncDispatcher executes calls synchronously in the caller's goroutine
// and keeps running totals.
type SyncDispatcher struct {
	executor *Executor

	dispatched  atomic.Uint64
	succeeded   atomic.Uint64
	panicked    atomic.Uint64
	skipped     atomic.Uint64
	totalTimeNs atomic.Int64
}

// SyncOption configures a SyncDispatcher.
type SyncOption func(*SyncDispatcher)

// WithPanicHandler sets the panic handler for the dispatcher.
func WithPanicHandler(h PanicHandler) SyncOption {
	return func(d *SyncDispatcher) {
		d.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// NewSyncDispatcher creates a new synchronous dispatcher.
func NewSyncDispatcher(opts ...SyncOption) *SyncDispatcher {
	d := &SyncDispatcher{
		executor: NewExecutor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs call and blocks until it returns or panics.
func (d *SyncDispatcher) Dispatch(ctx context.Context, label string, call Call) Result {
	d.dispatched.Add(1)

	result := d.executor.Execute(ctx, label, call)
	d.totalTimeNs.Add(result.Duration.Nanoseconds())

	switch {
	case result.Skipped:
		d.skipped.Add(1)
	case result.Panicked:
		d.panicked.Add(1)
	case result.Success:
		d.succeeded.Add(1)
	}
	return result
}

// Stats returns dispatch statistics. Values are read individually and may
// be slightly inconsistent under concurrent dispatch.
func (d *SyncDispatcher) Stats() Stats {
	dispatched := d.dispatched.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if dispatched > 0 {
		avgNs = totalNs / int64(dispatched)
	}

	return Stats{
		Dispatched:    dispatched,
		Succeeded:     d.succeeded.Load(),
		Panicked:      d.panicked.Load(),
		Skipped:       d.skipped.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *SyncDispatcher) ResetStats() {
	d.dispatched.Store(0)
	d.succeeded.Store(0)
	d.panicked.Store(0)
	d.skipped.Store(0)
	d.totalTimeNs.Store(0)
}

// Stats contains statistics for a dispatcher.
type Stats struct {
	Dispatched    uint64
	Succeeded     uint64
	Panicked      uint64
	Skipped       uint64
	TotalDuration time.Duration
	AvgDuration   time.Duration
}
