package dispatch

import (
	"context"
	"testing"
)

func TestResult_IsSuccess(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected bool
	}{
		{"success", Result{Success: true}, true},
		{"panic", Result{Panicked: true}, false},
		{"skipped", Result{Skipped: true, Err: context.Canceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsSuccess(); got != tt.expected {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSyncDispatcher_Dispatch(t *testing.T) {
	d := NewSyncDispatcher()
	called := false

	result := d.Dispatch(context.Background(), "h", func(context.Context) {
		called = true
	})

	if !called {
		t.Error("call was not invoked")
	}
	if !result.IsSuccess() {
		t.Errorf("expected success, got %+v", result)
	}
}

func TestSyncDispatcher_RecoversPanic(t *testing.T) {
	var gotLabel string
	var gotValue any
	d := NewSyncDispatcher(WithPanicHandler(func(label string, v any, stack []byte) {
		gotLabel = label
		gotValue = v
		if len(stack) == 0 {
			t.Error("expected a stack trace")
		}
	}))

	result := d.Dispatch(context.Background(), "boom-handler", func(context.Context) {
		panic("boom")
	})

	if !result.Panicked {
		t.Fatal("expected Panicked result")
	}
	if result.PanicValue != "boom" {
		t.Errorf("PanicValue = %v, want boom", result.PanicValue)
	}
	if gotLabel != "boom-handler" || gotValue != "boom" {
		t.Errorf("panic handler got (%q, %v)", gotLabel, gotValue)
	}
}

func TestSyncDispatcher_PanicHandlerPanics(t *testing.T) {
	d := NewSyncDispatcher(WithPanicHandler(func(string, any, []byte) {
		panic("handler of handler")
	}))

	result := d.Dispatch(context.Background(), "h", func(context.Context) { panic("first") })
	if !result.Panicked {
		t.Error("expected Panicked result")
	}
}

func TestSyncDispatcher_SkipsCancelledContext(t *testing.T) {
	d := NewSyncDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	result := d.Dispatch(ctx, "h", func(context.Context) { called = true })

	if called {
		t.Error("call ran with a cancelled context")
	}
	if !result.Skipped || result.Err != context.Canceled {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestSyncDispatcher_Stats(t *testing.T) {
	d := NewSyncDispatcher()
	ctx := context.Background()

	d.Dispatch(ctx, "ok", func(context.Context) {})
	d.Dispatch(ctx, "ok", func(context.Context) {})
	d.Dispatch(ctx, "bad", func(context.Context) { panic("x") })

	stats := d.Stats()
	if stats.Dispatched != 3 {
		t.Errorf("Dispatched = %d, want 3", stats.Dispatched)
	}
	if stats.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", stats.Succeeded)
	}
	if stats.Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", stats.Panicked)
	}

	d.ResetStats()
	if d.Stats().Dispatched != 0 {
		t.Error("ResetStats did not clear counters")
	}
}
