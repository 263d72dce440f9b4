package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/dshills/lpk/internal/event"
	"github.com/dshills/lpk/internal/event/kind"
)

// Timeline holds the host-injected events of a scene, ordered by frame.
// Entries on the same frame keep their file order.
type Timeline struct {
	entries []timed
	resolve event.Resolver
}

type timed struct {
	index int
	entry Entry
	kinds kind.Selection
}

// NewTimeline orders entries by frame. Names in entries are resolved
// against resolve each time an entry is published.
func NewTimeline(entries []Entry, resolve event.Resolver) (*Timeline, error) {
	t := &Timeline{resolve: resolve, entries: make([]timed, 0, len(entries))}
	for i, e := range entries {
		sel, unknown := kind.ParseSelection(e.Kinds)
		if len(unknown) > 0 {
			return nil, fmt.Errorf("timeline[%d]: %w: %v", i, event.ErrUnknownKind, unknown)
		}
		if e.Frame < 0 {
			return nil, fmt.Errorf("timeline[%d]: negative frame %d", i, e.Frame)
		}
		t.entries = append(t.entries, timed{index: i, entry: e, kinds: sel})
	}
	slices.SortStableFunc(t.entries, func(a, b timed) int { return a.entry.Frame - b.entry.Frame })
	return t, nil
}

// Len returns the number of entries.
func (t *Timeline) Len() int { return len(t.entries) }

// LastFrame returns the frame of the last entry, or -1 when empty.
func (t *Timeline) LastFrame() int {
	if len(t.entries) == 0 {
		return -1
	}
	return t.entries[len(t.entries)-1].entry.Frame
}

// Publish publishes the entries due at frame and returns how many were
// published. Each entry gets a fresh payload since handlers may modify
// it.
func (t *Timeline) Publish(ctx context.Context, bus event.Bus, frame int) (int, error) {
	start, _ := slices.BinarySearchFunc(t.entries, frame, func(e timed, f int) int { return e.entry.Frame - f })
	n := 0
	for _, e := range t.entries[start:] {
		if e.entry.Frame != frame {
			break
		}
		pl, err := e.entry.payload(t.resolve)
		if err != nil {
			return n, fmt.Errorf("timeline[%d]: %w", e.index, err)
		}
		bus.Publish(ctx, e.kinds, pl)
		n++
	}
	return n, nil
}
