package event

import (
	"sync"

	"github.com/dshills/lpk/internal/event/kind"
)

// Registry holds the subscriber list of every kind. Lists are replaced on
// every change rather than edited in place, so a snapshot taken for a
// publish stays valid while handlers subscribe and unsubscribe.
//
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	lists [kind.Count][]*Subscription
	byID  map[string]*Subscription
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Subscription),
	}
}

// Add appends sub to the end of its kind's list.
func (r *Registry) Add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := sub.Kind()
	old := r.lists[k]
	next := make([]*Subscription, len(old), len(old)+1)
	copy(next, old)
	r.lists[k] = append(next, sub)
	r.byID[sub.ID()] = sub
}

// Contains reports whether h is subscribed to k.
func (r *Registry) Contains(k kind.Kind, h Handler) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.lists[k] {
		if sameHandler(s.handler, h) {
			return true
		}
	}
	return false
}

// Get returns a subscription by ID.
func (r *Registry) Get(id string) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.byID[id]
	return sub, ok
}

// Snapshot returns the current list for k. Callers must not modify it.
func (r *Registry) Snapshot(k kind.Kind) []*Subscription {
	if !k.Valid() {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lists[k]
}

// RemoveLatest removes the most recently added subscription of h to k
// and returns it, or nil when h is not subscribed.
func (r *Registry) RemoveLatest(k kind.Kind, h Handler) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.lists[k]
	for i := len(list) - 1; i >= 0; i-- {
		if sameHandler(list[i].handler, h) {
			sub := list[i]
			r.removeAt(k, i)
			return sub
		}
	}
	return nil
}

// RemoveHandler removes every subscription of h across all kinds.
func (r *Registry) RemoveHandler(h Handler) []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []*Subscription
	for k := range r.lists {
		list := r.lists[k]
		kept := make([]*Subscription, 0, len(list))
		for _, s := range list {
			if sameHandler(s.handler, h) {
				removed = append(removed, s)
				delete(r.byID, s.ID())
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) != len(list) {
			r.lists[k] = kept
		}
	}
	return removed
}

// remove drops one specific subscription.
func (r *Registry) remove(sub *Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := sub.Kind()
	for i, s := range r.lists[k] {
		if s == sub {
			r.removeAt(k, i)
			return true
		}
	}
	return false
}

// removeAt must be called with the write lock held.
func (r *Registry) removeAt(k kind.Kind, i int) {
	old := r.lists[k]
	delete(r.byID, old[i].ID())
	if len(old) == 1 {
		r.lists[k] = nil
		return
	}
	next := make([]*Subscription, 0, len(old)-1)
	next = append(next, old[:i]...)
	r.lists[k] = append(next, old[i+1:]...)
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountKind returns the number of subscriptions to k.
func (r *Registry) CountKind(k kind.Kind) int {
	if !k.Valid() {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lists[k])
}

// Kinds returns the kinds that currently have subscribers.
func (r *Registry) Kinds() kind.Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out kind.Selection
	for k := range r.lists {
		if len(r.lists[k]) > 0 {
			out = append(out, kind.Kind(k))
		}
	}
	return out
}

// Clear removes every subscription and returns them.
func (r *Registry) Clear() []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*Subscription
	for k := range r.lists {
		all = append(all, r.lists[k]...)
		r.lists[k] = nil
	}
	r.byID = make(map[string]*Subscription)
	return all
}
