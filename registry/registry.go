// Package registry implements the bus's subscriber registry: an ordered
// set of (packet id, queue reference) pairs sorted by packet id then
// queue reference, with duplicates rejected at insertion. Lookup for
// delivery is a linear scan filtered by packet id.
//
// Subscriptions reference their RX queue by index into the bus's queue
// table rather than by pointer, which also sidesteps any ownership
// ambiguity between the registry and the bus.
package registry

import (
	"errors"
	"sort"
)

// ErrFull is returned by Insert when the registry is at capacity.
var ErrFull = errors.New("registry: full")

// ErrDuplicate is returned by Insert when the (pid, queue) pair is
// already present.
var ErrDuplicate = errors.New("registry: duplicate subscription")

// ErrNotFound is returned by Remove when the (pid, queue) pair is absent.
var ErrNotFound = errors.New("registry: not found")

// Sub is one subscription: packet id plus the subscriber's RX-queue
// table index.
type Sub struct {
	PID   uint32
	Queue int
}

func less(a, b Sub) bool {
	if a.PID != b.PID {
		return a.PID < b.PID
	}
	return a.Queue < b.Queue
}

// Registry is an ordered, bounded set of subscriptions.
type Registry struct {
	max  int
	subs []Sub
}

// New creates a Registry bounded to max subscriptions.
func New(max int) *Registry {
	return &Registry{max: max}
}

// Insert adds (pid, queue) to the registry in sorted position. It fails
// with ErrFull at capacity or ErrDuplicate if the pair is already
// present.
func (r *Registry) Insert(pid uint32, queue int) error {
	if len(r.subs) >= r.max {
		return ErrFull
	}

	s := Sub{PID: pid, Queue: queue}
	i := sort.Search(len(r.subs), func(i int) bool { return !less(r.subs[i], s) })
	if i < len(r.subs) && r.subs[i] == s {
		return ErrDuplicate
	}

	r.subs = append(r.subs, Sub{})
	copy(r.subs[i+1:], r.subs[i:])
	r.subs[i] = s
	return nil
}

// Remove deletes (pid, queue) from the registry, failing with
// ErrNotFound if absent.
func (r *Registry) Remove(pid uint32, queue int) error {
	s := Sub{PID: pid, Queue: queue}
	i := sort.Search(len(r.subs), func(i int) bool { return !less(r.subs[i], s) })
	if i >= len(r.subs) || r.subs[i] != s {
		return ErrNotFound
	}
	r.subs = append(r.subs[:i], r.subs[i+1:]...)
	return nil
}

// Query reports whether (pid, queue) is currently subscribed.
func (r *Registry) Query(pid uint32, queue int) bool {
	s := Sub{PID: pid, Queue: queue}
	i := sort.Search(len(r.subs), func(i int) bool { return !less(r.subs[i], s) })
	return i < len(r.subs) && r.subs[i] == s
}

// ForEach calls fn for every subscription matching pid, in (pid, queue)
// order. fn must not mutate the registry.
func (r *Registry) ForEach(pid uint32, fn func(queue int)) {
	// subs are sorted by (pid, queue), so matches form a contiguous run;
	// a full scan is still linear overall and keeps this obviously
	// correct without a second binary search for the run's start.
	for _, s := range r.subs {
		if s.PID == pid {
			fn(s.Queue)
		}
	}
}

// Size returns the number of subscriptions currently registered.
func (r *Registry) Size() int { return len(r.subs) }
