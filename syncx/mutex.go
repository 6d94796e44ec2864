// Package syncx provides the synchronization primitives swbus's other
// component packages are built from: a plain mutex, a counting semaphore,
// and a writer-preferring reader/writer lock.
package syncx

import "sync"

// Mutex is a thin, non-recursive lock. It exists as its own type (rather
// than callers using sync.Mutex directly) so every component that embeds
// one documents its locking contract the same way and so future
// instrumentation (contention counters, lock-order assertions) has a
// single seam.
type Mutex struct {
	impl sync.Mutex
}

// Lock blocks until the mutex is held by the calling goroutine.
func (m *Mutex) Lock() { m.impl.Lock() }

// Unlock releases the mutex. Unlocking an already-unlocked Mutex panics,
// matching sync.Mutex.
func (m *Mutex) Unlock() { m.impl.Unlock() }
