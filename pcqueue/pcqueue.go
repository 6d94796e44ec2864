// Package pcqueue implements PCQUEUE: a bounded FIFO guarded by a mutex
// and two counting semaphores (slots available, slots in use), giving
// blocking, try, and timed push/pop/peek over an arbitrary element type.
//
// One producer and one consumer observe FIFO ordering; with multiple
// producers or consumers, ordering is not guaranteed beyond per-call
// atomicity, but the queue remains safe for concurrent use in arbitrary
// multiplicity.
package pcqueue

import (
	"context"
	"errors"

	"github.com/agilira/swbus/fifo"
	"github.com/agilira/swbus/syncx"
)

// ErrTimeout is returned by the timed variants when their deadline
// elapses before a slot becomes available.
var ErrTimeout = errors.New("pcqueue: timeout")

// Queue is a producer-consumer queue of elements of type T.
type Queue[T any] struct {
	mu         syncx.Mutex
	fifo       *fifo.Fifo[T]
	slotsAvail *syncx.CSem
	slotsInUse *syncx.CSem
	capacity   int
}

// New creates a Queue with the given capacity.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		fifo:       fifo.New[T](capacity),
		slotsAvail: syncx.NewCSem(capacity, capacity),
		slotsInUse: syncx.NewCSem(0, capacity),
		capacity:   capacity,
	}
}

// Push waits for a free slot, then enqueues e. It only returns a non-nil
// error if the inner FIFO rejects the add, which cannot happen under the
// slot-counting invariant this type maintains.
func (q *Queue[T]) Push(e T) error {
	q.slotsAvail.Wait()

	q.mu.Lock()
	err := q.fifo.Add(e)
	q.mu.Unlock()

	if err != nil {
		q.slotsAvail.Post() // give the slot back, nothing was enqueued
		return err
	}
	q.slotsInUse.Post()
	return nil
}

// TryPush enqueues e without blocking, reporting false if the queue is
// full.
func (q *Queue[T]) TryPush(e T) bool {
	if !q.slotsAvail.TryWait() {
		return false
	}

	q.mu.Lock()
	err := q.fifo.Add(e)
	q.mu.Unlock()

	if err != nil {
		q.slotsAvail.Post()
		return false
	}
	q.slotsInUse.Post()
	return true
}

// TimedPush enqueues e, failing with ErrTimeout if ctx is done before a
// slot becomes free.
func (q *Queue[T]) TimedPush(ctx context.Context, e T) error {
	if err := q.slotsAvail.TimedWait(ctx); err != nil {
		return ErrTimeout
	}

	q.mu.Lock()
	err := q.fifo.Add(e)
	q.mu.Unlock()

	if err != nil {
		q.slotsAvail.Post()
		return err
	}
	q.slotsInUse.Post()
	return nil
}

// Pop waits for an element to be available, then dequeues it into out.
func (q *Queue[T]) Pop(out *T) error {
	q.slotsInUse.Wait()

	q.mu.Lock()
	err := q.fifo.Remove(out)
	q.mu.Unlock()

	if err != nil {
		q.slotsInUse.Post()
		return err
	}
	q.slotsAvail.Post()
	return nil
}

// TryPop dequeues into out without blocking, reporting false if empty.
func (q *Queue[T]) TryPop(out *T) bool {
	if !q.slotsInUse.TryWait() {
		return false
	}

	q.mu.Lock()
	err := q.fifo.Remove(out)
	q.mu.Unlock()

	if err != nil {
		q.slotsInUse.Post()
		return false
	}
	q.slotsAvail.Post()
	return true
}

// TimedPop dequeues into out, failing with ErrTimeout if ctx is done
// before an element becomes available. On timeout the FIFO is left
// untouched.
func (q *Queue[T]) TimedPop(ctx context.Context, out *T) error {
	if err := q.slotsInUse.TimedWait(ctx); err != nil {
		return ErrTimeout
	}

	q.mu.Lock()
	err := q.fifo.Remove(out)
	q.mu.Unlock()

	if err != nil {
		q.slotsInUse.Post()
		return err
	}
	q.slotsAvail.Post()
	return nil
}

// Peek returns a copy of the front element without changing any slot
// count: slotsInUse is waited on to ensure there is something to look at,
// then immediately re-posted so the slot is not consumed.
func (q *Queue[T]) Peek(out *T) error {
	q.slotsInUse.Wait()

	q.mu.Lock()
	front, err := q.fifo.Front()
	if err == nil {
		*out = *front
	}
	q.mu.Unlock()

	q.slotsInUse.Post()
	return err
}

// TimedPeek is Peek bounded by ctx, failing with ErrTimeout on expiry.
func (q *Queue[T]) TimedPeek(ctx context.Context, out *T) error {
	if err := q.slotsInUse.TimedWait(ctx); err != nil {
		return ErrTimeout
	}

	q.mu.Lock()
	front, err := q.fifo.Front()
	if err == nil {
		*out = *front
	}
	q.mu.Unlock()

	q.slotsInUse.Post()
	return err
}

// TryPeek returns a copy of the front element without blocking, reporting
// false if the queue is empty. Like Peek, it does not consume a slot.
func (q *Queue[T]) TryPeek(out *T) bool {
	if !q.slotsInUse.TryWait() {
		return false
	}

	q.mu.Lock()
	front, err := q.fifo.Front()
	if err == nil {
		*out = *front
	}
	q.mu.Unlock()

	q.slotsInUse.Post()
	return err == nil
}

// Size returns the number of elements currently enqueued.
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fifo.Size()
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool { return q.Size() == 0 }

// IsFull reports whether the queue is at capacity.
func (q *Queue[T]) IsFull() bool { return q.Size() == q.capacity }

// Capacity returns the queue's fixed capacity.
func (q *Queue[T]) Capacity() int { return q.capacity }
