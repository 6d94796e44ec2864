// csem.go: counting semaphore built on a buffered channel
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package syncx

import "context"

// CSem is a classic POSIX-style counting semaphore: Wait blocks while the
// count is zero, Post increments it. It is backed by a buffered channel
// sized to the semaphore's declared capacity: a token in the channel
// means a unit is available, so Wait/TryWait/TimedWait are a receive and
// Post is a send. This is the idiomatic Go channel-as-semaphore pattern
// and, unlike golang.org/x/sync/semaphore.Weighted, supports a count
// that starts at zero and is driven upward by Post alone — Weighted is a
// bounded-concurrency limiter whose Acquire on a zero-sized semaphore
// never joins the waiter queue, so a producer-incremented counter
// (pcqueue.Queue's slotsInUse) can never be woken by it.
type CSem struct {
	tokens chan struct{}
}

// NewCSem creates a counting semaphore that can hold at most capacity
// units, initialized to n (0 <= n <= capacity).
func NewCSem(n, capacity int) *CSem {
	c := &CSem{tokens: make(chan struct{}, capacity)}
	for i := 0; i < n; i++ {
		c.tokens <- struct{}{}
	}
	return c
}

// Wait blocks until a unit is available, then consumes it.
func (c *CSem) Wait() {
	<-c.tokens
}

// TryWait consumes a unit without blocking. It reports whether a unit was
// available.
func (c *CSem) TryWait() bool {
	select {
	case <-c.tokens:
		return true
	default:
		return false
	}
}

// TimedWait blocks until a unit is available or ctx is done, whichever
// comes first. It reports ctx.Err() when ctx is done before a unit
// becomes available.
func (c *CSem) TimedWait(ctx context.Context) error {
	select {
	case <-c.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post returns a unit to the semaphore, waking one blocked waiter if any.
// Posting beyond the semaphore's declared capacity is a misuse of the
// type (every caller in this module posts a unit only after taking one
// from this semaphore or from its paired one, so the channel never fills
// past capacity) and panics
// rather than silently dropping the token.
func (c *CSem) Post() {
	select {
	case c.tokens <- struct{}{}:
	default:
		panic("syncx: CSem.Post exceeds declared capacity")
	}
}
