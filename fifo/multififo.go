// multififo.go: a FIFO of large records with N child "shadow" FIFOs
// exposing smaller typed views into the current root front.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package fifo

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrBusy is returned by Add/Remove when a concurrent call already holds
// the non-reentrant guard, or by Remove when a child FIFO still holds a
// reference into the current root front.
var ErrBusy = errors.New("multififo: busy")

// MultiFifo is a root FIFO of elementSize-byte records plus child FIFOs
// whose element sizes each divide elementSize. Adding a record to the
// root splits its current front into elementSize/childSize shadow views
// per child, without copying: each shadow is a subslice of the root
// record's backing array. The guard (locked) is a simple CAS flag rather
// than a blocking lock — non-reentrant callers (including an ISR context
// in the original C library) are expected to treat a failed acquisition
// as "try again later", not to queue behind it.
type MultiFifo struct {
	root        *Fifo[[]byte]
	elementSize int
	children    []*Fifo[[]byte]
	childSizes  []int
	frontMask   uint64
	locked      atomic.Bool
}

// NewMultiFifo creates a MultiFifo whose root holds capacity records of
// elementSize bytes each, with one child FIFO per entry in childSizes.
// Every childSizes[i] must evenly divide elementSize; violating that
// fails at construction with a descriptive error, per spec: "multi_fifo with a child whose element size does not
// divide the root element size fails at init".
func NewMultiFifo(capacity, elementSize int, childSizes []int) (*MultiFifo, error) {
	if elementSize <= 0 || capacity <= 0 {
		return nil, fmt.Errorf("multififo: elementSize and capacity must be positive")
	}
	if len(childSizes) > 64 {
		return nil, fmt.Errorf("multififo: at most 64 child FIFOs supported (frontMask is a uint64)")
	}

	mf := &MultiFifo{
		root:        New[[]byte](capacity),
		elementSize: elementSize,
		children:    make([]*Fifo[[]byte], len(childSizes)),
		childSizes:  append([]int(nil), childSizes...),
	}

	for i, c := range childSizes {
		if c <= 0 || elementSize%c != 0 {
			return nil, fmt.Errorf("multififo: child FIFO %d size=%d is not a divisor of root element size=%d", i, c, elementSize)
		}
		mf.children[i] = New[[]byte](elementSize / c)
	}

	return mf, nil
}

// tryLock acquires the non-reentrant guard, reporting false if another
// call already holds it.
func (mf *MultiFifo) tryLock() bool {
	return mf.locked.CompareAndSwap(false, true)
}

func (mf *MultiFifo) unlock() {
	mf.locked.Store(false)
}

// childStatusUpdate clears the frontMask bit for every child FIFO that
// has fully drained its view of the current root front. This must run
// before the "all children done" test in both Add and Remove, mirroring
// the original implementation's multififo_children_status_update step.
func (mf *MultiFifo) childStatusUpdate() {
	for i, ch := range mf.children {
		if ch.IsEmpty() {
			mf.frontMask &^= 1 << uint(i)
		}
	}
}

// childrenFeed populates every child FIFO with shadow views into the
// (new) root front, provided the root is non-empty.
func (mf *MultiFifo) childrenFeed() {
	if mf.root.IsEmpty() {
		return
	}
	front, _ := mf.root.Front()
	mf.frontMask = 0
	for i, ch := range mf.children {
		size := mf.childSizes[i]
		n := mf.elementSize / size
		for j := 0; j < n; j++ {
			view := (*front)[j*size : j*size+size]
			_ = ch.Add(view) // capacity is exactly elementSize/size, cannot fail
			mf.frontMask |= 1 << uint(i)
		}
	}
}

// Add copies e into the root FIFO, then — if the previous front has no
// outstanding child references — feeds shadow views of the new front to
// every child.
func (mf *MultiFifo) Add(e []byte) error {
	if !mf.tryLock() {
		return ErrBusy
	}
	defer mf.unlock()

	rec := make([]byte, mf.elementSize)
	copy(rec, e)
	if err := mf.root.Add(rec); err != nil {
		return err
	}

	mf.childStatusUpdate()
	if mf.frontMask == 0 {
		mf.childrenFeed()
	}
	return nil
}

// Remove pops the root front into out. It fails with ErrBusy if any
// child FIFO still holds a reference into the current front; otherwise
// it re-feeds the children from the new front (if any).
func (mf *MultiFifo) Remove(out *[]byte) error {
	if !mf.tryLock() {
		return ErrBusy
	}
	defer mf.unlock()

	mf.childStatusUpdate()
	if mf.frontMask != 0 {
		return ErrBusy
	}

	if err := mf.root.Remove(out); err != nil {
		return err
	}
	mf.childrenFeed()
	return nil
}

// Clear empties the root and every child FIFO.
func (mf *MultiFifo) Clear() {
	mf.root.Clear()
	for _, ch := range mf.children {
		ch.Clear()
	}
	mf.frontMask = 0
	mf.locked.Store(false)
}

// Child returns the i'th shadow FIFO, for callers that drain shadow
// views directly (the usual consumer pattern: pop from a child FIFO,
// process the sub-record, repeat until Remove on the root stops
// returning ErrBusy).
func (mf *MultiFifo) Child(i int) *Fifo[[]byte] { return mf.children[i] }

// IsEmpty reports whether the root FIFO holds no records.
func (mf *MultiFifo) IsEmpty() bool { return mf.root.IsEmpty() }
