// Package pool implements MPOOL: a fixed-element-size memory pool with
// per-element reference counts and allocated/free tracking. A buffer
// pool is created with a fixed capacity and element size; elements move
// between the free and allocated sets as Request, AddRef, and Release
// are called, guarded by a single internal mutex allowing at most one
// concurrent mutator.
package pool

import (
	"fmt"
	"sync"

	"github.com/agilira/swbus/alloc"
)

// Buffer is a reference into one element of a Pool's backing storage.
// It is returned by Request and passed back to AddRef/Release/RefCount.
// Buffer carries its index rather than a raw pointer so a misuse
// (passing a Buffer from a different Pool) is a checkable error instead
// of undefined behavior.
type Buffer struct {
	pool *Pool
	idx  int
}

// Bytes returns the element's backing storage, sized to the pool's
// element size. The caller may write into it up to the requested
// payload size; the pool itself does not track a "used length" separate
// from the element size.
func (b Buffer) Bytes() []byte {
	return b.pool.storage[b.idx*b.pool.elementSize : (b.idx+1)*b.pool.elementSize]
}

// Pool is a contiguous array of n fixed-size elements with per-element
// reference counts and a free/allocated partition.
type Pool struct {
	mu          sync.Mutex
	storage     []byte
	elementSize int
	refcounts   []int32
	free        []int // indices not currently allocated
	allocated   map[int]struct{}
}

// Config configures a Pool at construction.
type Config struct {
	ElementSize int
	MaxElements int

	// Storage, if non-nil, is caller-provided backing storage of at
	// least MaxElements*ElementSize bytes (the bare-metal/no-heap path
	// via the alloc facade). If nil, storage is allocated here.
	Storage []byte
	Flags   alloc.Flags
}

// New creates a Pool per cfg. It fails if ElementSize or MaxElements is
// not positive, or if caller-provided Storage is too small.
func New(cfg Config) (*Pool, error) {
	if cfg.ElementSize <= 0 || cfg.MaxElements <= 0 {
		return nil, fmt.Errorf("pool: element size and capacity must be positive")
	}

	need := cfg.ElementSize * cfg.MaxElements
	flags := cfg.Flags
	if cfg.Storage != nil {
		if len(cfg.Storage) < need {
			return nil, fmt.Errorf("pool: caller-provided storage too small: have %d, need %d", len(cfg.Storage), need)
		}
		flags |= alloc.NoAlloc
	}
	storage := alloc.Buffer(cfg.Storage, need, flags)

	p := &Pool{
		storage:     storage,
		elementSize: cfg.ElementSize,
		refcounts:   make([]int32, cfg.MaxElements),
		free:        make([]int, cfg.MaxElements),
		allocated:   make(map[int]struct{}, cfg.MaxElements),
	}
	for i := range p.free {
		p.free[i] = i
	}
	return p, nil
}

// Request moves one element from free to allocated and returns a
// reference to it with refcount 0. It returns false as the second value
// if the pool is full. The caller is expected to follow up with either
// AddRef (once a subscriber has taken a delivery) or Release
// (abandonment — the reservation is never used).
func (p *Pool) Request() (Buffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return Buffer{}, false
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.allocated[idx] = struct{}{}
	p.refcounts[idx] = 0
	return Buffer{pool: p, idx: idx}, true
}

// AddRef increments b's reference count.
func (p *Pool) AddRef(b Buffer) error {
	if err := p.checkOwnership(b); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refcounts[b.idx]++
	return nil
}

// Release decrements b's reference count if it is above zero; when the
// count reaches zero, the element returns to the free set. Calling
// Release on a just-requested buffer whose refcount is still 0 is the
// abandonment path and also returns the element to free.
func (p *Pool) Release(b Buffer) error {
	if err := p.checkOwnership(b); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refcounts[b.idx] > 0 {
		p.refcounts[b.idx]--
	}
	if p.refcounts[b.idx] == 0 {
		delete(p.allocated, b.idx)
		p.free = append(p.free, b.idx)
	}
	return nil
}

// RefCount returns b's current reference count.
func (p *Pool) RefCount(b Buffer) (int, error) {
	if err := p.checkOwnership(b); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.refcounts[b.idx]), nil
}

func (p *Pool) checkOwnership(b Buffer) error {
	if b.pool != p {
		return fmt.Errorf("pool: buffer does not belong to this pool")
	}
	if b.idx < 0 || b.idx >= len(p.refcounts) {
		return fmt.Errorf("pool: buffer index %d out of range", b.idx)
	}
	return nil
}

// IsFull reports whether every element is currently allocated.
func (p *Pool) IsFull() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free) == 0
}

// Capacity returns the total number of elements the pool manages.
func (p *Pool) Capacity() int { return len(p.refcounts) }

// ElementSize returns the fixed size, in bytes, of every element.
func (p *Pool) ElementSize() int { return p.elementSize }

// Allocated returns the number of elements currently allocated, mainly
// for tests.
func (p *Pool) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.allocated)
}
