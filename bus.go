// bus.go: the software bus itself — construction, subscription management,
// and the publish/receive path tying together pool, pcqueue, and registry.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agilira/swbus/pcqueue"
	"github.com/agilira/swbus/pool"
	"github.com/agilira/swbus/registry"
	"github.com/agilira/swbus/syncx"
)

// QueueRef identifies one RX queue allocated by RxqInit. It is an index
// into the bus's internal queue table rather than a pointer, per the
// design note preferring an arena-plus-index reference over a raw one.
type QueueRef int

// Bus is a many-to-many, zero-copy publish/subscribe fabric. Publishers
// reserve a buffer from one of the bus's memory pools, fill it, and
// release it; the bus fans a descriptor referencing that buffer out to
// every subscriber currently registered for the publisher's packet id,
// and the buffer's reference count converges back to zero as each
// subscriber pops it off their RX queue.
//
// A Bus must be created with New and must not be copied after first use.
type Bus struct {
	name  string
	flags Flags

	mu    syncx.Mutex  // serializes RxqInit/Subscribe/Unsubscribe/PublishRelease
	rdwrl syncx.RWLock // synchronous delivery barrier (disabled by Async)

	pools []*pool.Pool // smallest element size first; first-fit at reserve

	maxRxQueues int
	rxqs        []*pcqueue.Queue[Descriptor]

	registry *registry.Registry

	log   *logger
	clock *clock

	stats statCounters
}

// New constructs a Bus per params, allocating its memory pools up front.
// It fails with KindInvalidArgument if params is malformed.
func New(params Params) (*Bus, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	pools := make([]*pool.Pool, 0, len(params.Pools))
	for i, pc := range params.Pools {
		p, err := pool.New(pool.Config{
			ElementSize: pc.ElementSize,
			MaxElements: pc.MaxElements,
			Storage:     pc.Storage,
			Flags:       params.poolAllocFlags(),
		})
		if err != nil {
			return nil, newErr("init", KindInvalidArgument, fmt.Errorf("pool %d: %w", i, err))
		}
		pools = append(pools, p)
	}

	b := &Bus{
		name:        params.Name,
		flags:       params.Flags,
		pools:       pools,
		maxRxQueues: params.MaxRxQueues,
		rxqs:        make([]*pcqueue.Queue[Descriptor], 0, params.MaxRxQueues),
		registry:    registry.New(params.MaxSubs),
		log:         newLogger(params.Name),
		clock:       newClock(),
	}
	b.log.info("bus initialized", zap.String("name", params.Name), zap.Int("pools", len(pools)))
	return b, nil
}

// Close releases the bus's clock and flushes its logger. It does not
// drain in-flight RX queues or reservations; per the design note, a bus
// destroyed with descriptors still in flight simply leaks those pool
// references until the queues holding them are drained or discarded, the
// same as the original library's "shutdown sequencing is the caller's
// responsibility" stance.
func (b *Bus) Close() error {
	b.clock.stop()
	b.log.sync()
	return nil
}

// RxqInit allocates a new RX queue of capacity nEntries and returns a
// reference to it. It fails with KindNoResources once MaxRxQueues queues
// have been allocated.
func (b *Bus) RxqInit(nEntries int) (QueueRef, error) {
	if nEntries <= 0 {
		return 0, newErr("rxq_init", KindInvalidArgument, fmt.Errorf("nEntries must be positive"))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.rxqs) >= b.maxRxQueues {
		return 0, newErr("rxq_init", KindNoResources, fmt.Errorf("queue table full (max %d)", b.maxRxQueues))
	}

	b.rxqs = append(b.rxqs, pcqueue.New[Descriptor](nEntries))
	ref := QueueRef(len(b.rxqs) - 1)
	b.log.debug("rx queue initialized", zap.Int("queue", int(ref)), zap.Int("capacity", nEntries))
	return ref, nil
}

// queueAt returns the queue for ref under the bus mutex, since rxqs only
// grows (never shrinks or reorders) but a concurrent append can still
// race with an unsynchronized read of the slice header.
func (b *Bus) queueAt(ref QueueRef) (*pcqueue.Queue[Descriptor], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ref < 0 || int(ref) >= len(b.rxqs) {
		return nil, newErr("rxq_lookup", KindInvalidArgument, fmt.Errorf("queue %d is not allocated", ref))
	}
	return b.rxqs[ref], nil
}

// Subscribe registers queue to receive every publication tagged with
// pid. It fails with KindDuplicate if already subscribed, or
// KindNoResources if the registry is at capacity.
func (b *Bus) Subscribe(queue QueueRef, pid uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if queue < 0 || int(queue) >= len(b.rxqs) {
		return newErr("subscribe", KindInvalidArgument, fmt.Errorf("queue %d is not allocated", queue))
	}

	if err := b.registry.Insert(pid, int(queue)); err != nil {
		switch err {
		case registry.ErrDuplicate:
			return newErr("subscribe", KindDuplicate, err)
		case registry.ErrFull:
			return newErr("subscribe", KindNoResources, err)
		default:
			return newErr("subscribe", KindFatal, err)
		}
	}
	b.log.debug("subscribed", zap.Uint32("pid", pid), zap.Int("queue", int(queue)))
	return nil
}

// Unsubscribe removes queue's subscription to pid. It fails with
// KindNotFound if no such subscription exists.
func (b *Bus) Unsubscribe(queue QueueRef, pid uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.registry.Remove(pid, int(queue)); err != nil {
		return newErr("unsubscribe", KindNotFound, err)
	}
	b.log.debug("unsubscribed", zap.Uint32("pid", pid), zap.Int("queue", int(queue)))
	return nil
}

// PublishReserve obtains a Reservation of at least size bytes from the
// smallest pool that fits, per the first-fit policy over pools ordered
// smallest-first at construction. It fails with KindNoSpace if every
// candidate pool is full, or KindInvalidArgument if no pool is large
// enough to hold size bytes.
//
// Pool selection and allocation need no bus-level lock: each pool
// guards its own free list internally, and reservation is independent
// of subscriber state.
func (b *Bus) PublishReserve(size int) (Reservation, error) {
	if size <= 0 {
		return Reservation{}, newErr("publish_reserve", KindInvalidArgument, fmt.Errorf("size must be positive"))
	}

	fits := false
	for _, p := range b.pools {
		if p.ElementSize() < size {
			continue
		}
		fits = true

		buf, ok := p.Request()
		if !ok {
			continue // this pool is full; try the next fitting one
		}
		return Reservation{buf: buf, pool: p, Data: buf.Bytes()[:size]}, nil
	}

	if !fits {
		return Reservation{}, newErr("publish_reserve", KindInvalidArgument, fmt.Errorf("no pool configured large enough for %d bytes", size))
	}
	return Reservation{}, newErr("publish_reserve", KindNoSpace, fmt.Errorf("all fitting pools are full"))
}

// PublishRelease publishes res under pid, delivering a descriptor
// referencing its buffer to every subscriber currently registered for
// pid. Delivery to a full subscriber queue does not abort the call: the
// failure is logged and counted in Stats, and delivery continues to the
// remaining subscribers (spec behavior — a single slow or stalled
// subscriber must not block the rest of the bus). This is a deliberate
// departure from the original library's blocking subscriber-notify path,
// recorded in SPEC_FULL.md: a full queue must fail the affected delivery
// immediately rather than stall the publisher indefinitely.
//
// res must have come from PublishReserve on this Bus and must not be
// reused afterward; PublishRelease always consumes it, successful
// delivery or not.
func (b *Bus) PublishRelease(pid uint32, res Reservation, size int) error {
	if res.pool == nil {
		return newErr("publish_release", KindInvalidArgument, fmt.Errorf("reservation is empty"))
	}

	b.mu.Lock()
	sync := b.flags&Async == 0
	if sync {
		b.rdwrl.Req(syncx.ScopeWrite)
	}

	failures := 0
	delivered := 0
	b.registry.ForEach(pid, func(queueIdx int) {
		d := Descriptor{
			Data:       res.Data[:size],
			OwningPool: res.pool,
			Size:       size,
			PID:        pid,
			buf:        res.buf,
		}
		if b.rxqs[queueIdx].TryPush(d) {
			if err := res.pool.AddRef(res.buf); err != nil {
				b.log.error("addref failed during delivery", zap.Error(err))
			}
			delivered++
		} else {
			failures++
			b.log.warn("delivery failed: subscriber queue full",
				zap.Uint32("pid", pid), zap.Int("queue", queueIdx))
		}
	})

	// PublishReserve leaves the buffer at refcount 0 and AddRef above
	// brought it to the number of successful deliveries. If nobody took a
	// delivery, the reservation is released here and the buffer returns to
	// its pool; otherwise the subscribers' references keep it allocated
	// until each of them pops its descriptor.
	if delivered == 0 {
		if err := res.pool.Release(res.buf); err != nil {
			b.log.error("release failed after publish", zap.Error(err))
		}
	}

	if sync {
		b.rdwrl.Exit(syncx.ScopeWrite)
	}
	b.mu.Unlock()

	b.stats.published.Add(1)
	if failures > 0 {
		b.stats.deliveryFailures.Add(uint64(failures))
		return newErr("publish_release", KindNoSpace, fmt.Errorf("%d of %d deliveries failed: subscriber queue full", failures, failures+delivered))
	}
	return nil
}

// Publish is a convenience wrapper combining PublishReserve, a copy of
// data into the reservation, and PublishRelease.
func (b *Bus) Publish(pid uint32, data []byte) error {
	res, err := b.PublishReserve(len(data))
	if err != nil {
		return err
	}
	copy(res.Data, data)
	return b.PublishRelease(pid, res, len(data))
}

// RxqWait blocks until queue has a descriptor at its front, then returns
// a copy of it without removing it — the caller inspects Data and must
// follow up with RxqPopFront to release it. In synchronous mode (the
// default; disabled by the Async flag), RxqWait briefly takes and
// releases the read side of the delivery barrier immediately after the
// peek succeeds, giving any waiting publisher a synchronization point
// without holding the lock across the caller's processing of the
// descriptor.
func (b *Bus) RxqWait(queue QueueRef) (Descriptor, error) {
	q, err := b.queueAt(queue)
	if err != nil {
		return Descriptor{}, err
	}

	var d Descriptor
	if err := q.Peek(&d); err != nil {
		return Descriptor{}, newErr("rxq_wait", KindFatal, err)
	}

	if b.flags&Async == 0 {
		b.rdwrl.Req(syncx.ScopeRead)
		b.rdwrl.Exit(syncx.ScopeRead)
	}
	return d, nil
}

// RxqTimedWait is RxqWait bounded by ctx, failing with KindTimeout if ctx
// is done before a descriptor arrives. Unlike RxqWait, the barrier is
// only touched when the peek actually succeeds: a timeout leaves no
// descriptor to bracket, so there is nothing for the read side of the
// barrier to guard.
func (b *Bus) RxqTimedWait(ctx context.Context, queue QueueRef) (Descriptor, error) {
	q, err := b.queueAt(queue)
	if err != nil {
		return Descriptor{}, err
	}

	var d Descriptor
	if err := q.TimedPeek(ctx, &d); err != nil {
		if err == pcqueue.ErrTimeout {
			return Descriptor{}, newErr("rxq_timedwait", KindTimeout, err)
		}
		return Descriptor{}, newErr("rxq_timedwait", KindFatal, err)
	}

	if b.flags&Async == 0 {
		b.rdwrl.Req(syncx.ScopeRead)
		b.rdwrl.Exit(syncx.ScopeRead)
	}
	return d, nil
}

// RxqFront returns a copy of queue's front descriptor without blocking,
// failing with KindNotFound if the queue is currently empty.
func (b *Bus) RxqFront(queue QueueRef) (Descriptor, error) {
	q, err := b.queueAt(queue)
	if err != nil {
		return Descriptor{}, err
	}

	var d Descriptor
	if !q.TryPeek(&d) {
		return Descriptor{}, newErr("rxq_front", KindNotFound, fmt.Errorf("queue %d is empty", queue))
	}
	return d, nil
}

// RxqPopFront releases d's buffer reference and removes the front entry
// of queue. d should be the descriptor most recently obtained from
// RxqWait/RxqTimedWait/RxqFront on the same queue; RxqPopFront does not
// itself verify that, matching the original library's front-only pop
// contract (there is no random-access removal).
func (b *Bus) RxqPopFront(queue QueueRef, d Descriptor) error {
	q, err := b.queueAt(queue)
	if err != nil {
		return err
	}

	if d.OwningPool != nil {
		if err := d.OwningPool.Release(d.buf); err != nil {
			b.log.error("release failed during pop", zap.Error(err))
		}
	}

	var discard Descriptor
	if err := q.Pop(&discard); err != nil {
		return newErr("rxq_popfront", KindFatal, err)
	}
	return nil
}

// Stats returns a point-in-time telemetry snapshot.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:        b.stats.published.Load(),
		DeliveryFailures: b.stats.deliveryFailures.Load(),
		Timestamp:        b.clock.now(),
	}
}
