// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package swbus implements a zero-copy, reference-counted publish/
// subscribe software bus backed by fixed-size memory pools.
//
// A publisher reserves a buffer sized to its message, fills it in place,
// and releases it under a packet id; the bus copies only a small
// descriptor (pointer, size, owning pool) into every subscriber queue
// currently registered for that id, never the payload itself. Each
// subscriber pops its own copy of the descriptor when ready and releases
// it back to the pool; the underlying buffer returns to the pool's free
// list once every subscriber — and the publisher's own reservation — has
// released it.
//
// # Quick Start
//
//	bus, err := swbus.New(swbus.Params{
//		Name: "telemetry",
//		Pools: []swbus.PoolConfig{
//			{ElementSize: 64, MaxElements: 256},
//			{ElementSize: 1024, MaxElements: 64},
//		},
//		MaxRxQueues: 8,
//		MaxSubs:     32,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer bus.Close()
//
//	queue, err := bus.RxqInit(16)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := bus.Subscribe(queue, 1); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := bus.Publish(1, []byte("hello")); err != nil {
//		log.Fatal(err)
//	}
//
//	d, err := bus.RxqWait(queue)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(d.Data))
//	if err := bus.RxqPopFront(queue, d); err != nil {
//		log.Fatal(err)
//	}
//
// # Pool sizing
//
// Params.Pools is a first-fit allocator over pools ordered
// smallest-element-size first: PublishReserve scans for the first pool
// whose element size is large enough for the request and that still has
// free elements. Configuring only one pool degenerates to a simple
// fixed-size allocator; configuring several gives cheap messages a small
// pool to draw from without competing with larger, rarer ones.
//
// # Delivery semantics
//
// By default (without the Async flag) PublishRelease and RxqWait
// coordinate through a writer-preferring delivery barrier, giving
// callers a synchronization point between a publish call returning and
// every subscriber's next RxqWait observing it. Delivery to any single
// subscriber queue that is already full does not block or abort the
// rest of the call: that delivery is skipped, logged, and counted in
// Stats().DeliveryFailures, and PublishRelease still delivers to every
// other subscriber before returning a non-nil error.
//
// # Errors
//
// Every exported operation returns either nil or a *swbus.Error, whose
// Kind field classifies the failure (KindInvalidArgument, KindNoSpace,
// KindNoResources, KindDuplicate, KindNotFound, KindTimeout, KindBusy,
// KindFatal). Use swbus.Is(err, kind) rather than comparing Kind
// directly, since it also sees through wrapped errors.
package swbus
