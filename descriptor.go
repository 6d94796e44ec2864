// descriptor.go: packet descriptor and publisher reservation types
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import "github.com/agilira/swbus/pool"

// Descriptor is the quadruple (data, owning pool, size, packet id)
// enqueued onto an RX queue at publish-release. It is copied by value
// into each subscriber's queue; Data points into OwningPool's storage
// and remains valid until the subscriber calling RxqPopFront releases
// it.
type Descriptor struct {
	Data       []byte
	OwningPool *pool.Pool
	Size       int
	PID        uint32

	buf pool.Buffer // internal: the exact element this descriptor references
}

// Reservation is a buffer obtained from a pool, owned by a single
// publisher, before release. PublishReserve returns one; PublishRelease
// consumes it.
type Reservation struct {
	buf  pool.Buffer
	pool *pool.Pool
	Data []byte
}

// Abandon releases the reservation without publishing, returning the
// buffer to its pool. Publishers that obtain a Reservation via
// PublishReserve but decide not to publish (e.g. after a validation
// failure) must call Abandon to avoid leaking the element; PublishRelease
// already consumes the reservation (returning the buffer to its pool when
// no subscriber took it) and must not be combined with a separate Abandon
// call on the same reservation.
func (r Reservation) Abandon() error {
	if err := r.pool.Release(r.buf); err != nil {
		return newErr("reservation_abandon", KindFatal, err)
	}
	return nil
}
