// stats.go: bus telemetry snapshot
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time telemetry snapshot for a Bus: a plain struct
// cheap enough to scrape into whatever metrics system the caller already
// has, without pulling in a metrics client this module never needs on
// its own.
type Stats struct {
	// Published is the number of PublishRelease calls that reached the
	// delivery walk, including those where some deliveries failed.
	Published uint64

	// DeliveryFailures counts individual subscriber deliveries that
	// failed because that subscriber's RX queue was full. A single
	// PublishRelease call can contribute more than one failure.
	DeliveryFailures uint64

	// Timestamp is when this snapshot was taken, from the bus's cached
	// clock.
	Timestamp time.Time
}

type statCounters struct {
	published        atomic.Uint64
	deliveryFailures atomic.Uint64
}
