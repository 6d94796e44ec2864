// clock.go: monotonic clock collaborator
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import (
	"time"

	"github.com/agilira/go-timecache"
)

// clock wraps go-timecache as a single cached-time source shared across
// a bus instance, avoiding a syscall per timestamp. The clock is used
// only by the telemetry collaborator, never to gate a blocking bus
// operation — here it timestamps Stats() snapshots only.
type clock struct {
	tc *timecache.TimeCache
}

func newClock() *clock {
	return &clock{tc: timecache.NewWithResolution(time.Millisecond)}
}

// now returns the cached current time.
func (c *clock) now() time.Time {
	return c.tc.CachedTime()
}

// stop releases the underlying cache's background refresh.
func (c *clock) stop() {
	c.tc.Stop()
}
