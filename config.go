// config.go: bus construction parameters, flag bitmap, and string-based
// size parsing.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package swbus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agilira/swbus/alloc"
)

// Flags is the bus-wide option bitmap.
type Flags uint16

const (
	// NoAllocHandle: caller provides storage for the bus handle. Go has
	// no equivalent to "caller supplies the struct's own storage" in the
	// C sense (there is no placement-new), so this flag is accepted for
	// API fidelity and recorded on Bus, but New always allocates the
	// *Bus itself and the flag has no further effect.
	NoAllocHandle Flags = 1 << iota

	// NoAllocData: caller provides storage for pool element arrays.
	NoAllocData

	// NoAllocMeta: recorded on Bus only. Pools always allocate their own
	// metadata (reference counts, free list); there is no way to supply
	// storage for it.
	NoAllocMeta

	// Zalloc: all allocations are zeroed before return.
	Zalloc

	// Async: disables the synchronous delivery barrier.
	Async
)

// PoolConfig configures one of the bus's memory pools.
type PoolConfig struct {
	// ElementSize is the fixed size, in bytes, of every element in this
	// pool. Pools should be listed smallest-first in Params.Pools:
	// PublishReserve does a first-fit scan and relies on that ordering
	// to also be a good fit.
	ElementSize int

	// MaxElements is this pool's fixed capacity.
	MaxElements int

	// Storage, if non-nil, is caller-provided backing storage (the
	// NoAllocData path). Its length must be >= ElementSize*MaxElements.
	Storage []byte
}

// Params are the construction parameters for a Bus.
type Params struct {
	// Name identifies the bus instance in log output.
	Name string

	// Pools configures the bus's memory pools, smallest-element-size
	// first.
	Pools []PoolConfig

	// MaxRxQueues bounds how many RX queues RxqInit may allocate.
	MaxRxQueues int

	// MaxSubs bounds the subscriber registry's size.
	MaxSubs int

	Flags Flags
}

// poolAllocFlags translates the bus-level NoAlloc/Zalloc bits relevant
// to pool storage into an alloc.Flags value.
func (p Params) poolAllocFlags() alloc.Flags {
	var f alloc.Flags
	if p.Flags&NoAllocData != 0 {
		f |= alloc.NoAlloc
	}
	if p.Flags&Zalloc != 0 {
		f |= alloc.Zalloc
	}
	return f
}

// validate checks Params invariants that are cheap up front: positive
// bounds, and — per the Design Note allowing an implementation to
// "optionally verify monotonicity at init" — that pools are configured
// smallest-element-size first, since PublishReserve's first-fit policy
// assumes it.
func (p Params) validate() error {
	if p.Name == "" {
		return newErr("init", KindInvalidArgument, fmt.Errorf("name must not be empty"))
	}
	if len(p.Pools) == 0 {
		return newErr("init", KindInvalidArgument, fmt.Errorf("at least one pool is required"))
	}
	if p.MaxRxQueues <= 0 {
		return newErr("init", KindInvalidArgument, fmt.Errorf("MaxRxQueues must be positive"))
	}
	if p.MaxSubs <= 0 {
		return newErr("init", KindInvalidArgument, fmt.Errorf("MaxSubs must be positive"))
	}

	prev := 0
	for i, pc := range p.Pools {
		if pc.ElementSize <= 0 || pc.MaxElements <= 0 {
			return newErr("init", KindInvalidArgument, fmt.Errorf("pool %d: element size and capacity must be positive", i))
		}
		if pc.ElementSize < prev {
			return newErr("init", KindInvalidArgument, fmt.Errorf("pool %d: element size %d is smaller than pool %d's %d; pools must be ordered smallest-first", i, pc.ElementSize, i-1, prev))
		}
		prev = pc.ElementSize
	}
	return nil
}

// ParseSize converts size strings like "64B", "1KB", "2MB" to a byte
// count, for callers that want to configure PoolConfig.ElementSize from
// a string (an environment variable, a flat config file) rather than a
// literal int. Same suffix table and case-insensitive handling as the
// teacher's log-rotation size parser.
func ParseSize(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	if val, err := strconv.Atoi(s); err == nil {
		if val < 0 {
			return 0, fmt.Errorf("size %q must not be negative", s)
		}
		return val, nil
	}

	up := strings.ToUpper(s)
	var multiplier int
	var numStr string

	switch {
	case strings.HasSuffix(up, "KB"):
		multiplier, numStr = 1024, up[:len(up)-2]
	case strings.HasSuffix(up, "MB"):
		multiplier, numStr = 1024*1024, up[:len(up)-2]
	case strings.HasSuffix(up, "GB"):
		multiplier, numStr = 1024*1024*1024, up[:len(up)-2]
	case strings.HasSuffix(up, "B"):
		multiplier, numStr = 1, up[:len(up)-1]
	case strings.HasSuffix(up, "K"):
		multiplier, numStr = 1024, up[:len(up)-1]
	case strings.HasSuffix(up, "M"):
		multiplier, numStr = 1024*1024, up[:len(up)-1]
	case strings.HasSuffix(up, "G"):
		multiplier, numStr = 1024*1024*1024, up[:len(up)-1]
	default:
		return 0, fmt.Errorf("unknown size suffix in %q (supported: B, KB/K, MB/M, GB/G)", s)
	}

	val, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid size number in %q: %w", s, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("size %q must not be negative", s)
	}
	return val * multiplier, nil
}
