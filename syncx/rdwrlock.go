// rdwrlock.go: writer-preferring reader/writer lock
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package syncx

import "sync"

// Scope selects which side of an RWLock an operation requests.
type Scope int

const (
	// ScopeRead requests the lock for reading; multiple readers may hold
	// it simultaneously.
	ScopeRead Scope = iota

	// ScopeWrite requests exclusive access.
	ScopeWrite
)

// RWLock is a writer-preferring reader/writer lock: once a writer is
// waiting, new readers block behind it. sync.RWMutex already documents
// this exact behavior ("a blocked Lock call excludes new readers from
// acquiring the lock"), so RWLock wraps it rather than reimplementing a
// fairness scheme no dependency in this module's lineage does better.
type RWLock struct {
	impl sync.RWMutex
}

// Req acquires the lock for the given scope, blocking as needed.
func (l *RWLock) Req(scope Scope) {
	if scope == ScopeWrite {
		l.impl.Lock()
	} else {
		l.impl.RLock()
	}
}

// Exit releases the lock previously acquired for the given scope. Calling
// Exit with a scope that does not match the held lock is undefined,
// exactly as for sync.RWMutex's Lock/Unlock and RLock/RUnlock pairing.
func (l *RWLock) Exit(scope Scope) {
	if scope == ScopeWrite {
		l.impl.Unlock()
	} else {
		l.impl.RUnlock()
	}
}
