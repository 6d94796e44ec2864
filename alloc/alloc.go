// Package alloc provides the uniform "caller-provided vs library-allocated"
// buffer policy used throughout swbus's component packages. It is the Go
// rendering of the original library's allocator facade: every component
// that needs backing storage accepts either a caller-supplied slice (so
// the component never touches the heap, the bare-metal/no-heap case) or
// asks this facade to allocate one, optionally zeroed.
package alloc

// Flags conveys allocation policy for a single buffer request.
type Flags uint8

const (
	// None requests ordinary allocation with no special handling.
	None Flags = 0

	// NoAlloc marks that the caller has already supplied storage; Buffer
	// must return the caller's slice unmodified (beyond an optional
	// zero-fill) rather than allocating a new one.
	NoAlloc Flags = 1 << iota

	// Zalloc requests the returned storage be zero-filled before use.
	Zalloc
)

// Buffer returns nBytes of storage honoring flags. If userBuf is non-nil
// and flags has NoAlloc set, userBuf[:nBytes] is returned directly (it is
// the caller's responsibility to ensure len(userBuf) >= nBytes); this is
// the path bare-metal targets rely on to avoid a heap entirely. Otherwise
// a fresh slice is allocated. Zalloc zero-fills the result either way,
// which for a fresh make([]byte, n) is a no-op and is only meaningful for
// the NoAlloc/reused-storage path.
func Buffer(userBuf []byte, nBytes int, flags Flags) []byte {
	var buf []byte
	if flags&NoAlloc != 0 && userBuf != nil {
		buf = userBuf[:nBytes]
	} else {
		buf = make([]byte, nBytes)
	}

	if flags&Zalloc != 0 {
		for i := range buf {
			buf[i] = 0
		}
	}
	return buf
}

// Free is a no-op when flags has NoAlloc set, since ownership of that
// storage was never this facade's to release. It exists so callers can
// pair every Buffer call with a symmetric Free without branching on how
// the buffer was obtained; Go's GC reclaims library-allocated slices once
// unreferenced, so Free has nothing to do in that case either — it is
// kept only for parity with components that accept it.
func Free(_ []byte, _ Flags) {}
