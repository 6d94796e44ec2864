package alloc

import "testing"

func TestBufferAllocatesWhenNoUserBuffer(t *testing.T) {
	b := Buffer(nil, 8, None)
	if len(b) != 8 {
		t.Errorf("len(Buffer) = %d, want 8", len(b))
	}
}

func TestBufferReusesUserBufferWithNoAlloc(t *testing.T) {
	user := make([]byte, 16)
	user[0] = 0xFF

	b := Buffer(user, 8, NoAlloc)
	if len(b) != 8 {
		t.Errorf("len(Buffer) = %d, want 8", len(b))
	}
	if &b[0] != &user[0] {
		t.Error("Buffer should return a view into the caller's slice under NoAlloc")
	}
}

func TestBufferIgnoresNoAllocWithoutUserBuffer(t *testing.T) {
	b := Buffer(nil, 4, NoAlloc)
	if len(b) != 4 {
		t.Errorf("len(Buffer) = %d, want 4", len(b))
	}
}

func TestBufferZallocZeroesReusedStorage(t *testing.T) {
	user := make([]byte, 4)
	for i := range user {
		user[i] = 0xAB
	}

	b := Buffer(user, 4, NoAlloc|Zalloc)
	for i, v := range b {
		if v != 0 {
			t.Errorf("b[%d] = %#x, want 0 after Zalloc", i, v)
		}
	}
}

func TestFreeIsANoOp(t *testing.T) {
	b := Buffer(nil, 4, None)
	Free(b, None) // must not panic; nothing else to assert
}
