package pool

import "testing"

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{ElementSize: 0, MaxElements: 4}); err == nil {
		t.Error("expected error for zero element size")
	}
	if _, err := New(Config{ElementSize: 8, MaxElements: 0}); err == nil {
		t.Error("expected error for zero capacity")
	}
}

func TestNewRejectsUndersizedStorage(t *testing.T) {
	_, err := New(Config{ElementSize: 16, MaxElements: 4, Storage: make([]byte, 32)})
	if err == nil {
		t.Error("expected error when caller storage is smaller than ElementSize*MaxElements")
	}
}

func TestRequestReleaseRoundTrip(t *testing.T) {
	p, err := New(Config{ElementSize: 8, MaxElements: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b1, ok := p.Request()
	if !ok {
		t.Fatal("Request failed on empty pool")
	}
	b2, ok := p.Request()
	if !ok {
		t.Fatal("Request failed for second element")
	}
	if p.Allocated() != 2 {
		t.Errorf("Allocated() = %d, want 2", p.Allocated())
	}
	if !p.IsFull() {
		t.Error("pool should report full")
	}

	if _, ok := p.Request(); ok {
		t.Error("Request should fail when pool is full")
	}

	if err := p.Release(b1); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if p.Allocated() != 1 {
		t.Errorf("Allocated() = %d after one release, want 1", p.Allocated())
	}

	if err := p.Release(b2); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if p.IsFull() {
		t.Error("pool should not be full after releasing every element")
	}
}

func TestAddRefDefersRelease(t *testing.T) {
	p, err := New(Config{ElementSize: 4, MaxElements: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b, ok := p.Request()
	if !ok {
		t.Fatal("Request failed")
	}
	if err := p.AddRef(b); err != nil {
		t.Fatalf("AddRef failed: %v", err)
	}
	if err := p.AddRef(b); err != nil {
		t.Fatalf("AddRef failed: %v", err)
	}

	rc, err := p.RefCount(b)
	if err != nil || rc != 2 {
		t.Fatalf("RefCount() = (%d, %v), want (2, nil)", rc, err)
	}

	if err := p.Release(b); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !p.IsFull() {
		t.Error("pool should still be allocated: one reference remains")
	}

	if err := p.Release(b); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if p.Allocated() != 0 {
		t.Errorf("Allocated() = %d, want 0 after refcount reaches zero", p.Allocated())
	}
	if p.IsFull() {
		t.Error("pool should not report full once the element returns to free")
	}
}

func TestCheckOwnershipRejectsForeignBuffer(t *testing.T) {
	p1, err := New(Config{ElementSize: 4, MaxElements: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p2, err := New(Config{ElementSize: 4, MaxElements: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b, _ := p1.Request()
	if err := p2.AddRef(b); err == nil {
		t.Error("expected error when using a buffer from a different pool")
	}
}

func TestBufferBytesSizedToElement(t *testing.T) {
	p, err := New(Config{ElementSize: 16, MaxElements: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, _ := p.Request()
	if len(b.Bytes()) != 16 {
		t.Errorf("Bytes() length = %d, want 16", len(b.Bytes()))
	}
}
