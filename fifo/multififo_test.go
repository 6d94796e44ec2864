package fifo

import "testing"

func TestNewMultiFifoRejectsNonDivisor(t *testing.T) {
	if _, err := NewMultiFifo(4, 12, []int{5}); err == nil {
		t.Fatal("expected error when child size does not divide element size")
	}
	if _, err := NewMultiFifo(4, 12, []int{4, 6}); err != nil {
		t.Fatalf("expected valid divisors to succeed, got %v", err)
	}
}

func TestNewMultiFifoRejectsTooManyChildren(t *testing.T) {
	sizes := make([]int, 65)
	for i := range sizes {
		sizes[i] = 1
	}
	if _, err := NewMultiFifo(2, 65, sizes); err == nil {
		t.Fatal("expected error for more than 64 child FIFOs")
	}
}

func TestMultiFifoAddFeedsChildren(t *testing.T) {
	mf, err := NewMultiFifo(2, 8, []int{4, 2})
	if err != nil {
		t.Fatalf("NewMultiFifo failed: %v", err)
	}

	rec := make([]byte, 8)
	for i := range rec {
		rec[i] = byte(i)
	}
	if err := mf.Add(rec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	halves := mf.Child(0)
	if halves.Size() != 2 {
		t.Errorf("child 0 (size 4) size = %d, want 2", halves.Size())
	}
	quarters := mf.Child(1)
	if quarters.Size() != 4 {
		t.Errorf("child 1 (size 2) size = %d, want 4", quarters.Size())
	}

	var view []byte
	if err := halves.Remove(&view); err != nil {
		t.Fatalf("child Remove failed: %v", err)
	}
	if len(view) != 4 || view[0] != 0 || view[3] != 3 {
		t.Errorf("unexpected shadow view contents: %v", view)
	}
}

func TestMultiFifoRemoveBusyUntilChildrenDrain(t *testing.T) {
	mf, err := NewMultiFifo(2, 4, []int{2})
	if err != nil {
		t.Fatalf("NewMultiFifo failed: %v", err)
	}
	if err := mf.Add([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	var out []byte
	if err := mf.Remove(&out); err != ErrBusy {
		t.Fatalf("expected ErrBusy while child still holds a reference, got %v", err)
	}

	child := mf.Child(0)
	var view []byte
	for !child.IsEmpty() {
		if err := child.Remove(&view); err != nil {
			t.Fatalf("child Remove failed: %v", err)
		}
	}

	if err := mf.Remove(&out); err != nil {
		t.Fatalf("Remove after children drained failed: %v", err)
	}
	if len(out) != 4 {
		t.Errorf("Remove() returned record of length %d, want 4", len(out))
	}
}

func TestMultiFifoClear(t *testing.T) {
	mf, err := NewMultiFifo(2, 4, []int{2})
	if err != nil {
		t.Fatalf("NewMultiFifo failed: %v", err)
	}
	_ = mf.Add([]byte{1, 2, 3, 4})
	mf.Clear()

	if !mf.IsEmpty() {
		t.Error("root should be empty after Clear")
	}
	if !mf.Child(0).IsEmpty() {
		t.Error("children should be empty after Clear")
	}
	if err := mf.Add([]byte{5, 6, 7, 8}); err != nil {
		t.Fatalf("Add after Clear failed: %v", err)
	}
}
