package fifo

import "testing"

func TestFifoAddRemove(t *testing.T) {
	f := New[int](3)

	if !f.IsEmpty() {
		t.Fatal("new fifo should be empty")
	}

	for i, v := range []int{1, 2, 3} {
		if err := f.Add(v); err != nil {
			t.Fatalf("Add(%d) failed: %v", i, err)
		}
	}

	if !f.IsFull() {
		t.Error("fifo should be full after filling to capacity")
	}
	if err := f.Add(4); err != ErrFull {
		t.Errorf("expected ErrFull, got %v", err)
	}

	for _, want := range []int{1, 2, 3} {
		var got int
		if err := f.Remove(&got); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if got != want {
			t.Errorf("Remove() = %d, want %d", got, want)
		}
	}

	var discard int
	if err := f.Remove(&discard); err != ErrEmpty {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestFifoFront(t *testing.T) {
	f := New[string](2)

	if _, err := f.Front(); err != ErrEmpty {
		t.Errorf("expected ErrEmpty on empty fifo, got %v", err)
	}

	if err := f.Add("a"); err != nil {
		t.Fatal(err)
	}
	front, err := f.Front()
	if err != nil {
		t.Fatalf("Front() failed: %v", err)
	}
	if *front != "a" {
		t.Errorf("Front() = %q, want %q", *front, "a")
	}

	if f.Size() != 1 {
		t.Errorf("Size() = %d, want 1", f.Size())
	}
}

func TestFifoWrapAround(t *testing.T) {
	f := New[int](3)
	for _, v := range []int{1, 2, 3} {
		_ = f.Add(v)
	}
	var discard int
	_ = f.Remove(&discard) // removes 1, frees a slot at head
	if err := f.Add(4); err != nil {
		t.Fatalf("Add after wraparound failed: %v", err)
	}

	var got int
	for _, want := range []int{2, 3, 4} {
		if err := f.Remove(&got); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if got != want {
			t.Errorf("Remove() = %d, want %d", got, want)
		}
	}
}

func TestFifoClear(t *testing.T) {
	f := New[int](2)
	_ = f.Add(1)
	_ = f.Add(2)
	f.Clear()

	if !f.IsEmpty() {
		t.Error("fifo should be empty after Clear")
	}
	if err := f.Add(9); err != nil {
		t.Fatalf("Add after Clear failed: %v", err)
	}
}

func TestFifoCapacityFloor(t *testing.T) {
	f := New[int](0)
	if f.Capacity() != 1 {
		t.Errorf("Capacity() = %d, want 1 (non-positive capacity floors to 1)", f.Capacity())
	}
}
