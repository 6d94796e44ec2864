package pcqueue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPushPopOrder(t *testing.T) {
	q := New[int](3)
	for _, v := range []int{1, 2, 3} {
		if err := q.Push(v); err != nil {
			t.Fatalf("Push(%d) failed: %v", v, err)
		}
	}

	for _, want := range []int{1, 2, 3} {
		var got int
		if err := q.Pop(&got); err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if got != want {
			t.Errorf("Pop() = %d, want %d", got, want)
		}
	}
}

func TestTryPushFailsWhenFull(t *testing.T) {
	q := New[int](1)
	if !q.TryPush(1) {
		t.Fatal("TryPush should succeed on an empty queue")
	}
	if q.TryPush(2) {
		t.Error("TryPush should fail once the queue is full")
	}
}

func TestTryPopFailsWhenEmpty(t *testing.T) {
	q := New[int](1)
	var out int
	if q.TryPop(&out) {
		t.Error("TryPop should fail on an empty queue")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	q := New[string](2)
	if err := q.Push("a"); err != nil {
		t.Fatal(err)
	}

	var peeked string
	if err := q.Peek(&peeked); err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if peeked != "a" {
		t.Errorf("Peek() = %q, want %q", peeked, "a")
	}
	if q.Size() != 1 {
		t.Errorf("Size() after Peek = %d, want 1 (Peek must not consume)", q.Size())
	}

	var popped string
	if err := q.Pop(&popped); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if popped != "a" {
		t.Errorf("Pop() = %q, want %q", popped, "a")
	}
}

func TestTryPeekOnEmptyQueue(t *testing.T) {
	q := New[int](1)
	var out int
	if q.TryPeek(&out) {
		t.Error("TryPeek should fail on an empty queue")
	}
}

func TestTimedPopTimesOut(t *testing.T) {
	q := New[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out int
	if err := q.TimedPop(ctx, &out); err != ErrTimeout {
		t.Errorf("TimedPop on empty queue: got %v, want ErrTimeout", err)
	}
}

func TestTimedPushTimesOutWhenFull(t *testing.T) {
	q := New[int](1)
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.TimedPush(ctx, 2); err != ErrTimeout {
		t.Errorf("TimedPush on full queue: got %v, want ErrTimeout", err)
	}
}

func TestPushBlocksUntilSlotFreed(t *testing.T) {
	q := New[int](1)
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := q.Push(2); err != nil {
			t.Errorf("blocked Push failed: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Push returned before a slot was freed")
	case <-time.After(20 * time.Millisecond):
	}

	var out int
	if err := q.Pop(&out); err != nil {
		t.Fatalf("Pop failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked Push never returned after a slot was freed")
	}
	wg.Wait()
}

func TestCapacityAndIsFull(t *testing.T) {
	q := New[int](2)
	if q.Capacity() != 2 {
		t.Errorf("Capacity() = %d, want 2", q.Capacity())
	}
	if !q.IsEmpty() {
		t.Error("new queue should be empty")
	}
	_ = q.Push(1)
	_ = q.Push(2)
	if !q.IsFull() {
		t.Error("queue should be full at capacity")
	}
}
