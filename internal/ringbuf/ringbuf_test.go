package ringbuf

import "testing"

func TestPushPopFIFOOrder(t *testing.T) {
	b := New[int](3)
	b.Push(1)
	b.Push(2)
	b.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := b.Pop()
		if !ok {
			t.Fatalf("expected a value, buffer empty early")
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Errorf("expected Pop on empty buffer to report ok=false")
	}
}

func TestPushPastCapacityOverwritesOldest(t *testing.T) {
	b := New[int](2)
	b.Push(1)
	b.Push(2)
	b.Push(3) // overwrites 1

	if b.Len() != 2 {
		t.Fatalf("expected Len()==2 at capacity, got %d", b.Len())
	}
	first, _ := b.Pop()
	second, _ := b.Pop()
	if first != 2 || second != 3 {
		t.Errorf("got (%d, %d), want (2, 3) after oldest element was overwritten", first, second)
	}
}

func TestZeroCapacityBufferIsANoOp(t *testing.T) {
	b := New[int](0)
	b.Push(1)
	if b.Len() != 0 {
		t.Errorf("expected zero-capacity buffer to discard pushes, got Len()=%d", b.Len())
	}
	if _, ok := b.Pop(); ok {
		t.Errorf("expected Pop on zero-capacity buffer to report ok=false")
	}
}
