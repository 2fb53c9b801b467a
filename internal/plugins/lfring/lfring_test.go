package lfring_test

import (
	"testing"

	"github.com/KvGeijer/multiqueue-experiments/internal/plugins/lfring"
)

func TestQueue_PushPopRoundTrip(t *testing.T) {
	q, err := lfring.New(2, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h0 := q.Handle(0)
	h1 := q.Handle(1)

	h0.Push(1, 100)
	h1.Push(2, 200)

	seen := make(map[uint64]uint64)
	for i := 0; i < 2; i++ {
		p, ok := h0.TryPop()
		if !ok {
			p, ok = h1.TryPop()
		}
		if !ok {
			t.Fatalf("expected an element on pop %d", i)
		}
		seen[p.Key] = p.Value
	}

	if seen[1] != 100 || seen[2] != 200 {
		t.Fatalf("unexpected contents: %v", seen)
	}
}

func TestQueue_EmptyReturnsFalse(t *testing.T) {
	q, err := lfring.New(1, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := q.Handle(0)
	if _, ok := h.TryPop(); ok {
		t.Fatal("expected TryPop on empty queue to report false")
	}
}
