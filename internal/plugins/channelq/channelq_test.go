package channelq_test

import (
	"testing"

	"github.com/KvGeijer/multiqueue-experiments/internal/plugins/channelq"
)

func TestQueue_SharedAcrossHandles(t *testing.T) {
	q := channelq.New(2, 8)
	h0 := q.Handle(0)
	h1 := q.Handle(1)

	h0.Push(1, 10)
	h1.Push(2, 20)

	var got []uint64
	for i := 0; i < 2; i++ {
		p, ok := h0.TryPop()
		if !ok {
			t.Fatalf("expected element on pop %d", i)
		}
		got = append(got, p.Key)
	}
	if _, ok := h0.TryPop(); ok {
		t.Fatal("expected queue to be empty after draining both pushes")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(got))
	}
}
