package mq_test

import (
	"testing"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// With one worker and C=1 the queue holds a single IPQ, so a lone handle
// sees exact order; with more IPQs the order is only relaxed.
func TestMultiQueue_SingleHandlePushPopOrder(t *testing.T) {
	cfg := mq.DefaultConfig()
	cfg.C = 1
	q := mq.New(1, cfg)
	h := q.NewHandle(0)

	vals := []mq.Key{50, 10, 90, 30, 70, 20, 80, 0, 60, 40}
	for _, k := range vals {
		h.Push(k, k)
	}

	var got []mq.Key
	for {
		p, ok := h.TryPop()
		if !ok {
			break
		}
		got = append(got, p.Key)
	}

	if len(got) != len(vals) {
		t.Fatalf("expected %d pops, got %d", len(vals), len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("single-handle pops not globally ordered: %v", got)
		}
	}
}

func TestMultiQueue_EmptyReturnsFalse(t *testing.T) {
	q := mq.New(2, mq.DefaultConfig())
	h := q.NewHandle(0)
	if _, ok := h.TryPop(); ok {
		t.Fatal("expected TryPop on empty queue to report false")
	}
}

func TestMultiQueue_NoLossAcrossHandles(t *testing.T) {
	cfg := mq.DefaultConfig()
	q := mq.New(4, cfg)

	const perWorker = 500
	total := 4 * perWorker

	for w := 0; w < 4; w++ {
		h := q.NewHandle(w)
		for i := 0; i < perWorker; i++ {
			h.Push(mq.Key(w*perWorker+i+1), mq.Value(w))
		}
	}

	if got := q.Len(); got != total {
		t.Fatalf("expected %d resident elements after pushing, got %d", total, got)
	}

	seen := make(map[mq.Key]bool, total)
	h := q.NewHandle(0)
	count := 0
	for {
		p, ok := h.TryPop()
		if !ok {
			break
		}
		if seen[p.Key] {
			t.Fatalf("key %d popped twice", p.Key)
		}
		seen[p.Key] = true
		count++
	}

	if count != total {
		t.Fatalf("expected to drain %d elements, drained %d", total, count)
	}
}

func TestMultiQueue_BufferingVariants(t *testing.T) {
	for _, buffering := range []mq.Buffering{mq.NoBuffering, mq.InsertBuffering, mq.DeleteBuffering, mq.FullBuffering, mq.Merging} {
		cfg := mq.DefaultConfig()
		cfg.Buffering = buffering
		cfg.InsertionBufferSize = 4
		cfg.DeletionBufferSize = 4

		q := mq.New(1, cfg)
		h := q.NewHandle(0)

		const n = 100
		for i := 0; i < n; i++ {
			h.Push(mq.Key(n-i), mq.Value(i))
		}

		seen := make(map[mq.Key]bool, n)
		for {
			p, ok := h.TryPop()
			if !ok {
				break
			}
			if seen[p.Key] {
				t.Fatalf("buffering=%v: key %d popped twice", buffering, p.Key)
			}
			seen[p.Key] = true
		}

		if len(seen) != n {
			t.Fatalf("buffering=%v: expected %d unique pops, got %d", buffering, n, len(seen))
		}
	}
}

func TestMultiQueue_ExtractFromPartitionDoesNotBlockOnEmpty(t *testing.T) {
	q := mq.New(2, mq.DefaultConfig())
	h := q.NewHandle(0)
	if _, ok := h.ExtractFromPartition(); ok {
		t.Fatal("expected ExtractFromPartition on empty queue to report false")
	}
	h.Push(1, 1)
	p, ok := h.ExtractFromPartition()
	if !ok || p.Key != 1 {
		t.Fatalf("expected ExtractFromPartition to find the pushed element, got %v %v", p, ok)
	}
}
