package mq_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// TestRelaxation_ConcurrentNoLossNoDuplication pushes a known key set from
// many goroutines and drains it from many others, checking that every key
// is observed exactly once. This is the queue's core safety property:
// relaxed ordering is allowed, losing or duplicating an element is not.
func TestRelaxation_ConcurrentNoLossNoDuplication(t *testing.T) {
	const workers = 8
	const perWorker = 2000
	const total = workers * perWorker

	q := mq.New(workers, mq.DefaultConfig())

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			h := q.NewHandle(w)
			for i := 0; i < perWorker; i++ {
				h.Push(mq.Key(w*perWorker+i+1), mq.Value(w))
			}
		}(w)
	}
	wg.Wait()

	var mu sync.Mutex
	seen := make(map[mq.Key]int, total)
	var popWg sync.WaitGroup
	for w := 0; w < workers; w++ {
		popWg.Add(1)
		go func(w int) {
			defer popWg.Done()
			h := q.NewHandle(workers + w)
			for {
				p, ok := h.TryPop()
				if !ok {
					return
				}
				mu.Lock()
				seen[p.Key]++
				mu.Unlock()
			}
		}(w)
	}
	popWg.Wait()

	if len(seen) != total {
		t.Fatalf("expected %d distinct keys observed, got %d", total, len(seen))
	}
	for k, count := range seen {
		if count != 1 {
			t.Fatalf("key %d observed %d times, want exactly 1", k, count)
		}
	}
}

// TestRelaxation_BoundedUnderLowContention checks that with a single
// consumer and no concurrent producers, pop order degrades gracefully:
// every element is still returned exactly once, and the maximum rank
// inversion (the distance between an element's position in pop order and
// its position in sorted order) stays bounded relative to the number
// of partitions, matching spec §8 property 4's informal bound rather than
// asserting exact sequential order.
func TestRelaxation_BoundedUnderLowContention(t *testing.T) {
	cfg := mq.DefaultConfig()
	cfg.C = 2
	cfg.K = 1
	q := mq.New(4, cfg)
	h := q.NewHandle(0)

	const n = 2000
	for i := 0; i < n; i++ {
		h.Push(mq.Key(i+1), mq.Value(i))
	}

	order := make([]mq.Key, 0, n)
	for {
		p, ok := h.TryPop()
		if !ok {
			break
		}
		order = append(order, p.Key)
	}
	if len(order) != n {
		t.Fatalf("expected %d pops, got %d", n, len(order))
	}

	rank := make(map[mq.Key]int, n)
	for i, k := range order {
		rank[k] = i
	}
	sortedKeys := make([]mq.Key, n)
	for i := 0; i < n; i++ {
		sortedKeys[i] = mq.Key(i + 1)
	}
	sort.Slice(sortedKeys, func(i, j int) bool { return sortedKeys[i] < sortedKeys[j] })

	maxInversion := 0
	for idealRank, k := range sortedKeys {
		actualRank := rank[k]
		d := actualRank - idealRank
		if d < 0 {
			d = -d
		}
		if d > maxInversion {
			maxInversion = d
		}
	}

	// A single handle with no contention, C*N partitions and stickiness
	// K can drift its rank by roughly a partition's worth of elements;
	// allow generous headroom since this bounds relaxation, not exactness.
	partitions := q.NumPartitions()
	bound := partitions * 50
	if maxInversion > bound {
		t.Fatalf("max rank inversion %d exceeds bound %d (partitions=%d)", maxInversion, bound, partitions)
	}
}

// TestRelaxation_EmptyProtocolAfterDrain pushes a single element into a
// queue of several IPQs and checks that TryPop finds it wherever it landed,
// then reports empty (without hanging) once it has been drained.
func TestRelaxation_EmptyProtocolAfterDrain(t *testing.T) {
	q := mq.New(1, mq.DefaultConfig())
	h := q.NewHandle(0)
	h.Push(42, 1)

	p, ok := h.TryPop()
	if !ok || p.Key != 42 {
		t.Fatalf("expected to pop key 42, got %v %v", p, ok)
	}
	if _, ok := h.TryPop(); ok {
		t.Fatal("expected queue to be empty after draining the only element")
	}
}
