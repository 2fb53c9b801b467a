// Package lfring adapts github.com/randomizedcoder/go-lock-free-ring's
// sharded MPSC ring buffer into the mq.Queue contract, so a benchmark run
// can compare the relaxed-priority MultiQueue against a true FIFO
// structure under the same driver code.
//
// It intentionally does not preserve priority order: Write/TryRead is a
// plain ring buffer per shard, so Pop returns elements in roughly the
// order their shard received them, not in key order. Benchmarks that
// select this variant are measuring raw enqueue/dequeue throughput, not
// approximate-minimum quality.
package lfring

import (
	"fmt"
	"runtime"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Queue wraps a sharded ring buffer sized for numWorkers producers, one
// shard per worker so that pushes from distinct handles never contend on
// the same shard's write path.
type Queue struct {
	r          *ring.ShardedRing
	shards     int
	numWorkers int
}

// New builds a Queue with one ring shard per worker and the given
// per-shard capacity (rounded up to a power of two by the ring itself).
func New(numWorkers, perShardCapacity int) (*Queue, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if perShardCapacity < 1 {
		perShardCapacity = 1024
	}
	r, err := ring.NewShardedRing(uint64(perShardCapacity), uint64(numWorkers))
	if err != nil {
		return nil, fmt.Errorf("lfring: new sharded ring: %w", err)
	}
	return &Queue{r: r, shards: numWorkers, numWorkers: numWorkers}, nil
}

func (q *Queue) NumWorkers() int {
	return q.numWorkers
}

// Handle returns a handle that writes to the shard dedicated to threadID
// and reads from whichever shard TryRead happens to service next.
func (q *Queue) Handle(threadID int) mq.HandleAPI {
	shard := uint64(threadID % q.shards)
	return &handle{q: q, shard: shard}
}

type handle struct {
	q     *Queue
	shard uint64
}

// Push spins on Write until the shard has room. go-lock-free-ring's ring
// never blocks internally, so a full shard is reported back to the
// caller rather than the goroutine stalling inside the library.
func (h *handle) Push(key mq.Key, value mq.Value) {
	p := mq.Pair{Key: key, Value: value}
	for !h.q.r.Write(h.shard, p) {
		runtime.Gosched()
	}
}

func (h *handle) TryPop() (mq.Pair, bool) {
	v, ok := h.q.r.TryRead()
	if !ok {
		return mq.Pair{}, false
	}
	p, ok := v.(mq.Pair)
	if !ok {
		return mq.Pair{}, false
	}
	return p, true
}
