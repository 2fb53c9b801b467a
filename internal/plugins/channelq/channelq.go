// Package channelq adapts the teacher's buffered-channel queue into an
// mq.Queue baseline: a single shared channel of elements, contended by
// every worker's handle. It exists to give benchmark runs a naive control
// variant — whatever speedup a relaxed MultiQueue or a sharded ring
// buffer shows should be measured against this, not against nothing.
//
// Like lfring, it does not preserve priority order.
package channelq

import (
	"runtime"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// chanQueue is the teacher's ChannelQueue[T] narrowed to mq.Pair: a
// non-blocking push/pop over a buffered channel, safe for any number of
// concurrent producers and consumers since channel sends and receives
// are themselves safe for concurrent use (the teacher's own SPSC framing
// describes its RingBuffer, not this type).
type chanQueue struct {
	ch chan mq.Pair
}

func newChanQueue(size int) *chanQueue {
	return &chanQueue{ch: make(chan mq.Pair, size)}
}

func (q *chanQueue) push(p mq.Pair) bool {
	select {
	case q.ch <- p:
		return true
	default:
		return false
	}
}

func (q *chanQueue) pop() (mq.Pair, bool) {
	select {
	case p := <-q.ch:
		return p, true
	default:
		return mq.Pair{}, false
	}
}

// Queue is the shared baseline queue; every handle it hands out pushes to
// and pops from the same underlying channel.
type Queue struct {
	q          *chanQueue
	numWorkers int
}

// New builds a Queue with the given total buffer capacity.
func New(numWorkers, capacity int) *Queue {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if capacity < 1 {
		capacity = 1024
	}
	return &Queue{q: newChanQueue(capacity), numWorkers: numWorkers}
}

func (q *Queue) NumWorkers() int {
	return q.numWorkers
}

// Handle returns a handle over the shared channel. threadID is accepted
// only to satisfy mq.Queue's signature; every handle is interchangeable.
func (q *Queue) Handle(threadID int) mq.HandleAPI {
	return &handle{q: q.q}
}

type handle struct {
	q *chanQueue
}

// Push spins until the shared channel accepts the element. A full
// channel under this baseline means the benchmark is producing faster
// than any consumer drains, which is itself a useful thing to observe
// rather than mask with an unbounded buffer.
func (h *handle) Push(key mq.Key, value mq.Value) {
	p := mq.Pair{Key: key, Value: value}
	for !h.q.push(p) {
		runtime.Gosched()
	}
}

func (h *handle) TryPop() (mq.Pair, bool) {
	return h.q.pop()
}
