package mq

import "sync/atomic"

// cacheLinePad is sized so that fields padded by it do not share a cache
// line with neighboring fields, even on architectures with 64-byte lines
// and some slack for the preceding field itself (spec §9 "Cache-line
// padding": every atomic multiple threads may write must be padded to two
// cache lines). Grounded on the teacher's internal/queue/ringbuf.go, which
// pads head/tail the same way.
type cacheLinePad [128]byte

// ipq is a sequential d-ary min-heap over Pair, guarded by a try-lock, with
// an atomically-readable cache of its current minimum key (spec §3/§4.2).
// It is never safe for two goroutines to hold the lock at once; the lock
// itself is a single CAS word rather than sync.Mutex so that push/pop can
// resample on failure instead of blocking (spec §4.1, §9 "Lock-free vs
// try-lock"), and so that the top-key store can be sequenced as the literal
// last action under the lock.
//
// Grounded on dgryski/go-multiq's single-word CAS lock (other_examples),
// generalized from a binary heap.Interface to an explicit d-ary array heap
// per spec §4.2.
type ipq struct {
	_ cacheLinePad

	locked atomic.Bool
	_      cacheLinePad

	topKey atomic.Uint64
	_      cacheLinePad

	degree int
	heap   []Pair
}

func newIPQ(degree int) *ipq {
	q := &ipq{degree: degree}
	q.topKey.Store(EmptyKey)
	return q
}

// tryLock attempts to acquire the IPQ's try-lock without blocking.
func (q *ipq) tryLock() bool {
	return q.locked.CompareAndSwap(false, true)
}

// unlock releases the try-lock. Callers must have just finished mutating
// the heap and must have already refreshed topKey: the store below is
// only a memory fence (release), not the cache update itself, matching
// spec §4.2's "written as the last action under the lock".
func (q *ipq) unlock() {
	q.locked.Store(false)
}

// peekTopKey reads the top-key cache without acquiring the lock. It may
// observe a value that has since been superseded by a concurrent mutation,
// but never a torn one (spec §5, "top-key cache ... read with acquire
// semantics on the fast path").
func (q *ipq) peekTopKey() Key {
	return q.topKey.Load()
}

// refreshTopKey recomputes and stores the top-key cache from the current
// heap contents. Must be called with the lock held, and must be the last
// mutation before unlock.
func (q *ipq) refreshTopKey() {
	if len(q.heap) == 0 {
		q.topKey.Store(EmptyKey)
		return
	}
	q.topKey.Store(q.heap[0].Key)
}

// push inserts p into the heap. Must be called with the lock held; does
// not itself refresh the top-key cache, so callers finish with
// refreshTopKey before unlock.
func (q *ipq) push(p Pair) {
	q.heap = append(q.heap, p)
	q.siftUp(len(q.heap) - 1)
}

// popMin removes and returns the minimum element. Must be called with the
// lock held and the heap non-empty.
func (q *ipq) popMin() Pair {
	min := q.heap[0]
	last := len(q.heap) - 1
	q.heap[0] = q.heap[last]
	q.heap = q.heap[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return min
}

// peek returns the minimum element without removing it. Must be called
// with the lock held and the heap non-empty.
func (q *ipq) peek() Pair {
	return q.heap[0]
}

func (q *ipq) empty() bool {
	return len(q.heap) == 0
}

func (q *ipq) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / q.degree
		if !q.heap[i].Less(q.heap[parent]) {
			return
		}
		q.heap[i], q.heap[parent] = q.heap[parent], q.heap[i]
		i = parent
	}
}

func (q *ipq) siftDown(i int) {
	n := len(q.heap)
	for {
		first := i*q.degree + 1
		if first >= n {
			return
		}
		smallest := first
		last := first + q.degree
		if last > n {
			last = n
		}
		for c := first + 1; c < last; c++ {
			if q.heap[c].Less(q.heap[smallest]) {
				smallest = c
			}
		}
		if !q.heap[smallest].Less(q.heap[i]) {
			return
		}
		q.heap[i], q.heap[smallest] = q.heap[smallest], q.heap[i]
		i = smallest
	}
}
