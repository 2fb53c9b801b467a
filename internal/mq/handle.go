package mq

import (
	"runtime"
	"sync/atomic"
)

// Handle is a worker's private view onto a MultiQueue: its own RNG stream,
// its own sticky indices, and (depending on Config.Buffering) its own
// insertion/deletion buffers. A Handle is owned exclusively by the worker
// that obtained it from MultiQueue.Handle and must never be shared across
// goroutines (spec §9 "Handle ownership").
//
// Grounded on the teacher's internal/queue.RingBuffer single-owner
// discipline, generalized from a buffer's push/pop sides to a full
// push/pop algorithm against a MultiQueue; the same package's CAS-guarded
// pushActive/popActive fields are generalized here into a single `active`
// guard shared by every entry point, since a Handle's single owner calls
// Push and TryPop from the same goroutine rather than from two.
type Handle struct {
	mq       *MultiQueue
	threadID int
	rng      *rng

	pushSticky  int
	pushCounter int
	popSticky   int
	popCounter  int

	insBuf *insertionRing
	delBuf *deletionBuffer

	active atomic.Uint32

	Stats Stats
}

// enter claims the single-owner guard for the duration of one exported
// call, panicking if another goroutine is already inside one: a Handle
// must never be shared (spec §9 "Handle ownership"), and this turns a
// violation into an immediate panic instead of a silent heap corruption.
func (h *Handle) enter() {
	if !h.active.CompareAndSwap(0, 1) {
		panic("mq: concurrent call on a single-owner Handle")
	}
}

func (h *Handle) leave() {
	h.active.Store(0)
}

func newHandle(q *MultiQueue, threadID int) *Handle {
	cfg := q.cfg
	h := &Handle{
		mq:       q,
		threadID: threadID,
		rng:      newRNG(cfg.Seed, threadID),
	}
	if cfg.Buffering.insertEnabled() {
		h.insBuf = newInsertionRing(cfg.InsertionBufferSize)
	}
	if cfg.Buffering.deleteEnabled() {
		h.delBuf = newDeletionBuffer(cfg.DeletionBufferSize)
	}
	return h
}

// Push inserts (key, value) into the queue (spec §4.1 "Push algorithm").
func (h *Handle) Push(key Key, value Value) {
	h.enter()
	defer h.leave()
	p := Pair{Key: key, Value: value}
	if h.insBuf != nil {
		if h.insBuf.push(p) {
			return
		}
		h.flushInsertionBuffer()
		h.insBuf.push(p)
		return
	}
	h.pushToIPQ(p)
}

// flushInsertionBuffer drains every pending push into one IPQ under a
// single lock acquisition. Called when the buffer is full, and on every
// pop so buffered elements become visible to other handles before this
// handle reports the queue as locally exhausted (spec §4.1 "Insertion
// buffer: ... flushed to its sticky IPQ when full or on pop").
func (h *Handle) flushInsertionBuffer() {
	if h.insBuf == nil || h.insBuf.empty() {
		return
	}
	i := h.pickPushTarget(true)
	q := h.mq.ipqs[i]
	for !q.tryLock() {
		h.Stats.NumLockingFailed.Add(1)
		i = h.pickPushTarget(false)
		q = h.mq.ipqs[i]
	}
	for {
		p, ok := h.insBuf.popAny()
		if !ok {
			break
		}
		q.push(p)
	}
	q.refreshTopKey()
	q.unlock()
	h.afterPush(i)
}

// pickPushTarget chooses the IPQ index for the next push. When
// allowSticky is true and the handle still has stickiness budget, it
// reuses the current sticky index; otherwise it draws a fresh index and
// resets the stickiness counter (spec §4.1 step 2).
func (h *Handle) pickPushTarget(allowSticky bool) int {
	if allowSticky && h.pushCounter > 0 {
		return h.pushSticky
	}
	i := h.rng.intn(len(h.mq.ipqs))
	h.pushSticky = i
	h.pushCounter = h.mq.cfg.K
	return i
}

func (h *Handle) afterPush(i int) {
	h.pushSticky = i
	if h.pushCounter > 0 {
		h.pushCounter--
	}
	h.Stats.UseCounts.Add(1)
}

// pushToIPQ performs the unbuffered push algorithm: try the sticky (or a
// freshly drawn) index, resample on lock failure up to MaxLockRetries
// times, and if every sampled index is contended, fall through to a
// deterministic scan for the first unlocked IPQ. Push never fails: some
// IPQ eventually unlocks, because no IPQ is ever held indefinitely.
func (h *Handle) pushToIPQ(p Pair) {
	for attempt := 0; attempt < h.mq.cfg.MaxLockRetries; attempt++ {
		i := h.pickPushTarget(attempt == 0)
		q := h.mq.ipqs[i]
		if q.tryLock() {
			q.push(p)
			q.refreshTopKey()
			q.unlock()
			h.afterPush(i)
			return
		}
		h.Stats.NumLockingFailed.Add(1)
		h.Stats.NumResets.Add(1)
		h.pushCounter = 0
	}
	for {
		for i, q := range h.mq.ipqs {
			if q.tryLock() {
				q.push(p)
				q.refreshTopKey()
				q.unlock()
				h.afterPush(i)
				return
			}
		}
		runtime.Gosched()
	}
}

// TryPop removes and returns an approximately-minimal element, or reports
// the queue empty (spec §4.1 "Pop algorithm (random two-choice)").
func (h *Handle) TryPop() (Pair, bool) {
	h.enter()
	defer h.leave()
	h.flushInsertionBuffer()
	if h.delBuf != nil {
		if p, ok := h.delBuf.popMin(); ok {
			return p, true
		}
	}
	for {
		i, iKey, j, jKey := h.pickTwoCandidates()
		if iKey == EmptyKey && jKey == EmptyKey {
			return h.scanForAny(true)
		}
		winner, winnerKey, otherKey := i, iKey, jKey
		if jKey < iKey {
			winner, winnerKey, otherKey = j, jKey, iKey
		}
		q := h.mq.ipqs[winner]
		if !q.tryLock() {
			h.Stats.NumLockingFailed.Add(1)
			continue
		}
		if q.empty() {
			q.unlock()
			continue
		}
		if h.mq.cfg.Buffering.merging() {
			h.mergeInsertionBufferLocked(q)
		}
		top := q.peek().Key
		if top > otherKey+h.mq.cfg.PopSlack && otherKey != EmptyKey {
			q.unlock()
			continue
		}
		_ = winnerKey
		if h.delBuf != nil {
			h.refillDeletionBufferLocked(q)
			q.refreshTopKey()
			q.unlock()
			h.afterPop(winner)
			if p, ok := h.delBuf.popMin(); ok {
				return p, true
			}
			continue
		}
		p := q.popMin()
		q.refreshTopKey()
		q.unlock()
		h.afterPop(winner)
		return p, true
	}
}

// mergeInsertionBufferLocked drains this handle's insertion buffer into q,
// which the caller already holds locked. Used by the Merging buffering
// variant so a pop never observes a stale heap while elements sit
// unflushed in the handle's own buffer (spec §4.1 "Merging").
func (h *Handle) mergeInsertionBufferLocked(q *ipq) {
	if h.insBuf == nil || h.insBuf.empty() {
		return
	}
	for {
		p, ok := h.insBuf.popAny()
		if !ok {
			return
		}
		q.push(p)
	}
}

// refillDeletionBufferLocked pulls up to DeletionBufferSize elements out
// of q (already locked, already confirmed non-empty) into the handle's
// deletion buffer, smallest first.
func (h *Handle) refillDeletionBufferLocked(q *ipq) {
	h.delBuf.reset()
	for !h.delBuf.full() && !q.empty() {
		h.delBuf.insertSorted(q.popMin())
	}
}

func (h *Handle) pickTwoCandidates() (int, Key, int, Key) {
	m := len(h.mq.ipqs)
	var i, j int
	if h.popCounter > 0 {
		i = h.popSticky
		j = h.rng.intn(m)
		for j == i && m > 1 {
			j = h.rng.intn(m)
		}
	} else {
		i = h.rng.intn(m)
		j = h.rng.intn(m)
		for j == i && m > 1 {
			j = h.rng.intn(m)
		}
		h.popSticky = i
		h.popCounter = h.mq.cfg.K
	}
	return i, h.mq.ipqs[i].peekTopKey(), j, h.mq.ipqs[j].peekTopKey()
}

func (h *Handle) afterPop(winner int) {
	h.popSticky = winner
	if h.popCounter > 0 {
		h.popCounter--
	}
	h.Stats.UseCounts.Add(1)
}

// scanForAny implements the empty protocol (spec §4.1 step 6): a fixed
// left-to-right scan of every IPQ, try-locking each in turn. If any IPQ
// yields an element, it is returned immediately (not necessarily the
// global minimum). If a full pass finds every IPQ empty while holding its
// lock, the queue is certified empty. A pass that instead finds some IPQs
// merely busy is inconclusive and must retry: handing back "empty" in
// that case would be unsound, since a busy IPQ might hold the only
// element. retryOnBusy controls the random-pop caller's variant: it
// always retries, since try_pop must never falsely report empty.
func (h *Handle) scanForAny(retryOnBusy bool) (Pair, bool) {
	for {
		allEmptyUnlocked := true
		for i, q := range h.mq.ipqs {
			if !q.tryLock() {
				allEmptyUnlocked = false
				continue
			}
			if !q.empty() {
				p := q.popMin()
				q.refreshTopKey()
				q.unlock()
				h.afterPop(i)
				return p, true
			}
			q.unlock()
		}
		if allEmptyUnlocked {
			return Pair{}, false
		}
		if !retryOnBusy {
			return Pair{}, false
		}
		runtime.Gosched()
	}
}

// ExtractFromPartition performs a single deterministic scan of every IPQ
// and returns the first element found, without retrying on contention.
// Unlike TryPop's empty protocol, it does not need to certify global
// emptiness by itself: it is used by the SSSP engine's idle/probing state
// machine, where the surrounding idle_counter consensus protocol is the
// actual correctness net (spec §5.4, §4.3 "ExtractFromPartition"). A
// single best-effort pass keeps that probe cheap.
func (h *Handle) ExtractFromPartition() (Pair, bool) {
	h.enter()
	defer h.leave()
	return h.scanForAny(false)
}
