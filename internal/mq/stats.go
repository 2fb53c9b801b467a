package mq

import "sync/atomic"

// Stats accumulates optional per-handle counters mirroring the original
// implementation's MQ_COUNT_STATS build: how often a try-lock failed,
// how many times a push dropped its sticky index after a failed try-lock
// (NumResets), and how many push and pop operations completed (UseCounts).
// Collecting these costs one atomic increment per event; drivers that
// don't care can ignore the snapshot.
type Stats struct {
	NumLockingFailed atomic.Int64
	NumResets        atomic.Int64
	UseCounts        atomic.Int64
}

// Snapshot is a point-in-time copy of Stats suitable for aggregation
// across handles without further atomic access.
type Snapshot struct {
	NumLockingFailed int64
	NumResets        int64
	UseCounts        int64
}

// Load returns a Snapshot of the current counters.
func (s *Stats) Load() Snapshot {
	return Snapshot{
		NumLockingFailed: s.NumLockingFailed.Load(),
		NumResets:        s.NumResets.Load(),
		UseCounts:        s.UseCounts.Load(),
	}
}

// Reset zeroes all counters. Not safe to call concurrently with the
// handle that owns these stats.
func (s *Stats) Reset() {
	s.NumLockingFailed.Store(0)
	s.NumResets.Store(0)
	s.UseCounts.Store(0)
}
