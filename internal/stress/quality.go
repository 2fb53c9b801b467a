package stress

import (
	"bufio"
	"fmt"
	"io"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// BitsForThreadID is the number of high bits of a quality-log value
// reserved for the owning thread's id, matching stress_test.cpp's
// bits_for_thread_id = 8.
const BitsForThreadID = 8

// valueBits is the width of mq.Value, fixed at 64 regardless of GOARCH.
const valueBits = 64

var elemIDMask = mq.Value(1)<<(valueBits-BitsForThreadID) - 1

// PackValue bit-packs a thread id and a per-thread element id into one
// value, matching stress_test.cpp's to_value: the top BitsForThreadID
// bits hold threadID, the rest hold elemID. A post-processing tool can
// recover both with UnpackValue to reconstruct per-element
// insert-to-delete latency.
func PackValue(threadID, elemID uint64) mq.Value {
	return mq.Value(threadID)<<(valueBits-BitsForThreadID) | (mq.Value(elemID) & elemIDMask)
}

// UnpackValue reverses PackValue, matching get_thread_id/get_elem_id.
func UnpackValue(v mq.Value) (threadID, elemID uint64) {
	return uint64(v >> (valueBits - BitsForThreadID)), uint64(v & elemIDMask)
}

// insertionRecord, deletionRecord, and failedRecord are the quality
// log's three line shapes (spec.md §6): successful insert, successful
// delete, and failed delete.
type insertionRecord struct {
	thread int
	tick   uint64
	key    mq.Key
}

type deletionRecord struct {
	thread      int
	tick        uint64
	ownerThread uint64
	elemID      uint64
}

type failedRecord struct {
	thread int
	tick   uint64
}

// QualityLog buffers one worker's operation records for the duration of
// a stress phase, to be flushed to the shared writer after the phase's
// closing barrier — matching stress_test.cpp's per-thread
// local_insertions/local_deletions/local_failed_deletions vectors,
// written out by the main thread only after every worker has joined.
type QualityLog struct {
	insertions []insertionRecord
	deletions  []deletionRecord
	failed     []failedRecord
}

// NewQualityLog preallocates for an expected number of operations, the
// way Task::run reserves its local vectors up front.
func NewQualityLog(expectedOps int) *QualityLog {
	return &QualityLog{
		insertions: make([]insertionRecord, 0, expectedOps),
	}
}

func (q *QualityLog) RecordInsertion(thread int, key mq.Key) {
	q.insertions = append(q.insertions, insertionRecord{thread: thread, tick: realtimeNanos(), key: key})
}

func (q *QualityLog) RecordDeletion(thread int, value mq.Value) {
	owner, elem := UnpackValue(value)
	q.deletions = append(q.deletions, deletionRecord{thread: thread, tick: realtimeNanos(), ownerThread: owner, elemID: elem})
}

func (q *QualityLog) RecordFailed(thread int) {
	q.failed = append(q.failed, failedRecord{thread: thread, tick: realtimeNanos()})
}

// WriteTo writes every record across all workers' logs as "i"/"d"/"f"
// lines (spec.md §6), insertions first, then deletions, then failed
// deletions, matching the three-pass emission order in stress_test.cpp's
// main.
func WriteTo(w io.Writer, logs []*QualityLog) error {
	bw := bufio.NewWriter(w)
	for _, log := range logs {
		for _, r := range log.insertions {
			if _, err := fmt.Fprintf(bw, "i %d %d %d\n", r.thread, r.tick, r.key); err != nil {
				return err
			}
		}
	}
	for _, log := range logs {
		for _, r := range log.deletions {
			if _, err := fmt.Fprintf(bw, "d %d %d %d %d\n", r.thread, r.tick, r.ownerThread, r.elemID); err != nil {
				return err
			}
		}
	}
	for _, log := range logs {
		for _, r := range log.failed {
			if _, err := fmt.Fprintf(bw, "f %d %d\n", r.thread, r.tick); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
