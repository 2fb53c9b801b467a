// Package stress implements the long-running insert/delete mix driver
// whose key policies live in the sibling inserter.go and whose quality
// log lives in quality.go; see the package doc comment in inserter.go.
package stress

import (
	"sync/atomic"
	"time"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/coord"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Result aggregates one stress run's totals across every worker,
// matching num_insertions/num_deletions/num_failed_deletions in
// stress_test.cpp.
type Result struct {
	NumInsertions      atomic.Uint64
	NumDeletions       atomic.Uint64
	NumFailedDeletions atomic.Uint64
}

// Driver runs one stress phase against a fixed queue.
type Driver struct {
	Settings config.StressSettings
	Queue    mq.Queue
}

// New builds a Driver for settings against queue. Callers must validate
// settings themselves before calling Run.
func New(settings config.StressSettings, queue mq.Queue) *Driver {
	return &Driver{Settings: settings, Queue: queue}
}

// Run executes the stress phase: an optional main-worker-only prefill,
// then a synchronized start, then each worker's insert/delete loop until
// the configured stop condition, matching Task::run's overall shape in
// stress_test.cpp. When Settings.QualityLog is set, the stop condition is
// "global successful-deletion count reaches MinDeleteOperations" (the
// original's QUALITY build); otherwise it is "TestDurationMillis have
// elapsed" (the original's THROUGHPUT build). Run returns the aggregate
// Result and, if quality logging was enabled, one *QualityLog per
// worker (nil entries are impossible; a nil slice is returned instead
// when quality logging is off).
func (d *Driver) Run() (*Result, []*QualityLog) {
	result := &Result{}
	var logs []*QualityLog
	if d.Settings.QualityLog {
		logs = make([]*QualityLog, d.Settings.NumThreads)
	}

	var globalDeletions atomic.Uint64
	elemCounters := make([]atomic.Uint64, d.Settings.NumThreads)

	c := coord.New(d.Settings.NumThreads)
	c.Run(func(ctx *coord.Context) {
		id := ctx.ID()
		handle := d.Queue.Handle(id)
		inserter := NewInserter(id, d.Settings)

		var log *QualityLog
		if d.Settings.QualityLog {
			log = NewQualityLog(int(d.Settings.PrefillSize) + 4096)
			logs[id] = log
		}

		if ctx.IsMain() {
			d.prefill(handle, inserter, &elemCounters[id], id, log)
		}

		ctx.Synchronize(func() {
			ctx.NotifyCoordinator()
		})
		ctx.WaitForStart()

		var localInsertions, localDeletions, localFailed uint64
		for {
			if d.Settings.QualityLog {
				if globalDeletions.Load() >= d.Settings.MinDeleteOperations {
					break
				}
			} else if ctx.StopRequested() {
				break
			}

			if inserter.ShouldPush(d.Settings.NumThreads) {
				key := inserter.NextKey()
				if d.Settings.QualityLog {
					elemID := elemCounters[id].Add(1) - 1
					handle.Push(key, PackValue(uint64(id), elemID))
					log.RecordInsertion(id, key)
				} else {
					handle.Push(key, mq.Value(key))
				}
				localInsertions++
			} else {
				p, ok := handle.TryPop()
				if ok {
					if d.Settings.QualityLog {
						log.RecordDeletion(id, p.Value)
						globalDeletions.Add(1)
					}
					localDeletions++
				} else {
					if d.Settings.QualityLog {
						log.RecordFailed(id)
					}
					localFailed++
				}
			}

			if d.Settings.SleepBetweenOps > 0 {
				time.Sleep(time.Duration(inserter.rng.Int64N(d.Settings.SleepBetweenOps + 1)))
			}
		}

		ctx.Synchronize(nil)

		result.NumInsertions.Add(localInsertions)
		result.NumDeletions.Add(localDeletions)
		result.NumFailedDeletions.Add(localFailed)
	})

	c.WaitUntilNotified()
	c.Start()
	if !d.Settings.QualityLog {
		time.Sleep(time.Duration(d.Settings.TestDurationMillis) * time.Millisecond)
		c.Stop()
	}
	c.Join()

	return result, logs
}

// prefill pushes Settings.PrefillSize keys from the main worker only,
// matching Task::run's `if (ctx.is_main())` prefill guard — every other
// worker's handle stays empty until the synchronized phase starts.
// Prefill insertions are logged with tick 0, matching
// InsertionLogEntry{0, key} in stress_test.cpp: they happen before the
// timed phase even starts, so a real timestamp here would be meaningless.
func (d *Driver) prefill(handle mq.HandleAPI, inserter *Inserter, elemCounter *atomic.Uint64, id int, log *QualityLog) {
	if d.Settings.PrefillSize == 0 {
		return
	}
	for i := uint64(0); i < d.Settings.PrefillSize; i++ {
		key := inserter.NextKey()
		if d.Settings.QualityLog {
			elemID := elemCounter.Add(1) - 1
			handle.Push(key, PackValue(uint64(id), elemID))
			log.insertions = append(log.insertions, insertionRecord{thread: id, tick: 0, key: key})
		} else {
			handle.Push(key, mq.Value(key))
		}
	}
}
