// Package throughput implements the ThroughputDriver (spec §4.5): it
// generates per-worker key streams, prefills the queue, then runs a
// timed mixed or split push/pop phase and aggregates failed pops and
// the work-time envelope across workers.
//
// Grounded almost line-for-line on src/throughput.cpp (original_source):
// generate_workload, prefill, execute_mixed, execute_split_push, and
// execute_split_pop map onto Driver's like-named methods below, with
// thread_coordination::Context's synchronized/blockwise helpers replaced
// by internal/coord's Go equivalents.
package throughput

import (
	"sync/atomic"
	"time"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/coord"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Result aggregates one run's outcome across every worker: the
// min-start/max-end work-time envelope, the total failed-pop count, and
// (split mode) the running pop count drivers race to reach the target
// against. Matches Result's atomic fields in src/throughput.cpp.
// startTime/endTime are monotonic nanosecond ticks from
// internal/tick.NanoTime via internal/coord, not wall-clock time: only
// their difference is meaningful.
type Result struct {
	startTime     atomic.Int64
	endTime       atomic.Int64
	NumFailedPops atomic.Int64
	NumPops       atomic.Int64
}

func newResult() *Result {
	r := &Result{}
	r.startTime.Store(int64(1<<63 - 1))
	r.endTime.Store(int64(-1 << 63))
	return r
}

// updateWorkTime folds one worker's [start,end) bound into the running
// envelope with a CAS retry loop, matching update_work_time's
// compare_exchange_weak loops.
func (r *Result) updateWorkTime(start, end int64) {
	for {
		old := r.startTime.Load()
		if start >= old || r.startTime.CompareAndSwap(old, start) {
			break
		}
	}
	for {
		old := r.endTime.Load()
		if end <= old || r.endTime.CompareAndSwap(old, end) {
			break
		}
	}
}

// WorkTime returns the aggregated [min-start, max-end) envelope.
func (r *Result) WorkTime() time.Duration {
	start := r.startTime.Load()
	end := r.endTime.Load()
	if end < start {
		return 0
	}
	return time.Duration(end - start)
}

// Driver runs one throughput benchmark phase against a fixed queue.
type Driver struct {
	Settings config.ThroughputSettings
	Queue    mq.Queue
}

// New builds a Driver for settings against queue. Callers must validate
// settings themselves (config.ThroughputSettings.Validate) before
// calling Run, matching the C++ main's validate()-then-construct order.
func New(settings config.ThroughputSettings, queue mq.Queue) *Driver {
	return &Driver{Settings: settings, Queue: queue}
}

// prefill pushes the worker's prefill key stream under a synchronized
// barrier, matching prefill()'s single execute_synchronized block.
func (d *Driver) prefill(ctx *coord.Context, handle mq.HandleAPI) {
	keys := prefillKeys(d.Settings, ctx.ID())
	if len(keys) == 0 {
		return
	}
	ctx.ExecuteSynchronized(func() {
		for _, key := range keys {
			handle.Push(key, mq.Value(key))
		}
	})
}

// executeMixed runs execute_mixed: every worker cooperatively claims
// blocks out of the shared, full key stream (not just its own slice —
// matching execute_mixed's `keys.size()` blockwise dispatch over the
// entire vector in src/throughput.cpp), pushing then spinning on pop
// until it succeeds, incrementing a failed-pop counter on every miss.
func (d *Driver) executeMixed(ctx *coord.Context, handle mq.HandleAPI, keys []mq.Key, result *Result) {
	var numFailed int64
	start, end := ctx.ExecuteSynchronizedBlockwise(len(keys), func(lo, count int) {
		for i := lo; i < lo+count; i++ {
			handle.Push(keys[i], mq.Value(keys[i]))
			for {
				if _, ok := handle.TryPop(); ok {
					break
				}
				numFailed++
			}
		}
	})
	result.NumFailedPops.Add(numFailed)
	result.updateWorkTime(start, end)
}

// executeSplitPush runs execute_split_push: every push-designated worker
// cooperatively claims blocks out of the shared, full key stream until
// it is exhausted, the same cooperative dispatch executeMixed uses.
func (d *Driver) executeSplitPush(ctx *coord.Context, handle mq.HandleAPI, keys []mq.Key, result *Result) {
	start, end := ctx.ExecuteSynchronizedBlockwise(len(keys), func(lo, count int) {
		for i := lo; i < lo+count; i++ {
			handle.Push(keys[i], mq.Value(keys[i]))
		}
	})
	result.updateWorkTime(start, end)
}

// executeSplitPop runs execute_split_pop: this worker pops in a tight
// loop until the shared pop counter reaches numElements, checking the
// target against the value *returned by* the fetch-add rather than a
// separate load, per spec.md §9's resolution of the split-mode
// termination Open Question.
func (d *Driver) executeSplitPop(ctx *coord.Context, handle mq.HandleAPI, result *Result, numElements int64) {
	var numFailed int64
	start, end := ctx.ExecuteSynchronized(func() {
		for {
			var batch int64
			for {
				if _, ok := handle.TryPop(); !ok {
					break
				}
				batch++
			}
			numFailed++
			if batch == 0 {
				if result.NumPops.Load() >= numElements {
					break
				}
				continue
			}
			if result.NumPops.Add(batch) >= numElements {
				break
			}
		}
	})
	result.updateWorkTime(start, end)
	result.NumFailedPops.Add(numFailed)
}

// Run executes one full throughput benchmark: per-worker key-stream
// generation, prefill, and the timed mixed/split phase, across
// d.Settings.NumThreads workers against d.Queue. Matches
// benchmark_thread's overall structure in src/throughput.cpp, minus the
// PAPI/MQ_COUNT_STATS branches, which this module surfaces via
// mq.Handle.Stats instead of a build-time flag.
func (d *Driver) Run() *Result {
	result := newResult()
	perThread := int(d.Settings.ElementsPerThread)
	fullKeys := make([]mq.Key, d.Settings.NumThreads*perThread)

	c := coord.New(d.Settings.NumThreads)
	c.Run(func(ctx *coord.Context) {
		own := GenerateWorkload(d.Settings, ctx.ID())
		copy(fullKeys[ctx.ID()*perThread:(ctx.ID()+1)*perThread], own)

		handle := d.Queue.Handle(ctx.ID())
		d.prefill(ctx, handle)

		switch d.Settings.WorkMode {
		case config.Mixed:
			d.executeMixed(ctx, handle, fullKeys, result)
		case config.Split:
			if ctx.ID() < d.Settings.NumPushThreads {
				d.executeSplitPush(ctx, handle, fullKeys, result)
			} else {
				target := int64((d.Settings.PrefillPerThread + d.Settings.ElementsPerThread) * uint64(d.Settings.NumThreads))
				d.executeSplitPop(ctx, handle, result, target)
			}
		}
	})
	c.Join()
	return result
}
