// Package coord provides the thread (goroutine) coordination primitives
// the SSSP, throughput, and stress drivers share: a fixed-size worker
// pool with per-worker identity, a reusable barrier for staged
// synchronization, a one-shot "ready" signal from the first worker that
// sends it back to the launching goroutine, and synchronized/timed
// work-dispatch helpers.
//
// Grounded on thread_coordination::{Context,ThreadCoordinator,TaskHandle}
// as used throughout benchmarks/shortest_path.cpp, src/throughput.cpp,
// and stress_test.cpp (original_source) — that header was not itself
// retrieved, so its API is reconstructed from call sites rather than
// translated. The underlying primitives are the teacher's own:
// internal/cancel.AtomicCanceler backs the cooperative stop flag (spec §5
// "Cancellation: cooperative, via stop_flag"), and internal/tick's
// runtime.nanotime linkname backs the work-time envelope (spec §9
// "Timing: use a monotonic steady clock for measured intervals"), in
// place of time.Now's heavier time.Time allocation on every barrier.
package coord

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/KvGeijer/multiqueue-experiments/internal/cancel"
	"github.com/KvGeijer/multiqueue-experiments/internal/tick"
)

// Coordinator owns the barrier and shared dispatch state for one run of
// numWorkers goroutines. It is single-use: build a new Coordinator for
// each benchmark phase, the way the original constructs a fresh
// ThreadCoordinator per thread-count iteration.
type Coordinator struct {
	numWorkers int
	barrier    *CyclicBarrier
	stopFlag   *cancel.AtomicCanceler
	startFlag  atomic.Bool

	ready     chan struct{}
	readyOnce sync.Once

	cursor atomic.Uint64

	wg sync.WaitGroup
}

// New builds a Coordinator for numWorkers workers.
func New(numWorkers int) *Coordinator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Coordinator{
		numWorkers: numWorkers,
		barrier:    NewCyclicBarrier(numWorkers),
		stopFlag:   cancel.NewAtomic(),
		ready:      make(chan struct{}),
	}
}

func (c *Coordinator) NumWorkers() int {
	return c.numWorkers
}

// Run launches one goroutine per worker, each invoking fn with its own
// Context. Run returns immediately; use WaitUntilNotified and Join the
// way the original calls coordinator.wait_until_notified() then
// coordinator.join() around a timed window.
func (c *Coordinator) Run(fn func(ctx *Context)) {
	c.wg.Add(c.numWorkers)
	for id := 0; id < c.numWorkers; id++ {
		id := id
		go func() {
			defer c.wg.Done()
			pinCurrentGoroutine(id)
			ctx := &Context{coord: c, id: id}
			fn(ctx)
		}()
	}
}

// WaitUntilNotified blocks until some worker calls Context.NotifyCoordinator.
// The drivers use this to know every worker has finished its setup stage
// (key generation, prefill) before flipping a start flag and beginning
// the timed section.
func (c *Coordinator) WaitUntilNotified() {
	<-c.ready
}

// Join blocks until every worker goroutine has returned from fn.
func (c *Coordinator) Join() {
	c.wg.Wait()
}

// Start flips the start flag every worker's WaitForStart is spinning on.
// Call it after WaitUntilNotified so the caller can bracket a precise
// timed window the way the original brackets start_flag between
// coordinator.wait_until_notified() and coordinator.join().
func (c *Coordinator) Start() {
	c.startFlag.Store(true)
}

// Stop requests every worker to observe StopRequested as true. Workers
// must poll it themselves; Stop does not preempt a running goroutine.
func (c *Coordinator) Stop() {
	c.stopFlag.Cancel()
}

// StopRequested reports whether Stop has been called.
func (c *Coordinator) StopRequested() bool {
	return c.stopFlag.Done()
}

// Context is a worker's handle onto its Coordinator: its id, the total
// worker count, and the synchronization/dispatch helpers that operate
// against the shared barrier and cursor.
type Context struct {
	coord *Coordinator
	id    int
}

func (ctx *Context) ID() int {
	return ctx.id
}

func (ctx *Context) NumWorkers() int {
	return ctx.coord.numWorkers
}

func (ctx *Context) IsMain() bool {
	return ctx.id == 0
}

func (ctx *Context) StopRequested() bool {
	return ctx.coord.StopRequested()
}

// NotifyCoordinator signals WaitUntilNotified's caller. Only the first
// call across all workers has an effect, matching the original's
// single notify_coordinator() call from the stage-0 synchronize action.
func (ctx *Context) NotifyCoordinator() {
	ctx.coord.readyOnce.Do(func() {
		close(ctx.coord.ready)
	})
}

// WaitForStart busy-spins until the Coordinator's Start has been called.
// Matches the original's `while (!start_flag.load(...)) { _mm_pause(); }`
// gate between the setup barrier and the timed work loop.
func (ctx *Context) WaitForStart() {
	for !ctx.coord.startFlag.Load() {
		runtime.Gosched()
	}
}

// Synchronize blocks every worker at a barrier; if action is non-nil,
// exactly one worker runs it before any worker is released. Matches
// thread_coordination::Context::synchronize(stage, fn) with the stage
// counter folded into the barrier's own generation tracking.
func (ctx *Context) Synchronize(action func()) {
	ctx.coord.barrier.Wait(action)
}

// ExecuteSynchronized barriers every worker, runs fn, and returns this
// worker's own start/end monotonic-nanosecond bounds. Callers aggregate
// bounds across workers themselves (min start, max end), matching
// Result::update_work_time in src/throughput.cpp.
func (ctx *Context) ExecuteSynchronized(fn func()) (start, end int64) {
	ctx.coord.barrier.Wait(nil)
	start = tick.NanoTime()
	fn()
	end = tick.NanoTime()
	return start, end
}

// blockwiseChunk picks the granularity at which workers claim slices of
// an n-element workload from the shared cursor. Smaller chunks balance
// load better under skewed per-element cost, at the expense of more
// atomic traffic; this ratio is an implementer's choice (DESIGN.md),
// the original leaves chunking to its own unseen implementation.
func blockwiseChunk(n, numWorkers int) int {
	chunk := n / (numWorkers * 64)
	if chunk < 1 {
		chunk = 1
	}
	return chunk
}

// ExecuteSynchronizedBlockwise barriers every worker, then has each claim
// contiguous index ranges out of [0,n) from a shared atomic cursor
// (reset by the barrier's elected action) until the range is exhausted,
// calling fn(start, count) per claimed range. Matches
// Context::execute_synchronized_blockwise as used by execute_mixed and
// execute_split_push in src/throughput.cpp.
func (ctx *Context) ExecuteSynchronizedBlockwise(n int, fn func(start, count int)) (start, end int64) {
	chunk := blockwiseChunk(n, ctx.coord.numWorkers)
	ctx.coord.barrier.Wait(func() {
		ctx.coord.cursor.Store(0)
	})
	start = tick.NanoTime()
	for {
		pos := ctx.coord.cursor.Add(uint64(chunk)) - uint64(chunk)
		if pos >= uint64(n) {
			break
		}
		count := chunk
		if pos+uint64(count) > uint64(n) {
			count = n - int(pos)
		}
		fn(int(pos), count)
	}
	end = tick.NanoTime()
	return start, end
}

// pinCurrentGoroutine best-effort pins the OS thread backing the calling
// goroutine to a single CPU (spec §9 "best-effort CPU pinning"), mirroring
// Task::get_config's cpu_set.set(ctx.get_id()) in the original. It is a
// no-op wherever platform support (internal/coord/pin_*.go) doesn't cover
// the running OS.
func pinCurrentGoroutine(id int) {
	runtime.LockOSThread()
	setAffinity(id)
}
