// Package sssp implements the parallel single-source shortest path
// workload: a relaxation loop driven by a priority queue of
// (tentative-distance, node) pairs, with a termination protocol based on
// an idle/probing/parked state machine and a global idle counter.
//
// Grounded almost line-for-line on Task::run in
// benchmarks/shortest_path.cpp (original_source): CAS-monotone distance
// relaxation, the exact retries-then-park-then-wake sequence, and the
// idle_counter accounting (parked contributes 2, merely-probing
// contributes 1, termination at idle_counter == 2*numWorkers).
package sssp

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/KvGeijer/multiqueue-experiments/internal/coord"
	"github.com/KvGeijer/multiqueue-experiments/internal/graphio"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Retries is the number of failed extraction attempts a worker tolerates
// before declaring itself idle and entering the park protocol. Grounded
// on shortest_path.cpp's `static constexpr auto retries = 400;`.
const Retries = 400

// workerState values for the idle/park/wake state machine.
const (
	stateActive uint32 = 0
	stateIdle   uint32 = 1 // contributed 1 to idleCounter, about to park
	stateParked uint32 = 2 // contributed 2 total, parked in Park's spin loop
	stateWaking uint32 = 3 // claimed by a waker, about to be reset to active
)

// cacheLinePad keeps hot atomics from sharing a cache line with their
// neighbors, grounded on spec.md §9 and the teacher's
// internal/queue/ringbuf.go padding convention.
type cacheLinePad [64]byte

// distanceCell is one CAS-monotone-decreasing tentative distance.
type distanceCell struct {
	value atomic.Uint32
	_     cacheLinePad
}

// idleCell is one worker's entry in the idle/park/wake state machine.
type idleCell struct {
	state atomic.Uint32
	_     cacheLinePad
}

// Result summarizes one SSSP run for one worker count.
type Result struct {
	NumWorkers           int
	NumProcessedNodes uint64
	Distances         []uint32
}

// Engine holds the graph and distance array an SSSP run operates on. One
// Engine can be reused across worker-count sweeps: Run resets the
// distance array and idle state for each invocation.
type Engine struct {
	graph  *graphio.Graph
	source uint32
}

// New builds an Engine over graph, relaxing distances from source.
func New(graph *graphio.Graph, source uint32) *Engine {
	return &Engine{graph: graph, source: source}
}

// Run executes the relaxation loop with numWorkers goroutines over a
// fresh queue, and returns the resulting distance array plus the total
// number of nodes each worker popped and relaxed.
func (e *Engine) Run(numWorkers int, queue *mq.MultiQueue) Result {
	n := e.graph.NumNodes()
	distances := make([]distanceCell, n)
	for i := range distances {
		distances[i].value.Store(^uint32(0) - 1)
	}
	distances[e.source].value.Store(0)

	idleStates := make([]idleCell, numWorkers)
	var idleCounter atomic.Int64

	var numProcessed atomic.Uint64

	c := coord.New(numWorkers)
	c.Run(func(ctx *coord.Context) {
		handle := queue.NewHandle(ctx.ID())
		var localProcessed uint64

		if ctx.IsMain() {
			handle.Push(0, mq.Value(e.source))
		}
		ctx.Synchronize(func() {
			ctx.NotifyCoordinator()
		})

		p, ok := handle.TryPop()
		for {
			if !ok {
				var resume bool
				p, ok, resume = e.retryThenPark(ctx, handle, idleStates, &idleCounter)
				if !resume {
					break
				}
				if !ok {
					p, ok = handle.TryPop()
				}
				continue
			}
			pushed := e.relax(p, distances, handle)
			localProcessed++
			if pushed {
				e.wakeParked(ctx, idleStates, &idleCounter)
			}
			p, ok = handle.TryPop()
		}

		numProcessed.Add(localProcessed)
	})
	c.Join()

	out := make([]uint32, n)
	for i := range distances {
		out[i] = distances[i].value.Load()
	}
	return Result{
		NumWorkers:        numWorkers,
		NumProcessedNodes: numProcessed.Load(),
		Distances:         out,
	}
}

// relax pops a (distance, node) pair, and if the popped distance is
// still the node's current best, relaxes every outgoing edge with a
// CAS-monotone-decrease, pushing any target whose distance improved.
// Stale entries (the node's distance already improved since this pair
// was pushed) are silently dropped: rejecting them is what makes
// reopening a node idempotent.
func (e *Engine) relax(p mq.Pair, distances []distanceCell, handle *mq.Handle) (pushedAny bool) {
	node := uint32(p.Value)
	current := distances[node].value.Load()
	if uint32(p.Key) > current {
		return false
	}
	for _, edge := range e.graph.Neighbors(node) {
		newDist := current + edge.Weight
		old := distances[edge.Target].value.Load()
		for old > newDist {
			if distances[edge.Target].value.CompareAndSwap(old, newDist) {
				break
			}
			old = distances[edge.Target].value.Load()
		}
		if old > newDist {
			handle.Push(mq.Key(newDist), mq.Value(edge.Target))
			pushedAny = true
		}
	}
	return pushedAny
}

// retryThenPark implements the non-found branch of Task::run: spin for
// Retries failed pops, then register as idle, make one deterministic
// partition scan, and if that also comes up empty, park until either
// global termination or a waker resets this worker to active. An element
// found by a retry or by the scan is returned with found=true for the
// caller to process; resume=false means the run has terminated.
func (e *Engine) retryThenPark(ctx *coord.Context, handle *mq.Handle, idleStates []idleCell, idleCounter *atomic.Int64) (p mq.Pair, found bool, resume bool) {
	for i := 0; i < Retries; i++ {
		if p, ok := handle.TryPop(); ok {
			return p, true, true
		}
		runtime.Gosched()
	}

	id := ctx.ID()
	idleStates[id].state.Store(stateIdle)
	idleCounter.Add(1)

	if p, ok := handle.ExtractFromPartition(); ok {
		idleCounter.Add(-1)
		idleStates[id].state.Store(stateActive)
		return p, true, true
	}

	return mq.Pair{}, false, e.park(ctx, idleStates, idleCounter)
}

// park implements the idle() function: declares this worker fully
// parked (contributing its second count to idleCounter), then spins
// until either the global idle_counter reaches 2*numWorkers
// (termination) or some other worker wakes this one by resetting its
// state to active.
func (e *Engine) park(ctx *coord.Context, idleStates []idleCell, idleCounter *atomic.Int64) bool {
	id := ctx.ID()
	n := int64(ctx.NumWorkers())
	idleStates[id].state.Store(stateParked)
	idleCounter.Add(1)
	for {
		if idleCounter.Load() == 2*n {
			return false
		}
		if idleStates[id].state.Load() == stateActive {
			return true
		}
		runtime.Gosched()
	}
}

// wakeParked implements the pushed-new-work branch of Task::run: if any
// worker might be parked, scan every other worker and claim (CAS
// stateParked -> stateWaking) the ones that are, removing their 2-count
// contribution from idleCounter and resetting them to active.
func (e *Engine) wakeParked(ctx *coord.Context, idleStates []idleCell, idleCounter *atomic.Int64) {
	if idleCounter.Load() <= 0 {
		return
	}
	id := ctx.ID()
	n := ctx.NumWorkers()
	for i := 0; i < n; i++ {
		if i == id {
			continue
		}
		for {
			s := idleStates[i].state.Load()
			if s == stateActive || s == stateWaking {
				break
			}
			if s != stateParked {
				runtime.Gosched()
				continue
			}
			if idleStates[i].state.CompareAndSwap(stateParked, stateWaking) {
				idleCounter.Add(-2)
				idleStates[i].state.Store(stateActive)
				break
			}
		}
	}
}

// Validate compares a Run result's distances against a solution file's
// expected distances, matching benchmarks/shortest_path.cpp's
// "Solution invalid!" check.
func Validate(result Result, solution []uint32) error {
	if len(result.Distances) != len(solution) {
		return fmt.Errorf("sssp: distance count %d does not match solution count %d", len(result.Distances), len(solution))
	}
	for i := range solution {
		if result.Distances[i] != solution[i] {
			return fmt.Errorf("sssp: node %d: got distance %d, want %d", i, result.Distances[i], solution[i])
		}
	}
	return nil
}
