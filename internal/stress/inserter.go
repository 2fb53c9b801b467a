// Package stress implements the StressDriver (spec §4.6): a long-running
// mix of inserts and deletes per worker, governed by an insertion policy
// and a key distribution, optionally recording every operation to a
// quality log for post-hoc analysis of the relaxation.
//
// Grounded on stress_test.cpp's Task::run (original_source) and its
// InsertingStrategy collaborator (named and called throughout
// stress_test.cpp but not itself present among the retrieved files;
// its public contract — get_key()/insert() driven by InsertPolicy ×
// KeyDistribution — is reconstructed from those call sites, per
// DESIGN.md).
package stress

import (
	"math/rand/v2"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Inserter is one worker's per-step policy: whether the next step is a
// push or a pop, and what key to push when it is. It is not safe for
// concurrent use; each worker owns exactly one, matching
// InsertingStrategy<key_type>'s per-thread construction in
// stress_test.cpp.
type Inserter struct {
	threadID int
	cfg      config.StressSettings
	rng      *rand.Rand

	// producerStep is the position of the Ascending/Descending key walk;
	// altPush is the Alternating policy's push/pop toggle.
	producerStep int
	altPush      bool

	// dijkstraLast holds the last key the Dijkstra-style distribution
	// generated; each new key increments from it, so keys trend upward
	// the way SSSP-like workloads push them.
	dijkstraLast mq.Key
}

// NewInserter builds the Inserter for threadID, seeded deterministically
// from (seed, threadID) the way stress_test.cpp seeds each thread's
// std::mt19937 from thread_seeds[ctx.get_id()].
func NewInserter(threadID int, cfg config.StressSettings) *Inserter {
	seed := mix(uint64(cfg.Seed), uint64(threadID))
	return &Inserter{
		threadID:     threadID,
		cfg:          cfg,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		altPush:      true,
		dijkstraLast: cfg.MinKey,
	}
}

func mix(seed, id uint64) uint64 {
	x := seed + id*0x9E3779B97F4A7C15 + 1
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return x
}

// ShouldPush decides whether the next step is a push, per cfg.InsertPolicy.
//
//   - Uniform: push with probability 1/2.
//   - Split: the first half of workers (by threadID) push only and never
//     pop (numPushers = ceil(numThreads/2)); the rest pop only.
//   - Producer: a fixed single-producer pattern — thread 0 always
//     pushes, every other thread always pops.
//   - Alternating: strictly alternates push, pop, push, pop, ... per
//     worker, independent of what any other worker does.
func (ins *Inserter) ShouldPush(numThreads int) bool {
	switch ins.cfg.InsertPolicy {
	case config.InsertSplit:
		numPushers := (numThreads + 1) / 2
		return ins.threadID < numPushers
	case config.InsertProducer:
		return ins.threadID == 0
	case config.InsertAlternating:
		push := ins.altPush
		ins.altPush = !ins.altPush
		return push
	default: // InsertUniform
		return ins.rng.Uint64()&1 == 0
	}
}

// NextKey draws the next key to push, per cfg.KeyDistribution.
//
//   - Uniform: uniform over [MinKey, MaxKey].
//   - Ascending/Descending: a monotone walk from MinKey/MaxKey that
//     wraps back to the start once it reaches the far bound, so a
//     long-running stress phase keeps producing in-range keys instead of
//     saturating at one end.
//   - Dijkstra: MinKey plus a running total of small random increments
//     in [DijkstraMinIncrease, DijkstraMaxIncrease], mimicking SSSP's
//     monotonically-increasing tentative distances.
//   - ThreadID: MinKey + threadID, so every key a given worker pushes is
//     identical — useful for isolating per-IPQ contention from key skew.
func (ins *Inserter) NextKey() mq.Key {
	rangeSize := uint64(ins.cfg.MaxKey-ins.cfg.MinKey) + 1
	switch ins.cfg.KeyDistribution {
	case config.KeyAscending:
		ins.producerStep++
		return ins.cfg.MinKey + mq.Key(uint64(ins.producerStep)%rangeSize)
	case config.KeyDescending:
		ins.producerStep++
		return ins.cfg.MaxKey - mq.Key(uint64(ins.producerStep)%rangeSize)
	case config.KeyDijkstra:
		incRange := uint64(ins.cfg.DijkstraMaxIncrease-ins.cfg.DijkstraMinIncrease) + 1
		inc := ins.cfg.DijkstraMinIncrease + mq.Key(ins.rng.Uint64N(incRange))
		next := ins.dijkstraLast + inc
		if next > ins.cfg.MaxKey {
			next = ins.cfg.MinKey + (next - ins.cfg.MaxKey - 1)
		}
		ins.dijkstraLast = next
		return next
	case config.KeyThreadID:
		return ins.cfg.MinKey + mq.Key(uint64(ins.threadID)%rangeSize)
	default: // KeyUniform
		return ins.cfg.MinKey + mq.Key(ins.rng.Uint64N(rangeSize))
	}
}
