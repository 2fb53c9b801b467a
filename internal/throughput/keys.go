package throughput

import (
	"math/rand/v2"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// seedFor derives a per-worker seed from a global seed and thread id,
// matching generate_workload's std::seed_seq{settings.seed, ctx.get_id()}
// in src/throughput.cpp: two distinct worker ids never draw from the
// same stream, and the same (seed, id) pair always reproduces it.
func seedFor(globalSeed uint64, id int) uint64 {
	x := globalSeed + uint64(id)*0x9E3779B97F4A7C15
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// GenerateWorkload returns worker id's key stream: settings.ElementsPerThread
// keys drawn according to settings.ElementDistribution. Matches
// generate_workload's three branches (uniform/ascending/descending) from
// src/throughput.cpp, indexed locally within the worker's own stream
// rather than globally across all workers' concatenated streams, so the
// result depends only on (seed, id, distribution, min, max, count) as
// spec.md §8 property 8 requires — not on the total worker count.
func GenerateWorkload(settings config.ThroughputSettings, id int) []mq.Key {
	n := int(settings.ElementsPerThread)
	keys := make([]mq.Key, n)
	if n == 0 {
		return keys
	}
	rangeSize := uint64(settings.MaxKey-settings.MinKey) + 1
	switch settings.ElementDistribution {
	case config.Uniform:
		seed := seedFor(settings.Seed, id)
		rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		for i := range keys {
			keys[i] = settings.MinKey + mq.Key(rng.Uint64N(rangeSize))
		}
	case config.Ascending:
		for i := range keys {
			keys[i] = settings.MinKey + mq.Key(uint64(i)*rangeSize/uint64(n))
		}
	case config.Descending:
		for i := range keys {
			keys[i] = settings.MinKey + mq.Key(uint64(n-i-1)*rangeSize/uint64(n))
		}
	}
	return keys
}

// prefillKeys draws settings.PrefillPerThread uniform keys for worker id's
// prefill phase, using a stream distinct from GenerateWorkload's (the
// original draws prefill and workload keys from the same std::default_random_engine
// in sequence; here they are two independently seeded streams, which is
// an equally valid reading of "a per-worker seed derived from
// (global_seed, id)" in spec.md §4.5 and keeps prefill determinism
// independent of workload-size changes).
func prefillKeys(settings config.ThroughputSettings, id int) []mq.Key {
	n := int(settings.PrefillPerThread)
	keys := make([]mq.Key, n)
	if n == 0 {
		return keys
	}
	rangeSize := uint64(settings.MaxKey-settings.MinKey) + 1
	seed := seedFor(settings.Seed^0xA5A5A5A5A5A5A5A5, id)
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	for i := range keys {
		keys[i] = settings.MinKey + mq.Key(rng.Uint64N(rangeSize))
	}
	return keys
}
