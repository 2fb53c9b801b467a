// Package config holds the validated settings structs shared by the
// three benchmark drivers (SSSP, throughput, stress), separate from the
// cobra flag parsing in cmd/mqbench.
//
// Grounded on Settings::validate() in src/throughput.cpp and the
// Settings block in stress_test.cpp (original_source): each driver's
// flags are collected into a plain struct, then checked by a single
// Validate method before any worker goroutine starts, exactly mirroring
// the split between cxxopts parsing and validate() in both C++ mains.
package config

import (
	"fmt"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Error reports a ConfigError (spec §7): an invalid flag combination
// caught before any thread starts. The CLI layer maps it to exit code 1.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "config: " + e.msg }

func errf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// WorkMode selects the throughput driver's push/pop assignment across
// workers (spec §4.5).
type WorkMode int

const (
	Mixed WorkMode = iota
	Split
)

// ParseWorkMode accepts the CLI's single-letter encoding ('m'/'s').
func ParseWorkMode(c byte) (WorkMode, error) {
	switch c {
	case 'm':
		return Mixed, nil
	case 's':
		return Split, nil
	default:
		return 0, errf("invalid work mode %q (want 'm' or 's')", c)
	}
}

func (w WorkMode) String() string {
	if w == Split {
		return "split"
	}
	return "mixed"
}

// ElementDistribution selects how a throughput worker's key stream is
// generated (spec §4.5).
type ElementDistribution int

const (
	Uniform ElementDistribution = iota
	Ascending
	Descending
)

// ParseElementDistribution accepts the CLI's single-letter encoding
// ('u'/'a'/'d').
func ParseElementDistribution(c byte) (ElementDistribution, error) {
	switch c {
	case 'u':
		return Uniform, nil
	case 'a':
		return Ascending, nil
	case 'd':
		return Descending, nil
	default:
		return 0, errf("invalid element distribution %q (want 'u', 'a', or 'd')", c)
	}
}

func (d ElementDistribution) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "uniform"
	}
}

// ThroughputSettings mirrors Settings in src/throughput.cpp.
type ThroughputSettings struct {
	NumThreads          int
	PrefillPerThread    uint64
	ElementsPerThread   uint64
	WorkMode            WorkMode
	NumPushThreads      int
	ElementDistribution ElementDistribution
	MinKey              mq.Key
	MaxKey              mq.Key
	Seed                uint64
}

// DefaultThroughputSettings mirrors the C++ struct's in-class defaults.
func DefaultThroughputSettings() ThroughputSettings {
	return ThroughputSettings{
		NumThreads:          4,
		PrefillPerThread:    1 << 20,
		ElementsPerThread:   1 << 20,
		WorkMode:            Mixed,
		NumPushThreads:      1,
		ElementDistribution: Uniform,
		MinKey:              1,
		MaxKey:              1 << 30,
		Seed:                1,
	}
}

// Validate mirrors Settings::validate(): num_threads>0, min<=max, and
// split mode's push-thread count must be sane given elements_per_thread.
func (s ThroughputSettings) Validate() error {
	if s.NumThreads <= 0 {
		return errf("num_threads must be positive, got %d", s.NumThreads)
	}
	if s.MinKey > s.MaxKey {
		return errf("min_key (%d) must not exceed max_key (%d)", s.MinKey, s.MaxKey)
	}
	if s.MaxKey > mq.MaxUserKey {
		return errf("max_key (%d) exceeds the largest representable user key (%d)", s.MaxKey, mq.MaxUserKey)
	}
	if s.WorkMode == Split {
		if s.NumPushThreads < 0 || s.NumPushThreads > s.NumThreads {
			return errf("push_threads (%d) must be in [0, num_threads] (%d)", s.NumPushThreads, s.NumThreads)
		}
		if s.NumPushThreads == 0 && s.ElementsPerThread > 0 {
			return errf("split mode with zero push threads requires elements_per_thread == 0, got %d", s.ElementsPerThread)
		}
	}
	return nil
}

// InsertPolicy selects which steps of the stress driver's loop are
// pushes vs pops (spec §4.6).
type InsertPolicy int

const (
	InsertUniform InsertPolicy = iota
	InsertSplit
	InsertProducer
	InsertAlternating
)

func ParseInsertPolicy(s string) (InsertPolicy, error) {
	switch s {
	case "uniform":
		return InsertUniform, nil
	case "split":
		return InsertSplit, nil
	case "producer":
		return InsertProducer, nil
	case "alternating":
		return InsertAlternating, nil
	default:
		return 0, errf("unknown insert policy %q", s)
	}
}

func (p InsertPolicy) String() string {
	switch p {
	case InsertSplit:
		return "split"
	case InsertProducer:
		return "producer"
	case InsertAlternating:
		return "alternating"
	default:
		return "uniform"
	}
}

// KeyDistribution selects the stress driver's per-step key generation
// (spec §4.6); a superset of ElementDistribution with two extra
// variants borrowed from the original's stress harness.
type KeyDistribution int

const (
	KeyUniform KeyDistribution = iota
	KeyAscending
	KeyDescending
	KeyDijkstra
	KeyThreadID
)

func ParseKeyDistribution(s string) (KeyDistribution, error) {
	switch s {
	case "uniform":
		return KeyUniform, nil
	case "ascending":
		return KeyAscending, nil
	case "descending":
		return KeyDescending, nil
	case "dijkstra":
		return KeyDijkstra, nil
	case "threadid":
		return KeyThreadID, nil
	default:
		return 0, errf("unknown key distribution %q", s)
	}
}

func (d KeyDistribution) String() string {
	switch d {
	case KeyAscending:
		return "ascending"
	case KeyDescending:
		return "descending"
	case KeyDijkstra:
		return "dijkstra"
	case KeyThreadID:
		return "threadid"
	default:
		return "uniform"
	}
}

// StressSettings mirrors Settings in stress_test.cpp, folding the
// THROUGHPUT/QUALITY compile-time modes into runtime fields: QualityLog
// turns on the per-operation tick/value recording and also selects
// MinDeleteOperations, instead of TestDurationMillis, as the condition
// that ends the run.
type StressSettings struct {
	PrefillSize           uint64
	SleepBetweenOps       int64 // nanoseconds
	NumThreads            int
	Seed                  uint32
	InsertPolicy          InsertPolicy
	KeyDistribution       KeyDistribution
	MinKey                mq.Key
	MaxKey                mq.Key
	DijkstraMinIncrease   mq.Key
	DijkstraMaxIncrease   mq.Key
	TestDurationMillis    int64
	MinDeleteOperations   uint64
	QualityLog            bool
}

// DefaultStressSettings mirrors the C++ struct's in-class defaults.
func DefaultStressSettings() StressSettings {
	return StressSettings{
		PrefillSize:         1_000_000,
		SleepBetweenOps:     0,
		NumThreads:          4,
		Seed:                0,
		InsertPolicy:        InsertUniform,
		KeyDistribution:     KeyUniform,
		MinKey:              1,
		MaxKey:              mq.MaxUserKey,
		DijkstraMinIncrease: 1,
		DijkstraMaxIncrease: 100,
		TestDurationMillis:  3000,
		MinDeleteOperations: 10_000_000,
		QualityLog:          false,
	}
}

// Validate mirrors the stress main's checks: positive thread count,
// min<=max, and (quality mode only) a thread count that still fits in
// the value's reserved thread-id bits. The bit width itself
// (stress.BitsForThreadID) is owned by internal/stress, which also packs
// and unpacks quality-log values; this package only needs the count, not
// the packing logic, so it takes it as a parameter rather than importing
// internal/stress (which itself imports config.StressSettings).
func (s StressSettings) Validate(bitsForThreadID int) error {
	if s.NumThreads <= 0 {
		return errf("num_threads must be positive, got %d", s.NumThreads)
	}
	if s.MinKey > s.MaxKey {
		return errf("min_key (%d) must not exceed max_key (%d)", s.MinKey, s.MaxKey)
	}
	if s.MaxKey > mq.MaxUserKey {
		return errf("max_key (%d) exceeds the largest representable user key (%d)", s.MaxKey, mq.MaxUserKey)
	}
	if s.QualityLog && s.NumThreads > (1<<bitsForThreadID)-1 {
		return errf("too many threads (%d) for the quality log's %d-bit thread id field", s.NumThreads, bitsForThreadID)
	}
	if s.DijkstraMinIncrease > s.DijkstraMaxIncrease {
		return errf("dijkstra_min_increase (%d) must not exceed dijkstra_max_increase (%d)", s.DijkstraMinIncrease, s.DijkstraMaxIncrease)
	}
	return nil
}

// SSSPSettings collects the parallel-Dijkstra driver's flags: a graph and
// optional solution file, a sweep of thread counts, and a seed used only
// to seed the queue's handle RNGs (the algorithm itself is deterministic
// given a fixed graph and source).
type SSSPSettings struct {
	GraphPath    string
	SolutionPath string
	Source       uint32
	ThreadCounts []int
	Seed         uint64
}

// Validate mirrors the IOError/ConfigError split in spec §7: path
// presence is checked here, but the file actually being readable and
// well-formed is an IOError surfaced by graphio, not a ConfigError.
func (s SSSPSettings) Validate() error {
	if s.GraphPath == "" {
		return errf("graph path is required")
	}
	if len(s.ThreadCounts) == 0 {
		return errf("at least one thread count is required")
	}
	for _, n := range s.ThreadCounts {
		if n <= 0 {
			return errf("thread counts must be positive, got %d", n)
		}
	}
	return nil
}
