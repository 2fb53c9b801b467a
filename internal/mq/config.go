package mq

// Buffering selects which of the handle-local buffers are active. The
// variants mirror the compile-time configuration tags the original
// multiqueue implementation selected between at build time
// (NoBuffering/InsertBuffering/DeleteBuffering/FullBuffering/Merging);
// here they are an ordinary runtime field instead, since Go has no
// equivalent to a template parameter for this and a struct field is the
// idiomatic substitute.
type Buffering int

const (
	// NoBuffering disables both handle-local buffers; every push and pop
	// goes straight to a chosen IPQ.
	NoBuffering Buffering = iota
	// InsertBuffering enables only the insertion buffer.
	InsertBuffering
	// DeleteBuffering enables only the deletion buffer.
	DeleteBuffering
	// FullBuffering enables both buffers without merging them on pop.
	FullBuffering
	// Merging enables both buffers, and additionally drains a chosen
	// IPQ's insertion buffer into its heap before extracting on pop.
	Merging
)

// Config holds the tunables from spec §4.1/§4.2/§9. New replaces any unset
// (zero) tunable with its DefaultConfig value; starting from DefaultConfig
// and overriding selectively gives the same result.
type Config struct {
	// C is the over-provisioning factor: the queue allocates C*N IPQs for
	// N workers.
	C int
	// K is the stickiness period: the number of operations a handle
	// performs against the same sticky index before resampling.
	K int
	// HeapDegree is the fan-out of each IPQ's d-ary heap.
	HeapDegree int
	// InsertionBufferSize bounds the per-handle insertion ring buffer.
	// Ignored unless Buffering enables it.
	InsertionBufferSize int
	// DeletionBufferSize bounds the per-handle deletion sorted array.
	// Ignored unless Buffering enables it.
	DeletionBufferSize int
	// Buffering selects which buffers are active.
	Buffering Buffering
	// Seed is the global seed every handle's RNG is split from.
	Seed uint64
	// PopSlack bounds how far a re-checked top-key may exceed the other
	// candidate's observed key before the pop algorithm resamples
	// (spec §4.1 step 4). Expressed as an absolute key delta.
	PopSlack Key
	// MaxLockRetries bounds how many times push resamples a target index
	// after a failed try-lock before falling back to a deterministic scan
	// for the first IPQ it can lock. Pop does not use it: a failed pop
	// try-lock always resamples.
	MaxLockRetries int
}

// DefaultConfig returns the spec's defaults: C=4, K=8, an 8-ary heap, and
// buffer sizes of 16 (an implementer's choice recorded in DESIGN.md — the
// original leaves these to compile-time flags with no stated default).
func DefaultConfig() Config {
	return Config{
		C:                   4,
		K:                   8,
		HeapDegree:          8,
		InsertionBufferSize: 16,
		DeletionBufferSize:  16,
		Buffering:           NoBuffering,
		Seed:                1,
		PopSlack:            0,
		MaxLockRetries:      4,
	}
}

// normalized returns cfg with any non-positive tunable (and a HeapDegree
// below 2) replaced by its DefaultConfig value, so callers can build a
// Config from only the fields
// they care about.
func (cfg Config) normalized() Config {
	def := DefaultConfig()
	if cfg.C <= 0 {
		cfg.C = def.C
	}
	if cfg.K <= 0 {
		cfg.K = def.K
	}
	if cfg.HeapDegree <= 1 {
		cfg.HeapDegree = def.HeapDegree
	}
	if cfg.InsertionBufferSize <= 0 {
		cfg.InsertionBufferSize = def.InsertionBufferSize
	}
	if cfg.DeletionBufferSize <= 0 {
		cfg.DeletionBufferSize = def.DeletionBufferSize
	}
	if cfg.MaxLockRetries <= 0 {
		cfg.MaxLockRetries = def.MaxLockRetries
	}
	return cfg
}

func (b Buffering) insertEnabled() bool {
	return b == InsertBuffering || b == FullBuffering || b == Merging
}

func (b Buffering) deleteEnabled() bool {
	return b == DeleteBuffering || b == FullBuffering || b == Merging
}

func (b Buffering) merging() bool {
	return b == Merging
}
