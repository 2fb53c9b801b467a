package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
	"github.com/KvGeijer/multiqueue-experiments/internal/plugins/channelq"
	"github.com/KvGeijer/multiqueue-experiments/internal/plugins/lfring"
)

// queueFlags are the tunables shared by every subcommand that builds a
// queue: which variant (spec.md §9 "Plug-in queue variants") and the
// MultiQueue-specific knobs that variant ignores if it isn't one.
type queueFlags struct {
	variant             string
	c                   int
	k                   int
	heapDegree          int
	insertionBufferSize int
	deletionBufferSize  int
	buffering           string
	popSlack            uint64
	maxLockRetries      int
	ringCapacity        int
}

// addQueueFlags registers the queue-variant and MultiQueue-tuning flags
// shared by the throughput and stress subcommands onto fs, writing into q.
func addQueueFlags(fs *pflag.FlagSet, q *queueFlags) {
	fs.StringVar(&q.variant, "queue", "multiqueue", "queue variant: multiqueue, lfring, or channelq")
	fs.IntVar(&q.c, "mq-c", 0, "multiqueue: IPQs-per-worker factor (0 = default)")
	fs.IntVar(&q.k, "mq-k", 0, "multiqueue: stickiness period (0 = default)")
	fs.IntVar(&q.heapDegree, "mq-heap-degree", 0, "multiqueue: IPQ d-ary heap fan-out (0 = default)")
	fs.IntVar(&q.insertionBufferSize, "mq-insertion-buffer", 0, "multiqueue: per-handle insertion buffer size (0 = default)")
	fs.IntVar(&q.deletionBufferSize, "mq-deletion-buffer", 0, "multiqueue: per-handle deletion buffer size (0 = default)")
	fs.StringVar(&q.buffering, "mq-buffering", "none", "multiqueue: none, insert, delete, full, or merging")
	fs.Uint64Var(&q.popSlack, "mq-pop-slack", 0, "multiqueue: absolute key slack tolerated before resampling")
	fs.IntVar(&q.maxLockRetries, "mq-max-lock-retries", 0, "multiqueue: try-lock retries before falling back to a full scan (0 = default)")
	fs.IntVar(&q.ringCapacity, "ring-capacity", 1024, "lfring/channelq: per-shard (or shared) buffer capacity")
}

func parseBuffering(s string) (mq.Buffering, error) {
	switch s {
	case "", "none":
		return mq.NoBuffering, nil
	case "insert":
		return mq.InsertBuffering, nil
	case "delete":
		return mq.DeleteBuffering, nil
	case "full":
		return mq.FullBuffering, nil
	case "merging":
		return mq.Merging, nil
	default:
		return 0, fmt.Errorf("unknown --mq-buffering %q (want none, insert, delete, full, or merging)", s)
	}
}

func (f queueFlags) mqConfig(seed uint64) (mq.Config, error) {
	buffering, err := parseBuffering(f.buffering)
	if err != nil {
		return mq.Config{}, err
	}
	return mq.Config{
		C:                   f.c,
		K:                   f.k,
		HeapDegree:          f.heapDegree,
		InsertionBufferSize: f.insertionBufferSize,
		DeletionBufferSize:  f.deletionBufferSize,
		Buffering:           buffering,
		Seed:                seed,
		PopSlack:            mq.Key(f.popSlack),
		MaxLockRetries:      f.maxLockRetries,
	}, nil
}

// buildQueue selects and constructs the mq.Queue a throughput or stress
// driver runs against, per spec.md §9's "Other queue implementations...
// can be substituted wholesale at configuration time."
func (f queueFlags) buildQueue(numWorkers int, seed uint64) (mq.Queue, error) {
	switch f.variant {
	case "", "multiqueue":
		cfg, err := f.mqConfig(seed)
		if err != nil {
			return nil, err
		}
		return mq.New(numWorkers, cfg), nil
	case "lfring":
		q, err := lfring.New(numWorkers, f.ringCapacity)
		if err != nil {
			return nil, fmt.Errorf("building lfring queue: %w", err)
		}
		return q, nil
	case "channelq":
		return channelq.New(numWorkers, f.ringCapacity), nil
	default:
		return nil, fmt.Errorf("unknown --queue %q (want multiqueue, lfring, or channelq)", f.variant)
	}
}
