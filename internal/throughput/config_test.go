package throughput

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
)

// Boundary (spec.md §8 property 9): prefill=0 with split mode and
// num_push_threads=0 must reject at config time before any thread
// starts.
func TestValidateRejectsZeroPushThreadsWithElements(t *testing.T) {
	s := config.DefaultThroughputSettings()
	s.WorkMode = config.Split
	s.NumPushThreads = 0
	s.PrefillPerThread = 0
	s.ElementsPerThread = 1

	require.Error(t, s.Validate())
}

func TestValidateAllowsZeroPushThreadsWithNoElements(t *testing.T) {
	s := config.DefaultThroughputSettings()
	s.WorkMode = config.Split
	s.NumPushThreads = 0
	s.ElementsPerThread = 0

	require.NoError(t, s.Validate())
}

func TestValidateRejectsMinGreaterThanMax(t *testing.T) {
	s := config.DefaultThroughputSettings()
	s.MinKey = 100
	s.MaxKey = 1

	require.Error(t, s.Validate())
}

func TestValidateRejectsMaxKeyTooLarge(t *testing.T) {
	s := config.DefaultThroughputSettings()
	s.MaxKey = mq.MaxUserKey + 1

	require.Error(t, s.Validate())
}

func TestValidateRejectsNonPositiveThreads(t *testing.T) {
	s := config.DefaultThroughputSettings()
	s.NumThreads = 0

	require.Error(t, s.Validate())
}
