package stress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
)

func TestInserterKeyDeterminism(t *testing.T) {
	cfg := config.DefaultStressSettings()
	cfg.KeyDistribution = config.KeyUniform
	cfg.MinKey, cfg.MaxKey = 1, 1000

	a := NewInserter(2, cfg)
	b := NewInserter(2, cfg)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.NextKey(), b.NextKey())
	}
}

func TestInserterMinEqualsMax(t *testing.T) {
	cfg := config.DefaultStressSettings()
	cfg.MinKey, cfg.MaxKey = 55, 55

	for _, dist := range []config.KeyDistribution{config.KeyUniform, config.KeyAscending, config.KeyDescending, config.KeyThreadID} {
		cfg.KeyDistribution = dist
		ins := NewInserter(0, cfg)
		for i := 0; i < 10; i++ {
			require.Equal(t, cfg.MinKey, ins.NextKey())
		}
	}
}

func TestInserterSplitPolicyPartitionsWorkers(t *testing.T) {
	cfg := config.DefaultStressSettings()
	cfg.InsertPolicy = config.InsertSplit
	numThreads := 4

	pusherCount := 0
	for id := 0; id < numThreads; id++ {
		ins := NewInserter(id, cfg)
		if ins.ShouldPush(numThreads) {
			pusherCount++
			// Split-policy pushers never pop: repeated calls keep returning true.
			require.True(t, ins.ShouldPush(numThreads))
		} else {
			require.False(t, ins.ShouldPush(numThreads))
		}
	}
	require.Equal(t, (numThreads+1)/2, pusherCount)
}

func TestInserterAlternatingPolicyAlternates(t *testing.T) {
	cfg := config.DefaultStressSettings()
	cfg.InsertPolicy = config.InsertAlternating
	ins := NewInserter(0, cfg)

	first := ins.ShouldPush(4)
	second := ins.ShouldPush(4)
	third := ins.ShouldPush(4)
	require.NotEqual(t, first, second)
	require.Equal(t, first, third)
}
