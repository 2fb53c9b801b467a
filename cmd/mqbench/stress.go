package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/stress"
)

func newStressCommand(logger *slog.Logger) *cobra.Command {
	settings := config.DefaultStressSettings()
	var insertPolicy, keyDistribution string
	var qf queueFlags
	var outputPath string

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run the long-running insert/delete stress benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := config.ParseInsertPolicy(insertPolicy)
			if err != nil {
				return err
			}
			settings.InsertPolicy = policy

			dist, err := config.ParseKeyDistribution(keyDistribution)
			if err != nil {
				return err
			}
			settings.KeyDistribution = dist

			if err := settings.Validate(stress.BitsForThreadID); err != nil {
				return err
			}

			queue, err := qf.buildQueue(settings.NumThreads, uint64(settings.Seed))
			if err != nil {
				return err
			}

			driver := stress.New(settings, queue)
			result, logs := driver.Run()

			logger.Info("stress run complete",
				"insertions", result.NumInsertions.Load(),
				"deletions", result.NumDeletions.Load(),
				"failed_deletions", result.NumFailedDeletions.Load(),
			)

			if !settings.QualityLog {
				return nil
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("opening quality log output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return stress.WriteTo(out, logs)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&settings.NumThreads, "threads", "j", settings.NumThreads, "number of worker threads")
	fs.Uint32VarP(&settings.Seed, "seed", "s", settings.Seed, "RNG seed")
	fs.Uint64VarP(&settings.PrefillSize, "prefill", "p", settings.PrefillSize, "keys to prefill before the timed phase")
	fs.Int64VarP(&settings.TestDurationMillis, "timeout", "t", settings.TestDurationMillis, "test duration in milliseconds (ignored when --quality-log)")
	fs.Uint64VarP(&settings.MinDeleteOperations, "min-deletions", "n", settings.MinDeleteOperations, "quality-log mode: stop once this many deletions succeed")
	fs.Uint64VarP(&settings.MinKey, "min-key", "l", settings.MinKey, "minimum key")
	fs.Uint64VarP(&settings.MaxKey, "max-key", "m", settings.MaxKey, "maximum key")
	fs.Uint64Var(&settings.DijkstraMinIncrease, "dijkstra-min-increase", settings.DijkstraMinIncrease, "dijkstra key distribution: minimum per-step increase")
	fs.Uint64Var(&settings.DijkstraMaxIncrease, "dijkstra-max-increase", settings.DijkstraMaxIncrease, "dijkstra key distribution: maximum per-step increase")
	fs.Int64Var(&settings.SleepBetweenOps, "sleep-between-ops", settings.SleepBetweenOps, "nanoseconds to sleep between operations (0 disables)")
	fs.StringVar(&insertPolicy, "insert-policy", "uniform", "uniform, split, producer, or alternating")
	fs.StringVar(&keyDistribution, "key-distribution", "uniform", "uniform, ascending, descending, dijkstra, or threadid")
	fs.BoolVar(&settings.QualityLog, "quality-log", settings.QualityLog, "record every operation and stop at --min-deletions instead of --timeout")
	fs.StringVarP(&outputPath, "output", "o", "", "quality log output path (default: stdout)")
	addQueueFlags(fs, &qf)

	return cmd
}
