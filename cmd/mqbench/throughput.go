package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/report"
	"github.com/KvGeijer/multiqueue-experiments/internal/throughput"
)

func newThroughputCommand(logger *slog.Logger) *cobra.Command {
	settings := config.DefaultThroughputSettings()
	var workMode, distribution string
	var qf queueFlags
	var outputPath string

	cmd := &cobra.Command{
		Use:   "throughput",
		Short: "Run the mixed or split push/pop throughput benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := config.ParseWorkMode(firstByte(workMode))
			if err != nil {
				return err
			}
			settings.WorkMode = mode

			dist, err := config.ParseElementDistribution(firstByte(distribution))
			if err != nil {
				return err
			}
			settings.ElementDistribution = dist

			if err := settings.Validate(); err != nil {
				return err
			}

			queue, err := qf.buildQueue(settings.NumThreads, settings.Seed)
			if err != nil {
				return err
			}

			driver := throughput.New(settings, queue)
			result := driver.Run()

			logger.Info("throughput run complete",
				"threads", settings.NumThreads,
				"work_time", result.WorkTime(),
				"failed_pops", result.NumFailedPops.Load(),
			)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("opening output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return report.WriteThroughputCSV(out, []report.Row{{
				Settings:    settings,
				WorkTimeSec: result.WorkTime().Seconds(),
				FailedPops:  result.NumFailedPops.Load(),
			}})
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&settings.NumThreads, "threads", "j", settings.NumThreads, "number of worker threads")
	fs.Uint64VarP(&settings.Seed, "seed", "s", settings.Seed, "RNG seed")
	fs.Uint64VarP(&settings.PrefillPerThread, "prefill", "p", settings.PrefillPerThread, "keys to prefill per thread")
	fs.Uint64VarP(&settings.ElementsPerThread, "elements", "n", settings.ElementsPerThread, "keys to push per thread")
	fs.Uint64VarP(&settings.MinKey, "min-key", "l", settings.MinKey, "minimum key")
	fs.Uint64VarP(&settings.MaxKey, "max-key", "m", settings.MaxKey, "maximum key")
	fs.StringVarP(&workMode, "work-mode", "w", "m", "work mode: m (mixed) or s (split)")
	fs.IntVarP(&settings.NumPushThreads, "push-threads", "i", settings.NumPushThreads, "split mode: number of push-only threads")
	fs.StringVarP(&distribution, "distribution", "e", "u", "element distribution: u (uniform), a (ascending), or d (descending)")
	fs.StringVarP(&outputPath, "output", "o", "", "CSV output path (default: stdout)")
	addQueueFlags(fs, &qf)

	return cmd
}

// firstByte returns s[0], or 0 for an empty string, so the single-letter
// CLI encodings from spec.md §6 can be parsed straight out of a
// cobra string flag without a separate byte flag type.
func firstByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}
