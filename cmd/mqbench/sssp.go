package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
	"github.com/KvGeijer/multiqueue-experiments/internal/graphio"
	"github.com/KvGeijer/multiqueue-experiments/internal/mq"
	"github.com/KvGeijer/multiqueue-experiments/internal/sssp"
)

func newSSSPCommand(logger *slog.Logger) *cobra.Command {
	settings := config.SSSPSettings{Seed: 1, ThreadCounts: []int{1}}
	var threadCountsRaw string
	var qf queueFlags

	cmd := &cobra.Command{
		Use:   "sssp",
		Short: "Run the parallel single-source shortest path driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseThreadCounts(threadCountsRaw)
			if err != nil {
				return err
			}
			settings.ThreadCounts = counts

			if err := settings.Validate(); err != nil {
				return err
			}

			graphFile, err := os.Open(settings.GraphPath)
			if err != nil {
				return fmt.Errorf("opening graph file: %w", err)
			}
			defer graphFile.Close()
			graph, err := graphio.ReadGraph(graphFile)
			if err != nil {
				return fmt.Errorf("reading graph: %w", err)
			}

			var solution []uint32
			if settings.SolutionPath != "" {
				solFile, err := os.Open(settings.SolutionPath)
				if err != nil {
					return fmt.Errorf("opening solution file: %w", err)
				}
				defer solFile.Close()
				solution, err = graphio.ReadSolution(solFile)
				if err != nil {
					return fmt.Errorf("reading solution: %w", err)
				}
			}

			engine := sssp.New(graph, settings.Source)
			for _, n := range settings.ThreadCounts {
				cfg, err := qf.mqConfig(settings.Seed)
				if err != nil {
					return err
				}
				queue := mq.New(n, cfg)

				start := time.Now()
				result := engine.Run(n, queue)
				elapsed := time.Since(start)

				logger.Info("sssp run complete",
					"threads", n,
					"elapsed", elapsed,
					"processed_nodes", result.NumProcessedNodes,
				)

				if solution != nil {
					if err := sssp.Validate(result, solution); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&settings.GraphPath, "graph", "f", "", "DIMACS .gr graph file (required)")
	fs.StringVarP(&settings.SolutionPath, "solution", "c", "", "solution file to verify against")
	fs.Uint32Var(&settings.Source, "source", 0, "source node (0-indexed)")
	fs.StringVarP(&threadCountsRaw, "threads", "j", "1", "comma-separated thread counts to sweep, e.g. 1,2,4,8")
	fs.Uint64VarP(&settings.Seed, "seed", "s", settings.Seed, "RNG seed for handle streams")
	fs.IntVar(&qf.c, "mq-c", 0, "IPQs-per-worker factor (0 = default)")
	fs.IntVar(&qf.k, "mq-k", 0, "stickiness period (0 = default)")
	fs.IntVar(&qf.heapDegree, "mq-heap-degree", 0, "IPQ d-ary heap fan-out (0 = default)")
	if err := cmd.MarkFlagRequired("graph"); err != nil {
		panic(err)
	}

	return cmd
}

func parseThreadCounts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid thread count %q: %w", p, err)
		}
		counts = append(counts, n)
	}
	return counts, nil
}
