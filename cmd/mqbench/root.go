package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// newLogger builds the shared diagnostic/progress logger every subcommand
// receives, grounded on the ambient-logging decision recorded in
// SPEC_FULL.md §2 ("Logging"): plain text to stderr via the standard
// library's log/slog, the way rzbill-flo/pkg/log wraps slog rather than
// pulling in a third-party logging framework. This is deliberately a bare
// *slog.Logger, not that package's fuller Logger/Fields/Output facade —
// mqbench has one process-lifetime, one output stream, and no need for
// the hooks/redaction/sampling machinery that facade exists to support.
// Benchmark *results* (CSV rows, quality logs) are a separate concern and
// stay on cmd.OutOrStdout()/--output, not routed through the logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// newRoot constructs the mqbench root command: a single binary exposing
// the three C++ mains this module unifies (shortest_path, throughput,
// stress_test) as subcommands, the way rzbill-flo's NewRoot groups its
// client commands under one cobra.Command tree.
func newRoot() *cobra.Command {
	logger := newLogger()
	root := &cobra.Command{
		Use:           "mqbench",
		Short:         "Benchmarks for the relaxed concurrent MultiQueue and its SSSP/throughput/stress drivers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSSSPCommand(logger))
	root.AddCommand(newThroughputCommand(logger))
	root.AddCommand(newStressCommand(logger))
	return root
}
