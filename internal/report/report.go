// Package report writes the throughput driver's CSV summary line, exact
// field list from spec.md §6, via encoding/csv.
//
// Grounded on src/throughput.cpp's final std::cout CSV emission: a fixed
// header followed by one data row per run, with the two PAPI-derived
// cache-miss columns always "n/a" here since spec.md §1 puts PAPI
// counters out of scope for this module.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KvGeijer/multiqueue-experiments/internal/config"
)

// Header is the exact column order from spec.md §6.
var Header = []string{
	"threads", "prefill", "operations", "work-mode", "push-threads",
	"element-distribution", "min-key", "max-key", "seed", "work-time-s",
	"failed-pops", "l1d-cache-misses", "l2-cache-misses",
}

// Row is everything WriteThroughputCSV needs to render one data line: the
// settings that produced a run plus its two measured outcomes.
type Row struct {
	Settings    config.ThroughputSettings
	WorkTimeSec float64
	FailedPops  int64
}

// WriteThroughputCSV writes the header followed by one row per result,
// matching throughput.cpp's `# thread,prefill,...` header line (the '#'
// comment marker is dropped here since Go's encoding/csv has no notion
// of a comment-prefixed header, and cmd/mqbench's own output framing
// already separates the CSV from surrounding log text).
func WriteThroughputCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			fmt.Sprintf("%d", r.Settings.NumThreads),
			fmt.Sprintf("%d", r.Settings.PrefillPerThread),
			fmt.Sprintf("%d", r.Settings.ElementsPerThread),
			r.Settings.WorkMode.String(),
			fmt.Sprintf("%d", r.Settings.NumPushThreads),
			r.Settings.ElementDistribution.String(),
			fmt.Sprintf("%d", r.Settings.MinKey),
			fmt.Sprintf("%d", r.Settings.MaxKey),
			fmt.Sprintf("%d", r.Settings.Seed),
			fmt.Sprintf("%.3f", r.WorkTimeSec),
			fmt.Sprintf("%d", r.FailedPops),
			"n/a",
			"n/a",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("report: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
