// Command mqbench runs the SSSP, throughput, and stress benchmark
// drivers from spec.md §6 against the MultiQueue or one of its plug-in
// variants.
package main

import (
	"os"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
