//go:build linux

package coord

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// setAffinity pins the calling OS thread to CPU (id modulo NumCPU), best
// effort: an error here (e.g. insufficient privilege under some
// containers) is silently ignored, since pinning is a throughput tuning
// knob, not a correctness requirement.
func setAffinity(id int) {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(id % n)
	_ = unix.SchedSetaffinity(0, &set)
}
