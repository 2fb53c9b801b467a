//go:build linux

package stress

import "golang.org/x/sys/unix"

// realtimeNanos reads CLOCK_REALTIME, matching stress_test.cpp's
// get_tick_realtime (clock_gettime(CLOCK_REALTIME, &ts)) — the quality
// log's absolute timestamps need wall-clock time, not the monotonic
// clock internal/coord's phase timing uses.
func realtimeNanos() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}
