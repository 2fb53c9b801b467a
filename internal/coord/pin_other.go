//go:build !linux

package coord

// setAffinity is a no-op outside Linux: there is no portable CPU-pinning
// syscall this module reaches for on other platforms, and pinning is a
// best-effort tuning knob, not a correctness requirement.
func setAffinity(id int) {}
