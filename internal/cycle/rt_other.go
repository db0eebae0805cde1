//go:build !linux

// internal/cycle/rt_other.go
package cycle

// setRealtimePriority is a no-op off Linux; the loop free-runs on the
// default scheduler.
func setRealtimePriority(priority int) error {
	return nil
}
