// internal/cycle/timer.go
package cycle

import (
	"sync/atomic"
	"time"
)

// periodicTimer schedules wakes on absolute deadlines spaced one period
// apart, so sleep inaccuracy does not accumulate across cycles.
//
// Only the cyclic goroutine calls wait; maxJitter is atomic because the
// jitter accessor may be read from any goroutine.
type periodicTimer struct {
	period   time.Duration
	deadline time.Time

	maxJitter atomic.Int64 // ns
}

func newPeriodicTimer(period time.Duration) *periodicTimer {
	return &periodicTimer{period: period}
}

// wait blocks until the current deadline plus offset, then advances the
// deadline by one period. It returns the idle time actually spent
// waiting; a non-positive result means the deadline had already passed
// (a missed cycle). After an overrun of more than one period the
// deadline is re-synced forward so the loop does not chase a backlog of
// stale deadlines.
func (t *periodicTimer) wait(offset time.Duration) time.Duration {
	if t.deadline.IsZero() {
		t.deadline = time.Now().Add(t.period)
	}

	target := t.deadline.Add(offset)
	idle := time.Until(target)
	if idle > 0 {
		time.Sleep(idle)

		late := time.Since(target)
		if late < 0 {
			late = 0
		}
		if late.Nanoseconds() > t.maxJitter.Load() {
			t.maxJitter.Store(late.Nanoseconds())
		}
	}

	t.deadline = t.deadline.Add(t.period)
	for !t.deadline.After(time.Now()) {
		t.deadline = t.deadline.Add(t.period)
	}
	return idle
}

// jitterEstimate is the worst observed oversleep past a deadline.
func (t *periodicTimer) jitterEstimate() time.Duration {
	return time.Duration(t.maxJitter.Load())
}
