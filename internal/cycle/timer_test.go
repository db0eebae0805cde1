// internal/cycle/timer_test.go
package cycle

import (
	"testing"
	"time"
)

func TestWaitReturnsPositiveIdleWhenOnTime(t *testing.T) {
	tm := newPeriodicTimer(20 * time.Millisecond)

	idle := tm.wait(0)
	if idle <= 0 {
		t.Fatalf("expected positive idle time, got %v", idle)
	}
	if idle > 25*time.Millisecond {
		t.Fatalf("idle time %v far beyond one period", idle)
	}
}

func TestWaitReportsOverrunAsNonPositiveIdle(t *testing.T) {
	tm := newPeriodicTimer(5 * time.Millisecond)

	if idle := tm.wait(0); idle <= 0 {
		t.Fatalf("first wait should be on time, got %v", idle)
	}

	// Blow straight through the next deadline.
	time.Sleep(20 * time.Millisecond)

	if idle := tm.wait(0); idle > 0 {
		t.Fatalf("expected non-positive idle after overrun, got %v", idle)
	}

	// The deadline must have re-synced; the next cycle runs normally.
	if idle := tm.wait(0); idle <= 0 {
		t.Fatalf("expected recovery after overrun, got %v", idle)
	}
}

func TestOffsetShiftsTheDeadline(t *testing.T) {
	tm := newPeriodicTimer(20 * time.Millisecond)

	start := time.Now()
	tm.wait(10 * time.Millisecond)
	waited := time.Since(start)

	if waited < 25*time.Millisecond {
		t.Fatalf("positive offset should delay the wake, waited only %v", waited)
	}
}

func TestJitterEstimateIsMonotonic(t *testing.T) {
	tm := newPeriodicTimer(2 * time.Millisecond)

	var prev time.Duration
	for i := 0; i < 10; i++ {
		tm.wait(0)
		j := tm.jitterEstimate()
		if j < prev {
			t.Fatalf("jitter estimate decreased: %v -> %v", prev, j)
		}
		prev = j
	}
}
