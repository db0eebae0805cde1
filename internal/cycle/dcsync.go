// internal/cycle/dcsync.go
package cycle

// syncController is the discrete PI controller that keeps the cyclic
// thread's wake time locked to a fixed offset from the Distributed Clock
// sync pulse. Gains are fixed: proportional 1/100, integral 1/20, tuned
// for sync offsets in the tens-of-microseconds range.
type syncController struct {
	cycleTimeNs  int64
	syncOffsetNs int64

	// integral counts cycles of one-sided phase error. When
	// integralLimit > 0 it is clamped to ±integralLimit; zero leaves the
	// accumulator unbounded.
	integral      int64
	integralLimit int64
}

func newSyncController(cycleTimeNs, syncOffsetNs, integralLimit int64) *syncController {
	return &syncController{
		cycleTimeNs:   cycleTimeNs,
		syncOffsetNs:  syncOffsetNs,
		integralLimit: integralLimit,
	}
}

// phaseError wraps the reference clock reading into the signed phase
// error relative to the desired sync offset, in (-cycleTime/2,
// cycleTime/2].
func (s *syncController) phaseError(refTimeNs int64) int64 {
	delta := (refTimeNs - s.syncOffsetNs) % s.cycleTimeNs
	if delta > s.cycleTimeNs/2 {
		delta -= s.cycleTimeNs
	}
	return delta
}

// correction computes the nanoseconds to add to the nominal wait before
// the next wake, given the current reference clock reading.
func (s *syncController) correction(refTimeNs int64) int64 {
	delta := s.phaseError(refTimeNs)

	if delta > 0 {
		s.integral++
	}
	if delta < 0 {
		s.integral--
	}
	if s.integralLimit > 0 {
		if s.integral > s.integralLimit {
			s.integral = s.integralLimit
		}
		if s.integral < -s.integralLimit {
			s.integral = -s.integralLimit
		}
	}

	return -(delta / 100) - (s.integral / 20)
}
