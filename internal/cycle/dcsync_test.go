// internal/cycle/dcsync_test.go
package cycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseErrorStaysInHalfCycleWindow(t *testing.T) {
	periods := []int64{1_000_000, 500_000, 250_000}

	for _, p := range periods {
		offsets := []int64{0, 1, p / 4, p / 2, p - 1}

		for _, off := range offsets {
			s := newSyncController(p, off, 0)

			for ref := off; ref < off+10*p; ref += p / 7 {
				delta := s.phaseError(ref)
				require.Greater(t, delta, -p/2,
					"period=%d offset=%d ref=%d", p, off, ref)
				require.LessOrEqual(t, delta, p/2,
					"period=%d offset=%d ref=%d", p, off, ref)
			}
		}
	}
}

func TestZeroPhaseErrorProducesZeroCorrection(t *testing.T) {
	const period = 1_000_000
	const offset = 50_000

	s := newSyncController(period, offset, 0)

	// Reference reads exactly on the desired offset every cycle.
	for k := int64(0); k < 100; k++ {
		corr := s.correction(offset + k*period)
		require.Zero(t, corr, "cycle %d", k)
		require.Zero(t, s.integral, "cycle %d", k)
	}
}

func TestConstantPositiveErrorRampsIntegral(t *testing.T) {
	const period = 1_000_000
	const offset = 50_000
	const d = 40_000 // constant positive phase error, < period/2

	s := newSyncController(period, offset, 0)

	prevMagnitude := int64(0)
	for k := int64(0); k < 30; k++ {
		corr := s.correction(offset + d + k*period)

		require.Equal(t, k+1, s.integral, "cycle %d", k)
		require.Negative(t, corr, "cycle %d", k)

		magnitude := -corr
		require.GreaterOrEqual(t, magnitude, prevMagnitude, "cycle %d", k)
		prevMagnitude = magnitude
	}
}

func TestCorrectionOpposesDriftSign(t *testing.T) {
	const period = 1_000_000
	const offset = 50_000

	early := newSyncController(period, offset, 0)
	late := newSyncController(period, offset, 0)

	// Reference ahead of the offset: wake must move earlier.
	require.Negative(t, early.correction(offset+30_000))
	// Reference behind the offset: wake must move later.
	require.Positive(t, late.correction(offset-30_000+period))
}

func TestIntegralLimitClampsAccumulator(t *testing.T) {
	const period = 1_000_000
	const offset = 50_000
	const limit = 5

	s := newSyncController(period, offset, limit)

	for k := int64(0); k < 100; k++ {
		s.correction(offset + 40_000 + k*period)
	}
	require.Equal(t, int64(limit), s.integral)

	// And the other direction.
	for k := int64(0); k < 200; k++ {
		s.correction(offset - 40_000 + k*period)
	}
	require.Equal(t, int64(-limit), s.integral)
}
