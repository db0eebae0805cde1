// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	m := &cfg.Master

	// ------------------------------------------------------------
	// BUS AND CYCLE VALIDATION
	// ------------------------------------------------------------

	if m.Interface == "" {
		return fmt.Errorf("master: interface is required")
	}

	if m.Cycle.PeriodUs <= 0 {
		return fmt.Errorf("master: cycle.period_us must be > 0")
	}

	// ------------------------------------------------------------
	// DISTRIBUTED CLOCK VALIDATION
	// ------------------------------------------------------------

	// The sync offset is required whenever DC is enabled; it must fit
	// inside one cycle. This fails before any thread is started.
	if m.DC.Enabled {
		if m.DC.SyncOffsetUs <= 0 {
			return fmt.Errorf(
				"master: dc.enabled requires a positive dc.sync_offset_us",
			)
		}
		if m.DC.SyncOffsetUs >= m.Cycle.PeriodUs {
			return fmt.Errorf(
				"master: dc.sync_offset_us (%d) must be less than cycle.period_us (%d)",
				m.DC.SyncOffsetUs,
				m.Cycle.PeriodUs,
			)
		}
	}

	if m.DC.IntegralLimit < 0 {
		return fmt.Errorf("master: dc.integral_limit must be >= 0")
	}

	// ------------------------------------------------------------
	// STATUS MEMORY VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	if sm := m.StatusMemory; sm != nil {
		if sm.Endpoint == "" {
			return fmt.Errorf("master: status_memory.endpoint is required")
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(sm.DeviceName); i++ {
			if sm.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"master: status_memory.device_name must contain ASCII characters only",
				)
			}
		}
	}

	// ------------------------------------------------------------
	// SLAVE TOPOLOGY VALIDATION
	// ------------------------------------------------------------

	seen := make(map[int]string)

	for _, s := range m.Slaves {
		if s.Position < 0 {
			return fmt.Errorf(
				"slave %q: position must be >= 0",
				s.Name,
			)
		}

		if prev, exists := seen[s.Position]; exists {
			return fmt.Errorf(
				"slave position collision: position=%d used by %q and %q",
				s.Position,
				prev,
				s.Name,
			)
		}
		seen[s.Position] = s.Name

		if s.OutputBytes < 0 || s.InputBytes < 0 {
			return fmt.Errorf(
				"slave %q: cyclic data sizes must be >= 0",
				s.Name,
			)
		}
	}

	return nil
}
