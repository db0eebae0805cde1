// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	m := &cfg.Master

	// ------------------------------------------------------------
	// STATUS MEMORY NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if m.StatusMemory != nil {
		sm := m.StatusMemory

		// Default transport timeout.
		if sm.TimeoutMs <= 0 {
			sm.TimeoutMs = 1000
		}

		// Normalize device_name:
		// - ASCII already validated
		// - Truncate to max 16 characters
		if len(sm.DeviceName) > 16 {
			sm.DeviceName = sm.DeviceName[:16]
		}
	}

	// No other normalization is performed here.
	// Period math and scheduling belong to the cycle controller.
}
