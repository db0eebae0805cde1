// internal/config/config.go
package config

type Config struct {
	Master MasterConfig `yaml:"master"`
}

type MasterConfig struct {
	Interface string `yaml:"interface"`

	Cycle CycleConfig `yaml:"cycle"`
	DC    DCConfig    `yaml:"dc"`

	// Status memory mirror (optional, opt-in)
	StatusMemory *StatusMemoryConfig `yaml:"status_memory"`

	Slaves []SlaveConfig `yaml:"slaves"`
}

// ---- CYCLE ----

type CycleConfig struct {
	PeriodUs int `yaml:"period_us"`
	Priority int `yaml:"priority"`
}

// ---- DISTRIBUTED CLOCK ----

type DCConfig struct {
	Enabled      bool `yaml:"enabled"`
	SyncOffsetUs int  `yaml:"sync_offset_us"`

	// IntegralLimit clamps the sync controller's integral accumulator.
	// 0 keeps it unbounded.
	IntegralLimit int64 `yaml:"integral_limit"`
}

// ---- STATUS MEMORY ----

type StatusMemoryConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ---- SLAVES ----

type SlaveConfig struct {
	Position    int    `yaml:"position"`
	Alias       uint16 `yaml:"alias"`
	VendorID    uint32 `yaml:"vendor_id"`
	ProductCode uint32 `yaml:"product_code"`
	Name        string `yaml:"name"`

	OutputBytes int `yaml:"output_bytes"`
	InputBytes  int `yaml:"input_bytes"`
}
