// internal/status/constants.go
package status

// Master Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerMaster is the fixed number of logical slots per master.
const SlotsPerMaster = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the master health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last raw error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the master has been in error.
const SlotSecondsInError = 2

// SlotCycleTimeUs holds the last measured cycle duration in microseconds.
const SlotCycleTimeUs = 3

// SlotJitterUs holds the worst observed wake jitter in microseconds.
const SlotJitterUs = 4

// SlotMismatchCount holds a free-running working-counter mismatch counter.
const SlotMismatchCount = 5

// ---- RESERVED RANGE ----

// Slots 6-10 are reserved for future use.
const SlotReservedStart = 6
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy cyclic loop.
const HealthOK uint16 = 1

// HealthError represents a loop in error (missed deadlines or
// non-responding slaves).
const HealthError uint16 = 2

// HealthShutdown represents a loop executing the slave shutdown sequence.
const HealthShutdown uint16 = 3

// ---- ERROR CODES ----

// ErrNone means no error.
const ErrNone uint16 = 0

// ErrDeadlineMissed means the loop missed at least one deadline recently.
const ErrDeadlineMissed uint16 = 1

// ErrSlaveNotResponding means a working-counter mismatch was observed recently.
const ErrSlaveNotResponding uint16 = 2
