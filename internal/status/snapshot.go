// internal/status/snapshot.go
package status

// Snapshot represents exactly what the publisher is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	CycleTimeUs    uint16
	JitterUs       uint16
	MismatchCount  uint16
}
