// internal/master/engine.go
package master

import "time"

// Engine is the contract the cyclic core consumes from a fieldbus master
// implementation. The engine owns the wire protocol, the slave state
// machine and the process image; the core only drives it.
type Engine interface {
	// Init opens the bus interface and brings the slaves up.
	// An error here is fatal to startup and is never retried.
	Init() error

	// EnableDC requests Distributed Clock mode with the given cycle period.
	// Must be called before Init. The engine may refuse; DCEnabled reports
	// the effective state after Init.
	EnableDC(period time.Duration)
	DCEnabled() bool

	// Send and Receive perform one bus transaction. Receive reports whether
	// all expected slaves responded.
	Send() bool
	Receive() bool

	// WorkingCounterMismatch is true if fewer slaves responded than
	// expected during the last transaction.
	WorkingCounterMismatch() bool

	// DCTime is the current reference clock reading in nanoseconds.
	// StartDCTime is the reference clock reading taken during Init.
	DCTime() int64
	StartDCTime() int64

	// ShutdownSlaves advances all slaves toward a safe terminal state.
	// It returns true once every slave is confirmed down. Expected to be
	// called once per cycle until it succeeds.
	ShutdownSlaves() bool

	// Shutdown releases all engine resources. Called exactly once, after
	// ShutdownSlaves has returned true.
	Shutdown()

	// ProcessImage is the shared cyclic data buffer. Valid after Init.
	ProcessImage() []byte

	// RegisterSlave registers a slave descriptor before Init.
	RegisterSlave(d Descriptor) error

	// SetStatusCallback installs a sink for asynchronous diagnostic events.
	SetStatusCallback(fn func(Event))
}

// Descriptor identifies one slave on the bus.
type Descriptor struct {
	Position    int
	Alias       uint16
	VendorID    uint32
	ProductCode uint32
	Name        string

	// Cyclic data sizes in bytes, as configured on the slave.
	OutputBytes int
	InputBytes  int
}

// Severity classifies a diagnostic event.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Event is an asynchronous diagnostic notification from the engine.
type Event struct {
	Severity Severity
	Slave    int // position, or -1 for bus-wide events
	Message  string
}
