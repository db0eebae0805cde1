// internal/master/sim.go
package master

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// SimConfig configures the in-memory engine.
type SimConfig struct {
	// ImageSize is the process image size in bytes.
	ImageSize int

	// DriftPPM skews the simulated reference clock against the host clock,
	// in parts per million. Positive means the reference runs fast.
	DriftPPM int64

	// RefuseDC makes the engine report DC as disabled regardless of the
	// requested mode, like hardware without DC support would.
	RefuseDC bool

	// ShutdownTicks is the number of ShutdownSlaves calls needed before
	// all slaves are confirmed down. Zero means 3.
	ShutdownTicks int
}

// SimEngine is an in-memory Engine for tests and bench setups without bus
// hardware. It keeps a private process image, derives the reference clock
// from the host clock with configurable drift, and lets tests inject
// working-counter mismatches.
type SimEngine struct {
	mu  sync.Mutex
	cfg SimConfig

	inited   bool
	released bool

	dcRequested bool
	dcEnabled   bool
	dcPeriod    time.Duration

	start   time.Time
	startDC int64

	image  []byte
	slaves []Descriptor

	pendingMismatch int
	mismatch        bool

	shutdownCalls int

	cb func(Event)
}

// NewSimEngine creates a simulated engine. The process image defaults to
// 256 bytes.
func NewSimEngine(cfg SimConfig) *SimEngine {
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 256
	}
	if cfg.ShutdownTicks <= 0 {
		cfg.ShutdownTicks = 3
	}
	return &SimEngine{cfg: cfg}
}

func (e *SimEngine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		return errors.New("sim engine: already initialized")
	}

	e.image = make([]byte, e.cfg.ImageSize)
	e.start = time.Now()
	// Reference clocks count from an epoch of their own; any large fixed
	// base works for the simulation.
	e.startDC = int64(1 << 40)
	e.inited = true
	e.dcEnabled = e.dcRequested && !e.cfg.RefuseDC

	e.emit(Event{Severity: SeverityInfo, Slave: -1, Message: "bus up"})
	return nil
}

func (e *SimEngine) EnableDC(period time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dcRequested = true
	e.dcPeriod = period
}

func (e *SimEngine) DCEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dcEnabled
}

func (e *SimEngine) Send() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inited && !e.released
}

func (e *SimEngine) Receive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inited || e.released {
		return false
	}

	e.mismatch = e.pendingMismatch > 0
	if e.pendingMismatch > 0 {
		e.pendingMismatch--
	}
	return !e.mismatch
}

func (e *SimEngine) WorkingCounterMismatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mismatch
}

func (e *SimEngine) DCTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dcTimeLocked()
}

func (e *SimEngine) dcTimeLocked() int64 {
	if !e.inited {
		return 0
	}
	elapsed := time.Since(e.start).Nanoseconds()
	return e.startDC + elapsed + elapsed*e.cfg.DriftPPM/1_000_000
}

func (e *SimEngine) StartDCTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.inited {
		return 0
	}
	return e.startDC
}

func (e *SimEngine) ShutdownSlaves() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shutdownCalls++
	if e.shutdownCalls < e.cfg.ShutdownTicks {
		return false
	}
	return true
}

func (e *SimEngine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
	e.emit(Event{Severity: SeverityInfo, Slave: -1, Message: "bus released"})
}

func (e *SimEngine) ProcessImage() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image
}

func (e *SimEngine) RegisterSlave(d Descriptor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		return errors.New("sim engine: register after init")
	}
	for _, s := range e.slaves {
		if s.Position == d.Position {
			return fmt.Errorf("sim engine: duplicate slave position %d", d.Position)
		}
	}
	e.slaves = append(e.slaves, d)
	return nil
}

func (e *SimEngine) SetStatusCallback(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cb = fn
}

// InjectMismatch makes the next n transactions report a working-counter
// mismatch. Safe to call from any goroutine.
func (e *SimEngine) InjectMismatch(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingMismatch += n
}

// Released reports whether Shutdown has been called.
func (e *SimEngine) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

func (e *SimEngine) emit(ev Event) {
	if e.cb != nil {
		// Deliver without holding callers up; diagnostic only.
		go e.cb(ev)
	}
}
