// internal/cycle/controller.go
package cycle

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tamzrod/ecat-master/internal/master"
)

// Handler receives the three per-tick callbacks from the controller.
//
// All three are invoked on the cyclic goroutine, strictly between
// transactions. A handler that panics takes the whole cycle loop down;
// the controller does not guard against it.
type Handler interface {
	// DoControl runs once per fully successful cycle.
	DoControl()

	// DeadlineMissed is reported when a cycle's deadline passed before
	// the wait, or the transaction did not complete. No control callback
	// runs for that tick.
	DeadlineMissed()

	// SlaveNotResponding is reported when the working counter came back
	// short. It fires before the engine reconciles slave state, so the
	// slaves may still be electrically active for tens of milliseconds;
	// treat them as possibly live, not as confirmed safe.
	SlaveNotResponding()
}

// Config is the immutable cyclic configuration.
type Config struct {
	// Interface is the network interface connected to the bus.
	Interface string

	// Period is the desired cycle time.
	Period time.Duration

	// Priority is the SCHED_FIFO priority for the cyclic thread on
	// Linux. Zero or negative leaves scheduling untouched.
	Priority int

	// EnableDC synchronizes the loop to the Distributed Clock reference.
	EnableDC bool

	// SyncOffset is the desired delay between the DC sync pulse and the
	// transaction start. Required, positive and less than Period when
	// EnableDC is set. 50-100us is a reasonable starting point.
	SyncOffset time.Duration

	// IntegralLimit clamps the sync controller's integral accumulator to
	// ±limit. Zero keeps it unbounded.
	IntegralLimit int64
}

// Controller owns the cyclic realtime loop: it waits for each period's
// deadline (DC-corrected when enabled), performs one bus transaction
// through the engine, and hands the cycle to the Handler. On stop it
// keeps ticking until every slave confirms a safe terminal state, then
// releases the engine.
type Controller struct {
	cfg     Config
	engine  master.Engine
	handler Handler

	sync  *syncController
	timer *periodicTimer

	running atomic.Bool
	started atomic.Bool
	done    chan struct{}
	runErr  error // written before done is closed

	dcEffective atomic.Bool

	// Per-tick statistics, single writer (the cyclic goroutine), read
	// from anywhere.
	lastIdle        atomic.Int64 // ns
	lastTransaction atomic.Int64 // ns
	lastCycle       atomic.Int64 // ns
	startFreeRun    atomic.Int64 // ns, wall clock at init when free running
}

// New validates the configuration and prepares a controller. DC mode
// without a usable sync offset fails here, before any goroutine exists.
func New(cfg Config, engine master.Engine, handler Handler) (*Controller, error) {
	if cfg.Interface == "" {
		return nil, errors.New("cycle: interface required")
	}
	if cfg.Period <= 0 {
		return nil, errors.New("cycle: period must be > 0")
	}
	if engine == nil {
		return nil, errors.New("cycle: engine required")
	}
	if handler == nil {
		return nil, errors.New("cycle: handler required")
	}
	if cfg.EnableDC {
		if cfg.SyncOffset <= 0 {
			return nil, errors.New("cycle: DC mode requires a positive sync offset")
		}
		if cfg.SyncOffset >= cfg.Period {
			return nil, fmt.Errorf(
				"cycle: sync offset %v must be less than period %v",
				cfg.SyncOffset, cfg.Period,
			)
		}
	}

	c := &Controller{
		cfg:     cfg,
		engine:  engine,
		handler: handler,
		timer:   newPeriodicTimer(cfg.Period),
		sync: newSyncController(
			cfg.Period.Nanoseconds(),
			cfg.SyncOffset.Nanoseconds(),
			cfg.IntegralLimit,
		),
		done: make(chan struct{}),
	}
	c.running.Store(true)

	if cfg.EnableDC {
		engine.EnableDC(cfg.Period)
	}
	return c, nil
}

// Start launches the cyclic loop on its own goroutine and returns
// immediately. Calling Start more than once is a no-op.
func (c *Controller) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run()
}

// StopController requests a graceful stop at the next tick boundary.
// Safe to call from any goroutine; the loop keeps transacting until all
// slaves are confirmed down.
func (c *Controller) StopController() {
	c.running.Store(false)
}

// Join blocks until the cyclic loop has fully terminated, including the
// slave shutdown sequence and the engine release. It returns the engine
// init error if startup was aborted.
func (c *Controller) Join() error {
	<-c.done
	return c.runErr
}

func (c *Controller) run() {
	// The loop owns its OS thread for the whole lifetime; scheduling
	// priority applies to the thread, not the goroutine.
	runtime.LockOSThread()
	defer close(c.done)

	// Best effort: needs CAP_SYS_NICE. Without it the loop free-runs on
	// the normal scheduler, which is fine for bench setups.
	_ = setRealtimePriority(c.cfg.Priority)

	if err := c.engine.Init(); err != nil {
		c.runErr = fmt.Errorf("cycle: engine init: %w", err)
		return
	}

	// The engine may refuse DC; its answer wins over the configuration.
	c.dcEffective.Store(c.engine.DCEnabled())
	if !c.dcEffective.Load() {
		c.startFreeRun.Store(time.Now().UnixNano())
	}

	for c.running.Load() {
		start := time.Now()
		if c.waitForNextPeriodAndDoTransfer() {
			c.handler.DoControl()
		} else {
			c.handler.DeadlineMissed()
		}
		c.lastCycle.Store(time.Since(start).Nanoseconds())
	}

	// Shutdown phase: keep the bus ticking until every slave is
	// confirmed down, so no slave is left mid-transition.
	for allDown := false; !allDown; {
		if c.waitForNextPeriodAndDoTransfer() {
			allDown = c.engine.ShutdownSlaves()
		} else {
			c.handler.DeadlineMissed()
		}
	}

	c.engine.Shutdown()
}

// waitForNextPeriodAndDoTransfer blocks until the next deadline and then
// performs one bus transaction. It reports true only when the deadline
// was met and all expected slaves responded.
func (c *Controller) waitForNextPeriodAndDoTransfer() bool {
	idle := c.waitForNextPeriod()
	c.lastIdle.Store(idle.Nanoseconds())
	if idle <= 0 {
		return false
	}

	start := time.Now()
	c.engine.Send()
	ok := c.engine.Receive()
	c.lastTransaction.Store(time.Since(start).Nanoseconds())

	if c.engine.WorkingCounterMismatch() {
		// Before any state reconciliation by the engine: the handler
		// must assume the slaves may still be active.
		c.handler.SlaveNotResponding()
	}
	return ok
}

func (c *Controller) waitForNextPeriod() time.Duration {
	if c.dcEffective.Load() {
		offset := c.sync.correction(c.engine.DCTime())
		return c.timer.wait(time.Duration(offset))
	}
	return c.timer.wait(0)
}

// ---- READ-ONLY ACCESSORS ----

// LastIdleTime is the time spent parked before the last transaction.
func (c *Controller) LastIdleTime() time.Duration {
	return time.Duration(c.lastIdle.Load())
}

// LastTransactionTime is the duration of the last bus transaction.
func (c *Controller) LastTransactionTime() time.Duration {
	return time.Duration(c.lastTransaction.Load())
}

// LastCycleDuration is the full duration of the last cycle, wait and
// control callback included. Should track the configured period with a
// small amount of jitter.
func (c *Controller) LastCycleDuration() time.Duration {
	return time.Duration(c.lastCycle.Load())
}

// JitterEstimate is the worst observed wake latency past a deadline.
func (c *Controller) JitterEstimate() time.Duration {
	return c.timer.jitterEstimate()
}

// CurrentCycleTimestamp returns the current cycle's timestamp in
// nanoseconds: the previous sync pulse time on the DC reference clock
// when DC is effective, host time otherwise.
func (c *Controller) CurrentCycleTimestamp() int64 {
	if c.dcEffective.Load() {
		// Rounding the DC time down to the cycle time gives the
		// previous sync pulse.
		period := c.cfg.Period.Nanoseconds()
		return c.engine.DCTime() / period * period
	}
	return time.Now().UnixNano()
}

// InitTimestamp returns the timestamp of cycle zero: the DC reference
// reading taken during engine init when DC is effective, host time at
// the end of init otherwise.
func (c *Controller) InitTimestamp() int64 {
	if c.dcEffective.Load() {
		period := c.cfg.Period.Nanoseconds()
		return c.engine.StartDCTime() / period * period
	}
	return c.startFreeRun.Load()
}

// DCEffective reports whether the loop is actually synchronized to the
// reference clock after init.
func (c *Controller) DCEffective() bool {
	return c.dcEffective.Load()
}

// RegisterSlave registers a slave descriptor with the engine. Must be
// called before Start.
func (c *Controller) RegisterSlave(d master.Descriptor) error {
	return c.engine.RegisterSlave(d)
}

// SetStatusCallback installs the engine's asynchronous diagnostic sink.
func (c *Controller) SetStatusCallback(fn func(master.Event)) {
	c.engine.SetStatusCallback(fn)
}
