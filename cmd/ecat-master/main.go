// cmd/ecat-master/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tamzrod/ecat-master/internal/config"
	"github.com/tamzrod/ecat-master/internal/cycle"
	"github.com/tamzrod/ecat-master/internal/master"
	"github.com/tamzrod/ecat-master/internal/pdo"
	"github.com/tamzrod/ecat-master/internal/status"
	"github.com/tamzrod/ecat-master/internal/telemetry"
)

// loopHandler is the demo control handler: it drives one packed output
// record against the process image and counts the recoverable events.
type loopHandler struct {
	engine master.Engine

	rec    *pdo.Record
	enable *pdo.Boolean
	target *pdo.Signed16

	cycles     atomic.Uint64
	misses     atomic.Uint64
	mismatches atomic.Uint64
}

func newLoopHandler(engine master.Engine) (*loopHandler, error) {
	h := &loopHandler{engine: engine}

	// Output record: control bits packed exactly as the slave declares
	// them, a 16 bit setpoint behind explicit padding.
	h.rec = pdo.NewRecord(0x1600)
	h.rec.Bit(2)
	h.enable = h.rec.Boolean()
	h.rec.Bit(5)
	h.target = h.rec.Signed16()

	if err := h.rec.Compile(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *loopHandler) DoControl() {
	// The process image exists only after engine init, which runs on the
	// cyclic goroutine; bind on first use.
	if !h.rec.Bound() {
		if err := h.rec.Bind(h.engine.ProcessImage(), 0); err != nil {
			log.Printf("pdo bind failed: %v", err)
			return
		}
	}

	n := h.cycles.Add(1)
	h.enable.Set(true)
	h.target.Set(int16(n % 1000))
}

func (h *loopHandler) DeadlineMissed() {
	h.misses.Add(1)
}

func (h *loopHandler) SlaveNotResponding() {
	h.mismatches.Add(1)
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ecat-master <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	m := cfg.Master

	// --------------------
	// Engine + controller
	// --------------------

	// Bench engine; a hardware engine slots in behind the same contract.
	engine := master.NewSimEngine(master.SimConfig{})
	engine.SetStatusCallback(func(ev master.Event) {
		log.Printf("engine event: slave=%d %s", ev.Slave, ev.Message)
	})

	for _, s := range m.Slaves {
		err := engine.RegisterSlave(master.Descriptor{
			Position:    s.Position,
			Alias:       s.Alias,
			VendorID:    s.VendorID,
			ProductCode: s.ProductCode,
			Name:        s.Name,
			OutputBytes: s.OutputBytes,
			InputBytes:  s.InputBytes,
		})
		if err != nil {
			log.Fatalf("slave registration failed: %v", err)
		}
	}

	handler, err := newLoopHandler(engine)
	if err != nil {
		log.Fatalf("handler build failed: %v", err)
	}

	ctl, err := cycle.New(cycle.Config{
		Interface:     m.Interface,
		Period:        time.Duration(m.Cycle.PeriodUs) * time.Microsecond,
		Priority:      m.Cycle.Priority,
		EnableDC:      m.DC.Enabled,
		SyncOffset:    time.Duration(m.DC.SyncOffsetUs) * time.Microsecond,
		IntegralLimit: m.DC.IntegralLimit,
	}, engine, handler)
	if err != nil {
		log.Fatalf("controller build failed: %v", err)
	}

	// --------------------
	// Status memory publisher (optional)
	// --------------------

	stop := make(chan struct{})

	if sm := m.StatusMemory; sm != nil {
		cli, err := telemetry.Dial(telemetry.Config{
			Endpoint: sm.Endpoint,
			UnitID:   sm.UnitID,
			Timeout:  time.Duration(sm.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			log.Fatalf("status memory connect failed: %v", err)
		}
		defer cli.Close()

		pub, err := telemetry.NewPublisher(cli, sm.Slot, sm.DeviceName)
		if err != nil {
			log.Fatalf("status publisher build failed: %v", err)
		}

		// Orchestrator (owns snapshot state, 1Hz ticker)
		go func() {
			var snap status.Snapshot
			snap.Health = status.HealthUnknown

			var lastMisses, lastMismatches uint64

			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()

			// Full block write on start (identity re-assert).
			if err := pub.Publish(snap); err != nil {
				log.Printf("status write failed on start: %v", err)
			}

			for {
				select {
				case <-stop:
					return

				case <-secTicker.C:
					misses := handler.misses.Load()
					mismatches := handler.mismatches.Load()

					switch {
					case mismatches != lastMismatches:
						snap.Health = status.HealthError
						snap.LastErrorCode = status.ErrSlaveNotResponding
					case misses != lastMisses:
						snap.Health = status.HealthError
						snap.LastErrorCode = status.ErrDeadlineMissed
					default:
						if snap.Health != status.HealthOK {
							snap.SecondsInError = 0
						}
						snap.Health = status.HealthOK
						snap.LastErrorCode = status.ErrNone
					}

					// Tick 1 Hz while not OK; saturate, never wrap.
					if snap.Health != status.HealthOK && snap.SecondsInError < 65535 {
						snap.SecondsInError++
					}

					snap.CycleTimeUs = clampUs(ctl.LastCycleDuration())
					snap.JitterUs = clampUs(ctl.JitterEstimate())
					snap.MismatchCount = uint16(mismatches)

					lastMisses = misses
					lastMismatches = mismatches

					if err := pub.Publish(snap); err != nil {
						log.Printf("status write failed: %v", err)
					}
				}
			}
		}()
	}

	// --------------------
	// Run until SIGINT/SIGTERM, then stop + join
	// --------------------

	ctl.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Print("stop requested, shutting down slaves")
	ctl.StopController()
	if err := ctl.Join(); err != nil {
		close(stop)
		log.Fatalf("cyclic loop failed: %v", err)
	}
	close(stop)
	handler.rec.Unbind()

	log.Printf("done: cycles=%d misses=%d mismatches=%d jitter=%v",
		handler.cycles.Load(),
		handler.misses.Load(),
		handler.mismatches.Load(),
		ctl.JitterEstimate(),
	)
}

func clampUs(d time.Duration) uint16 {
	us := d.Microseconds()
	if us > 65535 {
		return 65535
	}
	if us < 0 {
		return 0
	}
	return uint16(us)
}
