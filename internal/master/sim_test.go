// internal/master/sim_test.go
package master

import (
	"testing"
	"time"
)

func TestSim_TransactionLifecycle(t *testing.T) {
	e := NewSimEngine(SimConfig{})

	if e.Send() {
		t.Fatal("Send must fail before Init")
	}

	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	if err := e.Init(); err == nil {
		t.Fatal("expected error on double Init")
	}

	if !e.Send() || !e.Receive() {
		t.Fatal("transaction should succeed after Init")
	}
	if e.WorkingCounterMismatch() {
		t.Fatal("unexpected mismatch")
	}
	if len(e.ProcessImage()) == 0 {
		t.Fatal("process image missing after Init")
	}
}

func TestSim_MismatchInjection(t *testing.T) {
	e := NewSimEngine(SimConfig{})
	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}

	e.InjectMismatch(1)

	if e.Receive() {
		t.Fatal("injected mismatch should fail the transaction")
	}
	if !e.WorkingCounterMismatch() {
		t.Fatal("mismatch flag should be latched for the cycle")
	}

	if !e.Receive() {
		t.Fatal("mismatch must clear after one transaction")
	}
	if e.WorkingCounterMismatch() {
		t.Fatal("mismatch flag should have cleared")
	}
}

func TestSim_DCClockAdvances(t *testing.T) {
	e := NewSimEngine(SimConfig{DriftPPM: 100})
	e.EnableDC(time.Millisecond)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}

	if !e.DCEnabled() {
		t.Fatal("DC should be granted")
	}

	start := e.StartDCTime()
	t1 := e.DCTime()
	time.Sleep(2 * time.Millisecond)
	t2 := e.DCTime()

	if t1 < start || t2 <= t1 {
		t.Fatalf("reference clock not monotonic: start=%d t1=%d t2=%d", start, t1, t2)
	}
}

func TestSim_MayRefuseDC(t *testing.T) {
	e := NewSimEngine(SimConfig{RefuseDC: true})
	e.EnableDC(time.Millisecond)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}

	if e.DCEnabled() {
		t.Fatal("RefuseDC engine must report DC disabled")
	}
}

func TestSim_ShutdownSequence(t *testing.T) {
	e := NewSimEngine(SimConfig{ShutdownTicks: 3})
	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}

	if e.ShutdownSlaves() || e.ShutdownSlaves() {
		t.Fatal("slaves confirmed down too early")
	}
	if !e.ShutdownSlaves() {
		t.Fatal("slaves should be down after the configured ticks")
	}

	e.Shutdown()
	if !e.Released() {
		t.Fatal("engine resources not released")
	}
	if e.Send() {
		t.Fatal("Send must fail after Shutdown")
	}
}

func TestSim_SlaveRegistration(t *testing.T) {
	e := NewSimEngine(SimConfig{})

	if err := e.RegisterSlave(Descriptor{Position: 0, Name: "a"}); err != nil {
		t.Fatalf("RegisterSlave() err=%v", err)
	}
	if err := e.RegisterSlave(Descriptor{Position: 0, Name: "b"}); err == nil {
		t.Fatal("expected duplicate position error")
	}

	if err := e.Init(); err != nil {
		t.Fatalf("Init() err=%v", err)
	}
	if err := e.RegisterSlave(Descriptor{Position: 1}); err == nil {
		t.Fatal("expected error registering after Init")
	}
}
