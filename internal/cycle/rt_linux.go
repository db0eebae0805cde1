//go:build linux

// internal/cycle/rt_linux.go
package cycle

import (
	"syscall"
	"unsafe"
)

const schedFIFO = 1

type schedParam struct {
	priority int32
}

// setRealtimePriority moves the calling thread onto the SCHED_FIFO
// scheduler at the given priority. The caller must have the thread
// locked. Requires CAP_SYS_NICE.
func setRealtimePriority(priority int) error {
	if priority <= 0 {
		return nil
	}

	p := schedParam{priority: int32(priority)}
	// tid 0 = calling thread
	_, _, errno := syscall.Syscall(
		syscall.SYS_SCHED_SETSCHEDULER,
		0,
		schedFIFO,
		uintptr(unsafe.Pointer(&p)),
	)
	if errno != 0 {
		return errno
	}
	return nil
}
