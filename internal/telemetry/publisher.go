// internal/telemetry/publisher.go
package telemetry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/ecat-master/internal/status"
)

// RegisterWriter is the exact delivery contract the publisher uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type RegisterWriter interface {
	WriteRegisters(addr uint16, regs []uint16) error
}

// Publisher mirrors the master status block into a remote status memory.
// It receives snapshots and writes them verbatim.
// No logic, no interpretation; write-on-change per slot.
type Publisher struct {
	cli      RegisterWriter
	baseSlot uint16

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

// NewPublisher builds a status publisher for one master.
// slot selects which fixed-size block of the status memory this master owns.
func NewPublisher(cli RegisterWriter, slot uint16, deviceName string) (*Publisher, error) {
	if cli == nil {
		return nil, errors.New("telemetry: register writer required")
	}

	return &Publisher{
		cli:      cli,
		baseSlot: slot,
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
		nameRegs: encodeDeviceNameRegs(deviceName),
	}, nil
}

// Publish delivers a status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (p *Publisher) Publish(s status.Snapshot) error {
	baseAddr := p.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if p.needFull {
		regs := p.fullBlockRegs(s)

		if err := p.cli.WriteRegisters(baseAddr, regs); err != nil {
			p.needFull = true
			return fmt.Errorf("telemetry: full block write failed: %w", err)
		}

		p.needFull = false
		p.last = s
		return nil
	}

	var errs []string

	write := func(slot int, name string, have, want uint16, commit func()) {
		if have == want {
			return
		}
		err := p.cli.WriteRegisters(baseAddr+uint16(slot), []uint16{want})
		if err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, name, err))
			return
		}
		commit()
	}

	write(status.SlotHealthCode, "health", p.last.Health, s.Health,
		func() { p.last.Health = s.Health })
	write(status.SlotLastErrorCode, "last_error", p.last.LastErrorCode, s.LastErrorCode,
		func() { p.last.LastErrorCode = s.LastErrorCode })
	write(status.SlotSecondsInError, "seconds", p.last.SecondsInError, s.SecondsInError,
		func() { p.last.SecondsInError = s.SecondsInError })
	write(status.SlotCycleTimeUs, "cycle_time", p.last.CycleTimeUs, s.CycleTimeUs,
		func() { p.last.CycleTimeUs = s.CycleTimeUs })
	write(status.SlotJitterUs, "jitter", p.last.JitterUs, s.JitterUs,
		func() { p.last.JitterUs = s.JitterUs })
	write(status.SlotMismatchCount, "mismatches", p.last.MismatchCount, s.MismatchCount,
		func() { p.last.MismatchCount = s.MismatchCount })

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		p.needFull = true
		return errors.New("telemetry: " + strings.Join(errs, " | "))
	}

	return nil
}

func (p *Publisher) baseAddr() uint16 {
	// Each master owns a fixed SlotsPerMaster block.
	return p.baseSlot * status.SlotsPerMaster
}

func (p *Publisher) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)

	// Reserved slots stay zero.

	// Device name always lives at the end of the block.
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		dst := status.SlotDeviceNameStart + i
		if dst < len(regs) && i < len(p.nameRegs) {
			regs[dst] = p.nameRegs[i]
		}
	}

	return regs
}

// encodeDeviceNameRegs packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func encodeDeviceNameRegs(name string) []uint16 {
	out := make([]uint16, status.SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > status.DeviceNameMaxChars {
		b = b[:status.DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < status.DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
