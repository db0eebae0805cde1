// internal/status/encode.go
package status

// Encode converts a Snapshot into a full master status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerMaster)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotCycleTimeUs] = s.CycleTimeUs
	regs[SlotJitterUs] = s.JitterUs
	regs[SlotMismatchCount] = s.MismatchCount

	return regs
}
