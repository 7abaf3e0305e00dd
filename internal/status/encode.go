// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotStateCode] = s.State
	if s.ErrorCode != "" {
		regs[SlotErrorFlag] = 1
	}
	regs[SlotSecondsInState] = s.SecondsInState

	copy(regs[SlotErrorCodeStart:SlotErrorCodeStart+SlotErrorCodeSlots], EncodeASCII(s.ErrorCode))
	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], EncodeASCII(deviceName))

	return regs
}

// EncodeASCII packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable bytes become '?'.
func EncodeASCII(s string) []uint16 {
	out := make([]uint16, ASCIIMaxChars/2)

	b := []byte(s)
	if len(b) > ASCIIMaxChars {
		b = b[:ASCIIMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < ASCIIMaxChars; i += 2 {
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
