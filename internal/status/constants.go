// internal/status/constants.go
package status

// Lifecycle Status Block layout constants.
// These values define the export protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of holding registers per monitored appliance.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotStateCode holds the lifecycle state code.
const SlotStateCode = 0

// SlotErrorFlag is 1 while an error code is surfaced, 0 otherwise.
const SlotErrorFlag = 1

// SlotSecondsInState holds how long (in seconds) the current state has been active.
const SlotSecondsInState = 2

// ---- ERROR CODE ----

// SlotErrorCodeStart is the first slot of the ASCII error code.
const SlotErrorCodeStart = 3

// SlotErrorCodeSlots is the number of slots reserved for the error code.
const SlotErrorCodeSlots = 8

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// Slot 19 is reserved.

// ---- LIMITS ----

// ASCIIMaxChars is the number of characters two bytes per slot can hold in 8 slots.
const ASCIIMaxChars = 16

// MaxSecondsInState saturates the seconds counter; it never wraps.
const MaxSecondsInState = 65535

// ---- STATE CODES ----

const (
	StateUnknown          uint16 = 0
	StateStarting         uint16 = 1
	StateReady            uint16 = 2
	StateError            uint16 = 3
	StateShuttingDown     uint16 = 4
	StateShutdownComplete uint16 = 5
	StateRestarting       uint16 = 6
)
