package motor

import "spincoater-go/x/mathx"

// Convert bounds a requested RPM to [0, maxRPM] and maps it linearly onto
// [0, outputMax] with truncating integer division. This is the single choke
// point for the hardware-safe bound: every SetSpeed passes through here, and
// clamping is silent (no signal to the sender).
func Convert(rpm, maxRPM, outputMax int) (bounded int, level uint16) {
	bounded = mathx.Clamp(rpm, 0, maxRPM)
	level = mathx.MapU16(uint16(bounded), 0, uint16(maxRPM), 0, uint16(outputMax))
	return bounded, level
}
