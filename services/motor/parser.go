package motor

import "spincoater-go/types"

// Wire grammar, one command per line:
//
//	SPEED:<integer>
//
// Anything else is CmdUnknown and is silently ignored, matching the
// fire-and-forget control channel: the sender never gets an error frame.
const speedPrefix = "SPEED:"

// parseRPMCap stops accumulation so a run of digits cannot overflow int,
// which is 32-bit on the MCU. The value is clamped to MaxRPM downstream.
const parseRPMCap = 1 << 24

// Parse interprets one completed line. The value is read with a
// prefix-numeric parse: leading base-10 digits are taken, parsing stops at
// the first non-digit, and no leading digits means 0 (garbage reads as stop).
func Parse(line []byte) types.Command {
	if len(line) < len(speedPrefix) || string(line[:len(speedPrefix)]) != speedPrefix {
		return types.Command{Kind: types.CmdUnknown}
	}
	rpm := 0
	for _, c := range line[len(speedPrefix):] {
		if c < '0' || c > '9' {
			break
		}
		if rpm < parseRPMCap {
			rpm = rpm*10 + int(c-'0')
		}
	}
	return types.Command{Kind: types.CmdSetSpeed, RPM: rpm}
}
