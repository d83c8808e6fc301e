package types

// ------------------------
// Motor
// ------------------------

// MotorConfig is supplied on topic "config/motor" and is immutable after the
// motor service has claimed its pins.
type MotorConfig struct {
	// MaxRPM mirrors the motor controller's configured full-scale RPM.
	// Requests above it are clamped, never rejected.
	MaxRPM int `json:"max_rpm"`
	// OutputMax is the resolution of the proportional speed signal,
	// e.g. 255 for an 8-bit channel.
	OutputMax int `json:"output_max"`

	EnablePin int    `json:"enable_pin"`
	SpeedPin  int    `json:"speed_pin"`
	PWMFreqHz uint64 `json:"pwm_freq_hz,omitempty"`
}

// MotorState is the retained payload on "motor/state". Enabled is derived:
// true iff the last applied level is greater than zero.
type MotorState struct {
	RPM     int    `json:"rpm"`   // bounded RPM actually applied
	Level   uint16 `json:"level"` // analog output level, 0..OutputMax
	Enabled bool   `json:"enabled"`
	TSms    int64  `json:"ts_ms"`
}
