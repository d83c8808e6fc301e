package motor

import (
	"spincoater-go/hal"
)

// Driver is the sole boundary touching the two physical signals. Write order
// is load-bearing:
//
//   - enabling: assert ENABLE before raising SPEED, so the controller never
//     sees a speed demand while disabled;
//   - disabling: zero SPEED before deasserting ENABLE, so a nonzero level is
//     never left applied.
//
// Writes are fire-and-forget; the hardware registers are stateless and there
// is nothing to report back.
type Driver struct {
	enable hal.GPIOHandle
	speed  hal.PWMHandle
	level  uint16
}

// NewDriver wires the claimed handles. Call Init before Drive.
func NewDriver(enable hal.GPIOHandle, speed hal.PWMHandle) *Driver {
	return &Driver{enable: enable, speed: speed}
}

// Init forces the safe power-on state: ENABLE deasserted, SPEED at zero,
// before any command can be accepted.
func (d *Driver) Init(pwmFreqHz uint64, top uint16) error {
	if err := d.enable.ConfigureOutput(false); err != nil {
		return err
	}
	if err := d.speed.Configure(pwmFreqHz, top); err != nil {
		return err
	}
	d.speed.Set(0)
	d.level = 0
	return nil
}

// Drive applies a bounded output level to both signals together.
func (d *Driver) Drive(level uint16) {
	if level > 0 {
		d.enable.Set(true)
		d.speed.Set(level)
	} else {
		d.speed.Set(0)
		d.enable.Set(false)
	}
	d.level = level
}

// Level returns the last applied output level.
func (d *Driver) Level() uint16 { return d.level }

// Enabled is derived, not stored: the driver is enabled iff the last applied
// level is greater than zero.
func (d *Driver) Enabled() bool { return d.level > 0 }
