// Package hal owns access to physical resources: GPIO pins, PWM channels and
// UART ports. Services claim resources through a Resources registry so a pin
// can never be driven by two owners.
package hal

import (
	"context"

	"tinygo.org/x/drivers"
)

// GPIOHandle is a claimed digital output/input pin.
type GPIOHandle interface {
	Number() int
	ConfigureOutput(initial bool) error
	Set(b bool)
	Get() bool
}

// PWMHandle is a claimed PWM channel. Levels are logical, 0..Top; the
// provider scales them to the hardware counter range.
type PWMHandle interface {
	Configure(freqHz uint64, top uint16) error
	Set(level uint16)
	Top() uint16
}

// UARTPort is a claimed serial port. It satisfies the tinygo.org/x/drivers
// UART contract and adds the uartx-style readiness signal used by reader
// goroutines.
type UARTPort interface {
	drivers.UART
	WriteByte(b byte) error
	Readable() <-chan struct{}
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

// UARTConfig selects pins and baud for a UART claim.
type UARTConfig struct {
	Baud  uint32
	RxPin int
	TxPin int
}

// Resources hands out hardware handles. Claims are exclusive per pin/port;
// double claims fail with errcode.PinInUse / errcode.UARTInUse.
type Resources interface {
	ClaimGPIO(devID string, pin int) (GPIOHandle, error)
	ClaimPWM(devID string, pin int) (PWMHandle, error)
	ReleasePin(devID string, pin int)
	ClaimUART(devID, id string, cfg UARTConfig) (UARTPort, error)
}
