//go:build rp2040

package hal

import (
	"context"
	"machine"
	"sync"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"spincoater-go/errcode"
	"spincoater-go/x/timex"
)

// Ensure the provider satisfies the contract at compile time.
var _ Resources = (*rp2Resources)(nil)

const defaultPWMFreqHz = 1000

// NewResources returns the RP2040-backed registry.
func NewResources() Resources {
	return &rp2Resources{
		pinOwners:  make(map[int]string),
		gpioCache:  make(map[int]*rp2GPIO),
		sliceFreq:  make(map[uint8]uint64),
		uartOwners: make(map[string]string),
	}
}

type rp2Resources struct {
	mu         sync.Mutex
	pinOwners  map[int]string
	gpioCache  map[int]*rp2GPIO
	sliceFreq  map[uint8]uint64
	uartOwners map[string]string
}

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

type rp2GPIO struct {
	p machine.Pin
	n int
}

func (r *rp2GPIO) Number() int { return r.n }

func (r *rp2GPIO) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2GPIO) Set(b bool) { r.p.Set(b) }
func (r *rp2GPIO) Get() bool  { return r.p.Get() }

func (r *rp2Resources) ClaimGPIO(devID string, n int) (GPIOHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n > 28 {
		return nil, errcode.UnknownPin
	}
	if owner, inUse := r.pinOwners[n]; inUse && owner != "" {
		return nil, errcode.PinInUse
	}
	h, ok := r.gpioCache[n]
	if !ok {
		h = &rp2GPIO{p: machine.Pin(n), n: n}
		r.gpioCache[n] = h
	}
	r.pinOwners[n] = devID
	return h, nil
}

func (r *rp2Resources) ReleasePin(devID string, n int) {
	r.mu.Lock()
	if owner, ok := r.pinOwners[n]; ok && owner == devID {
		delete(r.pinOwners, n)
	}
	r.mu.Unlock()
}

// -----------------------------------------------------------------------------
// PWM
// -----------------------------------------------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type rp2PWM struct {
	mu    sync.Mutex
	res   *rp2Resources
	pin   int
	ctrl  pwmCtrl
	slice uint8
	chIdx uint8 // channel within slice: even pin => 0 (A), odd pin => 1 (B)

	reqTop uint16 // logical resolution, 0..reqTop
	hwTop  uint32 // controller.Top() after Configure
}

func (p *rp2PWM) Configure(freqHz uint64, top uint16) error {
	if top == 0 {
		top = 1
	}
	if freqHz == 0 {
		freqHz = defaultPWMFreqHz
	}

	// Both channels of a slice share one counter; a second claimant must
	// agree on the frequency.
	p.res.mu.Lock()
	if cur, ok := p.res.sliceFreq[p.slice]; ok && cur != freqHz {
		p.res.mu.Unlock()
		return errcode.Conflict
	}
	p.res.sliceFreq[p.slice] = freqHz
	p.res.mu.Unlock()

	if err := p.ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
		return err
	}
	machine.Pin(p.pin).Configure(machine.PinConfig{Mode: machine.PinPWM})

	p.mu.Lock()
	p.reqTop = top
	p.hwTop = p.ctrl.Top()
	p.mu.Unlock()
	return nil
}

func (p *rp2PWM) Set(level uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hwTop == 0 || p.reqTop == 0 {
		return
	}
	if level > p.reqTop {
		level = p.reqTop
	}
	// Scale logical [0..reqTop] to hardware [0..hwTop].
	p.ctrl.Set(p.chIdx, (uint32(level)*p.hwTop)/uint32(p.reqTop))
}

func (p *rp2PWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqTop
}

func (r *rp2Resources) ClaimPWM(devID string, n int) (PWMHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n > 28 {
		return nil, errcode.UnknownPin
	}
	if owner, inUse := r.pinOwners[n]; inUse && owner != "" {
		return nil, errcode.PinInUse
	}
	sliceNum, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil {
		return nil, errcode.Unsupported
	}
	r.pinOwners[n] = devID
	return &rp2PWM{
		res:   r,
		pin:   n,
		ctrl:  pwmGroupBySlice(sliceNum),
		slice: sliceNum,
		chIdx: uint8(n & 1),
	}, nil
}

// -----------------------------------------------------------------------------
// UART
// -----------------------------------------------------------------------------

// rp2Port adapts uartx to hal.UARTPort.
type rp2Port struct{ u *uartx.UART }

func (p *rp2Port) Read(b []byte) (int, error)  { return p.u.Read(b) }
func (p *rp2Port) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2Port) WriteByte(b byte) error      { return p.u.WriteByte(b) }
func (p *rp2Port) ReadByte() (byte, error)     { return p.u.ReadByte() }
func (p *rp2Port) Buffered() int               { return p.u.Buffered() }
func (p *rp2Port) Readable() <-chan struct{}   { return p.u.Readable() }
func (p *rp2Port) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

func (r *rp2Resources) ClaimUART(devID, id string, cfg UARTConfig) (UARTPort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, inUse := r.uartOwners[id]; inUse && owner != "" {
		return nil, errcode.UARTInUse
	}
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errcode.UnknownUART
	}
	// Defaults inside uartx apply if baud is zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TxPin),
		RX:       machine.Pin(cfg.RxPin),
	}); err != nil {
		return nil, err
	}
	r.uartOwners[id] = devID
	return &rp2Port{u: hw}, nil
}
