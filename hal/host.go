//go:build !rp2040

package hal

import (
	"context"
	"io"
	"sync"

	"spincoater-go/errcode"
)

// Host build: in-memory pins and a loopback UART. Used by tests and by the
// host run of the firmware during development.

var _ Resources = (*HostResources)(nil)

// NewResources returns the host-backed registry.
func NewResources() Resources {
	return &HostResources{
		pinOwners:  make(map[int]string),
		pins:       make(map[int]*HostPin),
		pwms:       make(map[int]*HostPWM),
		ports:      make(map[string]*HostPort),
		uartOwners: make(map[string]string),
	}
}

type HostResources struct {
	mu         sync.Mutex
	pinOwners  map[int]string
	pins       map[int]*HostPin
	pwms       map[int]*HostPWM
	ports      map[string]*HostPort
	uartOwners map[string]string
}

// Pin returns the fake pin for n, creating it if needed. Test hook.
func (r *HostResources) Pin(n int) *HostPin {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pin(n)
}

func (r *HostResources) pin(n int) *HostPin {
	p, ok := r.pins[n]
	if !ok {
		p = &HostPin{n: n}
		r.pins[n] = p
	}
	return p
}

// PWM returns the fake PWM channel for pin n, creating it if needed. Test hook.
func (r *HostResources) PWM(n int) *HostPWM {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pwm(n)
}

func (r *HostResources) pwm(n int) *HostPWM {
	p, ok := r.pwms[n]
	if !ok {
		p = &HostPWM{pin: n}
		r.pwms[n] = p
	}
	return p
}

// Port returns the loopback UART for id, creating it if needed. The host
// bootstrap uses it to feed stdin into the firmware; tests use it to inject
// wire bytes.
func (r *HostResources) Port(id string) *HostPort {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port(id)
}

func (r *HostResources) port(id string) *HostPort {
	p, ok := r.ports[id]
	if !ok {
		p = NewHostPort()
		r.ports[id] = p
	}
	return p
}

func (r *HostResources) ClaimGPIO(devID string, n int) (GPIOHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 {
		return nil, errcode.UnknownPin
	}
	if owner, inUse := r.pinOwners[n]; inUse && owner != "" {
		return nil, errcode.PinInUse
	}
	r.pinOwners[n] = devID
	return r.pin(n), nil
}

func (r *HostResources) ClaimPWM(devID string, n int) (PWMHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 {
		return nil, errcode.UnknownPin
	}
	if owner, inUse := r.pinOwners[n]; inUse && owner != "" {
		return nil, errcode.PinInUse
	}
	r.pinOwners[n] = devID
	return r.pwm(n), nil
}

func (r *HostResources) ReleasePin(devID string, n int) {
	r.mu.Lock()
	if owner, ok := r.pinOwners[n]; ok && owner == devID {
		delete(r.pinOwners, n)
	}
	r.mu.Unlock()
}

func (r *HostResources) ClaimUART(devID, id string, _ UARTConfig) (UARTPort, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, inUse := r.uartOwners[id]; inUse && owner != "" {
		return nil, errcode.UARTInUse
	}
	switch id {
	case "uart0", "uart1":
	default:
		return nil, errcode.UnknownUART
	}
	r.uartOwners[id] = devID
	return r.port(id), nil
}

// -----------------------------------------------------------------------------
// Fake pin / PWM
// -----------------------------------------------------------------------------

type HostPin struct {
	mu         sync.Mutex
	n          int
	level      bool
	configured bool
}

func (p *HostPin) Number() int { return p.n }

func (p *HostPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.configured = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *HostPin) Set(b bool) {
	p.mu.Lock()
	p.level = b
	p.mu.Unlock()
}

func (p *HostPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Configured reports whether ConfigureOutput has run. Test hook.
func (p *HostPin) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

type HostPWM struct {
	mu    sync.Mutex
	pin   int
	top   uint16
	level uint16
}

func (p *HostPWM) Configure(_ uint64, top uint16) error {
	if top == 0 {
		top = 1
	}
	p.mu.Lock()
	p.top = top
	p.level = 0
	p.mu.Unlock()
	return nil
}

func (p *HostPWM) Set(level uint16) {
	p.mu.Lock()
	if level > p.top {
		level = p.top
	}
	p.level = level
	p.mu.Unlock()
}

func (p *HostPWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

// Level returns the last applied level. Test hook.
func (p *HostPWM) Level() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// -----------------------------------------------------------------------------
// Loopback UART port
// -----------------------------------------------------------------------------

// HostPort is an in-memory UART: Inject supplies RX bytes, TX accumulates
// writes.
type HostPort struct {
	mu       sync.Mutex
	rx       []byte
	tx       []byte
	readable chan struct{}
}

var _ UARTPort = (*HostPort)(nil)

func NewHostPort() *HostPort {
	return &HostPort{readable: make(chan struct{}, 1)}
}

// Inject appends bytes to the RX buffer and signals readers.
func (p *HostPort) Inject(b []byte) {
	p.mu.Lock()
	p.rx = append(p.rx, b...)
	p.mu.Unlock()
	select {
	case p.readable <- struct{}{}:
	default:
	}
}

// TX returns a copy of everything written so far. Test hook.
func (p *HostPort) TX() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.tx...)
}

func (p *HostPort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

func (p *HostPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0, nil
	}
	n := copy(b, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *HostPort) ReadByte() (byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0, io.EOF
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b, nil
}

func (p *HostPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.tx = append(p.tx, b...)
	p.mu.Unlock()
	return len(b), nil
}

func (p *HostPort) WriteByte(b byte) error {
	_, err := p.Write([]byte{b})
	return err
}

func (p *HostPort) Readable() <-chan struct{} { return p.readable }

// RecvSomeContext blocks until at least one byte is buffered or ctx is done.
func (p *HostPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	for {
		if n, _ := p.Read(buf); n > 0 {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-p.readable:
		}
	}
}
