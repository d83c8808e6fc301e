// services/serial/service.go
package serial

import (
	"context"
	"time"

	"spincoater-go/bus"
	"spincoater-go/hal"
	"spincoater-go/types"
	"spincoater-go/x/conv"
	"spincoater-go/x/strx"
	"spincoater-go/x/timex"
)

var (
	topicConfig = bus.T("config", "serial")
	// TopicRX carries types.SerialLine payloads, one per completed command
	// line.
	TopicRX = bus.T("serial", "rx")
)

// Service owns the UART and turns its byte stream into line messages.
// It never touches motor state; the reader's only side effects are its own
// buffer and bus publishes.
type Service struct {
	conn *bus.Connection
	res  hal.Resources
}

// Start runs the serial service until ctx is cancelled. It waits for
// "config/serial" (retained), claims the configured UART once, then reads
// forever.
func Start(ctx context.Context, conn *bus.Connection, res hal.Resources) {
	s := &Service{conn: conn, res: res}
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	var cfg types.SerialConfig
	select {
	case <-ctx.Done():
		return
	case msg, ok := <-cfgSub.Channel():
		if !ok {
			return
		}
		cfg = decodeConfig(msg.Payload)
	}

	port, err := s.res.ClaimUART("serial", cfg.UART, hal.UARTConfig{
		Baud:  cfg.Baud,
		RxPin: cfg.RxPin,
		TxPin: cfg.TxPin,
	})
	if err != nil {
		println("Error: serial: claim", cfg.UART, "failed:", err.Error())
		return
	}
	println("Info: serial: listening on", cfg.UART)

	s.readLoop(ctx, port, cfg.MaxLine)
}

// readLoop is the asynchronous input boundary: it waits for RX bytes, feeds
// the accumulator, and hands completed lines to the bus. The per-topic queue
// keeps at most the newest pending lines; processing order and atomicity are
// the consumer's concern.
func (s *Service) readLoop(ctx context.Context, port hal.UARTPort, maxLine int) {
	acc := NewAccumulator(maxLine)
	buf := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return
		case <-port.Readable():
			// The readiness signal is edge-triggered: one token per RX
			// arrival. A burst larger than buf must be drained here, not
			// left waiting for an edge that already fired.
			for {
				// Bound the blocking wait to assist shutdown.
				rctx, rcancel := context.WithTimeout(ctx, 250*time.Millisecond)
				n, _ := port.RecvSomeContext(rctx, buf)
				rcancel()
				if n <= 0 {
					break
				}
				now := timex.NowMs()
				for i := 0; i < n; i++ {
					line, ok := acc.Feed(buf[i])
					if !ok {
						continue
					}
					s.conn.Publish(s.conn.NewMessage(TopicRX, types.SerialLine{
						Data: line,
						TSms: now,
					}, false))
				}
				if port.Buffered() == 0 {
					break
				}
			}
		}
	}
}

func decodeConfig(p any) types.SerialConfig {
	cfg := types.SerialConfig{UART: "uart0"}
	m, ok := p.(map[string]any)
	if !ok {
		return cfg
	}
	if v, ok := conv.AnyString(m["uart"]); ok {
		cfg.UART = strx.Coalesce(v, "uart0")
	}
	if v, ok := conv.AnyInt(m["baud"]); ok && v > 0 {
		cfg.Baud = uint32(v)
	}
	if v, ok := conv.AnyInt(m["rx_pin"]); ok {
		cfg.RxPin = v
	}
	if v, ok := conv.AnyInt(m["tx_pin"]); ok {
		cfg.TxPin = v
	}
	if v, ok := conv.AnyInt(m["max_line"]); ok {
		cfg.MaxLine = v
	}
	return cfg
}
