// services/motor/service.go
package motor

import (
	"context"

	"spincoater-go/bus"
	"spincoater-go/errcode"
	"spincoater-go/hal"
	"spincoater-go/services/serial"
	"spincoater-go/types"
	"spincoater-go/x/conv"
	"spincoater-go/x/mathx"
	"spincoater-go/x/timex"
)

var (
	topicConfig = bus.T("config", "motor")
	// TopicState carries retained types.MotorState snapshots.
	TopicState = bus.T("motor", "state")
)

// Limits for config validation. MaxRPM and OutputMax must fit the 16-bit
// conversion path.
const (
	defaultMaxRPM    = 10000
	defaultOutputMax = 255
	limit16          = 65535
)

// Service is the single control goroutine: it consumes completed command
// lines, parses them, clamps and converts the request, and applies it through
// the output driver. One command is fully processed before the next is taken,
// so no two commands are ever in flight together.
type Service struct {
	conn *bus.Connection
	res  hal.Resources

	cfg    types.MotorConfig
	driver *Driver
}

// Start runs the motor service until ctx is cancelled.
func Start(ctx context.Context, conn *bus.Connection, res hal.Resources) {
	s := &Service{conn: conn, res: res}
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)
	rxSub := s.conn.Subscribe(serial.TopicRX)
	defer s.conn.Unsubscribe(rxSub)

	// No command is accepted until the outputs are initialised to the safe
	// state. Lines arriving before configuration are dropped, not queued.
	for s.driver == nil {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if err := s.configure(decodeConfig(msg.Payload)); err != nil {
				println("Error: motor: configure failed:", err.Error())
				return
			}
		case <-rxSub.Channel():
			// not ready; discard
		}
	}

	println("Info: motor: ready, max_rpm =", s.cfg.MaxRPM, "output_max =", s.cfg.OutputMax)

	for {
		select {
		case <-ctx.Done():
			// Leave the bench safe on shutdown.
			s.driver.Drive(0)
			s.publishState(0)
			return
		case msg, ok := <-rxSub.Channel():
			if !ok {
				return
			}
			line, ok := msg.Payload.(types.SerialLine)
			if !ok {
				continue
			}
			s.handleLine(line.Data)
		case <-cfgSub.Channel():
			// MaxRPM and OutputMax are fixed at startup; config republishes
			// after the pins are claimed are ignored.
		}
	}
}

// configure claims the pins and forces the safe power-on state.
func (s *Service) configure(cfg types.MotorConfig) error {
	if cfg.EnablePin < 0 || cfg.SpeedPin < 0 {
		return errcode.InvalidParams
	}
	enable, err := s.res.ClaimGPIO("motor", cfg.EnablePin)
	if err != nil {
		return err
	}
	speed, err := s.res.ClaimPWM("motor", cfg.SpeedPin)
	if err != nil {
		s.res.ReleasePin("motor", cfg.EnablePin)
		return err
	}

	d := NewDriver(enable, speed)
	if err := d.Init(cfg.PWMFreqHz, uint16(cfg.OutputMax)); err != nil {
		s.res.ReleasePin("motor", cfg.EnablePin)
		s.res.ReleasePin("motor", cfg.SpeedPin)
		return err
	}

	s.cfg = cfg
	s.driver = d
	s.publishState(0)
	return nil
}

// handleLine runs one command to completion. Malformed input is a no-op and
// out-of-range requests clamp silently; nothing here can halt the loop.
func (s *Service) handleLine(line []byte) {
	cmd := Parse(line)
	if cmd.Kind != types.CmdSetSpeed {
		return
	}
	bounded, level := Convert(cmd.RPM, s.cfg.MaxRPM, s.cfg.OutputMax)
	s.driver.Drive(level)
	s.publishState(bounded)
	println("Info: motor: rpm =", bounded, "level =", int(level))
}

func (s *Service) publishState(boundedRPM int) {
	s.conn.Publish(s.conn.NewMessage(TopicState, types.MotorState{
		RPM:     boundedRPM,
		Level:   s.driver.Level(),
		Enabled: s.driver.Enabled(),
		TSms:    timex.NowMs(),
	}, true))
}

func decodeConfig(p any) types.MotorConfig {
	cfg := types.MotorConfig{
		MaxRPM:    defaultMaxRPM,
		OutputMax: defaultOutputMax,
		EnablePin: -1,
		SpeedPin:  -1,
	}
	m, ok := p.(map[string]any)
	if !ok {
		return cfg
	}
	if v, ok := conv.AnyInt(m["max_rpm"]); ok && v > 0 {
		cfg.MaxRPM = mathx.Clamp(v, 1, limit16)
	}
	if v, ok := conv.AnyInt(m["output_max"]); ok && v > 0 {
		cfg.OutputMax = mathx.Clamp(v, 1, limit16)
	}
	if v, ok := conv.AnyInt(m["enable_pin"]); ok {
		cfg.EnablePin = v
	}
	if v, ok := conv.AnyInt(m["speed_pin"]); ok {
		cfg.SpeedPin = v
	}
	if v, ok := conv.AnyInt(m["pwm_freq_hz"]); ok && v > 0 {
		cfg.PWMFreqHz = uint64(v)
	}
	return cfg
}
