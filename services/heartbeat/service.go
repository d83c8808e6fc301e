package heartbeat

import (
	"context"
	"time"

	"spincoater-go/bus"
	"spincoater-go/x/conv"
	"spincoater-go/x/timex"
)

var (
	topicConfig = bus.T("config", "heartbeat")
	topicState  = bus.T("system", "heartbeat")
)

type Service struct{}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"), "Heartbeat")
			conn.Publish(conn.NewMessage(topicState, timex.NowMs(), true))
		case msg := <-cfgSub.Channel():
			m, ok := msg.Payload.(map[string]any)
			if !ok {
				continue
			}
			if iv, ok := conv.AnyInt(m["interval"]); ok && iv > 0 {
				tick.Reset(time.Duration(iv) * time.Second)
				println("Info: heartbeat interval set to", iv, "seconds")
			}
		}
	}
}
