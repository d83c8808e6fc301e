package config

import (
	"context"
	"testing"
	"time"

	"spincoater-go/bus"
)

func TestPublishesRetainedSections(t *testing.T) {
	prev := EmbeddedConfigLookup
	defer func() { EmbeddedConfigLookup = prev }()
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "bench" {
			return nil, false
		}
		return []byte(`{"motor":{"max_rpm":8000},"serial":{"baud":9600}}`), true
	}

	b := bus.NewBus(4)
	conn := b.NewConnection("cfg_test")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "bench")

	NewService().Start(ctx, b.NewConnection("config"))
	time.Sleep(50 * time.Millisecond)

	// Retained: a late subscriber still sees each section.
	motorSub := conn.Subscribe(bus.T("config", "motor"))
	defer conn.Unsubscribe(motorSub)

	select {
	case m := <-motorSub.Channel():
		cfg, ok := m.Payload.(map[string]any)
		if !ok {
			t.Fatalf("payload type %T, want map", m.Payload)
		}
		if _, ok := cfg["max_rpm"]; !ok {
			t.Error("max_rpm missing from motor section")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for config/motor")
	}

	serialSub := conn.Subscribe(bus.T("config", "serial"))
	defer conn.Unsubscribe(serialSub)
	select {
	case <-serialSub.Channel():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for config/serial")
	}
}

func TestMissingDeviceIsAnError(t *testing.T) {
	b := bus.NewBus(2)
	conn := b.NewConnection("cfg_test")

	s := NewService()
	if err := s.publishConfig(context.Background(), conn); err == nil {
		t.Error("expected error for missing device ID")
	}

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "no-such-device")
	if err := s.publishConfig(ctx, conn); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestEmbeddedConfigsDecode(t *testing.T) {
	for device := range embeddedConfigs {
		s := NewService()
		ctx := context.WithValue(context.Background(), CtxDeviceKey, device)
		if err := s.publishConfig(ctx, bus.NewBus(2).NewConnection("t")); err != nil {
			t.Errorf("device %q: %v", device, err)
		}
	}
}
