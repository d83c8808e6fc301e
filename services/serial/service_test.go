// services/serial/service_test.go
package serial

import (
	"context"
	"strconv"
	"testing"
	"time"

	"spincoater-go/bus"
	"spincoater-go/hal"
	"spincoater-go/types"
)

func startService(t *testing.T) (*bus.Connection, *hal.HostResources) {
	t.Helper()
	b := bus.NewBus(4)
	conn := b.NewConnection("serial_test")

	res := hal.NewResources().(*hal.HostResources)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	Start(ctx, b.NewConnection("serial"), res)

	conn.Publish(conn.NewMessage(bus.T("config", "serial"), map[string]any{
		"uart": "uart0",
		"baud": float64(115200),
	}, true))
	return conn, res
}

func nextLine(t *testing.T, sub *bus.Subscription, d time.Duration) types.SerialLine {
	t.Helper()
	select {
	case m := <-sub.Channel():
		line, ok := m.Payload.(types.SerialLine)
		if !ok {
			t.Fatalf("unexpected payload type %T", m.Payload)
		}
		return line
	case <-time.After(d):
		t.Fatal("timeout waiting for serial line")
		return types.SerialLine{}
	}
}

func expectNoLine(t *testing.T, sub *bus.Subscription, d time.Duration) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected line: %v", m.Payload)
	case <-time.After(d):
	}
}

func TestService_PublishesCompletedLines(t *testing.T) {
	conn, res := startService(t)
	sub := conn.Subscribe(TopicRX)
	defer conn.Unsubscribe(sub)

	time.Sleep(50 * time.Millisecond) // let the service claim the port
	res.Port("uart0").Inject([]byte("SPEED:3000\n"))

	line := nextLine(t, sub, time.Second)
	if string(line.Data) != "SPEED:3000" {
		t.Errorf("line = %q, want SPEED:3000", line.Data)
	}
}

func TestService_PartialLineNotPublished(t *testing.T) {
	conn, res := startService(t)
	sub := conn.Subscribe(TopicRX)
	defer conn.Unsubscribe(sub)

	time.Sleep(50 * time.Millisecond)
	res.Port("uart0").Inject([]byte("SPEED:50"))
	expectNoLine(t, sub, 150*time.Millisecond)

	// Terminator may arrive in a later chunk.
	res.Port("uart0").Inject([]byte("\n"))
	line := nextLine(t, sub, time.Second)
	if string(line.Data) != "SPEED:50" {
		t.Errorf("line = %q, want SPEED:50", line.Data)
	}
}

// A single burst larger than the read buffer must be drained completely;
// the port's readiness signal fires once per injection, not per read.
func TestService_LargeBurstFullyDrained(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("serial_test")
	res := hal.NewResources().(*hal.HostResources)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	Start(ctx, b.NewConnection("serial"), res)

	conn.Publish(conn.NewMessage(bus.T("config", "serial"), map[string]any{
		"uart": "uart0",
		"baud": float64(115200),
	}, true))

	sub := conn.Subscribe(TopicRX)
	defer conn.Unsubscribe(sub)

	time.Sleep(50 * time.Millisecond)

	var burst []byte
	for i := 1; i <= 13; i++ {
		burst = append(burst, []byte("SPEED:"+strconv.Itoa(i)+"\n")...)
	}
	res.Port("uart0").Inject(burst)

	for i := 1; i <= 13; i++ {
		want := "SPEED:" + strconv.Itoa(i)
		line := nextLine(t, sub, time.Second)
		if string(line.Data) != want {
			t.Fatalf("line %d = %q, want %q", i, line.Data, want)
		}
	}
	if n := res.Port("uart0").Buffered(); n != 0 {
		t.Errorf("%d bytes left buffered after drain", n)
	}
}

func TestService_SplitAcrossChunks(t *testing.T) {
	conn, res := startService(t)
	sub := conn.Subscribe(TopicRX)
	defer conn.Unsubscribe(sub)

	time.Sleep(50 * time.Millisecond)
	for _, chunk := range []string{"SPE", "ED:12", "34\r\nGARB", "AGE\n"} {
		res.Port("uart0").Inject([]byte(chunk))
	}

	first := nextLine(t, sub, time.Second)
	if string(first.Data) != "SPEED:1234" {
		t.Errorf("first line = %q, want SPEED:1234", first.Data)
	}
	second := nextLine(t, sub, time.Second)
	if string(second.Data) != "GARBAGE" {
		t.Errorf("second line = %q, want GARBAGE", second.Data)
	}
}
