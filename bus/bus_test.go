// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("serial", "rx"))

	conn.Publish(conn.NewMessage(T("serial", "rx"), "hello", false))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "hello" {
			t.Errorf("expected payload 'hello', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishWithoutSubscriberIsDropped(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	// Non-retained publish to a topic nobody subscribes to must not create
	// trie state.
	conn.Publish(conn.NewMessage(T("nobody", "home"), "x", false))

	sub := conn.Subscribe(T("nobody", "home"))
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %v", got.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("motor", "state"), "persist", true))

	sub := conn.Subscribe(T("motor", "state"))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "persist" {
			t.Errorf("expected retained payload 'persist', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for retained message")
	}
}

func TestRetainedMessageCleared(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("motor", "state"), "persist", true))
	conn.Publish(conn.NewMessage(T("motor", "state"), nil, true))

	sub := conn.Subscribe(T("motor", "state"))
	select {
	case got := <-sub.Channel():
		t.Fatalf("expected no retained message, got %v", got.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOldestKeepsNewest(t *testing.T) {
	b := NewBus(1)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("serial", "rx"))

	// Queue length is 1: the second publish must displace the first.
	conn.Publish(conn.NewMessage(T("serial", "rx"), "old", false))
	conn.Publish(conn.NewMessage(T("serial", "rx"), "new", false))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "new" {
			t.Errorf("expected newest payload 'new', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
	select {
	case got := <-sub.Channel():
		t.Fatalf("expected single pending message, got extra %v", got.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestQueueLengthOneBoundsBacklog(t *testing.T) {
	b := NewBus(1)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("serial", "rx"))

	// Burst of commands with the consumer idle: only the newest may pend.
	for _, p := range []string{"SPEED:100", "SPEED:200", "SPEED:300", "SPEED:400"} {
		conn.Publish(conn.NewMessage(T("serial", "rx"), p, false))
	}

	pending := 0
	last := ""
	for {
		select {
		case got := <-sub.Channel():
			pending++
			last = got.Payload.(string)
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}
	if pending != 1 {
		t.Errorf("expected 1 pending message, got %d", pending)
	}
	if last != "SPEED:400" {
		t.Errorf("expected newest payload 'SPEED:400', got %q", last)
	}
}

func TestUnsubscribePrunesTrie(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("a", "b", "c"))
	conn.Unsubscribe(sub)

	if len(b.root.children) != 0 {
		t.Errorf("expected pruned trie, got %d children", len(b.root.children))
	}

	// Channel must be closed after unsubscribe.
	if _, ok := <-sub.Channel(); ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestDisconnectClosesAllSubscriptions(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	s1 := conn.Subscribe(T("a"))
	s2 := conn.Subscribe(T("b"))
	conn.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Error("expected closed channel after disconnect")
		}
	}
}
