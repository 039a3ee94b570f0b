package monitor

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	a := hub.Subscribe()
	b := hub.Subscribe()

	frame := []byte("jpeg bytes")
	hub.BroadcastBinary(frame)

	for name, sub := range map[string]*Subscriber{"a": a, "b": b} {
		select {
		case msg := <-sub.C():
			if msg.Kind != BinaryMessage {
				t.Errorf("subscriber %s: kind = %v, want BinaryMessage", name, msg.Kind)
			}
			if !bytes.Equal(msg.Data, frame) {
				t.Errorf("subscriber %s: data = %q, want %q", name, msg.Data, frame)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s: no message within 1s", name)
		}
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	if _, ok := <-sub.C(); ok {
		t.Error("channel still open after unsubscribe")
	}
	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := hub.Subscribe()

	// Never read; the buffer fills and the hub must drop the subscriber
	// instead of stalling the broadcaster.
	for i := 0; i < subscriberBuffer+2; i++ {
		hub.BroadcastBinary([]byte("frame"))
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow subscriber was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Drain: the closed channel marks the drop.
	for range slow.C() {
	}
}

func TestHubBroadcastJSON(t *testing.T) {
	hub := NewHub("test")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sub := hub.Subscribe()

	if err := hub.BroadcastJSON(map[string]string{"mode": "canny"}); err != nil {
		t.Fatalf("BroadcastJSON() error = %v", err)
	}

	select {
	case msg := <-sub.C():
		if msg.Kind != JSONMessage {
			t.Errorf("kind = %v, want JSONMessage", msg.Kind)
		}
		if want := `{"mode":"canny"}`; string(msg.Data) != want {
			t.Errorf("data = %s, want %s", msg.Data, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no message within 1s")
	}
}
