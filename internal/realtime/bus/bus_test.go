package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/nedgladstone/cardball/internal/platform/logger"
	"github.com/nedgladstone/cardball/internal/realtime"
)

func TestLocalBusForwardsToHub(t *testing.T) {
	hub := realtime.NewSSEHub(logger.Nop())
	client := hub.NewSSEClient()
	channel := realtime.GameChannel(uuid.New())
	hub.AddChannel(client, channel)

	b := NewLocalBus()
	if err := b.StartForwarder(context.Background(), hub.Broadcast); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventGameCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	msg := <-client.Outbound
	if msg.Event != realtime.SSEEventGameCreated {
		t.Fatalf("unexpected event %s", msg.Event)
	}

	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: channel}); err == nil {
		t.Fatalf("publish after close must fail")
	}
}

func TestNewRedisBusRequiresAddress(t *testing.T) {
	if _, _, err := NewRedisBus(logger.Nop(), RedisConfig{}, nil); err == nil {
		t.Fatalf("expected error for empty address")
	}
	if _, _, err := NewRedisBus(nil, RedisConfig{Addr: "localhost:6379"}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestRedisBusUninitialized(t *testing.T) {
	var b *redisBus
	if err := b.Publish(context.Background(), realtime.SSEMessage{}); err == nil {
		t.Fatalf("expected error from nil bus")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close on nil bus: %v", err)
	}
}
