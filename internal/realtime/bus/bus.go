package bus

import (
	"context"

	"github.com/nedgladstone/cardball/internal/realtime"
)

// Bus fans realtime messages out across server instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// Observer is told about every message the bus sends or receives.
type Observer interface {
	IncBusMessage(direction, status string)
}

type noopObserver struct{}

func (noopObserver) IncBusMessage(string, string) {}
