package aggregates

import (
	"time"

	"github.com/nedgladstone/cardball/internal/observability"
)

// Hooks receives one event per aggregate write plus the outcomes worth counting.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
	// IncReapply counts a mutation rerun after losing a version race.
	IncReapply(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncReapply(string)                              {}

// NewObservabilityHooks reports aggregate writes to metrics. A nil registry yields
// hooks that record nothing.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return gameMetricsHooks{m: metrics}
}

type gameMetricsHooks struct {
	m *observability.Metrics
}

func (h gameMetricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(name, status, dur)
}

func (h gameMetricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(name) }
func (h gameMetricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(name) }
func (h gameMetricsHooks) IncReapply(name string)  { h.m.IncGameReapply(name) }
