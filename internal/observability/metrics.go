package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nedgladstone/cardball/internal/platform/logger"
)

var latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics is the process-wide metric registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	gameMutations *CounterVec
	gameReapplies *CounterVec
	feedClients   *Gauge
	busMessages   *CounterVec

	dbStats *GaugeVec
	redisUp *Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("cardball_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cardball_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			latencyBuckets,
		),
		apiInflight: NewGauge("cardball_api_inflight_requests", "In-flight API requests."),

		aggregateOps: NewCounterVec("cardball_aggregate_operations_total", "Aggregate write operations by name/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"cardball_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by name/status.",
			[]string{"operation", "status"},
			latencyBuckets,
		),
		aggregateConflicts: NewCounterVec("cardball_aggregate_conflicts_total", "Optimistic version conflicts by operation.", []string{"operation"}),
		aggregateRetries:   NewCounterVec("cardball_aggregate_retries_total", "Retryable aggregate failures by operation.", []string{"operation"}),

		gameMutations: NewCounterVec("cardball_game_mutations_total", "Committed game mutations by kind.", []string{"kind"}),
		gameReapplies: NewCounterVec("cardball_game_reapplies_total", "Game mutations rerun after a lost version race.", []string{"operation"}),
		feedClients:   NewGauge("cardball_feed_clients", "Connected live feed clients."),
		busMessages:   NewCounterVec("cardball_bus_messages_total", "Realtime bus messages by direction/status.", []string{"direction", "status"}),

		dbStats: NewGaugeVec("cardball_db_pool", "Database connection pool stats.", []string{"stat"}),
		redisUp: NewGauge("cardball_redis_up", "Redis reachability (1 up, 0 down)."),
	}
}

// StartServer serves the Prometheus text endpoint on addr until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) error {
	if m == nil {
		return nil
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	if log != nil {
		log.Info("metrics server listening", "addr", addr)
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	collectors := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.aggregateOps,
		m.aggregateLatency,
		m.aggregateConflicts,
		m.aggregateRetries,
		m.gameMutations,
		m.gameReapplies,
		m.feedClients,
		m.busMessages,
		m.dbStats,
		m.redisUp,
	}
	for _, c := range collectors {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if name == "" {
		name = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.Inc(name, status)
	m.aggregateLatency.Observe(dur.Seconds(), name, status)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(name)
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(name)
}

// IncGameMutation counts a committed mutation, e.g. "lineup" or "action".
func (m *Metrics) IncGameMutation(kind string) {
	if m == nil {
		return
	}
	m.gameMutations.Inc(kind)
}

func (m *Metrics) IncGameReapply(op string) {
	if m == nil {
		return
	}
	m.gameReapplies.Inc(op)
}

func (m *Metrics) FeedClientsInc() {
	if m == nil {
		return
	}
	m.feedClients.Inc()
}

func (m *Metrics) FeedClientsDec() {
	if m == nil {
		return
	}
	m.feedClients.Dec()
}

func (m *Metrics) IncBusMessage(direction, status string) {
	if m == nil {
		return
	}
	m.busMessages.Inc(direction, status)
}
