package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics records live-subscription activity.
type StreamMetrics struct {
	connections *prometheus.GaugeVec
	broadcasts  *prometheus.CounterVec
	dropped     *prometheus.CounterVec
}

// NewStreamMetrics registers the stream metrics on the provided registerer.
func NewStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	if reg == nil {
		return &StreamMetrics{}
	}
	connections := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stream_active_connections",
		Help: "Currently connected websocket clients.",
	}, []string{"kind"})
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_broadcasts_total",
		Help: "Messages fanned out to subscribers.",
	}, []string{"kind"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_subscribers_dropped_total",
		Help: "Subscribers disconnected for falling behind.",
	}, []string{"kind"})
	reg.MustRegister(connections, broadcasts, dropped)
	return &StreamMetrics{
		connections: connections,
		broadcasts:  broadcasts,
		dropped:     dropped,
	}
}

// ConnOpened increments the active connection gauge for the stream kind.
func (s *StreamMetrics) ConnOpened(kind string) {
	if s == nil || s.connections == nil {
		return
	}
	s.connections.WithLabelValues(normalizeLabel(kind)).Inc()
}

// ConnClosed decrements the active connection gauge for the stream kind.
func (s *StreamMetrics) ConnClosed(kind string) {
	if s == nil || s.connections == nil {
		return
	}
	s.connections.WithLabelValues(normalizeLabel(kind)).Dec()
}

// IncBroadcast counts one delivered broadcast for the stream kind.
func (s *StreamMetrics) IncBroadcast(kind string) {
	if s == nil || s.broadcasts == nil {
		return
	}
	s.broadcasts.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncDropped counts a subscriber dropped for being slow or gone.
func (s *StreamMetrics) IncDropped(kind string) {
	if s == nil || s.dropped == nil {
		return
	}
	s.dropped.WithLabelValues(normalizeLabel(kind)).Inc()
}

// LedgerMetrics records money event appends.
type LedgerMetrics struct {
	recorded *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_recorded_total",
		Help: "Money events appended to the ledger.",
	}, []string{"type"})
	reg.MustRegister(recorded)
	return &LedgerMetrics{recorded: recorded}
}

// IncRecorded counts one appended event of the given type.
func (l *LedgerMetrics) IncRecorded(eventType string) {
	if l == nil || l.recorded == nil {
		return
	}
	l.recorded.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
