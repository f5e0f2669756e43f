package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's collectors. It implements client.Observer.
type Metrics struct {
	registry *prometheus.Registry

	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	sessionChangesTotal    *prometheus.CounterVec
	websocketConnections   prometheus.Gauge
	websocketMessagesTotal prometheus.Counter
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hopwhistle",
				Name:      "backend_requests_total",
				Help:      "Requests sent to the analytics backend.",
			},
			[]string{"operation", "status"},
		),
		backendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hopwhistle",
				Name:      "backend_request_duration_seconds",
				Help:      "Latency of requests to the analytics backend.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sessionChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hopwhistle",
				Name:      "session_changes_total",
				Help:      "Session store changes by resulting state.",
			},
			[]string{"state"},
		),
		websocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hopwhistle",
			Name:      "websocket_active_connections",
			Help:      "Connected dashboard websocket clients.",
		}),
		websocketMessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hopwhistle",
			Name:      "websocket_messages_total",
			Help:      "Session events broadcast to websocket clients.",
		}),
	}

	m.registry.MustRegister(
		m.backendRequestsTotal,
		m.backendRequestDuration,
		m.sessionChangesTotal,
		m.websocketConnections,
		m.websocketMessagesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one backend request. Status 0 means no response.
func (m *Metrics) ObserveRequest(operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequestsTotal.WithLabelValues(operation, label).Inc()
	m.backendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSessionChange counts a session store change
func (m *Metrics) RecordSessionChange(authenticated bool) {
	state := "logged_out"
	if authenticated {
		state = "logged_in"
	}
	m.sessionChangesTotal.WithLabelValues(state).Inc()
}

// RecordWebSocketConnect increments the active connection gauge
func (m *Metrics) RecordWebSocketConnect() {
	m.websocketConnections.Inc()
}

// RecordWebSocketDisconnect decrements the active connection gauge
func (m *Metrics) RecordWebSocketDisconnect() {
	m.websocketConnections.Dec()
}

// RecordWebSocketMessage counts a broadcast session event
func (m *Metrics) RecordWebSocketMessage() {
	m.websocketMessagesTotal.Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
