package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the console's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errors           *prometheus.CounterVec
	gateDecisions    *prometheus.CounterVec
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	forcedLogouts    *prometheus.CounterVec
	sessionEvents    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Total number of HTTP requests served by the console.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_errors_total",
			Help: "HTTP requests that ended in an error response.",
		}, []string{"method", "path", "code"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_gate_decisions_total",
			Help: "Route authorization decisions by outcome.",
		}, []string{"outcome"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_upstream_requests_total",
			Help: "Calls made to the back-office API.",
		}, []string{"group", "method", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_upstream_request_duration_seconds",
			Help:    "Back-office API latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"group"}),
		forcedLogouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_forced_logouts_total",
			Help: "Sessions logged out because authentication failed.",
		}, []string{"reason"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_session_events_total",
			Help: "Session events by type.",
		}, []string{"type"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.requests, m.requestDuration, m.errors, m.gateDecisions,
			m.upstreamCalls, m.upstreamDuration, m.forcedLogouts, m.sessionEvents,
		)
	}
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordGateDecision counts one route authorization outcome.
func (m *Metrics) RecordGateDecision(outcome string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(outcome).Inc()
}

// RecordUpstream counts one back-office call. status is 0 on transport failure.
func (m *Metrics) RecordUpstream(group, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamCalls.WithLabelValues(group, method, label).Inc()
	m.upstreamDuration.WithLabelValues(group).Observe(duration.Seconds())
}

// RecordForcedLogout counts a logout triggered by an authentication failure.
func (m *Metrics) RecordForcedLogout(reason string) {
	if m == nil {
		return
	}
	m.forcedLogouts.WithLabelValues(reason).Inc()
}

// RecordSessionEvent counts a session event by type.
func (m *Metrics) RecordSessionEvent(eventType string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(eventType).Inc()
}
