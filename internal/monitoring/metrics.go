package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the fixtures server's Prometheus metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FixtureServes   *prometheus.CounterVec
	WSConnections   prometheus.Gauge
	WSMessages      *prometheus.CounterVec

	registry *prometheus.Registry
	started  time.Time
}

// New creates a metrics collector backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}
	factory := promauto.With(m.registry)

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webenv_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)
	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webenv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"method", "path"},
	)
	m.FixtureServes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webenv_fixture_serves_total",
			Help: "Total number of fixture bodies served",
		},
		[]string{"name"},
	)
	m.WSConnections = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "webenv_ws_connections",
			Help: "Number of active WebSocket connections",
		},
	)
	m.WSMessages = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webenv_ws_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction", "type"},
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "webenv_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.started).Seconds() },
	)

	return m
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFixtureServe records one fixture body going out.
func (m *Metrics) RecordFixtureServe(name string) {
	m.FixtureServes.WithLabelValues(name).Inc()
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments active WebSocket connections.
func (m *Metrics) IncWSConnections() { m.WSConnections.Inc() }

// DecWSConnections decrements active WebSocket connections.
func (m *Metrics) DecWSConnections() { m.WSConnections.Dec() }

// Handler returns the exposition handler for this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
