package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus instruments for the HTTP API.
type Metrics struct {
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	orderOperationsTotal *prometheus.CounterVec
	listOperationsTotal  *prometheus.CounterVec

	authRequestsTotal *prometheus.CounterVec
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers every Prometheus instrument.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpositions_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listpositions_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "listpositions_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
		orderOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpositions_order_operations_total",
				Help: "Total number of Order operations (receive, create_position, compare, lex)",
			},
			[]string{"operation", "status"},
		),
		listOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpositions_list_operations_total",
				Help: "Total number of List operations (set, delete, at, index)",
			},
			[]string{"operation", "status"},
		),
		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpositions_auth_requests_total",
				Help: "Total number of authentication checks",
			},
			[]string{"status"},
		),
		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpositions_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}
}

func outcome(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOrderOperation records one Order-level operation outcome.
func (m *Metrics) RecordOrderOperation(operation string, success bool) {
	m.orderOperationsTotal.WithLabelValues(operation, outcome(success)).Inc()
}

// RecordListOperation records one List-level operation outcome.
func (m *Metrics) RecordListOperation(operation string, success bool) {
	m.listOperationsTotal.WithLabelValues(operation, outcome(success)).Inc()
}

// RecordAuthRequest records an API-key check outcome.
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordHealthCheck records a health check outcome.
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(outcome(success)).Inc()
}

// InstrumentHandler wraps handler with request counting, timing, and
// in-flight gauges labeled by method and endpoint.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
