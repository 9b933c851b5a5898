package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and SEPA counters exposed on /metrics.
type Metrics struct {
	RequestDuration    *prometheus.HistogramVec
	RequestsTotal      *prometheus.CounterVec
	DocumentsGenerated *prometheus.CounterVec
	Validations        *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sepa_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sepa_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		DocumentsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sepa_documents_generated_total",
			Help: "SEPA documents generated by message type",
		}, []string{"type"}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sepa_identifier_validations_total",
			Help: "Identifier validations by kind and outcome",
		}, []string{"kind", "valid"}),
	}
}

// IncDocument counts a generated document of the given message type.
func (m *Metrics) IncDocument(msgType string) {
	m.DocumentsGenerated.WithLabelValues(msgType).Inc()
}

// IncValidation counts an identifier validation.
func (m *Metrics) IncValidation(kind string, valid bool) {
	m.Validations.WithLabelValues(kind, strconv.FormatBool(valid)).Inc()
}

// Instrument records latency and status per route template.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}
