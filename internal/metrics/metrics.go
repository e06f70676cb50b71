package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing, which keeps tests and tools free of wiring.
type Metrics struct {
	Registry           *prometheus.Registry
	GeneratedQuestions *prometheus.CounterVec
	EnvelopeCalls      *prometheus.CounterVec
	StoreWrites        *prometheus.CounterVec
	StoreCorruptLoads  *prometheus.CounterVec
	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates collectors on a private registry so several instances can coexist
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		GeneratedQuestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "generated_questions_total",
				Help:      "Questions produced, by generation strategy",
			},
			[]string{"strategy"},
		),
		EnvelopeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "mock_ai_calls_total",
				Help:      "Mock AI envelope calls, by outcome",
			},
			[]string{"outcome"},
		),
		StoreWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "store_writes_total",
				Help:      "Blob writes, by collection",
			},
			[]string{"collection"},
		),
		StoreCorruptLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "store_unreadable_loads_total",
				Help:      "Loads that fell back to an empty collection, by collection",
			},
			[]string{"collection"},
		),
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "linguaquiz",
				Subsystem: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) ObserveGenerated(strategy string, n int) {
	if m == nil {
		return
	}
	m.GeneratedQuestions.WithLabelValues(strategy).Add(float64(n))
}

func (m *Metrics) ObserveEnvelope(outcome string) {
	if m == nil {
		return
	}
	m.EnvelopeCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStoreWrite(collection string) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(collection).Inc()
}

func (m *Metrics) ObserveCorruptLoad(collection string) {
	if m == nil {
		return
	}
	m.StoreCorruptLoads.WithLabelValues(collection).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
