package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow carries the RED metrics for use-case invocations.
type Workflow struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewWorkflow(reg prometheus.Registerer) *Workflow {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "usecase_requests_total",
		Help: "Total number of use case invocations.",
	}, []string{"use_case", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "usecase_duration_seconds",
		Help:    "Duration of use case execution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"use_case"})

	reg.MustRegister(requests, duration)
	return &Workflow{Requests: requests, Duration: duration}
}

// Observe records one invocation. A nil receiver is a no-op so tests can run
// without a registry.
func (w *Workflow) Observe(useCase string, start time.Time, err error) {
	if w == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	w.Requests.WithLabelValues(useCase, outcome).Inc()
	w.Duration.WithLabelValues(useCase).Observe(time.Since(start).Seconds())
}

// HTTP carries the per-route server metrics.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	reg.MustRegister(requests, duration)
	return &HTTP{Requests: requests, Duration: duration}
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
