package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracebloom"

// Registry owns the service collectors
type Registry struct {
	reg *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	decisions *prometheus.CounterVec
}

// NewRegistry creates a registry with HTTP, lifecycle and runtime collectors
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_decisions_total",
			Help:      "Batch lifecycle decisions by actor role, action and outcome.",
		}, []string{"role", "action", "outcome"}),
	}
	r.reg.MustRegister(
		r.requests,
		r.latency,
		r.decisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records one finished HTTP request
func (r *Registry) ObserveRequest(method, route, status string, seconds float64) {
	r.requests.WithLabelValues(method, route, status).Inc()
	r.latency.WithLabelValues(method, route).Observe(seconds)
}

// ObserveDecision records one accept/reject attempt; outcome is "ok" or an error class
func (r *Registry) ObserveDecision(role, action, outcome string) {
	r.decisions.WithLabelValues(role, action, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
