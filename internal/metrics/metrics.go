// Package metrics owns the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the HTTP and domain collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	Uploads      *prometheus.CounterVec
	Reports      *prometheus.CounterVec
	Explanations *prometheus.CounterVec
	PurgedFiles  prometheus.Counter
}

// New creates and registers every collector, plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockpulse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stockpulse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockpulse",
			Name:      "uploads_total",
			Help:      "Upload attempts by result.",
		}, []string{"result"}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockpulse",
			Name:      "reports_total",
			Help:      "Report generations by result.",
		}, []string{"result"}),
		Explanations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockpulse",
			Name:      "explanations_total",
			Help:      "Explanation requests by depth and result.",
		}, []string{"depth", "result"}),
		PurgedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockpulse",
			Name:      "purged_uploads_total",
			Help:      "Uploads removed by the retention janitor.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPLatency,
		m.Uploads,
		m.Reports,
		m.Explanations,
		m.PurgedFiles,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
