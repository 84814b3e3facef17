package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "funnelbuilder"

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry      *prometheus.Registry
	verifications *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "initdata_verifications_total",
				Help:      "Launch payload verifications by outcome.",
			},
			[]string{"outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status class.",
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(
		m.verifications,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveVerification counts one gate decision; an empty outcome means authenticated.
func (m *Metrics) ObserveVerification(outcome string) {
	if outcome == "" {
		outcome = "authenticated"
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string) {
	m.requests.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
