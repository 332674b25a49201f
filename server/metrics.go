package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts API traffic per route and status class.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	return &Metrics{
		registry: registry,
		requests: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "padi_api_requests_total",
				Help: "API requests by route and HTTP status",
			},
			[]string{"route", "status"},
		),
	}
}

func (m *Metrics) observe(route, status string) {
	m.requests.WithLabelValues(route, status).Inc()
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
