package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	Invalidations    *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_upstream_requests_total",
		Help: "Upstream API requests by surface, method and status code.",
	}, []string{"surface", "method", "code"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_upstream_request_seconds",
		Help:    "Upstream API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"surface"})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_invalidations_total",
		Help: "Published cache tag invalidations.",
	}, []string{"tag"})

	r.MustRegister(requests, latency, invalidations)
	return &Registry{
		reg:              r,
		UpstreamRequests: requests,
		UpstreamLatency:  latency,
		Invalidations:    invalidations,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
