package ioweb

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsWeb holds Prometheus metrics of the HTTP API.
type metricsWeb struct {
	once sync.Once

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

var webMetrics metricsWeb

func (m *metricsWeb) init() {
	m.once.Do(func() {
		m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gndocs_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})

		m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gndocs_http_request_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		m.inflight = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gndocs_http_inflight_requests",
			Help: "HTTP requests being served",
		})

		prometheus.MustRegister(m.requests, m.duration, m.inflight)
	})
}

func recordRequest(method, route, status string, seconds float64) {
	webMetrics.init()
	webMetrics.requests.WithLabelValues(method, route, status).Inc()
	webMetrics.duration.WithLabelValues(method, route).Observe(seconds)
}
