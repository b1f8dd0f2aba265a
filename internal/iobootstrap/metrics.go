package iobootstrap

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a bootstrap attempt used as the "outcome" label.
const (
	outcomeInitialized = "initialized"
	outcomeSkipped     = "skipped"
	outcomeFailed      = "failed"
)

// metricsBootstrap holds Prometheus metrics of startup initialization.
type metricsBootstrap struct {
	once sync.Once

	attempts     *prometheus.CounterVec
	filesLoaded  prometheus.Counter
	filesSkipped prometheus.Counter
	duration     prometheus.Histogram
}

var bsMetrics metricsBootstrap

func (m *metricsBootstrap) init() {
	m.once.Do(func() {
		m.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gndocs_bootstrap_attempts_total",
			Help: "Bootstrap attempts by outcome",
		}, []string{"outcome"})
		m.filesLoaded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gndocs_bootstrap_files_loaded_total",
			Help: "Corpus files upserted as documents",
		})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gndocs_bootstrap_files_skipped_total",
			Help: "Corpus files skipped as unreadable or not UTF-8",
		})

		buckets := []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
		m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gndocs_bootstrap_seconds",
			Help:    "Duration of bootstrap attempts",
			Buckets: buckets,
		})

		prometheus.MustRegister(
			m.attempts, m.filesLoaded, m.filesSkipped, m.duration,
		)
	})
}

func recordAttempt(outcome string, seconds float64) {
	bsMetrics.init()
	bsMetrics.attempts.WithLabelValues(outcome).Inc()
	bsMetrics.duration.Observe(seconds)
}

func recordCorpus(loaded, skipped int) {
	bsMetrics.init()
	bsMetrics.filesLoaded.Add(float64(loaded))
	bsMetrics.filesSkipped.Add(float64(skipped))
}
