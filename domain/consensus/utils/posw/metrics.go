package posw

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusProofsGenerated prometheus.Counter
	prometheusNoncesFound     prometheus.Counter
	prometheusRangesExhausted prometheus.Counter
	prometheusProofGeneration prometheus.Histogram
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusProofsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snarkpowd",
			Subsystem: "posw",
			Name:      "proofs_generated",
			Help:      "Number of proofs of succinct work generated while mining",
		},
	)
	prometheusNoncesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snarkpowd",
			Subsystem: "posw",
			Name:      "nonces_found",
			Help:      "Number of mining attempts that found a nonce satisfying the difficulty target",
		},
	)
	prometheusRangesExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snarkpowd",
			Subsystem: "posw",
			Name:      "ranges_exhausted",
			Help:      "Number of mining attempts that exhausted their nonce range",
		},
	)
	prometheusProofGeneration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "snarkpowd",
			Subsystem: "posw",
			Name:      "proof_generation_seconds",
			Help:      "Histogram of the time it takes to generate a single proof",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		},
	)
}
