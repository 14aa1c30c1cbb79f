// Package metrics provides prometheus instrumentation for the HTTP layer
// and the corpus scans.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	scanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pheddit",
			Name:      "scan_duration_seconds",
			Help:      "Full-corpus scan duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	corpusPosts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pheddit",
			Name:      "corpus_posts",
			Help:      "Number of posts in the loaded corpus",
		},
	)
)

func init() {
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(corpusPosts)
}

// ObserveScan records the duration of one corpus scan.
func ObserveScan(operation string, d time.Duration) {
	scanDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetCorpusSize records the loaded corpus size. Called once after load.
func SetCorpusSize(n int) {
	corpusPosts.Set(float64(n))
}
