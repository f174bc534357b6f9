package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hamming",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline recomputes by trigger.",
		},
		[]string{"code", "trigger"},
	)
	decodeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hamming",
			Subsystem: "pipeline",
			Name:      "decode_total",
			Help:      "Pipeline decode outcomes.",
		},
		[]string{"code", "outcome"},
	)
	codewordStatuses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hamming",
			Subsystem: "codec",
			Name:      "codewords_total",
			Help:      "Decoded codewords by SECDED status.",
		},
		[]string{"code", "status"},
	)
	injectedBits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hamming",
			Subsystem: "noise",
			Name:      "error_bits_total",
			Help:      "Bits set in freshly generated error masks.",
		},
		[]string{"code"},
	)
	maskBits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hamming",
			Subsystem: "noise",
			Name:      "mask_bits_total",
			Help:      "Bits covered by freshly generated error masks.",
		},
		[]string{"code"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pipelineRuns, decodeOutcomes, codewordStatuses, injectedBits, maskBits)
	})
}

func RecordPipelineRun(code, trigger, outcome string) {
	RegisterMetrics()
	pipelineRuns.WithLabelValues(code, trigger).Inc()
	decodeOutcomes.WithLabelValues(code, outcome).Inc()
}

func RecordCodewords(code, status string, n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	codewordStatuses.WithLabelValues(code, status).Add(float64(n))
}

func RecordMask(code string, totalBits, errorBits int) {
	RegisterMetrics()
	maskBits.WithLabelValues(code).Add(float64(totalBits))
	injectedBits.WithLabelValues(code).Add(float64(errorBits))
}
