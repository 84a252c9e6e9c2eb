package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResumesScreened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_screener_resumes_screened_total",
			Help: "Total number of resumes screened, by outcome",
		},
		[]string{"role_category", "seniority_level", "decision"},
	)

	BatchesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_screener_batches_total",
			Help: "Total number of screening batches processed",
		},
	)

	JudgeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_screener_judge_duration_seconds",
			Help:    "Latency of judge model calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	ExtractionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_screener_extraction_fallbacks_total",
			Help: "Number of times text extraction fell back to a secondary strategy",
		},
		[]string{"format", "strategy"},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_screener_extraction_failures_total",
			Help: "Number of documents whose text could not be extracted",
		},
		[]string{"format"},
	)
)
