// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_decisions_total",
			Help: "Total number of credit decisions by recommendation band",
		},
		[]string{"recommendation"},
	)

	DecisionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_decision_normalized_score",
			Help:    "Distribution of normalized decision scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	BureauFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bureau_fetches_total",
			Help: "Bureau report fetches by outcome",
		},
		[]string{"outcome"}, // hit, miss, error
	)
)

// RecordJobSuccess counts a completed job and observes its duration.
func RecordJobSuccess(taskType string, duration time.Duration) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}

// RecordJobFailure counts a failed job and observes its duration.
func RecordJobFailure(taskType string, duration time.Duration) {
	WorkerJobsFailed.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}
