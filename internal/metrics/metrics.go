// Package metrics holds the Prometheus collectors for batch operations.
//
// Collectors are registered with the default registry via promauto. The
// HTTP server exposes them on /metrics; CLI runs can dump them to a
// node_exporter textfile with WriteTextfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docbatch_operations_total",
			Help: "Total number of batch operations run",
		},
		[]string{"operation", "status"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docbatch_operation_duration_seconds",
			Help:    "Batch operation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	FilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docbatch_files_total",
			Help: "Files handled by batch operations, by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Outcome counts for one operation run.
type Outcome struct {
	Outputs int
	Skipped int
	Failed  int
}

// RecordOperation records one finished operation. kind is the error
// taxonomy name, empty on success.
func RecordOperation(op, kind string, elapsed time.Duration, o Outcome) {
	status := "ok"
	if kind != "" {
		status = kind
	}
	OperationsTotal.WithLabelValues(op, status).Inc()
	OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	FilesTotal.WithLabelValues(op, "output").Add(float64(o.Outputs))
	FilesTotal.WithLabelValues(op, "skipped").Add(float64(o.Skipped))
	FilesTotal.WithLabelValues(op, "failed").Add(float64(o.Failed))
}

// WriteTextfile writes every metric in the default gatherer to path in
// the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
