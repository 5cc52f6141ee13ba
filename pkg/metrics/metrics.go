// Package metrics provides Prometheus instrumentation for dataset
// conversion and file I/O.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined metrics for conversion and file operations
//   - Thread-safe metric recording
//   - Automatic metric registration
//
// # Basic Usage
//
//	// Record encoded records
//	metrics.RecordsEncoded.WithLabelValues("input", "node").Add(float64(n))
//
//	// Track import latency
//	timer := metrics.NewTimer("import")
//	ds, err := io.ImportInput(path)
//	metrics.ConversionDuration.WithLabelValues("import").Observe(timer.Stop().Seconds())
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total records encoded)
// Histogram: Distribution of values (e.g., conversion latency)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsEncoded counts records stored into columnar arrays.
	// Labels: data_type (input/update/sym_output/asym_output), component
	//
	// Example:
	//	metrics.RecordsEncoded.WithLabelValues("input", "node").Add(128)
	RecordsEncoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_records_encoded_total",
			Help: "Total number of records encoded into columnar form",
		},
		[]string{"data_type", "component"},
	)

	// RecordsDecoded counts records converted back to record form.
	// Labels: component
	RecordsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_records_decoded_total",
			Help: "Total number of records decoded from columnar form",
		},
		[]string{"component"},
	)

	// ComponentsPacked counts per-component packing decisions.
	// Labels: form (dense/sparse)
	ComponentsPacked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_components_packed_total",
			Help: "Total number of components packed into batch form",
		},
		[]string{"form"},
	)

	// FilesImported counts dataset files read.
	// Labels: data_type, status (success/error)
	FilesImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_files_imported_total",
			Help: "Total number of dataset files imported",
		},
		[]string{"data_type", "status"},
	)

	// FilesExported counts dataset files written.
	// Labels: status (success/error)
	FilesExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_files_exported_total",
			Help: "Total number of dataset files exported",
		},
		[]string{"status"},
	)

	// ConversionErrors counts failed import and export calls by structured
	// error type. Labels: type
	ConversionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgm_errors_total",
			Help: "Total number of conversion and file errors by error type",
		},
		[]string{"type"},
	)

	// ConversionDuration tracks the distribution of operation durations.
	// The buckets are tuned for in-memory transforms that occasionally
	// touch disk. Labels: operation (encode/decode/pack/import/export)
	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pgm_conversion_duration_seconds",
			Help: "Duration of conversion operations in seconds",
			Buckets: []float64{
				1e-6, // 1µs - single-record sets
				1e-5, // 10µs
				1e-4, // 100µs
				1e-3, // 1ms - typical grids
				1e-2, // 10ms
				1e-1, // 100ms - large batches
				1,    // 1s
				10,   // 10s - pathological files
			},
		},
		[]string{"operation"},
	)

	// FileBytes tracks the size of files moved through import and export,
	// before compression. Labels: direction (read/write)
	FileBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pgm_file_bytes",
			Help:    "Uncompressed size of imported and exported files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"direction"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration since creation.
// The timer can be stopped multiple times, each returning the total
// elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
