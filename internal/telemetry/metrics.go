// Package telemetry collects per-run Prometheus metrics and writes them in the
// node_exporter textfile format.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	filesAnalysed  *prometheus.CounterVec
	extractSeconds *prometheus.HistogramVec
	invalidDirs    prometheus.Counter
	issues         *prometheus.GaugeVec
	runSeconds     prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		filesAnalysed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "depsweep_files_analysed_total",
			Help: "Number of (file, parser) extractions, by parser and outcome.",
		}, []string{"parser", "outcome"}),
		extractSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "depsweep_extraction_seconds",
			Help:    "Time spent reading, parsing and scanning one file with one parser.",
			Buckets: prometheus.DefBuckets,
		}, []string{"parser"}),
		invalidDirs: factory.NewCounter(prometheus.CounterOpts{
			Name: "depsweep_invalid_directories_total",
			Help: "Number of directories that could not be listed.",
		}),
		issues: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "depsweep_dependencies",
			Help: "Dependencies in the final report, by category.",
		}, []string{"category"}),
		runSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "depsweep_run_seconds",
			Help: "Wall time of the last check.",
		}),
	}
}

func (m *Metrics) ObserveExtraction(parser, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.filesAnalysed.WithLabelValues(parser, outcome).Inc()
	m.extractSeconds.WithLabelValues(parser).Observe(elapsed.Seconds())
}

func (m *Metrics) InvalidDirectory() {
	if m == nil {
		return
	}
	m.invalidDirs.Inc()
}

// RecordDependencies sets the gauge for one report category such as
// "unused", "unused_dev", "missing" or "used".
func (m *Metrics) RecordDependencies(category string, count int) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(category).Set(float64(count))
}

func (m *Metrics) ObserveRun(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runSeconds.Set(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile atomically writes every collected metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
