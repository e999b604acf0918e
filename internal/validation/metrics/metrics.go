// Package metrics provides observability for the validation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus instruments. All methods tolerate a
// nil receiver so the engine can run without metrics wired (library use,
// tests).
type Metrics struct {
	RunsTotal       prometheus.Counter
	FindingsTotal   *prometheus.CounterVec
	LayerPanics     *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	BatchSize       prometheus.Histogram
	OverallScore    prometheus.Histogram
}

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shelfcheck_validation_runs_total",
			Help: "Total number of validation engine invocations",
		}),
		FindingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfcheck_validation_findings_total",
			Help: "Total findings emitted by layer and severity",
		}, []string{"layer", "severity"}),
		LayerPanics: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfcheck_validation_layer_panics_total",
			Help: "Layer passes recovered from an internal panic",
		}, []string{"layer"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelfcheck_validation_run_duration_seconds",
			Help:    "Duration of a full engine run including aggregation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelfcheck_validation_batch_size_records",
			Help:    "Number of records per validation run",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		OverallScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelfcheck_validation_overall_score",
			Help:    "Overall health score per run",
			Buckets: []float64{0, 25, 50, 60, 70, 80, 90, 95, 99, 100},
		}),
	}
}

// ObserveRun records one completed engine invocation.
func (m *Metrics) ObserveRun(batchSize int, overallScore float64, d time.Duration) {
	if m != nil {
		m.RunsTotal.Inc()
		m.BatchSize.Observe(float64(batchSize))
		m.OverallScore.Observe(overallScore)
		m.RunDuration.Observe(d.Seconds())
	}
}

// IncrementFinding counts one emitted finding.
func (m *Metrics) IncrementFinding(layer, severity string) {
	if m != nil {
		m.FindingsTotal.WithLabelValues(layer, severity).Inc()
	}
}

// IncrementLayerPanic counts a recovered layer pass.
func (m *Metrics) IncrementLayerPanic(layer string) {
	if m != nil {
		m.LayerPanics.WithLabelValues(layer).Inc()
	}
}
