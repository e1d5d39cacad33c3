package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/policy-compare/internal/model"
)

// Metrics exports pipeline measurements to Prometheus. It satisfies
// pipeline.Recorder.
type Metrics struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	rows     prometheus.Counter
	unmapped *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the policy metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_files_processed_total",
			Help: "Illustration files processed, by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "policy_rows_normalized_total",
			Help: "Data rows normalized into the canonical table.",
		}),
		unmapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_unmapped_fields_total",
			Help: "Canonical fields that matched no header and fell back to their key.",
		}, []string{"field"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "policy_processing_seconds",
			Help:    "Time to decode and normalize one file.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.files, m.rows, m.unmapped, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// FileProcessed counts a finished file.
func (m *Metrics) FileProcessed(outcome string, elapsed time.Duration) {
	m.files.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// RowsNormalized adds n normalized rows.
func (m *Metrics) RowsNormalized(n int) {
	m.rows.Add(float64(n))
}

// FieldUnmapped counts a literal-key fallback.
func (m *Metrics) FieldUnmapped(f model.Field) {
	m.unmapped.WithLabelValues(string(f)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
