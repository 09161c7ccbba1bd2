// Package monitoring exposes Prometheus metrics for the extraction engine.
// The collector is optional: a nil *Metrics is safe to call everywhere, so
// library users and tests can omit it.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	embeddingBatches prometheus.Counter
	generationCalls  *prometheus.CounterVec
	parseFailures    prometheus.Counter
	itemsExtracted   *prometheus.CounterVec
	runDuration      prometheus.Histogram
}

// New creates and registers the engine metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		embeddingBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "embedding_batches_total",
			Help:      "Total embedding batch requests issued",
		}),
		generationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "generation_calls_total",
			Help:      "Total generative model calls by category and status",
		}, []string{"category", "status"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "generation_parse_failures_total",
			Help:      "Generative responses unparsable after all repair attempts",
		}),
		itemsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intel",
			Name:      "items_extracted_total",
			Help:      "Pre-aggregation items extracted by strategy",
		}, []string{"strategy"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intel",
			Name:      "run_duration_seconds",
			Help:      "End-to-end extraction run duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
	reg.MustRegister(m.embeddingBatches, m.generationCalls, m.parseFailures, m.itemsExtracted, m.runDuration)
	return m
}

// IncEmbeddingBatch counts one embedding batch request.
func (m *Metrics) IncEmbeddingBatch() {
	if m == nil {
		return
	}
	m.embeddingBatches.Inc()
}

// IncGeneration counts one generative call outcome.
func (m *Metrics) IncGeneration(category, status string) {
	if m == nil {
		return
	}
	m.generationCalls.WithLabelValues(category, status).Inc()
}

// IncParseFailure counts one unparsable generative response.
func (m *Metrics) IncParseFailure() {
	if m == nil {
		return
	}
	m.parseFailures.Inc()
}

// AddItems counts pre-aggregation items produced by a strategy.
func (m *Metrics) AddItems(strategy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsExtracted.WithLabelValues(strategy).Add(float64(n))
}

// ObserveRun records one completed run's duration.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}
