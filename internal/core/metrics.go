package core

import (
	"github.com/prometheus/client_golang/prometheus"

	"target-resolver/internal/types"
)

const (
	metricsNamespace = "target_resolver"
	metricsSubsystem = "evaluator"
)

// EvaluatorMetrics holds prometheus metrics for pattern resolution. A nil
// *EvaluatorMetrics is valid and records nothing.
type EvaluatorMetrics struct {
	patterns      *prometheus.CounterVec
	cacheHits     prometheus.Counter
	batchSpecs    prometheus.Counter
	batchDuration *prometheus.HistogramVec
}

func NewEvaluatorMetrics() *EvaluatorMetrics {
	return &EvaluatorMetrics{
		patterns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "patterns_total",
				Help:      "Patterns classified, by disposition.",
			},
			[]string{"disposition"},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cache_hits_total",
				Help:      "Patterns answered from the resolution cache.",
			},
		),
		batchSpecs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "batch_specs_total",
				Help:      "Target-node specs sent to the universe resolver.",
			},
		),
		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "batch_duration_seconds",
				Help:      "Duration of batched universe resolution calls.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"result"},
		),
	}
}

// MustRegister registers the metrics with the given Prometheus registry.
func (m *EvaluatorMetrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.patterns)
	registry.MustRegister(m.cacheHits)
	registry.MustRegister(m.batchSpecs)
	registry.MustRegister(m.batchDuration)
}

func (m *EvaluatorMetrics) ObservePattern(disposition types.Disposition) {
	if m == nil {
		return
	}
	m.patterns.WithLabelValues(string(disposition)).Inc()
}

func (m *EvaluatorMetrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *EvaluatorMetrics) ObserveBatch(specs int, durationSeconds float64, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.batchSpecs.Add(float64(specs))
	m.batchDuration.WithLabelValues(result).Observe(durationSeconds)
}
