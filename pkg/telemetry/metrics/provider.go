package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"crednova/polaris/pkg/config"
)

// Prediction fetch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
)

// ProviderMetrics tracks the prediction providers.
//
// Metrics:
//   - polaris_model_predictions_total: fetches by model and outcome
//   - polaris_model_fetch_duration_seconds: fetch latency by model
type ProviderMetrics struct {
	predictionsTotal *prometheus.CounterVec

	fetchDuration *prometheus.HistogramVec
}

// NewProviderMetrics creates and registers provider metrics with the
// provided registry.
func NewProviderMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		predictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "model_predictions_total",
				Help:      "Model prediction fetches by outcome",
			},
			[]string{"model", "outcome"},
		),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "model_fetch_duration_seconds",
				Help:      "Model prediction fetch latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13), // 1ms to ~4s
			},
			[]string{"model"},
		),
	}

	registry.MustRegister(pm.predictionsTotal, pm.fetchDuration)

	return pm
}

// ObserveFetch records one model fetch.
func (m *ProviderMetrics) ObserveFetch(model, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.predictionsTotal.WithLabelValues(model, outcome).Inc()
	m.fetchDuration.WithLabelValues(model).Observe(duration.Seconds())
}
