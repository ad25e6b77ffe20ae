package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"crednova/polaris/pkg/config"
)

// DecisionMetrics tracks the decision pipeline.
//
// Metrics:
//   - polaris_decisions_total: decisions by status and risk category
//   - polaris_decision_duration_seconds: end-to-end decision latency
//   - polaris_stage_duration_seconds: per-stage latency
//   - polaris_rule_rejections_total: rule-gate rejections
type DecisionMetrics struct {
	decisionsTotal *prometheus.CounterVec

	decisionDuration prometheus.Histogram

	stageDuration *prometheus.HistogramVec

	ruleRejections prometheus.Counter
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_total",
				Help:      "Total number of loan decisions",
			},
			[]string{"status", "risk_category"},
		),

		decisionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_duration_seconds",
				Help:      "End-to-end decision latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs to ~3.3s
			},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "stage_duration_seconds",
				Help:      "Per-stage decision latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16), // 10µs to ~0.33s
			},
			[]string{"stage"},
		),

		ruleRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_rejections_total",
				Help:      "Applications rejected by the eligibility rule gate",
			},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.decisionDuration,
		dm.stageDuration,
		dm.ruleRejections,
	)

	return dm
}

// ObserveDecision records a completed decision.
func (m *DecisionMetrics) ObserveDecision(status, riskCategory string, duration time.Duration) {
	if m == nil {
		return
	}
	if riskCategory == "" {
		riskCategory = "none"
	}
	m.decisionsTotal.WithLabelValues(status, riskCategory).Inc()
	m.decisionDuration.Observe(duration.Seconds())
}

// ObserveStage records one pipeline stage's latency.
func (m *DecisionMetrics) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// ObserveRuleRejection records a rule-gate rejection.
func (m *DecisionMetrics) ObserveRuleRejection() {
	if m == nil {
		return
	}
	m.ruleRejections.Inc()
}
