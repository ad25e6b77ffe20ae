package risk

import (
	"log/slog"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
)

// Categorizer derives a risk tier from the consensus result. It is
// stateless apart from its immutable thresholds.
type Categorizer struct {
	cfg    config.RiskConfig
	logger *slog.Logger
}

// NewCategorizer creates a categorizer with the given probability bands.
func NewCategorizer(cfg config.RiskConfig, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Categorizer{
		cfg:    cfg,
		logger: logger.With("component", "decision.risk"),
	}
}

// Categorize maps the consensus probability to a tier:
//
//	[low_risk_threshold, 1.0] -> low
//	[high_risk_cutoff, low_risk_threshold) -> medium
//	[0, high_risk_cutoff) -> high
//
// The application is consulted only for the explanatory factor scores
// returned alongside the tier; the tier itself depends on the consensus
// probability alone.
func (c *Categorizer) Categorize(consensus decision.ConsensusResult, app decision.Application) (decision.RiskCategory, decision.RiskFactors) {
	p := consensus.ConsensusProbability

	var category decision.RiskCategory
	switch {
	case p >= c.cfg.LowRiskThreshold:
		category = decision.RiskLow
	case p >= c.cfg.HighRiskCutoff:
		category = decision.RiskMedium
	default:
		category = decision.RiskHigh
	}

	factors := Factors(app)

	c.logger.Debug("risk categorized",
		"probability", p,
		"category", category,
	)

	return category, factors
}
