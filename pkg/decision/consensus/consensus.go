package consensus

import (
	"log/slog"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
)

// Engine combines an ensemble's predictions into a ConsensusResult.
// It is stateless apart from its immutable policy; a single Engine can
// serve concurrent decisions.
type Engine struct {
	cfg    config.ConsensusConfig
	logger *slog.Logger
}

// NewEngine creates a consensus engine with the given aggregation policy.
func NewEngine(cfg config.ConsensusConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With("component", "decision.consensus"),
	}
}

// Combine computes the weighted consensus over the given predictions.
// Prediction order is irrelevant. Zero or negative weights count as 1.0
// (equal voting). An empty input returns *decision.InsufficientModelsError.
func (e *Engine) Combine(predictions []decision.ModelPrediction) (decision.ConsensusResult, error) {
	if len(predictions) == 0 {
		return decision.ConsensusResult{}, &decision.InsufficientModelsError{Required: 1}
	}

	var (
		weightedSum float64
		totalWeight float64
		minProb     = predictions[0].ProbabilityApproved
		maxProb     = predictions[0].ProbabilityApproved
		firstVote   = e.vote(predictions[0])
		agreement   = true
	)

	for _, p := range predictions {
		w := p.Weight
		if w <= 0 {
			w = 1.0
		}
		weightedSum += p.ProbabilityApproved * w
		totalWeight += w

		if p.ProbabilityApproved < minProb {
			minProb = p.ProbabilityApproved
		}
		if p.ProbabilityApproved > maxProb {
			maxProb = p.ProbabilityApproved
		}
		if e.vote(p) != firstVote {
			agreement = false
		}
	}

	result := decision.ConsensusResult{
		ConsensusProbability: weightedSum / totalWeight,
		Agreement:            agreement,
		Dispersion:           maxProb - minProb,
		ModelCount:           len(predictions),
	}

	e.logger.Debug("consensus computed",
		"models", result.ModelCount,
		"probability", result.ConsensusProbability,
		"agreement", result.Agreement,
		"dispersion", result.Dispersion,
	)

	return result, nil
}

// Disagree reports whether the ensemble's spread requires manual review:
// either the binary votes split, or the dispersion exceeds the configured
// threshold. Disagreement is a hard gate independent of the consensus
// probability's magnitude.
func (e *Engine) Disagree(result decision.ConsensusResult) bool {
	return !result.Agreement || result.Dispersion > e.cfg.DisagreementThreshold
}

// vote is a model's binary approve/reject position.
func (e *Engine) vote(p decision.ModelPrediction) bool {
	return p.ProbabilityApproved >= e.cfg.VoteThreshold
}
