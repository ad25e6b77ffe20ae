package predictions

import (
	"context"

	"crednova/polaris/pkg/decision"
)

// Static is a Provider that returns a fixed set of predictions regardless
// of the application. It serves tests and the one-shot CLI path.
type Static struct {
	Predictions []decision.ModelPrediction
}

// NewStatic creates a fixed-output provider.
func NewStatic(preds ...decision.ModelPrediction) *Static {
	return &Static{Predictions: preds}
}

// FetchPredictions returns a copy of the configured predictions.
func (s *Static) FetchPredictions(_ context.Context, _ decision.Application) ([]decision.ModelPrediction, error) {
	out := make([]decision.ModelPrediction, len(s.Predictions))
	copy(out, s.Predictions)
	return out, nil
}

// Degraded is a Provider that always returns an empty prediction set,
// simulating a model-serving outage.
type Degraded struct{}

// FetchPredictions returns no predictions.
func (Degraded) FetchPredictions(_ context.Context, _ decision.Application) ([]decision.ModelPrediction, error) {
	return nil, nil
}
