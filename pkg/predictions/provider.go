package predictions

import (
	"context"

	"crednova/polaris/pkg/decision"
)

// Provider fetches model predictions for an application.
//
// Implementations must respect context cancellation and return promptly
// when the context is done. A nil error with an empty slice is a valid
// result meaning no model produced a prediction; callers decide how to
// degrade. Returned predictions carry unique model names.
type Provider interface {
	// FetchPredictions returns the ensemble's predictions for the
	// application. Partial results are expected when individual models
	// time out or fail.
	FetchPredictions(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error)

// FetchPredictions calls f.
func (f ProviderFunc) FetchPredictions(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error) {
	return f(ctx, app)
}
