package predictions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/telemetry/metrics"
)

// Ensemble fans a prediction request out to every configured model
// endpoint concurrently and collects whatever answers arrive within the
// per-model timeout. Models that time out or fail are dropped from the
// result; the ensemble itself never fails a request. Fewer voters simply
// means a thinner consensus downstream.
type Ensemble struct {
	clients []*ModelClient
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.ProviderMetrics
}

// NewEnsemble creates an ensemble over the configured model endpoints.
// metrics may be nil.
func NewEnsemble(cfg config.ModelsConfig, logger *slog.Logger, pm *metrics.ProviderMetrics) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}

	clients := make([]*ModelClient, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		clients = append(clients, NewModelClient(ep))
	}

	return &Ensemble{
		clients: clients,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "predictions.ensemble"),
		metrics: pm,
	}
}

// FetchPredictions queries all models concurrently and returns the subset
// that answered in time. The returned error is non-nil only when the
// parent context is cancelled before any fetch completes.
func (e *Ensemble) FetchPredictions(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error) {
	if len(e.clients) == 0 {
		return nil, nil
	}

	type fetchResult struct {
		prediction decision.ModelPrediction
		err        error
		model      string
		elapsed    time.Duration
	}

	results := make(chan fetchResult, len(e.clients))

	for _, client := range e.clients {
		go func(c *ModelClient) {
			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			start := time.Now()
			pred, err := c.Fetch(fetchCtx, app)
			results <- fetchResult{
				prediction: pred,
				err:        err,
				model:      c.Name(),
				elapsed:    time.Since(start),
			}
		}(client)
	}

	var predictions []decision.ModelPrediction
	for range e.clients {
		select {
		case <-ctx.Done():
			return predictions, ctx.Err()
		case r := <-results:
			if r.err != nil {
				outcome := metrics.OutcomeError
				if errors.Is(r.err, context.DeadlineExceeded) {
					outcome = metrics.OutcomeTimeout
				}
				e.metrics.ObserveFetch(r.model, outcome, r.elapsed)
				e.logger.Warn("dropping model from ensemble",
					"model", r.model,
					"outcome", outcome,
					"error", r.err,
				)
				continue
			}
			e.metrics.ObserveFetch(r.model, metrics.OutcomeOK, r.elapsed)
			predictions = append(predictions, r.prediction)
		}
	}

	return predictions, nil
}

// Close releases pooled connections on every model client.
func (e *Ensemble) Close() {
	for _, c := range e.clients {
		c.CloseIdleConnections()
	}
}
