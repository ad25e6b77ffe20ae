package predictions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
)

// predictionResponse is the wire format answered by a model-serving
// endpoint.
type predictionResponse struct {
	ProbabilityApproved float64 `json:"probability_approved"`
}

// ModelClient fetches predictions for a single model-serving endpoint.
// The application is POSTed as JSON; the endpoint answers with the model's
// approval probability.
type ModelClient struct {
	endpoint config.ModelEndpoint
	client   *http.Client
}

// NewModelClient creates a client for one model endpoint. The HTTP client
// pools connections; the per-request deadline comes from the caller's
// context, not a client-level timeout, so the ensemble stays in control.
func NewModelClient(endpoint config.ModelEndpoint) *ModelClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &ModelClient{
		endpoint: endpoint,
		client:   &http.Client{Transport: transport},
	}
}

// Name returns the configured model name.
func (c *ModelClient) Name() string {
	return c.endpoint.Name
}

// Fetch requests this model's prediction for the application.
func (c *ModelClient) Fetch(ctx context.Context, app decision.Application) (decision.ModelPrediction, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return decision.ModelPrediction{}, &ModelFetchError{Model: c.endpoint.Name, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return decision.ModelPrediction{}, &ModelFetchError{Model: c.endpoint.Name, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decision.ModelPrediction{}, &ModelFetchError{Model: c.endpoint.Name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return decision.ModelPrediction{}, &ModelFetchError{
			Model: c.endpoint.Name,
			Cause: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var parsed predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return decision.ModelPrediction{}, &ModelFetchError{Model: c.endpoint.Name, Cause: err}
	}

	if parsed.ProbabilityApproved < 0 || parsed.ProbabilityApproved > 1 {
		return decision.ModelPrediction{}, &ModelResponseError{
			Model:  c.endpoint.Name,
			Detail: fmt.Sprintf("probability %.4f outside [0, 1]", parsed.ProbabilityApproved),
		}
	}

	return decision.ModelPrediction{
		ModelName:           c.endpoint.Name,
		ProbabilityApproved: parsed.ProbabilityApproved,
		Weight:              c.endpoint.Weight,
	}, nil
}

// CloseIdleConnections releases pooled connections.
func (c *ModelClient) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}
