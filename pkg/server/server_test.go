package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/decision/engine"
	"crednova/polaris/pkg/predictions"
	"crednova/polaris/pkg/storage"
	"crednova/polaris/pkg/telemetry/health"
)

func newTestServer(t *testing.T, provider predictions.Provider) (*Server, storage.Store) {
	t.Helper()

	orch, err := engine.New(config.DefaultConfig().Engine, provider, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	store := storage.NewMemoryStore()
	srv := New(config.DefaultConfig().Server, orch, store, health.New(0), nil, nil)
	return srv, store
}

func alignedProvider() predictions.Provider {
	return predictions.NewStatic(
		decision.ModelPrediction{ModelName: "a", ProbabilityApproved: 0.9, Weight: 1},
		decision.ModelPrediction{ModelName: "b", ProbabilityApproved: 0.85, Weight: 1},
		decision.ModelPrediction{ModelName: "c", ProbabilityApproved: 0.83, Weight: 1},
	)
}

func applicationJSON() []byte {
	body, _ := json.Marshal(decision.Application{
		Age:             35,
		AnnualSalary:    75000,
		CreditScore:     720,
		LoanAmount:      250000,
		ExistingLoans:   1,
		MonthlyIncome:   6250,
		EmploymentYears: 8,
	})
	return body
}

// TestCreateDecision tests the POST endpoint end to end: pipeline run,
// persistence, and response shape.
func TestCreateDecision(t *testing.T) {
	srv, store := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", bytes.NewReader(applicationJSON()))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID header")
	}

	var body struct {
		ID       string             `json:"id"`
		Decision *decision.Decision `json:"decision"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Decision == nil || body.Decision.Status != decision.StatusApproved {
		t.Errorf("decision = %+v, want approved", body.Decision)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("stored records = %d, want 1", count)
	}
}

// TestCreateDecision_InvalidBody tests malformed and unknown-field
// payloads.
func TestCreateDecision_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	for _, tt := range []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"unknown field", `{"age": 35, "favorite_color": "blue"}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

// TestCreateDecision_ValidationFailure tests that field violations come
// back as 422 with the offending fields listed.
func TestCreateDecision_ValidationFailure(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body := `{"age": -1, "annual_salary": 50000, "credit_score": 900, "loan_amount": 10000, "existing_loans": 0, "monthly_income": 4000, "employment_years": 2}`
	resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var errBody struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(errBody.Fields) < 2 {
		t.Errorf("fields = %v, want at least age and credit_score", errBody.Fields)
	}
}

// TestGetDecision tests retrieval by ID and the not-found path.
func TestGetDecision(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", bytes.NewReader(applicationJSON()))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	t.Run("existing", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/decisions/" + created.ID)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("missing", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/decisions/00000000-0000-0000-0000-000000000000")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/decisions/not-a-uuid")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

// TestListDecisions tests the list endpoint with a status filter.
func TestListDecisions(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", bytes.NewReader(applicationJSON()))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/v1/decisions?status=approved&limit=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 {
		t.Errorf("count = %d, want 2 (limit applied)", body.Count)
	}

	t.Run("bad status filter", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/decisions?status=maybe")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

// TestHealthEndpoints tests liveness and readiness probes.
func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", resp.StatusCode)
	}
}

// TestSwapEngine tests that a swapped engine serves subsequent requests.
func TestSwapEngine(t *testing.T) {
	srv, _ := newTestServer(t, alignedProvider())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	// Swap in an engine whose models are down; the same application now
	// routes to manual review.
	degraded, err := engine.New(config.DefaultConfig().Engine, predictions.Degraded{}, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	srv.SwapEngine(degraded)

	resp, err := http.Post(ts.URL+"/api/v1/decisions", "application/json", bytes.NewReader(applicationJSON()))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Decision *decision.Decision `json:"decision"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Decision == nil || body.Decision.Status != decision.StatusManualReview {
		t.Errorf("decision = %+v, want manual_review after swap", body.Decision)
	}
}
