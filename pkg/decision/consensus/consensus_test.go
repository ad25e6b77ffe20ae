package consensus

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/decision/risk"
)

func pred(name string, prob, weight float64) decision.ModelPrediction {
	return decision.ModelPrediction{
		ModelName:           name,
		ProbabilityApproved: prob,
		Weight:              weight,
	}
}

// TestCombine tests weighted aggregation, vote agreement, and dispersion.
func TestCombine(t *testing.T) {
	tests := []struct {
		name            string
		predictions     []decision.ModelPrediction
		wantProbability float64
		wantAgreement   bool
		wantDispersion  float64
	}{
		{
			name: "equal weights average",
			predictions: []decision.ModelPrediction{
				pred("a", 0.9, 1),
				pred("b", 0.85, 1),
				pred("c", 0.83, 1),
			},
			wantProbability: 0.86,
			wantAgreement:   true,
			wantDispersion:  0.07,
		},
		{
			name: "weights shift the consensus",
			predictions: []decision.ModelPrediction{
				pred("a", 0.9, 3),
				pred("b", 0.6, 1),
			},
			wantProbability: 0.825,
			wantAgreement:   true,
			wantDispersion:  0.3,
		},
		{
			name: "zero weight counts as one",
			predictions: []decision.ModelPrediction{
				pred("a", 0.8, 0),
				pred("b", 0.6, 0),
			},
			wantProbability: 0.7,
			wantAgreement:   true,
			wantDispersion:  0.2,
		},
		{
			name: "negative weight counts as one",
			predictions: []decision.ModelPrediction{
				pred("a", 1.0, -2),
				pred("b", 0.5, 1),
			},
			wantProbability: 0.75,
			wantAgreement:   true,
			wantDispersion:  0.5,
		},
		{
			name: "split votes break agreement",
			predictions: []decision.ModelPrediction{
				pred("a", 0.9, 1),
				pred("b", 0.2, 1),
			},
			wantProbability: 0.55,
			wantAgreement:   false,
			wantDispersion:  0.7,
		},
		{
			name: "agreed rejection",
			predictions: []decision.ModelPrediction{
				pred("a", 0.3, 1),
				pred("b", 0.32, 1),
			},
			wantProbability: 0.31,
			wantAgreement:   true,
			wantDispersion:  0.02,
		},
		{
			name: "single model",
			predictions: []decision.ModelPrediction{
				pred("a", 0.75, 1),
			},
			wantProbability: 0.75,
			wantAgreement:   true,
			wantDispersion:  0,
		},
	}

	engine := NewEngine(config.DefaultConfig().Engine.Consensus, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Combine(tt.predictions)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(result.ConsensusProbability-tt.wantProbability) > 1e-9 {
				t.Errorf("probability = %v, want %v", result.ConsensusProbability, tt.wantProbability)
			}
			if result.Agreement != tt.wantAgreement {
				t.Errorf("agreement = %v, want %v", result.Agreement, tt.wantAgreement)
			}
			if math.Abs(result.Dispersion-tt.wantDispersion) > 1e-9 {
				t.Errorf("dispersion = %v, want %v", result.Dispersion, tt.wantDispersion)
			}
			if result.ModelCount != len(tt.predictions) {
				t.Errorf("model count = %d, want %d", result.ModelCount, len(tt.predictions))
			}
		})
	}
}

// TestCombine_OrderIndependence tests that prediction order does not
// change the result.
func TestCombine_OrderIndependence(t *testing.T) {
	engine := NewEngine(config.DefaultConfig().Engine.Consensus, nil)

	forward := []decision.ModelPrediction{
		pred("a", 0.9, 2),
		pred("b", 0.7, 1),
		pred("c", 0.8, 3),
	}
	reversed := []decision.ModelPrediction{forward[2], forward[1], forward[0]}

	r1, err := engine.Combine(forward)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := engine.Combine(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Errorf("order changed result: %+v vs %+v", r1, r2)
	}
}

// TestCombine_Empty tests that an empty ensemble produces a typed error.
func TestCombine_Empty(t *testing.T) {
	engine := NewEngine(config.DefaultConfig().Engine.Consensus, nil)

	_, err := engine.Combine(nil)
	if err == nil {
		t.Fatal("expected error for empty predictions")
	}
	var insufficient *decision.InsufficientModelsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientModelsError, got %T", err)
	}
}

// TestDisagree tests the manual review gate over vote splits and
// dispersion.
func TestDisagree(t *testing.T) {
	tests := []struct {
		name   string
		result decision.ConsensusResult
		want   bool
	}{
		{
			name:   "aligned and tight",
			result: decision.ConsensusResult{Agreement: true, Dispersion: 0.1},
			want:   false,
		},
		{
			name:   "dispersion at threshold",
			result: decision.ConsensusResult{Agreement: true, Dispersion: 0.35},
			want:   false,
		},
		{
			name:   "dispersion above threshold",
			result: decision.ConsensusResult{Agreement: true, Dispersion: 0.36},
			want:   true,
		},
		{
			name:   "split votes despite tight spread",
			result: decision.ConsensusResult{Agreement: false, Dispersion: 0.05},
			want:   true,
		},
	}

	engine := NewEngine(config.DefaultConfig().Engine.Consensus, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Disagree(tt.result); got != tt.want {
				t.Errorf("Disagree() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCombine_Monotonicity tests that raising every model's probability by
// the same amount, weights held fixed, never lowers the consensus
// probability and never moves the risk category to a worse tier.
func TestCombine_Monotonicity(t *testing.T) {
	engine := NewEngine(config.DefaultConfig().Engine.Consensus, nil)
	categorizer := risk.NewCategorizer(config.DefaultConfig().Engine.Risk, nil)

	rank := map[decision.RiskCategory]int{
		decision.RiskHigh:   0,
		decision.RiskMedium: 1,
		decision.RiskLow:    2,
	}

	base := []float64{0.30, 0.42, 0.38}
	weights := []float64{2, 1, 1}

	prevProbability := -1.0
	prevRank := -1
	for step := 0; step <= 11; step++ {
		shift := 0.05 * float64(step)
		predictions := make([]decision.ModelPrediction, len(base))
		for i := range base {
			predictions[i] = pred(fmt.Sprintf("model-%d", i), base[i]+shift, weights[i])
		}

		result, err := engine.Combine(predictions)
		if err != nil {
			t.Fatalf("Combine() at shift %.2f: %v", shift, err)
		}
		if result.ConsensusProbability < prevProbability {
			t.Errorf("consensus fell from %.4f to %.4f at shift %.2f",
				prevProbability, result.ConsensusProbability, shift)
		}

		category, _ := categorizer.Categorize(result, decision.Application{})
		if rank[category] < prevRank {
			t.Errorf("risk category worsened to %q at shift %.2f", category, shift)
		}

		prevProbability = result.ConsensusProbability
		prevRank = rank[category]
	}
}
