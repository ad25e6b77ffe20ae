package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/decision/consensus"
	"crednova/polaris/pkg/decision/risk"
	"crednova/polaris/pkg/decision/rules"
	"crednova/polaris/pkg/decision/terms"
	"crednova/polaris/pkg/predictions"
	"crednova/polaris/pkg/telemetry/metrics"
)

// ReasonModelsUnavailable is the reason attached to decisions that fall
// back to manual review because no model predictions could be obtained.
const ReasonModelsUnavailable = "ML evaluation unavailable; rule checks passed"

// Orchestrator runs an application through the full decision pipeline.
// It is safe for concurrent use.
type Orchestrator struct {
	rules     *rules.Engine
	consensus *consensus.Engine
	risk      *risk.Categorizer
	terms     *terms.Calculator

	provider predictions.Provider

	logger  *slog.Logger
	metrics *metrics.DecisionMetrics
	tracer  trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics attaches decision metrics. A nil metrics value disables
// instrumentation.
func WithMetrics(m *metrics.DecisionMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer overrides the tracer used for pipeline spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// New creates an Orchestrator from the engine configuration and a
// prediction provider.
func New(cfg config.EngineConfig, provider predictions.Provider, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, fmt.Errorf("prediction provider cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		rules:     rules.NewEngine(cfg.Rules, logger),
		consensus: consensus.NewEngine(cfg.Consensus, logger),
		risk:      risk.NewCategorizer(cfg.Risk, logger),
		terms:     terms.NewCalculator(cfg, logger),
		provider:  provider,
		logger:    logger.With(slog.String("component", "orchestrator")),
		tracer:    otel.Tracer("crednova/polaris/pkg/decision/engine"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Decide evaluates an application and returns the terminal decision.
// The returned error is non-nil only when the context is cancelled;
// every business outcome, including degraded-mode fallbacks, is encoded
// in the Decision itself.
func (o *Orchestrator) Decide(ctx context.Context, app decision.Application) (*decision.Decision, error) {
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "decision.decide")
	defer span.End()

	d, err := o.decide(ctx, app)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.String("decision.status", string(d.Status)),
		attribute.String("decision.risk_category", string(d.RiskCategory)),
	)
	o.metrics.ObserveDecision(string(d.Status), string(d.RiskCategory), elapsed)
	o.logger.InfoContext(ctx, "decision complete",
		slog.String("status", string(d.Status)),
		slog.String("risk_category", string(d.RiskCategory)),
		slog.String("reason", d.Reason),
		slog.Duration("elapsed", elapsed),
	)
	return d, nil
}

func (o *Orchestrator) decide(ctx context.Context, app decision.Application) (*decision.Decision, error) {
	verdict := o.evaluateRules(ctx, app)
	if !verdict.Passed {
		o.metrics.ObserveRuleRejection()
		return &decision.Decision{
			Status:  decision.StatusRejected,
			Reason:  strings.Join(verdict.Reasons, "; "),
			Verdict: verdict,
		}, nil
	}

	preds, err := o.fetchPredictions(ctx, app)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		preds = nil
	}

	result, err := o.combine(ctx, preds)
	if err != nil {
		var insufficient *decision.InsufficientModelsError
		if !errors.As(err, &insufficient) {
			return nil, err
		}
		o.logger.WarnContext(ctx, "no model predictions available, falling back to manual review")
		return &decision.Decision{
			Status:  decision.StatusManualReview,
			Reason:  ReasonModelsUnavailable,
			Verdict: verdict,
		}, nil
	}

	if o.consensus.Disagree(result) {
		reason := fmt.Sprintf("models disagree (dispersion %.2f across %d models); manual review required",
			result.Dispersion, result.ModelCount)
		if !result.Agreement {
			reason = fmt.Sprintf("model votes are split across %d models; manual review required", result.ModelCount)
		}
		return &decision.Decision{
			Status:    decision.StatusManualReview,
			Reason:    reason,
			Verdict:   verdict,
			Consensus: &result,
		}, nil
	}

	category, factors := o.categorize(ctx, result, app)

	loanTerms, err := o.calculate(ctx, category, result, app)
	if err != nil {
		var unaffordable *decision.TermsUnaffordableError
		if !errors.As(err, &unaffordable) {
			return nil, err
		}
		return &decision.Decision{
			Status:       decision.StatusManualReview,
			RiskCategory: category,
			Reason:       fmt.Sprintf("no affordable terms found: %s", unaffordable.Error()),
			Verdict:      verdict,
			Consensus:    &result,
			Factors:      &factors,
		}, nil
	}

	return &decision.Decision{
		Status:       decision.StatusApproved,
		RiskCategory: category,
		Reason:       fmt.Sprintf("approved at %s risk with consensus %.2f", category, result.ConsensusProbability),
		Terms:        &loanTerms,
		Verdict:      verdict,
		Consensus:    &result,
		Factors:      &factors,
	}, nil
}

func (o *Orchestrator) evaluateRules(ctx context.Context, app decision.Application) decision.RuleVerdict {
	ctx, span := o.tracer.Start(ctx, "decision.rules")
	defer span.End()

	start := time.Now()
	verdict := o.rules.Evaluate(app)
	o.metrics.ObserveStage("rules", time.Since(start))

	span.SetAttributes(attribute.Bool("rules.passed", verdict.Passed))
	return verdict
}

func (o *Orchestrator) fetchPredictions(ctx context.Context, app decision.Application) ([]decision.ModelPrediction, error) {
	ctx, span := o.tracer.Start(ctx, "decision.predictions")
	defer span.End()

	start := time.Now()
	preds, err := o.provider.FetchPredictions(ctx, app)
	o.metrics.ObserveStage("predictions", time.Since(start))

	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("predictions.count", len(preds)))
	return preds, nil
}

func (o *Orchestrator) combine(ctx context.Context, preds []decision.ModelPrediction) (decision.ConsensusResult, error) {
	_, span := o.tracer.Start(ctx, "decision.consensus")
	defer span.End()

	start := time.Now()
	result, err := o.consensus.Combine(preds)
	o.metrics.ObserveStage("consensus", time.Since(start))

	if err != nil {
		span.RecordError(err)
		return decision.ConsensusResult{}, err
	}
	span.SetAttributes(
		attribute.Float64("consensus.probability", result.ConsensusProbability),
		attribute.Float64("consensus.dispersion", result.Dispersion),
		attribute.Bool("consensus.agreement", result.Agreement),
	)
	return result, nil
}

func (o *Orchestrator) categorize(ctx context.Context, result decision.ConsensusResult, app decision.Application) (decision.RiskCategory, decision.RiskFactors) {
	_, span := o.tracer.Start(ctx, "decision.risk")
	defer span.End()

	start := time.Now()
	category, factors := o.risk.Categorize(result, app)
	o.metrics.ObserveStage("risk", time.Since(start))

	span.SetAttributes(attribute.String("risk.category", string(category)))
	return category, factors
}

func (o *Orchestrator) calculate(ctx context.Context, category decision.RiskCategory, result decision.ConsensusResult, app decision.Application) (decision.LoanTerms, error) {
	_, span := o.tracer.Start(ctx, "decision.terms")
	defer span.End()

	start := time.Now()
	loanTerms, err := o.terms.Calculate(category, result, app)
	o.metrics.ObserveStage("terms", time.Since(start))

	if err != nil {
		span.RecordError(err)
		return decision.LoanTerms{}, err
	}
	return loanTerms, nil
}
