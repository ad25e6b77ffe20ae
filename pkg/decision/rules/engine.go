package rules

import (
	"fmt"
	"log/slog"
	"math"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/decision/terms"
)

// Engine evaluates the hard eligibility rules against a single application.
// It is stateless apart from its immutable thresholds; a single Engine can
// serve concurrent decisions.
type Engine struct {
	cfg    config.RulesConfig
	logger *slog.Logger
}

// NewEngine creates a rule engine with the given thresholds.
func NewEngine(cfg config.RulesConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With("component", "decision.rules"),
	}
}

// Evaluate runs every eligibility check and returns the combined verdict.
// Checks are never short-circuited: all failure reasons are reported
// together, in a fixed evaluation order.
func (e *Engine) Evaluate(app decision.Application) decision.RuleVerdict {
	var reasons []string

	if r := e.checkAge(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkSalary(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkCreditScore(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkDebtToIncome(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkLoanAmount(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkIncomeConsistency(app); r != "" {
		reasons = append(reasons, r)
	}
	if r := e.checkEmployment(app); r != "" {
		reasons = append(reasons, r)
	}

	verdict := decision.RuleVerdict{
		Passed:  len(reasons) == 0,
		Reasons: reasons,
	}

	e.logger.Debug("rule evaluation completed",
		"passed", verdict.Passed,
		"failed_checks", len(reasons),
	)

	return verdict
}

func (e *Engine) checkAge(app decision.Application) string {
	if app.Age < e.cfg.MinAge || app.Age > e.cfg.MaxAge {
		return fmt.Sprintf("age %d outside acceptable range of %d-%d",
			app.Age, e.cfg.MinAge, e.cfg.MaxAge)
	}
	return ""
}

func (e *Engine) checkSalary(app decision.Application) string {
	if app.AnnualSalary < e.cfg.MinSalary {
		return fmt.Sprintf("annual salary %.2f below minimum requirement of %.2f",
			app.AnnualSalary, e.cfg.MinSalary)
	}
	return ""
}

func (e *Engine) checkCreditScore(app decision.Application) string {
	if app.CreditScore < e.cfg.MinCreditScore {
		return fmt.Sprintf("credit score %d below minimum requirement of %d",
			app.CreditScore, e.cfg.MinCreditScore)
	}
	return ""
}

// checkDebtToIncome screens the debt-to-income ratio before actual terms
// exist: the requested amount is amortized at the configured estimate rate
// and tenure, and each existing loan contributes a flat payment estimate.
// The authoritative affordability check happens again in the terms
// calculator once the real rate and tenure are known.
func (e *Engine) checkDebtToIncome(app decision.Application) string {
	if app.MonthlyIncome <= 0 {
		return "monthly income must be positive for debt-to-income assessment"
	}

	requestedPayment := terms.MonthlyPayment(app.LoanAmount, e.cfg.EstimateRate, e.cfg.EstimateTenureMonths)
	existingDebt := float64(app.ExistingLoans) * e.cfg.EstimatedLoanPayment
	ratio := (existingDebt + requestedPayment) / app.MonthlyIncome

	if ratio > e.cfg.MaxDTI {
		return fmt.Sprintf("estimated debt-to-income ratio %.1f%% exceeds maximum of %.1f%%",
			ratio*100, e.cfg.MaxDTI*100)
	}
	return ""
}

func (e *Engine) checkLoanAmount(app decision.Application) string {
	if app.LoanAmount < e.cfg.MinLoanAmount || app.LoanAmount > e.cfg.MaxLoanAmount {
		return fmt.Sprintf("loan amount %.2f outside acceptable range of %.2f-%.2f",
			app.LoanAmount, e.cfg.MinLoanAmount, e.cfg.MaxLoanAmount)
	}
	return ""
}

// checkIncomeConsistency cross-checks the stated monthly income against the
// stated annual salary; a large mismatch suggests unreliable input.
func (e *Engine) checkIncomeConsistency(app decision.Application) string {
	expected := app.AnnualSalary / 12
	if expected <= 0 {
		return "annual salary must be positive for income consistency check"
	}

	deviation := math.Abs(app.MonthlyIncome-expected) / expected
	if deviation > e.cfg.IncomeMismatchTolerance {
		return fmt.Sprintf("monthly income %.2f deviates %.0f%% from annual salary equivalent %.2f (tolerance %.0f%%)",
			app.MonthlyIncome, deviation*100, expected, e.cfg.IncomeMismatchTolerance*100)
	}
	return ""
}

func (e *Engine) checkEmployment(app decision.Application) string {
	if e.cfg.MinEmploymentYears <= 0 {
		return ""
	}
	if app.EmploymentYears < e.cfg.MinEmploymentYears {
		return fmt.Sprintf("employment history %.1f years below minimum of %.1f years",
			app.EmploymentYears, e.cfg.MinEmploymentYears)
	}
	return ""
}
