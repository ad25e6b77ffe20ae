package terms

import (
	"log/slog"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
)

// Calculator derives loan terms for a risk-screened application. It is
// stateless apart from its immutable band parameters.
type Calculator struct {
	cfg    config.EngineConfig
	logger *slog.Logger
}

// NewCalculator creates a calculator from the engine configuration. The
// terms bands, the risk probability bands (for rate interpolation), and
// the debt-to-income limits are all read from cfg.
func NewCalculator(cfg config.EngineConfig, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		cfg:    cfg,
		logger: logger.With("component", "decision.terms"),
	}
}

// Calculate derives the loan terms for the given category and application.
// It returns *decision.TermsUnaffordableError when no combination of
// amount and tenure keeps the monthly payment within the applicant's
// affordability cap.
//
// The affordability cap is monthlyIncome * MaxDTI minus the estimated
// payments on existing loans. The approved amount starts at the category's
// fraction of the requested amount; the tenure is the largest standard
// whole-year tenure within the category's maximum whose amortized payment
// fits the cap. If no tenure fits, the amount is reduced in fixed steps
// down to the configured floor before giving up.
func (c *Calculator) Calculate(category decision.RiskCategory, consensus decision.ConsensusResult, app decision.Application) (decision.LoanTerms, error) {
	band := c.band(category)
	rate := c.interpolateRate(category, band, consensus.ConsensusProbability)

	afford := app.MonthlyIncome*c.cfg.Rules.MaxDTI - float64(app.ExistingLoans)*c.cfg.Rules.EstimatedLoanPayment
	floor := c.cfg.Terms.AmountFloor

	if afford <= 0 {
		return decision.LoanTerms{}, &decision.TermsUnaffordableError{
			AffordabilityCap: afford,
			FloorAmount:      floor,
		}
	}

	initial := app.LoanAmount * band.AmountFactor
	if initial > app.LoanAmount {
		initial = app.LoanAmount
	}

	step := initial * c.cfg.Terms.ReductionStep
	amount := initial

	for {
		if months, payment, ok := c.fitTenure(amount, rate, band.MaxTenureYears, afford); ok {
			terms := decision.LoanTerms{
				ApprovedAmount:    roundCents(amount),
				InterestRate:      rate,
				TenureMonths:      months,
				MonthlyPayment:    roundCents(payment),
				DebtToIncomeRatio: payment / app.MonthlyIncome,
			}
			c.logger.Debug("loan terms calculated",
				"category", category,
				"approved_amount", terms.ApprovedAmount,
				"interest_rate", terms.InterestRate,
				"tenure_months", terms.TenureMonths,
				"monthly_payment", terms.MonthlyPayment,
			)
			return terms, nil
		}

		if amount <= floor {
			return decision.LoanTerms{}, &decision.TermsUnaffordableError{
				AffordabilityCap: afford,
				FloorAmount:      floor,
			}
		}
		amount -= step
		if amount < floor {
			amount = floor
		}
	}
}

// fitTenure finds the largest whole-year tenure, within the category
// maximum, whose amortized payment stays inside the affordability cap.
// Payments shrink as tenure grows, so tenures are tried longest first.
func (c *Calculator) fitTenure(amount, rate float64, maxYears int, afford float64) (months int, payment float64, ok bool) {
	for years := maxYears; years >= c.cfg.Terms.MinTenureYears; years-- {
		m := years * 12
		p := MonthlyPayment(amount, rate, m)
		if p <= afford {
			return m, p, true
		}
	}
	return 0, 0, false
}

// interpolateRate positions the consensus probability inside its risk
// band and maps it linearly onto the category's rate band: the stronger
// the consensus, the lower the rate.
func (c *Calculator) interpolateRate(category decision.RiskCategory, band config.TermsBand, probability float64) float64 {
	var lo, hi float64
	switch category {
	case decision.RiskLow:
		lo, hi = c.cfg.Risk.LowRiskThreshold, 1.0
	case decision.RiskMedium:
		lo, hi = c.cfg.Risk.HighRiskCutoff, c.cfg.Risk.LowRiskThreshold
	default:
		lo, hi = 0, c.cfg.Risk.HighRiskCutoff
	}

	pos := 0.0
	if hi > lo {
		pos = (probability - lo) / (hi - lo)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}

	return band.RateMax - pos*(band.RateMax-band.RateMin)
}

// band returns the terms band for a category.
func (c *Calculator) band(category decision.RiskCategory) config.TermsBand {
	switch category {
	case decision.RiskLow:
		return c.cfg.Terms.Low
	case decision.RiskMedium:
		return c.cfg.Terms.Medium
	default:
		return c.cfg.Terms.High
	}
}
