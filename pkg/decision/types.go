package decision

// Application is the immutable input to the decision pipeline. All fields
// must be present and within domain range before the engine runs; use
// Validate to check them. The engine itself does not coerce or repair
// malformed input.
type Application struct {
	// Age is the applicant's age in whole years.
	Age int `json:"age" yaml:"age"`

	// AnnualSalary is the applicant's gross annual salary.
	AnnualSalary float64 `json:"annual_salary" yaml:"annual_salary"`

	// CreditScore is the applicant's credit score in [300, 850].
	CreditScore int `json:"credit_score" yaml:"credit_score"`

	// LoanAmount is the requested principal. Must be positive.
	LoanAmount float64 `json:"loan_amount" yaml:"loan_amount"`

	// ExistingLoans is the number of loans the applicant is already servicing.
	ExistingLoans int `json:"existing_loans" yaml:"existing_loans"`

	// MonthlyIncome is the applicant's net monthly income. Must be positive.
	MonthlyIncome float64 `json:"monthly_income" yaml:"monthly_income"`

	// EmploymentYears is continuous employment history in years.
	EmploymentYears float64 `json:"employment_years" yaml:"employment_years"`
}

// RuleVerdict is the outcome of the hard eligibility checks. Reasons is
// empty when Passed is true; otherwise it lists every failed check in
// evaluation order.
type RuleVerdict struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// ModelPrediction is one predictive model's approval probability for an
// application. Predictions are supplied externally; the engine treats them
// as a read-only input set with unique model names.
type ModelPrediction struct {
	// ModelName identifies the contributing model, unique within a request.
	ModelName string `json:"model_name"`

	// ProbabilityApproved is the model's approval probability in [0, 1].
	ProbabilityApproved float64 `json:"probability_approved"`

	// Weight is the model's voting weight. Zero or negative weights are
	// treated as 1.0 (equal voting).
	Weight float64 `json:"weight,omitempty"`
}

// ConsensusResult aggregates the ensemble's predictions into a single
// weighted probability plus an agreement signal.
type ConsensusResult struct {
	// ConsensusProbability is the weighted-average approval probability.
	ConsensusProbability float64 `json:"consensus_probability"`

	// Agreement is true iff every model's binary vote matches.
	Agreement bool `json:"agreement"`

	// Dispersion is the spread between the most and least confident model.
	Dispersion float64 `json:"dispersion"`

	// ModelCount is the number of models that contributed.
	ModelCount int `json:"model_count"`
}

// RiskCategory is the risk tier derived from the consensus probability.
type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

// Valid reports whether c is one of the defined tiers.
func (c RiskCategory) Valid() bool {
	switch c {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// LoanTerms are the concrete terms offered on an approved application.
// MonthlyPayment is always derived from the other three fields via the
// standard amortization formula, never supplied externally.
type LoanTerms struct {
	// ApprovedAmount is the approved principal. Positive.
	ApprovedAmount float64 `json:"approved_amount"`

	// InterestRate is the annual rate in percent, within [8.5, 18.0].
	InterestRate float64 `json:"interest_rate"`

	// TenureMonths is the repayment period, within [144, 360].
	TenureMonths int `json:"tenure_months"`

	// MonthlyPayment is the fixed amortized payment, rounded to cents.
	MonthlyPayment float64 `json:"monthly_payment"`

	// DebtToIncomeRatio is MonthlyPayment relative to the applicant's
	// monthly income, recorded for explainability.
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
}

// DecisionStatus is the terminal outcome of a decision invocation.
type DecisionStatus string

const (
	// StatusApproved means the application passed every gate and carries terms.
	StatusApproved DecisionStatus = "approved"

	// StatusRejected means a hard eligibility rule failed. Rejection comes
	// only from the rule gate; the ML stages never reject.
	StatusRejected DecisionStatus = "rejected"

	// StatusManualReview means the application needs human adjudication:
	// the models disagreed, no predictions were available, or no affordable
	// terms exist.
	StatusManualReview DecisionStatus = "manual_review"
)

// RiskFactors are explanatory per-dimension scores (0-100, higher is
// better) computed from the raw application. They accompany the decision
// for auditability and do not influence the risk tier.
type RiskFactors struct {
	CreditScore     float64 `json:"credit_score"`
	IncomeStability float64 `json:"income_stability"`
	DebtBurden      float64 `json:"debt_burden"`
	Employment      float64 `json:"employment"`
	LoanSize        float64 `json:"loan_size"`
	Age             float64 `json:"age"`
}

// Decision is the terminal artifact of one engine invocation. It is created
// exactly once per invocation and never mutated afterwards; ownership passes
// to the caller.
type Decision struct {
	// Status is the terminal outcome.
	Status DecisionStatus `json:"status"`

	// RiskCategory is set whenever risk screening ran; empty on rule
	// rejections and on the ML-unavailable and disagreement paths.
	RiskCategory RiskCategory `json:"risk_category,omitempty"`

	// Reason is the human-readable explanation for the outcome.
	Reason string `json:"reason"`

	// Terms is present only when Status is StatusApproved.
	Terms *LoanTerms `json:"terms,omitempty"`

	// Verdict is the rule-gate outcome that opened (or closed) the pipeline.
	Verdict RuleVerdict `json:"rule_verdict"`

	// Consensus is present when the ensemble produced a result.
	Consensus *ConsensusResult `json:"consensus,omitempty"`

	// Factors is present when risk screening ran.
	Factors *RiskFactors `json:"risk_factors,omitempty"`
}
