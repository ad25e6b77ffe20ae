package decision

import "fmt"

// Credit scores follow the FICO range.
const (
	minCreditScore = 300
	maxCreditScore = 850
)

// Validate checks that every Application field is present and within its
// domain range. It returns a *ValidationError listing every violation, or
// nil when the application is well-formed. Callers must validate before
// invoking the engine; business thresholds (minimum salary, DTI and so on)
// are the rule engine's concern, not Validate's.
func (a Application) Validate() error {
	var fields []string

	if a.Age <= 0 {
		fields = append(fields, fmt.Sprintf("age must be positive, got %d", a.Age))
	}
	if a.AnnualSalary <= 0 {
		fields = append(fields, fmt.Sprintf("annual_salary must be positive, got %.2f", a.AnnualSalary))
	}
	if a.CreditScore < minCreditScore || a.CreditScore > maxCreditScore {
		fields = append(fields, fmt.Sprintf("credit_score must be within [%d, %d], got %d",
			minCreditScore, maxCreditScore, a.CreditScore))
	}
	if a.LoanAmount <= 0 {
		fields = append(fields, fmt.Sprintf("loan_amount must be positive, got %.2f", a.LoanAmount))
	}
	if a.ExistingLoans < 0 {
		fields = append(fields, fmt.Sprintf("existing_loans must be non-negative, got %d", a.ExistingLoans))
	}
	if a.MonthlyIncome <= 0 {
		fields = append(fields, fmt.Sprintf("monthly_income must be positive, got %.2f", a.MonthlyIncome))
	}
	if a.EmploymentYears < 0 {
		fields = append(fields, fmt.Sprintf("employment_years must be non-negative, got %.2f", a.EmploymentYears))
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
