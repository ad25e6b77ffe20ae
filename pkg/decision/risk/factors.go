package risk

import "crednova/polaris/pkg/decision"

// Factors scores the application on six explanatory dimensions, each 0-100
// with higher meaning lower risk. The scores are attached to decisions for
// audit trails and applicant-facing explanations; they do not feed into
// the tier computation.
func Factors(app decision.Application) decision.RiskFactors {
	return decision.RiskFactors{
		CreditScore:     creditScoreFactor(app.CreditScore),
		IncomeStability: incomeStabilityFactor(app.AnnualSalary, app.EmploymentYears),
		DebtBurden:      debtBurdenFactor(app.ExistingLoans, app.MonthlyIncome),
		Employment:      employmentFactor(app.EmploymentYears),
		LoanSize:        loanSizeFactor(app.LoanAmount, app.AnnualSalary),
		Age:             ageFactor(app.Age),
	}
}

func creditScoreFactor(score int) float64 {
	switch {
	case score >= 800:
		return 100
	case score >= 750:
		return 90
	case score >= 700:
		return 80
	case score >= 650:
		return 65
	case score >= 600:
		return 50
	default:
		f := float64(score-300) / 300 * 30
		if f < 0 {
			return 0
		}
		return f
	}
}

func incomeStabilityFactor(salary, employmentYears float64) float64 {
	var base float64
	switch {
	case salary >= 100000:
		base = 100
	case salary >= 75000:
		base = 85
	case salary >= 50000:
		base = 70
	case salary >= 35000:
		base = 55
	default:
		base = salary / 35000 * 55
		if base < 20 {
			base = 20
		}
	}

	var bonus float64
	switch {
	case employmentYears >= 10:
		bonus = 1.0
	case employmentYears >= 5:
		bonus = 0.95
	case employmentYears >= 2:
		bonus = 0.9
	default:
		bonus = 0.8
	}

	f := base * bonus
	if f > 100 {
		return 100
	}
	return f
}

func debtBurdenFactor(existingLoans int, monthlyIncome float64) float64 {
	if existingLoans == 0 {
		return 100
	}
	if monthlyIncome <= 0 {
		return 0
	}

	// Flat per-loan payment estimate; precise obligations are unknown at
	// this stage.
	ratio := float64(existingLoans) * 400 / monthlyIncome
	switch {
	case ratio <= 0.1:
		return 100
	case ratio <= 0.2:
		return 85
	case ratio <= 0.3:
		return 70
	case ratio <= 0.4:
		return 50
	default:
		f := 50 - (ratio-0.4)*100
		if f < 0 {
			return 0
		}
		return f
	}
}

func employmentFactor(years float64) float64 {
	switch {
	case years >= 10:
		return 100
	case years >= 5:
		return 90
	case years >= 2:
		return 75
	case years >= 1:
		return 60
	default:
		f := years * 60
		if f < 30 {
			return 30
		}
		return f
	}
}

func loanSizeFactor(loanAmount, salary float64) float64 {
	if salary <= 0 {
		return 0
	}

	ratio := loanAmount / salary
	switch {
	case ratio <= 2:
		return 100
	case ratio <= 3:
		return 85
	case ratio <= 4:
		return 70
	case ratio <= 5:
		return 50
	default:
		f := 50 - (ratio-5)*10
		if f < 0 {
			return 0
		}
		return f
	}
}

func ageFactor(age int) float64 {
	switch {
	case age >= 30 && age <= 50:
		return 100
	case age >= 25 && age <= 60:
		return 90
	case age >= 22 && age <= 65:
		return 80
	default:
		return 60
	}
}
