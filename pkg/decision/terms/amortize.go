package terms

import "math"

// MonthlyPayment computes the fixed monthly payment that fully repays
// principal plus interest over the given tenure, using the standard
// amortization formula
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate and n the tenure in months. A zero rate
// degenerates to straight principal division. The result is not rounded;
// callers decide the rounding policy.
func MonthlyPayment(principal, annualRatePct float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}

	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / float64(months)
	}

	factor := math.Pow(1+r, float64(months))
	return principal * r * factor / (factor - 1)
}

// roundCents rounds a currency amount to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
