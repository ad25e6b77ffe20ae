package decision

import (
	"fmt"
	"strings"
)

// InsufficientModelsError indicates the consensus stage received zero
// predictions. The orchestrator recovers it into the ML-unavailable
// fallback; it is never propagated to the caller as a failure.
type InsufficientModelsError struct {
	// Required is the minimum number of predictions needed.
	Required int
}

// Error returns the error message.
func (e *InsufficientModelsError) Error() string {
	return fmt.Sprintf("insufficient model predictions: need at least %d, got 0", e.Required)
}

// TermsUnaffordableError indicates no combination of amount and tenure keeps
// the monthly payment within the applicant's affordability cap. The
// orchestrator recovers it by demoting the outcome to manual review.
type TermsUnaffordableError struct {
	// AffordabilityCap is the maximum affordable monthly payment.
	AffordabilityCap float64

	// FloorAmount is the smallest principal that was attempted.
	FloorAmount float64
}

// Error returns the error message.
func (e *TermsUnaffordableError) Error() string {
	return fmt.Sprintf("no affordable terms: payment at floor amount %.2f exceeds cap %.2f",
		e.FloorAmount, e.AffordabilityCap)
}

// ValidationError reports malformed or out-of-range Application fields.
// The transport layer surfaces it before the engine runs; the engine itself
// never sees an invalid Application.
type ValidationError struct {
	Fields []string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("invalid application: %s", e.Fields[0])
	}
	return fmt.Sprintf("invalid application: %d problems: %s",
		len(e.Fields), strings.Join(e.Fields, "; "))
}
