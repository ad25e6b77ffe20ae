// Package engine sequences the decision pipeline: rule gate, prediction
// fetch, consensus, risk categorization, and terms calculation. The
// orchestrator owns every early exit and fallback path and is the sole
// producer of the terminal Decision.
//
// The pipeline is a pure function of the application, the supplied
// predictions, and the configuration: given identical inputs it produces
// an identical Decision. Business failures (no predictions, model
// disagreement, unaffordable terms) are recovered into terminal Decisions
// and never surface as errors.
package engine
