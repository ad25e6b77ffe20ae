// Package predictions supplies model approval probabilities to the
// decision engine. The Provider interface is the engine's only view of the
// model-serving world; implementations cover the live HTTP ensemble, a
// fixed test double, a degraded (always empty) source, and a redis-backed
// cache decorator.
//
// Providers degrade rather than fail: a model that errors or times out is
// dropped from the ensemble for that request, and an empty prediction set
// is a valid return that the engine resolves into its manual-review
// fallback.
package predictions
