// Package metrics defines the Prometheus instrumentation for the decision
// pipeline and the prediction providers. All metric types are nil-safe:
// a nil receiver records nothing, so components can run unmetered in
// tests and one-shot CLI invocations.
package metrics
