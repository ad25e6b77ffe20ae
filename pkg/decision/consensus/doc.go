// Package consensus aggregates per-model approval probabilities into a
// single weighted consensus probability plus an agreement signal. The
// consensus probability is the point estimate; agreement and dispersion
// are an independent confidence signal that the orchestrator uses as a
// hard manual-review gate.
package consensus
