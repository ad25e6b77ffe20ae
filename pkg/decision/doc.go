// Package decision defines the domain types shared by the loan decision
// pipeline: the immutable Application input, the intermediate artifacts
// produced by each stage (RuleVerdict, ConsensusResult, RiskCategory,
// LoanTerms), and the terminal Decision record.
//
// All types in this package are plain values created and consumed within a
// single decision invocation. Nothing here holds state across invocations.
package decision
