// Package rules implements the hard eligibility gate of the decision
// pipeline. Every check is evaluated on every application so that the
// applicant sees all failure reasons together; a single failed check
// rejects the application before any model work is done.
package rules
