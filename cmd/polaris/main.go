// Polaris is a loan decision engine. It gates applications through hard
// eligibility rules, aggregates ML model predictions into a consensus,
// categorizes risk, and prices loan terms.
//
// Usage:
//
//	# Start the decision server with default configuration
//	polaris run
//
//	# Start with a custom configuration file
//	polaris run --config /etc/polaris/config.yaml
//
//	# Evaluate a single application from a JSON file
//	polaris decide --input application.json
//
//	# Validate a configuration file
//	polaris validate --config config.yaml
//
//	# Show version information
//	polaris version
package main

func main() {
	Execute()
}
