// Package telemetry groups the observability subpackages: structured
// logging, Prometheus metrics, OpenTelemetry tracing, and health checks.
package telemetry
