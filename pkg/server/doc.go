// Package server exposes the decision engine over HTTP. It mounts the
// decision API under /api/v1, liveness and readiness probes, and the
// Prometheus metrics endpoint, and owns graceful shutdown.
package server
