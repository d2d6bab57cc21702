// Package observability centralizes the daemon's Prometheus instruments and
// OpenTelemetry tracing setup. Metrics are always on; trace export is opt-in
// via the [telemetry] config section.
package observability
