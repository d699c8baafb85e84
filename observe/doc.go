// Package observe wires structured logging, tracing and metrics for the
// tenant manager.
//
// It configures OpenTelemetry providers from a single Config and exposes a
// minimal Logger that redacts secret-bearing fields such as wallet keys and
// tokens. Hosts that bring their own telemetry can skip this package and
// hand the manager their own meter and tracer directly.
package observe
