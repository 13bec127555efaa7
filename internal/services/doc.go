// Package services holds the business layer between the transports and the
// dashboard core.
//
// DashboardService owns the read-only context of a running dashboard: the
// loaded dataset, the binding dispatcher, the layout, the chart renderer and
// the exporter. HTTP handlers and the CLI call it; the WebSocket transport
// talks to the dispatcher directly because it keeps per-client sessions.
//
// HealthService reports liveness, readiness and version information.
//
// Services take a *slog.Logger through their constructors and wrap errors
// with fmt.Errorf so callers can match sentinels with errors.Is.
package services
