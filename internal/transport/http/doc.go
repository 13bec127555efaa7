// Package http implements the HTTP handlers of the launch dashboard.
//
// Handlers stay thin: they parse and validate the request, call the
// dashboard service and render the result. Every failure is written as an
// RFC 7807 problem document through errors.ErrorHandler.
//
// # Routes
//
//	GET  /                              dashboard page
//	GET  /api/layout                    dropdown, slider and output ids
//	GET  /api/dataset/summary           row count, sites, payload bounds
//	GET  /api/charts/pie                pie figure as JSON
//	GET  /api/charts/scatter            scatter figure as JSON
//	GET  /api/charts/{pie,scatter}.svg  rendered chart (also .png)
//	POST /api/callbacks                 recompute outputs for a control change
//	GET  /api/export/scatter.{csv,xlsx} filtered rows
//	POST /api/client-log                browser log forwarding
//	GET  /api/health[/ready|/live]      health probes
//	GET  /api/websocket/stats           hub counters
//	GET  /metrics                       Prometheus scrape
//
// Query parameters site, low and high are shared by the chart and export
// routes. An empty site means all sites; missing bounds default to the
// dataset's full payload range.
package http
