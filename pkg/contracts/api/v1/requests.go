// Package api contains the HTTP API request contracts of the dashboard.
package api

// CallbackRequest asks the server to recompute the outputs bound to the
// changed control, given the full control state.
type CallbackRequest struct {
	Changed string    `json:"changed" validate:"required,oneof=site-dropdown payload-slider"`
	Site    string    `json:"site" validate:"max=128"`
	Payload []float64 `json:"payload" validate:"required,len=2"`
}

// ChartQuery holds the query parameters of the chart and export endpoints.
type ChartQuery struct {
	Site string   `validate:"max=128"`
	Low  *float64 `validate:"omitempty"`
	High *float64 `validate:"omitempty"`
}

// ClientLogRequest is a log entry reported by the dashboard page.
type ClientLogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2048"`
	Source  string                 `json:"source,omitempty" validate:"max=128"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
