package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried in the error_code extension of problem responses.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnknownControl     = "UNKNOWN_CONTROL"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
	CodeWebSocketUpgrade   = "WEBSOCKET_UPGRADE_FAILED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	cause      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer   = New(http.StatusInternalServerError, CodeInternalServer, "Internal server error")
	ErrWebSocketUpgrade = New(http.StatusInternalServerError, CodeWebSocketUpgrade, "WebSocket upgrade failed")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error for an undecodable body
func InvalidRequestWithError(err error) *APIError {
	e := NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
	e.cause = err
	return e
}

// InvalidParameter reports a query parameter that could not be parsed
func InvalidParameter(name, value string, err error) *APIError {
	e := NewWithDetails(http.StatusBadRequest, CodeInvalidParameter,
		fmt.Sprintf("Invalid value for parameter %q", name),
		ValidationError{Field: name, Message: fmt.Sprintf("cannot parse %q", value)})
	e.cause = err
	return e
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// UnknownControl reports a change on a control the dashboard does not have
func UnknownControl(control string, err error) *APIError {
	e := NewWithDetails(http.StatusBadRequest, CodeUnknownControl,
		fmt.Sprintf("Unknown control %q", control), control)
	e.cause = err
	return e
}

// UnsupportedFormat reports a requested image or export format that is not served
func UnsupportedFormat(format string, err error) *APIError {
	e := NewWithDetails(http.StatusBadRequest, CodeUnsupportedFormat,
		fmt.Sprintf("Unsupported format %q", format), format)
	e.cause = err
	return e
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// Internal wraps an unexpected failure without exposing its message
func Internal(err error) *APIError {
	e := New(http.StatusInternalServerError, CodeInternalServer, "Internal server error")
	e.cause = err
	return e
}
