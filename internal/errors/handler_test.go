package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "unknown control",
			err:        UnknownControl("radio", fmt.Errorf("unknown")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnknownControl,
			wantCode:   CodeUnknownControl,
		},
		{
			name:       "invalid parameter",
			err:        InvalidParameter("low", "abc", fmt.Errorf("parse")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidParameter,
			wantCode:   CodeInvalidParameter,
		},
		{
			name:       "unsupported format",
			err:        UnsupportedFormat("gif", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUnsupportedFormat,
			wantCode:   CodeUnsupportedFormat,
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("callback: %w", ErrValidation("payload", "must have two values")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   CodeValidationFailed,
		},
		{
			name:       "rate limit",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantCode:   CodeRateLimitExceeded,
		},
		{
			name:       "plain error hides message",
			err:        fmt.Errorf("disk exploded"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantCode:   CodeInternalServer,
		},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/charts/pie", nil)
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantCode, body["error_code"])
			assert.Equal(t, "/api/charts/pie", body["instance"])
			assert.NotContains(t, body["detail"], "disk exploded")
		})
	}
}

func TestHandleErrorContextCancelled(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/callbacks", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, fmt.Errorf("dispatch: %w", context.Canceled))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, TypeTimeout, decodeProblem(t, rec)["type"])
}

func TestHandleErrorNil(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := UnknownControl("radio", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "radio", err.Details)
}

func TestRecovererRendersProblem(t *testing.T) {
	h := newTestHandler()
	handler := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/layout", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/layout", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/x").
		WithExtension("error_code", CodeValidationFailed)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	assert.NotContains(t, body, "detail")
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
}
