package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "launchdash/internal/errors"
	"launchdash/internal/layout"
	"launchdash/pkg/contracts"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Layout  layout.Layout
	Version string
}

// PageHandler serves the dashboard page
type PageHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a new page handler
func NewPageHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "page")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP renders the index page with the initial layout inlined
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Layout:  h.service.Layout(r.Context()),
		Version: contracts.Version,
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.DebugContext(r.Context(), "write page", slog.String("error", err.Error()))
	}
}
