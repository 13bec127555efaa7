package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"launchdash/internal/binding"
	"launchdash/internal/charts"
	apierrors "launchdash/internal/errors"
	"launchdash/internal/exporter"
	"launchdash/internal/middleware"
	api "launchdash/pkg/contracts/api/v1"
	"launchdash/pkg/contracts/domain"
)

// DashboardHandler serves the dashboard API with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validator:    middleware.NewValidationMiddleware(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Validator exposes the request validator for other handlers
func (h *DashboardHandler) Validator() *middleware.ValidationMiddleware { return h.validator }

// Routes returns the dashboard routes, mounted under /api
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/layout", h.GetLayout)
	r.Get("/dataset/summary", h.GetSummary)

	r.Route("/charts", func(r chi.Router) {
		r.Get("/pie", h.GetPieChart)
		r.Get("/scatter", h.GetScatterChart)
		r.Get("/pie.{format}", h.GetPieImage)
		r.Get("/scatter.{format}", h.GetScatterImage)
	})

	r.With(h.validator.ValidateRequest).Post("/callbacks", h.PostCallback)
	r.Get("/export/scatter.{format}", h.ExportScatter)

	return r
}

// chartQuery reads site, low and high. It writes the error response itself
// and reports false on failure.
func (h *DashboardHandler) chartQuery(w http.ResponseWriter, r *http.Request) (api.ChartQuery, bool) {
	q := api.ChartQuery{Site: r.URL.Query().Get("site")}

	var ok bool
	if q.Low, ok = h.query.ValidateFloat(w, r, "low"); !ok {
		return q, false
	}
	if q.High, ok = h.query.ValidateFloat(w, r, "high"); !ok {
		return q, false
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

// GetLayout handles GET /api/layout
func (h *DashboardHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Layout(r.Context()))
}

// GetSummary handles GET /api/dataset/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary(r.Context()))
}

// GetPieChart handles GET /api/charts/pie?site=
func (h *DashboardHandler) GetPieChart(w http.ResponseWriter, r *http.Request) {
	q, ok := h.chartQuery(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.service.PieChart(r.Context(), q.Site))
}

// GetScatterChart handles GET /api/charts/scatter?site=&low=&high=
func (h *DashboardHandler) GetScatterChart(w http.ResponseWriter, r *http.Request) {
	q, ok := h.chartQuery(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.service.ScatterChart(r.Context(), q.Site, q.Low, q.High))
}

// imageFormat parses the {format} URL parameter of an image route
func (h *DashboardHandler) imageFormat(w http.ResponseWriter, r *http.Request) (charts.Format, bool) {
	raw := chi.URLParam(r, "format")
	f, err := charts.ParseFormat(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormat(raw, err))
		return "", false
	}
	return f, true
}

// writeBuffered sends a fully rendered body; rendering into a buffer first
// keeps failures reportable as problem responses
func writeBuffered(w http.ResponseWriter, contentType string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// GetPieImage handles GET /api/charts/pie.{svg,png}?site=
func (h *DashboardHandler) GetPieImage(w http.ResponseWriter, r *http.Request) {
	format, ok := h.imageFormat(w, r)
	if !ok {
		return
	}
	q, ok := h.chartQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.RenderPie(r.Context(), &buf, q.Site, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Internal(err))
		return
	}
	writeBuffered(w, format.ContentType(), &buf)
}

// GetScatterImage handles GET /api/charts/scatter.{svg,png}?site=&low=&high=
func (h *DashboardHandler) GetScatterImage(w http.ResponseWriter, r *http.Request) {
	format, ok := h.imageFormat(w, r)
	if !ok {
		return
	}
	q, ok := h.chartQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.RenderScatter(r.Context(), &buf, q.Site, q.Low, q.High, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Internal(err))
		return
	}
	writeBuffered(w, format.ContentType(), &buf)
}

// PostCallback handles POST /api/callbacks
func (h *DashboardHandler) PostCallback(w http.ResponseWriter, r *http.Request) {
	var req api.CallbackRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	// Unknown controls get their own error code rather than a oneof failure
	if req.Changed != "" && req.Changed != domain.ControlSiteDropdown && req.Changed != domain.ControlPayloadSlider {
		h.errorHandler.HandleError(w, r, apierrors.UnknownControl(req.Changed, binding.ErrUnknownControl))
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload := domain.PayloadRange{Low: req.Payload[0], High: req.Payload[1]}
	updates, err := h.service.Callback(r.Context(), req.Changed, req.Site, payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, callbackError(req.Changed, err))
		return
	}

	h.logger.DebugContext(r.Context(), "Callback evaluated",
		slog.String("changed", req.Changed),
		slog.Int("outputs", len(updates)))

	render.JSON(w, r, api.CallbackResponse{Changed: req.Changed, Outputs: updates})
}

// callbackError maps binding errors to API errors
func callbackError(changed string, err error) error {
	switch {
	case errors.Is(err, binding.ErrUnknownControl):
		return apierrors.UnknownControl(changed, err)
	case errors.Is(err, binding.ErrInvalidValue):
		return apierrors.ErrValidation(changed, err.Error())
	default:
		return err
	}
}

// ExportScatter handles GET /api/export/scatter.{csv,xlsx}?site=&low=&high=
func (h *DashboardHandler) ExportScatter(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "format")
	format, err := exporter.ParseFormat(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormat(raw, err))
		return
	}
	q, ok := h.chartQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, q.Site, q.Low, q.High, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.Internal(err))
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="launches.%s"`, format))
	writeBuffered(w, format.ContentType(), &buf)
}
