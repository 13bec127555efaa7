package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"launchdash/internal/websocket"
)

// HubStatsProvider reports WebSocket hub counters
type HubStatsProvider interface {
	Stats() websocket.HubStats
}

// MetricsHandler exposes the Prometheus scrape endpoint and hub statistics
type MetricsHandler struct {
	prometheus http.Handler
	hub        HubStatsProvider
	logger     *slog.Logger
}

// NewMetricsHandler creates a new metrics handler. A nil prometheus handler
// answers 404 on /metrics.
func NewMetricsHandler(prometheus http.Handler, hub HubStatsProvider, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{
		prometheus: prometheus,
		hub:        hub,
		logger:     logger.With(slog.String("handler", "metrics")),
	}
}

// Prometheus serves GET /metrics
func (h *MetricsHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.NotFound(w, r)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}

// Routes mounts the stats endpoints under /api/websocket
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.GetHubStats)
	return r
}

// GetHubStats handles GET /api/websocket/stats
func (h *MetricsHandler) GetHubStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.hub.Stats())
}
