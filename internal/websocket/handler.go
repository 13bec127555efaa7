package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"launchdash/internal/config"
	"launchdash/internal/infrastructure"
)

// Handler upgrades /ws requests and runs one client per connection
type Handler struct {
	hub            HubInterface
	dispatcher     Dispatcher
	upgrader       websocket.Upgrader
	clientCfg      ClientConfig
	allowedOrigins []string
	logger         *slog.Logger
	metrics        *infrastructure.DashboardMetrics
}

// NewHandler creates the WebSocket endpoint handler
func NewHandler(hub HubInterface, dispatcher Dispatcher, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		clientCfg: ClientConfig{
			MaxMessageSize: cfg.MaxMessageSize,
			SendBuffer:     cfg.SendBuffer,
			PingPeriod:     cfg.PingPeriod,
			PongWait:       cfg.PongWait,
		},
		allowedOrigins: allowedOrigins,
		logger:         logger.With(slog.String("component", "websocket.handler")),
		metrics:        metrics,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			h.logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}
	return h
}

// checkOrigin allows same-host pages, requests without an Origin header and
// configured origins
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.allowedOrigins))
	return false
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetReqID(r.Context())
	if traceID == "" {
		traceID = infrastructure.GenerateTraceID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the response
		return
	}

	// The request context ends when ServeHTTP returns; the client keeps its
	// values but gets its own lifetime.
	ctx := infrastructure.WithTraceID(context.WithoutCancel(r.Context()), traceID)

	client := NewClient(h.hub, NewConnection(conn), h.dispatcher, h.clientCfg, traceID, h.logger, h.metrics)
	h.hub.Register(client)

	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()),
		slog.String("remote_addr", client.remoteAddr))

	if err := client.Greet(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Initial render failed",
			slog.String("client_id", client.ID()),
			slog.String("error", err.Error()))
	}

	go client.WritePump()
	go client.ReadPump(ctx)
}
