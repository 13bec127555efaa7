package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"launchdash/internal/infrastructure"
	"launchdash/pkg/contracts/events"
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for every client
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics

	// Interval between heartbeat broadcasts; zero disables them
	heartbeat time.Duration

	// Counters
	totalConnections int64
	messagesSent     int64
	droppedClients   int64

	// Control
	quit    chan struct{}
	running bool
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithHubMetrics records connection counts on m
func WithHubMetrics(m *infrastructure.DashboardMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// WithHeartbeat broadcasts a heartbeat message every interval
func WithHeartbeat(interval time.Duration) HubOption {
	return func(h *Hub) { h.heartbeat = interval }
}

// NewHub creates a new Hub instance with dependency injection
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	hub := &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(hub)
	}
	return hub
}

// Start starts the hub's goroutines
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
	if h.heartbeat > 0 {
		go h.heartbeatLoop()
	}
}

// run is the hub's main loop
func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.logContext()
			h.metrics.RecordConnectionChange(ctx, 1)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				client.closeSend()
				ctx := client.logContext()
				h.metrics.RecordConnectionChange(ctx, -1)
				h.logger.InfoContext(ctx, "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// fanOut delivers message to every client. Clients whose buffer is full are
// disconnected.
func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	failed := 0
	for _, client := range clients {
		if client.enqueue(message) {
			continue
		}
		failed++

		h.mu.Lock()
		delete(h.clients, client)
		h.droppedClients++
		h.mu.Unlock()

		client.closeSend()
		ctx := client.logContext()
		h.metrics.RecordConnectionChange(ctx, -1)
		h.logger.WarnContext(ctx, "Client send buffer full, disconnecting",
			slog.String("client_id", client.id))
	}

	h.mu.Lock()
	h.messagesSent += int64(len(clients) - failed)
	h.mu.Unlock()

	h.logger.Debug("Broadcast delivered",
		slog.Int("client_count", len(clients)),
		slog.Int("fail_count", failed),
		slog.Int("message_size", len(message)))
}

// heartbeatLoop periodically broadcasts a heartbeat and logs hub counters
func (h *Hub) heartbeatLoop() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-ticker.C:
			h.BroadcastMessage(events.NewMessage(events.MessageTypeHeartbeat, "", nil))

			stats := h.Stats()
			h.logger.Debug("WebSocket hub metrics",
				slog.Int("active_clients", stats.ActiveClients),
				slog.Int64("total_connections", stats.TotalConnections),
				slog.Int64("messages_sent", stats.MessagesSent),
				slog.Int64("dropped_clients", stats.DroppedClients))
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client from the hub and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Broadcast queues a pre-encoded message for every client
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.quit:
	}
}

// BroadcastMessage encodes msg and queues it for every client
func (h *Hub) BroadcastMessage(msg events.WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling broadcast message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msg.Type)))
		return
	}
	h.Broadcast(data)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubStats is a snapshot of the hub counters
type HubStats struct {
	ActiveClients    int   `json:"active_clients"`
	TotalConnections int64 `json:"total_connections"`
	MessagesSent     int64 `json:"messages_sent"`
	DroppedClients   int64 `json:"dropped_clients"`
}

// Stats returns current hub counters
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HubStats{
		ActiveClients:    len(h.clients),
		TotalConnections: h.totalConnections,
		MessagesSent:     h.messagesSent,
		DroppedClients:   h.droppedClients,
	}
}

// Stop gracefully stops the hub and closes every client's send channel,
// which makes the write pumps send a close frame.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.closeSend()
		h.metrics.RecordConnectionChange(context.Background(), -1)
	}
}
