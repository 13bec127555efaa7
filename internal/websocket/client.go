package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"launchdash/internal/binding"
	apierrors "launchdash/internal/errors"
	"launchdash/internal/infrastructure"
	"launchdash/pkg/contracts/domain"
	"launchdash/pkg/contracts/events"
)

// Time allowed to write a message to the peer
const writeWait = 10 * time.Second

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// ClientConfig holds the per-connection limits
type ClientConfig struct {
	MaxMessageSize int64
	SendBuffer     int
	PingPeriod     time.Duration
	PongWait       time.Duration
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 64
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = (c.PongWait * 9) / 10
	}
	return c
}

// Client is a middleman between the websocket connection and the hub. Each
// client owns one binding session, so its control changes are applied in
// the order they arrive.
type Client struct {
	hub        HubInterface
	conn       Connection
	dispatcher Dispatcher
	session    *binding.Session
	cfg        ClientConfig

	// Buffered channel of outbound messages
	send   chan []byte
	sendMu sync.Mutex
	closed bool

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics

	messagesSent     int64
	messagesReceived int64
}

// NewClient creates a client with a fresh session from dispatcher
func NewClient(hub HubInterface, conn Connection, dispatcher Dispatcher, cfg ClientConfig, traceID string, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	cfg = cfg.withDefaults()

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)
	if traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		dispatcher:  dispatcher,
		session:     dispatcher.NewSession(id),
		cfg:         cfg,
		send:        make(chan []byte, cfg.SendBuffer),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
		metrics:     metrics,
	}
}

// ID returns the client identifier, also used as its session ID
func (c *Client) ID() string { return c.id }

// Session returns the client's binding session
func (c *Client) Session() *binding.Session { return c.session }

func (c *Client) logContext() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// enqueue queues data without blocking. It reports false when the buffer is
// full or the client has been closed.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel once
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// sendMessage encodes and queues msg for this client only
func (c *Client) sendMessage(ctx context.Context, msg events.WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msg.Type)))
		return
	}
	if !c.enqueue(data) {
		c.logger.WarnContext(ctx, "Dropping message, client buffer full or closed",
			slog.String("message_type", string(msg.Type)))
		return
	}
	c.metrics.RecordWebSocketMessage(ctx, "out", string(msg.Type))
}

func (c *Client) sendUpdates(ctx context.Context, updates []domain.OutputUpdate) {
	for _, u := range updates {
		c.sendMessage(ctx, events.NewMessage(events.MessageTypeChartUpdate, c.traceID, u))
	}
}

func (c *Client) sendError(ctx context.Context, code, message, control string) {
	c.sendMessage(ctx, events.NewMessage(events.MessageTypeError, c.traceID, events.ErrorData{
		Code:    code,
		Message: message,
		Control: control,
	}))
}

// Greet queues the connection message followed by every output rendered for
// the session's initial selection.
func (c *Client) Greet(ctx context.Context) error {
	c.sendMessage(ctx, events.NewMessage(events.MessageTypeConnection, c.traceID, events.ConnectionData{
		Status:    "connected",
		ClientID:  c.id,
		Selection: c.session.Selection(),
	}))

	updates, err := c.dispatcher.Initial(ctx, c.session)
	if err != nil {
		return err
	}
	c.sendUpdates(ctx, updates)
	return nil
}

// handleMessage processes one client message
func (c *Client) handleMessage(ctx context.Context, message []byte) {
	var msg events.ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError(ctx, apierrors.CodeInvalidRequest, "message is not valid JSON", "")
		return
	}
	c.metrics.RecordWebSocketMessage(ctx, "in", string(msg.Type))

	switch msg.Type {
	case events.MessageTypeHeartbeat:
		c.logger.DebugContext(ctx, "Heartbeat received")

	case events.MessageTypeControlChange:
		updates, err := c.dispatcher.Dispatch(ctx, c.session, msg.Data)
		if err != nil {
			c.sendError(ctx, errorCode(err), err.Error(), msg.Data.Control)
			return
		}
		c.sendUpdates(ctx, updates)

	default:
		c.sendError(ctx, apierrors.CodeInvalidRequest, "unsupported message type "+string(msg.Type), "")
	}
}

// errorCode maps dispatch failures to the error codes used on the wire
func errorCode(err error) string {
	switch {
	case errors.Is(err, binding.ErrUnknownControl):
		return apierrors.CodeUnknownControl
	case errors.Is(err, binding.ErrInvalidValue):
		return apierrors.CodeValidationFailed
	default:
		return apierrors.CodeInternalServer
	}
}

// ReadPump pumps messages from the websocket connection to the dispatcher.
// It returns when the connection fails or ctx is cancelled.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.logger.InfoContext(ctx, "WebSocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		c.messagesReceived++
		message = bytes.TrimSpace(bytes.ReplaceAll(message, newline, space))
		c.handleMessage(ctx, message)
	}
}

// WritePump pumps queued messages to the websocket connection and pings the
// peer every PingPeriod.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(c.logContext(), "WebSocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.logContext(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent++

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.logContext(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
