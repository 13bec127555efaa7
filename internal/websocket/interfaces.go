package websocket

import (
	"context"
	"time"

	"launchdash/internal/binding"
	"launchdash/pkg/contracts/domain"
)

// Connection defines the interface for WebSocket connections
// This allows for proper mocking in tests
type Connection interface {
	// WriteMessage writes a message with the given message type and payload
	WriteMessage(messageType int, data []byte) error

	// ReadMessage reads a message from the connection
	// Returns the message type and payload
	ReadMessage() (messageType int, p []byte, err error)

	// Close closes the connection
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error

	// SetReadLimit sets the maximum size for a message read from the connection
	SetReadLimit(limit int64)

	// SetPongHandler sets the handler for pong messages
	SetPongHandler(h func(string) error)

	// RemoteAddr returns the remote network address
	RemoteAddr() string
}

// Dispatcher recomputes outputs for a client's session. *binding.Dispatcher
// implements it.
type Dispatcher interface {
	NewSession(id string) *binding.Session
	Initial(ctx context.Context, s *binding.Session) ([]domain.OutputUpdate, error)
	Dispatch(ctx context.Context, s *binding.Session, change domain.ControlChange) ([]domain.OutputUpdate, error)
}

// HubInterface defines the interface for WebSocket hub
// This allows components to depend on an interface rather than concrete type
type HubInterface interface {
	Register(client *Client)
	Unregister(client *Client)

	// Broadcast sends a message to all connected clients
	Broadcast(message []byte)

	// ClientCount returns the number of connected clients
	ClientCount() int

	Start()
	Stop()
}
