// Package events contains the WebSocket message contracts exchanged between
// the dashboard page and the server.
package events

import (
	"time"

	"launchdash/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Client -> server
	MessageTypeControlChange MessageType = "control:change"
	MessageTypeHeartbeat     MessageType = "heartbeat"

	// Server -> client
	MessageTypeConnection  MessageType = "connection"
	MessageTypeChartUpdate MessageType = "chart:update"
	MessageTypeError       MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete server message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// ClientMessage is the envelope sent by the dashboard page.
type ClientMessage struct {
	Type MessageType          `json:"type"`
	Data domain.ControlChange `json:"data"`
}

// ConnectionData is sent once after a client connects
type ConnectionData struct {
	Status    string           `json:"status"`
	ClientID  string           `json:"client_id"`
	Selection domain.Selection `json:"selection"`
}

// ErrorData describes a rejected client message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Control string `json:"control,omitempty"`
}

// NewMessage builds a server message stamped with the current time.
func NewMessage(t MessageType, traceID string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		BaseMessage: BaseMessage{
			Type:      t,
			Timestamp: time.Now().UTC(),
			TraceID:   traceID,
		},
		Data: data,
	}
}
