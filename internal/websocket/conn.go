package websocket

import (
	"github.com/gorilla/websocket"
)

// gorillaConn adapts *websocket.Conn to Connection. Only RemoteAddr differs
// from the embedded method set.
type gorillaConn struct {
	*websocket.Conn
}

// NewConnection wraps a gorilla/websocket connection
func NewConnection(conn *websocket.Conn) Connection {
	return gorillaConn{Conn: conn}
}

// RemoteAddr returns the remote network address as a string
func (c gorillaConn) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
