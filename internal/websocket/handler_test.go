package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/internal/config"
	"launchdash/pkg/contracts/domain"
	"launchdash/pkg/contracts/events"
)

func TestHandlerEndToEnd(t *testing.T) {
	hub := NewHub(discardLogger())
	hub.Start()
	defer hub.Stop()

	h := NewHandler(hub, testDispatcher(t), config.Default().WebSocket, nil, discardLogger(), nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() decodedMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var m decodedMessage
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}

	assert.Equal(t, string(events.MessageTypeConnection), read().Type)
	assert.Equal(t, string(events.MessageTypeChartUpdate), read().Type)
	assert.Equal(t, string(events.MessageTypeChartUpdate), read().Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": "control:change",
		"data": map[string]interface{}{"control": "payload-slider", "value": []float64{0, 1000}},
	}))

	m := read()
	require.Equal(t, string(events.MessageTypeChartUpdate), m.Type)
	var update struct {
		Output string `json:"output"`
		Figure struct {
			Points []json.RawMessage `json:"points"`
		} `json:"figure"`
	}
	require.NoError(t, json.Unmarshal(m.Data, &update))
	assert.Equal(t, domain.OutputScatterChart, update.Output)
	assert.Len(t, update.Figure.Points, 1)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHandlerRejectsForeignOrigin(t *testing.T) {
	h := NewHandler(NewHub(discardLogger()), testDispatcher(t), config.Default().WebSocket,
		[]string{"http://allowed.example"}, discardLogger(), nil)

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://allowed.example", true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://dash.local/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, h.checkOrigin(req), tt.origin)
	}

	same := httptest.NewRequest(http.MethodGet, "http://dash.local/ws", nil)
	same.Header.Set("Origin", "http://dash.local")
	assert.True(t, h.checkOrigin(same))
}
