package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "launchdash/internal/errors"
	"launchdash/pkg/contracts/domain"
	"launchdash/pkg/contracts/events"
)

type decodedMessage struct {
	Type    string          `json:"type"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func drain(t *testing.T, c *Client) []decodedMessage {
	t.Helper()
	var out []decodedMessage
	for {
		select {
		case raw := <-c.send:
			var m decodedMessage
			require.NoError(t, json.Unmarshal(raw, &m))
			out = append(out, m)
		default:
			return out
		}
	}
}

func updateOutputs(t *testing.T, msgs []decodedMessage) []string {
	t.Helper()
	var outs []string
	for _, m := range msgs {
		require.Equal(t, string(events.MessageTypeChartUpdate), m.Type)
		var u struct {
			Output  string `json:"output"`
			Trigger string `json:"trigger"`
		}
		require.NoError(t, json.Unmarshal(m.Data, &u))
		outs = append(outs, u.Output)
	}
	return outs
}

func TestClientGreet(t *testing.T) {
	c := newTestClient(t, NewHub(discardLogger()), 16)

	require.NoError(t, c.Greet(context.Background()))
	msgs := drain(t, c)
	require.Len(t, msgs, 3)

	assert.Equal(t, string(events.MessageTypeConnection), msgs[0].Type)
	assert.Equal(t, "trace-1", msgs[0].TraceID)
	var conn events.ConnectionData
	require.NoError(t, json.Unmarshal(msgs[0].Data, &conn))
	assert.Equal(t, c.ID(), conn.ClientID)
	assert.Equal(t, domain.SiteAll, conn.Selection.Site)

	assert.Equal(t, []string{domain.OutputPieChart, domain.OutputScatterChart}, updateOutputs(t, msgs[1:]))
}

func TestClientHandleMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		wantOutputs []string
		wantError   string
	}{
		{
			name:        "site change updates both charts",
			message:     `{"type":"control:change","data":{"control":"site-dropdown","value":"A"}}`,
			wantOutputs: []string{domain.OutputPieChart, domain.OutputScatterChart},
		},
		{
			name:        "payload change updates scatter only",
			message:     `{"type":"control:change","data":{"control":"payload-slider","value":[1000,3000]}}`,
			wantOutputs: []string{domain.OutputScatterChart},
		},
		{
			name:      "unknown control",
			message:   `{"type":"control:change","data":{"control":"radio","value":"A"}}`,
			wantError: apierrors.CodeUnknownControl,
		},
		{
			name:      "invalid range",
			message:   `{"type":"control:change","data":{"control":"payload-slider","value":[1]}}`,
			wantError: apierrors.CodeValidationFailed,
		},
		{
			name:      "malformed json",
			message:   `{"type":`,
			wantError: apierrors.CodeInvalidRequest,
		},
		{
			name:      "unsupported type",
			message:   `{"type":"chart:update"}`,
			wantError: apierrors.CodeInvalidRequest,
		},
		{
			name:    "heartbeat is silent",
			message: `{"type":"heartbeat"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, NewHub(discardLogger()), 16)
			c.handleMessage(context.Background(), []byte(tt.message))
			msgs := drain(t, c)

			if tt.wantError != "" {
				require.Len(t, msgs, 1)
				assert.Equal(t, string(events.MessageTypeError), msgs[0].Type)
				var data events.ErrorData
				require.NoError(t, json.Unmarshal(msgs[0].Data, &data))
				assert.Equal(t, tt.wantError, data.Code)
				return
			}
			assert.Equal(t, tt.wantOutputs, updateOutputs(t, msgs))
		})
	}
}

func TestClientRejectedChangeKeepsSelection(t *testing.T) {
	c := newTestClient(t, NewHub(discardLogger()), 16)
	ctx := context.Background()

	c.handleMessage(ctx, []byte(`{"type":"control:change","data":{"control":"site-dropdown","value":"B"}}`))
	c.handleMessage(ctx, []byte(`{"type":"control:change","data":{"control":"payload-slider","value":"oops"}}`))
	drain(t, c)

	assert.Equal(t, "B", c.Session().Selection().Site)
}

func TestClientPumps(t *testing.T) {
	hub := NewHub(discardLogger())
	hub.Start()
	defer hub.Stop()

	conn := newFakeConn()
	c := NewClient(hub, conn, testDispatcher(t), ClientConfig{PingPeriod: time.Hour, PongWait: 2 * time.Hour}, "", discardLogger(), nil)
	hub.Register(c)
	go c.WritePump()
	go c.ReadPump(context.Background())

	conn.inbox <- []byte(`{"type":"control:change","data":{"control":"site-dropdown","value":"A"}}`)

	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.written) == 2
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 4096, conn.limit)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}
