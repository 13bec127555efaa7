package websocket

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"launchdash/internal/binding"
	"launchdash/internal/infrastructure"
	"launchdash/internal/shared/testutil"
)

var errConnClosed = errors.New("connection closed")

// fakeConn is an in-memory Connection. Reads come from the inbox channel and
// block until a message arrives or the connection is closed.
type fakeConn struct {
	mu      sync.Mutex
	written [][]byte
	closed  bool
	inbox   chan []byte
	done    chan struct{}
	limit   int64
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 16), done: make(chan struct{})}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errConnClosed
	}
	f.written = append(f.written, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-f.inbox:
		return 1, msg, nil
	case <-f.done:
		return 0, nil, io.EOF
	}
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
	}
	return nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetReadLimit(limit int64)         { f.limit = limit }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) RemoteAddr() string               { return "127.0.0.1:50000" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDispatcher(t *testing.T) *binding.Dispatcher {
	t.Helper()
	metrics, err := infrastructure.CreateDashboardMetrics(nil)
	require.NoError(t, err)
	return binding.NewDispatcher(binding.NewDashboardGraph(), testutil.ScenarioDataset(), discardLogger(), binding.WithMetrics(metrics))
}
