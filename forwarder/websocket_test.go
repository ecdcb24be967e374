package forwarder

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	return conn
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()
	typ, b, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	return string(b)
}

func TestWebSocketForwarder(t *testing.T) {
	ws := NewWebSocketForwarder(&WebSocketConfig{})
	assert.Equal(t, defaultWebSocketPath, ws.Config.Path)

	srv := httptest.NewServer(ws)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, ws.Forward([]byte(`{"a":1}`)))

	conn := dial(t, ctx, srv.URL)
	defer conn.CloseNow()

	// the latest payload is sent on connect
	assert.Equal(t, `{"a":1}`, read(t, ctx, conn))
	assert.Equal(t, 1, ws.Clients())

	require.NoError(t, ws.Forward([]byte(`{"a":2}`)))
	assert.Equal(t, `{"a":2}`, read(t, ctx, conn))

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool { return ws.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketForwarderBroadcast(t *testing.T) {
	ws := NewWebSocketForwarder(&WebSocketConfig{Path: "/dash"})
	srv := httptest.NewServer(ws)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, ws.Forward([]byte("0")))
	first := dial(t, ctx, srv.URL)
	defer first.CloseNow()
	second := dial(t, ctx, srv.URL)
	defer second.CloseNow()
	assert.Equal(t, "0", read(t, ctx, first))
	assert.Equal(t, "0", read(t, ctx, second))

	require.NoError(t, ws.Forward([]byte("1")))
	assert.Equal(t, "1", read(t, ctx, first))
	assert.Equal(t, "1", read(t, ctx, second))
}

func TestClientKeepsLatest(t *testing.T) {
	c := &client{send: make(chan []byte, 1)}
	c.push([]byte("1"))
	c.push([]byte("2"))
	c.push([]byte("3"))
	assert.Equal(t, []byte("3"), <-c.send)
	assert.Empty(t, c.send)
}

func TestWebSocketForwarderStart(t *testing.T) {
	ws := NewWebSocketForwarder(&WebSocketConfig{Address: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ws.Start(ctx)
	}()
	cancel()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("forwarder did not stop")
	}
}
