package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func TestHub_RegisterPublishUnregister(t *testing.T) {
	hub := startHub(t)

	client := &Client{hub: hub, send: make(chan []byte, 1), UserID: 7}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.ConnectionCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishEvent(7, []byte(`{"event_type":"folder_created"}`))
	hub.PublishEvent(8, []byte(`ignored`))
	require.Equal(t, `{"event_type":"folder_created"}`, string(<-client.send))

	hub.leave(client)
	require.Eventually(t, func() bool { return hub.ConnectionCount(7) == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	require.False(t, open)
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	hub := startHub(t)

	client := &Client{hub: hub, send: make(chan []byte, 1), UserID: 1}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.ConnectionCount(1) == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishEvent(1, []byte("first"))
	hub.PublishEvent(1, []byte("second"))

	require.Equal(t, "first", string(<-client.send))
	require.Empty(t, client.send)
}

func TestHub_JoinAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1), UserID: 1}
	require.True(t, hub.Join(client))

	cancel()
	<-stopped

	_, open := <-client.send
	require.False(t, open, "stopping the hub closes live clients")
	require.False(t, hub.Join(&Client{hub: hub, send: make(chan []byte, 1), UserID: 2}))
}

func TestClient_WritePumpDeliversEvents(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader(nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, 5)
		if !hub.Join(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(5) == 1 }, time.Second, 10*time.Millisecond)
	hub.PublishEvent(5, []byte("refresh"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "refresh", string(msg))
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://app.example.com")
	require.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example.com")
	require.False(t, upgrader.CheckOrigin(req))

	require.True(t, NewUpgrader([]string{"*"}).CheckOrigin(req))
}
