package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/teslashibe/go-pointlight/internal/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// serve runs h behind a plain net/http websocket endpoint.
func serve(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if c := NewClient(h, conn); c != nil {
			c.Run()
		} else {
			conn.Close()
		}
	}))
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test").WithLogger(log.Discard())
	go h.Run(ctx)
	srv := serve(t, h)

	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, h, 2)
	assert.True(t, h.IsRunning())

	require.NoError(t, h.BroadcastJSON(map[string]int{"seq": 1}))
	h.BroadcastBinary([]byte{0x85, 0x01})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		mt, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, mt)
		assert.JSONEq(t, `{"seq":1}`, string(data))

		mt, data, err = conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.BinaryMessage, mt)
		assert.Equal(t, []byte{0x85, 0x01}, data)
	}

	require.NoError(t, a.Close())
	waitClients(t, h, 1)

	cancel()
	<-h.Done()
	assert.False(t, h.IsRunning())
	assert.Zero(t, h.ClientCount())

	// The hub closes remaining clients on shutdown.
	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
	b.Close()
	srv.Close()
}

func TestHub_InboundMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test").WithLogger(log.Discard())

	got := make(chan string, 1)
	h.OnMessage(func(c *Client, data []byte) {
		got <- string(data)
		c.Send(Text([]byte(`{"ack":true}`)))
	})
	go h.Run(ctx)
	srv := serve(t, h)

	conn := dial(t, srv)
	waitClients(t, h, 1)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"control"}`)))

	select {
	case msg := <-got:
		assert.Equal(t, `{"type":"control"}`, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound handler not called")
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ack":true}`, string(data))

	conn.Close()
	cancel()
	<-h.Done()
	srv.Close()
}

func TestHub_NewClientAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test").WithLogger(log.Discard())
	go h.Run(ctx)
	cancel()
	<-h.Done()

	assert.Nil(t, NewClient(h, nil))
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	h := New("test").WithLogger(log.Discard())
	// Not running: the queue fills and further broadcasts are dropped.
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Broadcast(Text([]byte("{}")))
	}
	assert.Equal(t, uint64(5), h.Dropped())
}
