package streamclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/teslashibe/go-pointlight/pkg/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func frame(seq uint64) protocol.FrameData {
	return protocol.FrameData{
		Session: "s1",
		Seq:     seq,
		Time:    float64(seq) / 30,
		Action:  "walking",
		Points:  [][2]float64{{0, 1.65}, {0.2, 1.4}},
	}
}

// streamServer sends a status, n frames and a close frame.
func streamServer(t *testing.T, n int, binary bool) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		st, _ := protocol.NewStatusMessage(protocol.StatusData{Session: "s1", Action: "walking", State: "running", Markers: 2})
		data, _ := st.Bytes()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
		for i := 1; i <= n; i++ {
			f := frame(uint64(i))
			if binary {
				data, _ = protocol.EncodeCBOR(&f)
				err = conn.WriteMessage(websocket.BinaryMessage, data)
			} else {
				msg, _ := protocol.NewFrameMessage(f)
				data, _ = msg.Bytes()
				err = conn.WriteMessage(websocket.TextMessage, data)
			}
			if err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// Wait for the client to go away.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNext_JSONAndBinary(t *testing.T) {
	for _, binary := range []bool{false, true} {
		srv := streamServer(t, 2, binary)
		c, err := Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)

		f, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, frame(1), *f)
		require.NotNil(t, c.Status())
		assert.Equal(t, "walking", c.Status().Action)

		f, err = c.Next()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), f.Seq)

		_, err = c.Next()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

		require.NoError(t, c.Close())
		srv.Close()
	}
}

func TestRecord_Limit(t *testing.T) {
	srv := streamServer(t, 5, false)
	defer srv.Close()
	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var buf bytes.Buffer
	n, err := c.Record(context.Background(), &buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var seqs []uint64
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var f protocol.FrameData
		require.NoError(t, json.Unmarshal(sc.Bytes(), &f))
		seqs = append(seqs, f.Seq)
	}
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
}

func TestRecord_UntilServerCloses(t *testing.T) {
	srv := streamServer(t, 4, true)
	defer srv.Close()
	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var buf bytes.Buffer
	n, err := c.Record(context.Background(), &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
}

func TestRecord_Canceled(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Never send a frame; wait for the client to leave.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	n, err := c.Record(ctx, &bytes.Buffer{}, 0)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestControl(t *testing.T) {
	got := make(chan *protocol.ControlData, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			return
		}
		ctrl, _ := msg.GetControlData()
		got <- ctrl
		conn.ReadMessage()
	}))
	defer srv.Close()

	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)
	require.NoError(t, c.Control(protocol.ControlData{Command: protocol.CommandSelect, Action: "bowing", Mood: "sad"}))

	select {
	case ctrl := <-got:
		assert.Equal(t, "bowing", ctrl.Action)
		assert.Equal(t, "sad", ctrl.Mood)
	case <-time.After(2 * time.Second):
		t.Fatal("control not received")
	}
	require.NoError(t, c.Close())
}

func TestDial_Fails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := Dial(context.Background(), wsURL(srv))
	assert.Error(t, err)
}
