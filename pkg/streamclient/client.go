// Package streamclient connects to a stimulus server's frame stream.
//
// It reads both the JSON stream (/ws/frames) and the CBOR stream
// (/ws/frames/cbor) and can record frames as JSON lines.
package streamclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-pointlight/pkg/protocol"
)

// HandshakeTimeout bounds the websocket handshake.
const HandshakeTimeout = 10 * time.Second

// Client reads frames from a stimulus server.
type Client struct {
	ws   *websocket.Conn
	wsMu sync.Mutex // serializes writes

	statusMu sync.Mutex
	status   *protocol.StatusData

	closeOnce sync.Once
}

// Dial connects to url, e.g. ws://localhost:8080/ws/frames.
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: HandshakeTimeout,
	}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Client{ws: ws}, nil
}

// Next blocks until the next frame arrives. Status messages are kept
// for Status and skipped.
func (c *Client) Next() (*protocol.FrameData, error) {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}

		if mt == websocket.BinaryMessage {
			return protocol.DecodeCBOR(data)
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			return nil, err
		}
		switch msg.Type {
		case protocol.TypeFrame:
			return msg.GetFrameData()
		case protocol.TypeStatus:
			st, err := msg.GetStatusData()
			if err != nil {
				return nil, err
			}
			c.statusMu.Lock()
			c.status = st
			c.statusMu.Unlock()
		}
	}
}

// Status returns the last status seen by Next, or nil.
func (c *Client) Status() *protocol.StatusData {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	return c.status
}

// Control sends a control command. Only the JSON stream accepts commands.
func (c *Client) Control(ctrl protocol.ControlData) error {
	msg, err := protocol.NewControlMessage(ctrl)
	if err != nil {
		return err
	}
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.wsMu.Lock()
	defer c.wsMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Record writes up to n frames to w as JSON lines; n <= 0 records until
// ctx is canceled or the stream ends. It returns the number of frames
// written. Cancellation and a clean close by the server are not errors.
func (c *Client) Record(ctx context.Context, w io.Writer, n int) (int, error) {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	enc := json.NewEncoder(w)
	count := 0
	for n <= 0 || count < n {
		f, err := c.Next()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return count, nil
			}
			return count, err
		}
		if err := enc.Encode(f); err != nil {
			return count, fmt.Errorf("write frame %d: %w", count, err)
		}
		count++
	}
	return count, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.wsMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.wsMu.Unlock()
		if cerr := c.ws.Close(); cerr != nil && !errors.Is(cerr, io.EOF) {
			err = cerr
		}
	})
	return err
}
