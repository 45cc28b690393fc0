// Package hub fans frames out to websocket displays.
//
// One Hub serves one stream. The stimulus server runs a JSON hub for
// browsers and a CBOR hub for binary consumers. Every client owns a
// buffered send queue drained by its own write pump; a client whose queue
// is full is dropped rather than stalling the render loop.
package hub

import "github.com/gofiber/websocket/v2"

// Message is one websocket frame queued for delivery.
type Message struct {
	binary bool
	data   []byte
}

// Text wraps pre-encoded JSON.
func Text(data []byte) Message {
	return Message{data: data}
}

// Binary wraps an encoded binary frame, e.g. CBOR.
func Binary(data []byte) Message {
	return Message{binary: true, data: data}
}

// IsBinary reports whether m is sent as a binary frame.
func (m Message) IsBinary() bool { return m.binary }

// Bytes returns the payload.
func (m Message) Bytes() []byte { return m.data }

// opcode maps m to its websocket message type.
func (m Message) opcode() int {
	if m.binary {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
