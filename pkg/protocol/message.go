// Package protocol defines the WebSocket message types for streaming point-light
// frames to displays and controlling the running stimulus.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Server → display messages
	TypeFrame  MessageType = "frame"  // One frame of marker positions
	TypeStatus MessageType = "status" // Sequence status

	// Display → server messages
	TypeControl MessageType = "control" // Start/stop/reset/select

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Server → Display Message Types
// =============================================================================

// FrameData carries one frame. Points are in display units, one per
// skeleton joint, in skeleton order.
type FrameData struct {
	Session string       `json:"session"`          // Sequence ID
	Seq     uint64       `json:"seq"`              // Frame counter within the session
	Time    float64      `json:"t"`                // Simulated seconds
	Action  string       `json:"action,omitempty"` // e.g. "walking"
	Points  [][2]float64 `json:"points"`
}

// StatusData describes the running sequence
type StatusData struct {
	Session string  `json:"session"`
	Action  string  `json:"action"`
	State   string  `json:"state"` // "idle", "running"
	Elapsed float64 `json:"elapsed"`
	Frames  uint64  `json:"frames"`
	Markers int     `json:"markers"`
	Period  float64 `json:"period,omitempty"`
	Clients int     `json:"clients"`
}

// =============================================================================
// Display → Server Message Types
// =============================================================================

// Control commands
const (
	CommandStart  = "start"
	CommandStop   = "stop"
	CommandReset  = "reset"
	CommandSelect = "select"
)

// ControlData asks the server to change the sequence. Select replaces the
// sequence with a new action and modifiers.
type ControlData struct {
	Command string   `json:"command"`
	Action  string   `json:"action,omitempty"`
	Weight  string   `json:"weight,omitempty"`
	Mood    string   `json:"mood,omitempty"`
	Speed   float64  `json:"speed,omitempty"`
	Loop    *bool    `json:"loop,omitempty"`
	Scale   *float64 `json:"scale,omitempty"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData for health checks
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData for health check responses
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
