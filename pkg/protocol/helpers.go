package protocol

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// Points converts projected markers to wire points.
func Points(frame []r2.Vec) [][2]float64 {
	out := make([][2]float64, len(frame))
	for i, p := range frame {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// Vecs converts wire points back to markers.
func (f *FrameData) Vecs() []r2.Vec {
	out := make([]r2.Vec, len(f.Points))
	for i, p := range f.Points {
		out[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return out
}

// NewFrameMessage creates a frame message
func NewFrameMessage(frame FrameData) (*Message, error) {
	return NewMessage(TypeFrame, frame)
}

// NewStatusMessage creates a status message
func NewStatusMessage(status StatusData) (*Message, error) {
	return NewMessage(TypeStatus, status)
}

// NewControlMessage creates a control message
func NewControlMessage(ctrl ControlData) (*Message, error) {
	return NewMessage(TypeControl, ctrl)
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) {
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatusData extracts status data from a message
func (m *Message) GetStatusData() (*StatusData, error) {
	var data StatusData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetControlData extracts a control command from a message
func (m *Message) GetControlData() (*ControlData, error) {
	var data ControlData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
