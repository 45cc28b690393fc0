package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// binaryFrame is the compact CBOR layout of FrameData: a 5-element array
// instead of a keyed map.
type binaryFrame struct {
	_       struct{} `cbor:",toarray"`
	Session string
	Seq     uint64
	Time    float64
	Action  string
	Points  [][2]float64
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeCBOR encodes a frame for binary WebSocket streams.
func EncodeCBOR(f *FrameData) ([]byte, error) {
	data, err := encMode.Marshal(binaryFrame{
		Session: f.Session,
		Seq:     f.Seq,
		Time:    f.Time,
		Action:  f.Action,
		Points:  f.Points,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}

// DecodeCBOR decodes a frame produced by EncodeCBOR.
func DecodeCBOR(data []byte) (*FrameData, error) {
	var bf binaryFrame
	if err := cbor.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &FrameData{
		Session: bf.Session,
		Seq:     bf.Seq,
		Time:    bf.Time,
		Action:  bf.Action,
		Points:  bf.Points,
	}, nil
}
