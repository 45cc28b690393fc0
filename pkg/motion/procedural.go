package motion

import (
	"math"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Procedural generates poses from per-joint sine oscillators.
type Procedural struct {
	params []MotionParams
}

// NewProcedural builds a procedural source with one MotionParams per joint.
func NewProcedural(params []MotionParams) (*Procedural, error) {
	if len(params) == 0 {
		return nil, errs.Config("procedural", "no joint parameters")
	}
	for i, p := range params {
		if p.Frequency < 0 || math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) {
			return nil, errs.Config("procedural", "joint %d has invalid frequency %v", i, p.Frequency)
		}
	}

	cp := make([]MotionParams, len(params))
	copy(cp, params)
	return &Procedural{params: cp}, nil
}

// Joints returns the number of joints.
func (s *Procedural) Joints() int {
	return len(s.params)
}

// Params returns a copy of the parameter table.
func (s *Procedural) Params() []MotionParams {
	out := make([]MotionParams, len(s.params))
	copy(out, s.params)
	return out
}

// Sample returns the pose at t seconds.
func (s *Procedural) Sample(t float64) Pose {
	pose := NewPose(len(s.params))
	for i, p := range s.params {
		if p.Frequency == 0 {
			pose.Offsets[i] = p.Baseline
			pose.Angles[i] = p.AngleBase
			continue
		}

		w := math.Sin(2*math.Pi*p.Frequency*t + p.Phase)
		pose.Offsets[i] = r3.Add(p.Baseline, scaleAxes(p.Amplitude, w))
		pose.Angles[i] = p.AngleBase + p.AngleAmp*w
	}
	return pose
}

// scaleAxes multiplies each axis amplitude by the same oscillator value.
func scaleAxes(amp r3.Vec, w float64) r3.Vec {
	return r3.Vec{X: amp.X * w, Y: amp.Y * w, Z: amp.Z * w}
}
