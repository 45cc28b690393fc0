// Package motion generates body-local poses over time.
//
// A Source maps elapsed time to a Pose. Two strategies are provided:
//   - Procedural: per-joint sine oscillators summed onto a baseline (walking,
//     running, jumping, waving)
//   - Keyframe: named poses blended with an easing law (bowing, sitting,
//     lying, rolling)
//
// Sources hold no mutable state. Sample(t) is a pure function of t, so frames
// may be computed out of order or from several goroutines.
package motion

import "gonum.org/v1/gonum/spatial/r3"

// Pose is one body configuration, index-aligned with a skeleton.
//
// Offsets are body-local positions in meters, used by offset-mode joints and
// as targets by reach-mode joints. Angles are articulation angles in radians,
// used by chain-mode joints.
type Pose struct {
	Offsets []r3.Vec
	Angles  []float64
}

// NewPose returns a zero pose for n joints.
func NewPose(n int) Pose {
	return Pose{
		Offsets: make([]r3.Vec, n),
		Angles:  make([]float64, n),
	}
}

// Len returns the number of joints in the pose.
func (p Pose) Len() int {
	return len(p.Offsets)
}

// Clone returns a deep copy.
func (p Pose) Clone() Pose {
	out := Pose{
		Offsets: make([]r3.Vec, len(p.Offsets)),
		Angles:  make([]float64, len(p.Angles)),
	}
	copy(out.Offsets, p.Offsets)
	copy(out.Angles, p.Angles)
	return out
}

// Source produces poses over time.
type Source interface {
	// Sample returns the pose at t seconds. Same t, same pose.
	Sample(t float64) Pose

	// Joints returns the number of joints in every sampled pose.
	Joints() int
}

// Finite is implemented by sources with a fixed cycle length.
type Finite interface {
	Source

	// Period returns the cycle length in seconds.
	Period() float64

	// Final returns the pose at the end of the cycle.
	Final() Pose
}

// MotionParams drives one joint of a Procedural source.
type MotionParams struct {
	// Baseline is the rest offset the oscillation is centered on.
	Baseline r3.Vec

	// Amplitude is the peak deviation per axis. Zero means static.
	Amplitude r3.Vec

	// Frequency in Hz. Must be >= 0; 0 means constant.
	Frequency float64

	// Phase offset in radians.
	Phase float64

	// AngleBase and AngleAmp drive the articulation angle of chain-mode
	// joints with the same frequency and phase.
	AngleBase float64
	AngleAmp  float64
}
