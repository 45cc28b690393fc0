package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// RigidTransform moves a whole resolved body: rotate about a pivot, scale,
// then translate. It realizes turning (Yaw), rolling (Roll) and locomotion
// drift (Translation).
type RigidTransform struct {
	// Roll rotates about the screen normal (z), in radians.
	Roll float64

	// Yaw rotates about the vertical axis (y), in radians.
	Yaw float64

	// Pivot is the rotation center in body-local coordinates.
	Pivot r3.Vec

	// PivotJoint, when set, overrides Pivot with that joint's resolved
	// position (typically the pelvis).
	PivotJoint string

	Translation r3.Vec

	// Scale is a uniform scale about the pivot. Zero means 1.
	Scale float64
}

// Identity returns the transform that leaves points unchanged.
func Identity() RigidTransform {
	return RigidTransform{}
}

// IsIdentity reports whether the transform leaves points unchanged.
func (tf RigidTransform) IsIdentity() bool {
	return tf.Roll == 0 && tf.Yaw == 0 && tf.Translation == (r3.Vec{}) &&
		(tf.Scale == 0 || tf.Scale == 1)
}

// Apply transforms points in place about pivot.
func (tf RigidTransform) Apply(points []r3.Vec, pivot r3.Vec) {
	if tf.IsIdentity() {
		return
	}

	scale := tf.Scale
	if scale == 0 {
		scale = 1
	}

	var yaw, roll r3.Rotation
	hasYaw := tf.Yaw != 0
	hasRoll := tf.Roll != 0
	if hasYaw {
		yaw = r3.NewRotation(tf.Yaw, axisY)
	}
	if hasRoll {
		roll = r3.NewRotation(tf.Roll, axisZ)
	}

	for i, p := range points {
		v := r3.Sub(p, pivot)
		if hasYaw {
			v = yaw.Rotate(v)
		}
		if hasRoll {
			v = roll.Rotate(v)
		}
		if scale != 1 {
			v = r3.Scale(scale, v)
		}
		points[i] = r3.Add(r3.Add(pivot, v), tf.Translation)
	}
}

// Trajectory yields the whole-body transform at a time. Implementations
// must be pure functions of t.
type Trajectory interface {
	At(t float64) RigidTransform
}

// Static is a trajectory that never changes.
type Static RigidTransform

// At returns the fixed transform.
func (s Static) At(float64) RigidTransform {
	return RigidTransform(s)
}

// Linear drifts and spins at constant rates from a base transform.
type Linear struct {
	Base RigidTransform

	// Velocity is the translation drift in meters per second.
	Velocity r3.Vec

	// YawRate and RollRate are in radians per second.
	YawRate  float64
	RollRate float64

	// Wrap, when positive, keeps the x drift inside [-Wrap, Wrap) so a
	// walker crossing the field re-enters from the other side.
	Wrap float64
}

// At returns the transform after t seconds.
func (l Linear) At(t float64) RigidTransform {
	tf := l.Base
	tf.Translation = r3.Add(tf.Translation, r3.Scale(t, l.Velocity))
	tf.Yaw += l.YawRate * t
	tf.Roll += l.RollRate * t
	if l.Wrap > 0 {
		tf.Translation.X = wrap(tf.Translation.X, l.Wrap)
	}
	return tf
}

// Turning spins the body about the pivot joint once every period seconds.
func Turning(period float64, pivotJoint string) Linear {
	return Linear{
		Base:    RigidTransform{PivotJoint: pivotJoint},
		YawRate: 2 * math.Pi / period,
	}
}

// Rolling turns the body clockwise about the pivot joint once every period
// seconds while advancing along +x without slipping on a circle of the given
// radius.
func Rolling(radius, period float64, pivotJoint string) Linear {
	rate := 2 * math.Pi / period
	return Linear{
		Base:     RigidTransform{PivotJoint: pivotJoint},
		Velocity: r3.Vec{X: radius * rate},
		RollRate: -rate,
	}
}

// wrap maps x into [-w, w).
func wrap(x, w float64) float64 {
	m := math.Mod(x+w, 2*w)
	if m < 0 {
		m += 2 * w
	}
	return m - w
}
