package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const ikEpsilon = 1e-12

// SolveTwoBone places a two-bone limb (e.g., shoulder-elbow-wrist) so that
// the end reaches toward target from root.
//
// The reach distance is clamped into [|upper-lower|, upper+lower]: an
// unreachable target yields the nearest reachable pose along the same
// direction. The middle joint bends toward +bend around the z axis (bend
// >= 0 bends counter-clockwise, < 0 clockwise).
func SolveTwoBone(root, target r3.Vec, upper, lower, bend float64) (mid, end r3.Vec) {
	return SolveTwoBoneAxis(root, target, upper, lower, bend, axisZ)
}

// SolveTwoBoneAxis is SolveTwoBone with the bend plane normal given by axis.
// Legs striding along z bend around the x axis.
func SolveTwoBoneAxis(root, target r3.Vec, upper, lower, bend float64, axis r3.Vec) (mid, end r3.Vec) {
	d := r3.Sub(target, root)
	dist := r3.Norm(d)

	dir := r3.Vec{Y: -1}
	if dist > ikEpsilon {
		dir = r3.Scale(1/dist, d)
	}

	if r3.Norm(axis) < ikEpsilon {
		axis = axisZ
	}
	perp := r3.Cross(axis, dir)
	if r3.Norm(perp) < 1e-9 {
		// Target along the axis: any direction normal to it will do.
		perp = r3.Cross(axis, r3.Vec{Y: -1})
		if r3.Norm(perp) < 1e-9 {
			perp = r3.Vec{X: 1}
		}
	}
	perp = r3.Unit(perp)
	if bend < 0 {
		perp = r3.Scale(-1, perp)
	}

	reach := clamp(dist, math.Abs(upper-lower), upper+lower)
	if reach < ikEpsilon {
		// Fully folded: end returns to the root.
		return r3.Add(root, r3.Scale(upper, perp)), root
	}

	end = r3.Add(root, r3.Scale(reach, dir))

	// Distance along dir to the foot of the middle joint, then its height.
	x := (upper*upper - lower*lower + reach*reach) / (2 * reach)
	h := math.Sqrt(math.Max(0, upper*upper-x*x))
	mid = r3.Add(root, r3.Add(r3.Scale(x, dir), r3.Scale(h, perp)))
	return mid, end
}

// clamp restricts v to the range [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
