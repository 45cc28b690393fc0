package motion

import (
	"math"
	"strings"

	"github.com/teslashibe/go-pointlight/pkg/errs"
)

// Easing selects how a keyframe source moves between two keyframes.
type Easing int

const (
	// EaseLinear blends at constant speed.
	EaseLinear Easing = iota

	// EaseCosine starts and ends slowly: 0.5 - 0.5*cos(pi*u).
	EaseCosine

	// EaseHermite runs a Catmull-Rom cubic through the keyframes on either
	// side of the bracketing pair, giving continuous velocity across keys.
	EaseHermite
)

// String returns the easing name.
func (e Easing) String() string {
	switch e {
	case EaseLinear:
		return "linear"
	case EaseCosine:
		return "cosine"
	case EaseHermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// ParseEasing maps a name to an Easing.
func ParseEasing(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return EaseLinear, nil
	case "cosine", "ease-in-out":
		return EaseCosine, nil
	case "hermite", "cubic", "catmull-rom":
		return EaseHermite, nil
	default:
		return EaseLinear, errs.Config("easing", "unknown easing %q", name)
	}
}

// Apply remaps u in [0,1] for the two-point easings.
// EaseHermite is handled by the keyframe source and maps u to itself here.
func (e Easing) Apply(u float64) float64 {
	u = clamp(u, 0, 1)
	switch e {
	case EaseCosine:
		return 0.5 - 0.5*math.Cos(math.Pi*u)
	default:
		return u
	}
}

// catmullRom evaluates the uniform Catmull-Rom segment between p1 and p2.
func catmullRom(p0, p1, p2, p3, u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return 0.5 * ((2 * p1) +
		(-p0+p2)*u +
		(2*p0-5*p1+4*p2-p3)*u2 +
		(-p0+3*p1-3*p2+p3)*u3)
}

// lerp performs linear interpolation.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
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
