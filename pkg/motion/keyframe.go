package motion

import (
	"math"
	"sort"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Keyframe is a named pose pinned to a phase in [0,1].
type Keyframe struct {
	Name  string
	Phase float64
	Pose  Pose
}

// KeyframeSet is an ordered run of keyframes covering one cycle.
type KeyframeSet struct {
	Frames []Keyframe

	// Cyclic sets blend from the last keyframe back into the first.
	// Non-cyclic sets hold the first and last poses outside their range.
	Cyclic bool
}

// KeyframeSource blends between keyframes.
type KeyframeSource struct {
	frames []Keyframe
	cyclic bool
	closed bool // cyclic with keys at both 0 and 1
	period float64
	easing Easing
	joints int
}

// NewKeyframeSource validates set and builds a source that plays it once
// every period seconds.
func NewKeyframeSource(set KeyframeSet, period float64, easing Easing) (*KeyframeSource, error) {
	n := len(set.Frames)
	if n < 2 {
		return nil, errs.Config("keyframe", "need at least 2 keyframes, got %d", n)
	}
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, errs.Config("keyframe", "invalid period %v", period)
	}
	if easing < EaseLinear || easing > EaseHermite {
		return nil, errs.Config("keyframe", "unknown easing %d", easing)
	}

	joints := set.Frames[0].Pose.Len()
	if joints == 0 {
		return nil, errs.Config("keyframe", "keyframe %q has an empty pose", set.Frames[0].Name)
	}

	frames := make([]Keyframe, n)
	for i, kf := range set.Frames {
		if kf.Phase < 0 || kf.Phase > 1 || math.IsNaN(kf.Phase) {
			return nil, errs.Config("keyframe", "keyframe %q phase %v outside [0,1]", kf.Name, kf.Phase)
		}
		if i > 0 && kf.Phase <= set.Frames[i-1].Phase {
			return nil, errs.Config("keyframe", "keyframe %q phase %v not after %v", kf.Name, kf.Phase, set.Frames[i-1].Phase)
		}
		if kf.Pose.Len() != joints {
			return nil, errs.Config("keyframe", "keyframe %q has %d joints, want %d", kf.Name, kf.Pose.Len(), joints)
		}

		pose := kf.Pose.Clone()
		switch len(pose.Angles) {
		case joints:
		case 0:
			pose.Angles = make([]float64, joints)
		default:
			return nil, errs.Config("keyframe", "keyframe %q has %d angles, want %d", kf.Name, len(pose.Angles), joints)
		}
		frames[i] = Keyframe{Name: kf.Name, Phase: kf.Phase, Pose: pose}
	}

	return &KeyframeSource{
		frames: frames,
		cyclic: set.Cyclic,
		closed: set.Cyclic && frames[0].Phase == 0 && frames[n-1].Phase == 1,
		period: period,
		easing: easing,
		joints: joints,
	}, nil
}

// Joints returns the number of joints per pose.
func (s *KeyframeSource) Joints() int {
	return s.joints
}

// Period returns the cycle length in seconds.
func (s *KeyframeSource) Period() float64 {
	return s.period
}

// Cyclic reports whether the set loops back onto its first keyframe.
func (s *KeyframeSource) Cyclic() bool {
	return s.cyclic
}

// Keyframes returns a copy of the keyframes.
func (s *KeyframeSource) Keyframes() []Keyframe {
	out := make([]Keyframe, len(s.frames))
	for i, kf := range s.frames {
		out[i] = Keyframe{Name: kf.Name, Phase: kf.Phase, Pose: kf.Pose.Clone()}
	}
	return out
}

// Sample returns the pose at t seconds; t wraps modulo the period.
func (s *KeyframeSource) Sample(t float64) Pose {
	return s.SamplePhase(s.phaseOf(t))
}

// Final returns the pose at phase 1.
func (s *KeyframeSource) Final() Pose {
	return s.SamplePhase(1)
}

// phaseOf normalizes t into [0,1).
func (s *KeyframeSource) phaseOf(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	m := math.Mod(t, s.period)
	if m < 0 {
		m += s.period
	}
	p := m / s.period
	if p >= 1 {
		p = 0
	}
	return p
}

// SamplePhase returns the pose at phase p in [0,1].
func (s *KeyframeSource) SamplePhase(p float64) Pose {
	if math.IsNaN(p) {
		p = 0
	}
	p = clamp(p, 0, 1)

	frames := s.frames
	n := len(frames)
	last := n - 1

	// i is the last keyframe at or before p.
	i := sort.Search(n, func(k int) bool {
		return frames[k].Phase > p
	}) - 1

	if i < 0 {
		if !s.cyclic {
			return frames[0].Pose.Clone()
		}
		span := frames[0].Phase + 1 - frames[last].Phase
		return s.blend(last, 0, (p+1-frames[last].Phase)/span)
	}
	if p == frames[i].Phase {
		return frames[i].Pose.Clone()
	}
	if i == last {
		span := frames[0].Phase + 1 - frames[last].Phase
		if !s.cyclic || span <= 0 {
			return frames[last].Pose.Clone()
		}
		return s.blend(last, 0, (p-frames[last].Phase)/span)
	}

	u := (p - frames[i].Phase) / (frames[i+1].Phase - frames[i].Phase)
	return s.blend(i, i+1, u)
}

// blend interpolates from keyframe a to keyframe b at local parameter u.
func (s *KeyframeSource) blend(a, b int, u float64) Pose {
	if u <= 0 {
		return s.frames[a].Pose.Clone()
	}
	u = clamp(u, 0, 1)

	pa := s.frames[a].Pose
	pb := s.frames[b].Pose
	out := NewPose(s.joints)

	if s.easing == EaseHermite {
		p0 := s.frames[s.prev(a)].Pose
		p3 := s.frames[s.next(b)].Pose
		for j := 0; j < s.joints; j++ {
			out.Offsets[j] = r3.Vec{
				X: catmullRom(p0.Offsets[j].X, pa.Offsets[j].X, pb.Offsets[j].X, p3.Offsets[j].X, u),
				Y: catmullRom(p0.Offsets[j].Y, pa.Offsets[j].Y, pb.Offsets[j].Y, p3.Offsets[j].Y, u),
				Z: catmullRom(p0.Offsets[j].Z, pa.Offsets[j].Z, pb.Offsets[j].Z, p3.Offsets[j].Z, u),
			}
			out.Angles[j] = catmullRom(p0.Angles[j], pa.Angles[j], pb.Angles[j], p3.Angles[j], u)
		}
		return out
	}

	e := s.easing.Apply(u)
	for j := 0; j < s.joints; j++ {
		out.Offsets[j] = r3.Add(pa.Offsets[j], r3.Scale(e, r3.Sub(pb.Offsets[j], pa.Offsets[j])))
		out.Angles[j] = lerp(pa.Angles[j], pb.Angles[j], e)
	}
	return out
}

// prev returns the control keyframe before i for Hermite blending.
func (s *KeyframeSource) prev(i int) int {
	switch {
	case i > 0:
		return i - 1
	case !s.cyclic:
		return 0
	case s.closed:
		return len(s.frames) - 2
	default:
		return len(s.frames) - 1
	}
}

// next returns the control keyframe after i for Hermite blending.
func (s *KeyframeSource) next(i int) int {
	last := len(s.frames) - 1
	switch {
	case i < last:
		return i + 1
	case !s.cyclic:
		return last
	case s.closed:
		return 1
	default:
		return 0
	}
}
