package action

import (
	"math"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r3"
)

// Modifiers tweak a built-in action. The zero value changes nothing.
type Modifiers struct {
	Weight Weight
	Mood   Mood

	// AmplitudeScale multiplies swing and stride amplitudes on top of the
	// weight and mood factors. Zero means 1.
	AmplitudeScale float64

	// SpeedScale multiplies cycle frequency on top of the weight and mood
	// factors. Zero means 1.
	SpeedScale float64

	// BaseYOffset raises (or lowers) every joint's baseline, in meters.
	BaseYOffset float64
}

type affect struct {
	amplitude float64
	speed     float64
	head      r3.Vec
	shoulders r3.Vec
}

var weights = map[Weight]affect{
	WeightHeavy: {amplitude: 0.8, speed: 0.8},
	WeightLight: {amplitude: 1.15, speed: 1.15},
}

var moods = map[Mood]affect{
	MoodSad: {
		amplitude: 0.85,
		speed:     0.85,
		head:      r3.Vec{Y: -0.06, Z: 0.04},
		shoulders: r3.Vec{Y: -0.03},
	},
	MoodHappy: {
		amplitude: 1.1,
		speed:     1.1,
		head:      r3.Vec{Y: 0.02},
		shoulders: r3.Vec{Y: 0.01},
	},
}

// Validate checks the modifier values.
func (m Modifiers) Validate() error {
	_, err := m.normalize()
	return err
}

// normalize validates m and returns it with canonical weight and mood.
func (m Modifiers) normalize() (Modifiers, error) {
	var err error
	if m.Weight, err = ParseWeight(string(m.Weight)); err != nil {
		return m, err
	}
	if m.Mood, err = ParseMood(string(m.Mood)); err != nil {
		return m, err
	}
	if m.AmplitudeScale < 0 || !finite(m.AmplitudeScale) {
		return m, errs.Config("action", "invalid amplitude scale %v", m.AmplitudeScale)
	}
	if m.SpeedScale < 0 || !finite(m.SpeedScale) {
		return m, errs.Config("action", "invalid speed scale %v", m.SpeedScale)
	}
	if !finite(m.BaseYOffset) {
		return m, errs.Config("action", "invalid base y offset %v", m.BaseYOffset)
	}
	return m, nil
}

// Amplitude returns the combined amplitude factor.
func (m Modifiers) Amplitude() float64 {
	a := orOne(m.AmplitudeScale)
	if w, ok := weights[m.Weight]; ok {
		a *= w.amplitude
	}
	if md, ok := moods[m.Mood]; ok {
		a *= md.amplitude
	}
	return a
}

// Speed returns the combined frequency factor.
func (m Modifiers) Speed() float64 {
	s := orOne(m.SpeedScale)
	if w, ok := weights[m.Weight]; ok {
		s *= w.speed
	}
	if md, ok := moods[m.Mood]; ok {
		s *= md.speed
	}
	return s
}

// Posture returns the baseline shift for a joint role.
func (m Modifiers) Posture(role skeleton.Role) r3.Vec {
	shift := r3.Vec{Y: m.BaseYOffset}
	md := moods[m.Mood]
	switch role {
	case skeleton.RoleHead:
		shift = r3.Add(shift, md.head)
	case skeleton.RoleShoulder:
		shift = r3.Add(shift, md.shoulders)
	}
	return shift
}

// applyProcedural scales amplitudes and frequencies and shifts baselines.
func (m Modifiers) applyProcedural(skel *skeleton.Skeleton, params []motion.MotionParams) {
	amp, speed := m.Amplitude(), m.Speed()
	for i := range params {
		p := &params[i]
		p.Amplitude = r3.Scale(amp, p.Amplitude)
		p.AngleAmp *= amp
		p.Frequency *= speed
		p.Baseline = r3.Add(p.Baseline, m.Posture(skel.Joint(i).Role))
	}
}

// applyKeyframes scales each keyframe's deviation from the first keyframe
// and shifts every pose by the posture offsets.
func (m Modifiers) applyKeyframes(skel *skeleton.Skeleton, frames []motion.Keyframe) {
	amp := m.Amplitude()
	ref := frames[0].Pose.Clone()
	for k := range frames {
		pose := frames[k].Pose
		for i := range pose.Offsets {
			dev := r3.Sub(pose.Offsets[i], ref.Offsets[i])
			pose.Offsets[i] = r3.Add(r3.Add(ref.Offsets[i], r3.Scale(amp, dev)), m.Posture(skel.Joint(i).Role))
		}
		for i := range pose.Angles {
			pose.Angles[i] = ref.Angles[i] + amp*(pose.Angles[i]-ref.Angles[i])
		}
	}
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
