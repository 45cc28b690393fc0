package action

import (
	"math"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/kinematics"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r3"
)

// BuildFunc builds a preset for a skeleton. Modifiers arrive validated.
type BuildFunc func(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error)

var builtins = map[Name]struct {
	description string
	build       BuildFunc
}{
	Walking: {"steady gait seen from the side, arms swinging against the legs", buildWalking},
	Running: {"fast gait with body lean, flexed arms and high knee lift", buildRunning},
	Jumping: {"repeated vertical jumps with arms raised at the apex", buildJumping},
	Waving:  {"standing figure waving the right hand overhead", buildWaving},
	Turning: {"figure stepping in place while turning about the vertical axis", buildTurning},
	Bowing:  {"bow from the hips and return upright", buildBowing},
	Sitting: {"sit down onto a chair and hold", buildSitting},
	Lying:   {"lower to the ground and lie flat", buildLying},
	Rolling: {"tucked body rolling forward across the field", buildRolling},
}

var (
	profile = kinematics.RigidTransform{Yaw: ProfileYaw, PivotJoint: skeleton.Pelvis}

	// Knees bend forward around the lateral axis.
	legBinding = kinematics.Binding{Mode: kinematics.ModeReach, Bend: -1, Axis: r3.Vec{X: 1}}

	// Elbows point backward.
	armBinding = kinematics.Binding{Mode: kinematics.ModeReach, Bend: 1, Axis: r3.Vec{X: 1}}
)

var (
	torso = []string{skeleton.Head, skeleton.Neck, skeleton.LShoulder, skeleton.RShoulder,
		skeleton.Pelvis, skeleton.LHip, skeleton.RHip}
	everyJoint = []string{skeleton.Head, skeleton.Neck, skeleton.LShoulder, skeleton.RShoulder,
		skeleton.LElbow, skeleton.RElbow, skeleton.LWrist, skeleton.RWrist, skeleton.Pelvis,
		skeleton.LHip, skeleton.RHip, skeleton.LKnee, skeleton.RKnee, skeleton.LAnkle, skeleton.RAnkle}
)

// table is a MotionParams table seeded with the skeleton's rest pose.
type table struct {
	skel   *skeleton.Skeleton
	params []motion.MotionParams
	err    error
}

func newTable(skel *skeleton.Skeleton) *table {
	rest := skel.Rest()
	params := make([]motion.MotionParams, len(rest))
	for i, p := range rest {
		params[i].Baseline = p
	}
	return &table{skel: skel, params: params}
}

func (t *table) set(fn func(p *motion.MotionParams), ids ...string) {
	for _, id := range ids {
		if t.err != nil {
			return
		}
		i, ok := t.skel.Index(id)
		if !ok {
			t.err = errs.Config("action", "skeleton has no joint %q", id)
			return
		}
		fn(&t.params[i])
	}
}

// source applies mods and builds the procedural source.
func (t *table) source(mods Modifiers) (*motion.Procedural, error) {
	if t.err != nil {
		return nil, t.err
	}
	mods.applyProcedural(t.skel, t.params)
	return motion.NewProcedural(t.params)
}

func oscillate(freq, phase float64, amp r3.Vec) func(*motion.MotionParams) {
	return func(p *motion.MotionParams) {
		p.Frequency = freq
		p.Phase = phase
		p.Amplitude = amp
	}
}

func shift(d r3.Vec) func(*motion.MotionParams) {
	return func(p *motion.MotionParams) {
		p.Baseline = r3.Add(p.Baseline, d)
	}
}

func buildWalking(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const f = 1.0
	t := newTable(skel)

	t.set(oscillate(f, 0, r3.Vec{Z: 0.25}), skeleton.LAnkle)
	t.set(oscillate(f, math.Pi, r3.Vec{Z: 0.25}), skeleton.RAnkle)
	t.set(oscillate(f, math.Pi, r3.Vec{Z: 0.18}), skeleton.LWrist)
	t.set(oscillate(f, 0, r3.Vec{Z: 0.18}), skeleton.RWrist)
	t.set(oscillate(f, math.Pi, r3.Vec{Z: 0.08}), skeleton.LElbow)
	t.set(oscillate(f, 0, r3.Vec{Z: 0.08}), skeleton.RElbow)
	t.set(oscillate(2*f, math.Pi/2, r3.Vec{Y: 0.015}), torso...)

	src, err := t.source(mods)
	if err != nil {
		return nil, err
	}
	return &Preset{
		Source:     src,
		Bindings:   map[string]kinematics.Binding{skeleton.LAnkle: legBinding, skeleton.RAnkle: legBinding},
		Trajectory: kinematics.Static(profile),
		Projection: projection.Orthographic,
		Period:     1 / (f * mods.Speed()),
		Loop:       true,
	}, nil
}

func buildRunning(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const f = 1.4
	t := newTable(skel)

	t.set(shift(r3.Vec{Y: 0.12}), skeleton.LAnkle, skeleton.RAnkle)
	t.set(oscillate(f, 0, r3.Vec{Y: 0.1, Z: 0.35}), skeleton.LAnkle)
	t.set(oscillate(f, math.Pi, r3.Vec{Y: 0.1, Z: 0.35}), skeleton.RAnkle)

	// Forearms held up, swinging against the legs.
	t.set(shift(r3.Vec{Y: 0.19, Z: 0.15}), skeleton.LWrist, skeleton.RWrist)
	t.set(oscillate(f, math.Pi, r3.Vec{Z: 0.2}), skeleton.LWrist)
	t.set(oscillate(f, 0, r3.Vec{Z: 0.2}), skeleton.RWrist)

	t.set(shift(r3.Vec{Z: 0.08}), skeleton.Head)
	t.set(shift(r3.Vec{Z: 0.05}), skeleton.Neck, skeleton.LShoulder, skeleton.RShoulder)
	t.set(oscillate(2*f, math.Pi/2, r3.Vec{Y: 0.03}), torso...)

	src, err := t.source(mods)
	if err != nil {
		return nil, err
	}
	return &Preset{
		Source: src,
		Bindings: map[string]kinematics.Binding{
			skeleton.LAnkle: legBinding, skeleton.RAnkle: legBinding,
			skeleton.LWrist: armBinding, skeleton.RWrist: armBinding,
		},
		Trajectory: kinematics.Static(profile),
		Projection: projection.Orthographic,
		Period:     1 / (f * mods.Speed()),
		Loop:       true,
	}, nil
}

func buildJumping(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const f = 0.8
	// Phase -pi/2 starts every joint at its lowest point: the rest pose.
	const start = -math.Pi / 2
	t := newTable(skel)

	const hop = 0.2
	t.set(shift(r3.Vec{Y: hop}), everyJoint...)
	t.set(oscillate(f, start, r3.Vec{Y: hop}), everyJoint...)

	// Arms sweep out and up to a raised V at the apex. Each wrist stays on
	// the line from its shoulder through its elbow, so the arms stay straight.
	const reach = 0.57 / 0.3
	elbow := r3.Vec{X: 0.075, Y: 0.28}
	t.set(shift(r3.Vec{X: -elbow.X, Y: elbow.Y}), skeleton.LElbow)
	t.set(shift(elbow), skeleton.RElbow)
	t.set(oscillate(f, start, r3.Vec{X: -elbow.X, Y: elbow.Y + hop}), skeleton.LElbow)
	t.set(oscillate(f, start, r3.Vec{X: elbow.X, Y: elbow.Y + hop}), skeleton.RElbow)

	wrist := r3.Scale(reach, elbow)
	t.set(shift(r3.Vec{X: -wrist.X, Y: wrist.Y}), skeleton.LWrist)
	t.set(shift(wrist), skeleton.RWrist)
	t.set(oscillate(f, start, r3.Vec{X: -wrist.X, Y: wrist.Y + hop}), skeleton.LWrist)
	t.set(oscillate(f, start, r3.Vec{X: wrist.X, Y: wrist.Y + hop}), skeleton.RWrist)

	src, err := t.source(mods)
	if err != nil {
		return nil, err
	}
	return &Preset{
		Source:     src,
		Trajectory: kinematics.Static(kinematics.Identity()),
		Projection: projection.Orthographic,
		Period:     1 / (f * mods.Speed()),
		Loop:       true,
	}, nil
}

func buildWaving(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const f = 2.0
	t := newTable(skel)

	// Upper arm raised 60 degrees, forearm sweeping about the vertical.
	t.set(func(p *motion.MotionParams) { p.AngleBase = math.Pi / 3 }, skeleton.RElbow)
	t.set(func(p *motion.MotionParams) {
		p.Frequency = f
		p.AngleBase = math.Pi / 6
		p.AngleAmp = 0.5
	}, skeleton.RWrist)
	t.set(oscillate(f/2, 0, r3.Vec{X: 0.01}), skeleton.Head)

	src, err := t.source(mods)
	if err != nil {
		return nil, err
	}
	chain := kinematics.Binding{Mode: kinematics.ModeChain}
	return &Preset{
		Source: src,
		Bindings: map[string]kinematics.Binding{
			// The arm angles are measured from a level shoulder.
			skeleton.RShoulder: {Mode: kinematics.ModeOffset},
			skeleton.RElbow:    chain,
			skeleton.RWrist:    chain,
		},
		Trajectory: kinematics.Static(kinematics.Identity()),
		Projection: projection.Orthographic,
		Period:     1 / (f * mods.Speed()),
		Loop:       true,
	}, nil
}

func buildTurning(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const (
		f    = 1.0
		turn = 4.0 // seconds per revolution
	)
	t := newTable(skel)

	t.set(shift(r3.Vec{Y: 0.03}), skeleton.LAnkle, skeleton.RAnkle)
	t.set(oscillate(f, 0, r3.Vec{Y: 0.03}), skeleton.LAnkle)
	t.set(oscillate(f, math.Pi, r3.Vec{Y: 0.03}), skeleton.RAnkle)
	t.set(shift(r3.Vec{X: -0.05}), skeleton.LWrist)
	t.set(shift(r3.Vec{X: 0.05}), skeleton.RWrist)

	src, err := t.source(mods)
	if err != nil {
		return nil, err
	}
	period := turn / mods.Speed()
	return &Preset{
		Source:     src,
		Bindings:   map[string]kinematics.Binding{skeleton.LAnkle: legBinding, skeleton.RAnkle: legBinding},
		Trajectory: kinematics.Turning(period, skeleton.Pelvis),
		Projection: projection.Perspective,
		Period:     period,
		Loop:       true,
	}, nil
}
