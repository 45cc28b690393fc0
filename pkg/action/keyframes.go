package action

import (
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/kinematics"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r3"
)

// joints maps joint IDs to absolute body-local positions.
type joints map[string]r3.Vec

// posed returns the rest pose with the given joints moved.
func posed(skel *skeleton.Skeleton, moved joints) (motion.Pose, error) {
	pose := motion.NewPose(skel.Count())
	copy(pose.Offsets, skel.Rest())
	for id, p := range moved {
		i, ok := skel.Index(id)
		if !ok {
			return motion.Pose{}, errs.Config("action", "skeleton has no joint %q", id)
		}
		pose.Offsets[i] = p
	}
	return pose, nil
}

type key struct {
	name  string
	phase float64
	moved joints
}

// keyframes builds a set from rest-relative key poses and applies mods.
func keyframes(skel *skeleton.Skeleton, mods Modifiers, cyclic bool, keys ...key) (motion.KeyframeSet, error) {
	set := motion.KeyframeSet{Cyclic: cyclic, Frames: make([]motion.Keyframe, len(keys))}
	for i, k := range keys {
		pose, err := posed(skel, k.moved)
		if err != nil {
			return motion.KeyframeSet{}, err
		}
		set.Frames[i] = motion.Keyframe{Name: k.name, Phase: k.phase, Pose: pose}
	}
	if len(set.Frames) > 0 {
		mods.applyKeyframes(skel, set.Frames)
	}
	return set, nil
}

func buildBowing(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const period = 3.0

	// Torso pitched 60 degrees forward about the hips, arms hanging.
	bowed := joints{
		skeleton.Pelvis:    {Y: 0.95, Z: -0.05},
		skeleton.Neck:      {Y: 1.2, Z: 0.433},
		skeleton.Head:      {Y: 1.268, Z: 0.621},
		skeleton.LShoulder: {X: -0.2, Y: 1.19, Z: 0.42},
		skeleton.RShoulder: {X: 0.2, Y: 1.19, Z: 0.42},
		skeleton.LElbow:    {X: -0.2, Y: 0.89, Z: 0.45},
		skeleton.RElbow:    {X: 0.2, Y: 0.89, Z: 0.45},
		skeleton.LWrist:    {X: -0.2, Y: 0.62, Z: 0.47},
		skeleton.RWrist:    {X: 0.2, Y: 0.62, Z: 0.47},
	}
	set, err := keyframes(skel, mods, false,
		key{"stand", 0, nil},
		key{"bowed", 0.5, bowed},
		key{"stand", 1, nil},
	)
	if err != nil {
		return nil, err
	}
	return keyframePreset(set, period/mods.Speed(), motion.EaseCosine, kinematics.Static(profile), projection.Orthographic, true)
}

func buildSitting(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const period = 2.5

	crouch := joints{
		skeleton.Pelvis:    {Y: 0.72, Z: -0.2},
		skeleton.LHip:      {X: -0.1, Y: 0.72, Z: -0.2},
		skeleton.RHip:      {X: 0.1, Y: 0.72, Z: -0.2},
		skeleton.LKnee:     {X: -0.1, Y: 0.45, Z: 0.15},
		skeleton.RKnee:     {X: 0.1, Y: 0.45, Z: 0.15},
		skeleton.Neck:      {Y: 1.18, Z: 0.0},
		skeleton.Head:      {Y: 1.37, Z: 0.06},
		skeleton.LShoulder: {X: -0.2, Y: 1.16, Z: 0.0},
		skeleton.RShoulder: {X: 0.2, Y: 1.16, Z: 0.0},
		skeleton.LElbow:    {X: -0.2, Y: 0.88, Z: 0.1},
		skeleton.RElbow:    {X: 0.2, Y: 0.88, Z: 0.1},
		skeleton.LWrist:    {X: -0.2, Y: 0.66, Z: 0.25},
		skeleton.RWrist:    {X: 0.2, Y: 0.66, Z: 0.25},
	}
	seated := joints{
		skeleton.Pelvis:    {Y: 0.5, Z: -0.3},
		skeleton.LHip:      {X: -0.1, Y: 0.5, Z: -0.3},
		skeleton.RHip:      {X: 0.1, Y: 0.5, Z: -0.3},
		skeleton.LKnee:     {X: -0.1, Y: 0.5, Z: 0.15},
		skeleton.RKnee:     {X: 0.1, Y: 0.5, Z: 0.15},
		skeleton.LAnkle:    {X: -0.1, Y: 0.05, Z: 0.15},
		skeleton.RAnkle:    {X: 0.1, Y: 0.05, Z: 0.15},
		skeleton.Neck:      {Y: 1.0, Z: -0.3},
		skeleton.Head:      {Y: 1.2, Z: -0.28},
		skeleton.LShoulder: {X: -0.2, Y: 0.98, Z: -0.3},
		skeleton.RShoulder: {X: 0.2, Y: 0.98, Z: -0.3},
		skeleton.LElbow:    {X: -0.2, Y: 0.7, Z: -0.25},
		skeleton.RElbow:    {X: 0.2, Y: 0.7, Z: -0.25},
		skeleton.LWrist:    {X: -0.15, Y: 0.55, Z: 0.0},
		skeleton.RWrist:    {X: 0.15, Y: 0.55, Z: 0.0},
	}
	set, err := keyframes(skel, mods, false,
		key{"stand", 0, nil},
		key{"crouch", 0.5, crouch},
		key{"seated", 1, seated},
	)
	if err != nil {
		return nil, err
	}
	return keyframePreset(set, period/mods.Speed(), motion.EaseCosine, kinematics.Static(profile), projection.Orthographic, false)
}

func buildLying(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const period = 3.0

	sitting := joints{
		skeleton.Pelvis:    {Y: 0.15, Z: -0.1},
		skeleton.LHip:      {X: -0.1, Y: 0.15, Z: -0.1},
		skeleton.RHip:      {X: 0.1, Y: 0.15, Z: -0.1},
		skeleton.LKnee:     {X: -0.1, Y: 0.4, Z: 0.2},
		skeleton.RKnee:     {X: 0.1, Y: 0.4, Z: 0.2},
		skeleton.LAnkle:    {X: -0.1, Y: 0.05, Z: 0.5},
		skeleton.RAnkle:    {X: 0.1, Y: 0.05, Z: 0.5},
		skeleton.Neck:      {Y: 0.63, Z: -0.25},
		skeleton.Head:      {Y: 0.83, Z: -0.25},
		skeleton.LShoulder: {X: -0.2, Y: 0.61, Z: -0.25},
		skeleton.RShoulder: {X: 0.2, Y: 0.61, Z: -0.25},
		skeleton.LElbow:    {X: -0.22, Y: 0.35, Z: -0.3},
		skeleton.RElbow:    {X: 0.22, Y: 0.35, Z: -0.3},
		skeleton.LWrist:    {X: -0.22, Y: 0.12, Z: -0.35},
		skeleton.RWrist:    {X: 0.22, Y: 0.12, Z: -0.35},
	}
	lying := joints{
		skeleton.Pelvis:    {Y: 0.12},
		skeleton.LHip:      {X: -0.1, Y: 0.12},
		skeleton.RHip:      {X: 0.1, Y: 0.12},
		skeleton.LKnee:     {X: -0.1, Y: 0.1, Z: 0.45},
		skeleton.RKnee:     {X: 0.1, Y: 0.1, Z: 0.45},
		skeleton.LAnkle:    {X: -0.1, Y: 0.08, Z: 0.9},
		skeleton.RAnkle:    {X: 0.1, Y: 0.08, Z: 0.9},
		skeleton.Neck:      {Y: 0.14, Z: -0.5},
		skeleton.Head:      {Y: 0.15, Z: -0.7},
		skeleton.LShoulder: {X: -0.2, Y: 0.13, Z: -0.48},
		skeleton.RShoulder: {X: 0.2, Y: 0.13, Z: -0.48},
		skeleton.LElbow:    {X: -0.22, Y: 0.1, Z: -0.2},
		skeleton.RElbow:    {X: 0.22, Y: 0.1, Z: -0.2},
		skeleton.LWrist:    {X: -0.22, Y: 0.08, Z: 0.05},
		skeleton.RWrist:    {X: 0.22, Y: 0.08, Z: 0.05},
	}
	set, err := keyframes(skel, mods, false,
		key{"stand", 0, nil},
		key{"sit", 0.45, sitting},
		key{"lying", 1, lying},
	)
	if err != nil {
		return nil, err
	}
	return keyframePreset(set, period/mods.Speed(), motion.EaseHermite, kinematics.Static(profile), projection.Orthographic, false)
}

func buildRolling(skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	const (
		period = 1.5
		radius = 0.35
		field  = 2.5
	)

	tucked := joints{
		skeleton.Pelvis:    {Y: 0.4, Z: -0.1},
		skeleton.LHip:      {X: -0.1, Y: 0.4, Z: -0.1},
		skeleton.RHip:      {X: 0.1, Y: 0.4, Z: -0.1},
		skeleton.LKnee:     {X: -0.1, Y: 0.6, Z: 0.25},
		skeleton.RKnee:     {X: 0.1, Y: 0.6, Z: 0.25},
		skeleton.LAnkle:    {X: -0.1, Y: 0.3, Z: 0.3},
		skeleton.RAnkle:    {X: 0.1, Y: 0.3, Z: 0.3},
		skeleton.Neck:      {Y: 0.75, Z: 0.1},
		skeleton.Head:      {Y: 0.65, Z: 0.3},
		skeleton.LShoulder: {X: -0.2, Y: 0.73, Z: 0.08},
		skeleton.RShoulder: {X: 0.2, Y: 0.73, Z: 0.08},
		skeleton.LElbow:    {X: -0.2, Y: 0.55, Z: 0.25},
		skeleton.RElbow:    {X: 0.2, Y: 0.55, Z: 0.25},
		skeleton.LWrist:    {X: -0.15, Y: 0.45, Z: 0.35},
		skeleton.RWrist:    {X: 0.15, Y: 0.45, Z: 0.35},
	}
	opened := make(joints, len(tucked))
	for id, p := range tucked {
		opened[id] = p
	}
	opened[skeleton.LKnee] = r3.Vec{X: -0.1, Y: 0.62, Z: 0.3}
	opened[skeleton.RKnee] = r3.Vec{X: 0.1, Y: 0.62, Z: 0.3}
	opened[skeleton.LAnkle] = r3.Vec{X: -0.1, Y: 0.32, Z: 0.38}
	opened[skeleton.RAnkle] = r3.Vec{X: 0.1, Y: 0.32, Z: 0.38}
	opened[skeleton.Head] = r3.Vec{Y: 0.67, Z: 0.34}

	set, err := keyframes(skel, mods, true,
		key{"tucked", 0, tucked},
		key{"opened", 0.5, opened},
	)
	if err != nil {
		return nil, err
	}

	p := period / mods.Speed()
	traj := kinematics.Rolling(radius, p, skeleton.Pelvis)
	traj.Base.Yaw = ProfileYaw
	traj.Wrap = field
	return keyframePreset(set, p, motion.EaseHermite, traj, projection.Perspective, true)
}

func keyframePreset(set motion.KeyframeSet, period float64, easing motion.Easing, traj kinematics.Trajectory, mode projection.Mode, loop bool) (*Preset, error) {
	src, err := motion.NewKeyframeSource(set, period, easing)
	if err != nil {
		return nil, err
	}
	return &Preset{
		Source:     src,
		Trajectory: traj,
		Projection: mode,
		Period:     period,
		Loop:       loop,
	}, nil
}
