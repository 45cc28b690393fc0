// Package action is the configuration surface of the stimulus engine.
//
// An action name selects a pose source strategy and its parameter table;
// weight and mood modifiers tweak amplitudes, speeds and posture. Build turns
// the three into a Preset, and a Preset turns into a running Sequence.
//
// Body-local axes: x is lateral (left negative), y is up, z is forward.
// Side-view actions are shown through a near-profile yaw.
package action

import (
	"log/slog"
	"math"
	"strings"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/kinematics"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"github.com/teslashibe/go-pointlight/pkg/stimulus"
)

// Name identifies an action.
type Name string

// Built-in actions.
const (
	Walking Name = "walking"
	Running Name = "running"
	Jumping Name = "jumping"
	Bowing  Name = "bowing"
	Sitting Name = "sitting"
	Lying   Name = "lying"
	Rolling Name = "rolling"
	Turning Name = "turning"
	Waving  Name = "waving"
)

// Names lists the built-in actions in a stable order.
var Names = []Name{Walking, Running, Jumping, Bowing, Sitting, Lying, Rolling, Turning, Waving}

// ParseName resolves a built-in action name, case-insensitively.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", errs.Config("action", "unknown action %q", s)
}

// Weight is the body weight modifier.
type Weight string

const (
	WeightNormal Weight = ""
	WeightHeavy  Weight = "heavy"
	WeightLight  Weight = "light"
)

// ParseWeight resolves heavy|light. Empty and "normal" mean no modifier.
func ParseWeight(s string) (Weight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return WeightNormal, nil
	case "heavy":
		return WeightHeavy, nil
	case "light":
		return WeightLight, nil
	default:
		return "", errs.Config("action", "unknown weight %q (want heavy|light)", s)
	}
}

// Mood is the emotional affect modifier.
type Mood string

const (
	MoodNeutral Mood = ""
	MoodSad     Mood = "sad"
	MoodHappy   Mood = "happy"
)

// ParseMood resolves sad|happy. Empty and "neutral" mean no modifier.
func ParseMood(s string) (Mood, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "neutral":
		return MoodNeutral, nil
	case "sad":
		return MoodSad, nil
	case "happy":
		return MoodHappy, nil
	default:
		return "", errs.Config("action", "unknown mood %q (want sad|happy)", s)
	}
}

// ProfileYaw turns a frontal body so that +z faces screen right. It stops
// short of a quarter turn so left and right markers stay apart.
const ProfileYaw = 0.42 * math.Pi

// DefaultFocal is the camera distance used by perspective presets.
const DefaultFocal = 4.0

// Preset is a fully configured action, ready to drive a Sequence.
type Preset struct {
	Name        Name
	Description string

	Source motion.Source

	// Bindings overrides joint resolution modes. Every other non-root joint
	// is aimed at its pose offset from its parent at bone length, so key
	// poses and oscillators never stretch the body.
	Bindings   map[string]kinematics.Binding
	Trajectory kinematics.Trajectory
	Projection projection.Mode

	// Period is the cycle length in seconds.
	Period float64

	// Loop is false for actions that end in a held pose (sitting, lying).
	Loop bool
}

// View configures the camera for a preset.
type View struct {
	Viewport projection.Viewport

	// Focal overrides DefaultFocal for perspective projection.
	Focal float64

	// Projection overrides the preset's default when set.
	Projection *projection.Mode

	// Speed scales playback time; 0 means 1.
	Speed float64
}

// Resolver binds skel for the preset.
func (p *Preset) Resolver(skel *skeleton.Skeleton) (*kinematics.Resolver, error) {
	if skel == nil {
		return nil, errs.Config("action", "nil skeleton")
	}
	bindings := make(map[string]kinematics.Binding, skel.Count())
	for i, j := range skel.Joints() {
		if skel.Parent(i) >= 0 {
			bindings[j.ID] = kinematics.Binding{Mode: kinematics.ModeAim}
		}
	}
	for id, b := range p.Bindings {
		bindings[id] = b
	}
	return kinematics.NewResolver(skel, bindings)
}

// Sequence builds an idle stimulus sequence for the preset.
func (p *Preset) Sequence(skel *skeleton.Skeleton, view View, logger *slog.Logger) (*stimulus.Sequence, error) {
	resolver, err := p.Resolver(skel)
	if err != nil {
		return nil, err
	}

	mode := p.Projection
	if view.Projection != nil {
		mode = *view.Projection
	}
	focal := view.Focal
	if focal == 0 {
		focal = DefaultFocal
	}
	proj, err := projection.New(mode, focal, view.Viewport)
	if err != nil {
		return nil, err
	}

	return stimulus.New(stimulus.Config{
		Name:       string(p.Name),
		Skeleton:   skel,
		Source:     p.Source,
		Resolver:   resolver,
		Trajectory: p.Trajectory,
		Projector:  proj,
		Speed:      view.Speed,
		Loop:       p.Loop,
		Logger:     logger,
	})
}
