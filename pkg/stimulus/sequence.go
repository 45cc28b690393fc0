// Package stimulus composes the engine into a frame generator.
//
// A Sequence owns one clock and pulls, per tick:
//
//	clock -> pose source -> kinematics -> projection -> Frame
//
// Hosts call NextFrame once per display tick. Everything below the clock is
// pure, so FrameAt can also be called out of order or concurrently.
package stimulus

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/teslashibe/go-pointlight/internal/log"
	"github.com/teslashibe/go-pointlight/pkg/clock"
	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/kinematics"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/projection"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is one display tick: exactly one point per skeleton joint, in
// skeleton order.
type Frame []r2.Vec

// State is the sequence lifecycle state.
type State int

const (
	// StateIdle holds the current frame without advancing time.
	StateIdle State = iota

	// StateRunning advances time on every NextFrame.
	StateRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Config wires the engine components of a Sequence.
type Config struct {
	// Name labels the sequence in logs (e.g., the action name).
	Name string

	Skeleton *skeleton.Skeleton
	Source   motion.Source

	// Resolver defaults to every joint in offset mode.
	Resolver *kinematics.Resolver

	// Trajectory defaults to the identity transform.
	Trajectory kinematics.Trajectory

	// Projector defaults to orthographic with an identity viewport.
	Projector *projection.Projector

	// Speed scales simulated time; <= 0 means 1.
	Speed float64

	// Loop repeats finite sources forever. When false, a source with a
	// period plays once and the sequence goes idle on its final pose.
	Loop bool

	Logger *slog.Logger
}

// Sequence produces frames for one stimulus.
type Sequence struct {
	id       uuid.UUID
	name     string
	skel     *skeleton.Skeleton
	source   motion.Source
	finite   motion.Finite
	resolver *kinematics.Resolver
	traj     kinematics.Trajectory
	proj     *projection.Projector
	loop     bool

	clock  *clock.Clock
	state  State
	frames uint64
	log    *slog.Logger
}

// New validates cfg and returns an idle sequence at t = 0.
func New(cfg Config) (*Sequence, error) {
	if cfg.Skeleton == nil {
		return nil, errs.Config("stimulus", "nil skeleton")
	}
	if cfg.Source == nil {
		return nil, errs.Config("stimulus", "nil pose source")
	}
	if n, want := cfg.Source.Joints(), cfg.Skeleton.Count(); n != want {
		return nil, errs.Config("stimulus", "source has %d joints, skeleton has %d", n, want)
	}

	resolver := cfg.Resolver
	if resolver == nil {
		var err error
		if resolver, err = kinematics.NewResolver(cfg.Skeleton, nil); err != nil {
			return nil, err
		}
	} else if resolver.Skeleton() != cfg.Skeleton {
		return nil, errs.Config("stimulus", "resolver was built for a different skeleton")
	}

	traj := cfg.Trajectory
	if traj == nil {
		traj = kinematics.Static(kinematics.Identity())
	}

	proj := cfg.Projector
	if proj == nil {
		var err error
		if proj, err = projection.New(projection.Orthographic, 0, projection.Viewport{}); err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.With("component", "stimulus")
	}

	s := &Sequence{
		id:       uuid.New(),
		name:     cfg.Name,
		skel:     cfg.Skeleton,
		source:   cfg.Source,
		resolver: resolver,
		traj:     traj,
		proj:     proj,
		loop:     cfg.Loop,
		clock:    clock.New(cfg.Speed),
		state:    StateIdle,
	}
	if f, ok := cfg.Source.(motion.Finite); ok {
		s.finite = f
	}
	s.log = logger.With("sequence", s.id.String(), "action", s.name)

	return s, nil
}

// ID returns the session identifier.
func (s *Sequence) ID() uuid.UUID {
	return s.id
}

// Name returns the configured name.
func (s *Sequence) Name() string {
	return s.name
}

// State returns the lifecycle state.
func (s *Sequence) State() State {
	return s.state
}

// Elapsed returns the simulated time in seconds.
func (s *Sequence) Elapsed() float64 {
	return s.clock.Elapsed()
}

// Speed returns the simulated seconds per wall-clock second.
func (s *Sequence) Speed() float64 {
	return s.clock.Speed()
}

// Frames returns how many frames NextFrame has produced.
func (s *Sequence) Frames() uint64 {
	return s.frames
}

// Count returns the number of markers per frame.
func (s *Sequence) Count() int {
	return s.skel.Count()
}

// Period returns the source cycle length, or 0 for unbounded sources.
func (s *Sequence) Period() float64 {
	if s.finite == nil {
		return 0
	}
	return s.finite.Period()
}

// OneShot reports whether the sequence plays a single cycle and stops.
func (s *Sequence) OneShot() bool {
	return !s.loop && s.finite != nil
}

// Start enters the running state. A finished one-shot sequence restarts
// from t = 0.
func (s *Sequence) Start() {
	if s.state == StateRunning {
		return
	}
	if s.OneShot() && s.clock.Elapsed() >= s.finite.Period() {
		s.clock.Reset()
	}
	s.state = StateRunning
	s.log.Debug("sequence started", "elapsed", s.clock.Elapsed())
}

// Stop enters the idle state, keeping the current time.
func (s *Sequence) Stop() {
	if s.state == StateIdle {
		return
	}
	s.state = StateIdle
	s.log.Debug("sequence stopped", "elapsed", s.clock.Elapsed(), "frames", s.frames)
}

// Reset rewinds to t = 0 and goes idle.
func (s *Sequence) Reset() {
	s.clock.Reset()
	s.state = StateIdle
	s.frames = 0
}

// NextFrame advances time by dt when running and returns the frame at the
// resulting time. When idle it returns the frame at the held time.
//
// The only error is a ProjectionError from a perspective camera whose focal
// plane a joint has reached.
func (s *Sequence) NextFrame(dt float64) (Frame, error) {
	if s.state == StateRunning {
		t := s.clock.Advance(dt)
		if s.OneShot() && t >= s.finite.Period() {
			s.state = StateIdle
			s.log.Info("sequence completed", "elapsed", t, "frames", s.frames+1)
		}
	}

	f, err := s.FrameAt(s.clock.Elapsed())
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.frames, err)
	}
	s.frames++
	return f, nil
}

// FrameAt computes the frame at t simulated seconds without touching
// sequence state.
// It is safe to call from several goroutines.
func (s *Sequence) FrameAt(t float64) (Frame, error) {
	var pose motion.Pose
	if s.OneShot() && t >= s.finite.Period() {
		pose = s.finite.Final()
	} else {
		pose = s.source.Sample(t)
	}

	points := s.resolver.Resolve(pose, s.traj.At(t))
	plane, err := s.proj.ToPlane(points)
	if err != nil {
		return nil, err
	}
	return Frame(plane), nil
}
