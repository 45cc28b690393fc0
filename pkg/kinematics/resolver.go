// Package kinematics turns body-local poses into absolute joint positions.
//
// Each joint is bound to one resolution mode at configuration time:
//   - ModeOffset: the pose offset is the joint position
//   - ModeChain: forward kinematics from the parent, bone length and the
//     pose angle relative to the parent's orientation
//   - ModeReach: the pose offset is a target; the joint and its parent are
//     placed by a clamped two-bone IK solve from the grandparent
//   - ModeAim: the joint sits at bone length from its resolved parent,
//     pointing at the pose offset
//
// After resolution a RigidTransform moves the whole body.
package kinematics

import (
	"math"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/motion"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mode selects how a joint position is computed.
type Mode int

const (
	ModeOffset Mode = iota
	ModeChain
	ModeReach
	ModeAim
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOffset:
		return "offset"
	case ModeChain:
		return "chain"
	case ModeReach:
		return "reach"
	case ModeAim:
		return "aim"
	default:
		return "unknown"
	}
}

// Binding configures one joint.
type Binding struct {
	Mode Mode

	// Bend picks the elbow/knee side for ModeReach: >= 0 counter-clockwise,
	// < 0 clockwise.
	Bend float64

	// Axis is the bend plane normal for ModeReach. Zero means z.
	Axis r3.Vec
}

// Resolver resolves poses for one skeleton. It is immutable and safe for
// concurrent use.
type Resolver struct {
	skel     *skeleton.Skeleton
	bindings []Binding
	order    []int
	rest     []r3.Vec
}

// NewResolver binds joints to modes. Joints missing from bindings use
// ModeOffset.
func NewResolver(skel *skeleton.Skeleton, bindings map[string]Binding) (*Resolver, error) {
	if skel == nil {
		return nil, errs.Config("kinematics", "nil skeleton")
	}

	r := &Resolver{
		skel:     skel,
		bindings: make([]Binding, skel.Count()),
		order:    skel.Order(),
		rest:     skel.Rest(),
	}

	for id, b := range bindings {
		i, ok := skel.Index(id)
		if !ok {
			return nil, errs.Config("kinematics", "binding for unknown joint %q", id)
		}
		if b.Mode < ModeOffset || b.Mode > ModeAim {
			return nil, errs.Config("kinematics", "joint %q has unknown mode %d", id, b.Mode)
		}

		p := skel.Parent(i)
		switch b.Mode {
		case ModeChain, ModeAim:
			if p < 0 {
				return nil, errs.Config("kinematics", "root joint %q cannot use %s mode", id, b.Mode)
			}
		case ModeReach:
			if p < 0 || skel.Parent(p) < 0 {
				return nil, errs.Config("kinematics", "reach joint %q needs a parent and grandparent", id)
			}
			if skel.ChildCount(p) != 1 {
				return nil, errs.Config("kinematics", "reach joint %q: parent %q has other children", id, skel.Joint(p).ID)
			}
		}
		r.bindings[i] = b
	}

	return r, nil
}

// Skeleton returns the skeleton the resolver was built for.
func (r *Resolver) Skeleton() *skeleton.Skeleton {
	return r.skel
}

// Binding returns the binding of joint i.
func (r *Resolver) Binding(i int) Binding {
	return r.bindings[i]
}

// Resolve computes absolute positions for every joint and applies tf.
// The result is a fresh slice, index-aligned with the skeleton. Joints the
// pose does not cover fall back to their rest position.
func (r *Resolver) Resolve(pose motion.Pose, tf RigidTransform) []r3.Vec {
	n := r.skel.Count()
	pos := make([]r3.Vec, n)
	orient := make([]float64, n)

	for _, i := range r.order {
		b := r.bindings[i]
		switch b.Mode {
		case ModeChain:
			p := r.skel.Parent(i)
			theta := orient[p] + angleAt(pose, i)
			length := r.skel.Joint(i).Length
			pos[i] = r3.Add(pos[p], r3.Vec{X: length * math.Cos(theta), Y: length * math.Sin(theta)})
			orient[i] = theta

		case ModeReach:
			m := r.skel.Parent(i)
			g := r.skel.Parent(m)
			mid, end := SolveTwoBoneAxis(pos[g], r.offsetAt(pose, i),
				r.skel.Joint(m).Length, r.skel.Joint(i).Length, b.Bend, b.Axis)
			pos[m] = mid
			pos[i] = end
			orient[m] = heading(pos[g], mid)
			orient[i] = heading(mid, end)

		case ModeAim:
			p := r.skel.Parent(i)
			dir := r3.Sub(r.offsetAt(pose, i), pos[p])
			if r3.Norm(dir) < ikEpsilon {
				dir = r3.Sub(r.rest[i], r.rest[p])
			}
			if r3.Norm(dir) < ikEpsilon {
				pos[i] = pos[p]
			} else {
				pos[i] = r3.Add(pos[p], r3.Scale(r.skel.Joint(i).Length, r3.Unit(dir)))
			}
			orient[i] = heading(pos[p], pos[i])

		default:
			pos[i] = r.offsetAt(pose, i)
		}
	}

	pivot := tf.Pivot
	if tf.PivotJoint != "" {
		if i, ok := r.skel.Index(tf.PivotJoint); ok {
			pivot = pos[i]
		}
	}
	tf.Apply(pos, pivot)

	return pos
}

// Resolve resolves a pose with every joint in offset mode.
func Resolve(pose motion.Pose, skel *skeleton.Skeleton, tf RigidTransform) ([]r3.Vec, error) {
	r, err := NewResolver(skel, nil)
	if err != nil {
		return nil, err
	}
	return r.Resolve(pose, tf), nil
}

func (r *Resolver) offsetAt(pose motion.Pose, i int) r3.Vec {
	if i < len(pose.Offsets) {
		return pose.Offsets[i]
	}
	return r.rest[i]
}

func angleAt(pose motion.Pose, i int) float64 {
	if i < len(pose.Angles) {
		return pose.Angles[i]
	}
	return 0
}

// heading is the direction of b seen from a in the x-y plane.
func heading(a, b r3.Vec) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
