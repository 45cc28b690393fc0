package skeleton

import (
	"math"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Skeleton is an immutable tree of joints with a stable ordering.
type Skeleton struct {
	joints   []Joint
	index    map[string]int
	parents  []int // -1 for the root
	children [][]int
	order    []int // parents before children
	root     int
}

// New validates joints and builds a Skeleton.
// It fails with a ConfigError unless the parent graph is a single tree with
// unique, non-empty joint IDs.
func New(joints []Joint) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, errs.Config("skeleton", "no joints")
	}

	s := &Skeleton{
		joints:   make([]Joint, len(joints)),
		index:    make(map[string]int, len(joints)),
		parents:  make([]int, len(joints)),
		children: make([][]int, len(joints)),
		root:     -1,
	}
	copy(s.joints, joints)

	for i, j := range s.joints {
		if j.ID == "" {
			return nil, errs.Config("skeleton", "joint %d has an empty id", i)
		}
		if _, dup := s.index[j.ID]; dup {
			return nil, errs.Config("skeleton", "duplicate joint id %q", j.ID)
		}
		if j.Length < 0 || math.IsNaN(j.Length) {
			return nil, errs.Config("skeleton", "joint %q has invalid length %v", j.ID, j.Length)
		}
		s.index[j.ID] = i
	}

	for i, j := range s.joints {
		if j.Parent == "" {
			if s.root >= 0 {
				return nil, errs.Config("skeleton", "multiple roots: %q and %q", s.joints[s.root].ID, j.ID)
			}
			s.root = i
			s.parents[i] = -1
			continue
		}
		p, ok := s.index[j.Parent]
		if !ok {
			return nil, errs.Config("skeleton", "joint %q has unknown parent %q", j.ID, j.Parent)
		}
		if p == i {
			return nil, errs.Config("skeleton", "joint %q is its own parent", j.ID)
		}
		s.parents[i] = p
		s.children[p] = append(s.children[p], i)
		if s.joints[i].Length == 0 {
			s.joints[i].Length = r3.Norm(j.Offset)
		}
	}
	if s.root < 0 {
		return nil, errs.Config("skeleton", "no root joint")
	}

	// With one root and one parent per joint, the graph is a tree iff every
	// joint is reachable from the root.
	s.order = make([]int, 0, len(s.joints))
	queue := []int{s.root}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		s.order = append(s.order, i)
		queue = append(queue, s.children[i]...)
	}
	if len(s.order) != len(s.joints) {
		for i := range s.joints {
			if !s.reached(i) {
				return nil, errs.Config("skeleton", "joint %q is part of a cycle", s.joints[i].ID)
			}
		}
	}

	return s, nil
}

func (s *Skeleton) reached(i int) bool {
	for _, o := range s.order {
		if o == i {
			return true
		}
	}
	return false
}

// Count returns the number of joints (markers).
func (s *Skeleton) Count() int {
	return len(s.joints)
}

// Root returns the root joint.
func (s *Skeleton) Root() Joint {
	return s.joints[s.root]
}

// RootIndex returns the index of the root joint.
func (s *Skeleton) RootIndex() int {
	return s.root
}

// Joint returns the joint at index i.
func (s *Skeleton) Joint(i int) Joint {
	return s.joints[i]
}

// Joints returns a copy of all joints in marker order.
func (s *Skeleton) Joints() []Joint {
	out := make([]Joint, len(s.joints))
	copy(out, s.joints)
	return out
}

// Index returns the marker index for a joint ID.
func (s *Skeleton) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Parent returns the parent index of joint i, or -1 for the root.
func (s *Skeleton) Parent(i int) int {
	return s.parents[i]
}

// ChildrenOf returns the direct children of the named joint.
// Unknown IDs have no children.
func (s *Skeleton) ChildrenOf(id string) []Joint {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	out := make([]Joint, 0, len(s.children[i]))
	for _, c := range s.children[i] {
		out = append(out, s.joints[c])
	}
	return out
}

// ChildCount returns the number of direct children of joint i.
func (s *Skeleton) ChildCount(i int) int {
	return len(s.children[i])
}

// Order returns joint indices with every parent ahead of its children.
func (s *Skeleton) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Rest returns the absolute rest position of every joint, obtained by
// summing offsets down from the root.
func (s *Skeleton) Rest() []r3.Vec {
	pos := make([]r3.Vec, len(s.joints))
	for _, i := range s.order {
		p := s.parents[i]
		if p < 0 {
			pos[i] = s.joints[i].Offset
			continue
		}
		pos[i] = r3.Add(pos[p], s.joints[i].Offset)
	}
	return pos
}
