// Package skeleton describes the static topology of a point-light body.
//
// A Skeleton is an ordered set of joints forming a tree. The order is fixed
// for the life of the skeleton: marker i in every frame is joint i.
package skeleton

import "gonum.org/v1/gonum/spatial/r3"

// Role tags what part of the body a joint marks.
type Role string

const (
	RoleHead     Role = "head"
	RoleNeck     Role = "neck"
	RoleTorso    Role = "torso"
	RolePelvis   Role = "pelvis"
	RoleShoulder Role = "shoulder"
	RoleElbow    Role = "elbow"
	RoleWrist    Role = "wrist"
	RoleHip      Role = "hip"
	RoleKnee     Role = "knee"
	RoleAnkle    Role = "ankle"
)

// Side says which half of the body a joint belongs to.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case Center:
		return "center"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Joint is one marker of the body.
type Joint struct {
	// ID is the stable joint name (e.g., "l_wrist").
	ID string

	// Parent is the parent joint ID, or "" for the root.
	Parent string

	// Offset is the nominal rest offset from the parent in meters (y up).
	// For the root it is the rest position in the body frame.
	Offset r3.Vec

	// Length is the bone length from the parent. Zero means |Offset|.
	Length float64

	Role Role
	Side Side
}
