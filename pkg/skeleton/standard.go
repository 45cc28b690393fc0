package skeleton

import "gonum.org/v1/gonum/spatial/r3"

// Standard joint IDs, in marker order.
const (
	Head      = "head"
	Neck      = "neck"
	LShoulder = "l_shoulder"
	RShoulder = "r_shoulder"
	LElbow    = "l_elbow"
	RElbow    = "r_elbow"
	LWrist    = "l_wrist"
	RWrist    = "r_wrist"
	Pelvis    = "pelvis"
	LHip      = "l_hip"
	RHip      = "r_hip"
	LKnee     = "l_knee"
	RKnee     = "r_knee"
	LAnkle    = "l_ankle"
	RAnkle    = "r_ankle"
)

// StandardJoints is the 15-marker body used by every built-in action.
// Dimensions are for an adult of about 1.7 m standing on y = 0, facing the
// viewer, left side at negative x.
var StandardJoints = []Joint{
	{ID: Head, Parent: Neck, Offset: r3.Vec{Y: 0.2}, Role: RoleHead},
	{ID: Neck, Parent: Pelvis, Offset: r3.Vec{Y: 0.5}, Role: RoleNeck},
	{ID: LShoulder, Parent: Neck, Offset: r3.Vec{X: -0.2, Y: -0.02}, Role: RoleShoulder, Side: Left},
	{ID: RShoulder, Parent: Neck, Offset: r3.Vec{X: 0.2, Y: -0.02}, Role: RoleShoulder, Side: Right},
	{ID: LElbow, Parent: LShoulder, Offset: r3.Vec{Y: -0.3}, Role: RoleElbow, Side: Left},
	{ID: RElbow, Parent: RShoulder, Offset: r3.Vec{Y: -0.3}, Role: RoleElbow, Side: Right},
	{ID: LWrist, Parent: LElbow, Offset: r3.Vec{Y: -0.27}, Role: RoleWrist, Side: Left},
	{ID: RWrist, Parent: RElbow, Offset: r3.Vec{Y: -0.27}, Role: RoleWrist, Side: Right},
	{ID: Pelvis, Offset: r3.Vec{Y: 0.95}, Role: RolePelvis},
	{ID: LHip, Parent: Pelvis, Offset: r3.Vec{X: -0.1}, Role: RoleHip, Side: Left},
	{ID: RHip, Parent: Pelvis, Offset: r3.Vec{X: 0.1}, Role: RoleHip, Side: Right},
	{ID: LKnee, Parent: LHip, Offset: r3.Vec{Y: -0.45}, Role: RoleKnee, Side: Left},
	{ID: RKnee, Parent: RHip, Offset: r3.Vec{Y: -0.45}, Role: RoleKnee, Side: Right},
	{ID: LAnkle, Parent: LKnee, Offset: r3.Vec{Y: -0.45}, Role: RoleAnkle, Side: Left},
	{ID: RAnkle, Parent: RKnee, Offset: r3.Vec{Y: -0.45}, Role: RoleAnkle, Side: Right},
}

// Standard returns the 15-marker body.
func Standard() *Skeleton {
	s, err := New(StandardJoints)
	if err != nil {
		panic("skeleton: standard body is invalid: " + err.Error())
	}
	return s
}
