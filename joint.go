package joint

import "github.com/setanarut/vec"

// Joint is a constraint between two bodies. The set of implementations is
// closed; joints are created by Arena.Create from one of the *JointDef types.
type Joint interface {
	// Kind returns the joint type, fixed at creation.
	Kind() Kind
	BodyA() *Body
	BodyB() *Body
	// Next returns the next joint in the arena's joint list.
	Next() Joint
	UserData() any
	SetUserData(data any)
	CollideConnected() bool
	// IsActive reports whether both bodies take part in simulation.
	IsActive() bool

	// AnchorA returns the anchor point on body A in world coordinates.
	AnchorA() vec.Vec2
	// AnchorB returns the anchor point on body B in world coordinates.
	AnchorB() vec.Vec2
	// ReactionForce returns the reaction force on body B at the joint anchor.
	ReactionForce(invDt float64) vec.Vec2
	// ReactionTorque returns the reaction torque on body B.
	ReactionTorque(invDt float64) float64

	InitVelocityConstraints(data *SolverData)
	SolveVelocityConstraints(data *SolverData)
	// SolvePositionConstraints returns true when the position error is
	// within tolerance.
	SolvePositionConstraints(data *SolverData) bool

	// Dump writes the joint definition as Go statements.
	Dump(d *Dumper) error
	// ShiftOrigin moves the world points the joint stores.
	ShiftOrigin(newOrigin vec.Vec2)

	base() *jointBase
}

// JointEdge connects a body to the joints attached to it. Each joint owns
// one edge per body; the edges of a body form a doubly linked list.
type JointEdge struct {
	Other *Body // the body on the other side of the joint
	Joint Joint
	Prev  *JointEdge
	Next  *JointEdge
}

type jointBase struct {
	kind             Kind
	bodyA, bodyB     *Body
	prev, next       Joint
	edgeA, edgeB     JointEdge
	collideConnected bool
	userData         any
	arena            *Arena
}

func (j *jointBase) init(kind Kind, def *JointDef) {
	j.kind = kind
	j.bodyA = def.BodyA
	j.bodyB = def.BodyB
	j.collideConnected = def.CollideConnected
	j.userData = def.UserData
}

func (j *jointBase) base() *jointBase {
	return j
}

func (j *jointBase) Kind() Kind {
	return j.kind
}

func (j *jointBase) BodyA() *Body {
	return j.bodyA
}

func (j *jointBase) BodyB() *Body {
	return j.bodyB
}

func (j *jointBase) Next() Joint {
	return j.next
}

func (j *jointBase) UserData() any {
	return j.userData
}

func (j *jointBase) SetUserData(data any) {
	j.userData = data
}

func (j *jointBase) CollideConnected() bool {
	return j.collideConnected
}

func (j *jointBase) IsActive() bool {
	return j.bodyA.IsActive() && j.bodyB.IsActive()
}

func (j *jointBase) ShiftOrigin(newOrigin vec.Vec2) {}

// ActivateBodies wakes both bodies.
func (j *jointBase) ActivateBodies() {
	j.bodyA.Activate()
	j.bodyB.Activate()
}
