package joint

import (
	"github.com/setanarut/vec"
)

// RopeJointDef requires two body anchor points and a maximum length.
type RopeJointDef struct {
	JointDef

	LocalAnchorA vec.Vec2 // relative to body A's origin
	LocalAnchorB vec.Vec2 // relative to body B's origin
	MaxLength    float64  // maximum distance between the anchors
}

func NewRopeJointDef() *RopeJointDef {
	return &RopeJointDef{
		LocalAnchorA: vec.Vec2{X: -1, Y: 0},
		LocalAnchorB: vec.Vec2{X: 1, Y: 0},
	}
}

func (def *RopeJointDef) Kind() Kind {
	return KindRope
}

func (def *RopeJointDef) validate() error {
	if err := validateBodies(KindRope, &def.JointDef); err != nil {
		return err
	}
	return validateNonNegative(KindRope, "MaxLength", def.MaxLength)
}

// RopeJoint enforces a maximum distance between two anchor points. The
// bodies may get closer freely; the rope only pulls.
type RopeJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	maxLength                  float64
	length                     float64

	impulse float64
	state   LimitState

	sa, sb solverBody
	u      vec.Vec2
	rA, rB vec.Vec2
	mass   float64
}

// Limit:
// C = norm(pB - pA) - L
// u = (pB - pA) / norm(pB - pA)
// Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-u -cross(rA, u) u cross(rB, u)]
// K = J * invM * JT
//   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2

func (joint *RopeJoint) setup(def *RopeJointDef) *RopeJoint {
	joint.init(KindRope, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.maxLength = def.MaxLength
	return joint
}

func (joint *RopeJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *RopeJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *RopeJoint) MaxLength() float64 {
	return joint.maxLength
}

func (joint *RopeJoint) SetMaxLength(length float64) {
	joint.maxLength = length
}

// LimitState is LimitAtUpper while the rope is stretched past its length.
func (joint *RopeJoint) LimitState() LimitState {
	return joint.state
}

func (joint *RopeJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *RopeJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *RopeJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.u.Scale(invDt * joint.impulse)
}

func (joint *RopeJoint) ReactionTorque(invDt float64) float64 {
	return 0
}

func (joint *RopeJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	d := posB.C.Add(joint.rB).Sub(posA.C).Sub(joint.rA)
	joint.length = d.Mag()

	if joint.length-joint.maxLength > 0 {
		joint.state = LimitAtUpper
	} else {
		joint.state = LimitInactive
	}

	if joint.length <= LinearSlop {
		joint.u = vec.Vec2{}
		joint.mass = 0
		joint.impulse = 0
		return
	}
	joint.u = d.Scale(1 / joint.length)

	// Compute effective mass.
	crA := joint.rA.Cross(joint.u)
	crB := joint.rB.Cross(joint.u)
	invMass := joint.sa.invMass + joint.sa.invI*crA*crA + joint.sb.invMass + joint.sb.invI*crB*crB
	joint.mass = invertOrZero(invMass)

	if data.Step.WarmStarting {
		// Scale the impulse to support a variable time step.
		joint.impulse *= data.Step.DtRatio

		p := joint.u.Scale(joint.impulse)
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, joint.rA.Cross(p), joint.rB.Cross(p))
	} else {
		joint.impulse = 0
	}
}

func (joint *RopeJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	C := joint.length - joint.maxLength
	cdot := joint.u.Dot(relativeVelocity(velA, velB, joint.rA, joint.rB))

	// Predictive constraint.
	if C < 0 {
		cdot += data.Step.InvDt * C
	}

	impulse := -joint.mass * cdot
	oldImpulse := joint.impulse
	joint.impulse = min(0, joint.impulse+impulse)
	impulse = joint.impulse - oldImpulse

	p := joint.u.Scale(impulse)
	applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, joint.rA.Cross(p), joint.rB.Cross(p))
}

func (joint *RopeJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	u, length := normalize(posB.C.Add(rB).Sub(posA.C).Sub(rA))
	C := clamp(length-joint.maxLength, 0, MaxLinearCorrection)

	impulse := -axialMass(joint.sa, joint.sb, rA, rB, u) * C
	p := u.Scale(impulse)
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p, rA.Cross(p), rB.Cross(p))

	return length-joint.maxLength < LinearSlop
}

func (joint *RopeJoint) Dump(d *Dumper) error {
	d.begin("NewRopeJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("MaxLength", joint.maxLength)
	return d.end(joint)
}
