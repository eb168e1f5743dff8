package joint

import (
	"github.com/setanarut/vec"
)

// FrictionJointDef describes top-down friction between two bodies.
type FrictionJointDef struct {
	JointDef

	LocalAnchorA vec.Vec2 // relative to body A's origin
	LocalAnchorB vec.Vec2 // relative to body B's origin
	MaxForce     float64  // maximum friction force in N
	MaxTorque    float64  // maximum friction torque in N-m
}

func NewFrictionJointDef() *FrictionJointDef {
	return &FrictionJointDef{}
}

// Initialize sets the bodies and the anchors from a world point.
func (def *FrictionJointDef) Initialize(a, b *Body, anchor vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchor)
	def.LocalAnchorB = b.WorldToLocal(anchor)
}

func (def *FrictionJointDef) Kind() Kind {
	return KindFriction
}

func (def *FrictionJointDef) validate() error {
	if err := validateBodies(KindFriction, &def.JointDef); err != nil {
		return err
	}
	if err := validateNonNegative(KindFriction, "MaxForce", def.MaxForce); err != nil {
		return err
	}
	return validateNonNegative(KindFriction, "MaxTorque", def.MaxTorque)
}

// FrictionJoint resists relative sliding and turning up to a maximum force
// and torque. It is mainly used for top-down friction.
type FrictionJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	maxForce, maxTorque        float64

	linearImpulse  vec.Vec2
	angularImpulse float64

	sa, sb      solverBody
	rA, rB      vec.Vec2
	linearMass  Mat22
	angularMass float64
}

// Point-to-point constraint
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Angle constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (joint *FrictionJoint) setup(def *FrictionJointDef) *FrictionJoint {
	joint.init(KindFriction, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.maxForce = def.MaxForce
	joint.maxTorque = def.MaxTorque
	return joint
}

func (joint *FrictionJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *FrictionJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *FrictionJoint) MaxForce() float64 {
	return joint.maxForce
}

// SetMaxForce sets the maximum friction force. Negative values are ignored.
func (joint *FrictionJoint) SetMaxForce(force float64) {
	if !isValid(force) || force < 0 {
		logger.Warn("friction joint max force rejected", "force", force)
		return
	}
	joint.maxForce = force
}

func (joint *FrictionJoint) MaxTorque() float64 {
	return joint.maxTorque
}

// SetMaxTorque sets the maximum friction torque. Negative values are ignored.
func (joint *FrictionJoint) SetMaxTorque(torque float64) {
	if !isValid(torque) || torque < 0 {
		logger.Warn("friction joint max torque rejected", "torque", torque)
		return
	}
	joint.maxTorque = torque
}

func (joint *FrictionJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *FrictionJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *FrictionJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.linearImpulse.Scale(invDt)
}

func (joint *FrictionJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.angularImpulse
}

func (joint *FrictionJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	// Singular K inverts to zero and the linear rows do nothing.
	joint.linearMass = kTensor(joint.sa, joint.sb, joint.rA, joint.rB).Inverse()
	joint.angularMass = invertOrZero(joint.sa.invI + joint.sb.invI)

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.linearImpulse = joint.linearImpulse.Scale(data.Step.DtRatio)
		joint.angularImpulse *= data.Step.DtRatio

		p := joint.linearImpulse
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p,
			joint.rA.Cross(p)+joint.angularImpulse, joint.rB.Cross(p)+joint.angularImpulse)
	} else {
		joint.linearImpulse = vec.Vec2{}
		joint.angularImpulse = 0
	}
}

func (joint *FrictionJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	h := data.Step.Dt

	// Solve angular friction
	{
		cdot := velB.W - velA.W
		impulse := -joint.angularMass * cdot

		oldImpulse := joint.angularImpulse
		maxImpulse := h * joint.maxTorque
		joint.angularImpulse = clamp(joint.angularImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.angularImpulse - oldImpulse

		velA.W -= joint.sa.invI * impulse
		velB.W += joint.sb.invI * impulse
	}

	// Solve linear friction
	{
		cdot := relativeVelocity(velA, velB, joint.rA, joint.rB)
		impulse := joint.linearMass.MulVec(cdot).Neg()

		oldImpulse := joint.linearImpulse
		joint.linearImpulse = joint.linearImpulse.Add(impulse).ClampMag(h * joint.maxForce)
		impulse = joint.linearImpulse.Sub(oldImpulse)

		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, impulse,
			joint.rA.Cross(impulse), joint.rB.Cross(impulse))
	}
}

func (joint *FrictionJoint) SolvePositionConstraints(data *SolverData) bool {
	return true
}

func (joint *FrictionJoint) Dump(d *Dumper) error {
	d.begin("NewFrictionJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("MaxForce", joint.maxForce)
	d.float("MaxTorque", joint.maxTorque)
	return d.end(joint)
}
