package joint

import (
	"github.com/setanarut/vec"
)

// MotorJointDef describes the target pose of body B relative to body A.
type MotorJointDef struct {
	JointDef

	LinearOffset  vec.Vec2 // position of body B minus position of body A, in body A's frame
	AngularOffset float64  // body B angle minus body A angle
	MaxForce      float64
	MaxTorque     float64
	// CorrectionFactor is the position correction rate in [0,1].
	CorrectionFactor float64
}

func NewMotorJointDef() *MotorJointDef {
	return &MotorJointDef{
		MaxForce:         1,
		MaxTorque:        1,
		CorrectionFactor: 0.3,
	}
}

// Initialize sets the bodies and the offsets from their current poses.
func (def *MotorJointDef) Initialize(a, b *Body) {
	def.BodyA = a
	def.BodyB = b
	def.LinearOffset = a.WorldToLocal(b.Position())
	def.AngularOffset = b.Angle() - a.Angle()
}

func (def *MotorJointDef) Kind() Kind {
	return KindMotor
}

func (def *MotorJointDef) validate() error {
	if err := validateBodies(KindMotor, &def.JointDef); err != nil {
		return err
	}
	if !isValidVec(def.LinearOffset) {
		return defError(KindMotor, "LinearOffset", ErrInvalidParameter)
	}
	if err := validateFinite(KindMotor, "AngularOffset", def.AngularOffset); err != nil {
		return err
	}
	if err := validateNonNegative(KindMotor, "MaxForce", def.MaxForce); err != nil {
		return err
	}
	if err := validateNonNegative(KindMotor, "MaxTorque", def.MaxTorque); err != nil {
		return err
	}
	if !isValid(def.CorrectionFactor) || def.CorrectionFactor < 0 || def.CorrectionFactor > 1 {
		return defError(KindMotor, "CorrectionFactor", ErrInvalidParameter)
	}
	return nil
}

// MotorJoint drives body B towards a pose relative to body A, using at most
// MaxForce and MaxTorque. A typical use is a character moving over a ground
// body.
type MotorJoint struct {
	jointBase

	linearOffset     vec.Vec2
	angularOffset    float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	linearImpulse  vec.Vec2
	angularImpulse float64

	sa, sb       solverBody
	rA, rB       vec.Vec2
	linearError  vec.Vec2
	angularError float64
	linearMass   Mat22
	angularMass  float64
}

// Point-to-point constraint
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// r_skew = [-ry; rx]
// K = J * invM * JT
//
// Angle constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (joint *MotorJoint) setup(def *MotorJointDef) *MotorJoint {
	joint.init(KindMotor, &def.JointDef)
	joint.linearOffset = def.LinearOffset
	joint.angularOffset = def.AngularOffset
	joint.maxForce = def.MaxForce
	joint.maxTorque = def.MaxTorque
	joint.correctionFactor = def.CorrectionFactor
	return joint
}

func (joint *MotorJoint) LinearOffset() vec.Vec2 {
	return joint.linearOffset
}

// SetLinearOffset sets the target position of body B in body A's frame.
func (joint *MotorJoint) SetLinearOffset(offset vec.Vec2) {
	if offset != joint.linearOffset {
		joint.ActivateBodies()
		joint.linearOffset = offset
	}
}

func (joint *MotorJoint) AngularOffset() float64 {
	return joint.angularOffset
}

func (joint *MotorJoint) SetAngularOffset(offset float64) {
	if offset != joint.angularOffset {
		joint.ActivateBodies()
		joint.angularOffset = offset
	}
}

func (joint *MotorJoint) MaxForce() float64 {
	return joint.maxForce
}

func (joint *MotorJoint) SetMaxForce(force float64) {
	if !isValid(force) || force < 0 {
		logger.Warn("motor joint max force rejected", "force", force)
		return
	}
	joint.maxForce = force
}

func (joint *MotorJoint) MaxTorque() float64 {
	return joint.maxTorque
}

func (joint *MotorJoint) SetMaxTorque(torque float64) {
	if !isValid(torque) || torque < 0 {
		logger.Warn("motor joint max torque rejected", "torque", torque)
		return
	}
	joint.maxTorque = torque
}

func (joint *MotorJoint) CorrectionFactor() float64 {
	return joint.correctionFactor
}

// SetCorrectionFactor sets the position correction rate. Values outside
// [0,1] are ignored.
func (joint *MotorJoint) SetCorrectionFactor(factor float64) {
	if !isValid(factor) || factor < 0 || factor > 1 {
		logger.Warn("motor joint correction factor rejected", "factor", factor)
		return
	}
	joint.ActivateBodies()
	joint.correctionFactor = factor
}

func (joint *MotorJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.Position()
}

func (joint *MotorJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.Position()
}

func (joint *MotorJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.linearImpulse.Scale(invDt)
}

func (joint *MotorJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.angularImpulse
}

func (joint *MotorJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)

	// The arms point from the centers of mass to the body origins.
	joint.rA = qA.Apply(joint.sa.localCenter.Neg())
	joint.rB = qB.Apply(joint.sb.localCenter.Neg())

	joint.linearMass = kTensor(joint.sa, joint.sb, joint.rA, joint.rB).Inverse()
	joint.angularMass = invertOrZero(joint.sa.invI + joint.sb.invI)

	joint.linearError = posB.C.Add(joint.rB).Sub(posA.C).Sub(joint.rA).Sub(qA.Apply(joint.linearOffset))
	joint.angularError = posB.A - posA.A - joint.angularOffset

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

func (joint *MotorJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	h := data.Step.Dt
	invH := data.Step.InvDt

	// Solve angular friction
	{
		cdot := velB.W - velA.W + invH*joint.correctionFactor*joint.angularError
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
		cdot := relativeVelocity(velA, velB, joint.rA, joint.rB).
			Add(joint.linearError.Scale(invH * joint.correctionFactor))
		impulse := joint.linearMass.MulVec(cdot).Neg()

		oldImpulse := joint.linearImpulse
		joint.linearImpulse = joint.linearImpulse.Add(impulse).ClampMag(h * joint.maxForce)
		impulse = joint.linearImpulse.Sub(oldImpulse)

		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, impulse,
			joint.rA.Cross(impulse), joint.rB.Cross(impulse))
	}
}

func (joint *MotorJoint) SolvePositionConstraints(data *SolverData) bool {
	return true
}

func (joint *MotorJoint) Dump(d *Dumper) error {
	d.begin("NewMotorJointDef", &joint.jointBase)
	d.vector("LinearOffset", joint.linearOffset)
	d.float("AngularOffset", joint.angularOffset)
	d.float("MaxForce", joint.maxForce)
	d.float("MaxTorque", joint.maxTorque)
	d.float("CorrectionFactor", joint.correctionFactor)
	return d.end(joint)
}
