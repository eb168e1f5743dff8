package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// WeldJointDef requires a common anchor point on both bodies and the
// reference angle between them.
type WeldJointDef struct {
	JointDef

	LocalAnchorA   vec.Vec2 // relative to body A's origin
	LocalAnchorB   vec.Vec2 // relative to body B's origin
	ReferenceAngle float64  // body B angle minus body A angle
	// FrequencyHz is the angular spring frequency. Zero makes the weld rigid.
	FrequencyHz  float64
	DampingRatio float64
}

func NewWeldJointDef() *WeldJointDef {
	return &WeldJointDef{}
}

// Initialize sets the bodies, the anchor from a world point and the
// reference angle from the current body angles.
func (def *WeldJointDef) Initialize(a, b *Body, anchor vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchor)
	def.LocalAnchorB = b.WorldToLocal(anchor)
	def.ReferenceAngle = b.Angle() - a.Angle()
}

func (def *WeldJointDef) Kind() Kind {
	return KindWeld
}

func (def *WeldJointDef) validate() error {
	if err := validateBodies(KindWeld, &def.JointDef); err != nil {
		return err
	}
	if err := validateFinite(KindWeld, "ReferenceAngle", def.ReferenceAngle); err != nil {
		return err
	}
	if err := validateNonNegative(KindWeld, "FrequencyHz", def.FrequencyHz); err != nil {
		return err
	}
	return validateNonNegative(KindWeld, "DampingRatio", def.DampingRatio)
}

// WeldJoint glues two bodies together. With a frequency the relative rotation
// becomes a soft angular spring while the anchors stay pinned.
type WeldJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	referenceAngle             float64
	frequencyHz, dampingRatio  float64

	impulse Vec3

	sa, sb      solverBody
	rA, rB      vec.Vec2
	mass        Mat33
	gamma, bias float64
}

// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Angle constraint
// C = angle2 - angle1 - referenceAngle
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (joint *WeldJoint) setup(def *WeldJointDef) *WeldJoint {
	joint.init(KindWeld, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.referenceAngle = def.ReferenceAngle
	joint.frequencyHz = def.FrequencyHz
	joint.dampingRatio = def.DampingRatio
	return joint
}

func (joint *WeldJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *WeldJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *WeldJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

func (joint *WeldJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *WeldJoint) SetFrequency(hz float64) {
	joint.ActivateBodies()
	joint.frequencyHz = hz
}

func (joint *WeldJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *WeldJoint) SetDampingRatio(ratio float64) {
	joint.ActivateBodies()
	joint.dampingRatio = ratio
}

func (joint *WeldJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *WeldJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *WeldJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.impulse.XY().Scale(invDt)
}

func (joint *WeldJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Z
}

func (joint *WeldJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	k := pointMass(joint.sa, joint.sb, joint.rA, joint.rB)

	joint.gamma, joint.bias = 0, 0
	switch {
	case joint.frequencyHz > 0:
		joint.mass = k.Inverse22()

		invM := joint.sa.invI + joint.sb.invI
		m := 0.0
		if invM > 0 {
			m = 1 / invM
		}

		C := posB.A - posA.A - joint.referenceAngle
		joint.gamma, joint.bias = springCoefficients(m, joint.frequencyHz, joint.dampingRatio, C, data.Step.Dt)

		joint.mass.Ez.Z = invertOrZero(invM + joint.gamma)
	case k.Ez.Z == 0:
		joint.mass = k.Inverse22()
	default:
		joint.mass = k.SymInverse33()
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Scale(data.Step.DtRatio)

		p := joint.impulse.XY()
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p,
			joint.rA.Cross(p)+joint.impulse.Z, joint.rB.Cross(p)+joint.impulse.Z)
	} else {
		joint.impulse = Vec3{}
	}
}

func (joint *WeldJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	if joint.frequencyHz > 0 {
		cdot2 := velB.W - velA.W

		impulse2 := -joint.mass.Ez.Z * (cdot2 + joint.bias + joint.gamma*joint.impulse.Z)
		joint.impulse.Z += impulse2

		velA.W -= joint.sa.invI * impulse2
		velB.W += joint.sb.invI * impulse2

		cdot1 := relativeVelocity(velA, velB, joint.rA, joint.rB)

		impulse1 := joint.mass.Mul22(cdot1).Neg()
		joint.impulse.X += impulse1.X
		joint.impulse.Y += impulse1.Y

		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, impulse1,
			joint.rA.Cross(impulse1), joint.rB.Cross(impulse1))
		return
	}

	cdot1 := relativeVelocity(velA, velB, joint.rA, joint.rB)
	cdot2 := velB.W - velA.W
	cdot := Vec3{cdot1.X, cdot1.Y, cdot2}

	impulse := joint.mass.MulVec(cdot).Neg()
	joint.impulse = joint.impulse.Add(impulse)

	p := impulse.XY()
	applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p,
		joint.rA.Cross(p)+impulse.Z, joint.rB.Cross(p)+impulse.Z)
}

func (joint *WeldJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	k := pointMass(joint.sa, joint.sb, rA, rB)
	c1 := posB.C.Add(rB).Sub(posA.C).Sub(rA)

	positionError := c1.Mag()

	if joint.frequencyHz > 0 {
		p := k.Solve22(c1).Neg()
		applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p, rA.Cross(p), rB.Cross(p))
		return positionError <= LinearSlop
	}

	c2 := posB.A - posA.A - joint.referenceAngle
	angularError := math.Abs(c2)

	var impulse Vec3
	if k.Ez.Z > 0 {
		impulse = k.Solve33(Vec3{c1.X, c1.Y, c2}).Neg()
	} else {
		impulse2 := k.Solve22(c1).Neg()
		impulse = Vec3{impulse2.X, impulse2.Y, 0}
	}

	p := impulse.XY()
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p,
		rA.Cross(p)+impulse.Z, rB.Cross(p)+impulse.Z)

	return positionError <= LinearSlop && angularError <= AngularSlop
}

func (joint *WeldJoint) Dump(d *Dumper) error {
	d.begin("NewWeldJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("ReferenceAngle", joint.referenceAngle)
	d.float("FrequencyHz", joint.frequencyHz)
	d.float("DampingRatio", joint.dampingRatio)
	return d.end(joint)
}
