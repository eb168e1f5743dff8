package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// WheelJointDef requires an anchor point and a suspension axis fixed in body A.
type WheelJointDef struct {
	JointDef

	LocalAnchorA vec.Vec2 // relative to body A's origin
	LocalAnchorB vec.Vec2 // relative to body B's origin
	LocalAxisA   vec.Vec2 // suspension axis in body A, normalized on create

	EnableMotor    bool
	MaxMotorTorque float64
	MotorSpeed     float64 // radians per second

	// Suspension spring. Zero frequency disables the spring.
	FrequencyHz  float64
	DampingRatio float64
}

func NewWheelJointDef() *WheelJointDef {
	return &WheelJointDef{
		LocalAxisA:   vec.Vec2{X: 1, Y: 0},
		FrequencyHz:  2,
		DampingRatio: 0.7,
	}
}

// Initialize sets the bodies, the anchor and the axis from world values.
func (def *WheelJointDef) Initialize(a, b *Body, anchor, axis vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchor)
	def.LocalAnchorB = b.WorldToLocal(anchor)
	def.LocalAxisA = a.WorldToLocalVector(axis)
}

func (def *WheelJointDef) Kind() Kind {
	return KindWheel
}

func (def *WheelJointDef) validate() error {
	if err := validateBodies(KindWheel, &def.JointDef); err != nil {
		return err
	}
	if !isValidVec(def.LocalAxisA) || def.LocalAxisA.Dot(def.LocalAxisA) == 0 {
		return defError(KindWheel, "LocalAxisA", ErrInvalidParameter)
	}
	if err := validateFinite(KindWheel, "MotorSpeed", def.MotorSpeed); err != nil {
		return err
	}
	return validateNonNegative(KindWheel, "MaxMotorTorque", def.MaxMotorTorque, def.FrequencyHz, def.DampingRatio)
}

// WheelJoint keeps the anchor of body B on a line fixed in body A, with a
// spring along the line and a rotational motor. It models vehicle
// suspension.
type WheelJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	localXAxisA, localYAxisA   vec.Vec2

	frequencyHz, dampingRatio float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	impulse       float64
	motorImpulse  float64
	springImpulse float64

	sa, sb     solverBody
	ax, ay     vec.Vec2
	sAx, sBx   float64
	sAy, sBy   float64
	mass       float64
	motorMass  float64
	springMass float64
	bias       float64
	gamma      float64
}

// Linear constraint (point-to-line)
// d = pB - pA = xB + rB - xA - rA
// C = dot(ay, d)
// Cdot = dot(d, cross(wA, ay)) + dot(ay, vB + cross(wB, rB) - vA - cross(wA, rA))
//      = -dot(ay, vA) - dot(cross(d + rA, ay), wA) + dot(ay, vB) + dot(cross(rB, ay), vB)
// J = [-ay, -cross(d + rA, ay), ay, cross(rB, ay)]
//
// Spring linear constraint
// C = dot(ax, d)
// Cdot = -dot(ax, vA) - dot(cross(d + rA, ax), wA) + dot(ax, vB) + dot(cross(rB, ax), vB)
// J = [-ax -cross(d+rA, ax) ax cross(rB, ax)]
//
// Motor rotational constraint
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]

func (joint *WheelJoint) setup(def *WheelJointDef) *WheelJoint {
	joint.init(KindWheel, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.localXAxisA = def.LocalAxisA.Unit()
	joint.localYAxisA = joint.localXAxisA.Perp()
	joint.frequencyHz = def.FrequencyHz
	joint.dampingRatio = def.DampingRatio
	joint.enableMotor = def.EnableMotor
	joint.maxMotorTorque = def.MaxMotorTorque
	joint.motorSpeed = def.MotorSpeed
	return joint
}

func (joint *WheelJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *WheelJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *WheelJoint) LocalAxisA() vec.Vec2 {
	return joint.localXAxisA
}

// JointTranslation returns the anchor separation along the suspension axis.
func (joint *WheelJoint) JointTranslation() float64 {
	pA := joint.bodyA.LocalToWorld(joint.localAnchorA)
	pB := joint.bodyB.LocalToWorld(joint.localAnchorB)
	axis := joint.bodyA.LocalToWorldVector(joint.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

// JointSpeed returns the relative angular speed of the wheel.
func (joint *WheelJoint) JointSpeed() float64 {
	return joint.bodyB.w - joint.bodyA.w
}

func (joint *WheelJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *WheelJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.ActivateBodies()
		joint.enableMotor = flag
	}
}

func (joint *WheelJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *WheelJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.ActivateBodies()
		joint.motorSpeed = speed
	}
}

func (joint *WheelJoint) MaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

func (joint *WheelJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.ActivateBodies()
		joint.maxMotorTorque = torque
	}
}

// MotorTorque returns the motor torque given the inverse time step.
func (joint *WheelJoint) MotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *WheelJoint) SpringFrequency() float64 {
	return joint.frequencyHz
}

func (joint *WheelJoint) SetSpringFrequency(hz float64) {
	joint.ActivateBodies()
	joint.frequencyHz = hz
}

func (joint *WheelJoint) SpringDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *WheelJoint) SetSpringDampingRatio(ratio float64) {
	joint.ActivateBodies()
	joint.dampingRatio = ratio
}

func (joint *WheelJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *WheelJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *WheelJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.ay.Scale(joint.impulse).Add(joint.ax.Scale(joint.springImpulse)).Scale(invDt)
}

func (joint *WheelJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *WheelJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)
	mA, mB := joint.sa.invMass, joint.sb.invMass
	iA, iB := joint.sa.invI, joint.sb.invI

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	d := posB.C.Add(rB).Sub(posA.C).Sub(rA)

	// Point to line constraint
	joint.ay = qA.Apply(joint.localYAxisA)
	joint.sAy = d.Add(rA).Cross(joint.ay)
	joint.sBy = rB.Cross(joint.ay)
	joint.mass = invertOrZero(mA + mB + iA*joint.sAy*joint.sAy + iB*joint.sBy*joint.sBy)

	// Spring constraint
	joint.springMass, joint.bias, joint.gamma = 0, 0, 0
	if joint.frequencyHz > 0 {
		joint.ax = qA.Apply(joint.localXAxisA)
		joint.sAx = d.Add(rA).Cross(joint.ax)
		joint.sBx = rB.Cross(joint.ax)

		invMass := mA + mB + iA*joint.sAx*joint.sAx + iB*joint.sBx*joint.sBx
		if invMass > 0 {
			C := d.Dot(joint.ax)
			joint.gamma, joint.bias = springCoefficients(1/invMass, joint.frequencyHz, joint.dampingRatio, C, data.Step.Dt)
			joint.springMass = invertOrZero(invMass + joint.gamma)
		}
	} else {
		joint.springImpulse = 0
	}

	// Rotational motor
	if joint.enableMotor {
		joint.motorMass = invertOrZero(iA + iB)
	} else {
		joint.motorMass = 0
		joint.motorImpulse = 0
	}

	if data.Step.WarmStarting {
		// Account for variable time step.
		joint.impulse *= data.Step.DtRatio
		joint.springImpulse *= data.Step.DtRatio
		joint.motorImpulse *= data.Step.DtRatio

		p := joint.ay.Scale(joint.impulse).Add(joint.ax.Scale(joint.springImpulse))
		lA := joint.impulse*joint.sAy + joint.springImpulse*joint.sAx + joint.motorImpulse
		lB := joint.impulse*joint.sBy + joint.springImpulse*joint.sBx + joint.motorImpulse
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, lA, lB)
	} else {
		joint.impulse = 0
		joint.springImpulse = 0
		joint.motorImpulse = 0
	}
}

func (joint *WheelJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	// Solve spring constraint
	{
		cdot := joint.ax.Dot(velB.V.Sub(velA.V)) + joint.sBx*velB.W - joint.sAx*velA.W
		impulse := -joint.springMass * (cdot + joint.bias + joint.gamma*joint.springImpulse)
		joint.springImpulse += impulse

		p := joint.ax.Scale(impulse)
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, impulse*joint.sAx, impulse*joint.sBx)
	}

	// Solve rotational motor constraint
	{
		cdot := velB.W - velA.W - joint.motorSpeed
		impulse := -joint.motorMass * cdot

		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorTorque
		joint.motorImpulse = clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		velA.W -= joint.sa.invI * impulse
		velB.W += joint.sb.invI * impulse
	}

	// Solve point to line constraint
	{
		cdot := joint.ay.Dot(velB.V.Sub(velA.V)) + joint.sBy*velB.W - joint.sAy*velA.W
		impulse := -joint.mass * cdot
		joint.impulse += impulse

		p := joint.ay.Scale(impulse)
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, impulse*joint.sAy, impulse*joint.sBy)
	}
}

func (joint *WheelJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	d := posB.C.Sub(posA.C).Add(rB).Sub(rA)

	ay := qA.Apply(joint.localYAxisA)
	sAy := d.Add(rA).Cross(ay)
	sBy := rB.Cross(ay)

	C := d.Dot(ay)
	k := joint.sa.invMass + joint.sb.invMass + joint.sa.invI*sAy*sAy + joint.sb.invI*sBy*sBy

	impulse := 0.0
	if k != 0 {
		impulse = -C / k
	}

	p := ay.Scale(impulse)
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p, impulse*sAy, impulse*sBy)

	return math.Abs(C) <= LinearSlop
}

func (joint *WheelJoint) Dump(d *Dumper) error {
	d.begin("NewWheelJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.vector("LocalAxisA", joint.localXAxisA)
	d.flag("EnableMotor", joint.enableMotor)
	d.float("MotorSpeed", joint.motorSpeed)
	d.float("MaxMotorTorque", joint.maxMotorTorque)
	d.float("FrequencyHz", joint.frequencyHz)
	d.float("DampingRatio", joint.dampingRatio)
	return d.end(joint)
}
