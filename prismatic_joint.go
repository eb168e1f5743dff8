package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// PrismaticJointDef requires a line of motion given by an axis and an anchor
// point. The axis is fixed in body A.
type PrismaticJointDef struct {
	JointDef

	LocalAnchorA   vec.Vec2 // relative to body A's origin
	LocalAnchorB   vec.Vec2 // relative to body B's origin
	LocalAxisA     vec.Vec2 // translation axis in body A, normalized on create
	ReferenceAngle float64

	EnableLimit      bool
	LowerTranslation float64
	UpperTranslation float64

	EnableMotor   bool
	MotorSpeed    float64
	MaxMotorForce float64
}

func NewPrismaticJointDef() *PrismaticJointDef {
	return &PrismaticJointDef{LocalAxisA: vec.Vec2{X: 1, Y: 0}}
}

// Initialize sets the bodies, anchors and axis from world values and the
// reference angle from the current body angles.
func (def *PrismaticJointDef) Initialize(a, b *Body, anchor, axis vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchor)
	def.LocalAnchorB = b.WorldToLocal(anchor)
	def.LocalAxisA = a.WorldToLocalVector(axis)
	def.ReferenceAngle = b.Angle() - a.Angle()
}

func (def *PrismaticJointDef) Kind() Kind {
	return KindPrismatic
}

func (def *PrismaticJointDef) validate() error {
	if err := validateBodies(KindPrismatic, &def.JointDef); err != nil {
		return err
	}
	if !isValidVec(def.LocalAxisA) || def.LocalAxisA.Dot(def.LocalAxisA) == 0 {
		return defError(KindPrismatic, "LocalAxisA", ErrInvalidParameter)
	}
	if err := validateFinite(KindPrismatic, "LowerTranslation", def.LowerTranslation, def.UpperTranslation); err != nil {
		return err
	}
	if def.LowerTranslation > def.UpperTranslation {
		return defError(KindPrismatic, "LowerTranslation", ErrInvalidParameter)
	}
	return validateNonNegative(KindPrismatic, "MaxMotorForce", def.MaxMotorForce)
}

// PrismaticJoint lets body B slide along an axis fixed in body A without
// relative rotation. The translation can be limited and driven by a motor.
type PrismaticJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	localXAxisA, localYAxisA   vec.Vec2
	referenceAngle             float64

	enableLimit                        bool
	lowerTranslation, upperTranslation float64

	enableMotor   bool
	maxMotorForce float64
	motorSpeed    float64

	impulse      Vec3
	motorImpulse float64

	sa, sb     solverBody
	axis, perp vec.Vec2
	s1, s2     float64
	a1, a2     float64
	k          Mat33
	motorMass  float64
	limitState LimitState
}

// Linear constraint (point-to-line)
// d = p2 - p1 = x2 + r2 - x1 - r1
// C = dot(perp, d)
// Cdot = dot(d, cross(w1, perp)) + dot(perp, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-perp, -cross(d + r1, perp), perp, cross(r2,perp)]
//
// Angular constraint
// C = a2 - a1 + a_initial
// J = [0 0 -1 0 0 1]
//
// Motor/Limit Jacobian
// J = [-axis -cross(d + r1, axis) axis cross(r2, axis)]

func (joint *PrismaticJoint) setup(def *PrismaticJointDef) *PrismaticJoint {
	joint.init(KindPrismatic, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.localXAxisA = def.LocalAxisA.Unit()
	joint.localYAxisA = joint.localXAxisA.Perp()
	joint.referenceAngle = def.ReferenceAngle
	joint.lowerTranslation = def.LowerTranslation
	joint.upperTranslation = def.UpperTranslation
	joint.maxMotorForce = def.MaxMotorForce
	joint.motorSpeed = def.MotorSpeed
	joint.enableLimit = def.EnableLimit
	joint.enableMotor = def.EnableMotor
	joint.limitState = LimitInactive
	return joint
}

func (joint *PrismaticJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *PrismaticJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *PrismaticJoint) LocalAxisA() vec.Vec2 {
	return joint.localXAxisA
}

func (joint *PrismaticJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

// CoordinateBasis exposes the frame a gear joint measures this joint's
// translation in.
func (joint *PrismaticJoint) CoordinateBasis() CoordinateBasis {
	return CoordinateBasis{
		Kind:           KindPrismatic,
		LocalAnchorA:   joint.localAnchorA,
		LocalAnchorB:   joint.localAnchorB,
		LocalAxisA:     joint.localXAxisA,
		ReferenceAngle: joint.referenceAngle,
	}
}

// JointTranslation returns the current joint translation.
func (joint *PrismaticJoint) JointTranslation() float64 {
	pA := joint.bodyA.LocalToWorld(joint.localAnchorA)
	pB := joint.bodyB.LocalToWorld(joint.localAnchorB)
	axis := joint.bodyA.LocalToWorldVector(joint.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

// JointSpeed returns the current joint translation speed.
func (joint *PrismaticJoint) JointSpeed() float64 {
	bA, bB := joint.bodyA, joint.bodyB

	rA := bA.transform.Q.Apply(joint.localAnchorA.Sub(bA.centerOfGravity))
	rB := bB.transform.Q.Apply(joint.localAnchorB.Sub(bB.centerOfGravity))
	d := bB.position.Add(rB).Sub(bA.position.Add(rA))
	axis := bA.transform.Q.Apply(joint.localXAxisA)

	va := &Velocity{V: bA.velocity, W: bA.w}
	vb := &Velocity{V: bB.velocity, W: bB.w}
	return d.Dot(crossSV(bA.w, axis)) + axis.Dot(relativeVelocity(va, vb, rA, rB))
}

func (joint *PrismaticJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *PrismaticJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.ActivateBodies()
		joint.enableLimit = flag
		joint.impulse.Z = 0
	}
}

func (joint *PrismaticJoint) LowerLimit() float64 {
	return joint.lowerTranslation
}

func (joint *PrismaticJoint) UpperLimit() float64 {
	return joint.upperTranslation
}

// SetLimits sets the translation limits. A lower limit above the upper limit
// is ignored.
func (joint *PrismaticJoint) SetLimits(lower, upper float64) {
	if lower > upper {
		logger.Warn("prismatic joint limits ignored", "lower", lower, "upper", upper)
		return
	}
	if lower != joint.lowerTranslation || upper != joint.upperTranslation {
		joint.ActivateBodies()
		joint.lowerTranslation = lower
		joint.upperTranslation = upper
		joint.impulse.Z = 0
	}
}

// LimitState returns the state of the limit as of the last step.
func (joint *PrismaticJoint) LimitState() LimitState {
	return joint.limitState
}

func (joint *PrismaticJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *PrismaticJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.ActivateBodies()
		joint.enableMotor = flag
	}
}

func (joint *PrismaticJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.ActivateBodies()
		joint.motorSpeed = speed
	}
}

func (joint *PrismaticJoint) MaxMotorForce() float64 {
	return joint.maxMotorForce
}

func (joint *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != joint.maxMotorForce {
		joint.ActivateBodies()
		joint.maxMotorForce = force
	}
}

// MotorForce returns the motor force given the inverse time step.
func (joint *PrismaticJoint) MotorForce(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *PrismaticJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *PrismaticJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *PrismaticJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.perp.Scale(joint.impulse.X).Add(joint.axis.Scale(joint.motorImpulse + joint.impulse.Z)).Scale(invDt)
}

func (joint *PrismaticJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Y
}

// prismaticMass builds the block mass matrix of the perpendicular, angular
// and axial rows. k22 falls back to 1 for bodies with fixed rotation.
func prismaticMass(sa, sb solverBody, s1, s2, a1, a2 float64) Mat33 {
	mA, mB := sa.invMass, sb.invMass
	iA, iB := sa.invI, sb.invI

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k13 := iA*s1*a1 + iB*s2*a2
	k22 := iA + iB
	if k22 == 0 {
		// For bodies with fixed rotation.
		k22 = 1
	}
	k23 := iA*a1 + iB*a2
	k33 := mA + mB + iA*a1*a1 + iB*a2*a2

	return Mat33{
		Ex: Vec3{k11, k12, k13},
		Ey: Vec3{k12, k22, k23},
		Ez: Vec3{k13, k23, k33},
	}
}

func (joint *PrismaticJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)

	// Compute the effective masses.
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	d := posB.C.Sub(posA.C).Add(rB).Sub(rA)

	mA, mB := joint.sa.invMass, joint.sb.invMass
	iA, iB := joint.sa.invI, joint.sb.invI

	// Compute motor Jacobian and effective mass.
	joint.axis = qA.Apply(joint.localXAxisA)
	joint.a1 = d.Add(rA).Cross(joint.axis)
	joint.a2 = rB.Cross(joint.axis)
	joint.motorMass = invertOrZero(mA + mB + iA*joint.a1*joint.a1 + iB*joint.a2*joint.a2)

	// Prismatic constraint.
	joint.perp = qA.Apply(joint.localYAxisA)
	joint.s1 = d.Add(rA).Cross(joint.perp)
	joint.s2 = rB.Cross(joint.perp)
	joint.k = prismaticMass(joint.sa, joint.sb, joint.s1, joint.s2, joint.a1, joint.a2)

	// Compute motor and limit terms.
	if joint.enableLimit {
		jointTranslation := joint.axis.Dot(d)
		switch {
		case math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2*LinearSlop:
			joint.limitState = LimitEqual
		case jointTranslation <= joint.lowerTranslation:
			if joint.limitState != LimitAtLower {
				joint.limitState = LimitAtLower
				joint.impulse.Z = 0
			}
		case jointTranslation >= joint.upperTranslation:
			if joint.limitState != LimitAtUpper {
				joint.limitState = LimitAtUpper
				joint.impulse.Z = 0
			}
		default:
			joint.limitState = LimitInactive
			joint.impulse.Z = 0
		}
	} else {
		joint.limitState = LimitInactive
		joint.impulse.Z = 0
	}

	if !joint.enableMotor {
		joint.motorImpulse = 0
	}

	if data.Step.WarmStarting {
		// Account for variable time step.
		joint.impulse = joint.impulse.Scale(data.Step.DtRatio)
		joint.motorImpulse *= data.Step.DtRatio

		axial := joint.motorImpulse + joint.impulse.Z
		p := joint.perp.Scale(joint.impulse.X).Add(joint.axis.Scale(axial))
		la := joint.impulse.X*joint.s1 + joint.impulse.Y + axial*joint.a1
		lb := joint.impulse.X*joint.s2 + joint.impulse.Y + axial*joint.a2
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, la, lb)
	} else {
		joint.impulse = Vec3{}
		joint.motorImpulse = 0
	}
}

func (joint *PrismaticJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	// Solve linear motor constraint.
	if joint.enableMotor && joint.limitState != LimitEqual {
		cdot := joint.axis.Dot(velB.V.Sub(velA.V)) + joint.a2*velB.W - joint.a1*velA.W
		impulse := joint.motorMass * (joint.motorSpeed - cdot)
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorForce
		joint.motorImpulse = clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		p := joint.axis.Scale(impulse)
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, impulse*joint.a1, impulse*joint.a2)
	}

	cdot1 := vec.Vec2{
		X: joint.perp.Dot(velB.V.Sub(velA.V)) + joint.s2*velB.W - joint.s1*velA.W,
		Y: velB.W - velA.W,
	}

	if joint.enableLimit && joint.limitState != LimitInactive {
		// Solve prismatic and limit constraint in block form.
		cdot2 := joint.axis.Dot(velB.V.Sub(velA.V)) + joint.a2*velB.W - joint.a1*velA.W
		cdot := Vec3{cdot1.X, cdot1.Y, cdot2}

		f1 := joint.impulse
		df := joint.k.Solve33(cdot.Neg())
		joint.impulse = joint.impulse.Add(df)

		switch joint.limitState {
		case LimitAtLower:
			joint.impulse.Z = math.Max(joint.impulse.Z, 0)
		case LimitAtUpper:
			joint.impulse.Z = math.Min(joint.impulse.Z, 0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := cdot1.Neg().Sub(joint.k.Ez.XY().Scale(joint.impulse.Z - f1.Z))
		f2r := joint.k.Solve22(b).Add(f1.XY())
		joint.impulse.X = f2r.X
		joint.impulse.Y = f2r.Y

		df = joint.impulse.Sub(f1)

		p := joint.perp.Scale(df.X).Add(joint.axis.Scale(df.Z))
		la := df.X*joint.s1 + df.Y + df.Z*joint.a1
		lb := df.X*joint.s2 + df.Y + df.Z*joint.a2
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, la, lb)
	} else {
		// Limit is inactive, just solve the prismatic constraint in block form.
		df := joint.k.Solve22(cdot1.Neg())
		joint.impulse.X += df.X
		joint.impulse.Y += df.Y

		p := joint.perp.Scale(df.X)
		la := df.X*joint.s1 + df.Y
		lb := df.X*joint.s2 + df.Y
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, la, lb)
	}
}

// The position solver only copes with integration error. The limit state is
// recomputed from positions because the joint may have moved past a limit
// the velocity solver considered inactive.
func (joint *PrismaticJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)

	// Compute fresh Jacobians.
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	d := posB.C.Add(rB).Sub(posA.C).Sub(rA)

	axis := qA.Apply(joint.localXAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := qA.Apply(joint.localYAxisA)

	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	c1 := vec.Vec2{
		X: perp.Dot(d),
		Y: posB.A - posA.A - joint.referenceAngle,
	}

	linearError := math.Abs(c1.X)
	angularError := math.Abs(c1.Y)

	active := false
	c2 := 0.0
	if joint.enableLimit {
		translation := axis.Dot(d)
		switch {
		case math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2*LinearSlop:
			// Prevent large linear corrections.
			c2 = clamp(translation-joint.lowerTranslation, -MaxLinearCorrection, MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation-joint.lowerTranslation))
			active = true
		case translation <= joint.lowerTranslation:
			// Prevent large linear corrections and allow some slop.
			c2 = clamp(translation-joint.lowerTranslation+LinearSlop, -MaxLinearCorrection, 0)
			linearError = math.Max(linearError, joint.lowerTranslation-translation)
			active = true
		case translation >= joint.upperTranslation:
			c2 = clamp(translation-joint.upperTranslation-LinearSlop, 0, MaxLinearCorrection)
			linearError = math.Max(linearError, translation-joint.upperTranslation)
			active = true
		}
	}

	k := prismaticMass(joint.sa, joint.sb, s1, s2, a1, a2)
	var impulse Vec3
	if active {
		impulse = k.Solve33(Vec3{c1.X, c1.Y, c2}.Neg())
	} else {
		impulse1 := k.Solve22(c1.Neg())
		impulse = Vec3{impulse1.X, impulse1.Y, 0}
	}

	p := perp.Scale(impulse.X).Add(axis.Scale(impulse.Z))
	la := impulse.X*s1 + impulse.Y + impulse.Z*a1
	lb := impulse.X*s2 + impulse.Y + impulse.Z*a2
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p, la, lb)

	return linearError <= LinearSlop && angularError <= AngularSlop
}

func (joint *PrismaticJoint) Dump(d *Dumper) error {
	d.begin("NewPrismaticJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.vector("LocalAxisA", joint.localXAxisA)
	d.float("ReferenceAngle", joint.referenceAngle)
	d.flag("EnableLimit", joint.enableLimit)
	d.float("LowerTranslation", joint.lowerTranslation)
	d.float("UpperTranslation", joint.upperTranslation)
	d.flag("EnableMotor", joint.enableMotor)
	d.float("MotorSpeed", joint.motorSpeed)
	d.float("MaxMotorForce", joint.maxMotorForce)
	return d.end(joint)
}
