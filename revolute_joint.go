package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// RevoluteJointDef requires an anchor point where the bodies are joined. The
// anchor is stored in both body frames so the initial configuration may
// violate the constraint slightly. The reference angle is the body B angle
// minus the body A angle in the reference state; the joint angle is measured
// from it.
type RevoluteJointDef struct {
	JointDef

	LocalAnchorA   vec.Vec2 // relative to body A's origin
	LocalAnchorB   vec.Vec2 // relative to body B's origin
	ReferenceAngle float64

	EnableLimit bool
	LowerAngle  float64 // radians
	UpperAngle  float64 // radians

	EnableMotor    bool
	MotorSpeed     float64 // radians per second
	MaxMotorTorque float64
}

func NewRevoluteJointDef() *RevoluteJointDef {
	return &RevoluteJointDef{}
}

// Initialize sets the bodies, the shared anchor from a world point and the
// reference angle from the current body angles.
func (def *RevoluteJointDef) Initialize(a, b *Body, anchor vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchor)
	def.LocalAnchorB = b.WorldToLocal(anchor)
	def.ReferenceAngle = b.Angle() - a.Angle()
}

func (def *RevoluteJointDef) Kind() Kind {
	return KindRevolute
}

func (def *RevoluteJointDef) validate() error {
	if err := validateBodies(KindRevolute, &def.JointDef); err != nil {
		return err
	}
	if err := validateFinite(KindRevolute, "ReferenceAngle", def.ReferenceAngle); err != nil {
		return err
	}
	if err := validateFinite(KindRevolute, "LowerAngle", def.LowerAngle, def.UpperAngle); err != nil {
		return err
	}
	if def.LowerAngle > def.UpperAngle {
		return defError(KindRevolute, "LowerAngle", ErrInvalidParameter)
	}
	return validateNonNegative(KindRevolute, "MaxMotorTorque", def.MaxMotorTorque)
}

// RevoluteJoint makes two bodies share a point while they rotate freely about
// it. The relative rotation can be limited to [lower, upper] and driven by a
// motor with a maximum torque.
type RevoluteJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	referenceAngle             float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit            bool
	lowerAngle, upperAngle float64

	impulse      Vec3
	motorImpulse float64

	sa, sb     solverBody
	rA, rB     vec.Vec2
	mass       Mat33   // point-to-point and limit
	motorMass  float64 // motor and limit angular row
	limitState LimitState
}

// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Motor constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (joint *RevoluteJoint) setup(def *RevoluteJointDef) *RevoluteJoint {
	joint.init(KindRevolute, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.referenceAngle = def.ReferenceAngle
	joint.lowerAngle = def.LowerAngle
	joint.upperAngle = def.UpperAngle
	joint.maxMotorTorque = def.MaxMotorTorque
	joint.motorSpeed = def.MotorSpeed
	joint.enableLimit = def.EnableLimit
	joint.enableMotor = def.EnableMotor
	joint.limitState = LimitInactive
	return joint
}

func (joint *RevoluteJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *RevoluteJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *RevoluteJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

// CoordinateBasis exposes the frame a gear joint measures this joint's angle in.
func (joint *RevoluteJoint) CoordinateBasis() CoordinateBasis {
	return CoordinateBasis{
		Kind:           KindRevolute,
		LocalAnchorA:   joint.localAnchorA,
		LocalAnchorB:   joint.localAnchorB,
		ReferenceAngle: joint.referenceAngle,
	}
}

// JointAngle returns the current joint angle in radians.
func (joint *RevoluteJoint) JointAngle() float64 {
	return joint.bodyB.angle - joint.bodyA.angle - joint.referenceAngle
}

// JointSpeed returns the current joint angle speed in radians per second.
func (joint *RevoluteJoint) JointSpeed() float64 {
	return joint.bodyB.w - joint.bodyA.w
}

func (joint *RevoluteJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *RevoluteJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.ActivateBodies()
		joint.enableMotor = flag
	}
}

func (joint *RevoluteJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.ActivateBodies()
		joint.motorSpeed = speed
	}
}

func (joint *RevoluteJoint) MaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

func (joint *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.ActivateBodies()
		joint.maxMotorTorque = torque
	}
}

// MotorTorque returns the motor torque given the inverse time step.
func (joint *RevoluteJoint) MotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *RevoluteJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *RevoluteJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.ActivateBodies()
		joint.enableLimit = flag
		joint.impulse.Z = 0
	}
}

func (joint *RevoluteJoint) LowerLimit() float64 {
	return joint.lowerAngle
}

func (joint *RevoluteJoint) UpperLimit() float64 {
	return joint.upperAngle
}

// SetLimits sets the joint limits in radians. A lower limit above the upper
// limit is ignored.
func (joint *RevoluteJoint) SetLimits(lower, upper float64) {
	if lower > upper {
		logger.Warn("revolute joint limits ignored", "lower", lower, "upper", upper)
		return
	}
	if lower != joint.lowerAngle || upper != joint.upperAngle {
		joint.ActivateBodies()
		joint.impulse.Z = 0
		joint.lowerAngle = lower
		joint.upperAngle = upper
	}
}

// LimitState returns the state of the limit as of the last step.
func (joint *RevoluteJoint) LimitState() LimitState {
	return joint.limitState
}

func (joint *RevoluteJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *RevoluteJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *RevoluteJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.impulse.XY().Scale(invDt)
}

func (joint *RevoluteJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Z
}

func (joint *RevoluteJoint) fixedRotation() bool {
	return joint.sa.invI+joint.sb.invI == 0
}

func (joint *RevoluteJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	joint.mass = pointMass(joint.sa, joint.sb, joint.rA, joint.rB)
	joint.motorMass = invertOrZero(joint.sa.invI + joint.sb.invI)

	fixedRotation := joint.fixedRotation()
	if !joint.enableMotor || fixedRotation {
		joint.motorImpulse = 0
	}

	if joint.enableLimit && !fixedRotation {
		jointAngle := posB.A - posA.A - joint.referenceAngle
		switch {
		case math.Abs(joint.upperAngle-joint.lowerAngle) < 2*AngularSlop:
			joint.limitState = LimitEqual
		case jointAngle <= joint.lowerAngle:
			if joint.limitState != LimitAtLower {
				joint.impulse.Z = 0
			}
			joint.limitState = LimitAtLower
		case jointAngle >= joint.upperAngle:
			if joint.limitState != LimitAtUpper {
				joint.impulse.Z = 0
			}
			joint.limitState = LimitAtUpper
		default:
			joint.limitState = LimitInactive
			joint.impulse.Z = 0
		}
	} else {
		joint.limitState = LimitInactive
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Scale(data.Step.DtRatio)
		joint.motorImpulse *= data.Step.DtRatio

		p := joint.impulse.XY()
		angular := joint.motorImpulse + joint.impulse.Z
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p,
			joint.rA.Cross(p)+angular, joint.rB.Cross(p)+angular)
	} else {
		joint.impulse = Vec3{}
		joint.motorImpulse = 0
	}
}

func (joint *RevoluteJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	iA, iB := joint.sa.invI, joint.sb.invI
	fixedRotation := joint.fixedRotation()

	// Solve motor constraint.
	if joint.enableMotor && joint.limitState != LimitEqual && !fixedRotation {
		cdot := velB.W - velA.W - joint.motorSpeed
		impulse := -joint.motorMass * cdot
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorTorque
		joint.motorImpulse = clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		velA.W -= iA * impulse
		velB.W += iB * impulse
	}

	if joint.enableLimit && joint.limitState != LimitInactive && !fixedRotation {
		// Solve limit constraint.
		cdot1 := relativeVelocity(velA, velB, joint.rA, joint.rB)
		cdot2 := velB.W - velA.W
		cdot := Vec3{cdot1.X, cdot1.Y, cdot2}

		impulse := joint.mass.Solve33(cdot).Neg()

		switch joint.limitState {
		case LimitEqual:
			joint.impulse = joint.impulse.Add(impulse)
		case LimitAtLower, LimitAtUpper:
			newImpulse := joint.impulse.Z + impulse.Z
			if (joint.limitState == LimitAtLower && newImpulse < 0) ||
				(joint.limitState == LimitAtUpper && newImpulse > 0) {
				rhs := cdot1.Neg().Add(joint.mass.Ez.XY().Scale(joint.impulse.Z))
				reduced := joint.mass.Solve22(rhs)
				impulse = Vec3{reduced.X, reduced.Y, -joint.impulse.Z}
				joint.impulse.X += reduced.X
				joint.impulse.Y += reduced.Y
				joint.impulse.Z = 0
			} else {
				joint.impulse = joint.impulse.Add(impulse)
			}
		}

		p := impulse.XY()
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p,
			joint.rA.Cross(p)+impulse.Z, joint.rB.Cross(p)+impulse.Z)
	} else {
		// Solve point-to-point constraint.
		cdot := relativeVelocity(velA, velB, joint.rA, joint.rB)
		impulse := joint.mass.Solve22(cdot.Neg())

		joint.impulse.X += impulse.X
		joint.impulse.Y += impulse.Y

		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, impulse,
			joint.rA.Cross(impulse), joint.rB.Cross(impulse))
	}
}

func (joint *RevoluteJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	angularError := 0.0
	positionError := 0.0

	// Solve angular limit constraint.
	if joint.enableLimit && joint.limitState != LimitInactive && !joint.fixedRotation() {
		angle := posB.A - posA.A - joint.referenceAngle
		limitImpulse := 0.0

		switch joint.limitState {
		case LimitEqual:
			// Prevent large angular corrections.
			C := clamp(angle-joint.lowerAngle, -MaxAngularCorrection, MaxAngularCorrection)
			limitImpulse = -joint.motorMass * C
			angularError = math.Abs(C)
		case LimitAtLower:
			C := angle - joint.lowerAngle
			angularError = -C

			// Prevent large angular corrections and allow some slop.
			C = clamp(C+AngularSlop, -MaxAngularCorrection, 0)
			limitImpulse = -joint.motorMass * C
		case LimitAtUpper:
			C := angle - joint.upperAngle
			angularError = C

			// Prevent large angular corrections and allow some slop.
			C = clamp(C-AngularSlop, 0, MaxAngularCorrection)
			limitImpulse = -joint.motorMass * C
		}

		posA.A -= joint.sa.invI * limitImpulse
		posB.A += joint.sb.invI * limitImpulse
	}

	// Solve point-to-point constraint.
	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	C := posB.C.Add(rB).Sub(posA.C).Sub(rA)
	positionError = C.Mag()

	impulse := kTensor(joint.sa, joint.sb, rA, rB).Solve(C).Neg()
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, impulse, rA.Cross(impulse), rB.Cross(impulse))

	return positionError <= LinearSlop && angularError <= AngularSlop
}

func (joint *RevoluteJoint) Dump(d *Dumper) error {
	d.begin("NewRevoluteJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("ReferenceAngle", joint.referenceAngle)
	d.flag("EnableLimit", joint.enableLimit)
	d.float("LowerAngle", joint.lowerAngle)
	d.float("UpperAngle", joint.upperAngle)
	d.flag("EnableMotor", joint.enableMotor)
	d.float("MotorSpeed", joint.motorSpeed)
	d.float("MaxMotorTorque", joint.maxMotorTorque)
	return d.end(joint)
}
