package joint

import (
	"github.com/setanarut/vec"
)

// MouseJointDef requires a world target point and the tuning parameters.
// Body A is usually a static ground body and does not move.
type MouseJointDef struct {
	JointDef

	// Target is the initial world point, and the point on body B that
	// tracks it.
	Target vec.Vec2
	// MaxForce is usually a multiple of body B's weight.
	MaxForce     float64
	FrequencyHz  float64
	DampingRatio float64
}

func NewMouseJointDef() *MouseJointDef {
	return &MouseJointDef{
		FrequencyHz:  5,
		DampingRatio: 0.7,
	}
}

func (def *MouseJointDef) Kind() Kind {
	return KindMouse
}

func (def *MouseJointDef) validate() error {
	if err := validateBodies(KindMouse, &def.JointDef); err != nil {
		return err
	}
	if !isValidVec(def.Target) {
		return defError(KindMouse, "Target", ErrInvalidParameter)
	}
	if err := validateNonNegative(KindMouse, "MaxForce", def.MaxForce); err != nil {
		return err
	}
	if err := validateNonNegative(KindMouse, "FrequencyHz", def.FrequencyHz); err != nil {
		return err
	}
	return validateNonNegative(KindMouse, "DampingRatio", def.DampingRatio)
}

// MouseJoint drags a point on body B towards a world target with a soft
// spring limited by a maximum force. Body A only anchors the joint.
type MouseJoint struct {
	jointBase

	localAnchorB vec.Vec2
	targetA      vec.Vec2

	frequencyHz, dampingRatio float64
	maxForce                  float64

	impulse vec.Vec2

	sb    solverBody
	rB    vec.Vec2
	mass  Mat22
	C     vec.Vec2
	beta  float64
	gamma float64
}

// p = attached point, m = mouse point
// C = p - m
// Cdot = v
//      = v + cross(w, r)
// J = [I r_skew]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

func (joint *MouseJoint) setup(def *MouseJointDef) *MouseJoint {
	joint.init(KindMouse, &def.JointDef)
	joint.targetA = def.Target
	joint.localAnchorB = joint.bodyB.WorldToLocal(def.Target)
	joint.maxForce = def.MaxForce
	joint.frequencyHz = def.FrequencyHz
	joint.dampingRatio = def.DampingRatio
	return joint
}

func (joint *MouseJoint) Target() vec.Vec2 {
	return joint.targetA
}

// SetTarget moves the world target and wakes body B.
func (joint *MouseJoint) SetTarget(target vec.Vec2) {
	if target != joint.targetA {
		joint.bodyB.SetAwake(true)
		joint.targetA = target
	}
}

func (joint *MouseJoint) MaxForce() float64 {
	return joint.maxForce
}

func (joint *MouseJoint) SetMaxForce(force float64) {
	joint.maxForce = force
}

func (joint *MouseJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *MouseJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *MouseJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *MouseJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *MouseJoint) AnchorA() vec.Vec2 {
	return joint.targetA
}

func (joint *MouseJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *MouseJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.impulse.Scale(invDt)
}

func (joint *MouseJoint) ReactionTorque(invDt float64) float64 {
	return 0
}

func (joint *MouseJoint) ShiftOrigin(newOrigin vec.Vec2) {
	joint.targetA = joint.targetA.Sub(newOrigin)
}

func (joint *MouseJoint) InitVelocityConstraints(data *SolverData) {
	joint.sb = newSolverBody(joint.bodyB)

	posB, velB := data.state(joint.bodyB)
	qB := NewRot(posB.A)

	// With C = 1 the bias term is beta, which has units of inverse time.
	joint.gamma, joint.beta = springCoefficients(joint.bodyB.Mass(), joint.frequencyHz, joint.dampingRatio, 1, data.Step.Dt)

	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	// Compute the effective mass matrix.
	k := kTensor(solverBody{}, joint.sb, vec.Vec2{}, joint.rB)
	k.Ex.X += joint.gamma
	k.Ey.Y += joint.gamma
	joint.mass = k.Inverse()

	joint.C = posB.C.Add(joint.rB).Sub(joint.targetA).Scale(joint.beta)

	// Cheat with some damping
	velB.W *= 0.98

	if data.Step.WarmStarting {
		joint.impulse = joint.impulse.Scale(data.Step.DtRatio)
		velB.V = velB.V.Add(joint.impulse.Scale(joint.sb.invMass))
		velB.W += joint.sb.invI * joint.rB.Cross(joint.impulse)
	} else {
		joint.impulse = vec.Vec2{}
	}
}

func (joint *MouseJoint) SolveVelocityConstraints(data *SolverData) {
	_, velB := data.state(joint.bodyB)

	// Cdot = v + cross(w, r)
	cdot := velB.V.Add(crossSV(velB.W, joint.rB))
	impulse := joint.mass.MulVec(cdot.Add(joint.C).Add(joint.impulse.Scale(joint.gamma))).Neg()

	oldImpulse := joint.impulse
	joint.impulse = joint.impulse.Add(impulse).ClampMag(data.Step.Dt * joint.maxForce)
	impulse = joint.impulse.Sub(oldImpulse)

	velB.V = velB.V.Add(impulse.Scale(joint.sb.invMass))
	velB.W += joint.sb.invI * joint.rB.Cross(impulse)
}

func (joint *MouseJoint) SolvePositionConstraints(data *SolverData) bool {
	return true
}

// Dump writes a notice instead of a definition. A mouse joint follows
// pointer input and has no meaningful saved form.
func (joint *MouseJoint) Dump(d *Dumper) error {
	logger.Info("mouse joint dumping is not supported", "bodyB", joint.bodyB.id)
	d.Printf("// Dumping of mouse joints is not supported.\n")
	return d.Err()
}
