package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// DistanceJointDef requires an anchor point on both bodies and the length of
// the rod between them. The anchors are local so the initial configuration
// may violate the constraint slightly.
type DistanceJointDef struct {
	JointDef

	LocalAnchorA vec.Vec2 // relative to body A's origin
	LocalAnchorB vec.Vec2 // relative to body B's origin
	Length       float64
	// FrequencyHz is the mass-spring-damper frequency. Zero makes the rod rigid.
	FrequencyHz float64
	// DampingRatio is 0 for no damping and 1 for critical damping.
	DampingRatio float64
}

func NewDistanceJointDef() *DistanceJointDef {
	return &DistanceJointDef{Length: 1}
}

// Initialize sets the bodies and anchors from world points, and the length
// from their current separation.
func (def *DistanceJointDef) Initialize(a, b *Body, anchorA, anchorB vec.Vec2) {
	def.BodyA = a
	def.BodyB = b
	def.LocalAnchorA = a.WorldToLocal(anchorA)
	def.LocalAnchorB = b.WorldToLocal(anchorB)
	def.Length = anchorB.Distance(anchorA)
}

func (def *DistanceJointDef) Kind() Kind {
	return KindDistance
}

func (def *DistanceJointDef) validate() error {
	if err := validateBodies(KindDistance, &def.JointDef); err != nil {
		return err
	}
	if err := validateNonNegative(KindDistance, "Length", def.Length); err != nil {
		return err
	}
	if err := validateNonNegative(KindDistance, "FrequencyHz", def.FrequencyHz); err != nil {
		return err
	}
	return validateNonNegative(KindDistance, "DampingRatio", def.DampingRatio)
}

// DistanceJoint keeps two anchor points at a fixed distance, like a massless
// rigid rod. With a frequency it becomes a spring.
type DistanceJoint struct {
	jointBase

	localAnchorA, localAnchorB vec.Vec2
	length                     float64
	frequencyHz, dampingRatio  float64

	impulse float64

	sa, sb      solverBody
	u, rA, rB   vec.Vec2
	mass        float64
	gamma, bias float64
}

func (joint *DistanceJoint) setup(def *DistanceJointDef) *DistanceJoint {
	joint.init(KindDistance, &def.JointDef)
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.length = def.Length
	joint.frequencyHz = def.FrequencyHz
	joint.dampingRatio = def.DampingRatio
	return joint
}

func (joint *DistanceJoint) LocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *DistanceJoint) LocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *DistanceJoint) Length() float64 {
	return joint.length
}

func (joint *DistanceJoint) SetLength(length float64) {
	joint.ActivateBodies()
	joint.length = length
}

func (joint *DistanceJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *DistanceJoint) SetFrequency(hz float64) {
	joint.ActivateBodies()
	joint.frequencyHz = hz
}

func (joint *DistanceJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *DistanceJoint) SetDampingRatio(ratio float64) {
	joint.ActivateBodies()
	joint.dampingRatio = ratio
}

func (joint *DistanceJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *DistanceJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *DistanceJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.u.Scale(invDt * joint.impulse)
}

func (joint *DistanceJoint) ReactionTorque(invDt float64) float64 {
	return 0
}

// C = norm(p2 - p1) - L
// u = (p2 - p1) / norm(p2 - p1)
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]
// K = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2

func (joint *DistanceJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	d := posB.C.Add(joint.rB).Sub(posA.C).Sub(joint.rA)

	// Handle singularity.
	length := d.Mag()
	if length > LinearSlop {
		joint.u = d.Scale(1 / length)
	} else {
		joint.u = vec.Vec2{}
	}

	crAu := joint.rA.Cross(joint.u)
	crBu := joint.rB.Cross(joint.u)
	invMass := joint.sa.invMass + joint.sa.invI*crAu*crAu + joint.sb.invMass + joint.sb.invI*crBu*crBu
	joint.mass = invertOrZero(invMass)

	joint.gamma, joint.bias = 0, 0
	if joint.frequencyHz > 0 {
		joint.gamma, joint.bias = springCoefficients(joint.mass, joint.frequencyHz, joint.dampingRatio, length-joint.length, data.Step.Dt)
		joint.mass = invertOrZero(invMass + joint.gamma)
	}

	if data.Step.WarmStarting {
		// Scale the impulse to support a variable time step.
		joint.impulse *= data.Step.DtRatio

		p := joint.u.Scale(joint.impulse)
		applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, joint.rA.Cross(p), joint.rB.Cross(p))
	} else {
		joint.impulse = 0
	}
}

func (joint *DistanceJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	cdot := joint.u.Dot(relativeVelocity(velA, velB, joint.rA, joint.rB))

	impulse := -joint.mass * (cdot + joint.bias + joint.gamma*joint.impulse)
	joint.impulse += impulse

	p := joint.u.Scale(impulse)
	applyImpulse(&velA.V, &velA.W, &velB.V, &velB.W, joint.sa, joint.sb, p, joint.rA.Cross(p), joint.rB.Cross(p))
}

func (joint *DistanceJoint) SolvePositionConstraints(data *SolverData) bool {
	if joint.frequencyHz > 0 {
		// There is no position correction for soft distance constraints.
		return true
	}

	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))
	u, length := normalize(posB.C.Add(rB).Sub(posA.C).Sub(rA))

	C := clamp(length-joint.length, -MaxLinearCorrection, MaxLinearCorrection)

	impulse := -axialMass(joint.sa, joint.sb, rA, rB, u) * C
	p := u.Scale(impulse)
	applyImpulse(&posA.C, &posA.A, &posB.C, &posB.A, joint.sa, joint.sb, p, rA.Cross(p), rB.Cross(p))

	return math.Abs(C) < LinearSlop
}

func (joint *DistanceJoint) Dump(d *Dumper) error {
	d.begin("NewDistanceJointDef", &joint.jointBase)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("Length", joint.length)
	d.float("FrequencyHz", joint.frequencyHz)
	d.float("DampingRatio", joint.dampingRatio)
	return d.end(joint)
}
