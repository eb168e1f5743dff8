package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// PulleyJointDef requires two ground anchors, two body anchors and a ratio.
type PulleyJointDef struct {
	JointDef

	GroundAnchorA vec.Vec2 // world point, body A's segment hangs from it
	GroundAnchorB vec.Vec2 // world point, body B's segment hangs from it
	LocalAnchorA  vec.Vec2 // relative to body A's origin
	LocalAnchorB  vec.Vec2 // relative to body B's origin
	LengthA       float64  // reference length of segment A
	LengthB       float64  // reference length of segment B
	Ratio         float64
}

func NewPulleyJointDef() *PulleyJointDef {
	return &PulleyJointDef{
		JointDef:      JointDef{CollideConnected: true},
		GroundAnchorA: vec.Vec2{X: -1, Y: 1},
		GroundAnchorB: vec.Vec2{X: 1, Y: 1},
		LocalAnchorA:  vec.Vec2{X: -1, Y: 0},
		LocalAnchorB:  vec.Vec2{X: 1, Y: 0},
		Ratio:         1,
	}
}

// Initialize sets the bodies, ground anchors, body anchors from world points
// and the reference lengths from the current configuration.
func (def *PulleyJointDef) Initialize(a, b *Body, groundA, groundB, anchorA, anchorB vec.Vec2, ratio float64) {
	def.BodyA = a
	def.BodyB = b
	def.GroundAnchorA = groundA
	def.GroundAnchorB = groundB
	def.LocalAnchorA = a.WorldToLocal(anchorA)
	def.LocalAnchorB = b.WorldToLocal(anchorB)
	def.LengthA = anchorA.Distance(groundA)
	def.LengthB = anchorB.Distance(groundB)
	def.Ratio = ratio
}

func (def *PulleyJointDef) Kind() Kind {
	return KindPulley
}

func (def *PulleyJointDef) validate() error {
	if err := validateBodies(KindPulley, &def.JointDef); err != nil {
		return err
	}
	if !isValid(def.Ratio) || def.Ratio <= 0 {
		return defError(KindPulley, "Ratio", ErrInvalidParameter)
	}
	if err := validateNonNegative(KindPulley, "LengthA", def.LengthA); err != nil {
		return err
	}
	if err := validateNonNegative(KindPulley, "LengthB", def.LengthB); err != nil {
		return err
	}
	if def.LengthA < minPulleyLength || def.LengthB < minPulleyLength {
		logger.Debug("pulley segment shorter than the minimum length", "lengthA", def.LengthA, "lengthB", def.LengthB, "min", minPulleyLength)
	}
	return nil
}

// PulleyJoint connects two bodies to two fixed ground points so that
//
//	lengthA + ratio * lengthB <= constant
//
// The force in the rope is scaled by the ratio. When one side is fully
// extended the other side has zero length, so use it together with a
// prismatic joint or keep the lengths away from zero.
type PulleyJoint struct {
	jointBase

	groundAnchorA, groundAnchorB vec.Vec2
	localAnchorA, localAnchorB   vec.Vec2
	lengthA, lengthB             float64
	ratio                        float64
	constant                     float64

	impulse float64

	sa, sb solverBody
	uA, uB vec.Vec2
	rA, rB vec.Vec2
	mass   float64
}

// Pulley:
// length1 = norm(p1 - s1)
// length2 = norm(p2 - s2)
// C0 = (length1 + ratio * length2)_initial
// C = C0 - (length1 + ratio * length2)
// u1 = (p1 - s1) / norm(p1 - s1)
// u2 = (p2 - s2) / norm(p2 - s2)
// Cdot = -dot(u1, v1 + cross(w1, r1)) - ratio * dot(u2, v2 + cross(w2, r2))
// J = -[u1 cross(r1, u1) ratio * u2  ratio * cross(r2, u2)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u1)^2 + ratio^2 * (invMass2 + invI2 * cross(r2, u2)^2)

func (joint *PulleyJoint) setup(def *PulleyJointDef) *PulleyJoint {
	joint.init(KindPulley, &def.JointDef)
	joint.groundAnchorA = def.GroundAnchorA
	joint.groundAnchorB = def.GroundAnchorB
	joint.localAnchorA = def.LocalAnchorA
	joint.localAnchorB = def.LocalAnchorB
	joint.lengthA = def.LengthA
	joint.lengthB = def.LengthB
	joint.ratio = def.Ratio
	joint.constant = def.LengthA + joint.ratio*def.LengthB
	return joint
}

func (joint *PulleyJoint) GroundAnchorA() vec.Vec2 {
	return joint.groundAnchorA
}

func (joint *PulleyJoint) GroundAnchorB() vec.Vec2 {
	return joint.groundAnchorB
}

func (joint *PulleyJoint) LengthA() float64 {
	return joint.lengthA
}

func (joint *PulleyJoint) LengthB() float64 {
	return joint.lengthB
}

func (joint *PulleyJoint) Ratio() float64 {
	return joint.ratio
}

// CurrentLengthA returns the current length of the segment attached to body A.
func (joint *PulleyJoint) CurrentLengthA() float64 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA).Distance(joint.groundAnchorA)
}

// CurrentLengthB returns the current length of the segment attached to body B.
func (joint *PulleyJoint) CurrentLengthB() float64 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB).Distance(joint.groundAnchorB)
}

func (joint *PulleyJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.localAnchorA)
}

func (joint *PulleyJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.localAnchorB)
}

func (joint *PulleyJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.uB.Scale(invDt * joint.impulse)
}

func (joint *PulleyJoint) ReactionTorque(invDt float64) float64 {
	return 0
}

func (joint *PulleyJoint) ShiftOrigin(newOrigin vec.Vec2) {
	joint.groundAnchorA = joint.groundAnchorA.Sub(newOrigin)
	joint.groundAnchorB = joint.groundAnchorB.Sub(newOrigin)
}

// pulleyAxis returns the unit direction of a segment and its length. Segments
// of 10 slops or less have no direction.
func pulleyAxis(d vec.Vec2) (vec.Vec2, float64) {
	length := d.Mag()
	if length > 10*LinearSlop {
		return d.Scale(1 / length), length
	}
	return vec.Vec2{}, length
}

func (joint *PulleyJoint) effectiveMass(rA, rB, uA, uB vec.Vec2) float64 {
	ruA := rA.Cross(uA)
	ruB := rB.Cross(uB)

	mA := joint.sa.invMass + joint.sa.invI*ruA*ruA
	mB := joint.sb.invMass + joint.sb.invI*ruB*ruB

	mass := mA + joint.ratio*joint.ratio*mB
	if mass > 0 {
		mass = 1 / mass
	}
	return mass
}

// applyPulley pushes both bodies along their segments. The impulses act
// towards the ground anchors for positive impulse.
func (joint *PulleyJoint) applyPulley(xa, xb *vec.Vec2, aa, ab *float64, rA, rB, uA, uB vec.Vec2, impulse float64) {
	pA := uA.Scale(-impulse)
	pB := uB.Scale(-joint.ratio * impulse)

	*xa = xa.Add(pA.Scale(joint.sa.invMass))
	*aa += joint.sa.invI * rA.Cross(pA)
	*xb = xb.Add(pB.Scale(joint.sb.invMass))
	*ab += joint.sb.invI * rB.Cross(pB)
}

func (joint *PulleyJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	joint.rA = qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	joint.rB = qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	// Get the pulley axes.
	joint.uA, _ = pulleyAxis(posA.C.Add(joint.rA).Sub(joint.groundAnchorA))
	joint.uB, _ = pulleyAxis(posB.C.Add(joint.rB).Sub(joint.groundAnchorB))

	// Compute effective mass.
	joint.mass = joint.effectiveMass(joint.rA, joint.rB, joint.uA, joint.uB)

	if data.Step.WarmStarting {
		// Scale impulses to support variable time steps.
		joint.impulse *= data.Step.DtRatio

		joint.applyPulley(&velA.V, &velB.V, &velA.W, &velB.W, joint.rA, joint.rB, joint.uA, joint.uB, joint.impulse)
	} else {
		joint.impulse = 0
	}
}

func (joint *PulleyJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)

	vpA := velA.V.Add(crossSV(velA.W, joint.rA))
	vpB := velB.V.Add(crossSV(velB.W, joint.rB))

	cdot := -joint.uA.Dot(vpA) - joint.ratio*joint.uB.Dot(vpB)
	impulse := -joint.mass * cdot
	joint.impulse += impulse

	joint.applyPulley(&velA.V, &velB.V, &velA.W, &velB.W, joint.rA, joint.rB, joint.uA, joint.uB, impulse)
}

func (joint *PulleyJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)

	qA, qB := NewRot(posA.A), NewRot(posB.A)
	rA := qA.Apply(joint.localAnchorA.Sub(joint.sa.localCenter))
	rB := qB.Apply(joint.localAnchorB.Sub(joint.sb.localCenter))

	// Get the pulley axes.
	uA, lengthA := pulleyAxis(posA.C.Add(rA).Sub(joint.groundAnchorA))
	uB, lengthB := pulleyAxis(posB.C.Add(rB).Sub(joint.groundAnchorB))

	mass := joint.effectiveMass(rA, rB, uA, uB)

	C := joint.constant - lengthA - joint.ratio*lengthB
	linearError := math.Abs(C)

	impulse := -mass * C
	joint.applyPulley(&posA.C, &posB.C, &posA.A, &posB.A, rA, rB, uA, uB, impulse)

	return linearError < LinearSlop
}

func (joint *PulleyJoint) Dump(d *Dumper) error {
	d.begin("NewPulleyJointDef", &joint.jointBase)
	d.vector("GroundAnchorA", joint.groundAnchorA)
	d.vector("GroundAnchorB", joint.groundAnchorB)
	d.vector("LocalAnchorA", joint.localAnchorA)
	d.vector("LocalAnchorB", joint.localAnchorB)
	d.float("LengthA", joint.lengthA)
	d.float("LengthB", joint.lengthB)
	d.float("Ratio", joint.ratio)
	return d.end(joint)
}
