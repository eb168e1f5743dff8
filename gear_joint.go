package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// CoordinateBasis is the geometry a gear joint reads from a revolute or
// prismatic joint. Anchor A lies on the joint's body A, which the gear treats
// as ground; anchor B lies on the geared body.
type CoordinateBasis struct {
	Kind           Kind
	LocalAnchorA   vec.Vec2
	LocalAnchorB   vec.Vec2
	LocalAxisA     vec.Vec2 // prismatic only
	ReferenceAngle float64
}

// coordinateJoint is a joint whose coordinate can drive a gear.
type coordinateJoint interface {
	Joint
	CoordinateBasis() CoordinateBasis
}

// GearJointDef connects two revolute or prismatic joints. Body B of each joint
// is geared; body A of each joint should be fixed (usually the ground).
type GearJointDef struct {
	JointDef

	Joint1 Joint
	Joint2 Joint
	// Ratio is the gear ratio, see GearJoint.
	Ratio float64
}

func NewGearJointDef() *GearJointDef {
	return &GearJointDef{Ratio: 1}
}

func (def *GearJointDef) Kind() Kind {
	return KindGear
}

func (def *GearJointDef) validate() error {
	j1, err := gearInput("Joint1", def.Joint1)
	if err != nil {
		return err
	}
	j2, err := gearInput("Joint2", def.Joint2)
	if err != nil {
		return err
	}
	if j1.BodyB() == j2.BodyB() {
		return defError(KindGear, "Joint2", ErrSameBody)
	}
	return validateFinite(KindGear, "Ratio", def.Ratio)
}

// gearInput checks that j is a live revolute or prismatic joint.
func gearInput(field string, j Joint) (coordinateJoint, error) {
	switch t := j.(type) {
	case *RevoluteJoint:
		if t == nil {
			return nil, defError(KindGear, field, ErrNotActive)
		}
	case *PrismaticJoint:
		if t == nil {
			return nil, defError(KindGear, field, ErrNotActive)
		}
	default:
		return nil, defError(KindGear, field, ErrGearJointKind)
	}
	b := j.base()
	if b.arena == nil || b.bodyA == nil || b.bodyB == nil {
		return nil, defError(KindGear, field, ErrNotActive)
	}
	return j.(coordinateJoint), nil
}

// gearSide is one of the two joints driving a gear. Body C is the joint's
// body A (ground) and body A the joint's body B (geared).
type gearSide struct {
	kind           Kind
	localAnchorC   vec.Vec2
	localAnchorA   vec.Vec2
	localAxisC     vec.Vec2
	referenceAngle float64
}

func newGearSide(j coordinateJoint) gearSide {
	basis := j.CoordinateBasis()
	side := gearSide{
		kind:           basis.Kind,
		localAnchorC:   basis.LocalAnchorA,
		localAnchorA:   basis.LocalAnchorB,
		referenceAngle: basis.ReferenceAngle,
	}
	if basis.Kind == KindPrismatic {
		side.localAxisC = basis.LocalAxisA
	}
	return side
}

// coordinate returns the joint angle (revolute) or translation (prismatic)
// measured in the frame of body C.
func (s *gearSide) coordinate(pa, pc Position, sa, sc solverBody) float64 {
	if s.kind == KindRevolute {
		return pa.A - pc.A - s.referenceAngle
	}
	qA, qC := NewRot(pa.A), NewRot(pc.A)
	rA := qA.Apply(s.localAnchorA.Sub(sa.localCenter))
	pA := qC.ApplyT(rA.Add(pa.C).Sub(pc.C)).Add(sc.localCenter)
	return pA.Sub(s.localAnchorC).Dot(s.localAxisC)
}

// jacobian returns the linear row, the angular rows of bodies A and C and the
// unscaled inverse effective mass of this side.
func (s *gearSide) jacobian(pa, pc Position, sa, sc solverBody) (jv vec.Vec2, jwA, jwC, invMass float64) {
	if s.kind == KindRevolute {
		return vec.Vec2{}, 1, 1, sa.invI + sc.invI
	}
	qA, qC := NewRot(pa.A), NewRot(pc.A)
	u := qC.Apply(s.localAxisC)
	rC := qC.Apply(s.localAnchorC.Sub(sc.localCenter))
	rA := qA.Apply(s.localAnchorA.Sub(sa.localCenter))
	jwC = rC.Cross(u)
	jwA = rA.Cross(u)
	return u, jwA, jwC, sc.invMass + sa.invMass + sc.invI*jwC*jwC + sa.invI*jwA*jwA
}

func bodyPosition(b *Body) Position {
	return Position{C: b.position, A: b.angle}
}

// GearJoint couples the coordinates of two revolute or prismatic joints:
//
//	coordinate1 + ratio * coordinate2 = constant
//
// The ratio may be negative or positive. If one joint is revolute and the
// other prismatic, the ratio has units of length or one over length.
//
// Destroy a gear joint before destroying either of its joints.
type GearJoint struct {
	jointBase

	joint1, joint2 Joint
	sideA, sideB   gearSide
	bodyC, bodyD   *Body
	ratio          float64
	constant       float64

	impulse float64

	sa, sb, sc, sd     solverBody
	jvAC, jvBD         vec.Vec2
	jwA, jwB, jwC, jwD float64
	mass               float64
}

func (joint *GearJoint) setup(def *GearJointDef) *GearJoint {
	j1 := def.Joint1.(coordinateJoint)
	j2 := def.Joint2.(coordinateJoint)

	base := def.JointDef
	base.BodyA = j1.BodyB()
	base.BodyB = j2.BodyB()
	joint.init(KindGear, &base)

	joint.joint1 = def.Joint1
	joint.joint2 = def.Joint2
	joint.bodyC = j1.BodyA()
	joint.bodyD = j2.BodyA()
	joint.sideA = newGearSide(j1)
	joint.sideB = newGearSide(j2)
	joint.ratio = def.Ratio

	coordinateA := joint.sideA.coordinate(bodyPosition(joint.bodyA), bodyPosition(joint.bodyC),
		newSolverBody(joint.bodyA), newSolverBody(joint.bodyC))
	coordinateB := joint.sideB.coordinate(bodyPosition(joint.bodyB), bodyPosition(joint.bodyD),
		newSolverBody(joint.bodyB), newSolverBody(joint.bodyD))
	joint.constant = coordinateA + joint.ratio*coordinateB
	return joint
}

// Joint1 returns the first joint.
func (joint *GearJoint) Joint1() Joint {
	return joint.joint1
}

// Joint2 returns the second joint.
func (joint *GearJoint) Joint2() Joint {
	return joint.joint2
}

// BodyC returns the ground body of the first joint.
func (joint *GearJoint) BodyC() *Body {
	return joint.bodyC
}

// BodyD returns the ground body of the second joint.
func (joint *GearJoint) BodyD() *Body {
	return joint.bodyD
}

func (joint *GearJoint) Ratio() float64 {
	return joint.ratio
}

// SetRatio changes the gear ratio. The conserved constant is not recomputed.
func (joint *GearJoint) SetRatio(ratio float64) {
	if !isValid(ratio) {
		logger.Warn("gear joint ratio ignored", "ratio", ratio)
		return
	}
	joint.ratio = ratio
}

// Coordinates returns the current coordinate of each joint as seen by the gear.
func (joint *GearJoint) Coordinates() (float64, float64) {
	a := joint.sideA.coordinate(bodyPosition(joint.bodyA), bodyPosition(joint.bodyC),
		newSolverBody(joint.bodyA), newSolverBody(joint.bodyC))
	b := joint.sideB.coordinate(bodyPosition(joint.bodyB), bodyPosition(joint.bodyD),
		newSolverBody(joint.bodyB), newSolverBody(joint.bodyD))
	return a, b
}

// Constant returns coordinate1 + ratio * coordinate2 at creation.
func (joint *GearJoint) Constant() float64 {
	return joint.constant
}

func (joint *GearJoint) AnchorA() vec.Vec2 {
	return joint.bodyA.LocalToWorld(joint.sideA.localAnchorA)
}

func (joint *GearJoint) AnchorB() vec.Vec2 {
	return joint.bodyB.LocalToWorld(joint.sideB.localAnchorA)
}

func (joint *GearJoint) ReactionForce(invDt float64) vec.Vec2 {
	return joint.jvAC.Scale(invDt * joint.impulse)
}

func (joint *GearJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse * joint.jwA
}

// Gear Joint:
// C0 = (coordinate1 + ratio * coordinate2)_initial
// C = (coordinate1 + ratio * coordinate2) - C0 = 0
// J = [J1 ratio * J2]
// K = J * invM * JT
//   = J1 * invM1 * J1T + ratio * ratio * J2 * invM2 * J2T
//
// Revolute:
// coordinate = rotation
// Cdot = angularVelocity
// J = [0 0 1]
// K = J * invM * JT = invI
//
// Prismatic:
// coordinate = dot(p - pg, ug)
// Cdot = dot(v + cross(w, r), ug)
// J = [ug cross(r, ug)]
// K = J * invM * JT = invMass + invI * cross(r, ug)^2

// apply adds impulse along the gear Jacobian to the four slots. C and D
// receive the negated impulse. The slots may alias.
func (joint *GearJoint) apply(xa, xb, xc, xd *vec.Vec2, aa, ab, ac, ad *float64, jvAC, jvBD vec.Vec2, jwA, jwB, jwC, jwD, impulse float64) {
	*xa = xa.Add(jvAC.Scale(joint.sa.invMass * impulse))
	*aa += joint.sa.invI * impulse * jwA
	*xb = xb.Add(jvBD.Scale(joint.sb.invMass * impulse))
	*ab += joint.sb.invI * impulse * jwB
	*xc = xc.Sub(jvAC.Scale(joint.sc.invMass * impulse))
	*ac -= joint.sc.invI * impulse * jwC
	*xd = xd.Sub(jvBD.Scale(joint.sd.invMass * impulse))
	*ad -= joint.sd.invI * impulse * jwD
}

func (joint *GearJoint) InitVelocityConstraints(data *SolverData) {
	joint.sa = newSolverBody(joint.bodyA)
	joint.sb = newSolverBody(joint.bodyB)
	joint.sc = newSolverBody(joint.bodyC)
	joint.sd = newSolverBody(joint.bodyD)

	posA, velA := data.state(joint.bodyA)
	posB, velB := data.state(joint.bodyB)
	posC, velC := data.state(joint.bodyC)
	posD, velD := data.state(joint.bodyD)

	var massA, massB float64
	joint.jvAC, joint.jwA, joint.jwC, massA = joint.sideA.jacobian(*posA, *posC, joint.sa, joint.sc)
	joint.jvBD, joint.jwB, joint.jwD, massB = joint.sideB.jacobian(*posB, *posD, joint.sb, joint.sd)

	joint.jvBD = joint.jvBD.Scale(joint.ratio)
	joint.jwB *= joint.ratio
	joint.jwD *= joint.ratio

	// Compute effective mass.
	mass := massA + joint.ratio*joint.ratio*massB
	joint.mass = 0
	if mass > 0 {
		joint.mass = 1 / mass
	}

	if data.Step.WarmStarting {
		joint.impulse *= data.Step.DtRatio
		joint.apply(&velA.V, &velB.V, &velC.V, &velD.V, &velA.W, &velB.W, &velC.W, &velD.W,
			joint.jvAC, joint.jvBD, joint.jwA, joint.jwB, joint.jwC, joint.jwD, joint.impulse)
	} else {
		joint.impulse = 0
	}
}

func (joint *GearJoint) SolveVelocityConstraints(data *SolverData) {
	_, velA := data.state(joint.bodyA)
	_, velB := data.state(joint.bodyB)
	_, velC := data.state(joint.bodyC)
	_, velD := data.state(joint.bodyD)

	cdot := joint.jvAC.Dot(velA.V.Sub(velC.V)) + joint.jvBD.Dot(velB.V.Sub(velD.V))
	cdot += (joint.jwA*velA.W - joint.jwC*velC.W) + (joint.jwB*velB.W - joint.jwD*velD.W)

	impulse := -joint.mass * cdot
	joint.impulse += impulse

	joint.apply(&velA.V, &velB.V, &velC.V, &velD.V, &velA.W, &velB.W, &velC.W, &velD.W,
		joint.jvAC, joint.jvBD, joint.jwA, joint.jwB, joint.jwC, joint.jwD, impulse)
}

func (joint *GearJoint) SolvePositionConstraints(data *SolverData) bool {
	posA, _ := data.state(joint.bodyA)
	posB, _ := data.state(joint.bodyB)
	posC, _ := data.state(joint.bodyC)
	posD, _ := data.state(joint.bodyD)

	jvAC, jwA, jwC, massA := joint.sideA.jacobian(*posA, *posC, joint.sa, joint.sc)
	jvBD, jwB, jwD, massB := joint.sideB.jacobian(*posB, *posD, joint.sb, joint.sd)
	jvBD = jvBD.Scale(joint.ratio)
	jwB *= joint.ratio
	jwD *= joint.ratio
	mass := massA + joint.ratio*joint.ratio*massB

	coordinateA := joint.sideA.coordinate(*posA, *posC, joint.sa, joint.sc)
	coordinateB := joint.sideB.coordinate(*posB, *posD, joint.sb, joint.sd)

	C := (coordinateA + joint.ratio*coordinateB) - joint.constant

	impulse := 0.0
	if mass > 0 {
		impulse = -C / mass
	}

	joint.apply(&posA.C, &posB.C, &posC.C, &posD.C, &posA.A, &posB.A, &posC.A, &posD.A,
		jvAC, jvBD, jwA, jwB, jwC, jwD, impulse)

	return math.Abs(C) < LinearSlop
}

func (joint *GearJoint) Dump(d *Dumper) error {
	d.begin("NewGearJointDef", &joint.jointBase)
	d.jointRef("Joint1", joint.joint1)
	d.jointRef("Joint2", joint.joint2)
	d.float("Ratio", joint.ratio)
	return d.end(joint)
}
