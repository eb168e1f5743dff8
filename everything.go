package joint

import (
	"math"

	"github.com/setanarut/vec"
)

const (
	// LinearSlop is the collision and constraint tolerance used as "close enough" for positions.
	LinearSlop float64 = 0.005
	// AngularSlop is the angular tolerance used as "close enough" for angles (radians).
	AngularSlop float64 = 2.0 / 180.0 * math.Pi
	// MaxLinearCorrection is the maximum linear position correction applied per position iteration.
	MaxLinearCorrection float64 = 0.2
	// MaxAngularCorrection is the maximum angular position correction applied per position iteration.
	MaxAngularCorrection float64 = 8.0 / 180.0 * math.Pi
	// MaxTranslation caps the distance a body may move in one step of the reference island.
	MaxTranslation float64 = 2.0
	// MaxRotation caps the angle a body may turn in one step of the reference island.
	MaxRotation float64 = 0.5 * math.Pi

	minPulleyLength float64 = 2.0
)

// Kind identifies the concrete type of a joint. A joint's kind is fixed when it is created.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRevolute
	KindPrismatic
	KindDistance
	KindPulley
	KindMouse
	KindGear
	KindWheel
	KindWeld
	KindFriction
	KindRope
	KindMotor

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:   "unknown",
	KindRevolute:  "revolute",
	KindPrismatic: "prismatic",
	KindDistance:  "distance",
	KindPulley:    "pulley",
	KindMouse:     "mouse",
	KindGear:      "gear",
	KindWheel:     "wheel",
	KindWeld:      "weld",
	KindFriction:  "friction",
	KindRope:      "rope",
	KindMotor:     "motor",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind named s, as produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if k != int(KindUnknown) && name == s {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// LimitState describes whether and how a joint's range limit is binding.
type LimitState uint8

const (
	LimitInactive LimitState = iota
	LimitAtLower
	LimitAtUpper
	LimitEqual
)

func (s LimitState) String() string {
	switch s {
	case LimitAtLower:
		return "at-lower"
	case LimitAtUpper:
		return "at-upper"
	case LimitEqual:
		return "equal"
	}
	return "inactive"
}

// solverBody caches the mass properties of one joint body for a single step.
type solverBody struct {
	localCenter vec.Vec2
	invMass     float64
	invI        float64
}

func newSolverBody(b *Body) solverBody {
	return solverBody{
		localCenter: b.centerOfGravity,
		invMass:     b.massInverse,
		invI:        b.momentOfInertiaInverse,
	}
}

func clamp(f, min, max float64) float64 {
	if f > min {
		return math.Min(f, max)
	} else {
		return math.Min(min, max)
	}
}

// crossSV returns s × v, the 90 degree rotation of v scaled by s.
func crossSV(s float64, v vec.Vec2) vec.Vec2 {
	return v.Perp().Scale(s)
}

// normalize returns the unit vector of v and its length. Zero length vectors
// come back as zero instead of Unit's near-zero result.
func normalize(v vec.Vec2) (vec.Vec2, float64) {
	length := v.Mag()
	if length < math.SmallestNonzeroFloat64 {
		return vec.Vec2{}, 0
	}
	return v.Scale(1 / length), length
}

// axialMass returns the effective mass of a constraint along u applied at rA
// and rB, or zero when no body can move along u.
func axialMass(sa, sb solverBody, rA, rB, u vec.Vec2) float64 {
	crA := rA.Cross(u)
	crB := rB.Cross(u)
	return invertOrZero(sa.invMass + sa.invI*crA*crA + sb.invMass + sb.invI*crB*crB)
}

// relativeVelocity returns the velocity of anchor B relative to anchor A.
func relativeVelocity(va, vb *Velocity, rA, rB vec.Vec2) vec.Vec2 {
	return vb.V.Add(crossSV(vb.W, rB)).Sub(va.V).Sub(crossSV(va.W, rA))
}

// invertOrZero returns 1/x, or 0 when x is 0.
func invertOrZero(x float64) float64 {
	if x != 0 {
		return 1 / x
	}
	return 0
}

// applyImpulse applies the linear impulse p to body B (and -p to body A)
// together with the angular impulses la and lb. It works on velocity and
// position slots alike.
func applyImpulse(xa *vec.Vec2, aa *float64, xb *vec.Vec2, ab *float64, sa, sb solverBody, p vec.Vec2, la, lb float64) {
	*xa = xa.Sub(p.Scale(sa.invMass))
	*aa -= sa.invI * la
	*xb = xb.Add(p.Scale(sb.invMass))
	*ab += sb.invI * lb
}

// springCoefficients converts a mass-spring-damper with the given natural
// frequency (Hz) and damping ratio into the soft constraint terms used by the
// velocity solver. C is the current position error and h the time step. Both
// terms are zero when frequencyHz <= 0.
func springCoefficients(mass, frequencyHz, dampingRatio, C, h float64) (gamma, bias float64) {
	if frequencyHz <= 0 {
		return 0, 0
	}
	omega := 2 * math.Pi * frequencyHz
	d := 2 * mass * dampingRatio * omega
	k := mass * omega * omega

	gamma = invertOrZero(h * (d + h*k))
	bias = C * h * k * gamma
	return gamma, bias
}

func isValid(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isValidVec(v vec.Vec2) bool {
	return isValid(v.X) && isValid(v.Y)
}
