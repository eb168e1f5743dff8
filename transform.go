package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// Rot is a 2D rotation stored as the sine and cosine of its angle.
//
// Storing the pair instead of the angle lets rotations be applied and
// composed without calling math.Sin and math.Cos again:
//
//	| C  -S |   -> X' = C * X - S * Y
//	| S   C |   -> Y' = S * X + C * Y
type Rot struct {
	S, C float64
}

// NewRot returns the rotation for angle (radians).
func NewRot(angle float64) Rot {
	s, c := math.Sincos(angle)
	return Rot{S: s, C: c}
}

// RotIdentity returns the rotation by zero radians.
func RotIdentity() Rot {
	return Rot{S: 0, C: 1}
}

// Angle returns the rotation angle in radians, in the range [-Pi, Pi].
func (q Rot) Angle() float64 {
	return math.Atan2(q.S, q.C)
}

// XAxis returns the rotated x basis vector.
func (q Rot) XAxis() vec.Vec2 {
	return vec.Vec2{X: q.C, Y: q.S}
}

// YAxis returns the rotated y basis vector.
func (q Rot) YAxis() vec.Vec2 {
	return vec.Vec2{X: -q.S, Y: q.C}
}

// Apply rotates v by q.
func (q Rot) Apply(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: q.C*v.X - q.S*v.Y,
		Y: q.S*v.X + q.C*v.Y,
	}
}

// ApplyT rotates v by the inverse of q.
func (q Rot) ApplyT(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: q.C*v.X + q.S*v.Y,
		Y: -q.S*v.X + q.C*v.Y,
	}
}

// Mul composes two rotations, q * r. The result rotates by r first, then by q.
func (q Rot) Mul(r Rot) Rot {
	// [qc -qs] * [rc -rs] = [qc*rc-qs*rs -qc*rs-qs*rc]
	// [qs  qc]   [rs  rc]   [qs*rc+qc*rs -qs*rs+qc*rc]
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// MulT composes the inverse of q with r, transpose(q) * r.
func (q Rot) MulT(r Rot) Rot {
	// [ qc qs] * [rc -rs] = [qc*rc+qs*rs -qc*rs+qs*rc]
	// [-qs qc]   [rs  rc]   [-qs*rc+qc*rs qs*rs+qc*rc]
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// Transform is a rigid 2D transformation: a rotation followed by a translation.
//
// Rigid transformation, or rigid motion, preserves distances and angles. It
// is the only kind of transform a rigid body can have, so joints use it to
// move anchors between body local space and world space.
//
//	X' = Q * X + P
type Transform struct {
	P vec.Vec2
	Q Rot
}

// NewTransformIdentity returns the transform that leaves points unchanged.
func NewTransformIdentity() Transform {
	return Transform{Q: RotIdentity()}
}

// NewTransform returns the rigid transform with translation p and rotation angle.
//
// Parameters:
//   - p: the translation, the world position of the local origin.
//   - angle: the rotation in radians.
func NewTransform(p vec.Vec2, angle float64) Transform {
	return Transform{P: p, Q: NewRot(angle)}
}

// Apply transforms a local point into the parent frame.
func (t Transform) Apply(p vec.Vec2) vec.Vec2 {
	return t.Q.Apply(p).Add(t.P)
}

// ApplyT transforms a parent frame point into the local frame. It is the
// inverse of Apply.
func (t Transform) ApplyT(p vec.Vec2) vec.Vec2 {
	return t.Q.ApplyT(p.Sub(t.P))
}

// ApplyVector rotates v without translating it. Use it for directions and
// offsets.
func (t Transform) ApplyVector(v vec.Vec2) vec.Vec2 {
	return t.Q.Apply(v)
}

// Mul composes two transforms, t * u. The result applies u first, then t.
//
//	t * u = (Qt*Qu, Qt*Pu + Pt)
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		P: t.Q.Apply(u.P).Add(t.P),
		Q: t.Q.Mul(u.Q),
	}
}

// MulT composes the inverse of t with u, inverse(t) * u.
//
//	inverse(t) * u = (transpose(Qt)*Qu, transpose(Qt)*(Pu - Pt))
func (t Transform) MulT(u Transform) Transform {
	return Transform{
		P: t.Q.ApplyT(u.P.Sub(t.P)),
		Q: t.Q.MulT(u.Q),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	q := Rot{S: -t.Q.S, C: t.Q.C}
	return Transform{P: q.Apply(t.P.Neg()), Q: q}
}
