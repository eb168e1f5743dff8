package joint

import "github.com/setanarut/vec"

// Vec3 is a 3D column vector used for the stacked point and angle
// constraints of revolute, prismatic and weld joints.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a.X, s * a.Y, s * a.Z}
}

func (a Vec3) Neg() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// XY drops the Z component.
func (a Vec3) XY() vec.Vec2 {
	return vec.Vec2{X: a.X, Y: a.Y}
}

// Mat22 is a 2x2 matrix stored as columns.
type Mat22 struct {
	Ex, Ey vec.Vec2
}

// NewMat22 returns the matrix
//
//	| a11 a12 |
//	| a21 a22 |
func NewMat22(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: vec.Vec2{X: a11, Y: a21},
		Ey: vec.Vec2{X: a12, Y: a22},
	}
}

// MulVec returns m * v.
func (m Mat22) MulVec(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m.Ex.X*v.X + m.Ey.X*v.Y,
		Y: m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

// Inverse returns the inverse of m. A singular matrix inverts to zero.
func (m Mat22) Inverse() Mat22 {
	a, b, c, d := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := invertOrZero(a*d - b*c)
	return NewMat22(
		det*d, -det*b,
		-det*c, det*a,
	)
}

// Solve returns x with m * x = b using Cramer's rule. A singular matrix
// solves to zero.
func (m Mat22) Solve(b vec.Vec2) vec.Vec2 {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := invertOrZero(a11*a22 - a12*a21)
	return vec.Vec2{
		X: det * (a22*b.X - a12*b.Y),
		Y: det * (a11*b.Y - a21*b.X),
	}
}

// Mat33 is a 3x3 matrix stored as columns.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

// MulVec returns m * v.
func (m Mat33) MulVec(v Vec3) Vec3 {
	return m.Ex.Scale(v.X).Add(m.Ey.Scale(v.Y)).Add(m.Ez.Scale(v.Z))
}

// Mul22 multiplies the upper left 2x2 block by v.
func (m Mat33) Mul22(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m.Ex.X*v.X + m.Ey.X*v.Y,
		Y: m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

// Solve33 returns x with m * x = b using Cramer's rule. A singular matrix
// solves to zero.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := invertOrZero(m.Ex.Dot(m.Ey.Cross(m.Ez)))
	return Vec3{
		X: det * b.Dot(m.Ey.Cross(m.Ez)),
		Y: det * m.Ex.Dot(b.Cross(m.Ez)),
		Z: det * m.Ex.Dot(m.Ey.Cross(b)),
	}
}

// Solve22 solves the upper left 2x2 block only.
func (m Mat33) Solve22(b vec.Vec2) vec.Vec2 {
	return Mat22{Ex: m.Ex.XY(), Ey: m.Ey.XY()}.Solve(b)
}

// Inverse22 returns the inverse of the upper left 2x2 block, padded with zeros.
func (m Mat33) Inverse22() Mat33 {
	inv := Mat22{Ex: m.Ex.XY(), Ey: m.Ey.XY()}.Inverse()
	return Mat33{
		Ex: Vec3{inv.Ex.X, inv.Ex.Y, 0},
		Ey: Vec3{inv.Ey.X, inv.Ey.Y, 0},
	}
}

// SymInverse33 returns the inverse of a symmetric m. Only the upper triangle
// of m is read.
func (m Mat33) SymInverse33() Mat33 {
	det := invertOrZero(m.Ex.Dot(m.Ey.Cross(m.Ez)))

	a11, a12, a13 := m.Ex.X, m.Ey.X, m.Ez.X
	a22, a23 := m.Ey.Y, m.Ez.Y
	a33 := m.Ez.Z

	var inv Mat33
	inv.Ex.X = det * (a22*a33 - a23*a23)
	inv.Ex.Y = det * (a13*a23 - a12*a33)
	inv.Ex.Z = det * (a12*a23 - a13*a22)

	inv.Ey.X = inv.Ex.Y
	inv.Ey.Y = det * (a11*a33 - a13*a13)
	inv.Ey.Z = det * (a13*a12 - a11*a23)

	inv.Ez.X = inv.Ex.Z
	inv.Ez.Y = inv.Ey.Z
	inv.Ez.Z = det * (a11*a22 - a12*a12)
	return inv
}

// pointMass returns the effective mass matrix of a point-to-point constraint
// with anchor arms rA and rB, stacked with the relative angle row:
//
//	K = [ mA+mB+rAy²iA+rBy²iB,  -rAy*rAx*iA-rBy*rBx*iB,  -rAy*iA-rBy*iB ]
//	    [ -rAy*rAx*iA-rBy*rBx*iB, mA+mB+rAx²iA+rBx²iB,   rAx*iA+rBx*iB ]
//	    [ -rAy*iA-rBy*iB,          rAx*iA+rBx*iB,          iA+iB         ]
func pointMass(sa, sb solverBody, rA, rB vec.Vec2) Mat33 {
	mA, mB := sa.invMass, sb.invMass
	iA, iB := sa.invI, sb.invI

	var k Mat33
	k.Ex.X = mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	k.Ey.X = -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	k.Ez.X = -rA.Y*iA - rB.Y*iB
	k.Ex.Y = k.Ey.X
	k.Ey.Y = mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	k.Ez.Y = rA.X*iA + rB.X*iB
	k.Ex.Z = k.Ez.X
	k.Ey.Z = k.Ez.Y
	k.Ez.Z = iA + iB
	return k
}

// kTensor returns the 2x2 point-to-point block of pointMass.
func kTensor(sa, sb solverBody, rA, rB vec.Vec2) Mat22 {
	k := pointMass(sa, sb, rA, rB)
	return Mat22{Ex: k.Ex.XY(), Ey: k.Ey.XY()}
}
