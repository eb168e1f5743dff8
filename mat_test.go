package joint_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

func toMat2(m joint.Mat22) mgl64.Mat2 {
	return mgl64.Mat2{m.Ex.X, m.Ex.Y, m.Ey.X, m.Ey.Y}
}

func toMat3(m joint.Mat33) mgl64.Mat3 {
	return mgl64.Mat3{
		m.Ex.X, m.Ex.Y, m.Ex.Z,
		m.Ey.X, m.Ey.Y, m.Ey.Z,
		m.Ez.X, m.Ez.Y, m.Ez.Z,
	}
}

func mat33(a11, a12, a13, a21, a22, a23, a31, a32, a33 float64) joint.Mat33 {
	return joint.Mat33{
		Ex: joint.Vec3{X: a11, Y: a21, Z: a31},
		Ey: joint.Vec3{X: a12, Y: a22, Z: a32},
		Ez: joint.Vec3{X: a13, Y: a23, Z: a33},
	}
}

func equal2(t *testing.T, got joint.Mat22, want mgl64.Mat2) {
	t.Helper()
	g := toMat2(got)
	for i := range g {
		if !near(g[i], want[i]) {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestMat22Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    joint.Mat22
	}{
		{"identity", joint.NewMat22(1, 0, 0, 1)},
		{"diagonal", joint.NewMat22(2, 0, 0, 4)},
		{"symmetric", joint.NewMat22(3, -1, -1, 2.5)},
		{"general", joint.NewMat22(1.5, 2, -0.5, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equal2(t, tt.m.Inverse(), toMat2(tt.m).Inv())

			b := vec.Vec2{X: 0.75, Y: -3}
			x := tt.m.Solve(b)
			want := toMat2(tt.m).Inv().Mul2x1(mgl64.Vec2{b.X, b.Y})
			if !near(x.X, want[0]) || !near(x.Y, want[1]) {
				t.Errorf("Solve = %v, want %v", x, want)
			}
		})
	}
}

func TestMat22Singular(t *testing.T) {
	m := joint.NewMat22(1, 2, 2, 4)
	if inv := m.Inverse(); inv != (joint.Mat22{}) {
		t.Errorf("Inverse of singular matrix = %v, want zero", inv)
	}
	if x := m.Solve(vec.Vec2{X: 1, Y: 1}); x != (vec.Vec2{}) {
		t.Errorf("Solve with singular matrix = %v, want zero", x)
	}
}

func TestMat22MulVec(t *testing.T) {
	m := joint.NewMat22(1, 2, 3, 4)
	got := m.MulVec(vec.Vec2{X: 5, Y: 6})
	want := toMat2(m).Mul2x1(mgl64.Vec2{5, 6})
	if got.X != want[0] || got.Y != want[1] {
		t.Errorf("MulVec = %v, want %v", got, want)
	}
}

func TestMat33Solve33(t *testing.T) {
	tests := []struct {
		name string
		m    joint.Mat33
	}{
		{"identity", mat33(1, 0, 0, 0, 1, 0, 0, 0, 1)},
		{"symmetric", mat33(4, 1, -2, 1, 3, 0.5, -2, 0.5, 5)},
		{"general", mat33(2, -1, 0, 1, 3, 2, 0, 1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := joint.Vec3{X: 1, Y: -2, Z: 0.5}
			x := tt.m.Solve33(b)
			want := toMat3(tt.m).Inv().Mul3x1(mgl64.Vec3{b.X, b.Y, b.Z})
			got := [3]float64{x.X, x.Y, x.Z}
			for i := range got {
				if !near(got[i], want[i]) {
					t.Fatalf("Solve33 = %v, want %v", got, want)
				}
			}

			back := tt.m.MulVec(x)
			if !near(back.X, b.X) ||
				!near(back.Y, b.Y) ||
				!near(back.Z, b.Z) {
				t.Errorf("m * Solve33(b) = %v, want %v", back, b)
			}
		})
	}
}

func TestMat33SymInverse33(t *testing.T) {
	m := mat33(4, 1, -2, 1, 3, 0.5, -2, 0.5, 5)
	got := toMat3(m.SymInverse33())
	want := toMat3(m).Inv()
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("SymInverse33 = %v, want %v", got, want)
		}
	}
}

func TestMat33Inverse22(t *testing.T) {
	m := mat33(4, 1, -2, 1, 3, 0.5, -2, 0.5, 5)
	inv := m.Inverse22()

	want := mgl64.Mat2{4, 1, 1, 3}.Inv()
	got := mgl64.Mat2{inv.Ex.X, inv.Ex.Y, inv.Ey.X, inv.Ey.Y}
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("Inverse22 = %v, want %v", got, want)
		}
	}
	if inv.Ex.Z != 0 || inv.Ey.Z != 0 || inv.Ez != (joint.Vec3{}) {
		t.Errorf("Inverse22 third row and column = %v %v %v, want zero", inv.Ex.Z, inv.Ey.Z, inv.Ez)
	}

	x := m.Solve22(vec.Vec2{X: 1, Y: 2})
	wantX := want.Mul2x1(mgl64.Vec2{1, 2})
	if !near(x.X, wantX[0]) || !near(x.Y, wantX[1]) {
		t.Errorf("Solve22 = %v, want %v", x, wantX)
	}
}

func TestMat33Singular(t *testing.T) {
	m := mat33(1, 2, 3, 2, 4, 6, 0, 1, 1)
	if x := m.Solve33(joint.Vec3{X: 1, Y: 1, Z: 1}); x != (joint.Vec3{}) {
		t.Errorf("Solve33 with singular matrix = %v, want zero", x)
	}
	if inv := m.SymInverse33(); inv != (joint.Mat33{}) {
		t.Errorf("SymInverse33 of singular matrix = %v, want zero", inv)
	}
}
