package joint_test

import (
	"math"
	"testing"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

func TestRotCompose(t *testing.T) {
	q, r := joint.NewRot(0.3), joint.NewRot(-1.1)

	if got := q.Mul(r).Angle(); !near(got, 0.3-1.1) {
		t.Errorf("Mul angle = %v, want %v", got, 0.3-1.1)
	}
	if got := q.MulT(r).Angle(); !near(got, -1.1-0.3) {
		t.Errorf("MulT angle = %v, want %v", got, -1.1-0.3)
	}
	if got := joint.RotIdentity().Angle(); got != 0 {
		t.Errorf("identity angle = %v", got)
	}

	v := vec.Vec2{X: 2, Y: -1}
	if back := q.ApplyT(q.Apply(v)); !nearVec(back, v, 1e-12) {
		t.Errorf("ApplyT(Apply(v)) = %v, want %v", back, v)
	}
	if x, y := q.XAxis(), q.YAxis(); !near(x.Dot(y), 0) || !near(x.Cross(y), 1) {
		t.Errorf("axes %v %v are not a right handed basis", x, y)
	}
}

func TestTransformCompose(t *testing.T) {
	a := joint.NewTransform(vec.Vec2{X: 1, Y: 2}, math.Pi/3)
	b := joint.NewTransform(vec.Vec2{X: -4, Y: 0.5}, -0.7)
	p := vec.Vec2{X: 0.25, Y: 3}

	if got, want := a.Mul(b).Apply(p), a.Apply(b.Apply(p)); !nearVec(got, want, 1e-12) {
		t.Errorf("Mul applied = %v, want %v", got, want)
	}
	if got, want := a.MulT(b).Apply(p), a.ApplyT(b.Apply(p)); !nearVec(got, want, 1e-12) {
		t.Errorf("MulT applied = %v, want %v", got, want)
	}
	if got := a.Inverse().Apply(a.Apply(p)); !nearVec(got, p, 1e-12) {
		t.Errorf("Inverse round trip = %v, want %v", got, p)
	}
	if got := a.ApplyT(a.Apply(p)); !nearVec(got, p, 1e-12) {
		t.Errorf("ApplyT round trip = %v, want %v", got, p)
	}

	id := joint.NewTransformIdentity()
	if got := id.Apply(p); got != p {
		t.Errorf("identity moved %v to %v", p, got)
	}
	if got := a.ApplyVector(vec.Vec2{X: 1}); !nearVec(got, vec.Vec2{X: 0.5, Y: math.Sqrt(3) / 2}, 1e-12) {
		t.Errorf("ApplyVector = %v", got)
	}
}
