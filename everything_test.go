package joint

import (
	"math"
	"testing"

	"github.com/setanarut/vec"
)

func TestKindNames(t *testing.T) {
	for k := KindRevolute; k < kindCount; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("unknown"); ok {
		t.Error("ParseKind accepted unknown")
	}
	if Kind(200).String() != "unknown" {
		t.Error("out of range kind has a name")
	}
}

func TestNormalize(t *testing.T) {
	u, length := normalize(vec.Vec2{X: 3, Y: 4})
	if length != 5 || math.Abs(u.X-0.6) > 1e-12 || math.Abs(u.Y-0.8) > 1e-12 {
		t.Errorf("normalize = %v, %v, want (0.6, 0.8), 5", u, length)
	}
	if u, length := normalize(vec.Vec2{}); u != (vec.Vec2{}) || length != 0 {
		t.Errorf("zero vector gave %v, %v", u, length)
	}
	if got := crossSV(2, vec.Vec2{X: 1, Y: 3}); got != (vec.Vec2{X: -6, Y: 2}) {
		t.Errorf("crossSV = %v, want (-6, 2)", got)
	}
}

func TestAxialMass(t *testing.T) {
	a := solverBody{invMass: 1, invI: 2}
	b := solverBody{invMass: 0.5, invI: 0}
	u := vec.Vec2{X: 1}
	// rA x u = -1, rB x u ignored with invI 0.
	got := axialMass(a, b, vec.Vec2{Y: 1}, vec.Vec2{Y: 3}, u)
	if want := 1 / (1 + 2 + 0.5); math.Abs(got-want) > 1e-12 {
		t.Errorf("axialMass = %v, want %v", got, want)
	}
	if got := axialMass(solverBody{}, solverBody{}, vec.Vec2{}, vec.Vec2{}, u); got != 0 {
		t.Errorf("axialMass of fixed bodies = %v, want 0", got)
	}
}

func TestSpringCoefficients(t *testing.T) {
	if gamma, bias := springCoefficients(1, 0, 0.5, 1, 1.0/60); gamma != 0 || bias != 0 {
		t.Errorf("rigid spring gave gamma %v bias %v", gamma, bias)
	}

	const h = 1.0 / 60
	mass, hz, zeta, C := 2.0, 4.0, 0.5, 0.1
	gamma, bias := springCoefficients(mass, hz, zeta, C, h)

	omega := 2 * math.Pi * hz
	k := mass * omega * omega
	d := 2 * mass * zeta * omega
	wantGamma := 1 / (h * (d + h*k))
	if math.Abs(gamma-wantGamma) > 1e-12 {
		t.Errorf("gamma = %v, want %v", gamma, wantGamma)
	}
	if want := C * h * k * wantGamma; math.Abs(bias-want) > 1e-12 {
		t.Errorf("bias = %v, want %v", bias, want)
	}
}

func TestPoolZeroesReleased(t *testing.T) {
	var p pool[RopeJoint]
	j := p.get()
	j.maxLength = 3
	j.arena = &Arena{}
	p.put(j)

	if j.maxLength != 0 || j.arena != nil {
		t.Errorf("released joint kept state: maxLength %v arena %v", j.maxLength, j.arena)
	}
	if again := p.get(); again == j {
		t.Fatal("pool handed out a released joint")
	}
	if s := p.stats(); s.Live != 1 || s.Released != 1 || s.Allocated != 2 {
		t.Errorf("stats = %+v", s)
	}
}
