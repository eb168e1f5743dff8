package joint_test

import (
	"math"
	"testing"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

func TestBodyMass(t *testing.T) {
	body := joint.NewBody(0, 0)
	if body.Mass() != 1 {
		t.Errorf("mass = %v, want 1 for non-positive mass", body.Mass())
	}

	body.SetMass(4)
	if body.Mass() != 4 {
		t.Fail()
	}

	body.SetType(joint.Static)
	if body.Mass() != 4 || body.IsAwake() {
		t.Errorf("static body mass %v awake %v", body.Mass(), body.IsAwake())
	}
	body.Activate()
	if body.IsAwake() {
		t.Error("static body woke up")
	}

	body.SetType(joint.Dynamic)
	if !body.IsAwake() {
		t.Error("dynamic body did not wake")
	}
}

func TestBodyCenterOfGravity(t *testing.T) {
	body := dynamicBody(2, 0)
	body.SetCenterOfGravity(vec.Vec2{X: 1, Y: 0})
	body.SetAngle(math.Pi / 2)

	if got := body.Position(); got != (vec.Vec2{X: 2, Y: 0}) {
		t.Errorf("origin moved to %v", got)
	}
	if got := body.WorldCenter(); !nearVec(got, vec.Vec2{X: 2, Y: 1}, 1e-12) {
		t.Errorf("WorldCenter = %v, want (2, 1)", got)
	}
}

func TestBodyCoordinates(t *testing.T) {
	body := dynamicBody(1, 2)
	body.SetAngle(math.Pi / 2)

	local := vec.Vec2{X: 1, Y: 0}
	world := body.LocalToWorld(local)
	if !nearVec(world, vec.Vec2{X: 1, Y: 3}, 1e-12) {
		t.Errorf("LocalToWorld = %v, want (1, 3)", world)
	}
	if back := body.WorldToLocal(world); !nearVec(back, local, 1e-12) {
		t.Errorf("WorldToLocal = %v, want %v", back, local)
	}
	if v := body.LocalToWorldVector(local); !nearVec(v, vec.Vec2{X: 0, Y: 1}, 1e-12) {
		t.Errorf("LocalToWorldVector = %v, want (0, 1)", v)
	}
	if v := body.WorldToLocalVector(vec.Vec2{X: 0, Y: 1}); !nearVec(v, local, 1e-12) {
		t.Errorf("WorldToLocalVector = %v, want %v", v, local)
	}
}

func TestBodyVelocityAtPoint(t *testing.T) {
	body := dynamicBody(0, 0)
	body.SetVelocity(1, 0)
	body.SetAngularVelocity(2)

	got := body.VelocityAtWorldPoint(vec.Vec2{X: 0, Y: 1})
	if !nearVec(got, vec.Vec2{X: -1, Y: 0}, 1e-12) {
		t.Errorf("VelocityAtWorldPoint = %v, want (-1, 0)", got)
	}
	if e := body.KineticEnergy(); !near(e, 0.5*(1+4)) {
		t.Errorf("KineticEnergy = %v, want 2.5", e)
	}
}

func TestBodyVelocityAtLocalPoint(t *testing.T) {
	body := dynamicBody(1, 2)
	body.SetAngle(math.Pi / 2)
	body.SetVelocity(1, 0)
	body.SetAngularVelocity(2)

	// Local (1, 0) is world (1, 3), one unit above the center.
	got := body.VelocityAtLocalPoint(vec.Vec2{X: 1, Y: 0})
	if !nearVec(got, vec.Vec2{X: -1, Y: 0}, 1e-12) {
		t.Errorf("VelocityAtLocalPoint = %v, want (-1, 0)", got)
	}
	if want := body.VelocityAtWorldPoint(vec.Vec2{X: 1, Y: 3}); !nearVec(got, want, 1e-12) {
		t.Errorf("local and world point velocities differ: %v and %v", got, want)
	}
}

func TestBodyApplyForce(t *testing.T) {
	body := dynamicBody(1, 2)
	body.SetAngle(math.Pi / 2)

	// Local force (0, 1) at local (1, 0) is world force (-1, 0) at (1, 3).
	body.ApplyForceAtLocalPoint(vec.Vec2{X: 0, Y: 1}, vec.Vec2{X: 1, Y: 0})
	if got := body.Force(); !nearVec(got, vec.Vec2{X: -1, Y: 0}, 1e-12) {
		t.Errorf("force = %v, want (-1, 0)", got)
	}
	if got := body.Torque(); !near(got, 1) {
		t.Errorf("torque = %v, want 1", got)
	}

	body.ApplyForceAtWorldPoint(vec.Vec2{X: 2, Y: 0}, body.WorldCenter())
	if got := body.Force(); !nearVec(got, vec.Vec2{X: 1, Y: 0}, 1e-12) {
		t.Errorf("force = %v, want (1, 0)", got)
	}
	if got := body.Torque(); !near(got, 1) {
		t.Errorf("force at the center changed torque to %v", got)
	}

	island := joint.NewIsland()
	island.Bodies = append(island.Bodies, body)
	island.Step(dt)
	if got := body.Velocity(); !nearVec(got, vec.Vec2{X: dt, Y: 0}, 1e-12) {
		t.Errorf("velocity = %v, want (%v, 0)", got, dt)
	}
	if got := body.AngularVelocity(); !near(got, dt) {
		t.Errorf("angular velocity = %v, want %v", got, dt)
	}

	static := joint.NewStaticBody()
	static.ApplyForceAtWorldPoint(vec.Vec2{X: 1}, vec.Vec2{Y: 1})
	if static.Force() != (vec.Vec2{}) || static.Torque() != 0 {
		t.Error("static body accumulated force")
	}
}

func TestBodyImpulse(t *testing.T) {
	body := joint.NewBody(2, 4)
	body.ApplyImpulseAtWorldPoint(vec.Vec2{X: 0, Y: 2}, vec.Vec2{X: 1, Y: 0})

	if got := body.Velocity(); !nearVec(got, vec.Vec2{X: 0, Y: 1}, 1e-12) {
		t.Errorf("velocity = %v, want (0, 1)", got)
	}
	if got := body.AngularVelocity(); !near(got, 0.5) {
		t.Errorf("angular velocity = %v, want 0.5", got)
	}

	static := joint.NewStaticBody()
	static.ApplyImpulseAtWorldPoint(vec.Vec2{X: 1, Y: 1}, vec.Vec2{})
	static.SetVelocity(1, 1)
	if static.Velocity() != (vec.Vec2{}) || static.AngularVelocity() != 0 {
		t.Error("static body moved")
	}
}

func TestBodySleepClearsMotion(t *testing.T) {
	body := dynamicBody(0, 0)
	body.SetVelocity(3, 4)
	body.SetAngularVelocity(1)
	body.SetForce(vec.Vec2{X: 1, Y: 1})
	body.SetTorque(2)

	body.SetAwake(false)
	if !body.IsSleeping() {
		t.Fatal("body is awake")
	}
	if body.Velocity() != (vec.Vec2{}) || body.AngularVelocity() != 0 ||
		body.Force() != (vec.Vec2{}) || body.Torque() != 0 {
		t.Error("sleeping body kept its motion")
	}
}

func TestBodyShiftOrigin(t *testing.T) {
	body := dynamicBody(5, 5)
	body.ShiftOrigin(vec.Vec2{X: 2, Y: 1})
	if got := body.Position(); got != (vec.Vec2{X: 3, Y: 4}) {
		t.Errorf("Position = %v, want (3, 4)", got)
	}
	if got := body.WorldCenter(); got != (vec.Vec2{X: 3, Y: 4}) {
		t.Errorf("WorldCenter = %v, want (3, 4)", got)
	}
}
