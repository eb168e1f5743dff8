package joint_test

import (
	"testing"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

func TestIslandFreeFall(t *testing.T) {
	body := dynamicBody(0, 0)
	island := joint.NewIsland()
	island.Gravity = vec.Vec2{X: 0, Y: -10}
	island.Bodies = append(island.Bodies, body)

	if !island.Step(0) || island.StepCount() != 0 {
		t.Fatal("zero step must be a solved no-op")
	}
	if !island.Step(dt) {
		t.Error("island without joints must report solved")
	}
	if got := body.Velocity(); !nearVec(got, vec.Vec2{X: 0, Y: -10 * dt}, 1e-12) {
		t.Errorf("velocity = %v, want %v", got, -10*dt)
	}
	if got := body.Position(); !nearVec(got, vec.Vec2{X: 0, Y: -10 * dt * dt}, 1e-12) {
		t.Errorf("position = %v, want %v", got, -10*dt*dt)
	}
	if island.StepCount() != 1 {
		t.Errorf("StepCount = %d, want 1", island.StepCount())
	}
}

func TestIslandClearsForces(t *testing.T) {
	body := dynamicBody(0, 0)
	body.SetForce(vec.Vec2{X: 60, Y: 0})
	body.SetTorque(60)

	island := joint.NewIsland()
	island.Bodies = append(island.Bodies, body)
	island.Step(dt)

	if !near(body.Velocity().X, 1) || !near(body.AngularVelocity(), 1) {
		t.Errorf("velocity %v angular %v, want 1 and 1", body.Velocity(), body.AngularVelocity())
	}
	if body.Force() != (vec.Vec2{}) || body.Torque() != 0 {
		t.Error("force and torque not cleared after step")
	}
}

func TestIslandDamping(t *testing.T) {
	body := dynamicBody(0, 0)
	body.SetVelocity(1, 0)

	island := joint.NewIsland()
	island.Damping = 0.5
	island.Bodies = append(island.Bodies, body)
	for i := 0; i < 60; i++ {
		island.Step(dt)
	}
	if got := body.Velocity().X; !nearTol(got, 0.5, 1e-9) {
		t.Errorf("velocity after one second = %v, want 0.5", got)
	}
}

func TestIslandCapsTranslation(t *testing.T) {
	body := dynamicBody(0, 0)
	body.SetVelocity(1000, 0)

	island := joint.NewIsland()
	island.Bodies = append(island.Bodies, body)
	island.Step(dt)

	if got := body.Position().X; !near(got, joint.MaxTranslation) {
		t.Errorf("moved %v in one step, want %v", got, joint.MaxTranslation)
	}
}

func TestIslandSkipsSleepingJoints(t *testing.T) {
	arena := joint.NewArena()
	a, b := dynamicBody(0, 0), dynamicBody(1, 0)
	def := joint.NewDistanceJointDef()
	def.Initialize(a, b, a.Position(), b.Position())
	j := mustCreate(t, arena, def)
	a.SetAwake(false)
	b.SetAwake(false)

	island := joint.NewIsland()
	island.Gravity = vec.Vec2{X: 0, Y: -10}
	island.Add(j)
	island.Step(dt)

	if a.Position() != (vec.Vec2{}) || b.Position() != (vec.Vec2{X: 1}) {
		t.Error("sleeping bodies moved")
	}

	b.SetAwake(true)
	island.Step(dt)
	if !a.IsAwake() {
		t.Error("solving the joint did not wake body A")
	}
	if a.Position().Y >= 0 || b.Position().Y >= 0 {
		t.Error("awake bodies did not fall")
	}

	island.Remove(j)
	if len(island.Joints) != 0 {
		t.Errorf("joints after Remove = %v", island.Joints)
	}
	if arena.JointCount() != 1 {
		t.Error("Remove destroyed the joint")
	}
}

func TestIslandSkipsInactiveJoints(t *testing.T) {
	arena := joint.NewArena()
	ground := joint.NewStaticBody()
	bob := dynamicBody(0, -1)
	def := joint.NewDistanceJointDef()
	def.Initialize(ground, bob, ground.Position(), bob.Position())
	j := mustCreate(t, arena, def)

	island := joint.NewIsland()
	island.Gravity = vec.Vec2{X: 0, Y: -10}
	island.Add(j)

	bob.SetActive(false)
	island.Step(dt)
	if bob.Position() != (vec.Vec2{X: 0, Y: -1}) {
		t.Error("inactive body moved")
	}

	bob.SetActive(true)
	for i := 0; i < 30; i++ {
		island.Step(dt)
	}
	if got := bob.Position().Distance(ground.Position()); !nearTol(got, 1, joint.LinearSlop) {
		t.Errorf("pendulum length = %v, want 1", got)
	}
}

func TestIslandShiftOrigin(t *testing.T) {
	arena := joint.NewArena()
	ground := joint.NewStaticBody()
	b := dynamicBody(4, 4)
	def := joint.NewMouseJointDef()
	def.BodyA = ground
	def.BodyB = b
	def.Target = vec.Vec2{X: 5, Y: 5}
	def.MaxForce = 10
	j := mustCreate(t, arena, def).(*joint.MouseJoint)

	island := joint.NewIsland()
	island.Add(j)
	island.ShiftOrigin(vec.Vec2{X: 1, Y: 2})

	if got := b.Position(); got != (vec.Vec2{X: 3, Y: 2}) {
		t.Errorf("body position = %v, want (3, 2)", got)
	}
	if got := j.Target(); got != (vec.Vec2{X: 4, Y: 3}) {
		t.Errorf("target = %v, want (4, 3)", got)
	}
}

func TestSolverDataSlots(t *testing.T) {
	a, b, c := dynamicBody(0, 0), dynamicBody(1, 0), dynamicBody(2, 0)
	data := solverData(false, a, b)

	if !data.HasBody(a) || !data.HasBody(b) {
		t.Error("island bodies have no slot")
	}
	if data.HasBody(c) {
		t.Error("body outside the island has a slot")
	}
	if data.Slot(b) != 1 {
		t.Errorf("Slot(b) = %d, want 1", data.Slot(b))
	}
	if got := data.Positions[1].C; got != b.WorldCenter() {
		t.Errorf("slot position = %v, want %v", got, b.WorldCenter())
	}
}
