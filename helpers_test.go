package joint_test

import (
	"math"
	"testing"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

const dt = 1.0 / 60.0

func near(a, b float64) bool {
	return nearTol(a, b, 1e-9)
}

func nearTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nearVec(a, b vec.Vec2, tol float64) bool {
	return nearTol(a.X, b.X, tol) && nearTol(a.Y, b.Y, tol)
}

// dynamicBody returns a dynamic body of unit mass and moment at (x, y).
func dynamicBody(x, y float64) *joint.Body {
	b := joint.NewBody(1, 1)
	b.SetPosition(vec.Vec2{X: x, Y: y})
	return b
}

func mustCreate(t *testing.T, arena *joint.Arena, def joint.Def) joint.Joint {
	t.Helper()
	j, err := arena.Create(def)
	if err != nil {
		t.Fatalf("Create(%s): %v", def.Kind(), err)
	}
	return j
}

// solverData returns solver state for a single step of dt over bodies.
func solverData(warm bool, bodies ...*joint.Body) *joint.SolverData {
	step := joint.NewTimeStep(dt, 0, 1, 1, warm)
	return joint.NewSolverData(step, bodies)
}

// jointScene is a satisfied, resting configuration of one joint kind.
type jointScene struct {
	kind   joint.Kind
	bodies []*joint.Body
	joint  joint.Joint
}

// restingScenes builds one resting scene per joint kind in arena.
func restingScenes(t *testing.T, arena *joint.Arena) []jointScene {
	t.Helper()
	var scenes []jointScene
	add := func(def joint.Def, bodies ...*joint.Body) joint.Joint {
		j := mustCreate(t, arena, def)
		scenes = append(scenes, jointScene{kind: def.Kind(), bodies: bodies, joint: j})
		return j
	}

	{
		a, b := dynamicBody(0, 0), dynamicBody(2, 0)
		def := joint.NewDistanceJointDef()
		def.Initialize(a, b, a.Position(), b.Position())
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(1, 0)
		def := joint.NewRevoluteJointDef()
		def.Initialize(a, b, vec.Vec2{X: 0.5, Y: 0})
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(1, 1)
		def := joint.NewPrismaticJointDef()
		def.Initialize(a, b, vec.Vec2{X: 1, Y: 1}, vec.Vec2{X: 0, Y: 1})
		add(def, a, b)
	}
	{
		a, b := dynamicBody(-2, 0), dynamicBody(2, 0)
		def := joint.NewPulleyJointDef()
		def.Initialize(a, b, vec.Vec2{X: -2, Y: 4}, vec.Vec2{X: 2, Y: 4}, a.Position(), b.Position(), 1)
		add(def, a, b)
	}
	{
		ground := joint.NewStaticBody()
		a, b := dynamicBody(0, 0), dynamicBody(3, 0)
		rev1 := joint.NewRevoluteJointDef()
		rev1.Initialize(ground, a, a.Position())
		j1 := mustCreate(t, arena, rev1)
		rev2 := joint.NewRevoluteJointDef()
		rev2.Initialize(ground, b, b.Position())
		j2 := mustCreate(t, arena, rev2)

		def := joint.NewGearJointDef()
		def.Joint1 = j1
		def.Joint2 = j2
		def.Ratio = 2
		add(def, ground, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(1, 0)
		def := joint.NewWeldJointDef()
		def.Initialize(a, b, vec.Vec2{X: 0.5, Y: 0})
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(1, 0)
		def := joint.NewFrictionJointDef()
		def.Initialize(a, b, vec.Vec2{X: 0.5, Y: 0})
		def.MaxForce = 10
		def.MaxTorque = 10
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(4, 0)
		def := joint.NewRopeJointDef()
		def.BodyA = a
		def.BodyB = b
		def.LocalAnchorA = vec.Vec2{}
		def.LocalAnchorB = vec.Vec2{}
		def.MaxLength = 4
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(2, 1)
		def := joint.NewMotorJointDef()
		def.Initialize(a, b)
		add(def, a, b)
	}
	{
		a, b := dynamicBody(0, 0), dynamicBody(0, -1)
		def := joint.NewWheelJointDef()
		def.Initialize(a, b, b.Position(), vec.Vec2{X: 0, Y: 1})
		add(def, a, b)
	}
	{
		ground := joint.NewStaticBody()
		b := dynamicBody(1, 2)
		def := joint.NewMouseJointDef()
		def.BodyA = ground
		def.BodyB = b
		def.Target = b.Position()
		def.MaxForce = 100
		add(def, ground, b)
	}
	return scenes
}
