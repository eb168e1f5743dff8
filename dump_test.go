package joint_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

const gearTrainDump = `joints := make([]joint.Joint, 5)
{
	jd := joint.NewRevoluteJointDef()
	jd.BodyA = bodies[0]
	jd.BodyB = bodies[1]
	jd.CollideConnected = false
	jd.LocalAnchorA = vec.Vec2{X: 1.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.LocalAnchorB = vec.Vec2{X: 0.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.ReferenceAngle = 0.000000000000000e+00
	jd.EnableLimit = true
	jd.LowerAngle = -2.500000000000000e-01
	jd.UpperAngle = 5.000000000000000e-01
	jd.EnableMotor = false
	jd.MotorSpeed = 0.000000000000000e+00
	jd.MaxMotorTorque = 0.000000000000000e+00
	joints[0], _ = arena.Create(jd)
}
{
	jd := joint.NewRevoluteJointDef()
	jd.BodyA = bodies[0]
	jd.BodyB = bodies[2]
	jd.CollideConnected = false
	jd.LocalAnchorA = vec.Vec2{X: 3.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.LocalAnchorB = vec.Vec2{X: 0.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.ReferenceAngle = 0.000000000000000e+00
	jd.EnableLimit = false
	jd.LowerAngle = 0.000000000000000e+00
	jd.UpperAngle = 0.000000000000000e+00
	jd.EnableMotor = true
	jd.MotorSpeed = 2.000000000000000e+00
	jd.MaxMotorTorque = 1.000000000000000e+01
	joints[1], _ = arena.Create(jd)
}
{
	jd := joint.NewDistanceJointDef()
	jd.BodyA = bodies[1]
	jd.BodyB = bodies[2]
	jd.CollideConnected = true
	jd.LocalAnchorA = vec.Vec2{X: 0.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.LocalAnchorB = vec.Vec2{X: 0.000000000000000e+00, Y: 0.000000000000000e+00}
	jd.Length = 2.000000000000000e+00
	jd.FrequencyHz = 0.000000000000000e+00
	jd.DampingRatio = 0.000000000000000e+00
	joints[2], _ = arena.Create(jd)
}
// Dumping of mouse joints is not supported.
{
	jd := joint.NewGearJointDef()
	jd.BodyA = bodies[1]
	jd.BodyB = bodies[2]
	jd.CollideConnected = false
	jd.Joint1 = joints[0]
	jd.Joint2 = joints[1]
	jd.Ratio = -5.000000000000000e-01
	joints[4], _ = arena.Create(jd)
}
`

// gearTrain builds two wheels pinned to the ground, geared together and
// joined by a distance joint, plus a mouse joint on the second wheel. The
// gear is created before the distance joint.
func gearTrain(t *testing.T) (*joint.Arena, []*joint.Body) {
	t.Helper()
	arena := joint.NewArena()
	ground := joint.NewStaticBody()
	a, b := dynamicBody(1, 0), dynamicBody(3, 0)

	rev1 := joint.NewRevoluteJointDef()
	rev1.Initialize(ground, a, a.Position())
	rev1.EnableLimit = true
	rev1.LowerAngle = -0.25
	rev1.UpperAngle = 0.5
	j1 := mustCreate(t, arena, rev1)

	rev2 := joint.NewRevoluteJointDef()
	rev2.Initialize(ground, b, b.Position())
	rev2.EnableMotor = true
	rev2.MotorSpeed = 2
	rev2.MaxMotorTorque = 10
	j2 := mustCreate(t, arena, rev2)

	gear := joint.NewGearJointDef()
	gear.Joint1 = j1
	gear.Joint2 = j2
	gear.Ratio = -0.5
	mustCreate(t, arena, gear)

	dist := joint.NewDistanceJointDef()
	dist.Initialize(a, b, a.Position(), b.Position())
	dist.CollideConnected = true
	mustCreate(t, arena, dist)

	mouse := joint.NewMouseJointDef()
	mouse.BodyA = ground
	mouse.BodyB = b
	mouse.Target = b.Position()
	mouse.MaxForce = 50
	mustCreate(t, arena, mouse)

	return arena, []*joint.Body{ground, a, b}
}

func TestArenaDump(t *testing.T) {
	arena, bodies := gearTrain(t)

	var buf bytes.Buffer
	if err := arena.Dump(&buf, bodies); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	if got := buf.String(); got != gearTrainDump {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(gearTrainDump),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Errorf("Dump output differs:\n%s", diff)
	}
}

type failingWriter struct {
	writes int
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errDiskFull
}

func TestDumpStopsAtFirstWriteError(t *testing.T) {
	arena, bodies := gearTrain(t)

	w := &failingWriter{}
	if err := arena.Dump(w, bodies); !errors.Is(err, errDiskFull) {
		t.Fatalf("Dump error = %v, want %v", err, errDiskFull)
	}
	if w.writes != 1 {
		t.Errorf("writes after failure = %d, want 1", w.writes)
	}
}

func TestDumpUnknownBody(t *testing.T) {
	arena := joint.NewArena()
	a, b := dynamicBody(0, 0), dynamicBody(1, 0)
	def := joint.NewWeldJointDef()
	def.Initialize(a, b, vec.Vec2{X: 0.5})
	mustCreate(t, arena, def)

	var buf bytes.Buffer
	if err := arena.Dump(&buf, []*joint.Body{a}); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("jd.BodyB = bodies[-1]\n")) {
		t.Errorf("unindexed body not dumped as -1:\n%s", buf.String())
	}
}
