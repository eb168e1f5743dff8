package joint_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/setanarut/joint"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	joint.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer joint.SetLogger(nil)

	arena := joint.NewArena()
	a, b := dynamicBody(0, 0), dynamicBody(1, 0)
	def := joint.NewDistanceJointDef()
	def.Initialize(a, b, a.Position(), b.Position())
	j := mustCreate(t, arena, def)

	bad := joint.NewDistanceJointDef()
	bad.BodyA = a
	if _, err := arena.Create(bad); err == nil {
		t.Fatal("Create accepted a definition without body B")
	}
	if err := arena.Destroy(j); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`msg="joint created" kind=distance`,
		`msg="joint definition rejected" kind=distance`,
		`msg="joint destroyed" kind=distance`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	joint.SetLogger(nil)
	if joint.Logger() == nil {
		t.Fatal("SetLogger(nil) left no logger")
	}
}
