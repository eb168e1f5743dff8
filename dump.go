package joint

import (
	"fmt"
	"io"

	"github.com/setanarut/vec"
)

// Dumper writes joint definitions as Go statements. The output assumes a
// bodies slice, a joints slice and an arena variable in scope.
//
// The first write error is kept and every later write is skipped.
type Dumper struct {
	w      io.Writer
	bodies map[*Body]int
	joints map[Joint]int
	err    error
}

// NewDumper returns a Dumper writing to w. bodies[i] is printed as bodies[i].
func NewDumper(w io.Writer, bodies []*Body) *Dumper {
	d := &Dumper{
		w:      w,
		bodies: make(map[*Body]int, len(bodies)),
		joints: make(map[Joint]int),
	}
	for i, b := range bodies {
		d.bodies[b] = i
	}
	return d
}

// Printf writes a formatted line fragment.
func (d *Dumper) Printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// Err returns the first write error.
func (d *Dumper) Err() error {
	return d.err
}

// index assigns the next joint index to j.
func (d *Dumper) index(j Joint) int {
	if i, ok := d.joints[j]; ok {
		return i
	}
	i := len(d.joints)
	d.joints[j] = i
	return i
}

func (d *Dumper) bodyIndex(b *Body) int {
	if i, ok := d.bodies[b]; ok {
		return i
	}
	return -1
}

func (d *Dumper) jointIndex(j Joint) int {
	if i, ok := d.joints[j]; ok {
		return i
	}
	return -1
}

func (d *Dumper) begin(ctor string, j *jointBase) {
	d.Printf("{\n")
	d.Printf("\tjd := joint.%s()\n", ctor)
	d.Printf("\tjd.BodyA = bodies[%d]\n", d.bodyIndex(j.bodyA))
	d.Printf("\tjd.BodyB = bodies[%d]\n", d.bodyIndex(j.bodyB))
	d.Printf("\tjd.CollideConnected = %t\n", j.collideConnected)
}

func (d *Dumper) float(field string, f float64) {
	d.Printf("\tjd.%s = %.15e\n", field, f)
}

func (d *Dumper) vector(field string, v vec.Vec2) {
	d.Printf("\tjd.%s = vec.Vec2{X: %.15e, Y: %.15e}\n", field, v.X, v.Y)
}

func (d *Dumper) flag(field string, b bool) {
	d.Printf("\tjd.%s = %t\n", field, b)
}

func (d *Dumper) jointRef(field string, j Joint) {
	d.Printf("\tjd.%s = joints[%d]\n", field, d.jointIndex(j))
}

func (d *Dumper) end(j Joint) error {
	d.Printf("\tjoints[%d], _ = arena.Create(jd)\n", d.index(j))
	d.Printf("}\n")
	return d.err
}
