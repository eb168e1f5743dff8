package joint

import (
	"fmt"
	"io"

	"github.com/setanarut/vec"
)

// Arena creates and destroys joints. It keeps every live joint in a doubly
// linked list and accounts for joint memory through one pool per kind.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	jointList  Joint
	jointCount int

	distance  pool[DistanceJoint]
	revolute  pool[RevoluteJoint]
	prismatic pool[PrismaticJoint]
	pulley    pool[PulleyJoint]
	gear      pool[GearJoint]
	weld      pool[WeldJoint]
	friction  pool[FrictionJoint]
	rope      pool[RopeJoint]
	motor     pool[MotorJoint]
	wheel     pool[WheelJoint]
	mouse     pool[MouseJoint]
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Create validates def and builds the joint it describes. The joint is linked
// into the joint lists of both bodies and of the arena.
func (a *Arena) Create(def Def) (Joint, error) {
	if def == nil {
		return nil, ErrUnknownKind
	}
	if err := def.validate(); err != nil {
		logger.Warn("joint definition rejected", "kind", def.Kind(), "error", err)
		return nil, err
	}

	var j Joint
	switch d := def.(type) {
	case *DistanceJointDef:
		j = a.distance.get().setup(d)
	case *RevoluteJointDef:
		j = a.revolute.get().setup(d)
	case *PrismaticJointDef:
		j = a.prismatic.get().setup(d)
	case *PulleyJointDef:
		j = a.pulley.get().setup(d)
	case *GearJointDef:
		j = a.gear.get().setup(d)
	case *WeldJointDef:
		j = a.weld.get().setup(d)
	case *FrictionJointDef:
		j = a.friction.get().setup(d)
	case *RopeJointDef:
		j = a.rope.get().setup(d)
	case *MotorJointDef:
		j = a.motor.get().setup(d)
	case *WheelJointDef:
		j = a.wheel.get().setup(d)
	case *MouseJointDef:
		j = a.mouse.get().setup(d)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, def)
	}

	b := j.base()
	b.arena = a

	// Connect to the world list.
	b.prev = nil
	b.next = a.jointList
	if a.jointList != nil {
		a.jointList.base().prev = j
	}
	a.jointList = j
	a.jointCount++

	// Connect to the bodies' doubly linked lists.
	b.edgeA.Joint = j
	b.edgeA.Other = b.bodyB
	b.bodyA.pushJointEdge(&b.edgeA)

	b.edgeB.Joint = j
	b.edgeB.Other = b.bodyA
	b.bodyB.pushJointEdge(&b.edgeB)

	logger.Debug("joint created", "kind", b.kind, "bodyA", b.bodyA.id, "bodyB", b.bodyB.id)
	return j, nil
}

// Destroy unlinks j from its bodies and the arena, wakes both bodies and
// releases the joint to its pool. j must not be used afterwards; destroying it
// again returns ErrNotActive.
func (a *Arena) Destroy(j Joint) error {
	if j == nil {
		return ErrNotActive
	}
	b := j.base()
	if b.arena != a {
		return ErrNotActive
	}

	// Remove from the world list.
	if b.prev != nil {
		b.prev.base().next = b.next
	}
	if b.next != nil {
		b.next.base().prev = b.prev
	}
	if a.jointList == j {
		a.jointList = b.next
	}

	bodyA, bodyB := b.bodyA, b.bodyB
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	bodyA.removeJointEdge(&b.edgeA)
	bodyB.removeJointEdge(&b.edgeB)

	a.jointCount--
	logger.Debug("joint destroyed", "kind", b.kind, "bodyA", bodyA.id, "bodyB", bodyB.id)

	switch t := j.(type) {
	case *DistanceJoint:
		a.distance.put(t)
	case *RevoluteJoint:
		a.revolute.put(t)
	case *PrismaticJoint:
		a.prismatic.put(t)
	case *PulleyJoint:
		a.pulley.put(t)
	case *GearJoint:
		a.gear.put(t)
	case *WeldJoint:
		a.weld.put(t)
	case *FrictionJoint:
		a.friction.put(t)
	case *RopeJoint:
		a.rope.put(t)
	case *MotorJoint:
		a.motor.put(t)
	case *WheelJoint:
		a.wheel.put(t)
	case *MouseJoint:
		a.mouse.put(t)
	}
	return nil
}

// JointList returns the most recently created live joint. Follow Joint.Next
// for the rest.
func (a *Arena) JointList() Joint {
	return a.jointList
}

// JointCount returns the number of live joints.
func (a *Arena) JointCount() int {
	return a.jointCount
}

// EachJoint calls f once for each live joint, newest first.
func (a *Arena) EachJoint(f func(Joint)) {
	for j := a.jointList; j != nil; {
		next := j.Next()
		f(j)
		j = next
	}
}

// Stats returns the pool statistics of every kind.
func (a *Arena) Stats() map[Kind]PoolStats {
	return map[Kind]PoolStats{
		KindDistance:  a.distance.stats(),
		KindRevolute:  a.revolute.stats(),
		KindPrismatic: a.prismatic.stats(),
		KindPulley:    a.pulley.stats(),
		KindGear:      a.gear.stats(),
		KindWeld:      a.weld.stats(),
		KindFriction:  a.friction.stats(),
		KindRope:      a.rope.stats(),
		KindMotor:     a.motor.stats(),
		KindWheel:     a.wheel.stats(),
		KindMouse:     a.mouse.stats(),
	}
}

// ShiftOrigin moves the world points stored by every live joint.
func (a *Arena) ShiftOrigin(newOrigin vec.Vec2) {
	a.EachJoint(func(j Joint) {
		j.ShiftOrigin(newOrigin)
	})
}

// Dump writes every live joint as Go statements that rebuild it. bodies
// gives the index each body is referred to by. Gear joints come last
// because they refer to other joints.
func (a *Arena) Dump(w io.Writer, bodies []*Body) error {
	d := NewDumper(w, bodies)

	var joints []Joint
	for j := a.jointList; j != nil; j = j.Next() {
		joints = append(joints, j)
	}
	// The list is newest first; dump in creation order.
	for i, k := 0, len(joints)-1; i < k; i, k = i+1, k-1 {
		joints[i], joints[k] = joints[k], joints[i]
	}

	d.Printf("joints := make([]joint.Joint, %d)\n", len(joints))
	for _, j := range joints {
		if j.Kind() != KindGear {
			d.index(j)
		}
	}
	for _, j := range joints {
		if j.Kind() == KindGear {
			d.index(j)
		}
	}
	for _, j := range joints {
		if j.Kind() == KindGear {
			continue
		}
		if err := j.Dump(d); err != nil {
			return err
		}
	}
	for _, j := range joints {
		if j.Kind() != KindGear {
			continue
		}
		if err := j.Dump(d); err != nil {
			return err
		}
	}
	return d.Err()
}
