package joint

import (
	"math"

	"github.com/setanarut/vec"
)

// Island steps a set of bodies connected by joints. It is a minimal
// integrator for driving the joint solver without a collision pipeline.
//
// An Island is not safe for concurrent use. Islands that share no bodies may
// be stepped from different goroutines.
type Island struct {
	// Bodies are stepped even when no joint refers to them.
	Bodies []*Body
	// Joints are solved in slice order. Bodies they refer to join the island.
	Joints []Joint

	// Gravity is the acceleration applied to dynamic bodies.
	Gravity vec.Vec2
	// Damping is the fraction of velocity a body keeps after one second.
	// 0 and 1 disable damping.
	Damping float64

	VelocityIterations int
	PositionIterations int
	WarmStarting       bool

	prevInvDt float64
	stamp     uint
}

// NewIsland returns an island with 8 velocity and 3 position iterations and
// warm starting enabled.
func NewIsland() *Island {
	return &Island{
		Damping:            1,
		VelocityIterations: 8,
		PositionIterations: 3,
		WarmStarting:       true,
	}
}

// Add appends joints to the island.
func (island *Island) Add(joints ...Joint) {
	island.Joints = append(island.Joints, joints...)
}

// Remove drops j from the island. The joint itself is left alive.
func (island *Island) Remove(j Joint) {
	for i, other := range island.Joints {
		if other == j {
			island.Joints = append(island.Joints[:i], island.Joints[i+1:]...)
			return
		}
	}
}

// StepCount returns the number of steps taken.
func (island *Island) StepCount() uint {
	return island.stamp
}

// activeJoints returns the joints to solve this step. A joint is solved when
// both bodies are active and at least one of them is awake; solving it wakes
// the other.
func (island *Island) activeJoints() []Joint {
	joints := make([]Joint, 0, len(island.Joints))
	for _, j := range island.Joints {
		if !j.IsActive() {
			continue
		}
		bodyA, bodyB := j.BodyA(), j.BodyB()
		if !bodyA.IsAwake() && !bodyB.IsAwake() {
			continue
		}
		bodyA.Activate()
		bodyB.Activate()
		if gear, ok := j.(*GearJoint); ok {
			gear.BodyC().Activate()
			gear.BodyD().Activate()
		}
		joints = append(joints, j)
	}
	return joints
}

// bodies collects every body that needs a solver slot, each once.
func (island *Island) bodies(joints []Joint) []*Body {
	seen := make(map[*Body]struct{}, len(island.Bodies)+2*len(joints))
	var bodies []*Body
	add := func(b *Body) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		bodies = append(bodies, b)
	}
	for _, b := range island.Bodies {
		if b.IsActive() {
			add(b)
		}
	}
	for _, j := range joints {
		add(j.BodyA())
		add(j.BodyB())
		if gear, ok := j.(*GearJoint); ok {
			add(gear.BodyC())
			add(gear.BodyD())
		}
	}
	return bodies
}

// Step advances the island by dt. It returns true when the position
// iterations brought every joint within tolerance.
func (island *Island) Step(dt float64) bool {
	if dt == 0 {
		return true
	}
	island.stamp++

	step := NewTimeStep(dt, island.prevInvDt, island.VelocityIterations, island.PositionIterations, island.WarmStarting)
	joints := island.activeJoints()
	bodies := island.bodies(joints)
	data := NewSolverData(step, bodies)

	damping := 1.0
	if island.Damping > 0 {
		damping = math.Pow(island.Damping, dt)
	}

	// Integrate velocities.
	for i, b := range bodies {
		if b.bodyType != Dynamic || !b.awake {
			continue
		}
		v := &data.Velocities[i]
		v.V = v.V.Add(island.Gravity.Add(b.force.Scale(b.massInverse)).Scale(dt)).Scale(damping)
		v.W = (v.W + dt*b.momentOfInertiaInverse*b.torque) * damping
	}

	for _, j := range joints {
		j.InitVelocityConstraints(data)
	}
	for i := 0; i < step.VelocityIterations; i++ {
		for _, j := range joints {
			j.SolveVelocityConstraints(data)
		}
	}

	// Integrate positions.
	for i, b := range bodies {
		if b.bodyType == Static || !b.awake {
			continue
		}
		p, v := &data.Positions[i], &data.Velocities[i]

		// Check for large velocities.
		translation := v.V.Scale(dt)
		if translation.Dot(translation) > MaxTranslation*MaxTranslation {
			v.V = v.V.Scale(MaxTranslation / translation.Mag())
		}
		rotation := dt * v.W
		if rotation*rotation > MaxRotation*MaxRotation {
			v.W *= MaxRotation / math.Abs(rotation)
		}

		p.C = p.C.Add(v.V.Scale(dt))
		p.A += dt * v.W
	}

	solved := len(joints) == 0
	for i := 0; i < step.PositionIterations; i++ {
		ok := true
		for _, j := range joints {
			ok = j.SolvePositionConstraints(data) && ok
		}
		if ok {
			// Exit early if the position errors are small.
			solved = true
			break
		}
	}

	// Copy state back to the bodies.
	for i, b := range bodies {
		if b.bodyType == Static {
			continue
		}
		b.position = data.Positions[i].C
		b.angle = data.Positions[i].A
		b.velocity = data.Velocities[i].V
		b.w = data.Velocities[i].W
		b.force = vec.Vec2{}
		b.torque = 0
		b.synchronize()
	}

	island.prevInvDt = step.InvDt
	logger.Debug("island stepped", "dt", dt, "bodies", len(bodies), "joints", len(joints), "solved", solved)
	return solved
}

// ShiftOrigin moves the world origin of every body and joint in the island.
func (island *Island) ShiftOrigin(newOrigin vec.Vec2) {
	for _, b := range island.bodies(island.Joints) {
		b.ShiftOrigin(newOrigin)
	}
	for _, j := range island.Joints {
		j.ShiftOrigin(newOrigin)
	}
}
