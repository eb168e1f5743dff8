package joint

import (
	"fmt"

	"github.com/setanarut/vec"
)

// Position is the solver copy of a body's center of gravity (world) and angle.
type Position struct {
	C vec.Vec2
	A float64
}

// Velocity is the solver copy of a body's linear and angular velocity.
type Velocity struct {
	V vec.Vec2
	W float64
}

// TimeStep holds the parameters of one simulation step.
type TimeStep struct {
	Dt                 float64 // time step
	InvDt              float64 // inverse time step (0 if Dt == 0)
	DtRatio            float64 // Dt * previous InvDt, scales warm starting impulses
	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
}

// NewTimeStep returns a TimeStep for dt. prevInvDt is the inverse of the
// previous step, or 0 on the first step.
func NewTimeStep(dt, prevInvDt float64, velocityIterations, positionIterations int, warmStarting bool) TimeStep {
	step := TimeStep{
		Dt:                 dt,
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
		WarmStarting:       warmStarting,
	}
	step.InvDt = invertOrZero(dt)
	step.DtRatio = prevInvDt * dt
	return step
}

// SolverData is the per step state shared by every joint of one island.
// Positions and Velocities are indexed by body slot.
type SolverData struct {
	Step       TimeStep
	Positions  []Position
	Velocities []Velocity

	slots map[*Body]int
}

// NewSolverData copies the state of bodies into slots 0..len(bodies)-1.
func NewSolverData(step TimeStep, bodies []*Body) *SolverData {
	data := &SolverData{
		Step:       step,
		Positions:  make([]Position, len(bodies)),
		Velocities: make([]Velocity, len(bodies)),
		slots:      make(map[*Body]int, len(bodies)),
	}
	for i, b := range bodies {
		data.slots[b] = i
		data.Positions[i] = Position{C: b.position, A: b.angle}
		data.Velocities[i] = Velocity{V: b.velocity, W: b.w}
	}
	return data
}

// Slot returns the index of body b in Positions and Velocities. It panics if
// b is not part of the island, which is a programming error.
func (data *SolverData) Slot(b *Body) int {
	i, ok := data.slots[b]
	if !ok {
		panic(fmt.Sprintf("joint: %v is not part of the island", b))
	}
	return i
}

// HasBody reports whether b has a slot.
func (data *SolverData) HasBody(b *Body) bool {
	_, ok := data.slots[b]
	return ok
}

// state returns pointers to the position and velocity slots of b.
func (data *SolverData) state(b *Body) (*Position, *Velocity) {
	i := data.Slot(b)
	return &data.Positions[i], &data.Velocities[i]
}
