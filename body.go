package joint

import (
	"fmt"

	"github.com/setanarut/vec"
)

// BodyType for bodies; Dynamic, Kinematic or Static
type BodyType uint8

const (
	Dynamic   BodyType = 0
	Kinematic BodyType = 1
	Static    BodyType = 2
)

func (t BodyType) String() string {
	switch t {
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	}
	return "dynamic"
}

var bodyCur int = 0

// Body is the minimal rigid body the joints act on. It carries mass data,
// position and velocity state and the list of joints attached to it.
// Collision shapes are not part of it.
type Body struct {
	// UserData is an object that this body is associated with.
	//
	// You can use this get a reference to your game object or controller object.
	UserData any

	id                     int // Body id
	bodyType               BodyType
	mass                   float64  // Mass
	massInverse            float64  // Mass inverse
	momentOfInertia        float64  // Moment of inertia about the center of gravity
	momentOfInertiaInverse float64  // Inverse of moment of inertia i
	angle                  float64  // Angle (radians)
	w                      float64  // Angular velocity
	torque                 float64  // Torque
	centerOfGravity        vec.Vec2 // Center of gravity in body local coordinates
	position               vec.Vec2 // Center of gravity in world coordinates
	velocity               vec.Vec2 // Velocity of the center of gravity
	force                  vec.Vec2 // Force
	transform              Transform
	jointList              *JointEdge
	awake                  bool
	active                 bool
}

// String returns body id as string
func (b *Body) String() string {
	return fmt.Sprint("Body ", b.id, " (", b.bodyType, ")")
}

// ID returns the creation sequence number of the body.
func (b *Body) ID() int {
	return b.id
}

// NewBody initializes a dynamic rigid body with the given mass and moment of
// inertia about its center of gravity.
//
// A non-positive mass is replaced by 1. A non-positive moment gives the body
// fixed rotation.
func NewBody(mass, moment float64) *Body {
	body := &Body{
		id:        bodyCur,
		bodyType:  Dynamic,
		transform: NewTransformIdentity(),
		awake:     true,
		active:    true,
	}
	bodyCur++
	body.SetMass(mass)
	body.SetMoment(moment)
	return body
}

// NewStaticBody allocates and initializes a Body, and set it as a static body.
func NewStaticBody() *Body {
	body := NewBody(0, 0)
	body.SetType(Static)
	return body
}

// NewKinematicBody allocates and initializes a Body, and set it as a kinematic body.
func NewKinematicBody() *Body {
	body := NewBody(0, 0)
	body.SetType(Kinematic)
	return body
}

// Type returns the type of the body.
func (body *Body) Type() BodyType {
	return body.bodyType
}

// SetType sets the type of the body. Static and kinematic bodies have zero
// inverse mass and inertia; static bodies also lose their velocity.
func (body *Body) SetType(bt BodyType) {
	if body.bodyType == bt {
		return
	}
	body.bodyType = bt

	if bt == Dynamic {
		body.SetMass(body.mass)
		body.SetMoment(body.momentOfInertia)
		body.Activate()
		return
	}

	body.massInverse = 0
	body.momentOfInertiaInverse = 0
	body.force = vec.Vec2{}
	body.torque = 0
	if bt == Static {
		body.velocity = vec.Vec2{}
		body.w = 0
		body.awake = false
		return
	}
	body.Activate()
}

// Mass returns mass of the body
func (body *Body) Mass() float64 {
	return body.mass
}

// SetMass sets mass of the body. Only dynamic bodies have a finite inverse mass.
func (body *Body) SetMass(mass float64) {
	if mass <= 0 {
		mass = 1
	}
	body.mass = mass
	if body.bodyType == Dynamic {
		body.massInverse = 1 / mass
	}
	body.Activate()
}

// Moment returns moment of inertia of the body.
func (body *Body) Moment() float64 {
	return body.momentOfInertia
}

// SetMoment sets moment of inertia of the body.
func (body *Body) SetMoment(moment float64) {
	if moment < 0 {
		moment = 0
	}
	body.momentOfInertia = moment
	body.momentOfInertiaInverse = 0
	if body.bodyType == Dynamic && moment > 0 {
		body.momentOfInertiaInverse = 1 / moment
	}
	body.Activate()
}

// CenterOfGravity returns the offset of the center of gravity in body local coordinates.
func (body *Body) CenterOfGravity() vec.Vec2 {
	return body.centerOfGravity
}

// SetCenterOfGravity moves the center of gravity in body local coordinates.
// The body origin stays in place.
func (body *Body) SetCenterOfGravity(cog vec.Vec2) {
	body.centerOfGravity = cog
	body.position = body.transform.Apply(cog)
}

// Angle returns the angle of the body.
func (body *Body) Angle() float64 {
	return body.angle
}

// SetAngle rotates the body about its origin.
func (body *Body) SetAngle(angle float64) {
	body.SetTransform(body.transform.P, angle)
}

// Rotation returns the rotation of the body.
func (body *Body) Rotation() Rot {
	return body.transform.Q
}

// Position returns the world position of the body origin.
func (body *Body) Position() vec.Vec2 {
	return body.transform.P
}

// SetPosition sets the world position of the body origin.
func (body *Body) SetPosition(position vec.Vec2) {
	body.SetTransform(position, body.angle)
}

// WorldCenter returns the world position of the center of gravity.
func (body *Body) WorldCenter() vec.Vec2 {
	return body.position
}

// SetTransform places the body origin at p with angle a.
func (body *Body) SetTransform(p vec.Vec2, a float64) {
	body.angle = a
	body.transform = NewTransform(p, a)
	body.position = body.transform.Apply(body.centerOfGravity)
	body.Activate()
}

// Transform returns body's transform
func (body *Body) Transform() Transform {
	return body.transform
}

// synchronize rebuilds the transform from the center of gravity and angle.
func (body *Body) synchronize() {
	body.transform.Q = NewRot(body.angle)
	body.transform.P = body.position.Sub(body.transform.Q.Apply(body.centerOfGravity))
}

// Velocity returns the velocity of the body.
func (body *Body) Velocity() vec.Vec2 {
	return body.velocity
}

// SetVelocity sets the velocity of the body.
//
// Shorthand for Body.SetVelocityVector()
func (body *Body) SetVelocity(x, y float64) {
	body.SetVelocityVector(vec.Vec2{X: x, Y: y})
}

// SetVelocityVector sets the velocity of the body
func (body *Body) SetVelocityVector(v vec.Vec2) {
	if body.bodyType == Static {
		return
	}
	body.Activate()
	body.velocity = v
}

// AngularVelocity returns the angular velocity of the body.
func (body *Body) AngularVelocity() float64 {
	return body.w
}

// SetAngularVelocity sets the angular velocity of the body.
func (body *Body) SetAngularVelocity(angularVelocity float64) {
	if body.bodyType == Static {
		return
	}
	body.Activate()
	body.w = angularVelocity
}

// Force returns the force applied to the body for the next time step.
func (body *Body) Force() vec.Vec2 {
	return body.force
}

// SetForce sets the force applied to the body for the next time step.
func (body *Body) SetForce(force vec.Vec2) {
	body.Activate()
	body.force = force
}

// Torque returns the torque applied to the body for the next time step.
func (body *Body) Torque() float64 {
	return body.torque
}

// SetTorque sets the torque applied to the body for the next time step.
func (body *Body) SetTorque(torque float64) {
	body.Activate()
	body.torque = torque
}

// ApplyForceAtWorldPoint applies a force at world point.
func (body *Body) ApplyForceAtWorldPoint(force, point vec.Vec2) {
	if body.bodyType != Dynamic {
		return
	}
	body.Activate()
	body.force = body.force.Add(force)

	r := point.Sub(body.position)
	body.torque += r.Cross(force)
}

// ApplyForceAtLocalPoint applies a force at local point.
func (body *Body) ApplyForceAtLocalPoint(force, point vec.Vec2) {
	body.ApplyForceAtWorldPoint(body.transform.ApplyVector(force), body.transform.Apply(point))
}

// ApplyImpulseAtWorldPoint applies impulse at world point
func (body *Body) ApplyImpulseAtWorldPoint(impulse, point vec.Vec2) {
	if body.bodyType != Dynamic {
		return
	}
	body.Activate()

	r := point.Sub(body.position)
	body.velocity = body.velocity.Add(impulse.Scale(body.massInverse))
	body.w += body.momentOfInertiaInverse * r.Cross(impulse)
}

// WorldToLocal converts from world to body local Coordinates.
func (body *Body) WorldToLocal(point vec.Vec2) vec.Vec2 {
	return body.transform.ApplyT(point)
}

// LocalToWorld converts from body local to world coordinates.
func (body *Body) LocalToWorld(point vec.Vec2) vec.Vec2 {
	return body.transform.Apply(point)
}

// WorldToLocalVector rotates a world vector into the body frame.
func (body *Body) WorldToLocalVector(v vec.Vec2) vec.Vec2 {
	return body.transform.Q.ApplyT(v)
}

// LocalToWorldVector rotates a body frame vector into the world frame.
func (body *Body) LocalToWorldVector(v vec.Vec2) vec.Vec2 {
	return body.transform.Q.Apply(v)
}

// VelocityAtWorldPoint returns the velocity of a point on a body.
//
// Get the world (absolute) velocity of a point on a rigid body specified in world coordinates.
func (body *Body) VelocityAtWorldPoint(point vec.Vec2) vec.Vec2 {
	r := point.Sub(body.position)
	return body.velocity.Add(crossSV(body.w, r))
}

// VelocityAtLocalPoint returns the velocity of a point on a body.
//
// Get the world (absolute) velocity of a point on a rigid body specified in body local coordinates.
func (body *Body) VelocityAtLocalPoint(point vec.Vec2) vec.Vec2 {
	return body.VelocityAtWorldPoint(body.transform.Apply(point))
}

// KineticEnergy returns the kinetic energy of this body.
func (body *Body) KineticEnergy() float64 {
	// Need to do some fudging to avoid NaNs
	vsq := body.velocity.Dot(body.velocity)
	wsq := body.w * body.w
	var a, b float64
	if vsq != 0 {
		a = vsq * body.mass
	}
	if wsq != 0 {
		b = wsq * body.momentOfInertia
	}
	return 0.5 * (a + b)
}

// Activate wakes up a sleeping body. Static bodies never wake.
func (body *Body) Activate() {
	if body != nil && body.bodyType != Static {
		body.awake = true
	}
}

// SetAwake wakes the body or puts it to sleep. A sleeping body loses its
// velocity and accumulated force.
func (body *Body) SetAwake(flag bool) {
	if flag {
		body.Activate()
		return
	}
	body.awake = false
	body.velocity = vec.Vec2{}
	body.w = 0
	body.force = vec.Vec2{}
	body.torque = 0
}

// IsAwake returns true if the body is awake.
func (body *Body) IsAwake() bool {
	return body.awake
}

// IsSleeping returns true if the body is sleeping.
func (body *Body) IsSleeping() bool {
	return !body.awake
}

// SetActive includes or excludes the body from simulation. Joints attached to
// an inactive body are skipped by the island.
func (body *Body) SetActive(flag bool) {
	body.active = flag
}

// IsActive returns true if the body takes part in simulation.
func (body *Body) IsActive() bool {
	return body.active
}

// JointList returns the head of the body's joint edge list.
func (body *Body) JointList() *JointEdge {
	return body.jointList
}

// EachJoint calls f once for each joint attached to this body
func (body *Body) EachJoint(f func(Joint)) {
	edge := body.jointList
	for edge != nil {
		next := edge.Next
		f(edge.Joint)
		edge = next
	}
}

// ShouldCollide returns false when a joint connecting body and other has
// collide connected turned off.
func (body *Body) ShouldCollide(other *Body) bool {
	if body.bodyType != Dynamic && other.bodyType != Dynamic {
		return false
	}
	for edge := body.jointList; edge != nil; edge = edge.Next {
		if edge.Other == other && !edge.Joint.CollideConnected() {
			return false
		}
	}
	return true
}

// ShiftOrigin moves the body so that newOrigin becomes the world origin.
func (body *Body) ShiftOrigin(newOrigin vec.Vec2) {
	body.position = body.position.Sub(newOrigin)
	body.transform.P = body.transform.P.Sub(newOrigin)
}

func (body *Body) pushJointEdge(edge *JointEdge) {
	edge.Prev = nil
	edge.Next = body.jointList
	if body.jointList != nil {
		body.jointList.Prev = edge
	}
	body.jointList = edge
}

func (body *Body) removeJointEdge(edge *JointEdge) {
	if edge.Prev != nil {
		edge.Prev.Next = edge.Next
	}
	if edge.Next != nil {
		edge.Next.Prev = edge.Prev
	}
	if body.jointList == edge {
		body.jointList = edge.Next
	}
	edge.Prev = nil
	edge.Next = nil
}
