// Package config loads joint scenes from JSON and builds them into bodies,
// joints and an island ready to step.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

// SceneConfig describes a joint scene.
type SceneConfig struct {
	Step   StepConfig    `json:"step"`
	Bodies []BodyConfig  `json:"bodies"`
	Joints []JointConfig `json:"joints"`
}

// StepConfig contains the solver settings of the scene.
type StepConfig struct {
	Dt                 float64  `json:"dt"`
	VelocityIterations int      `json:"velocityIterations"`
	PositionIterations int      `json:"positionIterations"`
	WarmStarting       bool     `json:"warmStarting"`
	Gravity            vec.Vec2 `json:"gravity"`
	Damping            float64  `json:"damping"`
}

// BodyConfig contains the initial state of one body.
type BodyConfig struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"` // dynamic, static or kinematic
	Mass            float64  `json:"mass"`
	Moment          float64  `json:"moment"`
	Position        vec.Vec2 `json:"position"`
	Angle           float64  `json:"angle"`
	Velocity        vec.Vec2 `json:"velocity"`
	AngularVelocity float64  `json:"angularVelocity"`
}

// JointConfig contains one joint. Bodies and joints are referred to by their
// index in the scene. Points are in world coordinates and are converted to
// local anchors from the initial body poses.
type JointConfig struct {
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	BodyA            int    `json:"bodyA"`
	BodyB            int    `json:"bodyB"`
	CollideConnected bool   `json:"collideConnected,omitempty"`

	// Gear joints only. Both must refer to earlier joints.
	Joint1 int `json:"joint1,omitempty"`
	Joint2 int `json:"joint2,omitempty"`

	Anchor        vec.Vec2 `json:"anchor"`
	AnchorA       vec.Vec2 `json:"anchorA"`
	AnchorB       vec.Vec2 `json:"anchorB"`
	GroundAnchorA vec.Vec2 `json:"groundAnchorA"`
	GroundAnchorB vec.Vec2 `json:"groundAnchorB"`
	Axis          vec.Vec2 `json:"axis"`
	Target        vec.Vec2 `json:"target"`

	// Length overrides the distance joint length and is the rope max length.
	Length float64 `json:"length,omitempty"`
	// Ratio of pulley and gear joints. Zero means 1.
	Ratio        float64 `json:"ratio,omitempty"`
	FrequencyHz  float64 `json:"frequencyHz,omitempty"`
	DampingRatio float64 `json:"dampingRatio,omitempty"`

	EnableLimit bool    `json:"enableLimit,omitempty"`
	Lower       float64 `json:"lower,omitempty"`
	Upper       float64 `json:"upper,omitempty"`

	EnableMotor bool    `json:"enableMotor,omitempty"`
	MotorSpeed  float64 `json:"motorSpeed,omitempty"`
	// MaxMotor is a torque for revolute and wheel joints and a force for
	// prismatic joints.
	MaxMotor float64 `json:"maxMotor,omitempty"`

	MaxForce  float64 `json:"maxForce,omitempty"`
	MaxTorque float64 `json:"maxTorque,omitempty"`
	// CorrectionFactor of motor joints. Zero keeps the default.
	CorrectionFactor float64 `json:"correctionFactor,omitempty"`
}

// Scene is a built SceneConfig.
type Scene struct {
	Bodies []*joint.Body
	Arena  *joint.Arena
	Joints []joint.Joint
	Island *joint.Island
	Dt     float64
}

// ErrBadReference is returned when a joint refers to a body or joint that
// does not exist.
var ErrBadReference = errors.New("bad scene reference")

// LoadConfig loads a scene configuration from a file
func LoadConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SceneConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a scene configuration to a file
func SaveConfig(config *SceneConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a scene with a pendulum, a rope and a gear train
// hanging from one ground body.
func DefaultConfig() *SceneConfig {
	return &SceneConfig{
		Step: StepConfig{
			Dt:                 1.0 / 60.0,
			VelocityIterations: 8,
			PositionIterations: 3,
			WarmStarting:       true,
			Gravity:            vec.Vec2{X: 0, Y: -10},
		},
		Bodies: []BodyConfig{
			{Name: "ground", Type: "static"},
			{Name: "bob", Type: "dynamic", Mass: 1, Moment: 0.1, Position: vec.Vec2{X: 3, Y: 4}},
			{Name: "weight", Type: "dynamic", Mass: 0.5, Moment: 0.05, Position: vec.Vec2{X: -3, Y: 2}},
			{Name: "big gear", Type: "dynamic", Mass: 2, Moment: 1, Position: vec.Vec2{X: 0, Y: 8}},
			{Name: "small gear", Type: "dynamic", Mass: 1, Moment: 0.25, Position: vec.Vec2{X: 1.5, Y: 8}},
		},
		Joints: []JointConfig{
			{
				Name:    "pendulum",
				Kind:    "distance",
				BodyA:   0,
				BodyB:   1,
				AnchorA: vec.Vec2{X: 0, Y: 4},
				AnchorB: vec.Vec2{X: 3, Y: 4},
			},
			{
				Name:    "rope",
				Kind:    "rope",
				BodyA:   0,
				BodyB:   2,
				AnchorA: vec.Vec2{X: -3, Y: 4},
				AnchorB: vec.Vec2{X: -3, Y: 2},
				Length:  2.5,
			},
			{
				Name:        "big axle",
				Kind:        "revolute",
				BodyA:       0,
				BodyB:       3,
				Anchor:      vec.Vec2{X: 0, Y: 8},
				EnableMotor: true,
				MotorSpeed:  1,
				MaxMotor:    50,
			},
			{
				Name:   "small axle",
				Kind:   "revolute",
				BodyA:  0,
				BodyB:  4,
				Anchor: vec.Vec2{X: 1.5, Y: 8},
			},
			{
				Name:   "gear",
				Kind:   "gear",
				Joint1: 2,
				Joint2: 3,
				Ratio:  2,
			},
		},
	}
}

// ApplyEnv overrides the step settings from JOINT_DT,
// JOINT_VELOCITY_ITERATIONS, JOINT_POSITION_ITERATIONS and
// JOINT_WARM_STARTING. Unset variables leave the config unchanged.
func ApplyEnv(config *SceneConfig) error {
	if s := os.Getenv("JOINT_DT"); s != "" {
		dt, err := strconv.ParseFloat(s, 64)
		if err != nil || dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
			return fmt.Errorf("invalid JOINT_DT %q: %w", s, joint.ErrInvalidParameter)
		}
		config.Step.Dt = dt
	}
	if s := os.Getenv("JOINT_VELOCITY_ITERATIONS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid JOINT_VELOCITY_ITERATIONS %q: %w", s, joint.ErrInvalidParameter)
		}
		config.Step.VelocityIterations = n
	}
	if s := os.Getenv("JOINT_POSITION_ITERATIONS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid JOINT_POSITION_ITERATIONS %q: %w", s, joint.ErrInvalidParameter)
		}
		config.Step.PositionIterations = n
	}
	if s := os.Getenv("JOINT_WARM_STARTING"); s != "" {
		warm, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid JOINT_WARM_STARTING %q: %w", s, joint.ErrInvalidParameter)
		}
		config.Step.WarmStarting = warm
	}
	return nil
}

// Build creates the bodies and joints of config and an island holding all of
// them. Joints are created in order, so gear joints must come after the
// joints they couple.
func Build(config *SceneConfig) (*Scene, error) {
	scene := &Scene{
		Arena:  joint.NewArena(),
		Island: joint.NewIsland(),
		Dt:     config.Step.Dt,
	}

	island := scene.Island
	island.Gravity = config.Step.Gravity
	island.WarmStarting = config.Step.WarmStarting
	if config.Step.VelocityIterations > 0 {
		island.VelocityIterations = config.Step.VelocityIterations
	}
	if config.Step.PositionIterations > 0 {
		island.PositionIterations = config.Step.PositionIterations
	}
	if config.Step.Damping > 0 {
		island.Damping = config.Step.Damping
	}

	for i, bc := range config.Bodies {
		body, err := buildBody(bc)
		if err != nil {
			return nil, fmt.Errorf("failed to build body %d %q: %w", i, bc.Name, err)
		}
		scene.Bodies = append(scene.Bodies, body)
	}
	island.Bodies = scene.Bodies

	for i, jc := range config.Joints {
		def, err := scene.jointDef(jc)
		if err != nil {
			return nil, fmt.Errorf("failed to build joint %d %q: %w", i, jc.Name, err)
		}
		j, err := scene.Arena.Create(def)
		if err != nil {
			return nil, fmt.Errorf("failed to create joint %d %q: %w", i, jc.Name, err)
		}
		j.SetUserData(jc.Name)
		scene.Joints = append(scene.Joints, j)
	}
	island.Add(scene.Joints...)

	return scene, nil
}

func buildBody(bc BodyConfig) (*joint.Body, error) {
	var body *joint.Body
	switch bc.Type {
	case "", "dynamic":
		body = joint.NewBody(bc.Mass, bc.Moment)
	case "static":
		body = joint.NewStaticBody()
	case "kinematic":
		body = joint.NewKinematicBody()
	default:
		return nil, fmt.Errorf("unknown body type %q: %w", bc.Type, joint.ErrInvalidParameter)
	}
	body.UserData = bc.Name
	body.SetTransform(bc.Position, bc.Angle)
	body.SetVelocityVector(bc.Velocity)
	body.SetAngularVelocity(bc.AngularVelocity)
	return body, nil
}

func (scene *Scene) body(i int) (*joint.Body, error) {
	if i < 0 || i >= len(scene.Bodies) {
		return nil, fmt.Errorf("body index %d: %w", i, ErrBadReference)
	}
	return scene.Bodies[i], nil
}

func (scene *Scene) joint(i int) (joint.Joint, error) {
	if i < 0 || i >= len(scene.Joints) {
		return nil, fmt.Errorf("joint index %d: %w", i, ErrBadReference)
	}
	return scene.Joints[i], nil
}

func (scene *Scene) jointDef(jc JointConfig) (joint.Def, error) {
	kind, ok := joint.ParseKind(jc.Kind)
	if !ok {
		return nil, fmt.Errorf("%q: %w", jc.Kind, joint.ErrUnknownKind)
	}

	if kind == joint.KindGear {
		def := joint.NewGearJointDef()
		var err error
		if def.Joint1, err = scene.joint(jc.Joint1); err != nil {
			return nil, err
		}
		if def.Joint2, err = scene.joint(jc.Joint2); err != nil {
			return nil, err
		}
		if jc.Ratio != 0 {
			def.Ratio = jc.Ratio
		}
		def.CollideConnected = jc.CollideConnected
		return def, nil
	}

	a, err := scene.body(jc.BodyA)
	if err != nil {
		return nil, err
	}
	b, err := scene.body(jc.BodyB)
	if err != nil {
		return nil, err
	}

	var def joint.Def
	switch kind {
	case joint.KindDistance:
		d := joint.NewDistanceJointDef()
		d.Initialize(a, b, jc.AnchorA, jc.AnchorB)
		if jc.Length > 0 {
			d.Length = jc.Length
		}
		d.FrequencyHz = jc.FrequencyHz
		d.DampingRatio = jc.DampingRatio
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindRevolute:
		d := joint.NewRevoluteJointDef()
		d.Initialize(a, b, jc.Anchor)
		d.EnableLimit = jc.EnableLimit
		d.LowerAngle = jc.Lower
		d.UpperAngle = jc.Upper
		d.EnableMotor = jc.EnableMotor
		d.MotorSpeed = jc.MotorSpeed
		d.MaxMotorTorque = jc.MaxMotor
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindPrismatic:
		d := joint.NewPrismaticJointDef()
		d.Initialize(a, b, jc.Anchor, jc.Axis)
		d.EnableLimit = jc.EnableLimit
		d.LowerTranslation = jc.Lower
		d.UpperTranslation = jc.Upper
		d.EnableMotor = jc.EnableMotor
		d.MotorSpeed = jc.MotorSpeed
		d.MaxMotorForce = jc.MaxMotor
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindPulley:
		ratio := jc.Ratio
		if ratio == 0 {
			ratio = 1
		}
		d := joint.NewPulleyJointDef()
		d.Initialize(a, b, jc.GroundAnchorA, jc.GroundAnchorB, jc.AnchorA, jc.AnchorB, ratio)
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindWeld:
		d := joint.NewWeldJointDef()
		d.Initialize(a, b, jc.Anchor)
		d.FrequencyHz = jc.FrequencyHz
		d.DampingRatio = jc.DampingRatio
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindFriction:
		d := joint.NewFrictionJointDef()
		d.Initialize(a, b, jc.Anchor)
		d.MaxForce = jc.MaxForce
		d.MaxTorque = jc.MaxTorque
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindRope:
		d := joint.NewRopeJointDef()
		d.BodyA = a
		d.BodyB = b
		d.LocalAnchorA = a.WorldToLocal(jc.AnchorA)
		d.LocalAnchorB = b.WorldToLocal(jc.AnchorB)
		d.MaxLength = jc.Length
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindMotor:
		d := joint.NewMotorJointDef()
		d.Initialize(a, b)
		d.MaxForce = jc.MaxForce
		d.MaxTorque = jc.MaxTorque
		if jc.CorrectionFactor != 0 {
			d.CorrectionFactor = jc.CorrectionFactor
		}
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindWheel:
		d := joint.NewWheelJointDef()
		d.Initialize(a, b, jc.Anchor, jc.Axis)
		d.EnableMotor = jc.EnableMotor
		d.MotorSpeed = jc.MotorSpeed
		d.MaxMotorTorque = jc.MaxMotor
		d.FrequencyHz = jc.FrequencyHz
		d.DampingRatio = jc.DampingRatio
		d.CollideConnected = jc.CollideConnected
		def = d
	case joint.KindMouse:
		d := joint.NewMouseJointDef()
		d.BodyA = a
		d.BodyB = b
		d.Target = jc.Target
		d.MaxForce = jc.MaxForce
		if jc.FrequencyHz != 0 {
			d.FrequencyHz = jc.FrequencyHz
		}
		if jc.DampingRatio != 0 {
			d.DampingRatio = jc.DampingRatio
		}
		d.CollideConnected = jc.CollideConnected
		def = d
	}
	return def, nil
}
