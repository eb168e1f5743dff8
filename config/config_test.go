package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/joint"
	"github.com/setanarut/vec"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if config.Step.Dt != 1.0/60.0 {
		t.Errorf("Expected Dt 1/60, got %f", config.Step.Dt)
	}
	if len(config.Bodies) != 5 {
		t.Errorf("Expected 5 bodies, got %d", len(config.Bodies))
	}
	if len(config.Joints) != 5 {
		t.Errorf("Expected 5 joints, got %d", len(config.Joints))
	}

	scene, err := Build(config)
	if err != nil {
		t.Fatalf("Build(DefaultConfig()) failed: %v", err)
	}
	if scene.Arena.JointCount() != 5 {
		t.Errorf("Expected 5 live joints, got %d", scene.Arena.JointCount())
	}
	if scene.Joints[4].Kind() != joint.KindGear {
		t.Errorf("Expected last joint to be a gear, got %v", scene.Joints[4].Kind())
	}
	if scene.Joints[1].UserData() != "rope" {
		t.Errorf("Expected joint user data 'rope', got %v", scene.Joints[1].UserData())
	}
}

func TestDefaultSceneSteps(t *testing.T) {
	scene, err := Build(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120; i++ {
		scene.Island.Step(scene.Dt)
	}

	pendulum := scene.Joints[0].(*joint.DistanceJoint)
	if d := pendulum.AnchorA().Distance(pendulum.AnchorB()); d < 3-2*joint.LinearSlop || d > 3+2*joint.LinearSlop {
		t.Errorf("Expected pendulum length 3, got %f", d)
	}

	rope := scene.Joints[1].(*joint.RopeJoint)
	if d := rope.AnchorA().Distance(rope.AnchorB()); d > 2.5+2*joint.LinearSlop {
		t.Errorf("Expected rope no longer than 2.5, got %f", d)
	}

	big, small := scene.Bodies[3], scene.Bodies[4]
	if big.AngularVelocity() == 0 {
		t.Error("Expected the motor to turn the big gear")
	}
	if w := big.AngularVelocity() + 2*small.AngularVelocity(); w > 1e-6 || w < -1e-6 {
		t.Errorf("Expected geared angular velocities, got %f and %f", big.AngularVelocity(), small.AngularVelocity())
	}
}

func TestSaveLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	config := DefaultConfig()

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Step != config.Step {
		t.Errorf("Expected step %+v, got %+v", config.Step, loaded.Step)
	}
	if len(loaded.Joints) != len(config.Joints) {
		t.Fatalf("Expected %d joints, got %d", len(config.Joints), len(loaded.Joints))
	}
	for i := range config.Joints {
		if loaded.Joints[i] != config.Joints[i] {
			t.Errorf("Joint %d: expected %+v, got %+v", i, config.Joints[i], loaded.Joints[i])
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected parse error for invalid JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("JOINT_DT", "0.01")
		t.Setenv("JOINT_VELOCITY_ITERATIONS", "20")
		t.Setenv("JOINT_POSITION_ITERATIONS", "5")
		t.Setenv("JOINT_WARM_STARTING", "false")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		want := StepConfig{
			Dt:                 0.01,
			VelocityIterations: 20,
			PositionIterations: 5,
			WarmStarting:       false,
			Gravity:            vec.Vec2{X: 0, Y: -10},
		}
		if config.Step != want {
			t.Errorf("Expected step %+v, got %+v", want, config.Step)
		}
	})

	t.Run("Unset", func(t *testing.T) {
		t.Setenv("JOINT_DT", "")
		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		if config.Step != DefaultConfig().Step {
			t.Errorf("Expected default step, got %+v", config.Step)
		}
	})

	invalid := []struct {
		key   string
		value string
	}{
		{"JOINT_DT", "fast"},
		{"JOINT_DT", "NaN"},
		{"JOINT_DT", "+Inf"},
		{"JOINT_DT", "-0.5"},
		{"JOINT_VELOCITY_ITERATIONS", "0"},
		{"JOINT_POSITION_ITERATIONS", "-1"},
		{"JOINT_WARM_STARTING", "maybe"},
	}
	for _, tt := range invalid {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if err := ApplyEnv(DefaultConfig()); !errors.Is(err, joint.ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter for %s=%q, got %v", tt.key, tt.value, err)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SceneConfig)
		want   error
	}{
		{
			name:   "BodyIndexOutOfRange",
			mutate: func(c *SceneConfig) { c.Joints[0].BodyB = 9 },
			want:   ErrBadReference,
		},
		{
			name:   "GearForwardReference",
			mutate: func(c *SceneConfig) { c.Joints[4].Joint2 = 4 },
			want:   ErrBadReference,
		},
		{
			name:   "UnknownKind",
			mutate: func(c *SceneConfig) { c.Joints[1].Kind = "spring" },
			want:   joint.ErrUnknownKind,
		},
		{
			name:   "UnknownBodyType",
			mutate: func(c *SceneConfig) { c.Bodies[2].Type = "ghost" },
			want:   joint.ErrInvalidParameter,
		},
		{
			name:   "SameBody",
			mutate: func(c *SceneConfig) { c.Joints[0].BodyB = 0 },
			want:   joint.ErrSameBody,
		},
		{
			name:   "GearOnRope",
			mutate: func(c *SceneConfig) { c.Joints[4].Joint1 = 1 },
			want:   joint.ErrGearJointKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if _, err := Build(config); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
