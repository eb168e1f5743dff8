// Command jointsim steps a joint scene and reports the joint reactions.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/setanarut/joint"
	"github.com/setanarut/joint/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if os.Getenv("JOINT_LOG_LEVEL") == "" {
		joint.SetLogger(logger.With("component", "joint"))
	}

	configPath := flag.String("config", "scene.json", "Path to scene configuration file")
	createDefault := flag.Bool("default", false, "Create default scene configuration file")
	steps := flag.Int("steps", 60, "Number of steps to simulate")
	dump := flag.Bool("dump", false, "Dump joint definitions to stdout after stepping")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error("Failed to create default configuration", "error", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info("Created default configuration file", "config_path", *configPath)
		return
	}

	// Load configuration
	var sceneConfig *config.SceneConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info("Configuration file not found, using default scene", "config_path", *configPath)
		sceneConfig = config.DefaultConfig()
	} else {
		sceneConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error("Failed to load configuration", "error", err, "config_path", *configPath)
			os.Exit(1)
		}
	}

	// Apply environment variable overrides
	if err := config.ApplyEnv(sceneConfig); err != nil {
		logger.Error("Failed to apply environment configuration", "error", err)
		os.Exit(1)
	}

	scene, err := config.Build(sceneConfig)
	if err != nil {
		logger.Error("Failed to build scene", "error", err)
		os.Exit(1)
	}

	solved := true
	for i := 0; i < *steps; i++ {
		solved = scene.Island.Step(scene.Dt)
	}

	invDt := 0.0
	if scene.Dt > 0 {
		invDt = 1 / scene.Dt
	}
	for _, j := range scene.Joints {
		f := j.ReactionForce(invDt)
		logger.Info("joint reaction",
			"name", j.UserData(),
			"kind", j.Kind(),
			"force", fmt.Sprintf("(%.4f, %.4f)", f.X, f.Y),
			"torque", fmt.Sprintf("%.4f", j.ReactionTorque(invDt)),
		)
	}
	logger.Info("simulation finished", "steps", scene.Island.StepCount(), "solved", solved)

	if *dump {
		if err := scene.Arena.Dump(os.Stdout, scene.Bodies); err != nil {
			logger.Error("Failed to dump joints", "error", err)
			os.Exit(1)
		}
	}
}
