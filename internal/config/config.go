// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Display    DisplayConfig    `yaml:"display"`
	Camera     CameraConfig     `yaml:"camera"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DisplayConfig holds window settings.
type DisplayConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the observer camera scalars.
type CameraConfig struct {
	FOV                 float32 `yaml:"fov"` // degrees
	Near                float32 `yaml:"near"`
	Far                 float32 `yaml:"far"`
	ReflectionHeight    float32 `yaml:"reflection_height"`
	SmoothingFrames     int     `yaml:"smoothing_frames"`
	SmoothingMultiplier float32 `yaml:"smoothing_multiplier"`
	MoveSpeed           float32 `yaml:"move_speed"` // world units per second
}

// SimulationConfig drives the headless camsim run.
type SimulationConfig struct {
	Frames        int     `yaml:"frames"`
	Delta         float32 `yaml:"delta"`
	ResizeAtFrame int     `yaml:"resize_at_frame"` // 0 disables
	GridSize      int     `yaml:"grid_size"`
	GridSpacing   float32 `yaml:"grid_spacing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Title:      "Midgard View",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:                 90,
			Near:                0.1,
			Far:                 5000,
			ReflectionHeight:    32,
			SmoothingFrames:     10,
			SmoothingMultiplier: 0.9,
			MoveSpeed:           20,
		},
		Simulation: SimulationConfig{
			Frames:        600,
			Delta:         1.0 / 60.0,
			ResizeAtFrame: 300,
			GridSize:      32,
			GridSpacing:   16,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that would otherwise fail later at matrix
// build time.
func (c *Config) Validate() error {
	cam := c.Camera
	switch {
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return fmt.Errorf("display %dx%d: %w", c.Display.Width, c.Display.Height, ErrInvalid)
	case !(cam.FOV > 0 && cam.FOV < 180):
		return fmt.Errorf("camera.fov %g: %w", cam.FOV, ErrInvalid)
	case !(cam.Near > 0 && cam.Far > cam.Near):
		return fmt.Errorf("camera near=%g far=%g: %w", cam.Near, cam.Far, ErrInvalid)
	case cam.SmoothingFrames < 1:
		return fmt.Errorf("camera.smoothing_frames %d: %w", cam.SmoothingFrames, ErrInvalid)
	case !(cam.SmoothingMultiplier > 0 && cam.SmoothingMultiplier < 1):
		return fmt.Errorf("camera.smoothing_multiplier %g: %w", cam.SmoothingMultiplier, ErrInvalid)
	case c.Simulation.Frames < 0 || !(c.Simulation.Delta > 0):
		return fmt.Errorf("simulation frames=%d delta=%g: %w", c.Simulation.Frames, c.Simulation.Delta, ErrInvalid)
	}
	return nil
}
