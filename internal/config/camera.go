package config

import "github.com/Faultbox/midgard-view/internal/engine/camera"

// Settings converts the camera section into camera settings.
func (c CameraConfig) Settings() camera.Settings {
	return camera.Settings{
		FOV:                 c.FOV,
		Near:                c.Near,
		Far:                 c.Far,
		ReflectionHeight:    c.ReflectionHeight,
		SmoothingFrames:     c.SmoothingFrames,
		SmoothingMultiplier: c.SmoothingMultiplier,
	}
}
