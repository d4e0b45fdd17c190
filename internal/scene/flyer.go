package scene

import (
	gomath "math"

	"github.com/Faultbox/midgard-view/pkg/math"
)

const maxPitch = 89 * gomath.Pi / 180

// Flyer is a free-fly controller. Yaw 0 and pitch 0 look down -Z.
type Flyer struct {
	Position math.Vec3
	Yaw      float32 // radians, positive turns left
	Pitch    float32 // radians, positive looks up
	Speed    float32 // world units per second
}

// Direction returns the unit viewing direction.
func (f *Flyer) Direction() math.Vec3 {
	sy, cy := gomath.Sincos(float64(f.Yaw))
	sp, cp := gomath.Sincos(float64(f.Pitch))
	return math.Vec3{
		X: float32(-sy * cp),
		Y: float32(sp),
		Z: float32(-cy * cp),
	}
}

// Look turns the controller by mouse deltas scaled by sensitivity
// (radians per pixel). Pitch is clamped short of straight up or down.
func (f *Flyer) Look(dx, dy int, sensitivity float32) {
	f.Yaw -= float32(dx) * sensitivity
	f.Pitch -= float32(dy) * sensitivity
	if f.Pitch > maxPitch {
		f.Pitch = maxPitch
	}
	if f.Pitch < -maxPitch {
		f.Pitch = -maxPitch
	}
}

// Move advances along the viewing direction, strafes sideways and rises
// along world up. Each axis is expected in [-1, 1].
func (f *Flyer) Move(forward, strafe, rise, dt float32) {
	dir := f.Direction()
	right := dir.Cross(math.Up).Normalize()
	step := dir.Scale(forward).Add(right.Scale(strafe)).Add(math.Up.Scale(rise))
	f.Position = f.Position.Add(step.Scale(f.Speed * dt))
}
