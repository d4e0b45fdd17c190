package scene

import (
	gomath "math"

	"github.com/Faultbox/midgard-view/pkg/math"
)

// Orbit circles Center at a fixed radius and height, always looking at
// Center. One lap takes Period seconds.
type Orbit struct {
	Center math.Vec3
	Radius float32
	Height float32
	Period float32

	// Head bobbing, in radians of roll and world units of lift.
	BobRoll float32
	BobLift float32
	BobRate float32 // bobs per second
}

// At returns the observer position and viewing direction at time t.
func (o Orbit) At(t float32) (position, direction math.Vec3) {
	angle := float32(2 * gomath.Pi * float64(t) / float64(o.Period))
	// RotateY turns +X towards -Z; the orbit runs the other way.
	offset := math.RotateY(-angle).TransformPoint(math.Vec3{X: o.Radius})
	position = o.Center.Add(offset).Add(math.Vec3{Y: o.Height})
	return position, o.Center.Sub(position).Normalize()
}

// Bobbing returns the bobbing rotation and vertical offset at time t.
func (o Orbit) Bobbing(t float32) (rotation, vertical float32) {
	phase := 2 * gomath.Pi * float64(o.BobRate) * float64(t)
	return o.BobRoll * float32(gomath.Sin(phase)), o.BobLift * float32(gomath.Abs(gomath.Sin(phase)))
}
