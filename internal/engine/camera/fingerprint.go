package camera

import "github.com/Faultbox/midgard-view/pkg/math"

// Fingerprint is the set of inputs a Matrices snapshot was derived from.
// Two equal fingerprints always derive identical matrices for the same
// display aspect ratio.
type Fingerprint struct {
	Position         math.Vec3
	Direction        math.Vec3
	BobbingRotation  float32
	BobbingVertical  float32
	FOV              float32 // degrees
	Near             float32
	Far              float32
	ReflectionHeight float32
}

// up returns the world up axis tilted sideways by the bobbing rotation.
func (fp Fingerprint) up() math.Vec3 {
	return math.Up.Add(fp.Direction.Cross(math.Up).Scale(fp.BobbingRotation))
}
