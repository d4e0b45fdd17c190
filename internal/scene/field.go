// Package scene holds the world the viewer looks at: a field of marker
// cubes, a free-fly controller and scripted camera paths.
package scene

import (
	"github.com/Faultbox/midgard-view/internal/engine/culling"
	"github.com/Faultbox/midgard-view/pkg/math"
)

// Marker is an axis-aligned cube.
type Marker struct {
	Center   math.Vec3
	HalfSize float32
}

// Bounds returns the cube's min and max corners.
func (m Marker) Bounds() (min, max math.Vec3) {
	h := math.Vec3{X: m.HalfSize, Y: m.HalfSize, Z: m.HalfSize}
	return m.Center.Sub(h), m.Center.Add(h)
}

// Radius returns the radius of the bounding sphere.
func (m Marker) Radius() float32 {
	return m.HalfSize * 1.7320508
}

// Model returns the model matrix mapping the unit cube [-1, 1]^3 onto the
// marker.
func (m Marker) Model() math.Mat4 {
	return math.TranslationRotateScale(m.Center, math.Identity(), m.HalfSize)
}

// Field is a set of markers.
type Field struct {
	Markers []Marker
}

// Grid lays size x size markers on the XZ plane centered on the origin.
// Every third column is raised so that vertical culling has something to do.
func Grid(size int, spacing float32) *Field {
	f := &Field{Markers: make([]Marker, 0, size*size)}
	offset := float32(size-1) * spacing / 2
	half := spacing / 4
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			y := half
			if i%3 == 0 {
				y += spacing
			}
			f.Markers = append(f.Markers, Marker{
				Center:   math.Vec3{X: float32(i)*spacing - offset, Y: y, Z: float32(j)*spacing - offset},
				HalfSize: half,
			})
		}
	}
	return f
}

// CullMode picks the bounding volume tested against the frustum.
type CullMode int

const (
	CullBox CullMode = iota
	CullSphere
	CullCenter
)

func (m CullMode) String() string {
	switch m {
	case CullBox:
		return "box"
	case CullSphere:
		return "sphere"
	case CullCenter:
		return "center"
	}
	return "unknown"
}

// Cull appends the indices of markers that may be visible to dst and
// returns it. Markers whose volume the frustum rejects as malformed are
// counted in rejected and treated as visible.
func (f *Field) Cull(fr *culling.ViewFrustum, mode CullMode, dst []int) (visible []int, rejected int) {
	visible = dst[:0]
	for i, m := range f.Markers {
		var (
			in  bool
			err error
		)
		switch mode {
		case CullSphere:
			in, err = fr.IntersectsSphere(m.Center, m.Radius())
		case CullCenter:
			in = fr.ContainsPoint(m.Center)
		default:
			min, max := m.Bounds()
			in, err = fr.IntersectsBox(min, max)
		}
		if err != nil {
			rejected++
			in = true
		}
		if in {
			visible = append(visible, i)
		}
	}
	return visible, rejected
}
