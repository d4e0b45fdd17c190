// Package culling tests geometry against the observer's view frustum.
package culling

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-view/pkg/math"
)

var (
	// ErrInvalidSphere is returned for a negative or NaN radius or a
	// non-finite center.
	ErrInvalidSphere = errors.New("invalid sphere")

	// ErrInvalidBox is returned when a box minimum exceeds its maximum.
	ErrInvalidBox = errors.New("invalid box")
)

// Plane indices, in extraction order.
const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
)

// Plane is the half-space Normal·p + D >= 0. Normal has unit length, so
// Distance is the true signed distance with positive values inside.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(point math.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// ViewFrustum holds the six clip planes extracted from a view-projection
// matrix. The zero value rejects nothing until the first update.
type ViewFrustum struct {
	planes         [6]Plane
	viewProjection math.Mat4
}

// UpdateFrustum rebuilds the planes from projection * view.
func (f *ViewFrustum) UpdateFrustum(view, projection math.Mat4) {
	f.UpdateFrustumMatrix(projection.Mul(view))
}

// UpdateFrustumMatrix rebuilds the planes from an already combined
// view-projection matrix using Gribb/Hartmann extraction.
func (f *ViewFrustum) UpdateFrustumMatrix(viewProjection math.Mat4) {
	r0 := viewProjection.Row(0)
	r1 := viewProjection.Row(1)
	r2 := viewProjection.Row(2)
	r3 := viewProjection.Row(3)

	var planes [6]Plane
	planes[Left] = planeFrom(r3, r0, 1)
	planes[Right] = planeFrom(r3, r0, -1)
	planes[Bottom] = planeFrom(r3, r1, 1)
	planes[Top] = planeFrom(r3, r1, -1)
	planes[Near] = planeFrom(r3, r2, 1)
	planes[Far] = planeFrom(r3, r2, -1)

	f.planes = planes
	f.viewProjection = viewProjection
}

// planeFrom returns the normalized plane w + sign*r.
func planeFrom(w, r math.Vec4, sign float32) Plane {
	a := w[0] + sign*r[0]
	b := w[1] + sign*r[1]
	c := w[2] + sign*r[2]
	d := w[3] + sign*r[3]

	length := float32(gomath.Sqrt(float64(a*a + b*b + c*c)))
	if length > 0 {
		inv := 1 / length
		a, b, c, d = a*inv, b*inv, c*inv, d*inv
	}
	return Plane{Normal: math.Vec3{X: a, Y: b, Z: c}, D: d}
}

// Planes returns a copy of the current planes.
func (f *ViewFrustum) Planes() [6]Plane {
	return f.planes
}

// ViewProjection returns the matrix the planes were last built from.
func (f *ViewFrustum) ViewProjection() math.Mat4 {
	return f.viewProjection
}

// ContainsPoint reports whether p is on the inside of all six planes.
func (f *ViewFrustum) ContainsPoint(p math.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the axis-aligned box [min, max] touches the
// frustum. For each plane only the corner furthest along the normal is
// tested, so a few boxes near frustum corners are reported as visible even
// though they lie outside.
func (f *ViewFrustum) IntersectsBox(min, max math.Vec3) (bool, error) {
	if !(min.X <= max.X && min.Y <= max.Y && min.Z <= max.Z) {
		return false, fmt.Errorf("min %v max %v: %w", min, max, ErrInvalidBox)
	}

	for i := range f.planes {
		p := &f.planes[i]
		// Select the positive vertex for this plane normal
		v := max
		if p.Normal.X < 0 {
			v.X = min.X
		}
		if p.Normal.Y < 0 {
			v.Y = min.Y
		}
		if p.Normal.Z < 0 {
			v.Z = min.Z
		}
		if p.Distance(v) < 0 {
			return false, nil
		}
	}
	return true, nil
}

// IntersectsSphere reports whether the sphere touches the frustum.
func (f *ViewFrustum) IntersectsSphere(center math.Vec3, radius float32) (bool, error) {
	if !(radius >= 0) || !center.IsFinite() {
		return false, fmt.Errorf("center %v radius %g: %w", center, radius, ErrInvalidSphere)
	}

	for i := range f.planes {
		if f.planes[i].Distance(center) < -radius {
			return false, nil
		}
	}
	return true, nil
}
