// Package picking turns screen positions into world rays using the
// camera's inverse view-projection.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-view/pkg/math"
)

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Unproject maps a normalized device coordinate back to world space.
// ok is false when w is zero.
func Unproject(ndc math.Vec3, invViewProj math.Mat4) (p math.Vec3, ok bool) {
	v := invViewProj.MulVec4(math.Vec4{ndc.X, ndc.Y, ndc.Z, 1})
	if v[3] == 0 {
		return math.Vec3{}, false
	}
	return math.Vec3{X: v[0] / v[3], Y: v[1] / v[3], Z: v[2] / v[3]}, true
}

// ScreenToRay converts pixel coordinates (origin top-left) into a ray from
// the near plane towards the far plane.
func ScreenToRay(x, y float32, width, height int, invViewProj math.Mat4) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	near, ok1 := Unproject(math.Vec3{X: ndcX, Y: ndcY, Z: -1}, invViewProj)
	far, ok2 := Unproject(math.Vec3{X: ndcX, Y: ndcY, Z: 1}, invViewProj)
	if !ok1 || !ok2 {
		return Ray{}, false
	}

	dir := far.Sub(near).Normalize()
	if dir.Length() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Direction: dir}, true
}

// IntersectPlaneY returns where the ray crosses the horizontal plane y = h.
func (r Ray) IntersectPlaneY(h float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-4 {
		return math.Vec3{}, false
	}
	t := (h - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectBox runs the slab test against an axis-aligned box. It returns
// the entry distance, or the exit distance when the origin is inside.
func (r Ray) IntersectBox(min, max math.Vec3) (float32, bool) {
	o := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{min.X, min.Y, min.Z}
	hi := [3]float32{max.X, max.Y, max.Z}

	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
