// Package matrix builds the projection, view and normal matrices consumed by
// the renderer. Every function is pure and safe for concurrent use.
package matrix

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-view/pkg/math"
)

var (
	// ErrInvalidProjectionParameters is returned for non-positive clip
	// distances or aspect ratio, near >= far, or a field of view outside (0, pi).
	ErrInvalidProjectionParameters = errors.New("invalid projection parameters")

	// ErrSingularMatrix is returned when a matrix cannot be inverted. The
	// accompanying result is always the identity.
	ErrSingularMatrix = errors.New("singular matrix")
)

// OrthographicProjection maps the box [left,right]x[bottom,top]x[-near,-far]
// to normalized device coordinates.
func OrthographicProjection(left, right, top, bottom, near, far float32) (math.Mat4, error) {
	if !(left < right || left > right) || !(top < bottom || top > bottom) || !(near < far) {
		return math.Identity(), fmt.Errorf("orthographic l=%g r=%g t=%g b=%g n=%g f=%g: %w",
			left, right, top, bottom, near, far, ErrInvalidProjectionParameters)
	}
	return math.Ortho(left, right, bottom, top, near, far), nil
}

// PerspectiveProjection returns a perspective projection. verticalFOV is in radians.
func PerspectiveProjection(verticalFOV, aspectRatio, near, far float32) (math.Mat4, error) {
	if err := validatePerspective(verticalFOV, aspectRatio, near, far); err != nil {
		return math.Identity(), err
	}
	return math.Perspective(verticalFOV, aspectRatio, near, far), nil
}

func validatePerspective(fov, aspect, near, far float32) error {
	switch {
	case !(near > 0) || !(far > near):
		return fmt.Errorf("clip range near=%g far=%g: %w", near, far, ErrInvalidProjectionParameters)
	case !(aspect > 0) || gomath.IsInf(float64(aspect), 0):
		return fmt.Errorf("aspect ratio %g: %w", aspect, ErrInvalidProjectionParameters)
	case !(fov > 0) || !(fov < gomath.Pi):
		return fmt.Errorf("vertical fov %g rad: %w", fov, ErrInvalidProjectionParameters)
	}
	return nil
}

// AspectCorrectedFOV converts a field of view in degrees into the vertical
// field of view in radians for the given aspect ratio, keeping the apparent
// horizontal extent stable across display shapes.
func AspectCorrectedFOV(fovDegrees, aspectRatio float32) float32 {
	half := 0.5 * float64(fovDegrees) * gomath.Pi / 180
	return float32(2 * gomath.Atan2(gomath.Tan(half), float64(aspectRatio)))
}

// LookAt returns the view matrix for an eye looking at target. A degenerate
// basis (eye == target, or up parallel to the view direction) yields a
// finite but singular matrix.
func LookAt(eye, target, up math.Vec3) math.Mat4 {
	return math.LookAt(eye, target, up)
}

// ViewProjection returns projection * view: view is applied first.
func ViewProjection(view, projection math.Mat4) math.Mat4 {
	return projection.Mul(view)
}

// Reflection mirrors world space across the horizontal plane y = height.
// Without translation it only negates Y, mirroring across y = 0.
func Reflection(height float32, translate bool) math.Mat4 {
	m := math.Scale(1, -1, 1)
	if translate {
		m[13] = 2 * height
	}
	return m
}

// Inverse returns the inverse of m. A singular input yields the identity
// together with ErrSingularMatrix.
func Inverse(m math.Mat4) (math.Mat4, error) {
	inv, ok := m.Invert()
	if !ok {
		return math.Identity(), ErrSingularMatrix
	}
	return inv, nil
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 block of
// modelView. A singular block yields the identity together with ErrSingularMatrix.
func NormalMatrix(modelView math.Mat4) (math.Mat3, error) {
	m := mgl32.Mat3(modelView.Mat3x3())
	det := m.Det()
	if det == 0 || gomath.IsNaN(float64(det)) || gomath.IsInf(float64(det), 0) {
		return math.Identity3(), ErrSingularMatrix
	}
	return math.Mat3(m.Inv()).Transpose(), nil
}

// ToGPULayout copies m into the flat column-major layout expected by
// glUniformMatrix4fv with transpose=false.
func ToGPULayout(m math.Mat4) []float32 {
	out := make([]float32, len(m))
	copy(out, m[:])
	return out
}

// ToGPULayout3 is ToGPULayout for 3x3 matrices.
func ToGPULayout3(m math.Mat3) []float32 {
	out := make([]float32, len(m))
	copy(out, m[:])
	return out
}
