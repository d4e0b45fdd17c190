package camera

import (
	"fmt"

	"github.com/Faultbox/midgard-view/internal/engine/matrix"
	"github.com/Faultbox/midgard-view/pkg/math"
)

// ViewKind selects one of the view matrix variants.
type ViewKind int

const (
	// Standard includes the vertical bobbing offset.
	Standard ViewKind = iota
	// Reflected is Standard mirrored across the reflection plane.
	Reflected
	// Normalized ignores bobbing, for effects that must not jitter.
	Normalized
	// NormalizedReflected is Normalized mirrored across y = 0.
	NormalizedReflected

	viewKinds
)

func (k ViewKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Reflected:
		return "reflected"
	case Normalized:
		return "normalized"
	case NormalizedReflected:
		return "normalized-reflected"
	}
	return fmt.Sprintf("ViewKind(%d)", int(k))
}

func (k ViewKind) bobbing() bool {
	return k == Standard || k == Reflected
}

func (k ViewKind) reflected() bool {
	return k == Reflected || k == NormalizedReflected
}

// Matrices is an immutable snapshot of every matrix derived from one
// Fingerprint. Revision increases by one for every recomputation.
type Matrices struct {
	Projection            math.Mat4
	InverseProjection     math.Mat4
	ViewProjection        math.Mat4
	InverseViewProjection math.Mat4
	Reflection            math.Mat4
	Revision              uint64

	views [viewKinds]math.Mat4
}

// View returns the requested view matrix variant.
func (m Matrices) View(kind ViewKind) math.Mat4 {
	if kind < 0 || kind >= viewKinds {
		return math.Identity()
	}
	return m.views[kind]
}

// ViewMatrix returns the bobbing-adjusted view matrix.
func (m Matrices) ViewMatrix() math.Mat4 { return m.views[Standard] }

// NormViewMatrix returns the view matrix without bobbing.
func (m Matrices) NormViewMatrix() math.Mat4 { return m.views[Normalized] }

// ViewMatrixReflected returns the mirrored bobbing-adjusted view matrix.
func (m Matrices) ViewMatrixReflected() math.Mat4 { return m.views[Reflected] }

// NormViewMatrixReflected returns the mirrored view matrix without bobbing.
func (m Matrices) NormViewMatrixReflected() math.Mat4 { return m.views[NormalizedReflected] }

// viewFor builds one view variant. Bobbing variants lift eye and target by
// twice the vertical bobbing factor and mirror across y = reflection height;
// the others mirror across y = 0.
func viewFor(kind ViewKind, fp Fingerprint, up math.Vec3) math.Mat4 {
	var offset math.Vec3
	if kind.bobbing() {
		offset.Y = fp.BobbingVertical * 2
	}
	eye := fp.Position.Add(offset)
	target := fp.Position.Add(fp.Direction).Add(offset)

	view := matrix.LookAt(eye, target, up)
	if kind.reflected() {
		view = view.Mul(matrix.Reflection(fp.ReflectionHeight, kind.bobbing()))
	}
	return view
}

// derivation is the outcome of derive: the new snapshot plus the names of
// inverses that had to fall back to identity.
type derivation struct {
	matrices Matrices
	up       math.Vec3
	singular []string
}

// derive computes a full Matrices set from fp. It is pure: the same inputs
// always produce bit-identical output.
func derive(fp Fingerprint, aspect float32) (derivation, error) {
	if !(fp.FOV > 0 && fp.FOV < 180) {
		return derivation{}, fmt.Errorf("fov %g degrees: %w", fp.FOV, matrix.ErrInvalidProjectionParameters)
	}

	verticalFOV := matrix.AspectCorrectedFOV(fp.FOV, aspect)
	projection, err := matrix.PerspectiveProjection(verticalFOV, aspect, fp.Near, fp.Far)
	if err != nil {
		return derivation{}, err
	}

	d := derivation{up: fp.up()}
	m := &d.matrices
	m.Projection = projection
	for k := ViewKind(0); k < viewKinds; k++ {
		m.views[k] = viewFor(k, fp, d.up)
	}
	m.Reflection = matrix.Reflection(fp.ReflectionHeight, true)
	m.ViewProjection = matrix.ViewProjection(m.views[Standard], projection)

	if m.InverseProjection, err = matrix.Inverse(projection); err != nil {
		d.singular = append(d.singular, "projection")
	}
	if m.InverseViewProjection, err = matrix.Inverse(m.ViewProjection); err != nil {
		d.singular = append(d.singular, "view-projection")
	}
	return d, nil
}
