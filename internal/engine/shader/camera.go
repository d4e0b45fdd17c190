package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-view/internal/engine/camera"
	"github.com/Faultbox/midgard-view/internal/engine/matrix"
	"github.com/Faultbox/midgard-view/pkg/math"
)

// Uniform names looked up by BindCamera.
const (
	UniformProjection     = "u_projection"
	UniformView           = "u_view"
	UniformViewProjection = "u_viewProjection"
	UniformModel          = "u_model"
	UniformNormalMatrix   = "u_normalMatrix"
)

// CameraUniforms holds the camera-related uniform locations of one program
// and skips uploads when the camera has not recomputed.
type CameraUniforms struct {
	program uint32

	projection     int32
	view           int32
	viewProjection int32
	model          int32
	normalMatrix   int32

	uploaded bool
	revision uint64
	kind     camera.ViewKind
}

// BindCamera resolves the camera uniforms of program. Missing uniforms are
// left at -1 and silently skipped on upload.
func BindCamera(program uint32) *CameraUniforms {
	return &CameraUniforms{
		program:        program,
		projection:     Uniform(program, UniformProjection),
		view:           Uniform(program, UniformView),
		viewProjection: Uniform(program, UniformViewProjection),
		model:          Uniform(program, UniformModel),
		normalMatrix:   Uniform(program, UniformNormalMatrix),
	}
}

// stale reports whether the matrices for (revision, kind) differ from the
// last upload.
func (u *CameraUniforms) stale(revision uint64, kind camera.ViewKind) bool {
	return !u.uploaded || u.revision != revision || u.kind != kind
}

// Upload sets projection, view and view-projection for the chosen view
// variant. The program must be current.
func (u *CameraUniforms) Upload(m camera.Matrices, kind camera.ViewKind) {
	if !u.stale(m.Revision, kind) {
		return
	}

	view := m.View(kind)
	setMat4(u.projection, m.Projection)
	setMat4(u.view, view)
	setMat4(u.viewProjection, matrix.ViewProjection(view, m.Projection))

	u.uploaded = true
	u.revision = m.Revision
	u.kind = kind
}

// UploadModel sets the model matrix and its normal matrix.
func (u *CameraUniforms) UploadModel(model math.Mat4, normal math.Mat3) {
	setMat4(u.model, model)
	if u.normalMatrix >= 0 {
		flat := matrix.ToGPULayout3(normal)
		gl.UniformMatrix3fv(u.normalMatrix, 1, false, &flat[0])
	}
}

// Invalidate forces the next Upload to write, e.g. after relinking.
func (u *CameraUniforms) Invalidate() {
	u.uploaded = false
}

func setMat4(loc int32, m math.Mat4) {
	if loc < 0 {
		return
	}
	flat := matrix.ToGPULayout(m)
	gl.UniformMatrix4fv(loc, 1, false, &flat[0])
}
