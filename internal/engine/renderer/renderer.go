// Package renderer draws the marker field with the camera's matrices.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-view/internal/engine/camera"
	"github.com/Faultbox/midgard-view/internal/engine/shader"
	"github.com/Faultbox/midgard-view/internal/scene"
)

const markerVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 u_viewProjection;
uniform mat4 u_model;
uniform mat3 u_normalMatrix;

out vec3 vNormal;

void main() {
	vNormal = u_normalMatrix * aNormal;
	gl_Position = u_viewProjection * u_model * vec4(aPos, 1.0);
}
`

const markerFragmentShader = `
#version 410 core

in vec3 vNormal;
uniform vec3 u_tint;
out vec4 FragColor;

void main() {
	float light = 0.35 + 0.65 * max(dot(normalize(vNormal), vec3(0.0, 0.0, 1.0)), 0.0);
	FragColor = vec4(u_tint * light, 1.0);
}
`

// Renderer owns the GL state for the marker pass.
type Renderer struct {
	log *zap.Logger

	program  uint32
	uniforms *shader.CameraUniforms
	tint     int32

	cubeVAO   uint32
	cubeVBO   uint32
	cubeCount int32
}

// New initializes OpenGL and uploads the cube mesh. The GL context must
// already be current.
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = shader.CompileProgram(markerVertexShader, markerFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("marker program: %w", err)
	}
	r.uniforms = shader.BindCamera(r.program)
	r.tint = shader.Uniform(r.program, "u_tint")

	r.createCube()
	return r, nil
}

// Close releases GL objects.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
	}
	if r.cubeVBO != 0 {
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMarkers draws the markers at the given indices using the camera's
// view of the requested kind. Mirrored views flip triangle winding, so the
// front face is swapped for reflected passes.
func (r *Renderer) DrawMarkers(cam *camera.Camera, field *scene.Field, visible []int, kind camera.ViewKind, tint [3]float32) {
	gl.UseProgram(r.program)
	r.uniforms.Upload(cam.Matrices(), kind)
	gl.Uniform3f(r.tint, tint[0], tint[1], tint[2])

	if kind == camera.Reflected || kind == camera.NormalizedReflected {
		gl.FrontFace(gl.CW)
		defer gl.FrontFace(gl.CCW)
	}

	gl.BindVertexArray(r.cubeVAO)
	for _, i := range visible {
		model := field.Markers[i].Model()
		r.uniforms.UploadModel(model, cam.NormalMatrixFor(kind, model))
		gl.DrawArrays(gl.TRIANGLES, 0, r.cubeCount)
	}
	gl.BindVertexArray(0)
}

// createCube uploads a unit cube spanning [-1, 1]^3 with per-face normals,
// counter-clockwise when seen from outside.
func (r *Renderer) createCube() {
	type face struct{ n, u, v [3]float32 }
	faces := []face{
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
	}

	corners := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}
	vertices := make([]float32, 0, len(faces)*len(corners)*6)
	for _, f := range faces {
		for _, c := range corners {
			for k := 0; k < 3; k++ {
				vertices = append(vertices, f.n[k]+c[0]*f.u[k]+c[1]*f.v[k])
			}
			vertices = append(vertices, f.n[0], f.n[1], f.n[2])
		}
	}
	r.cubeCount = int32(len(vertices) / 6)

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("cube mesh created", zap.Uint32("vao", r.cubeVAO), zap.Int32("vertices", r.cubeCount))
}
