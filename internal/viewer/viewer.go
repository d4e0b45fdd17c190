// Package viewer runs the interactive loop: fly the camera over the marker
// field, cull it against the view frustum and draw it with a mirrored pass.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-view/internal/config"
	"github.com/Faultbox/midgard-view/internal/engine/camera"
	"github.com/Faultbox/midgard-view/internal/engine/culling"
	"github.com/Faultbox/midgard-view/internal/engine/input"
	"github.com/Faultbox/midgard-view/internal/engine/matrix"
	"github.com/Faultbox/midgard-view/internal/engine/picking"
	"github.com/Faultbox/midgard-view/internal/engine/renderer"
	"github.com/Faultbox/midgard-view/internal/engine/window"
	"github.com/Faultbox/midgard-view/internal/scene"
	"github.com/Faultbox/midgard-view/pkg/math"
)

const (
	lookSensitivity = 0.003 // radians per pixel
	boostFactor     = 4
)

var (
	markerTint    = [3]float32{0.85, 0.75, 0.45}
	reflectedTint = [3]float32{0.25, 0.35, 0.55}
	pickedTint    = [3]float32{1.0, 0.3, 0.3}
)

// Viewer owns the window, camera and scene for one session.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	resize   camera.ResizeSignal

	camera    *camera.Camera
	frustum   culling.ViewFrustum
	reflected culling.ViewFrustum

	field   *scene.Field
	flyer   scene.Flyer
	start   scene.Flyer
	stalled bool
	visible []int
	mirror  []int
	picked  int

	width, height int
}

// New opens the window and builds the scene.
func New(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		log:    log,
		resize: camera.NewResizeSignal(),
		picked: -1,
	}

	var err error
	v.window, err = window.New(cfg.Display, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	v.renderer, err = renderer.New(log.Named("renderer"))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera, err = camera.New(v.window, cfg.Camera.Settings(), log.Named("camera"))
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create camera: %w", err)
	}
	v.camera.Watch(v.resize)
	v.input = input.New(v.resize)

	sim := cfg.Simulation
	v.field = scene.Grid(sim.GridSize, sim.GridSpacing)
	v.flyer = scene.Flyer{
		Position: math.Vec3{Y: sim.GridSpacing * 2, Z: float32(sim.GridSize) * sim.GridSpacing / 2},
		Pitch:    -0.2,
		Speed:    cfg.Camera.MoveSpeed,
	}
	v.start = v.flyer

	v.width, v.height = v.window.Size()
	v.renderer.Resize(v.width, v.height)

	log.Info("viewer initialized", zap.Int("markers", len(v.field.Markers)))
	return v, nil
}

// Run drives the frame loop until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	lastTime := time.Now()
	fpsTimer := lastTime
	frames := 0

	for {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			return nil
		}

		if err := v.update(dt); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		v.render()
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			dir := v.camera.ViewingDirection()
			v.log.Debug("frame stats",
				zap.Int("fps", frames),
				zap.Int("visible", len(v.visible)),
				zap.Int("mirrored", len(v.mirror)),
				zap.Uint64("revision", v.camera.Matrices().Revision),
				zap.Float32s("direction", []float32{dir.X, dir.Y, dir.Z}),
			)
			v.window.SetTitle(fmt.Sprintf("%s - %d fps, %d/%d markers",
				v.cfg.Display.Title, frames, len(v.visible), len(v.field.Markers)))
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

// frameUpdater is the part of the camera the frame loop advances.
type frameUpdater interface {
	Update(deltaTime float32) error
}

// advanceCamera updates cam for one frame. A projection that cannot be
// built, as with the empty drawable of a minimized window, leaves the
// previous matrices in place and reports the frame as stalled; any other
// error is returned. stalled is the state of the previous frame and only
// transitions are logged.
func advanceCamera(cam frameUpdater, dt float32, stalled bool, log *zap.Logger) (bool, error) {
	err := cam.Update(dt)
	switch {
	case err == nil:
		if stalled {
			log.Info("camera matrices rebuilt, resuming")
		}
		return false, nil
	case errors.Is(err, matrix.ErrInvalidProjectionParameters):
		if !stalled {
			log.Warn("camera update failed, keeping previous matrices", zap.Error(err))
		}
		return true, nil
	default:
		return stalled, err
	}
}

func (v *Viewer) update(dt float32) error {
	if v.input.Held(sdl.SCANCODE_R) {
		v.flyer = v.start
		v.camera.ResetSmoothing()
	}

	speed := v.start.Speed
	if v.input.Held(sdl.SCANCODE_LSHIFT) {
		speed *= boostFactor
	}
	v.flyer.Speed = speed

	dx, dy := v.input.MouseLook()
	v.flyer.Look(dx, dy, lookSensitivity)
	v.flyer.Move(
		v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		v.input.Axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LCTRL),
		dt,
	)

	v.camera.SetPosition(v.flyer.Position)
	v.camera.SetViewingDirection(v.flyer.Direction())

	var err error
	v.stalled, err = advanceCamera(v.camera, dt, v.stalled, v.log)
	if err != nil {
		return err
	}

	if w, h := v.window.Size(); w != v.width || h != v.height {
		v.width, v.height = w, h
		if w > 0 && h > 0 {
			v.renderer.Resize(w, h)
		}
	}
	if v.stalled || v.width <= 0 || v.height <= 0 {
		v.visible = v.visible[:0]
		v.mirror = v.mirror[:0]
		return nil
	}

	m := v.camera.Matrices()
	v.frustum.UpdateFrustumMatrix(m.ViewProjection)
	v.reflected.UpdateFrustum(m.ViewMatrixReflected(), m.Projection)

	var rejected int
	v.visible, rejected = v.field.Cull(&v.frustum, scene.CullBox, v.visible)
	v.mirror, _ = v.field.Cull(&v.reflected, scene.CullSphere, v.mirror)
	if rejected > 0 {
		v.log.Warn("markers with invalid bounds", zap.Int("count", rejected))
	}

	for _, c := range v.input.Clicks() {
		if c.Button == sdl.BUTTON_LEFT {
			v.pick(c.X, c.Y, m.InverseViewProjection)
		}
	}
	return nil
}

// pick selects the nearest visible marker under the cursor.
func (v *Viewer) pick(x, y int, invViewProj math.Mat4) {
	w, h := v.window.PointSize()
	ray, ok := picking.ScreenToRay(float32(x), float32(y), w, h, invViewProj)
	if !ok {
		return
	}

	v.picked = -1
	best := float32(0)
	for _, i := range v.visible {
		min, max := v.field.Markers[i].Bounds()
		if d, hit := ray.IntersectBox(min, max); hit && (v.picked < 0 || d < best) {
			v.picked, best = i, d
		}
	}

	if v.picked >= 0 {
		v.log.Info("marker picked",
			zap.Int("index", v.picked),
			zap.Float32("distance", best),
		)
	} else if p, ok := ray.IntersectPlaneY(0); ok {
		v.log.Info("ground picked",
			zap.Float32("x", p.X),
			zap.Float32("z", p.Z),
		)
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()
	if len(v.visible) == 0 && len(v.mirror) == 0 {
		return
	}
	v.renderer.DrawMarkers(v.camera, v.field, v.mirror, camera.Reflected, reflectedTint)
	// Picked marker first so the depth test keeps its tint.
	if v.picked >= 0 {
		v.renderer.DrawMarkers(v.camera, v.field, []int{v.picked}, camera.Standard, pickedTint)
	}
	v.renderer.DrawMarkers(v.camera, v.field, v.visible, camera.Standard, markerTint)
}

// Close releases everything New created.
func (v *Viewer) Close() {
	if v.camera != nil {
		v.log.Info("closing viewer",
			zap.Uint64("singular_fallbacks", v.camera.SingularFallbacks()),
		)
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
