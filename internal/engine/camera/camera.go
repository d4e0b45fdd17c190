// Package camera turns observer state into the per-frame set of projection
// and view matrices used by the renderer.
package camera

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-view/internal/engine/matrix"
	"github.com/Faultbox/midgard-view/pkg/math"
)

// ErrInvalidSmoothing is returned for a smoothing window below one frame or
// a multiplier outside (0, 1].
var ErrInvalidSmoothing = errors.New("invalid smoothing settings")

// Settings holds the tunable camera scalars.
type Settings struct {
	FOV                 float32 // degrees, aspect-corrected
	Near                float32
	Far                 float32
	ReflectionHeight    float32
	SmoothingFrames     int
	SmoothingMultiplier float32
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		FOV:                 90,
		Near:                0.1,
		Far:                 5000,
		ReflectionHeight:    32,
		SmoothingFrames:     10,
		SmoothingMultiplier: 0.9,
	}
}

// Camera is a perspective camera with temporal smoothing, head bobbing and
// cached derived matrices. All methods are safe for concurrent use; a
// Matrices snapshot is always internally consistent.
type Camera struct {
	mu      sync.Mutex
	display Display
	log     *zap.Logger
	resize  ResizeSignal

	// Raw observer input, as last set by the caller.
	position         math.Vec3
	viewingDirection math.Vec3
	fov              float32
	near, far        float32
	reflectionHeight float32
	bobbingRotation  float32
	bobbingVertical  float32

	history           *History
	smoothedPosition  math.Vec3
	smoothedDirection math.Vec3
	up                math.Vec3

	matrices    Matrices
	fingerprint Fingerprint
	valid       bool

	singular atomic.Uint64
}

// New creates a camera at the origin looking down -Z. log may be nil.
func New(display Display, s Settings, log *zap.Logger) (*Camera, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := validateSmoothing(s.SmoothingFrames, s.SmoothingMultiplier); err != nil {
		return nil, err
	}

	c := &Camera{
		display:           display,
		log:               log,
		viewingDirection:  math.Vec3{Z: -1},
		smoothedDirection: math.Vec3{Z: -1},
		up:                math.Up,
		fov:               s.FOV,
		near:              s.Near,
		far:               s.Far,
		reflectionHeight:  s.ReflectionHeight,
		history:           NewHistory(s.SmoothingFrames, s.SmoothingMultiplier),
	}
	c.matrices = identityMatrices()
	return c, nil
}

func identityMatrices() Matrices {
	id := math.Identity()
	m := Matrices{
		Projection:            id,
		InverseProjection:     id,
		ViewProjection:        id,
		InverseViewProjection: id,
		Reflection:            id,
	}
	for k := range m.views {
		m.views[k] = id
	}
	return m
}

func validateSmoothing(frames int, multiplier float32) error {
	if frames < 1 || !(multiplier > 0 && multiplier <= 1) {
		return fmt.Errorf("frames=%d multiplier=%g: %w", frames, multiplier, ErrInvalidSmoothing)
	}
	return nil
}

// Watch makes Update consume notifications from s before smoothing.
func (c *Camera) Watch(s ResizeSignal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resize = s
}

// SetPosition sets the raw observer position.
func (c *Camera) SetPosition(p math.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

// SetViewingDirection sets the raw viewing direction. It is normalized; a
// zero vector is kept and produces singular view matrices.
func (c *Camera) SetViewingDirection(d math.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewingDirection = d.Normalize()
}

// SetFOV sets the aspect-corrected field of view in degrees.
func (c *Camera) SetFOV(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

// SetNearFar sets the clip distances. They are validated when matrices are built.
func (c *Camera) SetNearFar(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near, c.far = near, far
}

// SetReflectionHeight sets the world height of the mirror plane.
func (c *Camera) SetReflectionHeight(h float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reflectionHeight = h
}

// SetBobbing sets the head-bob factors. rotation tilts the up vector
// sideways, vertical lifts the eye by twice its value.
func (c *Camera) SetBobbing(rotation, vertical float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bobbingRotation = rotation
	c.bobbingVertical = vertical
}

// SetSmoothing changes the smoothing window and decay.
func (c *Camera) SetSmoothing(frames int, multiplier float32) error {
	if err := validateSmoothing(frames, multiplier); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history.SetWindow(frames)
	c.history.SetMultiplier(multiplier)
	return nil
}

// Position returns the smoothed position used for the current matrices.
func (c *Camera) Position() math.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.smoothedPosition
}

// ViewingDirection returns the smoothed viewing direction.
func (c *Camera) ViewingDirection() math.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.smoothedDirection
}

// Up returns the bobbing-tilted up vector of the current matrices.
func (c *Camera) Up() math.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

// FOV returns the configured field of view in degrees.
func (c *Camera) FOV() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

// Matrices returns a consistent snapshot of every derived matrix.
func (c *Camera) Matrices() Matrices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrices
}

// Fingerprint returns the inputs the current matrices were derived from.
func (c *Camera) Fingerprint() Fingerprint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fingerprint
}

// Dirty reports whether the next UpdateMatrices call will recompute.
func (c *Camera) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.valid || c.currentFingerprint(c.fov) != c.fingerprint
}

// SingularFallbacks returns how many times a non-invertible matrix was
// replaced by the identity.
func (c *Camera) SingularFallbacks() uint64 {
	return c.singular.Load()
}

// ResetSmoothing drops the smoothing history, so the next Update uses the
// raw observer state as is. Call it after a jump to avoid gliding.
func (c *Camera) ResetSmoothing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history.Reset()
}

// Update advances one frame: it records the raw observer state, smooths it
// over the history window and rebuilds the matrices if anything changed.
// Smoothing is per frame, so deltaTime does not affect the weights.
func (c *Camera) Update(deltaTime float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resize != nil && c.resize.drain() {
		c.log.Debug("resolution change received")
		c.valid = false
	}

	c.history.Push(c.position, c.viewingDirection)
	c.smoothedPosition, c.smoothedDirection, _ = c.history.Smoothed()

	return c.updateMatrices(c.fov)
}

// UpdateMatrices rebuilds the matrices with the configured field of view if
// any tracked input changed since the last rebuild.
func (c *Camera) UpdateMatrices() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateMatrices(c.fov)
}

// UpdateMatricesFOV is UpdateMatrices with a temporary field of view in degrees.
func (c *Camera) UpdateMatricesFOV(fov float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateMatrices(fov)
}

// ResolutionChanged invalidates the cache and rebuilds immediately.
func (c *Camera) ResolutionChanged() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	if err := c.updateMatrices(c.fov); err != nil {
		c.log.Warn("rebuild after resolution change failed", zap.Error(err))
		return err
	}
	return nil
}

// NormalMatrix returns the normal matrix for model under the standard view.
// A singular model-view falls back to the identity.
func (c *Camera) NormalMatrix(model math.Mat4) math.Mat3 {
	return c.NormalMatrixFor(Standard, model)
}

// NormalMatrixFor is NormalMatrix for the given view variant, so that a
// mirrored pass lights its geometry with mirrored normals.
func (c *Camera) NormalMatrixFor(kind ViewKind, model math.Mat4) math.Mat3 {
	c.mu.Lock()
	view := c.matrices.View(kind)
	c.mu.Unlock()

	n, err := matrix.NormalMatrix(view.Mul(model))
	if err != nil {
		c.singular.Add(1)
		c.log.Warn("normal matrix fell back to identity",
			zap.Stringer("view", kind),
			zap.Error(err),
		)
	}
	return n
}

func (c *Camera) currentFingerprint(fov float32) Fingerprint {
	return Fingerprint{
		Position:         c.smoothedPosition,
		Direction:        c.smoothedDirection,
		BobbingRotation:  c.bobbingRotation,
		BobbingVertical:  c.bobbingVertical,
		FOV:              fov,
		Near:             c.near,
		Far:              c.far,
		ReflectionHeight: c.reflectionHeight,
	}
}

// updateMatrices must be called with c.mu held. On error the previous
// matrices and fingerprint stay in place.
func (c *Camera) updateMatrices(fov float32) error {
	fp := c.currentFingerprint(fov)
	if c.valid && fp == c.fingerprint {
		return nil
	}

	width, height := c.display.Size()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("display %dx%d: %w", width, height, matrix.ErrInvalidProjectionParameters)
	}
	aspect := float32(width) / float32(height)

	d, err := derive(fp, aspect)
	if err != nil {
		return err
	}
	for _, name := range d.singular {
		c.singular.Add(1)
		c.log.Warn("inverse fell back to identity",
			zap.String("matrix", name),
			zap.Uint64("revision", c.matrices.Revision+1),
		)
	}

	d.matrices.Revision = c.matrices.Revision + 1
	c.matrices = d.matrices
	c.up = d.up
	c.fingerprint = fp
	c.valid = true

	c.log.Debug("matrices rebuilt",
		zap.Uint64("revision", d.matrices.Revision),
		zap.Float32("aspect", aspect),
		zap.Float32("fov", fov),
	)
	return nil
}
