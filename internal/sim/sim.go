// Package sim drives the camera along a scripted path without a window and
// reports how the matrix cache and frustum culling behaved.
package sim

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-view/internal/config"
	"github.com/Faultbox/midgard-view/internal/engine/camera"
	"github.com/Faultbox/midgard-view/internal/engine/culling"
	"github.com/Faultbox/midgard-view/internal/engine/picking"
	"github.com/Faultbox/midgard-view/internal/scene"
)

// Display is a camera.Display whose size can be changed between frames.
type Display struct {
	mu            sync.Mutex
	width, height int
}

// NewDisplay returns a display of the given size.
func NewDisplay(width, height int) *Display {
	return &Display{width: width, height: height}
}

// Size implements camera.Display.
func (d *Display) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Resize changes the reported size.
func (d *Display) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
}

// CullStats summarizes visible marker counts for one cull mode.
type CullStats struct {
	Min      int     `yaml:"min"`
	Max      int     `yaml:"max"`
	Mean     float64 `yaml:"mean"`
	Rejected int     `yaml:"rejected"`

	sum int
}

func (s *CullStats) add(visible, rejected int, first bool) {
	if first || visible < s.Min {
		s.Min = visible
	}
	if first || visible > s.Max {
		s.Max = visible
	}
	s.sum += visible
	s.Rejected += rejected
}

// Report is the outcome of a run. It is written out as YAML by camsim.
type Report struct {
	Frames            int                   `yaml:"frames"`
	Markers           int                   `yaml:"markers"`
	Resizes           int                   `yaml:"resizes"`
	Revisions         uint64                `yaml:"revisions"`
	UpdateErrors      int                   `yaml:"update_errors"`
	SingularFallbacks uint64                `yaml:"singular_fallbacks"`
	FinalAspect       float64               `yaml:"final_aspect"`
	GroundHits        int                   `yaml:"ground_hits"`
	Culling           map[string]*CullStats `yaml:"culling"`
}

// Run simulates cfg.Simulation.Frames frames of an orbit around the grid.
// When ResizeAtFrame is positive the display switches to a square aspect
// at that frame.
func Run(cfg *config.Config, log *zap.Logger) (*Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sim := cfg.Simulation

	display := NewDisplay(cfg.Display.Width, cfg.Display.Height)
	resize := camera.NewResizeSignal()
	cam, err := camera.New(display, cfg.Camera.Settings(), log.Named("camera"))
	if err != nil {
		return nil, fmt.Errorf("creating camera: %w", err)
	}
	cam.Watch(resize)

	field := scene.Grid(sim.GridSize, sim.GridSpacing)
	extent := float32(sim.GridSize) * sim.GridSpacing
	orbit := scene.Orbit{
		Radius:  extent * 0.75,
		Height:  sim.GridSpacing * 3,
		Period:  float32(sim.Frames) * sim.Delta,
		BobRoll: 0.02,
		BobLift: sim.GridSpacing / 16,
		BobRate: 2,
	}

	modes := []scene.CullMode{scene.CullBox, scene.CullSphere, scene.CullCenter}
	report := &Report{
		Frames:  sim.Frames,
		Markers: len(field.Markers),
		Culling: make(map[string]*CullStats, len(modes)),
	}
	for _, m := range modes {
		report.Culling[m.String()] = &CullStats{}
	}

	var (
		frustum culling.ViewFrustum
		visible []int
		culled  int
	)
	for frame := 0; frame < sim.Frames; frame++ {
		t := float32(frame) * sim.Delta

		if sim.ResizeAtFrame > 0 && frame == sim.ResizeAtFrame {
			w, _ := display.Size()
			display.Resize(w, w)
			resize.Notify()
			report.Resizes++
			log.Info("display resized", zap.Int("frame", frame), zap.Int("size", w))
		}

		pos, dir := orbit.At(t)
		roll, lift := orbit.Bobbing(t)
		cam.SetPosition(pos)
		cam.SetViewingDirection(dir)
		cam.SetBobbing(roll, lift)

		if err := cam.Update(sim.Delta); err != nil {
			report.UpdateErrors++
			log.Warn("camera update failed", zap.Int("frame", frame), zap.Error(err))
			continue
		}

		m := cam.Matrices()
		frustum.UpdateFrustumMatrix(m.ViewProjection)
		for _, mode := range modes {
			var rejected int
			visible, rejected = field.Cull(&frustum, mode, visible)
			report.Culling[mode.String()].add(len(visible), rejected, culled == 0)
		}
		culled++

		w, h := display.Size()
		if ray, ok := picking.ScreenToRay(float32(w)/2, float32(h)/2, w, h, m.InverseViewProjection); ok {
			if _, hit := ray.IntersectPlaneY(0); hit {
				report.GroundHits++
			}
		}
	}

	for _, s := range report.Culling {
		if culled > 0 {
			s.Mean = float64(s.sum) / float64(culled)
		}
	}
	w, h := display.Size()
	report.FinalAspect = float64(w) / float64(h)
	report.Revisions = cam.Matrices().Revision
	report.SingularFallbacks = cam.SingularFallbacks()

	log.Info("simulation finished",
		zap.Int("frames", report.Frames),
		zap.Uint64("revisions", report.Revisions),
		zap.Int("resizes", report.Resizes),
	)
	return report, nil
}
