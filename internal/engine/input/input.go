// Package input pumps SDL2 events into held-key state and forwards
// resolution changes to the camera.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-view/internal/engine/camera"
)

// Click is a mouse button press in window pixel coordinates.
type Click struct {
	X, Y   int
	Button uint8
}

// Input tracks keyboard and mouse state between frames.
type Input struct {
	resize camera.ResizeSignal
	held   map[sdl.Scancode]bool
	clicks []Click

	mouseDX, mouseDY int
	looking          bool
}

// New creates an input handler that notifies resize on every drawable size
// change.
func New(resize camera.ResizeSignal) *Input {
	return &Input{
		resize: resize,
		held:   make(map[sdl.Scancode]bool),
		clicks: make([]Click, 0, 4),
	}
}

// Update drains the SDL event queue. It returns true when the viewer
// should quit.
func (i *Input) Update() bool {
	i.clicks = i.clicks[:0]
	i.mouseDX, i.mouseDY = 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.WindowEvent:
			// SIZE_CHANGED fires for both user resizes and SetWindowSize.
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.resize.Notify()
			}

		case *sdl.KeyboardEvent:
			switch e.Type {
			case sdl.KEYDOWN:
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					return true
				}
				i.held[e.Keysym.Scancode] = true
			case sdl.KEYUP:
				delete(i.held, e.Keysym.Scancode)
			}

		case *sdl.MouseMotionEvent:
			if i.looking {
				i.mouseDX += int(e.XRel)
				i.mouseDY += int(e.YRel)
			}

		case *sdl.MouseButtonEvent:
			switch {
			case e.Button == sdl.BUTTON_RIGHT:
				i.looking = e.Type == sdl.MOUSEBUTTONDOWN
			case e.Type == sdl.MOUSEBUTTONDOWN:
				i.clicks = append(i.clicks, Click{X: int(e.X), Y: int(e.Y), Button: e.Button})
			}
		}
	}

	return false
}

// Held reports whether a key is currently down.
func (i *Input) Held(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Axis returns +1, -1 or 0 depending on which of the two keys is held.
func (i *Input) Axis(positive, negative sdl.Scancode) float32 {
	var v float32
	if i.held[positive] {
		v++
	}
	if i.held[negative] {
		v--
	}
	return v
}

// MouseLook returns the relative mouse motion accumulated this frame while
// the right button was held.
func (i *Input) MouseLook() (dx, dy int) {
	return i.mouseDX, i.mouseDY
}

// Clicks returns the button presses from the last Update.
func (i *Input) Clicks() []Click {
	return i.clicks
}
