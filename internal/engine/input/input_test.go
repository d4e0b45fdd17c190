package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-view/internal/engine/camera"
)

func TestAxis(t *testing.T) {
	in := New(camera.NewResizeSignal())

	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 0 {
		t.Errorf("no keys held: got %v, want 0", got)
	}

	in.held[sdl.SCANCODE_W] = true
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 1 {
		t.Errorf("forward held: got %v, want 1", got)
	}

	in.held[sdl.SCANCODE_S] = true
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 0 {
		t.Errorf("both held: got %v, want 0", got)
	}

	delete(in.held, sdl.SCANCODE_W)
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != -1 {
		t.Errorf("backward held: got %v, want -1", got)
	}
	if !in.Held(sdl.SCANCODE_S) || in.Held(sdl.SCANCODE_W) {
		t.Error("Held disagrees with key state")
	}
}
