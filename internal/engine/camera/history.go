package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-view/pkg/math"
)

// sample is one frame of observer input. Positions and directions share a
// slot so both histories always have the same length.
type sample struct {
	position  math.Vec3
	direction math.Vec3
}

// History is a fixed-capacity ring of recent observer samples used for
// temporal smoothing.
type History struct {
	data       []sample
	head       int // index of the most recent sample
	size       int
	multiplier float32
}

// NewHistory creates a History holding at most window samples. multiplier is
// the decay applied per step of age.
func NewHistory(window int, multiplier float32) *History {
	if window < 1 {
		window = 1
	}
	return &History{
		data:       make([]sample, window),
		head:       -1,
		multiplier: multiplier,
	}
}

// Window returns the capacity.
func (h *History) Window() int {
	return len(h.data)
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.size
}

// SetMultiplier changes the per-step decay.
func (h *History) SetMultiplier(m float32) {
	h.multiplier = m
}

// SetWindow resizes the ring, keeping the most recent samples.
func (h *History) SetWindow(window int) {
	if window < 1 {
		window = 1
	}
	if window == len(h.data) {
		return
	}

	keep := h.size
	if keep > window {
		keep = window
	}
	data := make([]sample, window)
	// Oldest kept sample first so the newest ends at keep-1.
	for i := 0; i < keep; i++ {
		data[keep-1-i] = h.at(i)
	}
	h.data = data
	h.size = keep
	h.head = keep - 1
}

// Push records a new sample, evicting the oldest once the ring is full.
func (h *History) Push(position, direction math.Vec3) {
	h.head = (h.head + 1) % len(h.data)
	h.data[h.head] = sample{position: position, direction: direction}
	if h.size < len(h.data) {
		h.size++
	}
}

// Reset drops all samples.
func (h *History) Reset() {
	h.head = -1
	h.size = 0
}

// at returns the i-th most recent sample.
func (h *History) at(i int) sample {
	n := len(h.data)
	return h.data[((h.head-i)%n+n)%n]
}

// Smoothed returns the exponentially weighted average of the held positions
// and directions. The i-th most recent sample has weight multiplier^i and the
// result is divided by the weight sum, so a partly filled ring is fine.
// ok is false when the ring is empty.
func (h *History) Smoothed() (position, direction math.Vec3, ok bool) {
	if h.size == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}

	var px, py, pz, dx, dy, dz, total float64
	for i := 0; i < h.size; i++ {
		w := gomath.Pow(float64(h.multiplier), float64(i))
		s := h.at(i)
		px += float64(s.position.X) * w
		py += float64(s.position.Y) * w
		pz += float64(s.position.Z) * w
		dx += float64(s.direction.X) * w
		dy += float64(s.direction.Y) * w
		dz += float64(s.direction.Z) * w
		total += w
	}

	position = math.Vec3{X: float32(px / total), Y: float32(py / total), Z: float32(pz / total)}
	direction = math.Vec3{X: float32(dx / total), Y: float32(dy / total), Z: float32(dz / total)}
	return position, direction, true
}
