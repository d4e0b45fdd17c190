package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-view/pkg/math"
)

func pushX(h *History, xs ...float32) {
	for _, x := range xs {
		h.Push(math.Vec3{X: x}, math.Vec3{Z: -x})
	}
}

func smoothedX(t *testing.T, h *History) float32 {
	t.Helper()
	p, d, ok := h.Smoothed()
	require.True(t, ok)
	assert.Equal(t, -p.X, d.Z, "positions and directions must be weighted alike")
	return p.X
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(5, 0.9)
	_, _, ok := h.Smoothed()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestHistoryWindowOfOneReturnsLatest(t *testing.T) {
	h := NewHistory(1, 0.37)
	pushX(h, 4, 9, 1.234567)

	p, d, ok := h.Smoothed()
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 1.234567}, p)
	assert.Equal(t, math.Vec3{Z: -1.234567}, d)
}

func TestHistoryWeights(t *testing.T) {
	tests := []struct {
		name       string
		window     int
		multiplier float32
		samples    []float32
		want       float32
		delta      float64
	}{
		{"partial fill", 10, 0.5, []float32{0, 10}, 20.0 / 3.0, 1e-5},
		{"multiplier near zero keeps latest", 10, 1e-9, []float32{100, -50, 7}, 7, 1e-5},
		{"multiplier one is plain average", 4, 1, []float32{1, 2, 3, 6}, 3, 1e-6},
		{"evicts beyond window", 3, 1, []float32{100, 100, 1, 2, 3}, 2, 1e-6},
		{"default decay", 3, 0.9, []float32{1, 2, 3}, (3 + 2*0.9 + 1*0.81) / 2.71, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.window, tt.multiplier)
			pushX(h, tt.samples...)
			assert.InDelta(t, tt.want, smoothedX(t, h), tt.delta)
			assert.LessOrEqual(t, h.Len(), tt.window)
		})
	}
}

func TestHistorySetWindow(t *testing.T) {
	h := NewHistory(4, 1)
	pushX(h, 1, 2, 3, 4)

	h.SetWindow(2)
	assert.Equal(t, 2, h.Len())
	assert.InDelta(t, 3.5, smoothedX(t, h), 1e-6)

	pushX(h, 5)
	assert.InDelta(t, 4.5, smoothedX(t, h), 1e-6)

	h.SetWindow(5)
	assert.Equal(t, 2, h.Len())
	pushX(h, 6)
	assert.InDelta(t, 5, smoothedX(t, h), 1e-6)
	assert.Equal(t, 5, h.Window())
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(3, 0.9)
	pushX(h, 1, 2)
	h.Reset()

	_, _, ok := h.Smoothed()
	assert.False(t, ok)

	pushX(h, 8)
	assert.Equal(t, float32(8), smoothedX(t, h))
}
