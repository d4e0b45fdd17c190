package matrix

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-view/pkg/math"
)

const epsilon = 1e-4

// fromRows builds a column-major matrix from a row-major literal.
func fromRows(r ...float32) math.Mat4 {
	var m math.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col*4+row] = r[row*4+col]
		}
	}
	return m
}

func assertMat4Near(t *testing.T, want, got math.Mat4, tol float32) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], float64(tol), "element row=%d col=%d", i%4, i/4)
	}
}

func radians(deg float64) float32 {
	return float32(deg * gomath.Pi / 180)
}

func TestPerspectiveProjectionReference(t *testing.T) {
	expected := fromRows(
		0.9743, 0, 0, 0,
		0, 1.732, 0, 0,
		0, 0, -1, -0.2,
		0, 0, -1, 0,
	)

	actual, err := PerspectiveProjection(radians(60), 16.0/9.0, 0.1, 5000)
	require.NoError(t, err)
	assertMat4Near(t, expected, actual, epsilon)
}

func TestPerspectiveProjectionMatchesMathgl(t *testing.T) {
	fov, aspect, near, far := radians(75), float32(4.0/3.0), float32(0.5), float32(250)

	actual, err := PerspectiveProjection(fov, aspect, near, far)
	require.NoError(t, err)
	assertMat4Near(t, math.Mat4(mgl32.Perspective(fov, aspect, near, far)), actual, 1e-5)
}

func TestPerspectiveProjectionInvalid(t *testing.T) {
	tests := []struct {
		name                   string
		fov, aspect, near, far float32
	}{
		{"zero near", radians(60), 1, 0, 10},
		{"negative near", radians(60), 1, -1, 10},
		{"near equals far", radians(60), 1, 5, 5},
		{"near beyond far", radians(60), 1, 10, 5},
		{"zero aspect", radians(60), 0, 0.1, 10},
		{"NaN aspect", radians(60), float32(gomath.NaN()), 0.1, 10},
		{"zero fov", 0, 1, 0.1, 10},
		{"fov of pi", float32(gomath.Pi), 1, 0.1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := PerspectiveProjection(tt.fov, tt.aspect, tt.near, tt.far)
			assert.ErrorIs(t, err, ErrInvalidProjectionParameters)
			assert.Equal(t, math.Identity(), m)
		})
	}
}

func TestPerspectiveInverseRoundTrip(t *testing.T) {
	params := []struct{ fov, aspect, near, far float32 }{
		{radians(60), 16.0 / 9.0, 0.1, 100},
		{radians(90), 1, 1, 10},
		{radians(30), 0.5, 0.25, 50},
		{radians(120), 21.0 / 9.0, 2, 20},
	}

	for _, p := range params {
		proj, err := PerspectiveProjection(p.fov, p.aspect, p.near, p.far)
		require.NoError(t, err)

		inv, err := Inverse(proj)
		require.NoError(t, err)
		assertMat4Near(t, math.Identity(), inv.Mul(proj), 1e-4)
	}
}

func TestAspectCorrectedFOV(t *testing.T) {
	// A square display keeps the configured value.
	assert.InDelta(t, float64(radians(60)), float64(AspectCorrectedFOV(60, 1)), 1e-6)

	// Wider displays get a narrower vertical fov.
	wide := AspectCorrectedFOV(60, 16.0/9.0)
	assert.Less(t, wide, radians(60))

	want := 2 * gomath.Atan2(gomath.Tan(gomath.Pi/6), 16.0/9.0)
	assert.InDelta(t, want, float64(wide), 1e-6)
}

func TestLookAtReference(t *testing.T) {
	expected := fromRows(
		1, 0, 0, 0,
		0, 0.7071, -0.7071, 0,
		0, 0.7071, 0.7071, -14.1421,
		0, 0, 0, 1,
	)

	actual := LookAt(math.Vec3{X: 0, Y: 10, Z: 10}, math.Vec3{}, math.Up)
	assertMat4Near(t, expected, actual, epsilon)

	oracle := mgl32.LookAtV(mgl32.Vec3{0, 10, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertMat4Near(t, math.Mat4(oracle), actual, 1e-5)
}

func TestOrthographicProjectionReference(t *testing.T) {
	expected := fromRows(
		0.002, 0, 0, 0,
		0, 0.002, 0, 0,
		0, 0, -0.001, 0,
		0, 0, 0, 1,
	)

	actual, err := OrthographicProjection(-500, 500, 500, -500, -1000, 1000)
	require.NoError(t, err)
	assertMat4Near(t, expected, actual, epsilon)

	asym, err := OrthographicProjection(0, 800, 600, 0, 0.1, 10)
	require.NoError(t, err)
	assertMat4Near(t, math.Mat4(mgl32.Ortho(0, 800, 0, 600, 0.1, 10)), asym, 1e-5)
}

func TestOrthographicProjectionInvalid(t *testing.T) {
	_, err := OrthographicProjection(1, 1, 1, -1, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidProjectionParameters)

	_, err = OrthographicProjection(-1, 1, 1, -1, 5, 5)
	assert.ErrorIs(t, err, ErrInvalidProjectionParameters)

	nan := float32(gomath.NaN())
	nanCases := map[string][6]float32{
		"left":   {nan, 1, 1, -1, 0, 1},
		"right":  {-1, nan, 1, -1, 0, 1},
		"top":    {-1, 1, nan, -1, 0, 1},
		"bottom": {-1, 1, 1, nan, 0, 1},
		"near":   {-1, 1, 1, -1, nan, 1},
		"far":    {-1, 1, 1, -1, 0, nan},
	}
	for name, p := range nanCases {
		t.Run("nan "+name, func(t *testing.T) {
			m, err := OrthographicProjection(p[0], p[1], p[2], p[3], p[4], p[5])
			assert.ErrorIs(t, err, ErrInvalidProjectionParameters)
			assert.Equal(t, math.Identity(), m)
		})
	}
}

func TestViewProjectionComposition(t *testing.T) {
	view := LookAt(math.Vec3{X: 3, Y: 7, Z: -4}, math.Vec3{X: 1, Y: 0, Z: 2}, math.Up)
	proj, err := PerspectiveProjection(radians(70), 1.5, 0.1, 200)
	require.NoError(t, err)

	vp := ViewProjection(view, proj)

	points := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 2, Z: 3}, {X: -5, Y: 1, Z: 8}}
	for _, p := range points {
		v := math.Vec4{p.X, p.Y, p.Z, 1}
		twoStep := proj.MulVec4(view.MulVec4(v))
		oneStep := vp.MulVec4(v)
		for i := range twoStep {
			assert.InDelta(t, twoStep[i], oneStep[i], 1e-3)
		}
	}
}

func TestReflection(t *testing.T) {
	r := Reflection(5, true)
	assert.Equal(t, math.Vec3{X: 1, Y: 9, Z: 3}, r.TransformPoint(math.Vec3{X: 1, Y: 1, Z: 3}))

	// Points on the mirror plane stay put.
	assert.Equal(t, math.Vec3{X: 2, Y: 5, Z: 2}, r.TransformPoint(math.Vec3{X: 2, Y: 5, Z: 2}))

	flat := Reflection(5, false)
	assert.Equal(t, math.Vec3{X: 1, Y: -1, Z: 3}, flat.TransformPoint(math.Vec3{X: 1, Y: 1, Z: 3}))
}

func TestInverseSingular(t *testing.T) {
	inv, err := Inverse(math.Mat4{})
	assert.ErrorIs(t, err, ErrSingularMatrix)
	assert.Equal(t, math.Identity(), inv)
}

func TestNormalMatrixReference(t *testing.T) {
	// Columns of the expected 3x3 normal matrix.
	expected := math.Mat3{
		0, 0.3536, -0.3536,
		0, 0.3536, 0.3536,
		0.5, 0, 0,
	}

	model := math.TranslationRotateScale(math.Vec3{X: 1, Y: 2, Z: 3}, math.RotateY(radians(90)), 2)
	view := LookAt(math.Vec3{X: 0, Y: 10, Z: 10}, math.Vec3{}, math.Up)

	actual, err := NormalMatrix(view.Mul(model))
	require.NoError(t, err)
	for i := range expected {
		assert.InDeltaf(t, expected[i], actual[i], epsilon, "element %d", i)
	}
}

func TestNormalMatrixSingular(t *testing.T) {
	m, err := NormalMatrix(math.Scale(1, 1, 0))
	assert.ErrorIs(t, err, ErrSingularMatrix)
	assert.Equal(t, math.Identity3(), m)
}

func TestToGPULayout(t *testing.T) {
	m := fromRows(
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	)

	flat := ToGPULayout(m)
	require.Len(t, flat, 16)
	// Column-major: the first four values are the first column.
	assert.Equal(t, []float32{1, 5, 9, 13}, flat[:4])
	assert.Equal(t, []float32{4, 8, 12, 16}, flat[12:])

	flat[0] = 99
	assert.Equal(t, float32(1), m[0], "output must not alias the input")

	m3 := math.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, ToGPULayout3(m3))
}
