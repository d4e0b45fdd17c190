package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M, got %v", result)
	}
}

func TestMulOrder(t *testing.T) {
	// Scale first, then translate: (1,1,1) -> (2,2,2) -> (12,2,2)
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 2, 2}
	if got != want {
		t.Errorf("T*S applied to (1,1,1): got %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m.At(0, 3) != 5 || m.At(1, 3) != 10 || m.At(2, 3) != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestRow(t *testing.T) {
	m := Translate(4, 5, 6)
	if got := m.Row(0); got != (Vec4{1, 0, 0, 4}) {
		t.Errorf("Row(0) = %v, want [1 0 0 4]", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := Vec3{3, 4, 5}
	m := LookAt(eye, Vec3{0, 0, 0}, Up)

	got := m.TransformPoint(eye)
	if got.Length() > 1e-5 {
		t.Errorf("LookAt should map the eye to the origin, got %v", got)
	}
}

func TestLookAtDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		eye, center Vec3
		up          Vec3
	}{
		{"eye equals center", Vec3{1, 1, 1}, Vec3{1, 1, 1}, Up},
		{"up parallel to forward", Vec3{0, 0, 0}, Vec3{0, 5, 0}, Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := LookAt(tt.eye, tt.center, tt.up)
			if !m.IsFinite() {
				t.Fatalf("degenerate LookAt should not produce NaN or Inf, got %v", m)
			}
			if _, ok := m.Invert(); ok {
				t.Error("degenerate LookAt should be singular")
			}
		})
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateY(0.7)).Mul(Scale(2, 3, 4))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible matrix")
	}

	product := m.Mul(inv)
	id := Identity()
	for i := range product {
		if abs(product[i]-id[i]) > 1e-5 {
			t.Fatalf("M * M^-1 element %d: got %f, want %f", i, product[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	m := Scale(1, 0, 1)
	if _, ok := m.Invert(); ok {
		t.Error("expected singular matrix to fail inversion")
	}
	if inv, _ := m.Invert(); inv != (Mat4{}) {
		t.Errorf("failed inversion should return the zero matrix, got %v", inv)
	}
}

func TestMat3x3(t *testing.T) {
	m := Scale(2, 3, 4).Mul(Translate(7, 8, 9))
	m3 := m.Mat3x3()

	if m3.At(0, 0) != 2 || m3.At(1, 1) != 3 || m3.At(2, 2) != 4 {
		t.Errorf("Mat3x3 diagonal: got %v", m3)
	}
	if m3.At(0, 1) != 0 {
		t.Error("Mat3x3 should drop the translation column")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
