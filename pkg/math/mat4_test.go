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

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"trs", TRS(Vec3{0, 100, 0}, Vec3{100, 100, 100}), Vec3{1, 1, -1}, Vec3{100, 200, -100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformVec3(tt.in); got != tt.want {
				t.Errorf("TransformVec3: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTRSMatchesTranslateScale(t *testing.T) {
	pos := Vec3{3, -4, 5}
	scale := Vec3{2, 0.5, 10}
	want := Translate(pos.X, pos.Y, pos.Z).Mul(Scale(scale.X, scale.Y, scale.Z))
	if got := TRS(pos, scale); got != want {
		t.Errorf("TRS = %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{400, 200, 400}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	p := m.TransformVec3(eye)
	if abs(p.X) > 0.01 || abs(p.Y) > 0.01 || abs(p.Z) > 0.01 {
		t.Errorf("eye in view space = %v, want origin", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
