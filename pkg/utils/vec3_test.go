package utils

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name   string
		input  Vec3
		wantOK bool
		want   Vec3
	}{
		{"unit x", V3(5, 0, 0), true, V3(1, 0, 0)},
		{"diagonal", V3(3, 0, 4), true, V3(0.6, 0, 0.8)},
		{"zero", Zero, false, Zero},
		{"nan", V3(math.NaN(), 0, 1), false, Zero},
		{"inf", V3(math.Inf(1), 0, 0), false, Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.input.Normalize()
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got.Dist(tt.want) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVec3FlatHelpers(t *testing.T) {
	a := V3(0, 5, 0)
	b := V3(3, -2, 4)
	if d := a.FlatDist(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("FlatDist = %v, want 5", d)
	}

	dir := V3(1, 0, 0)
	perp := dir.PerpFlat()
	if perp.Dot(dir) != 0 {
		t.Errorf("PerpFlat(%v) = %v is not perpendicular", dir, perp)
	}
	if math.Abs(perp.Len()-1) > 1e-9 {
		t.Errorf("PerpFlat changed length: %v", perp.Len())
	}
}

func TestYaw(t *testing.T) {
	if y := V3(0, 0, 1).Yaw(); y != 0 {
		t.Errorf("Yaw(+Z) = %v, want 0", y)
	}
	if y := V3(1, 0, 0).Yaw(); math.Abs(y-math.Pi/2) > 1e-9 {
		t.Errorf("Yaw(+X) = %v, want pi/2", y)
	}
}

func TestFalloff(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		linear   float64
		quad     float64
	}{
		{"centre", 0, 4, 1, 1},
		{"half", 2, 4, 0.5, 0.75},
		{"edge", 4, 4, 0, 0},
		{"outside", 6, 4, 0, 0},
		{"no radius", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinearFalloff(tt.distance, tt.radius); math.Abs(got-tt.linear) > 1e-9 {
				t.Errorf("LinearFalloff = %v, want %v", got, tt.linear)
			}
			if got := QuadFalloff(tt.distance, tt.radius); math.Abs(got-tt.quad) > 1e-9 {
				t.Errorf("QuadFalloff = %v, want %v", got, tt.quad)
			}
		})
	}
}

func TestScaledDamage(t *testing.T) {
	tests := []struct {
		max    int
		factor float64
		want   int
	}{
		{30, 1, 30},
		{30, 0.5, 15},
		{30, 0.01, 1},
		{30, 0, 0},
		{0, 1, 0},
		{30, 1.5, 30},
	}
	for _, tt := range tests {
		if got := ScaledDamage(tt.max, tt.factor); got != tt.want {
			t.Errorf("ScaledDamage(%d, %v) = %d, want %d", tt.max, tt.factor, got, tt.want)
		}
	}
}
