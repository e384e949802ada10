// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

func TestVector2D_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected Vector2D
	}{
		{
			name:     "unit_x",
			v:        Vector2D{X: 5, Y: 0},
			expected: Vector2D{X: 1, Y: 0},
		},
		{
			name:     "diagonal",
			v:        Vector2D{X: 3, Y: 4},
			expected: Vector2D{X: 0.6, Y: 0.8},
		},
		{
			name:     "zero_vector",
			v:        Vector2D{X: 0, Y: 0},
			expected: Vector2D{X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Normalize()
			if math.Abs(result.X-tt.expected.X) > 1e-9 || math.Abs(result.Y-tt.expected.Y) > 1e-9 {
				t.Errorf("Normalize() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_DistanceAndLength(t *testing.T) {
	a := Vector2D{X: 1, Y: 2}
	b := Vector2D{X: 4, Y: 6}

	if d := a.Distance(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance() = %v, expected 5", d)
	}
	if d := a.DistanceSquared(b); math.Abs(d-25) > 1e-9 {
		t.Errorf("DistanceSquared() = %v, expected 25", d)
	}
	if l := b.Sub(a).Length(); math.Abs(l-5) > 1e-9 {
		t.Errorf("Length() = %v, expected 5", l)
	}
}

func TestFromAngle_RoundTrip(t *testing.T) {
	angles := []float64{0, math.Pi / 4, math.Pi / 2, -math.Pi / 3}
	for _, angle := range angles {
		v := FromAngle(angle, 10)
		if math.Abs(v.Length()-10) > 1e-9 {
			t.Errorf("FromAngle(%v) length = %v, expected 10", angle, v.Length())
		}
		if math.Abs(v.Angle()-angle) > 1e-9 {
			t.Errorf("FromAngle(%v).Angle() = %v", angle, v.Angle())
		}
	}
}

func TestVector2D_Rotate(t *testing.T) {
	v := Vector2D{X: 1, Y: 0}
	r := v.Rotate(math.Pi / 2)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2) = %v, expected (0, 1)", r)
	}
}
