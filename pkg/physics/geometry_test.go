// pkg/physics/geometry_test.go
package physics

import (
	"math"
	"testing"
)

func squarePoly(cx, cy, half float64) Polygon {
	return Polygon{Vertices: []Vector2D{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}}
}

func TestPolygon_Contains(t *testing.T) {
	square := squarePoly(0, 0, 10)

	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{
			name:     "center",
			point:    Vector2D{X: 0, Y: 0},
			expected: true,
		},
		{
			name:     "inside_off_center",
			point:    Vector2D{X: 5, Y: -5},
			expected: true,
		},
		{
			name:     "outside_right",
			point:    Vector2D{X: 11, Y: 0},
			expected: false,
		},
		{
			name:     "outside_diagonal",
			point:    Vector2D{X: 15, Y: 15},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := square.Contains(tt.point)
			if got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestPolygon_CentroidAndBoundingRadius(t *testing.T) {
	square := squarePoly(10, 20, 5)

	c := square.Centroid()
	if math.Abs(c.X-10) > 1e-9 || math.Abs(c.Y-20) > 1e-9 {
		t.Errorf("Centroid() = %v, expected (10, 20)", c)
	}

	r := square.BoundingRadius()
	expected := math.Sqrt(50)
	if math.Abs(r-expected) > 1e-9 {
		t.Errorf("BoundingRadius() = %v, expected %v", r, expected)
	}
}

func TestRayPolygonIntersection(t *testing.T) {
	square := squarePoly(50, 0, 10)

	tests := []struct {
		name      string
		origin    Vector2D
		dir       Vector2D
		hit       bool
		expectedT float64
	}{
		{
			name:      "head_on_hit",
			origin:    Vector2D{X: 0, Y: 0},
			dir:       Vector2D{X: 1, Y: 0},
			hit:       true,
			expectedT: 40,
		},
		{
			name:   "pointing_away",
			origin: Vector2D{X: 0, Y: 0},
			dir:    Vector2D{X: -1, Y: 0},
			hit:    false,
		},
		{
			name:   "parallel_miss",
			origin: Vector2D{X: 0, Y: 20},
			dir:    Vector2D{X: 1, Y: 0},
			hit:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := RayPolygonIntersection(tt.origin, tt.dir, square)
			if hit != tt.hit {
				t.Fatalf("hit = %v, expected %v", hit, tt.hit)
			}
			if hit && math.Abs(dist-tt.expectedT) > 1e-6 {
				t.Errorf("distance = %v, expected %v", dist, tt.expectedT)
			}
		})
	}
}

func TestSegmentBlocked(t *testing.T) {
	occluders := []Polygon{squarePoly(50, 0, 10)}

	tests := []struct {
		name     string
		a, b     Vector2D
		expected bool
	}{
		{
			name:     "crosses_occluder",
			a:        Vector2D{X: 0, Y: 0},
			b:        Vector2D{X: 100, Y: 0},
			expected: true,
		},
		{
			name:     "stops_short",
			a:        Vector2D{X: 0, Y: 0},
			b:        Vector2D{X: 30, Y: 0},
			expected: false,
		},
		{
			name:     "passes_beside",
			a:        Vector2D{X: 0, Y: 30},
			b:        Vector2D{X: 100, Y: 30},
			expected: false,
		},
		{
			name:     "zero_length",
			a:        Vector2D{X: 0, Y: 0},
			b:        Vector2D{X: 0, Y: 0},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentBlocked(tt.a, tt.b, occluders)
			if got != tt.expected {
				t.Errorf("SegmentBlocked(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, q1, q2 Vector2D
		expected       bool
	}{
		{
			name: "perpendicular_cross",
			p1:   Vector2D{X: -10, Y: 0}, p2: Vector2D{X: 10, Y: 0},
			q1: Vector2D{X: 0, Y: -10}, q2: Vector2D{X: 0, Y: 10},
			expected: true,
		},
		{
			name: "disjoint",
			p1:   Vector2D{X: -10, Y: 0}, p2: Vector2D{X: -5, Y: 0},
			q1: Vector2D{X: 0, Y: -10}, q2: Vector2D{X: 0, Y: 10},
			expected: false,
		},
		{
			name: "parallel",
			p1:   Vector2D{X: 0, Y: 0}, p2: Vector2D{X: 10, Y: 0},
			q1: Vector2D{X: 0, Y: 5}, q2: Vector2D{X: 10, Y: 5},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsIntersect(tt.p1, tt.p2, tt.q1, tt.q2)
			if got != tt.expected {
				t.Errorf("SegmentsIntersect() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 10, Y: 0}

	tests := []struct {
		name     string
		p        Vector2D
		expected float64
	}{
		{
			name:     "above_midpoint",
			p:        Vector2D{X: 5, Y: 3},
			expected: 3,
		},
		{
			name:     "beyond_end",
			p:        Vector2D{X: 13, Y: 4},
			expected: 5,
		},
		{
			name:     "on_segment",
			p:        Vector2D{X: 7, Y: 0},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointSegmentDistance(tt.p, a, b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("PointSegmentDistance(%v) = %v, expected %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestCirclePolygonOverlap(t *testing.T) {
	square := squarePoly(0, 0, 10)

	tests := []struct {
		name     string
		circle   Circle
		expected bool
	}{
		{
			name:     "center_inside",
			circle:   Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 1},
			expected: true,
		},
		{
			name:     "edge_within_radius",
			circle:   Circle{Center: Vector2D{X: 13, Y: 0}, Radius: 5},
			expected: true,
		},
		{
			name:     "clear_of_polygon",
			circle:   Circle{Center: Vector2D{X: 20, Y: 20}, Radius: 3},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CirclePolygonOverlap(tt.circle, square)
			if got != tt.expected {
				t.Errorf("CirclePolygonOverlap() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
