// pkg/physics/geometry.go
package physics

import "math"

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// ContainsPoint reports whether the point lies inside the circle
func (c Circle) ContainsPoint(p Vector2D) bool {
	return c.Center.DistanceSquared(p) <= c.Radius*c.Radius
}

// Polygon is an ordered list of vertices describing a simple polygon.
// Asteroid occluders are polygons; every other collision shape is a circle.
type Polygon struct {
	Vertices []Vector2D
}

// Centroid returns the arithmetic mean of the polygon's vertices
func (p Polygon) Centroid() Vector2D {
	var sum Vector2D
	if len(p.Vertices) == 0 {
		return sum
	}
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(len(p.Vertices)))
}

// BoundingRadius returns the largest vertex distance from the centroid.
// Used where the obstacle-resolution pass approximates the polygon as a circle.
func (p Polygon) BoundingRadius() float64 {
	center := p.Centroid()
	max := 0.0
	for _, v := range p.Vertices {
		if d := center.Distance(v); d > max {
			max = d
		}
	}
	return max
}

// Contains reports whether the point is inside the polygon using the
// even-odd crossing rule.
func (p Polygon) Contains(point Vector2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > point.Y) != (vj.Y > point.Y) &&
			point.X < (vj.X-vi.X)*(point.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// RayPolygonIntersection finds the nearest intersection of the ray
// (origin + t*dir, t > 0) with the polygon's edges. It returns the ray
// parameter of the nearest hit and whether any edge was hit.
func RayPolygonIntersection(origin, dir Vector2D, poly Polygon) (float64, bool) {
	n := len(poly.Vertices)
	if n < 2 {
		return 0, false
	}
	nearest := math.Inf(1)
	hit := false
	for i := 0; i < n; i++ {
		a := poly.Vertices[i]
		b := poly.Vertices[(i+1)%n]
		if t, ok := raySegmentIntersection(origin, dir, a, b); ok && t < nearest {
			nearest = t
			hit = true
		}
	}
	return nearest, hit
}

// raySegmentIntersection solves origin + t*dir = a + u*(b-a) for t > epsilon
// and u in [0, 1].
func raySegmentIntersection(origin, dir, a, b Vector2D) (float64, bool) {
	const epsilon = 1e-9

	edge := b.Sub(a)
	denom := dir.Cross(edge)
	if math.Abs(denom) < epsilon {
		return 0, false // Parallel
	}

	diff := a.Sub(origin)
	t := diff.Cross(edge) / denom
	u := diff.Cross(dir) / denom

	if t > epsilon && u >= 0 && u <= 1 {
		return t, true
	}
	return 0, false
}

// SegmentsIntersect reports whether segment p1p2 crosses segment q1q2.
func SegmentsIntersect(p1, p2, q1, q2 Vector2D) bool {
	dir := p2.Sub(p1)
	length := dir.Length()
	if length == 0 {
		return false
	}
	dir = dir.Scale(1.0 / length)
	t, ok := raySegmentIntersection(p1, dir, q1, q2)
	return ok && t <= length
}

// SegmentBlocked reports whether the open segment between a and b crosses
// any of the given polygons. Endpoints resting exactly on an edge do not
// count as blocked.
func SegmentBlocked(a, b Vector2D, occluders []Polygon) bool {
	dir := b.Sub(a)
	length := dir.Length()
	if length == 0 {
		return false
	}
	dir = dir.Scale(1.0 / length)

	for _, poly := range occluders {
		if t, ok := RayPolygonIntersection(a, dir, poly); ok && t < length {
			return true
		}
	}
	return false
}

// PointSegmentDistance returns the distance from point p to the segment ab.
func PointSegmentDistance(p, a, b Vector2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Add(ab.Scale(t))
	return p.Distance(closest)
}

// CirclePolygonOverlap reports whether the circle overlaps the polygon:
// either the center is inside, or an edge passes within the radius.
func CirclePolygonOverlap(c Circle, poly Polygon) bool {
	if poly.Contains(c.Center) {
		return true
	}
	n := len(poly.Vertices)
	for i := 0; i < n; i++ {
		a := poly.Vertices[i]
		b := poly.Vertices[(i+1)%n]
		if PointSegmentDistance(c.Center, a, b) < c.Radius {
			return true
		}
	}
	return false
}
