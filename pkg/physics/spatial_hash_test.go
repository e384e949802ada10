// pkg/physics/spatial_hash_test.go
package physics

import (
	"testing"
)

func TestSpatialHash_Neighbors_FindsNearbyOnly(t *testing.T) {
	h := NewSpatialHash(64)

	h.Insert(0, Vector2D{X: 10, Y: 10})
	h.Insert(1, Vector2D{X: 50, Y: 50})
	h.Insert(2, Vector2D{X: 500, Y: 500})

	found := h.Neighbors(Vector2D{X: 20, Y: 20})
	if len(found) != 2 {
		t.Fatalf("expected 2 neighbors, got %d: %v", len(found), found)
	}
	for _, idx := range found {
		if idx == 2 {
			t.Error("distant index should not appear in neighbors")
		}
	}
}

func TestSpatialHash_Neighbors_AdjacentCells(t *testing.T) {
	h := NewSpatialHash(64)

	// Just across a cell boundary from the query point.
	h.Insert(0, Vector2D{X: 70, Y: 10})

	found := h.Neighbors(Vector2D{X: 60, Y: 10})
	if len(found) != 1 || found[0] != 0 {
		t.Errorf("expected neighbor across cell boundary, got %v", found)
	}
}

func TestSpatialHash_NegativeCoordinates(t *testing.T) {
	h := NewSpatialHash(64)

	h.Insert(0, Vector2D{X: -10, Y: -10})

	found := h.Neighbors(Vector2D{X: -20, Y: -20})
	if len(found) != 1 || found[0] != 0 {
		t.Errorf("expected neighbor in negative quadrant, got %v", found)
	}

	// Points straddling the origin live in adjacent cells.
	h.Insert(1, Vector2D{X: 10, Y: 10})
	found = h.Neighbors(Vector2D{X: -10, Y: -10})
	if len(found) != 2 {
		t.Errorf("expected both straddling points, got %v", found)
	}
}

func TestSpatialHash_NegativeCellBoundary(t *testing.T) {
	h := NewSpatialHash(64)

	// X=-64 sits exactly on the boundary of cell -1; it must bucket with
	// a point just inside that cell, not one cell further out.
	h.Insert(0, Vector2D{X: -64, Y: -64})
	h.Insert(1, Vector2D{X: -63, Y: -63})

	if key := h.keyFor(Vector2D{X: -64, Y: -64}); key != (cellKey{X: -1, Y: -1}) {
		t.Errorf("boundary point keyed at %v, want {-1 -1}", key)
	}

	found := h.Neighbors(Vector2D{X: -63, Y: -63})
	if len(found) != 2 {
		t.Errorf("expected both points near the boundary, got %v", found)
	}
}

func TestSpatialHash_Clear(t *testing.T) {
	h := NewSpatialHash(64)
	h.Insert(0, Vector2D{X: 0, Y: 0})

	h.Clear()
	if found := h.Neighbors(Vector2D{X: 0, Y: 0}); len(found) != 0 {
		t.Errorf("expected no neighbors after Clear, got %v", found)
	}
}
