// pkg/physics/spatial_hash.go
package physics

import "math"

// SpatialHash buckets point indices into fixed-size grid cells for
// short-range neighbor queries. Lookups walk the 3x3 cell block around the
// query point in a fixed offset order, so neighbor iteration order depends
// only on insertion order.
type SpatialHash struct {
	cellSize float64
	cells    map[cellKey][]int
}

type cellKey struct {
	X int
	Y int
}

// NewSpatialHash creates a spatial hash with the given cell size.
func NewSpatialHash(cellSize float64) *SpatialHash {
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Clear removes all inserted indices, keeping allocated cells for reuse.
func (h *SpatialHash) Clear() {
	for key := range h.cells {
		h.cells[key] = h.cells[key][:0]
	}
}

// Insert records the index at the cell containing the position.
func (h *SpatialHash) Insert(index int, position Vector2D) {
	key := h.keyFor(position)
	h.cells[key] = append(h.cells[key], index)
}

// Neighbors returns the indices stored in the cell containing the position
// and its eight surrounding cells.
func (h *SpatialHash) Neighbors(position Vector2D) []int {
	center := h.keyFor(position)
	var found []int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			key := cellKey{X: center.X + dx, Y: center.Y + dy}
			found = append(found, h.cells[key]...)
		}
	}
	return found
}

// keyFor floors the coordinates into cell indices so positions on a
// negative cell boundary land in the boundary cell, not one past it.
func (h *SpatialHash) keyFor(position Vector2D) cellKey {
	return cellKey{
		X: int(math.Floor(position.X / h.cellSize)),
		Y: int(math.Floor(position.Y / h.cellSize)),
	}
}
