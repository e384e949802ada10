// Package vision computes light, shadow, and per-player visibility as pure
// functions of world state. Suns and occluders move, so results are never
// cached across ticks; every query reflects the world as it is this tick.
package vision

import (
	"math"

	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// SightSource is a circle of guaranteed visibility: a unit's line of sight
// or a structure's influence field.
type SightSource struct {
	Position physics.Vector2D
	Radius   float64
}

// DetectionCone is a directional detection capability that reveals cloaked
// entities inside its arc.
type DetectionCone struct {
	Apex      physics.Vector2D
	Facing    float64
	HalfAngle float64
	Range     float64
}

// Contains reports whether the point falls inside the cone
func (c DetectionCone) Contains(p physics.Vector2D) bool {
	offset := p.Sub(c.Apex)
	dist := offset.Length()
	if dist > c.Range {
		return false
	}
	if dist == 0 {
		return true
	}
	diff := math.Abs(normalizeAngle(offset.Angle() - c.Facing))
	return diff <= c.HalfAngle
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Observer aggregates one player's vision capabilities for a tick. The
// simulation rebuilds observers every tick from live units and structures.
type Observer struct {
	PlayerID   string
	Sights     []SightSource
	Influences []SightSource
	Cones      []DetectionCone
}

// Target describes the object whose visibility is being queried.
type Target struct {
	Position physics.Vector2D
	OwnerID  string
	Cloaked  bool
	Revealed bool
}

// IsPointInShadow reports whether the point is unlit: a point is lit iff at
// least one sun has an unobstructed ray to it. A world with zero suns is
// entirely in shadow.
func IsPointInShadow(p physics.Vector2D, suns []entity.Sun, occluders []physics.Polygon) bool {
	for _, sun := range suns {
		if !physics.SegmentBlocked(sun.Position, p, occluders) {
			return false
		}
	}
	return true
}

// IsObjectVisibleToPlayer decides whether the observing player can see the
// target this tick. A target is visible if it is lit, or inside an owned
// unit's sight radius, or inside the player's influence field, or caught by
// a detection cone. Cloaked entities are force-invisible to non-owners
// unless explicitly revealed or caught by detection.
func IsObjectVisibleToPlayer(t Target, obs Observer, suns []entity.Sun, occluders []physics.Polygon) bool {
	if t.OwnerID == obs.PlayerID {
		return true
	}

	detected := t.Revealed || inAnyCone(t.Position, obs.Cones)
	if t.Cloaked && !detected {
		return false
	}
	if detected {
		return true
	}

	if !IsPointInShadow(t.Position, suns, occluders) {
		return true
	}
	if inAnySight(t.Position, obs.Sights) {
		return true
	}
	return inAnySight(t.Position, obs.Influences)
}

func inAnySight(p physics.Vector2D, sources []SightSource) bool {
	for _, s := range sources {
		if p.Distance(s.Position) <= s.Radius {
			return true
		}
	}
	return false
}

func inAnyCone(p physics.Vector2D, cones []DetectionCone) bool {
	for _, c := range cones {
		if c.Contains(p) {
			return true
		}
	}
	return false
}
