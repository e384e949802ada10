package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// knockbackDecay is the deceleration applied to knockback impulses, in
// units per second squared.
const knockbackDecay = 300.0

// knockbackEpsilon zeroes residual impulses below this speed.
const knockbackEpsilon = 1.0

// CheckCollision reports whether a circle at the position overlaps any
// asteroid or any live entity other than the ignored ID. The build command
// and spawn placement use this as their occupancy probe.
func (g *Game) CheckCollision(position physics.Vector2D, radius float64, ignore entity.ID) bool {
	probe := physics.Circle{Center: position, Radius: radius}
	for i := range g.Asteroids {
		if physics.CirclePolygonOverlap(probe, g.Asteroids[i]) {
			return true
		}
	}
	for _, p := range g.Players {
		for _, u := range p.Units {
			if u.GetID() == ignore || u.IsDead() {
				continue
			}
			if probe.Collides(u.Collider()) {
				return true
			}
		}
		for _, b := range p.Buildings {
			if b.GetID() == ignore || b.IsDead() {
				continue
			}
			if probe.Collides(b.Collider()) {
				return true
			}
		}
		for _, m := range p.Mirrors {
			if m.GetID() == ignore || m.IsDead() {
				continue
			}
			if probe.Collides(m.Collider()) {
				return true
			}
		}
		if p.Forge != nil && !p.Forge.IsDead() && p.Forge.GetID() != ignore {
			if probe.Collides(p.Forge.Collider()) {
				return true
			}
		}
	}
	return false
}

// allUnits returns every live unit across all players, in player index then
// roster order. The pairwise pass depends on this ordering.
func (g *Game) allUnits() []*entity.Unit {
	var out []*entity.Unit
	for _, p := range g.Players {
		for _, u := range p.Units {
			if !u.IsDead() {
				out = append(out, u)
			}
		}
	}
	return out
}

// resolveUnitUnitCollisions separates overlapping unit pairs by pushing
// both apart along the line between their centers. Heroes push harder than
// they are pushed. Pairs are visited in index order; later pairs see the
// adjustments of earlier ones, which is an accepted order-dependent
// approximation as long as every peer visits the same order.
func (g *Game) resolveUnitUnitCollisions() {
	units := g.allUnits()
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			a, b := units[i], units[j]
			delta := b.Position.Sub(a.Position)
			dist := delta.Length()
			minDist := a.GetRadius() + b.GetRadius()
			if dist >= minDist {
				continue
			}

			var dir physics.Vector2D
			if dist > 0 {
				dir = delta.Scale(1.0 / dist)
			} else {
				// Coincident centers separate along a fixed axis.
				dir = physics.Vector2D{X: 1, Y: 0}
			}
			overlap := minDist - dist

			shareA, shareB := 0.5, 0.5
			if a.IsHero() && !b.IsHero() {
				shareA, shareB = 0.1, 0.9
			} else if b.IsHero() && !a.IsHero() {
				shareA, shareB = 0.9, 0.1
			}

			a.Position = a.Position.Sub(dir.Scale(overlap * shareA))
			b.Position = b.Position.Add(dir.Scale(overlap * shareB))
		}
	}
}

// obstacleSlack separates a pushed unit slightly past tangency so float
// rounding cannot re-trigger the overlap test.
const obstacleSlack = 0.1

// obstacleCircles returns every live structure footprint, in player index
// then roster order: buildings, mirrors, gates, forge.
func (g *Game) obstacleCircles() []physics.Circle {
	var out []physics.Circle
	for _, p := range g.Players {
		for _, b := range p.Buildings {
			if !b.IsDead() {
				out = append(out, b.Collider())
			}
		}
		for _, m := range p.Mirrors {
			if !m.IsDead() {
				out = append(out, m.Collider())
			}
		}
		for _, gt := range p.Gates {
			if !gt.IsDead() {
				out = append(out, gt.Collider())
			}
		}
		if p.Forge != nil && !p.Forge.IsDead() {
			out = append(out, p.Forge.Collider())
		}
	}
	return out
}

// collidesObstacle reports whether the circle overlaps any asteroid polygon
// or structure footprint.
func (g *Game) collidesObstacle(c physics.Circle) bool {
	for i := range g.Asteroids {
		if physics.CirclePolygonOverlap(c, g.Asteroids[i]) {
			return true
		}
	}
	for _, o := range g.obstacleCircles() {
		if c.Collides(o) {
			return true
		}
	}
	return false
}

// pointInObstacle reports whether the point lies inside any asteroid polygon
// or structure footprint.
func (g *Game) pointInObstacle(p physics.Vector2D) bool {
	for i := range g.Asteroids {
		if g.Asteroids[i].Contains(p) {
			return true
		}
	}
	for _, o := range g.obstacleCircles() {
		if o.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// pushOut returns the separation vector moving a circle of the given radius
// at pos out of the obstacle circle, proportional to overlap depth.
func pushOut(pos physics.Vector2D, radius float64, obstacle physics.Circle) physics.Vector2D {
	away := pos.Sub(obstacle.Center)
	d := away.Length()
	overlap := obstacle.Radius + radius - d
	if overlap <= 0 {
		return physics.Vector2D{}
	}
	if d == 0 {
		return physics.Vector2D{X: overlap + obstacleSlack, Y: 0}
	}
	return away.Scale((overlap + obstacleSlack) / d)
}

// resolveUnitObstacleCollisions pushes units out of asteroids and structure
// footprints. Asteroids are approximated as their bounding circles for the
// push; every overlapping obstacle contributes a push away from its center,
// weighted by overlap depth, and the summed push is applied once. A unit
// still colliding after the push reverts to its prior position, and a rally
// point sitting inside an obstacle is cleared so the unit stops grinding
// into it.
func (g *Game) resolveUnitObstacleCollisions() {
	obstacles := g.obstacleCircles()
	for _, u := range g.allUnits() {
		c := physics.Circle{Center: u.Position, Radius: u.GetRadius()}

		var push physics.Vector2D
		for i := range g.Asteroids {
			poly := &g.Asteroids[i]
			if !physics.CirclePolygonOverlap(c, *poly) {
				continue
			}
			bound := physics.Circle{Center: poly.Centroid(), Radius: poly.BoundingRadius()}
			push = push.Add(pushOut(u.Position, u.GetRadius(), bound))
		}
		for _, o := range obstacles {
			if !c.Collides(o) {
				continue
			}
			push = push.Add(pushOut(u.Position, u.GetRadius(), o))
		}

		if push.LengthSquared() == 0 {
			continue
		}

		prev := u.Position
		u.Position = u.Position.Add(push)

		if g.collidesObstacle(physics.Circle{Center: u.Position, Radius: u.GetRadius()}) {
			u.Position = prev
			if u.RallyPoint != nil && g.pointInObstacle(*u.RallyPoint) {
				u.RallyPoint = nil
				u.Waypoints = nil
			}
		}
	}
}

// applyKnockback integrates and decays pending knockback impulses. The
// impulse moves the unit on top of its steering velocity and bleeds off at
// a fixed rate until it drops below the epsilon.
func (g *Game) applyKnockback(dt float64) {
	for _, u := range g.allUnits() {
		speed := u.Knockback.Length()
		if speed == 0 {
			continue
		}
		u.Position = u.Position.Add(u.Knockback.Scale(dt))

		speed -= knockbackDecay * dt
		if speed <= knockbackEpsilon {
			u.Knockback = physics.Vector2D{}
			continue
		}
		u.Knockback = u.Knockback.Normalize().Scale(speed)
	}
}
