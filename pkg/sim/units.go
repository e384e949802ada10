package sim

import (
	"math"

	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/event"
	"github.com/opd-ai/go-sol/pkg/physics"
	"github.com/opd-ai/go-sol/pkg/vision"
)

const (
	// arriveEpsilon ends movement when a unit is within this distance of
	// its rally point.
	arriveEpsilon = 4.0

	// Steering blend weights. The blended direction is normalized before
	// scaling by move speed, so only the ratios matter.
	goalWeight         = 1.0
	unitRepulseWeight  = 0.6
	obstRepulseWeight  = 0.9
	unitRepulseRange   = 40.0
	obstacleAvoidRange = 60.0
)

// buildObserver aggregates a player's vision capabilities from their live
// units and structures.
func (g *Game) buildObserver(player *Player) vision.Observer {
	obs := vision.Observer{PlayerID: player.ID}
	for _, u := range player.Units {
		if u.IsDead() {
			continue
		}
		obs.Sights = append(obs.Sights, vision.SightSource{Position: u.GetPosition(), Radius: u.SightRadius()})
		if u.Stats.DetectionRange > 0 {
			obs.Cones = append(obs.Cones, vision.DetectionCone{
				Apex:      u.GetPosition(),
				Facing:    u.Rotation,
				HalfAngle: u.Stats.DetectionHalfAngle,
				Range:     u.Stats.DetectionRange,
			})
		}
	}
	if player.Forge != nil && !player.Forge.IsDead() {
		obs.Influences = append(obs.Influences, vision.SightSource{
			Position: player.Forge.GetPosition(),
			Radius:   player.Forge.InfluenceRadius,
		})
	}
	for _, b := range player.Buildings {
		if b.IsDead() || !b.Complete {
			continue
		}
		if b.Kind == entity.AegisWell {
			obs.Influences = append(obs.Influences, vision.SightSource{
				Position: b.GetPosition(),
				Radius:   b.InfluenceRadius,
			})
		}
		if b.Kind == entity.Bastion {
			obs.Sights = append(obs.Sights, vision.SightSource{
				Position: b.GetPosition(),
				Radius:   b.Stats.AttackRange * 1.2,
			})
		}
	}
	return obs
}

// isAlly reports whether two players are on the same side. In a team game
// players sharing a team never target each other.
func (g *Game) isAlly(a, b *Player) bool {
	if a == b {
		return true
	}
	return g.Config.Rules.TeamGame && a.TeamID == b.TeamID
}

// enemyTargets lists all live targetable entities belonging to enemies of
// the player, in player index then roster order. The order gives nearest
// target ties a deterministic winner.
func (g *Game) enemyTargets(player *Player) []entity.CombatTarget {
	var out []entity.CombatTarget
	for _, other := range g.Players {
		if g.isAlly(player, other) {
			continue
		}
		for _, u := range other.Units {
			if !u.IsDead() {
				out = append(out, u)
			}
		}
		for _, b := range other.Buildings {
			if !b.IsDead() {
				out = append(out, b)
			}
		}
		for _, m := range other.Mirrors {
			if !m.IsDead() {
				out = append(out, m)
			}
		}
		for _, gt := range other.Gates {
			if !gt.IsDead() {
				out = append(out, gt)
			}
		}
		if other.Forge != nil && !other.Forge.IsDead() {
			out = append(out, other.Forge)
		}
	}
	return out
}

// targetVisible applies the fog rules to a candidate combat target.
func (g *Game) targetVisible(t entity.CombatTarget, obs vision.Observer) bool {
	cloaked := false
	if u, ok := t.(*entity.Unit); ok {
		cloaked = u.IsCloaked()
	}
	vt := vision.Target{
		Position: t.GetPosition(),
		OwnerID:  t.GetOwner(),
		Cloaked:  cloaked,
	}
	return vision.IsObjectVisibleToPlayer(vt, obs, g.Suns, g.Asteroids)
}

// updateUnits advances one player's units for the tick: cooldowns, waypoint
// consumption, target selection, attacks, and steering movement. Units are
// always visited in roster index order.
func (g *Game) updateUnits(player *Player) {
	dt := g.ctx.Dt
	obs := g.buildObserver(player)
	candidates := g.enemyTargets(player)

	for _, unit := range player.Units {
		if unit.IsDead() {
			continue
		}
		unit.AdvanceCooldowns(dt)
		g.consumeWaypoint(unit)

		target := g.selectTarget(unit, candidates, obs)
		if target != nil {
			unit.TargetID = target.GetID()
		} else {
			unit.TargetID = 0
		}

		inRange := target != nil &&
			unit.GetPosition().Distance(target.GetPosition()) <= unit.Stats.AttackRange+target.GetRadius()

		if inRange {
			desired := target.GetPosition().Sub(unit.GetPosition()).Angle()
			unit.RotateToward(desired, dt)
			unit.Velocity = physics.Vector2D{}
			if unit.CanAttack() {
				g.applyAttack(unit, target)
			}
		} else {
			g.steer(unit, dt)
		}

		step := unit.Velocity.Scale(dt)
		if step.LengthSquared() > 0 {
			unit.Position = unit.Position.Add(step)
		}

		g.ctx.Collect(unit.DrainEffects()...)
	}
}

// consumeWaypoint pops the next waypoint into the rally point for units
// following a path. Only PathSeekers carry waypoint paths.
func (g *Game) consumeWaypoint(unit *entity.Unit) {
	if unit.RallyPoint == nil && len(unit.Waypoints) > 0 {
		next := unit.Waypoints[0]
		unit.Waypoints = unit.Waypoints[1:]
		unit.RallyPoint = &next
	}
}

// selectTarget picks the unit's combat target: the manual target if it is
// alive and visible, otherwise the nearest visible enemy within sight.
// Distance ties resolve to the earlier candidate in iteration order.
func (g *Game) selectTarget(unit *entity.Unit, candidates []entity.CombatTarget, obs vision.Observer) entity.CombatTarget {
	if unit.Stats.AttackSpeed <= 0 {
		return nil
	}

	if unit.ManualTargetID != 0 {
		if t := g.findCombatTarget(unit.ManualTargetID); t != nil && !t.IsDead() && g.targetVisible(t, obs) {
			return t
		}
		unit.ManualTargetID = 0
	}

	best := entity.CombatTarget(nil)
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if c.IsDead() || !g.targetVisible(c, obs) {
			continue
		}
		d := unit.GetPosition().Distance(c.GetPosition())
		if d > unit.SightRadius() {
			continue
		}
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// applyAttack fires the unit's attack and routes the outcome: projectiles
// into the world, beams into the tick's beam collection, direct damage and
// knockback straight onto the target.
func (g *Game) applyAttack(unit *entity.Unit, target entity.CombatTarget) {
	outcome := unit.PerformAttack(target, g.ctx.NewID)
	if outcome == nil {
		return
	}
	switch {
	case outcome.Projectile != nil:
		g.Projectiles = append(g.Projectiles, outcome.Projectile)
	case outcome.Beam != nil:
		g.ctx.Beams = append(g.ctx.Beams, outcome.Beam)
	case outcome.DirectDamage > 0:
		target.TakeDamage(outcome.DirectDamage)
		g.ctx.Collect(entity.Effect{
			Kind:     entity.EffectDamageNumber,
			Position: target.GetPosition(),
			Amount:   outcome.DirectDamage,
		})
		if tu, ok := target.(*entity.Unit); ok && outcome.Knockback.LengthSquared() > 0 {
			tu.Knockback = tu.Knockback.Add(outcome.Knockback)
		}
	}
}

// steer blends goal attraction with unit and obstacle repulsion and sets
// the unit's velocity. Units with no rally point come to rest.
func (g *Game) steer(unit *entity.Unit, dt float64) {
	if unit.RallyPoint == nil {
		unit.Velocity = physics.Vector2D{}
		return
	}
	toGoal := unit.RallyPoint.Sub(unit.Position)
	if toGoal.Length() <= arriveEpsilon {
		unit.RallyPoint = nil
		unit.Velocity = physics.Vector2D{}
		g.consumeWaypoint(unit)
		return
	}

	blend := toGoal.Normalize().Scale(goalWeight)
	blend = blend.Add(g.unitRepulsion(unit).Scale(unitRepulseWeight))
	blend = blend.Add(g.obstacleRepulsion(unit).Scale(obstRepulseWeight))

	if blend.LengthSquared() == 0 {
		unit.Velocity = physics.Vector2D{}
		return
	}
	dir := blend.Normalize()
	unit.Velocity = dir.Scale(unit.Stats.MoveSpeed)
	unit.RotateToward(dir.Angle(), dt)
}

// unitRepulsion pushes away from nearby friendly and enemy units with
// squared falloff. Iteration covers every player in index order.
func (g *Game) unitRepulsion(unit *entity.Unit) physics.Vector2D {
	var sum physics.Vector2D
	for _, p := range g.Players {
		for _, other := range p.Units {
			if other == unit || other.IsDead() {
				continue
			}
			away := unit.Position.Sub(other.Position)
			d := away.Length()
			if d <= 0 || d > unitRepulseRange {
				continue
			}
			strength := 1.0 - d/unitRepulseRange
			sum = sum.Add(away.Scale(strength * strength / d))
		}
	}
	return sum
}

// obstacleRepulsion pushes away from asteroid polygons the unit is close to.
func (g *Game) obstacleRepulsion(unit *entity.Unit) physics.Vector2D {
	var sum physics.Vector2D
	for i := range g.Asteroids {
		poly := &g.Asteroids[i]
		center := poly.Centroid()
		away := unit.Position.Sub(center)
		d := away.Length()
		reach := poly.BoundingRadius() + obstacleAvoidRange
		if d <= 0 || d > reach {
			continue
		}
		strength := 1.0 - d/reach
		sum = sum.Add(away.Scale(strength * strength / d))
	}
	return sum
}

// sweepDeadUnits removes dead units from the roster, emitting death effects
// and events. Heroes and regulars fall by the same rule.
func (g *Game) sweepDeadUnits(player *Player) {
	live := player.Units[:0]
	for _, u := range player.Units {
		if !u.IsDead() {
			live = append(live, u)
			continue
		}
		player.UnitsLost++
		g.ctx.Collect(entity.Effect{
			Kind:     entity.EffectDeathBurst,
			Position: u.GetPosition(),
			Hero:     u.IsHero(),
		})
		g.EventBus.Publish(event.NewEntityEvent(event.UnitDestroyed, g, u.GetID(), player.ID))
	}
	player.Units = live
}
