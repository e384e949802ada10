package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/event"
	"github.com/opd-ai/go-sol/pkg/physics"
	"github.com/opd-ai/go-sol/pkg/vision"
)

// mirrorLit reports whether a mirror has an unobstructed sightline to any
// sun. Asteroids are the only occluders.
func (g *Game) mirrorLit(m *entity.SolarMirror) bool {
	for _, sun := range g.Suns {
		if !physics.SegmentBlocked(sun.Position, m.GetPosition(), g.Asteroids) {
			return true
		}
	}
	return false
}

// mirrorFeedsForge reports whether the mirror can relay light to the forge.
func (g *Game) mirrorFeedsForge(m *entity.SolarMirror, forge *entity.StellarForge) bool {
	return !physics.SegmentBlocked(m.GetPosition(), forge.GetPosition(), g.Asteroids)
}

// refreshLight recomputes every player's mirror power for this tick. A
// mirror contributes only while it is alive, lit by a sun, and has a clear
// relay line to its forge. The forge receives light iff at least one mirror
// contributes; Solarium income accrues from every contributing mirror.
func (g *Game) refreshLight() {
	dt := g.ctx.Dt
	for _, player := range g.Players {
		if player.Defeated || player.Forge == nil {
			continue
		}
		player.Forge.ReceivingLight = false
		player.MirrorPower = 0
		if player.Forge.IsDead() {
			continue
		}
		for _, m := range player.Mirrors {
			if m.IsDead() || !g.mirrorLit(m) || !g.mirrorFeedsForge(m, player.Forge) {
				continue
			}
			player.Forge.ReceivingLight = true
			player.MirrorPower += entity.MirrorBaseRate * m.Efficiency
			player.AddSolarium(m.GenerateSolarium(dt))
		}
	}
}

// updateBuildings advances one player's structures for the tick:
// construction, production, and defensive fire. The forge and foundries
// draw production energy from the tick's mirror power.
func (g *Game) updateBuildings(player *Player) {
	dt := g.ctx.Dt
	energy := player.MirrorPower * dt

	g.updateForge(player, energy)

	candidates := g.enemyTargets(player)
	obs := g.buildObserver(player)

	for _, b := range player.Buildings {
		if b.IsDead() {
			continue
		}
		if !b.Complete {
			b.AccrueConstruction(energy)
			g.ctx.Collect(b.DrainEffects()...)
			continue
		}
		b.AdvanceCooldowns(dt)

		if item, done := b.AdvanceProduction(energy); done {
			g.spawnUnit(player, item, b.GetPosition(), nil)
		}

		if b.Stats.AttackSpeed > 0 && b.CanAttack() {
			if target := g.nearestInRange(b.GetPosition(), b.Stats.AttackRange, candidates, obs); target != nil {
				if proj := b.PerformAttack(target, g.ctx.NewID); proj != nil {
					g.Projectiles = append(g.Projectiles, proj)
				}
			}
		}
		g.ctx.Collect(b.DrainEffects()...)
	}
}

// updateForge drives the forge's production queue with this tick's energy
// and spawns completed units at the forge edge, headed for the rally point.
func (g *Game) updateForge(player *Player, energy float64) {
	forge := player.Forge
	if forge == nil || forge.IsDead() {
		return
	}
	if item, done := forge.AdvanceProduction(energy); done {
		g.spawnUnit(player, item, forge.GetPosition(), forge.RallyPoint)
	}
}

// spawnUnit creates a produced unit next to its structure and publishes the
// production event. The spawn offset points toward the rally point when one
// is set.
func (g *Game) spawnUnit(player *Player, kindName string, origin physics.Vector2D, rally *physics.Vector2D) {
	kind := entity.UnitKindFromString(kindName)
	if kind < 0 {
		return
	}
	dir := physics.Vector2D{X: 1, Y: 0}
	if rally != nil {
		if d := rally.Sub(origin); d.LengthSquared() > 0 {
			dir = d.Normalize()
		}
	}
	stats := entity.UnitStatsFor(kind)
	pos := origin.Add(dir.Scale(entity.ForgeRadius + stats.Radius + 4))

	unit := entity.NewUnit(g.ctx.NewID(), kind, player.ID, pos)
	if rally != nil {
		point := *rally
		unit.RallyPoint = &point
	}
	player.Units = append(player.Units, unit)

	g.EventBus.Publish(event.NewEntityEvent(event.UnitCreated, g, unit.GetID(), player.ID))
	g.EventBus.Publish(event.NewProductionEvent(g, player.ID, kindName))
}

// nearestInRange picks the closest visible candidate within range, with
// iteration order breaking distance ties.
func (g *Game) nearestInRange(from physics.Vector2D, attackRange float64, candidates []entity.CombatTarget, obs vision.Observer) entity.CombatTarget {
	var best entity.CombatTarget
	bestDist := attackRange
	for _, c := range candidates {
		if c.IsDead() || !g.targetVisible(c, obs) {
			continue
		}
		d := from.Distance(c.GetPosition()) - c.GetRadius()
		if d > bestDist {
			continue
		}
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// sweepDeadStructures removes destroyed mirrors, gates, and buildings, and
// retires the forge. Forge destruction defeats the player at the victory
// check.
func (g *Game) sweepDeadStructures(player *Player) {
	liveMirrors := player.Mirrors[:0]
	for _, m := range player.Mirrors {
		if !m.IsDead() {
			liveMirrors = append(liveMirrors, m)
			continue
		}
		player.BuildingsLost++
		g.ctx.Collect(entity.Effect{Kind: entity.EffectDeathBurst, Position: m.GetPosition()})
		g.EventBus.Publish(event.NewEntityEvent(event.BuildingDestroyed, g, m.GetID(), player.ID))
	}
	player.Mirrors = liveMirrors

	liveGates := player.Gates[:0]
	for _, gt := range player.Gates {
		if !gt.IsDead() {
			liveGates = append(liveGates, gt)
			continue
		}
		player.BuildingsLost++
		g.ctx.Collect(entity.Effect{Kind: entity.EffectDeathBurst, Position: gt.GetPosition()})
		g.EventBus.Publish(event.NewEntityEvent(event.BuildingDestroyed, g, gt.GetID(), player.ID))
	}
	player.Gates = liveGates

	liveBuildings := player.Buildings[:0]
	for _, b := range player.Buildings {
		if !b.IsDead() {
			liveBuildings = append(liveBuildings, b)
			continue
		}
		player.BuildingsLost++
		g.ctx.Collect(entity.Effect{Kind: entity.EffectDeathBurst, Position: b.GetPosition()})
		g.EventBus.Publish(event.NewEntityEvent(event.BuildingDestroyed, g, b.GetID(), player.ID))
	}
	player.Buildings = liveBuildings

	if player.Forge != nil && player.Forge.IsDead() && !player.forgeReported {
		player.forgeReported = true
		g.ctx.Collect(entity.Effect{Kind: entity.EffectDeathBurst, Position: player.Forge.GetPosition(), Hero: true})
		g.EventBus.Publish(event.NewEntityEvent(event.ForgeDestroyed, g, player.Forge.GetID(), player.ID))
	}
}

// sweepDead purges dead entities across all players after combat resolves.
func (g *Game) sweepDead() {
	for _, player := range g.Players {
		g.sweepDeadUnits(player)
		g.sweepDeadStructures(player)
	}
}
