package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// updateCombat advances projectiles and resolves beams for the tick, in a
// fixed order: motion first, then absorption, then blocking, then hit
// detection, then splash on terminal mortars. Terminal projectiles are
// filtered at the end; nothing holds a reference past this tick.
func (g *Game) updateCombat(dt float64) {
	for _, p := range g.Projectiles {
		if p.Terminal() {
			continue
		}
		prev := p.Position
		p.Advance(dt)
		if p.State == entity.StateActive {
			g.resolveProjectile(p, prev)
		}
		// Mortars splash on hit or expiry only. An absorbed or blocked
		// projectile has already spent its damage on the defense.
		if (p.State == entity.StateHit || p.State == entity.StateExpired) && p.Splashes() {
			g.applySplash(p)
		}
	}

	g.resolveBeams()

	live := g.Projectiles[:0]
	for _, p := range g.Projectiles {
		if !p.Terminal() {
			live = append(live, p)
		}
	}
	g.Projectiles = live
}

// resolveProjectile runs one active projectile through the interception
// chain for its step from prev to its current position. Precedence is
// fixed: absorption wells first, then directional shields, then gate
// fields, then perimeter shields, then target hits. The first interception
// terminates the projectile.
func (g *Game) resolveProjectile(p *entity.Projectile, prev physics.Vector2D) {
	owner := g.PlayerByID(p.OwnerID)

	if g.absorbProjectile(p, owner) {
		return
	}
	if g.blockProjectile(p, prev, owner) {
		return
	}
	g.hitProjectile(p, owner)
}

// absorbProjectile checks enemy AegisWell fields. An absorbing well takes
// no damage but its field shrinks with each absorbed hit.
func (g *Game) absorbProjectile(p *entity.Projectile, owner *Player) bool {
	for _, player := range g.Players {
		if owner != nil && g.isAlly(owner, player) {
			continue
		}
		for _, b := range player.Buildings {
			if b.Kind != entity.AegisWell || b.IsDead() || !b.Complete {
				continue
			}
			if p.Position.Distance(b.GetPosition()) > b.InfluenceRadius {
				continue
			}
			p.State = entity.StateAbsorbed
			b.Absorb(p.Damage)
			g.ctx.Collect(entity.Effect{Kind: entity.EffectShieldFlare, Position: p.Position, Amount: p.Damage})
			return true
		}
	}
	return false
}

// blockProjectile checks shield geometry in precedence order: Palisade
// segments, MergeGate pair fields, then Bulwark perimeters. A blocking
// structure absorbs the projectile's damage into its own health.
func (g *Game) blockProjectile(p *entity.Projectile, prev physics.Vector2D, owner *Player) bool {
	for _, player := range g.Players {
		if owner != nil && g.isAlly(owner, player) {
			continue
		}
		for _, b := range player.Buildings {
			if b.Kind != entity.Palisade || b.IsDead() || !b.Complete {
				continue
			}
			a, bEnd := b.ShieldSegment()
			if physics.SegmentsIntersect(prev, p.Position, a, bEnd) {
				g.terminateBlocked(p, b)
				return true
			}
		}
	}

	for _, player := range g.Players {
		if owner != nil && g.isAlly(owner, player) {
			continue
		}
		for i, ga := range player.Gates {
			if ga.IsDead() {
				continue
			}
			for _, gb := range player.Gates[i+1:] {
				if gb.IsDead() || ga.PairID != gb.GetID() {
					continue
				}
				if physics.SegmentsIntersect(prev, p.Position, ga.GetPosition(), gb.GetPosition()) {
					g.terminateBlocked(p, ga)
					return true
				}
			}
		}
	}

	for _, player := range g.Players {
		if owner != nil && g.isAlly(owner, player) {
			continue
		}
		for _, b := range player.Buildings {
			if b.Kind != entity.Bulwark || b.IsDead() || !b.Complete {
				continue
			}
			d := p.Position.Distance(b.GetPosition())
			if d <= b.Stats.ShieldRadius && prev.Distance(b.GetPosition()) > b.Stats.ShieldRadius {
				g.terminateBlocked(p, b)
				return true
			}
		}
	}
	return false
}

// terminateBlocked marks the projectile blocked and damages the blocker.
func (g *Game) terminateBlocked(p *entity.Projectile, blocker entity.CombatTarget) {
	p.State = entity.StateBlocked
	blocker.TakeDamage(p.Damage)
	g.ctx.Collect(entity.Effect{Kind: entity.EffectShieldFlare, Position: p.Position, Amount: p.Damage})
}

// hitProjectile applies the first overlapping enemy target, in the
// deterministic candidate order. Friendly entities never intercept.
func (g *Game) hitProjectile(p *entity.Projectile, owner *Player) {
	if owner == nil {
		return
	}
	for _, target := range g.enemyTargets(owner) {
		if target.IsDead() {
			continue
		}
		if p.Position.Distance(target.GetPosition()) > p.Radius+target.GetRadius() {
			continue
		}
		p.State = entity.StateHit
		if !p.Splashes() {
			target.TakeDamage(p.Damage)
			g.ctx.Collect(entity.Effect{
				Kind:     entity.EffectDamageNumber,
				Position: target.GetPosition(),
				Amount:   p.Damage,
			})
		}
		return
	}
}

// applySplash damages every enemy target within the splash radius with
// linear falloff down to the configured minimum fraction at the rim.
func (g *Game) applySplash(p *entity.Projectile) {
	owner := g.PlayerByID(p.OwnerID)
	if owner == nil {
		return
	}
	minFrac := g.Config.Rules.SplashMinFraction
	for _, target := range g.enemyTargets(owner) {
		if target.IsDead() {
			continue
		}
		d := p.Position.Distance(target.GetPosition()) - target.GetRadius()
		if d < 0 {
			d = 0
		}
		if d > p.SplashRadius {
			continue
		}
		frac := 1.0 - (1.0-minFrac)*(d/p.SplashRadius)
		dmg := p.Damage * frac
		target.TakeDamage(dmg)
		g.ctx.Collect(entity.Effect{
			Kind:     entity.EffectDamageNumber,
			Position: target.GetPosition(),
			Amount:   dmg,
		})
	}
	g.ctx.Collect(entity.Effect{Kind: entity.EffectDeathBurst, Position: p.Position})
}

// resolveBeams applies every beam fired this tick to the closest enemy
// intersecting the beam line, leaving a trace effect either way. Beams
// ignore shields; they are instant light, not matter.
func (g *Game) resolveBeams() {
	for _, beam := range g.ctx.Beams {
		owner := g.PlayerByID(beam.OwnerID)
		if owner == nil {
			continue
		}

		var best entity.CombatTarget
		bestDist := -1.0
		for _, target := range g.enemyTargets(owner) {
			if target.IsDead() {
				continue
			}
			if physics.PointSegmentDistance(target.GetPosition(), beam.Start, beam.End) > beam.HalfWidth+target.GetRadius() {
				continue
			}
			d := beam.Start.Distance(target.GetPosition())
			if best == nil || d < bestDist {
				best = target
				bestDist = d
			}
		}

		end := beam.End
		if best != nil {
			best.TakeDamage(beam.Damage)
			end = best.GetPosition()
			g.ctx.Collect(entity.Effect{
				Kind:     entity.EffectDamageNumber,
				Position: best.GetPosition(),
				Amount:   beam.Damage,
			})
		}
		g.ctx.Collect(entity.Effect{Kind: entity.EffectBeamTrace, Position: beam.Start, End: end})
	}
	g.ctx.Beams = nil
}
