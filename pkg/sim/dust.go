package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// Dust tuning. Dust is cosmetic: no gameplay outcome reads dust state, but
// the pass still runs identically on every peer because it shares the
// simulation's RNG stream.
const (
	dustTarget     = 200
	dustLifeMin    = 4.0
	dustLifeSpread = 6.0
	dustPushRange  = 50.0
	dustPushPower  = 30.0
	dustCellSize   = 64.0
	dustDrag       = 0.6
)

// updateDust advances the ambient dust field: particles age out and
// respawn, drift with drag, and get shoved by moving units. Units are
// bucketed in a spatial hash so each particle only scans nearby movers.
func (g *Game) updateDust(dt float64) {
	if g.dustHash == nil {
		g.dustHash = physics.NewSpatialHash(dustCellSize)
	}

	movers := make([]*entity.Unit, 0, 32)
	for _, u := range g.allUnits() {
		if u.Velocity.LengthSquared() > 0 {
			movers = append(movers, u)
		}
	}
	g.dustHash.Clear()
	for i, u := range movers {
		g.dustHash.Insert(i, u.Position)
	}

	live := g.Dust[:0]
	for _, d := range g.Dust {
		d.Lifetime += dt
		if !d.Alive() {
			continue
		}

		for _, idx := range g.dustHash.Neighbors(d.Position) {
			u := movers[idx]
			away := d.Position.Sub(u.Position)
			distSq := away.LengthSquared()
			if distSq == 0 || distSq > dustPushRange*dustPushRange {
				continue
			}
			falloff := 1.0 - distSq/(dustPushRange*dustPushRange)
			push := away.Scale(falloff * dustPushPower / distSq)
			drift := u.Velocity.Scale(0.1 * falloff)
			d.Velocity = d.Velocity.Add(push).Add(drift)
		}

		d.Velocity = d.Velocity.Scale(1.0 - dustDrag*dt)
		d.Position = d.Position.Add(d.Velocity.Scale(dt))
		live = append(live, d)
	}
	g.Dust = live

	half := g.Config.WorldSize / 2
	for len(g.Dust) < dustTarget {
		g.Dust = append(g.Dust, &entity.DustParticle{
			Position: physics.Vector2D{
				X: (g.ctx.Rand.Float64()*2 - 1) * half,
				Y: (g.ctx.Rand.Float64()*2 - 1) * half,
			},
			MaxLifetime: dustLifeMin + g.ctx.Rand.Float64()*dustLifeSpread,
		})
	}
}
