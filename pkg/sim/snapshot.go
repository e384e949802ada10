package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// Snapshot structures describe one tick's world state for the rendering
// collaborator. They are plain data: taking a snapshot never mutates the
// simulation except for draining the one-shot effect collection.

type UnitSnapshot struct {
	ID       entity.ID        `json:"id"`
	Kind     string           `json:"kind"`
	OwnerID  string           `json:"ownerId"`
	Position physics.Vector2D `json:"position"`
	Rotation float64          `json:"rotation"`
	Health   float64          `json:"health"`
	Max      float64          `json:"maxHealth"`
	Cloaked  bool             `json:"cloaked,omitempty"`
	Hero     bool             `json:"hero,omitempty"`
}

type StructureSnapshot struct {
	ID        entity.ID        `json:"id"`
	Kind      string           `json:"kind"`
	OwnerID   string           `json:"ownerId"`
	Position  physics.Vector2D `json:"position"`
	Health    float64          `json:"health"`
	Max       float64          `json:"maxHealth"`
	Progress  float64          `json:"progress,omitempty"`
	Complete  bool             `json:"complete"`
	Influence float64          `json:"influence,omitempty"`
}

type ProjectileSnapshot struct {
	ID       entity.ID        `json:"id"`
	OwnerID  string           `json:"ownerId"`
	Position physics.Vector2D `json:"position"`
}

type PlayerSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Faction  string  `json:"faction"`
	Solarium float64 `json:"solarium"`
	Defeated bool    `json:"defeated"`
}

// GameSnapshot is the full per-tick state handed to clients.
type GameSnapshot struct {
	Tick        uint64               `json:"tick"`
	Status      GameStatus           `json:"status"`
	WinnerID    string               `json:"winnerId,omitempty"`
	Players     []PlayerSnapshot     `json:"players"`
	Units       []UnitSnapshot       `json:"units"`
	Structures  []StructureSnapshot  `json:"structures"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Effects     []entity.Effect      `json:"effects,omitempty"`
}

// Snapshot captures the current world state and drains the tick's effect
// collection. Calling it twice for one tick yields the same state but no
// effects the second time.
func (g *Game) Snapshot() GameSnapshot {
	snap := GameSnapshot{
		Tick:     g.CurrentTick,
		Status:   g.Status,
		WinnerID: g.WinnerID,
		Effects:  g.ctx.DrainEffects(),
	}

	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Faction:  p.Faction,
			Solarium: p.Solarium,
			Defeated: p.Defeated,
		})

		for _, u := range p.Units {
			snap.Units = append(snap.Units, UnitSnapshot{
				ID:       u.GetID(),
				Kind:     u.Kind.String(),
				OwnerID:  p.ID,
				Position: u.Position,
				Rotation: u.Rotation,
				Health:   u.GetHealth(),
				Max:      u.MaxHealth,
				Cloaked:  u.IsCloaked(),
				Hero:     u.IsHero(),
			})
		}

		if p.Forge != nil && !p.Forge.IsDead() {
			snap.Structures = append(snap.Structures, StructureSnapshot{
				ID:        p.Forge.GetID(),
				Kind:      "StellarForge",
				OwnerID:   p.ID,
				Position:  p.Forge.GetPosition(),
				Health:    p.Forge.GetHealth(),
				Max:       p.Forge.MaxHealth,
				Complete:  true,
				Influence: p.Forge.InfluenceRadius,
			})
		}
		for _, m := range p.Mirrors {
			snap.Structures = append(snap.Structures, StructureSnapshot{
				ID:       m.GetID(),
				Kind:     "SolarMirror",
				OwnerID:  p.ID,
				Position: m.GetPosition(),
				Health:   m.GetHealth(),
				Max:      m.MaxHealth,
				Complete: true,
			})
		}
		for _, gt := range p.Gates {
			snap.Structures = append(snap.Structures, StructureSnapshot{
				ID:       gt.GetID(),
				Kind:     "MergeGate",
				OwnerID:  p.ID,
				Position: gt.GetPosition(),
				Health:   gt.GetHealth(),
				Max:      gt.MaxHealth,
				Complete: true,
			})
		}
		for _, b := range p.Buildings {
			snap.Structures = append(snap.Structures, StructureSnapshot{
				ID:        b.GetID(),
				Kind:      b.Kind.String(),
				OwnerID:   p.ID,
				Position:  b.GetPosition(),
				Health:    b.GetHealth(),
				Max:       b.MaxHealth,
				Progress:  b.BuildProgress,
				Complete:  b.Complete,
				Influence: b.InfluenceRadius,
			})
		}
	}

	for _, pr := range g.Projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:       pr.ID,
			OwnerID:  pr.OwnerID,
			Position: pr.Position,
		})
	}

	return snap
}
