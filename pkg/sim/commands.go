package sim

import (
	"context"
	"encoding/json"
	"math"

	"github.com/opd-ai/go-sol/pkg/command"
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/event"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// decoySpawnCount is how many decoys a Herald scatters per ability use.
const decoySpawnCount = 3

// decoyAbilityCooldown in seconds between Herald ability uses.
const decoyAbilityCooldown = 12.0

// applyCommand mutates the issuing player's state according to one released
// command. Malformed payloads and unknown types are counted and ignored;
// they are never grounds for desync because every peer applies the same
// rule to the same bytes.
func (g *Game) applyCommand(player *Player, cmd command.Command) {
	switch cmd.Type {
	case command.TypeMove:
		g.applyMove(player, cmd)
	case command.TypeRally:
		g.applyRally(player, cmd)
	case command.TypeTarget:
		g.applyTarget(player, cmd)
	case command.TypeProduce:
		g.applyProduce(player, cmd)
	case command.TypeBuild:
		g.applyBuild(player, cmd)
	case command.TypeAbility:
		g.applyAbility(player, cmd)
	default:
		g.IgnoredCommands++
		if g.logger != nil {
			g.logger.Debug(context.Background(), "ignoring unknown command type",
				"type", cmd.Type, "player", cmd.PlayerID, "tick", cmd.Tick)
		}
	}
}

// applyMove sets the rally point for the addressed units and clears any
// stale waypoint path.
func (g *Game) applyMove(player *Player, cmd command.Command) {
	var p command.MovePayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	dest := physics.Vector2D{X: p.X, Y: p.Y}
	for _, id := range p.UnitIDs {
		unit := player.findUnit(id)
		if unit == nil || unit.IsDead() {
			continue
		}
		point := dest
		unit.RallyPoint = &point
		unit.Waypoints = nil
		unit.ManualTargetID = 0
	}
}

// applyRally sets the forge's spawn rally point.
func (g *Game) applyRally(player *Player, cmd command.Command) {
	var p command.MovePayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	if player.Forge == nil || player.Forge.IsDead() {
		return
	}
	point := physics.Vector2D{X: p.X, Y: p.Y}
	player.Forge.RallyPoint = &point
}

// applyTarget sets a manual combat target. The target must belong to an
// enemy; self-targeting orders are ignored.
func (g *Game) applyTarget(player *Player, cmd command.Command) {
	var p command.TargetPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	target := g.findCombatTarget(p.TargetID)
	if target == nil || target.GetOwner() == player.ID {
		return
	}
	for _, id := range p.UnitIDs {
		unit := player.findUnit(id)
		if unit == nil || unit.IsDead() {
			continue
		}
		unit.ManualTargetID = p.TargetID
	}
}

// applyProduce enqueues a unit on the forge or a foundry, spending the unit
// cost up front. Orders the player cannot afford are dropped.
func (g *Game) applyProduce(player *Player, cmd command.Command) {
	var p command.ProducePayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	kind := entity.UnitKindFromString(p.UnitKind)
	if kind < 0 {
		g.IgnoredCommands++
		return
	}
	cost := entity.UnitStatsFor(kind).Cost

	if player.Forge != nil && player.Forge.GetID() == p.StructureID {
		if !player.Forge.IsDead() && player.SpendSolarium(cost) {
			player.Forge.EnqueueUnit(p.UnitKind)
		}
		return
	}
	if b := player.findBuilding(p.StructureID); b != nil && b.Kind == entity.Foundry && b.Complete {
		if player.SpendSolarium(cost) {
			b.EnqueueProduction(p.UnitKind)
		}
	}
}

// applyBuild places a building site at the requested position. Construction
// progress accrues from mirror energy afterwards; the full cost is paid at
// placement. Placements overlapping an obstacle or another entity fail.
func (g *Game) applyBuild(player *Player, cmd command.Command) {
	var p command.BuildPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	kind := entity.BuildingKindFromString(p.BuildingKind)
	if kind < 0 {
		g.IgnoredCommands++
		return
	}
	pos := physics.Vector2D{X: p.X, Y: p.Y}
	stats := entity.BuildingStatsFor(kind)
	if g.CheckCollision(pos, stats.Radius, 0) {
		return
	}
	if !player.SpendSolarium(stats.Cost) {
		return
	}
	b := entity.NewBuilding(g.ctx.NewID(), kind, player.ID, pos)
	if kind == entity.Palisade {
		// Shield faces away from the owner's forge.
		if player.Forge != nil {
			b.Facing = pos.Sub(player.Forge.GetPosition()).Angle()
		}
	}
	player.Buildings = append(player.Buildings, b)
}

// applyAbility triggers a hero ability. The only ability is the Herald's
// decoy scatter: a ring of short-lived bait units around the hero.
func (g *Game) applyAbility(player *Player, cmd command.Command) {
	var p command.TargetPayload
	if err := json.Unmarshal(cmd.Payload, &p); err != nil {
		g.IgnoredCommands++
		return
	}
	for _, id := range p.UnitIDs {
		unit := player.findUnit(id)
		if unit == nil || unit.IsDead() || !unit.IsHero() {
			continue
		}
		if !unit.TryAbility(decoyAbilityCooldown) {
			continue
		}
		for i := 0; i < decoySpawnCount; i++ {
			angle := unit.Rotation + float64(i)*2*math.Pi/decoySpawnCount
			offset := physics.FromAngle(angle, unit.GetRadius()+20)
			decoy := entity.NewUnit(g.ctx.NewID(), entity.Decoy, player.ID, unit.GetPosition().Add(offset))
			player.Units = append(player.Units, decoy)
			g.EventBus.Publish(event.NewEntityEvent(event.UnitCreated, g, decoy.GetID(), player.ID))
		}
	}
}

// findCombatTarget resolves an entity ID against every player's targetable
// entities, in player index order.
func (g *Game) findCombatTarget(id entity.ID) entity.CombatTarget {
	for _, p := range g.Players {
		if u := p.findUnit(id); u != nil {
			return u
		}
		if b := p.findBuilding(id); b != nil {
			return b
		}
		if p.Forge != nil && p.Forge.GetID() == id {
			return p.Forge
		}
		for _, m := range p.Mirrors {
			if m.GetID() == id {
				return m
			}
		}
		for _, gt := range p.Gates {
			if gt.GetID() == id {
				return gt
			}
		}
	}
	return nil
}
