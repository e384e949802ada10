// Package sim implements the deterministic per-tick simulation pipeline for
// SoL. The Game driver pulls released command batches from the lockstep
// queue and advances every sub-system in a fixed, reproducible order:
// command application, light and economy refresh, per-player unit and
// building updates, projectile and beam resolution, authoritative collision
// resolution, dead-entity purging, and finally the non-authoritative dust
// pass. All iteration affecting outcomes uses index order, never map order.
package sim

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-sol/pkg/command"
	"github.com/opd-ai/go-sol/pkg/config"
	"github.com/opd-ai/go-sol/pkg/entity"
	"github.com/opd-ai/go-sol/pkg/event"
	"github.com/opd-ai/go-sol/pkg/logging"
	"github.com/opd-ai/go-sol/pkg/physics"
)

// GameStatus tracks match lifecycle
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

// Game is the authoritative lockstep simulation. Commands enter only
// through SubmitCommand; the transport layer never mutates simulation state
// directly.
type Game struct {
	Config      *config.GameConfig
	Players     []*Player
	Queue       *command.Queue
	Validator   *command.Validator
	EventBus    *event.Bus
	Suns        []entity.Sun
	Asteroids   []physics.Polygon
	Projectiles []*entity.Projectile
	Dust        []*entity.DustParticle

	Status   GameStatus
	WinnerID string

	// CurrentTick counts completed simulation ticks. It trails the queue's
	// current tick by design: the queue advances when it releases a batch,
	// the game when it finishes simulating one.
	CurrentTick uint64

	// IgnoredCommands counts released commands whose type no consumer
	// recognized. Unknown types are accepted on the wire and dropped here.
	IgnoredCommands uint64

	ctx      *SimContext
	dustHash *physics.SpatialHash
	logger   *logging.Logger
}

// NewGame creates a game from configuration. One player is created per
// configured faction, in faction order; that order is the lockstep player
// ordering shared by all peers.
func NewGame(cfg *config.GameConfig, logger *logging.Logger) *Game {
	g := &Game{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		ctx:      NewSimContext(1.0/float64(cfg.TickRate), cfg.Seed),
		logger:   logger,
	}

	g.initWorld()
	g.initPlayers()

	queueCfg := command.QueueConfig{
		MaxFutureTicks: cfg.Lockstep.MaxFutureTicks,
		TimeoutTicks:   cfg.Lockstep.TimeoutTicks,
		RetentionTicks: cfg.Lockstep.RetentionTicks,
	}
	g.Queue = command.NewQueue(queueCfg, g.playerIDs(), logger)
	g.Validator = command.NewValidator(cfg.Lockstep.MaxCommandsPerTick, logger)

	return g
}

// NewStandardGame creates the standard two-player match: one central sun,
// each faction starting with a forge, two mirrors, and one unit.
func NewStandardGame(logger *logging.Logger) *Game {
	return NewGame(config.DefaultConfig(), logger)
}

// initWorld creates the suns and asteroid occluders from configuration.
func (g *Game) initWorld() {
	for _, sc := range g.Config.Suns {
		g.Suns = append(g.Suns, entity.Sun{
			Position:  physics.Vector2D{X: sc.X, Y: sc.Y},
			Intensity: sc.Intensity,
			Radius:    sc.Radius,
		})
	}
	for _, ac := range g.Config.Asteroids {
		poly := physics.Polygon{}
		for _, v := range ac.Vertices {
			poly.Vertices = append(poly.Vertices, physics.Vector2D{X: v[0], Y: v[1]})
		}
		g.Asteroids = append(g.Asteroids, poly)
	}
}

// initPlayers creates one player per configured faction with the standard
// starting structures: a forge and two mirrors offset toward the map center.
func (g *Game) initPlayers() {
	for i, fc := range g.Config.Factions {
		forgePos := physics.Vector2D{X: fc.ForgeX, Y: fc.ForgeY}
		player := &Player{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fc.Name,
			Faction:  fc.Name,
			Color:    fc.Color,
			TeamID:   i,
			Solarium: g.Config.Rules.StartingSolarium,
		}
		player.Forge = entity.NewStellarForge(g.ctx.NewID(), player.ID, forgePos)

		// Mirrors sit between the forge and the map center.
		toward := physics.Vector2D{}.Sub(forgePos).Normalize()
		for m := 0; m < 2; m++ {
			offset := toward.Scale(float64(50 + m*50))
			mirror := entity.NewSolarMirror(g.ctx.NewID(), player.ID, forgePos.Add(offset))
			player.Mirrors = append(player.Mirrors, mirror)
		}

		if kind := entity.UnitKindFromString(fc.StartingUnit); kind >= 0 {
			pos := forgePos.Add(toward.Scale(entity.ForgeRadius + 20))
			unit := entity.NewUnit(g.ctx.NewID(), kind, player.ID, pos)
			player.Units = append(player.Units, unit)
		}

		g.Players = append(g.Players, player)
	}
}

// playerIDs returns player IDs in index order
func (g *Game) playerIDs() []string {
	ids := make([]string, len(g.Players))
	for i, p := range g.Players {
		ids[i] = p.ID
	}
	return ids
}

// PlayerByID returns the player with the given ID, or nil
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Start marks the match active
func (g *Game) Start() {
	g.Status = GameStatusActive
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: g})
}

// SubmitCommand is the single entry point for commands from the transport
// layer: validation first, then the queue's window rules. It reports whether
// the command was accepted.
func (g *Game) SubmitCommand(cmd command.Command) bool {
	if !g.Validator.Validate(cmd) {
		g.EventBus.Publish(event.NewCommandEvent(g, cmd.Tick, cmd.PlayerID, "validation"))
		return false
	}
	if !g.Queue.AddCommand(cmd) {
		g.EventBus.Publish(event.NewCommandEvent(g, cmd.Tick, cmd.PlayerID, "window"))
		return false
	}
	return true
}

// Step attempts to advance the simulation by one tick. It returns false
// without touching simulation state when the queue has no ready tick; the
// caller polls again later. Each successful step consumes exactly one
// released command batch.
func (g *Game) Step() bool {
	if g.Status == GameStatusEnded {
		return false
	}

	missedBefore := g.Queue.MissedCommands()
	missing := g.Queue.MissingPlayersForTick()
	cmds := g.Queue.NextTickCommands()
	if cmds == nil {
		return false
	}
	if g.Queue.MissedCommands() > missedBefore {
		g.EventBus.Publish(event.NewTickEvent(event.TickDegraded, g, g.CurrentTick, missing))
	}

	g.runTick(cmds)
	g.Validator.Sweep(g.Queue.CurrentTick())
	return true
}

// runTick executes the fixed-order pipeline for one tick.
func (g *Game) runTick(cmds []command.Command) {
	dt := g.ctx.Dt

	g.applyCommands(cmds)
	g.refreshLight()

	for _, player := range g.Players {
		if player.Defeated {
			continue
		}
		g.updateUnits(player)
		g.updateBuildings(player)
	}

	g.updateCombat(dt)

	g.resolveUnitUnitCollisions()
	g.resolveUnitObstacleCollisions()
	g.applyKnockback(dt)

	g.sweepDead()
	g.updateDust(dt)

	g.checkVictory()
	g.CurrentTick++
}

// applyCommands dispatches a tick's released command batch in its
// deterministic order. Unknown command types are counted and ignored here,
// never rejected at the queue.
func (g *Game) applyCommands(cmds []command.Command) {
	for _, cmd := range cmds {
		player := g.PlayerByID(cmd.PlayerID)
		if player == nil || player.Defeated {
			continue
		}
		g.applyCommand(player, cmd)
	}
}

// checkVictory ends the game when at most one undefeated player remains.
func (g *Game) checkVictory() {
	if g.Status != GameStatusActive {
		return
	}

	for _, p := range g.Players {
		if !p.Defeated && p.IsDefeated() {
			p.Defeated = true
			g.EventBus.Publish(event.NewEntityEvent(event.PlayerDefeated, g, 0, p.ID))
		}
	}

	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Defeated {
			alive = append(alive, p)
		}
	}
	if len(alive) > 1 {
		return
	}

	g.Status = GameStatusEnded
	if len(alive) == 1 {
		g.WinnerID = alive[0].ID
	}
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameEnded, Source: g})
	if g.logger != nil {
		g.logger.Info(context.Background(), "game ended",
			"winner", g.WinnerID, "tick", g.CurrentTick)
	}
}
