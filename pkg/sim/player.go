// pkg/sim/player.go
package sim

import (
	"github.com/opd-ai/go-sol/pkg/entity"
)

// Player owns one forge, a roster of units, and collections of buildings,
// mirrors, and gates. Every entity is exclusively owned by one player for
// its lifetime. Players are always iterated in index order; that order is
// part of the determinism contract.
type Player struct {
	ID      string
	Name    string
	Faction string
	Color   string
	TeamID  int

	Solarium float64

	// MirrorPower is this tick's combined output of contributing mirrors,
	// in Solarium per second. Refreshed by the light pass each tick.
	MirrorPower float64

	Forge     *entity.StellarForge
	Mirrors   []*entity.SolarMirror
	Gates     []*entity.MergeGate
	Units     []*entity.Unit
	Buildings []*entity.Building

	UnitsLost     int
	BuildingsLost int
	Defeated      bool

	// forgeReported latches the forge's death event so the sweep reports a
	// destruction at most once.
	forgeReported bool
}

// AddSolarium credits generated Solarium to the player
func (p *Player) AddSolarium(amount float64) {
	p.Solarium += amount
}

// SpendSolarium attempts to debit the player's Solarium. It returns false
// and leaves the balance untouched when the player cannot afford it.
func (p *Player) SpendSolarium(amount float64) bool {
	if p.Solarium < amount {
		return false
	}
	p.Solarium -= amount
	return true
}

// IsDefeated reports whether the player has lost: no forge, or forge
// destroyed.
func (p *Player) IsDefeated() bool {
	return p.Forge == nil || p.Forge.IsDead()
}

// findUnit returns the player's unit with the given ID, or nil
func (p *Player) findUnit(id entity.ID) *entity.Unit {
	for _, u := range p.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// findBuilding returns the player's building with the given ID, or nil
func (p *Player) findBuilding(id entity.ID) *entity.Building {
	for _, b := range p.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}
