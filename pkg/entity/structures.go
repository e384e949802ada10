// pkg/entity/structures.go
package entity

import "github.com/opd-ai/go-sol/pkg/physics"

// Stellar forge and mirror tuning, from the SoL prototype balance.
const (
	ForgeMaxHealth  = 1000.0
	ForgeRadius     = 40.0
	ForgeInfluence  = 180.0
	MirrorMaxHealth = 100.0
	MirrorRadius    = 12.0

	// MirrorBaseRate is Solarium generated per second by a fully efficient
	// mirror with clear sightlines.
	MirrorBaseRate = 10.0

	GateMaxHealth = 200.0
	GateRadius    = 12.0
)

// StellarForge is a player's base structure: it produces units when
// receiving reflected light, projects an influence radius, and its
// destruction defeats the player.
type StellarForge struct {
	Base
	InfluenceRadius float64

	// ReceivingLight is refreshed every tick from mirror sightlines.
	ReceivingLight bool

	// Production is strict FIFO with one active item. Progress persists
	// across ticks even when light is temporarily lost.
	Queue           []string
	ProduceProgress float64
	RallyPoint      *physics.Vector2D
}

// NewStellarForge creates a forge at full health
func NewStellarForge(id ID, ownerID string, position physics.Vector2D) *StellarForge {
	return &StellarForge{
		Base: Base{
			ID:        id,
			OwnerID:   ownerID,
			Position:  position,
			Radius:    ForgeRadius,
			Health:    ForgeMaxHealth,
			MaxHealth: ForgeMaxHealth,
		},
		InfluenceRadius: ForgeInfluence,
	}
}

// CanProduce reports whether the forge can advance production: it must be
// alive and receiving light.
func (f *StellarForge) CanProduce() bool {
	return f.ReceivingLight && !f.IsDead()
}

// EnqueueUnit appends a unit kind to the production queue
func (f *StellarForge) EnqueueUnit(unitKind string) {
	f.Queue = append(f.Queue, unitKind)
}

// AdvanceProduction feeds production energy into the active queue item and
// returns the produced unit kind and true on completion. No energy is
// consumed while the queue is empty or the forge is dark.
func (f *StellarForge) AdvanceProduction(energy float64) (string, bool) {
	if !f.CanProduce() || len(f.Queue) == 0 {
		return "", false
	}
	cost := getUnitStats(UnitKindFromString(f.Queue[0])).Cost
	if cost <= 0 {
		cost = 1
	}
	f.ProduceProgress += energy / cost
	if f.ProduceProgress < 1 {
		return "", false
	}
	item := f.Queue[0]
	f.Queue = f.Queue[1:]
	f.ProduceProgress = 0
	return item, true
}

// SolarMirror reflects sunlight to its owner's forge, generating Solarium
// while it has unobstructed sightlines to both a sun and the forge.
type SolarMirror struct {
	Base
	Efficiency float64
}

// NewSolarMirror creates a mirror at full efficiency
func NewSolarMirror(id ID, ownerID string, position physics.Vector2D) *SolarMirror {
	return &SolarMirror{
		Base: Base{
			ID:        id,
			OwnerID:   ownerID,
			Position:  position,
			Radius:    MirrorRadius,
			Health:    MirrorMaxHealth,
			MaxHealth: MirrorMaxHealth,
		},
		Efficiency: 1.0,
	}
}

// GenerateSolarium returns the Solarium produced over the time step
func (m *SolarMirror) GenerateSolarium(deltaTime float64) float64 {
	return MirrorBaseRate * m.Efficiency * deltaTime
}

// MergeGate is one emitter of a paired area-shield field. Two gates with
// matching pair IDs project a shield segment between them.
type MergeGate struct {
	Base
	PairID ID
}

// NewMergeGate creates a gate emitter
func NewMergeGate(id ID, ownerID string, position physics.Vector2D, pairID ID) *MergeGate {
	return &MergeGate{
		Base: Base{
			ID:        id,
			OwnerID:   ownerID,
			Position:  position,
			Radius:    GateRadius,
			Health:    GateMaxHealth,
			MaxHealth: GateMaxHealth,
		},
		PairID: pairID,
	}
}
