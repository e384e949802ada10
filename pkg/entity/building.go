// pkg/entity/building.go
package entity

import "github.com/opd-ai/go-sol/pkg/physics"

// BuildingKind defines the type of building
type BuildingKind int

const (
	// Bastion is a defensive attack tower.
	Bastion BuildingKind = iota
	// AegisWell consumes enemy projectiles inside its influence radius,
	// shrinking the radius as it absorbs.
	AegisWell
	// Palisade projects a deployed directional shield segment.
	Palisade
	// Bulwark carries a perimeter shield that blocks incoming projectiles.
	Bulwark
	// Foundry produces units from a FIFO queue once complete.
	Foundry
)

// String returns the building kind name
func (k BuildingKind) String() string {
	switch k {
	case Bastion:
		return "Bastion"
	case AegisWell:
		return "AegisWell"
	case Palisade:
		return "Palisade"
	case Bulwark:
		return "Bulwark"
	case Foundry:
		return "Foundry"
	default:
		return "Unknown"
	}
}

// BuildingKindFromString converts a string to a BuildingKind enum value.
// Unknown names yield a negative value.
func BuildingKindFromString(s string) BuildingKind {
	switch s {
	case "Bastion":
		return Bastion
	case "AegisWell":
		return AegisWell
	case "Palisade":
		return Palisade
	case "Bulwark":
		return Bulwark
	case "Foundry":
		return Foundry
	default:
		return -1
	}
}

// BuildingStats contains the base statistics for a building kind
type BuildingStats struct {
	MaxHealth       float64
	Radius          float64
	Cost            float64
	AttackRange     float64
	AttackDamage    float64
	AttackSpeed     float64
	InfluenceRadius float64 // AegisWell absorption field
	ShieldRadius    float64 // Bulwark perimeter shield
	ShieldLength    float64 // Palisade directional segment
	Produces        bool
}

// MinInfluenceRadius bounds how far an AegisWell's field can shrink.
const MinInfluenceRadius = 20.0

// Building is a stationary player-owned structure. It cannot attack,
// absorb, shield, or produce until construction completes.
type Building struct {
	Base
	Kind  BuildingKind
	Stats BuildingStats

	// BuildProgress runs 0..1, driven by accumulated construction energy.
	// Progress persists even when the energy source is lost.
	BuildProgress float64
	Complete      bool

	// InfluenceRadius is the current absorption field size for AegisWells.
	InfluenceRadius float64

	// Facing orients a Palisade's shield segment.
	Facing float64

	// Production state for producing kinds: strict FIFO, one active item.
	Queue           []string
	ProduceProgress float64

	TargetID   ID
	attackCool float64
	pending    []Effect
}

// NewBuilding creates an unconstructed building of the given kind
func NewBuilding(id ID, kind BuildingKind, ownerID string, position physics.Vector2D) *Building {
	stats := getBuildingStats(kind)
	return &Building{
		Base: Base{
			ID:        id,
			OwnerID:   ownerID,
			Position:  position,
			Radius:    stats.Radius,
			Health:    stats.MaxHealth,
			MaxHealth: stats.MaxHealth,
		},
		Kind:            kind,
		Stats:           stats,
		InfluenceRadius: stats.InfluenceRadius,
	}
}

// AccrueConstruction advances build progress by the given construction
// energy. Completion latches; progress never rolls back.
func (b *Building) AccrueConstruction(energy float64) {
	if b.Complete {
		return
	}
	if b.Stats.Cost <= 0 {
		b.BuildProgress = 1
	} else {
		b.BuildProgress += energy / b.Stats.Cost
	}
	if b.BuildProgress >= 1 {
		b.BuildProgress = 1
		b.Complete = true
	}
}

// AdvanceCooldowns ticks down the attack cooldown
func (b *Building) AdvanceCooldowns(deltaTime float64) {
	if b.attackCool > 0 {
		b.attackCool -= deltaTime
		if b.attackCool < 0 {
			b.attackCool = 0
		}
	}
}

// CanAttack reports whether the building may fire this tick
func (b *Building) CanAttack() bool {
	return b.Complete && b.Stats.AttackSpeed > 0 && b.attackCool <= 0
}

// PerformAttack fires a bolt at the target and starts the cooldown
func (b *Building) PerformAttack(target CombatTarget, newID Allocator) *Projectile {
	if !b.CanAttack() {
		return nil
	}
	b.attackCool = 1.0 / b.Stats.AttackSpeed
	b.AddEffect(Effect{Kind: EffectMuzzleFlash, Position: b.Position})
	dir := target.GetPosition().Sub(b.Position).Normalize()
	return NewProjectile(newID(), ProjectileBolt, b.OwnerID, b.Position, dir, b.Stats.AttackDamage)
}

// Absorb consumes a projectile's damage into the influence field, shrinking
// it proportionally, bounded at the minimum radius.
func (b *Building) Absorb(damage float64) {
	b.InfluenceRadius -= damage * 0.5
	if b.InfluenceRadius < MinInfluenceRadius {
		b.InfluenceRadius = MinInfluenceRadius
	}
}

// CanProduce reports whether the building can advance its production queue
func (b *Building) CanProduce() bool {
	return b.Complete && b.Stats.Produces && !b.IsDead()
}

// EnqueueProduction appends a unit kind to the FIFO production queue
func (b *Building) EnqueueProduction(unitKind string) {
	b.Queue = append(b.Queue, unitKind)
}

// AdvanceProduction feeds production energy into the active (front) queue
// item. It returns the produced item and true on completion.
func (b *Building) AdvanceProduction(energy float64) (string, bool) {
	if !b.CanProduce() || len(b.Queue) == 0 {
		return "", false
	}
	cost := getUnitStats(UnitKindFromString(b.Queue[0])).Cost
	if cost <= 0 {
		cost = 1
	}
	b.ProduceProgress += energy / cost
	if b.ProduceProgress < 1 {
		return "", false
	}
	item := b.Queue[0]
	b.Queue = b.Queue[1:]
	b.ProduceProgress = 0
	return item, true
}

// ShieldSegment returns the endpoints of a Palisade's directional shield
func (b *Building) ShieldSegment() (physics.Vector2D, physics.Vector2D) {
	half := physics.FromAngle(b.Facing, b.Stats.ShieldLength/2)
	return b.Position.Sub(half), b.Position.Add(half)
}

// AddEffect buffers a side-effect output for this tick
func (b *Building) AddEffect(e Effect) {
	b.pending = append(b.pending, e)
}

// DrainEffects returns the building's buffered effects and clears the buffer
func (b *Building) DrainEffects() []Effect {
	out := b.pending
	b.pending = nil
	return out
}

// BuildingStatsFor returns the base statistics for a building kind without
// creating a building.
func BuildingStatsFor(kind BuildingKind) BuildingStats {
	return getBuildingStats(kind)
}

// getBuildingStats returns the base statistics for a building kind
func getBuildingStats(kind BuildingKind) BuildingStats {
	switch kind {
	case Bastion:
		return BuildingStats{
			MaxHealth:    400,
			Radius:       22,
			Cost:         150,
			AttackRange:  200,
			AttackDamage: 18,
			AttackSpeed:  1.2,
		}
	case AegisWell:
		return BuildingStats{
			MaxHealth:       300,
			Radius:          20,
			Cost:            200,
			InfluenceRadius: 120,
		}
	case Palisade:
		return BuildingStats{
			MaxHealth:    250,
			Radius:       14,
			Cost:         100,
			ShieldLength: 110,
		}
	case Bulwark:
		return BuildingStats{
			MaxHealth:    500,
			Radius:       26,
			Cost:         250,
			ShieldRadius: 70,
		}
	case Foundry:
		return BuildingStats{
			MaxHealth: 350,
			Radius:    24,
			Cost:      180,
			Produces:  true,
		}
	default:
		return BuildingStats{
			MaxHealth: 300,
			Radius:    20,
			Cost:      150,
		}
	}
}
