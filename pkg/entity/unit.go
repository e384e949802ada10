// pkg/entity/unit.go
package entity

import (
	"math"

	"github.com/opd-ai/go-sol/pkg/physics"
)

// UnitKind defines the type of unit and its combat behavior
type UnitKind int

const (
	Striker UnitKind = iota
	Sentinel
	PathSeeker
	Herald
	Decoy
	Veilrunner
)

// String returns the unit kind name
func (k UnitKind) String() string {
	switch k {
	case Striker:
		return "Striker"
	case Sentinel:
		return "Sentinel"
	case PathSeeker:
		return "PathSeeker"
	case Herald:
		return "Herald"
	case Decoy:
		return "Decoy"
	case Veilrunner:
		return "Veilrunner"
	default:
		return "Unknown"
	}
}

// UnitKindFromString converts a string to a UnitKind enum value. Unknown
// names yield a negative value.
func UnitKindFromString(s string) UnitKind {
	switch s {
	case "Striker":
		return Striker
	case "Sentinel":
		return Sentinel
	case "PathSeeker":
		return PathSeeker
	case "Herald":
		return Herald
	case "Decoy":
		return Decoy
	case "Veilrunner":
		return Veilrunner
	default:
		return -1
	}
}

// UnitStats contains the base statistics for a unit kind
type UnitStats struct {
	MaxHealth    float64
	MoveSpeed    float64
	TurnRate     float64 // radians per second
	AttackRange  float64
	AttackDamage float64
	AttackSpeed  float64 // attacks per second; 0 means cannot attack
	Radius       float64
	Cost         float64
	Hero         bool
	Cloaked      bool

	// Detection cone, for kinds that reveal cloaked entities.
	DetectionRange     float64
	DetectionHalfAngle float64
}

// Unit is a mobile combat entity owned by exactly one player for its
// lifetime. Behavior differences between kinds live in the stats table and
// the PerformAttack dispatch, not in subclassing.
type Unit struct {
	Base
	Kind     UnitKind
	Stats    UnitStats
	Velocity physics.Vector2D
	Rotation float64

	// Knockback is a decaying impulse applied on top of steering velocity.
	Knockback physics.Vector2D

	// TargetID is the current combat target; ManualTargetID takes priority
	// over auto-acquisition and persists until cleared or the target dies.
	TargetID       ID
	ManualTargetID ID

	// RallyPoint is the movement destination, distinct from the combat
	// target. PathSeekers consume Waypoints into the rally point.
	RallyPoint   *physics.Vector2D
	Waypoints    []physics.Vector2D
	attackCooldt float64
	abilityCool  float64

	pending []Effect
}

// NewUnit creates a unit of the given kind at the position
func NewUnit(id ID, kind UnitKind, ownerID string, position physics.Vector2D) *Unit {
	stats := getUnitStats(kind)
	return &Unit{
		Base: Base{
			ID:        id,
			OwnerID:   ownerID,
			Position:  position,
			Radius:    stats.Radius,
			Health:    stats.MaxHealth,
			MaxHealth: stats.MaxHealth,
		},
		Kind:  kind,
		Stats: stats,
	}
}

// SightRadius is the unit's line-of-sight radius, derived from attack range
// so longer-ranged units see further.
func (u *Unit) SightRadius() float64 {
	return u.Stats.AttackRange*1.5 + 40
}

// IsHero reports whether the unit is a hero-class unit
func (u *Unit) IsHero() bool {
	return u.Stats.Hero
}

// IsCloaked reports whether the unit is hidden from non-owners
func (u *Unit) IsCloaked() bool {
	return u.Stats.Cloaked
}

// AdvanceCooldowns ticks down the attack and ability cooldowns
func (u *Unit) AdvanceCooldowns(deltaTime float64) {
	if u.attackCooldt > 0 {
		u.attackCooldt -= deltaTime
		if u.attackCooldt < 0 {
			u.attackCooldt = 0
		}
	}
	if u.abilityCool > 0 {
		u.abilityCool -= deltaTime
		if u.abilityCool < 0 {
			u.abilityCool = 0
		}
	}
}

// CanAttack reports whether the unit's attack is off cooldown and the kind
// can attack at all.
func (u *Unit) CanAttack() bool {
	return u.Stats.AttackSpeed > 0 && u.attackCooldt <= 0
}

// AttackCooldown returns the remaining attack cooldown in seconds
func (u *Unit) AttackCooldown() float64 {
	return u.attackCooldt
}

// TryAbility consumes the ability if it is off cooldown, starting a new
// cooldown of the given duration. It reports whether the ability fired.
func (u *Unit) TryAbility(cooldown float64) bool {
	if u.abilityCool > 0 {
		return false
	}
	u.abilityCool = cooldown
	return true
}

// AttackOutcome describes what an attack produced. Exactly one of the
// projectile, beam, or direct-damage channels is populated per kind.
type AttackOutcome struct {
	Projectile   *Projectile
	Beam         *Beam
	DirectDamage float64
	Knockback    physics.Vector2D
}

// PerformAttack executes one attack against the target and starts the attack
// cooldown. The caller applies the outcome: registering projectiles and
// beams, applying direct damage and knockback. A muzzle flash is buffered on
// the unit's effect output.
func (u *Unit) PerformAttack(target CombatTarget, newID Allocator) *AttackOutcome {
	if !u.CanAttack() {
		return nil
	}
	u.attackCooldt = 1.0 / u.Stats.AttackSpeed
	u.AddEffect(Effect{Kind: EffectMuzzleFlash, Position: u.Position})

	dir := target.GetPosition().Sub(u.Position).Normalize()

	switch u.Kind {
	case Striker:
		return &AttackOutcome{
			Projectile: NewProjectile(newID(), ProjectileBolt, u.OwnerID, u.Position, dir, u.Stats.AttackDamage),
		}
	case Sentinel:
		return &AttackOutcome{
			Beam: NewBeam(u.OwnerID, u.Position, target.GetPosition(), u.Stats.AttackDamage),
		}
	case Herald:
		return &AttackOutcome{
			DirectDamage: u.Stats.AttackDamage,
			Knockback:    dir.Scale(KnockbackImpulse),
		}
	case PathSeeker:
		return &AttackOutcome{DirectDamage: u.Stats.AttackDamage}
	default:
		return nil
	}
}

// RotateToward turns the unit toward the desired heading at a bounded
// angular speed.
func (u *Unit) RotateToward(desired float64, deltaTime float64) {
	diff := normalizeAngle(desired - u.Rotation)
	maxStep := u.Stats.TurnRate * deltaTime
	if diff > maxStep {
		diff = maxStep
	} else if diff < -maxStep {
		diff = -maxStep
	}
	u.Rotation = normalizeAngle(u.Rotation + diff)
}

// normalizeAngle wraps an angle into (-pi, pi]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AddEffect buffers a side-effect output for this tick
func (u *Unit) AddEffect(e Effect) {
	u.pending = append(u.pending, e)
}

// DrainEffects returns the unit's buffered effects and clears the buffer.
// Emission is at most once per tick; draining twice yields nothing new.
func (u *Unit) DrainEffects() []Effect {
	out := u.pending
	u.pending = nil
	return out
}

// UnitStatsFor returns the base statistics for a unit kind without
// creating a unit. Cost checks use this before paying for production.
func UnitStatsFor(kind UnitKind) UnitStats {
	return getUnitStats(kind)
}

// getUnitStats returns the base statistics for a unit kind
func getUnitStats(kind UnitKind) UnitStats {
	switch kind {
	case Striker:
		return UnitStats{
			MaxHealth:    100,
			MoveSpeed:    90,
			TurnRate:     4.0,
			AttackRange:  140,
			AttackDamage: 12,
			AttackSpeed:  1.5,
			Radius:       10,
			Cost:         50,
		}
	case Sentinel:
		return UnitStats{
			MaxHealth:          160,
			MoveSpeed:          60,
			TurnRate:           3.0,
			AttackRange:        220,
			AttackDamage:       20,
			AttackSpeed:        0.8,
			Radius:             14,
			Cost:               110,
			DetectionRange:     180,
			DetectionHalfAngle: 0.6,
		}
	case PathSeeker:
		return UnitStats{
			MaxHealth:    60,
			MoveSpeed:    120,
			TurnRate:     6.0,
			AttackRange:  30,
			AttackDamage: 6,
			AttackSpeed:  2.0,
			Radius:       8,
			Cost:         25,
		}
	case Herald:
		return UnitStats{
			MaxHealth:    450,
			MoveSpeed:    75,
			TurnRate:     3.5,
			AttackRange:  45,
			AttackDamage: 35,
			AttackSpeed:  1.0,
			Radius:       16,
			Cost:         300,
			Hero:         true,
		}
	case Decoy:
		// Decoys exist to be targeted; they are never cloaked.
		return UnitStats{
			MaxHealth: 40,
			MoveSpeed: 90,
			TurnRate:  4.0,
			Radius:    10,
			Cost:      15,
		}
	case Veilrunner:
		return UnitStats{
			MaxHealth: 50,
			MoveSpeed: 140,
			TurnRate:  5.0,
			Radius:    9,
			Cost:      60,
			Cloaked:   true,
		}
	default:
		return UnitStats{
			MaxHealth:    100,
			MoveSpeed:    80,
			TurnRate:     4.0,
			AttackRange:  100,
			AttackDamage: 10,
			AttackSpeed:  1.0,
			Radius:       10,
			Cost:         50,
		}
	}
}
