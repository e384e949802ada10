// pkg/entity/projectile.go
package entity

import "github.com/opd-ai/go-sol/pkg/physics"

// KnockbackImpulse is the initial speed of the impulse a Herald melee hit
// applies to its target.
const KnockbackImpulse = 220.0

// ProjectileKind defines a projectile's flight and despawn behavior
type ProjectileKind int

const (
	// ProjectileBolt flies straight and despawns by distance traveled.
	ProjectileBolt ProjectileKind = iota
	// ProjectileMortar arcs under a gravity-like force, despawns by
	// lifetime, and splashes on any terminal state.
	ProjectileMortar
)

// ProjectileState is the terminal-state machine for a projectile. Once a
// projectile leaves StateActive it is filtered out at end of tick and never
// updated again.
type ProjectileState int

const (
	StateActive ProjectileState = iota
	StateHit
	StateExpired
	StateAbsorbed
	StateBlocked
)

// String returns the state name
func (s ProjectileState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateHit:
		return "Hit"
	case StateExpired:
		return "Expired"
	case StateAbsorbed:
		return "Absorbed"
	case StateBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

// Projectile is an ephemeral entity created and destroyed within the combat
// system; nothing outside that system holds a reference past its terminal
// tick.
type Projectile struct {
	ID       ID
	Kind     ProjectileKind
	OwnerID  string
	Position physics.Vector2D
	Velocity physics.Vector2D
	Radius   float64
	Damage   float64
	State    ProjectileState

	// Bolt despawn rule
	MaxRange         float64
	DistanceTraveled float64

	// Mortar despawn rule
	Lifetime    float64
	MaxLifetime float64

	SplashRadius float64
}

// Projectile tuning shared by all kinds
const (
	boltSpeed     = 420.0
	boltRange     = 360.0
	mortarSpeed   = 260.0
	mortarLife    = 2.2
	mortarSplash  = 50.0
	mortarGravity = 120.0
)

// NewProjectile creates a projectile of the given kind heading along dir
func NewProjectile(id ID, kind ProjectileKind, ownerID string, position, dir physics.Vector2D, damage float64) *Projectile {
	p := &Projectile{
		ID:       id,
		Kind:     kind,
		OwnerID:  ownerID,
		Position: position,
		Radius:   4,
		Damage:   damage,
		State:    StateActive,
	}
	switch kind {
	case ProjectileMortar:
		p.Velocity = dir.Scale(mortarSpeed)
		p.MaxLifetime = mortarLife
		p.SplashRadius = mortarSplash
	default:
		p.Velocity = dir.Scale(boltSpeed)
		p.MaxRange = boltRange
	}
	return p
}

// Advance integrates the projectile's motion and accrues its despawn
// measure. The despawn predicate is monotonic: once expired, a projectile
// never returns to active.
func (p *Projectile) Advance(deltaTime float64) {
	if p.State != StateActive {
		return
	}
	if p.Kind == ProjectileMortar {
		p.Velocity.Y += mortarGravity * deltaTime
	}
	step := p.Velocity.Scale(deltaTime)
	p.Position = p.Position.Add(step)

	switch p.Kind {
	case ProjectileMortar:
		p.Lifetime += deltaTime
		if p.Lifetime >= p.MaxLifetime {
			p.State = StateExpired
		}
	default:
		p.DistanceTraveled += step.Length()
		if p.DistanceTraveled >= p.MaxRange {
			p.State = StateExpired
		}
	}
}

// Terminal reports whether the projectile has reached a terminal state
func (p *Projectile) Terminal() bool {
	return p.State != StateActive
}

// Splashes reports whether the projectile deals area damage on its terminal
// state.
func (p *Projectile) Splashes() bool {
	return p.SplashRadius > 0
}

// Beam is an instantaneous line-segment attack resolved within the tick it
// was fired.
type Beam struct {
	OwnerID   string
	Start     physics.Vector2D
	End       physics.Vector2D
	HalfWidth float64
	Damage    float64
}

// NewBeam creates a beam between two points
func NewBeam(ownerID string, start, end physics.Vector2D, damage float64) *Beam {
	return &Beam{
		OwnerID:   ownerID,
		Start:     start,
		End:       end,
		HalfWidth: 6,
		Damage:    damage,
	}
}

// DustParticle is a cosmetic free-floating particle. Dust is
// non-authoritative: forces on it never touch combat-relevant entities.
type DustParticle struct {
	Position    physics.Vector2D
	Velocity    physics.Vector2D
	Lifetime    float64
	MaxLifetime float64
}

// Alive reports whether the particle should keep being updated
func (d *DustParticle) Alive() bool {
	return d.Lifetime < d.MaxLifetime
}
