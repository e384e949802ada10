// pkg/entity/effect.go
package entity

import "github.com/opd-ai/go-sol/pkg/physics"

// EffectKind tags the variants of per-tick side-effect output. Systems and
// the rendering collaborator switch on the tag instead of type-checking
// concrete entity kinds.
type EffectKind int

const (
	EffectMuzzleFlash EffectKind = iota
	EffectBeamTrace
	EffectDamageNumber
	EffectDeathBurst
	EffectShieldFlare
)

// String returns the effect kind name
func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "MuzzleFlash"
	case EffectBeamTrace:
		return "BeamTrace"
	case EffectDamageNumber:
		return "DamageNumber"
	case EffectDeathBurst:
		return "DeathBurst"
	case EffectShieldFlare:
		return "ShieldFlare"
	default:
		return "Unknown"
	}
}

// Effect is a tagged side-effect record produced during a tick and consumed
// exactly once by the rendering collaborator. Effects are non-authoritative;
// nothing in the simulation reads them back.
type Effect struct {
	Kind     EffectKind
	Position physics.Vector2D
	End      physics.Vector2D // Beam traces only
	Amount   float64          // Damage numbers only
	Color    string
	Hero     bool // Death bursts only
}
