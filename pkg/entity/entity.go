// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-sol/pkg/physics"
)

// ID is a unique identifier for an entity. IDs are allocated by the
// simulation driver in creation order, never from package state, so two
// worlds fed the same command stream allocate identical IDs.
type ID = uint64

// Allocator hands out entity IDs. The simulation owns the counter.
type Allocator func() ID

// CombatTarget is the capability set shared by everything that can be
// searched for, damaged, and killed: units, buildings, forges, mirrors and
// merge gates. Systems operate on this closed interface instead of
// type-switching on concrete kinds.
type CombatTarget interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetRadius() float64
	GetHealth() float64
	GetOwner() string
	TakeDamage(amount float64)
	IsDead() bool
}

// Base contains the state every combat target carries.
type Base struct {
	ID        ID
	OwnerID   string
	Position  physics.Vector2D
	Radius    float64
	Health    float64
	MaxHealth float64
}

// GetID returns the entity's unique identifier
func (b *Base) GetID() ID {
	return b.ID
}

// GetPosition returns the entity's position
func (b *Base) GetPosition() physics.Vector2D {
	return b.Position
}

// GetRadius returns the entity's collision radius
func (b *Base) GetRadius() float64 {
	return b.Radius
}

// GetHealth returns the entity's remaining health
func (b *Base) GetHealth() float64 {
	return b.Health
}

// GetOwner returns the ID of the owning player
func (b *Base) GetOwner() string {
	return b.OwnerID
}

// TakeDamage reduces the entity's health. Health may go below zero; death is
// a filter pass at the end of the owning system's update, never an in-place
// removal.
func (b *Base) TakeDamage(amount float64) {
	b.Health -= amount
}

// IsDead reports whether the entity's health is exhausted
func (b *Base) IsDead() bool {
	return b.Health <= 0
}

// Collider returns the entity's collision circle
func (b *Base) Collider() physics.Circle {
	return physics.Circle{Center: b.Position, Radius: b.Radius}
}

// Sun is a light source. Suns are world fixtures, not combat targets.
type Sun struct {
	Position  physics.Vector2D
	Intensity float64
	Radius    float64
}
