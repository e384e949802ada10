// pkg/sim/context.go
package sim

import (
	"math/rand/v2"

	"github.com/opd-ai/go-sol/pkg/entity"
)

// SimContext is the explicit per-tick context owned by the tick driver and
// passed to every system function. It replaces ambient globals: the seeded
// RNG stream, the fixed tick duration, the shared effect collections, and
// the entity ID counter all live here so two peers running the same command
// stream consume identical state in identical order.
type SimContext struct {
	// Dt is the fixed tick duration in seconds. It is derived from the
	// configured tick rate, never from wall clock, as lockstep requires.
	Dt float64

	// Rand is the shared seeded RNG stream. Randomness must be drawn in a
	// fixed call order; systems never construct their own sources.
	Rand *rand.Rand

	// Beams collects instant beam attacks fired this tick, resolved and
	// cleared by the combat system.
	Beams []*entity.Beam

	effects []entity.Effect
	nextID  entity.ID
}

// NewSimContext creates a context with the given tick duration and RNG seed
func NewSimContext(dt float64, seed uint64) *SimContext {
	return &SimContext{
		Dt:   dt,
		Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewID allocates the next entity ID. IDs are per-simulation, not
// per-process, so identical creation order yields identical IDs on every
// peer.
func (c *SimContext) NewID() entity.ID {
	c.nextID++
	return c.nextID
}

// Collect appends side-effect outputs to the shared per-tick collection
func (c *SimContext) Collect(effects ...entity.Effect) {
	c.effects = append(c.effects, effects...)
}

// DrainEffects returns the collected effects and clears the collection.
// The rendering collaborator consumes each effect exactly once.
func (c *SimContext) DrainEffects() []entity.Effect {
	out := c.effects
	c.effects = nil
	return out
}
