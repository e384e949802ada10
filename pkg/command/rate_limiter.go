// pkg/command/rate_limiter.go
package command

import "sync"

// RateLimiter bounds how many commands a player may queue for a single tick.
// Unlike a wall-clock token bucket, counting per (player, tick) keeps the
// limit a pure function of the command stream, so every peer drops the same
// commands.
type RateLimiter struct {
	maxPerTick int
	mu         sync.Mutex
	counts     map[rateKey]int
	swept      uint64
}

type rateKey struct {
	PlayerID string
	Tick     uint64
}

// NewRateLimiter creates a rate limiter allowing maxPerTick commands per
// player per tick.
func NewRateLimiter(maxPerTick int) *RateLimiter {
	return &RateLimiter{
		maxPerTick: maxPerTick,
		counts:     make(map[rateKey]int),
	}
}

// Allow records one command for the (player, tick) pair and reports whether
// it is within the limit.
func (rl *RateLimiter) Allow(playerID string, tick uint64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := rateKey{PlayerID: playerID, Tick: tick}
	if rl.counts[key] >= rl.maxPerTick {
		return false
	}
	rl.counts[key]++
	return true
}

// Sweep discards counters for ticks below the current tick. Those commands
// would be rejected by the queue window anyway, so their counters are dead
// weight.
func (rl *RateLimiter) Sweep(currentTick uint64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if currentTick <= rl.swept {
		return
	}
	for key := range rl.counts {
		if key.Tick < currentTick {
			delete(rl.counts, key)
		}
	}
	rl.swept = currentTick
}
