// pkg/command/validator.go
package command

import (
	"context"
	"encoding/json"

	"github.com/opd-ai/go-sol/pkg/logging"
)

// Validator screens commands before they are offered to the Queue. A command
// that fails validation is dropped, never queued and never retried.
// Validation is stateless per command except for the per-(player, tick) rate
// counters, which are swept as the simulation advances.
type Validator struct {
	maxPayload int
	limiter    *RateLimiter
	logger     *logging.Logger
}

// NewValidator creates a validator with the standard payload bound and the
// given per-tick command limit.
func NewValidator(maxCommandsPerTick int, logger *logging.Logger) *Validator {
	return &Validator{
		maxPayload: MaxPayloadBytes,
		limiter:    NewRateLimiter(maxCommandsPerTick),
		logger:     logger,
	}
}

// Validate reports whether the command is well formed and within the
// per-(player, tick) rate limit. Unknown command types pass; they are the
// consumer's problem, not the transport's.
func (v *Validator) Validate(cmd Command) bool {
	if cmd.PlayerID == "" {
		v.reject(cmd, "empty player id")
		return false
	}
	if cmd.Type == "" {
		v.reject(cmd, "empty command type")
		return false
	}
	if len(cmd.Payload) > v.maxPayload {
		v.reject(cmd, "payload too large")
		return false
	}
	if len(cmd.Payload) > 0 && !json.Valid(cmd.Payload) {
		v.reject(cmd, "malformed payload")
		return false
	}
	if !v.limiter.Allow(cmd.PlayerID, cmd.Tick) {
		v.reject(cmd, "rate limit exceeded")
		return false
	}
	return true
}

// Sweep releases rate-limit counters for ticks the queue has moved past.
func (v *Validator) Sweep(currentTick uint64) {
	v.limiter.Sweep(currentTick)
}

func (v *Validator) reject(cmd Command, reason string) {
	if v.logger == nil {
		return
	}
	v.logger.Debug(context.Background(), "command failed validation",
		"tick", cmd.Tick,
		"player", cmd.PlayerID,
		"type", cmd.Type,
		"reason", reason,
	)
}
