// Package command implements the lockstep command queue: tick-indexed
// buffering of per-player commands, deterministic release ordering, and the
// timeout policy that trades consistency for liveness when commands go
// missing. Every peer runs the same queue rules against the same command
// stream, which is what keeps lockstep simulations bit-identical.
package command

import "encoding/json"

// Limits applied to every command before it may enter the queue.
const (
	MaxPayloadBytes = 1024

	DefaultMaxFutureTicks     = 100
	DefaultTimeoutTicks       = 5
	DefaultRetentionTicks     = 200
	DefaultMaxCommandsPerTick = 16
)

// Well-known command types. Unknown types are accepted at the queue level
// for forward compatibility and ignored at application time.
const (
	TypeMove    = "move"
	TypeRally   = "rally"
	TypeTarget  = "target"
	TypeProduce = "produce"
	TypeBuild   = "build"
	TypeAbility = "ability"
)

// Command is a single player order bound to a simulation tick. Commands are
// immutable once queued; identity is (Tick, PlayerID, Sequence).
type Command struct {
	Tick     uint64          `json:"tick"`
	PlayerID string          `json:"playerId"`
	Type     string          `json:"commandType"`
	Sequence uint32          `json:"sequence"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// MovePayload orders units to a destination point.
type MovePayload struct {
	UnitIDs []uint64 `json:"unitIds"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
}

// TargetPayload sets a manual combat target for units.
type TargetPayload struct {
	UnitIDs  []uint64 `json:"unitIds"`
	TargetID uint64   `json:"targetId"`
}

// ProducePayload enqueues a unit kind on a production structure.
type ProducePayload struct {
	StructureID uint64 `json:"structureId"`
	UnitKind    string `json:"unitKind"`
}

// BuildPayload places a new building at a position.
type BuildPayload struct {
	BuildingKind string  `json:"buildingKind"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}
