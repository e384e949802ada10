// pkg/command/validator_test.go
package command

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestValidator_Validate_RejectsMalformedCommands(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected bool
	}{
		{
			name:     "valid_command_no_payload",
			cmd:      Command{Tick: 1, PlayerID: "p0", Type: TypeMove},
			expected: true,
		},
		{
			name:     "valid_command_with_payload",
			cmd:      Command{Tick: 1, PlayerID: "p0", Type: TypeMove, Payload: json.RawMessage(`{"x":1,"y":2}`)},
			expected: true,
		},
		{
			name:     "empty_player_id",
			cmd:      Command{Tick: 1, Type: TypeMove},
			expected: false,
		},
		{
			name:     "empty_command_type",
			cmd:      Command{Tick: 1, PlayerID: "p0"},
			expected: false,
		},
		{
			name:     "malformed_payload",
			cmd:      Command{Tick: 1, PlayerID: "p0", Type: TypeMove, Payload: json.RawMessage(`{"x":`)},
			expected: false,
		},
		{
			name: "oversized_payload",
			cmd: Command{
				Tick:     1,
				PlayerID: "p0",
				Type:     TypeMove,
				Payload:  json.RawMessage(`"` + string(bytes.Repeat([]byte("a"), MaxPayloadBytes)) + `"`),
			},
			expected: false,
		},
		{
			name:     "unknown_type_passes",
			cmd:      Command{Tick: 1, PlayerID: "p0", Type: "teleport"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(DefaultMaxCommandsPerTick, nil)
			got := v.Validate(tt.cmd)
			if got != tt.expected {
				t.Errorf("Validate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestValidator_Validate_RateLimitPerPlayerTick(t *testing.T) {
	v := NewValidator(2, nil)

	for i := 0; i < 2; i++ {
		if !v.Validate(Command{Tick: 5, PlayerID: "p0", Type: TypeMove}) {
			t.Fatalf("command %d should be within the limit", i+1)
		}
	}
	if v.Validate(Command{Tick: 5, PlayerID: "p0", Type: TypeMove}) {
		t.Error("third command for the same tick should be rejected")
	}

	// Other players and other ticks have their own budgets.
	if !v.Validate(Command{Tick: 5, PlayerID: "p1", Type: TypeMove}) {
		t.Error("another player should have a separate budget")
	}
	if !v.Validate(Command{Tick: 6, PlayerID: "p0", Type: TypeMove}) {
		t.Error("another tick should have a separate budget")
	}
}

func TestRateLimiter_Sweep_ReleasesOldCounters(t *testing.T) {
	rl := NewRateLimiter(1)

	if !rl.Allow("p0", 0) {
		t.Fatal("first command should be allowed")
	}
	if rl.Allow("p0", 0) {
		t.Fatal("second command should be limited")
	}

	rl.Sweep(10)
	if len(rl.counts) != 0 {
		t.Errorf("expected swept counters, %d remain", len(rl.counts))
	}
}

func TestWireSchema_DescribesEnvelope(t *testing.T) {
	schema := WireSchema()
	if schema == nil {
		t.Fatal("WireSchema() returned nil")
	}
	if schema.Title == "" {
		t.Error("schema should carry a title")
	}

	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("schema should marshal: %v", err)
	}
	for _, field := range []string{"tick", "playerId", "commandType", "sequence"} {
		if !bytes.Contains(data, []byte(field)) {
			t.Errorf("schema missing field %q", field)
		}
	}
}
