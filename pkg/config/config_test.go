// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if config.WorldSize != 2000 {
		t.Errorf("Expected WorldSize 2000, got %f", config.WorldSize)
	}
	if config.TickRate != 20 {
		t.Errorf("Expected TickRate 20, got %d", config.TickRate)
	}
	if config.Seed != 1 {
		t.Errorf("Expected Seed 1, got %d", config.Seed)
	}

	// Lockstep window constants
	if config.Lockstep.MaxFutureTicks != 100 {
		t.Errorf("Expected MaxFutureTicks 100, got %d", config.Lockstep.MaxFutureTicks)
	}
	if config.Lockstep.TimeoutTicks != 5 {
		t.Errorf("Expected TimeoutTicks 5, got %d", config.Lockstep.TimeoutTicks)
	}
	if config.Lockstep.RetentionTicks != 200 {
		t.Errorf("Expected RetentionTicks 200, got %d", config.Lockstep.RetentionTicks)
	}
	if config.Lockstep.MaxCommandsPerTick != 16 {
		t.Errorf("Expected MaxCommandsPerTick 16, got %d", config.Lockstep.MaxCommandsPerTick)
	}

	// Factions
	if len(config.Factions) != 2 {
		t.Fatalf("Expected 2 factions, got %d", len(config.Factions))
	}
	if config.Factions[0].Name != "Radiant" {
		t.Errorf("Expected first faction name 'Radiant', got '%s'", config.Factions[0].Name)
	}
	if config.Factions[1].Name != "Aurum" {
		t.Errorf("Expected second faction name 'Aurum', got '%s'", config.Factions[1].Name)
	}
	if config.Factions[0].ForgeX != -config.Factions[1].ForgeX {
		t.Error("Expected forge positions mirrored across the sun")
	}
	for i, f := range config.Factions {
		if f.StartingUnit == "" {
			t.Errorf("Faction %d has no starting unit", i)
		}
	}

	// World bodies
	if len(config.Suns) != 1 {
		t.Errorf("Expected 1 sun, got %d", len(config.Suns))
	}
	if len(config.Asteroids) != 2 {
		t.Errorf("Expected 2 asteroids, got %d", len(config.Asteroids))
	}
	for i, a := range config.Asteroids {
		if len(a.Vertices) < 3 {
			t.Errorf("Asteroid %d has %d vertices, need at least 3", i, len(a.Vertices))
		}
	}

	// Rules
	if config.Rules.StartingSolarium != 100 {
		t.Errorf("Expected StartingSolarium 100, got %f", config.Rules.StartingSolarium)
	}
	if config.Rules.SplashMinFraction != 0.25 {
		t.Errorf("Expected SplashMinFraction 0.25, got %f", config.Rules.SplashMinFraction)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "match.json")

	original := DefaultConfig()
	original.Seed = 42
	original.Rules.TeamGame = true

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Seed != 42 {
		t.Errorf("Expected Seed 42, got %d", loaded.Seed)
	}
	if !loaded.Rules.TeamGame {
		t.Error("Expected TeamGame true after round trip")
	}
	if loaded.WorldSize != original.WorldSize {
		t.Errorf("WorldSize changed in round trip: %f vs %f", loaded.WorldSize, original.WorldSize)
	}
	if len(loaded.Factions) != len(original.Factions) {
		t.Errorf("Faction count changed in round trip: %d vs %d", len(loaded.Factions), len(original.Factions))
	}
	if len(loaded.Asteroids) != len(original.Asteroids) {
		t.Errorf("Asteroid count changed in round trip: %d vs %d", len(loaded.Asteroids), len(original.Asteroids))
	}
	if loaded.Lockstep != original.Lockstep {
		t.Errorf("Lockstep config changed in round trip: %+v vs %+v", loaded.Lockstep, original.Lockstep)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("Expected error loading a missing file")
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected error loading malformed JSON")
		}
	})
}
