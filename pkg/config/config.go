// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// GameConfig contains configuration for a SoL lockstep match
type GameConfig struct {
	WorldSize float64          `json:"worldSize"`
	TickRate  int              `json:"tickRate"` // Simulation ticks per second
	Seed      uint64           `json:"seed"`     // Shared RNG seed for all peers
	Lockstep  LockstepConfig   `json:"lockstep"`
	Factions  []FactionConfig  `json:"factions"`
	Suns      []SunConfig      `json:"suns"`
	Asteroids []AsteroidConfig `json:"asteroids"`
	Rules     GameRules        `json:"gameRules"`
}

// LockstepConfig contains the command-queue window constants. These must be
// identical on every peer; they are part of the determinism contract.
type LockstepConfig struct {
	MaxFutureTicks     uint64 `json:"maxFutureTicks"`
	TimeoutTicks       uint64 `json:"timeoutTicks"`
	RetentionTicks     uint64 `json:"retentionTicks"`
	MaxCommandsPerTick int    `json:"maxCommandsPerTick"`
}

// FactionConfig contains configuration for a playable faction
type FactionConfig struct {
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	StartingUnit string  `json:"startingUnit"`
	ForgeX       float64 `json:"forgeX"`
	ForgeY       float64 `json:"forgeY"`
}

// SunConfig contains configuration for a light source
type SunConfig struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity float64 `json:"intensity"`
	Radius    float64 `json:"radius"`
}

// AsteroidConfig contains an occluder polygon's vertices
type AsteroidConfig struct {
	Vertices [][2]float64 `json:"vertices"`
}

// GameRules contains gameplay tuning shared by all peers
type GameRules struct {
	StartingSolarium  float64 `json:"startingSolarium"`
	SplashMinFraction float64 `json:"splashMinFraction"`
	TeamGame          bool    `json:"teamGame"`
	TimeLimit         int     `json:"timeLimit"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default two-player match configuration: one
// central sun, the standard starting offsets from the SoL prototype, and a
// pair of asteroid occluders.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		WorldSize: 2000,
		TickRate:  20,
		Seed:      1,
		Lockstep: LockstepConfig{
			MaxFutureTicks:     100,
			TimeoutTicks:       5,
			RetentionTicks:     200,
			MaxCommandsPerTick: 16,
		},
		Factions: []FactionConfig{
			{
				Name:         "Radiant",
				Color:        "#FFD75A",
				StartingUnit: "Striker",
				ForgeX:       -500,
				ForgeY:       0,
			},
			{
				Name:         "Aurum",
				Color:        "#E08030",
				StartingUnit: "Striker",
				ForgeX:       500,
				ForgeY:       0,
			},
		},
		Suns: []SunConfig{
			{X: 0, Y: 0, Intensity: 1.0, Radius: 100},
		},
		Asteroids: []AsteroidConfig{
			{Vertices: [][2]float64{{-80, 220}, {40, 260}, {70, 350}, {-60, 330}}},
			{Vertices: [][2]float64{{-70, -350}, {60, -330}, {30, -240}, {-80, -260}}},
		},
		Rules: GameRules{
			StartingSolarium:  100,
			SplashMinFraction: 0.25,
			TeamGame:          false,
			TimeLimit:         1800,
		},
	}
}
