// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains deployment configuration read from SOL_*
// environment variables. It covers the host process only; everything that
// affects simulation outcomes lives in GameConfig and must be identical on
// every peer.
type EnvironmentConfig struct {
	ServerAddr   string
	ServerPort   int
	MaxClients   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Circuit breaker configuration for the client submission path
	CircuitBreakerMaxRequests         uint32
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails uint32

	// Resource management configuration
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// LoadConfigFromEnv loads the environment configuration, applying safe
// defaults for unset variables and validating the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		ServerAddr:   getEnvString("SOL_SERVER_ADDR", "localhost"),
		ServerPort:   getEnvInt("SOL_SERVER_PORT", 4566),
		MaxClients:   getEnvInt("SOL_MAX_CLIENTS", 32),
		ReadTimeout:  getEnvDuration("SOL_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDuration("SOL_WRITE_TIMEOUT", 30*time.Second),

		CircuitBreakerMaxRequests:         uint32(getEnvInt("SOL_CB_MAX_REQUESTS", 3)),
		CircuitBreakerInterval:            getEnvDuration("SOL_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvDuration("SOL_CB_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: uint32(getEnvInt("SOL_CB_MAX_CONSECUTIVE_FAILS", 5)),

		MaxMemoryMB:           int64(getEnvInt("SOL_MAX_MEMORY_MB", 500)),
		MaxGoroutines:         getEnvInt("SOL_MAX_GOROUTINES", 100),
		ShutdownTimeout:       getEnvDuration("SOL_SHUTDOWN_TIMEOUT", 30*time.Second),
		ResourceCheckInterval: getEnvDuration("SOL_RESOURCE_CHECK_INTERVAL", 10*time.Second),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for values that would misbehave at
// runtime.
func (c *EnvironmentConfig) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.MaxClients < 1 {
		return fmt.Errorf("max clients must be positive, got %d", c.MaxClients)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", c.WriteTimeout)
	}
	if c.MaxMemoryMB < 1 {
		return fmt.Errorf("max memory must be positive, got %d", c.MaxMemoryMB)
	}
	if c.MaxGoroutines < 1 {
		return fmt.Errorf("max goroutines must be positive, got %d", c.MaxGoroutines)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", c.ShutdownTimeout)
	}
	if c.ResourceCheckInterval <= 0 {
		return fmt.Errorf("resource check interval must be positive, got %v", c.ResourceCheckInterval)
	}
	return nil
}

// getEnvString returns the environment variable value or the default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as an int or the default
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration returns the environment variable parsed as a duration or
// the default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
