// Package network is the transport edge of the simulation: a WebSocket
// gateway that accepts player command envelopes and forwards them to the
// lockstep queue, plus a circuit breaker around outbound client writes so a
// stalled client cannot cascade into the tick loop.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-sol/pkg/config"
	"github.com/opd-ai/go-sol/pkg/logging"
)

// SubmitService wraps outbound network operations with circuit breaker
// functionality: retry logic, exponential backoff, and failure isolation.
type SubmitService struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
	config  *config.EnvironmentConfig
}

// Operation is a network operation run through the breaker. It returns an
// error if the operation fails.
type Operation func() error

// NewSubmitService creates a SubmitService with the circuit breaker
// configured from environment settings.
func NewSubmitService(envConfig *config.EnvironmentConfig) *SubmitService {
	logger := logging.NewLogger()

	settings := gobreaker.Settings{
		Name:        "sol-network",
		MaxRequests: uint32(envConfig.CircuitBreakerMaxRequests),
		Interval:    envConfig.CircuitBreakerInterval,
		Timeout:     envConfig.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envConfig.CircuitBreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to,
			)
		},
	}

	return &SubmitService{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		config:  envConfig,
	}
}

// Execute runs an operation through the circuit breaker. If the circuit is
// open it returns an error immediately without attempting the operation.
func (s *SubmitService) Execute(ctx context.Context, operation Operation) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err != nil {
		s.logger.LogWithContext(ctx, slog.LevelError, "circuit breaker execution failed",
			"error", err,
			"state", s.breaker.State(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}

	return nil
}

// ExecuteWithRetry runs an operation with retries and linear backoff. The
// breaker state is checked between attempts; an open circuit short-circuits
// the remaining retries.
func (s *SubmitService) ExecuteWithRetry(ctx context.Context, operation Operation) error {
	maxRetries := 3
	baseDelay := 1 * time.Second

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.Execute(ctx, operation)
		if err == nil {
			return nil
		}

		if s.breaker.State() == gobreaker.StateOpen {
			s.logger.LogWithContext(ctx, slog.LevelWarn, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_retries", maxRetries,
			)
			return err
		}

		if attempt == maxRetries-1 {
			s.logger.LogWithContext(ctx, slog.LevelError, "all retry attempts failed",
				"attempts", maxRetries,
				"final_error", err,
			)
			return fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, err)
		}

		delay := time.Duration(attempt+1) * baseDelay
		s.logger.LogWithContext(ctx, slog.LevelWarn, "operation failed, retrying",
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("unexpected exit from retry loop")
}

// GetState returns the current state of the circuit breaker.
func (s *SubmitService) GetState() gobreaker.State {
	return s.breaker.State()
}

// GetCounts returns the breaker's failure and success counts.
func (s *SubmitService) GetCounts() gobreaker.Counts {
	return s.breaker.Counts()
}
