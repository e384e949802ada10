package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-sol/pkg/config"
)

func breakerConfig() *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		ServerAddr:   "localhost",
		ServerPort:   4566,
		MaxClients:   4,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,

		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            60 * time.Second,
		CircuitBreakerTimeout:             30 * time.Second,
		CircuitBreakerMaxConsecutiveFails: 3,

		MaxMemoryMB:           500,
		MaxGoroutines:         100,
		ShutdownTimeout:       time.Second,
		ResourceCheckInterval: time.Second,
	}
}

func TestSubmitService_Execute(t *testing.T) {
	svc := NewSubmitService(breakerConfig())
	ctx := context.Background()

	t.Run("successful operation", func(t *testing.T) {
		if err := svc.Execute(ctx, func() error { return nil }); err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
		if svc.GetState() != gobreaker.StateClosed {
			t.Errorf("Expected circuit breaker to be closed, got %v", svc.GetState())
		}
	})

	t.Run("failed operation", func(t *testing.T) {
		testError := errors.New("test error")
		err := svc.Execute(ctx, func() error { return testError })
		if err == nil {
			t.Error("Expected error, got nil")
		}
		if !errors.Is(err, testError) {
			t.Errorf("Expected wrapped test error, got %v", err)
		}

		// One failure must not trip the circuit.
		if svc.GetState() != gobreaker.StateClosed {
			t.Errorf("Expected circuit breaker to be closed after one failure, got %v", svc.GetState())
		}
	})
}

func TestSubmitService_CircuitBreakerTrip(t *testing.T) {
	svc := NewSubmitService(breakerConfig())
	ctx := context.Background()
	testError := errors.New("test failure")

	for i := 0; i < 3; i++ {
		if err := svc.Execute(ctx, func() error { return testError }); err == nil {
			t.Errorf("Expected error on attempt %d, got nil", i+1)
		}
	}

	if svc.GetState() != gobreaker.StateOpen {
		t.Errorf("Expected circuit breaker to be open, got %v", svc.GetState())
	}

	// With the circuit open the operation must not run.
	executed := false
	err := svc.Execute(ctx, func() error {
		executed = true
		return nil
	})
	if err == nil {
		t.Error("Expected error from open circuit, got nil")
	}
	if executed {
		t.Error("Operation must not execute while circuit is open")
	}
}

func TestSubmitService_ExecuteWithRetry_OpenCircuitShortCircuits(t *testing.T) {
	svc := NewSubmitService(breakerConfig())
	ctx := context.Background()
	testError := errors.New("peer unreachable")

	// Trip the breaker first so the retry path exits without sleeping.
	for i := 0; i < 3; i++ {
		svc.Execute(ctx, func() error { return testError })
	}

	attempts := 0
	start := time.Now()
	err := svc.ExecuteWithRetry(ctx, func() error {
		attempts++
		return testError
	})
	if err == nil {
		t.Error("Expected error from open circuit, got nil")
	}
	if attempts != 0 {
		t.Errorf("Expected 0 attempts through an open circuit, got %d", attempts)
	}
	if time.Since(start) > time.Second {
		t.Error("Open circuit should short-circuit the retry delays")
	}
}

func TestSubmitService_ExecuteWithRetry_SucceedsFirstAttempt(t *testing.T) {
	svc := NewSubmitService(breakerConfig())

	attempts := 0
	err := svc.ExecuteWithRetry(context.Background(), func() error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
}

func TestSubmitService_ExecuteWithRetry_ContextCancellation(t *testing.T) {
	svc := NewSubmitService(breakerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.ExecuteWithRetry(ctx, func() error {
		return errors.New("transient")
	})
	if err == nil {
		t.Error("Expected error after cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}

func TestSubmitService_GetCounts(t *testing.T) {
	svc := NewSubmitService(breakerConfig())
	ctx := context.Background()

	svc.Execute(ctx, func() error { return nil })
	svc.Execute(ctx, func() error { return errors.New("fail") })

	counts := svc.GetCounts()
	if counts.TotalSuccesses != 1 {
		t.Errorf("Expected 1 success, got %d", counts.TotalSuccesses)
	}
	if counts.TotalFailures != 1 {
		t.Errorf("Expected 1 failure, got %d", counts.TotalFailures)
	}
}
