package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubCheck struct {
	name string
	err  error
}

func (s *stubCheck) Name() string                    { return s.name }
func (s *stubCheck) Check(ctx context.Context) error { return s.err }

func TestCheckHealth_AllPassing_Healthy(t *testing.T) {
	hc := NewChecker()
	hc.AddCheck(&stubCheck{name: "a"})
	hc.AddCheck(&stubCheck{name: "b"})

	status := hc.CheckHealth(context.Background())

	if status.Status != "healthy" {
		t.Errorf("expected healthy, got %s", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("expected 2 component entries, got %d", len(status.Checks))
	}
	for name, ch := range status.Checks {
		if ch.Status != "healthy" {
			t.Errorf("component %s: expected healthy, got %s", name, ch.Status)
		}
	}
}

func TestCheckHealth_OneFailing_Unhealthy(t *testing.T) {
	hc := NewChecker()
	hc.AddCheck(&stubCheck{name: "good"})
	hc.AddCheck(&stubCheck{name: "bad", err: errors.New("component down")})

	status := hc.CheckHealth(context.Background())

	if status.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", status.Status)
	}
	if status.Checks["bad"].Message != "component down" {
		t.Errorf("expected failure message, got %q", status.Checks["bad"].Message)
	}
	if status.Checks["good"].Status != "healthy" {
		t.Error("passing component should still report healthy")
	}
}

func TestAddCheck_ReplacesByName(t *testing.T) {
	hc := NewChecker()
	hc.AddCheck(&stubCheck{name: "x", err: errors.New("old")})
	hc.AddCheck(&stubCheck{name: "x"})

	status := hc.CheckHealth(context.Background())
	if status.Status != "healthy" {
		t.Error("re-adding a check under the same name should replace it")
	}
}

func TestRemoveCheck(t *testing.T) {
	hc := NewChecker()
	hc.AddCheck(&stubCheck{name: "x", err: errors.New("down")})
	hc.RemoveCheck("x")

	status := hc.CheckHealth(context.Background())
	if status.Status != "healthy" || len(status.Checks) != 0 {
		t.Errorf("expected empty healthy status after removal, got %+v", status)
	}
}

func TestLivenessHandler_AlwaysOK(t *testing.T) {
	hc := NewChecker()
	hc.AddCheck(&stubCheck{name: "bad", err: errors.New("down")})

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alive") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		hc := NewChecker()
		hc.AddCheck(&stubCheck{name: "ok"})

		rec := httptest.NewRecorder()
		hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("NotReady", func(t *testing.T) {
		hc := NewChecker()
		hc.AddCheck(&stubCheck{name: "bad", err: errors.New("down")})

		rec := httptest.NewRecorder()
		hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "down") {
			t.Errorf("body should carry the failure message: %s", rec.Body.String())
		}
	})
}

func TestTickLivenessCheck(t *testing.T) {
	tests := []struct {
		name      string
		last      time.Time
		threshold time.Duration
		wantErr   bool
	}{
		{"FreshTick", time.Now(), time.Second, false},
		{"StaleTick", time.Now().Add(-2 * time.Second), time.Second, true},
		{"NeverTicked", time.Time{}, time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewTickLivenessCheck(func() time.Time { return tt.last }, tt.threshold)
			if check.Name() != "tick_loop" {
				t.Errorf("unexpected name %s", check.Name())
			}
			err := check.Check(context.Background())
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestQueueHealthCheck_DeltaBetweenProbes(t *testing.T) {
	var missed uint64
	check := NewQueueHealthCheck(func() uint64 { return missed }, 5)

	if err := check.Check(context.Background()); err != nil {
		t.Fatalf("baseline probe should pass: %v", err)
	}

	// A small climb stays within tolerance.
	missed = 4
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("delta 4 within tolerance 5 should pass: %v", err)
	}

	// A burst past tolerance fails once, then the baseline resets.
	missed = 20
	if err := check.Check(context.Background()); err == nil {
		t.Error("delta 16 over tolerance 5 should fail")
	}
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("stable counter after the burst should pass: %v", err)
	}
}

func TestGatewayHealthCheck(t *testing.T) {
	addr := ""
	check := NewGatewayHealthCheck(func() string { return addr })

	if err := check.Check(context.Background()); err == nil {
		t.Error("empty listener address should fail")
	}

	addr = "localhost:4566"
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("active listener should pass: %v", err)
	}
}

func TestMemoryHealthCheck(t *testing.T) {
	usage := int64(100)
	check := NewMemoryHealthCheck(500, func() int64 { return usage })

	if err := check.Check(context.Background()); err != nil {
		t.Errorf("usage under limit should pass: %v", err)
	}

	usage = 600
	if err := check.Check(context.Background()); err == nil {
		t.Error("usage over limit should fail")
	}
}
