// Package health exposes liveness and readiness probes for the SoL server.
// Readiness aggregates component checks: the tick loop must be advancing,
// the lockstep queue must not be drowning in missed commands, and memory
// must stay under the configured ceiling.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is one component's health probe. It returns an error if the
// component is unhealthy.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated health of the server.
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is one component's contribution to the aggregate.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker manages and executes the registered component checks.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// AddCheck registers a component check, replacing any existing check with
// the same name.
func (hc *Checker) AddCheck(check Check) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a component check by name.
func (hc *Checker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every registered check. The aggregate is healthy only
// when all components pass.
func (hc *Checker) CheckHealth(ctx context.Context) Status {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := Status{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler returns 200 while the process is able to serve requests.
// Orchestrators restart the process when this stops answering.
func (hc *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler executes all checks and returns 200 when the server is
// ready for traffic, 503 otherwise.
func (hc *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")

	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// TickLivenessCheck verifies the simulation loop is still advancing. The
// loop reports its last tick time; going stale past the threshold means the
// lockstep pipeline is wedged.
type TickLivenessCheck struct {
	lastTick  func() time.Time
	threshold time.Duration
}

// NewTickLivenessCheck creates a tick liveness check with the given
// staleness threshold.
func NewTickLivenessCheck(lastTick func() time.Time, threshold time.Duration) *TickLivenessCheck {
	return &TickLivenessCheck{
		lastTick:  lastTick,
		threshold: threshold,
	}
}

// Name returns the name of this health check.
func (t *TickLivenessCheck) Name() string {
	return "tick_loop"
}

// Check verifies the tick loop advanced recently.
func (t *TickLivenessCheck) Check(ctx context.Context) error {
	last := t.lastTick()
	if last.IsZero() {
		return fmt.Errorf("tick loop has not started")
	}
	if age := time.Since(last); age > t.threshold {
		return fmt.Errorf("tick loop stale for %s", age)
	}
	return nil
}

// QueueHealthCheck watches the lockstep queue's missed command counter. A
// climbing count means degraded releases are routine, usually a sign of a
// dead or badly lagged peer.
type QueueHealthCheck struct {
	missed func() uint64

	mu         sync.Mutex
	lastMissed uint64
	maxDelta   uint64
}

// NewQueueHealthCheck creates a queue check that tolerates maxDelta missed
// commands between consecutive probes.
func NewQueueHealthCheck(missed func() uint64, maxDelta uint64) *QueueHealthCheck {
	return &QueueHealthCheck{
		missed:   missed,
		maxDelta: maxDelta,
	}
}

// Name returns the name of this health check.
func (q *QueueHealthCheck) Name() string {
	return "command_queue"
}

// Check verifies the missed command rate stays under the tolerance.
func (q *QueueHealthCheck) Check(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.missed()
	delta := current - q.lastMissed
	q.lastMissed = current

	if delta > q.maxDelta {
		return fmt.Errorf("%d commands missed since last probe (tolerance %d)", delta, q.maxDelta)
	}
	return nil
}

// GatewayHealthCheck verifies the network gateway is accepting clients.
type GatewayHealthCheck struct {
	listenerAddr func() string
}

// NewGatewayHealthCheck creates a health check for the gateway listener.
func NewGatewayHealthCheck(listenerAddr func() string) *GatewayHealthCheck {
	return &GatewayHealthCheck{
		listenerAddr: listenerAddr,
	}
}

// Name returns the name of this health check.
func (n *GatewayHealthCheck) Name() string {
	return "gateway"
}

// Check verifies that the listener is active.
func (n *GatewayHealthCheck) Check(ctx context.Context) error {
	if n.listenerAddr() == "" {
		return fmt.Errorf("gateway listener is not active")
	}
	return nil
}

// MemoryHealthCheck verifies memory usage stays under the configured limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory usage check.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
