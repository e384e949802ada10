// pkg/command/queue.go
package command

import (
	"context"
	"sort"
	"sync"

	"github.com/opd-ai/go-sol/pkg/logging"
)

// QueueConfig holds the lockstep window constants for a Queue.
type QueueConfig struct {
	// MaxFutureTicks bounds how far ahead of the current tick a command may
	// be queued, preventing unbounded buffer growth.
	MaxFutureTicks uint64
	// TimeoutTicks is how many aging steps the oldest buffered tick may wait
	// before the queue releases a partial command set.
	TimeoutTicks uint64
	// RetentionTicks is how far below the current tick buckets are kept
	// before the retention sweep discards them.
	RetentionTicks uint64
}

// DefaultQueueConfig returns the standard lockstep window constants.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		MaxFutureTicks: DefaultMaxFutureTicks,
		TimeoutTicks:   DefaultTimeoutTicks,
		RetentionTicks: DefaultRetentionTicks,
	}
}

// Queue buffers validated commands per tick and releases them in a
// deterministic order once a tick is ready. A tick is ready when every
// expected player has contributed at least one command, or when the tick has
// aged past the timeout policy (a degraded, partial release).
//
// All rejection rules are pure functions of (command, currentTick), so every
// peer drops the same commands by the same rule.
type Queue struct {
	mu sync.Mutex

	config  QueueConfig
	buckets map[uint64][]Command
	current uint64

	expected   []string
	orderIndex map[string]int

	// age counts failed release polls since currentTick became the oldest
	// buffered work. Aging is poll-based, never wall-clock, so the degraded
	// release fires on the same tick for every peer.
	age uint64

	missed uint64

	logger *logging.Logger
}

// NewQueue creates a command queue for the given expected player set.
func NewQueue(config QueueConfig, expectedPlayers []string, logger *logging.Logger) *Queue {
	q := &Queue{
		config:  config,
		buckets: make(map[uint64][]Command),
		logger:  logger,
	}
	q.SetExpectedPlayers(expectedPlayers)
	return q
}

// CurrentTick returns the tick the queue will release next.
func (q *Queue) CurrentTick() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// MissedCommands returns how many degraded (partial) releases have occurred.
func (q *Queue) MissedCommands() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.missed
}

// SetExpectedPlayers replaces the expected player set and rebuilds the
// release-ordering cache atomically. The slice order is the stable ordering
// key shared by all peers (join order).
func (q *Queue) SetExpectedPlayers(ids []string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	expected := make([]string, len(ids))
	copy(expected, ids)
	orderIndex := make(map[string]int, len(expected))
	for i, id := range expected {
		orderIndex[id] = i
	}

	q.expected = expected
	q.orderIndex = orderIndex
}

// AddCommand offers a command to the queue. It returns false when the
// command's tick is below the current tick or beyond the future window; the
// only side effect of rejection is a diagnostic log entry.
func (q *Queue) AddCommand(cmd Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if cmd.Tick < q.current {
		q.logDropped(cmd, "tick below current")
		return false
	}
	if cmd.Tick > q.current+q.config.MaxFutureTicks {
		q.logDropped(cmd, "tick beyond future window")
		return false
	}

	q.buckets[cmd.Tick] = append(q.buckets[cmd.Tick], cmd)
	return true
}

// HasAllCommandsForTick reports whether the set of distinct player IDs in the
// tick's bucket equals the expected-player set. Set equality, not count, so
// duplicate submissions from one player never make a tick appear complete.
func (q *Queue) HasAllCommandsForTick(tick uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bucketComplete(tick)
}

func (q *Queue) bucketComplete(tick uint64) bool {
	seen := make(map[string]bool)
	for _, cmd := range q.buckets[tick] {
		seen[cmd.PlayerID] = true
	}
	for _, id := range q.expected {
		if !seen[id] {
			return false
		}
	}
	return true
}

// NextTickCommands returns the deterministically sorted command list for the
// current tick if it is ready and advances the current tick by exactly one.
// It returns nil when the tick is not ready; the caller must not advance the
// simulation in that case.
func (q *Queue) NextTickCommands() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	complete := q.bucketComplete(q.current)
	if !complete && q.age < q.config.TimeoutTicks {
		q.age++
		return nil
	}

	cmds := q.buckets[q.current]
	delete(q.buckets, q.current)

	if !complete {
		q.missed++
		if q.logger != nil {
			q.logger.Warn(context.Background(), "releasing degraded tick",
				"tick", q.current,
				"missing", q.missingPlayers(cmds),
				"missed_total", q.missed,
			)
		}
	}

	q.sortCommands(cmds)
	q.current++
	q.age = 0
	q.sweepRetention()

	if cmds == nil {
		cmds = []Command{}
	}
	return cmds
}

// MissingPlayersForTick lists the expected players with no command buffered
// for the current tick, in expected-player order.
func (q *Queue) MissingPlayersForTick() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.missingPlayers(q.buckets[q.current])
}

func (q *Queue) missingPlayers(cmds []Command) []string {
	seen := make(map[string]bool)
	for _, cmd := range cmds {
		seen[cmd.PlayerID] = true
	}
	var missing []string
	for _, id := range q.expected {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// sortCommands orders a tick's commands by the stable per-player ordering
// key, then by sequence. Unknown player IDs sort last, lexicographically.
// This ordering is the sole source of determinism for same-tick resolution.
func (q *Queue) sortCommands(cmds []Command) {
	sort.SliceStable(cmds, func(i, j int) bool {
		oi, iKnown := q.orderIndex[cmds[i].PlayerID]
		oj, jKnown := q.orderIndex[cmds[j].PlayerID]
		switch {
		case iKnown && jKnown:
			if oi != oj {
				return oi < oj
			}
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			if cmds[i].PlayerID != cmds[j].PlayerID {
				return cmds[i].PlayerID < cmds[j].PlayerID
			}
		}
		return cmds[i].Sequence < cmds[j].Sequence
	})
}

// sweepRetention discards buckets older than the retention window below the
// current tick to bound memory.
func (q *Queue) sweepRetention() {
	if q.current < q.config.RetentionTicks {
		return
	}
	cutoff := q.current - q.config.RetentionTicks
	for tick := range q.buckets {
		if tick < cutoff {
			delete(q.buckets, tick)
		}
	}
}

func (q *Queue) logDropped(cmd Command, reason string) {
	if q.logger == nil {
		return
	}
	q.logger.Debug(context.Background(), "command rejected",
		"tick", cmd.Tick,
		"player", cmd.PlayerID,
		"type", cmd.Type,
		"current_tick", q.current,
		"reason", reason,
	)
}
