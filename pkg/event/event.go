// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	UnitCreated         Type = "unit_created"
	UnitDestroyed       Type = "unit_destroyed"
	BuildingDestroyed   Type = "building_destroyed"
	ForgeDestroyed      Type = "forge_destroyed"
	PlayerDefeated      Type = "player_defeated"
	ProductionCompleted Type = "production_completed"
	CommandDropped      Type = "command_dropped"
	TickDegraded        Type = "tick_degraded"
	GameStarted         Type = "game_started"
	GameEnded           Type = "game_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// Specific event implementations

// EntityEvent contains information about unit or structure lifecycle events
type EntityEvent struct {
	BaseEvent
	EntityID uint64
	PlayerID string
}

// NewEntityEvent creates a new entity lifecycle event
func NewEntityEvent(eventType Type, source interface{}, entityID uint64, playerID string) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID: entityID,
		PlayerID: playerID,
	}
}

// ProductionEvent contains information about a completed production item
type ProductionEvent struct {
	BaseEvent
	PlayerID string
	Item     string
}

// NewProductionEvent creates a new production completion event
func NewProductionEvent(source interface{}, playerID, item string) *ProductionEvent {
	return &ProductionEvent{
		BaseEvent: BaseEvent{
			EventType: ProductionCompleted,
			Source:    source,
		},
		PlayerID: playerID,
		Item:     item,
	}
}

// TickEvent contains information about command-queue tick outcomes
type TickEvent struct {
	BaseEvent
	Tick           uint64
	MissingPlayers []string
}

// NewTickEvent creates a new tick event
func NewTickEvent(eventType Type, source interface{}, tick uint64, missing []string) *TickEvent {
	return &TickEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:           tick,
		MissingPlayers: missing,
	}
}

// CommandEvent contains information about a rejected or dropped command
type CommandEvent struct {
	BaseEvent
	Tick     uint64
	PlayerID string
	Reason   string
}

// NewCommandEvent creates a new command drop event
func NewCommandEvent(source interface{}, tick uint64, playerID, reason string) *CommandEvent {
	return &CommandEvent{
		BaseEvent: BaseEvent{
			EventType: CommandDropped,
			Source:    source,
		},
		Tick:     tick,
		PlayerID: playerID,
		Reason:   reason,
	}
}
