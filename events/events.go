package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeCompletionRecorded EventType = "completion_recorded"
	EventTypeCheckCompleted     EventType = "check_completed"
	EventTypeSchedulesChanged   EventType = "schedules_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// CompletionRecordedEvent is emitted when a new completion record is stored
type CompletionRecordedEvent struct {
	GuildID         string    `json:"guild_id"`
	MemberID        string    `json:"member_id"`
	TrackedUsername string    `json:"tracked_username"`
	ChallengeSlug   string    `json:"challenge_slug"`
	Day             time.Time `json:"day"`
	StreakCount     int       `json:"streak_count"`
}

func (e CompletionRecordedEvent) Type() EventType {
	return EventTypeCompletionRecorded
}

// CheckCompletedEvent summarizes one finished check run
type CheckCompletedEvent struct {
	RunID           string    `json:"run_id"`
	GuildID         string    `json:"guild_id"`
	ChallengeSlug   string    `json:"challenge_slug"`
	Manual          bool      `json:"manual"`
	CompletedCount  int       `json:"completed_count"`
	IncompleteCount int       `json:"incomplete_count"`
	FailedCount     int       `json:"failed_count"`
	CheckedAt       time.Time `json:"checked_at"`
}

func (e CheckCompletedEvent) Type() EventType {
	return EventTypeCheckCompleted
}

// SchedulesChangedEvent is emitted after a guild's persisted schedule set changes
type SchedulesChangedEvent struct {
	GuildID string `json:"guild_id"`
}

func (e SchedulesChangedEvent) Type() EventType {
	return EventTypeSchedulesChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit dispatches an event to every handler on its own goroutine
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits an event detached from any caller context
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// TransactionalBus holds events until the owning unit of work commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush forwards pending events after a successful commit.
// Events use a background context since the transaction context may already be done.
func (b *TransactionalBus) Flush() {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional events")

	for _, ev := range b.pending {
		b.real.Emit(context.Background(), ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
