package infrastructure

import (
	"context"
	"fmt"
	"time"

	"leetstreak/events"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

const (
	SubjectCompletionRecorded = "leetstreak.completion.recorded"
	SubjectCheckCompleted     = "leetstreak.check.completed"
)

var forwardedSubjects = map[events.EventType]string{
	events.EventTypeCompletionRecorded: SubjectCompletionRecorded,
	events.EventTypeCheckCompleted:     SubjectCheckCompleted,
}

// SubjectFor returns the subject an event type is forwarded to
func SubjectFor(eventType events.EventType) (string, bool) {
	subject, ok := forwardedSubjects[eventType]
	return subject, ok
}

// Subjects returns every subject the forwarder publishes to
func Subjects() []string {
	return []string{SubjectCompletionRecorded, SubjectCheckCompleted}
}

// EventForwarder mirrors domain events from the in-process bus onto a message bus
type EventForwarder struct {
	publisher MessagePublisher
	timeout   time.Duration
}

// NewEventForwarder creates a forwarder that publishes through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{publisher: publisher, timeout: 5 * time.Second}
}

// Attach subscribes the forwarder to every forwarded event type on bus
func (f *EventForwarder) Attach(bus *events.Bus) {
	for eventType := range forwardedSubjects {
		bus.Subscribe(eventType, f.handle)
	}
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) {
	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
		}).WithError(err).Error("Failed to forward event")
	}
}

// Forward encodes event as JSON and publishes it to its subject
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	subject, ok := SubjectFor(event.Type())
	if !ok {
		return fmt.Errorf("no subject for event type %s", event.Type())
	}

	data, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	return f.publisher.Publish(ctx, subject, data)
}
