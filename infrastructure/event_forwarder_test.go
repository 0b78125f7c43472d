package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leetstreak/events"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) snapshot() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

func TestEventForwarder_Forward(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewEventForwarder(publisher)

	event := events.CompletionRecordedEvent{
		GuildID:         "guild-1",
		MemberID:        "member-1",
		TrackedUsername: "alice",
		ChallengeSlug:   "two-sum",
		Day:             time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StreakCount:     4,
	}

	require.NoError(t, forwarder.Forward(context.Background(), event))

	msgs := publisher.snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, SubjectCompletionRecorded, msgs[0].subject)

	var decoded events.CompletionRecordedEvent
	require.NoError(t, sonic.Unmarshal(msgs[0].data, &decoded))
	assert.Equal(t, "alice", decoded.TrackedUsername)
	assert.Equal(t, 4, decoded.StreakCount)
	assert.True(t, event.Day.Equal(decoded.Day))
}

func TestEventForwarder_UnknownEventType(t *testing.T) {
	publisher := &recordingPublisher{}
	forwarder := NewEventForwarder(publisher)

	err := forwarder.Forward(context.Background(), events.SchedulesChangedEvent{GuildID: "guild-1"})
	assert.Error(t, err)
	assert.Empty(t, publisher.snapshot())
}

func TestEventForwarder_PublishError(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("nats down")}
	forwarder := NewEventForwarder(publisher)

	err := forwarder.Forward(context.Background(), events.CheckCompletedEvent{RunID: "run-1"})
	assert.ErrorContains(t, err, "nats down")
}

func TestEventForwarder_Attach(t *testing.T) {
	publisher := &recordingPublisher{}
	bus := events.NewBus()
	NewEventForwarder(publisher).Attach(bus)

	bus.Publish(events.CheckCompletedEvent{RunID: "run-1", GuildID: "guild-1", CompletedCount: 2})
	bus.Publish(events.SchedulesChangedEvent{GuildID: "guild-1"})

	require.Eventually(t, func() bool {
		return len(publisher.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, SubjectCheckCompleted, publisher.snapshot()[0].subject)
}

func TestSubjectFor(t *testing.T) {
	subject, ok := SubjectFor(events.EventTypeCompletionRecorded)
	assert.True(t, ok)
	assert.Equal(t, SubjectCompletionRecorded, subject)

	_, ok = SubjectFor(events.EventTypeSchedulesChanged)
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{SubjectCompletionRecorded, SubjectCheckCompleted}, Subjects())
}
