package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalBusFlushDeliversToMainBus(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	received := make(chan CompletionRecordedEvent, 1)
	mainBus.Subscribe(EventTypeCompletionRecorded, func(ctx context.Context, event Event) {
		if e, ok := event.(CompletionRecordedEvent); ok {
			received <- e
		}
	})

	sent := CompletionRecordedEvent{
		GuildID:         "guild-1",
		MemberID:        "member-1",
		TrackedUsername: "alice",
		ChallengeSlug:   "two-sum",
		Day:             time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		StreakCount:     4,
	}
	txBus.Publish(sent)
	txBus.Flush()

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBusDeliversToEveryHandler(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var calls int
	for i := 0; i < 2; i++ {
		bus.Subscribe(EventTypeCheckCompleted, func(ctx context.Context, event Event) {
			defer wg.Done()
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}

	bus.Publish(CheckCompletedEvent{GuildID: "guild-1", CompletedCount: 2})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestBusRecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus()

	delivered := make(chan struct{}, 1)
	bus.Subscribe(EventTypeSchedulesChanged, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeSchedulesChanged, func(ctx context.Context, event Event) {
		delivered <- struct{}{}
	})

	require.NotPanics(t, func() {
		bus.Publish(SchedulesChangedEvent{GuildID: "guild-1"})
	})

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}

func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	received := make(chan struct{}, 1)
	mainBus.Subscribe(EventTypeSchedulesChanged, func(ctx context.Context, event Event) {
		received <- struct{}{}
	})

	txBus.Publish(SchedulesChangedEvent{GuildID: "guild-1"})
	txBus.Discard()
	txBus.Flush()

	select {
	case <-received:
		t.Fatal("discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}
