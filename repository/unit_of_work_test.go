package repository

import (
	"context"
	"testing"
	"time"

	"leetstreak/events"
	"leetstreak/models"
	"leetstreak/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeSchedulesChanged, func(ctx context.Context, e events.Event) {
		received <- e
	})

	uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	require.NoError(t, uow.GuildConfigRepository().Ensure(ctx, "guild-1"))
	require.NoError(t, uow.GuildConfigRepository().AddSchedule(ctx, "guild-1", models.Schedule{Hour: 9, Minute: 30}))
	uow.EventBus().Publish(events.SchedulesChangedEvent{GuildID: "guild-1"})
	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		assert.Equal(t, events.SchedulesChangedEvent{GuildID: "guild-1"}, e)
	case <-time.After(2 * time.Second):
		t.Fatal("event not flushed after commit")
	}

	schedules, err := NewGuildConfigRepository(testDB.DB).GetSchedules(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, []models.Schedule{{Hour: 9, Minute: 30}}, schedules)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeSchedulesChanged, func(ctx context.Context, e events.Event) {
		received <- e
	})

	uow := NewUnitOfWorkFactory(testDB.DB, bus).Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.GuildConfigRepository().Ensure(ctx, "guild-1"))
	uow.EventBus().Publish(events.SchedulesChangedEvent{GuildID: "guild-1"})
	require.NoError(t, uow.Rollback())

	config, err := NewGuildConfigRepository(testDB.DB).GetByGuildID(ctx, "guild-1")
	require.NoError(t, err)
	assert.Nil(t, config)

	select {
	case <-received:
		t.Fatal("event delivered after rollback")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnitOfWork_GettersPanicBeforeBegin(t *testing.T) {
	uow := &unitOfWork{}
	assert.Panics(t, func() { uow.GuildConfigRepository() })
	assert.Panics(t, func() { uow.CompletionRecordRepository() })
}
