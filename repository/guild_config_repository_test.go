package repository

import (
	"context"
	"testing"

	"leetstreak/models"
	"leetstreak/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing guild returns nil", func(t *testing.T) {
		config, err := repo.GetByGuildID(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, config)
	})

	t.Run("ensure is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Ensure(ctx, "guild-1"))
		require.NoError(t, repo.Ensure(ctx, "guild-1"))

		config, err := repo.GetByGuildID(ctx, "guild-1")
		require.NoError(t, err)
		require.NotNil(t, config)
		assert.False(t, config.HasChannel())
		assert.Empty(t, config.TrackedUsers)
		assert.Empty(t, config.Schedules)
	})

	t.Run("set channel", func(t *testing.T) {
		require.NoError(t, repo.SetChannel(ctx, "guild-1", "channel-1"))

		config, err := repo.GetByGuildID(ctx, "guild-1")
		require.NoError(t, err)
		assert.Equal(t, "channel-1", config.GetChannelID())
	})

	t.Run("set channel on missing guild", func(t *testing.T) {
		err := repo.SetChannel(ctx, "absent", "channel-1")
		assert.ErrorIs(t, err, models.ErrConfigMissing)
	})

	t.Run("tracked users", func(t *testing.T) {
		require.NoError(t, repo.AddTrackedUser(ctx, "guild-1", testutil.CreateTestTrackedUser("bob", "")))
		require.NoError(t, repo.AddTrackedUser(ctx, "guild-1", testutil.CreateTestTrackedUser("alice", "111")))

		err := repo.AddTrackedUser(ctx, "guild-1", testutil.CreateTestTrackedUser("alice", "222"))
		assert.ErrorIs(t, err, models.ErrDuplicate)

		config, err := repo.GetByGuildID(ctx, "guild-1")
		require.NoError(t, err)
		require.Len(t, config.TrackedUsers, 2)
		assert.Equal(t, "alice", config.TrackedUsers[0].Username)
		assert.Equal(t, "111", config.TrackedUsers[0].EffectiveMemberID())
		assert.Equal(t, "bob", config.TrackedUsers[1].EffectiveMemberID())

		require.NoError(t, repo.RemoveTrackedUser(ctx, "guild-1", "bob"))
		assert.ErrorIs(t, repo.RemoveTrackedUser(ctx, "guild-1", "bob"), models.ErrNotFound)
	})

	t.Run("schedules", func(t *testing.T) {
		require.NoError(t, repo.Ensure(ctx, "guild-2"))

		require.NoError(t, repo.AddSchedule(ctx, "guild-1", models.Schedule{Hour: 18, Minute: 0}))
		require.NoError(t, repo.AddSchedule(ctx, "guild-1", models.Schedule{Hour: 9, Minute: 30}))
		require.NoError(t, repo.AddSchedule(ctx, "guild-2", models.Schedule{Hour: 7, Minute: 15}))

		err := repo.AddSchedule(ctx, "guild-1", models.Schedule{Hour: 9, Minute: 30})
		assert.ErrorIs(t, err, models.ErrDuplicate)

		schedules, err := repo.GetSchedules(ctx, "guild-1")
		require.NoError(t, err)
		assert.Equal(t, []models.Schedule{{Hour: 9, Minute: 30}, {Hour: 18, Minute: 0}}, schedules)

		all, err := repo.ListAllSchedules(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, []models.Schedule{{Hour: 7, Minute: 15}}, all["guild-2"])

		require.NoError(t, repo.RemoveSchedule(ctx, "guild-1", models.Schedule{Hour: 18, Minute: 0}))
		err = repo.RemoveSchedule(ctx, "guild-1", models.Schedule{Hour: 18, Minute: 0})
		assert.ErrorIs(t, err, models.ErrNotFound)

		ids, err := repo.ListGuildIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"guild-1", "guild-2"}, ids)
	})

	t.Run("out of range schedule rejected by store", func(t *testing.T) {
		err := repo.AddSchedule(ctx, "guild-1", models.Schedule{Hour: 25, Minute: 0})
		assert.Error(t, err)
	})
}
