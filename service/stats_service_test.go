package service

import (
	"context"
	"testing"
	"time"

	"leetstreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsService(now time.Time) (StatsService, *MockUnitOfWork, *MockCompletionRecordRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockRecords := new(MockCompletionRecordRepository)
	mockUoW.SetRepositories(nil, mockRecords, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return NewStatsService(mockFactory, NewFixedClock(now, time.UTC)), mockUoW, mockRecords
}

func TestStatsService_CompletionRate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		period models.StatsPeriod
		since  time.Time
		count  int
	}{
		{period: models.StatsPeriodWeekly, since: day(2024, 3, 4), count: 5},
		{period: models.StatsPeriodMonthly, since: day(2024, 2, 11), count: 21},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			svc, mockUoW, mockRecords := setupStatsService(now)
			mockRecords.On("CountSince", ctx, "guild-1", "member-1", tt.since).Return(tt.count, nil)

			rate, err := svc.CompletionRate(ctx, "guild-1", "member-1", tt.period)

			require.NoError(t, err)
			assert.Equal(t, tt.count, rate.Total)
			assert.Equal(t, tt.period, rate.Period)
			mockRecords.AssertExpectations(t)
			mockUoW.AssertExpectations(t)
		})
	}
}

func TestStatsService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	svc, _, mockRecords := setupStatsService(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC))

	mockRecords.On("GetTopStreaks", ctx, "guild-1", day(2024, 3, 9), models.LeaderboardSize).Return([]*models.CompletionRecord{
		{MemberID: "111", TrackedUsername: "alice", StreakCount: 9},
		{MemberID: "222", TrackedUsername: "bob", StreakCount: 4},
		{MemberID: "carol", TrackedUsername: "carol", StreakCount: 4},
	}, nil)

	entries, err := svc.Leaderboard(ctx, "guild-1")

	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "111", entries[0].MemberID)
	assert.Equal(t, 9, entries[0].Streak)
	assert.Equal(t, "carol", entries[2].TrackedUsername)
}

func TestStatsService_Leaderboard_DropsNonPositiveStreaks(t *testing.T) {
	ctx := context.Background()
	svc, _, mockRecords := setupStatsService(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC))

	mockRecords.On("GetTopStreaks", ctx, "guild-1", day(2024, 3, 9), models.LeaderboardSize).Return([]*models.CompletionRecord{
		{MemberID: "111", StreakCount: 2},
		{MemberID: "222", StreakCount: 0},
	}, nil)

	entries, err := svc.Leaderboard(ctx, "guild-1")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "111", entries[0].MemberID)
}

func TestStatsService_CurrentStreak(t *testing.T) {
	ctx := context.Background()
	svc, _, mockRecords := setupStatsService(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC))

	mockRecords.On("GetLatest", ctx, "guild-1", "member-1").
		Return(&models.CompletionRecord{Day: day(2024, 3, 9), StreakCount: 6}, nil)

	streak, err := svc.CurrentStreak(ctx, "guild-1", "member-1")

	require.NoError(t, err)
	assert.Equal(t, 6, streak)
}
