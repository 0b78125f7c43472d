package service

import (
	"context"
	"fmt"

	"leetstreak/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
	clock      *Clock
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory, clock *Clock) StatsService {
	return &statsService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// CompletionRate counts completions from the start of the period through today
func (s *statsService) CompletionRate(ctx context.Context, guildID, memberID string, period models.StatsPeriod) (*models.CompletionRate, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.CompletionRecordRepository().CountSince(ctx, guildID, memberID, s.clock.PeriodStart(period))
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	return &models.CompletionRate{
		Total:  total,
		Period: period,
	}, nil
}

// Leaderboard ranks members with a record since yesterday by streak
func (s *statsService) Leaderboard(ctx context.Context, guildID string) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.CompletionRecordRepository().GetTopStreaks(ctx, guildID, s.clock.Yesterday(), models.LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get top streaks: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(records))
	for _, record := range records {
		if record.StreakCount <= 0 {
			continue
		}
		entries = append(entries, &models.LeaderboardEntry{
			Rank:            len(entries) + 1,
			MemberID:        record.MemberID,
			TrackedUsername: record.TrackedUsername,
			Streak:          record.StreakCount,
		})
		if len(entries) == models.LeaderboardSize {
			break
		}
	}

	return entries, nil
}

// CurrentStreak returns the member's streak as of today
func (s *statsService) CurrentStreak(ctx context.Context, guildID, memberID string) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return NewStreakService(uow.CompletionRecordRepository(), s.clock).CurrentStreak(ctx, guildID, memberID)
}
