package service

import (
	"context"
	"fmt"
	"time"

	"leetstreak/models"
)

// streakService implements the StreakCalculator interface
type streakService struct {
	records CompletionRecordRepository
	clock   *Clock
}

// NewStreakService creates a new streak calculator
func NewStreakService(records CompletionRecordRepository, clock *Clock) StreakCalculator {
	return &streakService{
		records: records,
		clock:   clock,
	}
}

// ComputeOnWrite extends the streak of the previous day's record, or starts a new one
func (s *streakService) ComputeOnWrite(ctx context.Context, guildID, memberID string, day time.Time) (int, error) {
	previous, err := s.records.GetHighestStreakOnDay(ctx, guildID, memberID, day.AddDate(0, 0, -1))
	if err != nil {
		return 0, fmt.Errorf("failed to get previous day record: %w", err)
	}

	if previous == nil {
		return 1, nil
	}
	return previous.StreakCount + 1, nil
}

// CurrentStreak returns the stored streak of the latest record if it is from today or
// yesterday. Older records mean the streak has lapsed; the stored value is left untouched.
func (s *streakService) CurrentStreak(ctx context.Context, guildID, memberID string) (int, error) {
	latest, err := s.records.GetLatest(ctx, guildID, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest record: %w", err)
	}
	if latest == nil {
		return 0, nil
	}

	day := models.DayOf(latest.Day, time.UTC)
	if day.Equal(s.clock.Today()) || day.Equal(s.clock.Yesterday()) {
		return latest.StreakCount, nil
	}
	return 0, nil
}
