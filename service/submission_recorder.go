package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	log "github.com/sirupsen/logrus"
)

// RecordRequest identifies one member's accepted submission of a day's challenge
type RecordRequest struct {
	GuildID      string
	MemberID     string
	Username     string
	Day          time.Time
	Problem      *models.Problem
	RawTimestamp string
}

// submissionRecorder implements the CompletionRecorder interface
type submissionRecorder struct {
	records   CompletionRecordRepository
	streaks   StreakCalculator
	resolver  *TimestampResolver
	publisher EventPublisher
}

// NewSubmissionRecorder creates a new completion recorder
func NewSubmissionRecorder(records CompletionRecordRepository, streaks StreakCalculator, resolver *TimestampResolver, publisher EventPublisher) CompletionRecorder {
	return &submissionRecorder{
		records:   records,
		streaks:   streaks,
		resolver:  resolver,
		publisher: publisher,
	}
}

// RecordIfAbsent stores a completion record unless one already exists for the day.
// The lookup is only a fast path; concurrent writers are settled by the store's
// uniqueness constraint and the loser reports the record as already present.
func (r *submissionRecorder) RecordIfAbsent(ctx context.Context, req RecordRequest) (*models.CompletionRecord, bool, error) {
	if req.Problem == nil {
		return nil, false, fmt.Errorf("problem metadata is required")
	}

	day := models.DayOf(req.Day, time.UTC)
	logger := log.WithFields(log.Fields{
		"guildID":  req.GuildID,
		"memberID": req.MemberID,
		"slug":     req.Problem.Slug,
		"day":      day.Format("2006-01-02"),
	})

	existing, err := r.records.FindInWindow(ctx, req.GuildID, req.MemberID, req.Problem.Slug, day, models.NextDay(day))
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up existing record: %w", err)
	}
	if existing != nil {
		logger.Debug("Completion already recorded")
		return existing, false, nil
	}

	streak, err := r.streaks.ComputeOnWrite(ctx, req.GuildID, req.MemberID, day)
	if err != nil {
		return nil, false, fmt.Errorf("failed to compute streak: %w", err)
	}

	record := &models.CompletionRecord{
		GuildID:         req.GuildID,
		MemberID:        req.MemberID,
		TrackedUsername: req.Username,
		Day:             day,
		ChallengeTitle:  req.Problem.Title,
		ChallengeSlug:   req.Problem.Slug,
		Difficulty:      req.Problem.Difficulty,
		SubmittedAt:     r.resolver.Resolve(req.RawTimestamp),
		Completed:       true,
		StreakCount:     streak,
	}

	if err := r.records.Create(ctx, record); err != nil {
		if errors.Is(err, models.ErrDuplicateWrite) {
			logger.Debug("Completion recorded concurrently")
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to create completion record: %w", err)
	}

	logger.WithField("streak", streak).Info("Recorded completion")

	if r.publisher != nil {
		r.publisher.Publish(events.CompletionRecordedEvent{
			GuildID:         record.GuildID,
			MemberID:        record.MemberID,
			TrackedUsername: record.TrackedUsername,
			ChallengeSlug:   record.ChallengeSlug,
			Day:             record.Day,
			StreakCount:     record.StreakCount,
		})
	}

	return record, true, nil
}
