package testutil

import (
	"time"

	"leetstreak/models"
)

// Day returns the day bucket for a calendar date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestCompletionRecord creates a completion record for the two-sum challenge
func CreateTestCompletionRecord(guildID, memberID string, day time.Time, streak int) *models.CompletionRecord {
	return &models.CompletionRecord{
		GuildID:         guildID,
		MemberID:        memberID,
		TrackedUsername: memberID,
		Day:             day,
		ChallengeTitle:  "Two Sum",
		ChallengeSlug:   "two-sum",
		Difficulty:      models.DifficultyEasy,
		SubmittedAt:     day.Add(10 * time.Hour),
		Completed:       true,
		StreakCount:     streak,
	}
}

// CreateTestCompletionRecordForSlug creates a completion record for a specific challenge
func CreateTestCompletionRecordForSlug(guildID, memberID, slug string, day time.Time, streak int) *models.CompletionRecord {
	record := CreateTestCompletionRecord(guildID, memberID, day, streak)
	record.ChallengeSlug = slug
	record.ChallengeTitle = slug
	return record
}

// CreateTestTrackedUser creates a tracked user, mapped to memberID when it is non-empty
func CreateTestTrackedUser(username, memberID string) models.TrackedUser {
	user := models.TrackedUser{Username: username}
	if memberID != "" {
		user.MemberID = &memberID
	}
	return user
}
