package models

import (
	"fmt"
	"time"
)

// Difficulty is the LeetCode difficulty of a problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty validates a difficulty label returned by the API
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// CompletionRecord is immutable proof that a member solved one day's challenge
type CompletionRecord struct {
	ID              int64      `db:"id"`
	GuildID         string     `db:"guild_id"`
	MemberID        string     `db:"member_id"`
	TrackedUsername string     `db:"tracked_username"`
	Day             time.Time  `db:"day"`
	ChallengeTitle  string     `db:"challenge_title"`
	ChallengeSlug   string     `db:"challenge_slug"`
	Difficulty      Difficulty `db:"difficulty"`
	SubmittedAt     time.Time  `db:"submitted_at"`
	Completed       bool       `db:"completed"`
	StreakCount     int        `db:"streak_count"`
	CreatedAt       time.Time  `db:"created_at"`
}

// DayOf truncates t to its calendar date in loc.
// Days are represented as midnight UTC of that date so they round-trip through a DATE column.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the day bucket after day
func NextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// PreviousDay returns the day bucket before day
func PreviousDay(day time.Time) time.Time {
	return day.AddDate(0, 0, -1)
}
