package models

import "fmt"

// StatsPeriod is the window used for completion rates
type StatsPeriod string

const (
	StatsPeriodWeekly  StatsPeriod = "weekly"
	StatsPeriodMonthly StatsPeriod = "monthly"
)

// ParseStatsPeriod validates a period option
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch StatsPeriod(s) {
	case StatsPeriodWeekly, StatsPeriodMonthly:
		return StatsPeriod(s), nil
	default:
		return "", fmt.Errorf("unknown stats period %q", s)
	}
}

// CompletionRate is the number of completions of a member within a period
type CompletionRate struct {
	Total  int
	Period StatsPeriod
}

// LeaderboardEntry is one ranked row of a guild's streak leaderboard
type LeaderboardEntry struct {
	Rank            int
	MemberID        string
	TrackedUsername string
	Streak          int
}

// LeaderboardSize is the maximum number of entries returned
const LeaderboardSize = 10
