package common

import (
	"testing"
	"time"

	"leetstreak/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFormatIncompleteMessage(t *testing.T) {
	users := []models.TrackedUser{
		{Username: "alice", MemberID: strPtr("111")},
		{Username: "bob"},
	}

	assert.Equal(t,
		"⚠️ <@111>, bob\nDon't forget to complete today's LeetCode Daily Challenge!",
		FormatIncompleteMessage(users))
}

func TestFormatLeaderboard(t *testing.T) {
	assert.Equal(t,
		"No leaderboard data available yet. Encourage your server members to participate!",
		FormatLeaderboard(nil))

	entries := []*models.LeaderboardEntry{
		{Rank: 1, MemberID: "111", TrackedUsername: "alice", Streak: 5},
		{Rank: 2, MemberID: "bob", TrackedUsername: "bob", Streak: 2},
	}
	assert.Equal(t,
		"🏆 **Leaderboard** 🏆\n**#1** <@111> - **5** days\n**#2** bob - **2** days",
		FormatLeaderboard(entries))
}

func TestFormatCompletionRate(t *testing.T) {
	assert.Equal(t,
		"You have completed **3** challenges in the past week. Great job!",
		FormatCompletionRate(&models.CompletionRate{Total: 3, Period: models.StatsPeriodWeekly}))
	assert.Equal(t,
		"You have completed **12** challenges in the past month. Great job!",
		FormatCompletionRate(&models.CompletionRate{Total: 12, Period: models.StatsPeriodMonthly}))
}

func TestFormatTrackedUsers(t *testing.T) {
	assert.Equal(t, NoTrackedUsersMessage, FormatTrackedUsers(nil))
	assert.Equal(t,
		"Currently tracking these users:\n• alice (<@111>)\n• bob",
		FormatTrackedUsers([]models.TrackedUser{
			{Username: "alice", MemberID: strPtr("111")},
			{Username: "bob"},
		}))
}

func TestFormatSchedules(t *testing.T) {
	assert.Equal(t, "No scheduled check times configured.", FormatSchedules(nil))
	assert.Equal(t,
		"Scheduled check times:\n09:30\n18:05",
		FormatSchedules([]models.Schedule{{Hour: 9, Minute: 30}, {Hour: 18, Minute: 5}}))
}

func TestCheckReportEmbed(t *testing.T) {
	report := &models.CheckReport{
		Problem: &models.Problem{
			Slug:           "two-sum",
			Title:          "Two Sum",
			Difficulty:     models.DifficultyEasy,
			Topics:         []string{"Array", "Hash Table"},
			AcceptanceRate: "52.1%",
			URL:            "https://leetcode.com/problems/two-sum/",
		},
		Completed: []models.MemberResult{
			{User: models.TrackedUser{Username: "alice"}, Status: models.MemberCompleted},
		},
		Incomplete: []models.MemberResult{
			{User: models.TrackedUser{Username: "bob"}, Status: models.MemberIncomplete},
			{User: models.TrackedUser{Username: "carol"}, Status: models.MemberFetchFailed},
		},
		CheckedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
	}

	embed := CheckReportEmbed(report)
	assert.Equal(t, "Daily LeetCode Challenge Status", embed.Title)
	assert.Equal(t, ColorWarning, embed.Color)
	require.Len(t, embed.Fields, 4)

	assert.Equal(t, "Problem Info", embed.Fields[0].Name)
	assert.Equal(t,
		"**Two Sum** (Easy)\nTopics: Array, Hash Table\nAcceptance Rate: 52.1%\n[View Problem](https://leetcode.com/problems/two-sum/)",
		embed.Fields[0].Value)

	assert.Equal(t, "alice", embed.Fields[1].Name)
	assert.Equal(t, "✅ Completed", embed.Fields[1].Value)
	assert.Equal(t, "❌ Not completed", embed.Fields[2].Value)
	assert.Equal(t, "⚠️ Could not fetch submissions", embed.Fields[3].Value)
}
