package common

import (
	"fmt"
	"strings"
	"time"

	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorSuccess = 0x00ff00
	ColorWarning = 0xffa500

	NoTrackedUsersMessage = "No users are being tracked in this server."
)

// FormatIncompleteMessage builds the reminder for members that have not solved today's challenge
func FormatIncompleteMessage(users []models.TrackedUser) string {
	mentions := make([]string, len(users))
	for i, u := range users {
		mentions[i] = u.Mention()
	}
	return fmt.Sprintf("⚠️ %s\nDon't forget to complete today's LeetCode Daily Challenge!", strings.Join(mentions, ", "))
}

// FormatStreak formats the /streak reply
func FormatStreak(streak int) string {
	return fmt.Sprintf("Your current streak is **%d** days! Keep it up!", streak)
}

// FormatCompletionRate formats the /stats reply
func FormatCompletionRate(rate *models.CompletionRate) string {
	period := "week"
	if rate.Period == models.StatsPeriodMonthly {
		period = "month"
	}
	return fmt.Sprintf("You have completed **%d** challenges in the past %s. Great job!", rate.Total, period)
}

// FormatLeaderboard formats the /leaderboard reply
func FormatLeaderboard(entries []*models.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "No leaderboard data available yet. Encourage your server members to participate!"
	}

	var sb strings.Builder
	sb.WriteString("🏆 **Leaderboard** 🏆")
	for _, e := range entries {
		who := fmt.Sprintf("<@%s>", e.MemberID)
		if e.MemberID == e.TrackedUsername {
			who = e.TrackedUsername
		}
		fmt.Fprintf(&sb, "\n**#%d** %s - **%d** days", e.Rank, who, e.Streak)
	}
	return sb.String()
}

// FormatTrackedUsers formats the /listusers reply
func FormatTrackedUsers(users []models.TrackedUser) string {
	if len(users) == 0 {
		return NoTrackedUsersMessage
	}

	var sb strings.Builder
	sb.WriteString("Currently tracking these users:")
	for _, u := range users {
		if u.MemberID != nil && *u.MemberID != "" {
			fmt.Fprintf(&sb, "\n• %s (<@%s>)", u.Username, *u.MemberID)
		} else {
			fmt.Fprintf(&sb, "\n• %s", u.Username)
		}
	}
	return sb.String()
}

// FormatSchedules formats the /managecron list reply
func FormatSchedules(schedules []models.Schedule) string {
	if len(schedules) == 0 {
		return "No scheduled check times configured."
	}

	lines := make([]string, len(schedules))
	for i, s := range schedules {
		lines[i] = s.String()
	}
	return "Scheduled check times:\n" + strings.Join(lines, "\n")
}

// CheckReportEmbed renders a manual check report
func CheckReportEmbed(report *models.CheckReport) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Daily LeetCode Challenge Status",
		Color:     ColorSuccess,
		Timestamp: report.CheckedAt.Format(time.RFC3339),
	}

	if p := report.Problem; p != nil {
		topics := "None"
		if len(p.Topics) > 0 {
			topics = strings.Join(p.Topics, ", ")
		}
		acRate := p.AcceptanceRate
		if acRate == "" {
			acRate = "N/A"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Problem Info",
			Value: fmt.Sprintf("**%s** (%s)\nTopics: %s\nAcceptance Rate: %s\n[View Problem](%s)",
				p.Title, p.Difficulty, topics, acRate, p.URL),
		})
	}

	if len(report.Incomplete) > 0 {
		embed.Color = ColorWarning
	}

	for _, m := range report.Completed {
		embed.Fields = append(embed.Fields, memberField(m))
	}
	for _, m := range report.Incomplete {
		embed.Fields = append(embed.Fields, memberField(m))
	}

	return embed
}

func memberField(m models.MemberResult) *discordgo.MessageEmbedField {
	value := "❌ Not completed"
	switch m.Status {
	case models.MemberCompleted:
		value = "✅ Completed"
	case models.MemberFetchFailed:
		value = "⚠️ Could not fetch submissions"
	}
	return &discordgo.MessageEmbedField{
		Name:   m.User.Username,
		Value:  value,
		Inline: true,
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
