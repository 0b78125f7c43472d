package streaks

import (
	"leetstreak/service"

	"github.com/bwmarrin/discordgo"
)

// Feature serves streak, leaderboard and completion statistics
type Feature struct {
	statsService service.StatsService
}

// NewFeature creates a new streaks feature instance
func NewFeature(statsService service.StatsService) *Feature {
	return &Feature{statsService: statsService}
}

// Commands returns the slash commands handled by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "streak",
			Description: "Check your current streak for completing LeetCode Daily Challenges",
		},
		{
			Name:        "leaderboard",
			Description: "View the leaderboard for LeetCode Daily Challenge streaks in this server",
		},
		{
			Name:        "stats",
			Description: "View your weekly or monthly completion stats for LeetCode Daily Challenges",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "period",
					Description: "Choose the period: weekly or monthly",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Weekly", Value: "weekly"},
						{Name: "Monthly", Value: "monthly"},
					},
				},
			},
		},
	}
}
