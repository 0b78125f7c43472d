package tracking

import (
	"leetstreak/service"

	"github.com/bwmarrin/discordgo"
)

// Feature manages tracked users and the announcement channel
type Feature struct {
	configService service.GuildConfigService
}

// NewFeature creates a new tracking feature instance
func NewFeature(configService service.GuildConfigService) *Feature {
	return &Feature{configService: configService}
}

// Commands returns the slash commands handled by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "adduser",
			Description: "Add a LeetCode username to track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "The LeetCode username to add",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "discord_user",
					Description: "The Discord user to associate with this LeetCode account",
					Required:    false,
				},
			},
		},
		{
			Name:        "removeuser",
			Description: "Remove a LeetCode username from tracking",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "The LeetCode username to remove",
					Required:    true,
				},
			},
		},
		{
			Name:        "listusers",
			Description: "List all tracked LeetCode usernames",
		},
		{
			Name:        "setchannel",
			Description: "Set the announcement channel for this server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "The channel to send announcements to",
					Required:     true,
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
				},
			},
		},
	}
}
