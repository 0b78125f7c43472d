package schedules

import (
	"context"

	"leetstreak/bot/common"
	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
)

// ScheduleManager persists schedules and keeps the armed cron jobs in step
type ScheduleManager interface {
	AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
	RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
	ListSchedules(ctx context.Context, guildID string) ([]models.Schedule, error)
}

// Feature handles /managecron
type Feature struct {
	manager ScheduleManager
}

// NewFeature creates a new schedules feature instance
func NewFeature(manager ScheduleManager) *Feature {
	return &Feature{manager: manager}
}

func timeOptions() []*discordgo.ApplicationCommandOption {
	minValue := float64(0)
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "hours",
			Description: "Hour in 24H format (0-23)",
			Required:    true,
			MinValue:    &minValue,
			MaxValue:    23,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "minutes",
			Description: "Minutes (0-59)",
			Required:    true,
			MinValue:    &minValue,
			MaxValue:    59,
		},
	}
}

// Commands returns the slash commands handled by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "managecron",
			Description: "Manage scheduled LeetCode checks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a new check time",
					Options:     timeOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove an existing check time",
					Options:     timeOptions(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all scheduled check times",
				},
			},
		},
	}
}

// HandleCommand routes /managecron subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.HasPermission(i, discordgo.PermissionManageChannels) {
		common.RespondWithError(s, i, "You need the Manage Channels permission to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: add, remove or list")
		return
	}

	switch options[0].Name {
	case "add":
		f.handleAdd(s, i, options[0].Options)
	case "remove":
		f.handleRemove(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
