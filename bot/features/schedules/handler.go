package schedules

import (
	"context"
	"errors"
	"fmt"

	"leetstreak/bot/common"
	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func parseSchedule(options []*discordgo.ApplicationCommandInteractionDataOption) models.Schedule {
	var schedule models.Schedule
	for _, opt := range options {
		switch opt.Name {
		case "hours":
			schedule.Hour = int(opt.IntValue())
		case "minutes":
			schedule.Minute = int(opt.IntValue())
		}
	}
	return schedule
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	schedule := parseSchedule(options)
	err := f.manager.AddSchedule(context.Background(), i.GuildID, schedule)
	common.RespondWithMessage(s, i, addReply(schedule, err, i.GuildID), false)
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	schedule := parseSchedule(options)
	err := f.manager.RemoveSchedule(context.Background(), i.GuildID, schedule)
	common.RespondWithMessage(s, i, removeReply(schedule, err, i.GuildID), false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	schedules, err := f.manager.ListSchedules(context.Background(), i.GuildID)
	if err != nil {
		log.WithField("guildID", i.GuildID).WithError(err).Error("Failed to list schedules")
		common.RespondWithError(s, i, "Unable to list scheduled check times. Please try again.")
		return
	}
	common.RespondWithMessage(s, i, common.FormatSchedules(schedules), false)
}

func addReply(schedule models.Schedule, err error, guildID string) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Added check time %s.", schedule)
	case errors.Is(err, models.ErrInvalidSchedule):
		return "Invalid time. Hours must be 0-23 and minutes 0-59."
	case errors.Is(err, models.ErrDuplicate):
		return fmt.Sprintf("Check time %s already exists.", schedule)
	default:
		log.WithFields(log.Fields{
			"guildID":  guildID,
			"schedule": schedule.String(),
		}).WithError(err).Error("Failed to add schedule")
		return "Unable to add check time. Please try again."
	}
}

func removeReply(schedule models.Schedule, err error, guildID string) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Removed check time %s.", schedule)
	case errors.Is(err, models.ErrInvalidSchedule):
		return "Invalid time. Hours must be 0-23 and minutes 0-59."
	case errors.Is(err, models.ErrNotFound):
		return fmt.Sprintf("Check time %s not found.", schedule)
	default:
		log.WithFields(log.Fields{
			"guildID":  guildID,
			"schedule": schedule.String(),
		}).WithError(err).Error("Failed to remove schedule")
		return "Unable to remove check time. Please try again."
	}
}
