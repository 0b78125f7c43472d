package streaks

import (
	"context"

	"leetstreak/bot/common"
	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleStreak handles /streak
func (f *Feature) HandleStreak(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer /streak response")
		return
	}

	memberID := common.InvokerID(i)
	streak, err := f.statsService.CurrentStreak(context.Background(), i.GuildID, memberID)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":  i.GuildID,
			"memberID": memberID,
		}).WithError(err).Error("Failed to compute streak")
		common.EditResponse(s, i, "Unable to retrieve your streak. Please try again.")
		return
	}
	common.EditResponse(s, i, common.FormatStreak(streak))
}

// HandleLeaderboard handles /leaderboard
func (f *Feature) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer /leaderboard response")
		return
	}

	entries, err := f.statsService.Leaderboard(context.Background(), i.GuildID)
	if err != nil {
		log.WithField("guildID", i.GuildID).WithError(err).Error("Failed to build leaderboard")
		common.EditResponse(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}
	common.EditResponse(s, i, common.FormatLeaderboard(entries))
}

// HandleStats handles /stats
func (f *Feature) HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please choose a period: weekly or monthly")
		return
	}
	period, err := models.ParseStatsPeriod(options[0].StringValue())
	if err != nil {
		common.RespondWithError(s, i, "Please choose a period: weekly or monthly")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer /stats response")
		return
	}

	memberID := common.InvokerID(i)
	rate, err := f.statsService.CompletionRate(context.Background(), i.GuildID, memberID, period)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":  i.GuildID,
			"memberID": memberID,
			"period":   period,
		}).WithError(err).Error("Failed to compute completion rate")
		common.EditResponse(s, i, "Unable to retrieve your stats. Please try again.")
		return
	}
	common.EditResponse(s, i, common.FormatCompletionRate(rate))
}
