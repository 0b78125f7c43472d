package challenge

import (
	"context"
	"errors"
	"time"

	"leetstreak/bot/common"
	"leetstreak/models"
	"leetstreak/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const checkTimeout = 2 * time.Minute

// Feature handles /check
type Feature struct {
	checker service.ChallengeChecker
}

// NewFeature creates a new challenge feature instance
func NewFeature(checker service.ChallengeChecker) *Feature {
	return &Feature{checker: checker}
}

// Commands returns the slash commands handled by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "check",
			Description: "Run a manual check of today's LeetCode challenge status",
		},
	}
}

// HandleCommand runs an on-demand check and replies with the report
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.WithError(err).Error("Failed to defer /check response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	report, err := f.checker.Check(ctx, i.GuildID)
	switch {
	case errors.Is(err, models.ErrConfigMissing):
		common.EditResponse(s, i, common.NoTrackedUsersMessage)
	case errors.Is(err, models.ErrSourceUnavailable):
		log.WithField("guildID", i.GuildID).WithError(err).Warn("Manual check could not reach LeetCode")
		common.EditResponse(s, i, "Couldn't fetch today's challenge from LeetCode. Please try again later.")
	case err != nil:
		log.WithField("guildID", i.GuildID).WithError(err).Error("Manual check failed")
		common.EditResponse(s, i, "An error occurred while processing your command.")
	case report.Problem == nil:
		common.EditResponse(s, i, common.NoTrackedUsersMessage)
	default:
		common.EditResponseWithEmbed(s, i, common.CheckReportEmbed(report))
	}
}
