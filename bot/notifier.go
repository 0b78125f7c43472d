package bot

import (
	"context"
	"errors"
	"fmt"

	"leetstreak/bot/common"
	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const requiredChannelPermissions = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages

// Notifier posts check results to a guild's announcement channel and escalates
// permission problems to the guild owner.
type Notifier struct {
	gateway Gateway
}

// NewNotifier creates a notifier on top of gateway
func NewNotifier(gateway Gateway) *Notifier {
	return &Notifier{gateway: gateway}
}

// NotifyIncomplete mentions every incomplete member in the announcement channel.
// Permission failures are reported to the guild owner and are not returned.
func (n *Notifier) NotifyIncomplete(ctx context.Context, config *models.GuildConfig, report *models.CheckReport) error {
	if !config.HasChannel() || len(report.Incomplete) == 0 {
		return nil
	}
	channelID := config.GetChannelID()

	logger := log.WithFields(log.Fields{
		"guildID":   config.GuildID,
		"channelID": channelID,
		"runID":     report.RunID,
	})

	perms, err := n.gateway.BotPermissions(channelID)
	if err != nil {
		return fmt.Errorf("failed to resolve channel permissions: %w", err)
	}
	if perms&requiredChannelPermissions != requiredChannelPermissions {
		logger.Warn("Missing permission to post in announcement channel")
		n.notifyOwner(config.GuildID, channelID, missingPermissionText)
		return nil
	}

	err = n.gateway.SendMessage(channelID, common.FormatIncompleteMessage(report.IncompleteUsers()))
	if errors.Is(err, models.ErrPermissionDenied) {
		logger.WithError(err).Warn("Discord rejected announcement for missing permissions")
		n.notifyOwner(config.GuildID, channelID, sendFailedText)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to send announcement: %w", err)
	}

	logger.WithField("mentioned", len(report.Incomplete)).Info("Sent incomplete members reminder")
	return nil
}

func missingPermissionText(channel, guild string) string {
	return fmt.Sprintf("I don't have permission to send messages in #%s in %s. "+
		"Please grant me the 'Send Messages' permission in that channel or set a different channel using /setchannel.",
		channel, guild)
}

func sendFailedText(channel, guild string) string {
	return fmt.Sprintf("I encountered a permission error when trying to send messages in #%s in %s. "+
		"Please check my permissions and make sure I can:\n- View the channel\n- Send messages\n- Mention users (if you want me to ping people)",
		channel, guild)
}

func (n *Notifier) notifyOwner(guildID, channelID string, text func(channel, guild string) string) {
	logger := log.WithFields(log.Fields{
		"guildID":   guildID,
		"channelID": channelID,
	})

	guildName, ownerID, err := n.gateway.GuildInfo(guildID)
	if err != nil {
		logger.WithError(err).Error("Failed to look up guild owner")
		return
	}

	if err := n.gateway.SendDM(ownerID, text(n.gateway.ChannelName(channelID), guildName)); err != nil {
		logger.WithError(err).WithField("ownerID", ownerID).Error("Failed to notify guild owner")
		return
	}
	logger.WithField("ownerID", ownerID).Info("Notified guild owner about channel permissions")
}
