package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leetstreak/bot/common"
	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const channelSetupPermissions = discordgo.PermissionSendMessages | discordgo.PermissionViewChannel | discordgo.PermissionEmbedLinks

// HandleAddUser handles /adduser. Members without Manage Roles may only add themselves.
func (f *Feature) HandleAddUser(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var username string
	var target *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "username":
			username = strings.TrimSpace(opt.StringValue())
		case "discord_user":
			target = opt.UserValue(s)
		}
	}
	if username == "" {
		common.RespondWithError(s, i, "Please provide a LeetCode username.")
		return
	}

	invokerID := common.InvokerID(i)
	if !common.HasPermission(i, discordgo.PermissionManageRoles) {
		if target != nil && target.ID != invokerID {
			common.RespondWithError(s, i, "You can only add yourself to the tracking list. You need Manage Roles permission to add other users.")
			return
		}
		if target == nil && !strings.EqualFold(username, common.InvokerName(i)) {
			common.RespondWithError(s, i, "You can only add yourself to the tracking list. Please use your Discord username as the LeetCode username or mention yourself.")
			return
		}
	}

	var memberID *string
	if target != nil {
		memberID = &target.ID
	}

	err := f.configService.AddUser(context.Background(), i.GuildID, username, memberID)
	switch {
	case errors.Is(err, models.ErrDuplicate):
		common.RespondWithMessage(s, i, fmt.Sprintf("User **%s** is already being tracked.", username), false)
	case err != nil:
		log.WithFields(log.Fields{
			"guildID":  i.GuildID,
			"username": username,
		}).WithError(err).Error("Failed to add tracked user")
		common.RespondWithError(s, i, "Unable to add user. Please try again.")
	default:
		common.RespondWithMessage(s, i, fmt.Sprintf("Added **%s** to the tracking list.", username), false)
	}
}

// HandleRemoveUser handles /removeuser. Members without Manage Roles may only remove themselves.
func (f *Feature) HandleRemoveUser(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please provide a LeetCode username.")
		return
	}
	username := strings.TrimSpace(options[0].StringValue())
	ctx := context.Background()

	if !common.HasPermission(i, discordgo.PermissionManageRoles) {
		users, err := f.configService.ListUsers(ctx, i.GuildID)
		if err != nil && !errors.Is(err, models.ErrConfigMissing) {
			log.WithField("guildID", i.GuildID).WithError(err).Error("Failed to list tracked users")
			common.RespondWithError(s, i, "Unable to remove user. Please try again.")
			return
		}
		if !ownedBy(users, username, common.InvokerID(i)) {
			common.RespondWithError(s, i, "You can only remove yourself from the tracking list. You need Manage Roles permission to remove other users.")
			return
		}
	}

	err := f.configService.RemoveUser(ctx, i.GuildID, username)
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrConfigMissing):
		common.RespondWithMessage(s, i, fmt.Sprintf("User **%s** is not being tracked.", username), false)
	case err != nil:
		log.WithFields(log.Fields{
			"guildID":  i.GuildID,
			"username": username,
		}).WithError(err).Error("Failed to remove tracked user")
		common.RespondWithError(s, i, "Unable to remove user. Please try again.")
	default:
		common.RespondWithMessage(s, i, fmt.Sprintf("Removed **%s** from the tracking list.", username), false)
	}
}

func ownedBy(users []models.TrackedUser, username, memberID string) bool {
	for _, u := range users {
		if u.Username == username {
			return u.MemberID != nil && *u.MemberID == memberID
		}
	}
	return false
}

// HandleListUsers handles /listusers
func (f *Feature) HandleListUsers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	users, err := f.configService.ListUsers(context.Background(), i.GuildID)
	if err != nil && !errors.Is(err, models.ErrConfigMissing) {
		log.WithField("guildID", i.GuildID).WithError(err).Error("Failed to list tracked users")
		common.RespondWithError(s, i, "Unable to list users. Please try again.")
		return
	}
	common.RespondWithMessage(s, i, common.FormatTrackedUsers(users), false)
}

// HandleSetChannel handles /setchannel
func (f *Feature) HandleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.HasPermission(i, discordgo.PermissionManageChannels) {
		common.RespondWithError(s, i, "You need the Manage Channels permission to use this command.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a valid text channel.")
		return
	}
	channel := options[0].ChannelValue(s)
	if channel == nil || (channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews) {
		common.RespondWithError(s, i, "Please specify a valid text channel.")
		return
	}

	perms, err := s.UserChannelPermissions(s.State.User.ID, channel.ID)
	if err != nil || perms&channelSetupPermissions != channelSetupPermissions {
		common.RespondWithError(s, i, "I don't have permission to send messages or embeds in that channel. Please check my permissions and try again.")
		return
	}

	logger := log.WithFields(log.Fields{
		"guildID":   i.GuildID,
		"channelID": channel.ID,
	})

	if err := f.configService.SetChannel(context.Background(), i.GuildID, channel.ID); err != nil {
		logger.WithError(err).Error("Failed to set announcement channel")
		common.RespondWithError(s, i, "Unable to set the channel. Please try again.")
		return
	}

	_, err = s.ChannelMessageSendEmbed(channel.ID, &discordgo.MessageEmbed{
		Title:       "📢 Channel Setup Successful!",
		Description: "I will send LeetCode activity updates in this channel.",
		Color:       common.ColorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "You can change this channel at any time using /setchannel",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to send channel setup message")
		common.RespondWithMessage(s, i, "Channel was set but I encountered an error while sending a test message. Please check my permissions.", false)
		return
	}

	logger.Info("Announcement channel updated")
	common.RespondWithMessage(s, i, fmt.Sprintf("Successfully set <#%s> as the announcement channel!", channel.ID), false)
}
