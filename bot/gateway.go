package bot

import (
	"errors"
	"fmt"

	"leetstreak/models"

	"github.com/bwmarrin/discordgo"
)

// Gateway is the subset of the Discord API the notifier depends on
type Gateway interface {
	// BotPermissions returns the bot's effective permissions in a channel
	BotPermissions(channelID string) (int64, error)

	// SendMessage posts content, pinging only the mentioned users.
	// Missing access is reported as models.ErrPermissionDenied.
	SendMessage(channelID, content string) error

	ChannelName(channelID string) string
	GuildInfo(guildID string) (name, ownerID string, err error)
	SendDM(userID, content string) error
}

type sessionGateway struct {
	session *discordgo.Session
}

// NewSessionGateway adapts a discordgo session to Gateway
func NewSessionGateway(session *discordgo.Session) Gateway {
	return &sessionGateway{session: session}
}

func (g *sessionGateway) BotPermissions(channelID string) (int64, error) {
	if g.session.State == nil || g.session.State.User == nil {
		return 0, fmt.Errorf("session is not ready")
	}
	return g.session.UserChannelPermissions(g.session.State.User.ID, channelID)
}

func (g *sessionGateway) SendMessage(channelID, content string) error {
	_, err := g.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	})
	return classifySendError(err)
}

func (g *sessionGateway) ChannelName(channelID string) string {
	channel, err := g.session.State.Channel(channelID)
	if err != nil {
		channel, err = g.session.Channel(channelID)
	}
	if err != nil || channel == nil {
		return channelID
	}
	return channel.Name
}

func (g *sessionGateway) GuildInfo(guildID string) (string, string, error) {
	guild, err := g.session.State.Guild(guildID)
	if err != nil {
		guild, err = g.session.Guild(guildID)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	return guild.Name, guild.OwnerID, nil
}

func (g *sessionGateway) SendDM(userID, content string) error {
	channel, err := g.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	if _, err := g.session.ChannelMessageSend(channel.ID, content); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// classifySendError maps Discord's missing access and missing permissions codes to models.ErrPermissionDenied
func classifySendError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
			return fmt.Errorf("%w: %v", models.ErrPermissionDenied, err)
		}
	}
	return err
}
