package bot

import (
	"fmt"
	"time"

	"leetstreak/bot/common"
	"leetstreak/bot/features/challenge"
	"leetstreak/bot/features/schedules"
	"leetstreak/bot/features/streaks"
	"leetstreak/bot/features/tracking"
	"leetstreak/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Services holds the dependencies the slash commands call into
type Services struct {
	GuildConfigs service.GuildConfigService
	Checker      service.ChallengeChecker
	Stats        service.StatsService
	Schedules    schedules.ScheduleManager
}

type Bot struct {
	session  *discordgo.Session
	handlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	commands []*discordgo.ApplicationCommand
}

// NewSession creates a discord session that is not yet connected
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return dg, nil
}

// New wires the command features onto session
func New(session *discordgo.Session, services Services) *Bot {
	trackingFeature := tracking.NewFeature(services.GuildConfigs)
	schedulesFeature := schedules.NewFeature(services.Schedules)
	challengeFeature := challenge.NewFeature(services.Checker)
	streaksFeature := streaks.NewFeature(services.Stats)

	b := &Bot{session: session}
	b.handlers = map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"check":       challengeFeature.HandleCommand,
		"adduser":     trackingFeature.HandleAddUser,
		"removeuser":  trackingFeature.HandleRemoveUser,
		"listusers":   trackingFeature.HandleListUsers,
		"setchannel":  trackingFeature.HandleSetChannel,
		"managecron":  schedulesFeature.HandleCommand,
		"streak":      streaksFeature.HandleStreak,
		"leaderboard": streaksFeature.HandleLeaderboard,
		"stats":       streaksFeature.HandleStats,
		"botinfo":     b.handleBotInfo,
	}

	b.commands = append(b.commands, challengeFeature.Commands()...)
	b.commands = append(b.commands, trackingFeature.Commands()...)
	b.commands = append(b.commands, schedulesFeature.Commands()...)
	b.commands = append(b.commands, streaksFeature.Commands()...)
	b.commands = append(b.commands, &discordgo.ApplicationCommand{
		Name:        "botinfo",
		Description: "Display information about the bot",
	})

	return b
}

// Open connects to Discord and registers the slash commands
func (b *Bot) Open() error {
	b.session.AddHandler(b.handleCommands)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("Discord session ready")
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", b.commands); err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	log.WithField("count", len(b.commands)).Info("Registered slash commands")
	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	if i.GuildID == "" {
		common.RespondWithMessage(s, i, "This command can only be used in a server.", false)
		return
	}

	handler, ok := b.handlers[name]
	if !ok {
		common.RespondWithError(s, i, "Unknown command.")
		return
	}

	log.WithFields(log.Fields{
		"command": name,
		"guildID": i.GuildID,
		"userID":  common.InvokerID(i),
	}).Debug("Handling slash command")

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"command": name,
				"panic":   r,
			}).Error("Command handler panicked")
		}
	}()
	handler(s, i)
}

func (b *Bot) handleBotInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "📚 LeetCode Discord Bot Info",
		Description: "I help track LeetCode activity for your server members.",
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🎯 Purpose",
				Value: "Track and encourage daily LeetCode challenge completion within your Discord community",
			},
			{
				Name:  "🤖 Features",
				Value: "• Daily challenge tracking\n• Automatic progress checks\n• Multi-server support\n• User mentions\n• Flexible scheduling\n• Streaks and leaderboards",
			},
			{
				Name:  "💡 Basic Commands",
				Value: "`/setchannel` - Set announcement channel\n`/adduser` - Track a user\n`/check` - Manual progress check\n`/managecron` - Schedule checks",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Type / to see all available commands!",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.WithError(err).Error("Error responding to botinfo command")
	}
}
