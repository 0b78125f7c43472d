package cmd

import (
	"context"
	"fmt"
	"time"

	"leetstreak/bot"
	"leetstreak/config"
	"leetstreak/database"
	"leetstreak/events"
	"leetstreak/infrastructure"
	"leetstreak/leetcode"
	"leetstreak/models"
	"leetstreak/repository"
	"leetstreak/scheduler"
	"leetstreak/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting leetstreak bot...")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	databaseURL := cfg.GetDatabaseURL()
	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL, database.PoolOptions{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()

	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectNATS(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			return err
		}
		defer natsClient.Close()
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	guildConfigRepo := repository.NewGuildConfigRepository(db)
	recordRepo := repository.NewCompletionRecordRepository(db)

	client := leetcode.NewClient(leetcode.Options{
		BaseURL:           cfg.LeetCodeAPIURL,
		Timeout:           cfg.APITimeout,
		MaxRetries:        cfg.APIMaxRetries,
		RequestsPerSecond: cfg.APIRequestsPerSecond,
		SubmissionLimit:   cfg.SubmissionLimit,
	})

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	clock := service.NewClock(loc)
	streaks := service.NewStreakService(recordRepo, clock)
	recorder := service.NewSubmissionRecorder(recordRepo, streaks, service.NewTimestampResolver(clock), eventBus)
	notifier := bot.NewNotifier(bot.NewSessionGateway(session))
	checker := service.NewChallengeChecker(guildConfigRepo, client, recorder, notifier, eventBus, clock, cfg.CheckConcurrency)
	guildConfigService := service.NewGuildConfigService(uowFactory)
	statsService := service.NewStatsService(uowFactory, clock)

	registry := scheduler.NewRegistry(guildConfigService, loc)
	registry.Register(scheduler.JobKindDailyCheck, func(ctx context.Context, guildID string, schedule models.Schedule) {
		if err := checker.Run(ctx, guildID); err != nil {
			log.WithFields(log.Fields{
				"guildID":  guildID,
				"schedule": schedule.String(),
			}).WithError(err).Error("Scheduled daily check failed")
		}
	})

	if err := registry.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	registry.Attach(eventBus)
	logConfiguredGuilds(ctx, guildConfigRepo)
	if next, ok := registry.NextRun(); ok {
		log.WithField("nextRun", next).Info("Scheduler started")
	}

	discordBot := bot.New(session, bot.Services{
		GuildConfigs: guildConfigService,
		Checker:      checker,
		Stats:        statsService,
		Schedules:    registry,
	})
	if err := discordBot.Open(); err != nil {
		<-registry.Stop().Done()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Info("Bot is running")
	<-ctx.Done()

	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-registry.Stop().Done():
		log.Info("Scheduled jobs finished")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded while waiting for scheduled jobs")
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func logConfiguredGuilds(ctx context.Context, repo service.GuildConfigRepository) {
	guildIDs, err := repo.ListGuildIDs(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to list configured guilds")
		return
	}
	log.WithFields(log.Fields{
		"guildCount": len(guildIDs),
		"guildIDs":   guildIDs,
	}).Info("Loaded guild configurations")
}

func connectNATS(ctx context.Context, servers string, bus *events.Bus) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	if err := client.EnsureStream(infrastructure.Subjects()); err != nil {
		client.Close()
		return nil, err
	}

	infrastructure.NewEventForwarder(client).Attach(bus)
	log.Info("Mirroring domain events to NATS")
	return client, nil
}
