package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"leetstreak/events"
	"leetstreak/models"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	log "github.com/sirupsen/logrus"
)

// DefaultCheckConcurrency bounds in-flight submission fetches per run
const DefaultCheckConcurrency = 4

// challengeChecker implements the ChallengeChecker interface
type challengeChecker struct {
	configs     GuildConfigRepository
	source      SubmissionSource
	recorder    CompletionRecorder
	dispatcher  NotificationDispatcher
	publisher   EventPublisher
	clock       *Clock
	concurrency int
}

// NewChallengeChecker creates a new challenge checker
func NewChallengeChecker(
	configs GuildConfigRepository,
	source SubmissionSource,
	recorder CompletionRecorder,
	dispatcher NotificationDispatcher,
	publisher EventPublisher,
	clock *Clock,
	concurrency int,
) ChallengeChecker {
	if concurrency <= 0 {
		concurrency = DefaultCheckConcurrency
	}
	return &challengeChecker{
		configs:     configs,
		source:      source,
		recorder:    recorder,
		dispatcher:  dispatcher,
		publisher:   publisher,
		clock:       clock,
		concurrency: concurrency,
	}
}

// Run checks every tracked member and announces the ones still missing today's challenge.
// Guilds without a channel or tracked users are skipped.
func (c *challengeChecker) Run(ctx context.Context, guildID string) error {
	logger := log.WithField("guildID", guildID)

	config, err := c.loadConfig(ctx, guildID)
	if err != nil {
		logger.WithField("stage", "load_config").WithError(err).Error("Scheduled check failed")
		return err
	}

	if !config.HasChannel() || len(config.TrackedUsers) == 0 {
		logger.WithFields(log.Fields{
			"hasChannel":   config.HasChannel(),
			"trackedUsers": len(config.TrackedUsers),
		}).Debug("Nothing to check for guild")
		return nil
	}

	report, err := c.check(ctx, config, false)
	if err != nil {
		logger.WithField("stage", "fetch_challenge").WithError(err).Error("Scheduled check failed")
		return err
	}

	if len(report.Incomplete) == 0 {
		logger.WithField("runID", report.RunID).Info("All tracked members completed the daily challenge")
		return nil
	}

	if err := c.dispatcher.NotifyIncomplete(ctx, config, report); err != nil {
		logger.WithFields(log.Fields{
			"stage": "notify",
			"runID": report.RunID,
		}).WithError(err).Error("Scheduled check failed")
		return fmt.Errorf("failed to dispatch notification: %w", err)
	}

	return nil
}

// Check runs an on-demand check and returns the full report
func (c *challengeChecker) Check(ctx context.Context, guildID string) (*models.CheckReport, error) {
	config, err := c.loadConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if len(config.TrackedUsers) == 0 {
		return &models.CheckReport{
			GuildID:   guildID,
			Day:       c.clock.Today(),
			CheckedAt: c.clock.Now(),
		}, nil
	}

	return c.check(ctx, config, true)
}

func (c *challengeChecker) loadConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	config, err := c.configs.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: guild %s", models.ErrConfigMissing, guildID)
	}
	return config, nil
}

// check fetches today's challenge once and fans out over the tracked members.
// A member whose fetch fails is reported incomplete without affecting the others.
func (c *challengeChecker) check(ctx context.Context, config *models.GuildConfig, manual bool) (*models.CheckReport, error) {
	runID := uuid.NewString()
	day := c.clock.Today()

	logger := log.WithFields(log.Fields{
		"guildID": config.GuildID,
		"runID":   runID,
		"manual":  manual,
	})

	problem, err := c.fetchProblem(ctx)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("slug", problem.Slug)
	logger.WithField("members", len(config.TrackedUsers)).Info("Starting daily challenge check")

	results := make([]models.MemberResult, len(config.TrackedUsers))
	p := pool.New().WithMaxGoroutines(c.concurrency)
	for i, user := range config.TrackedUsers {
		p.Go(func() {
			results[i] = c.checkMember(ctx, config.GuildID, user, problem, day)
		})
	}
	p.Wait()

	report := &models.CheckReport{
		RunID:     runID,
		GuildID:   config.GuildID,
		Day:       day,
		Problem:   problem,
		CheckedAt: c.clock.Now(),
	}
	for _, result := range results {
		if result.IsCompleted() {
			report.Completed = append(report.Completed, result)
		} else {
			report.Incomplete = append(report.Incomplete, result)
		}
	}
	sortResults(report.Completed)
	sortResults(report.Incomplete)

	logger.WithFields(log.Fields{
		"completed":  len(report.Completed),
		"incomplete": len(report.Incomplete),
		"failed":     report.FailedCount(),
	}).Info("Daily challenge check finished")

	if c.publisher != nil {
		c.publisher.Publish(events.CheckCompletedEvent{
			RunID:           runID,
			GuildID:         config.GuildID,
			ChallengeSlug:   problem.Slug,
			Manual:          manual,
			CompletedCount:  len(report.Completed),
			IncompleteCount: len(report.Incomplete),
			FailedCount:     report.FailedCount(),
			CheckedAt:       report.CheckedAt,
		})
	}

	return report, nil
}

func (c *challengeChecker) fetchProblem(ctx context.Context) (*models.Problem, error) {
	slug, err := c.source.DailyChallengeSlug(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: daily challenge: %w", models.ErrSourceUnavailable, err)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: empty daily challenge slug", models.ErrSourceUnavailable)
	}

	problem, err := c.source.Problem(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%w: problem %s: %w", models.ErrSourceUnavailable, slug, err)
	}
	if problem == nil || problem.Difficulty == "" {
		return nil, fmt.Errorf("%w: problem %s has no difficulty", models.ErrSourceUnavailable, slug)
	}
	if problem.Slug == "" {
		problem.Slug = slug
	}
	return problem, nil
}

func (c *challengeChecker) checkMember(ctx context.Context, guildID string, user models.TrackedUser, problem *models.Problem, day time.Time) models.MemberResult {
	logger := log.WithFields(log.Fields{
		"guildID":  guildID,
		"username": user.Username,
	})

	submissions, err := c.source.RecentSubmissions(ctx, user.Username)
	if err != nil {
		logger.WithError(err).Warn("Failed to fetch submissions, treating member as incomplete")
		return models.MemberResult{
			User:   user,
			Status: models.MemberFetchFailed,
			Err:    fmt.Errorf("%w: %w", models.ErrMemberFetchFailed, err),
		}
	}

	for _, submission := range submissions {
		if !submission.IsAcceptedFor(problem.Slug) {
			continue
		}

		_, _, err := c.recorder.RecordIfAbsent(ctx, RecordRequest{
			GuildID:      guildID,
			MemberID:     user.EffectiveMemberID(),
			Username:     user.Username,
			Day:          day,
			Problem:      problem,
			RawTimestamp: submission.Timestamp,
		})
		if err != nil && !errors.Is(err, models.ErrDuplicateWrite) {
			logger.WithError(err).Error("Failed to record completion")
		}

		return models.MemberResult{
			User:        user,
			Status:      models.MemberCompleted,
			SubmittedAt: submission.Timestamp,
		}
	}

	return models.MemberResult{User: user, Status: models.MemberIncomplete}
}

func sortResults(results []models.MemberResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].User.Username < results[j].User.Username
	})
}
