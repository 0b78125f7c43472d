package service

import (
	"context"
	"time"

	"leetstreak/events"
	"leetstreak/models"
)

// GuildConfigRepository defines the interface for guild configuration data access
type GuildConfigRepository interface {
	// GetByGuildID returns the configuration with its users and schedules, or nil if absent
	GetByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error)

	// Ensure creates an empty configuration for the guild if none exists
	Ensure(ctx context.Context, guildID string) error

	// ListGuildIDs returns every configured guild
	ListGuildIDs(ctx context.Context) ([]string, error)

	// SetChannel updates the announcement channel
	SetChannel(ctx context.Context, guildID, channelID string) error

	// AddTrackedUser inserts a tracked user, returning models.ErrDuplicate if the username exists
	AddTrackedUser(ctx context.Context, guildID string, user models.TrackedUser) error

	// RemoveTrackedUser deletes a tracked user, returning models.ErrNotFound if absent
	RemoveTrackedUser(ctx context.Context, guildID, username string) error

	// GetSchedules returns the guild's schedules ordered by time of day
	GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error)

	// ListAllSchedules returns the schedules of every guild keyed by guild ID
	ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error)

	// AddSchedule inserts a schedule, returning models.ErrDuplicate if it exists
	AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error

	// RemoveSchedule deletes a schedule, returning models.ErrNotFound if absent
	RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
}

// CompletionRecordRepository defines the interface for completion record data access
type CompletionRecordRepository interface {
	// Create inserts a record, returning models.ErrDuplicateWrite on a uniqueness conflict
	Create(ctx context.Context, record *models.CompletionRecord) error

	// FindInWindow returns the record for (guild, member, slug) with from <= day < to, or nil
	FindInWindow(ctx context.Context, guildID, memberID, slug string, from, to time.Time) (*models.CompletionRecord, error)

	// GetHighestStreakOnDay returns the member's record with the highest streak on day, or nil
	GetHighestStreakOnDay(ctx context.Context, guildID, memberID string, day time.Time) (*models.CompletionRecord, error)

	// GetLatest returns the member's most recent record by day, or nil
	GetLatest(ctx context.Context, guildID, memberID string) (*models.CompletionRecord, error)

	// CountSince counts the member's completed records with day >= since
	CountSince(ctx context.Context, guildID, memberID string, since time.Time) (int, error)

	// GetTopStreaks returns at most limit records with day >= since and a positive streak,
	// one per member (never one per raw record), ordered by streak descending then
	// submission time descending
	GetTopStreaks(ctx context.Context, guildID string, since time.Time, limit int) ([]*models.CompletionRecord, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	GuildConfigRepository() GuildConfigRepository
	CompletionRecordRepository() CompletionRecordRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SubmissionSource is the read-only external challenge and submission API
type SubmissionSource interface {
	// DailyChallengeSlug returns the identifier of today's challenge
	DailyChallengeSlug(ctx context.Context) (string, error)

	// Problem returns the metadata of the problem identified by slug
	Problem(ctx context.Context, slug string) (*models.Problem, error)

	// RecentSubmissions returns the user's recent submissions, newest first
	RecentSubmissions(ctx context.Context, username string) ([]models.Submission, error)
}

// NotificationDispatcher delivers the outcome of a scheduled check
type NotificationDispatcher interface {
	// NotifyIncomplete announces the members that have not completed today's challenge.
	// Permission failures are escalated out of band and are not returned.
	NotifyIncomplete(ctx context.Context, config *models.GuildConfig, report *models.CheckReport) error
}

// CompletionRecorder idempotently stores completion records
type CompletionRecorder interface {
	// RecordIfAbsent stores a record unless one exists for the same guild, member, slug and day.
	// The boolean reports whether a new record was created.
	RecordIfAbsent(ctx context.Context, req RecordRequest) (*models.CompletionRecord, bool, error)
}

// StreakCalculator derives streak values from stored records
type StreakCalculator interface {
	// ComputeOnWrite returns the streak a new record on day should carry
	ComputeOnWrite(ctx context.Context, guildID, memberID string, day time.Time) (int, error)

	// CurrentStreak returns the member's streak as of today, zero if it has lapsed
	CurrentStreak(ctx context.Context, guildID, memberID string) (int, error)
}

// ChallengeChecker runs the daily challenge check for a guild
type ChallengeChecker interface {
	// Run performs a scheduled check and dispatches the incomplete-members notification
	Run(ctx context.Context, guildID string) error

	// Check performs an on-demand check and returns the full report
	Check(ctx context.Context, guildID string) (*models.CheckReport, error)
}

// StatsService defines read-only statistics over completion records
type StatsService interface {
	// CompletionRate counts the member's completions within the period
	CompletionRate(ctx context.Context, guildID, memberID string, period models.StatsPeriod) (*models.CompletionRate, error)

	// Leaderboard returns the guild's active streaks ranked from 1
	Leaderboard(ctx context.Context, guildID string) ([]*models.LeaderboardEntry, error)

	// CurrentStreak returns the member's streak as of today
	CurrentStreak(ctx context.Context, guildID, memberID string) (int, error)
}

// GuildConfigService defines operations on guild configuration
type GuildConfigService interface {
	// GetConfig returns the guild configuration or models.ErrConfigMissing
	GetConfig(ctx context.Context, guildID string) (*models.GuildConfig, error)

	// SetChannel sets the announcement channel, creating the configuration if needed
	SetChannel(ctx context.Context, guildID, channelID string) error

	// AddUser starts tracking a LeetCode username, optionally mapped to a member
	AddUser(ctx context.Context, guildID, username string, memberID *string) error

	// RemoveUser stops tracking a LeetCode username
	RemoveUser(ctx context.Context, guildID, username string) error

	// ListUsers returns the tracked users sorted by username
	ListUsers(ctx context.Context, guildID string) ([]models.TrackedUser, error)

	ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error)
	GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error)
	AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
	RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error
}
