package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"leetstreak/events"
	"leetstreak/models"
)

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{
		uowFactory: uowFactory,
	}
}

// GetConfig returns the guild configuration
func (s *guildConfigService) GetConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: guild %s", models.ErrConfigMissing, guildID)
	}
	return config, nil
}

// SetChannel updates the announcement channel
func (s *guildConfigService) SetChannel(ctx context.Context, guildID, channelID string) error {
	return s.mutate(ctx, guildID, func(repo GuildConfigRepository) error {
		if err := repo.SetChannel(ctx, guildID, channelID); err != nil {
			return fmt.Errorf("failed to set channel: %w", err)
		}
		return nil
	})
}

// AddUser starts tracking username
func (s *guildConfigService) AddUser(ctx context.Context, guildID, username string, memberID *string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}

	return s.mutate(ctx, guildID, func(repo GuildConfigRepository) error {
		if err := repo.AddTrackedUser(ctx, guildID, models.TrackedUser{Username: username, MemberID: memberID}); err != nil {
			return fmt.Errorf("failed to add user %s: %w", username, err)
		}
		return nil
	})
}

// RemoveUser stops tracking username
func (s *guildConfigService) RemoveUser(ctx context.Context, guildID, username string) error {
	return s.mutate(ctx, guildID, func(repo GuildConfigRepository) error {
		if err := repo.RemoveTrackedUser(ctx, guildID, username); err != nil {
			return fmt.Errorf("failed to remove user %s: %w", username, err)
		}
		return nil
	})
}

// ListUsers returns the tracked users sorted by username
func (s *guildConfigService) ListUsers(ctx context.Context, guildID string) ([]models.TrackedUser, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return nil, nil
	}

	users := append([]models.TrackedUser(nil), config.TrackedUsers...)
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// ListAllSchedules returns every guild's persisted schedules
func (s *guildConfigService) ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	schedules, err := uow.GuildConfigRepository().ListAllSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// GetSchedules returns the guild's persisted schedules in time-of-day order
func (s *guildConfigService) GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	schedules, err := uow.GuildConfigRepository().GetSchedules(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	models.SortSchedules(schedules)
	return schedules, nil
}

// AddSchedule persists a new schedule, returning models.ErrDuplicate if it exists
func (s *guildConfigService) AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, guildID, func(repo GuildConfigRepository) error {
		if err := repo.AddSchedule(ctx, guildID, schedule); err != nil {
			return fmt.Errorf("failed to add schedule %s: %w", schedule, err)
		}
		return nil
	}, events.SchedulesChangedEvent{GuildID: guildID})
}

// RemoveSchedule deletes a schedule, returning models.ErrNotFound if absent
func (s *guildConfigService) RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, guildID, func(repo GuildConfigRepository) error {
		if err := repo.RemoveSchedule(ctx, guildID, schedule); err != nil {
			return fmt.Errorf("failed to remove schedule %s: %w", schedule, err)
		}
		return nil
	}, events.SchedulesChangedEvent{GuildID: guildID})
}

// mutate applies fn to the guild's configuration in one transaction, creating
// the configuration first if needed. Events are published only on commit.
func (s *guildConfigService) mutate(ctx context.Context, guildID string, fn func(repo GuildConfigRepository) error, pending ...events.Event) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.GuildConfigRepository()
	if err := repo.Ensure(ctx, guildID); err != nil {
		return fmt.Errorf("failed to ensure guild config: %w", err)
	}

	if err := fn(repo); err != nil {
		return err
	}

	for _, event := range pending {
		uow.EventBus().Publish(event)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
