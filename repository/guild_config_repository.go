package repository

import (
	"context"
	"errors"
	"fmt"

	"leetstreak/database"
	"leetstreak/models"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetByGuildID loads the guild configuration with its tracked users and schedules
func (r *GuildConfigRepository) GetByGuildID(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, channel_id, created_at, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var config models.GuildConfig
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&config.GuildID,
		&config.ChannelID,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config %s: %w", guildID, err)
	}

	users, err := r.getTrackedUsers(ctx, guildID)
	if err != nil {
		return nil, err
	}
	config.TrackedUsers = users

	schedules, err := r.GetSchedules(ctx, guildID)
	if err != nil {
		return nil, err
	}
	config.Schedules = schedules

	return &config, nil
}

func (r *GuildConfigRepository) getTrackedUsers(ctx context.Context, guildID string) ([]models.TrackedUser, error) {
	query := `
		SELECT username, member_id
		FROM tracked_users
		WHERE guild_id = $1
		ORDER BY username
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked users: %w", err)
	}
	defer rows.Close()

	var users []models.TrackedUser
	for rows.Next() {
		var user models.TrackedUser
		if err := rows.Scan(&user.Username, &user.MemberID); err != nil {
			return nil, fmt.Errorf("failed to scan tracked user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked users: %w", err)
	}

	return users, nil
}

// Ensure creates an empty configuration if the guild has none
func (r *GuildConfigRepository) Ensure(ctx context.Context, guildID string) error {
	query := `
		INSERT INTO guild_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, guildID); err != nil {
		return fmt.Errorf("failed to ensure guild config %s: %w", guildID, err)
	}
	return nil
}

// ListGuildIDs returns every configured guild
func (r *GuildConfigRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT guild_id FROM guild_configs ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guilds: %w", err)
	}

	return ids, nil
}

// SetChannel updates the announcement channel
func (r *GuildConfigRepository) SetChannel(ctx context.Context, guildID, channelID string) error {
	query := `
		UPDATE guild_configs
		SET channel_id = $2, updated_at = NOW()
		WHERE guild_id = $1
	`

	tag, err := r.q.Exec(ctx, query, guildID, channelID)
	if err != nil {
		return fmt.Errorf("failed to set channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guild %s: %w", guildID, models.ErrConfigMissing)
	}
	return nil
}

// AddTrackedUser starts tracking a username in the guild
func (r *GuildConfigRepository) AddTrackedUser(ctx context.Context, guildID string, user models.TrackedUser) error {
	query := `
		INSERT INTO tracked_users (guild_id, username, member_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, username) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, guildID, user.Username, user.MemberID)
	if err != nil {
		return fmt.Errorf("failed to add tracked user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.Username, models.ErrDuplicate)
	}
	return r.touch(ctx, guildID)
}

// RemoveTrackedUser stops tracking a username in the guild
func (r *GuildConfigRepository) RemoveTrackedUser(ctx context.Context, guildID, username string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tracked_users WHERE guild_id = $1 AND username = $2`, guildID, username)
	if err != nil {
		return fmt.Errorf("failed to remove tracked user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	return r.touch(ctx, guildID)
}

// GetSchedules returns the guild's schedules ordered by time of day
func (r *GuildConfigRepository) GetSchedules(ctx context.Context, guildID string) ([]models.Schedule, error) {
	query := `
		SELECT hour, minute
		FROM guild_schedules
		WHERE guild_id = $1
		ORDER BY hour, minute
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.Hour, &s.Minute); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

// ListAllSchedules returns every guild's schedules keyed by guild ID.
// Guilds without schedules are omitted.
func (r *GuildConfigRepository) ListAllSchedules(ctx context.Context) (map[string][]models.Schedule, error) {
	query := `
		SELECT guild_id, hour, minute
		FROM guild_schedules
		ORDER BY guild_id, hour, minute
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all schedules: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.Schedule)
	for rows.Next() {
		var guildID string
		var s models.Schedule
		if err := rows.Scan(&guildID, &s.Hour, &s.Minute); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		result[guildID] = append(result[guildID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return result, nil
}

// AddSchedule inserts a schedule for the guild
func (r *GuildConfigRepository) AddSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	query := `
		INSERT INTO guild_schedules (guild_id, hour, minute)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, hour, minute) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, guildID, schedule.Hour, schedule.Minute)
	if err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", schedule, models.ErrDuplicate)
	}
	return r.touch(ctx, guildID)
}

// RemoveSchedule deletes a schedule from the guild
func (r *GuildConfigRepository) RemoveSchedule(ctx context.Context, guildID string, schedule models.Schedule) error {
	query := `
		DELETE FROM guild_schedules
		WHERE guild_id = $1 AND hour = $2 AND minute = $3
	`

	tag, err := r.q.Exec(ctx, query, guildID, schedule.Hour, schedule.Minute)
	if err != nil {
		return fmt.Errorf("failed to remove schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", schedule, models.ErrNotFound)
	}
	return r.touch(ctx, guildID)
}

func (r *GuildConfigRepository) touch(ctx context.Context, guildID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE guild_configs SET updated_at = NOW() WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to update guild config timestamp: %w", err)
	}
	return nil
}
