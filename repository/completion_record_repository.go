package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leetstreak/database"
	"leetstreak/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const completionRecordColumns = `
	id, guild_id, member_id, tracked_username, day, challenge_title, challenge_slug,
	difficulty, submitted_at, completed, streak_count, created_at`

// CompletionRecordRepository implements the CompletionRecordRepository interface
type CompletionRecordRepository struct {
	q queryable
}

// NewCompletionRecordRepository creates a new completion record repository
func NewCompletionRecordRepository(db *database.DB) *CompletionRecordRepository {
	return &CompletionRecordRepository{q: db.Pool}
}

// newCompletionRecordRepositoryWithTx creates a new completion record repository with a transaction
func newCompletionRecordRepositoryWithTx(tx queryable) *CompletionRecordRepository {
	return &CompletionRecordRepository{q: tx}
}

// Create inserts a record. A conflict on (guild, member, slug, day) maps to models.ErrDuplicateWrite.
func (r *CompletionRecordRepository) Create(ctx context.Context, record *models.CompletionRecord) error {
	query := `
		INSERT INTO completion_records (
			guild_id, member_id, tracked_username, day, challenge_title, challenge_slug,
			difficulty, submitted_at, completed, streak_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.GuildID,
		record.MemberID,
		record.TrackedUsername,
		record.Day,
		record.ChallengeTitle,
		record.ChallengeSlug,
		string(record.Difficulty),
		record.SubmittedAt,
		record.Completed,
		record.StreakCount,
	).Scan(&record.ID, &record.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s/%s/%s: %w", record.GuildID, record.MemberID, record.ChallengeSlug, models.ErrDuplicateWrite)
	}
	if err != nil {
		return fmt.Errorf("failed to create completion record: %w", err)
	}
	return nil
}

// FindInWindow returns the record for the member and slug whose day lies in [from, to)
func (r *CompletionRecordRepository) FindInWindow(ctx context.Context, guildID, memberID, slug string, from, to time.Time) (*models.CompletionRecord, error) {
	query := `
		SELECT ` + completionRecordColumns + `
		FROM completion_records
		WHERE guild_id = $1 AND member_id = $2 AND challenge_slug = $3
		  AND day >= $4 AND day < $5
		ORDER BY day DESC
		LIMIT 1
	`

	record, err := scanCompletionRecord(r.q.QueryRow(ctx, query, guildID, memberID, slug, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to find completion record: %w", err)
	}
	return record, nil
}

// GetHighestStreakOnDay returns the member's record on day carrying the highest streak
func (r *CompletionRecordRepository) GetHighestStreakOnDay(ctx context.Context, guildID, memberID string, day time.Time) (*models.CompletionRecord, error) {
	query := `
		SELECT ` + completionRecordColumns + `
		FROM completion_records
		WHERE guild_id = $1 AND member_id = $2 AND day = $3 AND completed
		ORDER BY streak_count DESC
		LIMIT 1
	`

	record, err := scanCompletionRecord(r.q.QueryRow(ctx, query, guildID, memberID, day))
	if err != nil {
		return nil, fmt.Errorf("failed to get record for day: %w", err)
	}
	return record, nil
}

// GetLatest returns the member's most recent record
func (r *CompletionRecordRepository) GetLatest(ctx context.Context, guildID, memberID string) (*models.CompletionRecord, error) {
	query := `
		SELECT ` + completionRecordColumns + `
		FROM completion_records
		WHERE guild_id = $1 AND member_id = $2 AND completed
		ORDER BY day DESC, streak_count DESC
		LIMIT 1
	`

	record, err := scanCompletionRecord(r.q.QueryRow(ctx, query, guildID, memberID))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest record: %w", err)
	}
	return record, nil
}

// CountSince counts the member's completed records with day >= since
func (r *CompletionRecordRepository) CountSince(ctx context.Context, guildID, memberID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM completion_records
		WHERE guild_id = $1 AND member_id = $2 AND completed AND day >= $3
	`

	var count int
	if err := r.q.QueryRow(ctx, query, guildID, memberID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}

// GetTopStreaks returns each member's best record since the given day, ranked by
// streak and then by the most recent submission. A member appears at most once;
// ranking raw records instead would list a member once per qualifying day.
func (r *CompletionRecordRepository) GetTopStreaks(ctx context.Context, guildID string, since time.Time, limit int) ([]*models.CompletionRecord, error) {
	query := `
		SELECT ` + completionRecordColumns + `
		FROM (
			SELECT DISTINCT ON (member_id) *
			FROM completion_records
			WHERE guild_id = $1 AND day >= $2 AND streak_count > 0 AND completed
			ORDER BY member_id, streak_count DESC, submitted_at DESC
		) best
		ORDER BY streak_count DESC, submitted_at DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top streaks: %w", err)
	}
	defer rows.Close()

	var records []*models.CompletionRecord
	for rows.Next() {
		record, err := scanCompletionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top streak: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top streaks: %w", err)
	}

	return records, nil
}

// scanCompletionRecord scans one row, returning nil for pgx.ErrNoRows
func scanCompletionRecord(row pgx.Row) (*models.CompletionRecord, error) {
	var record models.CompletionRecord
	var difficulty string
	err := row.Scan(
		&record.ID,
		&record.GuildID,
		&record.MemberID,
		&record.TrackedUsername,
		&record.Day,
		&record.ChallengeTitle,
		&record.ChallengeSlug,
		&difficulty,
		&record.SubmittedAt,
		&record.Completed,
		&record.StreakCount,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.Difficulty = models.Difficulty(difficulty)
	return &record, nil
}
