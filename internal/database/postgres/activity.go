package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/repository"
)

type activityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new PostgreSQL activity history repository
func NewActivityRepository(db *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{db: db}
}

// RecordActivity appends an activity to a profile's history
func (r *activityRepository) RecordActivity(ctx context.Context, rec domain.ActivityRecord) error {
	if rec.ProfileID == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput)
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	occurredAt := rec.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (event_id, profile_id, tags, occurred_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, rec.EventID, rec.ProfileID, tags, occurredAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRecordActivity, err)
	}
	return nil
}

// RecentActivity returns a profile's activities at or after since, newest first
func (r *activityRepository) RecentActivity(ctx context.Context, profileID string, since time.Time) ([]domain.ActivityRecord, error) {
	query := `
		SELECT event_id, profile_id, tags, occurred_at
		FROM activity_log
		WHERE profile_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC
	`
	rows, err := r.db.Query(ctx, query, profileID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryActivity, err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		if err := rows.Scan(&rec.EventID, &rec.ProfileID, &rec.Tags, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryActivity, err)
	}
	return records, nil
}

// PruneActivity deletes history older than before, returning the number of rows removed
func (r *activityRepository) PruneActivity(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM activity_log WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPruneActivity, err)
	}
	return tag.RowsAffected(), nil
}
