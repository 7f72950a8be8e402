package repository

import (
	"context"
	"time"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// ActivityRepository stores the tag history used for first-time combination checks
type ActivityRepository interface {
	RecordActivity(ctx context.Context, rec domain.ActivityRecord) error
	RecentActivity(ctx context.Context, profileID string, since time.Time) ([]domain.ActivityRecord, error)
	PruneActivity(ctx context.Context, before time.Time) (int64, error)
}
