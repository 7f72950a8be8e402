// Package novelty decides whether a tag combination is new for a profile.
package novelty

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/logger"
)

// HistoryRepository loads a profile's recent activity
type HistoryRepository interface {
	RecentActivity(ctx context.Context, profileID string, since time.Time) ([]domain.ActivityRecord, error)
}

// Checker answers the first-time-combination question against stored history
type Checker interface {
	// IsNovel reports whether no activity other than excludeEventID carried the same
	// tag set inside window before now.
	IsNovel(ctx context.Context, profileID string, tags []string, excludeEventID string, now time.Time, window time.Duration) (bool, error)
}

// TagSetKey returns a canonical key for a tag set: trimmed, lower-cased,
// de-duplicated and sorted. Two events share a combination iff their keys match.
func TagSetKey(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	norm := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		norm = append(norm, t)
	}
	sort.Strings(norm)
	return strings.Join(norm, "\x1f")
}

// IsNovel is the pure lookback: true when no record in [now-window, now] has the same tag set.
func IsNovel(history []domain.ActivityRecord, tags []string, now time.Time, window time.Duration) bool {
	key := TagSetKey(tags)
	since := now.Add(-window)
	for _, rec := range history {
		if rec.OccurredAt.Before(since) || rec.OccurredAt.After(now) {
			continue
		}
		if TagSetKey(rec.Tags) == key {
			return false
		}
	}
	return true
}

type checker struct {
	repo HistoryRepository
}

// NewChecker creates a Checker backed by repo
func NewChecker(repo HistoryRepository) Checker {
	return &checker{repo: repo}
}

func (c *checker) IsNovel(ctx context.Context, profileID string, tags []string, excludeEventID string, now time.Time, window time.Duration) (bool, error) {
	if window <= 0 {
		return false, fmt.Errorf("%w: novelty window must be positive", domain.ErrInvalidRuleset)
	}

	history, err := c.repo.RecentActivity(ctx, profileID, now.Add(-window))
	if err != nil {
		return false, fmt.Errorf("failed to load recent activity: %w", err)
	}

	if excludeEventID != "" {
		filtered := history[:0:0]
		for _, rec := range history {
			if rec.EventID != excludeEventID {
				filtered = append(filtered, rec)
			}
		}
		history = filtered
	}

	novel := IsNovel(history, tags, now, window)
	logger.FromContext(ctx).Debug("Novelty checked",
		"profile_id", profileID,
		"tag_set", TagSetKey(tags),
		"history_size", len(history),
		"novel", novel)
	return novel, nil
}
