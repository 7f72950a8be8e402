// Package memory provides in-process repositories for running without PostgreSQL.
// Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/repository"
)

type rulesetRepository struct {
	mu       sync.RWMutex
	rulesets map[uuid.UUID]*domain.Ruleset
	now      func() time.Time
}

// NewRulesetRepository creates an empty in-memory ruleset store
func NewRulesetRepository() repository.RulesetRepository {
	return &rulesetRepository{
		rulesets: make(map[uuid.UUID]*domain.Ruleset),
		now:      time.Now,
	}
}

func (r *rulesetRepository) ListRulesets(_ context.Context) ([]domain.Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Ruleset, 0, len(r.rulesets))
	for _, rs := range r.rulesets {
		out = append(out, clone(rs))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *rulesetRepository) GetRuleset(_ context.Context, id uuid.UUID) (*domain.Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.rulesets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, id)
	}
	c := clone(rs)
	return &c, nil
}

func (r *rulesetRepository) GetActiveRuleset(_ context.Context) (*domain.Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rs := range r.rulesets {
		if rs.Active {
			c := clone(rs)
			return &c, nil
		}
	}
	return nil, domain.ErrNoActiveRuleset
}

func (r *rulesetRepository) CreateRuleset(_ context.Context, rs *domain.Ruleset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(rs.Name, uuid.Nil) {
		return fmt.Errorf("%w: %q", domain.ErrRulesetNameTaken, rs.Name)
	}

	now := r.now().UTC()
	rs.ID = uuid.New()
	rs.Active = false
	rs.CreatedAt = now
	rs.UpdatedAt = now
	c := clone(rs)
	r.rulesets[rs.ID] = &c
	return nil
}

func (r *rulesetRepository) UpdateRuleset(_ context.Context, rs *domain.Ruleset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rulesets[rs.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, rs.ID)
	}
	if r.nameTaken(rs.Name, rs.ID) {
		return fmt.Errorf("%w: %q", domain.ErrRulesetNameTaken, rs.Name)
	}

	existing.Name = rs.Name
	existing.Rules = append([]byte(nil), rs.Rules...)
	existing.UpdatedAt = r.now().UTC()
	rs.UpdatedAt = existing.UpdatedAt
	rs.CreatedAt = existing.CreatedAt
	rs.Active = existing.Active
	return nil
}

func (r *rulesetRepository) ActivateRuleset(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rulesets[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, id)
	}
	now := r.now().UTC()
	for rid, rs := range r.rulesets {
		active := rid == id
		if rs.Active != active {
			rs.Active = active
			rs.UpdatedAt = now
		}
	}
	return nil
}

func (r *rulesetRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, rs := range r.rulesets {
		if id != except && strings.EqualFold(rs.Name, name) {
			return true
		}
	}
	return false
}

func clone(rs *domain.Ruleset) domain.Ruleset {
	c := *rs
	c.Rules = append([]byte(nil), rs.Rules...)
	return c
}

type activityRepository struct {
	mu      sync.RWMutex
	records map[string][]domain.ActivityRecord
}

// NewActivityRepository creates an empty in-memory activity history
func NewActivityRepository() repository.ActivityRepository {
	return &activityRepository{records: make(map[string][]domain.ActivityRecord)}
}

func (r *activityRepository) RecordActivity(_ context.Context, rec domain.ActivityRecord) error {
	if rec.ProfileID == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput)
	}
	rec.Tags = append([]string(nil), rec.Tags...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ProfileID] = append(r.records[rec.ProfileID], rec)
	return nil
}

func (r *activityRepository) RecentActivity(_ context.Context, profileID string, since time.Time) ([]domain.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ActivityRecord
	for _, rec := range r.records[profileID] {
		if !rec.OccurredAt.Before(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (r *activityRepository) PruneActivity(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for profile, recs := range r.records {
		kept := recs[:0]
		for _, rec := range recs {
			if rec.OccurredAt.Before(before) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(r.records, profile)
		} else {
			r.records[profile] = kept
		}
	}
	return removed, nil
}
