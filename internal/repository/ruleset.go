package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// RulesetRepository stores admin rules documents
type RulesetRepository interface {
	ListRulesets(ctx context.Context) ([]domain.Ruleset, error)

	// GetRuleset returns domain.ErrRulesetNotFound when id does not exist
	GetRuleset(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error)

	// GetActiveRuleset returns domain.ErrNoActiveRuleset when none is active
	GetActiveRuleset(ctx context.Context) (*domain.Ruleset, error)

	// CreateRuleset inserts rs and fills in its ID and timestamps.
	// A duplicate name yields domain.ErrRulesetNameTaken.
	CreateRuleset(ctx context.Context, rs *domain.Ruleset) error
	UpdateRuleset(ctx context.Context, rs *domain.Ruleset) error

	// ActivateRuleset marks id active and every other ruleset inactive in one transaction
	ActivateRuleset(ctx context.Context, id uuid.UUID) error
}
