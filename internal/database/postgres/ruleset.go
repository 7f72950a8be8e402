package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/repository"
)

type rulesetRepository struct {
	db *pgxpool.Pool
}

// NewRulesetRepository creates a new PostgreSQL ruleset repository
func NewRulesetRepository(db *pgxpool.Pool) repository.RulesetRepository {
	return &rulesetRepository{db: db}
}

const rulesetColumns = `ruleset_id, name, active, rules_json, created_at, updated_at`

func scanRuleset(row pgx.Row) (*domain.Ruleset, error) {
	var rs domain.Ruleset
	var rules []byte
	if err := row.Scan(&rs.ID, &rs.Name, &rs.Active, &rules, &rs.CreatedAt, &rs.UpdatedAt); err != nil {
		return nil, err
	}
	rs.Rules = rules
	return &rs, nil
}

// ListRulesets returns every ruleset, oldest first
func (r *rulesetRepository) ListRulesets(ctx context.Context) ([]domain.Ruleset, error) {
	query := `SELECT ` + rulesetColumns + ` FROM rulesets ORDER BY created_at, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRulesets, err)
	}
	defer rows.Close()

	rulesets := []domain.Ruleset{}
	for rows.Next() {
		rs, err := scanRuleset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ruleset: %w", err)
		}
		rulesets = append(rulesets, *rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRulesets, err)
	}
	return rulesets, nil
}

// GetRuleset retrieves a ruleset by ID
func (r *rulesetRepository) GetRuleset(ctx context.Context, id uuid.UUID) (*domain.Ruleset, error) {
	query := `SELECT ` + rulesetColumns + ` FROM rulesets WHERE ruleset_id = $1`

	rs, err := scanRuleset(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRuleset, err)
	}
	return rs, nil
}

// GetActiveRuleset retrieves the single active ruleset
func (r *rulesetRepository) GetActiveRuleset(ctx context.Context) (*domain.Ruleset, error) {
	query := `SELECT ` + rulesetColumns + ` FROM rulesets WHERE active LIMIT 1`

	rs, err := scanRuleset(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveRuleset
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetActiveRuleset, err)
	}
	return rs, nil
}

// CreateRuleset inserts a new inactive ruleset
func (r *rulesetRepository) CreateRuleset(ctx context.Context, rs *domain.Ruleset) error {
	query := `
		INSERT INTO rulesets (name, rules_json)
		VALUES ($1, $2)
		RETURNING ruleset_id, active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, rs.Name, []byte(rs.Rules)).Scan(&rs.ID, &rs.Active, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrRulesetNameTaken, rs.Name)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRuleset, err)
	}
	return nil
}

// UpdateRuleset replaces the name and rules of an existing ruleset
func (r *rulesetRepository) UpdateRuleset(ctx context.Context, rs *domain.Ruleset) error {
	query := `
		UPDATE rulesets
		SET name = $2, rules_json = $3, updated_at = NOW()
		WHERE ruleset_id = $1
		RETURNING active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, rs.ID, rs.Name, []byte(rs.Rules)).Scan(&rs.Active, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, rs.ID)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", domain.ErrRulesetNameTaken, rs.Name)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRuleset, err)
	}
	return nil
}

// ActivateRuleset deactivates every other ruleset and activates id atomically
func (r *rulesetRepository) ActivateRuleset(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE rulesets SET active = FALSE, updated_at = NOW() WHERE active AND ruleset_id <> $1`, id); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToActivateRuleset, err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE rulesets SET active = TRUE, updated_at = NOW() WHERE ruleset_id = $1 AND NOT active`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToActivateRuleset, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rulesets WHERE ruleset_id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToActivateRuleset, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrRulesetNotFound, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}
