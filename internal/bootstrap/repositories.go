package bootstrap

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/LevelUp_Go/internal/database/memory"
	"github.com/osse101/LevelUp_Go/internal/database/postgres"
	"github.com/osse101/LevelUp_Go/internal/repository"
)

// Repositories holds the storage implementations used by the application
type Repositories struct {
	Rulesets repository.RulesetRepository
	Activity repository.ActivityRepository
}

// InitializeRepositories creates PostgreSQL repositories over dbPool, or
// in-memory ones when dbPool is nil.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	if dbPool == nil {
		slog.Default().Warn(LogMsgUsingMemoryStorage)
		return &Repositories{
			Rulesets: memory.NewRulesetRepository(),
			Activity: memory.NewActivityRepository(),
		}
	}

	slog.Default().Info(LogMsgUsingPostgresStorage)
	return &Repositories{
		Rulesets: postgres.NewRulesetRepository(dbPool),
		Activity: postgres.NewActivityRepository(dbPool),
	}
}
