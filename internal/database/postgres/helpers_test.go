package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/LevelUp_Go/internal/database"
)

var (
	testPool     *pgxpool.Pool
	testPoolErr  error
	testPoolOnce sync.Once
	terminate    func()
)

// setupTestPool starts one PostgreSQL container for the package and applies
// the embedded migrations. Tests are skipped when Docker is unavailable.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testPoolOnce.Do(func() {
		ctx := context.Background()

		var pgContainer *postgres.PostgresContainer
		func() {
			defer func() {
				if r := recover(); r != nil {
					testPoolErr = errDockerUnavailable{reason: r}
				}
			}()
			pgContainer, testPoolErr = postgres.Run(ctx,
				"postgres:15-alpine",
				postgres.WithDatabase("testdb"),
				postgres.WithUsername("testuser"),
				postgres.WithPassword("testpass"),
				testcontainers.WithWaitStrategy(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(30*time.Second)),
			)
		}()
		if testPoolErr != nil || pgContainer == nil {
			return
		}
		terminate = func() { _ = pgContainer.Terminate(ctx) }

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testPoolErr = err
			return
		}

		testPool, testPoolErr = database.NewPool(connStr, 10, time.Minute, 5*time.Minute)
		if testPoolErr != nil {
			return
		}
		testPoolErr = database.Migrate(ctx, testPool)
	})

	if testPoolErr != nil {
		t.Skipf("Skipping integration test: database not available: %v", testPoolErr)
	}
	return testPool
}

// truncateAll empties every table between tests
func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE rulesets, activity_log`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

type errDockerUnavailable struct {
	reason any
}

func (e errDockerUnavailable) Error() string {
	return fmt.Sprintf("docker unavailable: %v", e.reason)
}
