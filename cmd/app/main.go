// Command app runs the LevelUp XP rules HTTP service.
//
//	@title						LevelUp XP API
//	@version					1.0
//	@description				XP scoring, level progression and reward eligibility.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/LevelUp_Go/internal/bootstrap"
	"github.com/osse101/LevelUp_Go/internal/config"
	"github.com/osse101/LevelUp_Go/internal/database"
	"github.com/osse101/LevelUp_Go/internal/handler"
	"github.com/osse101/LevelUp_Go/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("LevelUp exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bootstrap.SetupLogger(cfg)

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, warning := range warnings {
		slog.Warn(warning)
	}

	handler.InitValidator()

	var (
		pgPool *pgxpool.Pool
		dbPool database.Pool
	)
	if cfg.UsesDatabase() {
		pgPool, err = database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		dbPool = pgPool

		if cfg.RunMigrations {
			if err := database.Migrate(context.Background(), pgPool); err != nil {
				pgPool.Close()
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
	}

	repos := bootstrap.InitializeRepositories(pgPool)
	services, err := bootstrap.InitializeServices(cfg, repos)
	if err != nil {
		if pgPool != nil {
			pgPool.Close()
		}
		return err
	}

	srv := server.NewServer(server.Options{
		Port:             cfg.Port,
		APIKey:           cfg.APIKey,
		TrustedProxies:   cfg.TrustedProxies,
		RequestSizeLimit: cfg.RequestSizeLimit,
	}, server.Services{
		DBPool:   dbPool,
		Rulesets: services.Rulesets,
		Award:    services.Award,
		Rewards:  services.Rewards,
	})

	pruner := bootstrap.InitializeActivityPruner(cfg, repos, services.Rulesets)
	pruner.Start()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var startErr error
	select {
	case <-stop:
	case startErr = <-serverErr:
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:        srv,
		ActivityPrune: pruner,
		DBPool:        dbPool,
	})

	return startErr
}
