package bootstrap

import (
	"log/slog"
	"slices"

	"github.com/osse101/LevelUp_Go/internal/config"
	"github.com/osse101/LevelUp_Go/internal/logger"
)

// SetupLogger initializes the default slog logger from the application config
// and logs the startup banner. Source locations are only added in dev.
func SetupLogger(cfg *config.Config) *slog.Logger {
	addSource := slices.Contains(sourceEnvironments, cfg.Environment)

	l := logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	))

	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	l.Info(LogMsgStartingLevelUp,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"storage", cfg.Storage)

	l.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"ruleset_cache_size", cfg.RulesetCacheSize,
		"ruleset_cache_ttl", cfg.RulesetCacheTTL)

	return l
}
