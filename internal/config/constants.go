package config

import "time"

// Defaults applied when the matching environment variable is unset
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "levelup"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"

	DefaultDBMaxConns        = 10
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = time.Hour

	DefaultRulesetCacheSize = 32
	DefaultRulesetCacheTTL  = 5 * time.Minute

	DefaultActivityPruneInterval = time.Hour
	DefaultActivityRetention     = 90 * 24 * time.Hour

	DefaultRequestSizeLimit = 1 << 20
	DefaultShutdownTimeout  = 10 * time.Second
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)
