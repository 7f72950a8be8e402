package bootstrap

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingLevelUp     = "Starting LevelUp"
	LogMsgConfigurationLoaded = "Configuration loaded"
)

// Log messages for wiring storage and services
const (
	LogMsgUsingMemoryStorage   = "Using in-memory storage; data is lost on restart"
	LogMsgUsingPostgresStorage = "Using PostgreSQL storage"
	LogMsgServicesInitialized  = "Services initialized"
	ErrMsgFailedCreateChecker  = "failed to create eligibility checker"
)

// Shutdown messages
const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgStoppingWorkers      = "Stopping background workers..."
	LogMsgWorkerShutdownFailed = "Background worker did not stop cleanly"
	LogMsgClosingDatabase      = "Closing database pool..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
)

// Environments that get source locations in log records
var sourceEnvironments = []string{"dev", "development"}
