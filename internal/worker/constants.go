package worker

// ============================================================================
// Log Messages - Activity Prune Worker
// ============================================================================

// Log messages for activity prune worker operations
const (
	LogMsgActivityPruneDisabled  = "Activity pruning disabled"
	LogMsgActivityPruneScheduled = "Activity pruning scheduled"
	LogMsgActivityPruneCompleted = "Activity pruning completed"
	LogMsgActivityPruneFailed    = "Activity pruning failed"
)

// Error messages for activity prune worker operations
const (
	ErrMsgFailedResolveRetention = "failed to resolve novelty window"
	ErrMsgFailedPruneActivity    = "failed to prune activity history"
)
