package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Ruleset Operations
const (
	ErrMsgFailedToListRulesets     = "failed to list rulesets"
	ErrMsgFailedToGetRuleset       = "failed to get ruleset"
	ErrMsgFailedToGetActiveRuleset = "failed to get active ruleset"
	ErrMsgFailedToInsertRuleset    = "failed to insert ruleset"
	ErrMsgFailedToUpdateRuleset    = "failed to update ruleset"
	ErrMsgFailedToActivateRuleset  = "failed to activate ruleset"
)

// Error Messages - Activity Operations
const (
	ErrMsgFailedToRecordActivity = "failed to record activity"
	ErrMsgFailedToQueryActivity  = "failed to query recent activity"
	ErrMsgFailedToPruneActivity  = "failed to prune activity"
)
