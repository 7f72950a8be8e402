package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Scoring metric names
const (
	MetricNameXPCalculations      = "xp_calculations_total"
	MetricNameXPAwarded           = "xp_awarded_total"
	MetricNameXPMultiplier        = "xp_multiplier"
	MetricNameXPRejected          = "xp_calculations_rejected_total"
	MetricNameNoveltyBonusApplied = "xp_novelty_bonus_applied_total"
)

// Ruleset and reward metric names
const (
	MetricNameRulesetChanges    = "ruleset_changes_total"
	MetricNameRewardEligibility = "reward_eligibility_checks_total"
	MetricNameActivityPruned    = "activity_records_pruned_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Scoring metric help text
const (
	HelpTextXPCalculations      = "Total number of successful XP calculations"
	HelpTextXPAwarded           = "Total XP computed across all calculations"
	HelpTextXPMultiplier        = "Distribution of final XP multipliers"
	HelpTextXPRejected          = "Total number of XP calculations rejected by validation"
	HelpTextNoveltyBonusApplied = "Total number of event scores that earned the novelty bonus"
)

// Ruleset and reward metric help text
const (
	HelpTextRulesetChanges    = "Total number of ruleset create, update and activate operations"
	HelpTextRewardEligibility = "Total number of reward eligibility checks by outcome"
	HelpTextActivityPruned    = "Total number of activity history records deleted by the pruning job"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelSource     = "source"
	LabelDifficulty = "difficulty"
	LabelReason     = "reason"
	LabelAction     = "action"
	LabelOutcome    = "outcome"
)

// Rejection reasons
const (
	ReasonInvalidInput   = "invalid_input"
	ReasonInvalidRuleset = "invalid_ruleset"
	ReasonOther          = "other"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// MultiplierBuckets covers the stock multiplier range (1.0 to ~2.2) with headroom for custom rulesets
var MultiplierBuckets = []float64{1, 1.1, 1.2, 1.3, 1.5, 1.75, 2, 2.5, 3, 5, 10}

// Ruleset change actions
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionActivate = "activate"
)
