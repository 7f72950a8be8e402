package ruleset

import "time"

// Cache settings for compiled rulesets
const (
	DefaultCacheSize = 32
	DefaultCacheTTL  = 5 * time.Minute

	// activeCacheKey is the cache slot holding whichever ruleset is currently active
	activeCacheKey = "active"
)

// Defaults for optional document sections
const (
	DefaultNoveltyWindowDays  = 30
	DefaultStreakFreezeLimit  = 3
	DefaultStreakGraceDays    = 1
	DefaultRewardCooldownDays = 7
	MaxNameLength             = 100
)

// DefaultRulesetName names the built-in ruleset used when nothing is active
const DefaultRulesetName = "Built-in defaults"

// Log messages
const (
	LogMsgRulesetCreated   = "Ruleset created"
	LogMsgRulesetUpdated   = "Ruleset updated"
	LogMsgRulesetActivated = "Ruleset activated"
	LogMsgUsingFallback    = "No active ruleset, using built-in defaults"
)
