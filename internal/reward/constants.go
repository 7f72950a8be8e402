package reward

// CEL variable names available to prerequisite expressions
const (
	VarLevel           = "level"
	VarTotalXP         = "total_xp"
	VarBalance         = "balance"
	VarStreak          = "streak"
	VarCompletedQuests = "completed_quests"
)

// Failed check names reported in EligibilityResult.FailedCheck
const (
	CheckBalance  = "balance"
	CheckCooldown = "cooldown"
)

// Outcome labels
const (
	OutcomeEligible     = "eligible"
	OutcomeInsufficient = "insufficient_xp"
	OutcomeCooldown     = "cooldown"
	OutcomePrerequisite = "prerequisite"
)

const (
	// MaxPrerequisites bounds the expressions attached to one reward
	MaxPrerequisites = 16

	// MaxExpressionLength bounds a single prerequisite expression
	MaxExpressionLength = 512

	// MaxCachedPrograms bounds the compiled-expression cache
	MaxCachedPrograms = 1024
)
