package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Input errors
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgInvalidDifficulty = "unrecognized difficulty"
	ErrMsgNegativeBaseXP    = "base XP must not be negative"
	ErrMsgNegativeTotalXP   = "total XP must not be negative"

	// Configuration errors
	ErrMsgInvalidRuleset = "invalid ruleset"

	// Ruleset store errors
	ErrMsgRulesetNotFound  = "ruleset not found"
	ErrMsgNoActiveRuleset  = "no active ruleset"
	ErrMsgRulesetNameTaken = "ruleset name already exists"

	// Catalog errors
	ErrMsgActivityNotFound = "activity not found in catalog"

	// Reward errors
	ErrMsgInsufficientXP      = "insufficient XP"
	ErrMsgOnCooldown          = "reward is still on cooldown"
	ErrMsgPrerequisiteNotMet  = "reward prerequisite not met"
	ErrMsgInvalidPrerequisite = "invalid prerequisite expression"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInvalidInput marks a malformed activity or XP value supplied by a caller.
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// ErrInvalidRuleset marks a malformed ruleset or level curve. Kept distinct from
	// ErrInvalidInput so admin tooling can blame the configuration, not the activity.
	ErrInvalidRuleset = errors.New(ErrMsgInvalidRuleset)

	ErrRulesetNotFound  = errors.New(ErrMsgRulesetNotFound)
	ErrNoActiveRuleset  = errors.New(ErrMsgNoActiveRuleset)
	ErrRulesetNameTaken = errors.New(ErrMsgRulesetNameTaken)

	ErrActivityNotFound = errors.New(ErrMsgActivityNotFound)

	ErrInsufficientXP      = errors.New(ErrMsgInsufficientXP)
	ErrOnCooldown          = errors.New(ErrMsgOnCooldown)
	ErrPrerequisiteNotMet  = errors.New(ErrMsgPrerequisiteNotMet)
	ErrInvalidPrerequisite = errors.New(ErrMsgInvalidPrerequisite)

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
