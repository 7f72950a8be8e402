package xp

import "time"

// Default multiplier coefficients
const (
	DefaultEasyMultiplier   = 1.0
	DefaultMediumMultiplier = 1.2
	DefaultHardMultiplier   = 1.5

	// DefaultClassAlignmentBonus applies when the activity matches the user's class (+20%)
	DefaultClassAlignmentBonus = 1.2

	// DefaultNoveltyBonus applies to a tag combination unseen inside the novelty window (+10%)
	DefaultNoveltyBonus = 1.1

	// DefaultSocialProofBonus applies when evidence is attached (+10%)
	DefaultSocialProofBonus = 1.1

	// DefaultNoveltyWindow is the lookback used for first-time combination detection
	DefaultNoveltyWindow = 30 * 24 * time.Hour
)

// Bounds
const (
	// MaxBaseXP keeps every total inside int64
	MaxBaseXP = 1_000_000_000

	// MaxMultiplierTerm caps any single coefficient
	MaxMultiplierTerm = 10.0
)
