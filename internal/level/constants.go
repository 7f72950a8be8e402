package level

// Default level curve
const (
	// DefaultBaseXP is the cumulative XP needed to reach level 2
	DefaultBaseXP = 100

	// DefaultIncrement is the extra XP each level after 2 costs
	DefaultIncrement = 50
)

// Bounds
const (
	// MaxTotalXP keeps threshold arithmetic far from int64 overflow
	MaxTotalXP = 1 << 53

	// MaxCurveStep caps BaseXP and Increment
	MaxCurveStep = 1_000_000_000
)
