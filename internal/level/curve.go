package level

import (
	"fmt"
	"strings"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// Curve is a linear level curve: level n (n >= 2) is reached at
// BaseXP + Increment*(n-2) cumulative XP, level 1 at 0.
type Curve struct {
	BaseXP    int64 `json:"baseXP"`
	Increment int64 `json:"increment"`
}

// DefaultCurve returns the stock curve (100, then +50 per level)
func DefaultCurve() Curve {
	return Curve{BaseXP: DefaultBaseXP, Increment: DefaultIncrement}
}

// Validate rejects curves that cannot produce a strictly increasing threshold sequence
func (c Curve) Validate() error {
	var problems []string
	if c.BaseXP <= 0 || c.BaseXP > MaxCurveStep {
		problems = append(problems, fmt.Sprintf("baseXP must be between 1 and %d (got %d)", MaxCurveStep, c.BaseXP))
	}
	if c.Increment <= 0 || c.Increment > MaxCurveStep {
		problems = append(problems, fmt.Sprintf("increment must be between 1 and %d (got %d)", MaxCurveStep, c.Increment))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: level curve: %s", domain.ErrInvalidRuleset, strings.Join(problems, "; "))
	}
	return nil
}

// ThresholdFor returns the cumulative XP needed to reach level
func (c Curve) ThresholdFor(level int64) int64 {
	if level <= 1 {
		return 0
	}
	return c.BaseXP + c.Increment*(level-2)
}
