// Package xp turns an activity and a ruleset into a deterministic XP award.
//
// Everything here is pure: no I/O, no shared state, safe for concurrent use.
package xp

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// ValidateInput rejects negative or oversized base XP and unrecognized difficulties
func ValidateInput(input domain.XPCalculationInput) error {
	if input.Base < 0 {
		return fmt.Errorf("%w: %s (got %d)", domain.ErrInvalidInput, domain.ErrMsgNegativeBaseXP, input.Base)
	}
	if input.Base > MaxBaseXP {
		return fmt.Errorf("%w: base XP must be at most %d (got %d)", domain.ErrInvalidInput, MaxBaseXP, input.Base)
	}
	if !input.Difficulty.Valid() {
		return fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, domain.ErrMsgInvalidDifficulty, input.Difficulty)
	}
	return nil
}

// Calculate applies the ruleset to the input:
//
//	multiplier = difficulty [* classAlignment] [* novelty] [* socialProof]
//	total      = ceil(base * multiplier)
//
// The total is computed in exact decimal arithmetic from the coefficients as written,
// so float error can neither add a point nor hide a real fraction.
//
// The ruleset is checked before the input so a broken ruleset is always reported as a
// configuration error, whatever activity happened to be scored against it.
func Calculate(input domain.XPCalculationInput, rules Ruleset) (*domain.XPCalculationResult, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	multiplier := 1.0
	breakdown := domain.Breakdown{
		Base:       input.Base,
		Difficulty: 1.0,
	}

	difficulty := rules.Difficulty[input.Difficulty]
	multiplier *= difficulty
	breakdown.Difficulty = difficulty

	if input.ClassAligned {
		multiplier *= rules.ClassAlignment
		breakdown.ClassAlignment = float64Ptr(rules.ClassAlignment)
	}

	if input.FirstTimeCombo {
		multiplier *= rules.Novelty
		breakdown.Novelty = float64Ptr(rules.Novelty)
	}

	if input.SocialProof {
		multiplier *= rules.SocialProof
		breakdown.SocialProof = float64Ptr(rules.SocialProof)
	}

	return &domain.XPCalculationResult{
		Multiplier: multiplier,
		Total:      Total(breakdown),
		Breakdown:  breakdown,
	}, nil
}

// Total recomputes the award from a breakdown. It always agrees with Calculate.
func Total(b domain.Breakdown) int64 {
	terms := []float64{b.Difficulty}
	for _, t := range []*float64{b.ClassAlignment, b.Novelty, b.SocialProof} {
		if t != nil {
			terms = append(terms, *t)
		}
	}
	return RoundUp(b.Base, terms...)
}

// RoundUp multiplies base by each coefficient exactly and rounds in the user's
// favor: any real fraction, however small, becomes a whole extra point.
// Coefficients are taken at their shortest decimal form, so 1.1 is exactly 11/10.
func RoundUp(base int64, terms ...float64) int64 {
	product := decimal.NewFromInt(base)
	for _, t := range terms {
		product = product.Mul(decimal.NewFromFloat(t))
	}
	total := product.Ceil()
	if total.Sign() <= 0 {
		return 0
	}
	return total.IntPart()
}

func float64Ptr(v float64) *float64 {
	return &v
}
