// Package level maps cumulative XP onto a level curve.
package level

import (
	"fmt"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// Calculate returns the level, XP to the next level and percent progress through the
// current level for totalXP. It runs in constant time: the level is the closed-form
// inverse of the arithmetic threshold sequence.
func Calculate(totalXP int64, curve Curve) (*domain.LevelProgress, error) {
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	if totalXP < 0 {
		return nil, fmt.Errorf("%w: %s (got %d)", domain.ErrInvalidInput, domain.ErrMsgNegativeTotalXP, totalXP)
	}
	if totalXP > MaxTotalXP {
		return nil, fmt.Errorf("%w: total XP must be at most %d (got %d)", domain.ErrInvalidInput, int64(MaxTotalXP), totalXP)
	}

	lvl := levelFor(totalXP, curve)
	start := curve.ThresholdFor(lvl)
	next := curve.ThresholdFor(lvl + 1)

	progress := float64(totalXP-start) / float64(next-start) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	xpToNext := next - totalXP
	if xpToNext < 0 {
		xpToNext = 0
	}

	return &domain.LevelProgress{
		Level:        lvl,
		XPToNext:     xpToNext,
		Progress:     progress,
		TotalXP:      totalXP,
		LevelStartXP: start,
		NextLevelXP:  next,
	}, nil
}

// LevelsGained reports how many levels an award moved a profile from before to after.
func LevelsGained(before, after int64, curve Curve) (int64, error) {
	from, err := Calculate(before, curve)
	if err != nil {
		return 0, err
	}
	to, err := Calculate(after, curve)
	if err != nil {
		return 0, err
	}
	if to.Level < from.Level {
		return 0, nil
	}
	return to.Level - from.Level, nil
}

func levelFor(totalXP int64, curve Curve) int64 {
	if totalXP < curve.BaseXP {
		return 1
	}
	return (totalXP-curve.BaseXP)/curve.Increment + 2
}
