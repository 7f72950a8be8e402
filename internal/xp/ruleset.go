package xp

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

// Ruleset holds the multiplier coefficients the engine applies.
// It is read-only for the duration of a calculation and is always passed explicitly.
type Ruleset struct {
	Difficulty     map[domain.Difficulty]float64
	ClassAlignment float64
	Novelty        float64
	SocialProof    float64
	NoveltyWindow  time.Duration
}

// DefaultRuleset returns the stock coefficients
func DefaultRuleset() Ruleset {
	return Ruleset{
		Difficulty: map[domain.Difficulty]float64{
			domain.DifficultyEasy:   DefaultEasyMultiplier,
			domain.DifficultyMedium: DefaultMediumMultiplier,
			domain.DifficultyHard:   DefaultHardMultiplier,
		},
		ClassAlignment: DefaultClassAlignmentBonus,
		Novelty:        DefaultNoveltyBonus,
		SocialProof:    DefaultSocialProofBonus,
		NoveltyWindow:  DefaultNoveltyWindow,
	}
}

// Validate reports every problem with the ruleset in a single ErrInvalidRuleset.
//
// Difficulty coefficients must be positive and ordered easy <= medium <= hard.
// Bonus coefficients must be at least 1.0 so that a bonus can never lower an award.
func (r Ruleset) Validate() error {
	var problems []string

	for _, d := range domain.Difficulties {
		v, ok := r.Difficulty[d]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing difficulty multiplier %q", d))
			continue
		}
		if msg := checkTerm(v, 0); msg != "" {
			problems = append(problems, fmt.Sprintf("difficulty %q %s", d, msg))
		}
	}
	for d := range r.Difficulty {
		if !d.Valid() {
			problems = append(problems, fmt.Sprintf("unknown difficulty %q", d))
		}
	}
	if len(problems) == 0 {
		easy, medium, hard := r.Difficulty[domain.DifficultyEasy], r.Difficulty[domain.DifficultyMedium], r.Difficulty[domain.DifficultyHard]
		if easy > medium || medium > hard {
			problems = append(problems, fmt.Sprintf("difficulty multipliers must be ordered easy <= medium <= hard (got %g, %g, %g)", easy, medium, hard))
		}
	}

	bonuses := []struct {
		name  string
		value float64
	}{
		{"classAlignment", r.ClassAlignment},
		{"novelty", r.Novelty},
		{"socialProof", r.SocialProof},
	}
	for _, b := range bonuses {
		if msg := checkTerm(b.value, 1); msg != "" {
			problems = append(problems, fmt.Sprintf("%s %s", b.name, msg))
		}
	}

	if r.NoveltyWindow <= 0 {
		problems = append(problems, "novelty window must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRuleset, strings.Join(problems, "; "))
	}
	return nil
}

// checkTerm returns a description of what is wrong with a coefficient, or "" if it is usable.
// floor is exclusive when zero and inclusive otherwise.
func checkTerm(v, floor float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "must be a finite number"
	case floor == 0 && v <= 0:
		return fmt.Sprintf("must be greater than 0 (got %g)", v)
	case floor > 0 && v < floor:
		return fmt.Sprintf("must be at least %g (got %g)", floor, v)
	case v > MaxMultiplierTerm:
		return fmt.Sprintf("must be at most %g (got %g)", MaxMultiplierTerm, v)
	}
	return ""
}
