package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the enumerated difficulty of an activity
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every recognized difficulty in ascending order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the recognized difficulties
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty normalizes user-supplied text into a Difficulty.
// Unknown values are rejected rather than defaulted to easy.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidInput, ErrMsgInvalidDifficulty, s)
	}
	return d, nil
}

// XPCalculationInput is the raw activity handed to the XP engine
type XPCalculationInput struct {
	Base           int64      `json:"base"`
	Difficulty     Difficulty `json:"difficulty"`
	ClassAligned   bool       `json:"class_aligned,omitempty"`
	FirstTimeCombo bool       `json:"first_time_combo,omitempty"`
	SocialProof    bool       `json:"social_proof,omitempty"`
}

// Breakdown records which multiplier each modifier contributed.
// Optional modifiers are nil when their condition did not hold.
// Field order matches the order the engine applies them.
type Breakdown struct {
	Base           int64    `json:"base"`
	Difficulty     float64  `json:"difficulty"`
	ClassAlignment *float64 `json:"class_alignment,omitempty"`
	Novelty        *float64 `json:"novelty,omitempty"`
	SocialProof    *float64 `json:"social_proof,omitempty"`
}

// BreakdownEntry is a single named line of a Breakdown
type BreakdownEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Breakdown entry names
const (
	BreakdownBase           = "base"
	BreakdownDifficulty     = "difficulty"
	BreakdownClassAlignment = "class_alignment"
	BreakdownNovelty        = "novelty"
	BreakdownSocialProof    = "social_proof"
)

// Entries returns the breakdown as an ordered list for display and audit
func (b Breakdown) Entries() []BreakdownEntry {
	entries := []BreakdownEntry{
		{Name: BreakdownBase, Value: float64(b.Base)},
		{Name: BreakdownDifficulty, Value: b.Difficulty},
	}
	if b.ClassAlignment != nil {
		entries = append(entries, BreakdownEntry{Name: BreakdownClassAlignment, Value: *b.ClassAlignment})
	}
	if b.Novelty != nil {
		entries = append(entries, BreakdownEntry{Name: BreakdownNovelty, Value: *b.Novelty})
	}
	if b.SocialProof != nil {
		entries = append(entries, BreakdownEntry{Name: BreakdownSocialProof, Value: *b.SocialProof})
	}
	return entries
}

// Multiplier rebuilds the combined multiplier from the recorded terms,
// multiplying in the same order the engine does.
func (b Breakdown) Multiplier() float64 {
	m := 1.0
	m *= b.Difficulty
	if b.ClassAlignment != nil {
		m *= *b.ClassAlignment
	}
	if b.Novelty != nil {
		m *= *b.Novelty
	}
	if b.SocialProof != nil {
		m *= *b.SocialProof
	}
	return m
}

// XPCalculationResult is the outcome of one XP calculation
type XPCalculationResult struct {
	Multiplier float64   `json:"multiplier"`
	Total      int64     `json:"total"`
	Breakdown  Breakdown `json:"breakdown"`
}

// XP transaction sources
const (
	SourceQuest      = "quest"
	SourceEvent      = "event"
	SourceSimulation = "simulation"
	SourceReward     = "reward_adjust"
)

// XPTransaction is a scored award ready for the caller to persist.
// The engine never writes it anywhere.
type XPTransaction struct {
	ProfileID  string     `json:"profile_id,omitempty"`
	Source     string     `json:"source"`
	SourceID   string     `json:"source_id,omitempty"`
	BaseXP     int64      `json:"base_xp"`
	Multiplier float64    `json:"multiplier"`
	TotalXP    int64      `json:"total_xp"`
	Breakdown  Breakdown  `json:"breakdown"`
	RulesetID  *uuid.UUID `json:"ruleset_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	ScoredAt   time.Time  `json:"scored_at"`
}
