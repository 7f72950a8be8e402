package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a store item bought with XP
type Reward struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CostXP        int64     `json:"cost_xp"`
	CooldownDays  int       `json:"cooldown_days"`
	Prerequisites []string  `json:"prerequisites,omitempty"` // CEL expressions
}

// Eligibility is everything needed to decide whether a profile may buy a reward
type Eligibility struct {
	Reward          Reward     `json:"reward"`
	Balance         int64      `json:"balance"`
	TotalXP         int64      `json:"total_xp"`
	Level           int64      `json:"level"`
	Streak          int64      `json:"streak"`
	CompletedQuests []string   `json:"completed_quests,omitempty"`
	LastPurchase    *time.Time `json:"last_purchase,omitempty"`

	// UseDefaultCooldown applies the ruleset's store cooldown when the reward sets none
	UseDefaultCooldown bool `json:"use_default_cooldown,omitempty"`
}

// EligibilityResult explains a purchase decision
type EligibilityResult struct {
	Eligible      bool       `json:"eligible"`
	Reason        string     `json:"reason,omitempty"`
	FailedCheck   string     `json:"failed_check,omitempty"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
	BalanceAfter  int64      `json:"balance_after"`
}
