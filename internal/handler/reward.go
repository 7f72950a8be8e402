package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/reward"
)

// RewardRequest describes the reward being bought
type RewardRequest struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title" validate:"max=200"`
	CostXP        int64     `json:"cost_xp" validate:"min=0"`
	CooldownDays  int       `json:"cooldown_days" validate:"min=0"`
	Prerequisites []string  `json:"prerequisites,omitempty" validate:"max=16,dive,required,max=512"`
}

// EligibilityRequest asks whether a profile may buy a reward. Level is derived
// from total_xp under the active curve when omitted.
type EligibilityRequest struct {
	Reward             RewardRequest `json:"reward"`
	Balance            int64         `json:"balance" validate:"min=0"`
	TotalXP            int64         `json:"total_xp" validate:"min=0"`
	Level              int64         `json:"level,omitempty" validate:"min=0"`
	Streak             int64         `json:"streak" validate:"min=0"`
	CompletedQuests    []string      `json:"completed_quests,omitempty" validate:"max=1000"`
	LastPurchase       *time.Time    `json:"last_purchase,omitempty"`
	UseDefaultCooldown bool          `json:"use_default_cooldown,omitempty"`
}

// PrerequisiteRequest checks a prerequisite expression at authoring time
type PrerequisiteRequest struct {
	Expression string `json:"expression" validate:"required,max=512"`
}

// PrerequisiteResponse reports whether an expression compiles
type PrerequisiteResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// RewardHandlers serves reward store checks
type RewardHandlers struct {
	checker reward.Checker
	award   award.Service
}

// NewRewardHandlers creates the reward handlers
func NewRewardHandlers(checker reward.Checker, awardSvc award.Service) *RewardHandlers {
	return &RewardHandlers{checker: checker, award: awardSvc}
}

// HandleCheckEligibility evaluates balance, cooldown and prerequisites in that order
// @Summary Check reward eligibility
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body EligibilityRequest true "Eligibility"
// @Success 200 {object} domain.EligibilityResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/rewards/eligibility [post]
func (h *RewardHandlers) HandleCheckEligibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EligibilityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Check reward eligibility"); err != nil {
			return
		}

		lvl := req.Level
		if lvl == 0 {
			progress, err := h.award.Progress(r.Context(), req.TotalXP)
			if err != nil {
				respondServiceError(w, r, "Check reward eligibility", err)
				return
			}
			lvl = progress.Level
		}

		res, err := h.checker.Evaluate(r.Context(), domain.Eligibility{
			Reward: domain.Reward{
				ID:            req.Reward.ID,
				Title:         req.Reward.Title,
				CostXP:        req.Reward.CostXP,
				CooldownDays:  req.Reward.CooldownDays,
				Prerequisites: req.Reward.Prerequisites,
			},
			Balance:            req.Balance,
			TotalXP:            req.TotalXP,
			Level:              lvl,
			Streak:             req.Streak,
			CompletedQuests:    req.CompletedQuests,
			LastPurchase:       req.LastPurchase,
			UseDefaultCooldown: req.UseDefaultCooldown,
		})
		if err != nil {
			respondServiceError(w, r, "Check reward eligibility", err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// HandleValidatePrerequisite compiles a prerequisite expression without evaluating it
// @Summary Validate a prerequisite expression
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body PrerequisiteRequest true "Expression"
// @Success 200 {object} PrerequisiteResponse
// @Router /api/v1/rewards/prerequisites/validate [post]
func (h *RewardHandlers) HandleValidatePrerequisite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PrerequisiteRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Validate prerequisite"); err != nil {
			return
		}
		if err := h.checker.CompilePrerequisite(req.Expression); err != nil {
			respondJSON(w, http.StatusOK, PrerequisiteResponse{Valid: false, Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, PrerequisiteResponse{Valid: true})
	}
}
