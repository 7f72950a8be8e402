package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/logger"
)

// SimulateRequest is an admin preview of one calculation
type SimulateRequest struct {
	Base           *int64 `json:"base,omitempty"`
	Activity       string `json:"activity,omitempty" validate:"max=100"`
	Difficulty     string `json:"difficulty" validate:"required,difficulty"`
	ClassAligned   bool   `json:"class_aligned"`
	FirstTimeCombo bool   `json:"first_time_combo"`
	SocialProof    bool   `json:"social_proof"`
	RulesetID      string `json:"ruleset_id,omitempty" validate:"omitempty,uuid"`
}

// ScoreQuestRequest scores a completed quest
type ScoreQuestRequest struct {
	ProfileID      string `json:"profile_id" validate:"required,max=100"`
	QuestID        string `json:"quest_id" validate:"required,max=100"`
	BaseXP         int64  `json:"base_xp"`
	Difficulty     string `json:"difficulty" validate:"required,difficulty"`
	EvidenceURL    string `json:"evidence_url,omitempty" validate:"max=2048"`
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
	CurrentTotalXP *int64 `json:"current_total_xp,omitempty"`
}

// ScoreEventRequest scores a logged event. With Record set, the event's tags
// are stored for future novelty checks after a successful score.
type ScoreEventRequest struct {
	ProfileID      string     `json:"profile_id" validate:"required,max=100"`
	EventID        string     `json:"event_id,omitempty" validate:"max=100"`
	Title          string     `json:"title" validate:"max=200"`
	Tags           []string   `json:"tags" validate:"max=20,dive,max=50"`
	Difficulty     string     `json:"difficulty" validate:"required,difficulty"`
	EvidenceURL    string     `json:"evidence_url,omitempty" validate:"max=2048"`
	Notes          string     `json:"notes,omitempty" validate:"max=2000"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
	CurrentTotalXP *int64     `json:"current_total_xp,omitempty"`
	Record         bool       `json:"record"`
}

// XPHandlers serves scoring and level endpoints
type XPHandlers struct {
	award award.Service
}

// NewXPHandlers creates the scoring handlers
func NewXPHandlers(svc award.Service) *XPHandlers {
	return &XPHandlers{award: svc}
}

// HandleSimulate previews a calculation with explicit flags
// @Summary Simulate an XP calculation
// @Description Scores explicit flags against the active ruleset, or a draft when ruleset_id is set
// @Tags xp
// @Accept json
// @Produce json
// @Param request body SimulateRequest true "Simulation"
// @Success 200 {object} award.Score
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/xp/simulate [post]
func (h *XPHandlers) HandleSimulate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulateRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Simulate XP"); err != nil {
			return
		}

		sim := award.SimulationRequest{
			Base:           req.Base,
			Activity:       req.Activity,
			ClassAligned:   req.ClassAligned,
			FirstTimeCombo: req.FirstTimeCombo,
			SocialProof:    req.SocialProof,
		}
		d, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			respondServiceError(w, r, "Simulate XP", err)
			return
		}
		sim.Difficulty = d
		if req.RulesetID != "" {
			id := uuid.MustParse(req.RulesetID)
			sim.RulesetID = &id
		}

		score, err := h.award.Simulate(r.Context(), sim)
		if err != nil {
			respondServiceError(w, r, "Simulate XP", err)
			return
		}
		respondJSON(w, http.StatusOK, score)
	}
}

// HandleScoreQuest scores a completed quest
// @Summary Score a quest completion
// @Tags xp
// @Accept json
// @Produce json
// @Param request body ScoreQuestRequest true "Quest completion"
// @Success 200 {object} award.Score
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/xp/quest [post]
func (h *XPHandlers) HandleScoreQuest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreQuestRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Score quest"); err != nil {
			return
		}
		d, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			respondServiceError(w, r, "Score quest", err)
			return
		}

		score, err := h.award.ScoreQuest(r.Context(), domain.QuestCompletion{
			ProfileID:      req.ProfileID,
			QuestID:        req.QuestID,
			BaseXP:         req.BaseXP,
			Difficulty:     d,
			EvidenceURL:    req.EvidenceURL,
			Notes:          req.Notes,
			CurrentTotalXP: req.CurrentTotalXP,
		})
		if err != nil {
			respondServiceError(w, r, "Score quest", err)
			return
		}
		respondJSON(w, http.StatusOK, score)
	}
}

// HandleScoreEvent scores a logged event, checking its tag set for novelty
// @Summary Score an event log
// @Tags xp
// @Accept json
// @Produce json
// @Param request body ScoreEventRequest true "Event"
// @Success 200 {object} award.Score
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/xp/event [post]
func (h *XPHandlers) HandleScoreEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreEventRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Score event"); err != nil {
			return
		}
		d, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			respondServiceError(w, r, "Score event", err)
			return
		}

		e := domain.EventLog{
			ProfileID:      req.ProfileID,
			EventID:        req.EventID,
			Title:          req.Title,
			Tags:           req.Tags,
			Difficulty:     d,
			EvidenceURL:    req.EvidenceURL,
			Notes:          req.Notes,
			CurrentTotalXP: req.CurrentTotalXP,
		}
		if req.OccurredAt != nil {
			e.OccurredAt = *req.OccurredAt
		}

		score, err := h.award.ScoreEvent(r.Context(), e)
		if err != nil {
			respondServiceError(w, r, "Score event", err)
			return
		}

		if req.Record {
			if err := h.award.RecordEvent(r.Context(), e); err != nil {
				// The score is still valid; only the novelty history missed this event.
				logger.FromContext(r.Context()).Error("Failed to record event history",
					"profile_id", e.ProfileID, "event_id", e.EventID, "error", err)
			}
		}
		respondJSON(w, http.StatusOK, score)
	}
}

// HandleGetLevel reports level progression for a cumulative XP total
// @Summary Level progression
// @Tags xp
// @Produce json
// @Param total_xp query int true "Cumulative XP"
// @Success 200 {object} domain.LevelProgress
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/level [get]
func (h *XPHandlers) HandleGetLevel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, ok := GetInt64QueryParam(r, w, "total_xp")
		if !ok {
			return
		}
		progress, err := h.award.Progress(r.Context(), total)
		if err != nil {
			respondServiceError(w, r, "Get level", err)
			return
		}
		respondJSON(w, http.StatusOK, progress)
	}
}
