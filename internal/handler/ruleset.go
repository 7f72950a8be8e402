package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

// RulesetRequest creates or replaces a ruleset
type RulesetRequest struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Rules json.RawMessage `json:"rules_json" validate:"required"`
}

// ValidateRulesetRequest checks a rules document without storing it
type ValidateRulesetRequest struct {
	Rules json.RawMessage `json:"rules_json" validate:"required"`
}

// ValidateRulesetResponse reports whether a rules document is usable
type ValidateRulesetResponse struct {
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// ActiveRulesetResponse is the ruleset currently used for scoring
type ActiveRulesetResponse struct {
	RulesetID *uuid.UUID      `json:"ruleset_id,omitempty"`
	Name      string          `json:"name"`
	Builtin   bool            `json:"builtin"`
	Rules     json.RawMessage `json:"rules_json"`
}

// RulesetHandlers serves the admin ruleset endpoints
type RulesetHandlers struct {
	rulesets ruleset.Service
}

// NewRulesetHandlers creates the ruleset handlers
func NewRulesetHandlers(svc ruleset.Service) *RulesetHandlers {
	return &RulesetHandlers{rulesets: svc}
}

// HandleList lists every stored ruleset
// @Summary List rulesets
// @Tags rulesets
// @Produce json
// @Success 200 {array} domain.Ruleset
// @Router /api/v1/rulesets [get]
func (h *RulesetHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.rulesets.List(r.Context())
		if err != nil {
			respondServiceError(w, r, "List rulesets", err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// HandleGet returns one stored ruleset
// @Summary Get a ruleset
// @Tags rulesets
// @Produce json
// @Param id path string true "Ruleset ID"
// @Success 200 {object} domain.Ruleset
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/rulesets/{id} [get]
func (h *RulesetHandlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRulesetID(w, r)
		if !ok {
			return
		}
		rs, err := h.rulesets.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "Get ruleset", err)
			return
		}
		respondJSON(w, http.StatusOK, rs)
	}
}

// HandleGetActive returns the ruleset used for scoring, which is the built-in
// document when nothing has been activated
// @Summary Get the active ruleset
// @Tags rulesets
// @Produce json
// @Success 200 {object} ActiveRulesetResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/rulesets/active [get]
func (h *RulesetHandlers) HandleGetActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.rulesets.GetActive(r.Context())
		if err != nil {
			respondServiceError(w, r, "Get active ruleset", err)
			return
		}

		if c.RulesetID == nil {
			raw, err := ruleset.DefaultDocument().Marshal()
			if err != nil {
				respondServiceError(w, r, "Get active ruleset", err)
				return
			}
			respondJSON(w, http.StatusOK, ActiveRulesetResponse{Name: c.Name, Builtin: true, Rules: raw})
			return
		}

		rs, err := h.rulesets.Get(r.Context(), *c.RulesetID)
		if err != nil {
			respondServiceError(w, r, "Get active ruleset", err)
			return
		}
		respondJSON(w, http.StatusOK, ActiveRulesetResponse{RulesetID: c.RulesetID, Name: rs.Name, Rules: rs.Rules})
	}
}

// HandleDefaults returns the built-in rules document, the starting point of the admin editor
// @Summary Built-in rules document
// @Tags rulesets
// @Produce json
// @Success 200 {object} ruleset.Document
// @Router /api/v1/rulesets/defaults [get]
func (h *RulesetHandlers) HandleDefaults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, ruleset.DefaultDocument())
	}
}

// HandleValidate reports every problem in a rules document without saving it
// @Summary Validate a rules document
// @Tags rulesets
// @Accept json
// @Produce json
// @Param request body ValidateRulesetRequest true "Rules"
// @Success 200 {object} ValidateRulesetResponse
// @Router /api/v1/rulesets/validate [post]
func (h *RulesetHandlers) HandleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateRulesetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Validate ruleset"); err != nil {
			return
		}
		c, err := ruleset.ParseAndCompile(req.Rules)
		if err != nil {
			respondJSON(w, http.StatusOK, ValidateRulesetResponse{Valid: false, Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, ValidateRulesetResponse{Valid: true, Activities: c.ActivityNames()})
	}
}

// HandleCreate stores a new, inactive ruleset
// @Summary Create a ruleset
// @Tags rulesets
// @Accept json
// @Produce json
// @Param request body RulesetRequest true "Ruleset"
// @Success 201 {object} domain.Ruleset
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/rulesets [post]
func (h *RulesetHandlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RulesetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create ruleset"); err != nil {
			return
		}
		rs, err := h.rulesets.Create(r.Context(), req.Name, req.Rules)
		if err != nil {
			respondServiceError(w, r, "Create ruleset", err)
			return
		}
		respondJSON(w, http.StatusCreated, rs)
	}
}

// HandleUpdate replaces a ruleset's name and rules
// @Summary Update a ruleset
// @Tags rulesets
// @Accept json
// @Produce json
// @Param id path string true "Ruleset ID"
// @Param request body RulesetRequest true "Ruleset"
// @Success 200 {object} domain.Ruleset
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/rulesets/{id} [put]
func (h *RulesetHandlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRulesetID(w, r)
		if !ok {
			return
		}
		var req RulesetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update ruleset"); err != nil {
			return
		}
		rs, err := h.rulesets.Update(r.Context(), id, req.Name, req.Rules)
		if err != nil {
			respondServiceError(w, r, "Update ruleset", err)
			return
		}
		respondJSON(w, http.StatusOK, rs)
	}
}

// HandleActivate makes a ruleset the only active one
// @Summary Activate a ruleset
// @Tags rulesets
// @Produce json
// @Param id path string true "Ruleset ID"
// @Success 200 {object} domain.Ruleset
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/rulesets/{id}/activate [post]
func (h *RulesetHandlers) HandleActivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRulesetID(w, r)
		if !ok {
			return
		}
		rs, err := h.rulesets.Activate(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "Activate ruleset", err)
			return
		}
		respondJSON(w, http.StatusOK, rs)
	}
}
