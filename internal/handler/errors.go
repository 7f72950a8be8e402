package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/logger"
)

// Generic HTTP error messages for client responses.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
	ErrMsgInvalidRulesetID      = "Invalid ruleset ID"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgInvalidInputError     = "Invalid activity. Please check your inputs."
	ErrMsgInvalidRulesetError   = "The ruleset is invalid."
	ErrMsgActivityNotFoundError = "Unknown activity"
	ErrMsgRulesetNotFoundError  = "Ruleset not found"
	ErrMsgNoActiveRulesetError  = "No ruleset is active"
	ErrMsgRulesetNameTakenError = "A ruleset with that name already exists"
	ErrMsgInsufficientXPError   = "Not enough XP"
	ErrMsgOnCooldownError       = "Reward is on cooldown. Try again later"
	ErrMsgPrerequisiteError     = "Reward prerequisites are not met"
	ErrMsgInvalidPrerequisite   = "Prerequisite expression is invalid"
)

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a user
// message. Validation failures also return the error text as detail so admins
// can see which keys were rejected; other errors never leak internals.
func mapServiceErrorToUserMessage(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgGenericServerError, ""
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRuleset):
		return http.StatusUnprocessableEntity, ErrMsgInvalidRulesetError, err.Error()
	case errors.Is(err, domain.ErrInvalidPrerequisite):
		return http.StatusUnprocessableEntity, ErrMsgInvalidPrerequisite, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError, err.Error()
	case errors.Is(err, domain.ErrActivityNotFound):
		return http.StatusBadRequest, ErrMsgActivityNotFoundError, err.Error()
	case errors.Is(err, domain.ErrRulesetNotFound):
		return http.StatusNotFound, ErrMsgRulesetNotFoundError, ""
	case errors.Is(err, domain.ErrNoActiveRuleset):
		return http.StatusNotFound, ErrMsgNoActiveRulesetError, ""
	case errors.Is(err, domain.ErrRulesetNameTaken):
		return http.StatusConflict, ErrMsgRulesetNameTakenError, ""
	case errors.Is(err, domain.ErrInsufficientXP):
		return http.StatusConflict, ErrMsgInsufficientXPError, err.Error()
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusConflict, ErrMsgOnCooldownError, err.Error()
	case errors.Is(err, domain.ErrPrerequisiteNotMet):
		return http.StatusConflict, ErrMsgPrerequisiteError, err.Error()
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError, ""
}

// respondServiceError logs a failed service call and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg, detail := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}

	respondJSON(w, status, ErrorResponse{Error: msg, Detail: strings.TrimSpace(detail)})
}
