package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ruleset is a named, versioned rules document managed by admins.
// At most one ruleset is active at a time.
type Ruleset struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Active    bool            `json:"active"`
	Rules     json.RawMessage `json:"rules_json"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
