package domain

import "time"

// QuestCompletion is a finished quest submitted for scoring
type QuestCompletion struct {
	ProfileID   string     `json:"profile_id"`
	QuestID     string     `json:"quest_id"`
	BaseXP      int64      `json:"base_xp"`
	Difficulty  Difficulty `json:"difficulty"`
	EvidenceURL string     `json:"evidence_url,omitempty"`
	Notes       string     `json:"notes,omitempty"`

	// CurrentTotalXP is the profile's total before this award, used for level-up detection
	CurrentTotalXP *int64 `json:"current_total_xp,omitempty"`
}

// EventLog is a free-form activity logged by a user
type EventLog struct {
	ProfileID   string     `json:"profile_id"`
	EventID     string     `json:"event_id,omitempty"`
	Title       string     `json:"title"`
	Tags        []string   `json:"tags"`
	Difficulty  Difficulty `json:"difficulty"`
	EvidenceURL string     `json:"evidence_url,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`

	CurrentTotalXP *int64 `json:"current_total_xp,omitempty"`
}

// ActivityRecord is a previously logged activity, used for novelty lookback
type ActivityRecord struct {
	EventID    string    `json:"event_id,omitempty"`
	ProfileID  string    `json:"profile_id"`
	Tags       []string  `json:"tags"`
	OccurredAt time.Time `json:"occurred_at"`
}
