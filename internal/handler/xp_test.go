package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/domain"
)

func TestHandleSimulate(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantTotal  int64
	}{
		{
			name:       "all modifiers",
			body:       map[string]any{"base": 100, "difficulty": "hard", "class_aligned": true, "first_time_combo": true, "social_proof": true},
			wantStatus: http.StatusOK,
			wantTotal:  218,
		},
		{
			name:       "difficulty is case insensitive",
			body:       map[string]any{"base": 10, "difficulty": "MEDIUM"},
			wantStatus: http.StatusOK,
			wantTotal:  12,
		},
		{
			name:       "catalog activity",
			body:       map[string]any{"activity": "fix_bug", "difficulty": "easy"},
			wantStatus: http.StatusOK,
			wantTotal:  30,
		},
		{
			name:       "zero base",
			body:       map[string]any{"base": 0, "difficulty": "hard", "class_aligned": true},
			wantStatus: http.StatusOK,
			wantTotal:  0,
		},
		{
			name:       "negative base",
			body:       map[string]any{"base": -1, "difficulty": "easy"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown difficulty",
			body:       map[string]any{"base": 10, "difficulty": "legendary"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown activity",
			body:       map[string]any{"activity": "juggle", "difficulty": "easy"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "neither base nor activity",
			body:       map[string]any{"difficulty": "easy"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed ruleset id",
			body:       map[string]any{"base": 10, "difficulty": "easy", "ruleset_id": "nope"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing ruleset",
			body:       map[string]any{"base": 10, "difficulty": "easy", "ruleset_id": "6f1c3a8e-0000-4000-8000-000000000000"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed body",
			body:       `{"base": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/xp/simulate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			score := decode[award.Score](t, w)
			assert.Equal(t, tt.wantTotal, score.Transaction.TotalXP)
			assert.Equal(t, domain.SourceSimulation, score.Transaction.Source)
		})
	}
}

func TestHandleSimulate_BreakdownOmitsAbsentModifiers(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/xp/simulate", map[string]any{"base": 10, "difficulty": "easy", "social_proof": true})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"social_proof":1.1`)
	assert.NotContains(t, body, `"class_alignment"`)
	assert.NotContains(t, body, `"novelty"`)
}

func TestHandleSimulate_ValidationFields(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/xp/simulate", map[string]any{"base": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[ValidationErrorResponse](t, w)
	assert.Equal(t, ErrMsgInvalidRequestSummary, resp.Error)
	assert.Equal(t, "This field is required", resp.Fields["difficulty"])
}

func TestHandleScoreQuest(t *testing.T) {
	api := newTestAPI(t)

	t.Run("class aligned with evidence and level up", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/xp/quest", map[string]any{
			"profile_id":       "p1",
			"quest_id":         "q1",
			"base_xp":          20,
			"difficulty":       "medium",
			"evidence_url":     "https://example.com/pr/1",
			"current_total_xp": 90,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		score := decode[award.Score](t, w)
		assert.Equal(t, int64(32), score.Transaction.TotalXP)
		assert.Equal(t, "q1", score.Transaction.SourceID)
		require.NotNil(t, score.Progress)
		assert.Equal(t, int64(2), score.Progress.Level)
		assert.Equal(t, int64(1), score.LevelsGained)
	})

	t.Run("missing profile", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/xp/quest", map[string]any{"quest_id": "q1", "base_xp": 20, "difficulty": "easy"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative base is an input error", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/xp/quest", map[string]any{"profile_id": "p1", "quest_id": "q1", "base_xp": -5, "difficulty": "easy"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, ErrMsgInvalidInputError, resp.Error)
		assert.Contains(t, resp.Detail, domain.ErrMsgNegativeBaseXP)
	})
}

func TestHandleScoreEvent_NoveltyFollowsRecordedHistory(t *testing.T) {
	api := newTestAPI(t)

	event := map[string]any{
		"profile_id": "p1",
		"title":      "Fixed login race",
		"tags":       []string{"bug"},
		"difficulty": "medium",
		"record":     true,
	}

	w := api.do(t, http.MethodPost, "/xp/event", event)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[award.Score](t, w)
	assert.Equal(t, "fix_bug", first.Activity)
	require.NotNil(t, first.Transaction.Breakdown.Novelty)
	assert.Equal(t, int64(48), first.Transaction.TotalXP)

	w = api.do(t, http.MethodPost, "/xp/event", event)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[award.Score](t, w)
	assert.Nil(t, second.Transaction.Breakdown.Novelty)
	assert.Equal(t, int64(44), second.Transaction.TotalXP)
}

func TestHandleScoreEvent_WithoutRecordStaysNovel(t *testing.T) {
	api := newTestAPI(t)

	event := map[string]any{"profile_id": "p1", "tags": []string{"post"}, "difficulty": "easy"}
	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodPost, "/xp/event", event)
		require.Equal(t, http.StatusOK, w.Code)
		score := decode[award.Score](t, w)
		assert.NotNil(t, score.Transaction.Breakdown.Novelty)
	}
}

func TestHandleGetLevel(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLevel  int64
	}{
		{"zero", "?total_xp=0", http.StatusOK, 1},
		{"just below level 2", "?total_xp=99", http.StatusOK, 1},
		{"exactly level 2", "?total_xp=100", http.StatusOK, 2},
		{"level 5", "?total_xp=250", http.StatusOK, 5},
		{"negative", "?total_xp=-1", http.StatusBadRequest, 0},
		{"not a number", "?total_xp=lots", http.StatusBadRequest, 0},
		{"missing", "", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodGet, "/level"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				p := decode[domain.LevelProgress](t, w)
				assert.Equal(t, tt.wantLevel, p.Level)
			}
		})
	}
}
