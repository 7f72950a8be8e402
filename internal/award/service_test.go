package award

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LevelUp_Go/internal/catalog"
	"github.com/osse101/LevelUp_Go/internal/database/memory"
	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/novelty"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

var fixedNow = time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) IsNovel(ctx context.Context, profileID string, tags []string, excludeEventID string, now time.Time, window time.Duration) (bool, error) {
	args := m.Called(ctx, profileID, tags, excludeEventID, now, window)
	return args.Bool(0), args.Error(1)
}

type fixture struct {
	svc      Service
	rulesets ruleset.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	activity := memory.NewActivityRepository()
	rulesets := ruleset.NewService(memory.NewRulesetRepository(), ruleset.DefaultOptions())
	svc := NewService(rulesets, novelty.NewChecker(activity), activity)
	svc.(*service).now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, rulesets: rulesets}
}

func int64Ptr(v int64) *int64 { return &v }

func TestScoreQuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		quest    domain.QuestCompletion
		total    int64
		evidence bool
	}{
		{
			name:  "class aligned only",
			quest: domain.QuestCompletion{ProfileID: "p1", QuestID: "q1", BaseXP: 20, Difficulty: domain.DifficultyMedium},
			total: 29,
		},
		{
			name:     "evidence adds social proof",
			quest:    domain.QuestCompletion{ProfileID: "p1", QuestID: "q2", BaseXP: 20, Difficulty: domain.DifficultyMedium, EvidenceURL: "https://example.com/pr/1"},
			total:    32,
			evidence: true,
		},
		{
			name:  "blank evidence ignored",
			quest: domain.QuestCompletion{ProfileID: "p1", QuestID: "q3", BaseXP: 20, Difficulty: domain.DifficultyMedium, EvidenceURL: "   "},
			total: 29,
		},
		{
			name:  "zero base",
			quest: domain.QuestCompletion{ProfileID: "p1", QuestID: "q4", BaseXP: 0, Difficulty: domain.DifficultyHard},
			total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := f.svc.ScoreQuest(ctx, tt.quest)
			require.NoError(t, err)

			tx := score.Transaction
			assert.Equal(t, tt.total, tx.TotalXP)
			assert.Equal(t, domain.SourceQuest, tx.Source)
			assert.Equal(t, tt.quest.QuestID, tx.SourceID)
			assert.Equal(t, "p1", tx.ProfileID)
			assert.NotNil(t, tx.Breakdown.ClassAlignment)
			assert.Nil(t, tx.Breakdown.Novelty, "quests never earn the novelty bonus")
			assert.Equal(t, tt.evidence, tx.Breakdown.SocialProof != nil)
			assert.Nil(t, tx.RulesetID, "built-in defaults have no id")
			assert.Equal(t, ruleset.DefaultRulesetName, score.RulesetName)
			assert.Equal(t, fixedNow, tx.ScoredAt)
			assert.Nil(t, score.Progress)
		})
	}
}

func TestScoreQuest_LevelUp(t *testing.T) {
	f := newFixture(t)

	score, err := f.svc.ScoreQuest(context.Background(), domain.QuestCompletion{
		ProfileID:      "p1",
		QuestID:        "q1",
		BaseXP:         20,
		Difficulty:     domain.DifficultyMedium,
		CurrentTotalXP: int64Ptr(90),
	})
	require.NoError(t, err)

	require.NotNil(t, score.Progress)
	assert.Equal(t, int64(119), score.Progress.TotalXP)
	assert.Equal(t, int64(2), score.Progress.Level)
	assert.Equal(t, int64(1), score.LevelsGained)
}

func TestScoreQuest_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ScoreQuest(ctx, domain.QuestCompletion{ProfileID: "p1", BaseXP: 10, Difficulty: "legendary"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ScoreQuest(ctx, domain.QuestCompletion{ProfileID: "p1", BaseXP: -1, Difficulty: domain.DifficultyEasy})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ScoreQuest(ctx, domain.QuestCompletion{BaseXP: 10, Difficulty: domain.DifficultyEasy})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScoreEvent_Novelty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := domain.EventLog{
		ProfileID:  "p1",
		EventID:    "e1",
		Tags:       []string{"infra", "deploy"},
		Difficulty: domain.DifficultyMedium,
		OccurredAt: fixedNow,
	}

	// an event already written to history is not compared with itself
	require.NoError(t, f.svc.RecordEvent(ctx, first))
	score, err := f.svc.ScoreEvent(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, catalog.ActivityDeployMVP, score.Activity)
	assert.Equal(t, int64(50), score.Transaction.BaseXP)
	assert.NotNil(t, score.Transaction.Breakdown.Novelty)
	assert.Equal(t, int64(80), score.Transaction.TotalXP)

	repeat := first
	repeat.EventID = "e2"
	repeat.Tags = []string{"deploy", "infra"}
	repeat.OccurredAt = fixedNow.Add(24 * time.Hour)
	score, err = f.svc.ScoreEvent(ctx, repeat)
	require.NoError(t, err)
	assert.Nil(t, score.Transaction.Breakdown.Novelty)
	assert.Equal(t, int64(72), score.Transaction.TotalXP)

	// outside the 30 day window the combination is new again
	later := repeat
	later.EventID = "e3"
	later.OccurredAt = fixedNow.Add(31 * 24 * time.Hour)
	score, err = f.svc.ScoreEvent(ctx, later)
	require.NoError(t, err)
	assert.NotNil(t, score.Transaction.Breakdown.Novelty)

	// another profile's history does not count
	other := repeat
	other.ProfileID = "p2"
	score, err = f.svc.ScoreEvent(ctx, other)
	require.NoError(t, err)
	assert.NotNil(t, score.Transaction.Breakdown.Novelty)
}

func TestScoreEvent_UnmappedTagsUseDefaultBase(t *testing.T) {
	f := newFixture(t)

	score, err := f.svc.ScoreEvent(context.Background(), domain.EventLog{
		ProfileID:  "p1",
		EventID:    "e1",
		Tags:       []string{"gym"},
		Difficulty: domain.DifficultyEasy,
		OccurredAt: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, "", score.Activity)
	assert.Equal(t, int64(catalog.DefaultEventBaseXP), score.Transaction.BaseXP)
	// 15 * 1.2 * 1.1 = 19.8
	assert.Equal(t, int64(20), score.Transaction.TotalXP)
}

func TestScoreEvent_NoveltyCheckFails(t *testing.T) {
	activity := memory.NewActivityRepository()
	checker := new(MockChecker)
	checker.On("IsNovel", mock.Anything, "p1", mock.Anything, "e1", fixedNow, 30*24*time.Hour).
		Return(false, errors.New("history unavailable"))

	svc := NewService(ruleset.NewService(memory.NewRulesetRepository(), ruleset.DefaultOptions()), checker, activity)

	_, err := svc.ScoreEvent(context.Background(), domain.EventLog{
		ProfileID: "p1", EventID: "e1", Tags: []string{"bug"}, Difficulty: domain.DifficultyEasy, OccurredAt: fixedNow,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history unavailable")
	checker.AssertExpectations(t)
}

func TestSimulate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("all bonuses on close_pilot", func(t *testing.T) {
		score, err := f.svc.Simulate(ctx, SimulationRequest{
			Activity:       catalog.ActivityClosePilot,
			Difficulty:     domain.DifficultyHard,
			ClassAligned:   true,
			FirstTimeCombo: true,
			SocialProof:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(120), score.Transaction.BaseXP)
		assert.Equal(t, int64(262), score.Transaction.TotalXP)
		assert.InDelta(t, 2.178, score.Transaction.Multiplier, 1e-9)
		assert.Equal(t, domain.SourceSimulation, score.Transaction.Source)
	})

	t.Run("explicit base wins over activity", func(t *testing.T) {
		score, err := f.svc.Simulate(ctx, SimulationRequest{
			Base:       int64Ptr(7),
			Activity:   catalog.ActivityClosePilot,
			Difficulty: domain.DifficultyMedium,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), score.Transaction.TotalXP)
	})

	t.Run("missing base and activity", func(t *testing.T) {
		_, err := f.svc.Simulate(ctx, SimulationRequest{Difficulty: domain.DifficultyEasy})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown activity", func(t *testing.T) {
		_, err := f.svc.Simulate(ctx, SimulationRequest{Activity: "juggle", Difficulty: domain.DifficultyEasy})
		assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	})

	t.Run("unknown ruleset", func(t *testing.T) {
		id := uuid.New()
		_, err := f.svc.Simulate(ctx, SimulationRequest{Base: int64Ptr(10), Difficulty: domain.DifficultyEasy, RulesetID: &id})
		assert.ErrorIs(t, err, domain.ErrRulesetNotFound)
	})
}

func TestSimulate_DraftRuleset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := ruleset.DefaultDocument()
	hard := 2.0
	doc.Multipliers.Difficulty[string(domain.DifficultyHard)] = hard
	social := 1.5
	doc.Multipliers.SocialProof = &social
	raw, err := doc.Marshal()
	require.NoError(t, err)

	draft, err := f.rulesets.Create(ctx, "draft", raw)
	require.NoError(t, err)

	req := SimulationRequest{Base: int64Ptr(10), Difficulty: domain.DifficultyHard, SocialProof: true}

	live, err := f.svc.Simulate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(17), live.Transaction.TotalXP)

	req.RulesetID = &draft.ID
	preview, err := f.svc.Simulate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(30), preview.Transaction.TotalXP)
	assert.Equal(t, draft.ID, *preview.Transaction.RulesetID)
	assert.Equal(t, "draft", preview.RulesetName)
}

func TestProgress(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Progress(context.Background(), 250)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Level)
	assert.Equal(t, int64(50), p.XPToNext)

	_, err = f.svc.Progress(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordEvent_RequiresProfile(t *testing.T) {
	f := newFixture(t)
	err := f.svc.RecordEvent(context.Background(), domain.EventLog{Tags: []string{"bug"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
