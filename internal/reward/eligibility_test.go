package reward

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

var now = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestChecker(t *testing.T, cooldowns CooldownSource) Checker {
	t.Helper()
	c, err := NewChecker(cooldowns)
	require.NoError(t, err)
	c.(*checker).now = func() time.Time { return now }
	return c
}

func baseEligibility() domain.Eligibility {
	return domain.Eligibility{
		Reward: domain.Reward{
			ID:     uuid.New(),
			Title:  "Coffee",
			CostXP: 100,
		},
		Balance: 150,
		TotalXP: 400,
		Level:   5,
		Streak:  3,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	c := newTestChecker(t, nil)

	tests := []struct {
		name         string
		mutate       func(e *domain.Eligibility)
		eligible     bool
		failedCheck  string
		balanceAfter int64
	}{
		{"affordable", func(e *domain.Eligibility) {}, true, "", 50},
		{"exact balance", func(e *domain.Eligibility) { e.Balance = 100 }, true, "", 0},
		{"free reward", func(e *domain.Eligibility) { e.Reward.CostXP = 0; e.Balance = 0 }, true, "", 0},
		{"insufficient", func(e *domain.Eligibility) { e.Balance = 99 }, false, CheckBalance, 99},
		{
			"on cooldown",
			func(e *domain.Eligibility) {
				e.Reward.CooldownDays = 7
				e.LastPurchase = timePtr(now.Add(-6 * 24 * time.Hour))
			},
			false, CheckCooldown, 150,
		},
		{
			"cooldown elapsed",
			func(e *domain.Eligibility) {
				e.Reward.CooldownDays = 7
				e.LastPurchase = timePtr(now.Add(-7 * 24 * time.Hour))
			},
			true, "", 50,
		},
		{
			"prerequisites met",
			func(e *domain.Eligibility) {
				e.Reward.Prerequisites = []string{"level >= 5", `"q1" in completed_quests`, "streak > 2 && total_xp >= 400"}
				e.CompletedQuests = []string{"q0", "q1"}
			},
			true, "", 50,
		},
		{
			"prerequisite not met",
			func(e *domain.Eligibility) {
				e.Reward.Prerequisites = []string{"level >= 3", `"q9" in completed_quests`}
			},
			false, `"q9" in completed_quests`, 150,
		},
		{
			"balance variable",
			func(e *domain.Eligibility) { e.Reward.Prerequisites = []string{"balance - 100 >= 100"} },
			false, "balance - 100 >= 100", 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := baseEligibility()
			tt.mutate(&e)

			res, err := c.Evaluate(context.Background(), e)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, res.Eligible)
			assert.Equal(t, tt.failedCheck, res.FailedCheck)
			assert.Equal(t, tt.balanceAfter, res.BalanceAfter)
			if !tt.eligible {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestEvaluate_CooldownUntil(t *testing.T) {
	c := newTestChecker(t, nil)
	e := baseEligibility()
	e.Reward.CooldownDays = 3
	last := now.Add(-24 * time.Hour)
	e.LastPurchase = &last

	res, err := c.Evaluate(context.Background(), e)
	require.NoError(t, err)
	require.NotNil(t, res.CooldownUntil)
	assert.Equal(t, last.Add(72*time.Hour), *res.CooldownUntil)
}

func TestCheck_Sentinels(t *testing.T) {
	c := newTestChecker(t, nil)
	ctx := context.Background()

	e := baseEligibility()
	assert.NoError(t, c.Check(ctx, e))

	e.Balance = 10
	assert.ErrorIs(t, c.Check(ctx, e), domain.ErrInsufficientXP)

	e = baseEligibility()
	e.Reward.CooldownDays = 1
	e.LastPurchase = timePtr(now.Add(-time.Hour))
	assert.ErrorIs(t, c.Check(ctx, e), domain.ErrOnCooldown)

	e = baseEligibility()
	e.Reward.Prerequisites = []string{"level >= 10"}
	assert.ErrorIs(t, c.Check(ctx, e), domain.ErrPrerequisiteNotMet)
}

func TestDefaultCooldown(t *testing.T) {
	calls := 0
	source := CooldownFunc(func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	c := newTestChecker(t, source)
	ctx := context.Background()

	e := baseEligibility()
	e.LastPurchase = timePtr(now.Add(-2 * 24 * time.Hour))

	// the store default only applies when requested
	res, err := c.Evaluate(ctx, e)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, 0, calls)

	e.UseDefaultCooldown = true
	res, err = c.Evaluate(ctx, e)
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, CheckCooldown, res.FailedCheck)
	assert.Equal(t, 1, calls)

	// a reward's own cooldown wins
	e.Reward.CooldownDays = 1
	res, err = c.Evaluate(ctx, e)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, 1, calls)
}

func TestDefaultCooldown_SourceError(t *testing.T) {
	c := newTestChecker(t, CooldownFunc(func(context.Context) (int, error) {
		return 0, errors.New("db down")
	}))
	e := baseEligibility()
	e.UseDefaultCooldown = true
	e.LastPurchase = timePtr(now)

	_, err := c.Evaluate(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestEvaluate_InvalidInput(t *testing.T) {
	c := newTestChecker(t, nil)

	tests := []struct {
		name   string
		mutate func(e *domain.Eligibility)
	}{
		{"negative cost", func(e *domain.Eligibility) { e.Reward.CostXP = -1 }},
		{"negative cooldown", func(e *domain.Eligibility) { e.Reward.CooldownDays = -1 }},
		{"negative balance", func(e *domain.Eligibility) { e.Balance = -5 }},
		{"negative streak", func(e *domain.Eligibility) { e.Streak = -1 }},
		{"too many prerequisites", func(e *domain.Eligibility) { e.Reward.Prerequisites = make([]string, MaxPrerequisites+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := baseEligibility()
			tt.mutate(&e)
			_, err := c.Evaluate(context.Background(), e)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCompilePrerequisite(t *testing.T) {
	c := newTestChecker(t, nil)

	valid := []string{
		"level >= 3",
		`size(completed_quests) > 2`,
		`"ship" in completed_quests || streak >= 7`,
	}
	for _, expr := range valid {
		assert.NoError(t, c.CompilePrerequisite(expr), expr)
	}

	invalid := []string{
		"",
		"level >=",
		"level + 1",
		"unknown_var > 1",
	}
	for _, expr := range invalid {
		assert.ErrorIs(t, c.CompilePrerequisite(expr), domain.ErrInvalidPrerequisite, expr)
	}
}

func TestEvaluate_InvalidPrerequisiteIsAnError(t *testing.T) {
	c := newTestChecker(t, nil)
	e := baseEligibility()
	e.Reward.Prerequisites = []string{"level >"}

	_, err := c.Evaluate(context.Background(), e)
	assert.ErrorIs(t, err, domain.ErrInvalidPrerequisite)
}

func TestCompilePrerequisite_CacheIsBounded(t *testing.T) {
	c := newTestChecker(t, nil).(*checker)

	for i := 0; i < MaxCachedPrograms*2; i++ {
		require.NoError(t, c.CompilePrerequisite(fmt.Sprintf("level >= %d", i)))
	}

	assert.Equal(t, MaxCachedPrograms, c.programs.Len())
	assert.True(t, c.programs.Contains(fmt.Sprintf("level >= %d", MaxCachedPrograms*2-1)))
	assert.False(t, c.programs.Contains("level >= 0"), "oldest expression is evicted")
}

func TestEvaluate_EvictedProgramRecompiles(t *testing.T) {
	c := newTestChecker(t, nil).(*checker)
	e := baseEligibility()
	e.Reward.Prerequisites = []string{"level >= 3"}

	res, err := c.Evaluate(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, res.Eligible)

	c.programs.Purge()

	res, err = c.Evaluate(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
}
