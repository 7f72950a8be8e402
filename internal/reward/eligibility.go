// Package reward decides whether a profile may buy a reward with XP.
//
// Prerequisites are CEL expressions over the profile's progress, for example
// `level >= 3` or `"q1" in completed_quests && streak > 5`.
package reward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/logger"
	"github.com/osse101/LevelUp_Go/internal/metrics"
)

// CooldownSource supplies the store-wide default cooldown in days
type CooldownSource interface {
	DefaultCooldownDays(ctx context.Context) (int, error)
}

// CooldownFunc adapts a function to CooldownSource
type CooldownFunc func(ctx context.Context) (int, error)

// DefaultCooldownDays calls f
func (f CooldownFunc) DefaultCooldownDays(ctx context.Context) (int, error) {
	return f(ctx)
}

// Checker evaluates purchase eligibility
type Checker interface {
	// Evaluate explains the decision. The error is reserved for malformed requests.
	Evaluate(ctx context.Context, e domain.Eligibility) (*domain.EligibilityResult, error)

	// Check returns nil when eligible, otherwise ErrInsufficientXP, ErrOnCooldown or ErrPrerequisiteNotMet
	Check(ctx context.Context, e domain.Eligibility) error

	// CompilePrerequisite validates an expression at authoring time
	CompilePrerequisite(expr string) error
}

type checker struct {
	env       *cel.Env
	cooldowns CooldownSource
	now       func() time.Time
	programs  *lru.Cache[string, cel.Program]
}

// NewChecker creates an eligibility checker. cooldowns may be nil, in which case
// rewards without their own cooldown have none.
func NewChecker(cooldowns CooldownSource) (Checker, error) {
	env, err := cel.NewEnv(
		cel.Variable(VarLevel, cel.IntType),
		cel.Variable(VarTotalXP, cel.IntType),
		cel.Variable(VarBalance, cel.IntType),
		cel.Variable(VarStreak, cel.IntType),
		cel.Variable(VarCompletedQuests, cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	programs, err := lru.New[string, cel.Program](MaxCachedPrograms)
	if err != nil {
		return nil, fmt.Errorf("failed to create program cache: %w", err)
	}

	return &checker{
		env:       env,
		cooldowns: cooldowns,
		now:       time.Now,
		programs:  programs,
	}, nil
}

func (c *checker) CompilePrerequisite(expr string) error {
	_, err := c.program(expr)
	return err
}

func (c *checker) Check(ctx context.Context, e domain.Eligibility) error {
	res, err := c.Evaluate(ctx, e)
	if err != nil {
		return err
	}
	if res.Eligible {
		return nil
	}

	switch res.FailedCheck {
	case CheckBalance:
		return fmt.Errorf("%w: %s", domain.ErrInsufficientXP, res.Reason)
	case CheckCooldown:
		return fmt.Errorf("%w: %s", domain.ErrOnCooldown, res.Reason)
	default:
		return fmt.Errorf("%w: %s", domain.ErrPrerequisiteNotMet, res.Reason)
	}
}

func (c *checker) Evaluate(ctx context.Context, e domain.Eligibility) (*domain.EligibilityResult, error) {
	if err := validate(e); err != nil {
		return nil, err
	}

	res := &domain.EligibilityResult{BalanceAfter: e.Balance - e.Reward.CostXP}

	if e.Balance < e.Reward.CostXP {
		res.FailedCheck = CheckBalance
		res.Reason = fmt.Sprintf("%s: costs %d, balance is %d", domain.ErrMsgInsufficientXP, e.Reward.CostXP, e.Balance)
		res.BalanceAfter = e.Balance
		return c.finish(ctx, e, res, OutcomeInsufficient), nil
	}

	days, err := c.cooldownDays(ctx, e)
	if err != nil {
		return nil, err
	}
	if e.LastPurchase != nil && days > 0 {
		until := e.LastPurchase.Add(time.Duration(days) * 24 * time.Hour)
		if c.now().Before(until) {
			res.FailedCheck = CheckCooldown
			res.Reason = fmt.Sprintf("%s until %s", domain.ErrMsgOnCooldown, until.UTC().Format(time.RFC3339))
			res.CooldownUntil = &until
			res.BalanceAfter = e.Balance
			return c.finish(ctx, e, res, OutcomeCooldown), nil
		}
	}

	activation := map[string]any{
		VarLevel:           e.Level,
		VarTotalXP:         e.TotalXP,
		VarBalance:         e.Balance,
		VarStreak:          e.Streak,
		VarCompletedQuests: nonNil(e.CompletedQuests),
	}
	for _, expr := range e.Reward.Prerequisites {
		ok, err := c.eval(expr, activation)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.FailedCheck = expr
			res.Reason = fmt.Sprintf("%s: %s", domain.ErrMsgPrerequisiteNotMet, expr)
			res.BalanceAfter = e.Balance
			return c.finish(ctx, e, res, OutcomePrerequisite), nil
		}
	}

	res.Eligible = true
	return c.finish(ctx, e, res, OutcomeEligible), nil
}

func (c *checker) finish(ctx context.Context, e domain.Eligibility, res *domain.EligibilityResult, outcome string) *domain.EligibilityResult {
	metrics.RewardEligibility.WithLabelValues(outcome).Inc()
	logger.FromContext(ctx).Debug("Reward eligibility evaluated",
		"reward_id", e.Reward.ID,
		"outcome", outcome,
		"balance", e.Balance,
		"cost", e.Reward.CostXP)
	return res
}

func (c *checker) cooldownDays(ctx context.Context, e domain.Eligibility) (int, error) {
	if e.Reward.CooldownDays > 0 || !e.UseDefaultCooldown || c.cooldowns == nil {
		return e.Reward.CooldownDays, nil
	}
	days, err := c.cooldowns.DefaultCooldownDays(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load default cooldown: %w", err)
	}
	return days, nil
}

func (c *checker) eval(expr string, activation map[string]any) (bool, error) {
	prg, err := c.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(activation)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", domain.ErrInvalidPrerequisite, expr, err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: %q did not return a bool", domain.ErrInvalidPrerequisite, expr)
	}
	return bool(b), nil
}

// program compiles expr, caching the most recently used programs
func (c *checker) program(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: expression is empty", domain.ErrInvalidPrerequisite)
	}
	if len(expr) > MaxExpressionLength {
		return nil, fmt.Errorf("%w: expression longer than %d characters", domain.ErrInvalidPrerequisite, MaxExpressionLength)
	}

	if prg, ok := c.programs.Get(expr); ok {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidPrerequisite, expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("%w: %q must return bool, got %s", domain.ErrInvalidPrerequisite, expr, ast.OutputType())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidPrerequisite, expr, err)
	}

	c.programs.Add(expr, prg)
	return prg, nil
}

func validate(e domain.Eligibility) error {
	var problems []string
	if e.Reward.CostXP < 0 {
		problems = append(problems, fmt.Sprintf("cost must not be negative (got %d)", e.Reward.CostXP))
	}
	if e.Reward.CooldownDays < 0 {
		problems = append(problems, fmt.Sprintf("cooldown days must not be negative (got %d)", e.Reward.CooldownDays))
	}
	if e.Balance < 0 {
		problems = append(problems, fmt.Sprintf("balance must not be negative (got %d)", e.Balance))
	}
	if e.Level < 0 || e.TotalXP < 0 || e.Streak < 0 {
		problems = append(problems, "level, total XP and streak must not be negative")
	}
	if len(e.Reward.Prerequisites) > MaxPrerequisites {
		problems = append(problems, fmt.Sprintf("at most %d prerequisites are allowed", MaxPrerequisites))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
