// Package award scores quests, events and admin simulations against the active
// ruleset. It returns transaction drafts and never persists XP itself.
package award

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/LevelUp_Go/internal/domain"
	"github.com/osse101/LevelUp_Go/internal/level"
	"github.com/osse101/LevelUp_Go/internal/logger"
	"github.com/osse101/LevelUp_Go/internal/metrics"
	"github.com/osse101/LevelUp_Go/internal/novelty"
	"github.com/osse101/LevelUp_Go/internal/repository"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
	"github.com/osse101/LevelUp_Go/internal/xp"
)

// SimulationRequest is an admin preview with explicit flags. When Activity is
// set and Base is nil, the base XP comes from the ruleset catalog.
type SimulationRequest struct {
	Base           *int64            `json:"base,omitempty"`
	Activity       string            `json:"activity,omitempty"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	ClassAligned   bool              `json:"class_aligned"`
	FirstTimeCombo bool              `json:"first_time_combo"`
	SocialProof    bool              `json:"social_proof"`
	RulesetID      *uuid.UUID        `json:"ruleset_id,omitempty"`
}

// Score is a scored award plus the context a client needs to display it
type Score struct {
	Transaction  domain.XPTransaction  `json:"transaction"`
	Activity     string                `json:"activity,omitempty"`
	RulesetName  string                `json:"ruleset_name"`
	Progress     *domain.LevelProgress `json:"progress,omitempty"`
	LevelsGained int64                 `json:"levels_gained,omitempty"`
}

// Service scores activities
type Service interface {
	ScoreQuest(ctx context.Context, q domain.QuestCompletion) (*Score, error)
	ScoreEvent(ctx context.Context, e domain.EventLog) (*Score, error)
	// RecordEvent stores an event's tags so later events can be checked for novelty
	RecordEvent(ctx context.Context, e domain.EventLog) error
	Simulate(ctx context.Context, req SimulationRequest) (*Score, error)
	Progress(ctx context.Context, totalXP int64) (*domain.LevelProgress, error)
}

type service struct {
	rulesets ruleset.Service
	novelty  novelty.Checker
	activity repository.ActivityRepository
	now      func() time.Time
}

// NewService creates an award service
func NewService(rulesets ruleset.Service, checker novelty.Checker, activity repository.ActivityRepository) Service {
	return &service{
		rulesets: rulesets,
		novelty:  checker,
		activity: activity,
		now:      time.Now,
	}
}

func (s *service) ScoreQuest(ctx context.Context, q domain.QuestCompletion) (*Score, error) {
	if strings.TrimSpace(q.ProfileID) == "" {
		return nil, s.reject(ctx, domain.SourceQuest, fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput))
	}

	rules, err := s.rulesets.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	input := domain.XPCalculationInput{
		Base:         q.BaseXP,
		Difficulty:   q.Difficulty,
		ClassAligned: true,
		SocialProof:  hasEvidence(q.EvidenceURL),
	}

	score, err := s.score(ctx, domain.SourceQuest, input, rules)
	if err != nil {
		return nil, err
	}
	score.Transaction.ProfileID = q.ProfileID
	score.Transaction.SourceID = q.QuestID
	score.Transaction.Notes = q.Notes

	if err := s.attachProgress(ctx, score, q.CurrentTotalXP, rules); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *service) ScoreEvent(ctx context.Context, e domain.EventLog) (*Score, error) {
	if strings.TrimSpace(e.ProfileID) == "" {
		return nil, s.reject(ctx, domain.SourceEvent, fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput))
	}

	rules, err := s.rulesets.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	base, activity := rules.Catalog.ResolveTags(e.Tags)

	now := e.OccurredAt
	if now.IsZero() {
		now = s.now()
	}
	novel, err := s.novelty.IsNovel(ctx, e.ProfileID, e.Tags, e.EventID, now, rules.Rules.NoveltyWindow)
	if err != nil {
		return nil, err
	}

	input := domain.XPCalculationInput{
		Base:           base,
		Difficulty:     e.Difficulty,
		ClassAligned:   true,
		FirstTimeCombo: novel,
		SocialProof:    hasEvidence(e.EvidenceURL),
	}

	score, err := s.score(ctx, domain.SourceEvent, input, rules)
	if err != nil {
		return nil, err
	}
	score.Activity = activity
	score.Transaction.ProfileID = e.ProfileID
	score.Transaction.SourceID = e.EventID
	score.Transaction.Notes = e.Notes

	if err := s.attachProgress(ctx, score, e.CurrentTotalXP, rules); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *service) RecordEvent(ctx context.Context, e domain.EventLog) error {
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	rec := domain.ActivityRecord{
		EventID:    e.EventID,
		ProfileID:  e.ProfileID,
		Tags:       e.Tags,
		OccurredAt: occurredAt,
	}
	if err := s.activity.RecordActivity(ctx, rec); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug(LogMsgActivityLogged,
		"profile_id", e.ProfileID,
		"event_id", e.EventID,
		"tag_set", novelty.TagSetKey(e.Tags))
	return nil
}

func (s *service) Simulate(ctx context.Context, req SimulationRequest) (*Score, error) {
	var (
		rules *ruleset.Compiled
		err   error
	)
	if req.RulesetID != nil {
		rules, err = s.rulesets.Load(ctx, *req.RulesetID)
	} else {
		rules, err = s.rulesets.GetActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	var base int64
	switch {
	case req.Base != nil:
		base = *req.Base
	case req.Activity != "":
		base, err = rules.Catalog.Lookup(req.Activity)
		if err != nil {
			return nil, s.reject(ctx, domain.SourceSimulation, err)
		}
	default:
		return nil, s.reject(ctx, domain.SourceSimulation,
			fmt.Errorf("%w: either base or activity is required", domain.ErrInvalidInput))
	}

	score, err := s.score(ctx, domain.SourceSimulation, domain.XPCalculationInput{
		Base:           base,
		Difficulty:     req.Difficulty,
		ClassAligned:   req.ClassAligned,
		FirstTimeCombo: req.FirstTimeCombo,
		SocialProof:    req.SocialProof,
	}, rules)
	if err != nil {
		return nil, err
	}
	score.Activity = req.Activity
	return score, nil
}

func (s *service) Progress(ctx context.Context, totalXP int64) (*domain.LevelProgress, error) {
	rules, err := s.rulesets.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return level.Calculate(totalXP, rules.Curve)
}

func (s *service) score(ctx context.Context, source string, input domain.XPCalculationInput, rules *ruleset.Compiled) (*Score, error) {
	result, err := xp.Calculate(input, rules.Rules)
	if err != nil {
		return nil, s.reject(ctx, source, err)
	}
	metrics.RecordCalculation(source, input.Difficulty, result)

	logger.FromContext(ctx).Info(LogMsgScored,
		"source", source,
		"base", input.Base,
		"difficulty", input.Difficulty,
		"multiplier", result.Multiplier,
		"total", result.Total,
		"ruleset", rules.Name)

	return &Score{
		Transaction: domain.XPTransaction{
			Source:     source,
			BaseXP:     input.Base,
			Multiplier: result.Multiplier,
			TotalXP:    result.Total,
			Breakdown:  result.Breakdown,
			RulesetID:  rules.RulesetID,
			ScoredAt:   s.now().UTC(),
		},
		RulesetName: rules.Name,
	}, nil
}

// attachProgress fills in the post-award level when the caller supplied its current total
func (s *service) attachProgress(ctx context.Context, score *Score, current *int64, rules *ruleset.Compiled) error {
	if current == nil {
		return nil
	}
	after := *current + score.Transaction.TotalXP
	progress, err := level.Calculate(after, rules.Curve)
	if err != nil {
		return err
	}
	gained, err := level.LevelsGained(*current, after, rules.Curve)
	if err != nil {
		return err
	}
	score.Progress = progress
	score.LevelsGained = gained

	if gained > 0 {
		logger.FromContext(ctx).Info(LogMsgLevelUp,
			"profile_id", score.Transaction.ProfileID,
			"level", progress.Level,
			"levels_gained", gained)
	}
	return nil
}

func (s *service) reject(ctx context.Context, source string, err error) error {
	metrics.RecordRejection(source, err)
	logger.FromContext(ctx).Warn(LogMsgScoreRejected, "source", source, "error", err)
	return err
}

func hasEvidence(url string) bool {
	return strings.TrimSpace(url) != ""
}
