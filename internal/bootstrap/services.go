package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/config"
	"github.com/osse101/LevelUp_Go/internal/novelty"
	"github.com/osse101/LevelUp_Go/internal/reward"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

// Services holds the application services handed to the HTTP layer
type Services struct {
	Rulesets ruleset.Service
	Award    award.Service
	Rewards  reward.Checker
}

// InitializeServices builds the services over repos
func InitializeServices(cfg *config.Config, repos *Repositories) (*Services, error) {
	rulesets := ruleset.NewService(repos.Rulesets, ruleset.Options{
		CacheSize:          cfg.RulesetCacheSize,
		CacheTTL:           cfg.RulesetCacheTTL,
		FallbackToDefaults: cfg.FallbackToDefaults,
	})

	awardSvc := award.NewService(rulesets, novelty.NewChecker(repos.Activity), repos.Activity)

	checker, err := reward.NewChecker(ActiveRulesetCooldowns(rulesets))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateChecker, err)
	}

	slog.Default().Info(LogMsgServicesInitialized)
	return &Services{
		Rulesets: rulesets,
		Award:    awardSvc,
		Rewards:  checker,
	}, nil
}

// ActiveRulesetCooldowns reads the store-wide reward cooldown from the active ruleset
func ActiveRulesetCooldowns(rulesets ruleset.Service) reward.CooldownFunc {
	return func(ctx context.Context) (int, error) {
		compiled, err := rulesets.GetActive(ctx)
		if err != nil {
			return 0, err
		}
		return compiled.DefaultCooldownDays, nil
	}
}
