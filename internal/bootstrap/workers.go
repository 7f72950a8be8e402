package bootstrap

import (
	"context"
	"time"

	"github.com/osse101/LevelUp_Go/internal/config"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
	"github.com/osse101/LevelUp_Go/internal/worker"
)

// InitializeActivityPruner builds the history pruning job. It is not started.
func InitializeActivityPruner(cfg *config.Config, repos *Repositories, rulesets ruleset.Service) *worker.ActivityPruneWorker {
	return worker.NewActivityPruneWorker(repos.Activity, cfg.ActivityPruneInterval, cfg.ActivityRetention, ActiveNoveltyWindow(rulesets))
}

// ActiveNoveltyWindow reads the novelty lookback from the active ruleset
func ActiveNoveltyWindow(rulesets ruleset.Service) worker.WindowFunc {
	return func(ctx context.Context) (time.Duration, error) {
		compiled, err := rulesets.GetActive(ctx)
		if err != nil {
			return 0, err
		}
		return compiled.Rules.NoveltyWindow, nil
	}
}
