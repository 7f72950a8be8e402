// Package worker runs the service's background jobs.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/LevelUp_Go/internal/logger"
	"github.com/osse101/LevelUp_Go/internal/metrics"
)

// ActivityPruner deletes activity history recorded before a cutoff
type ActivityPruner interface {
	PruneActivity(ctx context.Context, before time.Time) (int64, error)
}

// WindowFunc reports the novelty lookback currently in force
type WindowFunc func(ctx context.Context) (time.Duration, error)

// ActivityPruneWorker periodically deletes activity history that no novelty
// lookback can reach anymore.
type ActivityPruneWorker struct {
	repo      ActivityPruner
	interval  time.Duration
	retention time.Duration
	window    WindowFunc
	now       func() time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewActivityPruneWorker creates a worker that runs every interval. History
// younger than both retention and the window reported by window is kept.
// window may be nil.
func NewActivityPruneWorker(repo ActivityPruner, interval, retention time.Duration, window WindowFunc) *ActivityPruneWorker {
	return &ActivityPruneWorker{
		repo:      repo,
		interval:  interval,
		retention: retention,
		window:    window,
		now:       time.Now,
		shutdown:  make(chan struct{}),
	}
}

// Start launches the pruning loop. A non-positive interval disables it.
func (w *ActivityPruneWorker) Start() {
	log := logger.FromContext(context.Background())
	if w.interval <= 0 {
		log.Info(LogMsgActivityPruneDisabled)
		return
	}

	log.Info(LogMsgActivityPruneScheduled, "interval", w.interval.String(), "retention", w.retention.String())

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.execute()
			case <-w.shutdown:
				return
			}
		}
	}()
}

func (w *ActivityPruneWorker) execute() {
	ctx := context.Background()
	if _, err := w.PruneOnce(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgActivityPruneFailed, "error", err)
	}
}

// PruneOnce deletes history older than the effective retention and returns
// the number of records removed.
func (w *ActivityPruneWorker) PruneOnce(ctx context.Context) (int64, error) {
	retention := w.retention
	if w.window != nil {
		window, err := w.window(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", ErrMsgFailedResolveRetention, err)
		}
		if window > retention {
			retention = window
		}
	}

	cutoff := w.now().Add(-retention)
	removed, err := w.repo.PruneActivity(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedPruneActivity, err)
	}

	metrics.ActivityPruned.Add(float64(removed))
	logger.FromContext(ctx).Info(LogMsgActivityPruneCompleted,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
		"removed", removed)
	return removed, nil
}

// Shutdown stops the loop and waits for a running prune to finish or ctx to expire
func (w *ActivityPruneWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
