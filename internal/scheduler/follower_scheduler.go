package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/flockpulse/flockpulse/internal/tracker"
)

// FollowerScheduler periodically reconciles follower counts for every
// tracked account.
type FollowerScheduler struct {
	tracker  *tracker.Tracker
	logger   *slog.Logger
	stopChan chan struct{}
	interval time.Duration
}

// NewFollowerScheduler creates a scheduler running at the given interval.
func NewFollowerScheduler(t *tracker.Tracker, interval time.Duration, logger *slog.Logger) *FollowerScheduler {
	return &FollowerScheduler{
		tracker:  t,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start begins the scheduler loop. An update runs immediately, then on every
// tick until Stop is called or the context is cancelled.
func (s *FollowerScheduler) Start(ctx context.Context) {
	s.logger.Info("starting follower scheduler", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runUpdate(ctx)

	for {
		select {
		case <-ticker.C:
			s.runUpdate(ctx)
		case <-s.stopChan:
			s.logger.Info("follower scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("follower scheduler stopping due to context cancellation")
			return
		}
	}
}

// Stop stops the scheduler.
func (s *FollowerScheduler) Stop() {
	close(s.stopChan)
}

func (s *FollowerScheduler) runUpdate(ctx context.Context) {
	// Per-account failures are isolated inside the tracker; an error here
	// means the whole pass could not run (e.g. the database is down).
	if err := s.tracker.RunScheduledUpdate(ctx); err != nil {
		s.logger.Error("follower update pass failed", "error", err)
	}
}
