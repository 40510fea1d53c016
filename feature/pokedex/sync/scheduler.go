package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Runner is what the scheduler triggers.
type Runner interface {
	Run(ctx context.Context, opts Options) (*Report, error)
}

// Scheduler runs a sync at a fixed interval.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runOnStart bool
	force      bool
	logger     *zap.Logger
}

// NewScheduler creates a scheduler from cfg.
func NewScheduler(runner Runner, cfg Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		force:      cfg.Force,
		logger:     logger,
	}
}

// Start blocks, triggering a run every interval until ctx is cancelled.
// A tick that finds a run in progress is dropped.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Sync scheduler disabled")
		return
	}
	s.logger.Info("Sync scheduler started", zap.Duration("interval", s.interval))

	if s.runOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sync scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	rep, err := s.runner.Run(ctx, Options{Force: s.force})
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		s.logger.Info("Sync already in progress, skipping scheduled run")
	case err != nil:
		s.logger.Error("Scheduled sync failed", zap.Error(err))
	case rep != nil && rep.Skipped:
		s.logger.Debug("Scheduled sync skipped, data already complete")
	}
}
