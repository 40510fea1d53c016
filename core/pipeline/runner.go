package pipeline

import (
	"context"
	"fmt"
	"time"

	"pmteambuilder/core/lock"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/progress"

	"go.uber.org/zap"
)

// Runner executes stages against a progress tracker and a lock manager.
type Runner struct {
	tracker *progress.Tracker
	locks   lock.Manager
	logger  *zap.Logger
	opts    Options
}

// NewRunner creates a runner. Zero options fall back to batches of 10,
// checkpoints every 50 records and a 30 minute lock TTL.
func NewRunner(tracker *progress.Tracker, locks lock.Manager, logger *zap.Logger, opts Options) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 50
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Minute
	}
	return &Runner{tracker: tracker, locks: locks, logger: logger, opts: opts}
}

// Options returns the effective options.
func (r *Runner) Options() Options {
	return r.opts
}

// Tracker returns the progress tracker.
func (r *Runner) Tracker() *progress.Tracker {
	return r.tracker
}

// Run executes one stage:
//  1. skip when the stage is done (unless forced) or its lock is held elsewhere
//  2. stream records from the saved cursor and commit them in batches
//  3. save the cursor while every batch so far has committed
//  4. mark the stage done only when nothing failed
func Run[T any](ctx context.Context, r *Runner, s Stage[T]) (*Report, error) {
	l := logger.WithStage(r.logger, s.Name)
	started := time.Now()
	rep := &Report{Stage: s.Name}

	if !r.opts.Force && r.tracker.IsDone(s.Name) {
		rep.Skipped = true
		l.Info("Stage already done, skipping")
		return rep, nil
	}

	release, ok, err := lock.Held(ctx, r.locks, lock.StageKey(s.Name), r.opts.LockTTL)
	if err != nil {
		return rep, fmt.Errorf("stage %s: %w", s.Name, err)
	}
	if !ok {
		rep.Contended = true
		l.Info("Stage locked by another run, skipping")
		return rep, nil
	}
	defer release()

	offset := 0
	if r.opts.Force {
		// A forced run that fails must not leave the old done marker behind
		_ = r.tracker.Forget(ctx, s.Name)
	} else {
		offset = r.tracker.Cursor(s.Name)
	}
	rep.ResumedAt = offset
	if offset > 0 {
		l.Info("Resuming stage", zap.Int("offset", offset))
	}

	b := &batcher[T]{
		ctx:    ctx,
		stage:  s,
		runner: r,
		report: rep,
		logger: l,
		offset: offset,
		buf:    make([]T, 0, r.opts.BatchSize),
	}

	srcErr := s.Source(ctx, offset, b)
	b.flush()
	rep.Duration = time.Since(started)

	if srcErr != nil {
		l.Error("Stage aborted", zap.Error(srcErr), zap.Int("processed", rep.Processed))
		return rep, fmt.Errorf("stage %s: %w", s.Name, srcErr)
	}

	if !rep.Clean() {
		l.Warn("Stage finished with failures, leaving it open for the next run",
			zap.Int("failed_batches", rep.FailedBatches),
			zap.Int("failed_units", rep.FailedUnits),
			zap.Int("applied", rep.Applied))
		return rep, nil
	}

	if err := r.tracker.MarkDone(ctx, s.Name); err != nil {
		l.Warn("Could not mark stage done", zap.Error(err))
	} else {
		rep.Completed = true
	}

	l.Info("Stage complete",
		zap.Int("processed", rep.Processed),
		zap.Int("applied", rep.Applied),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

type batcher[T any] struct {
	ctx    context.Context
	stage  Stage[T]
	runner *Runner
	report *Report
	logger *zap.Logger

	offset         int
	buf            []T
	lastCheckpoint int
}

func (b *batcher[T]) Emit(item T) error {
	if err := b.ctx.Err(); err != nil {
		return err
	}
	b.buf = append(b.buf, item)
	b.report.Processed++
	if len(b.buf) >= b.runner.opts.BatchSize {
		b.flush()
	}
	return nil
}

func (b *batcher[T]) Fail(unit string, err error) {
	b.report.FailedUnits++
	b.logger.Warn("Skipping unit", zap.String("unit", unit), zap.Error(err))
}

func (b *batcher[T]) flush() {
	if len(b.buf) == 0 {
		return
	}
	batch := b.buf
	b.buf = make([]T, 0, b.runner.opts.BatchSize)

	if err := b.stage.Apply(b.ctx, batch); err != nil {
		b.report.FailedBatches++
		b.logger.Warn("Batch failed", zap.Int("size", len(batch)), zap.Error(err))
		return
	}
	b.report.Applied += len(batch)
	b.checkpoint()
}

// checkpoint saves offset+processed once enough records committed, but only while
// the stage is clean; a cursor past a failed batch would hide it from the next run.
func (b *batcher[T]) checkpoint() {
	if !b.report.Clean() {
		return
	}
	if b.report.Processed-b.lastCheckpoint < b.runner.opts.CheckpointEvery {
		return
	}
	pos := b.offset + b.report.Processed
	if err := b.runner.tracker.SetCursor(b.ctx, b.stage.Name, pos); err != nil {
		return
	}
	b.lastCheckpoint = b.report.Processed
	b.logger.Debug("Checkpoint saved", zap.Int("cursor", pos))
}
