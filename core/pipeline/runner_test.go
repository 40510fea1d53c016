package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pmteambuilder/core/lock"
	"pmteambuilder/core/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner(t *testing.T, opts Options) (*Runner, *progress.Tracker, *lock.Memory) {
	t.Helper()
	store := progress.NewFileStore(filepath.Join(t.TempDir(), "progress.json"), zap.NewNop())
	tracker, err := progress.NewTracker(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	locks := lock.NewMemory()
	return NewRunner(tracker, locks, zap.NewNop(), opts), tracker, locks
}

// rangeSource emits ints [offset, n).
func rangeSource(n int) func(context.Context, int, Sink[int]) error {
	return func(_ context.Context, offset int, sink Sink[int]) error {
		for i := offset; i < n; i++ {
			if err := sink.Emit(i); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestRun_BatchesAndCompletes(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{BatchSize: 10, CheckpointEvery: 50})

	var batches [][]int
	rep, err := Run(ctx, r, Stage[int]{
		Name:   "abilities",
		Source: rangeSource(25),
		Apply: func(_ context.Context, b []int) error {
			batches = append(batches, append([]int(nil), b...))
			return nil
		},
	})
	require.NoError(t, err)

	assert.Len(t, batches, 3)
	assert.Len(t, batches[2], 5)
	assert.Equal(t, 25, rep.Processed)
	assert.Equal(t, 25, rep.Applied)
	assert.True(t, rep.Completed)
	assert.True(t, tracker.IsDone("abilities"))
}

func TestRun_SkipsDoneStage(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{})
	require.NoError(t, tracker.MarkDone(ctx, "types"))

	called := false
	rep, err := Run(ctx, r, Stage[int]{
		Name:   "types",
		Source: func(context.Context, int, Sink[int]) error { called = true; return nil },
		Apply:  func(context.Context, []int) error { return nil },
	})
	require.NoError(t, err)
	assert.True(t, rep.Skipped)
	assert.False(t, called)
}

func TestRun_ForceIgnoresDoneAndCursor(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{Force: true})
	require.NoError(t, tracker.MarkDone(ctx, "types"))

	var seen []int
	rep, err := Run(ctx, r, Stage[int]{
		Name:   "types",
		Source: rangeSource(3),
		Apply:  func(_ context.Context, b []int) error { seen = append(seen, b...); return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.True(t, rep.Completed)
}

func TestRun_FailedBatchKeepsStageOpen(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{BatchSize: 10, CheckpointEvery: 10})

	rep, err := Run(ctx, r, Stage[int]{
		Name:   "moves",
		Source: rangeSource(40),
		Apply: func(_ context.Context, b []int) error {
			if b[0] == 20 {
				return errors.New("constraint violation")
			}
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 40, rep.Processed)
	assert.Equal(t, 30, rep.Applied)
	assert.Equal(t, 1, rep.FailedBatches)
	assert.False(t, rep.Completed)
	assert.False(t, tracker.IsDone("moves"))
	// Cursor stops before the failed batch
	assert.Equal(t, 20, tracker.Cursor("moves"))
}

func TestRun_ResumesFromCursor(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{BatchSize: 10})
	require.NoError(t, tracker.SetCursor(ctx, "items", 50))

	first := -1
	rep, err := Run(ctx, r, Stage[int]{
		Name:   "items",
		Source: rangeSource(60),
		Apply: func(_ context.Context, b []int) error {
			if first < 0 {
				first = b[0]
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, rep.ResumedAt)
	assert.Equal(t, 50, first)
	assert.Equal(t, 10, rep.Processed)
	assert.True(t, tracker.IsDone("items"))
}

func TestRun_FailedUnitKeepsStageOpen(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{})

	rep, err := Run(ctx, r, Stage[int]{
		Name: "abilities",
		Source: func(_ context.Context, _ int, sink Sink[int]) error {
			_ = sink.Emit(1)
			sink.Fail("ability/2", errors.New("timeout"))
			_ = sink.Emit(3)
			return nil
		},
		Apply: func(context.Context, []int) error { return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FailedUnits)
	assert.Equal(t, 2, rep.Applied)
	assert.False(t, tracker.IsDone("abilities"))
}

func TestRun_SourceErrorPropagates(t *testing.T) {
	ctx := context.Background()
	r, tracker, _ := newTestRunner(t, Options{})

	_, err := Run(ctx, r, Stage[int]{
		Name:   "types",
		Source: func(context.Context, int, Sink[int]) error { return errors.New("connection refused") },
		Apply:  func(context.Context, []int) error { return nil },
	})
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, tracker.IsDone("types"))
}

func TestRun_ContendedStageIsSkipped(t *testing.T) {
	ctx := context.Background()
	r, _, locks := newTestRunner(t, Options{})
	ok, _ := locks.Acquire(ctx, lock.StageKey("moves"), "other-worker", time.Minute)
	require.True(t, ok)

	rep, err := Run(ctx, r, Stage[int]{
		Name:   "moves",
		Source: rangeSource(5),
		Apply:  func(context.Context, []int) error { return fmt.Errorf("must not run") },
	})
	require.NoError(t, err)
	assert.True(t, rep.Contended)
	assert.Zero(t, rep.Processed)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, tracker, _ := newTestRunner(t, Options{BatchSize: 2})

	_, err := Run(ctx, r, Stage[int]{
		Name: "moves",
		Source: func(ctx context.Context, offset int, sink Sink[int]) error {
			for i := 0; ; i++ {
				if i == 3 {
					cancel()
				}
				if err := sink.Emit(i); err != nil {
					return err
				}
			}
		},
		Apply: func(context.Context, []int) error { return nil },
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, tracker.IsDone("moves"))
}
