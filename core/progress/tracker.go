package progress

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pmteambuilder/core/lock"

	"go.uber.org/zap"
)

// ErrCheckpointBusy is returned when the checkpoint lock could not be taken in time.
var ErrCheckpointBusy = errors.New("progress: checkpoint locked by another worker")

const (
	// DefaultFlushEvery is how many entity markers are buffered before a write.
	DefaultFlushEvery = 25

	checkpointLockTTL  = 30 * time.Second
	checkpointLockWait = 10 * time.Second
	checkpointRetry    = 50 * time.Millisecond
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLock serializes checkpoint writes across workers through m.
func WithLock(m lock.Manager) Option {
	return func(t *Tracker) { t.locks = m }
}

// WithFlushEvery sets how many entity markers are buffered before they are written.
// Values below 1 write every marker immediately.
func WithFlushEvery(n int) Option {
	return func(t *Tracker) {
		if n < 1 {
			n = 1
		}
		t.flushEvery = n
	}
}

// Tracker holds the checkpoint in memory. Every write reloads the stored
// checkpoint and replays this tracker's pending changes onto it, so workers
// sharing one checkpoint keep each other's markers. It is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	store      Store
	state      *State
	pending    []func(*State)
	flushEvery int
	locks      lock.Manager
	logger     *zap.Logger
}

// NewTracker loads the checkpoint from store.
func NewTracker(ctx context.Context, store Store, logger *zap.Logger, opts ...Option) (*Tracker, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	t := &Tracker{store: store, state: state, flushEvery: DefaultFlushEvery, logger: logger}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Reload re-reads the checkpoint, dropping in-memory changes that were not saved.
func (t *Tracker) Reload(ctx context.Context) error {
	state, err := t.store.Load(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.state = state
	t.pending = nil
	t.mu.Unlock()
	return nil
}

func (t *Tracker) IsDone(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Stages[key].Done
}

// Cursor returns the saved resume offset for key, or 0.
func (t *Tracker) Cursor(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.state.Stages[key]
	if v.Done {
		return 0
	}
	return v.Cursor
}

func (t *Tracker) SetCursor(ctx context.Context, key string, n int) error {
	return t.update(ctx, func(s *State) { s.Stages[key] = Cursor(n) })
}

func (t *Tracker) MarkDone(ctx context.Context, key string) error {
	return t.update(ctx, func(s *State) { s.Stages[key] = Done })
}

// MarkEntityDone marks key done right away in memory and buffers the write
// until enough markers are pending or Flush is called. A failed write keeps
// the markers pending for the next one.
func (t *Tracker) MarkEntityDone(ctx context.Context, key string) error {
	op := func(s *State) { s.Stages[key] = Done }

	t.mu.Lock()
	defer t.mu.Unlock()
	op(t.state)
	t.pending = append(t.pending, op)
	if len(t.pending) < t.flushEvery {
		return nil
	}
	return t.flushLocked(ctx, nil)
}

// Flush writes buffered entity markers.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pending) == 0 {
		return nil
	}
	return t.flushLocked(ctx, nil)
}

// Pending returns the number of buffered, unwritten changes.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Forget removes key so its stage or entity starts from scratch.
func (t *Tracker) Forget(ctx context.Context, key string) error {
	return t.update(ctx, func(s *State) {
		delete(s.Stages, key)
		s.AllDone = false
	})
}

// ForgetPrefix removes every key starting with prefix.
func (t *Tracker) ForgetPrefix(ctx context.Context, prefix string) error {
	return t.update(ctx, func(s *State) {
		for k := range s.Stages {
			if strings.HasPrefix(k, prefix) {
				delete(s.Stages, k)
			}
		}
		s.AllDone = false
	})
}

func (t *Tracker) AllDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.AllDone
}

func (t *Tracker) SetAllDone(ctx context.Context, done bool) error {
	return t.update(ctx, func(s *State) { s.AllDone = done })
}

// Reset clears every checkpoint.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.update(ctx, func(s *State) {
		s.AllDone = false
		s.Stages = make(map[string]Value)
	})
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() *State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// update writes fn together with any buffered markers and only publishes it
// once the store accepted it.
func (t *Tracker) update(ctx context.Context, fn func(*State)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked(ctx, fn)
}

// flushLocked reloads the stored checkpoint, replays pending changes and fn
// onto it and saves the result. On success the merged state becomes the
// in-memory view. On failure fn is dropped and pending changes are kept.
func (t *Tracker) flushLocked(ctx context.Context, fn func(*State)) error {
	release, err := t.acquire(ctx)
	if err != nil {
		t.logger.Warn("Failed to lock sync progress", zap.Error(err))
		return err
	}
	defer release()

	next, err := t.store.Load(ctx)
	if err != nil {
		t.logger.Warn("Failed to reload sync progress", zap.Error(err))
		return err
	}
	for _, op := range t.pending {
		op(next)
	}
	if fn != nil {
		fn(next)
	}
	if err := t.store.Save(ctx, next); err != nil {
		t.logger.Warn("Failed to persist sync progress", zap.Error(err))
		return err
	}
	t.state = next
	t.pending = nil
	return nil
}

func (t *Tracker) acquire(ctx context.Context) (func(), error) {
	if t.locks == nil {
		return func() {}, nil
	}
	deadline := time.Now().Add(checkpointLockWait)
	for {
		release, ok, err := lock.Held(ctx, t.locks, lock.CheckpointKey, checkpointLockTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrCheckpointBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(checkpointRetry):
		}
	}
}
