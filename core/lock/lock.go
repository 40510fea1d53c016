package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manager is a non-blocking mutual exclusion primitive with expiry.
//
// Acquire returns false when another owner holds the key; callers skip the unit
// of work instead of waiting. Release only removes a lock still held by token.
type Manager interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// NewToken returns a fresh owner token.
func NewToken() string {
	return uuid.NewString()
}

// StageKey is the lock key for a whole sync stage.
func StageKey(stage string) string {
	return "lock:sync:stage:" + stage
}

// CheckpointKey guards writes of the shared sync checkpoint.
const CheckpointKey = "lock:sync:checkpoint"

// SpeciesLearnsetKey is the lock key for one species' learnset sync.
func SpeciesLearnsetKey(speciesID int) string {
	return fmt.Sprintf("lock:sync:move_learnset:species:%d", speciesID)
}

// FormAbilitiesKey is the lock key for one form's ability mapping sync.
func FormAbilitiesKey(formID int) string {
	return fmt.Sprintf("lock:sync:form_abilities:form:%d", formID)
}

// Held acquires key and returns a release function, or ok=false when the key is busy.
// The release function uses a background context so it still runs after ctx is cancelled.
func Held(ctx context.Context, m Manager, key string, ttl time.Duration) (release func(), ok bool, err error) {
	token := NewToken()
	ok, err = m.Acquire(ctx, key, token, ttl)
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() {
		_ = m.Release(context.Background(), key, token)
	}, true, nil
}
