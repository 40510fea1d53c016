package lock

import (
	"context"
	"sync"
	"time"
)

type memoryLock struct {
	token   string
	expires time.Time
}

// Memory is a process-local Manager.
type Memory struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

// NewMemory creates an empty process-local lock manager.
func NewMemory() *Memory {
	return &Memory{locks: make(map[string]memoryLock), now: time.Now}
}

func (m *Memory) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if cur, ok := m.locks[key]; ok && now.Before(cur.expires) {
		return false, nil
	}
	m.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return true, nil
}

func (m *Memory) Release(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.locks[key]; ok && cur.token == token {
		delete(m.locks, key)
	}
	return nil
}
