package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Loader serves values from a Cache and falls back to a load function on a miss.
// Concurrent misses on the same key share a single load.
type Loader struct {
	cache  Cache
	group  singleflight.Group
	logger *zap.Logger
}

// NewLoader creates a read-through loader. A nil cache behaves like Noop.
func NewLoader(c Cache, logger *zap.Logger) *Loader {
	if c == nil {
		c = Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: c, logger: logger}
}

// Cache returns the underlying cache.
func (l *Loader) Cache() Cache {
	return l.cache
}

// GetOrLoad returns the cached value for key or calls load and stores its result for ttl.
// Cache failures are logged and otherwise ignored; only load errors reach the caller.
func GetOrLoad[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, err := l.cache.Get(ctx, key); err == nil {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		l.logger.Debug("Discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrMiss) {
		l.logger.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(val); err == nil {
			if err := l.cache.Set(ctx, key, raw, ttl); err != nil {
				l.logger.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
