package marketdata

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// loadFunc fetches a fresh value from the upstream provider.
type loadFunc[T any] func(ctx context.Context) (T, error)

// cached is a read-through TTL cache around one expensive provider
// call. Readers take the read lock; at most one writer refreshes at a
// time, and the stored value is only ever swapped whole, never mutated,
// so concurrent readers cannot observe a partially-populated result.
type cached[T any] struct {
	name string
	ttl  time.Duration
	load loadFunc[T]

	mu       sync.RWMutex
	value    T
	loadedAt time.Time
	primed   bool
}

func newCached[T any](name string, ttl time.Duration, load loadFunc[T]) *cached[T] {
	return &cached[T]{name: name, ttl: ttl, load: load}
}

// Get returns the cached value, refreshing it when the TTL has lapsed.
// When a refresh fails and a previous value exists, the stale value is
// served; these directories change slowly enough that stale beats
// failing the whole request.
func (c *cached[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.primed && time.Since(c.loadedAt) < c.ttl {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another writer may have refreshed while we waited for the lock.
	if c.primed && time.Since(c.loadedAt) < c.ttl {
		return c.value, nil
	}

	fresh, err := c.load(ctx)
	if err != nil {
		if c.primed {
			slog.WarnContext(ctx, "cache refresh failed, serving stale value",
				slog.String("cache", c.name),
				slog.String("error", err.Error()),
				slog.Duration("age", time.Since(c.loadedAt)),
			)
			return c.value, nil
		}
		var zero T
		return zero, err
	}

	c.value = fresh
	c.loadedAt = time.Now()
	c.primed = true
	cacheRefreshes.WithLabelValues(c.name).Inc()

	return c.value, nil
}

// Invalidate drops the cached value, forcing the next Get to refresh.
func (c *cached[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primed = false
}
