// Package cache holds calculation results between requests. Caches are
// constructed by their owner and passed in explicitly.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value; the bool reports a hit.
	Get(ctx context.Context, key string) (T, bool, error)

	// Set stores a value in the cache
	Set(ctx context.Context, key string, data T) error

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string) error
}

// Nop is a Cache that stores nothing.
type Nop[T any] struct{}

func (Nop[T]) Get(context.Context, string) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (Nop[T]) Set(context.Context, string, T) error { return nil }

func (Nop[T]) Delete(context.Context, string) error { return nil }

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically removes expired entries from registered caches.
type Janitor struct {
	logger      *zap.Logger
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	stopOnce    sync.Once
}

// NewJanitor creates a Janitor for the given caches.
func NewJanitor(logger *zap.Logger, caches ...Cleaner) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		logger:      logger,
		caches:      caches,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Start begins periodic cleanup of all registered caches
func (j *Janitor) Start(interval time.Duration) {
	go j.cleanup(interval)
}

func (j *Janitor) cleanup(interval time.Duration) {
	defer close(j.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := j.Sweep(); removed > 0 {
				j.logger.Debug("removed expired cache entries",
					zap.String("op", "cache.Janitor"),
					zap.Int("removed", removed),
				)
			}
		case <-j.stopCleanup:
			return
		}
	}
}

// Sweep cleans every registered cache once and returns the number of
// entries removed.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop ends the cleanup routine started by Start and waits for it to exit.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopCleanup)
	})
	<-j.cleanupDone
}
