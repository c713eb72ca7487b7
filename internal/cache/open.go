package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options describe the cache a process runs with.
type Options struct {
	// Size bounds the in-memory cache; zero disables it.
	Size int
	// TTL expires entries; zero keeps them until evicted.
	TTL time.Duration
	// RedisAddress selects Redis over the in-memory cache when set.
	RedisAddress string
	KeyPrefix    string
}

// Open builds the cache described by opts and returns a func releasing it.
// A configured Redis that cannot be reached is an error rather than a silent
// fallback.
func Open[T any](ctx context.Context, logger *zap.Logger, opts Options) (Cache[T], func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.RedisAddress != "" {
		client, err := NewRedisClient(ctx, opts.RedisAddress)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis result cache",
			zap.String("op", "cache.Open"),
			zap.String("address", opts.RedisAddress),
			zap.Duration("ttl", opts.TTL),
		)
		return NewRedis[T](client, opts.KeyPrefix, opts.TTL), client.Close, nil
	}

	if opts.Size <= 0 {
		logger.Debug("result cache disabled", zap.String("op", "cache.Open"))
		return Nop[T]{}, func() error { return nil }, nil
	}

	lru := NewLRU[T](opts.Size, opts.TTL)
	if opts.TTL <= 0 {
		return lru, func() error { return nil }, nil
	}

	janitor := NewJanitor(logger, lru)
	janitor.Start(opts.TTL)
	logger.Debug("using in-memory result cache",
		zap.String("op", "cache.Open"),
		zap.Int("size", opts.Size),
		zap.Duration("ttl", opts.TTL),
	)
	return lru, func() error {
		janitor.Stop()
		return nil
	}, nil
}
