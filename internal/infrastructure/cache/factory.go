package cache

import (
	"fmt"

	"github.com/verone/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FactoryOption configures NewStore
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
	keyPrefix             string
}

// WithLogger sets the logger used to report the chosen store
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store (default true)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithKeyPrefix overrides DefaultKeyPrefix
func WithKeyPrefix(prefix string) FactoryOption {
	return func(f *factory) {
		f.keyPrefix = prefix
	}
}

// NewStore returns a Redis store when Redis is enabled and reachable,
// otherwise an in-memory store
func NewStore(cfg config.RedisConfig, opts ...FactoryOption) (Store, error) {
	f := &factory{
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		keyPrefix:             DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled {
		f.logger.Info("Redis disabled, using in-memory cache")
		return NewInMemoryCache(), nil
	}

	client, err := NewRedisClient(cfg)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", cfg.Addr()))
		return NewRedisCache(client, f.keyPrefix), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Cached stats are not shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryCache(), nil
}
