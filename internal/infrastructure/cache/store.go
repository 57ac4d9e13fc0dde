// Package cache provides the key/value stores shared by the application
// services: Redis in deployed environments, an in-process map otherwise.
package cache

import (
	"context"
	"time"
)

// Store is a JSON key/value cache with per-key expiration
type Store interface {
	// GetJSON decodes the value of key into dest. The boolean is false on a miss.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Increment bumps a counter that expires window after its first increment
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Close() error
}
