package cache

import (
	"context"
	"time"

	"github.com/verone/backoffice/internal/domain/insight"
)

const snapshotKey = "insight:snapshot"

// SnapshotCache stores the latest prediction snapshot in a Store
type SnapshotCache struct {
	store Store
	ttl   time.Duration
}

// NewSnapshotCache creates a snapshot cache whose entries live for ttl
func NewSnapshotCache(store Store, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{store: store, ttl: ttl}
}

// Get returns the cached snapshot, or nil on a miss
func (c *SnapshotCache) Get(ctx context.Context) (*insight.Snapshot, error) {
	var snapshot insight.Snapshot
	found, err := c.store.GetJSON(ctx, snapshotKey, &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

// Set replaces the cached snapshot
func (c *SnapshotCache) Set(ctx context.Context, snapshot *insight.Snapshot) error {
	return c.store.SetJSON(ctx, snapshotKey, snapshot, c.ttl)
}

var _ insight.SnapshotCache = (*SnapshotCache)(nil)
