package insight

import "context"

// SnapshotCache keeps the latest snapshot outside the process
type SnapshotCache interface {
	Get(ctx context.Context) (*Snapshot, error)
	Set(ctx context.Context, snapshot *Snapshot) error
}
