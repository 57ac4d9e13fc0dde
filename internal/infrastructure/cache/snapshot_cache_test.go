package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/insight"
)

func TestSnapshotCache(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestCache(t)
	snapshots := NewSnapshotCache(store, time.Hour)

	got, err := snapshots.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	end := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	summary := insight.NewBusinessSummary(end)
	summary.OrdersCount = 4
	summary.RevenueTTC = decimal.RequireFromString("480.00")
	summary.Finalize()
	snapshot := &insight.Snapshot{Summary: summary, GeneratedAt: end}

	require.NoError(t, snapshots.Set(ctx, snapshot))

	got, err = snapshots.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.Summary.OrdersCount)
	assert.True(t, decimal.RequireFromString("120").Equal(got.Summary.AverageBasket))
	assert.True(t, end.Equal(got.GeneratedAt))
}
