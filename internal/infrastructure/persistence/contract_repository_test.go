package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared"
)

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestContract(t *testing.T, property uuid.UUID, start, end time.Time) *rental.Contract {
	t.Helper()
	c, err := rental.NewContract(rental.ContractTerms{
		Type:           rental.ContractTypeVariable,
		OrganisationID: uuid.New(),
		PropertyID:     &property,
		EmissionDate:   &start,
		StartDate:      start,
		EndDate:        end,
		Landlord:       &rental.Landlord{Name: "Mme Bernard"},
	})
	require.NoError(t, err)
	return c
}

func TestGormContractRepository_FindOverlapping(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	property := uuid.New()
	existing := newTestContract(t, property, utcDay(2026, 1, 1), utcDay(2026, 6, 30))
	require.NoError(t, repo.Save(ctx, existing))
	other := newTestContract(t, uuid.New(), utcDay(2026, 1, 1), utcDay(2026, 12, 31))
	require.NoError(t, repo.Save(ctx, other))

	target := rental.Target{PropertyID: &property}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"inside", utcDay(2026, 2, 1), utcDay(2026, 3, 1), 1},
		{"touching the end day", utcDay(2026, 6, 30), utcDay(2026, 9, 30), 1},
		{"touching the start day", utcDay(2025, 6, 1), utcDay(2026, 1, 1), 1},
		{"after", utcDay(2026, 7, 1), utcDay(2026, 12, 31), 0},
		{"before", utcDay(2025, 1, 1), utcDay(2025, 12, 31), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindOverlapping(ctx, target, tt.start, tt.end, nil)
			require.NoError(t, err)
			assert.Len(t, found, tt.expected)
		})
	}

	t.Run("excludes the contract being edited", func(t *testing.T) {
		found, err := repo.FindOverlapping(ctx, target, utcDay(2026, 2, 1), utcDay(2026, 3, 1), &existing.ID)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("empty target matches nothing", func(t *testing.T) {
		found, err := repo.FindOverlapping(ctx, rental.Target{}, utcDay(2026, 2, 1), utcDay(2026, 3, 1), nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestGormContractRepository_StatusFilter(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	property := uuid.New()
	past := newTestContract(t, property, utcDay(2025, 1, 1), utcDay(2025, 12, 31))
	current := newTestContract(t, property, utcDay(2026, 1, 1), utcDay(2026, 12, 31))
	future := newTestContract(t, property, utcDay(2027, 1, 1), utcDay(2027, 12, 31))
	for _, c := range []*rental.Contract{past, current, future} {
		require.NoError(t, repo.Save(ctx, c))
	}

	at := time.Date(2026, 5, 15, 14, 0, 0, 0, time.UTC)
	byStatus := func(status rental.ContractStatus) []rental.Contract {
		found, err := repo.FindAllForStatistics(ctx, shared.Filter{Filters: map[string]any{
			rental.FilterStatus: string(status),
			rental.FilterAt:     at,
		}})
		require.NoError(t, err)
		return found
	}

	t.Run("active", func(t *testing.T) {
		found := byStatus(rental.ContractStatusActive)
		require.Len(t, found, 1)
		assert.Equal(t, current.ID, found[0].ID)
	})

	t.Run("finished", func(t *testing.T) {
		found := byStatus(rental.ContractStatusFinished)
		require.Len(t, found, 1)
		assert.Equal(t, past.ID, found[0].ID)
	})

	t.Run("upcoming", func(t *testing.T) {
		found := byStatus(rental.ContractStatusUpcoming)
		require.Len(t, found, 1)
		assert.Equal(t, future.ID, found[0].ID)
	})

	t.Run("statistics agree with the domain", func(t *testing.T) {
		all, err := repo.FindAllForStatistics(ctx, shared.Filter{Filters: map[string]any{rental.FilterPropertyID: property}})
		require.NoError(t, err)
		stats := rental.ComputeStatistics(all, at)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(1), stats.Active)
		assert.Equal(t, 33, stats.OccupancyRate)
	})
}

func TestGormContractRepository_SaveWithLock(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	c := newTestContract(t, uuid.New(), utcDay(2026, 1, 1), utcDay(2026, 12, 31))
	require.NoError(t, repo.Save(ctx, c))

	stale, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mme Bernard", stale.Landlord.Name)
	assert.True(t, stale.StartDate.Equal(utcDay(2026, 1, 1)))

	c.AttachDocument("contracts/" + c.ID.String() + ".pdf")
	require.NoError(t, repo.SaveWithLock(ctx, c))

	err = repo.SaveWithLock(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "contracts/"+c.ID.String()+".pdf", found.DocumentKey)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), shared.ErrNotFound)
}
