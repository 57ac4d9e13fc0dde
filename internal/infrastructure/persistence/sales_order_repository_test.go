package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
)

func newTestOrder(t *testing.T, number string, customerID uuid.UUID, createdAt time.Time) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewLinkMeOrder(number, trade.CustomerTypeOrganization, customerID, uuid.New(), trade.DefaultFees())
	require.NoError(t, err)
	order.CreatedAt = createdAt

	_, err = order.AddItem(trade.ItemInput{
		ProductID:        uuid.New(),
		ProductName:      "Fauteuil Milo",
		Quantity:         2,
		UnitPriceHT:      decimal.NewFromInt(60),
		BasePriceHT:      decimal.NewFromInt(50),
		RetrocessionRate: decimal.RequireFromString("0.1"),
	})
	require.NoError(t, err)
	_, err = order.AddItem(trade.ItemInput{
		ProductID:   uuid.New(),
		ProductName: "Lampe Sol",
		Quantity:    1,
		UnitPriceHT: decimal.NewFromInt(30),
		BasePriceHT: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	return order
}

func TestGormSalesOrderRepository_CreateAndFind(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, trade.FormatOrderNumber(2026, 1), uuid.New(), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-00001", found.OrderNumber)
	assert.Equal(t, trade.OrderStatusDraft, found.Status)
	require.Len(t, found.Items, 2)
	assert.True(t, found.TotalHT.Equal(decimal.NewFromInt(150)), "total_ht = %s", found.TotalHT)
	assert.True(t, found.TotalTTC.Equal(decimal.NewFromInt(180)), "total_ttc = %s", found.TotalTTC)
	assert.True(t, found.Items[0].RetrocessionAmount.Equal(decimal.NewFromInt(10)))

	t.Run("search matches the order number", func(t *testing.T) {
		results, err := repo.FindAll(ctx, shared.Filter{Search: "so-2026"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestGormSalesOrderRepository_SaveWithLock(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, trade.FormatOrderNumber(2026, 7), uuid.New(), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, order))

	t.Run("drops removed items", func(t *testing.T) {
		order.Items = order.Items[:1]
		require.NoError(t, repo.SaveWithLock(ctx, order))

		var count int64
		require.NoError(t, db.Model(&models.SalesOrderItemModel{}).Where("order_id = ?", order.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NoError(t, order.Validate())
		require.NoError(t, repo.SaveWithLock(ctx, order))

		require.NoError(t, stale.Cancel("doublon"))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusValidated, found.Status)
	})
}

func TestGormSalesOrderRepository_NextOrderSequence(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	t.Run("starts at one", func(t *testing.T) {
		seq, err := repo.NextOrderSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	for _, n := range []int{1, 2, 12} {
		require.NoError(t, repo.Create(ctx, newTestOrder(t, trade.FormatOrderNumber(2026, n), uuid.New(), time.Now().UTC())))
	}
	require.NoError(t, repo.Create(ctx, newTestOrder(t, trade.FormatOrderNumber(2025, 40), uuid.New(), time.Now().UTC())))

	t.Run("continues after the highest number of the year", func(t *testing.T) {
		seq, err := repo.NextOrderSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 13, seq)
	})

	t.Run("years are independent", func(t *testing.T) {
		seq, err := repo.NextOrderSequence(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, 41, seq)

		seq, err = repo.NextOrderSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	t.Run("reused number is rejected as already existing", func(t *testing.T) {
		err := repo.Create(ctx, newTestOrder(t, trade.FormatOrderNumber(2026, 12), uuid.New(), time.Now().UTC()))
		assert.Equal(t, shared.ErrAlreadyExists.Code, shared.ErrorCode(err))
	})

	t.Run("numbers past five digits sort numerically", func(t *testing.T) {
		for _, n := range []int{99999, 100000} {
			require.NoError(t, repo.Create(ctx, newTestOrder(t, trade.FormatOrderNumber(2023, n), uuid.New(), time.Now().UTC())))
		}
		seq, err := repo.NextOrderSequence(ctx, 2023)
		require.NoError(t, err)
		assert.Equal(t, 100001, seq)
	})
}

func TestGormSalesOrderRepository_Aggregates(t *testing.T) {
	db := setupBackofficeTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	customer := uuid.New()
	march := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	validated := newTestOrder(t, trade.FormatOrderNumber(2026, 1), customer, march)
	require.NoError(t, validated.Validate())
	draft := newTestOrder(t, trade.FormatOrderNumber(2026, 2), customer, march)
	outside := newTestOrder(t, trade.FormatOrderNumber(2026, 3), uuid.New(), march.AddDate(0, 1, 0))
	require.NoError(t, outside.Validate())
	for _, o := range []*trade.SalesOrder{validated, draft, outside} {
		require.NoError(t, repo.Create(ctx, o))
	}

	t.Run("sums customer orders outside excluded statuses", func(t *testing.T) {
		total, err := repo.SumTotalTTCByCustomers(ctx, []uuid.UUID{customer}, trade.NonRevenueStatuses())
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(180)), "total = %s", total)
	})

	t.Run("empty customer list sums to zero", func(t *testing.T) {
		total, err := repo.SumTotalTTCByCustomers(ctx, nil, nil)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("summarizes a window", func(t *testing.T) {
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		summary, err := repo.Summarize(ctx, from, to, trade.NonRevenueStatuses())
		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.OrdersCount)
		assert.True(t, summary.RevenueHT.Equal(decimal.NewFromInt(150)), "revenue_ht = %s", summary.RevenueHT)
		assert.True(t, summary.RevenueTTC.Equal(decimal.NewFromInt(180)), "revenue_ttc = %s", summary.RevenueTTC)
		assert.True(t, summary.TotalCommission.Equal(decimal.NewFromInt(10)), "commission = %s", summary.TotalCommission)
	})

	t.Run("empty window is zero", func(t *testing.T) {
		from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		summary, err := repo.Summarize(ctx, from, from.AddDate(0, 1, 0), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.OrdersCount)
		assert.True(t, summary.RevenueTTC.IsZero())
		assert.True(t, summary.TotalCommission.IsZero())
	})
}

func TestGormCustomerDirectory_CustomerName(t *testing.T) {
	db := setupBackofficeTestDB(t)
	orgRepo := NewGormOrganisationRepository(db)
	directory := NewGormCustomerDirectory(db)
	ctx := context.Background()

	org := newTestOrganisation(t, "Hôtel des Arts")
	require.NoError(t, orgRepo.Save(ctx, org))

	person := models.IndividualCustomerModel{ID: uuid.New(), FirstName: "Camille", LastName: "Durand"}
	require.NoError(t, db.Create(&person).Error)

	t.Run("organisation uses its display name", func(t *testing.T) {
		name, err := directory.CustomerName(ctx, trade.CustomerTypeOrganization, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hôtel des Arts", name)
	})

	t.Run("individual joins first and last name", func(t *testing.T) {
		name, err := directory.CustomerName(ctx, trade.CustomerTypeIndividual, person.ID)
		require.NoError(t, err)
		assert.Equal(t, "Camille Durand", name)
	})

	t.Run("unknown customer fails", func(t *testing.T) {
		_, err := directory.CustomerName(ctx, trade.CustomerTypeIndividual, uuid.New())
		assert.Error(t, err)
	})
}
