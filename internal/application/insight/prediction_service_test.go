package insight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/catalog"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/insight"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
)

// MockSalesOrderRepository is a mock implementation of trade.SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) NextOrderSequence(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

func (m *MockSalesOrderRepository) SumTotalTTCByCustomers(ctx context.Context, customerIDs []uuid.UUID, excluded []trade.OrderStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, customerIDs, excluded)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSalesOrderRepository) Summarize(ctx context.Context, from, to time.Time, excluded []trade.OrderStatus) (trade.OrderSummary, error) {
	args := m.Called(ctx, from, to, excluded)
	return args.Get(0).(trade.OrderSummary), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByProviderID(ctx context.Context, providerID string) (*finance.Invoice, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) SaveWithLock(ctx context.Context, collection *catalog.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCollectionRepository) RecordShare(ctx context.Context, collection *catalog.Collection, share *catalog.CollectionShare) error {
	return m.Called(ctx, collection, share).Error(0)
}

func (m *MockCollectionRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockContractRepository is a mock implementation of rental.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]rental.Contract), args.Error(1)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	return m.Called(ctx, contract).Error(0)
}

func (m *MockContractRepository) SaveWithLock(ctx context.Context, contract *rental.Contract) error {
	return m.Called(ctx, contract).Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContractRepository) FindOverlapping(ctx context.Context, target rental.Target, start, end time.Time, excludeID *uuid.UUID) ([]rental.Contract, error) {
	args := m.Called(ctx, target, start, end, excludeID)
	return args.Get(0).([]rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAllForStatistics(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]rental.Contract), args.Error(1)
}

// MockSnapshotCache is a mock implementation of insight.SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context) (*insight.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*insight.Snapshot), args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, snapshot *insight.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) ObserveSummary(s insight.BusinessSummary) {
	m.Called(s)
}

func (m *MockMetricsRecorder) ObservePredictionRun(published int, err error) {
	m.Called(published, err)
}

var fixedNow = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type predictionFixture struct {
	orders      *MockSalesOrderRepository
	invoices    *MockInvoiceRepository
	collections *MockCollectionRepository
	contracts   *MockContractRepository
}

func newPredictionFixture() *predictionFixture {
	return &predictionFixture{
		orders:      new(MockSalesOrderRepository),
		invoices:    new(MockInvoiceRepository),
		collections: new(MockCollectionRepository),
		contracts:   new(MockContractRepository),
	}
}

func (f *predictionFixture) service(opts ...PredictionServiceOption) *PredictionService {
	svc := NewPredictionService(f.orders, f.invoices, f.collections, f.contracts, nil, opts...)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// stubActivity answers every aggregate query with a declining month
func (f *predictionFixture) stubActivity() {
	start := fixedNow.Add(-insight.SummaryWindow)
	excluded := trade.NonRevenueStatuses()
	f.orders.On("Summarize", mock.Anything, start, fixedNow, excluded).Return(trade.OrderSummary{
		OrdersCount:     40,
		RevenueTTC:      dec("840"),
		RevenueHT:       dec("700"),
		TotalCommission: dec("50"),
	}, nil)
	f.orders.On("Summarize", mock.Anything, start.Add(-insight.SummaryWindow), start, excluded).Return(trade.OrderSummary{
		OrdersCount: 50,
		RevenueHT:   dec("1000"),
	}, nil)
	f.invoices.On("SumOutstanding", mock.Anything).Return(dec("100"), nil)
	f.collections.On("CountActive", mock.Anything).Return(int64(12), nil)
	f.contracts.On("FindAllForStatistics", mock.Anything, mock.Anything).Return([]rental.Contract{
		{StartDate: fixedNow.AddDate(0, -1, 0), EndDate: fixedNow.AddDate(0, 1, 0)},
		{StartDate: fixedNow.AddDate(-1, 0, 0), EndDate: fixedNow.AddDate(0, -2, 0)},
	}, nil)
}

func TestPredictionService_ComputeSummary(t *testing.T) {
	f := newPredictionFixture()
	f.stubActivity()

	summary, err := f.service().ComputeSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), summary.OrdersCount)
	assert.Equal(t, "21.00", summary.AverageBasket.StringFixed(2))
	assert.Equal(t, "1000", summary.PreviousRevenueHT.String())
	assert.Equal(t, "100", summary.OpenInvoicesAmount.String())
	assert.Equal(t, int64(12), summary.ActiveCollections)
	assert.Equal(t, int64(1), summary.ActiveContracts)
	assert.Equal(t, int64(2), summary.TotalContracts)
	assert.Equal(t, fixedNow.Add(-insight.SummaryWindow), summary.PeriodStart)
}

func TestPredictionService_Run(t *testing.T) {
	t.Run("publishes ordered predictions", func(t *testing.T) {
		f := newPredictionFixture()
		f.stubActivity()
		cache := new(MockSnapshotCache)
		metrics := new(MockMetricsRecorder)
		svc := f.service(WithSnapshotCache(cache), WithMetrics(metrics))

		cache.On("Get", mock.Anything).Return(nil, nil)
		cache.On("Set", mock.Anything, mock.AnythingOfType("*insight.Snapshot")).Return(nil)
		metrics.On("ObserveSummary", mock.AnythingOfType("insight.BusinessSummary")).Return()
		metrics.On("ObservePredictionRun", mock.AnythingOfType("int"), nil).Return()

		snapshot, err := svc.Run(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, snapshot.Predictions)
		assert.Equal(t, insight.PredictionTypeRevenue, snapshot.Predictions[0].Type)
		assert.Equal(t, insight.ImpactCritical, snapshot.Predictions[0].Impact)
		for i := 1; i < len(snapshot.Predictions); i++ {
			assert.GreaterOrEqual(t, snapshot.Predictions[i-1].Score(), snapshot.Predictions[i].Score())
		}
		assert.Equal(t, fixedNow, snapshot.GeneratedAt)

		cache.AssertCalled(t, "Set", mock.Anything, snapshot)
		metrics.AssertCalled(t, "ObservePredictionRun", len(snapshot.Predictions), nil)
	})

	t.Run("records failures", func(t *testing.T) {
		f := newPredictionFixture()
		cache := new(MockSnapshotCache)
		metrics := new(MockMetricsRecorder)
		svc := f.service(WithSnapshotCache(cache), WithMetrics(metrics))
		dbErr := errors.New("connection refused")
		f.orders.On("Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(trade.OrderSummary{}, dbErr)
		metrics.On("ObservePredictionRun", 0, mock.Anything).Return()

		_, err := svc.Run(context.Background())
		require.ErrorIs(t, err, dbErr)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
		metrics.AssertNotCalled(t, "ObserveSummary", mock.Anything)
	})

	t.Run("carries unexpired predictions over", func(t *testing.T) {
		f := newPredictionFixture()
		f.orders.On("Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(trade.OrderSummary{}, nil)
		f.invoices.On("SumOutstanding", mock.Anything).Return(decimal.Zero, nil)
		f.collections.On("CountActive", mock.Anything).Return(int64(0), nil)
		f.contracts.On("FindAllForStatistics", mock.Anything, mock.Anything).Return([]rental.Contract{}, nil)

		makeRule := func(pt insight.PredictionType, validFor time.Duration) insight.Rule {
			return func(_ insight.BusinessSummary, now time.Time) (insight.Prediction, bool) {
				return insight.Prediction{
					ID: uuid.New(), Type: pt, Impact: insight.ImpactMedium, Confidence: 0.5,
					CreatedAt: now, ValidUntil: now.Add(validFor),
				}, true
			}
		}
		svc := f.service(WithRules(
			makeRule(insight.PredictionTypeStability, time.Hour),
			makeRule(insight.PredictionTypeOperational, 3*time.Hour),
		))
		_, err := svc.Run(context.Background())
		require.NoError(t, err)

		svc.rules = []insight.Rule{makeRule(insight.PredictionTypeRevenue, time.Hour)}
		svc.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
		snapshot, err := svc.Run(context.Background())
		require.NoError(t, err)

		types := make([]insight.PredictionType, len(snapshot.Predictions))
		for i, p := range snapshot.Predictions {
			types[i] = p.Type
		}
		assert.ElementsMatch(t, []insight.PredictionType{insight.PredictionTypeRevenue, insight.PredictionTypeOperational}, types)
	})
}

func TestPredictionService_Reads(t *testing.T) {
	t.Run("serves the cached snapshot without running", func(t *testing.T) {
		f := newPredictionFixture()
		cache := new(MockSnapshotCache)
		svc := f.service(WithSnapshotCache(cache))

		summary := insight.NewBusinessSummary(fixedNow)
		summary.OrdersCount = 3
		summary.RevenueHT = dec("900")
		summary.PreviousRevenueHT = dec("1000")
		cache.On("Get", mock.Anything).Return(&insight.Snapshot{Summary: summary, GeneratedAt: fixedNow}, nil).Once()

		resp, err := svc.Summary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.OrdersCount)
		require.NotNil(t, resp.RevenueGrowth)
		assert.Equal(t, "-0.1", resp.RevenueGrowth.String())

		_, err = svc.Summary(context.Background())
		require.NoError(t, err)
		cache.AssertNumberOfCalls(t, "Get", 1)
		f.orders.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("runs on first read without a snapshot", func(t *testing.T) {
		f := newPredictionFixture()
		f.stubActivity()
		svc := f.service()

		resp, err := svc.Summary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(40), resp.OrdersCount)
		assert.Equal(t, "50", resp.OccupancyRate.String())
	})

	t.Run("filters and prunes predictions", func(t *testing.T) {
		f := newPredictionFixture()
		svc := f.service()
		svc.latest = &insight.Snapshot{
			GeneratedAt: fixedNow,
			Predictions: []insight.Prediction{
				{Title: "critical", Impact: insight.ImpactCritical, ValidUntil: fixedNow.Add(time.Hour)},
				{Title: "expired", Impact: insight.ImpactHigh, ValidUntil: fixedNow.Add(-time.Minute)},
				{Title: "high", Impact: insight.ImpactHigh, ValidUntil: fixedNow.Add(time.Hour)},
				{Title: "high-2", Impact: insight.ImpactHigh, ValidUntil: fixedNow.Add(time.Hour)},
			},
		}

		all, err := svc.Predictions(context.Background(), PredictionFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, all.Total)

		high, err := svc.Predictions(context.Background(), PredictionFilter{Impact: "high", Limit: 1})
		require.NoError(t, err)
		require.Len(t, high.Predictions, 1)
		assert.Equal(t, "high", high.Predictions[0].Title)
	})
}

func TestPredictionService_Task(t *testing.T) {
	f := newPredictionFixture()
	f.stubActivity()
	svc := f.service()

	require.NoError(t, svc.Task()(context.Background()))
	assert.NotNil(t, svc.latest)
}
