package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	financeapp "github.com/verone/backoffice/internal/application/finance"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/interfaces/http/dto"
)

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

func syncedTestInvoice(t *testing.T) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewSynchronizedInvoice(finance.ProviderInvoice{
		ID:        "qonto-inv-7",
		Number:    "F-2025-007",
		IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []finance.InvoiceItem{
			{Description: "Table basse chêne", Quantity: decimal.NewFromInt(1), UnitPriceHT: decimal.NewFromInt(450), TVARate: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func finalizedTestInvoice(t *testing.T) *finance.Invoice {
	t.Helper()
	inv := syncedTestInvoice(t)
	require.NoError(t, inv.ValidateToDraft())
	require.NoError(t, inv.MarkFinalized(finance.ProviderInvoice{PDFURL: "https://qonto.test/f-2025-007.pdf"}))
	inv.ClearDomainEvents()
	return inv
}

func newInvoiceRouter(invoices *MockInvoiceRepository, provider *MockBillingProvider) *gin.Engine {
	h := NewInvoiceHandler(
		financeapp.NewInvoiceService(invoices, nil, nil, provider, nil),
		financeapp.NewCreditNoteService(nil, invoices, provider, nil, nil, nil),
	)
	r := gin.New()
	r.PUT("/invoices/:id", h.Update)
	return r
}

func TestInvoiceHandler_Update(t *testing.T) {
	t.Run("finalized invoice is read only", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		provider := new(MockBillingProvider)
		inv := finalizedTestInvoice(t)
		invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

		w := serve(newInvoiceRouter(invoices, provider), http.MethodPut, "/invoices/"+inv.ID.String(),
			`{"notes":"Livraison offerte"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
		provider.AssertNotCalled(t, "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		invoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("synchronized invoice is pushed then saved", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		provider := new(MockBillingProvider)
		inv := syncedTestInvoice(t)
		invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		provider.On("UpdateInvoice", mock.Anything, "qonto-inv-7", mock.Anything, mock.Anything).
			Return(&finance.ProviderInvoice{}, nil)
		invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

		w := serve(newInvoiceRouter(invoices, provider), http.MethodPut, "/invoices/"+inv.ID.String(),
			`{"notes":"Livraison offerte"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Livraison offerte", decodeResponse(t, w).Data.(map[string]any)["notes"])
		provider.AssertExpectations(t)
		invoices.AssertExpectations(t)
	})
}
