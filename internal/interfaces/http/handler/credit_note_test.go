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
)

type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]finance.CreditNote, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]finance.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) Save(ctx context.Context, creditNote *finance.CreditNote) error {
	return m.Called(ctx, creditNote).Error(0)
}

func (m *MockCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) GetInvoice(ctx context.Context, id string) (*finance.ProviderInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderInvoice), args.Error(1)
}

func (m *MockBillingProvider) UpdateInvoice(ctx context.Context, id string, lines []finance.ProviderLine, edit finance.InvoiceEdit) (*finance.ProviderInvoice, error) {
	args := m.Called(ctx, id, lines, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderInvoice), args.Error(1)
}

func (m *MockBillingProvider) FinalizeInvoice(ctx context.Context, id string) (*finance.ProviderInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderInvoice), args.Error(1)
}

func (m *MockBillingProvider) SendInvoice(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBillingProvider) MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) (*finance.ProviderInvoice, error) {
	args := m.Called(ctx, id, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderInvoice), args.Error(1)
}

func (m *MockBillingProvider) CreateCreditNote(ctx context.Context, doc finance.ProviderDocument) (*finance.ProviderCreditNote, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderCreditNote), args.Error(1)
}

func (m *MockBillingProvider) FinalizeCreditNote(ctx context.Context, id string) (*finance.ProviderCreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderCreditNote), args.Error(1)
}

func (m *MockBillingProvider) DeleteCreditNote(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBillingProvider) GetCreditNote(ctx context.Context, id string) (*finance.ProviderCreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderCreditNote), args.Error(1)
}

func (m *MockBillingProvider) CreateQuote(ctx context.Context, doc finance.ProviderDocument) (*finance.ProviderQuote, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ProviderQuote), args.Error(1)
}

func newCreditNoteRouter(notes *MockCreditNoteRepository, provider *MockBillingProvider) *gin.Engine {
	h := NewCreditNoteHandler(financeapp.NewCreditNoteService(notes, nil, provider, nil, nil, nil))
	r := gin.New()
	r.DELETE("/credit-notes/:id", h.Delete)
	r.POST("/credit-notes/:id/finalize", h.Finalize)
	return r
}

func draftTestCreditNote(t *testing.T) *finance.CreditNote {
	t.Helper()
	cn, err := finance.NewCreditNote(finalizedTestInvoice(t), []finance.InvoiceItem{
		{Description: "Reprise table basse", Quantity: decimal.NewFromInt(1), UnitPriceHT: decimal.NewFromInt(450), TVARate: decimal.NewFromInt(20)},
	}, "Livraison endommagée")
	require.NoError(t, err)
	cn.AttachProvider(finance.ProviderCreditNote{ID: "qonto-cn-7"})
	return cn
}

func finalizedTestCreditNote(t *testing.T) *finance.CreditNote {
	t.Helper()
	cn := draftTestCreditNote(t)
	require.NoError(t, cn.Finalize(finance.ProviderCreditNote{Number: "AV-2025-007"}))
	cn.ClearDomainEvents()
	return cn
}

func TestCreditNoteHandler_Finalize(t *testing.T) {
	t.Run("requires explicit confirmation", func(t *testing.T) {
		for name, body := range map[string]string{
			"empty body":      "",
			"confirm missing": `{}`,
			"confirm false":   `{"confirm":false}`,
		} {
			t.Run(name, func(t *testing.T) {
				notes := new(MockCreditNoteRepository)
				provider := new(MockBillingProvider)

				w := serve(newCreditNoteRouter(notes, provider), http.MethodPost,
					"/credit-notes/"+uuid.New().String()+"/finalize", body)

				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
				assert.Equal(t, finance.ErrConfirmationRequired.Code, decodeResponse(t, w).Error.Code)
				provider.AssertNotCalled(t, "FinalizeCreditNote", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("already finalized conflicts", func(t *testing.T) {
		notes := new(MockCreditNoteRepository)
		provider := new(MockBillingProvider)
		cn := finalizedTestCreditNote(t)
		notes.On("FindByID", mock.Anything, cn.ID).Return(cn, nil)

		w := serve(newCreditNoteRouter(notes, provider), http.MethodPost,
			"/credit-notes/"+cn.ID.String()+"/finalize", `{"confirm":true}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, finance.ErrCreditNoteFinalized.Code, decodeResponse(t, w).Error.Code)
		provider.AssertNotCalled(t, "FinalizeCreditNote", mock.Anything, mock.Anything)
	})
}

func TestCreditNoteHandler_Delete(t *testing.T) {
	t.Run("finalized credit note conflicts", func(t *testing.T) {
		notes := new(MockCreditNoteRepository)
		provider := new(MockBillingProvider)
		cn := finalizedTestCreditNote(t)
		notes.On("FindByID", mock.Anything, cn.ID).Return(cn, nil)

		w := serve(newCreditNoteRouter(notes, provider), http.MethodDelete, "/credit-notes/"+cn.ID.String(), "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, finance.ErrCreditNoteFinalized.Code, decodeResponse(t, w).Error.Code)
		provider.AssertNotCalled(t, "DeleteCreditNote", mock.Anything, mock.Anything)
		notes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("draft is removed at the provider and locally", func(t *testing.T) {
		notes := new(MockCreditNoteRepository)
		provider := new(MockBillingProvider)
		cn := draftTestCreditNote(t)
		notes.On("FindByID", mock.Anything, cn.ID).Return(cn, nil)
		provider.On("DeleteCreditNote", mock.Anything, "qonto-cn-7").Return(nil)
		notes.On("Delete", mock.Anything, cn.ID).Return(nil)

		w := serve(newCreditNoteRouter(notes, provider), http.MethodDelete, "/credit-notes/"+cn.ID.String(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		provider.AssertExpectations(t)
		notes.AssertExpectations(t)
	})
}
