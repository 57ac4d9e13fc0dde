package finance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/scheduler"
)

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

// MockCreditNoteRepository is a mock implementation of finance.CreditNoteRepository
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

// MockQuoteRepository is a mock implementation of finance.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*finance.Quote, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *finance.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

// MockBillingProvider is a mock implementation of finance.BillingProvider
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

// MockDocumentFetcher is a mock implementation of DocumentFetcher
type MockDocumentFetcher struct {
	mock.Mock
}

func (m *MockDocumentFetcher) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// recordingJobs keeps submitted tasks so tests can run them explicitly
type recordingJobs struct {
	mu    sync.Mutex
	names []string
	tasks []scheduler.TaskFunc
}

func (r *recordingJobs) Submit(name string, task scheduler.TaskFunc) (*scheduler.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.tasks = append(r.tasks, task)
	return scheduler.NewJob(name, task, 0), nil
}

func (r *recordingJobs) runAll(ctx context.Context) error {
	r.mu.Lock()
	tasks := append([]scheduler.TaskFunc(nil), r.tasks...)
	r.mu.Unlock()
	for _, task := range tasks {
		if err := task(ctx); err != nil {
			return err
		}
	}
	return nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
