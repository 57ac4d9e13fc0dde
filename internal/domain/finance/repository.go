package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Filter keys understood by InvoiceRepository.FindAll and Count
const (
	FilterWorkflowStatus = "workflow_status"
	FilterPartnerID      = "partner_id"
	FilterSalesOrderID   = "sales_order_id"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByProviderID(ctx context.Context, providerID string) (*Invoice, error)

	// FindAll lists invoices; Filter.Search matches the document number
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save inserts or updates the invoice and replaces its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock is Save with an optimistic version check
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// SumOutstanding sums total_ttc - amount_paid of finalized and sent invoices
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
}

// CreditNoteRepository defines the interface for credit note persistence
type CreditNoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]CreditNote, error)
	Save(ctx context.Context, creditNote *CreditNote) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*Quote, error)
	Save(ctx context.Context, quote *Quote) error
}
