package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// QuoteValidity is how long a quote issued from an invoice stays valid
const QuoteValidity = 30 * 24 * time.Hour

// QuoteStatus mirrors the provider quote status
type QuoteStatus string

const (
	QuoteStatusDraft           QuoteStatus = "draft"
	QuoteStatusPendingApproval QuoteStatus = "pending_approval"
	QuoteStatusFinalized       QuoteStatus = "finalized"
	QuoteStatusAccepted        QuoteStatus = "accepted"
	QuoteStatusDeclined        QuoteStatus = "declined"
	QuoteStatusExpired         QuoteStatus = "expired"
)

// ParseQuoteStatus maps a provider status, defaulting to draft
func ParseQuoteStatus(s string) QuoteStatus {
	switch q := QuoteStatus(s); q {
	case QuoteStatusDraft, QuoteStatusPendingApproval, QuoteStatusFinalized,
		QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired:
		return q
	}
	return QuoteStatusDraft
}

// Quote is a provider quote built from an existing invoice
type Quote struct {
	shared.BaseAggregateRoot
	InvoiceID       uuid.UUID
	Number          string
	Status          QuoteStatus
	IssueDate       time.Time
	ExpiryDate      time.Time
	TotalTTC        decimal.Decimal
	ProviderQuoteID string
	PDFURL          string
	PublicURL       string
}

// QuoteDocumentFor prepares the provider payload of a quote copying the invoice lines
func QuoteDocumentFor(invoice *Invoice, clientID string, issueDate time.Time) ProviderDocument {
	expiry := issueDate.Add(QuoteValidity)
	return ProviderDocument{
		InvoiceID:  invoice.ProviderInvoiceID,
		ClientID:   clientID,
		IssueDate:  issueDate,
		ExpiryDate: &expiry,
		Lines:      EditToProviderLines(invoice.EditBuffer(), invoice.Currency),
	}
}

// NewQuoteFromInvoice records a provider quote created from invoice
func NewQuoteFromInvoice(invoice *Invoice, doc ProviderDocument, created ProviderQuote) (*Quote, error) {
	if created.ID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_ID", "Provider quote ID cannot be empty")
	}
	expiry := doc.IssueDate.Add(QuoteValidity)
	if doc.ExpiryDate != nil {
		expiry = *doc.ExpiryDate
	}
	return &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoice.ID,
		Number:            created.Number,
		Status:            ParseQuoteStatus(created.Status),
		IssueDate:         doc.IssueDate,
		ExpiryDate:        expiry,
		TotalTTC:          invoice.TotalTTC,
		ProviderQuoteID:   created.ID,
		PDFURL:            created.PDFURL,
		PublicURL:         created.PublicURL,
	}, nil
}
