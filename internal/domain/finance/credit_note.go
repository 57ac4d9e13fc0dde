package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// CreditNoteStatus is draft until finalized; finalization is irreversible
type CreditNoteStatus string

const (
	CreditNoteStatusDraft     CreditNoteStatus = "draft"
	CreditNoteStatusFinalized CreditNoteStatus = "finalized"
)

// ErrCreditNoteFinalized is returned for any change to a finalized credit note
var ErrCreditNoteFinalized = shared.NewDomainError("CREDIT_NOTE_FINALIZED", "Credit note is finalized and can no longer change")

// ErrConfirmationRequired is returned when an irreversible action is not confirmed
var ErrConfirmationRequired = shared.NewDomainError("CONFIRMATION_REQUIRED", "This action is irreversible and must be confirmed")

// CreditNote cancels all or part of an invoice
type CreditNote struct {
	shared.BaseAggregateRoot
	InvoiceID            uuid.UUID
	Number               string
	Status               CreditNoteStatus
	Reason               string
	Items                []InvoiceItem
	TotalHT              decimal.Decimal
	TVAAmount            decimal.Decimal
	TotalTTC             decimal.Decimal
	ProviderCreditNoteID string
	ProviderPDFURL       string
	FinalizedAt          *time.Time
}

// NewCreditNote creates a draft credit note against an invoice
func NewCreditNote(invoice *Invoice, items []InvoiceItem, reason string) (*CreditNote, error) {
	if invoice == nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice is required")
	}
	if invoice.WorkflowStatus.IsEditable() {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Credit notes can only be issued on finalized invoices")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A credit note needs at least one item")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "A credit note requires a reason")
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}

	totals := ComputeTotals(items, InvoiceFees{VATRate: valueobject.DefaultVATRate})
	if totals.TotalTTC.GreaterThan(invoice.TotalTTC) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit note cannot exceed the invoice total")
	}

	cn := &CreditNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoice.ID,
		Status:            CreditNoteStatusDraft,
		Reason:            reason,
		Items:             items,
		TotalHT:           totals.TotalHT,
		TVAAmount:         totals.TVAAmount,
		TotalTTC:          totals.TotalTTC,
	}
	return cn, nil
}

// AttachProvider records the provider draft created for this credit note
func (c *CreditNote) AttachProvider(p ProviderCreditNote) {
	c.ProviderCreditNoteID = p.ID
	c.Number = p.Number
	c.ProviderPDFURL = p.PDFURL
	c.UpdatedAt = time.Now()
}

// IsFinalized reports whether the credit note has been finalized
func (c *CreditNote) IsFinalized() bool {
	return c.Status == CreditNoteStatusFinalized
}

// Finalize locks the credit note for good
func (c *CreditNote) Finalize(p ProviderCreditNote) error {
	if c.IsFinalized() {
		return ErrCreditNoteFinalized
	}
	now := time.Now()
	c.Status = CreditNoteStatusFinalized
	c.FinalizedAt = &now
	if p.Number != "" {
		c.Number = p.Number
	}
	if p.PDFURL != "" {
		c.ProviderPDFURL = p.PDFURL
	}
	c.UpdatedAt = now
	c.AddDomainEvent(NewCreditNoteFinalizedEvent(c))
	return nil
}

// CheckDeletable allows deletion of drafts only
func (c *CreditNote) CheckDeletable() error {
	if c.IsFinalized() {
		return ErrCreditNoteFinalized
	}
	return nil
}
