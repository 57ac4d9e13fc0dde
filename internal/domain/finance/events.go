package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInvoice    = "Invoice"
	AggregateTypeCreditNote = "CreditNote"
)

// Event type constants
const (
	EventTypeInvoiceWorkflowChanged = "InvoiceWorkflowChanged"
	EventTypeCreditNoteFinalized    = "CreditNoteFinalized"
)

// InvoiceWorkflowEvent is raised when an invoice is mirrored or changes workflow status
type InvoiceWorkflowEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	From      WorkflowStatus  `json:"from,omitempty"`
	To        WorkflowStatus  `json:"to"`
	TotalTTC  decimal.Decimal `json:"total_ttc"`
}

// NewInvoiceWorkflowEvent creates a new InvoiceWorkflowEvent
func NewInvoiceWorkflowEvent(inv *Invoice, from WorkflowStatus) *InvoiceWorkflowEvent {
	return &InvoiceWorkflowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceWorkflowChanged, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Number:          inv.DocumentNumber,
		From:            from,
		To:              inv.WorkflowStatus,
		TotalTTC:        inv.TotalTTC,
	}
}

// CreditNoteFinalizedEvent is raised when a credit note is finalized
type CreditNoteFinalizedEvent struct {
	shared.BaseDomainEvent
	CreditNoteID uuid.UUID       `json:"credit_note_id"`
	InvoiceID    uuid.UUID       `json:"invoice_id"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
}

// NewCreditNoteFinalizedEvent creates a new CreditNoteFinalizedEvent
func NewCreditNoteFinalizedEvent(c *CreditNote) *CreditNoteFinalizedEvent {
	return &CreditNoteFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditNoteFinalized, AggregateTypeCreditNote, c.ID),
		CreditNoteID:    c.ID,
		InvoiceID:       c.InvoiceID,
		TotalTTC:        c.TotalTTC,
	}
}
