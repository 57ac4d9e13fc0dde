package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// SyncInvoiceRequest pulls a provider invoice into the local mirror
type SyncInvoiceRequest struct {
	ProviderInvoiceID string     `json:"qonto_invoice_id" binding:"required"`
	PartnerID         *uuid.UUID `json:"partner_id"`
	SalesOrderID      *uuid.UUID `json:"sales_order_id"`
}

// InvoiceItemInput is an invoice or credit note line. TVARate is a percentage.
type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TVARate     decimal.Decimal `json:"tva_rate"`
	ProductID   *uuid.UUID      `json:"product_id"`
}

func toInvoiceItems(inputs []InvoiceItemInput) []finance.InvoiceItem {
	items := make([]finance.InvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = finance.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPriceHT: in.UnitPriceHT,
			TVARate:     in.TVARate,
			ProductID:   in.ProductID,
		}
	}
	return items
}

// InvoiceFeesInput carries invoice fees; VATRate is a fraction
type InvoiceFeesInput struct {
	ShippingHT  decimal.Decimal  `json:"shipping_cost_ht"`
	HandlingHT  decimal.Decimal  `json:"handling_cost_ht"`
	InsuranceHT decimal.Decimal  `json:"insurance_cost_ht"`
	VATRate     *decimal.Decimal `json:"fees_vat_rate"`
}

// UpdateInvoiceRequest edits a synchronized or draft_validated invoice.
// Nil fields are left unchanged; Items replaces every line when set.
type UpdateInvoiceRequest struct {
	Items           []InvoiceItemInput   `json:"items" binding:"omitempty,dive"`
	Fees            *InvoiceFeesInput    `json:"fees"`
	Notes           *string              `json:"notes" binding:"omitempty,max=5000"`
	DueDate         *time.Time           `json:"due_date"`
	BillingAddress  *valueobject.Address `json:"billing_address"`
	ShippingAddress *valueobject.Address `json:"shipping_address"`
}

// applyTo writes the request onto an edit buffer
func (r UpdateInvoiceRequest) applyTo(edit *finance.InvoiceEdit) {
	if r.Items != nil {
		edit.Items = toInvoiceItems(r.Items)
	}
	if r.Fees != nil {
		edit.Fees.ShippingHT = r.Fees.ShippingHT
		edit.Fees.HandlingHT = r.Fees.HandlingHT
		edit.Fees.InsuranceHT = r.Fees.InsuranceHT
		if r.Fees.VATRate != nil {
			edit.Fees.VATRate = *r.Fees.VATRate
		}
	}
	if r.Notes != nil {
		edit.Notes = *r.Notes
	}
	if r.DueDate != nil {
		edit.DueDate = r.DueDate
	}
	if r.BillingAddress != nil {
		edit.BillingAddress = *r.BillingAddress
	}
	if r.ShippingAddress != nil {
		edit.ShippingAddress = *r.ShippingAddress
	}
}

// MarkPaidRequest records a payment. A zero amount means the full total.
type MarkPaidRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paid_at"`
}

// InvoiceListFilter represents filter options for invoice list
type InvoiceListFilter struct {
	Search         string     `form:"search"`
	WorkflowStatus string     `form:"workflow_status" binding:"omitempty,oneof=synchronized draft_validated finalized sent paid"`
	PartnerID      *uuid.UUID `form:"partner_id"`
	SalesOrderID   *uuid.UUID `form:"sales_order_id"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TVARate     decimal.Decimal `json:"tva_rate"`
	TotalHT     decimal.Decimal `json:"total_ht"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID             `json:"id"`
	DocumentNumber     string                `json:"document_number"`
	DocumentDate       time.Time             `json:"document_date"`
	DueDate            *time.Time            `json:"due_date,omitempty"`
	WorkflowStatus     string                `json:"workflow_status"`
	PartnerID          *uuid.UUID            `json:"partner_id,omitempty"`
	SalesOrderID       *uuid.UUID            `json:"sales_order_id,omitempty"`
	Items              []InvoiceItemResponse `json:"items"`
	ShippingHT         decimal.Decimal       `json:"shipping_cost_ht"`
	HandlingHT         decimal.Decimal       `json:"handling_cost_ht"`
	InsuranceHT        decimal.Decimal       `json:"insurance_cost_ht"`
	FeesVATRate        decimal.Decimal       `json:"fees_vat_rate"`
	TotalHT            decimal.Decimal       `json:"total_ht"`
	TVAAmount          decimal.Decimal       `json:"tva_amount"`
	TotalTTC           decimal.Decimal       `json:"total_ttc"`
	AmountPaid         decimal.Decimal       `json:"amount_paid"`
	Outstanding        decimal.Decimal       `json:"outstanding"`
	Currency           string                `json:"currency"`
	Notes              string                `json:"notes,omitempty"`
	BillingAddress     valueobject.Address   `json:"billing_address"`
	ShippingAddress    valueobject.Address   `json:"shipping_address"`
	QontoInvoiceID     string                `json:"qonto_invoice_id"`
	QontoPDFURL        string                `json:"qonto_pdf_url,omitempty"`
	QontoPublicURL     string                `json:"qonto_public_url,omitempty"`
	PDFArchived        bool                  `json:"pdf_archived"`
	SynchronizedAt     *time.Time            `json:"synchronized_at,omitempty"`
	ValidatedToDraftAt *time.Time            `json:"validated_to_draft_at,omitempty"`
	FinalizedAt        *time.Time            `json:"finalized_at,omitempty"`
	SentAt             *time.Time            `json:"sent_at,omitempty"`
	PaidAt             *time.Time            `json:"paid_at,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	Version            int                   `json:"version"`
}

// InvoiceDetailResponse is an invoice with its credit notes and source quote
type InvoiceDetailResponse struct {
	InvoiceResponse
	CreditNotes []CreditNoteResponse `json:"credit_notes"`
	Quote       *QuoteResponse       `json:"quote,omitempty"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                 inv.ID,
		DocumentNumber:     inv.DocumentNumber,
		DocumentDate:       inv.DocumentDate,
		DueDate:            inv.DueDate,
		WorkflowStatus:     string(inv.WorkflowStatus),
		PartnerID:          inv.PartnerID,
		SalesOrderID:       inv.SalesOrderID,
		Items:              toItemResponses(inv.Items),
		ShippingHT:         inv.Fees.ShippingHT,
		HandlingHT:         inv.Fees.HandlingHT,
		InsuranceHT:        inv.Fees.InsuranceHT,
		FeesVATRate:        inv.Fees.VATRate,
		TotalHT:            inv.TotalHT,
		TVAAmount:          inv.TVAAmount,
		TotalTTC:           inv.TotalTTC,
		AmountPaid:         inv.AmountPaid,
		Outstanding:        inv.Outstanding(),
		Currency:           inv.Currency,
		Notes:              inv.Notes,
		BillingAddress:     inv.BillingAddress,
		ShippingAddress:    inv.ShippingAddress,
		QontoInvoiceID:     inv.ProviderInvoiceID,
		QontoPDFURL:        inv.ProviderPDFURL,
		QontoPublicURL:     inv.ProviderPublicURL,
		PDFArchived:        inv.PDFStorageKey != "",
		SynchronizedAt:     inv.SynchronizedAt,
		ValidatedToDraftAt: inv.ValidatedToDraftAt,
		FinalizedAt:        inv.FinalizedAt,
		SentAt:             inv.SentAt,
		PaidAt:             inv.PaidAt,
		CreatedAt:          inv.CreatedAt,
		UpdatedAt:          inv.UpdatedAt,
		Version:            inv.Version,
	}
}

func toItemResponses(items []finance.InvoiceItem) []InvoiceItemResponse {
	out := make([]InvoiceItemResponse, len(items))
	for i, item := range items {
		out[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPriceHT: item.UnitPriceHT,
			TVARate:     item.TVARate,
			TotalHT:     item.TotalHT(),
			ProductID:   item.ProductID,
		}
	}
	return out
}

// VATBreakdownResponse groups invoice amounts by VAT rate
type VATBreakdownResponse struct {
	InvoiceID uuid.UUID         `json:"invoice_id"`
	Lines     []finance.VATLine `json:"lines"`
	TotalHT   decimal.Decimal   `json:"total_ht"`
	TVAAmount decimal.Decimal   `json:"tva_amount"`
	TotalTTC  decimal.Decimal   `json:"total_ttc"`
}

// DocumentURLResponse points to a PDF, archived or provider hosted
type DocumentURLResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Archived  bool       `json:"archived"`
}

// =============================================================================
// Credit note DTOs
// =============================================================================

// CreateCreditNoteRequest creates a draft credit note against an invoice
type CreateCreditNoteRequest struct {
	Items  []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Reason string             `json:"reason" binding:"required,min=1,max=1000"`
}

// FinalizeCreditNoteRequest must carry confirm=true; finalization is irreversible
type FinalizeCreditNoteRequest struct {
	Confirm bool `json:"confirm"`
}

// CreditNoteResponse represents a credit note in API responses
type CreditNoteResponse struct {
	ID                uuid.UUID             `json:"id"`
	InvoiceID         uuid.UUID             `json:"invoice_id"`
	Number            string                `json:"number"`
	Status            string                `json:"status"`
	Reason            string                `json:"reason"`
	Items             []InvoiceItemResponse `json:"items"`
	TotalHT           decimal.Decimal       `json:"total_ht"`
	TVAAmount         decimal.Decimal       `json:"tva_amount"`
	TotalTTC          decimal.Decimal       `json:"total_ttc"`
	QontoCreditNoteID string                `json:"qonto_credit_note_id"`
	QontoPDFURL       string                `json:"qonto_pdf_url,omitempty"`
	FinalizedAt       *time.Time            `json:"finalized_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ToCreditNoteResponse converts a domain credit note to a response
func ToCreditNoteResponse(cn *finance.CreditNote) CreditNoteResponse {
	return CreditNoteResponse{
		ID:                cn.ID,
		InvoiceID:         cn.InvoiceID,
		Number:            cn.Number,
		Status:            string(cn.Status),
		Reason:            cn.Reason,
		Items:             toItemResponses(cn.Items),
		TotalHT:           cn.TotalHT,
		TVAAmount:         cn.TVAAmount,
		TotalTTC:          cn.TotalTTC,
		QontoCreditNoteID: cn.ProviderCreditNoteID,
		QontoPDFURL:       cn.ProviderPDFURL,
		FinalizedAt:       cn.FinalizedAt,
		CreatedAt:         cn.CreatedAt,
		UpdatedAt:         cn.UpdatedAt,
	}
}

// =============================================================================
// Quote DTOs
// =============================================================================

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID           uuid.UUID       `json:"id"`
	InvoiceID    uuid.UUID       `json:"invoice_id"`
	Number       string          `json:"number"`
	Status       string          `json:"status"`
	IssueDate    time.Time       `json:"issue_date"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
	QontoQuoteID string          `json:"qonto_quote_id"`
	PDFURL       string          `json:"pdf_url,omitempty"`
	PublicURL    string          `json:"public_url,omitempty"`
}

// ToQuoteResponse converts a domain quote to a response
func ToQuoteResponse(q *finance.Quote) QuoteResponse {
	return QuoteResponse{
		ID:           q.ID,
		InvoiceID:    q.InvoiceID,
		Number:       q.Number,
		Status:       string(q.Status),
		IssueDate:    q.IssueDate,
		ExpiryDate:   q.ExpiryDate,
		TotalTTC:     q.TotalTTC,
		QontoQuoteID: q.ProviderQuoteID,
		PDFURL:       q.PDFURL,
		PublicURL:    q.PublicURL,
	}
}
