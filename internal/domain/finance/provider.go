package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// Provider line units
const (
	UnitPiece   = "piece"
	UnitForfait = "forfait"
)

// ProviderInvoice is the provider-side view of an invoice
type ProviderInvoice struct {
	ID        string
	Number    string
	Status    string
	IssueDate time.Time
	DueDate   *time.Time
	Currency  string
	Items     []InvoiceItem
	Fees      *InvoiceFees
	TotalTTC  decimal.Decimal
	PDFURL    string
	PublicURL string
}

// ProviderLine is an invoice line in the provider schema: amounts as
// decimal strings and the VAT rate as a fraction.
type ProviderLine struct {
	Title     string
	Quantity  string
	Unit      string
	UnitPrice string
	VATRate   string
	Currency  string
}

// ProviderDocument is the payload of a credit note or quote
type ProviderDocument struct {
	InvoiceID  string
	ClientID   string
	IssueDate  time.Time
	ExpiryDate *time.Time
	Reason     string
	Lines      []ProviderLine
}

// ProviderCreditNote is the provider-side view of a credit note
type ProviderCreditNote struct {
	ID     string
	Number string
	Status string
	PDFURL string
}

// ProviderQuote is the provider-side view of a quote
type ProviderQuote struct {
	ID        string
	Number    string
	Status    string
	PDFURL    string
	PublicURL string
}

// BillingProvider is the external invoicing system the invoices mirror
type BillingProvider interface {
	GetInvoice(ctx context.Context, id string) (*ProviderInvoice, error)
	UpdateInvoice(ctx context.Context, id string, lines []ProviderLine, edit InvoiceEdit) (*ProviderInvoice, error)
	FinalizeInvoice(ctx context.Context, id string) (*ProviderInvoice, error)
	SendInvoice(ctx context.Context, id string) error
	MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) (*ProviderInvoice, error)

	CreateCreditNote(ctx context.Context, doc ProviderDocument) (*ProviderCreditNote, error)
	FinalizeCreditNote(ctx context.Context, id string) (*ProviderCreditNote, error)
	DeleteCreditNote(ctx context.Context, id string) error
	GetCreditNote(ctx context.Context, id string) (*ProviderCreditNote, error)

	CreateQuote(ctx context.Context, doc ProviderDocument) (*ProviderQuote, error)
}

// ItemsToProviderLines converts document lines to the provider schema:
// quantity and unit price as decimal strings, unit "piece", VAT as a fraction.
func ItemsToProviderLines(items []InvoiceItem, currency string) []ProviderLine {
	lines := make([]ProviderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, ProviderLine{
			Title:     item.Description,
			Quantity:  item.Quantity.String(),
			Unit:      UnitPiece,
			UnitPrice: item.UnitPriceHT.StringFixed(2),
			VATRate:   valueobject.PercentToRate(item.TVARate).String(),
			Currency:  currency,
		})
	}
	return lines
}

// EditToProviderLines converts an edit buffer to provider lines. Every
// non-zero fee becomes a "forfait" line taxed at the fees VAT rate.
func EditToProviderLines(edit InvoiceEdit, currency string) []ProviderLine {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	lines := ItemsToProviderLines(edit.Items, currency)
	fees := []struct {
		title  string
		amount decimal.Decimal
	}{
		{ShippingFeeTitle, edit.Fees.ShippingHT},
		{HandlingFeeTitle, edit.Fees.HandlingHT},
		{InsuranceFeeTitle, edit.Fees.InsuranceHT},
	}
	for _, fee := range fees {
		if !fee.amount.IsPositive() {
			continue
		}
		lines = append(lines, ProviderLine{
			Title:     fee.title,
			Quantity:  "1",
			Unit:      UnitForfait,
			UnitPrice: fee.amount.StringFixed(2),
			VATRate:   edit.Fees.VATRate.String(),
			Currency:  currency,
		})
	}
	return lines
}

// SplitFeeLines separates forfait fee lines, recognised by their title,
// from product lines. VAT rates of the product items are percentages.
func SplitFeeLines(items []InvoiceItem) ([]InvoiceItem, InvoiceFees, bool) {
	fees := InvoiceFees{VATRate: valueobject.DefaultVATRate}
	products := make([]InvoiceItem, 0, len(items))
	found := false
	for _, item := range items {
		amount := item.TotalHT()
		switch item.Description {
		case ShippingFeeTitle:
			fees.ShippingHT = fees.ShippingHT.Add(amount)
		case HandlingFeeTitle:
			fees.HandlingHT = fees.HandlingHT.Add(amount)
		case InsuranceFeeTitle:
			fees.InsuranceHT = fees.InsuranceHT.Add(amount)
		default:
			products = append(products, item)
			continue
		}
		fees.VATRate = valueobject.PercentToRate(item.TVARate)
		found = true
	}
	return products, fees, found
}
