package qonto

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Provider adapts the client to finance.BillingProvider
type Provider struct {
	client *Client
	logger *zap.Logger
}

// NewProvider creates the billing provider
func NewProvider(client *Client, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{client: client, logger: logger}
}

var _ finance.BillingProvider = (*Provider)(nil)

// GetInvoice implements finance.BillingProvider
func (p *Provider) GetInvoice(ctx context.Context, id string) (*finance.ProviderInvoice, error) {
	ci, err := p.client.GetClientInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.toProviderInvoice(ctx, ci)
}

// UpdateInvoice implements finance.BillingProvider
func (p *Provider) UpdateInvoice(ctx context.Context, id string, lines []finance.ProviderLine, edit finance.InvoiceEdit) (*finance.ProviderInvoice, error) {
	items, err := toItems(lines)
	if err != nil {
		return nil, err
	}
	req := UpdateInvoiceRequest{Items: items, Footer: edit.Notes}
	if edit.DueDate != nil {
		due := NewDate(*edit.DueDate)
		req.DueDate = &due
	}

	ci, err := p.client.UpdateClientInvoice(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return p.toProviderInvoice(ctx, ci)
}

// FinalizeInvoice implements finance.BillingProvider
func (p *Provider) FinalizeInvoice(ctx context.Context, id string) (*finance.ProviderInvoice, error) {
	ci, err := p.client.FinalizeClientInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.toProviderInvoice(ctx, ci)
}

// SendInvoice implements finance.BillingProvider
func (p *Provider) SendInvoice(ctx context.Context, id string) error {
	return p.client.SendClientInvoice(ctx, id, nil)
}

// MarkInvoicePaid implements finance.BillingProvider
func (p *Provider) MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) (*finance.ProviderInvoice, error) {
	ci, err := p.client.MarkClientInvoicePaid(ctx, id, paidAt)
	if err != nil {
		return nil, err
	}
	return p.toProviderInvoice(ctx, ci)
}

// CreateCreditNote implements finance.BillingProvider
func (p *Provider) CreateCreditNote(ctx context.Context, doc finance.ProviderDocument) (*finance.ProviderCreditNote, error) {
	items, err := toItems(doc.Lines)
	if err != nil {
		return nil, err
	}
	cn, err := p.client.CreateClientCreditNote(ctx, CreateCreditNoteRequest{
		InvoiceID: doc.InvoiceID,
		ClientID:  doc.ClientID,
		IssueDate: NewDate(doc.IssueDate),
		Reason:    doc.Reason,
		Items:     items,
	})
	if err != nil {
		return nil, err
	}
	return p.toProviderCreditNote(ctx, cn), nil
}

// FinalizeCreditNote implements finance.BillingProvider
func (p *Provider) FinalizeCreditNote(ctx context.Context, id string) (*finance.ProviderCreditNote, error) {
	cn, err := p.client.FinalizeClientCreditNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.toProviderCreditNote(ctx, cn), nil
}

// DeleteCreditNote implements finance.BillingProvider
func (p *Provider) DeleteCreditNote(ctx context.Context, id string) error {
	return p.client.DeleteClientCreditNote(ctx, id)
}

// GetCreditNote implements finance.BillingProvider
func (p *Provider) GetCreditNote(ctx context.Context, id string) (*finance.ProviderCreditNote, error) {
	cn, err := p.client.GetClientCreditNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.toProviderCreditNote(ctx, cn), nil
}

// CreateQuote implements finance.BillingProvider
func (p *Provider) CreateQuote(ctx context.Context, doc finance.ProviderDocument) (*finance.ProviderQuote, error) {
	items, err := toItems(doc.Lines)
	if err != nil {
		return nil, err
	}
	req := CreateQuoteRequest{
		ClientID:  doc.ClientID,
		IssueDate: NewDate(doc.IssueDate),
		Currency:  valueobject.DefaultCurrency,
		Items:     items,
	}
	if doc.ExpiryDate != nil {
		req.ExpiryDate = NewDate(*doc.ExpiryDate)
	}
	if len(doc.Lines) > 0 && doc.Lines[0].Currency != "" {
		req.Currency = doc.Lines[0].Currency
	}

	q, err := p.client.CreateQuote(ctx, req)
	if err != nil {
		return nil, err
	}
	return &finance.ProviderQuote{
		ID:        q.ID,
		Number:    q.Number,
		Status:    q.Status,
		PDFURL:    p.documentURL(ctx, q.PDFURL, q.AttachmentID),
		PublicURL: q.QuoteURL,
	}, nil
}

// Download fetches a provider document
func (p *Provider) Download(ctx context.Context, url string) ([]byte, error) {
	return p.client.Download(ctx, url)
}

// documentURL prefers the direct PDF link and falls back to the attachment URL.
// Attachment lookups are best effort.
func (p *Provider) documentURL(ctx context.Context, pdfURL, attachmentID string) string {
	if pdfURL != "" || attachmentID == "" {
		return pdfURL
	}
	att, err := p.client.GetAttachment(ctx, attachmentID)
	if err != nil {
		p.logger.Warn("Failed to resolve Qonto attachment URL",
			zap.String("attachment_id", attachmentID),
			zap.Error(err),
		)
		return ""
	}
	return att.URL
}

func (p *Provider) toProviderInvoice(ctx context.Context, ci *ClientInvoice) (*finance.ProviderInvoice, error) {
	items := make([]finance.InvoiceItem, 0, len(ci.Items))
	for _, it := range ci.Items {
		item, err := toInvoiceItem(it)
		if err != nil {
			return nil, fmt.Errorf("qonto invoice %s: %w", ci.ID, err)
		}
		items = append(items, item)
	}

	products, fees, hasFees := finance.SplitFeeLines(items)
	out := &finance.ProviderInvoice{
		ID:        ci.ID,
		Number:    ci.DocumentNumber(),
		Status:    ci.Status,
		IssueDate: ci.IssueDate.Time,
		DueDate:   ci.Due(),
		Currency:  ci.Currency,
		Items:     products,
		TotalTTC:  ci.TotalAmount.Value,
		PDFURL:    p.documentURL(ctx, ci.PDFURL, ci.AttachmentID),
		PublicURL: ci.PublicURL,
	}
	if hasFees {
		out.Fees = &fees
	}
	return out, nil
}

func (p *Provider) toProviderCreditNote(ctx context.Context, cn *CreditNote) *finance.ProviderCreditNote {
	return &finance.ProviderCreditNote{
		ID:     cn.ID,
		Number: cn.Number,
		Status: cn.Status,
		PDFURL: p.documentURL(ctx, cn.PDFURL, cn.AttachmentID),
	}
}

// toInvoiceItem converts a provider line; the fractional VAT rate becomes a percentage
func toInvoiceItem(it Item) (finance.InvoiceItem, error) {
	quantity, err := decimal.NewFromString(it.Quantity)
	if err != nil {
		return finance.InvoiceItem{}, fmt.Errorf("invalid quantity %q: %w", it.Quantity, err)
	}
	rate := decimal.Zero
	if it.VATRate != "" {
		rate, err = decimal.NewFromString(it.VATRate)
		if err != nil {
			return finance.InvoiceItem{}, fmt.Errorf("invalid vat rate %q: %w", it.VATRate, err)
		}
	}
	return finance.InvoiceItem{
		ID:          uuid.New(),
		Description: it.Title,
		Quantity:    quantity,
		UnitPriceHT: it.UnitPrice.Value,
		TVARate:     valueobject.RateToPercent(rate),
	}, nil
}

func toItems(lines []finance.ProviderLine) ([]Item, error) {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid unit price %q: %w", line.UnitPrice, err)
		}
		currency := line.Currency
		if currency == "" {
			currency = valueobject.DefaultCurrency
		}
		items = append(items, Item{
			Title:     line.Title,
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			UnitPrice: Amount{Value: price, Currency: currency},
			VATRate:   line.VATRate,
		})
	}
	return items, nil
}
