package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the local invoice mirror.
type InvoiceModel struct {
	AggregateModel
	DocumentNumber     string    `gorm:"type:varchar(50);index"`
	DocumentDate       time.Time `gorm:"not null"`
	DueDate            *time.Time
	WorkflowStatus     finance.WorkflowStatus `gorm:"type:varchar(30);not null;default:'synchronized';index"`
	PartnerID          *uuid.UUID             `gorm:"type:uuid;index"`
	SalesOrderID       *uuid.UUID             `gorm:"type:uuid;index"`
	ShippingCostHT     decimal.Decimal        `gorm:"column:shipping_cost_ht;type:decimal(12,2);not null;default:0"`
	HandlingCostHT     decimal.Decimal        `gorm:"column:handling_cost_ht;type:decimal(12,2);not null;default:0"`
	InsuranceCostHT    decimal.Decimal        `gorm:"column:insurance_cost_ht;type:decimal(12,2);not null;default:0"`
	FeesVATRate        decimal.Decimal        `gorm:"column:fees_vat_rate;type:decimal(5,4);not null;default:0.2"`
	TotalHT            decimal.Decimal        `gorm:"column:total_ht;type:decimal(12,2);not null;default:0"`
	TVAAmount          decimal.Decimal        `gorm:"column:tva_amount;type:decimal(12,2);not null;default:0"`
	TotalTTC           decimal.Decimal        `gorm:"column:total_ttc;type:decimal(12,2);not null;default:0"`
	AmountPaid         decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Currency           string                 `gorm:"type:varchar(3);not null;default:'EUR'"`
	Notes              string                 `gorm:"type:text"`
	BillingAddress     valueobject.Address    `gorm:"type:jsonb"`
	ShippingAddress    valueobject.Address    `gorm:"type:jsonb"`
	QontoInvoiceID     string                 `gorm:"type:varchar(100);uniqueIndex"`
	QontoPDFURL        string                 `gorm:"column:qonto_pdf_url;type:text"`
	QontoPublicURL     string                 `gorm:"column:qonto_public_url;type:text"`
	PDFStorageKey      string                 `gorm:"column:pdf_storage_key;type:varchar(500)"`
	SynchronizedAt     *time.Time
	ValidatedToDraftAt *time.Time
	FinalizedAt        *time.Time
	SentAt             *time.Time
	PaidAt             *time.Time
	Items              []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	items := make([]finance.InvoiceItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &finance.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		DocumentNumber:    m.DocumentNumber,
		DocumentDate:      m.DocumentDate,
		DueDate:           m.DueDate,
		WorkflowStatus:    m.WorkflowStatus,
		PartnerID:         m.PartnerID,
		SalesOrderID:      m.SalesOrderID,
		Items:             items,
		Fees: finance.InvoiceFees{
			ShippingHT:  m.ShippingCostHT,
			HandlingHT:  m.HandlingCostHT,
			InsuranceHT: m.InsuranceCostHT,
			VATRate:     m.FeesVATRate,
		},
		TotalHT:            m.TotalHT,
		TVAAmount:          m.TVAAmount,
		TotalTTC:           m.TotalTTC,
		AmountPaid:         m.AmountPaid,
		Currency:           m.Currency,
		Notes:              m.Notes,
		BillingAddress:     m.BillingAddress,
		ShippingAddress:    m.ShippingAddress,
		ProviderInvoiceID:  m.QontoInvoiceID,
		ProviderPDFURL:     m.QontoPDFURL,
		ProviderPublicURL:  m.QontoPublicURL,
		PDFStorageKey:      m.PDFStorageKey,
		SynchronizedAt:     m.SynchronizedAt,
		ValidatedToDraftAt: m.ValidatedToDraftAt,
		FinalizedAt:        m.FinalizedAt,
		SentAt:             m.SentAt,
		PaidAt:             m.PaidAt,
	}
}

// FromDomain populates the persistence model and its items from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.DocumentNumber = inv.DocumentNumber
	m.DocumentDate = inv.DocumentDate
	m.DueDate = inv.DueDate
	m.WorkflowStatus = inv.WorkflowStatus
	m.PartnerID = inv.PartnerID
	m.SalesOrderID = inv.SalesOrderID
	m.ShippingCostHT = inv.Fees.ShippingHT
	m.HandlingCostHT = inv.Fees.HandlingHT
	m.InsuranceCostHT = inv.Fees.InsuranceHT
	m.FeesVATRate = inv.Fees.VATRate
	m.TotalHT = inv.TotalHT
	m.TVAAmount = inv.TVAAmount
	m.TotalTTC = inv.TotalTTC
	m.AmountPaid = inv.AmountPaid
	m.Currency = inv.Currency
	m.Notes = inv.Notes
	m.BillingAddress = inv.BillingAddress
	m.ShippingAddress = inv.ShippingAddress
	m.QontoInvoiceID = inv.ProviderInvoiceID
	m.QontoPDFURL = inv.ProviderPDFURL
	m.QontoPublicURL = inv.ProviderPublicURL
	m.PDFStorageKey = inv.PDFStorageKey
	m.SynchronizedAt = inv.SynchronizedAt
	m.ValidatedToDraftAt = inv.ValidatedToDraftAt
	m.FinalizedAt = inv.FinalizedAt
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].FromDomain(inv.ID, i+1, inv.Items[i])
	}
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPriceHT decimal.Decimal `gorm:"column:unit_price_ht;type:decimal(12,2);not null"`
	TVARate     decimal.Decimal `gorm:"column:tva_rate;type:decimal(5,2);not null"`
	ProductID   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() finance.InvoiceItem {
	return finance.InvoiceItem{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPriceHT: m.UnitPriceHT,
		TVARate:     m.TVARate,
		ProductID:   m.ProductID,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem.
func (m *InvoiceItemModel) FromDomain(invoiceID uuid.UUID, position int, item finance.InvoiceItem) {
	m.ID = item.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.InvoiceID = invoiceID
	m.Position = position
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPriceHT = item.UnitPriceHT
	m.TVARate = item.TVARate
	m.ProductID = item.ProductID
}

// CreditNoteItems stores credit note lines as a JSON column
type CreditNoteItems []finance.InvoiceItem

// Value implements driver.Valuer
func (c CreditNoteItems) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]finance.InvoiceItem(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *CreditNoteItems) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*c = CreditNoteItems{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into CreditNoteItems", value)
	}
	var items []finance.InvoiceItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = items
	return nil
}

// CreditNoteModel is the persistence model for a credit note.
type CreditNoteModel struct {
	AggregateModel
	InvoiceID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	Number            string                   `gorm:"type:varchar(50)"`
	Status            finance.CreditNoteStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Reason            string                   `gorm:"type:text;not null"`
	Items             CreditNoteItems          `gorm:"type:jsonb"`
	TotalHT           decimal.Decimal          `gorm:"column:total_ht;type:decimal(12,2);not null;default:0"`
	TVAAmount         decimal.Decimal          `gorm:"column:tva_amount;type:decimal(12,2);not null;default:0"`
	TotalTTC          decimal.Decimal          `gorm:"column:total_ttc;type:decimal(12,2);not null;default:0"`
	QontoCreditNoteID string                   `gorm:"type:varchar(100)"`
	QontoPDFURL       string                   `gorm:"column:qonto_pdf_url;type:text"`
	FinalizedAt       *time.Time
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToDomain converts the persistence model to a domain CreditNote.
func (m *CreditNoteModel) ToDomain() *finance.CreditNote {
	return &finance.CreditNote{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		InvoiceID:            m.InvoiceID,
		Number:               m.Number,
		Status:               m.Status,
		Reason:               m.Reason,
		Items:                []finance.InvoiceItem(m.Items),
		TotalHT:              m.TotalHT,
		TVAAmount:            m.TVAAmount,
		TotalTTC:             m.TotalTTC,
		ProviderCreditNoteID: m.QontoCreditNoteID,
		ProviderPDFURL:       m.QontoPDFURL,
		FinalizedAt:          m.FinalizedAt,
	}
}

// FromDomain populates the persistence model from a domain CreditNote.
func (m *CreditNoteModel) FromDomain(c *finance.CreditNote) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.InvoiceID = c.InvoiceID
	m.Number = c.Number
	m.Status = c.Status
	m.Reason = c.Reason
	m.Items = CreditNoteItems(c.Items)
	m.TotalHT = c.TotalHT
	m.TVAAmount = c.TVAAmount
	m.TotalTTC = c.TotalTTC
	m.QontoCreditNoteID = c.ProviderCreditNoteID
	m.QontoPDFURL = c.ProviderPDFURL
	m.FinalizedAt = c.FinalizedAt
}

// QuoteModel is the persistence model for a quote created from an invoice.
type QuoteModel struct {
	AggregateModel
	InvoiceID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Number       string              `gorm:"type:varchar(50)"`
	Status       finance.QuoteStatus `gorm:"type:varchar(30);not null;default:'draft'"`
	IssueDate    time.Time           `gorm:"not null"`
	ExpiryDate   time.Time           `gorm:"not null"`
	TotalTTC     decimal.Decimal     `gorm:"column:total_ttc;type:decimal(12,2);not null;default:0"`
	QontoQuoteID string              `gorm:"type:varchar(100)"`
	PDFURL       string              `gorm:"column:pdf_url;type:text"`
	PublicURL    string              `gorm:"column:public_url;type:text"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
func (m *QuoteModel) ToDomain() *finance.Quote {
	return &finance.Quote{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceID:         m.InvoiceID,
		Number:            m.Number,
		Status:            m.Status,
		IssueDate:         m.IssueDate,
		ExpiryDate:        m.ExpiryDate,
		TotalTTC:          m.TotalTTC,
		ProviderQuoteID:   m.QontoQuoteID,
		PDFURL:            m.PDFURL,
		PublicURL:         m.PublicURL,
	}
}

// FromDomain populates the persistence model from a domain Quote.
func (m *QuoteModel) FromDomain(q *finance.Quote) {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.InvoiceID = q.InvoiceID
	m.Number = q.Number
	m.Status = q.Status
	m.IssueDate = q.IssueDate
	m.ExpiryDate = q.ExpiryDate
	m.TotalTTC = q.TotalTTC
	m.QontoQuoteID = q.ProviderQuoteID
	m.PDFURL = q.PDFURL
	m.PublicURL = q.PublicURL
}
