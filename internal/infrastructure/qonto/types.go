package qonto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of date-only fields
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC day
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts a date or an RFC 3339 timestamp
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("qonto: invalid date %q", s)
}

// Amount is a monetary value. Qonto returns amounts either as plain
// numbers or as {"value": "12.50", "currency": "EUR"} objects.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// UnmarshalJSON accepts both representations
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain Amount
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*a = Amount(p)
		return nil
	}
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	return a.Value.UnmarshalJSON(data)
}

// Item is a document line in the Qonto schema
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   Amount `json:"unit_price"`
	VATRate     string `json:"vat_rate"`
}

// ClientInvoice is a client invoice resource
type ClientInvoice struct {
	ID              string `json:"id"`
	InvoiceNumber   string `json:"invoice_number"`
	Number          string `json:"number"`
	Status          string `json:"status"`
	Currency        string `json:"currency"`
	ClientID        string `json:"client_id"`
	IssueDate       Date   `json:"issue_date"`
	DueDate         Date   `json:"due_date"`
	PaymentDeadline Date   `json:"payment_deadline"`
	TotalAmount     Amount `json:"total_amount"`
	Items           []Item `json:"items"`
	AttachmentID    string `json:"attachment_id"`
	PDFURL          string `json:"pdf_url"`
	PublicURL       string `json:"public_url"`
}

// DocumentNumber returns the invoice number, whichever field carries it
func (i ClientInvoice) DocumentNumber() string {
	if i.InvoiceNumber != "" {
		return i.InvoiceNumber
	}
	return i.Number
}

// Due returns the due date, whichever field carries it
func (i ClientInvoice) Due() *time.Time {
	for _, d := range []Date{i.DueDate, i.PaymentDeadline} {
		if !d.IsZero() {
			t := d.Time
			return &t
		}
	}
	return nil
}

// UpdateInvoiceRequest is the PATCH body of a draft invoice
type UpdateInvoiceRequest struct {
	Items   []Item `json:"items,omitempty"`
	DueDate *Date  `json:"due_date,omitempty"`
	Footer  string `json:"footer,omitempty"`
}

// MarkPaidRequest is the body of mark_as_paid
type MarkPaidRequest struct {
	PaidAt Date `json:"paid_at"`
}

// CreditNote is a client credit note resource
type CreditNote struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Status       string `json:"status"`
	InvoiceID    string `json:"invoice_id"`
	AttachmentID string `json:"attachment_id"`
	PDFURL       string `json:"pdf_url"`
}

// CreateCreditNoteRequest is the body of a credit note creation
type CreateCreditNoteRequest struct {
	InvoiceID string `json:"invoice_id"`
	ClientID  string `json:"client_id,omitempty"`
	IssueDate Date   `json:"issue_date"`
	Reason    string `json:"reason,omitempty"`
	Items     []Item `json:"items"`
}

// Quote is a quote resource
type Quote struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Status       string `json:"status"`
	AttachmentID string `json:"attachment_id"`
	PDFURL       string `json:"pdf_url"`
	QuoteURL     string `json:"quote_url"`
}

// CreateQuoteRequest is the body of a quote creation
type CreateQuoteRequest struct {
	ClientID   string `json:"client_id,omitempty"`
	IssueDate  Date   `json:"issue_date"`
	ExpiryDate Date   `json:"expiry_date"`
	Currency   string `json:"currency"`
	Items      []Item `json:"items"`
}

// Attachment is a stored file
type Attachment struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"file_content_type"`
	URL         string `json:"url"`
}

// BankAccount is a bank account of the organization
type BankAccount struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	IBAN    string          `json:"iban"`
	Balance decimal.Decimal `json:"balance"`
	Status  string          `json:"status"`
}
