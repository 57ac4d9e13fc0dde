package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// WorkflowStatus is the local workflow of a provider invoice
type WorkflowStatus string

const (
	WorkflowSynchronized   WorkflowStatus = "synchronized"
	WorkflowDraftValidated WorkflowStatus = "draft_validated"
	WorkflowFinalized      WorkflowStatus = "finalized"
	WorkflowSent           WorkflowStatus = "sent"
	WorkflowPaid           WorkflowStatus = "paid"
)

// IsValid checks if the workflow status is known
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowSynchronized, WorkflowDraftValidated, WorkflowFinalized, WorkflowSent, WorkflowPaid:
		return true
	}
	return false
}

// CanTransitionTo checks if the workflow can move to target
func (s WorkflowStatus) CanTransitionTo(target WorkflowStatus) bool {
	switch s {
	case WorkflowSynchronized:
		return target == WorkflowDraftValidated
	case WorkflowDraftValidated:
		return target == WorkflowFinalized
	case WorkflowFinalized:
		return target == WorkflowSent || target == WorkflowPaid
	case WorkflowSent:
		return target == WorkflowPaid
	}
	return false
}

// IsEditable reports whether invoice content may still change
func (s WorkflowStatus) IsEditable() bool {
	return s == WorkflowSynchronized || s == WorkflowDraftValidated
}

// Fee line titles sent to the billing provider
const (
	ShippingFeeTitle  = "Frais de livraison"
	HandlingFeeTitle  = "Frais de manutention"
	InsuranceFeeTitle = "Frais d'assurance"
)

// InvoiceItem is a line of an invoice or credit note.
// TVARate is a percentage (20 for 20%).
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPriceHT decimal.Decimal `json:"unit_price_ht"`
	TVARate     decimal.Decimal `json:"tva_rate"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
}

// TotalHT returns quantity × unit price
func (i InvoiceItem) TotalHT() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPriceHT)
}

// VAT returns the line VAT
func (i InvoiceItem) VAT() decimal.Decimal {
	return i.TotalHT().Mul(valueobject.PercentToRate(i.TVARate))
}

// Validate checks the line values
func (i InvoiceItem) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return shared.NewDomainError("INVALID_ITEM", "Item description cannot be empty")
	}
	if i.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.UnitPriceHT.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if i.TVARate.IsNegative() || i.TVARate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "VAT rate must be between 0 and 100")
	}
	return nil
}

// InvoiceFees are invoice-level charges excluding VAT. VATRate is a fraction.
type InvoiceFees struct {
	ShippingHT  decimal.Decimal
	HandlingHT  decimal.Decimal
	InsuranceHT decimal.Decimal
	VATRate     decimal.Decimal
}

// Total returns the sum of the fees
func (f InvoiceFees) Total() decimal.Decimal {
	return f.ShippingHT.Add(f.HandlingHT).Add(f.InsuranceHT)
}

// Validate checks fee values
func (f InvoiceFees) Validate() error {
	if f.ShippingHT.IsNegative() || f.HandlingHT.IsNegative() || f.InsuranceHT.IsNegative() {
		return shared.NewDomainError("INVALID_FEES", "Fees cannot be negative")
	}
	if !valueobject.IsRate(f.VATRate) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Fees VAT rate must be between 0 and 1")
	}
	return nil
}

// Totals are the derived amounts of a document
type Totals struct {
	TotalHT   decimal.Decimal
	TVAAmount decimal.Decimal
	TotalTTC  decimal.Decimal
}

// ComputeTotals returns line HT + fees HT, line VAT + fees VAT, and their sum
func ComputeTotals(items []InvoiceItem, fees InvoiceFees) Totals {
	ht := decimal.Zero
	vat := decimal.Zero
	for _, item := range items {
		ht = ht.Add(item.TotalHT())
		vat = vat.Add(item.VAT())
	}
	feesHT := fees.Total()
	ht = valueobject.RoundMoney(ht.Add(feesHT))
	vat = valueobject.RoundMoney(vat.Add(feesHT.Mul(fees.VATRate)))
	return Totals{TotalHT: ht, TVAAmount: vat, TotalTTC: ht.Add(vat)}
}

// VATLine is the base and tax amount for one VAT rate
type VATLine struct {
	Rate   decimal.Decimal `json:"rate"` // percent
	BaseHT decimal.Decimal `json:"base_ht"`
	VAT    decimal.Decimal `json:"vat"`
}

// VATBreakdown groups line and fee amounts by VAT rate, ordered by rate
func VATBreakdown(items []InvoiceItem, fees InvoiceFees) []VATLine {
	byRate := make(map[string]*VATLine)
	add := func(ratePercent, base decimal.Decimal) {
		key := ratePercent.String()
		line, ok := byRate[key]
		if !ok {
			line = &VATLine{Rate: ratePercent, BaseHT: decimal.Zero, VAT: decimal.Zero}
			byRate[key] = line
		}
		line.BaseHT = line.BaseHT.Add(base)
		line.VAT = line.VAT.Add(base.Mul(valueobject.PercentToRate(ratePercent)))
	}
	for _, item := range items {
		add(item.TVARate, item.TotalHT())
	}
	if fees.Total().IsPositive() {
		add(valueobject.RateToPercent(fees.VATRate), fees.Total())
	}

	lines := make([]VATLine, 0, len(byRate))
	for _, line := range byRate {
		lines = append(lines, VATLine{
			Rate:   line.Rate,
			BaseHT: valueobject.RoundMoney(line.BaseHT),
			VAT:    valueobject.RoundMoney(line.VAT),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Rate.LessThan(lines[j].Rate) })
	return lines
}

// InvoiceEdit is the edit buffer of an invoice: a copy of its editable
// state that callers mutate before pushing it to the provider.
type InvoiceEdit struct {
	Items           []InvoiceItem
	Fees            InvoiceFees
	Notes           string
	DueDate         *time.Time
	BillingAddress  valueobject.Address
	ShippingAddress valueobject.Address
}

// Validate checks every line and the fees
func (e InvoiceEdit) Validate() error {
	if len(e.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "An invoice needs at least one item")
	}
	for _, item := range e.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return e.Fees.Validate()
}

// Totals derives the totals of the buffer
func (e InvoiceEdit) Totals() Totals {
	return ComputeTotals(e.Items, e.Fees)
}

// Invoice is the local mirror of an invoice held by the billing provider
type Invoice struct {
	shared.BaseAggregateRoot
	DocumentNumber     string
	DocumentDate       time.Time
	DueDate            *time.Time
	WorkflowStatus     WorkflowStatus
	PartnerID          *uuid.UUID
	SalesOrderID       *uuid.UUID
	Items              []InvoiceItem
	Fees               InvoiceFees
	TotalHT            decimal.Decimal
	TVAAmount          decimal.Decimal
	TotalTTC           decimal.Decimal
	AmountPaid         decimal.Decimal
	Currency           string
	Notes              string
	BillingAddress     valueobject.Address
	ShippingAddress    valueobject.Address
	ProviderInvoiceID  string
	ProviderPDFURL     string
	ProviderPublicURL  string
	PDFStorageKey      string
	SynchronizedAt     *time.Time
	ValidatedToDraftAt *time.Time
	FinalizedAt        *time.Time
	SentAt             *time.Time
	PaidAt             *time.Time
}

// NewSynchronizedInvoice mirrors a provider invoice locally
func NewSynchronizedInvoice(snapshot ProviderInvoice) (*Invoice, error) {
	if snapshot.ID == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_ID", "Provider invoice ID cannot be empty")
	}
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WorkflowStatus:    WorkflowSynchronized,
		AmountPaid:        decimal.Zero,
		Fees:              InvoiceFees{VATRate: valueobject.DefaultVATRate},
	}
	inv.Refresh(snapshot)
	inv.AddDomainEvent(NewInvoiceWorkflowEvent(inv, ""))
	return inv, nil
}

// Refresh copies provider-held fields onto the mirror
func (inv *Invoice) Refresh(snapshot ProviderInvoice) {
	now := time.Now()
	inv.ProviderInvoiceID = snapshot.ID
	inv.DocumentNumber = snapshot.Number
	inv.DocumentDate = snapshot.IssueDate
	inv.DueDate = snapshot.DueDate
	inv.Currency = snapshot.Currency
	if inv.Currency == "" {
		inv.Currency = valueobject.DefaultCurrency
	}
	if snapshot.PDFURL != "" {
		inv.ProviderPDFURL = snapshot.PDFURL
	}
	if snapshot.PublicURL != "" {
		inv.ProviderPublicURL = snapshot.PublicURL
	}
	if len(snapshot.Items) > 0 {
		inv.Items = snapshot.Items
	}
	if snapshot.Fees != nil {
		inv.Fees = *snapshot.Fees
	}
	inv.applyTotals(ComputeTotals(inv.Items, inv.Fees))
	inv.SynchronizedAt = &now
	inv.UpdatedAt = now
}

// EditBuffer returns a deep copy of the editable state
func (inv *Invoice) EditBuffer() InvoiceEdit {
	items := make([]InvoiceItem, len(inv.Items))
	copy(items, inv.Items)
	return InvoiceEdit{
		Items:           items,
		Fees:            inv.Fees,
		Notes:           inv.Notes,
		DueDate:         inv.DueDate,
		BillingAddress:  inv.BillingAddress,
		ShippingAddress: inv.ShippingAddress,
	}
}

// CheckEditable returns INVALID_STATE once the invoice left the editable states
func (inv *Invoice) CheckEditable() error {
	if !inv.WorkflowStatus.IsEditable() {
		return shared.NewDomainError(shared.ErrInvalidState.Code,
			fmt.Sprintf("Invoice cannot be edited in %s status", inv.WorkflowStatus))
	}
	return nil
}

// ApplyEdit stores an edit buffer that the provider accepted and re-derives totals
func (inv *Invoice) ApplyEdit(edit InvoiceEdit) error {
	if err := inv.CheckEditable(); err != nil {
		return err
	}
	if err := edit.Validate(); err != nil {
		return err
	}
	for i := range edit.Items {
		if edit.Items[i].ID == uuid.Nil {
			edit.Items[i].ID = uuid.New()
		}
	}
	inv.Items = edit.Items
	inv.Fees = edit.Fees
	inv.Notes = edit.Notes
	inv.DueDate = edit.DueDate
	inv.BillingAddress = edit.BillingAddress
	inv.ShippingAddress = edit.ShippingAddress
	inv.applyTotals(edit.Totals())
	inv.UpdatedAt = time.Now()
	return nil
}

func (inv *Invoice) applyTotals(t Totals) {
	inv.TotalHT = t.TotalHT
	inv.TVAAmount = t.TVAAmount
	inv.TotalTTC = t.TotalTTC
}

func (inv *Invoice) transition(target WorkflowStatus) (time.Time, error) {
	if !inv.WorkflowStatus.CanTransitionTo(target) {
		return time.Time{}, shared.NewDomainError(shared.ErrInvalidStatusTransition.Code,
			fmt.Sprintf("Cannot move invoice from %s to %s", inv.WorkflowStatus, target))
	}
	from := inv.WorkflowStatus
	now := time.Now()
	inv.WorkflowStatus = target
	inv.UpdatedAt = now
	inv.AddDomainEvent(NewInvoiceWorkflowEvent(inv, from))
	return now, nil
}

// ValidateToDraft confirms the synchronized content as a draft ready to finalize
func (inv *Invoice) ValidateToDraft() error {
	now, err := inv.transition(WorkflowDraftValidated)
	if err != nil {
		return err
	}
	inv.ValidatedToDraftAt = &now
	return nil
}

// MarkFinalized records the provider finalization and its document URLs
func (inv *Invoice) MarkFinalized(snapshot ProviderInvoice) error {
	now, err := inv.transition(WorkflowFinalized)
	if err != nil {
		return err
	}
	inv.FinalizedAt = &now
	if snapshot.Number != "" {
		inv.DocumentNumber = snapshot.Number
	}
	if snapshot.PDFURL != "" {
		inv.ProviderPDFURL = snapshot.PDFURL
	}
	if snapshot.PublicURL != "" {
		inv.ProviderPublicURL = snapshot.PublicURL
	}
	return nil
}

// MarkSent records that the invoice was emailed to the customer
func (inv *Invoice) MarkSent() error {
	now, err := inv.transition(WorkflowSent)
	if err != nil {
		return err
	}
	inv.SentAt = &now
	return nil
}

// MarkPaid records the payment. A zero amount means the full total.
func (inv *Invoice) MarkPaid(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	if amount.IsZero() {
		amount = inv.TotalTTC
	}
	now, err := inv.transition(WorkflowPaid)
	if err != nil {
		return err
	}
	inv.AmountPaid = amount
	inv.PaidAt = &now
	return nil
}

// Outstanding returns total_ttc minus amount_paid, never below zero
func (inv *Invoice) Outstanding() decimal.Decimal {
	rest := inv.TotalTTC.Sub(inv.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// VATBreakdown groups the invoice amounts by VAT rate
func (inv *Invoice) VATBreakdown() []VATLine {
	return VATBreakdown(inv.Items, inv.Fees)
}
