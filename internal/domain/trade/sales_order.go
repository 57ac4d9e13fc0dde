package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// LinkMeChannelID identifies the LinkMe affiliate sales channel
var LinkMeChannelID = uuid.MustParse("93c68db1-5a30-4168-89ec-6383152be405")

// UnknownCustomerName is shown when the customer of an order cannot be resolved
const UnknownCustomerName = "Client inconnu"

// CustomerType tells which table the polymorphic customer id points to
type CustomerType string

const (
	CustomerTypeOrganization CustomerType = "organization"
	CustomerTypeIndividual   CustomerType = "individual"
)

// IsValid checks if the customer type is known
func (c CustomerType) IsValid() bool {
	return c == CustomerTypeOrganization || c == CustomerTypeIndividual
}

// OrderStatus represents the fulfilment status of a sales order
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusValidated        OrderStatus = "validated"
	OrderStatusPartiallyShipped OrderStatus = "partially_shipped"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusValidated, OrderStatusPartiallyShipped,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusValidated || target == OrderStatusCancelled
	case OrderStatusValidated:
		return target == OrderStatusPartiallyShipped || target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusPartiallyShipped:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// CountsAsRevenue reports whether orders in this status contribute to revenue
func (s OrderStatus) CountsAsRevenue() bool {
	return s != OrderStatusDraft && s != OrderStatusCancelled
}

// NonRevenueStatuses lists statuses excluded from revenue figures
func NonRevenueStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusDraft, OrderStatusCancelled}
}

// PaymentStatus tracks payment independently from fulfilment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the payment status can move to target
func (p PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch p {
	case PaymentStatusPending:
		return target == PaymentStatusPartial || target == PaymentStatusPaid || target == PaymentStatusOverdue
	case PaymentStatusPartial:
		return target == PaymentStatusPaid || target == PaymentStatusOverdue
	case PaymentStatusOverdue:
		return target == PaymentStatusPartial || target == PaymentStatusPaid
	case PaymentStatusPaid:
		return target == PaymentStatusRefunded
	}
	return false
}

// SalesOrderItem is a line of a LinkMe order
type SalesOrderItem struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	ProductID          uuid.UUID
	ProductName        string
	SKU                string
	Quantity           int
	UnitPriceHT        decimal.Decimal // price charged to the customer, affiliate mark-up included
	BasePriceHT        decimal.Decimal // catalogue price before mark-up
	TaxRate            decimal.Decimal // fraction, 0.2 for 20%
	RetrocessionRate   decimal.Decimal // fraction of the base price paid to the affiliate
	RetrocessionAmount decimal.Decimal
	SelectionItemID    *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ItemInput describes a line to add to an order
type ItemInput struct {
	ProductID        uuid.UUID
	ProductName      string
	SKU              string
	Quantity         int
	UnitPriceHT      decimal.Decimal
	BasePriceHT      decimal.Decimal
	TaxRate          *decimal.Decimal
	RetrocessionRate decimal.Decimal
	SelectionItemID  *uuid.UUID
}

// NewSalesOrderItem validates the input and computes the retrocession
func NewSalesOrderItem(orderID uuid.UUID, in ItemInput) (*SalesOrderItem, error) {
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if in.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPriceHT.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.BasePriceHT.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	if !valueobject.IsRate(in.RetrocessionRate) {
		return nil, shared.NewDomainError("INVALID_RETROCESSION_RATE", "Retrocession rate must be between 0 and 1")
	}
	taxRate := valueobject.DefaultVATRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	if !valueobject.IsRate(taxRate) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}

	now := time.Now()
	item := &SalesOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        in.ProductID,
		ProductName:      strings.TrimSpace(in.ProductName),
		SKU:              strings.TrimSpace(in.SKU),
		Quantity:         in.Quantity,
		UnitPriceHT:      in.UnitPriceHT,
		BasePriceHT:      in.BasePriceHT,
		TaxRate:          taxRate,
		RetrocessionRate: in.RetrocessionRate,
		SelectionItemID:  in.SelectionItemID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	item.recalculate()
	return item, nil
}

// TotalHT returns quantity × unit price
func (i *SalesOrderItem) TotalHT() decimal.Decimal {
	return decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPriceHT)
}

// VAT returns the line VAT, unrounded
func (i *SalesOrderItem) VAT() decimal.Decimal {
	return i.TotalHT().Mul(i.TaxRate)
}

func (i *SalesOrderItem) recalculate() {
	i.RetrocessionAmount = valueobject.RoundMoney(
		decimal.NewFromInt(int64(i.Quantity)).Mul(i.BasePriceHT).Mul(i.RetrocessionRate))
}

// Fees are order-level charges, all excluding VAT
type Fees struct {
	ShippingHT  decimal.Decimal
	InsuranceHT decimal.Decimal
	HandlingHT  decimal.Decimal
	TaxRate     decimal.Decimal
}

// Total returns the sum of the three fees
func (f Fees) Total() decimal.Decimal {
	return f.ShippingHT.Add(f.InsuranceHT).Add(f.HandlingHT)
}

// Validate checks fees are non-negative and the rate is a fraction
func (f Fees) Validate() error {
	if f.ShippingHT.IsNegative() || f.InsuranceHT.IsNegative() || f.HandlingHT.IsNegative() {
		return shared.NewDomainError("INVALID_FEES", "Fees cannot be negative")
	}
	if !valueobject.IsRate(f.TaxRate) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Fees tax rate must be between 0 and 1")
	}
	return nil
}

// DefaultFees returns zero fees at the standard VAT rate
func DefaultFees() Fees {
	return Fees{TaxRate: valueobject.DefaultVATRate}
}

// Commission summarises what the affiliate earns on an order
type Commission struct {
	TotalCommission decimal.Decimal `json:"total_commission"`
	NetBenefit      decimal.Decimal `json:"net_benefit"`
}

// SalesOrder is a customer order placed through a sales channel
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	ChannelID       uuid.UUID
	CustomerType    CustomerType
	CustomerID      uuid.UUID
	AffiliateID     *uuid.UUID
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	Fees            Fees
	TotalHT         decimal.Decimal
	TotalTVA        decimal.Decimal
	TotalTTC        decimal.Decimal
	Notes           string
	ShippingAddress valueobject.Address
	CreatedBy       *uuid.UUID
	Items           []SalesOrderItem
	ValidatedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewLinkMeOrder creates a draft order on the LinkMe channel
func NewLinkMeOrder(orderNumber string, customerType CustomerType, customerID, affiliateID uuid.UUID, fees Fees) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !customerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_TYPE", fmt.Sprintf("Unknown customer type %q", customerType))
	}
	if customerID == uuid.Nil {
		if customerType == CustomerTypeOrganization {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Organisation ID is required for organisation customers")
		}
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Individual customer ID is required for individual customers")
	}
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AFFILIATE", "Affiliate ID is required")
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		ChannelID:         LinkMeChannelID,
		CustomerType:      customerType,
		CustomerID:        customerID,
		AffiliateID:       &affiliateID,
		Status:            OrderStatusDraft,
		PaymentStatus:     PaymentStatusPending,
		Fees:              fees,
		Items:             make([]SalesOrderItem, 0),
	}
	order.recalculateTotals()

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))
	return order, nil
}

// IsEditable reports whether items, fees and notes may still change
func (o *SalesOrder) IsEditable() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusValidated
}

// AddItem appends a line and recomputes totals
func (o *SalesOrder) AddItem(in ItemInput) (*SalesOrderItem, error) {
	if !o.IsEditable() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to an order in %s status", o.Status))
	}
	item, err := NewSalesOrderItem(o.ID, in)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return item, nil
}

// ItemChange updates the quantity and/or unit price of an existing line
type ItemChange struct {
	ItemID      uuid.UUID
	Quantity    *int
	UnitPriceHT *decimal.Decimal
}

// OrderChanges groups the editable fields of an order; nil means unchanged
type OrderChanges struct {
	Notes   *string
	Fees    *Fees
	Items   []ItemChange
	Address *valueobject.Address
}

// ApplyChanges edits a draft or validated order and recomputes totals with
// per-line tax rates and the order fees rate.
func (o *SalesOrder) ApplyChanges(changes OrderChanges) error {
	if !o.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update an order in %s status", o.Status))
	}
	if changes.Fees != nil {
		if err := changes.Fees.Validate(); err != nil {
			return err
		}
	}

	items := make([]SalesOrderItem, len(o.Items))
	copy(items, o.Items)
	now := time.Now()
	for _, change := range changes.Items {
		idx := indexOfItem(items, change.ItemID)
		if idx < 0 {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Order item %s not found", change.ItemID))
		}
		if change.Quantity != nil {
			if *change.Quantity <= 0 {
				return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
			}
			items[idx].Quantity = *change.Quantity
		}
		if change.UnitPriceHT != nil {
			if change.UnitPriceHT.IsNegative() {
				return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
			}
			items[idx].UnitPriceHT = *change.UnitPriceHT
		}
		items[idx].recalculate()
		items[idx].UpdatedAt = now
	}

	o.Items = items
	if changes.Fees != nil {
		o.Fees = *changes.Fees
	}
	if changes.Notes != nil {
		o.Notes = *changes.Notes
	}
	if changes.Address != nil {
		o.ShippingAddress = *changes.Address
	}
	o.recalculateTotals()
	o.UpdatedAt = now
	return nil
}

func indexOfItem(items []SalesOrderItem, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// recalculateTotals derives every total from items and fees.
// Rounding happens once per aggregate figure.
func (o *SalesOrder) recalculateTotals() {
	productsHT := decimal.Zero
	itemsVAT := decimal.Zero
	for i := range o.Items {
		productsHT = productsHT.Add(o.Items[i].TotalHT())
		itemsVAT = itemsVAT.Add(o.Items[i].VAT())
	}
	feesHT := o.Fees.Total()
	feesVAT := feesHT.Mul(o.Fees.TaxRate)

	o.TotalHT = valueobject.RoundMoney(productsHT.Add(feesHT))
	o.TotalTVA = valueobject.RoundMoney(itemsVAT.Add(feesVAT))
	o.TotalTTC = o.TotalHT.Add(o.TotalTVA)
}

// Commission returns Σ retrocession and total_ht minus that sum
func (o *SalesOrder) Commission() Commission {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].RetrocessionAmount)
	}
	total = valueobject.RoundMoney(total)
	return Commission{
		TotalCommission: total,
		NetBenefit:      o.TotalHT.Sub(total),
	}
}

func (o *SalesOrder) transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidStatusTransition.Code,
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, from))
	return nil
}

// Validate moves a draft order to validated. The order needs at least one item.
func (o *SalesOrder) Validate() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot validate an order without items")
	}
	if err := o.transition(OrderStatusValidated); err != nil {
		return err
	}
	o.ValidatedAt = timePtr(o.UpdatedAt)
	return nil
}

// MarkShipped records a full or partial shipment
func (o *SalesOrder) MarkShipped(partial bool) error {
	target := OrderStatusShipped
	if partial {
		target = OrderStatusPartiallyShipped
	}
	if err := o.transition(target); err != nil {
		return err
	}
	if !partial {
		o.ShippedAt = timePtr(o.UpdatedAt)
	}
	return nil
}

// MarkDelivered closes a shipped order
func (o *SalesOrder) MarkDelivered() error {
	if err := o.transition(OrderStatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = timePtr(o.UpdatedAt)
	return nil
}

// Cancel cancels a draft or validated order
func (o *SalesOrder) Cancel(reason string) error {
	if err := o.transition(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelledAt = timePtr(o.UpdatedAt)
	o.CancelReason = strings.TrimSpace(reason)
	return nil
}

// UpdatePaymentStatus moves the payment status along its own lifecycle
func (o *SalesOrder) UpdatePaymentStatus(target PaymentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status %q", target))
	}
	if !o.PaymentStatus.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidStatusTransition.Code,
			fmt.Sprintf("Cannot move payment from %s to %s", o.PaymentStatus, target))
	}
	o.PaymentStatus = target
	o.UpdatedAt = time.Now()
	return nil
}

// FormatOrderNumber renders SO-YYYY-NNNNN
func FormatOrderNumber(year, sequence int) string {
	return fmt.Sprintf("SO-%04d-%05d", year, sequence)
}

// OrderNumberPrefix returns the prefix shared by every order number of a year
func OrderNumberPrefix(year int) string {
	return fmt.Sprintf("SO-%04d-", year)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
