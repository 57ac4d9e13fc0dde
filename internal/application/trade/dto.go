package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
	"github.com/verone/backoffice/internal/domain/trade"
)

// ==================== LinkMe Order DTOs ====================

// FeesInput carries order-level fees, all excluding VAT
type FeesInput struct {
	ShippingHT  decimal.Decimal  `json:"shipping_cost_ht"`
	InsuranceHT decimal.Decimal  `json:"insurance_cost_ht"`
	HandlingHT  decimal.Decimal  `json:"handling_cost_ht"`
	TaxRate     *decimal.Decimal `json:"fees_vat_rate"` // fraction, defaults to 0.20
}

func (f FeesInput) toDomain() trade.Fees {
	fees := trade.DefaultFees()
	fees.ShippingHT = f.ShippingHT
	fees.InsuranceHT = f.InsuranceHT
	fees.HandlingHT = f.HandlingHT
	if f.TaxRate != nil {
		fees.TaxRate = *f.TaxRate
	}
	return fees
}

// OrderItemInput represents a line in the create order request
type OrderItemInput struct {
	ProductID        uuid.UUID        `json:"product_id" binding:"required"`
	ProductName      string           `json:"product_name" binding:"max=200"`
	SKU              string           `json:"sku" binding:"max=100"`
	Quantity         int              `json:"quantity" binding:"required,min=1"`
	UnitPriceHT      decimal.Decimal  `json:"unit_price_ht"`
	BasePriceHT      decimal.Decimal  `json:"base_price_ht"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	RetrocessionRate decimal.Decimal  `json:"retrocession_rate"`
	SelectionItemID  *uuid.UUID       `json:"selection_item_id"`
}

func (i OrderItemInput) toDomain() trade.ItemInput {
	return trade.ItemInput{
		ProductID:        i.ProductID,
		ProductName:      i.ProductName,
		SKU:              i.SKU,
		Quantity:         i.Quantity,
		UnitPriceHT:      i.UnitPriceHT,
		BasePriceHT:      i.BasePriceHT,
		TaxRate:          i.TaxRate,
		RetrocessionRate: i.RetrocessionRate,
		SelectionItemID:  i.SelectionItemID,
	}
}

// CreateLinkMeOrderRequest represents a request to create a LinkMe order
type CreateLinkMeOrderRequest struct {
	CustomerType    string               `json:"customer_type" binding:"required,oneof=organization individual"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	AffiliateID     uuid.UUID            `json:"affiliate_id" binding:"required"`
	Items           []OrderItemInput     `json:"items" binding:"required,min=1,dive"`
	Fees            FeesInput            `json:"fees"`
	Notes           string               `json:"notes" binding:"max=2000"`
	ShippingAddress *valueobject.Address `json:"shipping_address"`
	CreatedBy       *uuid.UUID           `json:"-"`
}

// OrderItemChange updates quantity and/or unit price of an existing line
type OrderItemChange struct {
	ItemID      uuid.UUID        `json:"item_id" binding:"required"`
	Quantity    *int             `json:"quantity" binding:"omitempty,min=1"`
	UnitPriceHT *decimal.Decimal `json:"unit_price_ht"`
}

// UpdateLinkMeOrderRequest represents a request to update a draft or validated order
type UpdateLinkMeOrderRequest struct {
	Notes           *string              `json:"notes" binding:"omitempty,max=2000"`
	Fees            *FeesInput           `json:"fees"`
	Items           []OrderItemChange    `json:"items" binding:"omitempty,dive"`
	ShippingAddress *valueobject.Address `json:"shipping_address"`
}

func (r UpdateLinkMeOrderRequest) toChanges(current trade.Fees) trade.OrderChanges {
	changes := trade.OrderChanges{
		Notes:   r.Notes,
		Address: r.ShippingAddress,
	}
	if r.Fees != nil {
		fees := r.Fees.toDomain()
		if r.Fees.TaxRate == nil {
			fees.TaxRate = current.TaxRate
		}
		changes.Fees = &fees
	}
	for _, item := range r.Items {
		changes.Items = append(changes.Items, trade.ItemChange{
			ItemID:      item.ItemID,
			Quantity:    item.Quantity,
			UnitPriceHT: item.UnitPriceHT,
		})
	}
	return changes
}

// ShipOrderRequest represents a full or partial shipment
type ShipOrderRequest struct {
	Partial bool `json:"partial"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdatePaymentStatusRequest moves the payment status of an order
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending partial paid overdue refunded"`
}

// OrderListFilter represents filter options for LinkMe order list
type OrderListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" binding:"omitempty,oneof=draft validated partially_shipped shipped delivered cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial paid overdue refunded"`
	CustomerType  string     `form:"customer_type" binding:"omitempty,oneof=organization individual"`
	AffiliateID   *uuid.UUID `form:"affiliate_id"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	ProductName        string          `json:"product_name"`
	SKU                string          `json:"sku"`
	Quantity           int             `json:"quantity"`
	UnitPriceHT        decimal.Decimal `json:"unit_price_ht"`
	BasePriceHT        decimal.Decimal `json:"base_price_ht"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	TotalHT            decimal.Decimal `json:"total_ht"`
	RetrocessionRate   decimal.Decimal `json:"retrocession_rate"`
	RetrocessionAmount decimal.Decimal `json:"retrocession_amount"`
	SelectionItemID    *uuid.UUID      `json:"selection_item_id,omitempty"`
}

// OrderResponse represents a LinkMe order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	ChannelID       uuid.UUID           `json:"channel_id"`
	CustomerType    string              `json:"customer_type"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	AffiliateID     *uuid.UUID          `json:"affiliate_id,omitempty"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	ShippingHT      decimal.Decimal     `json:"shipping_cost_ht"`
	InsuranceHT     decimal.Decimal     `json:"insurance_cost_ht"`
	HandlingHT      decimal.Decimal     `json:"handling_cost_ht"`
	FeesTaxRate     decimal.Decimal     `json:"fees_vat_rate"`
	TotalHT         decimal.Decimal     `json:"total_ht"`
	TotalTVA        decimal.Decimal     `json:"total_tva"`
	TotalTTC        decimal.Decimal     `json:"total_ttc"`
	Commission      trade.Commission    `json:"commission"`
	Notes           string              `json:"notes,omitempty"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	Items           []OrderItemResponse `json:"items"`
	ValidatedAt     *time.Time          `json:"validated_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *trade.SalesOrder, customerName string) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			SKU:                item.SKU,
			Quantity:           item.Quantity,
			UnitPriceHT:        item.UnitPriceHT,
			BasePriceHT:        item.BasePriceHT,
			TaxRate:            item.TaxRate,
			TotalHT:            item.TotalHT(),
			RetrocessionRate:   item.RetrocessionRate,
			RetrocessionAmount: item.RetrocessionAmount,
			SelectionItemID:    item.SelectionItemID,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		ChannelID:       o.ChannelID,
		CustomerType:    string(o.CustomerType),
		CustomerID:      o.CustomerID,
		CustomerName:    customerName,
		AffiliateID:     o.AffiliateID,
		Status:          o.Status.String(),
		PaymentStatus:   string(o.PaymentStatus),
		ShippingHT:      o.Fees.ShippingHT,
		InsuranceHT:     o.Fees.InsuranceHT,
		HandlingHT:      o.Fees.HandlingHT,
		FeesTaxRate:     o.Fees.TaxRate,
		TotalHT:         o.TotalHT,
		TotalTVA:        o.TotalTVA,
		TotalTTC:        o.TotalTTC,
		Commission:      o.Commission(),
		Notes:           o.Notes,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		ValidatedAt:     o.ValidatedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// CommissionResponse is the affiliate earning on an order
type CommissionResponse struct {
	OrderID         uuid.UUID       `json:"order_id"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	NetBenefit      decimal.Decimal `json:"net_benefit"`
}
