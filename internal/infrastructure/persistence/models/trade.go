package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
	"github.com/verone/backoffice/internal/domain/trade"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate.
type SalesOrderModel struct {
	AggregateModel
	OrderNumber     string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	ChannelID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerType    trade.CustomerType  `gorm:"type:varchar(20);not null"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	AffiliateID     *uuid.UUID          `gorm:"type:uuid;index"`
	Status          trade.OrderStatus   `gorm:"type:varchar(30);not null;default:'draft';index"`
	PaymentStatus   trade.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ShippingCostHT  decimal.Decimal     `gorm:"column:shipping_cost_ht;type:decimal(12,2);not null;default:0"`
	InsuranceCostHT decimal.Decimal     `gorm:"column:insurance_cost_ht;type:decimal(12,2);not null;default:0"`
	HandlingCostHT  decimal.Decimal     `gorm:"column:handling_cost_ht;type:decimal(12,2);not null;default:0"`
	FeesTaxRate     decimal.Decimal     `gorm:"type:decimal(5,4);not null;default:0.2"`
	TotalHT         decimal.Decimal     `gorm:"column:total_ht;type:decimal(12,2);not null;default:0"`
	TotalTVA        decimal.Decimal     `gorm:"column:total_tva;type:decimal(12,2);not null;default:0"`
	TotalTTC        decimal.Decimal     `gorm:"column:total_ttc;type:decimal(12,2);not null;default:0"`
	Notes           string              `gorm:"type:text"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	CreatedBy       *uuid.UUID          `gorm:"type:uuid"`
	ValidatedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string                `gorm:"type:text"`
	Items           []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	items := make([]trade.SalesOrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = *m.Items[i].ToDomain()
	}
	return &trade.SalesOrder{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		ChannelID:         m.ChannelID,
		CustomerType:      m.CustomerType,
		CustomerID:        m.CustomerID,
		AffiliateID:       m.AffiliateID,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		Fees: trade.Fees{
			ShippingHT:  m.ShippingCostHT,
			InsuranceHT: m.InsuranceCostHT,
			HandlingHT:  m.HandlingCostHT,
			TaxRate:     m.FeesTaxRate,
		},
		TotalHT:         m.TotalHT,
		TotalTVA:        m.TotalTVA,
		TotalTTC:        m.TotalTTC,
		Notes:           m.Notes,
		ShippingAddress: m.ShippingAddress,
		CreatedBy:       m.CreatedBy,
		Items:           items,
		ValidatedAt:     m.ValidatedAt,
		ShippedAt:       m.ShippedAt,
		DeliveredAt:     m.DeliveredAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
	}
}

// FromDomain populates the persistence model and its items from a domain SalesOrder.
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.ChannelID = o.ChannelID
	m.CustomerType = o.CustomerType
	m.CustomerID = o.CustomerID
	m.AffiliateID = o.AffiliateID
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.ShippingCostHT = o.Fees.ShippingHT
	m.InsuranceCostHT = o.Fees.InsuranceHT
	m.HandlingCostHT = o.Fees.HandlingHT
	m.FeesTaxRate = o.Fees.TaxRate
	m.TotalHT = o.TotalHT
	m.TotalTVA = o.TotalTVA
	m.TotalTTC = o.TotalTTC
	m.Notes = o.Notes
	m.ShippingAddress = o.ShippingAddress
	m.CreatedBy = o.CreatedBy
	m.ValidatedAt = o.ValidatedAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]SalesOrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
		m.Items[i].OrderID = o.ID
	}
}

// SalesOrderItemModel is the persistence model for a sales order line.
type SalesOrderItemModel struct {
	BaseModel
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName        string          `gorm:"type:varchar(255)"`
	SKU                string          `gorm:"column:sku;type:varchar(100)"`
	Quantity           int             `gorm:"not null"`
	UnitPriceHT        decimal.Decimal `gorm:"column:unit_price_ht;type:decimal(12,2);not null"`
	BasePriceHT        decimal.Decimal `gorm:"column:base_price_ht;type:decimal(12,2);not null;default:0"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.2"`
	RetrocessionRate   decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	RetrocessionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SelectionItemID    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrderItem.
func (m *SalesOrderItemModel) ToDomain() *trade.SalesOrderItem {
	return &trade.SalesOrderItem{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		ProductID:          m.ProductID,
		ProductName:        m.ProductName,
		SKU:                m.SKU,
		Quantity:           m.Quantity,
		UnitPriceHT:        m.UnitPriceHT,
		BasePriceHT:        m.BasePriceHT,
		TaxRate:            m.TaxRate,
		RetrocessionRate:   m.RetrocessionRate,
		RetrocessionAmount: m.RetrocessionAmount,
		SelectionItemID:    m.SelectionItemID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SalesOrderItem.
func (m *SalesOrderItemModel) FromDomain(item *trade.SalesOrderItem) {
	m.ID = item.ID
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
	m.OrderID = item.OrderID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.SKU = item.SKU
	m.Quantity = item.Quantity
	m.UnitPriceHT = item.UnitPriceHT
	m.BasePriceHT = item.BasePriceHT
	m.TaxRate = item.TaxRate
	m.RetrocessionRate = item.RetrocessionRate
	m.RetrocessionAmount = item.RetrocessionAmount
	m.SelectionItemID = item.SelectionItemID
}

// IndividualCustomerModel maps the individual_customers table, read only here.
type IndividualCustomerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Email     string    `gorm:"type:varchar(255)"`
	Phone     string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IndividualCustomerModel) TableName() string {
	return "individual_customers"
}
