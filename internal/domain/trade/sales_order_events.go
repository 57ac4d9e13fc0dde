package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSalesOrder = "SalesOrder"

// Event type constants
const (
	EventTypeSalesOrderCreated       = "SalesOrderCreated"
	EventTypeSalesOrderStatusChanged = "SalesOrderStatusChanged"
)

// SalesOrderCreatedEvent is raised when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID    `json:"order_id"`
	OrderNumber  string       `json:"order_number"`
	ChannelID    uuid.UUID    `json:"channel_id"`
	CustomerType CustomerType `json:"customer_type"`
	CustomerID   uuid.UUID    `json:"customer_id"`
	AffiliateID  *uuid.UUID   `json:"affiliate_id,omitempty"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ChannelID:       order.ChannelID,
		CustomerType:    order.CustomerType,
		CustomerID:      order.CustomerID,
		AffiliateID:     order.AffiliateID,
	}
}

// SalesOrderStatusChangedEvent is raised on every fulfilment transition
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerType CustomerType    `json:"customer_type"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	From         OrderStatus     `json:"from"`
	To           OrderStatus     `json:"to"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
}

// NewSalesOrderStatusChangedEvent creates a new SalesOrderStatusChangedEvent
func NewSalesOrderStatusChangedEvent(order *SalesOrder, from OrderStatus) *SalesOrderStatusChangedEvent {
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStatusChanged, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerType:    order.CustomerType,
		CustomerID:      order.CustomerID,
		From:            from,
		To:              order.Status,
		TotalTTC:        order.TotalTTC,
	}
}
