package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Filter keys understood by SalesOrderRepository.FindAll and Count
const (
	FilterChannelID     = "channel_id"
	FilterStatus        = "status"
	FilterPaymentStatus = "payment_status"
	FilterCustomerType  = "customer_type"
	FilterAffiliateID   = "affiliate_id"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindAll loads orders with their items. Filter.Search matches the order number.
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the order and all its items in one transaction
	Create(ctx context.Context, order *SalesOrder) error

	// SaveWithLock updates the order and replaces its items in one transaction,
	// failing with CONCURRENCY_CONFLICT when the version moved
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// NextOrderSequence returns the next sequence number for order numbers of a year
	NextOrderSequence(ctx context.Context, year int) (int, error)

	// SumTotalTTCByCustomers sums total_ttc of organisation orders whose
	// customer is in customerIDs and whose status is not excluded
	SumTotalTTCByCustomers(ctx context.Context, customerIDs []uuid.UUID, excluded []OrderStatus) (decimal.Decimal, error)

	// Summarize returns figures over orders created in [from, to)
	Summarize(ctx context.Context, from, to time.Time, excluded []OrderStatus) (OrderSummary, error)
}

// OrderSummary aggregates orders over a period
type OrderSummary struct {
	OrdersCount     int64
	RevenueTTC      decimal.Decimal
	RevenueHT       decimal.Decimal
	TotalCommission decimal.Decimal
}

// CustomerDirectory resolves the display name of a polymorphic customer
type CustomerDirectory interface {
	CustomerName(ctx context.Context, customerType CustomerType, customerID uuid.UUID) (string, error)
}
