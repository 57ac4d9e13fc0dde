package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"github.com/verone/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxOrderNumberAttempts = 3

// LinkMeOrderService handles orders placed through the LinkMe affiliate channel
type LinkMeOrderService struct {
	orderRepo      trade.SalesOrderRepository
	customers      trade.CustomerDirectory
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewLinkMeOrderService creates a new LinkMeOrderService
func NewLinkMeOrderService(orderRepo trade.SalesOrderRepository, customers trade.CustomerDirectory, logger *zap.Logger) *LinkMeOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkMeOrderService{
		orderRepo: orderRepo,
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LinkMeOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft LinkMe order with its items.
// The order and its items are inserted in a single transaction by the repository.
func (s *LinkMeOrderService) Create(ctx context.Context, req CreateLinkMeOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "linkme_order", "create",
		attribute.String("customer_type", req.CustomerType))
	defer func() { telemetry.EndSpan(span, err) }()

	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "An order needs at least one item")
	}

	year := s.now().Year()
	seq, err := s.orderRepo.NextOrderSequence(ctx, year)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewLinkMeOrder(
		trade.FormatOrderNumber(year, seq),
		trade.CustomerType(req.CustomerType),
		req.CustomerID,
		req.AffiliateID,
		req.Fees.toDomain(),
	)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, err := order.AddItem(item.toDomain()); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if req.ShippingAddress != nil {
		if err := req.ShippingAddress.Validate(); err != nil {
			return nil, err
		}
		order.ShippingAddress = *req.ShippingAddress
	}
	order.CreatedBy = req.CreatedBy

	if err = s.createNumbered(ctx, order, year); err != nil {
		return nil, err
	}
	s.logger.Info("LinkMe order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.String("total_ttc", order.TotalTTC.StringFixed(2)),
	)
	s.publish(ctx, order)

	return s.respond(ctx, order), nil
}

// createNumbered inserts order, taking the next free number of the year when
// a concurrent insert already used the one it carries
func (s *LinkMeOrderService) createNumbered(ctx context.Context, order *trade.SalesOrder, year int) error {
	for attempt := 1; ; attempt++ {
		err := s.orderRepo.Create(ctx, order)
		if err == nil || shared.ErrorCode(err) != shared.ErrAlreadyExists.Code || attempt == maxOrderNumberAttempts {
			return err
		}
		seq, err := s.orderRepo.NextOrderSequence(ctx, year)
		if err != nil {
			return err
		}
		s.logger.Warn("Order number already taken, retrying",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt),
		)
		order.OrderNumber = trade.FormatOrderNumber(year, seq)
	}
}

// GetByID retrieves a LinkMe order enriched with its customer name
func (s *LinkMeOrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.findLinkMeOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order), nil
}

// List retrieves LinkMe orders with filtering and pagination
func (s *LinkMeOrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	domainFilter.Filters[trade.FilterChannelID] = trade.LinkMeChannelID
	if filter.Status != "" {
		domainFilter.Filters[trade.FilterStatus] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters[trade.FilterPaymentStatus] = filter.PaymentStatus
	}
	if filter.CustomerType != "" {
		domainFilter.Filters[trade.FilterCustomerType] = filter.CustomerType
	}
	if filter.AffiliateID != nil {
		domainFilter.Filters[trade.FilterAffiliateID] = *filter.AffiliateID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	names := make(map[uuid.UUID]string)
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		name, ok := names[orders[i].CustomerID]
		if !ok {
			name = s.customerName(ctx, &orders[i])
			names[orders[i].CustomerID] = name
		}
		responses[i] = ToOrderResponse(&orders[i], name)
	}
	return responses, total, nil
}

// Update edits notes, fees, address and item quantities or prices of a
// draft or validated order
func (s *LinkMeOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateLinkMeOrderRequest) (*OrderResponse, error) {
	order, err := s.findLinkMeOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ShippingAddress != nil {
		if err := req.ShippingAddress.Validate(); err != nil {
			return nil, err
		}
	}
	if err := order.ApplyChanges(req.toChanges(order.Fees)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return s.respond(ctx, order), nil
}

// Validate moves a draft order to validated
func (s *LinkMeOrderService) Validate(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.Validate()
	})
}

// Ship records a full or partial shipment
func (s *LinkMeOrderService) Ship(ctx context.Context, id uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.MarkShipped(req.Partial)
	})
}

// Deliver marks a shipped order as delivered
func (s *LinkMeOrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.MarkDelivered()
	})
}

// Cancel cancels a draft or validated order
func (s *LinkMeOrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.Cancel(req.Reason)
	})
}

// UpdatePaymentStatus moves the payment status independently of fulfilment
func (s *LinkMeOrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdatePaymentStatusRequest) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *trade.SalesOrder) error {
		return o.UpdatePaymentStatus(trade.PaymentStatus(req.PaymentStatus))
	})
}

// GetCommission returns what the affiliate earns on an order
func (s *LinkMeOrderService) GetCommission(ctx context.Context, id uuid.UUID) (*CommissionResponse, error) {
	order, err := s.findLinkMeOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	commission := order.Commission()
	return &CommissionResponse{
		OrderID:         order.ID,
		TotalCommission: commission.TotalCommission,
		NetBenefit:      commission.NetBenefit,
	}, nil
}

func (s *LinkMeOrderService) transition(ctx context.Context, id uuid.UUID, apply func(*trade.SalesOrder) error) (*OrderResponse, error) {
	order, err := s.findLinkMeOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	if from != order.Status {
		s.logger.Info("LinkMe order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", order.Status.String()),
		)
	}
	s.publish(ctx, order)
	return s.respond(ctx, order), nil
}

// findLinkMeOrder hides orders of other channels behind NOT_FOUND
func (s *LinkMeOrderService) findLinkMeOrder(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.ChannelID != trade.LinkMeChannelID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (s *LinkMeOrderService) respond(ctx context.Context, order *trade.SalesOrder) *OrderResponse {
	response := ToOrderResponse(order, s.customerName(ctx, order))
	return &response
}

// customerName never fails: lookup errors fall back to UnknownCustomerName
func (s *LinkMeOrderService) customerName(ctx context.Context, order *trade.SalesOrder) string {
	if s.customers == nil {
		return trade.UnknownCustomerName
	}
	name, err := s.customers.CustomerName(ctx, order.CustomerType, order.CustomerID)
	if err != nil || name == "" {
		s.logger.Warn("Failed to resolve order customer",
			zap.String("order_id", order.ID.String()),
			zap.String("customer_type", string(order.CustomerType)),
			zap.String("customer_id", order.CustomerID.String()),
			zap.Error(err),
		)
		return trade.UnknownCustomerName
	}
	return name
}

func (s *LinkMeOrderService) publish(ctx context.Context, order *trade.SalesOrder) {
	if err := event.PublishPending(ctx, s.eventPublisher, order); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
