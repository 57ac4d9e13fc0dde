package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by ID with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds sales orders matching the filter, items included
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	var rows []models.SalesOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}), filter)
	query = applyPage(query, filter, SalesOrderSortFields, "created_at")
	if err := query.Preload("Items", orderItemsByCreation).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts sales orders matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the order and its items in one transaction
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	model := &models.SalesOrderModel{}
	model.FromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code,
			fmt.Sprintf("Order number %s is already used", order.OrderNumber))
	}
	return err
}

// SaveWithLock saves with optimistic locking (version check) and replaces the items
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	expected := order.Version
	order.Version++
	order.UpdatedAt = time.Now()

	model := &models.SalesOrderModel{}
	model.FromDomain(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, "sales_orders", model, order.ID, expected); err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			itemIDs[i] = item.ID
		}

		// Delete items not in the current list
		stale := tx.Where("order_id = ?", order.ID)
		if len(itemIDs) > 0 {
			stale = stale.Where("id NOT IN ?", itemIDs)
		}
		if err := stale.Delete(&models.SalesOrderItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		order.Version = expected
	}
	return err
}

// NextOrderSequence returns the next sequence number for order numbers of a year
func (r *GormSalesOrderRepository) NextOrderSequence(ctx context.Context, year int) (int, error) {
	prefix := trade.OrderNumberPrefix(year)

	var last models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	var seq int
	if _, err := fmt.Sscanf(strings.TrimPrefix(last.OrderNumber, prefix), "%d", &seq); err != nil {
		return 0, fmt.Errorf("unexpected order number %q: %w", last.OrderNumber, err)
	}
	return seq + 1, nil
}

// SumTotalTTCByCustomers sums total_ttc of organisation orders placed by the customers
func (r *GormSalesOrderRepository) SumTotalTTCByCustomers(ctx context.Context, customerIDs []uuid.UUID, excluded []trade.OrderStatus) (decimal.Decimal, error) {
	if len(customerIDs) == 0 {
		return decimal.Zero, nil
	}
	var total decimal.NullDecimal
	query := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Select("SUM(total_ttc)").
		Where("customer_type = ? AND customer_id IN ?", trade.CustomerTypeOrganization, customerIDs)
	if len(excluded) > 0 {
		query = query.Where("status NOT IN ?", excluded)
	}
	if err := query.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

type orderSummaryRow struct {
	OrdersCount int64
	RevenueTTC  decimal.NullDecimal
	RevenueHT   decimal.NullDecimal
}

// Summarize returns figures over orders created in [from, to)
func (r *GormSalesOrderRepository) Summarize(ctx context.Context, from, to time.Time, excluded []trade.OrderStatus) (trade.OrderSummary, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("sales_orders.created_at >= ? AND sales_orders.created_at < ?", from, to)
		if len(excluded) > 0 {
			db = db.Where("sales_orders.status NOT IN ?", excluded)
		}
		return db
	}

	var row orderSummaryRow
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Select("COUNT(*) AS orders_count, SUM(total_ttc) AS revenue_ttc, SUM(total_ht) AS revenue_ht").
		Scopes(scope).
		Scan(&row).Error; err != nil {
		return trade.OrderSummary{}, err
	}

	var commission decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.SalesOrderItemModel{}).
		Select("SUM(sales_order_items.retrocession_amount)").
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.order_id").
		Scopes(scope).
		Scan(&commission).Error; err != nil {
		return trade.OrderSummary{}, err
	}

	return trade.OrderSummary{
		OrdersCount:     row.OrdersCount,
		RevenueTTC:      nullToZero(row.RevenueTTC),
		RevenueHT:       nullToZero(row.RevenueHT),
		TotalCommission: nullToZero(commission),
	}, nil
}

func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeClause("LOWER(order_number)"), containsPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case trade.FilterChannelID:
			query = query.Where("channel_id = ?", value)
		case trade.FilterStatus:
			query = query.Where("status = ?", value)
		case trade.FilterPaymentStatus:
			query = query.Where("payment_status = ?", value)
		case trade.FilterCustomerType:
			query = query.Where("customer_type = ?", value)
		case trade.FilterAffiliateID:
			query = query.Where("affiliate_id = ?", value)
		}
	}
	return query
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal.Round(2)
}
