package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", invoiceItemsByPosition).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByProviderID finds an invoice by its provider identifier
func (r *GormInvoiceRepository) FindByProviderID(ctx context.Context, providerID string) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", invoiceItemsByPosition).
		First(&model, "qonto_invoice_id = ?", providerID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter, items included
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
	query = applyPage(query, filter, InvoiceSortFields, "document_date")
	if err := query.Preload("Items", invoiceItemsByPosition).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts or updates the invoice and replaces its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		return replaceInvoiceItems(tx, invoice.ID, model.Items)
	})
}

// SaveWithLock is Save with an optimistic version check
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	expected := invoice.Version
	invoice.Version++
	invoice.UpdatedAt = time.Now()

	model := &models.InvoiceModel{}
	model.FromDomain(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, "invoices", model, invoice.ID, expected); err != nil {
			return err
		}
		return replaceInvoiceItems(tx, invoice.ID, model.Items)
	})
	if err != nil {
		invoice.Version = expected
	}
	return err
}

// SumOutstanding sums total_ttc - amount_paid of finalized and sent invoices
func (r *GormInvoiceRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("SUM(total_ttc - amount_paid)").
		Where("workflow_status IN ?", []finance.WorkflowStatus{finance.WorkflowFinalized, finance.WorkflowSent}).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(total), nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeClause("LOWER(document_number)"), containsPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case finance.FilterWorkflowStatus:
			query = query.Where("workflow_status = ?", value)
		case finance.FilterPartnerID:
			query = query.Where("partner_id = ?", value)
		case finance.FilterSalesOrderID:
			query = query.Where("sales_order_id = ?", value)
		}
	}
	return query
}

func replaceInvoiceItems(tx *gorm.DB, invoiceID uuid.UUID, items []models.InvoiceItemModel) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func invoiceItemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GormCreditNoteRepository implements finance.CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by its ID
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByInvoice lists the credit notes of an invoice, oldest first
func (r *GormCreditNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]finance.CreditNote, error) {
	var rows []models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.CreditNote, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a credit note
func (r *GormCreditNoteRepository) Save(ctx context.Context, creditNote *finance.CreditNote) error {
	model := &models.CreditNoteModel{}
	model.FromDomain(creditNote)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a draft credit note. Finalized rows are never deleted.
func (r *GormCreditNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("status = ?", finance.CreditNoteStatusDraft).
		Delete(&models.CreditNoteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormQuoteRepository implements finance.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByInvoice returns the latest quote created from an invoice
func (r *GormQuoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*finance.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a quote
func (r *GormQuoteRepository) Save(ctx context.Context, quote *finance.Quote) error {
	model := &models.QuoteModel{}
	model.FromDomain(quote)
	return r.db.WithContext(ctx).Save(model).Error
}
