package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/linkme"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAffiliateRepository implements linkme.AffiliateRepository using GORM
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewGormAffiliateRepository creates a new GormAffiliateRepository
func NewGormAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// FindByID finds an affiliate by its ID
func (r *GormAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*linkme.Affiliate, error) {
	var model models.AffiliateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds affiliates matching the filter
func (r *GormAffiliateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]linkme.Affiliate, error) {
	var rows []models.AffiliateModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AffiliateModel{}), filter)
	query = applyPage(query, filter, AffiliateSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]linkme.Affiliate, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts affiliates matching the filter
func (r *GormAffiliateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AffiliateModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindIDsByEnseigne returns the ids of affiliates attached to an enseigne
func (r *GormAffiliateRepository) FindIDsByEnseigne(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).
		Model(&models.AffiliateModel{}).
		Where("enseigne_id = ?", enseigneID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates an affiliate
func (r *GormAffiliateRepository) Save(ctx context.Context, affiliate *linkme.Affiliate) error {
	model := &models.AffiliateModel{}
	model.FromDomain(affiliate)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormAffiliateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeClause("LOWER(display_name)"), containsPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "enseigne_id":
			query = query.Where("enseigne_id = ?", value)
		case "organisation_id":
			query = query.Where("organisation_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// GormSelectionRepository implements linkme.SelectionRepository using GORM
type GormSelectionRepository struct {
	db *gorm.DB
}

// NewGormSelectionRepository creates a new GormSelectionRepository
func NewGormSelectionRepository(db *gorm.DB) *GormSelectionRepository {
	return &GormSelectionRepository{db: db}
}

// FindByID finds a selection by its ID
func (r *GormSelectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*linkme.Selection, error) {
	var model models.SelectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ExistsBySlug checks whether a selection already uses the slug
func (r *GormSelectionRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SelectionModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds selections matching the filter
func (r *GormSelectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]linkme.Selection, error) {
	var rows []models.SelectionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SelectionModel{}), filter)
	query = applyPage(query, filter, SelectionSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]linkme.Selection, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts selections matching the filter
func (r *GormSelectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SelectionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByAffiliates counts selections owned by any of the affiliates
func (r *GormSelectionRepository) CountByAffiliates(ctx context.Context, affiliateIDs []uuid.UUID) (int64, error) {
	if len(affiliateIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SelectionModel{}).
		Where("affiliate_id IN ?", affiliateIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a selection
func (r *GormSelectionRepository) Save(ctx context.Context, selection *linkme.Selection) error {
	model := &models.SelectionModel{}
	model.FromDomain(selection)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a selection
func (r *GormSelectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SelectionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSelectionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(likeClause("LOWER(name)"), containsPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "affiliate_id":
			query = query.Where("affiliate_id = ?", value)
		case "is_public":
			query = query.Where("is_public = ?", value)
		}
	}
	return query
}
