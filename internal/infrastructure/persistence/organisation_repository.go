package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrganisationRepository implements partner.OrganisationRepository using GORM
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewGormOrganisationRepository creates a new GormOrganisationRepository
func NewGormOrganisationRepository(db *gorm.DB) *GormOrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

// FindByID finds an organisation by its ID, archived or not
func (r *GormOrganisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Organisation, error) {
	var model models.OrganisationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the organisations among ids
func (r *GormOrganisationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Organisation, error) {
	if len(ids) == 0 {
		return []partner.Organisation{}, nil
	}
	var rows []models.OrganisationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrganisations(rows), nil
}

// FindAll finds organisations matching the filter
func (r *GormOrganisationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Organisation, error) {
	var rows []models.OrganisationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrganisationModel{}), filter)
	query = applyPage(query, filter, OrganisationSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrganisations(rows), nil
}

// Count counts organisations matching the filter
func (r *GormOrganisationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrganisationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindMemberIDs returns the ids of organisations linked to an enseigne
func (r *GormOrganisationRepository) FindMemberIDs(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).
		Model(&models.OrganisationModel{}).
		Where("enseigne_id = ?", enseigneID).
		Order("legal_name ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindEnseigneParent returns the parent organisation of an enseigne
func (r *GormOrganisationRepository) FindEnseigneParent(ctx context.Context, enseigneID uuid.UUID) (*partner.Organisation, error) {
	var model models.OrganisationModel
	if err := r.db.WithContext(ctx).
		Where("enseigne_id = ? AND is_enseigne_parent = ?", enseigneID, true).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an organisation
func (r *GormOrganisationRepository) Save(ctx context.Context, org *partner.Organisation) error {
	model := models.OrganisationModelFromDomain(org, organisationSearchText(org))
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrganisationRepository) SaveWithLock(ctx context.Context, org *partner.Organisation) error {
	expected := org.Version
	org.Version++
	org.UpdatedAt = time.Now()

	model := models.OrganisationModelFromDomain(org, organisationSearchText(org))
	if err := updateVersioned(r.db.WithContext(ctx), "organisations", model, org.ID, expected); err != nil {
		org.Version = expected
		return err
	}
	return nil
}

// Delete removes an organisation
func (r *GormOrganisationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrganisationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActiveUserRoles counts active user_app_roles rows referencing the organisation
func (r *GormOrganisationRepository) CountActiveUserRoles(ctx context.Context, organisationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserAppRoleModel{}).
		Where("organisation_id = ? AND is_active = ?", organisationID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrganisationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search)

	if include, _ := filter.Filters[partner.FilterIncludeArchived].(bool); !include {
		query = query.Where("archived_at IS NULL")
	}

	for key, value := range filter.Filters {
		switch key {
		case partner.FilterType:
			query = query.Where("type = ?", value)
		case partner.FilterCustomerType:
			query = query.Where("customer_type = ?", value)
		case partner.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case partner.FilterIsServiceProvider:
			query = query.Where("is_service_provider = ?", value)
		case partner.FilterCountry:
			query = query.Where("country = ?", value)
		case partner.FilterEnseigneID:
			query = query.Where("enseigne_id = ?", value)
		case partner.FilterExcludeWithEnseigne:
			if exclude, ok := value.(bool); ok && exclude {
				query = query.Where("enseigne_id IS NULL")
			}
		}
	}
	return query
}

func organisationSearchText(o *partner.Organisation) string {
	return SearchText(o.LegalName, o.TradeName, o.Email)
}

func toOrganisations(rows []models.OrganisationModel) []partner.Organisation {
	out := make([]partner.Organisation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
