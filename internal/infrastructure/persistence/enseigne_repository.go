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

// GormEnseigneRepository implements partner.EnseigneRepository using GORM
type GormEnseigneRepository struct {
	db *gorm.DB
}

// NewGormEnseigneRepository creates a new GormEnseigneRepository
func NewGormEnseigneRepository(db *gorm.DB) *GormEnseigneRepository {
	return &GormEnseigneRepository{db: db}
}

// FindByID finds an enseigne by its ID
func (r *GormEnseigneRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Enseigne, error) {
	var model models.EnseigneModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds enseignes matching the filter
func (r *GormEnseigneRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Enseigne, error) {
	var rows []models.EnseigneModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EnseigneModel{}), filter)
	query = applyPage(query, filter, EnseigneSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Enseigne, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts enseignes matching the filter
func (r *GormEnseigneRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EnseigneModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an enseigne
func (r *GormEnseigneRepository) Save(ctx context.Context, enseigne *partner.Enseigne) error {
	model := &models.EnseigneModel{}
	model.FromDomain(enseigne, SearchText(enseigne.Name))
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormEnseigneRepository) SaveWithLock(ctx context.Context, enseigne *partner.Enseigne) error {
	expected := enseigne.Version
	enseigne.Version++
	enseigne.UpdatedAt = time.Now()

	model := &models.EnseigneModel{}
	model.FromDomain(enseigne, SearchText(enseigne.Name))
	if err := updateVersioned(r.db.WithContext(ctx), "enseignes", model, enseigne.ID, expected); err != nil {
		enseigne.Version = expected
		return err
	}
	return nil
}

// Delete detaches every member organisation, then removes the enseigne
func (r *GormEnseigneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachMembers(tx, id, nil); err != nil {
			return err
		}
		result := tx.Delete(&models.EnseigneModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SetParent clears the previous parent flag and sets it on organisationID.
// Both updates run in one transaction so at most one parent exists.
func (r *GormEnseigneRepository) SetParent(ctx context.Context, enseigneID, organisationID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearParent(tx, enseigneID); err != nil {
			return err
		}
		result := tx.Model(&models.OrganisationModel{}).
			Where("id = ? AND enseigne_id = ?", organisationID, enseigneID).
			Updates(map[string]any{
				"is_enseigne_parent": true,
				"version":            gorm.Expr("version + 1"),
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return partner.ErrOrganisationNotMember
		}
		return nil
	})
}

// ClearParent removes the parent flag from every member
func (r *GormEnseigneRepository) ClearParent(ctx context.Context, enseigneID uuid.UUID) error {
	return clearParent(r.db.WithContext(ctx), enseigneID)
}

// ApplyMembership links plan.ToAdd and unlinks plan.ToRemove, then refreshes
// the member count, all in one transaction. Enseignes that lose members to
// plan.ToAdd get their count refreshed in the same transaction.
func (r *GormEnseigneRepository) ApplyMembership(ctx context.Context, enseigneID uuid.UUID, plan partner.MembershipPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.EnseigneModel{}).Where("id = ?", enseigneID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return shared.ErrNotFound
		}

		var previous []uuid.UUID
		if len(plan.ToAdd) > 0 {
			if err := tx.Model(&models.OrganisationModel{}).
				Where("id IN ? AND enseigne_id IS NOT NULL AND enseigne_id <> ?", plan.ToAdd, enseigneID).
				Distinct().
				Pluck("enseigne_id", &previous).Error; err != nil {
				return err
			}
			// Joining another enseigne drops any parent flag held elsewhere.
			if err := tx.Model(&models.OrganisationModel{}).
				Where("id IN ? AND (enseigne_id IS NULL OR enseigne_id <> ?)", plan.ToAdd, enseigneID).
				Updates(map[string]any{
					"enseigne_id":        enseigneID,
					"is_enseigne_parent": false,
					"version":            gorm.Expr("version + 1"),
					"updated_at":         time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		if len(plan.ToRemove) > 0 {
			if err := detachMembers(tx, enseigneID, plan.ToRemove); err != nil {
				return err
			}
		}
		for _, id := range previous {
			if err := refreshMemberCount(tx, id); err != nil {
				return err
			}
		}
		return refreshMemberCount(tx, enseigneID)
	})
}

func (r *GormEnseigneRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search)
	if value, ok := filter.Filters[partner.FilterIsActive]; ok {
		query = query.Where("is_active = ?", value)
	}
	return query
}

// detachMembers unlinks organisations from an enseigne; nil ids means all members
func detachMembers(tx *gorm.DB, enseigneID uuid.UUID, ids []uuid.UUID) error {
	query := tx.Model(&models.OrganisationModel{}).Where("enseigne_id = ?", enseigneID)
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}
	return query.Updates(map[string]any{
		"enseigne_id":        nil,
		"is_enseigne_parent": false,
		"version":            gorm.Expr("version + 1"),
		"updated_at":         time.Now(),
	}).Error
}

func clearParent(tx *gorm.DB, enseigneID uuid.UUID) error {
	return tx.Model(&models.OrganisationModel{}).
		Where("enseigne_id = ? AND is_enseigne_parent = ?", enseigneID, true).
		Updates(map[string]any{
			"is_enseigne_parent": false,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		}).Error
}

func refreshMemberCount(tx *gorm.DB, enseigneID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.OrganisationModel{}).Where("enseigne_id = ?", enseigneID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.EnseigneModel{}).
		Where("id = ?", enseigneID).
		Update("member_count", count).Error
}
