package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractRepository implements rental.ContractRepository using GORM
type GormContractRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db, now: time.Now}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)
	query = applyPage(query, filter, ContractSortFields, "start_date")
	return r.find(query)
}

// FindAllForStatistics returns contracts matching the filter without paging
func (r *GormContractRepository) FindAllForStatistics(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	return r.find(r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter))
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	model := &models.ContractModel{}
	model.FromDomain(contract)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormContractRepository) SaveWithLock(ctx context.Context, contract *rental.Contract) error {
	expected := contract.Version
	contract.Version++
	contract.UpdatedAt = time.Now()

	model := &models.ContractModel{}
	model.FromDomain(contract)
	if err := updateVersioned(r.db.WithContext(ctx), "contracts", model, contract.ID, expected); err != nil {
		contract.Version = expected
		return err
	}
	return nil
}

// Delete removes a contract
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindOverlapping returns contracts on the same target whose period
// intersects [start, end], bounds included
func (r *GormContractRepository) FindOverlapping(ctx context.Context, target rental.Target, start, end time.Time, excludeID *uuid.UUID) ([]rental.Contract, error) {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})
	switch {
	case target.PropertyID != nil:
		query = query.Where("property_id = ?", *target.PropertyID)
	case target.UnitID != nil:
		query = query.Where("unit_id = ?", *target.UnitID)
	default:
		return []rental.Contract{}, nil
	}
	query = query.Where("start_date <= ? AND end_date >= ?", dayUTC(end), dayUTC(start))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	return r.find(query)
}

func (r *GormContractRepository) find(query *gorm.DB) ([]rental.Contract, error) {
	var rows []models.ContractModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]rental.Contract, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	at := r.now()
	if t, ok := filter.Filters[rental.FilterAt].(time.Time); ok {
		at = t
	}
	today := dayUTC(at)

	for key, value := range filter.Filters {
		switch key {
		case rental.FilterOrganisationID:
			query = query.Where("organisation_id = ?", value)
		case rental.FilterPropertyID:
			query = query.Where("property_id = ?", value)
		case rental.FilterUnitID:
			query = query.Where("unit_id = ?", value)
		case rental.FilterType:
			query = query.Where("type = ?", value)
		case rental.FilterFurnished:
			query = query.Where("furnished = ?", value)
		case rental.FilterStartFrom:
			if t, ok := value.(time.Time); ok {
				query = query.Where("start_date >= ?", dayUTC(t))
			}
		case rental.FilterStartTo:
			if t, ok := value.(time.Time); ok {
				query = query.Where("start_date <= ?", dayUTC(t))
			}
		case rental.FilterEndFrom:
			if t, ok := value.(time.Time); ok {
				query = query.Where("end_date >= ?", dayUTC(t))
			}
		case rental.FilterEndTo:
			if t, ok := value.(time.Time); ok {
				query = query.Where("end_date <= ?", dayUTC(t))
			}
		case rental.FilterStatus:
			switch rental.ContractStatus(toString(value)) {
			case rental.ContractStatusActive:
				query = query.Where("start_date <= ? AND end_date >= ?", today, today)
			case rental.ContractStatusFinished:
				query = query.Where("end_date < ?", today)
			case rental.ContractStatusUpcoming:
				query = query.Where("start_date > ?", today)
			}
		}
	}
	return query
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case rental.ContractStatus:
		return string(v)
	}
	return ""
}
