package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/catalog"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCollectionRepository implements catalog.CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByID finds a collection with its products ordered by position
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var model models.CollectionModel
	if err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds collections matching the filter, without their products
func (r *GormCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	var rows []models.CollectionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CollectionModel{}), filter)
	query = applyPage(query, filter, CollectionSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Collection, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts collections matching the filter
func (r *GormCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CollectionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save updates the collection row and rewrites its memberships in one transaction
func (r *GormCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	model := collectionModel(collection)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Save(model).Error; err != nil {
			return err
		}
		return replaceCollectionProducts(tx, collection.ID, model.Products)
	})
}

// SaveWithLock is Save with an optimistic version check
func (r *GormCollectionRepository) SaveWithLock(ctx context.Context, collection *catalog.Collection) error {
	expected := collection.Version
	collection.Version++
	collection.UpdatedAt = time.Now()

	model := collectionModel(collection)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, "collections", model, collection.ID, expected); err != nil {
			return err
		}
		return replaceCollectionProducts(tx, collection.ID, model.Products)
	})
	if err != nil {
		collection.Version = expected
	}
	return err
}

// Delete removes a collection with its memberships and share records
func (r *GormCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionShareModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CollectionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// RecordShare stores the share and the collection counters in one
// transaction. The collection version is checked and bumped like SaveWithLock.
func (r *GormCollectionRepository) RecordShare(ctx context.Context, collection *catalog.Collection, share *catalog.CollectionShare) error {
	expected := collection.Version
	collection.Version++
	collection.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CollectionModel{}).
			Where("id = ? AND version = ?", collection.ID, expected).
			Updates(map[string]any{
				"shared_count":      collection.SharedCount,
				"shared_link_token": collection.SharedLinkToken,
				"version":           collection.Version,
				"updated_at":        collection.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return versionMiss(tx, "collections", collection.ID)
		}
		return tx.Create(models.CollectionShareModelFromDomain(share)).Error
	})
	if err != nil {
		collection.Version = expected
	}
	return err
}

// CountActive counts active collections
func (r *GormCollectionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CollectionModel{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCollectionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search)
	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterStatus:
			switch value {
			case "active":
				query = query.Where("is_active = ?", true)
			case "inactive":
				query = query.Where("is_active = ?", false)
			}
		case catalog.FilterVisibility:
			query = query.Where("visibility = ?", value)
		case catalog.FilterStyle:
			query = query.Where("style = ?", value)
		case catalog.FilterRoomCategory:
			query = query.Where("room_category = ?", value)
		case catalog.FilterTags:
			tags, ok := value.([]string)
			if !ok || len(tags) == 0 {
				continue
			}
			// theme_tags holds a JSON array; match any quoted element
			cond := r.db.Session(&gorm.Session{NewDB: true})
			for i, tag := range tags {
				quoted, _ := json.Marshal(strings.ToLower(strings.TrimSpace(tag)))
				if i == 0 {
					cond = cond.Where(likeClause("theme_tags"), rawContainsPattern(string(quoted)))
				} else {
					cond = cond.Or(likeClause("theme_tags"), rawContainsPattern(string(quoted)))
				}
			}
			query = query.Where(cond)
		case catalog.FilterShared:
			if isShared, ok := value.(bool); ok {
				if isShared {
					query = query.Where("shared_count > 0")
				} else {
					query = query.Where("shared_count = 0")
				}
			}
		}
	}
	return query
}

func collectionModel(c *catalog.Collection) *models.CollectionModel {
	model := &models.CollectionModel{}
	model.FromDomain(c, SearchText(c.Name, c.Description))
	return model
}

func replaceCollectionProducts(tx *gorm.DB, collectionID uuid.UUID, products []models.CollectionProductModel) error {
	if err := tx.Where("collection_id = ?", collectionID).Delete(&models.CollectionProductModel{}).Error; err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	return tx.Create(&products).Error
}
