package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateVersioned writes every column of model when the stored version still
// equals expected. The model must already carry the incremented version.
func updateVersioned(tx *gorm.DB, table string, model any, id uuid.UUID, expected int) error {
	result := tx.Model(model).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return versionMiss(tx, table, id)
}

// versionMiss tells a missing row apart from a stale version after an update
// matched nothing
func versionMiss(tx *gorm.DB, table string, id uuid.UUID) error {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// notFound maps gorm.ErrRecordNotFound to the domain NOT_FOUND error
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// isUniqueViolation reports a unique constraint failure from postgres or sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
