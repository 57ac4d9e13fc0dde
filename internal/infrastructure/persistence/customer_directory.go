package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerDirectory resolves order customer names from organisations or
// individual_customers depending on the customer type
type GormCustomerDirectory struct {
	db *gorm.DB
}

// NewGormCustomerDirectory creates a new GormCustomerDirectory
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: db}
}

// CustomerName returns the display name of the customer
func (d *GormCustomerDirectory) CustomerName(ctx context.Context, customerType trade.CustomerType, customerID uuid.UUID) (string, error) {
	switch customerType {
	case trade.CustomerTypeOrganization:
		var org models.OrganisationModel
		if err := d.db.WithContext(ctx).
			Select("id", "legal_name", "trade_name").
			First(&org, "id = ?", customerID).Error; err != nil {
			return "", notFound(err)
		}
		return org.ToDomain().DisplayName(), nil
	case trade.CustomerTypeIndividual:
		var person models.IndividualCustomerModel
		if err := d.db.WithContext(ctx).First(&person, "id = ?", customerID).Error; err != nil {
			return "", notFound(err)
		}
		return strings.TrimSpace(person.FirstName + " " + person.LastName), nil
	default:
		return "", fmt.Errorf("unknown customer type %q", customerType)
	}
}
