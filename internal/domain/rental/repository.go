package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Filter keys understood by ContractRepository.FindAll and Count
const (
	FilterOrganisationID = "organisation_id"
	FilterPropertyID     = "property_id"
	FilterUnitID         = "unit_id"
	FilterType           = "type"
	FilterFurnished      = "furnished"
	FilterStartFrom      = "start_from" // time.Time
	FilterStartTo        = "start_to"   // time.Time
	FilterEndFrom        = "end_from"   // time.Time
	FilterEndTo          = "end_to"     // time.Time
	FilterStatus         = "status"     // active, finished, upcoming at FilterAt
	FilterAt             = "at"         // time.Time, defaults to now
)

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, contract *Contract) error
	SaveWithLock(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOverlapping returns contracts on the same target whose period
	// intersects [start, end], ignoring excludeID when set
	FindOverlapping(ctx context.Context, target Target, start, end time.Time, excludeID *uuid.UUID) ([]Contract, error)

	// FindAllForStatistics returns contracts matching the filter without paging
	FindAllForStatistics(ctx context.Context, filter shared.Filter) ([]Contract, error)
}
