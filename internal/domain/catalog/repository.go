package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Filter keys understood by CollectionRepository.FindAll and Count
const (
	FilterStatus       = "status" // all, active, inactive
	FilterVisibility   = "visibility"
	FilterStyle        = "style"
	FilterRoomCategory = "room_category"
	FilterTags         = "tags"   // []string, any match
	FilterShared       = "shared" // bool, shared_count > 0
)

// CollectionRepository defines the interface for collection persistence
type CollectionRepository interface {
	// FindByID loads a collection with its products ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)

	// FindAll lists collections without their products.
	// Sortable by name, created_at, updated_at, product_count, display_order.
	FindAll(ctx context.Context, filter shared.Filter) ([]Collection, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save updates the collection row and rewrites its memberships in one transaction
	Save(ctx context.Context, collection *Collection) error
	SaveWithLock(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error

	// RecordShare stores the share and the collection counters in one transaction
	RecordShare(ctx context.Context, collection *Collection, share *CollectionShare) error

	CountActive(ctx context.Context) (int64, error)
}
