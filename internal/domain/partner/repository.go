package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Filter keys understood by OrganisationRepository.FindAll and Count
const (
	FilterType                = "type"
	FilterCustomerType        = "customer_type"
	FilterIsActive            = "is_active"
	FilterIsServiceProvider   = "is_service_provider"
	FilterCountry             = "country"
	FilterIncludeArchived     = "include_archived"
	FilterExcludeWithEnseigne = "exclude_with_enseigne"
	FilterEnseigneID          = "enseigne_id"
)

// OrganisationRepository defines the interface for organisation persistence
type OrganisationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organisation, error)

	// FindByIDs returns the organisations found, silently skipping unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Organisation, error)

	// FindAll finds organisations matching the filter.
	// Archived organisations are excluded unless FilterIncludeArchived is true.
	FindAll(ctx context.Context, filter shared.Filter) ([]Organisation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindMemberIDs returns the ids of the organisations linked to an enseigne
	FindMemberIDs(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error)

	// FindEnseigneParent returns the parent organisation of an enseigne, or
	// NOT_FOUND when none is designated
	FindEnseigneParent(ctx context.Context, enseigneID uuid.UUID) (*Organisation, error)

	// Save creates or updates an organisation
	Save(ctx context.Context, org *Organisation) error

	// SaveWithLock saves with an optimistic version check and returns
	// CONCURRENCY_CONFLICT when the row changed since it was loaded
	SaveWithLock(ctx context.Context, org *Organisation) error

	Delete(ctx context.Context, id uuid.UUID) error

	// CountActiveUserRoles counts active user_app_roles rows referencing the organisation
	CountActiveUserRoles(ctx context.Context, organisationID uuid.UUID) (int64, error)
}

// EnseigneRepository defines the interface for enseigne persistence.
// Membership operations update organisation rows and run in a transaction.
type EnseigneRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Enseigne, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Enseigne, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, enseigne *Enseigne) error
	SaveWithLock(ctx context.Context, enseigne *Enseigne) error

	// Delete detaches every member organisation, then removes the enseigne
	Delete(ctx context.Context, id uuid.UUID) error

	// SetParent clears the previous parent flag and sets it on organisationID
	SetParent(ctx context.Context, enseigneID, organisationID uuid.UUID) error

	// ClearParent removes the parent flag from every member
	ClearParent(ctx context.Context, enseigneID uuid.UUID) error

	// ApplyMembership links plan.ToAdd and unlinks plan.ToRemove.
	// Unlinked organisations also lose the parent flag.
	ApplyMembership(ctx context.Context, enseigneID uuid.UUID, plan MembershipPlan) error
}
