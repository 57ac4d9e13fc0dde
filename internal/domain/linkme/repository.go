package linkme

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// AffiliateRepository defines the interface for affiliate persistence
type AffiliateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Affiliate, error)

	// FindAll supports the filters "enseigne_id", "organisation_id" and "is_active"
	FindAll(ctx context.Context, filter shared.Filter) ([]Affiliate, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindIDsByEnseigne returns the ids of affiliates attached to an enseigne
	FindIDsByEnseigne(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, affiliate *Affiliate) error
}

// SelectionRepository defines the interface for selection persistence
type SelectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Selection, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// FindAll supports the filters "affiliate_id" and "is_public"
	FindAll(ctx context.Context, filter shared.Filter) ([]Selection, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByAffiliates counts selections owned by any of the affiliates
	CountByAffiliates(ctx context.Context, affiliateIDs []uuid.UUID) (int64, error)
	Save(ctx context.Context, selection *Selection) error
	Delete(ctx context.Context, id uuid.UUID) error
}
