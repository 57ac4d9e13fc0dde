package linkme

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/linkme"
	"github.com/verone/backoffice/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugAttempts bounds the numbered suffixes tried for a derived slug
const maxSlugAttempts = 50

// SelectionService handles affiliate product selections
type SelectionService struct {
	selectionRepo linkme.SelectionRepository
	affiliateRepo linkme.AffiliateRepository
}

// NewSelectionService creates a new SelectionService
func NewSelectionService(selectionRepo linkme.SelectionRepository, affiliateRepo linkme.AffiliateRepository) *SelectionService {
	return &SelectionService{
		selectionRepo: selectionRepo,
		affiliateRepo: affiliateRepo,
	}
}

// Create creates a selection for an active affiliate. An explicit slug must
// be free; a derived slug gets a numbered suffix until it is.
func (s *SelectionService) Create(ctx context.Context, req CreateSelectionRequest) (*SelectionResponse, error) {
	affiliate, err := s.affiliateRepo.FindByID(ctx, req.AffiliateID)
	if err != nil {
		return nil, err
	}
	if !affiliate.IsActive {
		return nil, shared.NewDomainError("AFFILIATE_INACTIVE", "Affiliate is not active")
	}

	slug := req.Slug
	if slug == "" {
		slug, err = s.freeSlug(ctx, linkme.Slugify(foldAccents(req.Name)))
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.selectionRepo.ExistsBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A selection with this slug already exists")
		}
	}

	selection, err := linkme.NewSelection(req.AffiliateID, req.Name, slug)
	if err != nil {
		return nil, err
	}
	if req.IsPublic {
		selection.Publish()
	}
	if err := s.selectionRepo.Save(ctx, selection); err != nil {
		return nil, err
	}

	response := ToSelectionResponse(selection)
	return &response, nil
}

// GetByID retrieves a selection
func (s *SelectionService) GetByID(ctx context.Context, id uuid.UUID) (*SelectionResponse, error) {
	selection, err := s.selectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSelectionResponse(selection)
	return &response, nil
}

// List retrieves selections with filtering and pagination
func (s *SelectionService) List(ctx context.Context, filter SelectionListFilter) ([]SelectionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()
	if filter.AffiliateID != nil {
		domainFilter.Filters["affiliate_id"] = *filter.AffiliateID
	}
	if filter.IsPublic != nil {
		domainFilter.Filters["is_public"] = *filter.IsPublic
	}

	selections, err := s.selectionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.selectionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SelectionResponse, len(selections))
	for i := range selections {
		responses[i] = ToSelectionResponse(&selections[i])
	}
	return responses, total, nil
}

// Delete removes a selection
func (s *SelectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.selectionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.selectionRepo.Delete(ctx, id)
}

// CountSelectionsByAffiliates counts the selections owned by the affiliates
func (s *SelectionService) CountSelectionsByAffiliates(ctx context.Context, affiliateIDs []uuid.UUID) (int64, error) {
	if len(affiliateIDs) == 0 {
		return 0, nil
	}
	return s.selectionRepo.CountByAffiliates(ctx, affiliateIDs)
}

func (s *SelectionService) freeSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "selection"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.selectionRepo.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", shared.NewDomainError("ALREADY_EXISTS", "No free slug could be derived from the selection name")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
