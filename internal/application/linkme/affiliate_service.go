package linkme

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/linkme"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
)

// AffiliateService handles LinkMe affiliates
type AffiliateService struct {
	affiliateRepo linkme.AffiliateRepository
	enseigneRepo  partner.EnseigneRepository
	orgRepo       partner.OrganisationRepository
}

// NewAffiliateService creates a new AffiliateService
func NewAffiliateService(
	affiliateRepo linkme.AffiliateRepository,
	enseigneRepo partner.EnseigneRepository,
	orgRepo partner.OrganisationRepository,
) *AffiliateService {
	return &AffiliateService{
		affiliateRepo: affiliateRepo,
		enseigneRepo:  enseigneRepo,
		orgRepo:       orgRepo,
	}
}

// Create registers an affiliate, optionally attached to an enseigne and an organisation
func (s *AffiliateService) Create(ctx context.Context, req CreateAffiliateRequest) (*AffiliateResponse, error) {
	margin := decimal.Zero
	if req.DefaultMarginRate != nil {
		margin = *req.DefaultMarginRate
	}
	affiliate, err := linkme.NewAffiliate(req.DisplayName, req.Email, margin)
	if err != nil {
		return nil, err
	}

	if req.EnseigneID != nil {
		if _, err := s.enseigneRepo.FindByID(ctx, *req.EnseigneID); err != nil {
			return nil, err
		}
	}
	if req.OrganisationID != nil {
		if _, err := s.orgRepo.FindByID(ctx, *req.OrganisationID); err != nil {
			return nil, err
		}
	}
	if req.EnseigneID != nil || req.OrganisationID != nil {
		affiliate.AttachTo(req.EnseigneID, req.OrganisationID)
	}

	if err := s.affiliateRepo.Save(ctx, affiliate); err != nil {
		return nil, err
	}
	response := ToAffiliateResponse(affiliate)
	return &response, nil
}

// GetByID retrieves an affiliate
func (s *AffiliateService) GetByID(ctx context.Context, id uuid.UUID) (*AffiliateResponse, error) {
	affiliate, err := s.affiliateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAffiliateResponse(affiliate)
	return &response, nil
}

// List retrieves affiliates with filtering and pagination
func (s *AffiliateService) List(ctx context.Context, filter AffiliateListFilter) ([]AffiliateResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "display_name"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.EnseigneID != nil {
		domainFilter.Filters["enseigne_id"] = *filter.EnseigneID
	}
	if filter.OrganisationID != nil {
		domainFilter.Filters["organisation_id"] = *filter.OrganisationID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	affiliates, err := s.affiliateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.affiliateRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AffiliateResponse, len(affiliates))
	for i := range affiliates {
		responses[i] = ToAffiliateResponse(&affiliates[i])
	}
	return responses, total, nil
}

// Deactivate stops an affiliate from taking new orders
func (s *AffiliateService) Deactivate(ctx context.Context, id uuid.UUID) (*AffiliateResponse, error) {
	affiliate, err := s.affiliateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	affiliate.Deactivate()
	if err := s.affiliateRepo.Save(ctx, affiliate); err != nil {
		return nil, err
	}
	response := ToAffiliateResponse(affiliate)
	return &response, nil
}
