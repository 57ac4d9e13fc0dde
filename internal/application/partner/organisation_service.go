package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"go.uber.org/zap"
)

// OrganisationService handles organisation-related business operations
type OrganisationService struct {
	orgRepo        partner.OrganisationRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrganisationService creates a new OrganisationService
func NewOrganisationService(orgRepo partner.OrganisationRepository, logger *zap.Logger) *OrganisationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganisationService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

// SetEventPublisher sets the publisher of organisation events
func (s *OrganisationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new organisation
func (s *OrganisationService) Create(ctx context.Context, req OrganisationRequest) (*OrganisationResponse, error) {
	org, err := partner.NewOrganisation(req.toProfile())
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	s.publish(ctx, org)

	response := ToOrganisationResponse(org, nil)
	return &response, nil
}

// GetByID retrieves an organisation with its effective commercial terms
func (s *OrganisationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganisationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.enseigneParent(ctx, org)
	if err != nil {
		return nil, err
	}

	response := ToOrganisationResponse(org, parent)
	return &response, nil
}

// List retrieves organisations with filtering and pagination
func (s *OrganisationService) List(ctx context.Context, filter OrganisationListFilter) ([]OrganisationListResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "legal_name"
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

	if filter.Type != "" {
		domainFilter.Filters[partner.FilterType] = filter.Type
	}
	if filter.CustomerType != "" {
		domainFilter.Filters[partner.FilterCustomerType] = filter.CustomerType
	}
	if filter.IsActive != nil {
		domainFilter.Filters[partner.FilterIsActive] = *filter.IsActive
	}
	if filter.IsServiceProvider != nil {
		domainFilter.Filters[partner.FilterIsServiceProvider] = *filter.IsServiceProvider
	}
	if filter.Country != "" {
		domainFilter.Filters[partner.FilterCountry] = filter.Country
	}
	if filter.IncludeArchived {
		domainFilter.Filters[partner.FilterIncludeArchived] = true
	}
	if filter.ExcludeWithEnseigne {
		domainFilter.Filters[partner.FilterExcludeWithEnseigne] = true
	}
	if filter.EnseigneID != nil {
		domainFilter.Filters[partner.FilterEnseigneID] = *filter.EnseigneID
	}

	orgs, err := s.orgRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orgRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrganisationListResponses(orgs), total, nil
}

// Update replaces the identity fields of an organisation
func (s *OrganisationService) Update(ctx context.Context, id uuid.UUID, req OrganisationRequest) (*OrganisationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := org.Update(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.orgRepo.SaveWithLock(ctx, org); err != nil {
		return nil, err
	}
	return s.respond(ctx, org)
}

// GetCommercialTerms returns the effective terms of an organisation
func (s *OrganisationService) GetCommercialTerms(ctx context.Context, id uuid.UUID) (*CommercialTermsResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.enseigneParent(ctx, org)
	if err != nil {
		return nil, err
	}
	terms := toCommercialTermsResponse(org, parent)
	return &terms, nil
}

// UpdateCommercialTerms replaces the terms of an organisation.
// Succursales are rejected with SUCCURSALE_TERMS_READ_ONLY.
func (s *OrganisationService) UpdateCommercialTerms(ctx context.Context, id uuid.UUID, req CommercialTermsRequest) (*CommercialTermsResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = org.SetCommercialTerms(partner.CommercialTerms{
		PaymentTerms:       req.PaymentTerms,
		DeliveryTimeDays:   req.DeliveryTimeDays,
		MinimumOrderAmount: req.MinimumOrderAmount,
		Currency:           req.Currency,
		PrepaymentRequired: req.PrepaymentRequired,
	})
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.SaveWithLock(ctx, org); err != nil {
		return nil, err
	}

	terms := toCommercialTermsResponse(org, nil)
	return &terms, nil
}

// Archive archives an organisation
func (s *OrganisationService) Archive(ctx context.Context, id uuid.UUID) (*OrganisationResponse, error) {
	return s.mutate(ctx, id, (*partner.Organisation).Archive)
}

// Unarchive restores an archived organisation
func (s *OrganisationService) Unarchive(ctx context.Context, id uuid.UUID) (*OrganisationResponse, error) {
	return s.mutate(ctx, id, (*partner.Organisation).Unarchive)
}

// ToggleActive flips the active flag of an organisation
func (s *OrganisationService) ToggleActive(ctx context.Context, id uuid.UUID) (*OrganisationResponse, error) {
	return s.mutate(ctx, id, func(o *partner.Organisation) error {
		o.ToggleActive()
		return nil
	})
}

// Delete removes an organisation that has no active users and is not an
// enseigne parent
func (s *OrganisationService) Delete(ctx context.Context, id uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	roles, err := s.orgRepo.CountActiveUserRoles(ctx, id)
	if err != nil {
		return err
	}
	if err := org.CheckDeletable(roles); err != nil {
		return err
	}
	return s.orgRepo.Delete(ctx, id)
}

func (s *OrganisationService) mutate(ctx context.Context, id uuid.UUID, fn func(*partner.Organisation) error) (*OrganisationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(org); err != nil {
		return nil, err
	}
	if err := s.orgRepo.SaveWithLock(ctx, org); err != nil {
		return nil, err
	}
	s.publish(ctx, org)
	return s.respond(ctx, org)
}

func (s *OrganisationService) respond(ctx context.Context, org *partner.Organisation) (*OrganisationResponse, error) {
	parent, err := s.enseigneParent(ctx, org)
	if err != nil {
		return nil, err
	}
	response := ToOrganisationResponse(org, parent)
	return &response, nil
}

// enseigneParent loads the parent organisation a succursale inherits its
// terms from. It returns nil when none applies.
func (s *OrganisationService) enseigneParent(ctx context.Context, org *partner.Organisation) (*partner.Organisation, error) {
	if !org.IsSuccursale() || org.EnseigneID == nil || org.IsEnseigneParent {
		return nil, nil
	}
	parent, err := s.orgRepo.FindEnseigneParent(ctx, *org.EnseigneID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}

func (s *OrganisationService) publish(ctx context.Context, org *partner.Organisation) {
	if err := event.PublishPending(ctx, s.eventPublisher, org); err != nil {
		s.logger.Warn("Failed to publish organisation events",
			zap.String("organisation_id", org.ID.String()),
			zap.Error(err),
		)
	}
}
