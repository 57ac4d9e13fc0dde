package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/linkme"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"go.uber.org/zap"
)

// EnseigneService handles enseigne networks: membership, parent designation
// and statistics
type EnseigneService struct {
	enseigneRepo   partner.EnseigneRepository
	orgRepo        partner.OrganisationRepository
	affiliateRepo  linkme.AffiliateRepository
	selectionRepo  linkme.SelectionRepository
	orderRepo      trade.SalesOrderRepository
	statsCache     StatsCache
	statsTTL       time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewEnseigneService creates a new EnseigneService
func NewEnseigneService(
	enseigneRepo partner.EnseigneRepository,
	orgRepo partner.OrganisationRepository,
	affiliateRepo linkme.AffiliateRepository,
	selectionRepo linkme.SelectionRepository,
	orderRepo trade.SalesOrderRepository,
	logger *zap.Logger,
) *EnseigneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnseigneService{
		enseigneRepo:  enseigneRepo,
		orgRepo:       orgRepo,
		affiliateRepo: affiliateRepo,
		selectionRepo: selectionRepo,
		orderRepo:     orderRepo,
		statsTTL:      DefaultStatsTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the publisher of enseigne events
func (s *EnseigneService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetStatsCache enables caching of GetStats results
func (s *EnseigneService) SetStatsCache(cache StatsCache, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	s.statsCache = cache
	s.statsTTL = ttl
}

// Create creates a new enseigne
func (s *EnseigneService) Create(ctx context.Context, req EnseigneRequest) (*EnseigneResponse, error) {
	enseigne, err := partner.NewEnseigne(req.Name, req.Description, req.LogoURL)
	if err != nil {
		return nil, err
	}
	if err := s.enseigneRepo.Save(ctx, enseigne); err != nil {
		return nil, err
	}
	s.publish(ctx, enseigne)

	response := ToEnseigneResponse(enseigne)
	return &response, nil
}

// GetByID retrieves an enseigne and its parent organisation
func (s *EnseigneService) GetByID(ctx context.Context, id uuid.UUID) (*EnseigneResponse, error) {
	enseigne, err := s.enseigneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEnseigneResponse(enseigne)

	parent, err := s.orgRepo.FindEnseigneParent(ctx, id)
	switch {
	case err == nil:
		response.Parent = &ParentSummary{ID: parent.ID, DisplayName: parent.DisplayName()}
	case !shared.IsNotFound(err):
		return nil, err
	}
	return &response, nil
}

// List retrieves enseignes with filtering and pagination
func (s *EnseigneService) List(ctx context.Context, filter EnseigneListFilter) ([]EnseigneResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
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
	if filter.IsActive != nil {
		domainFilter.Filters[partner.FilterIsActive] = *filter.IsActive
	}

	enseignes, err := s.enseigneRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.enseigneRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEnseigneResponses(enseignes), total, nil
}

// Update changes the descriptive fields of an enseigne
func (s *EnseigneService) Update(ctx context.Context, id uuid.UUID, req EnseigneRequest) (*EnseigneResponse, error) {
	enseigne, err := s.enseigneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := enseigne.Update(req.Name, req.Description, req.LogoURL); err != nil {
		return nil, err
	}
	if err := s.enseigneRepo.SaveWithLock(ctx, enseigne); err != nil {
		return nil, err
	}

	response := ToEnseigneResponse(enseigne)
	return &response, nil
}

// ToggleActive flips the active flag of an enseigne
func (s *EnseigneService) ToggleActive(ctx context.Context, id uuid.UUID) (*EnseigneResponse, error) {
	enseigne, err := s.enseigneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	enseigne.ToggleActive()
	if err := s.enseigneRepo.SaveWithLock(ctx, enseigne); err != nil {
		return nil, err
	}

	response := ToEnseigneResponse(enseigne)
	return &response, nil
}

// Delete detaches every member then removes the enseigne
func (s *EnseigneService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.enseigneRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.enseigneRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, id)
	return nil
}

// SetParentOrganisation designates the legal entity of an enseigne. The
// organisation must already be a member; the previous parent loses the flag.
func (s *EnseigneService) SetParentOrganisation(ctx context.Context, enseigneID, organisationID uuid.UUID) (*EnseigneResponse, error) {
	enseigne, err := s.enseigneRepo.FindByID(ctx, enseigneID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	if org.EnseigneID == nil || *org.EnseigneID != enseigneID {
		return nil, partner.ErrOrganisationNotMember
	}

	previous, err := s.currentParentID(ctx, enseigneID)
	if err != nil {
		return nil, err
	}
	if previous != nil && *previous == organisationID {
		return s.GetByID(ctx, enseigneID)
	}

	if err := s.enseigneRepo.SetParent(ctx, enseigneID, organisationID); err != nil {
		return nil, err
	}
	enseigne.DesignateParent(previous, organisationID)
	s.publish(ctx, enseigne)

	s.logger.Info("Enseigne parent designated",
		zap.String("enseigne_id", enseigneID.String()),
		zap.String("organisation_id", organisationID.String()),
	)
	return s.GetByID(ctx, enseigneID)
}

// ClearParentOrganisation removes the parent designation of an enseigne
func (s *EnseigneService) ClearParentOrganisation(ctx context.Context, enseigneID uuid.UUID) (*EnseigneResponse, error) {
	enseigne, err := s.enseigneRepo.FindByID(ctx, enseigneID)
	if err != nil {
		return nil, err
	}
	previous, err := s.currentParentID(ctx, enseigneID)
	if err != nil {
		return nil, err
	}
	if err := s.enseigneRepo.ClearParent(ctx, enseigneID); err != nil {
		return nil, err
	}
	if previous != nil {
		enseigne.ClearParent(previous)
		s.publish(ctx, enseigne)
	}

	response := ToEnseigneResponse(enseigne)
	return &response, nil
}

// SaveMembers makes the member list of an enseigne equal to organisationIDs.
// Organisations no longer listed are unlinked and lose the parent flag.
func (s *EnseigneService) SaveMembers(ctx context.Context, enseigneID uuid.UUID, organisationIDs []uuid.UUID) (*SaveMembersResponse, error) {
	if _, err := s.enseigneRepo.FindByID(ctx, enseigneID); err != nil {
		return nil, err
	}
	current, err := s.orgRepo.FindMemberIDs(ctx, enseigneID)
	if err != nil {
		return nil, err
	}

	plan := partner.PlanMembership(current, organisationIDs)
	if err := s.applyMembership(ctx, enseigneID, plan); err != nil {
		return nil, err
	}
	return &SaveMembersResponse{Added: len(plan.ToAdd), Removed: len(plan.ToRemove)}, nil
}

// LinkOrganisation adds a single organisation to an enseigne
func (s *EnseigneService) LinkOrganisation(ctx context.Context, enseigneID, organisationID uuid.UUID) error {
	if _, err := s.enseigneRepo.FindByID(ctx, enseigneID); err != nil {
		return err
	}
	org, err := s.orgRepo.FindByID(ctx, organisationID)
	if err != nil {
		return err
	}
	if org.EnseigneID != nil && *org.EnseigneID == enseigneID {
		return nil
	}
	return s.applyMembership(ctx, enseigneID, partner.MembershipPlan{ToAdd: []uuid.UUID{organisationID}})
}

// UnlinkOrganisation removes a single organisation from an enseigne
func (s *EnseigneService) UnlinkOrganisation(ctx context.Context, enseigneID, organisationID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, organisationID)
	if err != nil {
		return err
	}
	if org.EnseigneID == nil || *org.EnseigneID != enseigneID {
		return partner.ErrOrganisationNotMember
	}
	return s.applyMembership(ctx, enseigneID, partner.MembershipPlan{ToRemove: []uuid.UUID{organisationID}})
}

// GetStats computes the figures of an enseigne network. Revenue sums the
// total_ttc of member organisation orders, excluding draft and cancelled.
func (s *EnseigneService) GetStats(ctx context.Context, enseigneID uuid.UUID) (*partner.EnseigneStats, error) {
	key := statsCacheKey(enseigneID)
	if s.statsCache != nil {
		var cached partner.EnseigneStats
		hit, err := s.statsCache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Enseigne stats cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	if _, err := s.enseigneRepo.FindByID(ctx, enseigneID); err != nil {
		return nil, err
	}

	memberIDs, err := s.orgRepo.FindMemberIDs(ctx, enseigneID)
	if err != nil {
		return nil, err
	}
	affiliateIDs, err := s.affiliateRepo.FindIDsByEnseigne(ctx, enseigneID)
	if err != nil {
		return nil, err
	}

	stats := &partner.EnseigneStats{
		EnseigneID:         enseigneID,
		OrganisationsCount: int64(len(memberIDs)),
		AffiliatesCount:    int64(len(affiliateIDs)),
		TotalRevenue:       decimal.Zero,
		ComputedAt:         s.now(),
	}
	if len(affiliateIDs) > 0 {
		if stats.SelectionsCount, err = s.selectionRepo.CountByAffiliates(ctx, affiliateIDs); err != nil {
			return nil, err
		}
	}
	if len(memberIDs) > 0 {
		if stats.TotalRevenue, err = s.orderRepo.SumTotalTTCByCustomers(ctx, memberIDs, trade.NonRevenueStatuses()); err != nil {
			return nil, err
		}
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
			s.logger.Warn("Enseigne stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *EnseigneService) applyMembership(ctx context.Context, enseigneID uuid.UUID, plan partner.MembershipPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	var moved map[uuid.UUID][]uuid.UUID
	if len(plan.ToAdd) > 0 {
		found, err := s.orgRepo.FindByIDs(ctx, plan.ToAdd)
		if err != nil {
			return err
		}
		if len(found) != len(plan.ToAdd) {
			return shared.NewDomainError(shared.ErrNotFound.Code, "One or more organisations do not exist")
		}
		moved = movedFrom(found, enseigneID)
	}
	if err := s.enseigneRepo.ApplyMembership(ctx, enseigneID, plan); err != nil {
		return err
	}

	s.logger.Info("Enseigne members updated",
		zap.String("enseigne_id", enseigneID.String()),
		zap.Int("added", len(plan.ToAdd)),
		zap.Int("removed", len(plan.ToRemove)),
	)
	events := []shared.DomainEvent{partner.NewEnseigneMembersChangedEvent(enseigneID, plan)}
	for previousID, ids := range moved {
		events = append(events, partner.NewEnseigneMembersChangedEvent(previousID, partner.MembershipPlan{ToRemove: ids}))
	}
	s.publishEvents(ctx, events...)
	return nil
}

// movedFrom groups organisations by the enseigne they leave when joining target
func movedFrom(orgs []partner.Organisation, target uuid.UUID) map[uuid.UUID][]uuid.UUID {
	moved := make(map[uuid.UUID][]uuid.UUID)
	for _, org := range orgs {
		if org.EnseigneID == nil || *org.EnseigneID == target {
			continue
		}
		moved[*org.EnseigneID] = append(moved[*org.EnseigneID], org.ID)
	}
	return moved
}

func (s *EnseigneService) currentParentID(ctx context.Context, enseigneID uuid.UUID) (*uuid.UUID, error) {
	parent, err := s.orgRepo.FindEnseigneParent(ctx, enseigneID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &parent.ID, nil
}

func (s *EnseigneService) invalidateStats(ctx context.Context, enseigneID uuid.UUID) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Delete(ctx, statsCacheKey(enseigneID)); err != nil {
		s.logger.Warn("Enseigne stats cache delete failed", zap.String("enseigne_id", enseigneID.String()), zap.Error(err))
	}
}

func (s *EnseigneService) publish(ctx context.Context, enseigne *partner.Enseigne) {
	if err := event.PublishPending(ctx, s.eventPublisher, enseigne); err != nil {
		s.logger.Warn("Failed to publish enseigne events",
			zap.String("enseigne_id", enseigne.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *EnseigneService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish enseigne events", zap.Error(err))
	}
}
