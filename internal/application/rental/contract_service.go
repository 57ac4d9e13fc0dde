package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/printing"
	"github.com/verone/backoffice/internal/infrastructure/storage"
	"github.com/verone/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ContractRenderer renders a contract document
type ContractRenderer interface {
	Render(ctx context.Context, view printing.ContractView) (*printing.ContractDocument, error)
}

// ContractService handles management contracts of the rental business
type ContractService struct {
	contractRepo rental.ContractRepository
	orgRepo      partner.OrganisationRepository
	renderer     ContractRenderer
	documents    storage.ObjectStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo rental.ContractRepository,
	orgRepo partner.OrganisationRepository,
	renderer ContractRenderer,
	documents storage.ObjectStorage,
	logger *zap.Logger,
) *ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		contractRepo: contractRepo,
		orgRepo:      orgRepo,
		renderer:     renderer,
		documents:    documents,
		logger:       logger,
		now:          time.Now,
	}
}

// Create validates the terms, checks availability and stores a contract
func (s *ContractService) Create(ctx context.Context, req ContractRequest) (*ContractResponse, error) {
	if _, err := s.orgRepo.FindByID(ctx, req.OrganisationID); err != nil {
		return nil, err
	}

	contract, err := rental.NewContract(req.toTerms())
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, contract.Target(), contract.StartDate, contract.EndDate, nil); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// GetByID retrieves a contract
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// List retrieves contracts with filtering and pagination
func (s *ContractService) List(ctx context.Context, filter ContractListFilter) ([]ContractResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "start_date"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	if filter.OrganisationID != nil {
		domainFilter.Filters[rental.FilterOrganisationID] = *filter.OrganisationID
	}
	if filter.PropertyID != nil {
		domainFilter.Filters[rental.FilterPropertyID] = *filter.PropertyID
	}
	if filter.UnitID != nil {
		domainFilter.Filters[rental.FilterUnitID] = *filter.UnitID
	}
	if filter.Type != "" {
		domainFilter.Filters[rental.FilterType] = filter.Type
	}
	if filter.Furnished != nil {
		domainFilter.Filters[rental.FilterFurnished] = *filter.Furnished
	}
	if filter.StartFrom != nil {
		domainFilter.Filters[rental.FilterStartFrom] = *filter.StartFrom
	}
	if filter.StartTo != nil {
		domainFilter.Filters[rental.FilterStartTo] = *filter.StartTo
	}
	if filter.EndFrom != nil {
		domainFilter.Filters[rental.FilterEndFrom] = *filter.EndFrom
	}
	if filter.EndTo != nil {
		domainFilter.Filters[rental.FilterEndTo] = *filter.EndTo
	}

	now := s.now()
	if filter.Status != "" {
		domainFilter.Filters[rental.FilterStatus] = filter.Status
		domainFilter.Filters[rental.FilterAt] = now
	}

	contracts, err := s.contractRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contractRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToContractResponses(contracts, now), total, nil
}

// Update replaces the terms of a contract. The contract itself is ignored
// by the availability check.
func (s *ContractService) Update(ctx context.Context, id uuid.UUID, req ContractRequest) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OrganisationID != contract.OrganisationID {
		if _, err := s.orgRepo.FindByID(ctx, req.OrganisationID); err != nil {
			return nil, err
		}
	}

	if err := contract.Update(req.toTerms()); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, contract.Target(), contract.StartDate, contract.EndDate, &contract.ID); err != nil {
		return nil, err
	}

	if err := s.contractRepo.SaveWithLock(ctx, contract); err != nil {
		return nil, err
	}

	response := ToContractResponse(contract, s.now())
	return &response, nil
}

// Delete removes a contract and its generated document
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return err
	}

	if contract.DocumentKey != "" {
		if err := s.documents.DeleteObject(ctx, contract.DocumentKey); err != nil {
			s.logger.Warn("Failed to delete contract document",
				zap.String("contract_id", id.String()),
				zap.String("key", contract.DocumentKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

// CheckAvailability lists the contracts overlapping the requested period
func (s *ContractService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	if (req.PropertyID == nil) == (req.UnitID == nil) {
		return nil, shared.NewDomainError("INVALID_TARGET", "Exactly one of property_id and unit_id is required")
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "Start date must be before the end date")
	}

	target := rental.Target{PropertyID: req.PropertyID, UnitID: req.UnitID}
	conflicts, err := s.contractRepo.FindOverlapping(ctx, target, req.StartDate, req.EndDate, req.ExcludeContractID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(conflicts))
	for i := range conflicts {
		ids[i] = conflicts[i].ID
	}
	return &AvailabilityResponse{Available: len(ids) == 0, Conflicting: ids}, nil
}

// Statistics counts contracts by derived status
func (s *ContractService) Statistics(ctx context.Context, filter StatisticsFilter) (*rental.Statistics, error) {
	domainFilter := shared.DefaultFilter()
	if filter.OrganisationID != nil {
		domainFilter.Filters[rental.FilterOrganisationID] = *filter.OrganisationID
	}
	if filter.PropertyID != nil {
		domainFilter.Filters[rental.FilterPropertyID] = *filter.PropertyID
	}
	if filter.UnitID != nil {
		domainFilter.Filters[rental.FilterUnitID] = *filter.UnitID
	}

	contracts, err := s.contractRepo.FindAllForStatistics(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	stats := rental.ComputeStatistics(contracts, s.now())
	return &stats, nil
}

// GenerateDocument renders the contract to PDF, stores it and returns a
// presigned download URL
func (s *ContractService) GenerateDocument(ctx context.Context, id uuid.UUID) (resp *ContractDocumentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "contract", "generate_document",
		attribute.String("contract.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := printing.ContractView{
		Contract:         contract,
		OrganisationName: s.organisationName(ctx, contract.OrganisationID),
		TargetLabel:      targetLabel(contract.Target()),
		GeneratedAt:      now,
	}
	doc, err := s.renderer.Render(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("render contract %s: %w", id, err)
	}

	key := storage.ContractDocumentKey(id.String(), now)
	if err := s.documents.Upload(ctx, key, doc.PDF, storage.ContentTypePDF); err != nil {
		return nil, fmt.Errorf("store contract document: %w", err)
	}

	previous := contract.DocumentKey
	contract.AttachDocument(key)
	if err := s.contractRepo.SaveWithLock(ctx, contract); err != nil {
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.documents.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete previous contract document",
				zap.String("contract_id", id.String()),
				zap.String("key", previous),
				zap.Error(err),
			)
		}
	}

	url, expiresAt, err := s.documents.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("presign contract document: %w", err)
	}

	s.logger.Info("Contract document generated",
		zap.String("contract_id", id.String()),
		zap.String("key", key),
		zap.Int("pages", doc.PageCount),
	)
	return &ContractDocumentResponse{
		ContractID:  id,
		DownloadURL: url,
		ExpiresAt:   expiresAt,
		PageCount:   doc.PageCount,
		GeneratedAt: now,
	}, nil
}

// DocumentURL presigns the last generated document of a contract
func (s *ContractService) DocumentURL(ctx context.Context, id uuid.UUID) (*ContractDocumentResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.DocumentKey == "" {
		return nil, shared.NewDomainError("DOCUMENT_NOT_GENERATED", "No document has been generated for this contract")
	}

	url, expiresAt, err := s.documents.GenerateDownloadURL(ctx, contract.DocumentKey, 0)
	if err != nil {
		return nil, fmt.Errorf("presign contract document: %w", err)
	}
	resp := &ContractDocumentResponse{ContractID: id, DownloadURL: url, ExpiresAt: expiresAt}
	if contract.DocumentGeneratedAt != nil {
		resp.GeneratedAt = *contract.DocumentGeneratedAt
	}
	return resp, nil
}

func (s *ContractService) ensureAvailable(ctx context.Context, target rental.Target, start, end time.Time, exclude *uuid.UUID) error {
	conflicts, err := s.contractRepo.FindOverlapping(ctx, target, start, end, exclude)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return rental.ErrContractUnavailable
	}
	return nil
}

// organisationName falls back to the id when the organisation cannot be read
func (s *ContractService) organisationName(ctx context.Context, id uuid.UUID) string {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("Organisation lookup failed for contract document",
			zap.String("organisation_id", id.String()),
			zap.Error(err),
		)
		return id.String()
	}
	return org.DisplayName()
}

func targetLabel(t rental.Target) string {
	if t.PropertyID != nil {
		return "Logement " + t.PropertyID.String()
	}
	if t.UnitID != nil {
		return "Lot " + t.UnitID.String()
	}
	return ""
}
