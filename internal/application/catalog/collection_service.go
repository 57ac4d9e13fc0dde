package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/catalog"
	"github.com/verone/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// CollectionService handles collection-related business operations
type CollectionService struct {
	collectionRepo catalog.CollectionRepository
	logger         *zap.Logger
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo catalog.CollectionRepository, logger *zap.Logger) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// Create creates a new collection
func (s *CollectionService) Create(ctx context.Context, req CollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection)
	return &response, nil
}

// GetByID retrieves a collection with its ordered products
func (s *CollectionService) GetByID(ctx context.Context, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection)
	return &response, nil
}

// List retrieves collections with filtering and pagination
func (s *CollectionService) List(ctx context.Context, filter CollectionListFilter) ([]CollectionResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "display_order"
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

	if filter.Status != "" && filter.Status != "all" {
		domainFilter.Filters[catalog.FilterStatus] = filter.Status
	}
	if filter.Visibility != "" {
		domainFilter.Filters[catalog.FilterVisibility] = filter.Visibility
	}
	if filter.Style != "" {
		domainFilter.Filters[catalog.FilterStyle] = filter.Style
	}
	if filter.RoomCategory != "" {
		domainFilter.Filters[catalog.FilterRoomCategory] = filter.RoomCategory
	}
	if len(filter.Tags) > 0 {
		domainFilter.Filters[catalog.FilterTags] = filter.Tags
	}
	if filter.Shared != nil {
		domainFilter.Filters[catalog.FilterShared] = *filter.Shared
	}

	collections, err := s.collectionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.collectionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = ToCollectionResponse(&collections[i])
	}
	return responses, total, nil
}

// Update replaces the descriptive fields of a collection
func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, req CollectionRequest) (*CollectionResponse, error) {
	return s.mutate(ctx, id, func(c *catalog.Collection) error {
		return c.Update(req.toDetails())
	})
}

// ToggleActive flips the active flag
func (s *CollectionService) ToggleActive(ctx context.Context, id uuid.UUID) (*CollectionResponse, error) {
	return s.mutate(ctx, id, func(c *catalog.Collection) error {
		c.ToggleActive()
		return nil
	})
}

// Delete deletes a collection and its memberships
func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.collectionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, id)
}

// AddProduct appends a product at the end of the collection
func (s *CollectionService) AddProduct(ctx context.Context, id uuid.UUID, req AddProductRequest) (*CollectionResponse, error) {
	return s.mutate(ctx, id, func(c *catalog.Collection) error {
		_, err := c.AddProduct(req.ProductID)
		return err
	})
}

// RemoveProduct removes a product and compacts positions
func (s *CollectionService) RemoveProduct(ctx context.Context, id, productID uuid.UUID) (*CollectionResponse, error) {
	return s.mutate(ctx, id, func(c *catalog.Collection) error {
		return c.RemoveProduct(productID)
	})
}

// ReorderProducts assigns positions 1..n in the given order
func (s *CollectionService) ReorderProducts(ctx context.Context, id uuid.UUID, req ReorderProductsRequest) (*CollectionResponse, error) {
	return s.mutate(ctx, id, func(c *catalog.Collection) error {
		return c.ReorderProducts(req.ProductIDs)
	})
}

// Share records a share and returns the collection's link token
func (s *CollectionService) Share(ctx context.Context, id uuid.UUID, req ShareRequest) (*ShareResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	share, err := collection.Share(catalog.ShareType(req.ShareType))
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.RecordShare(ctx, collection, share); err != nil {
		return nil, err
	}
	s.logger.Debug("Collection shared",
		zap.String("collection_id", collection.ID.String()),
		zap.String("share_type", req.ShareType),
		zap.Int("shared_count", collection.SharedCount),
	)
	return &ShareResponse{
		CollectionID: collection.ID,
		ShareType:    string(share.ShareType),
		Token:        share.Token,
		SharedCount:  collection.SharedCount,
		SharedAt:     share.SharedAt,
	}, nil
}

func (s *CollectionService) mutate(ctx context.Context, id uuid.UUID, apply func(*catalog.Collection) error) (*CollectionResponse, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(collection); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.SaveWithLock(ctx, collection); err != nil {
		return nil, err
	}
	response := ToCollectionResponse(collection)
	return &response, nil
}
