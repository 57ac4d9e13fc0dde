package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/catalog"
	"github.com/verone/backoffice/internal/domain/shared"
)

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) SaveWithLock(ctx context.Context, collection *catalog.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCollectionRepository) RecordShare(ctx context.Context, collection *catalog.Collection, share *catalog.CollectionShare) error {
	return m.Called(ctx, collection, share).Error(0)
}

func (m *MockCollectionRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestCollection(t *testing.T, products ...uuid.UUID) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(catalog.CollectionDetails{Name: "Salon scandinave", Style: catalog.StyleScandinave})
	require.NoError(t, err)
	for _, id := range products {
		_, err := c.AddProduct(id)
		require.NoError(t, err)
	}
	return c
}

func positions(resp *CollectionResponse) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(resp.Products))
	for _, p := range resp.Products {
		out[p.ProductID] = p.Position
	}
	return out
}

func TestCollectionService_Create(t *testing.T) {
	t.Run("defaults to an active private collection", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Collection")).Return(nil)

		resp, err := svc.Create(context.Background(), CollectionRequest{
			Name:      "  Chambre bohème ",
			Style:     "boheme",
			ThemeTags: []string{"Lin", "lin", " naturel "},
		})
		require.NoError(t, err)
		assert.Equal(t, "Chambre bohème", resp.Name)
		assert.True(t, resp.IsActive)
		assert.Equal(t, "private", resp.Visibility)
		assert.Equal(t, []string{"lin", "naturel"}, resp.ThemeTags)
	})

	t.Run("rejects an unknown room category", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)

		_, err := svc.Create(context.Background(), CollectionRequest{Name: "Garage", RoomCategory: "garage"})
		require.Error(t, err)
		assert.Equal(t, "INVALID_ROOM_CATEGORY", shared.ErrorCode(err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCollectionService_Products(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("add appends at max+1 and rejects duplicates", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		collection := newTestCollection(t, a, b)
		repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)
		repo.On("SaveWithLock", mock.Anything, collection).Return(nil)

		resp, err := svc.AddProduct(context.Background(), collection.ID, AddProductRequest{ProductID: c})
		require.NoError(t, err)
		assert.Equal(t, 3, positions(resp)[c])
		assert.Equal(t, 3, resp.ProductCount)

		_, err = svc.AddProduct(context.Background(), collection.ID, AddProductRequest{ProductID: a})
		assert.Equal(t, "DUPLICATE_PRODUCT", shared.ErrorCode(err))
		repo.AssertNumberOfCalls(t, "SaveWithLock", 1)
	})

	t.Run("remove compacts positions", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		collection := newTestCollection(t, a, b, c)
		repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)
		repo.On("SaveWithLock", mock.Anything, collection).Return(nil)

		resp, err := svc.RemoveProduct(context.Background(), collection.ID, a)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{b: 1, c: 2}, positions(resp))
	})

	t.Run("reorder assigns contiguous positions", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		collection := newTestCollection(t, a, b, c)
		repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)
		repo.On("SaveWithLock", mock.Anything, collection).Return(nil)

		resp, err := svc.ReorderProducts(context.Background(), collection.ID, ReorderProductsRequest{ProductIDs: []uuid.UUID{c, a, b}})
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{c: 1, a: 2, b: 3}, positions(resp))
	})

	t.Run("reorder rejects anything but a permutation", func(t *testing.T) {
		cases := map[string][]uuid.UUID{
			"missing member": {a, b},
			"duplicate":      {a, a, b},
			"stranger":       {a, b, uuid.New()},
		}
		for name, ids := range cases {
			t.Run(name, func(t *testing.T) {
				repo := new(MockCollectionRepository)
				svc := NewCollectionService(repo, nil)
				collection := newTestCollection(t, a, b, c)
				repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)

				_, err := svc.ReorderProducts(context.Background(), collection.ID, ReorderProductsRequest{ProductIDs: ids})
				assert.Equal(t, "INVALID_ORDER", shared.ErrorCode(err))
				repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestCollectionService_Share(t *testing.T) {
	t.Run("keeps the token across shares", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		collection := newTestCollection(t)
		repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)
		repo.On("RecordShare", mock.Anything, collection, mock.AnythingOfType("*catalog.CollectionShare")).Return(nil)

		first, err := svc.Share(context.Background(), collection.ID, ShareRequest{ShareType: "link"})
		require.NoError(t, err)
		second, err := svc.Share(context.Background(), collection.ID, ShareRequest{ShareType: "email"})
		require.NoError(t, err)

		assert.Len(t, first.Token, 32)
		assert.Equal(t, first.Token, second.Token)
		assert.Equal(t, 2, second.SharedCount)
	})

	t.Run("refuses inactive collections", func(t *testing.T) {
		repo := new(MockCollectionRepository)
		svc := NewCollectionService(repo, nil)
		collection := newTestCollection(t)
		collection.ToggleActive()
		repo.On("FindByID", mock.Anything, collection.ID).Return(collection, nil)

		_, err := svc.Share(context.Background(), collection.ID, ShareRequest{ShareType: "pdf"})
		assert.Equal(t, shared.ErrInvalidState.Code, shared.ErrorCode(err))
	})
}

func TestCollectionService_List(t *testing.T) {
	repo := new(MockCollectionRepository)
	svc := NewCollectionService(repo, nil)
	onlyShared := true
	matches := mock.MatchedBy(func(f shared.Filter) bool {
		_, hasStatus := f.Filters[catalog.FilterStatus]
		return !hasStatus && f.OrderBy == "display_order" &&
			f.Filters[catalog.FilterShared] == true &&
			len(f.Filters[catalog.FilterTags].([]string)) == 1
	})
	repo.On("FindAll", mock.Anything, matches).Return([]catalog.Collection{*newTestCollection(t)}, nil)
	repo.On("Count", mock.Anything, matches).Return(int64(1), nil)

	list, total, err := svc.List(context.Background(), CollectionListFilter{Status: "all", Shared: &onlyShared, Tags: []string{"lin"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestCollectionService_Delete(t *testing.T) {
	repo := new(MockCollectionRepository)
	svc := NewCollectionService(repo, nil)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	err := svc.Delete(context.Background(), missing)
	assert.True(t, shared.IsNotFound(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
