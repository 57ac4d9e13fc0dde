package partner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/cache"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"go.uber.org/zap"
)

type enseigneFixture struct {
	service    *EnseigneService
	enseignes  *MockEnseigneRepository
	orgs       *MockOrganisationRepository
	affiliates *MockAffiliateRepository
	selections *MockSelectionRepository
	orders     *MockSalesOrderRepository
}

func newEnseigneFixture() *enseigneFixture {
	f := &enseigneFixture{
		enseignes:  new(MockEnseigneRepository),
		orgs:       new(MockOrganisationRepository),
		affiliates: new(MockAffiliateRepository),
		selections: new(MockSelectionRepository),
		orders:     new(MockSalesOrderRepository),
	}
	f.service = NewEnseigneService(f.enseignes, f.orgs, f.affiliates, f.selections, f.orders, nil)
	return f
}

func newTestEnseigne(t *testing.T) *partner.Enseigne {
	t.Helper()
	e, err := partner.NewEnseigne("Maison Verone", "Réseau de boutiques", "")
	require.NoError(t, err)
	e.ClearDomainEvents()
	return e
}

func memberOf(t *testing.T, name string, enseigneID uuid.UUID) *partner.Organisation {
	t.Helper()
	org := newTestOrganisation(t, name, partner.OwnershipFranchise)
	org.EnseigneID = &enseigneID
	return org
}

func TestEnseigneService_Create(t *testing.T) {
	ctx := context.Background()
	f := newEnseigneFixture()
	f.enseignes.On("Save", ctx, mock.AnythingOfType("*partner.Enseigne")).Return(nil)

	resp, err := f.service.Create(ctx, EnseigneRequest{Name: "  Maison Verone  "})
	require.NoError(t, err)
	assert.Equal(t, "Maison Verone", resp.Name)
	assert.True(t, resp.IsActive)

	_, err = f.service.Create(ctx, EnseigneRequest{Name: "   "})
	assert.Equal(t, "INVALID_NAME", shared.ErrorCode(err))
}

func TestEnseigneService_SetParentOrganisation(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces previous parent", func(t *testing.T) {
		f := newEnseigneFixture()
		publisher := new(MockEventPublisher)
		f.service.SetEventPublisher(publisher)
		enseigne := newTestEnseigne(t)
		previous := memberOf(t, "Ancien parent", enseigne.ID)
		previous.IsEnseigneParent = true
		next := memberOf(t, "Nouveau parent", enseigne.ID)

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindByID", ctx, next.ID).Return(next, nil)
		f.orgs.On("FindEnseigneParent", ctx, enseigne.ID).Return(previous, nil).Once()
		f.enseignes.On("SetParent", ctx, enseigne.ID, next.ID).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			changed, ok := events[0].(*partner.EnseigneParentChangedEvent)
			return ok && *changed.PreviousParent == previous.ID && *changed.NewParent == next.ID
		})).Return(nil)
		f.orgs.On("FindEnseigneParent", ctx, enseigne.ID).Return(next, nil)

		resp, err := f.service.SetParentOrganisation(ctx, enseigne.ID, next.ID)
		require.NoError(t, err)
		require.NotNil(t, resp.Parent)
		assert.Equal(t, next.ID, resp.Parent.ID)
		f.enseignes.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("organisation must be a member", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		outsider := newTestOrganisation(t, "Externe", partner.OwnershipNone)

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindByID", ctx, outsider.ID).Return(outsider, nil)

		_, err := f.service.SetParentOrganisation(ctx, enseigne.ID, outsider.ID)
		assert.Equal(t, "ORGANISATION_NOT_MEMBER", shared.ErrorCode(err))
		f.enseignes.AssertNotCalled(t, "SetParent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same parent is a no-op", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		parent := memberOf(t, "Parent", enseigne.ID)
		parent.IsEnseigneParent = true

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindByID", ctx, parent.ID).Return(parent, nil)
		f.orgs.On("FindEnseigneParent", ctx, enseigne.ID).Return(parent, nil)

		_, err := f.service.SetParentOrganisation(ctx, enseigne.ID, parent.ID)
		require.NoError(t, err)
		f.enseignes.AssertNotCalled(t, "SetParent", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEnseigneService_ClearParentOrganisation(t *testing.T) {
	ctx := context.Background()
	f := newEnseigneFixture()
	enseigne := newTestEnseigne(t)
	parent := memberOf(t, "Parent", enseigne.ID)

	f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
	f.orgs.On("FindEnseigneParent", ctx, enseigne.ID).Return(parent, nil)
	f.enseignes.On("ClearParent", ctx, enseigne.ID).Return(nil)

	_, err := f.service.ClearParentOrganisation(ctx, enseigne.ID)
	require.NoError(t, err)
	f.enseignes.AssertExpectations(t)
}

func TestEnseigneService_SaveMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("computes additions and removals", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		kept, removed, added := uuid.New(), uuid.New(), uuid.New()

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{kept, removed}, nil)
		f.orgs.On("FindByIDs", ctx, []uuid.UUID{added}).Return([]partner.Organisation{{}}, nil)
		f.enseignes.On("ApplyMembership", ctx, enseigne.ID, partner.MembershipPlan{
			ToAdd:    []uuid.UUID{added},
			ToRemove: []uuid.UUID{removed},
		}).Return(nil)

		resp, err := f.service.SaveMembers(ctx, enseigne.ID, []uuid.UUID{kept, added})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Added)
		assert.Equal(t, 1, resp.Removed)
		f.enseignes.AssertExpectations(t)
	})

	t.Run("unchanged list touches nothing", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		member := uuid.New()

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{member}, nil)

		resp, err := f.service.SaveMembers(ctx, enseigne.ID, []uuid.UUID{member})
		require.NoError(t, err)
		assert.Equal(t, SaveMembersResponse{}, *resp)
		f.enseignes.AssertNotCalled(t, "ApplyMembership", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown organisation", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		ghost := uuid.New()

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{}, nil)
		f.orgs.On("FindByIDs", ctx, []uuid.UUID{ghost}).Return([]partner.Organisation{}, nil)

		_, err := f.service.SaveMembers(ctx, enseigne.ID, []uuid.UUID{ghost})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestEnseigneService_UnlinkOrganisation(t *testing.T) {
	ctx := context.Background()
	f := newEnseigneFixture()
	enseigneID := uuid.New()
	member := memberOf(t, "Membre", enseigneID)
	outsider := newTestOrganisation(t, "Externe", partner.OwnershipNone)

	f.orgs.On("FindByID", ctx, member.ID).Return(member, nil)
	f.orgs.On("FindByID", ctx, outsider.ID).Return(outsider, nil)
	f.enseignes.On("ApplyMembership", ctx, enseigneID, partner.MembershipPlan{ToRemove: []uuid.UUID{member.ID}}).Return(nil)

	require.NoError(t, f.service.UnlinkOrganisation(ctx, enseigneID, member.ID))
	assert.Equal(t, "ORGANISATION_NOT_MEMBER", shared.ErrorCode(f.service.UnlinkOrganisation(ctx, enseigneID, outsider.ID)))
}

func TestEnseigneService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates members affiliates selections and revenue", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		members := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		affiliates := []uuid.UUID{uuid.New(), uuid.New()}

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return(members, nil)
		f.affiliates.On("FindIDsByEnseigne", ctx, enseigne.ID).Return(affiliates, nil)
		f.selections.On("CountByAffiliates", ctx, affiliates).Return(int64(5), nil)
		f.orders.On("SumTotalTTCByCustomers", ctx, members, []trade.OrderStatus{trade.OrderStatusDraft, trade.OrderStatusCancelled}).
			Return(decimal.RequireFromString("12480.60"), nil)

		stats, err := f.service.GetStats(ctx, enseigne.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.OrganisationsCount)
		assert.Equal(t, int64(2), stats.AffiliatesCount)
		assert.Equal(t, int64(5), stats.SelectionsCount)
		assert.Equal(t, "12480.6", stats.TotalRevenue.String())
	})

	t.Run("empty network skips follow-up queries", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)

		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{}, nil)
		f.affiliates.On("FindIDsByEnseigne", ctx, enseigne.ID).Return([]uuid.UUID{}, nil)

		stats, err := f.service.GetStats(ctx, enseigne.ID)
		require.NoError(t, err)
		assert.True(t, stats.TotalRevenue.IsZero())
		f.selections.AssertNotCalled(t, "CountByAffiliates", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "SumTotalTTCByCustomers", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("query failure is returned", func(t *testing.T) {
		f := newEnseigneFixture()
		enseigne := newTestEnseigne(t)
		f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
		f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{}, errors.New("db down"))

		_, err := f.service.GetStats(ctx, enseigne.ID)
		assert.EqualError(t, err, "db down")
	})
}

func TestEnseigneService_GetStats_CacheInvalidatedByMembershipEvents(t *testing.T) {
	ctx := context.Background()
	f := newEnseigneFixture()
	store := cache.NewInMemoryCache()
	defer store.Close()

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewStatsInvalidator(store, nil))
	f.service.SetEventPublisher(bus)
	f.service.SetStatsCache(store, time.Minute)

	enseigne := newTestEnseigne(t)
	newcomer := newTestOrganisation(t, "Nouvelle boutique", partner.OwnershipFranchise)
	added := newcomer.ID

	f.enseignes.On("FindByID", ctx, enseigne.ID).Return(enseigne, nil)
	f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{}, nil).Once()
	f.affiliates.On("FindIDsByEnseigne", ctx, enseigne.ID).Return([]uuid.UUID{}, nil)

	first, err := f.service.GetStats(ctx, enseigne.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.OrganisationsCount)

	cached, err := f.service.GetStats(ctx, enseigne.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.OrganisationsCount)
	f.orgs.AssertNumberOfCalls(t, "FindMemberIDs", 1)

	f.orgs.On("FindByID", ctx, added).Return(newcomer, nil)
	f.orgs.On("FindByIDs", ctx, []uuid.UUID{added}).Return([]partner.Organisation{*newcomer}, nil)
	f.enseignes.On("ApplyMembership", ctx, enseigne.ID, mock.Anything).Return(nil)
	f.orgs.On("FindMemberIDs", ctx, enseigne.ID).Return([]uuid.UUID{added}, nil)
	f.orders.On("SumTotalTTCByCustomers", ctx, []uuid.UUID{added}, mock.Anything).Return(decimal.Zero, nil)
	require.NoError(t, f.service.LinkOrganisation(ctx, enseigne.ID, added))

	fresh, err := f.service.GetStats(ctx, enseigne.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.OrganisationsCount)
}

func TestEnseigneService_LinkOrganisation_FromAnotherEnseigne(t *testing.T) {
	ctx := context.Background()
	f := newEnseigneFixture()
	store := cache.NewInMemoryCache()
	defer store.Close()

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewStatsInvalidator(store, nil))
	f.service.SetEventPublisher(bus)
	f.service.SetStatsCache(store, time.Minute)

	target := newTestEnseigne(t)
	previousID := uuid.New()
	shop := memberOf(t, "Boutique Bordeaux", previousID)

	require.NoError(t, store.SetJSON(ctx, statsCacheKey(previousID), partner.EnseigneStats{OrganisationsCount: 1}, time.Minute))
	require.NoError(t, store.SetJSON(ctx, statsCacheKey(target.ID), partner.EnseigneStats{}, time.Minute))

	f.enseignes.On("FindByID", ctx, target.ID).Return(target, nil)
	f.orgs.On("FindByID", ctx, shop.ID).Return(shop, nil)
	f.orgs.On("FindByIDs", ctx, []uuid.UUID{shop.ID}).Return([]partner.Organisation{*shop}, nil)
	f.enseignes.On("ApplyMembership", ctx, target.ID, partner.MembershipPlan{ToAdd: []uuid.UUID{shop.ID}}).Return(nil)

	require.NoError(t, f.service.LinkOrganisation(ctx, target.ID, shop.ID))

	var stats partner.EnseigneStats
	found, err := store.GetJSON(ctx, statsCacheKey(previousID), &stats)
	require.NoError(t, err)
	assert.False(t, found, "stats of the enseigne losing the member must be dropped")
	found, err = store.GetJSON(ctx, statsCacheKey(target.ID), &stats)
	require.NoError(t, err)
	assert.False(t, found)
	f.enseignes.AssertExpectations(t)
}

func TestMovedFrom(t *testing.T) {
	target, a, b := uuid.New(), uuid.New(), uuid.New()
	first := memberOf(t, "Premier", a)
	second := memberOf(t, "Second", a)
	third := memberOf(t, "Troisième", b)
	already := memberOf(t, "Déjà membre", target)
	free := newTestOrganisation(t, "Libre", partner.OwnershipNone)

	moved := movedFrom([]partner.Organisation{*first, *second, *third, *already, *free}, target)
	assert.Equal(t, map[uuid.UUID][]uuid.UUID{
		a: {first.ID, second.ID},
		b: {third.ID},
	}, moved)
}
