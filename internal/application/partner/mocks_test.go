package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/verone/backoffice/internal/domain/linkme"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
)

// MockOrganisationRepository is a mock implementation of partner.OrganisationRepository
type MockOrganisationRepository struct {
	mock.Mock
}

func (m *MockOrganisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Organisation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Organisation, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]partner.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Organisation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrganisationRepository) FindMemberIDs(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, enseigneID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockOrganisationRepository) FindEnseigneParent(ctx context.Context, enseigneID uuid.UUID) (*partner.Organisation, error) {
	args := m.Called(ctx, enseigneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) Save(ctx context.Context, org *partner.Organisation) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrganisationRepository) SaveWithLock(ctx context.Context, org *partner.Organisation) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrganisationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrganisationRepository) CountActiveUserRoles(ctx context.Context, organisationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, organisationID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnseigneRepository is a mock implementation of partner.EnseigneRepository
type MockEnseigneRepository struct {
	mock.Mock
}

func (m *MockEnseigneRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Enseigne, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Enseigne), args.Error(1)
}

func (m *MockEnseigneRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Enseigne, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Enseigne), args.Error(1)
}

func (m *MockEnseigneRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnseigneRepository) Save(ctx context.Context, enseigne *partner.Enseigne) error {
	return m.Called(ctx, enseigne).Error(0)
}

func (m *MockEnseigneRepository) SaveWithLock(ctx context.Context, enseigne *partner.Enseigne) error {
	return m.Called(ctx, enseigne).Error(0)
}

func (m *MockEnseigneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEnseigneRepository) SetParent(ctx context.Context, enseigneID, organisationID uuid.UUID) error {
	return m.Called(ctx, enseigneID, organisationID).Error(0)
}

func (m *MockEnseigneRepository) ClearParent(ctx context.Context, enseigneID uuid.UUID) error {
	return m.Called(ctx, enseigneID).Error(0)
}

func (m *MockEnseigneRepository) ApplyMembership(ctx context.Context, enseigneID uuid.UUID, plan partner.MembershipPlan) error {
	return m.Called(ctx, enseigneID, plan).Error(0)
}

// MockAffiliateRepository is a mock implementation of linkme.AffiliateRepository
type MockAffiliateRepository struct {
	mock.Mock
}

func (m *MockAffiliateRepository) FindByID(ctx context.Context, id uuid.UUID) (*linkme.Affiliate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linkme.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]linkme.Affiliate, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]linkme.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAffiliateRepository) FindIDsByEnseigne(ctx context.Context, enseigneID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, enseigneID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAffiliateRepository) Save(ctx context.Context, affiliate *linkme.Affiliate) error {
	return m.Called(ctx, affiliate).Error(0)
}

// MockSelectionRepository is a mock implementation of linkme.SelectionRepository
type MockSelectionRepository struct {
	mock.Mock
}

func (m *MockSelectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*linkme.Selection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linkme.Selection), args.Error(1)
}

func (m *MockSelectionRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSelectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]linkme.Selection, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]linkme.Selection), args.Error(1)
}

func (m *MockSelectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSelectionRepository) CountByAffiliates(ctx context.Context, affiliateIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, affiliateIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSelectionRepository) Save(ctx context.Context, selection *linkme.Selection) error {
	return m.Called(ctx, selection).Error(0)
}

func (m *MockSelectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSalesOrderRepository is a mock implementation of trade.SalesOrderRepository
type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) NextOrderSequence(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

func (m *MockSalesOrderRepository) SumTotalTTCByCustomers(ctx context.Context, customerIDs []uuid.UUID, excluded []trade.OrderStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, customerIDs, excluded)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSalesOrderRepository) Summarize(ctx context.Context, from, to time.Time, excluded []trade.OrderStatus) (trade.OrderSummary, error) {
	args := m.Called(ctx, from, to, excluded)
	return args.Get(0).(trade.OrderSummary), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
