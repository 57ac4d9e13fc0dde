package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/shared"
)

func newTestOrganisation(t *testing.T, ownership OwnershipType) *Organisation {
	t.Helper()
	org, err := NewOrganisation(OrganisationProfile{
		LegalName:     "Maison Verone SAS",
		Type:          OrganisationTypeCustomer,
		OwnershipType: ownership,
	})
	require.NoError(t, err)
	return org
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewOrganisation(t *testing.T) {
	t.Run("creates active organisation with defaults", func(t *testing.T) {
		org, err := NewOrganisation(OrganisationProfile{LegalName: "  Atelier Nord  ", Email: "Contact@Atelier.FR"})

		require.NoError(t, err)
		assert.Equal(t, "Atelier Nord", org.LegalName)
		assert.Equal(t, OrganisationTypeCustomer, org.Type)
		assert.Equal(t, "contact@atelier.fr", org.Email)
		assert.Equal(t, "EUR", org.Terms.Currency)
		assert.True(t, org.IsActive)
		assert.False(t, org.IsArchived())
		assert.Len(t, org.GetDomainEvents(), 1)
	})

	tests := []struct {
		name    string
		profile OrganisationProfile
		code    string
	}{
		{"empty legal name", OrganisationProfile{LegalName: " "}, "INVALID_LEGAL_NAME"},
		{"unknown type", OrganisationProfile{LegalName: "A", Type: "reseller"}, "INVALID_ORGANISATION_TYPE"},
		{"unknown ownership", OrganisationProfile{LegalName: "A", OwnershipType: "coop"}, "INVALID_OWNERSHIP_TYPE"},
		{"bad email", OrganisationProfile{LegalName: "A", Email: "nope"}, "INVALID_EMAIL"},
		{"short siren", OrganisationProfile{LegalName: "A", Siren: "1234"}, "INVALID_SIREN"},
		{"bad siret", OrganisationProfile{LegalName: "A", Siret: "1234567890123X"}, "INVALID_SIRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, err := NewOrganisation(tt.profile)
			assert.Nil(t, org)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}

	t.Run("accepts spaced siren and siret", func(t *testing.T) {
		org, err := NewOrganisation(OrganisationProfile{LegalName: "A", Siren: "552 100 554", Siret: "552 100 554 00013"})
		require.NoError(t, err)
		assert.Equal(t, "552100554", org.Siren)
		assert.Equal(t, "55210055400013", org.Siret)
	})
}

func TestOrganisation_DisplayName(t *testing.T) {
	org := newTestOrganisation(t, OwnershipNone)
	assert.Equal(t, "Maison Verone SAS", org.DisplayName())
	assert.False(t, org.HasDifferentTradeName)

	require.NoError(t, org.Update(OrganisationProfile{LegalName: "Maison Verone SAS", TradeName: "Verone"}))
	assert.Equal(t, "Verone", org.DisplayName())
	assert.True(t, org.HasDifferentTradeName)
}

func TestOrganisation_SetCommercialTerms(t *testing.T) {
	t.Run("franchise can edit terms", func(t *testing.T) {
		org := newTestOrganisation(t, OwnershipFranchise)
		err := org.SetCommercialTerms(CommercialTerms{
			PaymentTerms:       "30 jours fin de mois",
			DeliveryTimeDays:   intPtr(5),
			MinimumOrderAmount: decPtr("150.00"),
			Currency:           "eur",
		})
		require.NoError(t, err)
		assert.Equal(t, "EUR", org.Terms.Currency)
		assert.Equal(t, 5, *org.Terms.DeliveryTimeDays)
	})

	t.Run("succursale rejects any direct edit", func(t *testing.T) {
		org := newTestOrganisation(t, OwnershipSuccursale)
		for _, terms := range []CommercialTerms{
			{PaymentTerms: "comptant"},
			{DeliveryTimeDays: intPtr(3)},
			{MinimumOrderAmount: decPtr("10")},
			{PrepaymentRequired: true},
		} {
			err := org.SetCommercialTerms(terms)
			assert.Equal(t, ErrSuccursaleTermsReadOnly.Code, shared.ErrorCode(err))
		}
		assert.Nil(t, org.Terms.DeliveryTimeDays)
	})

	t.Run("rejects negative values", func(t *testing.T) {
		org := newTestOrganisation(t, OwnershipNone)
		assert.Error(t, org.SetCommercialTerms(CommercialTerms{DeliveryTimeDays: intPtr(-1)}))
		assert.Error(t, org.SetCommercialTerms(CommercialTerms{MinimumOrderAmount: decPtr("-5")}))
	})
}

func TestOrganisation_EffectiveTerms(t *testing.T) {
	parent := newTestOrganisation(t, OwnershipNone)
	require.NoError(t, parent.SetCommercialTerms(CommercialTerms{PaymentTerms: "45 jours", Currency: "EUR"}))

	branch := newTestOrganisation(t, OwnershipSuccursale)
	assert.Equal(t, "45 jours", branch.EffectiveTerms(parent).PaymentTerms)
	assert.Equal(t, branch.Terms, branch.EffectiveTerms(nil))

	franchise := newTestOrganisation(t, OwnershipFranchise)
	assert.Equal(t, franchise.Terms, franchise.EffectiveTerms(parent))
}

func TestOrganisation_Archive(t *testing.T) {
	org := newTestOrganisation(t, OwnershipNone)
	org.ClearDomainEvents()

	require.NoError(t, org.Archive())
	assert.True(t, org.IsArchived())
	assert.False(t, org.IsActive)
	assert.Equal(t, ErrAlreadyArchived, org.Archive())

	require.NoError(t, org.Unarchive())
	assert.False(t, org.IsArchived())
	assert.True(t, org.IsActive)
	assert.Equal(t, ErrNotArchived, org.Unarchive())

	events := org.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeOrganisationArchived, events[0].EventType())
	assert.Equal(t, EventTypeOrganisationUnarchived, events[1].EventType())
}

func TestOrganisation_Enseigne(t *testing.T) {
	org := newTestOrganisation(t, OwnershipFranchise)
	enseigneID := uuid.New()

	org.JoinEnseigne(enseigneID)
	org.IsEnseigneParent = true
	org.JoinEnseigne(enseigneID)
	assert.True(t, org.IsEnseigneParent, "rejoining the same enseigne keeps the flag")

	org.JoinEnseigne(uuid.New())
	assert.False(t, org.IsEnseigneParent)

	org.IsEnseigneParent = true
	org.LeaveEnseigne()
	assert.Nil(t, org.EnseigneID)
	assert.False(t, org.IsEnseigneParent)
}

func TestOrganisation_CheckDeletable(t *testing.T) {
	org := newTestOrganisation(t, OwnershipNone)
	assert.NoError(t, org.CheckDeletable(0))
	assert.Equal(t, ErrOrganisationHasUsers.Code, shared.ErrorCode(org.CheckDeletable(2)))

	org.IsEnseigneParent = true
	assert.Equal(t, ErrOrganisationIsParent, org.CheckDeletable(0))
}
