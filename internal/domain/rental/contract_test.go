package rental

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/shared"
)

func day(offset int) time.Time {
	return time.Now().UTC().AddDate(0, 0, offset)
}

func validTerms() ContractTerms {
	property := uuid.New()
	return ContractTerms{
		Type:           ContractTypeFixe,
		OrganisationID: uuid.New(),
		PropertyID:     &property,
		StartDate:      day(10),
		EndDate:        day(375),
	}
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestNewContract(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewContract(validTerms())
		require.NoError(t, err)
		assert.Equal(t, truncateDay(time.Now()), c.EmissionDate)
		assert.False(t, c.Furnished)
		assert.True(t, c.SubletAuthorized)
		assert.False(t, c.RenovationNeeded)
		assert.Nil(t, c.ImposedDurationMonths)
		assert.True(t, c.CommissionPercent.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 60, c.OwnerUsageDaysMax)
		assert.Equal(t, 1, c.Version)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		terms := validTerms()
		terms.SubletAuthorized = boolPtr(false)
		terms.RenovationNeeded = true
		terms.ImposedDurationMonths = intPtr(36)
		terms.CommissionPercent = decPtr("0")
		terms.OwnerUsageDaysMax = intPtr(0)
		terms.Landlord = &Landlord{Name: "  Jeanne Martin "}
		terms.Financial = FinancialTerms{MonthlyRent: decPtr("1200"), Deposit: decPtr("2400")}

		c, err := NewContract(terms)
		require.NoError(t, err)
		assert.False(t, c.SubletAuthorized)
		assert.Equal(t, 36, *c.ImposedDurationMonths)
		assert.True(t, c.CommissionPercent.IsZero())
		assert.Equal(t, 0, c.OwnerUsageDaysMax)
		assert.Equal(t, "Jeanne Martin", c.Landlord.Name)
		assert.Equal(t, "1200", c.MonthlyRent.String())
		assert.Nil(t, c.Charges)
	})

	tests := []struct {
		name   string
		mutate func(*ContractTerms)
		code   string
	}{
		{"bad type", func(t *ContractTerms) { t.Type = "mixte" }, "INVALID_CONTRACT_TYPE"},
		{"missing organisation", func(t *ContractTerms) { t.OrganisationID = uuid.Nil }, "INVALID_ORGANISATION"},
		{"both property and unit", func(t *ContractTerms) { u := uuid.New(); t.UnitID = &u }, "INVALID_TARGET"},
		{"neither property nor unit", func(t *ContractTerms) { t.PropertyID = nil }, "INVALID_TARGET"},
		{"emission after start", func(t *ContractTerms) { e := day(20); t.EmissionDate = &e }, "INVALID_DATES"},
		{"start equals end", func(t *ContractTerms) { t.EndDate = t.StartDate }, "INVALID_DATES"},
		{"start after end", func(t *ContractTerms) { t.EndDate = day(5) }, "INVALID_DATES"},
		{"renovation without duration", func(t *ContractTerms) { t.RenovationNeeded = true }, "INVALID_IMPOSED_DURATION"},
		{"imposed duration too long", func(t *ContractTerms) {
			t.RenovationNeeded = true
			t.ImposedDurationMonths = intPtr(121)
		}, "INVALID_IMPOSED_DURATION"},
		{"imposed duration zero", func(t *ContractTerms) {
			t.RenovationNeeded = true
			t.ImposedDurationMonths = intPtr(0)
		}, "INVALID_IMPOSED_DURATION"},
		{"commission above 100", func(t *ContractTerms) { t.CommissionPercent = decPtr("100.5") }, "INVALID_COMMISSION"},
		{"negative commission", func(t *ContractTerms) { t.CommissionPercent = decPtr("-1") }, "INVALID_COMMISSION"},
		{"owner usage above a year", func(t *ContractTerms) { t.OwnerUsageDaysMax = intPtr(366) }, "INVALID_OWNER_USAGE"},
		{"negative deposit", func(t *ContractTerms) { t.Financial.Deposit = decPtr("-5") }, "INVALID_AMOUNT"},
		{"blank landlord", func(t *ContractTerms) { t.Landlord = &Landlord{Name: " "} }, "INVALID_LANDLORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := validTerms()
			tt.mutate(&terms)
			_, err := NewContract(terms)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestContract_Update(t *testing.T) {
	emission := day(-30)
	terms := validTerms()
	terms.EmissionDate = &emission
	c, err := NewContract(terms)
	require.NoError(t, err)

	t.Run("keeps the emission date when omitted", func(t *testing.T) {
		next := terms
		next.EmissionDate = nil
		next.Furnished = true
		require.NoError(t, c.Update(next))
		assert.Equal(t, truncateDay(emission), c.EmissionDate)
		assert.True(t, c.Furnished)
	})

	t.Run("invalid update leaves dates alone", func(t *testing.T) {
		next := terms
		next.EndDate = next.StartDate.AddDate(0, 0, -1)
		err := c.Update(next)
		assert.Equal(t, "INVALID_DATES", shared.ErrorCode(err))
		assert.Equal(t, truncateDay(terms.EndDate), c.EndDate)
	})
}

func TestContract_StatusAt(t *testing.T) {
	c, err := NewContract(validTerms())
	require.NoError(t, err)

	assert.Equal(t, ContractStatusUpcoming, c.StatusAt(day(9)))
	assert.Equal(t, ContractStatusActive, c.StatusAt(day(10)))
	assert.Equal(t, ContractStatusActive, c.StatusAt(day(375)))
	assert.Equal(t, ContractStatusFinished, c.StatusAt(day(376)))
}

func TestContract_Overlaps(t *testing.T) {
	c, err := NewContract(validTerms())
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"before", day(0), day(9), false},
		{"touching start", day(0), day(10), true},
		{"inside", day(50), day(60), true},
		{"covering", day(0), day(500), true},
		{"touching end", day(375), day(400), true},
		{"after", day(376), day(400), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Overlaps(tt.start, tt.end))
		})
	}
}

func TestComputeStatistics(t *testing.T) {
	mk := func(startOffset, endOffset int) Contract {
		emission := day(startOffset - 1)
		terms := validTerms()
		terms.EmissionDate = &emission
		terms.StartDate = day(startOffset)
		terms.EndDate = day(endOffset)
		c, err := NewContract(terms)
		require.NoError(t, err)
		return *c
	}

	t.Run("empty", func(t *testing.T) {
		s := ComputeStatistics(nil, time.Now())
		assert.Equal(t, Statistics{}, s)
	})

	t.Run("mixed", func(t *testing.T) {
		contracts := []Contract{
			mk(-100, 100),
			mk(-50, 50),
			mk(-400, -10),
			mk(5, 200),
			mk(-20, 20),
			mk(-300, -200),
		}
		s := ComputeStatistics(contracts, time.Now())
		assert.Equal(t, int64(6), s.Total)
		assert.Equal(t, int64(3), s.Active)
		assert.Equal(t, int64(2), s.Finished)
		assert.Equal(t, int64(1), s.Upcoming)
		assert.Equal(t, 50, s.OccupancyRate)
	})

	t.Run("rounds occupancy", func(t *testing.T) {
		s := ComputeStatistics([]Contract{mk(-1, 10), mk(-1, 10), mk(5, 10)}, time.Now())
		assert.Equal(t, 67, s.OccupancyRate)
	})
}

func TestContract_AttachDocument(t *testing.T) {
	c, err := NewContract(validTerms())
	require.NoError(t, err)
	c.AttachDocument("contracts/abc.pdf")
	assert.Equal(t, "contracts/abc.pdf", c.DocumentKey)
	assert.NotNil(t, c.DocumentGeneratedAt)
}
