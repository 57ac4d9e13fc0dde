package rental

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// ContractType is the remuneration model of a management contract
type ContractType string

const (
	ContractTypeFixe     ContractType = "fixe"
	ContractTypeVariable ContractType = "variable"
)

// IsValid checks the contract type
func (t ContractType) IsValid() bool {
	return t == ContractTypeFixe || t == ContractTypeVariable
}

// ContractStatus is derived from the contract dates
type ContractStatus string

const (
	ContractStatusUpcoming ContractStatus = "upcoming"
	ContractStatusActive   ContractStatus = "active"
	ContractStatusFinished ContractStatus = "finished"
)

// Defaults and bounds of contract terms
const (
	DefaultOwnerUsageDays = 60
	MaxOwnerUsageDays     = 365
	MinImposedDuration    = 1
	MaxImposedDuration    = 120
)

// DefaultCommissionPercent is the agency commission when none is given
var DefaultCommissionPercent = decimal.NewFromInt(10)

// ErrContractUnavailable is returned when dates overlap another contract
var ErrContractUnavailable = shared.NewDomainError("CONTRACT_UNAVAILABLE",
	"Another contract already covers this property or unit for the requested dates")

// Landlord identifies the owner signing the contract
type Landlord struct {
	Name    string              `json:"name"`
	Email   string              `json:"email,omitempty"`
	Phone   string              `json:"phone,omitempty"`
	Address valueobject.Address `json:"address"`
}

// FinancialTerms are the optional money terms of a contract
type FinancialTerms struct {
	MonthlyRent *decimal.Decimal
	Charges     *decimal.Decimal
	Deposit     *decimal.Decimal
}

// ContractTerms holds every field set at creation or update
type ContractTerms struct {
	Type                  ContractType
	OrganisationID        uuid.UUID
	PropertyID            *uuid.UUID
	UnitID                *uuid.UUID
	EmissionDate          *time.Time
	StartDate             time.Time
	EndDate               time.Time
	Furnished             bool
	SubletAuthorized      *bool
	RenovationNeeded      bool
	ImposedDurationMonths *int
	CommissionPercent     *decimal.Decimal
	OwnerUsageDaysMax     *int
	Landlord              *Landlord
	Financial             FinancialTerms
	Notes                 string
}

// Contract is a short-term-rental management contract on one property or unit
type Contract struct {
	shared.BaseAggregateRoot
	Type                  ContractType
	OrganisationID        uuid.UUID
	PropertyID            *uuid.UUID
	UnitID                *uuid.UUID
	EmissionDate          time.Time
	StartDate             time.Time
	EndDate               time.Time
	Furnished             bool
	SubletAuthorized      bool
	RenovationNeeded      bool
	ImposedDurationMonths *int
	CommissionPercent     decimal.Decimal
	OwnerUsageDaysMax     int
	Landlord              *Landlord
	MonthlyRent           *decimal.Decimal
	Charges               *decimal.Decimal
	Deposit               *decimal.Decimal
	Notes                 string
	DocumentKey           string
	DocumentGeneratedAt   *time.Time
}

// NewContract validates the terms and creates a contract
func NewContract(terms ContractTerms) (*Contract, error) {
	c := &Contract{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(terms, time.Now()); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the terms of the contract
func (c *Contract) Update(terms ContractTerms) error {
	if terms.EmissionDate == nil {
		emission := c.EmissionDate
		terms.EmissionDate = &emission
	}
	if err := c.apply(terms, time.Now()); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Contract) apply(t ContractTerms, now time.Time) error {
	if !t.Type.IsValid() {
		return shared.NewDomainError("INVALID_CONTRACT_TYPE", fmt.Sprintf("Unknown contract type %q", t.Type))
	}
	if t.OrganisationID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORGANISATION", "Organisation ID is required")
	}
	if (t.PropertyID == nil) == (t.UnitID == nil) {
		return shared.NewDomainError("INVALID_TARGET", "A contract must reference exactly one of property or unit")
	}

	emission := truncateDay(now)
	if t.EmissionDate != nil {
		emission = truncateDay(*t.EmissionDate)
	}
	start := truncateDay(t.StartDate)
	end := truncateDay(t.EndDate)
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Start and end dates are required")
	}
	if emission.After(start) {
		return shared.NewDomainError("INVALID_DATES", "Emission date cannot be after the start date")
	}
	if !start.Before(end) {
		return shared.NewDomainError("INVALID_DATES", "Start date must be before the end date")
	}

	if t.RenovationNeeded {
		if t.ImposedDurationMonths == nil {
			return shared.NewDomainError("INVALID_IMPOSED_DURATION", "Imposed duration is required when renovation is needed")
		}
		if *t.ImposedDurationMonths < MinImposedDuration || *t.ImposedDurationMonths > MaxImposedDuration {
			return shared.NewDomainError("INVALID_IMPOSED_DURATION",
				fmt.Sprintf("Imposed duration must be between %d and %d months", MinImposedDuration, MaxImposedDuration))
		}
	}

	commission := DefaultCommissionPercent
	if t.CommissionPercent != nil {
		commission = *t.CommissionPercent
	}
	if commission.IsNegative() || commission.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission must be between 0 and 100 percent")
	}

	usage := DefaultOwnerUsageDays
	if t.OwnerUsageDaysMax != nil {
		usage = *t.OwnerUsageDaysMax
	}
	if usage < 0 || usage > MaxOwnerUsageDays {
		return shared.NewDomainError("INVALID_OWNER_USAGE", fmt.Sprintf("Owner usage must be between 0 and %d days", MaxOwnerUsageDays))
	}

	for _, amount := range []*decimal.Decimal{t.Financial.MonthlyRent, t.Financial.Charges, t.Financial.Deposit} {
		if amount != nil && amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Financial amounts cannot be negative")
		}
	}
	if t.Landlord != nil {
		t.Landlord.Name = strings.TrimSpace(t.Landlord.Name)
		if t.Landlord.Name == "" {
			return shared.NewDomainError("INVALID_LANDLORD", "Landlord name is required")
		}
	}

	sublet := true
	if t.SubletAuthorized != nil {
		sublet = *t.SubletAuthorized
	}

	c.Type = t.Type
	c.OrganisationID = t.OrganisationID
	c.PropertyID = t.PropertyID
	c.UnitID = t.UnitID
	c.EmissionDate = emission
	c.StartDate = start
	c.EndDate = end
	c.Furnished = t.Furnished
	c.SubletAuthorized = sublet
	c.RenovationNeeded = t.RenovationNeeded
	c.ImposedDurationMonths = nil
	if t.RenovationNeeded {
		c.ImposedDurationMonths = t.ImposedDurationMonths
	}
	c.CommissionPercent = commission
	c.OwnerUsageDaysMax = usage
	c.Landlord = t.Landlord
	c.MonthlyRent = t.Financial.MonthlyRent
	c.Charges = t.Financial.Charges
	c.Deposit = t.Financial.Deposit
	c.Notes = strings.TrimSpace(t.Notes)
	return nil
}

// StatusAt derives the contract status at the given day
func (c *Contract) StatusAt(at time.Time) ContractStatus {
	day := truncateDay(at)
	switch {
	case day.Before(c.StartDate):
		return ContractStatusUpcoming
	case day.After(c.EndDate):
		return ContractStatusFinished
	default:
		return ContractStatusActive
	}
}

// Overlaps reports whether [start, end] intersects the contract period, bounds included
func (c *Contract) Overlaps(start, end time.Time) bool {
	return !truncateDay(start).After(c.EndDate) && !truncateDay(end).Before(c.StartDate)
}

// Target returns the property or unit the contract covers
func (c *Contract) Target() Target {
	return Target{PropertyID: c.PropertyID, UnitID: c.UnitID}
}

// DurationMonths returns the contract length rounded to whole months
func (c *Contract) DurationMonths() int {
	days := c.EndDate.Sub(c.StartDate).Hours() / 24
	return int(math.Round(days / 30.4375))
}

// AttachDocument records the stored rendering of the contract
func (c *Contract) AttachDocument(key string) {
	now := time.Now()
	c.DocumentKey = key
	c.DocumentGeneratedAt = &now
	c.UpdatedAt = now
}

// Target designates a property or a unit
type Target struct {
	PropertyID *uuid.UUID
	UnitID     *uuid.UUID
}

// Statistics counts contracts by derived status
type Statistics struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	Finished      int64 `json:"finished"`
	Upcoming      int64 `json:"upcoming"`
	OccupancyRate int   `json:"occupancy_rate"`
}

// ComputeStatistics derives statistics from contracts at the given day.
// Occupancy is round(active / total × 100), 0 when there is no contract.
func ComputeStatistics(contracts []Contract, at time.Time) Statistics {
	var s Statistics
	for i := range contracts {
		s.Total++
		switch contracts[i].StatusAt(at) {
		case ContractStatusActive:
			s.Active++
		case ContractStatusFinished:
			s.Finished++
		case ContractStatusUpcoming:
			s.Upcoming++
		}
	}
	if s.Total > 0 {
		s.OccupancyRate = int(math.Round(float64(s.Active) / float64(s.Total) * 100))
	}
	return s
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
