package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/rental"
)

// LandlordColumn stores the optional landlord block as JSON
type LandlordColumn struct {
	*rental.Landlord
}

// Value implements driver.Valuer
func (l LandlordColumn) Value() (driver.Value, error) {
	if l.Landlord == nil {
		return nil, nil
	}
	b, err := json.Marshal(l.Landlord)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *LandlordColumn) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		l.Landlord = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into LandlordColumn", value)
	}
	if len(data) == 0 {
		l.Landlord = nil
		return nil
	}
	var landlord rental.Landlord
	if err := json.Unmarshal(data, &landlord); err != nil {
		return err
	}
	l.Landlord = &landlord
	return nil
}

// ContractModel is the persistence model for a management contract.
type ContractModel struct {
	AggregateModel
	Type                  rental.ContractType `gorm:"type:varchar(10);not null"`
	OrganisationID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	PropertyID            *uuid.UUID          `gorm:"type:uuid;index"`
	UnitID                *uuid.UUID          `gorm:"type:uuid;index"`
	EmissionDate          time.Time           `gorm:"type:date;not null"`
	StartDate             time.Time           `gorm:"type:date;not null;index"`
	EndDate               time.Time           `gorm:"type:date;not null;index"`
	Furnished             bool                `gorm:"not null"`
	SubletAuthorized      bool                `gorm:"not null"`
	RenovationNeeded      bool                `gorm:"not null"`
	ImposedDurationMonths *int
	CommissionPercent     decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	OwnerUsageDaysMax     int              `gorm:"not null"`
	Landlord              LandlordColumn   `gorm:"type:jsonb"`
	MonthlyRent           *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Charges               *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Deposit               *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes                 string           `gorm:"type:text"`
	DocumentKey           string           `gorm:"type:varchar(500)"`
	DocumentGeneratedAt   *time.Time
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract.
func (m *ContractModel) ToDomain() *rental.Contract {
	return &rental.Contract{
		BaseAggregateRoot:     m.ToAggregateRoot(),
		Type:                  m.Type,
		OrganisationID:        m.OrganisationID,
		PropertyID:            m.PropertyID,
		UnitID:                m.UnitID,
		EmissionDate:          m.EmissionDate.UTC(),
		StartDate:             m.StartDate.UTC(),
		EndDate:               m.EndDate.UTC(),
		Furnished:             m.Furnished,
		SubletAuthorized:      m.SubletAuthorized,
		RenovationNeeded:      m.RenovationNeeded,
		ImposedDurationMonths: m.ImposedDurationMonths,
		CommissionPercent:     m.CommissionPercent,
		OwnerUsageDaysMax:     m.OwnerUsageDaysMax,
		Landlord:              m.Landlord.Landlord,
		MonthlyRent:           m.MonthlyRent,
		Charges:               m.Charges,
		Deposit:               m.Deposit,
		Notes:                 m.Notes,
		DocumentKey:           m.DocumentKey,
		DocumentGeneratedAt:   m.DocumentGeneratedAt,
	}
}

// FromDomain populates the persistence model from a domain Contract.
func (m *ContractModel) FromDomain(c *rental.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Type = c.Type
	m.OrganisationID = c.OrganisationID
	m.PropertyID = c.PropertyID
	m.UnitID = c.UnitID
	m.EmissionDate = c.EmissionDate
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.Furnished = c.Furnished
	m.SubletAuthorized = c.SubletAuthorized
	m.RenovationNeeded = c.RenovationNeeded
	m.ImposedDurationMonths = c.ImposedDurationMonths
	m.CommissionPercent = c.CommissionPercent
	m.OwnerUsageDaysMax = c.OwnerUsageDaysMax
	m.Landlord = LandlordColumn{Landlord: c.Landlord}
	m.MonthlyRent = c.MonthlyRent
	m.Charges = c.Charges
	m.Deposit = c.Deposit
	m.Notes = c.Notes
	m.DocumentKey = c.DocumentKey
	m.DocumentGeneratedAt = c.DocumentGeneratedAt
}
