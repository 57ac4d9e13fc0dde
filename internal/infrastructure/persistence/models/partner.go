package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// OrganisationModel is the persistence model for the Organisation aggregate.
type OrganisationModel struct {
	AggregateModel
	LegalName             string                   `gorm:"type:varchar(255);not null"`
	TradeName             string                   `gorm:"type:varchar(255)"`
	HasDifferentTradeName bool                     `gorm:"not null"`
	Type                  partner.OrganisationType `gorm:"type:varchar(20);not null;default:'customer';index"`
	Email                 string                   `gorm:"type:varchar(255)"`
	Phone                 string                   `gorm:"type:varchar(50)"`
	Website               string                   `gorm:"type:varchar(255)"`
	Country               string                   `gorm:"type:varchar(2);not null;default:'FR'"`
	BillingAddress        valueobject.Address      `gorm:"type:jsonb"`
	ShippingAddress       valueobject.Address      `gorm:"type:jsonb"`
	Siren                 string                   `gorm:"type:varchar(9)"`
	Siret                 string                   `gorm:"type:varchar(14)"`
	VATNumber             string                   `gorm:"column:vat_number;type:varchar(20)"`
	LegalForm             string                   `gorm:"type:varchar(50)"`
	IndustrySector        string                   `gorm:"type:varchar(100)"`
	IsServiceProvider     bool                     `gorm:"not null"`
	OwnershipType         partner.OwnershipType    `gorm:"type:varchar(20)"`
	CustomerType          partner.CustomerType     `gorm:"type:varchar(20)"`
	EnseigneID            *uuid.UUID               `gorm:"type:uuid;index"`
	IsEnseigneParent      bool                     `gorm:"not null"`
	PaymentTerms          string                   `gorm:"type:varchar(50)"`
	DeliveryTimeDays      *int
	MinimumOrderAmount    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency              string           `gorm:"type:varchar(3);not null;default:'EUR'"`
	PrepaymentRequired    bool             `gorm:"not null"`
	Notes                 string           `gorm:"type:text"`
	IsActive              bool             `gorm:"not null;index"`
	ArchivedAt            *time.Time       `gorm:"index"`
	SearchText            string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrganisationModel) TableName() string {
	return "organisations"
}

// ToDomain converts the persistence model to a domain Organisation.
func (m *OrganisationModel) ToDomain() *partner.Organisation {
	return &partner.Organisation{
		BaseAggregateRoot:     m.ToAggregateRoot(),
		LegalName:             m.LegalName,
		TradeName:             m.TradeName,
		HasDifferentTradeName: m.HasDifferentTradeName,
		Type:                  m.Type,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Website:               m.Website,
		Country:               m.Country,
		BillingAddress:        m.BillingAddress,
		ShippingAddress:       m.ShippingAddress,
		Siren:                 m.Siren,
		Siret:                 m.Siret,
		VATNumber:             m.VATNumber,
		LegalForm:             m.LegalForm,
		IndustrySector:        m.IndustrySector,
		IsServiceProvider:     m.IsServiceProvider,
		OwnershipType:         m.OwnershipType,
		CustomerType:          m.CustomerType,
		EnseigneID:            m.EnseigneID,
		IsEnseigneParent:      m.IsEnseigneParent,
		Terms: partner.CommercialTerms{
			PaymentTerms:       m.PaymentTerms,
			DeliveryTimeDays:   m.DeliveryTimeDays,
			MinimumOrderAmount: m.MinimumOrderAmount,
			Currency:           m.Currency,
			PrepaymentRequired: m.PrepaymentRequired,
		},
		Notes:      m.Notes,
		IsActive:   m.IsActive,
		ArchivedAt: m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain Organisation.
// searchText is the folded value of the searchable columns.
func (m *OrganisationModel) FromDomain(o *partner.Organisation, searchText string) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.LegalName = o.LegalName
	m.TradeName = o.TradeName
	m.HasDifferentTradeName = o.HasDifferentTradeName
	m.Type = o.Type
	m.Email = o.Email
	m.Phone = o.Phone
	m.Website = o.Website
	m.Country = o.Country
	m.BillingAddress = o.BillingAddress
	m.ShippingAddress = o.ShippingAddress
	m.Siren = o.Siren
	m.Siret = o.Siret
	m.VATNumber = o.VATNumber
	m.LegalForm = o.LegalForm
	m.IndustrySector = o.IndustrySector
	m.IsServiceProvider = o.IsServiceProvider
	m.OwnershipType = o.OwnershipType
	m.CustomerType = o.CustomerType
	m.EnseigneID = o.EnseigneID
	m.IsEnseigneParent = o.IsEnseigneParent
	m.PaymentTerms = o.Terms.PaymentTerms
	m.DeliveryTimeDays = o.Terms.DeliveryTimeDays
	m.MinimumOrderAmount = o.Terms.MinimumOrderAmount
	m.Currency = o.Terms.Currency
	m.PrepaymentRequired = o.Terms.PrepaymentRequired
	m.Notes = o.Notes
	m.IsActive = o.IsActive
	m.ArchivedAt = o.ArchivedAt
	m.SearchText = searchText
}

// OrganisationModelFromDomain creates a new persistence model from a domain Organisation.
func OrganisationModelFromDomain(o *partner.Organisation, searchText string) *OrganisationModel {
	m := &OrganisationModel{}
	m.FromDomain(o, searchText)
	return m
}

// EnseigneModel is the persistence model for the Enseigne aggregate.
// MemberCount is maintained by the membership operations.
type EnseigneModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	LogoURL     string `gorm:"column:logo_url;type:varchar(500)"`
	IsActive    bool   `gorm:"not null"`
	MemberCount int    `gorm:"not null;default:0"`
	SearchText  string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EnseigneModel) TableName() string {
	return "enseignes"
}

// ToDomain converts the persistence model to a domain Enseigne.
func (m *EnseigneModel) ToDomain() *partner.Enseigne {
	return &partner.Enseigne{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		LogoURL:           m.LogoURL,
		IsActive:          m.IsActive,
		MemberCount:       m.MemberCount,
	}
}

// FromDomain populates the persistence model from a domain Enseigne.
func (m *EnseigneModel) FromDomain(e *partner.Enseigne, searchText string) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Name = e.Name
	m.Description = e.Description
	m.LogoURL = e.LogoURL
	m.IsActive = e.IsActive
	m.MemberCount = e.MemberCount
	m.SearchText = searchText
}

// UserAppRoleModel maps the user_app_roles table owned by the identity provider.
// The service only reads it to guard organisation deletion.
type UserAppRoleModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null"`
	OrganisationID *uuid.UUID `gorm:"type:uuid;index"`
	App            string     `gorm:"type:varchar(50);not null"`
	Role           string     `gorm:"type:varchar(50);not null"`
	IsActive       bool       `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserAppRoleModel) TableName() string {
	return "user_app_roles"
}
