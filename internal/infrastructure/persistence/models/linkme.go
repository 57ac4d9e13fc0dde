package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/linkme"
)

// AffiliateModel is the persistence model for a LinkMe affiliate.
type AffiliateModel struct {
	AggregateModel
	EnseigneID        *uuid.UUID      `gorm:"type:uuid;index"`
	OrganisationID    *uuid.UUID      `gorm:"type:uuid;index"`
	DisplayName       string          `gorm:"type:varchar(200);not null"`
	Email             string          `gorm:"type:varchar(255)"`
	DefaultMarginRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	IsActive          bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AffiliateModel) TableName() string {
	return "linkme_affiliates"
}

// ToDomain converts the persistence model to a domain Affiliate.
func (m *AffiliateModel) ToDomain() *linkme.Affiliate {
	return &linkme.Affiliate{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EnseigneID:        m.EnseigneID,
		OrganisationID:    m.OrganisationID,
		DisplayName:       m.DisplayName,
		Email:             m.Email,
		DefaultMarginRate: m.DefaultMarginRate,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Affiliate.
func (m *AffiliateModel) FromDomain(a *linkme.Affiliate) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.EnseigneID = a.EnseigneID
	m.OrganisationID = a.OrganisationID
	m.DisplayName = a.DisplayName
	m.Email = a.Email
	m.DefaultMarginRate = a.DefaultMarginRate
	m.IsActive = a.IsActive
}

// SelectionModel is the persistence model for an affiliate selection.
type SelectionModel struct {
	AggregateModel
	AffiliateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(200);not null"`
	Slug          string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	IsPublic      bool      `gorm:"not null"`
	ProductsCount int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SelectionModel) TableName() string {
	return "linkme_selections"
}

// ToDomain converts the persistence model to a domain Selection.
func (m *SelectionModel) ToDomain() *linkme.Selection {
	return &linkme.Selection{
		BaseAggregateRoot: m.ToAggregateRoot(),
		AffiliateID:       m.AffiliateID,
		Name:              m.Name,
		Slug:              m.Slug,
		IsPublic:          m.IsPublic,
		ProductsCount:     m.ProductsCount,
	}
}

// FromDomain populates the persistence model from a domain Selection.
func (m *SelectionModel) FromDomain(s *linkme.Selection) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.AffiliateID = s.AffiliateID
	m.Name = s.Name
	m.Slug = s.Slug
	m.IsPublic = s.IsPublic
	m.ProductsCount = s.ProductsCount
}
