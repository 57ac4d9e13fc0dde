package linkme

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/linkme"
)

// CreateAffiliateRequest represents a request to register an affiliate
type CreateAffiliateRequest struct {
	DisplayName       string           `json:"display_name" binding:"required,min=1,max=200"`
	Email             string           `json:"email" binding:"omitempty,email,max=200"`
	DefaultMarginRate *decimal.Decimal `json:"default_margin_rate"`
	EnseigneID        *uuid.UUID       `json:"enseigne_id"`
	OrganisationID    *uuid.UUID       `json:"organisation_id"`
}

// AffiliateListFilter represents the query parameters of the affiliate list
type AffiliateListFilter struct {
	EnseigneID     *uuid.UUID `form:"enseigne_id"`
	OrganisationID *uuid.UUID `form:"organisation_id"`
	IsActive       *bool      `form:"is_active"`
	Search         string     `form:"search"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AffiliateResponse represents an affiliate in API responses
type AffiliateResponse struct {
	ID                uuid.UUID       `json:"id"`
	DisplayName       string          `json:"display_name"`
	Email             string          `json:"email"`
	DefaultMarginRate decimal.Decimal `json:"default_margin_rate"`
	EnseigneID        *uuid.UUID      `json:"enseigne_id"`
	OrganisationID    *uuid.UUID      `json:"organisation_id"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAffiliateResponse converts a domain Affiliate to AffiliateResponse
func ToAffiliateResponse(a *linkme.Affiliate) AffiliateResponse {
	return AffiliateResponse{
		ID:                a.ID,
		DisplayName:       a.DisplayName,
		Email:             a.Email,
		DefaultMarginRate: a.DefaultMarginRate,
		EnseigneID:        a.EnseigneID,
		OrganisationID:    a.OrganisationID,
		IsActive:          a.IsActive,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// CreateSelectionRequest represents a request to create a selection.
// An empty slug is derived from the name.
type CreateSelectionRequest struct {
	AffiliateID uuid.UUID `json:"affiliate_id" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Slug        string    `json:"slug" binding:"max=200"`
	IsPublic    bool      `json:"is_public"`
}

// SelectionListFilter represents the query parameters of the selection list
type SelectionListFilter struct {
	AffiliateID *uuid.UUID `form:"affiliate_id"`
	IsPublic    *bool      `form:"is_public"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SelectionResponse represents a selection in API responses
type SelectionResponse struct {
	ID            uuid.UUID `json:"id"`
	AffiliateID   uuid.UUID `json:"affiliate_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	IsPublic      bool      `json:"is_public"`
	ProductsCount int       `json:"products_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSelectionResponse converts a domain Selection to SelectionResponse
func ToSelectionResponse(s *linkme.Selection) SelectionResponse {
	return SelectionResponse{
		ID:            s.ID,
		AffiliateID:   s.AffiliateID,
		Name:          s.Name,
		Slug:          s.Slug,
		IsPublic:      s.IsPublic,
		ProductsCount: s.ProductsCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
