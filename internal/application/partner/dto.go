package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// =============================================================================
// Organisation DTOs
// =============================================================================

// OrganisationRequest carries the identity fields of an organisation.
// It is used for creation and full updates.
type OrganisationRequest struct {
	LegalName         string              `json:"legal_name" binding:"required,min=1,max=255"`
	TradeName         string              `json:"trade_name" binding:"max=255"`
	Type              string              `json:"type" binding:"omitempty,oneof=supplier customer partner internal"`
	Email             string              `json:"email" binding:"omitempty,email,max=200"`
	Phone             string              `json:"phone" binding:"max=50"`
	Website           string              `json:"website" binding:"omitempty,url,max=500"`
	Country           string              `json:"country" binding:"omitempty,len=2"`
	BillingAddress    valueobject.Address `json:"billing_address"`
	ShippingAddress   valueobject.Address `json:"shipping_address"`
	Siren             string              `json:"siren" binding:"max=20"`
	Siret             string              `json:"siret" binding:"omitempty,siret"`
	VATNumber         string              `json:"vat_number" binding:"max=50"`
	LegalForm         string              `json:"legal_form" binding:"max=100"`
	IndustrySector    string              `json:"industry_sector" binding:"max=100"`
	IsServiceProvider bool                `json:"is_service_provider"`
	OwnershipType     string              `json:"ownership_type" binding:"omitempty,oneof=succursale franchise"`
	CustomerType      string              `json:"customer_type" binding:"omitempty,oneof=professional individual"`
	Notes             string              `json:"notes"`
}

func (r OrganisationRequest) toProfile() partner.OrganisationProfile {
	return partner.OrganisationProfile{
		LegalName:         r.LegalName,
		TradeName:         r.TradeName,
		Type:              partner.OrganisationType(r.Type),
		Email:             r.Email,
		Phone:             r.Phone,
		Website:           r.Website,
		Country:           r.Country,
		BillingAddress:    r.BillingAddress,
		ShippingAddress:   r.ShippingAddress,
		Siren:             r.Siren,
		Siret:             r.Siret,
		VATNumber:         r.VATNumber,
		LegalForm:         r.LegalForm,
		IndustrySector:    r.IndustrySector,
		IsServiceProvider: r.IsServiceProvider,
		OwnershipType:     partner.OwnershipType(r.OwnershipType),
		CustomerType:      partner.CustomerType(r.CustomerType),
		Notes:             r.Notes,
	}
}

// CommercialTermsRequest replaces the commercial terms of an organisation
type CommercialTermsRequest struct {
	PaymentTerms       string           `json:"payment_terms" binding:"max=200"`
	DeliveryTimeDays   *int             `json:"delivery_time_days" binding:"omitempty,min=0"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`
	Currency           string           `json:"currency" binding:"omitempty,len=3"`
	PrepaymentRequired bool             `json:"prepayment_required"`
}

// CommercialTermsResponse represents commercial terms in API responses
type CommercialTermsResponse struct {
	PaymentTerms       string           `json:"payment_terms"`
	DeliveryTimeDays   *int             `json:"delivery_time_days"`
	MinimumOrderAmount *decimal.Decimal `json:"minimum_order_amount"`
	Currency           string           `json:"currency"`
	PrepaymentRequired bool             `json:"prepayment_required"`
	Inherited          bool             `json:"inherited"`
	InheritedFrom      *uuid.UUID       `json:"inherited_from,omitempty"`
}

// OrganisationListFilter represents the query parameters of the organisation list
type OrganisationListFilter struct {
	Search              string     `form:"search"`
	Type                string     `form:"type" binding:"omitempty,oneof=supplier customer partner internal"`
	CustomerType        string     `form:"customer_type" binding:"omitempty,oneof=professional individual"`
	IsActive            *bool      `form:"is_active"`
	IsServiceProvider   *bool      `form:"is_service_provider"`
	Country             string     `form:"country"`
	IncludeArchived     bool       `form:"include_archived"`
	ExcludeWithEnseigne bool       `form:"exclude_with_enseigne"`
	EnseigneID          *uuid.UUID `form:"enseigne_id"`
	Page                int        `form:"page" binding:"omitempty,min=1"`
	PageSize            int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy             string     `form:"order_by"`
	OrderDir            string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrganisationResponse represents an organisation in API responses
type OrganisationResponse struct {
	ID                    uuid.UUID               `json:"id"`
	LegalName             string                  `json:"legal_name"`
	TradeName             string                  `json:"trade_name"`
	DisplayName           string                  `json:"display_name"`
	HasDifferentTradeName bool                    `json:"has_different_trade_name"`
	Type                  string                  `json:"type"`
	Email                 string                  `json:"email"`
	Phone                 string                  `json:"phone"`
	Website               string                  `json:"website"`
	Country               string                  `json:"country"`
	BillingAddress        valueobject.Address     `json:"billing_address"`
	ShippingAddress       valueobject.Address     `json:"shipping_address"`
	Siren                 string                  `json:"siren"`
	Siret                 string                  `json:"siret"`
	VATNumber             string                  `json:"vat_number"`
	LegalForm             string                  `json:"legal_form"`
	IndustrySector        string                  `json:"industry_sector"`
	IsServiceProvider     bool                    `json:"is_service_provider"`
	OwnershipType         *string                 `json:"ownership_type"`
	CustomerType          *string                 `json:"customer_type"`
	EnseigneID            *uuid.UUID              `json:"enseigne_id"`
	IsEnseigneParent      bool                    `json:"is_enseigne_parent"`
	CommercialTerms       CommercialTermsResponse `json:"commercial_terms"`
	Notes                 string                  `json:"notes"`
	IsActive              bool                    `json:"is_active"`
	ArchivedAt            *time.Time              `json:"archived_at"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
	Version               int                     `json:"version"`
}

// OrganisationListResponse is the compact list representation
type OrganisationListResponse struct {
	ID               uuid.UUID  `json:"id"`
	LegalName        string     `json:"legal_name"`
	DisplayName      string     `json:"display_name"`
	Type             string     `json:"type"`
	Email            string     `json:"email"`
	Country          string     `json:"country"`
	OwnershipType    *string    `json:"ownership_type"`
	EnseigneID       *uuid.UUID `json:"enseigne_id"`
	IsEnseigneParent bool       `json:"is_enseigne_parent"`
	IsActive         bool       `json:"is_active"`
	ArchivedAt       *time.Time `json:"archived_at"`
}

// ToOrganisationResponse converts a domain Organisation. The commercial terms
// are the effective ones: a succursale reports those of its enseigne parent.
func ToOrganisationResponse(o *partner.Organisation, enseigneParent *partner.Organisation) OrganisationResponse {
	return OrganisationResponse{
		ID:                    o.ID,
		LegalName:             o.LegalName,
		TradeName:             o.TradeName,
		DisplayName:           o.DisplayName(),
		HasDifferentTradeName: o.HasDifferentTradeName,
		Type:                  string(o.Type),
		Email:                 o.Email,
		Phone:                 o.Phone,
		Website:               o.Website,
		Country:               o.Country,
		BillingAddress:        o.BillingAddress,
		ShippingAddress:       o.ShippingAddress,
		Siren:                 o.Siren,
		Siret:                 o.Siret,
		VATNumber:             o.VATNumber,
		LegalForm:             o.LegalForm,
		IndustrySector:        o.IndustrySector,
		IsServiceProvider:     o.IsServiceProvider,
		OwnershipType:         optionalString(string(o.OwnershipType)),
		CustomerType:          optionalString(string(o.CustomerType)),
		EnseigneID:            o.EnseigneID,
		IsEnseigneParent:      o.IsEnseigneParent,
		CommercialTerms:       toCommercialTermsResponse(o, enseigneParent),
		Notes:                 o.Notes,
		IsActive:              o.IsActive,
		ArchivedAt:            o.ArchivedAt,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		Version:               o.Version,
	}
}

func toCommercialTermsResponse(o *partner.Organisation, enseigneParent *partner.Organisation) CommercialTermsResponse {
	terms := o.EffectiveTerms(enseigneParent)
	resp := CommercialTermsResponse{
		PaymentTerms:       terms.PaymentTerms,
		DeliveryTimeDays:   terms.DeliveryTimeDays,
		MinimumOrderAmount: terms.MinimumOrderAmount,
		Currency:           terms.Currency,
		PrepaymentRequired: terms.PrepaymentRequired,
	}
	if o.IsSuccursale() && enseigneParent != nil && enseigneParent.ID != o.ID {
		resp.Inherited = true
		resp.InheritedFrom = &enseigneParent.ID
	}
	return resp
}

// ToOrganisationListResponses converts a slice of organisations
func ToOrganisationListResponses(orgs []partner.Organisation) []OrganisationListResponse {
	responses := make([]OrganisationListResponse, len(orgs))
	for i := range orgs {
		o := &orgs[i]
		responses[i] = OrganisationListResponse{
			ID:               o.ID,
			LegalName:        o.LegalName,
			DisplayName:      o.DisplayName(),
			Type:             string(o.Type),
			Email:            o.Email,
			Country:          o.Country,
			OwnershipType:    optionalString(string(o.OwnershipType)),
			EnseigneID:       o.EnseigneID,
			IsEnseigneParent: o.IsEnseigneParent,
			IsActive:         o.IsActive,
			ArchivedAt:       o.ArchivedAt,
		}
	}
	return responses
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// =============================================================================
// Enseigne DTOs
// =============================================================================

// EnseigneRequest is the body of enseigne creation and update
type EnseigneRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	LogoURL     string `json:"logo_url" binding:"omitempty,url,max=500"`
}

// SetParentRequest designates the parent organisation of an enseigne
type SetParentRequest struct {
	OrganisationID uuid.UUID `json:"organisation_id" binding:"required"`
}

// SaveMembersRequest replaces the member list of an enseigne
type SaveMembersRequest struct {
	OrganisationIDs []uuid.UUID `json:"organisation_ids" binding:"required"`
}

// SaveMembersResponse reports how many organisations were linked and unlinked
type SaveMembersResponse struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// EnseigneListFilter represents the query parameters of the enseigne list
type EnseigneListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ParentSummary identifies the parent organisation of an enseigne
type ParentSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// EnseigneResponse represents an enseigne in API responses
type EnseigneResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	LogoURL     string         `json:"logo_url"`
	IsActive    bool           `json:"is_active"`
	MemberCount int            `json:"member_count"`
	Parent      *ParentSummary `json:"parent,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Version     int            `json:"version"`
}

// ToEnseigneResponse converts a domain Enseigne
func ToEnseigneResponse(e *partner.Enseigne) EnseigneResponse {
	return EnseigneResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		LogoURL:     e.LogoURL,
		IsActive:    e.IsActive,
		MemberCount: e.MemberCount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

// ToEnseigneResponses converts a slice of enseignes
func ToEnseigneResponses(enseignes []partner.Enseigne) []EnseigneResponse {
	responses := make([]EnseigneResponse, len(enseignes))
	for i := range enseignes {
		responses[i] = ToEnseigneResponse(&enseignes[i])
	}
	return responses
}
