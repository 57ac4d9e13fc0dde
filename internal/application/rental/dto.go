package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// =============================================================================
// Contract DTOs
// =============================================================================

// LandlordRequest identifies the owner signing a contract
type LandlordRequest struct {
	Name    string              `json:"name" binding:"required,min=1,max=200"`
	Email   string              `json:"email" binding:"omitempty,email,max=200"`
	Phone   string              `json:"phone" binding:"max=50"`
	Address valueobject.Address `json:"address"`
}

// ContractRequest is the body of contract creation and update.
// Exactly one of PropertyID and UnitID must be set.
type ContractRequest struct {
	Type                  string           `json:"type" binding:"required,oneof=fixe variable"`
	OrganisationID        uuid.UUID        `json:"organisation_id" binding:"required"`
	PropertyID            *uuid.UUID       `json:"property_id"`
	UnitID                *uuid.UUID       `json:"unit_id"`
	EmissionDate          *time.Time       `json:"emission_date"`
	StartDate             time.Time        `json:"start_date" binding:"required"`
	EndDate               time.Time        `json:"end_date" binding:"required"`
	Furnished             bool             `json:"furnished"`
	SubletAuthorized      *bool            `json:"sublet_authorized"`
	RenovationNeeded      bool             `json:"renovation_needed"`
	ImposedDurationMonths *int             `json:"imposed_duration_months" binding:"omitempty,min=1,max=120"`
	CommissionPercent     *decimal.Decimal `json:"commission_percent"`
	OwnerUsageDaysMax     *int             `json:"owner_usage_days_max" binding:"omitempty,min=0,max=365"`
	Landlord              *LandlordRequest `json:"landlord"`
	MonthlyRent           *decimal.Decimal `json:"monthly_rent"`
	Charges               *decimal.Decimal `json:"charges"`
	Deposit               *decimal.Decimal `json:"deposit"`
	Notes                 string           `json:"notes" binding:"max=5000"`
}

func (r ContractRequest) toTerms() rental.ContractTerms {
	terms := rental.ContractTerms{
		Type:                  rental.ContractType(r.Type),
		OrganisationID:        r.OrganisationID,
		PropertyID:            r.PropertyID,
		UnitID:                r.UnitID,
		EmissionDate:          r.EmissionDate,
		StartDate:             r.StartDate,
		EndDate:               r.EndDate,
		Furnished:             r.Furnished,
		SubletAuthorized:      r.SubletAuthorized,
		RenovationNeeded:      r.RenovationNeeded,
		ImposedDurationMonths: r.ImposedDurationMonths,
		CommissionPercent:     r.CommissionPercent,
		OwnerUsageDaysMax:     r.OwnerUsageDaysMax,
		Financial: rental.FinancialTerms{
			MonthlyRent: r.MonthlyRent,
			Charges:     r.Charges,
			Deposit:     r.Deposit,
		},
		Notes: r.Notes,
	}
	if r.Landlord != nil {
		terms.Landlord = &rental.Landlord{
			Name:    r.Landlord.Name,
			Email:   r.Landlord.Email,
			Phone:   r.Landlord.Phone,
			Address: r.Landlord.Address,
		}
	}
	return terms
}

// ContractListFilter represents the query parameters of the contract list
type ContractListFilter struct {
	OrganisationID *uuid.UUID `form:"organisation_id"`
	PropertyID     *uuid.UUID `form:"property_id"`
	UnitID         *uuid.UUID `form:"unit_id"`
	Type           string     `form:"type" binding:"omitempty,oneof=fixe variable"`
	Furnished      *bool      `form:"furnished"`
	StartFrom      *time.Time `form:"start_from" time_format:"2006-01-02"`
	StartTo        *time.Time `form:"start_to" time_format:"2006-01-02"`
	EndFrom        *time.Time `form:"end_from" time_format:"2006-01-02"`
	EndTo          *time.Time `form:"end_to" time_format:"2006-01-02"`
	Status         string     `form:"status" binding:"omitempty,oneof=active finished upcoming"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AvailabilityRequest asks whether a property or unit is free over a period
type AvailabilityRequest struct {
	PropertyID        *uuid.UUID `form:"property_id" json:"property_id"`
	UnitID            *uuid.UUID `form:"unit_id" json:"unit_id"`
	StartDate         time.Time  `form:"start_date" json:"start_date" time_format:"2006-01-02" binding:"required"`
	EndDate           time.Time  `form:"end_date" json:"end_date" time_format:"2006-01-02" binding:"required"`
	ExcludeContractID *uuid.UUID `form:"exclude_contract_id" json:"exclude_contract_id"`
}

// AvailabilityResponse lists the contracts conflicting with a period
type AvailabilityResponse struct {
	Available   bool        `json:"available"`
	Conflicting []uuid.UUID `json:"conflicting_contract_ids"`
}

// StatisticsFilter narrows the contracts counted by Statistics
type StatisticsFilter struct {
	OrganisationID *uuid.UUID `form:"organisation_id"`
	PropertyID     *uuid.UUID `form:"property_id"`
	UnitID         *uuid.UUID `form:"unit_id"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                    uuid.UUID        `json:"id"`
	Type                  string           `json:"type"`
	Status                string           `json:"status"`
	OrganisationID        uuid.UUID        `json:"organisation_id"`
	PropertyID            *uuid.UUID       `json:"property_id,omitempty"`
	UnitID                *uuid.UUID       `json:"unit_id,omitempty"`
	EmissionDate          time.Time        `json:"emission_date"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	DurationMonths        int              `json:"duration_months"`
	Furnished             bool             `json:"furnished"`
	SubletAuthorized      bool             `json:"sublet_authorized"`
	RenovationNeeded      bool             `json:"renovation_needed"`
	ImposedDurationMonths *int             `json:"imposed_duration_months,omitempty"`
	CommissionPercent     decimal.Decimal  `json:"commission_percent"`
	OwnerUsageDaysMax     int              `json:"owner_usage_days_max"`
	Landlord              *rental.Landlord `json:"landlord,omitempty"`
	MonthlyRent           *decimal.Decimal `json:"monthly_rent,omitempty"`
	Charges               *decimal.Decimal `json:"charges,omitempty"`
	Deposit               *decimal.Decimal `json:"deposit,omitempty"`
	Notes                 string           `json:"notes"`
	HasDocument           bool             `json:"has_document"`
	DocumentGeneratedAt   *time.Time       `json:"document_generated_at,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	Version               int              `json:"version"`
}

// ContractDocumentResponse points to a generated contract PDF
type ContractDocumentResponse struct {
	ContractID  uuid.UUID `json:"contract_id"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	PageCount   int       `json:"page_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ToContractResponse converts a domain Contract to ContractResponse
func ToContractResponse(c *rental.Contract, at time.Time) ContractResponse {
	return ContractResponse{
		ID:                    c.ID,
		Type:                  string(c.Type),
		Status:                string(c.StatusAt(at)),
		OrganisationID:        c.OrganisationID,
		PropertyID:            c.PropertyID,
		UnitID:                c.UnitID,
		EmissionDate:          c.EmissionDate,
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		DurationMonths:        c.DurationMonths(),
		Furnished:             c.Furnished,
		SubletAuthorized:      c.SubletAuthorized,
		RenovationNeeded:      c.RenovationNeeded,
		ImposedDurationMonths: c.ImposedDurationMonths,
		CommissionPercent:     c.CommissionPercent,
		OwnerUsageDaysMax:     c.OwnerUsageDaysMax,
		Landlord:              c.Landlord,
		MonthlyRent:           c.MonthlyRent,
		Charges:               c.Charges,
		Deposit:               c.Deposit,
		Notes:                 c.Notes,
		HasDocument:           c.DocumentKey != "",
		DocumentGeneratedAt:   c.DocumentGeneratedAt,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
		Version:               c.Version,
	}
}

// ToContractResponses converts a slice of contracts
func ToContractResponses(contracts []rental.Contract, at time.Time) []ContractResponse {
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i], at)
	}
	return responses
}
