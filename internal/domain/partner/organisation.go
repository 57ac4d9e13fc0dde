package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

// OrganisationType classifies the business relationship with an organisation
type OrganisationType string

const (
	OrganisationTypeSupplier OrganisationType = "supplier"
	OrganisationTypeCustomer OrganisationType = "customer"
	OrganisationTypePartner  OrganisationType = "partner"
	OrganisationTypeInternal OrganisationType = "internal"
)

// IsValid checks if the type is a known OrganisationType
func (t OrganisationType) IsValid() bool {
	switch t {
	case OrganisationTypeSupplier, OrganisationTypeCustomer, OrganisationTypePartner, OrganisationTypeInternal:
		return true
	}
	return false
}

// OwnershipType tells whether a network member is company-owned or franchised.
// The empty value means the organisation is not part of a network.
type OwnershipType string

const (
	OwnershipNone       OwnershipType = ""
	OwnershipSuccursale OwnershipType = "succursale"
	OwnershipFranchise  OwnershipType = "franchise"
)

// IsValid checks if the ownership type is known
func (o OwnershipType) IsValid() bool {
	switch o {
	case OwnershipNone, OwnershipSuccursale, OwnershipFranchise:
		return true
	}
	return false
}

// CustomerType distinguishes professional from individual customers
type CustomerType string

const (
	CustomerTypeNone         CustomerType = ""
	CustomerTypeProfessional CustomerType = "professional"
	CustomerTypeIndividual   CustomerType = "individual"
)

// IsValid checks if the customer type is known
func (c CustomerType) IsValid() bool {
	switch c {
	case CustomerTypeNone, CustomerTypeProfessional, CustomerTypeIndividual:
		return true
	}
	return false
}

// Error codes specific to organisations
var (
	ErrSuccursaleTermsReadOnly = shared.NewDomainError("SUCCURSALE_TERMS_READ_ONLY",
		"Commercial terms of a succursale are inherited from its enseigne and cannot be edited")
	ErrAlreadyArchived       = shared.NewDomainError("ALREADY_ARCHIVED", "Organisation is already archived")
	ErrNotArchived           = shared.NewDomainError("NOT_ARCHIVED", "Organisation is not archived")
	ErrOrganisationHasUsers  = shared.NewDomainError("ORGANISATION_HAS_USERS", "Organisation still has active users")
	ErrOrganisationIsParent  = shared.NewDomainError("ORGANISATION_IS_ENSEIGNE_PARENT", "Organisation is the parent of its enseigne")
	ErrOrganisationNotMember = shared.NewDomainError("ORGANISATION_NOT_MEMBER", "Organisation is not a member of this enseigne")
)

var (
	sirenPattern = regexp.MustCompile(`^\d{9}$`)
	siretPattern = regexp.MustCompile(`^\d{14}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// CommercialTerms are the negotiated purchase conditions with an organisation
type CommercialTerms struct {
	PaymentTerms       string
	DeliveryTimeDays   *int
	MinimumOrderAmount *decimal.Decimal
	Currency           string
	PrepaymentRequired bool
}

// Validate checks the terms ranges
func (t CommercialTerms) Validate() error {
	if t.DeliveryTimeDays != nil && *t.DeliveryTimeDays < 0 {
		return shared.NewDomainError("INVALID_DELIVERY_TIME", "Delivery time cannot be negative")
	}
	if t.MinimumOrderAmount != nil && t.MinimumOrderAmount.IsNegative() {
		return shared.NewDomainError("INVALID_MINIMUM_ORDER", "Minimum order amount cannot be negative")
	}
	if len(t.Currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be an ISO 4217 code")
	}
	return nil
}

// OrganisationProfile holds the editable identity fields of an organisation
type OrganisationProfile struct {
	LegalName         string
	TradeName         string
	Type              OrganisationType
	Email             string
	Phone             string
	Website           string
	Country           string
	BillingAddress    valueobject.Address
	ShippingAddress   valueobject.Address
	Siren             string
	Siret             string
	VATNumber         string
	LegalForm         string
	IndustrySector    string
	IsServiceProvider bool
	OwnershipType     OwnershipType
	CustomerType      CustomerType
	Notes             string
}

// Organisation is a legal entity: supplier, customer, partner or internal
type Organisation struct {
	shared.BaseAggregateRoot
	LegalName             string
	TradeName             string
	HasDifferentTradeName bool
	Type                  OrganisationType
	Email                 string
	Phone                 string
	Website               string
	Country               string
	BillingAddress        valueobject.Address
	ShippingAddress       valueobject.Address
	Siren                 string
	Siret                 string
	VATNumber             string
	LegalForm             string
	IndustrySector        string
	IsServiceProvider     bool
	OwnershipType         OwnershipType
	CustomerType          CustomerType
	EnseigneID            *uuid.UUID
	IsEnseigneParent      bool
	Terms                 CommercialTerms
	Notes                 string
	IsActive              bool
	ArchivedAt            *time.Time
}

// NewOrganisation creates an active organisation from a profile
func NewOrganisation(profile OrganisationProfile) (*Organisation, error) {
	org := &Organisation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Terms:             CommercialTerms{Currency: valueobject.DefaultCurrency},
		IsActive:          true,
	}
	if err := org.applyProfile(profile); err != nil {
		return nil, err
	}

	org.AddDomainEvent(NewOrganisationCreatedEvent(org))
	return org, nil
}

// Update replaces the identity fields of the organisation
func (o *Organisation) Update(profile OrganisationProfile) error {
	if err := o.applyProfile(profile); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Organisation) applyProfile(p OrganisationProfile) error {
	p.LegalName = strings.TrimSpace(p.LegalName)
	p.TradeName = strings.TrimSpace(p.TradeName)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Siren = strings.ReplaceAll(p.Siren, " ", "")
	p.Siret = strings.ReplaceAll(p.Siret, " ", "")

	if p.LegalName == "" {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot be empty")
	}
	if len(p.LegalName) > 255 {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 255 characters")
	}
	if p.Type == "" {
		p.Type = OrganisationTypeCustomer
	}
	if !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_ORGANISATION_TYPE", fmt.Sprintf("Unknown organisation type %q", p.Type))
	}
	if !p.OwnershipType.IsValid() {
		return shared.NewDomainError("INVALID_OWNERSHIP_TYPE", fmt.Sprintf("Unknown ownership type %q", p.OwnershipType))
	}
	if !p.CustomerType.IsValid() {
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", fmt.Sprintf("Unknown customer type %q", p.CustomerType))
	}
	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if p.Siren != "" && !sirenPattern.MatchString(p.Siren) {
		return shared.NewDomainError("INVALID_SIREN", "SIREN must be 9 digits")
	}
	if p.Siret != "" && !siretPattern.MatchString(p.Siret) {
		return shared.NewDomainError("INVALID_SIRET", "SIRET must be 14 digits")
	}
	if err := p.BillingAddress.Validate(); err != nil {
		return shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	if err := p.ShippingAddress.Validate(); err != nil {
		return shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	o.LegalName = p.LegalName
	o.TradeName = p.TradeName
	o.HasDifferentTradeName = p.TradeName != "" && p.TradeName != p.LegalName
	o.Type = p.Type
	o.Email = p.Email
	o.Phone = strings.TrimSpace(p.Phone)
	o.Website = strings.TrimSpace(p.Website)
	o.Country = strings.ToUpper(strings.TrimSpace(p.Country))
	o.BillingAddress = p.BillingAddress
	o.ShippingAddress = p.ShippingAddress
	o.Siren = p.Siren
	o.Siret = p.Siret
	o.VATNumber = strings.TrimSpace(p.VATNumber)
	o.LegalForm = strings.TrimSpace(p.LegalForm)
	o.IndustrySector = strings.TrimSpace(p.IndustrySector)
	o.IsServiceProvider = p.IsServiceProvider
	o.OwnershipType = p.OwnershipType
	o.CustomerType = p.CustomerType
	o.Notes = p.Notes
	return nil
}

// DisplayName returns the trade name when set, otherwise the legal name
func (o *Organisation) DisplayName() string {
	if o.TradeName != "" {
		return o.TradeName
	}
	return o.LegalName
}

// IsSuccursale reports whether the organisation is a company-owned branch
func (o *Organisation) IsSuccursale() bool {
	return o.OwnershipType == OwnershipSuccursale
}

// IsArchived reports whether the organisation has been archived
func (o *Organisation) IsArchived() bool {
	return o.ArchivedAt != nil
}

// SetCommercialTerms replaces the commercial terms.
// Succursales inherit their terms and reject direct edits.
func (o *Organisation) SetCommercialTerms(terms CommercialTerms) error {
	if o.IsSuccursale() {
		return ErrSuccursaleTermsReadOnly
	}
	if terms.Currency == "" {
		terms.Currency = valueobject.DefaultCurrency
	}
	terms.Currency = strings.ToUpper(terms.Currency)
	if err := terms.Validate(); err != nil {
		return err
	}
	o.Terms = terms
	o.UpdatedAt = time.Now()
	return nil
}

// EffectiveTerms returns the terms that apply to the organisation.
// A succursale uses the terms of its enseigne parent when one exists.
func (o *Organisation) EffectiveTerms(enseigneParent *Organisation) CommercialTerms {
	if o.IsSuccursale() && enseigneParent != nil && enseigneParent.ID != o.ID {
		return enseigneParent.Terms
	}
	return o.Terms
}

// Archive hides the organisation and deactivates it
func (o *Organisation) Archive() error {
	if o.IsArchived() {
		return ErrAlreadyArchived
	}
	now := time.Now()
	o.ArchivedAt = &now
	o.IsActive = false
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrganisationArchivedEvent(o, true))
	return nil
}

// Unarchive restores an archived organisation and reactivates it
func (o *Organisation) Unarchive() error {
	if !o.IsArchived() {
		return ErrNotArchived
	}
	o.ArchivedAt = nil
	o.IsActive = true
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrganisationArchivedEvent(o, false))
	return nil
}

// ToggleActive flips the active flag
func (o *Organisation) ToggleActive() {
	o.IsActive = !o.IsActive
	o.UpdatedAt = time.Now()
}

// JoinEnseigne makes the organisation a plain member of an enseigne
func (o *Organisation) JoinEnseigne(enseigneID uuid.UUID) {
	if o.EnseigneID == nil || *o.EnseigneID != enseigneID {
		o.IsEnseigneParent = false
	}
	o.EnseigneID = &enseigneID
	o.UpdatedAt = time.Now()
}

// LeaveEnseigne detaches the organisation from its enseigne
func (o *Organisation) LeaveEnseigne() {
	o.EnseigneID = nil
	o.IsEnseigneParent = false
	o.UpdatedAt = time.Now()
}

// CheckDeletable returns an error when the organisation cannot be removed
func (o *Organisation) CheckDeletable(activeUserRoles int64) error {
	if activeUserRoles > 0 {
		return shared.NewDomainError(ErrOrganisationHasUsers.Code,
			fmt.Sprintf("Organisation still has %d active user(s)", activeUserRoles))
	}
	if o.IsEnseigneParent {
		return ErrOrganisationIsParent
	}
	return nil
}
