package linkme

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/shared/valueobject"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Affiliate is a LinkMe reseller earning a retrocession on the orders it brings
type Affiliate struct {
	shared.BaseAggregateRoot
	EnseigneID        *uuid.UUID
	OrganisationID    *uuid.UUID
	DisplayName       string
	Email             string
	DefaultMarginRate decimal.Decimal
	IsActive          bool
}

// NewAffiliate creates an active affiliate
func NewAffiliate(displayName, email string, marginRate decimal.Decimal) (*Affiliate, error) {
	displayName = strings.TrimSpace(displayName)
	email = strings.ToLower(strings.TrimSpace(email))

	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Affiliate display name cannot be empty")
	}
	if len(displayName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Affiliate display name cannot exceed 200 characters")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if !valueobject.IsRate(marginRate) {
		return nil, shared.NewDomainError("INVALID_MARGIN_RATE", "Margin rate must be between 0 and 1")
	}

	return &Affiliate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayName:       displayName,
		Email:             email,
		DefaultMarginRate: marginRate,
		IsActive:          true,
	}, nil
}

// AttachTo links the affiliate to an enseigne and/or an organisation
func (a *Affiliate) AttachTo(enseigneID, organisationID *uuid.UUID) {
	a.EnseigneID = enseigneID
	a.OrganisationID = organisationID
	a.UpdatedAt = time.Now()
}

// Deactivate stops the affiliate from taking new orders
func (a *Affiliate) Deactivate() {
	a.IsActive = false
	a.UpdatedAt = time.Now()
}

// Selection is a curated product list published by an affiliate
type Selection struct {
	shared.BaseAggregateRoot
	AffiliateID   uuid.UUID
	Name          string
	Slug          string
	IsPublic      bool
	ProductsCount int
}

// NewSelection creates a private selection. An empty slug is derived from the name.
func NewSelection(affiliateID uuid.UUID, name, slug string) (*Selection, error) {
	if affiliateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AFFILIATE", "Affiliate ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Selection name cannot be empty")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and dashes")
	}

	return &Selection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AffiliateID:       affiliateID,
		Name:              name,
		Slug:              slug,
	}, nil
}

// Publish makes the selection visible on the public storefront
func (s *Selection) Publish() {
	s.IsPublic = true
	s.UpdatedAt = time.Now()
}

// Slugify lowercases s and replaces every run of non alphanumeric ASCII
// characters by a single dash. Accents are expected to be folded beforehand.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
