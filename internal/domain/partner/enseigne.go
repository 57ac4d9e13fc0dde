package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Enseigne is a brand or franchise network. It has no legal existence of its
// own; transactions go through its parent organisation.
type Enseigne struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	LogoURL     string
	IsActive    bool
	MemberCount int
}

// NewEnseigne creates an active enseigne
func NewEnseigne(name, description, logoURL string) (*Enseigne, error) {
	name = strings.TrimSpace(name)
	if err := validateEnseigneName(name); err != nil {
		return nil, err
	}

	e := &Enseigne{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		LogoURL:           strings.TrimSpace(logoURL),
		IsActive:          true,
	}
	e.AddDomainEvent(NewEnseigneCreatedEvent(e))
	return e, nil
}

// Update changes the descriptive fields
func (e *Enseigne) Update(name, description, logoURL string) error {
	name = strings.TrimSpace(name)
	if err := validateEnseigneName(name); err != nil {
		return err
	}
	e.Name = name
	e.Description = strings.TrimSpace(description)
	e.LogoURL = strings.TrimSpace(logoURL)
	e.UpdatedAt = time.Now()
	return nil
}

// ToggleActive flips the active flag
func (e *Enseigne) ToggleActive() {
	e.IsActive = !e.IsActive
	e.UpdatedAt = time.Now()
}

// DesignateParent records a parent change on the aggregate. The repository
// applies it to the organisation rows in one transaction.
func (e *Enseigne) DesignateParent(previous *uuid.UUID, organisationID uuid.UUID) {
	e.UpdatedAt = time.Now()
	e.AddDomainEvent(NewEnseigneParentChangedEvent(e.ID, previous, &organisationID))
}

// ClearParent records that the enseigne no longer has a parent
func (e *Enseigne) ClearParent(previous *uuid.UUID) {
	e.UpdatedAt = time.Now()
	e.AddDomainEvent(NewEnseigneParentChangedEvent(e.ID, previous, nil))
}

func validateEnseigneName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Enseigne name cannot be empty")
	}
	if len([]rune(name)) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Enseigne name cannot exceed 200 characters")
	}
	return nil
}

// MembershipPlan is the diff between the current and requested members
type MembershipPlan struct {
	ToAdd    []uuid.UUID
	ToRemove []uuid.UUID
}

// IsEmpty reports whether the plan changes nothing
func (p MembershipPlan) IsEmpty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// PlanMembership computes requested minus current (to add) and current minus
// requested (to remove). Duplicates in either list are ignored.
func PlanMembership(current, requested []uuid.UUID) MembershipPlan {
	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	requestedSet := make(map[uuid.UUID]struct{}, len(requested))

	plan := MembershipPlan{ToAdd: []uuid.UUID{}, ToRemove: []uuid.UUID{}}
	for _, id := range requested {
		if _, seen := requestedSet[id]; seen {
			continue
		}
		requestedSet[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			plan.ToAdd = append(plan.ToAdd, id)
		}
	}
	removed := make(map[uuid.UUID]struct{})
	for _, id := range current {
		if _, ok := requestedSet[id]; ok {
			continue
		}
		if _, dup := removed[id]; dup {
			continue
		}
		removed[id] = struct{}{}
		plan.ToRemove = append(plan.ToRemove, id)
	}
	return plan
}

// EnseigneStats aggregates figures about an enseigne network
type EnseigneStats struct {
	EnseigneID         uuid.UUID       `json:"enseigne_id"`
	OrganisationsCount int64           `json:"organisations_count"`
	AffiliatesCount    int64           `json:"affiliates_count"`
	SelectionsCount    int64           `json:"selections_count"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	ComputedAt         time.Time       `json:"computed_at"`
}
