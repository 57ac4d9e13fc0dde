package partner

import (
	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrganisation = "Organisation"
	AggregateTypeEnseigne     = "Enseigne"
)

// Event type constants
const (
	EventTypeOrganisationCreated    = "OrganisationCreated"
	EventTypeOrganisationArchived   = "OrganisationArchived"
	EventTypeOrganisationUnarchived = "OrganisationUnarchived"
	EventTypeEnseigneCreated        = "EnseigneCreated"
	EventTypeEnseigneParentChanged  = "EnseigneParentChanged"
	EventTypeEnseigneMembersChanged = "EnseigneMembersChanged"
)

// OrganisationCreatedEvent is raised when an organisation is created
type OrganisationCreatedEvent struct {
	shared.BaseDomainEvent
	OrganisationID uuid.UUID        `json:"organisation_id"`
	LegalName      string           `json:"legal_name"`
	Type           OrganisationType `json:"type"`
}

// NewOrganisationCreatedEvent creates a new OrganisationCreatedEvent
func NewOrganisationCreatedEvent(o *Organisation) *OrganisationCreatedEvent {
	return &OrganisationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganisationCreated, AggregateTypeOrganisation, o.ID),
		OrganisationID:  o.ID,
		LegalName:       o.LegalName,
		Type:            o.Type,
	}
}

// OrganisationArchivedEvent is raised when an organisation is archived or restored
type OrganisationArchivedEvent struct {
	shared.BaseDomainEvent
	OrganisationID uuid.UUID  `json:"organisation_id"`
	EnseigneID     *uuid.UUID `json:"enseigne_id,omitempty"`
	Archived       bool       `json:"archived"`
}

// NewOrganisationArchivedEvent creates a new OrganisationArchivedEvent
func NewOrganisationArchivedEvent(o *Organisation, archived bool) *OrganisationArchivedEvent {
	eventType := EventTypeOrganisationArchived
	if !archived {
		eventType = EventTypeOrganisationUnarchived
	}
	return &OrganisationArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrganisation, o.ID),
		OrganisationID:  o.ID,
		EnseigneID:      o.EnseigneID,
		Archived:        archived,
	}
}

// EnseigneCreatedEvent is raised when an enseigne is created
type EnseigneCreatedEvent struct {
	shared.BaseDomainEvent
	EnseigneID uuid.UUID `json:"enseigne_id"`
	Name       string    `json:"name"`
}

// NewEnseigneCreatedEvent creates a new EnseigneCreatedEvent
func NewEnseigneCreatedEvent(e *Enseigne) *EnseigneCreatedEvent {
	return &EnseigneCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEnseigneCreated, AggregateTypeEnseigne, e.ID),
		EnseigneID:      e.ID,
		Name:            e.Name,
	}
}

// EnseigneParentChangedEvent is raised when the parent organisation changes
type EnseigneParentChangedEvent struct {
	shared.BaseDomainEvent
	EnseigneID     uuid.UUID  `json:"enseigne_id"`
	PreviousParent *uuid.UUID `json:"previous_parent,omitempty"`
	NewParent      *uuid.UUID `json:"new_parent,omitempty"`
}

// NewEnseigneParentChangedEvent creates a new EnseigneParentChangedEvent
func NewEnseigneParentChangedEvent(enseigneID uuid.UUID, previous, next *uuid.UUID) *EnseigneParentChangedEvent {
	return &EnseigneParentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEnseigneParentChanged, AggregateTypeEnseigne, enseigneID),
		EnseigneID:      enseigneID,
		PreviousParent:  previous,
		NewParent:       next,
	}
}

// EnseigneMembersChangedEvent is raised after members were linked or unlinked
type EnseigneMembersChangedEvent struct {
	shared.BaseDomainEvent
	EnseigneID uuid.UUID   `json:"enseigne_id"`
	Added      []uuid.UUID `json:"added"`
	Removed    []uuid.UUID `json:"removed"`
}

// NewEnseigneMembersChangedEvent creates a new EnseigneMembersChangedEvent
func NewEnseigneMembersChangedEvent(enseigneID uuid.UUID, plan MembershipPlan) *EnseigneMembersChangedEvent {
	return &EnseigneMembersChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEnseigneMembersChanged, AggregateTypeEnseigne, enseigneID),
		EnseigneID:      enseigneID,
		Added:           plan.ToAdd,
		Removed:         plan.ToRemove,
	}
}
