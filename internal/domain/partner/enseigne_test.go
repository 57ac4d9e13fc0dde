package partner

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnseigne(t *testing.T) {
	t.Run("creates active enseigne", func(t *testing.T) {
		e, err := NewEnseigne("  Pokawa ", "restaurants", "")
		require.NoError(t, err)
		assert.Equal(t, "Pokawa", e.Name)
		assert.True(t, e.IsActive)
		require.Len(t, e.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeEnseigneCreated, e.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewEnseigne("   ", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects long name", func(t *testing.T) {
		_, err := NewEnseigne(strings.Repeat("é", 201), "", "")
		assert.Error(t, err)
	})
}

func TestEnseigne_ToggleAndParent(t *testing.T) {
	e, err := NewEnseigne("Réseau", "", "")
	require.NoError(t, err)
	e.ClearDomainEvents()

	e.ToggleActive()
	assert.False(t, e.IsActive)

	prev := uuid.New()
	next := uuid.New()
	e.DesignateParent(&prev, next)
	e.ClearParent(&next)

	events := e.GetDomainEvents()
	require.Len(t, events, 2)
	first := events[0].(*EnseigneParentChangedEvent)
	assert.Equal(t, prev, *first.PreviousParent)
	assert.Equal(t, next, *first.NewParent)
	assert.Nil(t, events[1].(*EnseigneParentChangedEvent).NewParent)
}

func TestPlanMembership(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name      string
		current   []uuid.UUID
		requested []uuid.UUID
		toAdd     []uuid.UUID
		toRemove  []uuid.UUID
	}{
		{"no change", []uuid.UUID{a, b}, []uuid.UUID{b, a}, []uuid.UUID{}, []uuid.UUID{}},
		{"add and remove", []uuid.UUID{a, b}, []uuid.UUID{b, c}, []uuid.UUID{c}, []uuid.UUID{a}},
		{"clear all", []uuid.UUID{a, b}, nil, []uuid.UUID{}, []uuid.UUID{a, b}},
		{"from empty", nil, []uuid.UUID{c, d, c}, []uuid.UUID{c, d}, []uuid.UUID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanMembership(tt.current, tt.requested)
			assert.Equal(t, tt.toAdd, plan.ToAdd)
			assert.Equal(t, tt.toRemove, plan.ToRemove)
		})
	}

	assert.True(t, PlanMembership([]uuid.UUID{a}, []uuid.UUID{a}).IsEmpty())
}
