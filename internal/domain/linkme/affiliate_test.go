package linkme

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAffiliate(t *testing.T) {
	t.Run("creates affiliate", func(t *testing.T) {
		a, err := NewAffiliate(" Studio Lumière ", "Hello@Studio.fr", decimal.RequireFromString("0.15"))
		require.NoError(t, err)
		assert.Equal(t, "Studio Lumière", a.DisplayName)
		assert.Equal(t, "hello@studio.fr", a.Email)
		assert.True(t, a.IsActive)
	})

	t.Run("rejects margin above one", func(t *testing.T) {
		_, err := NewAffiliate("A", "", decimal.RequireFromString("1.5"))
		assert.Error(t, err)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		_, err := NewAffiliate("A", "not-an-email", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestNewSelection(t *testing.T) {
	affiliateID := uuid.New()

	t.Run("derives slug from name", func(t *testing.T) {
		s, err := NewSelection(affiliateID, "Salon d'ete 2025", "")
		require.NoError(t, err)
		assert.Equal(t, "salon-d-ete-2025", s.Slug)
		assert.False(t, s.IsPublic)

		s.Publish()
		assert.True(t, s.IsPublic)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		_, err := NewSelection(affiliateID, "Salon", "Salon Été")
		assert.Error(t, err)
	})

	t.Run("requires affiliate", func(t *testing.T) {
		_, err := NewSelection(uuid.Nil, "Salon", "")
		assert.Error(t, err)
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "chambre-parentale", Slugify("  Chambre -- Parentale!! "))
	assert.Equal(t, "", Slugify("!!!"))
}
