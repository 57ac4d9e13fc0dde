package shared

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrorCode(ErrNotFound))
	assert.Equal(t, "NOT_FOUND", ErrorCode(fmt.Errorf("load order: %w", ErrNotFound)))
	assert.Equal(t, "", ErrorCode(fmt.Errorf("plain")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrInvalidInput))
}

func TestFilter(t *testing.T) {
	t.Run("normalize clamps values", func(t *testing.T) {
		f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, MaxPageSize, f.PageSize)
		assert.Equal(t, "desc", f.OrderDir)
		assert.NotNil(t, f.Filters)
	})

	t.Run("offset", func(t *testing.T) {
		assert.Equal(t, 0, Filter{Page: 1, PageSize: 20}.Offset())
		assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	})

	t.Run("with copies filters", func(t *testing.T) {
		base := DefaultFilter()
		next := base.With("status", "draft")
		assert.Empty(t, base.Filters)
		assert.Equal(t, "draft", next.Filters["status"])
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated[int](nil, 10, 1, 0).TotalPages)
}

func TestBaseAggregateRoot(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.NotEqual(t, uuid.Nil, root.ID)
	assert.Equal(t, 1, root.GetVersion())

	evt := NewBaseDomainEvent("Something", "Thing", root.ID)
	root.AddDomainEvent(&evt)
	assert.Len(t, root.GetDomainEvents(), 1)
	assert.Equal(t, root.ID, root.GetDomainEvents()[0].AggregateID())

	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}
