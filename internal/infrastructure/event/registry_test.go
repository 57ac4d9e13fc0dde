package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
)

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler(trade.EventTypeSalesOrderCreated, trade.EventTypeSalesOrderStatusChanged)

	registry.Register(handler, trade.EventTypeSalesOrderCreated, trade.EventTypeSalesOrderStatusChanged)

	assert.Len(t, registry.GetHandlers(trade.EventTypeSalesOrderCreated), 1)
	assert.Len(t, registry.GetHandlers(trade.EventTypeSalesOrderStatusChanged), 1)
	assert.Empty(t, registry.GetHandlers(finance.EventTypeInvoiceWorkflowChanged))
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register(newTestHandler())

	assert.Len(t, registry.GetHandlers(trade.EventTypeSalesOrderCreated), 1)
	assert.Len(t, registry.GetHandlers("AnyEvent"), 1)
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newTestHandler(trade.EventTypeSalesOrderCreated)
	wildcard := newTestHandler()

	registry.Register(specific, trade.EventTypeSalesOrderCreated)
	registry.Register(wildcard)

	handlers := registry.GetHandlers(trade.EventTypeSalesOrderCreated)
	require.Len(t, handlers, 2)
	assert.Same(t, specific, handlers[0])
	assert.Same(t, wildcard, handlers[1])
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	t.Run("specific handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		first := newTestHandler(trade.EventTypeSalesOrderCreated)
		second := newTestHandler(trade.EventTypeSalesOrderCreated)
		registry.Register(first, trade.EventTypeSalesOrderCreated)
		registry.Register(second, trade.EventTypeSalesOrderCreated)

		registry.Unregister(first)

		handlers := registry.GetHandlers(trade.EventTypeSalesOrderCreated)
		require.Len(t, handlers, 1)
		assert.Same(t, second, handlers[0])
	})

	t.Run("wildcard handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		wildcard := newTestHandler()
		registry.Register(wildcard)

		registry.Unregister(wildcard)

		assert.Empty(t, registry.GetHandlers("AnyEvent"))
	})
}

func TestHandlerFunc(t *testing.T) {
	var seen []string
	handler := NewHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		seen = append(seen, event.EventType())
		return nil
	}, finance.EventTypeInvoiceWorkflowChanged, finance.EventTypeCreditNoteFinalized)

	assert.Equal(t, []string{finance.EventTypeInvoiceWorkflowChanged, finance.EventTypeCreditNoteFinalized}, handler.EventTypes())
	require.NoError(t, handler.Handle(context.Background(), newTestEvent(finance.EventTypeCreditNoteFinalized)))
	assert.Equal(t, []string{finance.EventTypeCreditNoteFinalized}, seen)
}
