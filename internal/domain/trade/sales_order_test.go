package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestOrder(t *testing.T) *SalesOrder {
	t.Helper()
	order, err := NewLinkMeOrder(FormatOrderNumber(2025, 1), CustomerTypeOrganization, uuid.New(), uuid.New(), DefaultFees())
	require.NoError(t, err)
	return order
}

func TestNewLinkMeOrder(t *testing.T) {
	t.Run("creates draft order on the LinkMe channel", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, "SO-2025-00001", order.OrderNumber)
		assert.Equal(t, LinkMeChannelID, order.ChannelID)
		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
		assert.True(t, order.TotalTTC.IsZero())
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeSalesOrderCreated, order.GetDomainEvents()[0].EventType())
	})

	tests := []struct {
		name         string
		customerType CustomerType
		customerID   uuid.UUID
		affiliateID  uuid.UUID
		msg          string
	}{
		{"missing organisation", CustomerTypeOrganization, uuid.Nil, uuid.New(), "Organisation ID is required"},
		{"missing individual", CustomerTypeIndividual, uuid.Nil, uuid.New(), "Individual customer ID is required"},
		{"missing affiliate", CustomerTypeOrganization, uuid.New(), uuid.Nil, "Affiliate ID is required"},
		{"unknown customer type", "company", uuid.New(), uuid.New(), "Unknown customer type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLinkMeOrder("SO-2025-00002", tt.customerType, tt.customerID, tt.affiliateID, DefaultFees())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSalesOrder_Totals(t *testing.T) {
	order := newTestOrder(t)
	fees := Fees{ShippingHT: dec("15"), InsuranceHT: dec("3.5"), HandlingHT: dec("1.5"), TaxRate: dec("0.2")}
	require.NoError(t, order.ApplyChanges(OrderChanges{Fees: &fees}))

	_, err := order.AddItem(ItemInput{
		ProductID: uuid.New(), ProductName: "Fauteuil", Quantity: 2,
		UnitPriceHT: dec("50"), BasePriceHT: dec("40"), RetrocessionRate: dec("0.15"),
	})
	require.NoError(t, err)
	reduced := dec("0.055")
	_, err = order.AddItem(ItemInput{
		ProductID: uuid.New(), ProductName: "Livre", Quantity: 1,
		UnitPriceHT: dec("80"), BasePriceHT: dec("70"), TaxRate: &reduced, RetrocessionRate: dec("0.1"),
	})
	require.NoError(t, err)

	// products 180, fees 20
	assert.Equal(t, "200.00", order.TotalHT.StringFixed(2))
	// 100*0.2 + 80*0.055 + 20*0.2 = 20 + 4.4 + 4
	assert.Equal(t, "28.40", order.TotalTVA.StringFixed(2))
	assert.Equal(t, "228.40", order.TotalTTC.StringFixed(2))

	// 2*40*0.15 = 12.00 ; 1*70*0.1 = 7.00
	assert.Equal(t, "12.00", order.Items[0].RetrocessionAmount.StringFixed(2))
	c := order.Commission()
	assert.Equal(t, "19.00", c.TotalCommission.StringFixed(2))
	assert.Equal(t, "181.00", c.NetBenefit.StringFixed(2))
}

func TestSalesOrder_CommissionExample(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.AddItem(ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPriceHT: dec("120"), BasePriceHT: dec("125"), RetrocessionRate: dec("0.1")})
	require.NoError(t, err)
	_, err = order.AddItem(ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPriceHT: dec("80"), BasePriceHT: dec("70"), RetrocessionRate: dec("0.1")})
	require.NoError(t, err)

	assert.Equal(t, "12.50", order.Items[0].RetrocessionAmount.StringFixed(2))
	assert.Equal(t, "7.00", order.Items[1].RetrocessionAmount.StringFixed(2))
	assert.Equal(t, "200.00", order.TotalHT.StringFixed(2))

	c := order.Commission()
	assert.Equal(t, "19.50", c.TotalCommission.StringFixed(2))
	assert.Equal(t, "180.50", c.NetBenefit.StringFixed(2))
}

func TestSalesOrder_ApplyChanges(t *testing.T) {
	order := newTestOrder(t)
	item, err := order.AddItem(ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPriceHT: dec("10"), BasePriceHT: dec("10"), RetrocessionRate: dec("0.5")})
	require.NoError(t, err)

	t.Run("updates quantity and price then recomputes", func(t *testing.T) {
		qty := 3
		price := dec("12")
		notes := "livraison au 2e"
		require.NoError(t, order.ApplyChanges(OrderChanges{
			Notes: &notes,
			Items: []ItemChange{{ItemID: item.ID, Quantity: &qty, UnitPriceHT: &price}},
		}))
		assert.Equal(t, "36.00", order.TotalHT.StringFixed(2))
		assert.Equal(t, "43.20", order.TotalTTC.StringFixed(2))
		assert.Equal(t, "15.00", order.Items[0].RetrocessionAmount.StringFixed(2))
		assert.Equal(t, notes, order.Notes)
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		before := order.TotalTTC
		require.NoError(t, order.ApplyChanges(OrderChanges{}))
		assert.True(t, before.Equal(order.TotalTTC))
	})

	t.Run("unknown item leaves order untouched", func(t *testing.T) {
		qty := 9
		err := order.ApplyChanges(OrderChanges{Items: []ItemChange{{ItemID: uuid.New(), Quantity: &qty}}})
		assert.Equal(t, "ITEM_NOT_FOUND", shared.ErrorCode(err))
		assert.Equal(t, 3, order.Items[0].Quantity)
	})

	t.Run("rejected once shipped", func(t *testing.T) {
		require.NoError(t, order.Validate())
		require.NoError(t, order.MarkShipped(false))
		err := order.ApplyChanges(OrderChanges{})
		assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
	})
}

func TestSalesOrder_Lifecycle(t *testing.T) {
	withItem := func(t *testing.T) *SalesOrder {
		order := newTestOrder(t)
		_, err := order.AddItem(ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPriceHT: dec("10"), BasePriceHT: dec("10"), RetrocessionRate: decimal.Zero})
		require.NoError(t, err)
		return order
	}

	t.Run("happy path with partial shipment", func(t *testing.T) {
		order := withItem(t)
		require.NoError(t, order.Validate())
		require.NoError(t, order.MarkShipped(true))
		assert.Equal(t, OrderStatusPartiallyShipped, order.Status)
		require.NoError(t, order.MarkShipped(false))
		require.NoError(t, order.MarkDelivered())
		assert.Equal(t, OrderStatusDelivered, order.Status)
		assert.NotNil(t, order.ValidatedAt)
		assert.NotNil(t, order.DeliveredAt)
	})

	t.Run("cannot validate without items", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, "NO_ITEMS", shared.ErrorCode(order.Validate()))
	})

	t.Run("cannot deliver a draft", func(t *testing.T) {
		order := withItem(t)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", shared.ErrorCode(order.MarkDelivered()))
	})

	t.Run("cancel from validated only once", func(t *testing.T) {
		order := withItem(t)
		require.NoError(t, order.Validate())
		require.NoError(t, order.Cancel("  client a annulé "))
		assert.Equal(t, "client a annulé", order.CancelReason)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", shared.ErrorCode(order.Cancel("")))
	})

	t.Run("cannot cancel a shipped order", func(t *testing.T) {
		order := withItem(t)
		require.NoError(t, order.Validate())
		require.NoError(t, order.MarkShipped(false))
		assert.Error(t, order.Cancel(""))
	})
}

func TestPaymentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentStatusPending, PaymentStatusPartial, true},
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusOverdue, true},
		{PaymentStatusPartial, PaymentStatusPaid, true},
		{PaymentStatusPartial, PaymentStatusOverdue, true},
		{PaymentStatusOverdue, PaymentStatusPartial, true},
		{PaymentStatusOverdue, PaymentStatusPaid, true},
		{PaymentStatusPaid, PaymentStatusRefunded, true},
		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
		{PaymentStatusPending, PaymentStatusRefunded, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			order := newTestOrder(t)
			order.PaymentStatus = tt.from
			err := order.UpdatePaymentStatus(tt.to)
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, order.PaymentStatus)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestOrderStatus_CountsAsRevenue(t *testing.T) {
	assert.False(t, OrderStatusDraft.CountsAsRevenue())
	assert.False(t, OrderStatusCancelled.CountsAsRevenue())
	assert.True(t, OrderStatusValidated.CountsAsRevenue())
	assert.True(t, OrderStatusDelivered.CountsAsRevenue())
}
