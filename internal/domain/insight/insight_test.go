package insight

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestBusinessSummary(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	s := NewBusinessSummary(now)
	assert.Equal(t, now.Add(-30*24*time.Hour), s.PeriodStart)

	t.Run("average basket", func(t *testing.T) {
		s.OrdersCount = 3
		s.RevenueTTC = d("100")
		s.Finalize()
		assert.Equal(t, "33.33", s.AverageBasket.StringFixed(2))
	})

	t.Run("no orders", func(t *testing.T) {
		empty := NewBusinessSummary(now)
		empty.Finalize()
		assert.True(t, empty.AverageBasket.IsZero())
		assert.True(t, empty.CommissionRate().IsZero())
		_, ok := empty.RevenueGrowth()
		assert.False(t, ok)
	})

	t.Run("occupancy", func(t *testing.T) {
		c := BusinessSummary{ActiveContracts: 2, TotalContracts: 3}
		assert.Equal(t, "67", c.OccupancyRate().String())
	})
}

func TestSortPredictions(t *testing.T) {
	predictions := []Prediction{
		{Title: "a", Confidence: 0.9, Impact: ImpactLow},      // 0.9
		{Title: "b", Confidence: 0.5, Impact: ImpactCritical}, // 2.0
		{Title: "c", Confidence: 0.8, Impact: ImpactHigh},     // 2.4
		{Title: "d", Confidence: 0.6, Impact: ImpactMedium},   // 1.2
	}
	SortPredictions(predictions)

	titles := make([]string, len(predictions))
	for i, p := range predictions {
		titles[i] = p.Title
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, titles)
}

func TestPruneExpired(t *testing.T) {
	now := time.Now()
	predictions := []Prediction{
		{Title: "expired", ValidUntil: now.Add(-time.Minute)},
		{Title: "boundary", ValidUntil: now},
		{Title: "valid", ValidUntil: now.Add(time.Hour)},
	}
	kept := PruneExpired(predictions, now)
	require.Len(t, kept, 1)
	assert.Equal(t, "valid", kept[0].Title)
}

func TestHorizon_Duration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Horizon24h.Duration())
	assert.Equal(t, 90*24*time.Hour, Horizon90d.Duration())
	assert.Zero(t, Horizon("1y").Duration())
}

func TestRevenueTrendRule(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name          string
		current, prev string
		impact        Impact
		trend         Trend
	}{
		{"sharp drop", "700", "1000", ImpactCritical, TrendDeclining},
		{"drop", "850", "1000", ImpactHigh, TrendDeclining},
		{"slight drop", "970", "1000", ImpactMedium, TrendStable},
		{"growth", "1200", "1000", ImpactLow, TrendImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := RevenueTrendRule(BusinessSummary{RevenueHT: d(tt.current), PreviousRevenueHT: d(tt.prev)}, now)
			require.True(t, ok)
			assert.Equal(t, PredictionTypeRevenue, p.Type)
			assert.Equal(t, tt.impact, p.Impact)
			assert.Equal(t, tt.trend, p.Trend)
			assert.Equal(t, now.Add(30*24*time.Hour), p.ValidUntil)
			assert.NotEmpty(t, p.RecommendedActions)
		})
	}

	t.Run("no previous revenue", func(t *testing.T) {
		_, ok := RevenueTrendRule(BusinessSummary{RevenueHT: d("10")}, now)
		assert.False(t, ok)
	})
}

func TestCommissionRateRule(t *testing.T) {
	now := time.Now()
	p, ok := CommissionRateRule(BusinessSummary{OrdersCount: 100, RevenueHT: d("1000"), TotalCommission: d("200")}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactHigh, p.Impact)
	assert.Equal(t, "20", p.PredictedValue.String())
	assert.InDelta(t, 0.95, p.Confidence, 1e-9)

	p, ok = CommissionRateRule(BusinessSummary{OrdersCount: 10, RevenueHT: d("1000"), TotalCommission: d("50")}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactLow, p.Impact)
	assert.InDelta(t, 0.65, p.Confidence, 1e-9)

	_, ok = CommissionRateRule(BusinessSummary{}, now)
	assert.False(t, ok)
}

func TestOpenInvoicesRule(t *testing.T) {
	now := time.Now()
	p, ok := OpenInvoicesRule(BusinessSummary{OpenInvoicesAmount: d("600"), RevenueTTC: d("1000")}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactHigh, p.Impact)

	p, ok = OpenInvoicesRule(BusinessSummary{OpenInvoicesAmount: d("300"), RevenueTTC: d("1000")}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactMedium, p.Impact)

	p, ok = OpenInvoicesRule(BusinessSummary{OpenInvoicesAmount: d("300")}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactHigh, p.Impact)

	_, ok = OpenInvoicesRule(BusinessSummary{RevenueTTC: d("1000")}, now)
	assert.False(t, ok)
}

func TestOccupancyRule(t *testing.T) {
	now := time.Now()
	p, ok := OccupancyRule(BusinessSummary{ActiveContracts: 1, TotalContracts: 4}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactHigh, p.Impact)
	assert.Equal(t, PredictionTypeStability, p.Type)

	p, ok = OccupancyRule(BusinessSummary{ActiveContracts: 4, TotalContracts: 4}, now)
	require.True(t, ok)
	assert.Equal(t, ImpactLow, p.Impact)

	_, ok = OccupancyRule(BusinessSummary{}, now)
	assert.False(t, ok)
}

func TestEvaluate(t *testing.T) {
	now := time.Now()
	s := BusinessSummary{
		OrdersCount:        40,
		RevenueHT:          d("700"),
		PreviousRevenueHT:  d("1000"),
		RevenueTTC:         d("840"),
		TotalCommission:    d("50"),
		OpenInvoicesAmount: d("100"),
		ActiveCollections:  12,
	}
	predictions := Evaluate(s, now, DefaultRules)

	require.Len(t, predictions, 4)
	assert.Equal(t, PredictionTypeRevenue, predictions[0].Type)
	for i := 1; i < len(predictions); i++ {
		assert.GreaterOrEqual(t, predictions[i-1].Score(), predictions[i].Score())
	}
}
