package insight

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryWindow is the look-back period of a business summary
const SummaryWindow = 30 * 24 * time.Hour

// BusinessSummary aggregates persisted activity over the summary window
type BusinessSummary struct {
	PeriodStart        time.Time       `json:"period_start"`
	PeriodEnd          time.Time       `json:"period_end"`
	OrdersCount        int64           `json:"orders_count"`
	RevenueTTC         decimal.Decimal `json:"revenue_ttc"`
	RevenueHT          decimal.Decimal `json:"revenue_ht"`
	PreviousRevenueHT  decimal.Decimal `json:"previous_revenue_ht"`
	AverageBasket      decimal.Decimal `json:"average_basket"`
	TotalCommission    decimal.Decimal `json:"total_commission"`
	OpenInvoicesAmount decimal.Decimal `json:"open_invoices_amount"`
	ActiveCollections  int64           `json:"active_collections"`
	ActiveContracts    int64           `json:"active_contracts"`
	TotalContracts     int64           `json:"total_contracts"`
	ComputedAt         time.Time       `json:"computed_at"`
}

// NewBusinessSummary returns a summary covering the window ending at end
func NewBusinessSummary(end time.Time) BusinessSummary {
	return BusinessSummary{
		PeriodStart: end.Add(-SummaryWindow),
		PeriodEnd:   end,
		ComputedAt:  end,
	}
}

// Finalize derives the average basket from revenue and order count
func (s *BusinessSummary) Finalize() {
	s.AverageBasket = decimal.Zero
	if s.OrdersCount > 0 {
		s.AverageBasket = s.RevenueTTC.Div(decimal.NewFromInt(s.OrdersCount)).Round(2)
	}
}

// CommissionRate is total commission over HT revenue, zero without revenue
func (s BusinessSummary) CommissionRate() decimal.Decimal {
	if s.RevenueHT.IsZero() {
		return decimal.Zero
	}
	return s.TotalCommission.Div(s.RevenueHT)
}

// OccupancyRate is the share of active contracts in percent
func (s BusinessSummary) OccupancyRate() decimal.Decimal {
	if s.TotalContracts == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.ActiveContracts * 100).Div(decimal.NewFromInt(s.TotalContracts)).Round(0)
}

// RevenueGrowth is the relative HT revenue change against the previous window.
// The second value is false when there is no previous revenue to compare to.
func (s BusinessSummary) RevenueGrowth() (decimal.Decimal, bool) {
	if s.PreviousRevenueHT.IsZero() {
		return decimal.Zero, false
	}
	return s.RevenueHT.Sub(s.PreviousRevenueHT).Div(s.PreviousRevenueHT), true
}
