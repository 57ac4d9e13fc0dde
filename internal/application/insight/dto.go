package insight

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/verone/backoffice/internal/domain/insight"
)

// PredictionFilter narrows the predictions returned by the API
type PredictionFilter struct {
	Type   string `form:"type" binding:"omitempty,oneof=performance stability user_impact revenue operational"`
	Impact string `form:"impact" binding:"omitempty,oneof=low medium high critical"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (f PredictionFilter) apply(predictions []insight.Prediction) []insight.Prediction {
	out := make([]insight.Prediction, 0, len(predictions))
	for _, p := range predictions {
		if f.Type != "" && string(p.Type) != f.Type {
			continue
		}
		if f.Impact != "" && string(p.Impact) != f.Impact {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// SummaryResponse is the business summary with its derived ratios
type SummaryResponse struct {
	insight.BusinessSummary
	CommissionRate decimal.Decimal  `json:"commission_rate"`
	OccupancyRate  decimal.Decimal  `json:"occupancy_rate"`
	RevenueGrowth  *decimal.Decimal `json:"revenue_growth,omitempty"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// ToSummaryResponse converts a snapshot summary to a response
func ToSummaryResponse(snapshot *insight.Snapshot) SummaryResponse {
	s := snapshot.Summary
	resp := SummaryResponse{
		BusinessSummary: s,
		CommissionRate:  s.CommissionRate().Round(4),
		OccupancyRate:   s.OccupancyRate(),
		GeneratedAt:     snapshot.GeneratedAt,
	}
	if growth, ok := s.RevenueGrowth(); ok {
		g := growth.Round(4)
		resp.RevenueGrowth = &g
	}
	return resp
}

// PredictionsResponse lists the live predictions of the latest run
type PredictionsResponse struct {
	Predictions []insight.Prediction `json:"predictions"`
	GeneratedAt time.Time            `json:"generated_at"`
	Total       int                  `json:"total"`
}

// RunResponse is the result of an on-demand run
type RunResponse struct {
	Summary     SummaryResponse      `json:"summary"`
	Predictions []insight.Prediction `json:"predictions"`
}
