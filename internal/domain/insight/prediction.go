package insight

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PredictionType categorises a prediction
type PredictionType string

const (
	PredictionTypePerformance PredictionType = "performance"
	PredictionTypeStability   PredictionType = "stability"
	PredictionTypeUserImpact  PredictionType = "user_impact"
	PredictionTypeRevenue     PredictionType = "revenue"
	PredictionTypeOperational PredictionType = "operational"
)

// IsValid checks the prediction type
func (t PredictionType) IsValid() bool {
	switch t {
	case PredictionTypePerformance, PredictionTypeStability, PredictionTypeUserImpact,
		PredictionTypeRevenue, PredictionTypeOperational:
		return true
	}
	return false
}

// Impact is the severity of a prediction
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// Weight ranks impacts for ordering
func (i Impact) Weight() int {
	switch i {
	case ImpactCritical:
		return 4
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// Horizon is the time span a prediction applies to
type Horizon string

const (
	Horizon24h Horizon = "24h"
	Horizon7d  Horizon = "7d"
	Horizon30d Horizon = "30d"
	Horizon90d Horizon = "90d"
)

// Duration converts the horizon to a duration
func (h Horizon) Duration() time.Duration {
	switch h {
	case Horizon24h:
		return 24 * time.Hour
	case Horizon7d:
		return 7 * 24 * time.Hour
	case Horizon30d:
		return 30 * 24 * time.Hour
	case Horizon90d:
		return 90 * 24 * time.Hour
	}
	return 0
}

// Trend is the direction of the measured indicator
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Prediction is a non-authoritative, rule-derived business signal
type Prediction struct {
	ID                 uuid.UUID       `json:"id"`
	Type               PredictionType  `json:"type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Confidence         float64         `json:"confidence"`
	Impact             Impact          `json:"impact"`
	Horizon            Horizon         `json:"horizon"`
	PredictedValue     decimal.Decimal `json:"predicted_value"`
	BaselineValue      decimal.Decimal `json:"baseline_value"`
	Trend              Trend           `json:"trend"`
	RecommendedActions []string        `json:"recommended_actions"`
	CreatedAt          time.Time       `json:"created_at"`
	ValidUntil         time.Time       `json:"valid_until"`
}

// Score is confidence weighted by impact
func (p Prediction) Score() float64 {
	return p.Confidence * float64(p.Impact.Weight())
}

// IsExpired reports whether the prediction is past its validity
func (p Prediction) IsExpired(at time.Time) bool {
	return !p.ValidUntil.After(at)
}

// SortPredictions orders predictions by score, highest first
func SortPredictions(predictions []Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score() > predictions[j].Score()
	})
}

// PruneExpired returns the predictions still valid at the given time
func PruneExpired(predictions []Prediction, at time.Time) []Prediction {
	kept := make([]Prediction, 0, len(predictions))
	for _, p := range predictions {
		if !p.IsExpired(at) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Snapshot is the latest output of a prediction run
type Snapshot struct {
	Summary     BusinessSummary `json:"summary"`
	Predictions []Prediction    `json:"predictions"`
	GeneratedAt time.Time       `json:"generated_at"`
}
