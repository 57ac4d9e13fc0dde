package insight

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule derives at most one prediction from a summary
type Rule func(s BusinessSummary, now time.Time) (Prediction, bool)

// DefaultRules are the fixed-threshold rules evaluated on every run
var DefaultRules = []Rule{
	RevenueTrendRule,
	CommissionRateRule,
	OpenInvoicesRule,
	OccupancyRule,
	CollectionsRule,
}

var (
	stableBand       = decimal.NewFromFloat(0.05)
	revenueCritical  = decimal.NewFromFloat(-0.20)
	revenueHigh      = decimal.NewFromFloat(-0.10)
	commissionHigh   = decimal.NewFromFloat(0.15)
	commissionMedium = decimal.NewFromFloat(0.10)
	openHigh         = decimal.NewFromFloat(0.50)
	openMedium       = decimal.NewFromFloat(0.25)
	hundred          = decimal.NewFromInt(100)
)

// Evaluate runs rules against the summary and returns ordered predictions
func Evaluate(s BusinessSummary, now time.Time, rules []Rule) []Prediction {
	predictions := make([]Prediction, 0, len(rules))
	for _, rule := range rules {
		if p, ok := rule(s, now); ok {
			predictions = append(predictions, p)
		}
	}
	SortPredictions(predictions)
	return predictions
}

func newPrediction(t PredictionType, h Horizon, now time.Time) Prediction {
	return Prediction{
		ID:         uuid.New(),
		Type:       t,
		Horizon:    h,
		Trend:      TrendStable,
		CreatedAt:  now,
		ValidUntil: now.Add(h.Duration()),
	}
}

// RevenueTrendRule compares HT revenue with the previous window
func RevenueTrendRule(s BusinessSummary, now time.Time) (Prediction, bool) {
	growth, ok := s.RevenueGrowth()
	if !ok {
		return Prediction{}, false
	}
	p := newPrediction(PredictionTypeRevenue, Horizon30d, now)
	p.Title = "Tendance du chiffre d'affaires"
	p.Confidence = 0.88
	p.PredictedValue = s.RevenueHT
	p.BaselineValue = s.PreviousRevenueHT
	p.Description = fmt.Sprintf("CA HT %s sur 30 jours contre %s la période précédente (%s%%)",
		s.RevenueHT.StringFixed(2), s.PreviousRevenueHT.StringFixed(2), growth.Mul(hundred).StringFixed(1))

	switch {
	case growth.LessThanOrEqual(revenueCritical):
		p.Impact = ImpactCritical
	case growth.LessThanOrEqual(revenueHigh):
		p.Impact = ImpactHigh
	case growth.IsNegative():
		p.Impact = ImpactMedium
	default:
		p.Impact = ImpactLow
	}
	p.Trend = trendOf(growth)
	if p.Trend == TrendDeclining {
		p.RecommendedActions = []string{
			"Relancer les affiliés LinkMe les moins actifs",
			"Mettre en avant les sélections publiques les plus vendues",
		}
	} else {
		p.RecommendedActions = []string{"Maintenir le rythme des campagnes en cours"}
	}
	return p, true
}

// CommissionRateRule flags a high share of revenue paid back to affiliates
func CommissionRateRule(s BusinessSummary, now time.Time) (Prediction, bool) {
	if s.OrdersCount == 0 {
		return Prediction{}, false
	}
	rate := s.CommissionRate()
	p := newPrediction(PredictionTypePerformance, Horizon7d, now)
	p.Title = "Poids des rétrocessions"
	p.Confidence = math.Min(0.95, 0.6+float64(s.OrdersCount)/200)
	p.PredictedValue = rate.Mul(hundred).Round(1)
	p.BaselineValue = commissionMedium.Mul(hundred)
	p.Description = fmt.Sprintf("Les commissions représentent %s%% du CA HT sur %d commandes",
		p.PredictedValue.StringFixed(1), s.OrdersCount)

	switch {
	case rate.GreaterThan(commissionHigh):
		p.Impact = ImpactHigh
		p.Trend = TrendDeclining
		p.RecommendedActions = []string{"Revoir les taux de marge par défaut des affiliés"}
	case rate.GreaterThan(commissionMedium):
		p.Impact = ImpactMedium
		p.RecommendedActions = []string{"Surveiller les sélections à forte rétrocession"}
	default:
		p.Impact = ImpactLow
		p.Trend = TrendImproving
	}
	return p, true
}

// OpenInvoicesRule compares outstanding invoices with recent revenue
func OpenInvoicesRule(s BusinessSummary, now time.Time) (Prediction, bool) {
	if s.OpenInvoicesAmount.IsZero() {
		return Prediction{}, false
	}
	p := newPrediction(PredictionTypeOperational, Horizon30d, now)
	p.Title = "Encours clients"
	p.Confidence = 0.82
	p.PredictedValue = s.OpenInvoicesAmount
	p.BaselineValue = s.RevenueTTC
	p.Description = fmt.Sprintf("%s EUR de factures non réglées pour %s EUR de CA TTC",
		s.OpenInvoicesAmount.StringFixed(2), s.RevenueTTC.StringFixed(2))

	ratio := decimal.NewFromInt(1)
	if !s.RevenueTTC.IsZero() {
		ratio = s.OpenInvoicesAmount.Div(s.RevenueTTC)
	}
	switch {
	case ratio.GreaterThan(openHigh):
		p.Impact = ImpactHigh
		p.Trend = TrendDeclining
		p.RecommendedActions = []string{"Relancer les factures échues", "Exiger un acompte pour les nouveaux clients"}
	case ratio.GreaterThan(openMedium):
		p.Impact = ImpactMedium
		p.RecommendedActions = []string{"Planifier les relances de paiement"}
	default:
		p.Impact = ImpactLow
	}
	return p, true
}

// OccupancyRule watches the share of active rental contracts
func OccupancyRule(s BusinessSummary, now time.Time) (Prediction, bool) {
	if s.TotalContracts == 0 {
		return Prediction{}, false
	}
	occupancy := s.OccupancyRate()
	p := newPrediction(PredictionTypeStability, Horizon90d, now)
	p.Title = "Occupation du parc en gestion"
	p.Confidence = 0.78
	p.PredictedValue = occupancy
	p.BaselineValue = decimal.NewFromInt(75)
	p.Description = fmt.Sprintf("%d contrats actifs sur %d (%s%%)", s.ActiveContracts, s.TotalContracts, occupancy.String())

	switch {
	case occupancy.LessThan(decimal.NewFromInt(50)):
		p.Impact = ImpactHigh
		p.Trend = TrendDeclining
		p.RecommendedActions = []string{"Prospecter de nouveaux propriétaires", "Renouveler les contrats arrivant à échéance"}
	case occupancy.LessThan(decimal.NewFromInt(75)):
		p.Impact = ImpactMedium
		p.RecommendedActions = []string{"Renouveler les contrats arrivant à échéance"}
	default:
		p.Impact = ImpactLow
		p.Trend = TrendImproving
	}
	return p, true
}

// CollectionsRule checks that curated collections are available to share
func CollectionsRule(s BusinessSummary, now time.Time) (Prediction, bool) {
	p := newPrediction(PredictionTypeUserImpact, Horizon24h, now)
	p.Title = "Collections disponibles"
	p.Confidence = 0.85
	p.PredictedValue = decimal.NewFromInt(s.ActiveCollections)
	p.BaselineValue = decimal.NewFromInt(5)
	p.Description = fmt.Sprintf("%d collections actives", s.ActiveCollections)

	switch {
	case s.ActiveCollections == 0:
		p.Impact = ImpactHigh
		p.Trend = TrendDeclining
		p.RecommendedActions = []string{"Créer au moins une collection par pièce principale"}
	case s.ActiveCollections < 5:
		p.Impact = ImpactMedium
		p.RecommendedActions = []string{"Enrichir le catalogue de collections thématiques"}
	default:
		p.Impact = ImpactLow
	}
	return p, true
}

func trendOf(change decimal.Decimal) Trend {
	switch {
	case change.GreaterThan(stableBand):
		return TrendImproving
	case change.LessThan(stableBand.Neg()):
		return TrendDeclining
	}
	return TrendStable
}
