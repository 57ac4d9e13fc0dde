package valueobject

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places amounts are rounded to
const MoneyPlaces = 2

// DefaultCurrency is the ISO 4217 currency of the business
const DefaultCurrency = "EUR"

var hundred = decimal.NewFromInt(100)

// DefaultVATRate is the French standard VAT rate as a fraction
var DefaultVATRate = decimal.NewFromFloat(0.2)

// RoundMoney rounds an amount half away from zero to two places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// PercentToRate converts 20 into 0.2
func PercentToRate(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// RateToPercent converts 0.2 into 20
func RateToPercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(hundred)
}

// SumMoney adds amounts and rounds the result
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return RoundMoney(total)
}

// IsRate reports whether d lies in [0, 1]
func IsRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
