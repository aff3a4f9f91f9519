package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

// The calculators in this package (and every domain package built on top of
// it) share one division policy: a non-positive denominator yields 0, never
// an error, NaN or Inf. Empty account sets, zero income, zero budgets and
// zero acquisition values are all expected states for a new user.

// SumWhere sums amount over the records matching keep. Amounts are summed
// as-is; callers supply the sign.
func SumWhere[T any](records []T, amount func(T) decimal.Decimal, keep func(T) bool) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if keep(r) {
			total = total.Add(amount(r))
		}
	}
	return total
}

// Percentage returns part/whole scaled to 0-100, or 0 when whole <= 0.
func Percentage(part, whole decimal.Decimal) float64 {
	if whole.Sign() <= 0 {
		return 0
	}
	return part.Div(whole).InexactFloat64() * 100
}

// Rate is the float64 counterpart of Percentage for values that are already
// scalars (KPI values, rates) rather than money.
func Rate(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return (part / whole) * 100
}

// GrowthRate returns the percentage change from previous to current,
// or 0 when previous <= 0.
func GrowthRate(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return ((current - previous) / previous) * 100
}

// AnnualizedReturn converts a total return over holdingYears into a
// compound annual percentage. The exponent 1/holdingYears is fractional,
// so this goes through math.Pow rather than repeated multiplication.
func AnnualizedReturn(currentValue, acquisitionValue, holdingYears float64) float64 {
	if holdingYears <= 0 || acquisitionValue <= 0 {
		return 0
	}
	return (math.Pow(currentValue/acquisitionValue, 1/holdingYears) - 1) * 100
}
