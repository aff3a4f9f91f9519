package kpi

import (
	"github.com/shopspring/decimal"

	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/domain/metrics"
)

// The calculators below are pure functions over records the caller has
// already fetched. They never hit storage themselves.

// NetWorth is total asset value minus total liability amount, taken at
// face value rather than replayed historically.
func NetWorth(assets []*asset.Asset, liabilities []*liability.Liability) decimal.Decimal {
	totalAssets := metrics.SumWhere(assets,
		func(a *asset.Asset) decimal.Decimal { return a.Value },
		func(*asset.Asset) bool { return true })
	totalLiabilities := metrics.SumWhere(liabilities,
		func(l *liability.Liability) decimal.Decimal { return l.Amount },
		func(*liability.Liability) bool { return true })
	return totalAssets.Sub(totalLiabilities)
}

// SavingsRate is the share of income kept, as a percentage. Zero income
// yields zero, not an error.
func SavingsRate(income, expenses decimal.Decimal) float64 {
	return metrics.Percentage(income.Sub(expenses), income)
}

// GrowthRates walks a history in ascending date order. Monthly growth
// compares the last two entries; yearly growth compares the entry
// twelve back against the last, and stays zero until twelve exist.
func GrowthRates(history []*KPI) (monthly, yearly float64) {
	n := len(history)
	if n < 2 {
		return 0, 0
	}
	current := history[n-1].Value.InexactFloat64()
	monthly = metrics.GrowthRate(current, history[n-2].Value.InexactFloat64())
	if n >= historyWindow {
		yearly = metrics.GrowthRate(current, history[n-historyWindow].Value.InexactFloat64())
	}
	return monthly, yearly
}

// AverageValue is the arithmetic mean of a history's values, 0 when
// empty.
func AverageValue(history []*KPI) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range history {
		sum += k.Value.InexactFloat64()
	}
	return sum / float64(len(history))
}

// FIIndex is net worth as a percentage of the freedom number. A zero or
// negative freedom number yields 0 regardless of net worth sign.
func FIIndex(netWorth, freedomNumber float64) float64 {
	return metrics.Rate(netWorth, freedomNumber)
}

// FreedomNumber is the net worth needed to cover annualExpenses at the
// given withdrawal rate (a percentage).
func FreedomNumber(annualExpenses, withdrawalRate float64) float64 {
	if withdrawalRate <= 0 {
		return 0
	}
	return annualExpenses / (withdrawalRate / 100)
}

// HealthComponents scores net worth (0-40), savings rate (0-40) and FI
// progress (0-20) and returns the component breakdown with the total.
func HealthComponents(netWorth, savingsRate, fiIndex float64) ([]Component, float64) {
	var netWorthScore float64
	switch {
	case netWorth <= 0:
		netWorthScore = 0
	case netWorth < 10000:
		netWorthScore = 10
	case netWorth < 50000:
		netWorthScore = 20
	case netWorth < 100000:
		netWorthScore = 30
	default:
		netWorthScore = 40
	}

	var savingsRateScore float64
	if savingsRate > 0 {
		savingsRateScore = min(40, savingsRate)
	}

	var fiIndexScore float64
	if fiIndex > 0 {
		fiIndexScore = min(20, fiIndex/5)
	}

	components := []Component{
		{Name: "Net Worth", Score: netWorthScore, MaxScore: 40},
		{Name: "Savings Rate", Score: savingsRateScore, MaxScore: 40},
		{Name: "Financial Independence Progress", Score: fiIndexScore, MaxScore: 20},
	}
	return components, netWorthScore + savingsRateScore + fiIndexScore
}

// HealthStatus labels a health score.
func HealthStatus(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}
